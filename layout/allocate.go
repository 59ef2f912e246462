package layout

import "math"

// CompressionPolicy 是溢出压缩的阈值与系数，均为经验值。
type CompressionPolicy struct {
	// SpacingThreshold 以上只缩小间距。
	SpacingThreshold float64 `json:"spacingThreshold" yaml:"spacing_threshold"`
	// FontThreshold 以上只缩放字号。
	FontThreshold float64 `json:"fontThreshold" yaml:"font_threshold"`

	SpacingFactor    float64 `json:"spacingFactor" yaml:"spacing_factor"`
	FontFactor       float64 `json:"fontFactor" yaml:"font_factor"`
	MinFontScale     float64 `json:"minFontScale" yaml:"min_font_scale"`
	AggressiveFactor float64 `json:"aggressiveFactor" yaml:"aggressive_factor"`
	AggressiveFont   float64 `json:"aggressiveFont" yaml:"aggressive_font"`
	AggressiveMin    float64 `json:"aggressiveMin" yaml:"aggressive_min"`
}

// DefaultCompressionPolicy 返回默认压缩参数。
func DefaultCompressionPolicy() CompressionPolicy {
	return CompressionPolicy{
		SpacingThreshold: 0.85,
		FontThreshold:    0.7,
		SpacingFactor:    0.7,
		FontFactor:       1.1,
		MinFontScale:     0.8,
		AggressiveFactor: 0.5,
		AggressiveFont:   1.2,
		AggressiveMin:    0.75,
	}
}

// CompressionKind 是实际采用的压缩策略。
type CompressionKind string

const (
	CompressionNone       CompressionKind = "none"
	CompressionSpacing    CompressionKind = "spacing"
	CompressionFont       CompressionKind = "font"
	CompressionAggressive CompressionKind = "aggressive"
)

// Compression 记录一次分配的决策，便于日志与调试。
type Compression struct {
	Kind           CompressionKind `json:"kind"`
	Ratio          float64         `json:"ratio"`
	FontScale      float64         `json:"fontScale"`
	OriginalHeight float64         `json:"originalHeight"`
	Height         float64         `json:"height"`
}

// Allocate 在总高度超出正文区域时按比例选择一种压缩策略，且只执行一次。
//
// 缩放字号时直接按比例缩放已测量的高度，不重新折行；这是一个近似，
// 需要精确结果时由调用方重新测量（见 Options.Remeasure）。
func Allocate(tree MeasuredTree, area ContentArea, allowOverflow bool, policy CompressionPolicy) (MeasuredTree, Compression) {
	if policy == (CompressionPolicy{}) {
		policy = DefaultCompressionPolicy()
	}
	total := tree.TotalHeight()
	c := Compression{Kind: CompressionNone, FontScale: 1, OriginalHeight: total, Height: total}
	if total > 0 {
		c.Ratio = area.Height / total
	}
	if total <= area.Height || allowOverflow {
		return tree, c
	}

	out := cloneMeasured(tree)
	switch {
	case c.Ratio > policy.SpacingThreshold:
		c.Kind = CompressionSpacing
		out.Spacing = shrinkSpacing(out.Spacing, policy.SpacingFactor)
	case c.Ratio > policy.FontThreshold:
		c.Kind = CompressionFont
		c.FontScale = math.Max(policy.MinFontScale, c.Ratio*policy.FontFactor)
		scaleTypography(&out, c.FontScale)
	default:
		c.Kind = CompressionAggressive
		out.Spacing = shrinkSpacing(out.Spacing, policy.AggressiveFactor)
		c.FontScale = math.Max(policy.AggressiveMin, c.Ratio*policy.AggressiveFont)
		scaleTypography(&out, c.FontScale)
	}
	c.Height = out.TotalHeight()
	return out, c
}

func shrinkSpacing(spacing int, factor float64) int {
	return min(spacing, int(math.Round(float64(spacing)*factor)))
}

// scaleTypography 缩放字号与已测量高度，两者都不会变大。
func scaleTypography(t *MeasuredTree, scale float64) {
	if scale >= 1 {
		return
	}
	for i := range t.Children {
		c := &t.Children[i]
		c.Style.Size = max(1, min(c.Style.Size, int(math.Round(float64(c.Style.Size)*scale))))
		c.Measured.Height = math.Min(c.Measured.Height, math.Round(c.Measured.Height*scale))
	}
}

func cloneMeasured(t MeasuredTree) MeasuredTree {
	out := t
	out.Children = append([]MeasuredElement(nil), t.Children...)
	return out
}
