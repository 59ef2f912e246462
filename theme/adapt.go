package theme

import "math"

// BaseCanvasWidth 是内置主题设计时的画布宽度。
const BaseCanvasWidth = 1600

// Adapt 按 canvasWidth/BaseCanvasWidth 缩放字号、间距与版式，返回新主题。
// 行高、字距与比例类参数不变。
func Adapt(t Theme, canvasWidth int) Theme {
	out := t.Clone()
	if canvasWidth <= 0 {
		return out
	}
	scale := float64(canvasWidth) / BaseCanvasWidth
	px := func(v int) int { return int(math.Round(float64(v) * scale)) }
	sz := func(s *TextStyle) {
		s.Size = max(1, px(s.Size))
	}

	ty := &out.Typography
	sz(&ty.TitleSizes.H1)
	sz(&ty.TitleSizes.H2)
	sz(&ty.TitleSizes.H3)
	sz(&ty.BodySizes.Large)
	sz(&ty.BodySizes.Medium)
	sz(&ty.BodySizes.Small)
	sz(&ty.QuoteSizes.Large)
	sz(&ty.QuoteSizes.Small)

	for i, v := range out.Spacing.Scale {
		out.Spacing.Scale[i] = px(v)
	}
	out.Spacing.Scale = dedupeScale(out.Spacing.Scale)
	out.Spacing.Section = px(out.Spacing.Section)
	out.Spacing.Paragraph = px(out.Spacing.Paragraph)
	out.Spacing.Line = px(out.Spacing.Line)

	out.Layout.Padding = px(out.Layout.Padding)
	out.Layout.ContentWidth = canvasWidth - 2*out.Layout.Padding
	out.Layout.BorderRadius = px(out.Layout.BorderRadius)
	return out
}

// dedupeScale 去掉缩小后因取整而重复的刻度，保持严格递增。
func dedupeScale(scale []int) []int {
	out := scale[:0]
	for i, v := range scale {
		if i > 0 && v <= out[len(out)-1] {
			continue
		}
		out = append(out, v)
	}
	return out
}

// ClampSizes 把所有字号限制在 [minSize, maxSize] 内；上限为 0 表示不限制。
func ClampSizes(t Theme, minSize, maxSize int) Theme {
	out := t.Clone()
	clamp := func(s *TextStyle) {
		if minSize > 0 {
			s.Size = max(s.Size, minSize)
		}
		if maxSize > 0 {
			s.Size = min(s.Size, maxSize)
		}
	}
	ty := &out.Typography
	for _, s := range []*TextStyle{
		&ty.TitleSizes.H1, &ty.TitleSizes.H2, &ty.TitleSizes.H3,
		&ty.BodySizes.Large, &ty.BodySizes.Medium, &ty.BodySizes.Small,
		&ty.QuoteSizes.Large, &ty.QuoteSizes.Small,
	} {
		clamp(s)
	}
	return out
}
