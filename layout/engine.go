package layout

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ByLCY/carousel/slide"
	"github.com/ByLCY/carousel/theme"
	"github.com/ByLCY/carousel/typography"
)

// Result 是一张幻灯片的完整布局结果。
type Result struct {
	Tree        PositionedTree `json:"layoutTree"`
	ContentArea ContentArea    `json:"contentArea"`
	Analysis    Analysis       `json:"analysis"`
	Strategy    Strategy       `json:"strategy"`
	Compression Compression    `json:"compression"`
	Validation  Validation     `json:"validation"`
	Metrics     Metrics        `json:"metrics"`
}

var (
	defaultBreakerOnce sync.Once
	defaultBreaker     *typography.Breaker
)

// DefaultBreaker 返回进程内共享的默认折行器。
func DefaultBreaker() *typography.Breaker {
	defaultBreakerOnce.Do(func() {
		defaultBreaker = typography.NewBreaker(typography.Russian(), typography.DefaultScoring())
	})
	return defaultBreaker
}

// LayoutSlide 依次执行分析、构建、测量、分配、定位与校验。
// 内容问题不会返回错误，只体现在 Validation 中；错误仅来自非法输入或测量面。
func LayoutSlide(s typography.Surface, sl slide.Slide, canvasWidth, canvasHeight float64, opts Options) (*Result, error) {
	if s == nil {
		return nil, errors.New("测量面不能为空")
	}
	if canvasWidth <= 0 || canvasHeight <= 0 {
		return nil, fmt.Errorf("画布尺寸必须为正数: %gx%g", canvasWidth, canvasHeight)
	}
	th := theme.Default()
	if opts.Theme != nil {
		th = *opts.Theme
	}
	if err := th.Validate(); err != nil {
		return nil, err
	}
	b := opts.Breaker
	if b == nil {
		b = DefaultBreaker()
	}

	area := ContentAreaFor(canvasWidth, canvasHeight, th)
	if area.Width <= 0 || area.Height <= 0 {
		return nil, fmt.Errorf("画布 %gx%g 小于主题的内边距与页眉页脚之和", canvasWidth, canvasHeight)
	}

	analysis := Analyze(sl)
	strategy := SelectStrategy(analysis)
	tree := Build(sl, strategy, th)

	measured, err := Measure(s, b, tree, area)
	if err != nil {
		return nil, err
	}

	compression := Compression{Kind: CompressionNone, FontScale: 1, OriginalHeight: measured.TotalHeight(), Height: measured.TotalHeight()}
	if !opts.DisableCompression {
		measured, compression = Allocate(measured, area, opts.AllowOverflow, opts.Compression)
		if opts.Remeasure && compression.FontScale < 1 {
			spacing := measured.Spacing
			measured, err = Measure(s, b, unmeasure(measured), area)
			if err != nil {
				return nil, err
			}
			measured.Spacing = spacing
			compression.Height = measured.TotalHeight()
		}
	}

	positioned := Position(measured, area, opts.VerticalAlign, opts.HorizontalAlign)
	return &Result{
		Tree:        positioned,
		ContentArea: area,
		Analysis:    analysis,
		Strategy:    strategy,
		Compression: compression,
		Validation:  Validate(positioned, area),
		Metrics:     ComputeMetrics(positioned, area),
	}, nil
}

// unmeasure 去掉测量结果，保留（可能已缩放的）样式。
func unmeasure(t MeasuredTree) Tree {
	out := Tree{Direction: t.Direction, Spacing: t.Spacing, Children: make([]Element, len(t.Children))}
	for i, c := range t.Children {
		out.Children[i] = c.Element
	}
	return out
}
