package layout

import (
	"fmt"
	"math"

	"github.com/ByLCY/carousel/typography"
)

// textOptions 用于标题与段落：只防止悬挂词并使用 high 断词；列表条目使用零值选项。
var textOptions = typography.Options{
	PreventHanging:     true,
	HyphenationQuality: typography.HyphenationHigh,
}

// Measure 为每个元素设置字体并折行，返回带尺寸的新树。唯一的错误来源是测量面切换字体失败。
func Measure(s typography.Surface, b *typography.Breaker, tree Tree, area ContentArea) (MeasuredTree, error) {
	out := MeasuredTree{
		Direction: tree.Direction,
		Spacing:   tree.Spacing,
		Children:  make([]MeasuredElement, 0, len(tree.Children)),
	}
	for i, el := range tree.Children {
		if err := s.SetFont(el.Style.Face()); err != nil {
			return MeasuredTree{}, fmt.Errorf("测量第 %d 个元素（%s）时设置字体失败: %w", i, el.Type, err)
		}
		var m Measurement
		switch el.Type {
		case ElementList:
			m = measureList(s, b, el, area.Width)
		default:
			m = measureText(s, b, el, area.Width)
		}
		out.Children = append(out.Children, MeasuredElement{Element: el, Measured: m})
	}
	return out, nil
}

func measureText(s typography.Surface, b *typography.Breaker, el Element, maxWidth float64) Measurement {
	res := b.Optimize(s, el.Content, maxWidth, textOptions)
	metrics := res.Metrics
	return Measurement{
		Lines:   res.Lines,
		Width:   widest(s, res.Lines),
		Height:  float64(len(res.Lines)) * el.Style.LinePitch(),
		Metrics: &metrics,
	}
}

func measureList(s typography.Surface, b *typography.Breaker, el Element, maxWidth float64) Measurement {
	bulletWidth := s.MeasureText(el.Style.BulletStyle + " ")
	available := maxWidth - el.Style.Indent - bulletWidth
	pitch := el.Style.LinePitch()

	m := Measurement{BulletWidth: bulletWidth, Items: make([]ItemMeasurement, 0, len(el.Items))}
	for _, item := range el.Items {
		res := b.Optimize(s, item, available, typography.Options{})
		im := ItemMeasurement{
			Text:   item,
			Lines:  res.Lines,
			Width:  widest(s, res.Lines),
			Height: float64(len(res.Lines)) * pitch,
		}
		m.Items = append(m.Items, im)
		m.Height += im.Height
		m.Width = math.Max(m.Width, bulletWidth+el.Style.Indent+im.Width)
	}
	if n := len(m.Items); n > 1 {
		m.Height += float64(n-1) * el.Style.ItemGap()
	}
	return m
}

func widest(s typography.Measurer, lines []string) float64 {
	var w float64
	for _, l := range lines {
		w = math.Max(w, s.MeasureText(l))
	}
	return w
}
