package layout

// VerticalAlign 决定内容块在正文区域中的纵向位置；空值等同于 center。
type VerticalAlign string

const (
	VAlignTop    VerticalAlign = "top"
	VAlignCenter VerticalAlign = "center"
	VAlignBottom VerticalAlign = "bottom"
)

// Position 从起始 y 开始自上而下堆叠元素。hAlign 为空时使用每个元素自身的对齐方式。
func Position(tree MeasuredTree, area ContentArea, vAlign VerticalAlign, hAlign Align) PositionedTree {
	total := tree.TotalHeight()
	var y float64
	switch vAlign {
	case VAlignTop:
		y = area.Y
	case VAlignBottom:
		y = area.Bottom() - total
	default:
		y = area.Y + (area.Height-total)/2
	}

	out := PositionedTree{
		Direction: tree.Direction,
		Spacing:   tree.Spacing,
		Children:  make([]PositionedElement, 0, len(tree.Children)),
	}
	for _, el := range tree.Children {
		align := hAlign
		if align == "" {
			align = el.Style.Align
		}
		w, h := el.Measured.Width, el.Measured.Height
		x := area.X
		switch align {
		case AlignCenter:
			x = area.X + (area.Width-w)/2
		case AlignRight:
			x = area.Right() - w
		}
		out.Children = append(out.Children, PositionedElement{
			MeasuredElement: el,
			Position:        Box{X: x, Y: y, Width: w, Height: h},
		})
		y += h + float64(tree.Spacing)
	}
	return out
}
