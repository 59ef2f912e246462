package layout

import (
	"math"

	"github.com/ByLCY/carousel/typography"
)

// 该文件定义布局树在三个阶段的形态：Tree（构建）→ MeasuredTree（测量）→ PositionedTree（定位）。
// 每个阶段返回新值，不回写上一阶段的数据。

// ElementType 是布局元素类型。
type ElementType string

const (
	ElementContainer ElementType = "container"
	ElementTitle     ElementType = "title"
	ElementParagraph ElementType = "paragraph"
	ElementList      ElementType = "list"
)

// Align 是元素的水平对齐方式。
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Style 描述元素的字体与颜色角色。Size 为整数像素。
type Style struct {
	Family        string  `json:"font"`
	Size          int     `json:"size"`
	Weight        string  `json:"weight"`
	LineHeight    float64 `json:"lineHeight"`
	LetterSpacing float64 `json:"letterSpacing"`
	Color         string  `json:"color"`
	Align         Align   `json:"align,omitempty"`
	BulletStyle   string  `json:"bulletStyle,omitempty"`
	Indent        float64 `json:"indent,omitempty"`
}

// Face 返回测量面使用的字体描述。
func (s Style) Face() typography.Font {
	return typography.Font{Family: s.Family, Weight: s.Weight, Size: float64(s.Size)}
}

// LinePitch 返回行距（像素），即 round(size × lineHeight)。
func (s Style) LinePitch() float64 {
	return math.Round(float64(s.Size) * s.LineHeight)
}

// ItemGap 返回列表项之间的间距。
func (s Style) ItemGap() float64 {
	return float64(s.Size) * listItemGapRatio
}

// Element 是构建阶段的叶子元素。标题与段落使用 Content，列表使用 Items。
type Element struct {
	Type    ElementType `json:"type"`
	Content string      `json:"content,omitempty"`
	Items   []string    `json:"items,omitempty"`
	Style   Style       `json:"style"`
}

// Tree 是根容器：纵向排列的子元素与它们之间的间距。
type Tree struct {
	Direction string    `json:"direction"`
	Spacing   int       `json:"spacing"`
	Children  []Element `json:"children"`
}

// ItemMeasurement 是列表中单个条目的测量结果。
type ItemMeasurement struct {
	Text   string   `json:"text"`
	Lines  []string `json:"lines"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
}

// Measurement 是测量阶段写入的尺寸信息。
type Measurement struct {
	Lines       []string            `json:"lines,omitempty"`
	Width       float64             `json:"width"`
	Height      float64             `json:"height"`
	Metrics     *typography.Metrics `json:"metrics,omitempty"`
	Items       []ItemMeasurement   `json:"items,omitempty"`
	BulletWidth float64             `json:"bulletWidth,omitempty"`
}

// LineCount 返回元素的总行数，列表为各条目之和。
func (m Measurement) LineCount() int {
	if len(m.Items) == 0 {
		return len(m.Lines)
	}
	n := 0
	for _, it := range m.Items {
		n += len(it.Lines)
	}
	return n
}

type MeasuredElement struct {
	Element
	Measured Measurement `json:"measured"`
}

type MeasuredTree struct {
	Direction string            `json:"direction"`
	Spacing   int               `json:"spacing"`
	Children  []MeasuredElement `json:"children"`
}

// TotalHeight 返回全部子元素高度与元素间距之和。
func (t MeasuredTree) TotalHeight() float64 {
	var total float64
	for _, c := range t.Children {
		total += c.Measured.Height
	}
	if n := len(t.Children); n > 1 {
		total += float64(n-1) * float64(t.Spacing)
	}
	return total
}

// Box 是画布坐标中的矩形，原点在左上角，单位为像素。
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type PositionedElement struct {
	MeasuredElement
	Position Box `json:"position"`
}

type PositionedTree struct {
	Direction string              `json:"direction"`
	Spacing   int                 `json:"spacing"`
	Children  []PositionedElement `json:"children"`
}

// Measured 去掉位置信息，返回对应的 MeasuredTree。
func (t PositionedTree) Measured() MeasuredTree {
	out := MeasuredTree{Direction: t.Direction, Spacing: t.Spacing, Children: make([]MeasuredElement, len(t.Children))}
	for i, c := range t.Children {
		out.Children[i] = c.MeasuredElement
	}
	return out
}

// ContentArea 是扣除内边距、页眉与页脚后可用于正文的区域。
type ContentArea struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	CenterX float64 `json:"centerX"`
	CenterY float64 `json:"centerY"`
}

func (a ContentArea) Right() float64  { return a.X + a.Width }
func (a ContentArea) Bottom() float64 { return a.Y + a.Height }
