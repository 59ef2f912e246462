package slide

// 该文件定义 Markdown 解析器产出、布局引擎只读消费的幻灯片记录。

// Type 是幻灯片类型。
type Type string

const (
	TypeIntro Type = "intro"
	TypeText  Type = "text"
	TypeQuote Type = "quote"
)

// Color 决定幻灯片使用默认背景还是强调色背景。
type Color string

const (
	ColorDefault Color = "default"
	ColorAccent  Color = "accent"
)

// Size 仅对引用幻灯片有意义：长引用使用 small。
type Size string

const (
	SizeNone  Size = ""
	SizeSmall Size = "small"
	SizeLarge Size = "large"
)

// BulletMarker 是正文中标记列表项的前缀。
const BulletMarker = "•"

// Slide 是一张幻灯片的内容描述。
type Slide struct {
	Type  Type   `json:"type"`
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`
	Color Color  `json:"color"`
	Size  Size   `json:"size,omitempty"`
}

// IsAccent 报告幻灯片是否使用强调色背景。
func (s Slide) IsAccent() bool { return s.Color == ColorAccent }
