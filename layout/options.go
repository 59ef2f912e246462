package layout

import (
	"github.com/ByLCY/carousel/theme"
	"github.com/ByLCY/carousel/typography"
)

// Options 配置一次 LayoutSlide 调用。零值即可用。
type Options struct {
	// Theme 为 nil 时使用默认主题。
	Theme *theme.Theme
	// Breaker 为 nil 时使用俄语词表的默认折行器。
	Breaker *typography.Breaker

	VerticalAlign   VerticalAlign
	HorizontalAlign Align

	// AllowOverflow 为 true 时不压缩溢出内容。
	AllowOverflow bool
	// DisableCompression 跳过空间分配阶段。
	DisableCompression bool
	// Remeasure 在字号被缩放后重新折行测量，得到精确高度。
	Remeasure   bool
	Compression CompressionPolicy
}
