package renderer

import (
	"fmt"

	"github.com/ByLCY/carousel/layout"
	"github.com/ByLCY/carousel/slide"
	"github.com/ByLCY/carousel/typography"
)

// Page 是一张待输出的幻灯片及其布局结果。
type Page struct {
	Slide  slide.Slide
	Layout *layout.Result
	// Number 从 1 开始。
	Number int
	Total  int
	// Err 非空时输出错误占位页。
	Err error
}

// IsLast 报告该页是否为最后一页。
func (p Page) IsLast() bool { return p.Number >= p.Total }

// PageError 表示多页输出中某一页绘制失败，调用方可以把该页改为错误占位页后重试。
type PageError struct {
	Number int
	Err    error
}

func (e *PageError) Error() string { return fmt.Sprintf("绘制第 %d 页失败: %v", e.Number, e.Err) }

func (e *PageError) Unwrap() error { return e.Err }

// Renderer 将布局结果输出为最终文件，例如 PNG 或 PDF。
type Renderer interface {
	// Surface 返回新的测量面，测量面不能跨 goroutine 共享。
	Surface() typography.Surface
	// RenderPNG 绘制单页并编码为 PNG。
	RenderPNG(p Page) ([]byte, error)
	// RenderPDF 把多页合并为一个 PDF。单页失败时返回 *PageError。
	RenderPDF(pages []Page) ([]byte, error)
}
