package typography

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Font 描述测量面上当前激活的字体。Size 以像素计。
type Font struct {
	Family string  `json:"family"`
	Weight string  `json:"weight"`
	Size   float64 `json:"size"`
}

// String 返回类似 CSS font 简写的描述，例如 "bold 120px Inter"。
func (f Font) String() string {
	weight := strings.TrimSpace(f.Weight)
	if weight == "" {
		weight = "regular"
	}
	return fmt.Sprintf("%s %spx %s", weight, strconv.FormatFloat(f.Size, 'f', -1, 64), f.Family)
}

// Measurer 报告字符串在当前字体下的像素宽度。
type Measurer interface {
	MeasureText(s string) float64
}

// Surface 是布局所需的测量面：可切换字体并测量字符串宽度。
// Surface 不要求并发安全，每个并发任务应持有自己的实例。
type Surface interface {
	Measurer
	SetFont(f Font) error
}

// FaceResolver 把字体描述解析为 x/image 的 font.Face。
type FaceResolver func(Font) (font.Face, error)

// FaceSurface 基于 golang.org/x/image/font 实现 Surface。
// 未提供解析器时使用等宽的 basicfont.Face7x13，便于得到确定的测量结果。
type FaceSurface struct {
	resolve FaceResolver
	current Font
	face    font.Face
}

var _ Surface = (*FaceSurface)(nil)

// NewFaceSurface 创建测量面，resolve 可以为 nil。
func NewFaceSurface(resolve FaceResolver) *FaceSurface {
	return &FaceSurface{resolve: resolve, face: basicfont.Face7x13}
}

// SetFont 切换当前字体。
func (s *FaceSurface) SetFont(f Font) error {
	if f.Size <= 0 {
		return fmt.Errorf("字体 %s 的字号必须为正数", f)
	}
	s.current = f
	if s.resolve == nil {
		s.face = basicfont.Face7x13
		return nil
	}
	face, err := s.resolve(f)
	if err != nil {
		return fmt.Errorf("解析字体 %s 失败: %w", f, err)
	}
	s.face = face
	return nil
}

// Current 返回最近一次设置的字体。
func (s *FaceSurface) Current() Font { return s.current }

// MeasureText 返回 s 的前进宽度（像素）。
func (s *FaceSurface) MeasureText(str string) float64 {
	if str == "" {
		return 0
	}
	return float64(font.MeasureString(s.face, str)) / 64
}
