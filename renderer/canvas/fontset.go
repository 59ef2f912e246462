package canvasrenderer

import (
	"fmt"
	"image/color"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/carousel/fonts"
	"github.com/ByLCY/carousel/typography"
)

// fontSet 按 (字体族, 字重) 缓存 canvas 字体族。不支持并发使用。
type fontSet struct {
	lib      *fonts.Library
	families map[string]*canvas.FontFamily
}

func newFontSet(lib *fonts.Library) *fontSet {
	return &fontSet{lib: lib, families: map[string]*canvas.FontFamily{}}
}

func (s *fontSet) face(f typography.Font, col color.Color) (*canvas.FontFace, error) {
	if f.Size <= 0 {
		return nil, fmt.Errorf("字体 %s 的字号必须为正数", f)
	}
	family, weight := s.lib.Match(f.Family, f.Weight)
	key := family + "|" + weight
	ff, ok := s.families[key]
	if !ok {
		data, err := s.lib.Bytes(family, weight)
		if err != nil {
			return nil, err
		}
		ff = canvas.NewFontFamily(key)
		if err := ff.LoadFont(data, 0, canvas.FontRegular); err != nil {
			return nil, fmt.Errorf("加载字体 %s 失败: %w", f, err)
		}
		s.families[key] = ff
	}
	return ff.Face(toPt(f.Size), col, canvas.FontRegular, canvas.FontNormal), nil
}

// Surface 用 canvas 字体度量实现 typography.Surface，宽度单位为像素。
type Surface struct {
	fonts   *fontSet
	current typography.Font
	face    *canvas.FontFace
}

var _ typography.Surface = (*Surface)(nil)

// NewSurface 创建测量面。
func NewSurface(lib *fonts.Library) *Surface {
	return &Surface{fonts: newFontSet(lib)}
}

// SetFont 切换当前字体。
func (s *Surface) SetFont(f typography.Font) error {
	face, err := s.fonts.face(f, canvas.Black)
	if err != nil {
		return err
	}
	s.current, s.face = f, face
	return nil
}

// MeasureText 返回字符串宽度；未设置字体时为 0。
func (s *Surface) MeasureText(str string) float64 {
	if s.face == nil || str == "" {
		return 0
	}
	return s.face.TextWidth(str)
}
