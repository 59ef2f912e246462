package theme

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// ParseHex 解析 #RRGGBB 或 RRGGBB。
func ParseHex(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("颜色 %q 不是 #RRGGBB 格式", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("颜色 %q 不是 #RRGGBB 格式: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// Luminance 返回 WCAG 相对亮度。
func Luminance(c color.RGBA) float64 {
	channel := func(v uint8) float64 {
		f := float64(v) / 255
		if f <= 0.03928 {
			return f / 12.92
		}
		return math.Pow((f+0.055)/1.055, 2.4)
	}
	return 0.2126*channel(c.R) + 0.7152*channel(c.G) + 0.0722*channel(c.B)
}

// ContrastRatio 返回两个颜色的对比度，范围 [1,21]。
func ContrastRatio(a, b color.RGBA) float64 {
	la, lb := Luminance(a), Luminance(b)
	hi, lo := math.Max(la, lb), math.Min(la, lb)
	return (hi + 0.05) / (lo + 0.05)
}

// Rating 把对比度映射为 AAA/AA/A/Fail。
func Rating(ratio float64) string {
	switch {
	case ratio >= 7:
		return "AAA"
	case ratio >= 4.5:
		return "AA"
	case ratio >= 3:
		return "A"
	default:
		return "Fail"
	}
}

// ContrastColor 为背景色选择黑色或白色文字；无法解析时返回黑色。
func ContrastColor(background string) string {
	c, err := ParseHex(background)
	if err != nil {
		return "#000000"
	}
	if Luminance(c) > 0.5 {
		return "#000000"
	}
	return "#FFFFFF"
}

// ContrastCheck 是一组前景/背景组合的检查结果。
type ContrastCheck struct {
	Context    string  `json:"context"`
	Foreground string  `json:"foreground"`
	Background string  `json:"background"`
	Ratio      float64 `json:"ratio"`
	Rating     string  `json:"rating"`
	Accessible bool    `json:"accessible"`
}

// AnalyzeContrast 检查主题中主要的文字/背景组合。
func AnalyzeContrast(t Theme) ([]ContrastCheck, error) {
	pairs := []struct{ context, fg, bg string }{
		{"正文", t.Colors.Primary, t.Colors.Background},
		{"次要文字", t.Colors.Secondary, t.Colors.Background},
		{"强调色幻灯片", t.Colors.Background, t.Colors.Accent},
		{"表面上的文字", t.Colors.Primary, t.Colors.Surface},
	}
	out := make([]ContrastCheck, 0, len(pairs))
	for _, p := range pairs {
		fg, err := ParseHex(p.fg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.context, err)
		}
		bg, err := ParseHex(p.bg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.context, err)
		}
		ratio := ContrastRatio(fg, bg)
		out = append(out, ContrastCheck{
			Context:    p.context,
			Foreground: p.fg,
			Background: p.bg,
			Ratio:      math.Round(ratio*100) / 100,
			Rating:     Rating(ratio),
			Accessible: ratio >= 4.5,
		})
	}
	return out, nil
}
