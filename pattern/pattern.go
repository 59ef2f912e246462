// Package pattern 生成幻灯片背景上的装饰图案。
package pattern

import (
	"fmt"
	"image/color"
	"math/rand"

	"github.com/ByLCY/carousel/theme"
)

// Style 是图案样式。目前所有样式都退化为稀疏圆点。
type Style string

const (
	StyleAuto         Style = "auto"
	StyleSubtleDots   Style = "subtle_dots"
	StyleGradientMesh Style = "gradient_mesh"
)

// Intensity 控制圆点的不透明度。
type Intensity string

const (
	IntensityMonochrome Intensity = "monochrome"
	IntensitySubtle     Intensity = "subtle"
	IntensityVibrant    Intensity = "vibrant"
	IntensityGradient   Intensity = "gradient"
)

const (
	// MaxDots 是单张幻灯片的圆点上限。
	MaxDots = 100
	// AreaPerDot 是每个圆点对应的画布面积（像素²）。
	AreaPerDot = 25000
	// DefaultColor 是品牌色缺失或无法解析时使用的颜色。
	DefaultColor = "#6366F1"
)

var fallbackRGB = color.RGBA{R: 100, G: 102, B: 241, A: 255}

// ValidStyle 报告 s 是否为已知样式，空值视为 auto。
func ValidStyle(s Style) bool {
	switch s {
	case "", StyleAuto, StyleSubtleDots, StyleGradientMesh:
		return true
	}
	return false
}

// ValidIntensity 报告 i 是否为已知强度，空值视为 subtle。
func ValidIntensity(i Intensity) bool {
	switch i {
	case "", IntensityMonochrome, IntensitySubtle, IntensityVibrant, IntensityGradient:
		return true
	}
	return false
}

// Opacity 返回强度对应的不透明度，未知强度按 subtle 处理。
func Opacity(i Intensity) float64 {
	switch i {
	case IntensityMonochrome:
		return 0.015
	case IntensityVibrant:
		return 0.05
	case IntensityGradient:
		return 0.035
	default:
		return 0.025
	}
}

// Dot 是一个圆点，坐标以画布左上角为原点。
type Dot struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// Pattern 是生成结果。
type Pattern struct {
	Type    Style      `json:"type"`
	Color   color.RGBA `json:"-"`
	Opacity float64    `json:"opacity"`
	Dots    []Dot      `json:"-"`
	// Requested 是按面积计算的圆点数量。
	Requested int `json:"requested"`
}

// Elements 返回圆点数量。
func (p Pattern) Elements() int { return len(p.Dots) }

// Options 配置一次生成。Seed 相同则结果相同。
type Options struct {
	Intensity Intensity
	Color     string
	Seed      int64
}

// Generate 为 width×height 的画布生成圆点图案。
func Generate(width, height float64, opts Options) (Pattern, error) {
	if width <= 0 || height <= 0 {
		return Pattern{}, fmt.Errorf("图案尺寸无效: %gx%g", width, height)
	}
	p := Pattern{
		Type:    StyleSubtleDots,
		Color:   parseColor(opts.Color),
		Opacity: Opacity(opts.Intensity),
	}

	count := min(int(width*height/AreaPerDot), MaxDots)
	p.Requested = count
	if count <= 0 {
		return p, nil
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	p.Dots = make([]Dot, count)
	for i := range p.Dots {
		p.Dots[i] = Dot{
			X:      rng.Float64() * width,
			Y:      rng.Float64() * height,
			Radius: rng.Float64()*2 + 0.5,
		}
	}
	return p, nil
}

func parseColor(hex string) color.RGBA {
	if hex == "" {
		hex = DefaultColor
	}
	c, err := theme.ParseHex(hex)
	if err != nil {
		return fallbackRGB
	}
	return c
}
