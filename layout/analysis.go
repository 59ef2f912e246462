package layout

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/ByLCY/carousel/slide"
	"github.com/ByLCY/carousel/theme"
)

// ContentAreaFor 计算正文区域。页眉与页脚各占 2 × body.small 的高度。
func ContentAreaFor(canvasWidth, canvasHeight float64, th theme.Theme) ContentArea {
	padding := float64(th.Layout.Padding)
	header := HeaderHeight(th)
	return ContentArea{
		X:       padding,
		Y:       padding + header,
		Width:   canvasWidth - 2*padding,
		Height:  canvasHeight - 2*padding - 2*header,
		CenterX: canvasWidth / 2,
		CenterY: (canvasHeight-2*header)/2 + header + padding,
	}
}

// HeaderHeight 返回为页眉（或页脚）预留的高度。
func HeaderHeight(th theme.Theme) float64 {
	return float64(th.Typography.BodySizes.Small.Size) * 2
}

// Complexity 是内容复杂度分级。
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Analysis 是对幻灯片内容的粗略估计。
type Analysis struct {
	Type              slide.Type `json:"type"`
	HasTitle          bool       `json:"hasTitle"`
	HasText           bool       `json:"hasText"`
	TitleLength       int        `json:"titleLength"`
	TextLength        int        `json:"textLength"`
	Complexity        Complexity `json:"complexity"`
	EstimatedElements int        `json:"estimatedElements"`
	// ContentRatio 只作为对外的饱满度提示，不参与尺寸决策。
	ContentRatio float64 `json:"contentRatio"`
}

// Analyze 统计元素数与文本长度并给出复杂度。长度按字符（rune）计。
func Analyze(s slide.Slide) Analysis {
	a := Analysis{
		Type:        s.Type,
		HasTitle:    s.Title != "",
		HasText:     s.Text != "",
		TitleLength: utf8.RuneCountInString(s.Title),
		TextLength:  utf8.RuneCountInString(s.Text),
		Complexity:  ComplexityLow,
	}
	if a.HasTitle {
		a.EstimatedElements++
	}
	if a.HasText {
		paragraphs := len(strings.Split(s.Text, "\n\n"))
		bullets := strings.Count(s.Text, slide.BulletMarker)
		a.EstimatedElements += paragraphs + bullets
	}

	total := a.TitleLength + a.TextLength
	switch {
	case total > 500 || a.EstimatedElements > 5:
		a.Complexity = ComplexityHigh
	case total > 200 || a.EstimatedElements > 3:
		a.Complexity = ComplexityMedium
	}
	a.ContentRatio = math.Min(1, float64(total)/800)
	return a
}

// SpacingMode 决定容器间距取段落间距还是章节间距。
type SpacingMode string

const (
	SpacingTight  SpacingMode = "tight"
	SpacingNormal SpacingMode = "normal"
)

// Strategy 是按幻灯片类型与复杂度选定的只读布局策略。
type Strategy struct {
	Name              string      `json:"name"`
	SpacingMode       SpacingMode `json:"spacingMode"`
	FontScaling       bool        `json:"fontScaling"`
	AdaptiveSpacing   bool        `json:"adaptiveSpacing"`
	VerticalCentering bool        `json:"verticalCentering"`
}

// SelectStrategy 按类型查表：intro→centered-hero，quote→centered-quote，
// text 在高复杂度下为 compact-flow，否则为 generous-flow。
func SelectStrategy(a Analysis) Strategy {
	name := "generous-flow"
	switch a.Type {
	case slide.TypeIntro:
		name = "centered-hero"
	case slide.TypeQuote:
		name = "centered-quote"
	default:
		if a.Complexity == ComplexityHigh {
			name = "compact-flow"
		}
	}
	mode := SpacingNormal
	if a.Complexity == ComplexityHigh {
		mode = SpacingTight
	}
	return Strategy{
		Name:              name,
		SpacingMode:       mode,
		FontScaling:       true,
		AdaptiveSpacing:   true,
		VerticalCentering: a.Type == slide.TypeIntro || a.Type == slide.TypeQuote,
	}
}
