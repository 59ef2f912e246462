package theme

import (
	"encoding/json"
	"errors"
	"fmt"
)

// TextStyle 是某一排版角色的字体参数。Size 以像素计。
type TextStyle struct {
	Size          int     `json:"size"`
	Weight        string  `json:"weight"`
	LineHeight    float64 `json:"lineHeight"`
	LetterSpacing float64 `json:"letterSpacing"`
}

type TitleSizes struct {
	H1 TextStyle `json:"h1"`
	H2 TextStyle `json:"h2"`
	H3 TextStyle `json:"h3"`
}

type BodySizes struct {
	Large  TextStyle `json:"large"`
	Medium TextStyle `json:"medium"`
	Small  TextStyle `json:"small"`
}

type QuoteSizes struct {
	Large TextStyle `json:"large"`
	Small TextStyle `json:"small"`
}

// Typography 描述字体族与各角色的字号。
type Typography struct {
	PrimaryFont   string     `json:"primaryFont"`
	SecondaryFont string     `json:"secondaryFont"`
	TitleSizes    TitleSizes `json:"titleSizes"`
	BodySizes     BodySizes  `json:"bodySizes"`
	QuoteSizes    QuoteSizes `json:"quoteSizes"`
}

// Quote 返回引用幻灯片对应尺寸的样式，未知尺寸取 large。
func (t Typography) Quote(size string) TextStyle {
	if size == "small" {
		return t.QuoteSizes.Small
	}
	return t.QuoteSizes.Large
}

// Colors 是语义色，取值为 #RRGGBB。
type Colors struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Surface    string `json:"surface"`
	Error      string `json:"error"`
	Success    string `json:"success"`
	Warning    string `json:"warning"`
}

// Role 按角色名返回颜色，未知角色返回 Primary。
func (c Colors) Role(name string) string {
	switch name {
	case "secondary":
		return c.Secondary
	case "accent":
		return c.Accent
	case "background":
		return c.Background
	case "surface":
		return c.Surface
	case "error":
		return c.Error
	case "success":
		return c.Success
	case "warning":
		return c.Warning
	default:
		return c.Primary
	}
}

// Spacing 描述间距；Scale 以 0 开头并严格递增。
type Spacing struct {
	BaseUnit  int   `json:"baseUnit"`
	Scale     []int `json:"scale"`
	Section   int   `json:"section"`
	Paragraph int   `json:"paragraph"`
	Line      int   `json:"line"`
}

type Layout struct {
	Padding         int     `json:"padding"`
	ContentWidth    int     `json:"contentWidth"`
	BorderRadius    int     `json:"borderRadius"`
	MaxContentRatio float64 `json:"maxContentRatio"`
}

// Theme 是一套完整的设计参数。
type Theme struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Typography  Typography `json:"typography"`
	Colors      Colors     `json:"colors"`
	Spacing     Spacing    `json:"spacing"`
	Layout      Layout     `json:"layout"`
}

// Clone 返回深拷贝。
func (t Theme) Clone() Theme {
	out := t
	out.Spacing.Scale = append([]int(nil), t.Spacing.Scale...)
	return out
}

// Merge 把 JSON 形式的覆盖项深度合并到 base 的拷贝上：对象逐字段合并，数组与标量整体替换。
func Merge(base Theme, overrides []byte) (Theme, error) {
	out := base.Clone()
	if len(overrides) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(overrides, &out); err != nil {
		return Theme{}, fmt.Errorf("合并主题覆盖项失败: %w", err)
	}
	if err := out.Validate(); err != nil {
		return Theme{}, err
	}
	return out, nil
}

// Validate 检查主题不变量：字号与行高为正、间距刻度以 0 开头且严格递增、颜色可解析。
func (t Theme) Validate() error {
	var errs []error
	styles := []struct {
		role  string
		style TextStyle
	}{
		{"titleSizes.h1", t.Typography.TitleSizes.H1},
		{"titleSizes.h2", t.Typography.TitleSizes.H2},
		{"titleSizes.h3", t.Typography.TitleSizes.H3},
		{"bodySizes.large", t.Typography.BodySizes.Large},
		{"bodySizes.medium", t.Typography.BodySizes.Medium},
		{"bodySizes.small", t.Typography.BodySizes.Small},
		{"quoteSizes.large", t.Typography.QuoteSizes.Large},
		{"quoteSizes.small", t.Typography.QuoteSizes.Small},
	}
	for _, s := range styles {
		if s.style.Size <= 0 {
			errs = append(errs, fmt.Errorf("%s 的字号必须为正整数，当前为 %d", s.role, s.style.Size))
		}
		if s.style.LineHeight <= 0 {
			errs = append(errs, fmt.Errorf("%s 的行高必须为正数，当前为 %g", s.role, s.style.LineHeight))
		}
	}
	if t.Typography.PrimaryFont == "" || t.Typography.SecondaryFont == "" {
		errs = append(errs, errors.New("主字体与辅助字体不能为空"))
	}

	scale := t.Spacing.Scale
	if len(scale) > 0 && scale[0] != 0 {
		errs = append(errs, fmt.Errorf("间距刻度必须以 0 开头，当前为 %d", scale[0]))
	}
	for i := 1; i < len(scale); i++ {
		if scale[i] <= scale[i-1] {
			errs = append(errs, fmt.Errorf("间距刻度必须严格递增: scale[%d]=%d 不大于 scale[%d]=%d", i, scale[i], i-1, scale[i-1]))
			break
		}
	}
	for _, v := range []struct {
		name  string
		value int
	}{
		{"spacing.baseUnit", t.Spacing.BaseUnit},
		{"spacing.section", t.Spacing.Section},
		{"spacing.paragraph", t.Spacing.Paragraph},
		{"spacing.line", t.Spacing.Line},
		{"layout.padding", t.Layout.Padding},
		{"layout.borderRadius", t.Layout.BorderRadius},
	} {
		if v.value < 0 {
			errs = append(errs, fmt.Errorf("%s 不能为负数，当前为 %d", v.name, v.value))
		}
	}
	if t.Layout.MaxContentRatio < 0 || t.Layout.MaxContentRatio > 1 {
		errs = append(errs, fmt.Errorf("layout.maxContentRatio 必须位于 [0,1]，当前为 %g", t.Layout.MaxContentRatio))
	}

	for _, c := range []struct{ role, value string }{
		{"primary", t.Colors.Primary},
		{"secondary", t.Colors.Secondary},
		{"accent", t.Colors.Accent},
		{"background", t.Colors.Background},
		{"surface", t.Colors.Surface},
	} {
		if _, err := ParseHex(c.value); err != nil {
			errs = append(errs, fmt.Errorf("颜色 %s: %w", c.role, err))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("主题 %q 无效: %w", t.Name, errors.Join(errs...))
}
