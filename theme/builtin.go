package theme

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownTheme 表示请求的内置主题不存在。
var ErrUnknownTheme = errors.New("未知主题")

// DefaultName 是默认主题名。
const DefaultName = "minimal"

func minimal() Theme {
	return Theme{
		Name:        "minimal",
		Description: "干净的现代设计",
		Typography: Typography{
			PrimaryFont:   "Inter",
			SecondaryFont: "Inter",
			TitleSizes: TitleSizes{
				H1: TextStyle{Size: 120, Weight: "bold", LineHeight: 1.1, LetterSpacing: -0.02},
				H2: TextStyle{Size: 84, Weight: "semibold", LineHeight: 1.2, LetterSpacing: -0.01},
				H3: TextStyle{Size: 64, Weight: "medium", LineHeight: 1.3},
			},
			BodySizes: BodySizes{
				Large:  TextStyle{Size: 56, Weight: "regular", LineHeight: 1.4},
				Medium: TextStyle{Size: 48, Weight: "regular", LineHeight: 1.5},
				Small:  TextStyle{Size: 40, Weight: "regular", LineHeight: 1.6, LetterSpacing: 0.01},
			},
			QuoteSizes: QuoteSizes{
				Large: TextStyle{Size: 72, Weight: "medium", LineHeight: 1.3},
				Small: TextStyle{Size: 56, Weight: "medium", LineHeight: 1.4},
			},
		},
		Colors: Colors{
			Primary:    "#000000",
			Secondary:  "#666666",
			Accent:     "#6366F1",
			Background: "#FFFFFF",
			Surface:    "#F8F9FA",
			Error:      "#EF4444",
			Success:    "#10B981",
			Warning:    "#F59E0B",
		},
		Spacing: Spacing{
			BaseUnit:  8,
			Scale:     []int{0, 8, 16, 24, 32, 48, 64, 96, 128, 192},
			Section:   80,
			Paragraph: 24,
			Line:      8,
		},
		Layout: Layout{Padding: 144, ContentWidth: 1312, BorderRadius: 64, MaxContentRatio: 0.75},
	}
}

func corporate() Theme {
	return Theme{
		Name:        "corporate",
		Description: "专业的商务风格",
		Typography: Typography{
			PrimaryFont:   "Montserrat",
			SecondaryFont: "Roboto",
			TitleSizes: TitleSizes{
				H1: TextStyle{Size: 112, Weight: "bold", LineHeight: 1.15, LetterSpacing: -0.015},
				H2: TextStyle{Size: 80, Weight: "bold", LineHeight: 1.25, LetterSpacing: -0.01},
				H3: TextStyle{Size: 60, Weight: "semibold", LineHeight: 1.3},
			},
			BodySizes: BodySizes{
				Large:  TextStyle{Size: 52, Weight: "regular", LineHeight: 1.45},
				Medium: TextStyle{Size: 44, Weight: "regular", LineHeight: 1.5},
				Small:  TextStyle{Size: 36, Weight: "regular", LineHeight: 1.6, LetterSpacing: 0.01},
			},
			QuoteSizes: QuoteSizes{
				Large: TextStyle{Size: 68, Weight: "semibold", LineHeight: 1.35},
				Small: TextStyle{Size: 52, Weight: "medium", LineHeight: 1.45},
			},
		},
		Colors: Colors{
			Primary:    "#1E293B",
			Secondary:  "#64748B",
			Accent:     "#3B82F6",
			Background: "#FFFFFF",
			Surface:    "#F1F5F9",
			Error:      "#DC2626",
			Success:    "#059669",
			Warning:    "#D97706",
		},
		Spacing: Spacing{
			BaseUnit:  8,
			Scale:     []int{0, 8, 16, 24, 32, 48, 64, 80, 112, 160},
			Section:   88,
			Paragraph: 28,
			Line:      12,
		},
		Layout: Layout{Padding: 160, ContentWidth: 1280, BorderRadius: 48, MaxContentRatio: 0.8},
	}
}

func creative() Theme {
	return Theme{
		Name:        "creative",
		Description: "明亮而富有表现力",
		Typography: Typography{
			PrimaryFont:   "Montserrat",
			SecondaryFont: "Inter",
			TitleSizes: TitleSizes{
				H1: TextStyle{Size: 132, Weight: "black", LineHeight: 1.05, LetterSpacing: -0.025},
				H2: TextStyle{Size: 92, Weight: "bold", LineHeight: 1.15, LetterSpacing: -0.015},
				H3: TextStyle{Size: 68, Weight: "bold", LineHeight: 1.25, LetterSpacing: -0.005},
			},
			BodySizes: BodySizes{
				Large:  TextStyle{Size: 60, Weight: "regular", LineHeight: 1.35},
				Medium: TextStyle{Size: 52, Weight: "regular", LineHeight: 1.4},
				Small:  TextStyle{Size: 44, Weight: "regular", LineHeight: 1.5},
			},
			QuoteSizes: QuoteSizes{
				Large: TextStyle{Size: 84, Weight: "bold", LineHeight: 1.2, LetterSpacing: -0.01},
				Small: TextStyle{Size: 64, Weight: "semibold", LineHeight: 1.3},
			},
		},
		Colors: Colors{
			Primary:    "#0F172A",
			Secondary:  "#475569",
			Accent:     "#8B5CF6",
			Background: "#FFFFFF",
			Surface:    "#F8FAFC",
			Error:      "#F87171",
			Success:    "#34D399",
			Warning:    "#FBBF24",
		},
		Spacing: Spacing{
			BaseUnit:  12,
			Scale:     []int{0, 12, 24, 36, 48, 72, 96, 144, 192, 288},
			Section:   96,
			Paragraph: 32,
			Line:      16,
		},
		Layout: Layout{Padding: 128, ContentWidth: 1344, BorderRadius: 80, MaxContentRatio: 0.7},
	}
}

var builtins = map[string]func() Theme{
	"minimal":   minimal,
	"corporate": corporate,
	"creative":  creative,
}

// Builtin 返回内置主题的新拷贝。
func Builtin(name string) (Theme, error) {
	if name == "" {
		name = DefaultName
	}
	ctor, ok := builtins[name]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	return ctor(), nil
}

// Default 返回 minimal 主题。
func Default() Theme { return minimal() }

// Names 返回全部内置主题名（已排序）。
func Names() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Summary 是主题列表中的简要信息。
type Summary struct {
	Key             string `json:"key"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	PrimaryFont     string `json:"primaryFont"`
	AccentColor     string `json:"accentColor"`
	BackgroundColor string `json:"backgroundColor"`
}

// Catalog 列出全部内置主题。
func Catalog() []Summary {
	out := make([]Summary, 0, len(builtins))
	for _, key := range Names() {
		t := builtins[key]()
		out = append(out, Summary{
			Key:             key,
			Name:            t.Name,
			Description:     t.Description,
			PrimaryFont:     t.Typography.PrimaryFont,
			AccentColor:     t.Colors.Accent,
			BackgroundColor: t.Colors.Background,
		})
	}
	return out
}
