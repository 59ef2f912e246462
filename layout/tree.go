package layout

import (
	"strings"

	"github.com/ByLCY/carousel/slide"
	"github.com/ByLCY/carousel/theme"
)

const (
	listBullet       = "→"
	listIndent       = 48
	listItemGapRatio = 0.3
)

// Build 把幻灯片转换为未测量的布局树。空标题与空段落被省略；纯函数。
func Build(s slide.Slide, st Strategy, th theme.Theme) Tree {
	tree := Tree{Direction: "vertical", Spacing: th.Spacing.Section}
	if st.SpacingMode == SpacingTight {
		tree.Spacing = th.Spacing.Paragraph
	}

	if strings.TrimSpace(s.Title) != "" {
		tree.Children = append(tree.Children, titleElement(s.Title, s.Type, th))
	}
	if strings.TrimSpace(s.Text) == "" {
		return tree
	}

	body := th.Typography.BodySizes.Large
	if s.Type == slide.TypeQuote {
		body = th.Typography.Quote(string(s.Size))
	}
	text := strings.ReplaceAll(s.Text, "\r\n", "\n")
	for _, p := range strings.Split(text, "\n\n") {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, slide.BulletMarker) {
			if el, ok := listElement(trimmed, th); ok {
				tree.Children = append(tree.Children, el)
			}
			continue
		}
		tree.Children = append(tree.Children, Element{
			Type:    ElementParagraph,
			Content: p,
			Style:   styleFrom(th.Typography.SecondaryFont, body, AlignLeft),
		})
	}
	return tree
}

func titleElement(title string, t slide.Type, th theme.Theme) Element {
	ts := th.Typography.TitleSizes.H2
	if t == slide.TypeIntro {
		ts = th.Typography.TitleSizes.H1
	}
	return Element{
		Type:    ElementTitle,
		Content: title,
		Style:   styleFrom(th.Typography.PrimaryFont, ts, AlignLeft),
	}
}

// listElement 逐行去掉项目符号；没有非空条目时返回 false。
func listElement(text string, th theme.Theme) (Element, bool) {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		item := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), slide.BulletMarker))
		if item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return Element{}, false
	}
	style := styleFrom(th.Typography.SecondaryFont, th.Typography.BodySizes.Large, AlignLeft)
	style.BulletStyle = listBullet
	style.Indent = listIndent
	return Element{Type: ElementList, Items: items, Style: style}, true
}

func styleFrom(family string, ts theme.TextStyle, align Align) Style {
	return Style{
		Family:        family,
		Size:          ts.Size,
		Weight:        ts.Weight,
		LineHeight:    ts.LineHeight,
		LetterSpacing: ts.LetterSpacing,
		Color:         "primary",
		Align:         align,
	}
}
