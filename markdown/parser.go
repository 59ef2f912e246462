// Package markdown 把 Markdown 文档切分为幻灯片。
//
// 规则：
//   - "# 标题" 与紧随其后的段落组成强调色的开场幻灯片；
//   - "## 标题" 开启一张正文幻灯片，随后的段落与列表并入其中，
//     列表项写作 "• 条目" 并排在所有段落之后；
//   - "> 引用" 生成强调色的引用幻灯片，超过 100 个字符时使用小号字。
package markdown

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/ByLCY/carousel/slide"
)

// LongQuoteRunes 是引用改用小号字的长度阈值。
const LongQuoteRunes = 100

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// section 收集一张正文幻灯片的段落与列表。
type section struct {
	index      int
	paragraphs []string
	lists      [][]string
}

// Parse 解析 Markdown 源文本。不认识的块（代码块、表格、分隔线等）被忽略。
func Parse(src []byte) []slide.Slide {
	doc := md.Parser().Parse(text.NewReader(src))

	var (
		slides   []slide.Slide
		sections []*section
		current  *section
	)
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch nd := n.(type) {
		case *ast.Heading:
			switch nd.Level {
			case 1:
				s := slide.Slide{Type: slide.TypeIntro, Title: inlineText(nd, src), Color: slide.ColorAccent}
				if p, ok := nd.NextSibling().(*ast.Paragraph); ok {
					s.Text = inlineText(p, src)
					n = p
				}
				slides = append(slides, s)
				current = nil
			case 2:
				slides = append(slides, slide.Slide{Type: slide.TypeText, Title: inlineText(nd, src), Color: slide.ColorDefault})
				current = &section{index: len(slides) - 1}
				sections = append(sections, current)
			default:
				if current != nil {
					current.paragraphs = append(current.paragraphs, inlineText(nd, src))
				}
			}
		case *ast.Blockquote:
			quote := ""
			if first := nd.FirstChild(); first != nil {
				quote = inlineText(first, src)
			}
			size := slide.SizeLarge
			if utf8.RuneCountInString(quote) > LongQuoteRunes {
				size = slide.SizeSmall
			}
			slides = append(slides, slide.Slide{Type: slide.TypeQuote, Text: quote, Color: slide.ColorAccent, Size: size})
		case *ast.Paragraph:
			if current != nil {
				current.paragraphs = append(current.paragraphs, inlineText(nd, src))
			}
		case *ast.List:
			if current != nil {
				current.lists = append(current.lists, listItems(nd, src))
			}
		}
	}

	for _, sec := range sections {
		slides[sec.index].Text = sec.text()
	}
	return slides
}

func (s *section) text() string {
	var blocks []string
	for _, p := range s.paragraphs {
		if p != "" {
			blocks = append(blocks, p)
		}
	}
	for _, items := range s.lists {
		lines := make([]string, 0, len(items))
		for _, it := range items {
			lines = append(lines, slide.BulletMarker+" "+it)
		}
		if len(lines) > 0 {
			blocks = append(blocks, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(blocks, "\n\n")
}

// listItems 返回每个列表项的单行文本，空条目被丢弃。
func listItems(list *ast.List, src []byte) []string {
	var items []string
	for li := list.FirstChild(); li != nil; li = li.NextSibling() {
		item := strings.Join(strings.Fields(inlineText(li, src)), " ")
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// inlineText 提取节点下的纯文本，软换行保留为 "\n"。
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.AutoLink:
			b.Write(t.URL(src))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML, *ast.FencedCodeBlock, *ast.CodeBlock:
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph, *ast.TextBlock:
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
