package typography

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const nbsp = '\u00a0'

// Preprocess 规范化文本：NFC、空白折叠、排版引号、破折号，以及可选的悬挂词粘连。
// 空行视为段落分隔，结果中段落之间以 "\n\n" 连接，空段落被丢弃。
func (b *Breaker) Preprocess(text string, opts Options) string {
	paragraphs := splitParagraphs(norm.NFC.String(text))
	out := paragraphs[:0]
	for _, p := range paragraphs {
		p = collapseSpaces(p)
		if p == "" {
			continue
		}
		p = b.smartQuotes(p)
		p = normalizeDashes(p)
		if opts.UseNonBreakingSpaces {
			p = b.glueHanging(p)
		}
		out = append(out, p)
	}
	return strings.Join(out, "\n\n")
}

// splitParagraphs 以空行（只含空白的行）切分段落。
func splitParagraphs(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var (
		paragraphs []string
		current    []string
	)
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				paragraphs = append(paragraphs, strings.Join(current, " "))
				current = nil
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, strings.Join(current, " "))
	}
	return paragraphs
}

// collapseSpaces 把连续空白折叠为单个空格并去掉首尾空白，不折叠不换行空格。
func collapseSpaces(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	pending := false
	for _, r := range s {
		if isBreakingSpace(r) {
			pending = sb.Len() > 0
			continue
		}
		if pending {
			sb.WriteByte(' ')
			pending = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (b *Breaker) smartQuotes(s string) string {
	if !strings.ContainsAny(s, `"'`) {
		return s
	}
	q := b.lexicon.Quotes()
	runes := []rune(s)
	var sb strings.Builder
	sb.Grow(len(s) + 8)
	for i, r := range runes {
		var prev, next rune
		if i > 0 {
			prev = runes[i-1]
		}
		if i+1 < len(runes) {
			next = runes[i+1]
		}
		switch r {
		case '"':
			if opensQuote(prev) {
				sb.WriteString(q.Open)
			} else {
				sb.WriteString(q.Close)
			}
		case '\'':
			switch {
			case isWordRune(prev) && isWordRune(next):
				sb.WriteRune('’')
			case opensQuote(prev):
				sb.WriteString(q.SingleOpen)
			default:
				sb.WriteString(q.SingleClose)
			}
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func opensQuote(prev rune) bool {
	return prev == 0 || unicode.IsSpace(prev) || strings.ContainsRune("([{«„—–-/", prev)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func normalizeDashes(s string) string {
	s = strings.ReplaceAll(s, "--", "—")
	return strings.ReplaceAll(s, " - ", " — ")
}

// glueHanging 用不换行空格把悬挂词与后一个词连接。
func (b *Breaker) glueHanging(s string) string {
	words := strings.Split(s, " ")
	var sb strings.Builder
	sb.Grow(len(s) + len(words))
	for i, w := range words {
		if i > 0 {
			if b.lexicon.IsHanging(words[i-1]) {
				sb.WriteRune(nbsp)
			} else {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(w)
	}
	return sb.String()
}
