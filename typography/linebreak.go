package typography

import (
	"strings"
)

// HyphenationQuality 是长词断开的质量档位。各档位都按字符断开并在断点追加连字符，
// 目前只作为 Optimize 变体之间的区分。
type HyphenationQuality string

const (
	HyphenationLow    HyphenationQuality = "low"
	HyphenationMedium HyphenationQuality = "medium"
	HyphenationHigh   HyphenationQuality = "high"
)

// hyphenGlyph 追加在长词每个非末尾片段之后。
const hyphenGlyph = "-"

// Options 控制一次折行。
type Options struct {
	PreventHanging            bool               `json:"preventHanging"`
	PreventAbbreviationBreaks bool               `json:"preventAbbreviationBreaks"`
	PreventMathBreaks         bool               `json:"preventMathBreaks"`
	UseNonBreakingSpaces      bool               `json:"useNonBreakingSpaces"`
	HyphenationQuality        HyphenationQuality `json:"hyphenationQuality"`

	// 以下两项仅对 Optimize 生效，零值取默认。
	MaxIterations     int     `json:"maxIterations"`
	TargetReadability float64 `json:"targetReadability"`
}

// sticky 报告 t 之后是否不应断行。
func (o Options) sticky(t Token) bool {
	switch t.Type {
	case TokenHanging:
		return o.PreventHanging
	case TokenAbbreviation:
		return o.PreventAbbreviationBreaks
	case TokenOperator:
		return o.PreventMathBreaks
	default:
		return false
	}
}

// glued 报告 t 与紧随其后的 next 之间是否不应断行。
// 开启 PreventMathBreaks 时运算符与两侧的操作数都粘连。
func (o Options) glued(t, next Token) bool {
	return o.sticky(t) || (o.PreventMathBreaks && next.Type == TokenOperator)
}

// Breaker 是无状态的折行器，可在多个 goroutine 间共享；测量面由调用方逐次传入。
type Breaker struct {
	lexicon *Lexicon
	scoring Scoring
}

// NewBreaker 创建折行器。lexicon 为 nil 时使用俄语词表，scoring 为零值时使用默认评分常量。
func NewBreaker(lexicon *Lexicon, scoring Scoring) *Breaker {
	if lexicon == nil {
		lexicon = Russian()
	}
	if scoring == (Scoring{}) {
		scoring = DefaultScoring()
	}
	return &Breaker{lexicon: lexicon, scoring: scoring}
}

// Lexicon 返回折行器使用的词表。
func (b *Breaker) Lexicon() *Lexicon { return b.lexicon }

// Scoring 返回折行器使用的评分常量。
func (b *Breaker) Scoring() Scoring { return b.scoring }

// Wrap 把 text 折成宽度不超过 maxWidth 的行。段落之间插入一个空行；空输入返回 nil。
func (b *Breaker) Wrap(m Measurer, text string, maxWidth float64, opts Options) []string {
	processed := b.Preprocess(text, opts)
	if processed == "" {
		return nil
	}
	paragraphs := strings.Split(processed, "\n\n")
	var lines []string
	for i, p := range paragraphs {
		lines = append(lines, b.wrapParagraph(m, p, maxWidth, opts)...)
		if i < len(paragraphs)-1 {
			lines = append(lines, "")
		}
	}
	return lines
}

func (b *Breaker) wrapParagraph(m Measurer, paragraph string, maxWidth float64, opts Options) []string {
	tokens := b.lexicon.Tokenize(paragraph)
	if len(tokens) == 0 {
		return nil
	}
	space := m.MeasureText(" ")
	widths := make([]float64, len(tokens))
	for i, t := range tokens {
		widths[i] = m.MeasureText(t.Text)
	}

	var (
		lines     []string
		line      []Token
		lineW     []float64
		lineWidth float64
	)
	flush := func() {
		if len(line) > 0 {
			lines = append(lines, joinTokens(line))
		}
		line, lineW, lineWidth = nil, nil, 0
	}
	push := func(t Token, w float64) {
		if len(line) > 0 {
			lineWidth += space
		}
		line = append(line, t)
		lineW = append(lineW, w)
		lineWidth += w
	}
	// place 放入 tokens[i]，粘连词会把放得下的后继一并带上；返回最后消耗的下标。
	place := func(i int) int {
		push(tokens[i], widths[i])
		for i+1 < len(tokens) && opts.glued(tokens[i], tokens[i+1]) && lineWidth+space+widths[i+1] <= maxWidth {
			i++
			push(tokens[i], widths[i])
		}
		return i
	}

	for i := 0; i < len(tokens); i++ {
		w := widths[i]
		switch {
		case len(line) == 0 && w <= maxWidth:
			i = place(i)
			continue
		case len(line) > 0 && lineWidth+space+w <= maxWidth:
			i = place(i)
			continue
		case w > maxWidth:
			flush()
			parts := b.breakLongWord(m, tokens[i].Text, maxWidth)
			lines = append(lines, parts[:len(parts)-1]...)
			last := parts[len(parts)-1]
			push(Token{Text: last, Type: TokenWord}, m.MeasureText(last))
			continue
		}

		// 行尾的粘连词随溢出词一起移到下一行，前提是二者在新行放得下。
		k := 0
		for k < len(line)-1 {
			next := tokens[i]
			if k > 0 {
				next = line[len(line)-k]
			}
			if !opts.glued(line[len(line)-1-k], next) {
				break
			}
			k++
		}
		for ; k > 0; k-- {
			moved := float64(k-1) * space
			for _, mw := range lineW[len(lineW)-k:] {
				moved += mw
			}
			if moved+space+w <= maxWidth {
				break
			}
		}
		carried := append([]Token(nil), line[len(line)-k:]...)
		carriedW := append([]float64(nil), lineW[len(lineW)-k:]...)
		line, lineW = line[:len(line)-k], lineW[:len(lineW)-k]
		flush()
		for j := range carried {
			push(carried[j], carriedW[j])
		}
		i = place(i)
	}
	flush()
	return lines
}

// breakLongWord 按字符把 word 切成若干片段，除最后一片外都带连字符且不超过 maxWidth。
// 连一个字符都放不下时，该字符单独成片，以保证前进。
func (b *Breaker) breakLongWord(m Measurer, word string, maxWidth float64) []string {
	hyphen := hyphenGlyph
	limit := maxWidth - m.MeasureText(hyphen)

	var (
		parts   []string
		current []rune
	)
	for _, r := range word {
		candidate := string(current) + string(r)
		if m.MeasureText(candidate) <= limit {
			current = append(current, r)
			continue
		}
		if len(current) > 0 {
			parts = append(parts, string(current)+hyphen)
		}
		if m.MeasureText(string(r)) > limit {
			parts = append(parts, string(r))
			current = current[:0]
			continue
		}
		current = append(current[:0], r)
	}
	if len(current) > 0 {
		parts = append(parts, string(current))
	}
	if len(parts) == 0 {
		parts = append(parts, word)
	}
	return parts
}

func joinTokens(tokens []Token) string {
	texts := make([]string, len(tokens))
	for i, t := range tokens {
		texts[i] = t.Text
	}
	return strings.Join(texts, " ")
}
