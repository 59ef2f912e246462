package typography

import (
	"strings"
	"unicode"

	"github.com/alecthomas/participle/v2/lexer"
)

// TokenType 决定词元能否出现在行尾。
type TokenType string

const (
	TokenWord         TokenType = "word"
	TokenNumber       TokenType = "number"
	TokenOperator     TokenType = "operator"
	TokenAbbreviation TokenType = "abbreviation"
	TokenHanging      TokenType = "hanging"
	TokenSentenceEnd  TokenType = "sentence_end"
)

// Token 是按空白切分出的一个词元。
type Token struct {
	Text string    `json:"text"`
	Type TokenType `json:"type"`
}

// U+00A0 不属于空白规则，粘连后的词保持为一个词元。
var tokenLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r\n\f\v]+`},
	{Name: "Number", Pattern: `[0-9][^ \t\r\n\f\v]*`},
	{Name: "Chunk", Pattern: `[^ \t\r\n\f\v]+`},
})

var (
	whitespaceToken = tokenLexer.Symbols()["Whitespace"]
	numberToken     = tokenLexer.Symbols()["Number"]
)

// Tokenize 把 text 切分为带类型的词元。
func (l *Lexicon) Tokenize(text string) []Token {
	lex, err := tokenLexer.LexString("", text)
	if err != nil {
		return l.tokenizeFields(text)
	}
	var tokens []Token
	for {
		tok, err := lex.Next()
		if err != nil {
			return l.tokenizeFields(text)
		}
		if tok.EOF() {
			break
		}
		switch tok.Type {
		case whitespaceToken:
			continue
		case numberToken:
			tokens = append(tokens, Token{Text: tok.Value, Type: TokenNumber})
		default:
			tokens = append(tokens, Token{Text: tok.Value, Type: l.Classify(tok.Value)})
		}
	}
	return tokens
}

// tokenizeFields 是词法器出错时的退路，按同样的空白集合切分。
func (l *Lexicon) tokenizeFields(text string) []Token {
	fields := strings.FieldsFunc(text, isBreakingSpace)
	tokens := make([]Token, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, Token{Text: f, Type: l.Classify(f)})
	}
	return tokens
}

// Classify 返回单个词的类型。判定顺序：数字、运算符、缩写、悬挂词、句末、普通词。
func (l *Lexicon) Classify(word string) TokenType {
	switch {
	case word == "":
		return TokenWord
	case word[0] >= '0' && word[0] <= '9':
		return TokenNumber
	case l.IsOperator(word):
		return TokenOperator
	case l.IsNoBreakAfter(word):
		return TokenAbbreviation
	case l.IsHanging(word):
		return TokenHanging
	case strings.HasSuffix(word, ".") || strings.HasSuffix(word, "!") || strings.HasSuffix(word, "?"):
		return TokenSentenceEnd
	default:
		return TokenWord
	}
}

func isBreakingSpace(r rune) bool {
	return r != nbsp && unicode.IsSpace(r)
}
