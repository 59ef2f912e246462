package typography

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Quotes 是某种语言的排版引号。
type Quotes struct {
	Open        string `yaml:"open" json:"open"`
	Close       string `yaml:"close" json:"close"`
	SingleOpen  string `yaml:"single_open" json:"singleOpen"`
	SingleClose string `yaml:"single_close" json:"singleClose"`
}

// LexiconData 是词表的可序列化形式，可以来自 YAML 文件。
type LexiconData struct {
	Language      string   `yaml:"language"`
	HangingWords  []string `yaml:"hanging_words"`
	NoBreakAfter  []string `yaml:"no_break_after"`
	MathOperators []string `yaml:"math_operators"`
	Quotes        Quotes   `yaml:"quotes"`
}

// Lexicon 保存不可变的悬挂词、不可断开缩写与数学运算符集合。
// 创建后只读，可在多个 goroutine 间共享。
type Lexicon struct {
	tag       language.Tag
	hanging   map[string]struct{}
	noBreak   map[string]struct{}
	operators map[string]struct{}
	quotes    Quotes
}

// NewLexicon 根据 data 构建词表，所有词按语言规则转为小写后存储。
func NewLexicon(data LexiconData) (*Lexicon, error) {
	tag := language.Und
	if strings.TrimSpace(data.Language) != "" {
		t, err := language.Parse(data.Language)
		if err != nil {
			return nil, fmt.Errorf("词表语言 %q 无法解析: %w", data.Language, err)
		}
		tag = t
	}
	l := &Lexicon{
		tag:       tag,
		hanging:   make(map[string]struct{}, len(data.HangingWords)),
		noBreak:   make(map[string]struct{}, len(data.NoBreakAfter)),
		operators: make(map[string]struct{}, len(data.MathOperators)),
		quotes:    data.Quotes,
	}
	caser := cases.Lower(tag)
	for _, w := range data.HangingWords {
		if w = strings.TrimSpace(w); w != "" {
			l.hanging[caser.String(w)] = struct{}{}
		}
	}
	for _, w := range data.NoBreakAfter {
		if w = strings.TrimSpace(w); w != "" {
			l.noBreak[caser.String(w)] = struct{}{}
		}
	}
	for _, w := range data.MathOperators {
		if w = strings.TrimSpace(w); w != "" {
			l.operators[w] = struct{}{}
		}
	}
	if l.quotes.Open == "" {
		l.quotes.Open = "“"
	}
	if l.quotes.Close == "" {
		l.quotes.Close = "”"
	}
	if l.quotes.SingleOpen == "" {
		l.quotes.SingleOpen = "‘"
	}
	if l.quotes.SingleClose == "" {
		l.quotes.SingleClose = "’"
	}
	return l, nil
}

// MustLexicon 与 NewLexicon 相同，但在出错时 panic，用于内置词表。
func MustLexicon(data LexiconData) *Lexicon {
	l, err := NewLexicon(data)
	if err != nil {
		panic(err)
	}
	return l
}

// LoadLexicon 从 YAML 读取词表。
func LoadLexicon(r io.Reader) (*Lexicon, error) {
	var data LexiconData
	if err := yaml.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("解析词表 YAML 失败: %w", err)
	}
	return NewLexicon(data)
}

// Language 返回词表的语言标签。
func (l *Lexicon) Language() language.Tag { return l.tag }

// Quotes 返回词表使用的引号。
func (l *Lexicon) Quotes() Quotes { return l.quotes }

// fold 按词表语言转小写。cases.Caser 有状态，因此每次调用新建。
func (l *Lexicon) fold(s string) string {
	return cases.Lower(l.tag).String(s)
}

// IsHanging 报告 word 是否为不应单独留在行尾的短词。
func (l *Lexicon) IsHanging(word string) bool {
	_, ok := l.hanging[l.fold(word)]
	return ok
}

// IsNoBreakAfter 报告 word 是否为其后不宜断行的缩写或符号。
func (l *Lexicon) IsNoBreakAfter(word string) bool {
	_, ok := l.noBreak[l.fold(word)]
	return ok
}

// IsOperator 报告 word 是否为数学运算符。
func (l *Lexicon) IsOperator(word string) bool {
	_, ok := l.operators[word]
	return ok
}

var russianData = LexiconData{
	Language: "ru",
	HangingWords: []string{
		// предлоги
		"в", "на", "за", "под", "над", "при", "про", "для", "без", "через", "между",
		"из", "от", "до", "с", "у", "о", "об", "во", "со", "ко", "по", "к",
		// союзы
		"и", "а", "но", "да", "или", "либо", "то", "не", "ни", "же", "ли",
		"что", "как", "где", "когда", "если", "чтобы", "который", "которая", "которое",
		// частицы
		"бы", "разве", "неужели", "ведь", "уж", "вон", "вот",
		// короткие местоимения и наречия
		"он", "она", "оно", "они", "мы", "вы", "я", "ты", "их", "им", "ей", "ему",
		"уже", "еще", "все", "всё", "так", "тот", "эта", "это", "эти",
	},
	NoBreakAfter: []string{
		"г.", "гг.", "р.", "руб.", "коп.", "см.", "м.", "км.", "кг.", "т.",
		"млн.", "млрд.", "тыс.", "шт.", "%", "№", "§",
		"т.д.", "т.п.", "т.е.", "т.к.", "и.о.", "п.п.",
	},
	MathOperators: []string{"+", "−", "×", "÷", "=", "≠", "≤", "≥", "<", ">"},
	Quotes:        Quotes{Open: "«", Close: "»", SingleOpen: "„", SingleClose: "“"},
}

var englishData = LexiconData{
	Language: "en",
	HangingWords: []string{
		"a", "an", "the", "of", "to", "in", "on", "at", "by", "for", "from", "with",
		"and", "or", "but", "nor", "as", "if", "so", "is", "be", "we", "i",
		"via", "per", "into", "onto", "than",
	},
	NoBreakAfter: []string{
		"mr.", "mrs.", "ms.", "dr.", "st.", "no.", "vs.", "e.g.", "i.e.", "etc.",
		"p.", "pp.", "fig.", "%", "№", "§", "$", "€",
	},
	MathOperators: []string{"+", "−", "×", "÷", "=", "≠", "≤", "≥", "<", ">"},
	Quotes:        Quotes{Open: "“", Close: "”", SingleOpen: "‘", SingleClose: "’"},
}

// Russian 返回俄语词表（默认词表）。
func Russian() *Lexicon { return MustLexicon(russianData) }

// English 返回英语词表。
func English() *Lexicon { return MustLexicon(englishData) }

// LexiconByName 按名称返回内置词表，支持 ru/russian 与 en/english。
func LexiconByName(name string) (*Lexicon, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "ru", "russian":
		return Russian(), nil
	case "en", "english":
		return English(), nil
	default:
		return nil, fmt.Errorf("未知的内置词表 %q", name)
	}
}
