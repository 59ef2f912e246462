package typography

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fixedSurface 为每个字符返回固定宽度，连字符可单独指定，便于手算期望结果。
type fixedSurface struct {
	advance float64
	hyphen  float64
	font    Font
}

func (s *fixedSurface) SetFont(f Font) error { s.font = f; return nil }

func (s *fixedSurface) MeasureText(str string) float64 {
	var w float64
	for _, r := range str {
		if r == '-' && s.hyphen > 0 {
			w += s.hyphen
			continue
		}
		w += s.advance
	}
	return w
}

func TestWrapEmptyInput(t *testing.T) {
	b := NewBreaker(English(), Scoring{})
	surface := &fixedSurface{advance: 10}
	for _, in := range []string{"", "   ", "\n \n\t"} {
		if got := b.Wrap(surface, in, 200, Options{}); len(got) != 0 {
			t.Fatalf("Wrap(%q) 应返回空，得到 %q", in, got)
		}
	}
}

func TestWrapIdempotent(t *testing.T) {
	b := NewBreaker(Russian(), Scoring{})
	surface := &fixedSurface{advance: 9}
	text := "Мы пошли в магазин и купили молоко для кота, а потом вернулись домой.\n\nВторой абзац."
	opts := Options{PreventHanging: true, HyphenationQuality: HyphenationHigh}
	first := b.Wrap(surface, text, 180, opts)
	second := b.Wrap(surface, text, 180, opts)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("两次折行结果不同 (-first +second):\n%s", diff)
	}
}

func TestWrapNoOverflow(t *testing.T) {
	b := NewBreaker(English(), Scoring{})
	surface := &fixedSurface{advance: 10, hyphen: 6}
	texts := []string{
		"Hello world, this is a test of the line wrapping algorithm",
		"supercalifragilisticexpialidocious is a rather long word for a narrow column",
		"a b c d e f g h i j k l m n o p",
	}
	for _, text := range texts {
		for width := 40.0; width <= 400; width += 15 {
			for _, q := range []HyphenationQuality{HyphenationLow, HyphenationHigh} {
				lines := b.Wrap(surface, text, width, Options{PreventHanging: true, HyphenationQuality: q})
				for _, line := range lines {
					limit := width
					if strings.HasSuffix(line, "-") {
						limit += surface.hyphen
					}
					if w := surface.MeasureText(line); w > limit {
						t.Fatalf("宽度 %.0f 下行 %q 宽 %.0f 超出", width, line, w)
					}
				}
			}
		}
	}
}

func TestWrapProgressOnTinyWidth(t *testing.T) {
	b := NewBreaker(English(), Scoring{})
	surface := &fixedSurface{advance: 10}
	lines := b.Wrap(surface, "abc de", 3, Options{})
	if len(lines) == 0 {
		t.Fatalf("非空输入至少应产生一行")
	}
	for _, line := range lines {
		if len([]rune(line)) != 1 {
			t.Fatalf("极窄宽度下每行应只有一个字符，得到 %q", lines)
		}
	}
	if got := strings.Join(lines, ""); got != "abcde" {
		t.Fatalf("字符丢失或重复: %q", got)
	}
}

func TestWrapSuppressesHangingWords(t *testing.T) {
	lex := English()
	b := NewBreaker(lex, Scoring{})
	surface := &fixedSurface{advance: 10}
	text := "we went to the store and bought a lot of milk for the cat"
	for width := 130.0; width <= 400; width += 10 {
		lines := b.Wrap(surface, text, width, Options{PreventHanging: true})
		for i, line := range lines[:len(lines)-1] {
			fields := strings.Fields(line)
			if last := fields[len(fields)-1]; lex.IsHanging(last) {
				t.Fatalf("宽度 %.0f 第 %d 行以悬挂词 %q 结尾: %q", width, i, last, lines)
			}
		}
	}
}

func TestWrapHangingLookaheadWithRussian(t *testing.T) {
	b := NewBreaker(Russian(), Scoring{})
	surface := &fixedSurface{advance: 10}
	// "в" 放在第一行末尾时，"магазин" 放不下，整组移到下一行。
	lines := b.Wrap(surface, "Мы пошли в магазин", 100, Options{PreventHanging: true})
	want := []string{"Мы пошли", "в магазин"}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("折行结果不符 (-want +got):\n%s", diff)
	}

	lines = b.Wrap(surface, "Мы пошли в магазин", 100, Options{})
	want = []string{"Мы пошли в", "магазин"}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("关闭悬挂词处理时结果不符 (-want +got):\n%s", diff)
	}
}

func TestWrapScenarioHelloWorld(t *testing.T) {
	lex := English()
	b := NewBreaker(lex, Scoring{})
	surface := &fixedSurface{advance: 10}
	lines := b.Wrap(surface, "Hello world, this is a test of the line wrapping algorithm", 250, Options{PreventHanging: true})
	if len(lines) < 3 || len(lines) > 4 {
		t.Fatalf("期望 3–4 行，得到 %d: %q", len(lines), lines)
	}
	for _, line := range lines {
		fields := strings.Fields(line)
		if lex.IsHanging(fields[len(fields)-1]) {
			t.Fatalf("行 %q 以悬挂词结尾", line)
		}
	}
	want := []string{"Hello world, this", "is a test of the line", "wrapping algorithm"}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("折行结果不符 (-want +got):\n%s", diff)
	}
}

func TestWrapLongWordHyphenation(t *testing.T) {
	b := NewBreaker(English(), Scoring{})
	surface := &fixedSurface{advance: 10, hyphen: 5}
	word := strings.Repeat("x", 60)

	lines := b.Wrap(surface, word, 105, Options{HyphenationQuality: HyphenationHigh})
	if len(lines) != 6 {
		t.Fatalf("期望 6 个片段，得到 %d: %q", len(lines), lines)
	}
	for i, line := range lines[:5] {
		if line != strings.Repeat("x", 10)+"-" {
			t.Fatalf("片段 %d 应为 10 个字符加连字符，得到 %q", i, line)
		}
	}
	if last := lines[5]; strings.HasSuffix(last, "-") {
		t.Fatalf("最后一个片段不应带连字符: %q", last)
	}
	if got := strings.ReplaceAll(strings.Join(lines, ""), "-", ""); got != word {
		t.Fatalf("拼回的单词与原词不同: %q", got)
	}

}

func TestWrapHyphenatesAtEveryQuality(t *testing.T) {
	b := NewBreaker(English(), Scoring{})
	surface := &fixedSurface{advance: 10, hyphen: 5}
	word := strings.Repeat("x", 60)
	want := b.Wrap(surface, word, 105, Options{HyphenationQuality: HyphenationHigh})

	for _, q := range []HyphenationQuality{HyphenationLow, HyphenationMedium, ""} {
		t.Run(string(q), func(t *testing.T) {
			got := b.Wrap(surface, word, 105, Options{HyphenationQuality: q})
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("%q 档位的断词结果应与 high 相同 (-want +got):\n%s", q, diff)
			}
			for _, line := range got[:len(got)-1] {
				if !strings.HasSuffix(line, "-") || surface.MeasureText(line) > 105 {
					t.Fatalf("非末尾片段应带连字符且不超宽: %q", line)
				}
			}
		})
	}
}

func TestWrapKeepsAbbreviationsAndMathTogether(t *testing.T) {
	b := NewBreaker(Russian(), Scoring{})
	surface := &fixedSurface{advance: 10}
	cases := []struct {
		name  string
		text  string
		width float64
		opts  Options
		off   []string
		on    []string
	}{
		{
			name:  "т. е.",
			text:  "ааааа т. е. бб",
			width: 85,
			opts:  Options{PreventAbbreviationBreaks: true},
			off:   []string{"ааааа т.", "е. бб"},
			on:    []string{"ааааа", "т. е. бб"},
		},
		{
			name:  "и т. д.",
			text:  "ааа и т. д.",
			width: 85,
			opts:  Options{PreventAbbreviationBreaks: true},
			off:   []string{"ааа и т.", "д."},
			on:    []string{"ааа и", "т. д."},
		},
		{
			name:  "2 + 2",
			text:  "ааааа 2 + 2",
			width: 95,
			opts:  Options{PreventMathBreaks: true},
			off:   []string{"ааааа 2 +", "2"},
			on:    []string{"ааааа", "2 + 2"},
		},
		{
			name:  "x = y",
			text:  "ааааа x = y",
			width: 95,
			opts:  Options{PreventMathBreaks: true},
			off:   []string{"ааааа x =", "y"},
			on:    []string{"ааааа", "x = y"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.off, b.Wrap(surface, tc.text, tc.width, Options{})); diff != "" {
				t.Fatalf("关闭选项时应允许断开 (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.on, b.Wrap(surface, tc.text, tc.width, tc.opts)); diff != "" {
				t.Fatalf("开启选项时应保持在同一行 (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWrapLongWordSeedsNextLine(t *testing.T) {
	b := NewBreaker(English(), Scoring{})
	surface := &fixedSurface{advance: 10, hyphen: 10}
	lines := b.Wrap(surface, "abcdefghijkl xy", 60, Options{})
	want := []string{"abcde-", "fghij-", "kl xy"}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("折行结果不符 (-want +got):\n%s", diff)
	}
}

func TestWrapParagraphSeparators(t *testing.T) {
	b := NewBreaker(English(), Scoring{})
	surface := &fixedSurface{advance: 10}
	lines := b.Wrap(surface, "first one\n\n\n  \nsecond\nline", 1000, Options{})
	want := []string{"first one", "", "second line"}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("段落分隔不符 (-want +got):\n%s", diff)
	}
}

func TestPreprocess(t *testing.T) {
	ru := NewBreaker(Russian(), Scoring{})
	en := NewBreaker(English(), Scoring{})
	cases := []struct {
		name string
		b    *Breaker
		in   string
		opts Options
		want string
	}{
		{"俄语引号与破折号", ru, `Он сказал "привет" -- и ушёл`, Options{}, "Он сказал «привет» — и ушёл"},
		{"空格连字符", en, "this - that", Options{}, "this — that"},
		{"英文撇号", en, `don't "go"`, Options{}, "don’t “go”"},
		{"空白折叠", en, "  a \t  b  ", Options{}, "a b"},
		{"悬挂词粘连", en, "go to the park", Options{UseNonBreakingSpaces: true}, "go to\u00a0the\u00a0park"},
		{"保留已有不换行空格", en, "10\u00a0kg  x", Options{}, "10\u00a0kg x"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.b.Preprocess(tc.in, tc.opts); got != tc.want {
				t.Fatalf("Preprocess(%q) = %q，期望 %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestMetrics(t *testing.T) {
	b := NewBreaker(English(), Scoring{})
	surface := &fixedSurface{advance: 10}

	if got := b.Metrics(surface, nil); got != (Metrics{}) {
		t.Fatalf("空输入应返回零值，得到 %+v", got)
	}

	m := b.Metrics(surface, []string{"a b", "c d"})
	if m.LineCount != 2 || m.AverageLineWidth != 30 || m.LineVariation != 0 {
		t.Fatalf("基础指标错误: %+v", m)
	}
	if m.Readability != 40 {
		t.Fatalf("可读性应为 40，得到 %v", m.Readability)
	}

	m = b.Metrics(surface, []string{"x of", "y z", "ab-"})
	if m.HangingLines != 1 || m.HyphenatedLines != 1 {
		t.Fatalf("悬挂/连字符计数错误: %+v", m)
	}
	// 平均词数 5/3，宽度 40/30/30。
	mean := 100.0 / 3
	std := math.Sqrt((math.Pow(40-mean, 2) + 2*math.Pow(30-mean, 2)) / 3)
	want := 100 - math.Abs(5.0/3-8)*10 - 15 - std/10
	if math.Abs(m.Readability-want) > 1e-9 {
		t.Fatalf("可读性应为 %v，得到 %v", want, m.Readability)
	}
}

func TestMetricsCustomScoring(t *testing.T) {
	b := NewBreaker(English(), Scoring{IdealWordsPerLine: 2, WordDeviationPenalty: 10, HangingPenalty: 50, VariationDivisor: 10, MaxVariationPenalty: 30})
	surface := &fixedSurface{advance: 10}
	m := b.Metrics(surface, []string{"a b", "c d"})
	if m.Readability != 100 {
		t.Fatalf("理想词数为 2 时应满分，得到 %v", m.Readability)
	}
	m = b.Metrics(surface, []string{"c of", "c of"})
	if m.Readability != 0 {
		t.Fatalf("扣分后应截断为 0，得到 %v", m.Readability)
	}
}

func TestOptimizeNeverWorseThanPlainWrap(t *testing.T) {
	b := NewBreaker(English(), Scoring{})
	surface := &fixedSurface{advance: 10}
	text := "we went to the store and bought a lot of milk for the cat and a bag of food for the dog"
	for width := 150.0; width <= 600; width += 50 {
		opts := Options{HyphenationQuality: HyphenationHigh}
		plain := b.Metrics(surface, b.Wrap(surface, text, width, opts))
		res := b.Optimize(surface, text, width, opts)
		if res.Metrics.Readability < plain.Readability {
			t.Fatalf("宽度 %.0f: 优化结果 %v 低于直接折行 %v", width, res.Metrics.Readability, plain.Readability)
		}
		if res.Optimized != (res.Metrics.Readability >= DefaultTargetReadability) {
			t.Fatalf("Optimized 标志与分数不一致: %+v", res)
		}
		if diff := cmp.Diff(b.Metrics(surface, res.Lines), res.Metrics); diff != "" {
			t.Fatalf("返回的指标与行不一致:\n%s", diff)
		}
	}
}

func TestOptimizeEmpty(t *testing.T) {
	b := NewBreaker(nil, Scoring{})
	res := b.Optimize(&fixedSurface{advance: 10}, "", 100, Options{})
	if len(res.Lines) != 0 || res.Optimized {
		t.Fatalf("空输入应返回空结果，得到 %+v", res)
	}
}
