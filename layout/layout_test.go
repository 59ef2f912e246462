package layout

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ByLCY/carousel/slide"
	"github.com/ByLCY/carousel/theme"
	"github.com/ByLCY/carousel/typography"
)

// stubSurface 每个字符宽 size/2，避免依赖真实字体。
type stubSurface struct {
	size  float64
	fail  bool
	fonts []typography.Font
}

func (s *stubSurface) SetFont(f typography.Font) error {
	if s.fail {
		return errors.New("字体不可用")
	}
	s.size = f.Size
	s.fonts = append(s.fonts, f)
	return nil
}

func (s *stubSurface) MeasureText(str string) float64 {
	return float64(utf8.RuneCountInString(str)) * s.size * 0.5
}

func TestLayoutSlideIntroTitleOnly(t *testing.T) {
	res, err := LayoutSlide(&stubSurface{}, slide.Slide{Type: slide.TypeIntro, Title: "A"}, 1600, 2000, Options{})
	if err != nil {
		t.Fatalf("布局失败: %v", err)
	}
	if len(res.Tree.Children) != 1 || res.Tree.Children[0].Type != ElementTitle {
		t.Fatalf("应只有一个标题元素: %+v", res.Tree.Children)
	}
	if got := res.Tree.Children[0].Style.Size; got != theme.Default().Typography.TitleSizes.H1.Size {
		t.Fatalf("intro 标题应使用 h1 字号，得到 %d", got)
	}
	if !res.Validation.IsValid {
		t.Fatalf("布局应有效: %+v", res.Validation)
	}
	if s := res.Metrics.OverallScore; s < 0 || s > 100 {
		t.Fatalf("总分应位于 [0,100]，得到 %v", s)
	}
	if res.Strategy.Name != "centered-hero" || !res.Strategy.VerticalCentering {
		t.Fatalf("策略错误: %+v", res.Strategy)
	}
}

func TestContentAreaFor(t *testing.T) {
	area := ContentAreaFor(1600, 2000, theme.Default())
	want := ContentArea{X: 144, Y: 224, Width: 1312, Height: 1552, CenterX: 800, CenterY: 1144}
	if diff := cmp.Diff(want, area); diff != "" {
		t.Fatalf("正文区域不符 (-want +got):\n%s", diff)
	}
}

func TestAnalyzeAndSelectStrategy(t *testing.T) {
	cases := []struct {
		name       string
		slide      slide.Slide
		complexity Complexity
		strategy   string
		mode       SpacingMode
	}{
		{"短文本", slide.Slide{Type: slide.TypeText, Title: "T", Text: "hello"}, ComplexityLow, "generous-flow", SpacingNormal},
		{"多段落", slide.Slide{Type: slide.TypeText, Title: "T", Text: "a\n\nb\n\nc"}, ComplexityMedium, "generous-flow", SpacingNormal},
		{"长文本", slide.Slide{Type: slide.TypeText, Text: strings.Repeat("x", 501)}, ComplexityHigh, "compact-flow", SpacingTight},
		{"多列表项", slide.Slide{Type: slide.TypeText, Text: "• a\n• b\n• c\n• d\n• e"}, ComplexityHigh, "compact-flow", SpacingTight},
		{"引用", slide.Slide{Type: slide.TypeQuote, Text: "q"}, ComplexityLow, "centered-quote", SpacingNormal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := Analyze(tc.slide)
			if a.Complexity != tc.complexity {
				t.Fatalf("复杂度应为 %s，得到 %s（%+v）", tc.complexity, a.Complexity, a)
			}
			st := SelectStrategy(a)
			if st.Name != tc.strategy || st.SpacingMode != tc.mode {
				t.Fatalf("策略错误: %+v", st)
			}
		})
	}

	a := Analyze(slide.Slide{Type: slide.TypeText, Title: "ab", Text: strings.Repeat("я", 398)})
	if a.ContentRatio != 0.5 || a.TextLength != 398 {
		t.Fatalf("长度应按字符计算: %+v", a)
	}
}

func TestBuildListRoundTrip(t *testing.T) {
	th := theme.Default()
	s := slide.Slide{Type: slide.TypeText, Text: "• a\n• b"}
	tree := Build(s, SelectStrategy(Analyze(s)), th)
	if len(tree.Children) != 1 || tree.Children[0].Type != ElementList {
		t.Fatalf("应生成一个列表元素: %+v", tree.Children)
	}
	if diff := cmp.Diff([]string{"a", "b"}, tree.Children[0].Items); diff != "" {
		t.Fatalf("列表项不符:\n%s", diff)
	}

	surface := &stubSurface{}
	area := ContentAreaFor(1600, 2000, th)
	measured, err := Measure(surface, DefaultBreaker(), tree, area)
	if err != nil {
		t.Fatalf("测量失败: %v", err)
	}
	m := measured.Children[0].Measured
	if len(m.Items) != 2 {
		t.Fatalf("应有两个测量子项，得到 %d", len(m.Items))
	}
	style := tree.Children[0].Style
	wantHeight := 2*style.LinePitch() + style.ItemGap()
	if m.Height != wantHeight {
		t.Fatalf("列表高度应为 %v，得到 %v", wantHeight, m.Height)
	}
	if m.Width != m.BulletWidth+listIndent+m.Items[0].Width {
		t.Fatalf("列表宽度应包含符号与缩进: %+v", m)
	}
}

func TestBuildOmitsEmptySections(t *testing.T) {
	th := theme.Default()
	tree := Build(slide.Slide{Type: slide.TypeText, Title: "  ", Text: "\n\n  \n\n•\n\n"}, Strategy{}, th)
	if len(tree.Children) != 0 {
		t.Fatalf("空内容不应生成元素: %+v", tree.Children)
	}

	res, err := LayoutSlide(&stubSurface{}, slide.Slide{Type: slide.TypeText}, 1600, 2000, Options{})
	if err != nil {
		t.Fatalf("布局失败: %v", err)
	}
	if len(res.Tree.Children) != 0 || res.Compression.OriginalHeight != 0 {
		t.Fatalf("空幻灯片应得到空树: %+v", res)
	}
	if res.Metrics.TypographyConsistency != 0 {
		t.Fatalf("无元素时字号一致性应为 0")
	}
}

func TestBuildStylesBySlideType(t *testing.T) {
	th := theme.Default()
	quote := slide.Slide{Type: slide.TypeQuote, Text: "long quote", Size: slide.SizeSmall}
	tree := Build(quote, SelectStrategy(Analyze(quote)), th)
	if got := tree.Children[0].Style.Size; got != th.Typography.QuoteSizes.Small.Size {
		t.Fatalf("small 引用应使用 quoteSizes.small，得到 %d", got)
	}
	quote.Size = slide.SizeNone
	tree = Build(quote, SelectStrategy(Analyze(quote)), th)
	if got := tree.Children[0].Style.Size; got != th.Typography.QuoteSizes.Large.Size {
		t.Fatalf("默认引用应使用 quoteSizes.large，得到 %d", got)
	}

	text := slide.Slide{Type: slide.TypeText, Title: "Заголовок", Text: "Первый\n\nВторой"}
	tree = Build(text, Strategy{SpacingMode: SpacingTight}, th)
	if tree.Spacing != th.Spacing.Paragraph {
		t.Fatalf("tight 模式应使用段落间距，得到 %d", tree.Spacing)
	}
	if tree.Children[0].Style.Size != th.Typography.TitleSizes.H2.Size || tree.Children[0].Style.Family != th.Typography.PrimaryFont {
		t.Fatalf("text 标题应使用 h2 与主字体: %+v", tree.Children[0].Style)
	}
	if len(tree.Children) != 3 || tree.Children[1].Style.Family != th.Typography.SecondaryFont {
		t.Fatalf("段落应使用辅助字体: %+v", tree.Children)
	}
}

func measuredTree(spacing int, heights ...float64) MeasuredTree {
	t := MeasuredTree{Direction: "vertical", Spacing: spacing}
	for _, h := range heights {
		t.Children = append(t.Children, MeasuredElement{
			Element:  Element{Type: ElementParagraph, Style: Style{Size: 56, LineHeight: 1.4}},
			Measured: Measurement{Width: 100, Height: h},
		})
	}
	return t
}

func TestAllocateBranches(t *testing.T) {
	area := ContentArea{Height: 1000}

	out, c := Allocate(measuredTree(200, 450, 450), area, false, CompressionPolicy{})
	if c.Kind != CompressionSpacing || out.Spacing != 140 || out.Children[0].Style.Size != 56 {
		t.Fatalf("比例 > 0.85 时只应缩小间距: %+v %+v", c, out)
	}

	out, c = Allocate(measuredTree(100, 600, 500), area, false, CompressionPolicy{})
	if c.Kind != CompressionFont || out.Spacing != 100 {
		t.Fatalf("比例 0.7–0.85 时只应缩放字号: %+v", c)
	}
	if out.Children[0].Style.Size != 51 || out.Children[0].Measured.Height != 550 {
		t.Fatalf("字号与高度缩放错误: %+v", out.Children[0])
	}

	in := measuredTree(100, 500, 500)
	out, c = Allocate(in, area, true, CompressionPolicy{})
	if c.Kind != CompressionNone || out.TotalHeight() != in.TotalHeight() {
		t.Fatalf("允许溢出时不应压缩: %+v", c)
	}

	out, c = Allocate(measuredTree(80, 300), area, false, CompressionPolicy{})
	if c.Kind != CompressionNone || out.Spacing != 80 {
		t.Fatalf("未溢出时不应压缩: %+v", c)
	}
}

func TestAllocateAggressiveAtOneAndAHalf(t *testing.T) {
	area := ContentArea{Height: 1000}
	in := measuredTree(100, 700, 700)
	if in.TotalHeight() != 1.5*area.Height {
		t.Fatalf("测试前提错误: %v", in.TotalHeight())
	}
	out, c := Allocate(in, area, false, CompressionPolicy{})
	if c.Kind != CompressionAggressive {
		t.Fatalf("比例 ≤ 0.7 时应选择激进压缩，得到 %s", c.Kind)
	}
	if out.Spacing != 50 || math.Abs(c.FontScale-0.8) > 1e-9 {
		t.Fatalf("激进压缩参数错误: spacing=%d scale=%v", out.Spacing, c.FontScale)
	}
	// 单轮启发式：700×0.8×2 + 50 = 1170，不重新折行，仍比正文区域高 170，
	// 剩余溢出由 Validate 报告。
	got := out.TotalHeight()
	if got != 1170 || got > in.TotalHeight() {
		t.Fatalf("压缩后高度应为 1170，得到 %v", got)
	}
	if overflow := got - area.Height; overflow != 170 {
		t.Fatalf("压缩后剩余溢出应为 170，得到 %v", overflow)
	}
	if in.Children[0].Measured.Height != 700 || in.Spacing != 100 {
		t.Fatalf("Allocate 不应修改输入树")
	}
}

func TestAllocateIsMonotonic(t *testing.T) {
	for _, areaHeight := range []float64{100, 333, 650, 800, 900, 990} {
		for _, spacing := range []int{0, 7, 24, 80} {
			in := measuredTree(spacing, 210, 333.3, 97.5, 400)
			out, _ := Allocate(in, ContentArea{Height: areaHeight}, false, CompressionPolicy{})
			if out.TotalHeight() > in.TotalHeight() {
				t.Fatalf("高度 %v 间距 %d: 压缩后总高度变大 %v > %v", areaHeight, spacing, out.TotalHeight(), in.TotalHeight())
			}
			for i := range out.Children {
				if out.Children[i].Style.Size > in.Children[i].Style.Size {
					t.Fatalf("字号不应变大")
				}
			}
		}
	}
}

func positionedTree(spacing int, sizes []int, heights []float64) PositionedTree {
	t := PositionedTree{Direction: "vertical", Spacing: spacing}
	for i, size := range sizes {
		t.Children = append(t.Children, PositionedElement{MeasuredElement: MeasuredElement{
			Element:  Element{Type: ElementParagraph, Style: Style{Size: size, LineHeight: 1.4}},
			Measured: Measurement{Height: heights[i]},
		}})
	}
	return t
}

func TestComputeMetrics(t *testing.T) {
	area := ContentArea{Width: 1000, Height: 1000}
	cases := []struct {
		name string
		tree PositionedTree
		want Metrics
	}{
		{
			name: "全部对齐",
			tree: positionedTree(32, []int{96, 48}, []float64{300, 200}),
			want: Metrics{ContentDensity: 53.2, VerticalEfficiency: 63.84, TypographyConsistency: 100, SpacingRhythm: 100, OverallScore: 75.112},
		},
		{
			name: "溢出时封顶且间距不合节奏",
			tree: positionedTree(30, []int{50, 40}, []float64{600, 500}),
			want: Metrics{ContentDensity: 100, VerticalEfficiency: 100, TypographyConsistency: 100, SpacingRhythm: 0, OverallScore: 80},
		},
		{
			name: "字号一半不成比例",
			tree: positionedTree(24, []int{56, 36}, []float64{100, 100}),
			want: Metrics{ContentDensity: 22.4, VerticalEfficiency: 26.88, TypographyConsistency: 50, SpacingRhythm: 100, OverallScore: 44.784},
		},
		{
			name: "空树",
			tree: PositionedTree{},
			want: Metrics{SpacingRhythm: 100, OverallScore: 20},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeMetrics(tc.tree, area)
			if diff := cmp.Diff(tc.want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Fatalf("指标不符 (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMeasureTextOptions(t *testing.T) {
	want := typography.Options{PreventHanging: true, HyphenationQuality: typography.HyphenationHigh}
	if diff := cmp.Diff(want, textOptions); diff != "" {
		t.Fatalf("标题与段落只应防止悬挂词 (-want +got):\n%s", diff)
	}
}

func TestPosition(t *testing.T) {
	tree := measuredTree(20, 100, 50)
	tree.Children[0].Measured.Width = 200
	tree.Children[1].Measured.Width = 300
	tree.Children[1].Style.Align = AlignRight
	area := ContentArea{X: 10, Y: 100, Width: 1000, Height: 500}

	p := Position(tree, area, "", "")
	if p.Children[0].Position.Y != 265 || p.Children[1].Position.Y != 385 {
		t.Fatalf("居中纵向位置错误: %+v", p.Children)
	}
	if p.Children[0].Position.X != 10 || p.Children[1].Position.X != 710 {
		t.Fatalf("空对齐应使用元素自身的对齐: %+v", p.Children)
	}

	p = Position(tree, area, VAlignTop, AlignCenter)
	if p.Children[0].Position.Y != 100 || p.Children[0].Position.X != 410 {
		t.Fatalf("顶部/居中对齐错误: %+v", p.Children[0].Position)
	}
	p = Position(tree, area, VAlignBottom, AlignLeft)
	if p.Children[0].Position.Y != 430 || p.Children[1].Position.X != 10 {
		t.Fatalf("底部/左对齐错误: %+v", p.Children)
	}
}

func TestValidate(t *testing.T) {
	area := ContentArea{X: 0, Y: 0, Width: 100, Height: 100}
	low := typography.Metrics{Readability: 10}
	tree := PositionedTree{Children: []PositionedElement{
		{MeasuredElement: MeasuredElement{Element: Element{Type: ElementTitle, Style: Style{Size: 40}}}, Position: Box{X: 0, Y: 0, Width: 100, Height: 50}},
		{MeasuredElement: MeasuredElement{Element: Element{Type: ElementParagraph, Style: Style{Size: 20}}, Measured: Measurement{Metrics: &low}}, Position: Box{X: -5, Y: 80, Width: 50, Height: 40}},
	}}
	v := Validate(tree, area)
	if v.IsValid || len(v.Issues) != 2 || len(v.Warnings) != 2 {
		t.Fatalf("校验结果错误: %+v", v)
	}
	if v.Score != 100-40-10 {
		t.Fatalf("分数应为 50，得到 %v", v.Score)
	}

	v = Validate(PositionedTree{}, area)
	if !v.IsValid || v.Score != 100 {
		t.Fatalf("空树应有效且满分: %+v", v)
	}
}

func TestLayoutSlideErrors(t *testing.T) {
	s := slide.Slide{Type: slide.TypeText, Title: "T"}
	if _, err := LayoutSlide(nil, s, 1600, 2000, Options{}); err == nil {
		t.Fatalf("测量面为空应报错")
	}
	if _, err := LayoutSlide(&stubSurface{}, s, 0, 2000, Options{}); err == nil {
		t.Fatalf("画布宽度为 0 应报错")
	}
	if _, err := LayoutSlide(&stubSurface{}, s, 200, 200, Options{}); err == nil {
		t.Fatalf("过小的画布应报错")
	}
	if _, err := LayoutSlide(&stubSurface{fail: true}, s, 1600, 2000, Options{}); err == nil {
		t.Fatalf("测量面错误应向上传递")
	}
	broken := theme.Default()
	broken.Typography.BodySizes.Large.Size = 0
	if _, err := LayoutSlide(&stubSurface{}, s, 1600, 2000, Options{Theme: &broken}); err == nil {
		t.Fatalf("无效主题应报错")
	}
}

func TestLayoutSlideCompressesOverflow(t *testing.T) {
	text := strings.Repeat("Очень длинный абзац текста для проверки сжатия. ", 40)
	s := slide.Slide{Type: slide.TypeText, Title: "Заголовок", Text: text + "\n\n" + text}

	res, err := LayoutSlide(&stubSurface{}, s, 1600, 2000, Options{})
	if err != nil {
		t.Fatalf("布局失败: %v", err)
	}
	if res.Compression.Kind == CompressionNone {
		t.Fatalf("溢出内容应被压缩: %+v", res.Compression)
	}
	if res.Compression.Height > res.Compression.OriginalHeight {
		t.Fatalf("压缩后高度不应增加: %+v", res.Compression)
	}

	exact, err := LayoutSlide(&stubSurface{}, s, 1600, 2000, Options{Remeasure: true})
	if err != nil {
		t.Fatalf("布局失败: %v", err)
	}
	if exact.Compression.FontScale < 1 {
		if got := exact.Tree.Measured().TotalHeight(); got != exact.Compression.Height {
			t.Fatalf("重新测量后的高度应与记录一致: %v != %v", got, exact.Compression.Height)
		}
	}

	loose, err := LayoutSlide(&stubSurface{}, s, 1600, 2000, Options{AllowOverflow: true})
	if err != nil {
		t.Fatalf("布局失败: %v", err)
	}
	if loose.Compression.Kind != CompressionNone || loose.Validation.IsValid {
		t.Fatalf("允许溢出时应保留越界并报告问题: %+v", loose.Validation)
	}
}

func TestWriteDebugJSON(t *testing.T) {
	res, err := LayoutSlide(&stubSurface{}, slide.Slide{Type: slide.TypeText, Title: "T", Text: "• one\n• two"}, 1600, 2000, Options{})
	if err != nil {
		t.Fatalf("布局失败: %v", err)
	}
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteDebugJSON(res, path); err != nil {
		t.Fatalf("写入调试 JSON 失败: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("调试 JSON 无法解析: %v", err)
	}
	for _, key := range []string{"layoutTree", "contentArea", "strategy", "validation", "metrics"} {
		if _, ok := doc[key]; !ok {
			t.Fatalf("调试 JSON 缺少字段 %q", key)
		}
	}
	if err := WriteDebugJSON(nil, path); err != nil {
		t.Fatalf("nil 结果应直接返回: %v", err)
	}
}
