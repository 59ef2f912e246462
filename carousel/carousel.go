// Package carousel 把一组幻灯片并行排版并交给渲染器输出。
package carousel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/carousel/layout"
	"github.com/ByLCY/carousel/logging"
	"github.com/ByLCY/carousel/markdown"
	"github.com/ByLCY/carousel/renderer"
	"github.com/ByLCY/carousel/slide"
	"github.com/ByLCY/carousel/theme"
	"github.com/ByLCY/carousel/typography"
)

var (
	// ErrTooManySlides 表示幻灯片数量超过上限。
	ErrTooManySlides = errors.New("幻灯片数量超过上限")
	// ErrTextTooLong 表示输入文本超过长度上限。
	ErrTextTooLong = errors.New("文本长度超过上限")
	// ErrNoSlides 表示没有可渲染的幻灯片。
	ErrNoSlides = errors.New("没有可渲染的幻灯片")
)

// Limits 限制单次渲染的规模，零值表示不限制。
type Limits struct {
	MaxSlides     int
	MaxTextLength int
}

// CheckText 检查原始文本长度（按字符计）。
func (l Limits) CheckText(text string) error {
	if n := utf8.RuneCountInString(text); l.MaxTextLength > 0 && n > l.MaxTextLength {
		return fmt.Errorf("%w: %d > %d", ErrTextTooLong, n, l.MaxTextLength)
	}
	return nil
}

// CheckSlides 检查幻灯片数量。
func (l Limits) CheckSlides(slides []slide.Slide) error {
	if len(slides) == 0 {
		return ErrNoSlides
	}
	if l.MaxSlides > 0 && len(slides) > l.MaxSlides {
		return fmt.Errorf("%w: %d > %d", ErrTooManySlides, len(slides), l.MaxSlides)
	}
	return nil
}

// Options 配置一次渲染。
type Options struct {
	Width, Height float64
	// Theme 为 nil 时使用按宽度调整后的默认主题。
	Theme   *theme.Theme
	Breaker *typography.Breaker

	VerticalAlign layout.VerticalAlign
	AllowOverflow bool
	Remeasure     bool

	Limits     Limits
	FinalSlide markdown.FinalSlide
	// Concurrency 为 0 时使用 GOMAXPROCS。
	Concurrency int

	PNG bool
	PDF bool
	// Surface 为每个 worker 创建测量面；为 nil 时使用渲染器的测量面。
	// PNG 与 PDF 都关闭时只排版不绘制，此时可以不提供渲染器。
	Surface func() typography.Surface
	// PatternsEnabled 只记录在元数据中，绘制由渲染器负责。
	PatternsEnabled bool

	Logger *slog.Logger
}

// SlideMetadata 描述一张幻灯片的排版结果。
type SlideMetadata struct {
	SlideNumber   int                 `json:"slideNumber"`
	Type          slide.Type          `json:"type"`
	LayoutMetrics *layout.Metrics     `json:"layoutMetrics,omitempty"`
	Validation    *layout.Validation  `json:"validation,omitempty"`
	Compression   *layout.Compression `json:"compression,omitempty"`
	PatternUsed   bool                `json:"patternUsed"`
	Error         string              `json:"error,omitempty"`
}

// QualityMetrics 汇总整套幻灯片的质量分。
type QualityMetrics struct {
	OverallScore float64   `json:"overallScore"`
	LayoutScores []float64 `json:"layoutScores"`
}

// Output 是一次渲染的全部产物。Images 与 Slides 按幻灯片顺序排列。
type Output struct {
	Images  [][]byte         `json:"-"`
	PDF     []byte           `json:"-"`
	Slides  []SlideMetadata  `json:"slideMetadata"`
	Quality QualityMetrics   `json:"qualityMetrics"`
	Layouts []*layout.Result `json:"-"`
}

// Generator 持有渲染器与选项，可重复使用。
type Generator struct {
	r    renderer.Renderer
	opts Options
	log  *slog.Logger
}

// New 创建 Generator。
func New(r renderer.Renderer, opts Options) (*Generator, error) {
	if r == nil && (opts.PNG || opts.PDF || opts.Surface == nil) {
		return nil, fmt.Errorf("renderer 不能为空")
	}
	if opts.Surface == nil {
		opts.Surface = r.Surface
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("画布尺寸必须为正数: %gx%g", opts.Width, opts.Height)
	}
	if opts.Theme == nil {
		th := theme.Adapt(theme.Default(), int(opts.Width))
		opts.Theme = &th
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.GOMAXPROCS(0)
	}
	l := opts.Logger
	if l == nil {
		l = logging.WithComponent("carousel")
	}
	return &Generator{r: r, opts: opts, log: l}, nil
}

// RenderMarkdown 检查长度、解析 Markdown、追加结尾幻灯片后渲染。
func (g *Generator) RenderMarkdown(ctx context.Context, src []byte) (*Output, error) {
	if err := g.opts.Limits.CheckText(string(src)); err != nil {
		return nil, err
	}
	slides := markdown.AddFinalSlide(markdown.Parse(src), g.opts.FinalSlide)
	return g.Render(ctx, slides)
}

// Render 并行排版与绘制幻灯片。单张幻灯片失败时输出错误占位页并继续；
// 只有限制检查失败、ctx 取消或错误占位页也无法绘制时才返回错误。
func (g *Generator) Render(ctx context.Context, slides []slide.Slide) (*Output, error) {
	if err := g.opts.Limits.CheckSlides(slides); err != nil {
		return nil, err
	}

	total := len(slides)
	pages := make([]renderer.Page, total)
	out := &Output{
		Images:  make([][]byte, total),
		Slides:  make([]SlideMetadata, total),
		Layouts: make([]*layout.Result, total),
	}

	jobs := make(chan int)
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		defer close(jobs)
		for i := range slides {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < min(g.opts.Concurrency, total); w++ {
		eg.Go(func() error {
			surface := g.opts.Surface()
			for i := range jobs {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := g.renderOne(surface, slides, i, pages, out); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if g.opts.PDF {
		data, err := g.renderPDF(pages, out)
		if err != nil {
			return nil, fmt.Errorf("生成 PDF 失败: %w", err)
		}
		out.PDF = data
	}
	out.Quality = quality(out.Slides)
	g.log.Info("渲染完成",
		slog.Int("slides", total),
		slog.Float64("overallScore", out.Quality.OverallScore))
	return out, nil
}

// renderOne 只写入下标 i 对应的元素，多个 worker 之间不共享写入位置。
func (g *Generator) renderOne(surface typography.Surface, slides []slide.Slide, i int, pages []renderer.Page, out *Output) error {
	s := slides[i]
	page := renderer.Page{Slide: s, Number: i + 1, Total: len(slides)}
	meta := SlideMetadata{SlideNumber: i + 1, Type: s.Type, PatternUsed: g.opts.PatternsEnabled}
	log := g.log.With(slog.Int("slide", i+1))

	res, err := layout.LayoutSlide(surface, s, g.opts.Width, g.opts.Height, layout.Options{
		Theme:         g.opts.Theme,
		Breaker:       g.opts.Breaker,
		VerticalAlign: g.opts.VerticalAlign,
		AllowOverflow: g.opts.AllowOverflow,
		Remeasure:     g.opts.Remeasure,
	})
	if err != nil {
		log.Warn("排版失败，输出错误占位页", slog.Any("err", err))
		page.Err = err
		meta.Error = err.Error()
	} else {
		page.Layout = res
		out.Layouts[i] = res
		meta.LayoutMetrics = &res.Metrics
		meta.Validation = &res.Validation
		meta.Compression = &res.Compression
		if res.Compression.Kind != layout.CompressionNone {
			log.Debug("内容已压缩",
				slog.String("kind", string(res.Compression.Kind)),
				slog.Float64("fontScale", res.Compression.FontScale))
		}
		if !res.Validation.IsValid {
			log.Warn("布局校验未通过", slog.Any("issues", res.Validation.Issues))
		}
	}

	if g.opts.PNG {
		data, err := g.r.RenderPNG(page)
		if err != nil && page.Err == nil {
			log.Warn("绘制失败，输出错误占位页", slog.Any("err", err))
			page.Err = err
			meta.Error = err.Error()
			data, err = g.r.RenderPNG(page)
		}
		if err != nil {
			return fmt.Errorf("绘制第 %d 张幻灯片失败: %w", i+1, err)
		}
		out.Images[i] = data
	}
	pages[i] = page
	out.Slides[i] = meta
	return nil
}

// renderPDF 把报告失败的页面改为错误占位页后重试；每页最多重试一次，
// 错误占位页本身失败时返回错误。
func (g *Generator) renderPDF(pages []renderer.Page, out *Output) ([]byte, error) {
	for {
		data, err := g.r.RenderPDF(pages)
		var pe *renderer.PageError
		if err == nil || !errors.As(err, &pe) {
			return data, err
		}
		i := pe.Number - 1
		if i < 0 || i >= len(pages) || pages[i].Err != nil {
			return nil, err
		}
		g.log.Warn("PDF 页面绘制失败，输出错误占位页", slog.Int("slide", pe.Number), slog.Any("err", pe.Err))
		pages[i].Err = pe.Err
		out.Slides[i].Error = pe.Err.Error()
	}
}

// quality 返回成功排版的幻灯片总分的平均值。
func quality(slides []SlideMetadata) QualityMetrics {
	q := QualityMetrics{LayoutScores: []float64{}}
	var sum float64
	for _, m := range slides {
		if m.LayoutMetrics == nil {
			continue
		}
		q.LayoutScores = append(q.LayoutScores, m.LayoutMetrics.OverallScore)
		sum += m.LayoutMetrics.OverallScore
	}
	if n := len(q.LayoutScores); n > 0 {
		q.OverallScore = sum / float64(n)
	}
	return q
}
