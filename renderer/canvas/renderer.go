package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/carousel/binding"
	"github.com/ByLCY/carousel/fonts"
	"github.com/ByLCY/carousel/layout"
	"github.com/ByLCY/carousel/logging"
	"github.com/ByLCY/carousel/pattern"
	"github.com/ByLCY/carousel/renderer"
	"github.com/ByLCY/carousel/theme"
	"github.com/ByLCY/carousel/typography"
)

const (
	chromeAlpha      = 0.7
	chromeSizeRatio  = 0.8
	avatarSizeRatio  = 1.8
	avatarTextGap    = 16
	debugAreaColor   = "#FF0000"
	debugAreaWidth   = 2
	debugBoxColor    = "#00FF00"
	debugBoxWidth    = 1
	errorBackground  = "#f3f4f6"
	errorForeground  = "#374151"
	errorTitle       = "⚠️ Ошибка рендеринга"
	errorTitleSize   = 48
	errorMessageSize = 32
)

// PatternOptions 控制背景圆点。
type PatternOptions struct {
	Enabled   bool
	Intensity pattern.Intensity
	// Seed 与页码相加后作为每页的随机种子。
	Seed int64
}

// Chrome 是页眉页脚模板，占位符由 binding 替换。
// FooterRight 只在非最后一页绘制。
type Chrome struct {
	Enabled     bool
	HeaderLeft  string
	HeaderRight string
	FooterLeft  string
	FooterRight string
}

// Options 配置 canvas 渲染器。
type Options struct {
	Width, Height float64
	// Theme 应已按画布宽度调整。
	Theme      theme.Theme
	BrandColor string
	Patterns   PatternOptions
	Chrome     Chrome
	// Data 是页眉页脚模板的数据，渲染时追加 slide.number/slide.total/slide.type。
	Data   map[string]any
	Avatar image.Image
	Debug  bool
	Logger *slog.Logger
}

// Renderer 通过 github.com/tdewolff/canvas 绘制幻灯片。
// Renderer 本身可以并发使用：每次调用都持有独立的字体状态。
type Renderer struct {
	lib  *fonts.Library
	opts Options
	log  *slog.Logger
}

var _ renderer.Renderer = (*Renderer)(nil)

// NewRenderer 创建渲染器。lib 为 nil 时只使用内置字体。
func NewRenderer(lib *fonts.Library, opts Options) (*Renderer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("画布尺寸必须为正数: %gx%g", opts.Width, opts.Height)
	}
	if err := opts.Theme.Validate(); err != nil {
		return nil, err
	}
	if lib == nil {
		lib = fonts.NewLibrary()
	}
	l := opts.Logger
	if l == nil {
		l = logging.WithComponent("renderer")
	}
	r := &Renderer{lib: lib, opts: opts, log: l}
	if opts.Chrome.Enabled {
		for _, path := range r.missingPlaceholders() {
			l.Warn("页眉页脚占位符没有对应数据，将原样输出", slog.String("path", path))
		}
	}
	return r, nil
}

// missingPlaceholders 用第一页的数据检查页眉页脚模板，slide.* 总能取到值。
func (r *Renderer) missingPlaceholders() []string {
	data := r.chromeData(renderer.Page{Number: 1, Total: 1})
	c := r.opts.Chrome
	var out []string
	for _, tpl := range []string{c.HeaderLeft, c.HeaderRight, c.FooterLeft, c.FooterRight} {
		out = append(out, binding.Missing(tpl, data)...)
	}
	return out
}

// Surface 返回新的测量面。
func (r *Renderer) Surface() typography.Surface { return NewSurface(r.lib) }

// RenderPNG 绘制单页并编码为 PNG（1 px = 1 mm）。
func (r *Renderer) RenderPNG(p renderer.Page) ([]byte, error) {
	c, err := r.draw(p, newFontSet(r.lib))
	if err != nil {
		return nil, err
	}
	img := rasterizer.Draw(c, canvas.DPMM(1), canvas.DefaultColorSpace)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPDF 把多页写入同一个 PDF。
func (r *Renderer) RenderPDF(pages []renderer.Page) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("缺少可渲染的页面")
	}
	fs := newFontSet(r.lib)
	var buf bytes.Buffer
	writer := pdf.New(&buf, r.opts.Width, r.opts.Height, nil)
	writer.SetInfo(pages[0].Slide.Title, "", "", "", "carousel")
	for i, p := range pages {
		if i > 0 {
			writer.NewPage(r.opts.Width, r.opts.Height)
		}
		c, err := r.draw(p, fs)
		if err != nil {
			return nil, &renderer.PageError{Number: p.Number, Err: err}
		}
		c.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) draw(p renderer.Page, fs *fontSet) (*canvas.Canvas, error) {
	c := canvas.New(r.opts.Width, r.opts.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	if p.Err != nil || p.Layout == nil {
		if err := r.drawError(ctx, fs, p); err != nil {
			return nil, err
		}
		return c, nil
	}
	if err := r.drawSlide(ctx, fs, p); err != nil {
		return nil, err
	}
	return c, nil
}

// palette 是一页使用的背景色与文字色。
type palette struct {
	background color.Color
	text       color.Color
	accent     color.Color
	textHex    string
}

func (r *Renderer) paletteFor(p renderer.Page) palette {
	th := r.opts.Theme
	accent := r.opts.BrandColor
	if accent == "" {
		accent = th.Colors.Accent
	}
	bg, text := th.Colors.Background, th.Colors.Primary
	if p.Slide.IsAccent() {
		bg = accent
		text = theme.ContrastColor(bg)
	}
	return palette{
		background: hexColor(bg, 1),
		text:       hexColor(text, 1),
		accent:     hexColor(accent, 1),
		textHex:    text,
	}
}

func (r *Renderer) drawSlide(ctx *canvas.Context, fs *fontSet, p renderer.Page) error {
	th := r.opts.Theme
	pal := r.paletteFor(p)
	w, h := r.opts.Width, r.opts.Height

	ctx.SetFillColor(pal.background)
	ctx.SetStrokeColor(canvas.Transparent)
	if radius := float64(th.Layout.BorderRadius); radius > 0 {
		ctx.DrawPath(0, 0, canvas.RoundedRectangle(w, h, radius))
	} else {
		ctx.DrawPath(0, 0, canvas.Rectangle(w, h))
	}

	if r.opts.Patterns.Enabled {
		r.drawPattern(ctx, p)
	}
	if r.opts.Chrome.Enabled {
		if err := r.drawChrome(ctx, fs, p, pal); err != nil {
			return err
		}
	}
	for _, el := range p.Layout.Tree.Children {
		if err := r.drawElement(ctx, fs, el, pal); err != nil {
			return err
		}
	}
	if r.opts.Debug {
		drawDebug(ctx, p.Layout)
	}
	return nil
}

// drawPattern 失败时只记录日志，幻灯片继续绘制。
func (r *Renderer) drawPattern(ctx *canvas.Context, p renderer.Page) {
	brand := r.opts.BrandColor
	if brand == "" {
		brand = r.opts.Theme.Colors.Accent
	}
	pat, err := pattern.Generate(r.opts.Width, r.opts.Height, pattern.Options{
		Intensity: r.opts.Patterns.Intensity,
		Color:     brand,
		Seed:      r.opts.Patterns.Seed + int64(p.Number),
	})
	if err != nil {
		r.log.Warn("生成背景图案失败", slog.Int("slide", p.Number), slog.Any("err", err))
		return
	}
	ctx.SetFillColor(canvas.RGBA(float64(pat.Color.R)/255, float64(pat.Color.G)/255, float64(pat.Color.B)/255, pat.Opacity))
	ctx.SetStrokeColor(canvas.Transparent)
	for _, d := range pat.Dots {
		ctx.DrawPath(d.X, d.Y, canvas.Circle(d.Radius))
	}
	r.log.Debug("已绘制背景图案", slog.Int("slide", p.Number), slog.Int("dots", pat.Elements()))
}

func (r *Renderer) chromeData(p renderer.Page) map[string]any {
	data := make(map[string]any, len(r.opts.Data)+1)
	for k, v := range r.opts.Data {
		data[k] = v
	}
	data["slide"] = map[string]any{
		"number": p.Number,
		"total":  p.Total,
		"type":   string(p.Slide.Type),
	}
	return data
}

func (r *Renderer) drawChrome(ctx *canvas.Context, fs *fontSet, p renderer.Page, pal palette) error {
	th := r.opts.Theme
	small := th.Typography.BodySizes.Small
	size := math.Round(float64(small.Size) * chromeSizeRatio)
	face, err := fs.face(typography.Font{Family: th.Typography.SecondaryFont, Weight: small.Weight, Size: size}, hexColor(pal.textHex, chromeAlpha))
	if err != nil {
		return err
	}
	data := r.chromeData(p)
	pad := float64(th.Layout.Padding)
	headerY := pad
	footerY := r.opts.Height - pad
	right := r.opts.Width - pad

	leftX := pad
	if r.opts.Avatar != nil {
		avatar := size * avatarSizeRatio
		drawAvatar(ctx, r.opts.Avatar, pad, headerY-avatar/2-4, avatar)
		leftX = pad + avatar + avatarTextGap
	}
	drawLabel(ctx, face, binding.Interpolate(r.opts.Chrome.HeaderLeft, data), leftX, headerY, canvas.Left)
	drawLabel(ctx, face, binding.Interpolate(r.opts.Chrome.HeaderRight, data), right, headerY, canvas.Right)
	drawLabel(ctx, face, binding.Interpolate(r.opts.Chrome.FooterLeft, data), pad, footerY, canvas.Left)
	if !p.IsLast() {
		drawLabel(ctx, face, binding.Interpolate(r.opts.Chrome.FooterRight, data), right, footerY, canvas.Right)
	}
	return nil
}

// drawLabel 以 y 为基线绘制单行文本。
func drawLabel(ctx *canvas.Context, face *canvas.FontFace, s string, x, y float64, align canvas.TextAlign) {
	if s == "" {
		return
	}
	ctx.DrawText(x, y, canvas.NewTextLine(face, s, align))
}

func (r *Renderer) drawElement(ctx *canvas.Context, fs *fontSet, el layout.PositionedElement, pal palette) error {
	col := pal.text
	switch el.Style.Color {
	case "", "primary":
	case "accent":
		col = pal.accent
	default:
		if hex := r.opts.Theme.Colors.Role(el.Style.Color); hex != "" {
			col = hexColor(hex, 1)
		}
	}
	face, err := fs.face(el.Style.Face(), col)
	if err != nil {
		return err
	}
	// 行顶对齐：基线 = 行顶 + 上升部
	ascent := face.Metrics().Ascent
	pitch := el.Style.LinePitch()
	x, y := el.Position.X, el.Position.Y

	if el.Type != layout.ElementList {
		for i, line := range el.Measured.Lines {
			drawLabel(ctx, face, line, x, y+float64(i)*pitch+ascent, canvas.Left)
		}
		return nil
	}

	textX := x + el.Measured.BulletWidth + el.Style.Indent
	cursor := y
	for _, item := range el.Measured.Items {
		drawLabel(ctx, face, el.Style.BulletStyle, x, cursor+ascent, canvas.Left)
		for _, line := range item.Lines {
			drawLabel(ctx, face, line, textX, cursor+ascent, canvas.Left)
			cursor += pitch
		}
		cursor += el.Style.ItemGap()
	}
	return nil
}

// drawDebug 描出正文区域与各元素的边框。
func drawDebug(ctx *canvas.Context, res *layout.Result) {
	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeColor(canvas.Hex(debugAreaColor))
	ctx.SetStrokeWidth(debugAreaWidth)
	a := res.ContentArea
	ctx.DrawPath(a.X, a.Y, canvas.Rectangle(a.Width, a.Height))

	ctx.SetStrokeColor(canvas.Hex(debugBoxColor))
	ctx.SetStrokeWidth(debugBoxWidth)
	for _, el := range res.Tree.Children {
		b := el.Position
		ctx.DrawPath(b.X, b.Y, canvas.Rectangle(b.Width, b.Height))
	}
}

func (r *Renderer) drawError(ctx *canvas.Context, fs *fontSet, p renderer.Page) error {
	w, h := r.opts.Width, r.opts.Height
	ctx.SetFillColor(canvas.Hex(errorBackground))
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.DrawPath(0, 0, canvas.Rectangle(w, h))

	fg := canvas.Hex(errorForeground)
	family := r.opts.Theme.Typography.SecondaryFont
	title, err := fs.face(typography.Font{Family: family, Size: errorTitleSize}, fg)
	if err != nil {
		return err
	}
	msg, err := fs.face(typography.Font{Family: family, Size: errorMessageSize}, fg)
	if err != nil {
		return err
	}
	drawLabel(ctx, title, errorTitle, w/2, middleBaseline(title, h/2-30), canvas.Center)
	drawLabel(ctx, msg, fmt.Sprintf("Ошибка слайда %d", p.Number), w/2, middleBaseline(msg, h/2+30), canvas.Center)
	return nil
}

// middleBaseline 返回使文字在 y 处垂直居中的基线位置。
func middleBaseline(face *canvas.FontFace, y float64) float64 {
	m := face.Metrics()
	return y + (m.Ascent-m.Descent)/2
}

func hexColor(hex string, alpha float64) color.Color {
	c, err := theme.ParseHex(hex)
	if err != nil {
		c = color.RGBA{A: 0xff}
	}
	return canvas.RGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, alpha)
}
