package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/ByLCY/carousel/carousel"
	"github.com/ByLCY/carousel/config"
	"github.com/ByLCY/carousel/fonts"
	"github.com/ByLCY/carousel/layout"
	"github.com/ByLCY/carousel/logging"
	"github.com/ByLCY/carousel/renderer"
	canvasrenderer "github.com/ByLCY/carousel/renderer/canvas"
	"github.com/ByLCY/carousel/theme"
	"github.com/ByLCY/carousel/typography"
)

// cliOptions 是命令行参数；非空的字段覆盖配置文件。
type cliOptions struct {
	Input      string
	OutputDir  string
	ConfigPath string
	Theme      string
	Format     string
	BrandColor string
	DebugPath  string
	Overlay    bool
	Data       string
	DebugDir   string
	InitConfig string
	ListThemes bool
}

func main() {
	var o cliOptions
	flag.StringVar(&o.Input, "in", "", "Markdown 文件路径（- 表示标准输入）")
	flag.StringVar(&o.OutputDir, "out", "output", "输出目录")
	flag.StringVar(&o.ConfigPath, "config", "", "YAML 配置文件路径")
	flag.StringVar(&o.Theme, "theme", "", "主题名称或主题 JSON 文件路径")
	flag.StringVar(&o.Format, "format", "", "输出格式：png、pdf、both 或 none（只排版）")
	flag.StringVar(&o.BrandColor, "brand", "", "品牌色（#RRGGBB）")
	flag.StringVar(&o.DebugPath, "debug", "", "布局调试 JSON 输出路径")
	flag.BoolVar(&o.Overlay, "overlay", false, "在图片上绘制正文区域与元素边框")
	flag.StringVar(&o.Data, "data", "", "页眉页脚模板使用的 JSON 数据")
	flag.StringVar(&o.DebugDir, "debug-dir", "", "按幻灯片输出布局调试 JSON 的目录")
	flag.StringVar(&o.InitConfig, "init-config", "", "把合并后的配置写入该 YAML 文件后退出")
	flag.BoolVar(&o.ListThemes, "themes", false, "列出内置主题后退出")
	flag.Parse()

	switch {
	case o.ListThemes:
		if err := listThemes(os.Stdout); err != nil {
			log.Fatalf("列出主题失败: %v", err)
		}
		return
	case o.InitConfig != "":
		if err := initConfig(o); err != nil {
			log.Fatalf("写入配置失败: %v", err)
		}
		fmt.Printf("已写入配置：%s\n", o.InitConfig)
		return
	}

	if o.Input == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	n, err := run(ctx, o)
	if err != nil {
		log.Fatalf("生成幻灯片失败: %v", err)
	}
	fmt.Printf("已生成 %d 张幻灯片：%s\n", n, o.OutputDir)
}

// run 串联配置、字体、主题、解析、布局与渲染，返回幻灯片数量。
func run(ctx context.Context, o cliOptions) (int, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return 0, err
	}
	applyFlags(&cfg, o)
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	logging.Init(cfg.LoggingOptions())
	logger := logging.WithComponent("cli")

	lib := fonts.NewLibrary()
	if cfg.Fonts.Dir != "" {
		n, err := lib.LoadDir(cfg.Fonts.Dir)
		if err != nil {
			return 0, err
		}
		logger.Info("已加载字体", slog.Int("count", n), slog.Any("families", lib.Families()))
	}

	th, err := theme.Resolve(cfg.Design.Theme)
	if err != nil {
		return 0, err
	}
	if cfg.Design.Adaptive {
		th = theme.Adapt(th, cfg.Canvas.Width)
	}
	th = theme.ClampSizes(th, cfg.Fonts.MinSize, cfg.Fonts.MaxSize)
	checkTheme(logger, th, lib)

	lex, err := loadLexicon(cfg.Typography)
	if err != nil {
		return 0, err
	}

	data, err := chromeData(cfg.Author, o.Data)
	if err != nil {
		return 0, err
	}
	layoutOnly := cfg.Render.Format == "none"
	var r renderer.Renderer
	if !layoutOnly {
		r, err = newRenderer(cfg, th, lib, data, logger)
		if err != nil {
			return 0, err
		}
	}

	g, err := carousel.New(r, carousel.Options{
		Width:           float64(cfg.Canvas.Width),
		Height:          float64(cfg.Canvas.Height),
		Theme:           &th,
		Breaker:         typography.NewBreaker(lex, typography.DefaultScoring()),
		VerticalAlign:   layout.VerticalAlign(cfg.Render.VerticalAlign),
		AllowOverflow:   cfg.Render.AllowOverflow,
		Remeasure:       cfg.Render.Remeasure,
		Limits:          carousel.Limits{MaxSlides: cfg.Limits.MaxSlides, MaxTextLength: cfg.Limits.MaxTextLength},
		FinalSlide:      cfg.FinalSlide,
		Concurrency:     cfg.Limits.Concurrency,
		PNG:             !layoutOnly && cfg.Render.Format != "pdf",
		PDF:             !layoutOnly && cfg.Render.Format != "png",
		Surface:         surfaceFactory(lib, layoutOnly),
		PatternsEnabled: cfg.Patterns.Enabled,
		Logger:          logging.WithComponent("carousel"),
	})
	if err != nil {
		return 0, err
	}

	src, err := readInput(o.Input)
	if err != nil {
		return 0, err
	}
	out, err := g.RenderMarkdown(ctx, src)
	if err != nil {
		return 0, err
	}
	if err := writeOutput(o.OutputDir, out); err != nil {
		return 0, err
	}
	if o.DebugPath != "" {
		if err := writeDebug(out.Layouts, o.DebugPath); err != nil {
			return 0, err
		}
	}
	if o.DebugDir != "" {
		if err := writeDebugDir(out.Layouts, o.DebugDir); err != nil {
			return 0, err
		}
	}
	return len(out.Slides), nil
}

func newRenderer(cfg config.Config, th theme.Theme, lib *fonts.Library, data map[string]any, logger *slog.Logger) (*canvasrenderer.Renderer, error) {
	ropts := canvasrenderer.Options{
		Width:      float64(cfg.Canvas.Width),
		Height:     float64(cfg.Canvas.Height),
		Theme:      th,
		BrandColor: cfg.Design.BrandColor,
		Patterns: canvasrenderer.PatternOptions{
			Enabled:   cfg.Patterns.Enabled,
			Intensity: cfg.Patterns.Intensity,
			Seed:      cfg.Patterns.Seed,
		},
		Chrome: canvasrenderer.Chrome{
			Enabled:     cfg.Chrome.Enabled,
			HeaderLeft:  cfg.Chrome.HeaderLeft,
			HeaderRight: cfg.Chrome.HeaderRight,
			FooterLeft:  cfg.Chrome.FooterLeft,
			FooterRight: cfg.Chrome.FooterRight,
		},
		Data:   data,
		Debug:  cfg.Render.Debug,
		Logger: logging.WithComponent("renderer"),
	}
	if cfg.Author.Avatar != "" {
		img, err := canvasrenderer.LoadAvatar(cfg.Author.Avatar)
		if err != nil {
			logger.Warn("头像加载失败，已忽略", slog.String("path", cfg.Author.Avatar), slog.Any("err", err))
		} else {
			ropts.Avatar = img
		}
	}
	return canvasrenderer.NewRenderer(lib, ropts)
}

// surfaceFactory 只在只排版模式下返回 x/image 字体度量的测量面，其余情况沿用渲染器的测量面。
func surfaceFactory(lib *fonts.Library, layoutOnly bool) func() typography.Surface {
	if !layoutOnly {
		return nil
	}
	return func() typography.Surface { return typography.NewFaceSurface(lib.Resolver()) }
}

// checkTheme 记录未达到 AA 的颜色组合与未加载的字体族。
func checkTheme(logger *slog.Logger, th theme.Theme, lib *fonts.Library) {
	checks, err := theme.AnalyzeContrast(th)
	if err != nil {
		logger.Warn("无法检查主题对比度", slog.Any("err", err))
	}
	for _, c := range checks {
		if !c.Accessible {
			logger.Warn("主题颜色对比度不足",
				slog.String("context", c.Context),
				slog.String("foreground", c.Foreground),
				slog.String("background", c.Background),
				slog.Float64("ratio", c.Ratio),
				slog.String("rating", c.Rating))
		}
	}
	families := []string{th.Typography.PrimaryFont}
	if th.Typography.SecondaryFont != th.Typography.PrimaryFont {
		families = append(families, th.Typography.SecondaryFont)
	}
	for _, family := range families {
		if !lib.Has(family) {
			logger.Warn("主题字体未加载，使用内置字体", slog.String("family", family))
		}
	}
}

func listThemes(w io.Writer) error {
	for _, s := range theme.Catalog() {
		if _, err := fmt.Fprintf(w, "%-10s %-12s %s  %s on %s\n", s.Key, s.Name, s.PrimaryFont, s.AccentColor, s.BackgroundColor); err != nil {
			return err
		}
	}
	return nil
}

// initConfig 合并配置文件、环境变量与命令行参数，校验后写成 YAML。
func initConfig(o cliOptions) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}
	applyFlags(&cfg, o)
	if err := cfg.Validate(); err != nil {
		return err
	}
	return config.Save(o.InitConfig, cfg)
}

func applyFlags(cfg *config.Config, o cliOptions) {
	if o.Theme != "" {
		cfg.Design.Theme = o.Theme
	}
	if o.Format != "" {
		cfg.Render.Format = o.Format
	}
	if o.BrandColor != "" {
		cfg.Design.BrandColor = o.BrandColor
	}
	if o.Overlay {
		cfg.Render.Debug = true
	}
}

func loadLexicon(cfg config.TypographyConfig) (*typography.Lexicon, error) {
	if cfg.LexiconFile == "" {
		return typography.LexiconByName(cfg.Language)
	}
	f, err := os.Open(cfg.LexiconFile)
	if err != nil {
		return nil, fmt.Errorf("无法打开词表文件 %s: %w", cfg.LexiconFile, err)
	}
	defer f.Close()
	return typography.LoadLexicon(f)
}

// chromeData 合并作者信息与 -data 参数；空字段不写入，以便模板默认值生效。
func chromeData(a config.AuthorConfig, raw string) (map[string]any, error) {
	data := map[string]any{}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return nil, fmt.Errorf("解析 data JSON 失败: %w", err)
		}
	}
	if a.Username != "" {
		data["username"] = a.Username
	}
	if a.FullName != "" {
		data["fullName"] = a.FullName
	}
	return data, nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("读取标准输入失败: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取 Markdown 文件 %s: %w", path, err)
	}
	return data, nil
}

func writeOutput(dir string, out *carousel.Output) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	for i, img := range out.Images {
		if img == nil {
			continue
		}
		name := filepath.Join(dir, fmt.Sprintf("slide-%02d.png", i+1))
		if err := os.WriteFile(name, img, 0o644); err != nil {
			return fmt.Errorf("写入 %s 失败: %w", name, err)
		}
	}
	if out.PDF != nil {
		if err := os.WriteFile(filepath.Join(dir, "carousel.pdf"), out.PDF, 0o644); err != nil {
			return fmt.Errorf("写入 PDF 文件失败: %w", err)
		}
	}
	meta, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化元数据失败: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "metadata.json"), meta, 0o644); err != nil {
		return fmt.Errorf("写入元数据失败: %w", err)
	}
	return nil
}

func writeDebug(results []*layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSONAll(results, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

// writeDebugDir 每张幻灯片写一个 layout-NN.json；排版失败的幻灯片没有文件。
func writeDebugDir(results []*layout.Result, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	for i, res := range results {
		name := filepath.Join(dir, fmt.Sprintf("layout-%02d.json", i+1))
		if err := layout.WriteDebugJSON(res, name); err != nil {
			return fmt.Errorf("输出调试 JSON %s 失败: %w", name, err)
		}
	}
	return nil
}
