// Package config 读取 carousel 的 YAML 配置并叠加环境变量。
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ByLCY/carousel/logging"
	"github.com/ByLCY/carousel/markdown"
	"github.com/ByLCY/carousel/pattern"
	"github.com/ByLCY/carousel/theme"
	"github.com/ByLCY/carousel/typography"
)

type CanvasConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`
}

type LimitsConfig struct {
	MaxTextLength int `yaml:"max_text_length"`
	MaxSlides     int `yaml:"max_slides"`
	// Concurrency 为 0 时按 CPU 数决定。
	Concurrency int `yaml:"concurrency"`
}

type FontsConfig struct {
	// Dir 中的 "Family-Weight.ttf" 文件会被登记；为空时只用内置字体。
	Dir     string `yaml:"dir"`
	MinSize int    `yaml:"min_size"`
	MaxSize int    `yaml:"max_size"`
}

type TypographyConfig struct {
	// Language 选择内置词表（ru/en），LexiconFile 指向 YAML 词表时优先。
	Language    string `yaml:"language"`
	LexiconFile string `yaml:"lexicon_file"`
}

type DesignConfig struct {
	// Theme 为内置主题名或 .json 主题文件路径。
	Theme      string `yaml:"theme"`
	BrandColor string `yaml:"brand_color"`
	// Adaptive 为 true 时按画布宽度缩放主题尺寸。
	Adaptive bool `yaml:"adaptive"`
}

type PatternsConfig struct {
	Enabled   bool              `yaml:"enabled"`
	Style     pattern.Style     `yaml:"style"`
	Intensity pattern.Intensity `yaml:"intensity"`
	Seed      int64             `yaml:"seed"`
}

type AuthorConfig struct {
	Username string `yaml:"username"`
	FullName string `yaml:"full_name"`
	Avatar   string `yaml:"avatar"`
}

// ChromeConfig 是页眉页脚模板，支持 ${path|默认值} 占位符。
type ChromeConfig struct {
	Enabled     bool   `yaml:"enabled"`
	HeaderLeft  string `yaml:"header_left"`
	HeaderRight string `yaml:"header_right"`
	FooterLeft  string `yaml:"footer_left"`
	FooterRight string `yaml:"footer_right"`
}

type RenderConfig struct {
	// Format 为 png、pdf、both 或 none（只排版，输出元数据与调试 JSON）。
	Format        string `yaml:"format"`
	Debug         bool   `yaml:"debug"`
	AllowOverflow bool   `yaml:"allow_overflow"`
	Remeasure     bool   `yaml:"remeasure"`
	VerticalAlign string `yaml:"vertical_align"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// Config 是完整配置。
type Config struct {
	Canvas     CanvasConfig        `yaml:"canvas"`
	Limits     LimitsConfig        `yaml:"limits"`
	Fonts      FontsConfig         `yaml:"fonts"`
	Typography TypographyConfig    `yaml:"typography"`
	Design     DesignConfig        `yaml:"design"`
	Patterns   PatternsConfig      `yaml:"patterns"`
	Author     AuthorConfig        `yaml:"author"`
	Chrome     ChromeConfig        `yaml:"chrome"`
	FinalSlide markdown.FinalSlide `yaml:"final_slide"`
	Render     RenderConfig        `yaml:"render"`
	Logging    LoggingConfig       `yaml:"logging"`
}

// Defaults 返回默认配置。
func Defaults() Config {
	return Config{
		Canvas:     CanvasConfig{Width: 1600, Height: 2000, MaxWidth: 4000, MaxHeight: 6000},
		Limits:     LimitsConfig{MaxTextLength: 50000, MaxSlides: 20},
		Fonts:      FontsConfig{MinSize: 24, MaxSize: 200},
		Typography: TypographyConfig{Language: "ru"},
		Design:     DesignConfig{Theme: theme.DefaultName, BrandColor: pattern.DefaultColor, Adaptive: true},
		Patterns:   PatternsConfig{Enabled: true, Style: pattern.StyleAuto, Intensity: pattern.IntensitySubtle},
		Chrome: ChromeConfig{
			Enabled:     true,
			HeaderLeft:  "${username|@username}",
			HeaderRight: "${slide.number}/${slide.total}",
			FooterLeft:  "${fullName|Your Name}",
			FooterRight: "→",
		},
		FinalSlide: markdown.FinalSlide{Type: markdown.FinalCTA},
		Render:     RenderConfig{Format: "png", VerticalAlign: "center"},
		Logging:    LoggingConfig{Level: "info"},
	}
}

// 环境变量名。
const (
	EnvCanvasWidth   = "CAROUSEL_CANVAS_WIDTH"
	EnvCanvasHeight  = "CAROUSEL_CANVAS_HEIGHT"
	EnvMaxSlides     = "CAROUSEL_MAX_SLIDES"
	EnvMaxTextLength = "CAROUSEL_MAX_TEXT_LENGTH"
	EnvConcurrency   = "CAROUSEL_CONCURRENCY"
	EnvFontsDir      = "CAROUSEL_FONTS_DIR"
	EnvLanguage      = "CAROUSEL_LANGUAGE"
	EnvTheme         = "CAROUSEL_THEME"
	EnvBrandColor    = "CAROUSEL_BRAND_COLOR"
	EnvPatterns      = "CAROUSEL_PATTERNS"
	EnvFormat        = "CAROUSEL_FORMAT"
	EnvDebug         = "CAROUSEL_DEBUG"
)

// Load 读取配置文件（path 为空时只用默认值）并叠加环境变量。
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
		}
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}
	normalize(&cfg)
	return cfg, nil
}

func normalize(cfg *Config) {
	lower := func(s *string) { *s = strings.ToLower(strings.TrimSpace(*s)) }
	lower(&cfg.Typography.Language)
	lower(&cfg.Render.Format)
	lower(&cfg.Render.VerticalAlign)
	lower(&cfg.Logging.Level)
	lower(&cfg.Logging.Format)
	cfg.Design.Theme = strings.TrimSpace(cfg.Design.Theme)
}

func applyEnvOverrides(cfg *Config) error {
	var errs []error
	setInt := func(key string, dst *int) {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("环境变量 %s=%q 不是整数", key, v))
			return
		}
		*dst = n
	}
	setString := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setBool := func(key string, dst *bool) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = parseBool(v)
		}
	}

	setInt(EnvCanvasWidth, &cfg.Canvas.Width)
	setInt(EnvCanvasHeight, &cfg.Canvas.Height)
	setInt(EnvMaxSlides, &cfg.Limits.MaxSlides)
	setInt(EnvMaxTextLength, &cfg.Limits.MaxTextLength)
	setInt(EnvConcurrency, &cfg.Limits.Concurrency)
	setString(EnvFontsDir, &cfg.Fonts.Dir)
	setString(EnvLanguage, &cfg.Typography.Language)
	setString(EnvTheme, &cfg.Design.Theme)
	setString(EnvBrandColor, &cfg.Design.BrandColor)
	setBool(EnvPatterns, &cfg.Patterns.Enabled)
	setString(EnvFormat, &cfg.Render.Format)
	setBool(EnvDebug, &cfg.Render.Debug)

	setString(logging.EnvLogLevel, &cfg.Logging.Level)
	setString(logging.EnvLogFormat, &cfg.Logging.Format)
	setBool(logging.EnvLogSource, &cfg.Logging.Source)
	setString(logging.EnvLogFile, &cfg.Logging.File)
	return errors.Join(errs...)
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// Validate 检查配置的一致性，返回合并后的全部错误。
func (c Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) { errs = append(errs, fmt.Errorf(format, args...)) }

	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		add("画布尺寸必须大于 0: %dx%d", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Canvas.MaxWidth > 0 && c.Canvas.Width > c.Canvas.MaxWidth {
		add("画布宽度 %d 超过上限 %d", c.Canvas.Width, c.Canvas.MaxWidth)
	}
	if c.Canvas.MaxHeight > 0 && c.Canvas.Height > c.Canvas.MaxHeight {
		add("画布高度 %d 超过上限 %d", c.Canvas.Height, c.Canvas.MaxHeight)
	}
	if c.Limits.MaxTextLength <= 0 {
		add("max_text_length 必须大于 0")
	}
	if c.Limits.MaxSlides <= 0 {
		add("max_slides 必须大于 0")
	}
	if c.Limits.Concurrency < 0 {
		add("concurrency 不能为负数")
	}
	if c.Fonts.MinSize <= 0 || c.Fonts.MaxSize < c.Fonts.MinSize {
		add("字号范围无效: %d..%d", c.Fonts.MinSize, c.Fonts.MaxSize)
	}
	if c.Typography.LexiconFile == "" {
		if _, err := typography.LexiconByName(c.Typography.Language); err != nil {
			errs = append(errs, err)
		}
	}
	if !strings.HasSuffix(strings.ToLower(c.Design.Theme), ".json") {
		if _, err := theme.Builtin(c.Design.Theme); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Design.BrandColor != "" {
		if _, err := theme.ParseHex(c.Design.BrandColor); err != nil {
			errs = append(errs, fmt.Errorf("brand_color 无效: %w", err))
		}
	}
	if !pattern.ValidStyle(c.Patterns.Style) {
		add("未知的图案样式 %q", c.Patterns.Style)
	}
	if !pattern.ValidIntensity(c.Patterns.Intensity) {
		add("未知的图案强度 %q", c.Patterns.Intensity)
	}
	if !markdown.ValidFinalTemplate(c.FinalSlide.Type) {
		add("未知的结尾幻灯片模板 %q", c.FinalSlide.Type)
	}
	switch c.Render.Format {
	case "png", "pdf", "both", "none":
	default:
		add("未知的输出格式 %q", c.Render.Format)
	}
	switch c.Render.VerticalAlign {
	case "", "top", "center", "bottom":
	default:
		add("未知的垂直对齐方式 %q", c.Render.VerticalAlign)
	}
	if !logging.ValidLevel(c.Logging.Level) {
		add("未知的日志级别 %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		add("未知的日志格式 %q", c.Logging.Format)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("配置无效: %w", errors.Join(errs...))
}

// LoggingOptions 转换为 logging.Options。
func (c Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:     c.Logging.Level,
		Format:    c.Logging.Format,
		AddSource: c.Logging.Source,
		File:      c.Logging.File,
	}
}

// Save 把配置写为 YAML。
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入配置文件 %s 失败: %w", path, err)
	}
	return nil
}
