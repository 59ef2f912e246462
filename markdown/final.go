package markdown

import "github.com/ByLCY/carousel/slide"

// FinalTemplate 是结尾幻灯片的模板名。
type FinalTemplate string

const (
	FinalCTA     FinalTemplate = "cta"
	FinalContact FinalTemplate = "contact"
	FinalBrand   FinalTemplate = "brand"
)

var finalTemplates = map[FinalTemplate]slide.Slide{
	FinalCTA:     {Type: slide.TypeText, Title: "Подписывайтесь!", Text: "Больше контента в профиле", Color: slide.ColorAccent},
	FinalContact: {Type: slide.TypeText, Title: "Связаться:", Text: "email@example.com\n\nTelegram: @username", Color: slide.ColorDefault},
	FinalBrand:   {Type: slide.TypeText, Title: "Спасибо за внимание!", Text: "Помогаю бизнесу расти", Color: slide.ColorAccent},
}

// FinalSlide 配置追加在末尾的幻灯片。非空字段覆盖模板。
type FinalSlide struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	Type    FinalTemplate `yaml:"type" json:"type"`
	Title   string        `yaml:"title" json:"title,omitempty"`
	Text    string        `yaml:"text" json:"text,omitempty"`
	Color   slide.Color   `yaml:"color" json:"color,omitempty"`
}

// ValidFinalTemplate 报告 t 是否为已知模板，空值视为 cta。
func ValidFinalTemplate(t FinalTemplate) bool {
	if t == "" {
		return true
	}
	_, ok := finalTemplates[t]
	return ok
}

// AddFinalSlide 在启用时返回追加了结尾幻灯片的新切片；未知模板按 cta 处理。
func AddFinalSlide(slides []slide.Slide, cfg FinalSlide) []slide.Slide {
	if !cfg.Enabled {
		return slides
	}
	s, ok := finalTemplates[cfg.Type]
	if !ok {
		s = finalTemplates[FinalCTA]
	}
	if cfg.Title != "" {
		s.Title = cfg.Title
	}
	if cfg.Text != "" {
		s.Text = cfg.Text
	}
	if cfg.Color != "" {
		s.Color = cfg.Color
	}
	out := make([]slide.Slide, 0, len(slides)+1)
	out = append(out, slides...)
	return append(out, s)
}
