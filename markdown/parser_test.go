package markdown

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/carousel/slide"
)

func TestParseSlides(t *testing.T) {
	src := `# Карусель за минуту
Как превратить заметки в слайды.

## Зачем
Короткий текст читают *до конца*.

- первый пункт
- второй пункт

Ещё один абзац.

> Простота есть необходимое условие прекрасного.

## Итог
Всё.
`
	want := []slide.Slide{
		{Type: slide.TypeIntro, Title: "Карусель за минуту", Text: "Как превратить заметки в слайды.", Color: slide.ColorAccent},
		{Type: slide.TypeText, Title: "Зачем", Text: "Короткий текст читают до конца.\n\nЕщё один абзац.\n\n• первый пункт\n• второй пункт", Color: slide.ColorDefault},
		{Type: slide.TypeQuote, Text: "Простота есть необходимое условие прекрасного.", Color: slide.ColorAccent, Size: slide.SizeLarge},
		{Type: slide.TypeText, Title: "Итог", Text: "Всё.", Color: slide.ColorDefault},
	}
	if diff := cmp.Diff(want, Parse([]byte(src))); diff != "" {
		t.Fatalf("幻灯片不符 (-want +got):\n%s", diff)
	}
}

func TestParseLongQuoteIsSmall(t *testing.T) {
	long := strings.Repeat("слово ", 20)
	got := Parse([]byte("> " + long))
	if len(got) != 1 || got[0].Size != slide.SizeSmall {
		t.Fatalf("长引用应使用 small: %+v", got)
	}
}

func TestParseIntroWithoutSubtitle(t *testing.T) {
	got := Parse([]byte("# Только заголовок\n\n## Раздел\nтекст\n"))
	if len(got) != 2 {
		t.Fatalf("期望 2 张幻灯片，实际 %d", len(got))
	}
	if got[0].Text != "" || got[1].Text != "текст" {
		t.Fatalf("内容不符: %+v", got)
	}
}

func TestParseIgnoresOrphanParagraphs(t *testing.T) {
	got := Parse([]byte("просто текст без заголовка\n\n```\ncode\n```\n"))
	if len(got) != 0 {
		t.Fatalf("没有标题的段落不应生成幻灯片: %+v", got)
	}
}

func TestParseSoftBreakKeptAsNewline(t *testing.T) {
	got := Parse([]byte("## Раздел\nпервая строка\nвторая строка\n"))
	if len(got) != 1 || got[0].Text != "первая строка\nвторая строка" {
		t.Fatalf("软换行应保留为换行: %+v", got)
	}
}

func TestAddFinalSlide(t *testing.T) {
	base := []slide.Slide{{Type: slide.TypeText, Title: "A", Text: "a"}}
	if got := AddFinalSlide(base, FinalSlide{}); len(got) != 1 {
		t.Fatalf("未启用时不应追加")
	}
	got := AddFinalSlide(base, FinalSlide{Enabled: true, Type: FinalContact, Title: "Пишите"})
	if len(got) != 2 || len(base) != 1 {
		t.Fatalf("应返回新切片并追加一张")
	}
	want := slide.Slide{Type: slide.TypeText, Title: "Пишите", Text: "email@example.com\n\nTelegram: @username", Color: slide.ColorDefault}
	if diff := cmp.Diff(want, got[1]); diff != "" {
		t.Fatalf("结尾幻灯片不符 (-want +got):\n%s", diff)
	}
	got = AddFinalSlide(nil, FinalSlide{Enabled: true, Type: "unknown"})
	if got[0].Title != "Подписывайтесь!" || !got[0].IsAccent() {
		t.Fatalf("未知模板应回退到 cta: %+v", got[0])
	}
}
