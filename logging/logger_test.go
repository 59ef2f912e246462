package logging

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewJSONWritesStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "debug", Format: "json", Writer: &buf})
	l.With(slog.String("component", "layout")).Debug("压缩内容", slog.Int("slide", 3))

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("解析 JSON 日志失败: %v (%s)", err, buf.String())
	}
	if m["app"] != "carousel" || m["component"] != "layout" || m["msg"] != "压缩内容" {
		t.Fatalf("字段不符: %v", m)
	}
	if m["slide"] != float64(3) {
		t.Fatalf("slide 字段不符: %v", m["slide"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: "warn", Format: "console", Writer: &buf})
	l.Info("不应输出")
	l.Warn("应输出", slog.Bool("overflow", true))
	out := buf.String()
	if strings.Contains(out, "不应输出") {
		t.Fatalf("info 日志不应输出: %q", out)
	}
	if !strings.Contains(out, " WRN 应输出") || !strings.Contains(out, "overflow=true") {
		t.Fatalf("控制台格式不符: %q", out)
	}
}

func TestConsoleGroupsPrefixKeys(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Format: "console", Writer: &buf})
	l.WithGroup("layout").Info("完成", slog.Float64("score", 87.5))
	if !strings.Contains(buf.String(), "layout.score=87.5") {
		t.Fatalf("分组前缀缺失: %q", buf.String())
	}
}

func TestFormatAutoDetectNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	if got := resolveFormat("", &buf); got != "json" {
		t.Fatalf("非终端输出应默认 json，实际 %q", got)
	}
	if got := resolveFormat(" Console ", &buf); got != "console" {
		t.Fatalf("显式格式应保留，实际 %q", got)
	}
}

func TestFileHandlerReceivesRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carousel.log")
	var console bytes.Buffer
	l := New(Options{Level: "info", Format: "console", File: path, Writer: &console})
	l.Info("渲染完成", slog.Int("slides", 5))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}
	var last string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if s := strings.TrimSpace(scanner.Text()); s != "" {
			last = s
		}
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(last), &m); err != nil {
		t.Fatalf("文件日志应为 JSON: %v", err)
	}
	if m["msg"] != "渲染完成" || m["slides"] != float64(5) {
		t.Fatalf("文件日志字段不符: %v", m)
	}
	if !strings.Contains(console.String(), "渲染完成") {
		t.Fatalf("控制台也应收到日志")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, 期望 %v", in, got, want)
		}
	}
	if ValidLevel("verbose") || !ValidLevel("Info") {
		t.Fatalf("ValidLevel 结果不符")
	}
}
