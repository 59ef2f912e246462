// Package fonts 管理渲染与测量使用的字体数据。
//
// 内置字体族 "Go" 来自 golang.org/x/image/font/gofont，可通过 LoadDir
// 追加形如 "Inter-Bold.ttf" 的字体文件。
package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/ByLCY/carousel/typography"
)

// FallbackFamily 是内置字体族名。
const FallbackFamily = "Go"

// weights 是支持的字重名到数值的映射。
var weights = map[string]int{
	"thin":       100,
	"extralight": 200,
	"light":      300,
	"regular":    400,
	"normal":     400,
	"medium":     500,
	"semibold":   600,
	"bold":       700,
	"extrabold":  800,
	"black":      900,
	"heavy":      900,
}

// WeightValue 返回字重名对应的数值，未知名称视为 400。
func WeightValue(name string) int {
	if v, ok := weights[strings.ToLower(strings.TrimSpace(name))]; ok {
		return v
	}
	return 400
}

// NormalizeWeight 把字重名规范化为小写形式，未知或空值返回 "regular"。
func NormalizeWeight(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "normal":
		return "regular"
	case "heavy":
		return "black"
	}
	if _, ok := weights[n]; ok {
		return n
	}
	return "regular"
}

type fontKey struct {
	family string
	weight string
}

type entry struct {
	data []byte
	font *opentype.Font
}

// Library 保存按字体族与字重索引的字体。并发安全。
type Library struct {
	mu      sync.RWMutex
	entries map[fontKey]entry
}

// NewLibrary 返回已注册内置 Go 字体的字体库。
func NewLibrary() *Library {
	l := &Library{entries: map[fontKey]entry{}}
	builtin := []struct {
		weight string
		data   []byte
	}{
		{"regular", goregular.TTF},
		{"medium", gomedium.TTF},
		{"bold", gobold.TTF},
	}
	for _, b := range builtin {
		if err := l.Register(FallbackFamily, b.weight, b.data); err != nil {
			panic(fmt.Sprintf("内置字体 %s %s 无效: %v", FallbackFamily, b.weight, err))
		}
	}
	return l
}

// Register 解析并登记一个字体文件。
func (l *Library) Register(family, weight string, data []byte) error {
	family = strings.TrimSpace(family)
	if family == "" {
		return fmt.Errorf("字体族名不能为空")
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("解析字体 %s %s 失败: %w", family, weight, err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[fontKey{family: strings.ToLower(family), weight: NormalizeWeight(weight)}] = entry{data: data, font: f}
	return nil
}

// LoadTTF 读取并登记一个字体文件。
func (l *Library) LoadTTF(path, family, weight string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取字体 %s 失败: %w", path, err)
	}
	return l.Register(family, weight, data)
}

// LoadDir 登记目录中所有 "Family-Weight.ttf"/".otf" 文件，返回登记数量。
// 不符合命名的文件被跳过；解析失败会中止并返回错误。
func (l *Library) LoadDir(dir string) (int, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("读取字体目录 %s 失败: %w", dir, err)
	}
	n := 0
	for _, it := range items {
		if it.IsDir() {
			continue
		}
		family, weight, ok := ParseFileName(it.Name())
		if !ok {
			continue
		}
		if err := l.LoadTTF(filepath.Join(dir, it.Name()), family, weight); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// ParseFileName 解析 "Inter-SemiBold.ttf" 这类文件名。
func ParseFileName(name string) (family, weight string, ok bool) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".ttf" && ext != ".otf" {
		return "", "", false
	}
	base := strings.TrimSuffix(name, filepath.Ext(name))
	i := strings.LastIndexByte(base, '-')
	if i <= 0 || i == len(base)-1 {
		return "", "", false
	}
	w := strings.ToLower(base[i+1:])
	if _, known := weights[w]; !known {
		return "", "", false
	}
	return base[:i], NormalizeWeight(w), true
}

// Families 返回已登记的字体族（小写，排序）。
func (l *Library) Families() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []string
	for k := range l.entries {
		if !slices.Contains(out, k.family) {
			out = append(out, k.family)
		}
	}
	slices.Sort(out)
	return out
}

// Has 报告字体族是否已登记。
func (l *Library) Has(family string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fam := strings.ToLower(strings.TrimSpace(family))
	for k := range l.entries {
		if k.family == fam {
			return true
		}
	}
	return false
}

// Match 返回最接近请求的字体族与字重：先精确匹配，再取同族中数值最接近的字重
// （距离相同时取较重者），字体族不存在时退回内置字体族。
func (l *Library) Match(family, weight string) (string, string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.match(family, weight)
}

func (l *Library) match(family, weight string) (string, string) {
	fam := strings.ToLower(strings.TrimSpace(family))
	w := NormalizeWeight(weight)
	if _, ok := l.entries[fontKey{fam, w}]; ok {
		return fam, w
	}
	best, bestDist := "", 0
	want := WeightValue(w)
	for k := range l.entries {
		if k.family != fam {
			continue
		}
		d := WeightValue(k.weight) - want
		if d < 0 {
			d = -d + 1
		}
		if best == "" || d < bestDist {
			best, bestDist = k.weight, d
		}
	}
	if best != "" {
		return fam, best
	}
	if fam != strings.ToLower(FallbackFamily) {
		return l.match(FallbackFamily, weight)
	}
	return fam, "regular"
}

// Bytes 返回匹配字体的原始数据。
func (l *Library) Bytes(family, weight string) ([]byte, error) {
	e, err := l.lookup(family, weight)
	if err != nil {
		return nil, err
	}
	return e.data, nil
}

func (l *Library) lookup(family, weight string) (entry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	fam, w := l.match(family, weight)
	e, ok := l.entries[fontKey{fam, w}]
	if !ok {
		return entry{}, fmt.Errorf("找不到字体 %s %s", family, weight)
	}
	return e, nil
}

// Resolver 返回一个带缓存的字体解析器。
// opentype 字体面不支持并发使用，每个测量面应持有自己的解析器。
func (l *Library) Resolver() typography.FaceResolver {
	type faceKey struct {
		font fontKey
		size float64
	}
	cache := map[faceKey]font.Face{}
	return func(f typography.Font) (font.Face, error) {
		l.mu.RLock()
		fam, w := l.match(f.Family, f.Weight)
		e, ok := l.entries[fontKey{fam, w}]
		l.mu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("找不到字体 %s", f)
		}
		key := faceKey{font: fontKey{fam, w}, size: f.Size}
		if face, ok := cache[key]; ok {
			return face, nil
		}
		face, err := opentype.NewFace(e.font, &opentype.FaceOptions{
			Size:    f.Size,
			DPI:     72,
			Hinting: font.HintingNone,
		})
		if err != nil {
			return nil, fmt.Errorf("创建字体面 %s 失败: %w", f, err)
		}
		cache[key] = face
		return face, nil
	}
}
