package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 占位符可写作 ${path|默认值}：路径不存在或取值为空字符串时使用默认值；
// 没有默认值且路径不存在时保留原占位符。
func Interpolate(text string, data any) string {
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := exprPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		path, def, hasDefault := strings.Cut(groups[1], "|")
		path = strings.TrimSpace(path)
		if path == "" {
			return match
		}
		if val, ok := resolvePath(data, path); ok && val != nil {
			if s := fmt.Sprint(val); s != "" || !hasDefault {
				return s
			}
		}
		if hasDefault {
			return def
		}
		return match
	})
}

// Placeholder 是文本中的一个 ${path|默认值} 占位符。
type Placeholder struct {
	Path       string
	Default    string
	HasDefault bool
}

// Placeholders 返回文本中出现的占位符，按出现顺序。
func Placeholders(text string) []Placeholder {
	var out []Placeholder
	for _, m := range exprPattern.FindAllStringSubmatch(text, -1) {
		path, def, hasDefault := strings.Cut(m[1], "|")
		if path = strings.TrimSpace(path); path != "" {
			out = append(out, Placeholder{Path: path, Default: def, HasDefault: hasDefault})
		}
	}
	return out
}

// Missing 返回 data 中取不到且没有默认值的占位符路径，这些占位符会原样留在输出里。
func Missing(text string, data any) []string {
	var out []string
	for _, p := range Placeholders(text) {
		if p.HasDefault {
			continue
		}
		if val, ok := resolvePath(data, p.Path); !ok || val == nil {
			out = append(out, p.Path)
		}
	}
	return out
}

// step 是路径中的一级：键名或数组下标。
type step struct {
	key   string
	index int
	isIdx bool
}

// parsePath 把 "a.b[0][1].c" 拆成逐级的 step；下标不是整数或括号不配对时返回 false。
func parsePath(path string) ([]step, bool) {
	var steps []step
	for _, seg := range strings.Split(path, ".") {
		name, rest, _ := strings.Cut(seg, "[")
		if name != "" {
			steps = append(steps, step{key: name})
		}
		if rest == "" {
			continue
		}
		for _, part := range strings.Split("["+rest, "[")[1:] {
			num, ok := strings.CutSuffix(part, "]")
			if !ok {
				return nil, false
			}
			n, err := strconv.Atoi(num)
			if err != nil {
				return nil, false
			}
			steps = append(steps, step{index: n, isIdx: true})
		}
	}
	return steps, true
}

func resolvePath(data any, path string) (any, bool) {
	steps, ok := parsePath(path)
	if !ok || data == nil {
		return nil, false
	}
	cur := data
	for _, st := range steps {
		if st.isIdx {
			cur, ok = descendIndex(cur, st.index)
		} else {
			cur, ok = descendKey(cur, st.key)
		}
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func descendKey(cur any, key string) (any, bool) {
	switch m := cur.(type) {
	case map[string]any:
		v, ok := m[key]
		return v, ok
	case map[string]string:
		v, ok := m[key]
		return v, ok
	}
	return nil, false
}

func descendIndex(cur any, i int) (any, bool) {
	switch s := cur.(type) {
	case []any:
		return at(s, i)
	case []string:
		return at(s, i)
	}
	return nil, false
}

func at[T any](s []T, i int) (any, bool) {
	if i < 0 || i >= len(s) {
		return nil, false
	}
	return s[i], true
}
