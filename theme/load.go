package theme

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON []byte

// Load 读取 JSON 主题文件：先按 Schema 校验，再把文件内容合并到 "extends" 指定的内置主题上（默认 minimal）。
func Load(r io.Reader) (Theme, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Theme{}, fmt.Errorf("读取主题文件失败: %w", err)
	}
	if err := ValidateDocument(data); err != nil {
		return Theme{}, err
	}
	var head struct {
		Extends string `json:"extends"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Theme{}, fmt.Errorf("解析主题文件失败: %w", err)
	}
	base, err := Builtin(head.Extends)
	if err != nil {
		return Theme{}, err
	}
	return Merge(base, data)
}

// LoadFile 从路径读取主题文件。
func LoadFile(path string) (Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return Theme{}, fmt.Errorf("打开主题文件 %s 失败: %w", path, err)
	}
	defer f.Close()
	t, err := Load(f)
	if err != nil {
		return Theme{}, fmt.Errorf("加载主题文件 %s 失败: %w", path, err)
	}
	return t, nil
}

// ValidateDocument 按内置 Schema 校验主题 JSON 文档。
func ValidateDocument(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("主题 Schema 校验出错: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return errors.New("主题文件不符合 Schema: " + strings.Join(msgs, "; "))
}

// Resolve 按名称或路径返回主题：以 .json 结尾的视为文件，其余视为内置主题名。
func Resolve(nameOrPath string) (Theme, error) {
	if strings.HasSuffix(strings.ToLower(nameOrPath), ".json") {
		return LoadFile(nameOrPath)
	}
	return Builtin(nameOrPath)
}
