package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultTemplateConfig 返回一个“可运行”的默认配置模板：
// - 默认输入为 STDIN（"-"），Writer 输出到 stdout；
// - Options 列出全部键（值为中性默认）；切换 writer=fs 时需改用 output_dir 等 fs 选项。
func DefaultTemplateConfig() Config {
	cfg := Defaults()
	cfg.Options.Reader = mustNode(`{buf_size: 65536, exclude_dir_names: [.git, node_modules, vendor]}`)
	cfg.Options.Splitter = mustNode(`{max_line_bytes: 0, allow_exts: []}`)
	cfg.Options.Collector = mustNode(`{max_tokens: 0}`)
	// ranges / linear 当前无配置项，保持空对象
	cfg.Options.Summarizer = mustNode(`{}`)
	cfg.Options.Assembler = mustNode(`{}`)
	cfg.Options.Writer = mustNode(`{header: false}`)
	return cfg
}

// TemplateYAML 渲染模板为 YAML 文本。
func TemplateYAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(DefaultTemplateConfig()); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ErrTemplateExists 表示目标配置文件已存在（不覆盖）。
var ErrTemplateExists = errors.New("config: template already exists")

// WriteTemplate 在 dir 下写入 rangesum.yaml；文件已存在时返回 ErrTemplateExists。
func WriteTemplate(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	p := filepath.Join(dir, DefaultFileName)
	data, err := TemplateYAML()
	if err != nil {
		return "", err
	}
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return p, fmt.Errorf("%w: %s", ErrTemplateExists, p)
		}
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return "", err
	}
	return p, f.Close()
}

// 模板节点：解码后取文档内的首个节点
func mustNode(src string) yaml.Node {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		panic(err)
	}
	return *doc.Content[0]
}
