package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// 环境变量前缀与默认配置文件名。
const (
	EnvPrefix       = "RANGESUM_"
	DefaultFileName = "rangesum.yaml"
)

// Defaults 返回带有安全默认值的 Config 雏形。
func Defaults() Config {
	return Config{
		Inputs:  []string{"-"},
		Logging: Logging{Level: "info", Dir: "logs"},
		Components: Components{
			Reader:     "fs",
			Splitter:   "lines",
			Collector:  "comma",
			Summarizer: "ranges",
			Assembler:  "linear",
			Writer:     "stdout",
		},
	}
}

// Load 从文件路径或原始 YAML 解析 Config（严格拒绝未知字段）。
// JSON 作为 YAML 子集同样可解析；空文档得到零值 Config。
func Load(path string, raw []byte) (Config, error) {
	var cfg Config
	var r io.Reader
	switch {
	case len(raw) > 0:
		r = bytes.NewReader(raw)
	case path != "":
		f, err := os.Open(path)
		if err != nil {
			return cfg, err
		}
		defer f.Close()
		r = f
	default:
		return cfg, errors.New("no config source provided")
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		if path != "" && len(raw) == 0 {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Merge 按优先级合并（后者覆盖前者）。
// 仅标量/字符串/原样节点为“替换”；不做深度合并。
func Merge(base, over Config) Config {
	out := base
	if len(over.Inputs) > 0 {
		out.Inputs = cloneStrings(over.Inputs)
	}
	if v := strings.TrimSpace(over.Logging.Level); v != "" {
		out.Logging.Level = v
	}
	if v := strings.TrimSpace(over.Logging.Dir); v != "" {
		out.Logging.Dir = v
	}

	// 组件名（空不覆盖）
	setName(&out.Components.Reader, over.Components.Reader)
	setName(&out.Components.Splitter, over.Components.Splitter)
	setName(&out.Components.Collector, over.Components.Collector)
	setName(&out.Components.Summarizer, over.Components.Summarizer)
	setName(&out.Components.Assembler, over.Components.Assembler)
	setName(&out.Components.Writer, over.Components.Writer)

	// Options（完整替换对应键）
	setNode(&out.Options.Reader, over.Options.Reader)
	setNode(&out.Options.Splitter, over.Options.Splitter)
	setNode(&out.Options.Collector, over.Options.Collector)
	setNode(&out.Options.Summarizer, over.Options.Summarizer)
	setNode(&out.Options.Assembler, over.Options.Assembler)
	setNode(&out.Options.Writer, over.Options.Writer)
	return out
}

func setName(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setNode(dst *yaml.Node, v yaml.Node) {
	if v.Kind != 0 {
		*dst = v
	}
}

// EnvOverlay 从环境变量构建一个 Config 覆盖（仅解析有限键集合）。
// 前缀 RANGESUM_；支持 INPUTS, LOG_LEVEL, LOG_DIR, COMPONENTS_<KIND>。其他键忽略。
// CONFIG_FILE / CONFIG_YAML 由 Resolve 处理。
func EnvOverlay(environ []string) Config {
	var over Config
	for _, kv := range environ {
		key, val, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, EnvPrefix) {
			continue
		}
		switch strings.TrimPrefix(key, EnvPrefix) {
		case "INPUTS":
			over.Inputs = splitComma(val)
		case "LOG_LEVEL":
			over.Logging.Level = strings.TrimSpace(val)
		case "LOG_DIR":
			over.Logging.Dir = strings.TrimSpace(val)
		case "COMPONENTS_READER":
			over.Components.Reader = strings.TrimSpace(val)
		case "COMPONENTS_SPLITTER":
			over.Components.Splitter = strings.TrimSpace(val)
		case "COMPONENTS_COLLECTOR":
			over.Components.Collector = strings.TrimSpace(val)
		case "COMPONENTS_SUMMARIZER":
			over.Components.Summarizer = strings.TrimSpace(val)
		case "COMPONENTS_ASSEMBLER":
			over.Components.Assembler = strings.TrimSpace(val)
		case "COMPONENTS_WRITER":
			over.Components.Writer = strings.TrimSpace(val)
		}
	}
	return over
}

// Resolve 按优先级合成最终配置：
// defaults < 文件（flagPath / RANGESUM_CONFIG_FILE / ./rangesum.yaml）< RANGESUM_CONFIG_YAML < ENV < cli。
// 显式指定的文件不存在时报错；默认文件缺失则忽略。
func Resolve(flagPath string, environ []string, cli Config) (Config, error) {
	cfg := Defaults()
	path, explicit := flagPath, flagPath != ""
	if !explicit {
		if v := lookup(environ, EnvPrefix+"CONFIG_FILE"); v != "" {
			path, explicit = v, true
		}
	}
	if !explicit {
		if _, err := os.Stat(DefaultFileName); err == nil {
			path = DefaultFileName
		}
	}
	if path != "" {
		fc, err := Load(path, nil)
		if err != nil {
			return cfg, err
		}
		cfg = Merge(cfg, fc)
	}
	if inline := lookup(environ, EnvPrefix+"CONFIG_YAML"); strings.TrimSpace(inline) != "" {
		ic, err := Load("", []byte(inline))
		if err != nil {
			return cfg, fmt.Errorf("%sCONFIG_YAML: %w", EnvPrefix, err)
		}
		cfg = Merge(cfg, ic)
	}
	cfg = Merge(cfg, EnvOverlay(environ))
	return Merge(cfg, cli), nil
}

// 后出现者优先，与 os.Getenv 语义一致
func lookup(environ []string, key string) string {
	val := ""
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && k == key {
			val = v
		}
	}
	return val
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func splitComma(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
