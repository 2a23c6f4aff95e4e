package main

import (
	"bufio"
	"errors"
	"os"
	"strings"
)

// withDotEnv 读取简单的 .env 文件，将其中未在 environ 出现的键追加到副本中返回。
// 规则：
// - 文件不存在或不可读时原样返回；
// - 跳过空行与 # 注释；支持可选前缀 "export "；
// - 仅按首个 '=' 分割，key/value 去首尾空白；
// - value 被成对单/双引号包裹时去除外层引号，双引号内处理 \n \t \" \\ 转义；
// - 空值视为未设置。
func withDotEnv(path string, environ []string) []string {
	f, err := os.Open(path)
	if err != nil {
		return environ
	}
	defer f.Close()
	seen := make(map[string]struct{}, len(environ))
	for _, kv := range environ {
		k, _, _ := strings.Cut(kv, "=")
		seen[k] = struct{}{}
	}
	out := environ[:len(environ):len(environ)]
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, val, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		val = unquote(strings.TrimSpace(val))
		if val == "" {
			continue
		}
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key+"="+val)
	}
	return out
}

func unquote(v string) string {
	if len(v) < 2 {
		return v
	}
	q := v[0]
	if (q != '\'' && q != '"') || v[len(v)-1] != q {
		return v
	}
	v = v[1 : len(v)-1]
	if q == '"' {
		v = strings.NewReplacer(`\n`, "\n", `\t`, "\t", `\"`, `"`, `\\`, `\`).Replace(v)
	}
	return v
}

// writeDotEnv 生成 .env 模板（已存在则跳过，不覆盖、不合并）。
func writeDotEnv(path string) error {
	var b strings.Builder
	b.WriteString("# rangesum .env 模板（由 --init-config 生成）\n")
	b.WriteString("# 优先级：CLI > ENV(.env) > RANGESUM_CONFIG_YAML > 配置文件\n")
	b.WriteString("# 空值表示未设置。\n\n")

	b.WriteString("# 配置来源\n")
	b.WriteString("RANGESUM_CONFIG_FILE=\n")
	b.WriteString("RANGESUM_CONFIG_YAML=\n\n")

	b.WriteString("# 运行参数覆盖\n")
	b.WriteString("RANGESUM_INPUTS=\n")
	b.WriteString("RANGESUM_LOG_LEVEL=\n")
	b.WriteString("RANGESUM_LOG_DIR=\n\n")

	b.WriteString("# 组件选择\n")
	for _, k := range []string{"READER", "SPLITTER", "COLLECTOR", "SUMMARIZER", "ASSEMBLER", "WRITER"} {
		b.WriteString("RANGESUM_COMPONENTS_" + k + "=\n")
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		return err
	}
	if _, err := f.WriteString(b.String()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
