package registry

import (
	"bytes"
	"errors"
	"io"

	"gopkg.in/yaml.v3"

	"rangesum/pkg/contract"
	linear "rangesum/plugins/assembler/linear"
	ccomma "rangesum/plugins/collector/comma"
	rfs "rangesum/plugins/reader/filesystem"
	slines "rangesum/plugins/splitter/lines"
	sranges "rangesum/plugins/summarizer/ranges"
	wfs "rangesum/plugins/writer/filesystem"
	wstdout "rangesum/plugins/writer/stdout"
)

// Env: 工厂可见的进程级 I/O 端点（CLI 注入 cobra 的流；nil 表示使用 os.Stdin/os.Stdout）。
type Env struct {
	Stdin  io.Reader
	Stdout io.Writer
}

// strictDecode: 严格解码 Options 子树，拒绝未知字段；缺省/null 时保持零值。
func strictDecode(node *yaml.Node, v any) error {
	if node == nil || node.Kind == 0 {
		return nil
	}
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	raw, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// NewReader 等工厂签名：接收原样 YAML Options 子树与进程 I/O 端点。
type (
	NewReader     func(opts *yaml.Node, env Env) (contract.Reader, error)
	NewSplitter   func(opts *yaml.Node, env Env) (contract.Splitter, error)
	NewCollector  func(opts *yaml.Node, env Env) (contract.Collector, error)
	NewSummarizer func(opts *yaml.Node, env Env) (contract.Summarizer, error)
	NewAssembler  func(opts *yaml.Node, env Env) (contract.Assembler, error)
	NewWriter     func(opts *yaml.Node, env Env) (contract.Writer, error)
)

// Reader 工厂注册表（显式、零反射）。
var Reader = map[string]NewReader{
	// fs: 文件/目录/STDIN
	"fs": func(node *yaml.Node, env Env) (contract.Reader, error) {
		var opts rfs.Options
		if err := strictDecode(node, &opts); err != nil {
			return nil, err
		}
		return rfs.New(&opts).WithStdin(env.Stdin), nil
	},
}

// Splitter 工厂注册表。
var Splitter = map[string]NewSplitter{
	// lines: 每行一条 Record
	"lines": func(node *yaml.Node, _ Env) (contract.Splitter, error) {
		var opts slines.Options
		if err := strictDecode(node, &opts); err != nil {
			return nil, err
		}
		return slines.New(&opts), nil
	},
}

// Collector 工厂注册表。
var Collector = map[string]NewCollector{
	// comma: 逗号分隔十进制整数
	"comma": func(node *yaml.Node, _ Env) (contract.Collector, error) {
		var opts ccomma.Options
		if err := strictDecode(node, &opts); err != nil {
			return nil, err
		}
		return ccomma.New(&opts), nil
	},
}

// Summarizer 工厂注册表。
var Summarizer = map[string]NewSummarizer{
	// ranges: "1, 3, 6-8"
	"ranges": func(node *yaml.Node, _ Env) (contract.Summarizer, error) {
		var opts sranges.Options
		if err := strictDecode(node, &opts); err != nil {
			return nil, err
		}
		return sranges.New(&opts), nil
	},
}

// Assembler 工厂注册表。
var Assembler = map[string]NewAssembler{
	"linear": func(node *yaml.Node, _ Env) (contract.Assembler, error) {
		var opts linear.Options
		if err := strictDecode(node, &opts); err != nil {
			return nil, err
		}
		return linear.New(&opts), nil
	},
}

// Writer 工厂注册表。
var Writer = map[string]NewWriter{
	// fs: 输出目录（原子替换可配置）
	"fs": func(node *yaml.Node, _ Env) (contract.Writer, error) {
		var opts wfs.Options
		if err := strictDecode(node, &opts); err != nil {
			return nil, err
		}
		w, err := wfs.New(&opts)
		if err != nil {
			return nil, err
		}
		return w, nil
	},
	// stdout: 顺序写到标准输出
	"stdout": func(node *yaml.Node, env Env) (contract.Writer, error) {
		var opts wstdout.Options
		if err := strictDecode(node, &opts); err != nil {
			return nil, err
		}
		return wstdout.NewTo(env.Stdout, &opts), nil
	},
}
