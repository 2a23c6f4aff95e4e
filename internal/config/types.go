package config

import "gopkg.in/yaml.v3"

// Config: 运行期只读配置（一次解析，运行期不变）。
// YAML 使用 snake_case；未知字段在解析期失败。
type Config struct {
	Inputs  []string `yaml:"inputs,omitempty"`
	Logging Logging  `yaml:"logging,omitempty"`

	// 组件名选择（空则使用默认名）。
	Components Components `yaml:"components,omitempty"`

	// 各组件 Options 子树，原样传入工厂严格解码。
	Options Options `yaml:"options,omitempty"`
}

// Logging: 日志等级与轮转文件目录（默认 ./logs；空目录表示写 stderr）。
type Logging struct {
	Level string `yaml:"level,omitempty"`
	Dir   string `yaml:"dir,omitempty"`
}

// Components: 组件名选择（注册表中的实现名）。
type Components struct {
	Reader     string `yaml:"reader,omitempty"`
	Splitter   string `yaml:"splitter,omitempty"`
	Collector  string `yaml:"collector,omitempty"`
	Summarizer string `yaml:"summarizer,omitempty"`
	Assembler  string `yaml:"assembler,omitempty"`
	Writer     string `yaml:"writer,omitempty"`
}

// Options: 各组件的原样 YAML 节点（Kind==0 表示未设置）。
type Options struct {
	Reader     yaml.Node `yaml:"reader,omitempty"`
	Splitter   yaml.Node `yaml:"splitter,omitempty"`
	Collector  yaml.Node `yaml:"collector,omitempty"`
	Summarizer yaml.Node `yaml:"summarizer,omitempty"`
	Assembler  yaml.Node `yaml:"assembler,omitempty"`
	Writer     yaml.Node `yaml:"writer,omitempty"`
}
