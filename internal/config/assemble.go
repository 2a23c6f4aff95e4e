package config

import (
	"errors"
	"fmt"
	"strings"

	"rangesum/internal/diag"
	"rangesum/internal/pipeline"
	"rangesum/pkg/registry"
)

// Validate 对最小必要边界做静态校验。
func Validate(cfg Config) error {
	if len(cfg.Inputs) == 0 {
		return errors.New("config: inputs empty")
	}
	// 输入路径不得为空字符串；"-" 不能与其他根混用
	dash := false
	for _, r := range cfg.Inputs {
		switch strings.TrimSpace(r) {
		case "":
			return errors.New("config: input path cannot be empty")
		case "-":
			dash = true
		}
	}
	if dash && len(cfg.Inputs) > 1 {
		return errors.New("config: '-' cannot be mixed with other roots")
	}
	if _, err := diag.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("config: logging.level %q invalid", cfg.Logging.Level)
	}
	d := Defaults().Components
	for _, c := range []struct {
		kind, name string
		has        func(string) bool
	}{
		{"reader", effName(cfg.Components.Reader, d.Reader), func(n string) bool { return registry.Reader[n] != nil }},
		{"splitter", effName(cfg.Components.Splitter, d.Splitter), func(n string) bool { return registry.Splitter[n] != nil }},
		{"collector", effName(cfg.Components.Collector, d.Collector), func(n string) bool { return registry.Collector[n] != nil }},
		{"summarizer", effName(cfg.Components.Summarizer, d.Summarizer), func(n string) bool { return registry.Summarizer[n] != nil }},
		{"assembler", effName(cfg.Components.Assembler, d.Assembler), func(n string) bool { return registry.Assembler[n] != nil }},
		{"writer", effName(cfg.Components.Writer, d.Writer), func(n string) bool { return registry.Writer[n] != nil }},
	} {
		if !c.has(c.name) {
			return fmt.Errorf("config: %s %q not registered", c.kind, c.name)
		}
	}
	return nil
}

// Assemble 校验并构造 Components 与 Settings。
// 严格 Options 解析在 registry（工厂）层进行；此处只传原样节点。
func Assemble(cfg Config, env registry.Env) (pipeline.Components, pipeline.Settings, error) {
	if err := Validate(cfg); err != nil {
		return pipeline.Components{}, pipeline.Settings{}, err
	}
	d := Defaults().Components
	var comp pipeline.Components
	var err error
	if comp.Reader, err = registry.Reader[effName(cfg.Components.Reader, d.Reader)](&cfg.Options.Reader, env); err != nil {
		return pipeline.Components{}, pipeline.Settings{}, fmt.Errorf("config: options.reader: %w", err)
	}
	if comp.Splitter, err = registry.Splitter[effName(cfg.Components.Splitter, d.Splitter)](&cfg.Options.Splitter, env); err != nil {
		return pipeline.Components{}, pipeline.Settings{}, fmt.Errorf("config: options.splitter: %w", err)
	}
	if comp.Collector, err = registry.Collector[effName(cfg.Components.Collector, d.Collector)](&cfg.Options.Collector, env); err != nil {
		return pipeline.Components{}, pipeline.Settings{}, fmt.Errorf("config: options.collector: %w", err)
	}
	if comp.Summarizer, err = registry.Summarizer[effName(cfg.Components.Summarizer, d.Summarizer)](&cfg.Options.Summarizer, env); err != nil {
		return pipeline.Components{}, pipeline.Settings{}, fmt.Errorf("config: options.summarizer: %w", err)
	}
	if comp.Assembler, err = registry.Assembler[effName(cfg.Components.Assembler, d.Assembler)](&cfg.Options.Assembler, env); err != nil {
		return pipeline.Components{}, pipeline.Settings{}, fmt.Errorf("config: options.assembler: %w", err)
	}
	if comp.Writer, err = registry.Writer[effName(cfg.Components.Writer, d.Writer)](&cfg.Options.Writer, env); err != nil {
		return pipeline.Components{}, pipeline.Settings{}, fmt.Errorf("config: options.writer: %w", err)
	}
	set := pipeline.Settings{Inputs: cloneStrings(cfg.Inputs)}
	return comp, set, nil
}

func effName(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
