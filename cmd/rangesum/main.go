package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	cfgpkg "rangesum/internal/config"
	"rangesum/internal/diag"
	"rangesum/internal/pipeline"
	"rangesum/pkg/rangesum"
	"rangesum/pkg/registry"
)

var pipelineRun = pipeline.Run

// 退出码
const (
	exitOK      = 0
	exitRuntime = 1
	exitInvalid = 2
	exitConfig  = 3
)

// exitError 携带退出码；消息已含阶段前缀。
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func fail(code int, format string, err error) error {
	return &exitError{code: code, err: fmt.Errorf(format+": %w", err)}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Environ())
	stop()
	os.Exit(code)
}

// execute 运行 CLI 并返回退出码；I/O 与环境变量均由调用方注入。
func execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, environ []string) int {
	root := newRootCmd(environ)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if !errors.As(err, &ee) {
		// 旗标/参数错误
		fmt.Fprintf(stderr, "参数错误: %v\n", err)
		return exitInvalid
	}
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintf(stderr, "%v\n", err)
	}
	return ee.code
}

type rootFlags struct {
	config    string
	logLevel  string
	logDir    string
	outputDir string
	initDir   string
	status    bool
}

func newRootCmd(environ []string) *cobra.Command {
	var f rootFlags
	cmd := &cobra.Command{
		Use:   "rangesum [paths...]",
		Short: "将逗号分隔的整数列表压缩为区间记法",
		Long: `逐行读取文件、目录或 STDIN（"-"），每行输出一条区间摘要，例如
  1,3,6,7,8,12,13,14,15  →  1, 3, 6-8, 12-15`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("init-config") {
				dir := f.initDir
				// 兼容 "--init-config <dir>"：裸开关取默认值，目录落在位置参数
				if dir == "." && len(args) == 1 {
					dir = args[0]
				}
				return initConfig(cmd, dir)
			}
			return runPipeline(cmd, args, f, environ)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&f.config, "config", "", "配置文件路径（YAML/JSON）；缺省读取 ./rangesum.yaml（若存在）")
	fl.StringVar(&f.logLevel, "log-level", "", "日志等级 debug|info|warn|error（覆盖配置）")
	fl.StringVar(&f.logDir, "log-dir", "", `日志目录（覆盖配置；"-" 表示 stderr）`)
	fl.StringVar(&f.outputDir, "output-dir", "", "输出目录（切换为 fs writer）")
	fl.StringVar(&f.initDir, "init-config", "", "在指定目录生成默认 rangesum.yaml 与 .env 模板（不覆盖）；不带值时为当前目录")
	fl.Lookup("init-config").NoOptDefVal = "."
	fl.BoolVar(&f.status, "status", true, "终端状态提示（stderr）")

	cmd.AddCommand(newSumCmd(), newExpandCmd())
	return cmd
}

func newSumCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "sum <list>...",
		Short:              "直接汇总参数中的列表，每个参数输出一行",
		DisableFlagParsing: true,
		Args:               rawArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			args, help := splitRawArgs(args)
			if help {
				return cmd.Help()
			}
			for i, a := range args {
				s, err := rangesum.SummarizeString(a)
				if err != nil {
					return fail(exitInvalid, "参数 "+strconv.Itoa(i+1), err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
}

func newExpandCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "expand <summary>",
		Short:              "将区间摘要还原为逗号分隔的全部整数",
		DisableFlagParsing: true,
		Args:               rawArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			args, help := splitRawArgs(args)
			if help {
				return cmd.Help()
			}
			vals, err := rangesum.Expand(args[0])
			if err != nil {
				return fail(exitInvalid, "摘要无效", err)
			}
			parts := make([]string, len(vals))
			for i, v := range vals {
				parts[i] = strconv.Itoa(v)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(parts, ","))
			return nil
		},
	}
}

// 子命令关闭 flag 解析："-3,-2,-1"、"-3--1" 这类以 '-' 开头的参数原样进入。
// 仅识别首位的 -h/--help；首位的 "--" 被丢弃（兼容习惯写法）。
func splitRawArgs(args []string) (rest []string, help bool) {
	if len(args) == 0 {
		return args, false
	}
	switch args[0] {
	case "--":
		return args[1:], false
	case "-h", "--help":
		return nil, true
	}
	return args, false
}

// rawArgs 在 splitRawArgs 之后再做参数个数校验。
func rawArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		rest, help := splitRawArgs(args)
		if help {
			return nil
		}
		return check(cmd, rest)
	}
}

func runPipeline(cmd *cobra.Command, args []string, f rootFlags, environ []string) error {
	start := time.Now()
	corrID := uuid.NewString()
	stderr := cmd.ErrOrStderr()
	// .env 只补充未设置的键
	environ = withDotEnv(".env", environ)

	cli := cfgpkg.Config{
		Inputs:  args,
		Logging: cfgpkg.Logging{Level: f.logLevel, Dir: f.logDir},
	}
	cfg, err := cfgpkg.Resolve(f.config, environ, cli)
	if err != nil {
		return fail(exitConfig, "配置解析失败", err)
	}
	if f.outputDir != "" {
		setOutputDir(&cfg, f.outputDir)
	}
	if err := cfgpkg.Validate(cfg); err != nil {
		dumpConfig(stderr, cfg)
		return fail(exitConfig, "配置校验失败", err)
	}

	logger := diag.NewLogger(corrID, cfg.Logging.Level, cfg.Logging.Dir)
	defer logger.Close()

	if err := preflightCheckOutputDir(cfg); err != nil {
		logger.Error("pipeline", diag.Classify(err), "first error", err, "", &start)
		return fail(exitConfig, "输出目录不可写或无法创建", err)
	}
	comp, set, err := cfgpkg.Assemble(cfg, registry.Env{Stdin: cmd.InOrStdin(), Stdout: cmd.OutOrStdout()})
	if err != nil {
		logger.Error("pipeline", diag.Classify(err), "first error", err, "", &start)
		return fail(exitConfig, "装配失败", err)
	}
	set.Status = diag.NewTerminal(stderr, f.status)

	logger.Debug("config", "effective", map[string]string{
		"inputs_count": strconv.Itoa(len(cfg.Inputs)),
		"reader":       cfg.Components.Reader,
		"splitter":     cfg.Components.Splitter,
		"collector":    cfg.Components.Collector,
		"summarizer":   cfg.Components.Summarizer,
		"assembler":    cfg.Components.Assembler,
		"writer":       cfg.Components.Writer,
	})

	t := logger.Start("pipeline", "run")
	st, err := pipelineRun(cmd.Context(), comp, set, logger)
	if err != nil {
		code := diag.Classify(err)
		logger.Error("pipeline", code, "first error", err, "", &start)
		if code == diag.CodeInvalidArgument {
			return fail(exitInvalid, "输入无效", err)
		}
		return fail(exitRuntime, "运行失败", err)
	}
	t.Finish("run", int64(st.Lines))
	diag.IncOp("pipeline", "finish", "success")
	return nil
}

func initConfig(cmd *cobra.Command, dir string) error {
	p, err := cfgpkg.WriteTemplate(dir)
	if err != nil {
		return fail(exitConfig, "生成默认配置失败", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "已生成 %s\n", p)
	if err := writeDotEnv(filepath.Join(dir, ".env")); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "提示：.env 生成失败（已跳过）：%v\n", err)
	}
	return nil
}

// setOutputDir 切换为 fs writer 并设置 output_dir。
// 原本即为 fs 时保留其余选项；否则原选项属于其他 writer，整体替换。
func setOutputDir(cfg *cfgpkg.Config, dir string) {
	wasFS := strings.TrimSpace(cfg.Components.Writer) == "fs"
	cfg.Components.Writer = "fs"
	n := cfg.Options.Writer
	if !wasFS || n.Kind != yaml.MappingNode {
		n = yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	n.Content = slices.Clone(n.Content)
	val := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: dir}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == "output_dir" {
			n.Content[i+1] = val
			cfg.Options.Writer = n
			return
		}
	}
	n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "output_dir"}, val)
	cfg.Options.Writer = n
}

func dumpConfig(w io.Writer, c cfgpkg.Config) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "有效配置:\n%s", b)
}

// preflightCheckOutputDir: 当 Writer 使用文件系统实现(fs)时，启动前检查输出目录可写性。
// - 目录已存在：尝试创建并删除临时文件；
// - 目录不存在：尝试在父目录创建并删除临时目录。
func preflightCheckOutputDir(cfg cfgpkg.Config) error {
	if strings.TrimSpace(cfg.Components.Writer) != "fs" {
		return nil
	}
	var wopts struct {
		OutputDir string `yaml:"output_dir"`
	}
	if cfg.Options.Writer.Kind != 0 {
		_ = cfg.Options.Writer.Decode(&wopts)
	}
	dir := strings.TrimSpace(wopts.OutputDir)
	if dir == "" {
		// 未指定时由装配阶段按实现报错
		return nil
	}
	st, err := os.Stat(dir)
	switch {
	case err == nil && st.IsDir():
		f, err := os.CreateTemp(dir, ".wcheck-*")
		if err != nil {
			return err
		}
		name := f.Name()
		_ = f.Close()
		return os.Remove(name)
	case err == nil:
		return fmt.Errorf("路径存在但不是目录: %s", dir)
	case !errors.Is(err, os.ErrNotExist):
		return err
	}
	parent := filepath.Dir(dir)
	pst, err := os.Stat(parent)
	if err != nil {
		return err
	}
	if !pst.IsDir() {
		return fmt.Errorf("父路径不是目录: %s", parent)
	}
	tmpd, err := os.MkdirTemp(parent, ".wcheck-*")
	if err != nil {
		return err
	}
	return os.RemoveAll(tmpd)
}
