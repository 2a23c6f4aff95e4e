package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"rangesum/internal/diag"
	"rangesum/pkg/contract"
)

// - 顺序执行：文件与行均在调用方 goroutine 上依次处理，不启动任何 goroutine。
// - 取消：文件之间、行之间检查 ctx。
// - 首错即停：任一阶段出错立即返回（带文件/行上下文），不做内部恢复。
// - 不变式：Collector 输出须严格升序且无重复，否则视为 ErrInvariantViolation。

// Components 聚合运行所需的原子组件。
type Components struct {
	Reader     contract.Reader
	Splitter   contract.Splitter
	Collector  contract.Collector
	Summarizer contract.Summarizer
	Assembler  contract.Assembler
	Writer     contract.Writer
}

// Settings 运行期配置（最小必要）。
type Settings struct {
	// 输入根（输出位置由 Writer 的 options 决定）
	Inputs []string
	// 终端提示（可空）
	Status *diag.Terminal
}

// Stats 为一次运行的汇总。
type Stats struct {
	Files int
	Lines int
}

// Run 执行完整流水线：Reader → Splitter → Collector → Summarizer → Assembler → Writer。
// 未产生任何 Record 的文件（空文件或被扩展名过滤）不产出工件。
func Run(ctx context.Context, comp Components, set Settings, logger *diag.Logger) (Stats, error) {
	var st Stats
	if err := sanity(comp, set); err != nil {
		return st, fmt.Errorf("sanity: %w", err)
	}
	runStart := time.Now()
	set.Status.RunStart(describe(comp))
	rtimer := logger.Start("reader", "iterate")

	defer logMetrics(logger)

	// 阶段内错误已记录，reader 层不重复计数
	stageFailed := false
	err := comp.Reader.Iterate(ctx, set.Inputs, func(fid contract.FileID, rc io.ReadCloser) error {
		defer rc.Close()
		if err := ctx.Err(); err != nil {
			return err
		}
		fileStart := time.Now()
		n, err := processFile(ctx, comp, logger, fid, rc)
		set.Status.FileFinish(string(fid), err == nil, n, time.Since(fileStart))
		if err != nil {
			stageFailed = true
			return err
		}
		if n > 0 {
			st.Files++
			st.Lines += n
		}
		return nil
	})
	set.Status.RunFinish(err == nil, time.Since(runStart))
	if err != nil {
		if !stageFailed {
			logger.Fail("reader", "iterate failed", err, "")
		}
		return st, err
	}
	rtimer.Finish("iterate", int64(st.Files))
	diag.IncOp("reader", "finish", "success")
	return st, nil
}

// processFile 处理单个文件，返回产出的行数。
func processFile(ctx context.Context, comp Components, logger *diag.Logger, fid contract.FileID, r io.Reader) (int, error) {
	stimer := logger.StartWith("splitter", "split", string(fid))
	recs, err := comp.Splitter.Split(ctx, fid, r)
	if err != nil {
		logger.Fail("splitter", "split failed", err, string(fid))
		return 0, fmt.Errorf("splitter split: %w", err)
	}
	stimer.Finish("split", int64(len(recs)))
	diag.IncOp("splitter", "finish", "success")
	if len(recs) == 0 {
		return 0, nil
	}

	ctimer := logger.StartWith("collector", "summarize", string(fid))
	results := make([]contract.LineResult, 0, len(recs))
	for _, rec := range recs {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		sum, err := summarizeLine(comp, rec)
		if err != nil {
			logger.Fail("collector", "collect failed", err, string(fid))
			return 0, err
		}
		results = append(results, contract.LineResult{FileID: fid, Index: rec.Index, Summary: sum})
	}
	ctimer.Finish("summarize", int64(len(results)))
	diag.IncOp("collector", "finish", "success")

	atimer := logger.StartWith("assembler", "assemble", string(fid))
	out, err := comp.Assembler.Assemble(ctx, fid, results)
	if err != nil {
		logger.Fail("assembler", "assemble failed", err, string(fid))
		return 0, fmt.Errorf("assembler assemble: %w", err)
	}
	atimer.Finish("assemble", int64(len(results)))
	diag.IncOp("assembler", "finish", "success")

	wtimer := logger.StartWith("writer", "write", string(fid))
	if err := comp.Writer.Write(ctx, contract.ArtifactID(fid), out); err != nil {
		logger.Fail("writer", "write failed", err, string(fid))
		return 0, fmt.Errorf("writer write: %w", err)
	}
	wtimer.Finish("write", 1)
	diag.IncOp("writer", "finish", "success")
	return len(results), nil
}

// summarizeLine: collect → 不变式检查 → summarize。行号从 1 开始。
func summarizeLine(comp Components, rec contract.Record) (string, error) {
	text := rec.Text
	set, err := comp.Collector.Collect(&text)
	if err != nil {
		return "", fmt.Errorf("collect %s:%d: %w", rec.FileID, rec.Index+1, err)
	}
	if err := contract.CheckSet(set); err != nil {
		return "", fmt.Errorf("collect %s:%d: %w", rec.FileID, rec.Index+1, err)
	}
	return comp.Summarizer.Summarize(set), nil
}

func logMetrics(logger *diag.Logger) {
	snap := diag.Snapshot()
	if len(snap) == 0 {
		return
	}
	kv := make(map[string]string, len(snap))
	for k, v := range snap {
		kv[k] = fmt.Sprint(v)
	}
	logger.Debug("pipeline", "metrics", kv)
}

func describe(c Components) string {
	names := []string{
		fmt.Sprintf("%T", c.Reader), fmt.Sprintf("%T", c.Splitter), fmt.Sprintf("%T", c.Collector),
		fmt.Sprintf("%T", c.Summarizer), fmt.Sprintf("%T", c.Assembler), fmt.Sprintf("%T", c.Writer),
	}
	return strings.Join(names, " → ")
}

func sanity(c Components, s Settings) error {
	if c.Reader == nil || c.Splitter == nil || c.Collector == nil || c.Summarizer == nil || c.Assembler == nil || c.Writer == nil {
		return errors.New("pipeline: missing components")
	}
	if len(s.Inputs) == 0 {
		return errors.New("pipeline: empty inputs")
	}
	return nil
}
