package linear

import (
	"context"
	"fmt"
	"io"
	"strings"

	"rangesum/pkg/contract"
)

// Options: 线性装配无需配置；保留结构用于严格解码。
type Options struct{}

type assembler struct{}

// New 创建线性装配器（当前忽略选项）。
func New(_ *Options) contract.Assembler {
	return &assembler{}
}

// Assemble 按 Index 严格升序拼接各行 Summary，每行以 '\n' 结尾。
// 发现 FileID 混入、逆序或重复即返回 ErrSeqInvalid。
func (a *assembler) Assemble(ctx context.Context, fileID contract.FileID, results []contract.LineResult) (io.Reader, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	if len(results) == 0 {
		return strings.NewReader(""), nil
	}

	var b strings.Builder
	prev := contract.Index(-1)
	for _, r := range results {
		if r.FileID != fileID {
			return nil, fmt.Errorf("%w: result of %q in %q", contract.ErrSeqInvalid, r.FileID, fileID)
		}
		if r.Index <= prev {
			return nil, fmt.Errorf("%w: index %d after %d", contract.ErrSeqInvalid, r.Index, prev)
		}
		prev = r.Index
		b.WriteString(r.Summary)
		b.WriteByte('\n')
	}
	return strings.NewReader(b.String()), nil
}

var _ contract.Assembler = (*assembler)(nil)
