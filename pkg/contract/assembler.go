package contract

import (
	"context"
	"io"
)

// Assembler: 将单文件的 LineResult 装配为最终文本。
// 约束：
//  1. 仅装配同一 FileID 的结果；
//  2. 按 Index 严格升序；
//  3. 序列违规返回 ErrSeqInvalid。
type Assembler interface {
	Assemble(ctx context.Context, fileID FileID, results []LineResult) (io.Reader, error)
}
