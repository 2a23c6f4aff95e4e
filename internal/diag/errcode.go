package diag

import (
	"context"
	"errors"
	"io/fs"

	"rangesum/pkg/contract"
)

// Code 是最小错误分类代码，用于日志/计数与退出码映射。
type Code string

const (
	CodeUnknown         Code = "unknown"
	CodeInvalidArgument Code = "invalid_argument"
	CodeInvariant       Code = "invariant"
	CodeCancel          Code = "cancel"
	CodeIO              Code = "io"
)

// Classify 将错误归为最小分类。仅依赖哨兵与标准库错误类型，不做字符串匹配。
func Classify(err error) Code {
	switch {
	case err == nil:
		return CodeUnknown
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCancel
	case errors.Is(err, contract.ErrInvalidArgument):
		return CodeInvalidArgument
	case errors.Is(err, contract.ErrInvariantViolation),
		errors.Is(err, contract.ErrSeqInvalid),
		errors.Is(err, contract.ErrPathInvalid):
		return CodeInvariant
	}
	var perr *fs.PathError
	if errors.As(err, &perr) {
		return CodeIO
	}
	return CodeUnknown
}
