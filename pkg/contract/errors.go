package contract

import "errors"

// 最小错误分类。调用方以 errors.Is 判定；具体细节由 %w 包装附带。
var (
	// ErrInvalidArgument: 输入非法（nil 输入、空 token、非十进制整数 token 等）。
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrPathInvalid: 目标标识映射为无效/越界路径（例如绝对路径或 '..' 逃逸）。
	ErrPathInvalid = errors.New("path invalid")
	// ErrSeqInvalid: 行结果混入其他文件、逆序或重复。
	ErrSeqInvalid = errors.New("sequence invalid")
	// ErrInvariantViolation: 领域不变量违例（例如 Collector 返回了非升序集合）。
	ErrInvariantViolation = errors.New("invariant violation")
)
