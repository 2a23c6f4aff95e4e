package contract

// Collector: 将原始文本解析为 NumberSet。
// 约束：
// 1) input 为 nil 返回 ErrInvalidArgument；
// 2) 空串或全空白返回空集合（非错误）；
// 3) 任一 token 为空或非十进制整数即返回 ErrInvalidArgument；
// 4) 纯函数：无 I/O、无内部可变状态、可并发调用。
type Collector interface {
	Collect(input *string) (NumberSet, error)
}
