package contract

// Summarizer: 将整数集合渲染为区间摘要（例如 "1, 3, 6-8"）。
// 约束：
// 1) nil 或空输入返回 ""，无错误路径；
// 2) 不修改调用方切片；
// 3) 纯函数、可并发调用。
type Summarizer interface {
	Summarize(numbers []int) string
}
