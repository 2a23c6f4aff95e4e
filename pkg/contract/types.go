package contract

// FileID: 逻辑输入ID（规范化路径；STDIN 固定为 StdinID）。
type FileID string

// StdinID 为 STDIN 输入的固定 FileID。
const StdinID FileID = "stdin"

// Index: 单文件内稳定递增的行索引（0..n-1）。
type Index int64

// Record: 输入文件中的一行（不可跨文件）。
// 约束：
// - FileID 一致；
// - Index 自 0 严格递增；
// - Text 已去除行尾换行（CRLF→LF 归一），不做其他清洗。
type Record struct {
	Index  Index
	FileID FileID
	Text   string
}

// LineResult: 单行的摘要结果，Summary 可为空串（空行或空集合）。
type LineResult struct {
	FileID  FileID
	Index   Index
	Summary string
}
