package contract

import (
	"path"
	"strings"
)

// NormalizeFileID 将本地路径规范化为跨平台稳定的 FileID：
// 反斜杠统一为 '/'，再按 POSIX 语义 Clean；不做隐式绝对化。
func NormalizeFileID(p string) FileID {
	return FileID(path.Clean(strings.ReplaceAll(p, "\\", "/")))
}
