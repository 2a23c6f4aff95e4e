package contract

import (
	"context"
	"io"
)

// Reader: 输入源抽象（文件/目录/STDIN）。
// 约束：
// 1) 按文件维度回调，调用方负责 Close；
// 2) FileID 稳定且去平台差异化；
// 3) 不做解析，仅提供字节流。
type Reader interface {
	Iterate(ctx context.Context, roots []string, yield func(fileID FileID, r io.ReadCloser) error) error
}
