package contract

import (
	"context"
	"io"
)

// ArtifactID: 输出工件标识，与 FileID 同表示。
type ArtifactID = FileID

// Writer: 将装配结果持久化到目标介质（标准输出/文件系统）。
// 约束：
//  1. 流式写入，按字节透传；
//  2. ctx 取消需尽快返回；
//  3. 错误直接上抛。
type Writer interface {
	Write(ctx context.Context, id ArtifactID, r io.Reader) error
}
