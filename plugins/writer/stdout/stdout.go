package stdout

import (
	"context"
	"fmt"
	"io"
	"os"

	"rangesum/pkg/contract"
)

// Options: 标准输出 Writer 选项。
type Options struct {
	// Header: 在每个工件前输出 "==> <id> <==" 标题行（多文件输入时便于区分）。
	Header bool `yaml:"header"`
}

// Stdout 将工件字节顺序写到同一个 io.Writer（默认 os.Stdout）。
type Stdout struct {
	w      io.Writer
	header bool
}

// New 创建写往 os.Stdout 的 Writer。
func New(opts *Options) *Stdout {
	return NewTo(os.Stdout, opts)
}

// NewTo 创建写往 w 的 Writer；w 为 nil 时使用 os.Stdout。
func NewTo(w io.Writer, opts *Options) *Stdout {
	if w == nil {
		w = os.Stdout
	}
	s := &Stdout{w: w}
	if opts != nil {
		s.header = opts.Header
	}
	return s
}

var _ contract.Writer = (*Stdout)(nil)

// Write 透传 r 的全部字节。
func (s *Stdout) Write(ctx context.Context, id contract.ArtifactID, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.header {
		if _, err := fmt.Fprintf(s.w, "==> %s <==\n", id); err != nil {
			return err
		}
	}
	_, err := io.Copy(s.w, r)
	return err
}
