package filesystem

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"rangesum/pkg/contract"
)

// Options: 文件系统 Writer 选项。
type Options struct {
	// OutputDir: 输出根目录（必需）。
	OutputDir string `yaml:"output_dir"`
	// Atomic: 同目录临时文件 + rename 原子替换。nil 时默认 true。
	Atomic *bool `yaml:"atomic,omitempty"`
	// Flat: 仅保留输入文件名，不保留目录层级。nil 时默认 true。
	Flat *bool `yaml:"flat,omitempty"`
	// Suffix: 追加在输出文件名后的后缀。nil 时默认 ".summary"；显式 "" 表示不加。
	Suffix *string `yaml:"suffix,omitempty"`
	// PermFile/PermDir: 为 0 时使用 0644/0755。
	PermFile os.FileMode `yaml:"perm_file,omitempty"`
	PermDir  os.FileMode `yaml:"perm_dir,omitempty"`
	// BufSize: 写缓冲区大小；<=0 使用 64KiB。
	BufSize int `yaml:"buf_size,omitempty"`
}

// DefaultSuffix 为输出文件名的默认后缀。
const DefaultSuffix = ".summary"

// ErrNoOutputDir: 未配置 output_dir。
var ErrNoOutputDir = errors.New("fs writer: output_dir required")

// FS 将每个输入文件的摘要写入 OutputDir 下的对应文件。
type FS struct {
	root    string
	atomic  bool
	flat    bool
	suffix  string
	permF   os.FileMode
	permD   os.FileMode
	bufSize int
}

// New 创建文件系统 Writer。
func New(opts *Options) (*FS, error) {
	if opts == nil || strings.TrimSpace(opts.OutputDir) == "" {
		return nil, ErrNoOutputDir
	}
	w := &FS{
		root:    opts.OutputDir,
		atomic:  true,
		flat:    true,
		suffix:  DefaultSuffix,
		permF:   0o644,
		permD:   0o755,
		bufSize: 64 * 1024,
	}
	if opts.Atomic != nil {
		w.atomic = *opts.Atomic
	}
	if opts.Flat != nil {
		w.flat = *opts.Flat
	}
	if opts.Suffix != nil {
		w.suffix = *opts.Suffix
	}
	if opts.PermFile != 0 {
		w.permF = opts.PermFile
	}
	if opts.PermDir != 0 {
		w.permD = opts.PermDir
	}
	if opts.BufSize > 0 {
		w.bufSize = opts.BufSize
	}
	return w, nil
}

var _ contract.Writer = (*FS)(nil)

// Write 将 r 的全部字节写入 id 映射出的目标路径。
func (w *FS) Write(ctx context.Context, id contract.ArtifactID, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dest, err := w.mapPath(id)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), w.permD); err != nil {
		return err
	}
	if w.atomic {
		return w.writeAtomic(ctx, dest, r)
	}
	return w.writeOverwrite(ctx, dest, r)
}

// mapPath: Clean + Join + 越界校验，最后追加后缀。
func (w *FS) mapPath(id contract.ArtifactID) (string, error) {
	rel := filepath.Clean(filepath.FromSlash(string(id)))
	if w.flat {
		rel = filepath.Base(rel)
		if rel == "." || rel == ".." || rel == string(filepath.Separator) {
			return "", fmt.Errorf("%w: %q", contract.ErrPathInvalid, id)
		}
		return filepath.Join(w.root, rel+w.suffix), nil
	}
	// 非扁平：禁止绝对路径、父级逃逸、卷名
	switch {
	case rel == ".",
		filepath.IsAbs(rel),
		rel == "..",
		strings.HasPrefix(rel, ".."+string(filepath.Separator)),
		filepath.VolumeName(rel) != "":
		return "", fmt.Errorf("%w: %q", contract.ErrPathInvalid, id)
	}
	return filepath.Join(w.root, rel+w.suffix), nil
}

func (w *FS) writeOverwrite(ctx context.Context, dest string, r io.Reader) error {
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, w.permF)
	if err != nil {
		return err
	}
	defer f.Close()
	bw := bufio.NewWriterSize(f, w.bufSize)
	if _, err := io.Copy(bw, readerWithCtx(ctx, r)); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func (w *FS) writeAtomic(ctx context.Context, dest string, r io.Reader) error {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()
	_ = os.Chmod(tmpPath, w.permF)

	bw := bufio.NewWriterSize(tmp, w.bufSize)
	if _, err := io.Copy(bw, readerWithCtx(ctx, r)); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := osReplace(tmpPath, dest); err != nil {
		return err
	}
	committed = true
	// 父目录 fsync 失败不影响结果
	_ = syncDir(dir)
	return nil
}

// readerWithCtx: 每次 Read 前检查 ctx。
func readerWithCtx(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *ctxReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}
