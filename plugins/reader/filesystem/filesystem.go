package filesystem

import (
	"bufio"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"rangesum/pkg/contract"
)

// Options 为文件系统 Reader 的可选配置。
type Options struct {
	// BufSize 为读缓冲区大小（字节）。默认 64KiB。
	BufSize int `yaml:"buf_size"`
	// ExcludeDirNames: 递归目录时跳过这些目录基名（大小写不敏感），如 [".git"]。
	// 仅影响目录递归，不影响显式给出的文件 root。
	ExcludeDirNames []string `yaml:"exclude_dir_names"`
}

// FileSystem 实现基于文件系统与 STDIN 的 Reader。
type FileSystem struct {
	bufSize    int
	excludeDir map[string]struct{}
	stdin      io.Reader
}

const defaultBufSize = 64 * 1024

// New 创建 FileSystem Reader。
func New(opts *Options) *FileSystem {
	r := &FileSystem{bufSize: defaultBufSize, excludeDir: map[string]struct{}{}, stdin: os.Stdin}
	if opts == nil {
		return r
	}
	if opts.BufSize > 0 {
		r.bufSize = opts.BufSize
	}
	for _, name := range opts.ExcludeDirNames {
		if name != "" {
			r.excludeDir[strings.ToLower(name)] = struct{}{}
		}
	}
	return r
}

// WithStdin 替换 STDIN 来源（CLI 注入 cobra 的输入流，测试注入内存数据）。
func (r *FileSystem) WithStdin(in io.Reader) *FileSystem {
	if in != nil {
		r.stdin = in
	}
	return r
}

var _ contract.Reader = (*FileSystem)(nil)

// Iterate 遍历 roots，按稳定顺序对每个常规文件调用 yield。
// roots 为空或仅含 "-" 时读取 STDIN；"-" 不得与其他 root 混用。
func (r *FileSystem) Iterate(ctx context.Context, roots []string, yield func(fileID contract.FileID, rc io.ReadCloser) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(roots) == 0 || (len(roots) == 1 && roots[0] == "-") {
		return yield(contract.StdinID, newBufferedCloser(io.NopCloser(r.stdin), r.bufSize))
	}
	if slices.Contains(roots, "-") {
		return errors.New("stdin '-' cannot be mixed with other roots")
	}
	for _, root := range roots {
		if err := r.iterateOne(ctx, root, yield); err != nil {
			return err
		}
	}
	return nil
}

func (r *FileSystem) iterateOne(ctx context.Context, root string, yield func(contract.FileID, io.ReadCloser) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Lstat(root)
	if err != nil {
		return err
	}
	switch {
	case info.Mode()&os.ModeSymlink != 0:
		// 仅跟随到常规文件；指向目录的链接忽略
		regular, err := symlinkToRegular(root)
		if err != nil || !regular {
			return err
		}
		return r.emit(root, yield)
	case info.IsDir():
		return r.walkDir(ctx, root, yield)
	case info.Mode().IsRegular():
		return r.emit(root, yield)
	default:
		return nil
	}
}

// walkDir 按字典序先递归子目录、再处理文件。
func (r *FileSystem) walkDir(ctx context.Context, dir string, yield func(contract.FileID, io.ReadCloser) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	slices.SortFunc(entries, func(a, b fs.DirEntry) int { return strings.Compare(a.Name(), b.Name()) })

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !e.IsDir() {
			continue
		}
		if _, skip := r.excludeDir[strings.ToLower(e.Name())]; skip {
			continue
		}
		if err := r.walkDir(ctx, filepath.Join(dir, e.Name()), yield); err != nil {
			return err
		}
	}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.IsDir() {
			continue
		}
		p := filepath.Join(dir, e.Name())
		switch {
		case e.Type()&os.ModeSymlink != 0:
			regular, err := symlinkToRegular(p)
			if err != nil {
				return err
			}
			if !regular {
				continue
			}
		case !e.Type().IsRegular():
			// 设备、管道等
			continue
		}
		if err := r.emit(p, yield); err != nil {
			return err
		}
	}
	return nil
}

// emit 打开 p 并交给 yield；yield 出错时由此处关闭文件。
func (r *FileSystem) emit(p string, yield func(contract.FileID, io.ReadCloser) error) error {
	f, err := os.Open(p)
	if err != nil {
		return err
	}
	brc := newBufferedCloser(f, r.bufSize)
	if err := yield(contract.NormalizeFileID(p), brc); err != nil {
		_ = brc.Close()
		return err
	}
	return nil
}

func symlinkToRegular(p string) (bool, error) {
	t, err := os.Stat(p)
	if err != nil {
		return false, err
	}
	return t.Mode().IsRegular(), nil
}

// bufferedCloser 将 bufio.Reader 与底层 Closer 组合为 ReadCloser。
type bufferedCloser struct {
	*bufio.Reader
	c io.Closer
}

func newBufferedCloser(c io.ReadCloser, bufSize int) *bufferedCloser {
	if bufSize <= 0 {
		bufSize = defaultBufSize
	}
	return &bufferedCloser{Reader: bufio.NewReaderSize(c, bufSize), c: c}
}

func (b *bufferedCloser) Close() error { return b.c.Close() }
