package filesystem

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rangesum/pkg/contract"
)

func collect(t *testing.T, r *FileSystem, roots []string) map[string]string {
	t.Helper()
	got := map[string]string{}
	err := r.Iterate(context.Background(), roots, func(id contract.FileID, rc io.ReadCloser) error {
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			return err
		}
		got[string(id)] = string(b)
		return nil
	})
	require.NoError(t, err)
	return got
}

// TestIterateSingleFile 读取单文件
func TestIterateSingleFile(t *testing.T) {
	dir := t.TempDir()
	fp := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(fp, []byte("1,2,3"), 0o644))
	got := collect(t, New(nil), []string{fp})
	assert.Equal(t, map[string]string{string(contract.NormalizeFileID(fp)): "1,2,3"}, got)
}

// TestIterateDirOrder 目录递归：子目录优先，同层字典序
func TestIterateDirOrder(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "c.txt"), []byte("c"), 0o644))

	var order []string
	err := New(nil).Iterate(context.Background(), []string{dir}, func(id contract.FileID, rc io.ReadCloser) error {
		order = append(order, filepath.Base(string(id)))
		return rc.Close()
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"c.txt", "a.txt", "b.txt"}, order)
}

// TestExcludeDir 跳过目录
func TestExcludeDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("k"), 0o644))
	skipDir := filepath.Join(dir, "Skip")
	require.NoError(t, os.Mkdir(skipDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(skipDir, "bad.txt"), []byte("b"), 0o644))

	got := collect(t, New(&Options{ExcludeDirNames: []string{"skip"}}), []string{dir})
	require.Len(t, got, 1)
	for id := range got {
		assert.True(t, strings.HasSuffix(id, "keep.txt"), id)
	}
}

// TestIterateDashMix 混用 '-' 返回错误
func TestIterateDashMix(t *testing.T) {
	err := New(nil).Iterate(context.Background(), []string{"-", "a"}, func(contract.FileID, io.ReadCloser) error { return nil })
	assert.Error(t, err)
}

// TestIterateStdin roots 为空或为 "-" 时读取注入的 STDIN
func TestIterateStdin(t *testing.T) {
	for _, roots := range [][]string{nil, {"-"}} {
		r := New(nil).WithStdin(strings.NewReader("4,5"))
		got := collect(t, r, roots)
		assert.Equal(t, map[string]string{string(contract.StdinID): "4,5"}, got)
	}
}

// TestIterateMissing 路径不存在
func TestIterateMissing(t *testing.T) {
	err := New(nil).Iterate(context.Background(), []string{filepath.Join(t.TempDir(), "nope")}, func(contract.FileID, io.ReadCloser) error { return nil })
	assert.True(t, errors.Is(err, os.ErrNotExist), "%v", err)
}

// TestIterateYieldError yield 返回错误时中止并上抛
func TestIterateYieldError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0o644))
	boom := errors.New("boom")
	calls := 0
	err := New(nil).Iterate(context.Background(), []string{dir}, func(contract.FileID, io.ReadCloser) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

// TestIterateCtxCancel 上下文取消
func TestIterateCtxCancel(t *testing.T) {
	dir := t.TempDir()
	fp := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(fp, []byte("x"), 0o644))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := New(nil).Iterate(ctx, []string{fp}, func(contract.FileID, io.ReadCloser) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

// TestNewBufferedCloserDefault bufSize<=0 时使用默认
func TestNewBufferedCloserDefault(t *testing.T) {
	bc := newBufferedCloser(io.NopCloser(strings.NewReader("")), 0)
	require.NotNil(t, bc.Reader)
	assert.Equal(t, defaultBufSize, bc.Reader.Size())
	assert.NoError(t, bc.Close())
}
