package lines

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode/utf8"

	"rangesum/pkg/contract"
)

// Options 为按行 Splitter 的可选配置。
type Options struct {
	// MaxLineBytes: 单行最大字节数（不含换行符）。0 表示不限制。
	MaxLineBytes int `yaml:"max_line_bytes"`
	// AllowExts: 允许处理的扩展名（大小写不敏感，含点，如 [".txt"]）。
	// 为空表示不限制；STDIN 不受此项约束。
	AllowExts []string `yaml:"allow_exts"`
}

// Splitter 将输入按行拆分，每行一条 Record。
type Splitter struct {
	maxBytes int
	// 允许扩展名（小写）；nil 表示不限制。
	allow map[string]struct{}
}

// New 创建按行 Splitter。
func New(opts *Options) *Splitter {
	s := &Splitter{}
	if opts == nil {
		return s
	}
	if opts.MaxLineBytes > 0 {
		s.maxBytes = opts.MaxLineBytes
	}
	for _, e := range opts.AllowExts {
		if e == "" {
			continue
		}
		if s.allow == nil {
			s.allow = make(map[string]struct{}, len(opts.AllowExts))
		}
		s.allow[strings.ToLower(e)] = struct{}{}
	}
	return s
}

var _ contract.Splitter = (*Splitter)(nil)

// Split 逐行读取 r。空行保留为 Text="" 的 Record，以保证输出与输入逐行对齐；
// 末尾换行不产生额外 Record。扩展名不在允许列表内时返回 nil, nil（跳过该文件）。
func (s *Splitter) Split(ctx context.Context, fileID contract.FileID, r io.Reader) ([]contract.Record, error) {
	if s.allow != nil && fileID != contract.StdinID {
		if _, ok := s.allow[strings.ToLower(path.Ext(string(fileID)))]; !ok {
			return nil, nil
		}
	}
	br := bufio.NewReader(r)
	var recs []contract.Record
	var idx contract.Index
	for {
		if err := ctxErr(ctx); err != nil {
			return nil, err
		}
		line, eof, err := readLine(br)
		if err != nil {
			return nil, err
		}
		if eof {
			break
		}
		if s.maxBytes > 0 && len(line) > s.maxBytes {
			return nil, fmt.Errorf("%w: %s:%d: line too large: %d > %d", contract.ErrInvalidArgument, fileID, idx+1, len(line), s.maxBytes)
		}
		if !utf8.ValidString(line) {
			return nil, fmt.Errorf("%w: %s:%d: invalid UTF-8", contract.ErrInvalidArgument, fileID, idx+1)
		}
		recs = append(recs, contract.Record{Index: idx, FileID: fileID, Text: line})
		idx++
	}
	return recs, nil
}

// readLine 读取一行并去除结尾的 \n 或 \r\n；仅当读到 EOF 且无剩余内容时 eof=true。
func readLine(br *bufio.Reader) (line string, eof bool, err error) {
	s, err := br.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", false, err
		}
		eof = true
	}
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s, eof && s == "", nil
}

func ctxErr(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
