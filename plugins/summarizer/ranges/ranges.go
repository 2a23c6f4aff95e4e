package ranges

import (
	"fmt"
	"slices"
	"strings"

	"rangesum/pkg/contract"
)

// Options: 区间摘要器当前无可调项；保留结构以便工厂严格解码（未知字段报错）。
type Options struct{}

const segmentSep = ", "

// maxExpand: Expand 单次允许展开的最大值个数。
const maxExpand = 1 << 20

// Summarizer 将整数集合渲染为 "1, 3, 6-8" 形式的摘要。
type Summarizer struct{}

// New 创建 Summarizer（当前忽略选项）。
func New(_ *Options) *Summarizer { return &Summarizer{} }

var _ contract.Summarizer = (*Summarizer)(nil)

// Summarize 复制并升序排序 numbers，切分极大连续段后以 ", " 拼接。
// nil 或空输入返回 ""。
func (s *Summarizer) Summarize(numbers []int) string {
	if len(numbers) == 0 {
		return ""
	}
	sorted := slices.Clone(numbers)
	slices.Sort(sorted)

	var b strings.Builder
	for i, r := range Runs(sorted) {
		if i > 0 {
			b.WriteString(segmentSep)
		}
		b.WriteString(r.String())
	}
	return b.String()
}

// Runs 将升序序列自左向右切分为极大连续段：
// 仅当 next == cur+1 时延伸当前段，否则在此处断开。
// 重复值同样断开当前段，且由重复值开启下一段（[1,1,2] → [1] [1-2]）。
func Runs(sorted []int) []contract.Range {
	if len(sorted) == 0 {
		return nil
	}
	var runs []contract.Range
	begin := 0
	for end := 1; end <= len(sorted); end++ {
		if end < len(sorted) && sorted[end] == sorted[end-1]+1 {
			continue
		}
		runs = append(runs, contract.Range{First: sorted[begin], Last: sorted[end-1]})
		begin = end
	}
	return runs
}

// Expand 将摘要还原为其表示的全部值（按出现顺序）。空摘要返回 nil。
// 段格式："<n>" 或 "<first>-<last>"，两端均可为负数。
func Expand(summary string) ([]int, error) {
	if strings.TrimSpace(summary) == "" {
		return nil, nil
	}
	var out []int
	for _, seg := range strings.Split(summary, ",") {
		r, err := parseSegment(strings.TrimSpace(seg))
		if err != nil {
			return nil, err
		}
		span := uint(r.Last) - uint(r.First)
		if span >= maxExpand || uint(len(out))+span+1 > maxExpand {
			return nil, fmt.Errorf("%w: range %s too large to expand", contract.ErrInvalidArgument, r)
		}
		for n := r.First; ; n++ {
			out = append(out, n)
			if n == r.Last {
				break
			}
		}
	}
	return out, nil
}

// parseSegment 解析单个段。首字符可能是负号，故从第二个字符起查找区间连字符。
func parseSegment(seg string) (contract.Range, error) {
	if seg == "" {
		return contract.Range{}, fmt.Errorf("%w: empty segment", contract.ErrInvalidArgument)
	}
	dash := strings.IndexByte(seg[1:], '-')
	if dash < 0 {
		n, err := contract.ParseInt(seg)
		if err != nil {
			return contract.Range{}, err
		}
		return contract.Range{First: n, Last: n}, nil
	}
	first, err := contract.ParseInt(seg[:dash+1])
	if err != nil {
		return contract.Range{}, err
	}
	last, err := contract.ParseInt(seg[dash+2:])
	if err != nil {
		return contract.Range{}, err
	}
	if first >= last {
		return contract.Range{}, fmt.Errorf("%w: range %q is not ascending", contract.ErrInvalidArgument, seg)
	}
	return contract.Range{First: first, Last: last}, nil
}
