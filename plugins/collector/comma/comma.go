package comma

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/sets/treeset"

	"rangesum/pkg/contract"
)

// Options 为逗号分隔 Collector 的可选配置。
type Options struct {
	// MaxTokens: 单次输入允许的最大 token 数。0 表示不限制。
	MaxTokens int `yaml:"max_tokens"`
}

// Collector 将逗号分隔文本解析为去重升序的整数集合。
// 无内部可变状态，可并发调用。
type Collector struct {
	maxTokens int
}

// New 创建 Collector。
func New(opts *Options) *Collector {
	c := &Collector{}
	if opts != nil && opts.MaxTokens > 0 {
		c.maxTokens = opts.MaxTokens
	}
	return c
}

var _ contract.Collector = (*Collector)(nil)

const delimiter = ","

// Collect 解析 input：按 ',' 切分，逐个去空白后解析为十进制整数，
// 经有序集合去重排序后返回。
func (c *Collector) Collect(input *string) (contract.NumberSet, error) {
	if input == nil {
		return nil, fmt.Errorf("%w: input must not be nil", contract.ErrInvalidArgument)
	}
	if strings.TrimSpace(*input) == "" {
		return contract.NumberSet{}, nil
	}
	toks := strings.Split(*input, delimiter)
	if c.maxTokens > 0 && len(toks) > c.maxTokens {
		return nil, fmt.Errorf("%w: too many tokens: %d > %d", contract.ErrInvalidArgument, len(toks), c.maxTokens)
	}

	set := treeset.NewWithIntComparator()
	for i, raw := range toks {
		tok := strings.TrimSpace(raw)
		if tok == "" {
			return nil, fmt.Errorf("%w: empty token at position %d", contract.ErrInvalidArgument, i+1)
		}
		n, err := contract.ParseInt(tok)
		if err != nil {
			return nil, err
		}
		set.Add(n)
	}

	out := make(contract.NumberSet, 0, set.Size())
	it := set.Iterator()
	for it.Next() {
		out = append(out, it.Value().(int))
	}
	return out, nil
}
