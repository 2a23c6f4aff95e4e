// Package rangesum 将逗号分隔的整数列表压缩为区间记法，例如 "1, 3, 6-8, 12-15"。
//
// Collect 解析并去重排序；Summarize 合并连续整数。两者均为纯函数，可并发调用。
package rangesum

import (
	"rangesum/pkg/contract"
	ccomma "rangesum/plugins/collector/comma"
	sranges "rangesum/plugins/summarizer/ranges"
)

var (
	collector  = ccomma.New(nil)
	summarizer = sranges.New(nil)
)

// Collect 将逗号分隔文本解析为去重升序集合。input 为 nil 表示缺失输入，返回 contract.ErrInvalidArgument。
func Collect(input *string) (contract.NumberSet, error) {
	return collector.Collect(input)
}

// CollectString 同 Collect，输入必然存在。
func CollectString(input string) (contract.NumberSet, error) {
	return collector.Collect(&input)
}

// Summarize 将整数序列格式化为区间串；nil 或空返回 ""。
func Summarize(numbers []int) string {
	return summarizer.Summarize(numbers)
}

// SummarizeString = Summarize(CollectString(input))。
func SummarizeString(input string) (string, error) {
	set, err := CollectString(input)
	if err != nil {
		return "", err
	}
	return Summarize(set), nil
}

// Expand 将区间串还原为其表示的全部整数（升序）。
func Expand(summary string) ([]int, error) {
	return sranges.Expand(summary)
}
