package contract

import (
	"fmt"
	"strconv"
)

// NumberSet: 去重且升序的整数集合。
type NumberSet []int

// Range: 连续整数闭区间 [First, Last]；First == Last 时为单值（single）。
type Range struct {
	First int
	Last  int
}

// Single 报告该区间是否只含一个值。
func (r Range) Single() bool { return r.First == r.Last }

// Contains 报告 n 是否落在区间内。
func (r Range) Contains(n int) bool { return r.First <= n && n <= r.Last }

// String 渲染为 "<first>" 或 "<first>-<last>"。
// 负数保留符号，{-3..-1} 渲染为 "-3--1"。
func (r Range) String() string {
	if r.Single() {
		return strconv.Itoa(r.First)
	}
	return strconv.Itoa(r.First) + "-" + strconv.Itoa(r.Last)
}

// ParseInt 将已去空白的 token 解析为十进制整数（仅允许可选的前导 '-'）。
// 失败返回包装 ErrInvalidArgument 的错误，消息中带出原 token。
func ParseInt(tok string) (int, error) {
	if tok == "" {
		return 0, fmt.Errorf("%w: empty token", ErrInvalidArgument)
	}
	// strconv 接受 '+'，此处收紧
	if tok[0] == '+' {
		return 0, fmt.Errorf("%w: invalid number format: %q", ErrInvalidArgument, tok)
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid number format: %q", ErrInvalidArgument, tok)
	}
	return n, nil
}

// CheckSet 校验 s 严格升序（隐含无重复）。纯函数，供编排层守护 Collector 输出。
func CheckSet(s []int) error {
	for i := 1; i < len(s); i++ {
		if s[i] <= s[i-1] {
			return fmt.Errorf("%w: set not strictly ascending at %d (%d after %d)", ErrInvariantViolation, i, s[i], s[i-1])
		}
	}
	return nil
}
