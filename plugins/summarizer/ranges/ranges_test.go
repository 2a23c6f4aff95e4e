package ranges

import (
	"math"
	"math/rand"
	"slices"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rangesum/pkg/contract"
)

// TestSummarize 覆盖单值、连续段、负数与示例输入
func TestSummarize(t *testing.T) {
	s := New(nil)
	tests := []struct {
		name string
		in   []int
		want string
	}{
		{"示例", []int{1, 3, 6, 7, 8, 12, 13, 14, 15, 21, 22, 23, 24, 31}, "1, 3, 6-8, 12-15, 21-24, 31"},
		{"单值", []int{5}, "5"},
		{"两元素段", []int{5, 6}, "5-6"},
		{"不相邻不合并", []int{1, 3, 5}, "1, 3, 5"},
		{"负数段", []int{-3, -2, -1, 1, 2}, "-3--1, 1-2"},
		{"跨零", []int{-1, 0, 1}, "-1-1"},
		{"乱序输入", []int{8, 6, 7, 1}, "1, 6-8"},
		{"重复值断段", []int{1, 1, 2}, "1, 1-2"},
		{"整数上界", []int{math.MaxInt - 1, math.MaxInt}, strconv.Itoa(math.MaxInt-1) + "-" + strconv.Itoa(math.MaxInt)},
		{"整数下界", []int{math.MinInt, math.MinInt + 1}, strconv.Itoa(math.MinInt) + "-" + strconv.Itoa(math.MinInt+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Summarize(tt.in))
		})
	}
}

// TestSummarizeEmpty nil 与空切片返回空串
func TestSummarizeEmpty(t *testing.T) {
	s := New(nil)
	assert.Equal(t, "", s.Summarize(nil))
	assert.Equal(t, "", s.Summarize([]int{}))
}

// TestSummarizeDoesNotMutate 调用方切片保持原序
func TestSummarizeDoesNotMutate(t *testing.T) {
	in := []int{3, 1, 2}
	New(nil).Summarize(in)
	assert.Equal(t, []int{3, 1, 2}, in)
}

func TestRuns(t *testing.T) {
	got := Runs([]int{1, 2, 3, 5, 7, 8})
	want := []contract.Range{{First: 1, Last: 3}, {First: 5, Last: 5}, {First: 7, Last: 8}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("runs (-want +got):\n%s", diff)
	}
	assert.Nil(t, Runs(nil))
}

func TestExpand(t *testing.T) {
	got, err := Expand("1, 3, 6-8, -3--1")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 6, 7, 8, -3, -2, -1}, got)

	got, err = Expand("")
	require.NoError(t, err)
	assert.Nil(t, got)

	for _, bad := range []string{"1,,2", "3-1", "a-b", "1-", "5-5", "0-9999999", "-9223372036854775808-9223372036854775807"} {
		_, err := Expand(bad)
		assert.ErrorIs(t, err, contract.ErrInvalidArgument, bad)
	}
}

// TestRoundTripProperty 任意集合：摘要展开后恰好还原为升序去重集合
func TestRoundTripProperty(t *testing.T) {
	s := New(nil)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		n := rng.Intn(40)
		in := make([]int, n)
		for j := range in {
			in[j] = rng.Intn(60) - 30
		}
		want := slices.Clone(in)
		slices.Sort(want)
		want = slices.Compact(want)

		got, err := Expand(s.Summarize(want))
		require.NoError(t, err)
		if len(want) == 0 {
			require.Empty(t, got)
			continue
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("round trip %v (-want +got):\n%s", in, diff)
		}
		// 相邻段之间必有断口
		runs := Runs(want)
		for k := 1; k < len(runs); k++ {
			require.Greater(t, runs[k].First, runs[k-1].Last+1)
		}
	}
}

func BenchmarkSummarize(b *testing.B) {
	in := make([]int, 0, 1000)
	for i := 0; i < 1000; i++ {
		if i%5 != 0 {
			in = append(in, i)
		}
	}
	s := New(nil)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Summarize(in)
	}
}
