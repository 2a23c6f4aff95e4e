package rangesum

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rangesum/pkg/contract"
)

func TestSummarizeString(t *testing.T) {
	got, err := SummarizeString("1,3,6,7,8,12,13,14,15,21,22,23,24,31")
	require.NoError(t, err)
	assert.Equal(t, "1, 3, 6-8, 12-15, 21-24, 31", got)

	got, err = SummarizeString("   ")
	require.NoError(t, err)
	assert.Empty(t, got)

	for _, in := range []string{"1,,3", "1,abc,3", "1.5,2", "1,2,"} {
		_, err := SummarizeString(in)
		assert.ErrorIs(t, err, contract.ErrInvalidArgument, in)
	}
}

func TestCollectNil(t *testing.T) {
	_, err := Collect(nil)
	assert.ErrorIs(t, err, contract.ErrInvalidArgument)

	s := "3,1,2,2"
	set, err := Collect(&s)
	require.NoError(t, err)
	assert.Equal(t, contract.NumberSet{1, 2, 3}, set)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "5", Summarize([]int{5}))
	assert.Equal(t, "5-6", Summarize([]int{5, 6}))
	assert.Equal(t, "1, 3, 5", Summarize([]int{1, 3, 5}))
	assert.Equal(t, "-3--1, 1-2", Summarize([]int{-3, -2, -1, 1, 2}))
	assert.Equal(t, "", Summarize(nil))
	assert.Equal(t, "", Summarize([]int{}))
}

func TestExpandRoundTrip(t *testing.T) {
	set, err := CollectString("12, 14, 13, -1, 0, 7")
	require.NoError(t, err)
	got, err := Expand(Summarize(set))
	require.NoError(t, err)
	assert.Equal(t, []int(set), got)
}

func ExampleSummarizeString() {
	s, err := SummarizeString("15, 1, 3, 6, 7, 8, 12, 13, 14")
	if err != nil {
		panic(err)
	}
	fmt.Println(s)
	// Output: 1, 3, 6-8, 12-15
}

func ExampleSummarize() {
	fmt.Println(Summarize([]int{-3, -2, -1, 1, 2}))
	// Output: -3--1, 1-2
}
