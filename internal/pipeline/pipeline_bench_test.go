package pipeline

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"testing"

	"rangesum/pkg/contract"
)

// discardWriter 丢弃所有输出，避免磁盘开销。
type discardWriter struct{}

func (discardWriter) Write(ctx context.Context, id contract.ArtifactID, r io.Reader) error {
	_, err := io.Copy(io.Discard, r)
	return err
}

// BenchmarkPipeline 测试完整流水线（STDIN → stdout 丢弃）的吞吐。
func BenchmarkPipeline(b *testing.B) {
	for _, lines := range []int{100, 10000} {
		b.Run(fmt.Sprintf("lines=%d", lines), func(b *testing.B) {
			rng := rand.New(rand.NewSource(1))
			var sb strings.Builder
			for i := 0; i < lines; i++ {
				for j := 0; j < 32; j++ {
					if j > 0 {
						sb.WriteByte(',')
					}
					fmt.Fprintf(&sb, "%d", rng.Intn(200)-100)
				}
				sb.WriteByte('\n')
			}
			in := sb.String()
			set := Settings{Inputs: []string{"-"}}
			ctx := context.Background()
			b.ReportAllocs()
			b.SetBytes(int64(len(in)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				comp := stdinComponents(in, io.Discard)
				comp.Writer = discardWriter{}
				if _, err := Run(ctx, comp, set, nil); err != nil {
					b.Fatalf("运行失败: %v", err)
				}
			}
		})
	}
}
