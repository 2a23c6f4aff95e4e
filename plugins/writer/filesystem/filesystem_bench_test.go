package filesystem

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"rangesum/pkg/contract"
)

// BenchmarkWrite 不同输入尺寸下的写入性能。
func BenchmarkWrite(b *testing.B) {
	for _, sz := range []int{1024, 1024 * 1024} {
		b.Run(fmt.Sprintf("size=%d", sz), func(b *testing.B) {
			data := bytes.Repeat([]byte("1-3, 5\n"), sz/7)
			w, err := New(&Options{OutputDir: b.TempDir()})
			if err != nil {
				b.Fatalf("创建 Writer 失败: %v", err)
			}
			ctx := context.Background()
			id := contract.ArtifactID("nums.txt")
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := w.Write(ctx, id, bytes.NewReader(data)); err != nil {
					b.Fatalf("写入失败: %v", err)
				}
			}
		})
	}
}
