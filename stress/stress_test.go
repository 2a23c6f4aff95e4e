package stress

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	cfgpkg "rangesum/internal/config"
	"rangesum/internal/pipeline"
	"rangesum/pkg/rangesum"
	"rangesum/pkg/registry"
)

// baseConfig 构造可运行的最小配置：单文件输入，fs writer 扁平输出。
func baseConfig(t *testing.T, input, outDir string) cfgpkg.Config {
	cfg := cfgpkg.DefaultTemplateConfig()
	cfg.Inputs = []string{input}
	cfg.Components.Writer = "fs"
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(fmt.Sprintf("{output_dir: %q, atomic: false, flat: true}", outDir)), &doc))
	cfg.Options.Writer = *doc.Content[0]
	return cfg
}

// genInput 生成 lines 行、每行 width 个取值于 [-span, span) 的随机整数。
func genInput(t *testing.T, p string, lines, width, span int, seed int64) {
	f, err := os.Create(p)
	require.NoError(t, err)
	defer f.Close()
	rng := rand.New(rand.NewSource(seed))
	bw := bufio.NewWriter(f)
	for i := 0; i < lines; i++ {
		for j := 0; j < width; j++ {
			if j > 0 {
				bw.WriteString(", ")
			}
			bw.WriteString(strconv.Itoa(rng.Intn(2*span) - span))
		}
		bw.WriteByte('\n')
	}
	require.NoError(t, bw.Flush())
}

// TestStress 在不同输入规模下运行流水线并记录延迟统计；抽样校验输出可还原。
func TestStress(t *testing.T) {
	if testing.Short() {
		t.Skip("short 模式跳过压力测试")
	}
	levels := []struct{ lines, width int }{{1000, 16}, {20000, 64}, {2000, 4096}}
	for _, lv := range levels {
		t.Run(fmt.Sprintf("lines_%d_width_%d", lv.lines, lv.width), func(t *testing.T) {
			const runs = 3
			dir := t.TempDir()
			in := filepath.Join(dir, "input.txt")
			genInput(t, in, lv.lines, lv.width, lv.width, 42)

			latencies := make([]time.Duration, 0, runs)
			for i := 0; i < runs; i++ {
				outDir := filepath.Join(dir, fmt.Sprintf("out-%d", i))
				comp, set, err := cfgpkg.Assemble(baseConfig(t, in, outDir), registry.Env{})
				require.NoError(t, err)
				start := time.Now()
				st, err := pipeline.Run(context.Background(), comp, set, nil)
				dur := time.Since(start)
				require.NoError(t, err, "run %d", i)
				require.Equal(t, lv.lines, st.Lines)
				latencies = append(latencies, dur)
			}
			verifySample(t, in, filepath.Join(dir, "out-0", "input.txt.summary"))

			sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
			var total time.Duration
			for _, d := range latencies {
				total += d
			}
			avg := total / time.Duration(len(latencies))
			idx := max(int(math.Ceil(float64(len(latencies))*0.95))-1, 0)
			t.Logf("行%d 宽%d 平均%v 95%%延迟%v", lv.lines, lv.width, avg, latencies[idx])
		})
	}
}

// verifySample 每隔若干行比对：输出展开 == 输入去重排序。
func verifySample(t *testing.T, inPath, outPath string) {
	in, err := os.Open(inPath)
	require.NoError(t, err)
	defer in.Close()
	out, err := os.Open(outPath)
	require.NoError(t, err)
	defer out.Close()

	si := bufio.NewScanner(in)
	si.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	so := bufio.NewScanner(out)
	so.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for n := 0; si.Scan(); n++ {
		require.True(t, so.Scan(), "输出行数不足")
		if n%97 != 0 {
			continue
		}
		want, err := rangesum.CollectString(si.Text())
		require.NoError(t, err)
		got, err := rangesum.Expand(so.Text())
		require.NoError(t, err)
		require.Equal(t, []int(want), got, "line %d", n+1)
	}
	require.NoError(t, si.Err())
	require.False(t, so.Scan(), "输出行数过多")
}
