package diag

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Terminal: 终端信息提示（非日志）。
// - 输出到提供的 io.Writer（默认 stderr）。
// - TTY: 状态标签着色；非 TTY: 纯文本分行。
// - 写失败后进入禁用态为 no-op；nil 接收者安全。
type Terminal struct {
	w       io.Writer
	enabled bool
	isTTY   bool

	filesDone int
	linesDone int
	runStart  time.Time

	okTag   lipgloss.Style
	failTag lipgloss.Style
	dim     lipgloss.Style

	mu sync.Mutex
}

// NewTerminal 构造终端提示器。enabled=false 时总是 no-op。
func NewTerminal(w io.Writer, enabled bool) *Terminal {
	if w == nil {
		w = os.Stderr
	}
	t := &Terminal{w: w, enabled: enabled}
	if os.Getenv("CI") == "" {
		if f, ok := w.(*os.File); ok {
			t.isTTY = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}
	r := lipgloss.NewRenderer(w)
	t.okTag = r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	t.failTag = r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	t.dim = r.NewStyle().Faint(true)
	return t
}

// RunStart 记录运行起点与组件组合。
func (t *Terminal) RunStart(components string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled {
		return
	}
	t.filesDone = 0
	t.linesDone = 0
	t.runStart = time.Now()
	t.println(fmt.Sprintf("[run] %s", safe(components)))
}

// FileFinish 打印单文件结果。
func (t *Terminal) FileFinish(fileID string, ok bool, lines int, dur time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled {
		return
	}
	t.filesDone++
	t.linesDone += lines
	t.println(fmt.Sprintf("%s %s | 行 %d | %s",
		t.tag(ok), shortenBase(fileID, 48), lines, t.style(t.dim, formatDur(dur))))
}

// RunFinish 结束总览。
func (t *Terminal) RunFinish(ok bool, dur time.Duration) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled {
		return
	}
	t.println(fmt.Sprintf("%s 全部完成 | 文件 %d | 行 %d | 总用时 %s",
		t.tag(ok), t.filesDone, t.linesDone, formatDur(dur)))
}

func (t *Terminal) tag(ok bool) string {
	if ok {
		return t.style(t.okTag, "[ok]")
	}
	return t.style(t.failTag, "[fail]")
}

// 非 TTY 不着色，保证日志/管道中的纯文本
func (t *Terminal) style(s lipgloss.Style, text string) string {
	if !t.isTTY {
		return text
	}
	return s.Render(text)
}

func (t *Terminal) println(s string) {
	if _, err := io.WriteString(t.w, s+"\n"); err != nil {
		t.enabled = false
	}
}

// shortenBase: 取基名并按 rune 截断（尾部省略号）。
func shortenBase(s string, max int) string {
	if max <= 0 {
		return ""
	}
	base := filepath.Base(strings.TrimSpace(s))
	rs := []rune(base)
	if len(rs) <= max {
		return base
	}
	return string(rs[:max-1]) + "…"
}

func safe(s string) string {
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}

func formatDur(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", max(d.Milliseconds(), 0))
	}
	return fmt.Sprintf("%.1fs", float64(d.Milliseconds())/1000.0)
}
