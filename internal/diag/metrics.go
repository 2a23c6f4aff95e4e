package diag

import (
	"fmt"
	"maps"
	"sync"
)

// 进程内计数器：
// - op_total{comp,stage,result}
// - error_total{comp,code}
// - op_duration_ms{comp,stage}（累加）
var (
	metricsMu sync.Mutex
	counters  = map[string]int64{}
)

func add(key string, v int64) {
	metricsMu.Lock()
	counters[key] += v
	metricsMu.Unlock()
}

// IncOp 累加操作计数（result=success|error）。
func IncOp(comp, stage, result string) {
	add(fmt.Sprintf("op_total{comp=%s,stage=%s,result=%s}", comp, stage, result), 1)
}

// IncError 按分类累加错误计数。
func IncError(comp string, code Code) {
	add(fmt.Sprintf("error_total{comp=%s,code=%s}", comp, code), 1)
}

// ObserveDuration 累加阶段耗时（毫秒）。
func ObserveDuration(comp, stage string, durMS int64) {
	add(fmt.Sprintf("op_duration_ms{comp=%s,stage=%s}", comp, stage), durMS)
}

// Snapshot 返回当前计数副本。
func Snapshot() map[string]int64 {
	metricsMu.Lock()
	defer metricsMu.Unlock()
	return maps.Clone(counters)
}

// ResetMetrics 清空计数（测试与多次运行之间使用）。
func ResetMetrics() {
	metricsMu.Lock()
	clear(counters)
	metricsMu.Unlock()
}

func recordFailure(comp string, err error) Code {
	code := Classify(err)
	IncOp(comp, "error", "error")
	if code != CodeUnknown {
		IncError(comp, code)
	}
	return code
}

// Fail 记录 comp 的失败事件并返回分类码；logger 可为 nil。
func (l *Logger) Fail(comp, msg string, err error, fileID string) Code {
	code := recordFailure(comp, err)
	l.Error(comp, code, msg, err, fileID, nil)
	return code
}
