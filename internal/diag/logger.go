package diag

import (
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 为结构化日志器：单行 JSON，事件字段固定为
// comp / stage(start|finish|error|debug) / code / dur_ms / count / file_id / corr_id。
// 所有方法对 nil 接收者安全。
type Logger struct {
	z    *zap.Logger
	sink *RotatingFile
}

// ParseLevel 解析 debug|info|warn|error；空串视为 info。
func ParseLevel(s string) (zapcore.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	return zapcore.ParseLevel(s)
}

func encoderConfig() zapcore.EncoderConfig {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "ts"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.CallerKey = zapcore.OmitKey
	ec.StacktraceKey = zapcore.OmitKey
	return ec
}

// NewLogger 按 level 构造日志器。dir 非空时写入 dir 下的轮转文件（10MiB）；dir 为空或 "-" 时写 stderr。
// 非法 level 退化为 info。
func NewLogger(corrID, level, dir string) *Logger {
	lvl, err := ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	var ws zapcore.WriteSyncer
	var sink *RotatingFile
	if d := strings.TrimSpace(dir); d != "" && d != "-" {
		sink = NewRotatingFile(d, 10*1024*1024)
		ws = sink
	} else {
		ws = zapcore.Lock(os.Stderr)
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), ws, lvl)
	return &Logger{z: zap.New(core).With(zap.String("corr_id", corrID)), sink: sink}
}

// NewLoggerWithCore 基于外部 core 构造（测试中注入 observer）。
func NewLoggerWithCore(core zapcore.Core, corrID string) *Logger {
	return &Logger{z: zap.New(core).With(zap.String("corr_id", corrID))}
}

// Close 刷新并关闭底层 sink。
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	_ = l.z.Sync()
	if l.sink != nil {
		return l.sink.Close()
	}
	return nil
}

// Start 记录 start 事件；返回计时器用于 Finish。
func (l *Logger) Start(comp, msg string) *Timer {
	return l.StartWith(comp, msg, "")
}

// StartWith 记录带 file_id 的 start。
func (l *Logger) StartWith(comp, msg, fileID string) *Timer {
	if l == nil {
		return nil
	}
	l.z.Info(msg, eventFields(comp, "start", fileID)...)
	return &Timer{l: l, comp: comp, fileID: fileID, t0: time.Now()}
}

// Error 记录 error 事件；since 非 nil 时附带耗时。
func (l *Logger) Error(comp string, code Code, msg string, err error, fileID string, since *time.Time) {
	if l == nil {
		return
	}
	fs := append(eventFields(comp, "error", fileID), zap.String("code", string(code)))
	if since != nil {
		fs = append(fs, zap.Int64("dur_ms", time.Since(*since).Milliseconds()))
	}
	if err != nil {
		fs = append(fs, zap.Error(err))
	}
	l.z.Error(msg, fs...)
}

// Debug 输出调试事件（仅 level=debug 时生效），kv 附加在 kv 对象下。
func (l *Logger) Debug(comp, msg string, kv map[string]string) {
	if l == nil || !l.z.Core().Enabled(zapcore.DebugLevel) {
		return
	}
	fs := eventFields(comp, "debug", "")
	if len(kv) > 0 {
		fs = append(fs, zap.Any("kv", kv))
	}
	l.z.Debug(msg, fs...)
}

func eventFields(comp, stage, fileID string) []zap.Field {
	fs := []zap.Field{zap.String("comp", comp), zap.String("stage", stage)}
	if fileID != "" {
		fs = append(fs, zap.String("file_id", fileID))
	}
	return fs
}

// Timer 用于 start→finish 计时。
type Timer struct {
	l      *Logger
	comp   string
	fileID string
	t0     time.Time
}

// Finish 记录 finish 事件，附带耗时与 count。
func (t *Timer) Finish(msg string, count int64) {
	if t == nil || t.l == nil {
		return
	}
	dur := time.Since(t.t0).Milliseconds()
	fs := append(eventFields(t.comp, "finish", t.fileID),
		zap.Int64("dur_ms", dur),
		zap.Int64("count", count))
	t.l.z.Info(msg, fs...)
	ObserveDuration(t.comp, "finish", dur)
}
