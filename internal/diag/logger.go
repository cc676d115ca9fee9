package diag

import (
	"io"
	"strings"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// NewLogger 构造一个以 JSON 行输出的结构化日志器，写入按大小轮转的文件。
// corrID 作为每条记录的关联字段，便于跨组件串联一次运行。
func NewLogger(corrID, level string) *Logger {
	sink := NewRotatingFile("logs", 10*1024*1024)
	inner := charmlog.NewWithOptions(io.Writer(sink), charmlog.Options{
		Formatter:       charmlog.JSONFormatter,
		Level:           parseLevel(level),
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
	return &Logger{corrID: corrID, inner: inner.With("corr_id", corrID), sink: sink}
}

// Logger 包装 charmbracelet/log，记录 comp/stage/source 等结构化字段。
type Logger struct {
	corrID string
	inner  *charmlog.Logger
	sink   *RotatingFile
	mu     sync.Mutex
}

func parseLevel(s string) charmlog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return charmlog.DebugLevel
	case "warn":
		return charmlog.WarnLevel
	case "error":
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

// Start 记录一次组件操作的起点，返回用于 Finish 的计时器。
func (l *Logger) Start(comp, msg string) *Timer {
	l.inner.Info(msg, "comp", comp, "stage", "start")
	return &Timer{l: l, comp: comp, t0: time.Now()}
}

// StartWith 记录带 source 标识与附加键值对的起点。
func (l *Logger) StartWith(comp, msg, source string, kv map[string]string) *Timer {
	args := []any{"comp", comp, "stage", "start", "source", source}
	for k, v := range kv {
		args = append(args, k, v)
	}
	l.inner.Info(msg, args...)
	return &Timer{l: l, comp: comp, source: source, t0: time.Now()}
}

// Error 记录一次不可恢复错误。
func (l *Logger) Error(comp, code, msg string) {
	l.inner.Error(msg, "comp", comp, "stage", "error", "code", code)
}

// ErrorWith 记录带 source 标识的错误。
func (l *Logger) ErrorWith(comp, code, msg, source string) {
	l.inner.Error(msg, "comp", comp, "stage", "error", "code", code, "source", source)
}

// Warn 记录非致命诊断（例如宏递归深度达到上限）。
func (l *Logger) Warn(comp, msg string, kv map[string]string) {
	args := []any{"comp", comp, "stage", "warn"}
	for k, v := range kv {
		args = append(args, k, v)
	}
	l.inner.Warn(msg, args...)
}

// Close 刷新并关闭底层的轮转文件句柄。
func (l *Logger) Close() error {
	if l.sink == nil {
		return nil
	}
	return l.sink.Close()
}

// Timer 用于 start→finish 计时。
type Timer struct {
	l      *Logger
	comp   string
	source string
	t0     time.Time
}

// Finish 记录 finish 事件，count 为本阶段处理的条目数（例如替换的命令数）。
func (t *Timer) Finish(msg string, count int64) {
	if t == nil || t.l == nil {
		return
	}
	t.l.inner.Info(msg,
		"comp", t.comp,
		"stage", "finish",
		"dur_ms", time.Since(t.t0).Milliseconds(),
		"count", count,
		"source", t.source,
	)
}
