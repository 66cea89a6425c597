package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// JSONLogger writes one JSON object per line. A logger and the children made by With
// share one writer and one level.
type JSONLogger struct {
	out    *lockedWriter
	level  *atomic.Int32
	fields []Field
	now    func() time.Time
	mu     sync.RWMutex
}

// lockedWriter is shared between a logger and its children so that lines never interleave.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) writeLine(b []byte) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	lw.w.Write(append(b, '\n'))
}

// NewJSONLogger creates a logger writing to w at the given level.
func NewJSONLogger(w io.Writer, level Level) *JSONLogger {
	l := &JSONLogger{
		out:   &lockedWriter{w: w},
		level: new(atomic.Int32),
		now:   time.Now,
	}
	l.level.Store(int32(level))
	return l
}

// NewStderrLogger creates a JSON logger on stderr, keeping stdout free for exports.
func NewStderrLogger(level Level) *JSONLogger {
	return NewJSONLogger(os.Stderr, level)
}

func (l *JSONLogger) emit(level Level, msg string, fields []Field) {
	l.mu.RLock()
	preset, now := l.fields, l.now
	l.mu.RUnlock()
	min := Level(l.level.Load())
	if level < min {
		return
	}

	entry := Entry{
		Time:    now().UTC().Format(time.RFC3339Nano),
		Level:   level.String(),
		Message: msg,
	}
	if n := len(preset) + len(fields); n > 0 {
		entry.Fields = make(map[string]any, n)
		for _, f := range preset {
			entry.Fields[f.Key] = f.Value
		}
		for _, f := range fields {
			entry.Fields[f.Key] = f.Value
		}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		data = []byte(fmt.Sprintf(`{"level":"ERROR","msg":"unencodable log entry","error":%q}`, err.Error()))
	}
	l.out.writeLine(data)
}

func (l *JSONLogger) Debug(msg string, fields ...Field) { l.emit(DebugLevel, msg, fields) }
func (l *JSONLogger) Info(msg string, fields ...Field)  { l.emit(InfoLevel, msg, fields) }
func (l *JSONLogger) Warn(msg string, fields ...Field)  { l.emit(WarnLevel, msg, fields) }
func (l *JSONLogger) Error(msg string, fields ...Field) { l.emit(ErrorLevel, msg, fields) }

// With returns a child sharing the writer and level but carrying extra fields. SetLevel
// on either one changes both.
func (l *JSONLogger) With(fields ...Field) Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &JSONLogger{out: l.out, level: l.level, fields: merged, now: l.now}
}

func (l *JSONLogger) SetLevel(level Level) { l.level.Store(int32(level)) }

func (l *JSONLogger) GetLevel() Level { return Level(l.level.Load()) }

var (
	defaultLogger Logger
	defaultOnce   sync.Once
	defaultMu     sync.RWMutex
)

// DefaultLogger returns the process-wide logger, created on first use from LOG_LEVEL.
func DefaultLogger() Logger {
	defaultOnce.Do(func() {
		defaultMu.Lock()
		if defaultLogger == nil {
			defaultLogger = NewStderrLogger(ParseLevel(os.Getenv("LOG_LEVEL")))
		}
		defaultMu.Unlock()
	})
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefaultLogger replaces the process-wide logger.
func SetDefaultLogger(logger Logger) {
	defaultMu.Lock()
	defaultLogger = logger
	defaultMu.Unlock()
}

// OrDefault returns logger, or the default logger when it is nil.
func OrDefault(logger Logger) Logger {
	if logger == nil {
		return DefaultLogger()
	}
	return logger
}
