// Package logging provides the structured JSON logger used across the
// visualizer. The render loop logs lifecycle events only (start, stop,
// rebuilds, pause); per-frame logging would swamp any sink.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level represents a log severity
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// String returns the level's wire name
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string to a Level, defaulting to info
func ParseLevel(s string) Level {
	switch s {
	case "DEBUG", "debug":
		return DebugLevel
	case "WARN", "warn", "WARNING", "warning":
		return WarnLevel
	case "ERROR", "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Field is a key-value pair attached to a log entry
type Field struct {
	Key   string
	Value any
}

// F constructs a Field
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logger is the structured logging interface
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// With returns a child logger with fields pre-set on every entry
	With(fields ...Field) Logger
	SetLevel(level Level)
}

type entry struct {
	Time    string         `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"msg"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// JSONLogger writes one JSON object per line
type JSONLogger struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	preset []Field
}

// NewJSONLogger creates a logger writing to out at the given level
func NewJSONLogger(out io.Writer, level Level) *JSONLogger {
	return &JSONLogger{out: out, level: level}
}

func (l *JSONLogger) Debug(msg string, fields ...Field) { l.emit(DebugLevel, msg, fields) }
func (l *JSONLogger) Info(msg string, fields ...Field)  { l.emit(InfoLevel, msg, fields) }
func (l *JSONLogger) Warn(msg string, fields ...Field)  { l.emit(WarnLevel, msg, fields) }
func (l *JSONLogger) Error(msg string, fields ...Field) { l.emit(ErrorLevel, msg, fields) }

// With implements Logger
func (l *JSONLogger) With(fields ...Field) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	child := &JSONLogger{out: l.out, level: l.level}
	child.preset = append(append([]Field{}, l.preset...), fields...)
	return child
}

// SetLevel implements Logger
func (l *JSONLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *JSONLogger) emit(level Level, msg string, fields []Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}

	e := entry{
		Time:    time.Now().Format(time.RFC3339Nano),
		Level:   level.String(),
		Message: msg,
	}
	if len(l.preset)+len(fields) > 0 {
		e.Fields = make(map[string]any, len(l.preset)+len(fields))
		for _, f := range l.preset {
			e.Fields[f.Key] = f.Value
		}
		for _, f := range fields {
			e.Fields[f.Key] = f.Value
		}
	}

	data, err := json.Marshal(e)
	if err != nil {
		fmt.Fprintf(l.out, `{"level":"ERROR","msg":"log entry marshal failed: %v"}`+"\n", err)
		return
	}
	l.out.Write(data)
	l.out.Write([]byte("\n"))
}

// Nop is a logger that discards everything; the default for library use
type Nop struct{}

func (Nop) Debug(string, ...Field) {}
func (Nop) Info(string, ...Field)  {}
func (Nop) Warn(string, ...Field)  {}
func (Nop) Error(string, ...Field) {}
func (n Nop) With(...Field) Logger { return n }
func (Nop) SetLevel(Level)         {}

var (
	defaultLogger Logger
	defaultOnce   sync.Once
)

// Default returns the process-wide logger, writing to stderr at the level
// named by MESHVIEW_LOG_LEVEL (info when unset)
func Default() Logger {
	defaultOnce.Do(func() {
		defaultLogger = NewJSONLogger(os.Stderr, ParseLevel(os.Getenv("MESHVIEW_LOG_LEVEL")))
	})
	return defaultLogger
}
