// Package logging provides the leveled, structured logger shared by every package.
// Records are JSON encoded by zap and written to stderr so that stdout stays free
// for the MCP stdio protocol.
package logging

import (
	"io"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is the minimum severity a Logger emits
type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config string to a Level, defaulting to info
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Fields are structured key/value pairs attached to a log record
type Fields map[string]interface{}

// WithField builds a single-entry Fields value
func WithField(key string, value interface{}) Fields {
	return Fields{key: value}
}

// WithFields converts a plain map to Fields
func WithFields(fields map[string]interface{}) Fields {
	return Fields(fields)
}

// Logger is a thin wrapper around zap
type Logger struct {
	zl    *zap.Logger
	level Level
}

// New creates a logger writing JSON records to stderr
func New(level Level) *Logger {
	return NewWithWriter(level, os.Stderr)
}

// NewWithWriter creates a logger writing JSON records to w
func NewWithWriter(level Level, w io.Writer) *Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(w),
		level.zapLevel(),
	)

	return &Logger{zl: zap.New(core), level: level}
}

// Level returns the configured minimum level
func (l *Logger) Level() Level {
	return l.level
}

// With returns a child logger that always carries the given fields
func (l *Logger) With(fields ...Fields) *Logger {
	return &Logger{zl: l.zl.With(toZap(fields)...), level: l.level}
}

func (l *Logger) Debug(msg string, fields ...Fields) {
	l.zl.Debug(msg, toZap(fields)...)
}

func (l *Logger) Info(msg string, fields ...Fields) {
	l.zl.Info(msg, toZap(fields)...)
}

func (l *Logger) Warn(msg string, fields ...Fields) {
	l.zl.Warn(msg, toZap(fields)...)
}

func (l *Logger) Error(msg string, fields ...Fields) {
	l.zl.Error(msg, toZap(fields)...)
}

// Sync flushes buffered records
func (l *Logger) Sync() error {
	return l.zl.Sync()
}

// toZap merges field sets and orders keys so output is stable
func toZap(sets []Fields) []zap.Field {
	if len(sets) == 0 {
		return nil
	}

	merged := make(map[string]interface{})
	for _, set := range sets {
		for k, v := range set {
			merged[k] = v
		}
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		if err, ok := merged[k].(error); ok {
			out = append(out, zap.String(k, err.Error()))
			continue
		}
		out = append(out, zap.Any(k, merged[k]))
	}
	return out
}
