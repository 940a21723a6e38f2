// Package logger provides a simple leveled logger for the application.
// It supports three levels: off (no output), normal (info/warn/error),
// and verbose (includes debug). The logger is safe for concurrent use.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level controls the verbosity of the logger.
type Level int

const (
	// LevelOff disables all log output.
	LevelOff Level = iota
	// LevelNormal enables info, warn, and error output.
	LevelNormal
	// LevelVerbose enables all output including debug.
	LevelVerbose
)

// String returns the flag spelling of the level.
func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelVerbose:
		return "verbose"
	default:
		return "normal"
	}
}

// offLevel sits above every level zap emits.
const offLevel = zapcore.FatalLevel + 1

func (l Level) zap() zapcore.Level {
	switch l {
	case LevelOff:
		return offLevel
	case LevelVerbose:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger is a leveled logger. All methods are safe for concurrent use.
type Logger struct {
	atom  zap.AtomicLevel
	base  *zap.Logger
	sugar *zap.SugaredLogger
}

// New creates a logger with the given level, writing to the given output.
// If out is nil, os.Stderr is used.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}

	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	enc.CallerKey = ""

	atom := zap.NewAtomicLevelAt(level.zap())
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(enc),
		zapcore.Lock(zapcore.AddSync(out)),
		atom,
	)
	base := zap.New(core)

	return &Logger{
		atom:  atom,
		base:  base,
		sugar: base.Sugar(),
	}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New(LevelOff, io.Discard)
}

// SetLevel changes the log level at runtime.
func (l *Logger) SetLevel(level Level) {
	l.atom.SetLevel(level.zap())
}

// GetLevel returns the current log level.
func (l *Logger) GetLevel() Level {
	switch l.atom.Level() {
	case offLevel:
		return LevelOff
	case zapcore.DebugLevel:
		return LevelVerbose
	default:
		return LevelNormal
	}
}

// With returns a child logger that tags every line with key=value.
func (l *Logger) With(key string, value any) *Logger {
	base := l.base.With(zap.Any(key, value))
	return &Logger{atom: l.atom, base: base, sugar: base.Sugar()}
}

// RedirectStdLog sends output of the standard library log package (used
// by some dependencies) through this logger at info level. Call the
// returned func to restore the previous destination.
func (l *Logger) RedirectStdLog() func() {
	return zap.RedirectStdLog(l.base)
}

// Sync flushes buffered entries. Call before exit.
func (l *Logger) Sync() {
	_ = l.base.Sync()
}

// Debug logs a message at debug level (only visible in verbose mode).
func (l *Logger) Debug(format string, args ...any) {
	l.sugar.Debugf(format, args...)
}

// Info logs a message at info level.
func (l *Logger) Info(format string, args ...any) {
	l.sugar.Infof(format, args...)
}

// Warn logs a message at warn level.
func (l *Logger) Warn(format string, args ...any) {
	l.sugar.Warnf(format, args...)
}

// Error logs a message at error level.
func (l *Logger) Error(format string, args ...any) {
	l.sugar.Errorf(format, args...)
}
