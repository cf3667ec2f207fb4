package parser

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// LogLevel controls decoder logging verbosity.
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogWarn
	LogOff
)

// String returns the level name.
func (l LogLevel) String() string {
	switch l {
	case LogDebug:
		return "DEBUG"
	case LogWarn:
		return "WARN"
	case LogOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel maps a config string to a level; unknown strings mean Warn.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LogDebug
	case "warn":
		return LogWarn
	case "off":
		return LogOff
	default:
		return LogWarn
	}
}

// Logger is the minimal leveled logger the decoders use for skip/warn
// messages. Decoding must keep going past unknown record tags, so those
// events are logged here instead of failing the parse.
type Logger struct {
	mu     sync.Mutex
	writer io.Writer
	level  LogLevel
}

// NewLogger creates a logger writing to w at the given level.
func NewLogger(w io.Writer, level LogLevel) *Logger {
	return &Logger{writer: w, level: level}
}

func (l *Logger) logf(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level || l.writer == nil {
		return
	}
	fmt.Fprintf(l.writer, "[%s] %s\n", level, fmt.Sprintf(format, args...))
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.logf(LogDebug, format, args...)
}

// Warnf logs at warn level.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.logf(LogWarn, format, args...)
}

var defaultLogger = NewLogger(os.Stderr, LogWarn)

// SetLogLevel sets the default logger's level.
func SetLogLevel(level LogLevel) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.level = level
}

// SetLogOutput redirects the default logger.
func SetLogOutput(w io.Writer) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.writer = w
}

// Debugf logs to the default logger at debug level.
func Debugf(format string, args ...interface{}) {
	defaultLogger.Debugf(format, args...)
}

// Warnf logs to the default logger at warn level.
func Warnf(format string, args ...interface{}) {
	defaultLogger.Warnf(format, args...)
}
