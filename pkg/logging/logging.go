// Package logging provides the logging interface used across the toolkit.
// Implement Logger to plug in a custom backend (e.g., logrus, zap).
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger is the logging interface used by the fetcher, store, and CLI.
type Logger interface {
	// Debug logs a debug message
	Debug(format string, args ...interface{})

	// Info logs an info message
	Info(format string, args ...interface{})

	// Warn logs a warning message
	Warn(format string, args ...interface{})

	// Error logs an error message
	Error(format string, args ...interface{})
}

// Level represents the logging level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelSilent
)

// LevelFromString parses a level name; unknown names default to info.
func LevelFromString(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "warn", "WARN", "warning":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	case "silent", "SILENT", "off":
		return LevelSilent
	default:
		return LevelInfo
	}
}

// StdLogger is the default Logger implementation on the standard library.
type StdLogger struct {
	level  Level
	prefix string
	logger *log.Logger
}

// New creates a standard-library backed logger writing to stderr.
func New(prefix string, level Level) *StdLogger {
	return &StdLogger{
		level:  level,
		prefix: prefix,
		logger: log.New(os.Stderr, "", log.LstdFlags),
	}
}

// SetOutput sets the output writer.
func (l *StdLogger) SetOutput(w io.Writer) {
	l.logger.SetOutput(w)
}

// SetLevel sets the log level.
func (l *StdLogger) SetLevel(level Level) {
	l.level = level
}

// Debug logs a debug message.
func (l *StdLogger) Debug(format string, args ...interface{}) {
	if l.level <= LevelDebug {
		l.log("DEBUG", format, args...)
	}
}

// Info logs an info message.
func (l *StdLogger) Info(format string, args ...interface{}) {
	if l.level <= LevelInfo {
		l.log("INFO", format, args...)
	}
}

// Warn logs a warning message.
func (l *StdLogger) Warn(format string, args ...interface{}) {
	if l.level <= LevelWarn {
		l.log("WARN", format, args...)
	}
}

// Error logs an error message.
func (l *StdLogger) Error(format string, args ...interface{}) {
	if l.level <= LevelError {
		l.log("ERROR", format, args...)
	}
}

func (l *StdLogger) log(level, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		l.logger.Printf("[%s] [%s] %s", l.prefix, level, msg)
	} else {
		l.logger.Printf("[%s] %s", level, msg)
	}
}

// Nop is a no-op logger that discards all messages.
type Nop struct{}

func (Nop) Debug(format string, args ...interface{}) {}
func (Nop) Info(format string, args ...interface{})  {}
func (Nop) Warn(format string, args ...interface{})  {}
func (Nop) Error(format string, args ...interface{}) {}
