// Package logger provides a thread-safe, structured JSON logging solution.
// It supports different log levels (INFO, ERROR, WARN, DEBUG) and optional structured data.
// Entries are written as JSON lines by zerolog.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel represents the severity level of a log entry
type LogLevel string

const (
	Info  LogLevel = "INFO"  // Informational messages
	Error LogLevel = "ERROR" // Error conditions
	Warn  LogLevel = "WARN"  // Warning conditions
	Debug LogLevel = "DEBUG" // Debug-level messages
)

// Logger writes structured log entries to a file.
// It's safe for concurrent use from multiple goroutines.
type Logger struct {
	file *os.File
	zl   zerolog.Logger
	mu   sync.Mutex
}

// NewLogger creates a new logger instance that writes to the specified file.
// It creates the log directory if it doesn't exist and opens the log file in append mode.
//
// Example:
//
//	logger, err := NewLogger("/home/me/.reply/reply.log")
//	if err != nil {
//	    log.Fatalf("Failed to create logger: %v", err)
//	}
//	defer logger.Close()
func NewLogger(logPath string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	l := New(file)
	l.file = file
	return l, nil
}

// New creates a logger that writes JSON lines to w.
func New(w io.Writer) *Logger {
	zl := zerolog.New(w)
	return &Logger{zl: zl}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// Close closes the underlying log file. It's safe to call Close multiple times.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.zl = zerolog.Nop()
	return err
}

func zerologLevel(level LogLevel) zerolog.Level {
	switch level {
	case Error:
		return zerolog.ErrorLevel
	case Warn:
		return zerolog.WarnLevel
	case Debug:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

// log is the internal method that handles the actual logging.
// data is attached under the "data" key; values that cannot be encoded are dropped.
func (l *Logger) log(level LogLevel, message string, data interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ev := l.zl.WithLevel(zerologLevel(level))
	if ev == nil {
		return
	}
	ev = ev.Time("timestamp", time.Now().UTC())
	if data != nil {
		ev = ev.Interface("data", data)
	}
	ev.Msg(message)
}

// Info logs an informational message.
//
// Example:
//
//	logger.Info("generation started", map[string]interface{}{
//	    "style": "Casual",
//	})
func (l *Logger) Info(message string, data interface{}) {
	l.log(Info, message, data)
}

// Error logs an error message along with error details.
// If data is nil, a new map will be created with the error.
// If data is a map, the error will be added to it with the key "error".
func (l *Logger) Error(message string, err error, data interface{}) {
	if err == nil {
		l.log(Warn, message+" (no error provided)", data)
		return
	}

	if data == nil {
		data = make(map[string]interface{})
	}

	if dataMap, ok := data.(map[string]interface{}); ok {
		if _, exists := dataMap["error"]; !exists {
			dataMap["error"] = err.Error()
		}
	}

	l.log(Error, message, data)
}

// Warn logs a warning message.
func (l *Logger) Warn(message string, data interface{}) {
	l.log(Warn, message, data)
}

// Debug logs a debug message.
func (l *Logger) Debug(message string, data interface{}) {
	l.log(Debug, message, data)
}
