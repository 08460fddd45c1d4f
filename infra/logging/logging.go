// Package logging is the process-wide structured logger. The TUI owns the
// terminal, so output goes to a file; headless commands may log to stderr.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

var logger *log.Logger

// Init opens path for appending and sets the level. An empty path or an
// unwritable file falls back to stderr.
func Init(path, level string) {
	var w io.Writer = os.Stderr
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err == nil {
			if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600); err == nil {
				w = f
			}
		}
	}
	SetOutput(w, level)
}

// SetOutput points the logger at w.
func SetOutput(w io.Writer, level string) {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "cancelme",
	})
	l.SetLevel(ParseLevel(level))
	logger = l
}

// ParseLevel maps a config string to a level, defaulting to info.
func ParseLevel(s string) log.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	}
	return log.InfoLevel
}

func Debug(msg string, args ...interface{}) {
	if logger != nil {
		logger.Debug(msg, args...)
	}
}

func Info(msg string, args ...interface{}) {
	if logger != nil {
		logger.Info(msg, args...)
	}
}

func Warn(msg string, args ...interface{}) {
	if logger != nil {
		logger.Warn(msg, args...)
	}
}

func Error(msg string, args ...interface{}) {
	if logger != nil {
		logger.Error(msg, args...)
	}
}

// Logger returns the underlying logger, or nil before Init.
func Logger() *log.Logger {
	return logger
}
