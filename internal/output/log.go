// Package output provides terminal output utilities.
package output

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// logger is the global logger instance.
var logger *log.Logger

func init() {
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
}

// LogConfig controls logger setup.
type LogConfig struct {
	// Verbose enables debug output, caller reporting and timestamps.
	Verbose bool

	// Timestamps overrides the timestamp default when non-nil. Ignored when
	// Verbose is set.
	Timestamps *bool
}

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// SetupLogging configures the logger based on cfg.
func SetupLogging(cfg LogConfig) {
	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}

	timestamps := true
	if cfg.Timestamps != nil {
		timestamps = *cfg.Timestamps
	}
	if cfg.Verbose {
		timestamps = true
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: timestamps,
		ReportCaller:    cfg.Verbose,
		TimeFormat:      "15:04:05",
	})
}

// SetOutput redirects log lines to w.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// ModuleLogger returns a logger whose lines are prefixed with name.
func ModuleLogger(name string) *log.Logger {
	return logger.WithPrefix(name)
}

// Debug logs a debug message.
func Debug(msg string, keyvals ...any) {
	logger.Debug(msg, keyvals...)
}

// Info logs an info message.
func Info(msg string, keyvals ...any) {
	logger.Info(msg, keyvals...)
}

// Warn logs a warning message.
func Warn(msg string, keyvals ...any) {
	logger.Warn(msg, keyvals...)
}

// Error logs an error message.
func Error(msg string, keyvals ...any) {
	logger.Error(msg, keyvals...)
}
