// Package logger builds charmbracelet/log loggers for the long-lived parts of wordsplit.
// All output goes to stderr: stdout carries the IPC stream in server mode.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a charm logger with the given prefix that follows the global log level.
func New(prefix string) *log.Logger {
	return NewWithConfig(prefix, log.GetLevel(), false, true, log.TextFormatter)
}

// NewWithConfig creates a charm logger with custom config.
func NewWithConfig(prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return newTo(os.Stderr, prefix, level, caller, showTimestamp, fmt)
}

func newTo(w io.Writer, prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}

// Discard returns a logger that drops everything, for tests and library callers without one.
func Discard() *log.Logger {
	return newTo(io.Discard, "", log.FatalLevel, false, false, log.TextFormatter)
}
