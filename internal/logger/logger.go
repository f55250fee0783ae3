// Package logger provides preconfigured charmbracelet/log loggers shared
// across the module's packages.
package logger

import (
	"os"

	"github.com/charmbracelet/log"
)

// Default creates a charm logger that respects the global log level.
func Default(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: false,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// NewWithLevel creates a charm logger with an explicit level and timestamps,
// for command entry points.
func NewWithLevel(prefix string, level log.Level) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           level,
	})
}
