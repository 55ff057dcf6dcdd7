// Package logging provides the structured diagnostic logger used across
// tbprof. Warnings and diagnostics go to stderr so reports on stdout stay
// machine-readable. Configuration is environment-driven.
package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// NewLoggerWithWriter creates a new logger writing to w.
func NewLoggerWithWriter(w io.Writer) *log.Logger {
	lg := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		TimeFormat:      time.Kitchen,
	})

	// Set log level from environment
	switch os.Getenv("TBPROF_LOG_LEVEL") {
	case "debug":
		lg.SetLevel(log.DebugLevel)
	case "warn":
		lg.SetLevel(log.WarnLevel)
	case "error":
		lg.SetLevel(log.ErrorLevel)
	default:
		lg.SetLevel(log.InfoLevel)
	}

	prefix := os.Getenv("TBPROF_LOG_PREFIX")
	if prefix == "" {
		prefix = "tbprof"
	}

	return lg.WithPrefix(prefix)
}

// NewLogger creates a new stderr logger based on environment variables:
// TBPROF_LOG_LEVEL: debug, info, warn, error (default: info)
// TBPROF_LOG_PREFIX: prefix for log messages (default: "tbprof")
func NewLogger() *log.Logger {
	return NewLoggerWithWriter(os.Stderr)
}

var (
	defaultOnce sync.Once
	defaultLog  *log.Logger
)

// Default returns the process-wide diagnostic logger.
func Default() *log.Logger {
	defaultOnce.Do(func() {
		defaultLog = NewLogger()
	})
	return defaultLog
}

// SetDefault replaces the process-wide logger. Tests use it to capture
// diagnostics.
func SetDefault(lg *log.Logger) {
	Default()
	defaultLog = lg
}

// IsDebug returns true if debug logging is enabled
func IsDebug() bool {
	return os.Getenv("TBPROF_LOG_LEVEL") == "debug"
}
