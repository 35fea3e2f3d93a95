// Package logging wraps charmbracelet/log for the formatter's diagnostics.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

//nolint:gochecknoglobals // Shared default logger.
var (
	defaultLogger     *log.Logger
	defaultLoggerOnce sync.Once
	defaultLoggerMu   sync.RWMutex
)

func getDefaultLogger() *log.Logger {
	defaultLoggerOnce.Do(func() {
		defaultLoggerMu.Lock()
		if defaultLogger == nil {
			defaultLogger = New("info")
		}
		defaultLoggerMu.Unlock()
	})

	defaultLoggerMu.RLock()
	defer defaultLoggerMu.RUnlock()
	return defaultLogger
}

// New creates a stderr logger at the given level.
// Valid levels: "debug", "info", "warn", "error"; anything else means info.
func New(level string) *log.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(w io.Writer, level string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
	})
	logger.SetLevel(ParseLevel(level))
	return logger
}

// NewInteractive creates a logger for long-running terminal sessions such as
// watch mode: timestamps on, program prefix set.
func NewInteractive() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Prefix:          "cshtmlfmt",
		Level:           log.InfoLevel,
	})
}

// ParseLevel maps a level name to a log.Level, case-insensitively.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Default returns the package-level default logger.
func Default() *log.Logger {
	return getDefaultLogger()
}

// SetDefault replaces the package-level default logger.
func SetDefault(logger *log.Logger) {
	getDefaultLogger()

	defaultLoggerMu.Lock()
	defaultLogger = logger
	defaultLoggerMu.Unlock()
}

// SetLevel updates the level of the default logger.
func SetLevel(level string) {
	getDefaultLogger().SetLevel(ParseLevel(level))
}
