// Package logging provides the shared structured logger, a thin setup
// layer over charmbracelet/log.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Field name constants for structured logging.
const (
	FieldError = "error"
	FieldPath  = "path"
	FieldDoc   = "doc"
	FieldLine  = "line"
	FieldLines = "lines"
	FieldTag   = "tag"
	FieldSize  = "size"
)

var (
	defaultOnce   sync.Once
	defaultLogger *log.Logger
)

// Default returns the process-wide logger, created on first use. The level
// comes from GLINT_LOG (debug, info, warn, error); the default is warn so
// the viewer's screen stays quiet.
func Default() *log.Logger {
	defaultOnce.Do(func() {
		defaultLogger = New(os.Stderr)
	})
	return defaultLogger
}

// New creates a logger writing to w with the environment-selected level.
func New(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           levelFromEnv(),
	})
	return logger
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

func levelFromEnv() log.Level {
	switch strings.ToLower(os.Getenv("GLINT_LOG")) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}
