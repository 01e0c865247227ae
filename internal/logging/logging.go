// Package logging builds the application logger. The terminal belongs to the
// TUI, so log output goes to a file or nowhere.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

const prefix = "taskdeck"

// ParseLevel parses debug, info, warn or error.
func ParseLevel(level string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel, nil
	case "info", "":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	}
	return log.InfoLevel, fmt.Errorf("unknown log level %q", level)
}

// New returns a logger writing to w.
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Formatter:       log.TextFormatter,
		ReportTimestamp: true,
		Prefix:          prefix,
	})
}

// Open creates a logger appending to path. With an empty path logs are
// discarded. The returned closer must be closed on exit.
func Open(path, level string) (*log.Logger, io.Closer, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	if path == "" {
		return New(io.Discard, lvl), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, lvl), f, nil
}
