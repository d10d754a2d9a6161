// Package logger configures the process logger and hands out component
// loggers.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// EnvLevel names the environment variable consulted when no level is given.
const EnvLevel = "MENUCONF_LOG_LEVEL"

// Options configures the logger.
type Options struct {
	// Level is one of debug, info, warn, error, fatal. Empty falls back to
	// EnvLevel and then to info.
	Level string
	// File, when set, receives log output instead of Output.
	File string
	// Output defaults to stderr.
	Output io.Writer
	// Timestamps enables the time column.
	Timestamps bool
}

// Logger is the process logger. It discards output until Configure is
// called.
var Logger = log.New(io.Discard)

// Configure replaces Logger according to opts and returns a function that
// closes any opened log file.
func Configure(opts Options) (func() error, error) {
	level := opts.Level
	if level == "" {
		level = os.Getenv(EnvLevel)
	}
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	closer := func() error { return nil }
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f.Close
	}

	Logger = New(out, lvl, opts.Timestamps)
	return closer, nil
}

// New creates a logger writing to w.
func New(w io.Writer, level log.Level, timestamps bool) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: timestamps,
	})
	if !timestamps {
		l.SetTimeFormat("")
	}
	return l
}

// ParseLevel converts a level name. An empty name is info.
func ParseLevel(level string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return log.InfoLevel, nil
	case "debug":
		return log.DebugLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	case "fatal":
		return log.FatalLevel, nil
	}
	return log.InfoLevel, fmt.Errorf("unknown log level %q", level)
}

// Component returns a logger for one component, sharing Logger's output
// and level.
func Component(name string) *log.Logger {
	return Logger.WithPrefix(name)
}
