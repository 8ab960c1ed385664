// Package logging builds the zerolog loggers used across walnut.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const permission = 0664

// Config selects the level, format and destination of log output.
type Config struct {
	Level  string
	Format string // "json" or "console"
	File   string // empty means Output
	Output io.Writer
}

// Logger is a zerolog.Logger with the file it writes to, if any.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New builds a logger from cfg. Close releases the log file.
func New(cfg Config) (*Logger, error) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	l := &Logger{}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.file = f
		out = zerolog.SyncWriter(f)
	}

	switch cfg.Format {
	case "", "json":
	case "console":
		out = zerolog.ConsoleWriter{Out: out, NoColor: cfg.File != ""}
	default:
		l.Close()
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	l.Logger = zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Timestamp().Logger()
	return l, nil
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// ParseLevel parses a level name. Unknown names mean info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Component returns a child logger tagged with a component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}
