package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Configure installs a process-wide slog default logger writing to path, or
// to stderr when path is empty. The returned closer releases the log file.
//
// Supported levels: debug, info, warn, error.
func Configure(level, path string) (io.Closer, error) {
	if path == "" {
		return nopCloser{}, ConfigureWriter(level, os.Stderr)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	if err := ConfigureWriter(level, f); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// ConfigureWriter installs a process-wide slog default logger writing to w.
func ConfigureWriter(level string, w io.Writer) error {
	parsed, err := parseLevel(level)
	if err != nil {
		return err
	}

	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: parsed})
	slog.SetDefault(slog.New(h))
	return nil
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", LevelInfo:
		return slog.LevelInfo, nil
	case LevelDebug:
		return slog.LevelDebug, nil
	case LevelWarn:
		return slog.LevelWarn, nil
	case LevelError:
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q", level)
	}
}
