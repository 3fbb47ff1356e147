// Package logging builds the process logger from configuration.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/1broseidon/chromeless/internal/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New returns a text logger at the configured level. When cfg.File is set
// output goes to a rotating file, otherwise to stderr. The returned close
// function flushes and closes the file sink.
func New(cfg config.LoggingConfig) (*slog.Logger, func() error, error) {
	w, closeFn, err := resolveWriter(cfg, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(cfg.Level)})
	return slog.New(handler), closeFn, nil
}

// ParseLevel maps a config level name to a slog level. Unknown names are
// treated as info.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func resolveWriter(cfg config.LoggingConfig, fallback io.Writer) (io.Writer, func() error, error) {
	path := strings.TrimSpace(cfg.File)
	if path == "" {
		return fallback, func() error { return nil }, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("logging: resolve home: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("logging: create log dir: %w", err)
	}

	rot := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}
	return rot, rot.Close, nil
}
