package app

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the process logger from cfg. When LogFile is set, records
// are also written to a rotating file.
func NewLogger(cfg Config) *slog.Logger {
	return newLogger(cfg, os.Stdout)
}

func newLogger(cfg Config, stdout io.Writer) *slog.Logger {
	out := stdout
	if file := strings.TrimSpace(cfg.LogFile); file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err == nil {
			out = io.MultiWriter(stdout, &lumberjack.Logger{
				Filename:   file,
				MaxSize:    cfg.LogFileMaxMB,
				MaxBackups: cfg.LogFileMaxBackups,
				MaxAge:     cfg.LogFileMaxAgeDays,
				Compress:   true,
			})
		}
	}

	options := &slog.HandlerOptions{Level: ParseLogLevel(cfg.LogLevel)}
	if strings.ToLower(strings.TrimSpace(cfg.LogFormat)) == "json" {
		return slog.New(slog.NewJSONHandler(out, options))
	}
	return slog.New(slog.NewTextHandler(out, options))
}

func ParseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
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
