package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/natefinch/lumberjack"

	"reviewsense/internal/config"
)

// Init installs the process-wide structured logger. Output goes to stdout, or
// to a size-rotated file when cfg.File is set. The returned closer releases
// the file.
func Init(cfg config.LogConfig) (*slog.Logger, io.Closer) {
	var (
		out    io.Writer = os.Stdout
		closer io.Closer = io.NopCloser(nil)
	)

	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			Compress:   true,
		}
		out, closer = lj, lj
	}

	logger := slog.New(NewHandler(out, cfg.Level, cfg.Format))
	slog.SetDefault(logger)
	return logger, closer
}

// NewHandler builds a text or JSON handler at the given level.
// level: "debug", "info", "warn", "error" (defaults to "info")
// format: "json" or "text" (defaults to "text")
func NewHandler(w io.Writer, level, format string) slog.Handler {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}

	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
