// Package logging builds the process-wide structured logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ericfisherdev/simple-catalog/internal/config"
)

// New returns a JSON slog logger writing to stdout, or to a rotating file when
// cfg names one. The returned writer is the same sink, for access logs; closing
// it releases the file and is a no-op for stdout.
func New(cfg config.LoggingConfig) (*slog.Logger, io.WriteCloser) {
	var out io.WriteCloser = nopCloser{os.Stdout}
	if file := cfg.GetLogFile(); file != "" {
		out = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    cfg.GetLogMaxSizeMB(),
			MaxBackups: cfg.GetLogMaxBackups(),
			MaxAge:     cfg.GetLogMaxAgeDays(),
			Compress:   true,
		}
	}
	return NewWithWriter(out, cfg.GetLogLevel()), out
}

// NewWithWriter returns a JSON slog logger writing to w at the named level.
func NewWithWriter(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
}

// ParseLevel maps debug, info, warn and error to slog levels; anything else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
