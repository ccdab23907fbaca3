package logging

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
)

type Options struct {
	Level string
	JSON  bool
}

var def atomic.Value

func init() {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	def.Store(slog.New(h))
}

// Configure replaces the process-wide default logger.
func Configure(opts Options) {
	cfg := &slog.HandlerOptions{Level: parseLevel(opts.Level)}
	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(os.Stderr, cfg)
	} else {
		h = slog.NewTextHandler(os.Stderr, cfg)
	}
	def.Store(slog.New(h))
}

// L returns the current default logger.
func L() *slog.Logger {
	l, _ := def.Load().(*slog.Logger)
	return l
}

// With returns the default logger with extra attributes attached.
func With(args ...any) *slog.Logger {
	return L().With(args...)
}

// InitFromEnv reads VIEWSYNTH_LOG_LEVEL and VIEWSYNTH_LOG_JSON.
func InitFromEnv() {
	json := false
	if b, err := strconv.ParseBool(strings.TrimSpace(os.Getenv("VIEWSYNTH_LOG_JSON"))); err == nil {
		json = b
	}
	Configure(Options{Level: os.Getenv("VIEWSYNTH_LOG_LEVEL"), JSON: json})
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
