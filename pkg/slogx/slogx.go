// Package slogx builds the service logger and threads it through request
// contexts. Components log through a *slog.Logger obtained either at
// construction or via FromContext.
package slogx

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects the handler, the minimum level, and the base attributes
// stamped on every record.
type Config struct {
	Service string
	Version string
	Env     string // "dev" enables source locations
	Level   string // debug, info, warn, error
	Format  string // json (default) or text
}

// New builds the logger described by cfg, writing to stdout, and installs
// it as the process default so code without a context still logs
// consistently.
func New(cfg Config) *slog.Logger {
	logger := NewWithWriter(os.Stdout, cfg)
	slog.SetDefault(logger)
	return logger
}

// NewWithWriter is New with an explicit destination and no side effect on
// the process default.
func NewWithWriter(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: cfg.Env == "dev",
		Level:     parseLevel(cfg.Level),
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With(
		"service", cfg.Service,
		"version", cfg.Version,
		"env", cfg.Env,
	)
}

var levelNames = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// parseLevel is forgiving: anything unrecognized logs at info.
func parseLevel(lvl string) slog.Level {
	if l, ok := levelNames[strings.ToLower(lvl)]; ok {
		return l
	}
	return slog.LevelInfo
}
