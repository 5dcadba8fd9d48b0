package config

import (
	"io"
	"log/slog"
	"os"
)

// InitLogger installs the default slog logger: readable text with debug
// level in development, JSON at info level everywhere else.
func InitLogger(env string) *slog.Logger {
	return initLogger(os.Stdout, env)
}

func initLogger(w io.Writer, env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if env == "development" {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	logger := slog.New(handler).With("service", "sangkumfund-console")
	slog.SetDefault(logger)
	return logger
}
