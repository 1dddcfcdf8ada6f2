package observability

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns the process logger: JSON on stdout, DEBUG only in dev.
func NewLogger(env string) *slog.Logger {
	return newLogger(os.Stdout, env)
}

func newLogger(w io.Writer, env string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if env == "dev" {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	}

	return slog.New(NewTraceHandler(slog.NewJSONHandler(w, opts))).With("env", env)
}
