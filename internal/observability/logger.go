package observability

import (
	"log/slog"
	"os"
)

// NewLogger returns the process logger: JSON to stdout, debug level in dev,
// trace ids attached when a span is on the context.
func NewLogger(env string) *slog.Logger {
	level := slog.LevelInfo

	if env == "dev" {
		level = slog.LevelDebug
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	return slog.New(NewTraceHandler(handler))
}
