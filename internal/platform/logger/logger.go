package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger. JSON output so log aggregation gets
// structured records without a parsing step.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
