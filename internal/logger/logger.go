package logger

import (
	"log/slog"
	"os"
)

// New creates the JSON slog.Logger shared by the storefront process.
func New() *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(handler).With(slog.String("service", "storefront"))
}
