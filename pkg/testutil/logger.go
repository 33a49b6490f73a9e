package testutil

import (
	"io"
	"log/slog"
)

// NewLogger returns a logger that discards all output, keeping test logs
// quiet.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
