package logger

import "log/slog"

// NewNope creates a no-op logger that discards all output.
// Packages use it as the default when no logger is passed in.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
