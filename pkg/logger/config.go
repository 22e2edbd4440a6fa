package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config holds output settings shared by New and NewWithSentry.
type Config struct {
	Level  slog.Level `env:"LOG_LEVEL" envDefault:"INFO" yaml:"level"`
	Format string     `env:"LOG_FORMAT" envDefault:"json" yaml:"format"` // "json" or "text"

	// Output defaults to os.Stdout.
	Output io.Writer `yaml:"-"`
}

func (c Config) handler() slog.Handler {
	out := c.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: c.Level}
	if strings.EqualFold(c.Format, "text") {
		return slog.NewTextHandler(out, opts)
	}
	return slog.NewJSONHandler(out, opts)
}
