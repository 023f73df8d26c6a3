package slogobs

import (
	"io"
	"log/slog"
	"os"

	"github.com/leofalp/reago/providers/observability"
)

// Option configures New.
type Option func(*settings)

type settings struct {
	format Format
	level  slog.Level
	output io.Writer
	colors ColorMode
	attrs  []observability.Attribute
	// logger replaces the built-in Handler entirely when set.
	logger *slog.Logger
}

// WithFormat selects compact, pretty or JSON records.
func WithFormat(format Format) Option {
	return func(s *settings) { s.format = format }
}

// WithLevel sets the minimum level. Use LevelTrace to see step-by-step
// controller records.
func WithLevel(level slog.Level) Option {
	return func(s *settings) { s.level = level }
}

// WithOutput sets the destination writer. The default is os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(s *settings) {
		if w != nil {
			s.output = w
		}
	}
}

// WithColors forces level colors on or off. Without it colors follow
// whether the output is a terminal.
func WithColors(enabled bool) Option {
	return func(s *settings) {
		if enabled {
			s.colors = ColorAlways
		} else {
			s.colors = ColorNever
		}
	}
}

// WithAttrs adds attributes to every record, e.g. a service or run name.
func WithAttrs(attrs ...observability.Attribute) Option {
	return func(s *settings) { s.attrs = append(s.attrs, attrs...) }
}

// WithLogger logs through an existing slog.Logger. Format, level, output
// and color options are ignored; WithAttrs still applies.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// resolve applies opts over the environment-derived defaults.
func resolve(opts []Option) settings {
	s := settings{
		format: GetFormatFromEnv(),
		level:  GetLogLevelFromEnv(),
		output: os.Stdout,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
