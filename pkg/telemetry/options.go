package telemetry

import "log/slog"

// Option defines a functional option for configuring the Layer.
type Option func(*Layer)

// WithActivity enables capturing records and spans that carry the
// "activity" attribute.
func WithActivity() Option {
	return func(l *Layer) {
		l.activity = true
	}
}

// WithErrors enables capturing records and spans that carry the "error"
// attribute.
func WithErrors() Option {
	return func(l *Layer) {
		l.errors = true
	}
}

// WithLogger sets the logger used to report delivery failures. Defaults to
// slog.Default at construction time.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Layer) {
		if logger != nil {
			l.logger = logger
		}
	}
}
