package store

import "log/slog"

// Option configures a backend.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for skipped documents and backend events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
