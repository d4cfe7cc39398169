// internal/repository/options.go
package repository

import (
	"io"

	"github.com/sirupsen/logrus"
)

type repoOptions struct {
	clock  Clock
	logger logrus.FieldLogger
}

// Option configures a repository
type Option func(*repoOptions)

// WithClock overrides the time source used for CreatedAt/UpdatedAt
func WithClock(clock Clock) Option {
	return func(o *repoOptions) {
		o.clock = clock
	}
}

// WithLogger sets the logger used for backend failures
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *repoOptions) {
		o.logger = logger
	}
}

func buildOptions(opts []Option) repoOptions {
	o := repoOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		o.logger = discard
	}
	return o
}
