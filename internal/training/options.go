package training

import (
	"github.com/sekka-transit/sekka/internal/domain/forecast"
	"github.com/sekka-transit/sekka/pkg/logger"
)

// Option applies a configuration option to the Trainer.
type Option func(*Trainer)

// WithEngine selects the fitting backend by name. Unknown names resolve to
// the default engine; the choice is made once here, not per route.
func WithEngine(name string) Option {
	return func(t *Trainer) {
		t.factory, t.engineName = forecast.ResolveEngine(name)
	}
}

// WithModelOptions sets the builder invoked for each route's fresh model
// configuration.
func WithModelOptions(build func() *forecast.Options) Option {
	return func(t *Trainer) {
		if build != nil {
			t.buildOpts = build
		}
	}
}

// WithTestDays sets the evaluation holdout length.
func WithTestDays(days int) Option {
	return func(t *Trainer) {
		if days > 0 {
			t.testDays = days
		}
	}
}

// WithBounds sets the congestion level bounds used when clipping
// evaluation predictions.
func WithBounds(yMin, yMax float64) Option {
	return func(t *Trainer) {
		if yMax > yMin {
			t.yMin, t.yMax = yMin, yMax
		}
	}
}

// WithLogger sets a custom logger for the trainer.
func WithLogger(log logger.Logger) Option {
	return func(t *Trainer) {
		if log != nil {
			t.log = log
		}
	}
}
