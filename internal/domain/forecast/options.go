package forecast

import (
	"github.com/sekka-transit/sekka/internal/domain/features"
	"github.com/sekka-transit/sekka/internal/domain/types"
)

// Seasonality is one periodic component approximated by Fourier terms.
type Seasonality struct {
	Name         string  `json:"name"`
	PeriodHours  float64 `json:"period_hours"`
	FourierOrder int     `json:"fourier_order"`
}

// Built-in seasonal periods in hours.
const (
	HoursPerDay  = 24.0
	HoursPerWeek = 24.0 * 7
	HoursPerYear = 24.0 * 365.25
)

// Default prior scales matching the tuned pipeline configuration.
const (
	DefaultChangepointPriorScale = 0.5
	DefaultSeasonalityPriorScale = 10.0
)

// Options configures an unfit model.
type Options struct {
	// SeasonalityMode is additive; the multiplicative mode is not
	// implemented by the ridge backend.
	SeasonalityMode string `json:"seasonality_mode"`

	// Seasonalities lists every enabled seasonal block, built-in and extra.
	Seasonalities []Seasonality `json:"seasonalities"`

	// Regressors are the external predictor columns, in frame column order.
	Regressors []string `json:"regressors"`

	ChangepointPriorScale float64 `json:"changepoint_prior_scale"`
	SeasonalityPriorScale float64 `json:"seasonality_prior_scale"`

	// Holidays, when non-nil, adds a national-holiday effect column.
	// Probed once at build; a missing calendar is silently skipped.
	Holidays features.HolidayCalendar `json:"-"`

	// HolidayEffect records whether the holiday column is part of the
	// design matrix; kept in the artifact so decoding restores the shape.
	HolidayEffect bool `json:"holiday_effect"`
}

// Option mutates model options.
type Option func(*Options)

// WithExtraSeasonality appends an explicit seasonal block.
func WithExtraSeasonality(name string, periodHours float64, order int) Option {
	return func(o *Options) {
		o.Seasonalities = append(o.Seasonalities, Seasonality{Name: name, PeriodHours: periodHours, FourierOrder: order})
	}
}

// WithChangepointPriorScale tunes how readily the trend bends.
func WithChangepointPriorScale(scale float64) Option {
	return func(o *Options) {
		if scale > 0 {
			o.ChangepointPriorScale = scale
		}
	}
}

// WithSeasonalityPriorScale tunes the strength of seasonal terms.
func WithSeasonalityPriorScale(scale float64) Option {
	return func(o *Options) {
		if scale > 0 {
			o.SeasonalityPriorScale = scale
		}
	}
}

// WithRegressors registers the external predictor columns.
func WithRegressors(names []string) Option {
	return func(o *Options) {
		o.Regressors = names
	}
}

// WithCountryHolidays registers national holiday effects. A nil calendar
// leaves the model without a holiday column; no error is raised.
func WithCountryHolidays(calendar features.HolidayCalendar) Option {
	return func(o *Options) {
		o.Holidays = calendar
		o.HolidayEffect = calendar != nil
	}
}

// NewOptions assembles the base model configuration: additive mode, the
// built-in yearly/weekly/daily blocks, the five fixed regressors, and the
// tuned prior scales.
func NewOptions(opts ...Option) *Options {
	o := &Options{
		SeasonalityMode: "additive",
		Seasonalities: []Seasonality{
			{Name: "yearly", PeriodHours: HoursPerYear, FourierOrder: 10},
			{Name: "weekly", PeriodHours: HoursPerWeek, FourierOrder: 3},
			{Name: "daily", PeriodHours: HoursPerDay, FourierOrder: 4},
		},
		Regressors:            types.RegressorNames(),
		ChangepointPriorScale: DefaultChangepointPriorScale,
		SeasonalityPriorScale: DefaultSeasonalityPriorScale,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewCongestionOptions is NewOptions plus the two explicit seasonal terms
// used by the congestion pipeline.
func NewCongestionOptions(opts ...Option) *Options {
	base := []Option{
		WithExtraSeasonality("daily_fine", HoursPerDay, 15),
		WithExtraSeasonality("weekly_fine", HoursPerWeek, 10),
	}
	return NewOptions(append(base, opts...)...)
}
