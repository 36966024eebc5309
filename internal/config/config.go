// Package config defines service configuration and loading.
//
// Conventions follow the rest of the codebase: defaults come from New,
// Load layers an optional YAML file and SEKKA_-prefixed env vars on top,
// and external errors are wrapped with this package's sentinels.
package config

import "runtime"

// Config contains process configuration for both the training pipeline and
// the forecast API.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// DataCSV is the historical congestion dataset.
	DataCSV string `koanf:"data_csv"`

	// ModelsDir holds the per-route model and metadata artifacts.
	ModelsDir string `koanf:"models_dir"`

	// ReportPath is where the training report CSV is written.
	ReportPath string `koanf:"report_path"`

	// TestDays is the evaluation holdout measured back from the last
	// observation of each route.
	TestDays int `koanf:"test_days"`

	// MaxFutureHours caps the forecast horizon per request.
	MaxFutureHours int `koanf:"max_future_hours"`

	// CalibrationFactor compensates systematic under-prediction of peaks.
	CalibrationFactor float64 `koanf:"calibration_factor"`

	// YMin and YMax bound every congestion value.
	YMin float64 `koanf:"y_min"`
	YMax float64 `koanf:"y_max"`

	// Model priors and explicit seasonal term orders.
	ChangepointPriorScale float64 `koanf:"changepoint_prior_scale"`
	SeasonalityPriorScale float64 `koanf:"seasonality_prior_scale"`
	DailyFourier          int     `koanf:"daily_fourier"`
	WeeklyFourier         int     `koanf:"weekly_fourier"`

	// ModelEngine selects the fitting backend; unknown names fall back to
	// the default engine.
	ModelEngine string `koanf:"model_engine"`

	// HolidayCountry selects the national holiday calendar.
	HolidayCountry string `koanf:"holiday_country"`

	// TrainerWorkers bounds concurrent per-route training.
	TrainerWorkers int `koanf:"trainer_workers"`

	// ModelCacheSize bounds the in-memory artifact cache on the serving
	// path.
	ModelCacheSize int `koanf:"model_cache_size"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":8000",
		DataCSV:               "data/congestion.csv",
		ModelsDir:             "models",
		ReportPath:            "training_report.csv",
		TestDays:              30,
		MaxFutureHours:        336,
		CalibrationFactor:     1.25,
		YMin:                  0,
		YMax:                  10,
		ChangepointPriorScale: 0.5,
		SeasonalityPriorScale: 10.0,
		DailyFourier:          15,
		WeeklyFourier:         10,
		ModelEngine:           "ridge",
		HolidayCountry:        "EG",
		TrainerWorkers:        runtime.NumCPU(),
		ModelCacheSize:        256,
	}
}
