package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if SEKKA_CONFIG is set
//  3. env (prefix SEKKA_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("SEKKA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Env keys like SEKKA_MODELS_DIR map to models_dir; underscores are
	// preserved to match the koanf tags.
	envProvider := env.Provider("SEKKA_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "sekka_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.ModelsDir == "":
		return fmt.Errorf("%w: models_dir must not be empty", ErrInvalidConfig)
	case c.TestDays <= 0:
		return fmt.Errorf("%w: test_days must be positive", ErrInvalidConfig)
	case c.MaxFutureHours <= 0:
		return fmt.Errorf("%w: max_future_hours must be positive", ErrInvalidConfig)
	case c.CalibrationFactor <= 0:
		return fmt.Errorf("%w: calibration_factor must be positive", ErrInvalidConfig)
	case c.YMax <= c.YMin:
		return fmt.Errorf("%w: y_max must exceed y_min", ErrInvalidConfig)
	case c.TrainerWorkers <= 0:
		return fmt.Errorf("%w: trainer_workers must be positive", ErrInvalidConfig)
	}
	return nil
}
