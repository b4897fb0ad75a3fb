package config

import (
	"os"
	"strconv"
	"time"

	"circadia/domain/rhythm"
	"circadia/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Dataset  DatasetConfig
	Analysis AnalysisConfig
	Rolling  RollingConfig
}

// DatasetConfig holds event-log input settings
type DatasetConfig struct {
	Path     string
	Timezone string
}

// AnalysisConfig holds SRM parameters
type AnalysisConfig struct {
	MinSamples    int
	ToleranceMins int
}

// RollingConfig holds rolling-window scheduler settings
type RollingConfig struct {
	Start        time.Time
	Days         int
	WindowPolicy rhythm.WindowErrorPolicy
	MaxParallel  int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Dataset: DatasetConfig{
			Path:     os.Getenv("DATASET_PATH"),
			Timezone: os.Getenv("DATASET_TIMEZONE"),
		},
		Analysis: AnalysisConfig{
			MinSamples:    envInt("SRM_MIN_SAMPLES", 3),
			ToleranceMins: envInt("SRM_TOLERANCE_MIN", 45),
		},
		Rolling: RollingConfig{
			Days:        envInt("ROLLING_DAYS", 7),
			MaxParallel: envInt("ROLLING_MAX_PARALLEL", 4),
		},
	}

	if raw := os.Getenv("ROLLING_START"); raw != "" {
		start, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, errors.WithCode(errors.CodeConfigInvalid,
				errors.Wrap(err, "failed to parse ROLLING_START"))
		}
		config.Rolling.Start = start
	}

	policy, err := rhythm.ParseWindowErrorPolicy(os.Getenv("ROLLING_WINDOW_POLICY"))
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid,
			errors.Wrap(err, "failed to parse ROLLING_WINDOW_POLICY"))
	}
	config.Rolling.WindowPolicy = policy

	if err := config.SRM().Validate(); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid,
			errors.Wrap(err, "invalid SRM configuration"))
	}
	return config, nil
}

// SRM assembles the engine-facing SRM configuration.
func (c *Config) SRM() rhythm.SRMConfig {
	cfg := rhythm.DefaultSRMConfig()
	cfg.MinSamples = c.Analysis.MinSamples
	cfg.ToleranceHours = float64(c.Analysis.ToleranceMins) / 60.0
	return cfg
}

// RollingSRM assembles the engine-facing rolling configuration.
func (c *Config) RollingSRM() rhythm.RollingConfig {
	return rhythm.RollingConfig{
		Start:         c.Rolling.Start,
		Days:          c.Rolling.Days,
		SRM:           c.SRM(),
		OnWindowError: c.Rolling.WindowPolicy,
		MaxParallel:   c.Rolling.MaxParallel,
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
