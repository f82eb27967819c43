// Package config loads registry settings from the environment.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/hupe1980/customelements/logging"
)

// Flush modes.
const (
	FlushModeImmediate = "immediate"
	FlushModeBatch     = "batch"
)

var (
	// ErrInvalidFlushMode is returned for a flush mode other than immediate or batch.
	ErrInvalidFlushMode = errors.New("config: invalid flush mode")

	// ErrInvalidLogFormat is returned for a log format other than json or text.
	ErrInvalidLogFormat = errors.New("config: invalid log format")
)

// Config holds the settings a registry can take from the environment.
type Config struct {
	PreferPerformance bool   `env:"CUSTOMELEMENTS_PREFER_PERFORMANCE" envDefault:"false"`
	FlushMode         string `env:"CUSTOMELEMENTS_FLUSH_MODE"         envDefault:"immediate"`
	LogLevel          string `env:"CUSTOMELEMENTS_LOG_LEVEL"          envDefault:"info"`
	LogFormat         string `env:"CUSTOMELEMENTS_LOG_FORMAT"         envDefault:"text"`
	Tracing           bool   `env:"CUSTOMELEMENTS_TRACING"            envDefault:"true"`

	// Level is LogLevel parsed by Load.
	Level logging.LogLevel
}

// Load reads Config from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.FlushMode {
	case FlushModeImmediate, FlushModeBatch:
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrInvalidFlushMode, cfg.FlushMode)
	}

	switch cfg.LogFormat {
	case "json", "text":
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrInvalidLogFormat, cfg.LogFormat)
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Level = level
	return cfg, nil
}

// Logger builds the structured logger described by cfg.
func (cfg Config) Logger() *logging.StructuredLogger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:     cfg.Level,
		Format:    cfg.LogFormat,
		Component: "customelements",
	})
}
