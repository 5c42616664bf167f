// Package config loads injector settings from an optional YAML file and
// STEPLIB_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/sghaida/steplib/internal/logging"
	"github.com/sghaida/steplib/steps"
)

type Config struct {
	// MaxDepth bounds nesting of collaborators inside collaborators.
	MaxDepth int `yaml:"max_depth" env:"STEPLIB_MAX_DEPTH"`

	// DefaultShared applies to `steps` tags that say nothing about sharing.
	DefaultShared bool `yaml:"default_shared" env:"STEPLIB_DEFAULT_SHARED"`

	LogLevel  string `yaml:"log_level" env:"STEPLIB_LOG_LEVEL"`
	LogFormat string `yaml:"log_format" env:"STEPLIB_LOG_FORMAT"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		MaxDepth:  steps.DefaultMaxDepth,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load starts from Default, applies the YAML file at path when path is not
// empty, then environment variables, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings the injector cannot work with.
func (c Config) Validate() error {
	var errs []error
	if c.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("max_depth must be > 0, got %d", c.MaxDepth))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level %q is not a level", c.LogLevel))
	}
	return errors.Join(errs...)
}

// Level returns LogLevel as a slog level.
func (c Config) Level() slog.Level { return logging.ParseLevel(c.LogLevel) }

// Options converts the settings into injector options.
func (c Config) Options() []steps.Option {
	return []steps.Option{
		steps.WithMaxDepth(c.MaxDepth),
		steps.WithDefaultShared(c.DefaultShared),
	}
}
