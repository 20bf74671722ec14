// Package config provides configuration loading for the vsgo command.
package config

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config represents the vsgo command configuration.
type Config struct {
	// Engine
	LibraryPath string `yaml:"library_path"`

	// Fetching
	Workers   int  `yaml:"workers"`
	Lookahead int  `yaml:"lookahead"`
	Y4M       bool `yaml:"y4m"`

	// Observability
	LogLevel    string `yaml:"log_level"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Workers:   0, // runtime.NumCPU()
		Lookahead: 4,
		Y4M:       true,
		LogLevel:  "info",
	}
}

// LoadFromFile loads configuration from a YAML file. Keys missing from the
// file keep their default values.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	var errs []error
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", c.Workers))
	}
	if c.Lookahead < 1 {
		errs = append(errs, fmt.Errorf("lookahead must be >= 1, got %d", c.Lookahead))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c Config) Level() (zapcore.Level, error) {
	return zapcore.ParseLevel(c.LogLevel)
}
