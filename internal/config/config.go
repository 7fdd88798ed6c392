// Package config loads and validates the scheduler's configuration: the
// five positive integers that size it (result buses, three
// functional-unit counts, fetch width) plus the CLI-facing trace path and
// log level.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds every knob the simulator needs to build a scheduler and
// run it to completion.
type Config struct {
	// ResultBuses is R: the number of result buses available for
	// completion broadcast each cycle. Default 8.
	ResultBuses int `yaml:"resultBuses"`

	// FUType0/1/2 are K0/K1/K2: functional-unit counts per operation
	// class. Defaults 1/2/3.
	FUType0 int `yaml:"fuType0"`
	FUType1 int `yaml:"fuType1"`
	FUType2 int `yaml:"fuType2"`

	// FetchWidth is F: the maximum instructions fetched per cycle.
	// Default 4.
	FetchWidth int `yaml:"fetchWidth"`

	// TracePath is the trace file to read; empty means stdin.
	TracePath string `yaml:"tracePath"`

	// LogLevel is a logrus level name ("debug", "info", "warn", "error").
	LogLevel string `yaml:"logLevel"`
}

// RSCapacity derives the reservation-station bound 2*(K0+K1+K2).
func (c *Config) RSCapacity() int {
	return 2 * (c.FUType0 + c.FUType1 + c.FUType2)
}

// LoadConfig reads and validates a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config: read file")
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "config: parse yaml")
	}

	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "config: invalid configuration")
	}

	return cfg, nil
}

// validateConfig rejects any non-positive value among the five scheduler
// knobs, all of which must be positive integers.
func validateConfig(cfg *Config) error {
	fields := []struct {
		name  string
		value int
	}{
		{"resultBuses", cfg.ResultBuses},
		{"fuType0", cfg.FUType0},
		{"fuType1", cfg.FUType1},
		{"fuType2", cfg.FUType2},
		{"fetchWidth", cfg.FetchWidth},
	}

	for _, f := range fields {
		if f.value <= 0 {
			return errors.Errorf("%s must be positive, got %d", f.name, f.value)
		}
	}

	return nil
}

// DefaultConfig returns the baseline configuration: R=8, K0=1, K1=2,
// K2=3, F=4.
func DefaultConfig() *Config {
	return &Config{
		ResultBuses: 8,
		FUType0:     1,
		FUType1:     2,
		FUType2:     3,
		FetchWidth:  4,
		LogLevel:    "info",
	}
}
