// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
)

const (
	DefaultEntry         = "./example/entry.js"
	DefaultLogLevel      = "warn"
	DefaultTarget        = "es2017"
	DefaultListCacheSize = 128
)

var (
	// ErrInvalidConfig is wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrUnknownKey is returned by Set for keys outside Keys.
	ErrUnknownKey = errors.New("unknown configuration key")

	// LogLevels lists the accepted log_level values.
	LogLevels = []string{"debug", "info", "warn", "error", "fatal"}
	// Targets lists the accepted transform.target values.
	Targets = []string{"es2015", "es2016", "es2017", "es2018", "es2019", "es2020", "es2021", "es2022", "esnext"}
	// Keys lists every configuration key in dotted form.
	Keys = []string{"entry", "output", "log_level", "verbose", "transform.target", "loader.list_cache_size"}
)

type (
	// Config holds all settings.
	Config struct {
		Entry     string          `json:"entry" mapstructure:"entry"`
		Output    string          `json:"output" mapstructure:"output"`
		LogLevel  string          `json:"log_level" mapstructure:"log_level"`
		Verbose   bool            `json:"verbose" mapstructure:"verbose"`
		Transform TransformConfig `json:"transform" mapstructure:"transform"`
		Loader    LoaderConfig    `json:"loader" mapstructure:"loader"`
	}

	// TransformConfig configures the ESM to CommonJS conversion.
	TransformConfig struct {
		Target string `json:"target" mapstructure:"target"`
	}

	// LoaderConfig configures module file lookup.
	LoaderConfig struct {
		ListCacheSize int `json:"list_cache_size" mapstructure:"list_cache_size"`
	}

	// InvalidConfigError reports a field holding an unaccepted value.
	InvalidConfigError struct {
		Key    string
		Value  string
		Reason string
	}
)

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		Entry:     DefaultEntry,
		LogLevel:  DefaultLogLevel,
		Transform: TransformConfig{Target: DefaultTarget},
		Loader:    LoaderConfig{ListCacheSize: DefaultListCacheSize},
	}
}

// Validate checks the values the schema constrains. Environment overrides
// bypass the schema, so loading validates again after merging.
func (c *Config) Validate() error {
	if c.Entry == "" {
		return &InvalidConfigError{Key: "entry", Reason: "must not be empty"}
	}
	if !slices.Contains(LogLevels, c.LogLevel) {
		return &InvalidConfigError{Key: "log_level", Value: c.LogLevel, Reason: fmt.Sprintf("must be one of %v", LogLevels)}
	}
	if !slices.Contains(Targets, c.Transform.Target) {
		return &InvalidConfigError{Key: "transform.target", Value: c.Transform.Target, Reason: fmt.Sprintf("must be one of %v", Targets)}
	}
	if c.Loader.ListCacheSize < 0 {
		return &InvalidConfigError{Key: "loader.list_cache_size", Value: strconv.Itoa(c.Loader.ListCacheSize), Reason: "must not be negative"}
	}
	return nil
}

// Set assigns a value by dotted key, parsing booleans and integers.
func (c *Config) Set(key, value string) error {
	switch key {
	case "entry":
		c.Entry = value
	case "output":
		c.Output = value
	case "log_level":
		c.LogLevel = value
	case "verbose":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return &InvalidConfigError{Key: key, Value: value, Reason: "must be true or false"}
		}
		c.Verbose = b
	case "transform.target":
		c.Transform.Target = value
	case "loader.list_cache_size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return &InvalidConfigError{Key: key, Value: value, Reason: "must be an integer"}
		}
		c.Loader.ListCacheSize = n
	default:
		return fmt.Errorf("%w: %s (valid keys: %v)", ErrUnknownKey, key, Keys)
	}
	return c.Validate()
}

func (e *InvalidConfigError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Key, e.Value, e.Reason)
}

func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }
