// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"path/filepath"
)

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific config file when set.
	ConfigFilePath string
	// ConfigDirPath overrides the per-user config directory when set.
	ConfigDirPath string
	// WorkDir is where minipack.cue and .env are looked up. Empty means
	// the process working directory.
	WorkDir string
	// SkipDotenv disables reading the .env file.
	SkipDotenv bool
	// SkipEnv ignores MINIPACK_* variables, leaving file values and defaults.
	SkipEnv bool
}

func (o LoadOptions) dotenvPath() string {
	if o.SkipDotenv || o.SkipEnv {
		return ""
	}
	return filepath.Join(o.WorkDir, DotenvFileName)
}

// Provider loads configuration from explicit options.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, error)
	// Path returns the config file Load would read, or "" for defaults only.
	Path(opts LoadOptions) (string, error)
}

type fileProvider struct{}

// NewProvider creates a configuration provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (p *fileProvider) Path(opts LoadOptions) (string, error) {
	return ResolvePath(opts)
}
