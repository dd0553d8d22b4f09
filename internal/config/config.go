// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/minipack/minipack/internal/cueutil"
	"github.com/minipack/minipack/internal/issue"
)

const (
	// AppName names the per-user config directory.
	AppName = "minipack"
	// ConfigFileName is the per-user config file.
	ConfigFileName = "config.cue"
	// LocalConfigFileName is the project config file looked up in the working directory.
	LocalConfigFileName = "minipack.cue"
	// EnvPrefix prefixes environment overrides, e.g. MINIPACK_TRANSFORM_TARGET.
	EnvPrefix = "MINIPACK"
	// DotenvFileName is read from the working directory when present.
	DotenvFileName = ".env"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the per-user configuration directory: %APPDATA%\minipack
// on Windows, ~/Library/Application Support/minipack on macOS and
// $XDG_CONFIG_HOME/minipack (default ~/.config/minipack) elsewhere.
//
//nolint:revive // ConfigDir reads better than Dir at call sites
func ConfigDir() (string, error) {
	var dir string
	switch runtime.GOOS {
	case "windows":
		dir = os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, "Library", "Application Support")
	default:
		dir = os.Getenv("XDG_CONFIG_HOME")
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			dir = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(dir, AppName), nil
}

// EnvName returns the environment variable overriding key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// ResolvePath returns the config file that Load would read, or "" when only
// defaults apply.
func ResolvePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Verify the --config path is correct").
				WithSuggestion("Run 'minipack config init' to create a default file").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	dir := opts.ConfigDirPath
	if dir == "" {
		var err error
		if dir, err = ConfigDir(); err != nil {
			return "", err
		}
	}
	if p := DefaultConfigPath(dir); fileExists(p) {
		return p, nil
	}
	if p := filepath.Join(opts.WorkDir, LocalConfigFileName); fileExists(p) {
		return p, nil
	}
	return "", nil
}

// loadWithOptions builds a fresh Viper instance per call: defaults, then the
// resolved CUE file, then environment variables and .env entries.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault("entry", defaults.Entry)
	v.SetDefault("output", defaults.Output)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("transform.target", defaults.Transform.Target)
	v.SetDefault("loader.list_cache_size", defaults.Loader.ListCacheSize)

	if !opts.SkipEnv {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	path, err := ResolvePath(opts)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Compare it against 'minipack config dump'").
				Wrap(err).
				BuildError()
		}
	}

	if err := applyDotenv(v, opts.dotenvPath()); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("load environment file").
			WithResource(opts.dotenvPath()).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Use KEY=value lines, e.g. MINIPACK_LOG_LEVEL=debug").
			Wrap(err).
			BuildError()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Check MINIPACK_* environment variables and the .env file").
			Wrap(err).
			BuildError()
	}

	return &cfg, path, nil
}

// loadCUEIntoViper validates the file against #Config and merges it.
// Fields are optional, so concreteness is not required.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	configMap, err := cueutil.DecodeMap(configSchema, data, "#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// applyDotenv sets values from a .env file for keys whose variable is not
// already in the process environment. A missing file is not an error.
func applyDotenv(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	entries, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, key := range Keys {
		name := EnvName(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if value, ok := entries[name]; ok {
			v.Set(key, value)
		}
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Save writes cfg as CUE to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfigPath returns the config file inside a config directory.
func DefaultConfigPath(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}

// CreateDefaultConfig writes the default config to dir/config.cue unless it
// already exists. It reports the path and whether a file was written.
func CreateDefaultConfig(dir string) (string, bool, error) {
	if dir == "" {
		var err error
		if dir, err = ConfigDir(); err != nil {
			return "", false, err
		}
	}
	path := DefaultConfigPath(dir)
	if fileExists(path) {
		return path, false, nil
	}
	if err := Save(DefaultConfig(), path); err != nil {
		return path, false, err
	}
	return path, true, nil
}

// GenerateCUE renders cfg in the config file format.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder
	sb.WriteString("// minipack configuration\n")
	sb.WriteString("// Environment variables (MINIPACK_ENTRY, MINIPACK_TRANSFORM_TARGET, ...) override these values.\n\n")

	fmt.Fprintf(&sb, "entry: %q\n", cfg.Entry)
	if cfg.Output != "" {
		fmt.Fprintf(&sb, "output: %q\n", cfg.Output)
	}
	fmt.Fprintf(&sb, "log_level: %q\n", cfg.LogLevel)
	fmt.Fprintf(&sb, "verbose: %v\n", cfg.Verbose)

	sb.WriteString("\ntransform: {\n")
	fmt.Fprintf(&sb, "\ttarget: %q\n", cfg.Transform.Target)
	sb.WriteString("}\n")

	sb.WriteString("\nloader: {\n")
	fmt.Fprintf(&sb, "\tlist_cache_size: %d\n", cfg.Loader.ListCacheSize)
	sb.WriteString("}\n")

	return sb.String()
}
