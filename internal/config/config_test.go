// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minipack/minipack/internal/issue"
)

// isolated returns options that never touch the user's real configuration.
func isolated(t *testing.T) LoadOptions {
	t.Helper()
	return LoadOptions{
		ConfigDirPath: t.TempDir(),
		WorkDir:       t.TempDir(),
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func load(t *testing.T, opts LoadOptions) (*Config, error) {
	t.Helper()
	return NewProvider().Load(context.Background(), opts)
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()
	cfg, err := load(t, isolated(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, DefaultConfig())
	}
}

func TestLoad_UserConfigFile(t *testing.T) {
	t.Parallel()
	opts := isolated(t)
	writeFile(t, filepath.Join(opts.ConfigDirPath, ConfigFileName), `
entry: "./src/main.js"
transform: target: "es2020"
`)

	cfg, err := load(t, opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Entry != "./src/main.js" {
		t.Errorf("Entry = %q", cfg.Entry)
	}
	if cfg.Transform.Target != "es2020" {
		t.Errorf("Transform.Target = %q", cfg.Transform.Target)
	}
	if cfg.LogLevel != DefaultLogLevel || cfg.Loader.ListCacheSize != DefaultListCacheSize {
		t.Errorf("unset fields should keep defaults: %+v", cfg)
	}
}

func TestLoad_LocalFileUsedWhenNoUserFile(t *testing.T) {
	t.Parallel()
	opts := isolated(t)
	writeFile(t, filepath.Join(opts.WorkDir, LocalConfigFileName), "loader: list_cache_size: 0\n")

	path, err := NewProvider().Path(opts)
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if path != filepath.Join(opts.WorkDir, LocalConfigFileName) {
		t.Errorf("Path() = %q", path)
	}

	cfg, err := load(t, opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Loader.ListCacheSize != 0 {
		t.Errorf("ListCacheSize = %d, want 0", cfg.Loader.ListCacheSize)
	}
}

func TestLoad_UserFileWinsOverLocal(t *testing.T) {
	t.Parallel()
	opts := isolated(t)
	writeFile(t, filepath.Join(opts.ConfigDirPath, ConfigFileName), `log_level: "info"`)
	writeFile(t, filepath.Join(opts.WorkDir, LocalConfigFileName), `log_level: "error"`)

	cfg, err := load(t, opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Parallel()
	opts := isolated(t)
	writeFile(t, filepath.Join(opts.ConfigDirPath, ConfigFileName), `log_level: "info"`)
	explicit := filepath.Join(t.TempDir(), "custom.cue")
	writeFile(t, explicit, `log_level: "debug"`)
	opts.ConfigFilePath = explicit

	cfg, err := load(t, opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	t.Parallel()
	opts := isolated(t)
	opts.ConfigFilePath = filepath.Join(t.TempDir(), "missing.cue")

	_, err := load(t, opts)
	if err == nil {
		t.Fatal("expected an error")
	}
	if id, ok := issue.IssueOf(err); !ok || id != issue.ConfigLoadFailedId {
		t.Errorf("IssueOf() = (%d, %v), want ConfigLoadFailedId", id, ok)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		content string
		wantSub string
	}{
		{name: "unknown target", content: `transform: target: "es3"`, wantSub: "transform.target"},
		{name: "negative cache", content: `loader: list_cache_size: -1`, wantSub: "loader.list_cache_size"},
		{name: "unknown field", content: `entrypoint: "x"`, wantSub: "entrypoint"},
		{name: "wrong type", content: `verbose: "yes"`, wantSub: "verbose"},
		{name: "syntax", content: `entry: "x`, wantSub: ConfigFileName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			opts := isolated(t)
			writeFile(t, filepath.Join(opts.ConfigDirPath, ConfigFileName), tt.content)

			_, err := load(t, opts)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) || ae.Issue != issue.ConfigLoadFailedId {
				t.Errorf("expected ActionableError tagged ConfigLoadFailedId, got %v", err)
			}
		})
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProvider().Load(ctx, isolated(t))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	opts := isolated(t)
	writeFile(t, filepath.Join(opts.ConfigDirPath, ConfigFileName), `
log_level: "info"
transform: target: "es2018"
`)
	t.Setenv("MINIPACK_LOG_LEVEL", "error")
	t.Setenv("MINIPACK_LOADER_LIST_CACHE_SIZE", "16")
	t.Setenv("MINIPACK_VERBOSE", "true")

	cfg, err := load(t, opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, want error", cfg.LogLevel)
	}
	if cfg.Transform.Target != "es2018" {
		t.Errorf("Transform.Target = %q, want file value", cfg.Transform.Target)
	}
	if cfg.Loader.ListCacheSize != 16 || !cfg.Verbose {
		t.Errorf("env values not applied: %+v", cfg)
	}
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	t.Setenv("MINIPACK_TRANSFORM_TARGET", "es5")

	_, err := load(t, isolated(t))
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoad_Dotenv(t *testing.T) {
	opts := isolated(t)
	writeFile(t, filepath.Join(opts.WorkDir, DotenvFileName), "MINIPACK_ENTRY=./from-dotenv.js\nMINIPACK_OUTPUT=out.js\nUNRELATED=1\n")
	t.Setenv("MINIPACK_OUTPUT", "from-env.js")

	cfg, err := load(t, opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Entry != "./from-dotenv.js" {
		t.Errorf("Entry = %q, want .env value", cfg.Entry)
	}
	if cfg.Output != "from-env.js" {
		t.Errorf("Output = %q, process environment should win over .env", cfg.Output)
	}

	opts.SkipDotenv = true
	cfg, err = load(t, opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Entry != DefaultEntry {
		t.Errorf("Entry = %q, .env should be ignored", cfg.Entry)
	}
}

func TestEnvName(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"entry":                  "MINIPACK_ENTRY",
		"log_level":              "MINIPACK_LOG_LEVEL",
		"transform.target":       "MINIPACK_TRANSFORM_TARGET",
		"loader.list_cache_size": "MINIPACK_LOADER_LIST_CACHE_SIZE",
	}
	for key, want := range tests {
		if got := EnvName(key); got != want {
			t.Errorf("EnvName(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "nested", AppName)

	path, created, err := CreateDefaultConfig(dir)
	if err != nil {
		t.Fatalf("CreateDefaultConfig: %v", err)
	}
	if !created || path != filepath.Join(dir, ConfigFileName) {
		t.Fatalf("CreateDefaultConfig() = (%q, %v)", path, created)
	}

	cfg, err := load(t, LoadOptions{ConfigFilePath: path, SkipDotenv: true})
	if err != nil {
		t.Fatalf("generated file does not load: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("round trip = %+v, want defaults", cfg)
	}

	writeFile(t, path, `entry: "./kept.js"`)
	if _, created, err = CreateDefaultConfig(dir); err != nil || created {
		t.Errorf("existing file must not be overwritten (created=%v, err=%v)", created, err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "kept.js") {
		t.Error("existing file was modified")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.Entry = `./src/"quoted".js`
	cfg.Output = "dist/bundle.js"
	cfg.Verbose = true
	cfg.Transform.Target = "esnext"
	cfg.Loader.ListCacheSize = 0

	path := filepath.Join(t.TempDir(), "config.cue")
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := load(t, LoadOptions{ConfigFilePath: path, SkipDotenv: true})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *cfg {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestLoad_SkipEnv(t *testing.T) {
	opts := isolated(t)
	writeFile(t, filepath.Join(opts.ConfigDirPath, ConfigFileName), `log_level: "info"`)
	writeFile(t, filepath.Join(opts.WorkDir, DotenvFileName), "MINIPACK_ENTRY=./dotenv.js\n")
	t.Setenv("MINIPACK_LOG_LEVEL", "error")
	opts.SkipEnv = true

	cfg, err := load(t, opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "info" || cfg.Entry != DefaultEntry {
		t.Errorf("environment should be ignored: %+v", cfg)
	}
}
