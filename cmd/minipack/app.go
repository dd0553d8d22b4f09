// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/minipack/minipack/internal/asset"
	"github.com/minipack/minipack/internal/bundle"
	"github.com/minipack/minipack/internal/config"
	"github.com/minipack/minipack/internal/graph"
	"github.com/minipack/minipack/internal/loader"
)

type (
	// App wires CLI services and shared dependencies. All Cobra handlers
	// receive an App and reach configuration and the filesystem through it.
	App struct {
		Config     ConfigProvider
		Fs         afero.Fs
		stdout     io.Writer
		stderr     io.Writer
		configDir  string
		workDir    string
		guideStyle string
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		// Fs holds module sources and receives bundle output.
		Fs     afero.Fs
		Stdout io.Writer
		Stderr io.Writer
		// ConfigDir overrides the per-user configuration directory.
		ConfigDir string
		// WorkDir is where relative entries, minipack.cue and .env are resolved.
		WorkDir string
		// GuideStyle is the glamour style for issue guides. Defaults to "dark".
		GuideStyle string
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
		Path(opts config.LoadOptions) (string, error)
	}

	// session is the state of one command invocation: merged settings and
	// the logger built from them.
	session struct {
		cfg     *config.Config
		logger  *log.Logger
		fs      afero.Fs
		workDir string
	}
)

// NewApp creates the composition root.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:     deps.Config,
		Fs:         deps.Fs,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
		configDir:  deps.ConfigDir,
		workDir:    deps.WorkDir,
		guideStyle: deps.GuideStyle,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.Fs == nil {
		app.Fs = afero.NewOsFs()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	if app.guideStyle == "" {
		app.guideStyle = "dark"
	}
	return app
}

func (a *App) loadOptions(opts *rootOptions) config.LoadOptions {
	return config.LoadOptions{
		ConfigFilePath: opts.configPath,
		ConfigDirPath:  a.configDir,
		WorkDir:        a.workDir,
	}
}

// newSession loads configuration and applies global flag overrides, which
// take precedence over environment and file values.
func (a *App) newSession(ctx context.Context, opts *rootOptions) (*session, error) {
	cfg, err := a.Config.Load(ctx, a.loadOptions(opts))
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Err: err}
	}
	if opts.verbose {
		cfg.Verbose = true
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, describe("apply flags", "", err)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, describe("apply flags", "", err)
	}
	if cfg.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(a.stderr, log.Options{
		Prefix: "minipack",
		Level:  level,
	})

	return &session{cfg: cfg, logger: logger, fs: a.Fs, workDir: a.workDir}, nil
}

// path resolves a command-line or configured path against the work dir.
func (s *session) path(p string) string {
	if p == "" || s.workDir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.workDir, p)
}

// entry returns the entry module: the positional argument when given,
// otherwise the configured one.
func (s *session) entry(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return s.path(args[0])
	}
	return s.path(s.cfg.Entry)
}

// buildGraph runs the loader, asset and graph builders with the session's
// settings. A fresh listing cache is used for each build.
func (s *session) buildGraph(ctx context.Context, entry string) (*graph.Graph, error) {
	lister, err := loader.NewCachedLister(loader.NewFSLister(s.fs), s.cfg.Loader.ListCacheSize, s.logger)
	if err != nil {
		return nil, fmt.Errorf("create listing cache: %w", err)
	}
	transformer, err := asset.NewESBuildTransformer(s.cfg.Transform.Target)
	if err != nil {
		return nil, err
	}

	src := loader.New(s.fs, loader.WithLister(lister), loader.WithLogger(s.logger))
	assets := asset.NewBuilder(src, asset.WithTransformer(transformer), asset.WithLogger(s.logger))
	return graph.NewBuilder(assets, graph.WithLogger(s.logger)).Build(ctx, entry)
}

// bundle builds the graph for entry and emits the bundle source.
func (s *session) bundle(ctx context.Context, entry string) (string, error) {
	g, err := s.buildGraph(ctx, entry)
	if err != nil {
		return "", describe("build bundle", entry, err)
	}
	code, err := bundle.Emit(g)
	if err != nil {
		return "", describe("emit bundle", entry, err)
	}
	s.logger.Debug("bundle emitted", "entry", entry, "assets", g.Len(), "bytes", len(code))
	return code, nil
}
