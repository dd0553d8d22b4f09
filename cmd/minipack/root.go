// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootOptions holds the global flags of one command tree.
type rootOptions struct {
	configPath string
	verbose    bool
	logLevel   string
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) (*cobra.Command, *rootOptions) {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "minipack",
		Short: "A minimal JavaScript module bundler",
		Long: TitleStyle.Render("minipack") + SubtitleStyle.Render(" - a minimal JavaScript module bundler") + `

minipack starts at an entry module, follows its import declarations, converts
every module to CommonJS and writes a single self-contained script.

` + SubtitleStyle.Render("Examples:") + `
  minipack build ./src/entry.js -o dist/bundle.js
  minipack graph --format json
  minipack run ./example/entry.js
  minipack config show`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/minipack/config.cue)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging and full error chains")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error or fatal")

	root.AddCommand(
		newBuildCommand(app, opts),
		newGraphCommand(app, opts),
		newRunCommand(app, opts),
		newConfigCommand(app, opts),
	)

	return root, opts
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the code of the failure, if any.
// It is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	root, opts := NewRootCommand(app)

	err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(app.errorHandler(opts)),
	)
	if err != nil {
		os.Exit(exitCode(err))
	}
}
