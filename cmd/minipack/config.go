// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/minipack/minipack/internal/config"
)

// newConfigCommand creates the `minipack config` command tree.
func newConfigCommand(app *App, opts *rootOptions) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage minipack configuration",
		Long: `Manage minipack configuration.

The per-user file is stored in:
  - Linux: ~/.config/minipack/config.cue
  - macOS: ~/Library/Application Support/minipack/config.cue
  - Windows: %APPDATA%\minipack\config.cue

A minipack.cue in the working directory is used when the per-user file does
not exist. MINIPACK_* environment variables override file values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd, app, opts)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := app.Config.Path(app.loadOptions(opts))
			if err != nil {
				return &ExitError{Code: ExitUsage, Err: err}
			}
			if path == "" {
				dir, err := app.userConfigDir()
				if err != nil {
					return describe("resolve config directory", "", err)
				}
				fmt.Fprintf(app.stdout, "%s (not created, using defaults)\n", dir)
				return nil
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := app.userConfigDir()
			if err != nil {
				return describe("resolve config directory", "", err)
			}
			path, created, err := config.CreateDefaultConfig(dir)
			if err != nil {
				return describe("create config", path, err)
			}
			if !created {
				fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
				return nil
			}
			fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value in the configuration file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd, app, opts, args[0], args[1])
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), app.loadOptions(opts))
			if err != nil {
				return &ExitError{Code: ExitUsage, Err: err}
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

// userConfigDir is the directory `config init` writes to.
func (a *App) userConfigDir() (string, error) {
	if a.configDir != "" {
		return a.configDir, nil
	}
	return config.ConfigDir()
}

func showConfig(cmd *cobra.Command, app *App, opts *rootOptions) error {
	loadOpts := app.loadOptions(opts)
	cfg, err := app.Config.Load(cmd.Context(), loadOpts)
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}
	path, err := app.Config.Path(loadOpts)
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}

	out := app.stdout
	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)
	if path == "" {
		fmt.Fprintf(out, "%s: %s\n", CmdStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(out, "%s: %s\n", CmdStyle.Render("Config file"), path)
	}
	fmt.Fprintln(out)

	output := cfg.Output
	if output == "" {
		output = "(stdout)"
	}
	rows := [][2]string{
		{"entry", cfg.Entry},
		{"output", output},
		{"log_level", cfg.LogLevel},
		{"verbose", strconv.FormatBool(cfg.Verbose)},
		{"transform.target", cfg.Transform.Target},
		{"loader.list_cache_size", strconv.Itoa(cfg.Loader.ListCacheSize)},
	}
	for _, row := range rows {
		fmt.Fprintf(out, "%s: %s\n", CmdStyle.Render(row[0]), SuccessStyle.Render(row[1]))
	}
	return nil
}

// setConfigValue updates one key and saves the file currently in use, or
// the per-user file when only defaults apply. Environment overrides are
// not persisted.
func setConfigValue(cmd *cobra.Command, app *App, opts *rootOptions, key, value string) error {
	loadOpts := app.loadOptions(opts)
	loadOpts.SkipEnv = true

	path, err := app.Config.Path(loadOpts)
	if err != nil {
		return &ExitError{Code: ExitUsage, Err: err}
	}

	cfg := config.DefaultConfig()
	if path != "" {
		if cfg, err = app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: path, SkipEnv: true}); err != nil {
			return &ExitError{Code: ExitUsage, Err: err}
		}
	} else {
		dir, err := app.userConfigDir()
		if err != nil {
			return describe("resolve config directory", "", err)
		}
		path = config.DefaultConfigPath(dir)
	}

	if err := cfg.Set(key, value); err != nil {
		return describe("set configuration value", key, err)
	}
	if err := config.Save(cfg, path); err != nil {
		return describe("save configuration", path, err)
	}

	fmt.Fprintf(app.stdout, "%s Set %s = %s in %s\n", SuccessStyle.Render("✓"), key, value, path)
	return nil
}
