// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newBuildCommand(app *App, opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "build [entry]",
		Short: "Bundle an entry module and its imports",
		Long: `Bundle an entry module and every module it imports into one script.

The bundle is written to stdout unless --output or the 'output' config key is
set. Nothing is written when any module fails to build.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if output != "" {
				s.cfg.Output = output
			}

			code, err := s.bundle(cmd.Context(), s.entry(args))
			if err != nil {
				return err
			}
			return app.writeBundle(s, code)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the bundle to this file instead of stdout")
	return cmd
}

// writeBundle sends code to the configured output file, or stdout when none
// is set.
func (a *App) writeBundle(s *session, code string) error {
	if s.cfg.Output == "" {
		_, err := fmt.Fprint(a.stdout, code)
		return err
	}

	dest := s.path(s.cfg.Output)
	if err := s.fs.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return describe("write bundle", dest, err)
	}
	if err := afero.WriteFile(s.fs, dest, []byte(code), 0o644); err != nil {
		return describe("write bundle", dest, err)
	}
	s.logger.Info("wrote bundle", "path", dest, "bytes", len(code))
	return nil
}
