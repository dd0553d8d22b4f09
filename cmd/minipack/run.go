// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/minipack/minipack/internal/jsrun"
)

func newRunCommand(app *App, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run [entry]",
		Short: "Bundle an entry module and execute the bundle",
		Long: `Bundle an entry module and execute the result in an embedded JavaScript
interpreter. console.log and console.info print to stdout, console.warn and
console.error to stderr. Each import runs the imported module again.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.newSession(cmd.Context(), opts)
			if err != nil {
				return err
			}

			entry := s.entry(args)
			code, err := s.bundle(cmd.Context(), entry)
			if err != nil {
				return err
			}

			runner := jsrun.New(
				jsrun.WithStdout(app.stdout),
				jsrun.WithStderr(app.stderr),
				jsrun.WithLogger(s.logger),
			)
			if err := runner.Run(cmd.Context(), code); err != nil {
				return describe("run bundle", entry, err)
			}
			return nil
		},
	}
}
