// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minipack/minipack/internal/graph"
)

const formatText = "text"

func newGraphCommand(app *App, opts *rootOptions) *cobra.Command {
	var (
		format string
		files  bool
	)

	cmd := &cobra.Command{
		Use:   "graph [entry]",
		Short: "Print the dependency graph of an entry module",
		Long: `Print every asset discovered from an entry module, in id order, with the
mapping from each import specifier to the asset built for it.

With --files, print the physical files instead, dependencies first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var manifestFormat graph.Format
			if !files && format != formatText {
				f, err := graph.ParseFormat(format)
				if err != nil {
					return describe("print graph", "", err)
				}
				manifestFormat = f
			}

			s, err := app.newSession(cmd.Context(), opts)
			if err != nil {
				return err
			}

			entry := s.entry(args)
			g, err := s.buildGraph(cmd.Context(), entry)
			if err != nil {
				return describe("build graph", entry, err)
			}

			switch {
			case files:
				order, err := g.FileOrder()
				if err != nil {
					return describe("order files", entry, err)
				}
				_, err = fmt.Fprintln(app.stdout, strings.Join(order, "\n"))
				return err
			case manifestFormat != "":
				return g.Manifest().Encode(app.stdout, manifestFormat)
			default:
				return writeGraphText(app.stdout, g.Manifest())
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json, yaml or toml")
	cmd.Flags().BoolVar(&files, "files", false, "print physical files in dependency-first order")
	return cmd
}

// writeGraphText prints one block per asset:
//
//	[1] src/message (src/message.js)
//	    ./name -> 2
func writeGraphText(w io.Writer, m *graph.Manifest) error {
	var b strings.Builder
	for _, a := range m.Assets {
		fmt.Fprintf(&b, "%s %s %s\n",
			TitleStyle.Render(fmt.Sprintf("[%d]", a.ID)),
			a.Filename,
			SubtitleStyle.Render("("+a.Path+")"),
		)
		for _, e := range a.Mapping {
			fmt.Fprintln(&b, edgeStyle.Render(fmt.Sprintf("%s -> %d", CmdStyle.Render(e.Specifier), e.ID)))
		}
	}
	fmt.Fprintf(&b, "%s\n", SubtitleStyle.Render(fmt.Sprintf("%d assets", len(m.Assets))))
	_, err := io.WriteString(w, b.String())
	return err
}
