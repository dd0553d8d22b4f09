// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/fang"

	"github.com/minipack/minipack/internal/asset"
	"github.com/minipack/minipack/internal/config"
	"github.com/minipack/minipack/internal/dag"
	"github.com/minipack/minipack/internal/graph"
	"github.com/minipack/minipack/internal/issue"
	"github.com/minipack/minipack/internal/jsrun"
	"github.com/minipack/minipack/internal/loader"
)

// describe classifies err and wraps it in an ActionableError inside an
// ExitError carrying the matching exit code.
func describe(operation, resource string, err error) error {
	if err == nil {
		return nil
	}

	ec := issue.NewErrorContext().WithOperation(operation).WithResource(resource).Wrap(err)
	code := ExitBuildFailure

	var cycle *dag.CycleError
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		ec.WithSuggestion("The operation was interrupted before it finished")
	case errors.As(err, &cycle):
		ec.WithIssue(issue.DependencyCycleId).
			WithSuggestion("Break the cycle between the files listed above")
	case errors.Is(err, loader.ErrNotFound):
		ec.WithIssue(issue.EntryNotFoundId).
			WithSuggestion("Check the module path and the importing file's directory")
	case errors.Is(err, asset.ErrParse):
		ec.WithIssue(issue.ParseFailedId).
			WithSuggestion("Fix the syntax error in the reported file")
	case errors.Is(err, asset.ErrTransform):
		ec.WithIssue(issue.TransformFailedId)
	case errors.Is(err, jsrun.ErrModuleNotMapped):
		code = ExitRuntime
		ec.WithIssue(issue.ModuleNotMappedId)
	case errors.Is(err, jsrun.ErrExecution):
		code = ExitRuntime
		ec.WithIssue(issue.BundleExecutionFailedId)
	case errors.Is(err, graph.ErrInvalidFormat):
		code = ExitUsage
		ec.WithIssue(issue.InvalidFormatId)
	case errors.Is(err, config.ErrInvalidConfig), errors.Is(err, config.ErrUnknownKey):
		code = ExitUsage
		ec.WithIssue(issue.ConfigLoadFailedId)
	}

	return &ExitError{Code: code, Err: ec.BuildError()}
}

// errorHandler renders failures for fang. Actionable errors print their
// suggestions and, when tagged, the Markdown guide. Anything else is a
// usage error and gets fang's default rendering.
func (a *App) errorHandler(opts *rootOptions) fang.ErrorHandler {
	return func(w io.Writer, styles fang.Styles, err error) {
		var ae *issue.ActionableError
		if !errors.As(err, &ae) {
			fang.DefaultErrorHandler(w, styles, err)
			return
		}
		fmt.Fprintln(w, ErrorStyle.Render("Error:"), ae.Format(opts.verbose))

		id, ok := issue.IssueOf(err)
		if !ok {
			return
		}
		guide, renderErr := issue.Get(id).Render(a.guideStyle)
		if renderErr != nil {
			return
		}
		fmt.Fprint(w, guide)
	}
}

// exitCode maps an error returned by the command tree to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitUsage
}
