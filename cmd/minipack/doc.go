// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the minipack CLI.
//
// Every subcommand receives the App composition root, loads configuration
// through it, and runs the loader, asset, graph and bundle packages with the
// resulting settings. Failures are returned as *ExitError values wrapping an
// issue.ActionableError; the fang error handler installed by Execute renders
// them together with the matching Markdown guide.
package cmd
