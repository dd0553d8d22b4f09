// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and the Markdown guides shown
// when a bundler command fails.
//
// An ActionableError carries the failed operation, the file involved and a
// list of suggestions. When it is tagged with an Id, the CLI renders the
// matching Issue guide through glamour below the error message.
package issue
