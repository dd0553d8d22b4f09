// SPDX-License-Identifier: MPL-2.0

// Package asset turns one JavaScript module file into an Asset: its numeric
// id, the import specifiers it declares, and its source rewritten into a
// CommonJS body that expects require, module and exports to be supplied by
// the bundle runtime.
//
// Parsing and transformation are delegated to the Parser and Transformer
// collaborators. JSParser wraps vimagination.zapto.org/javascript; the default
// Transformer wraps esbuild's transform API.
package asset
