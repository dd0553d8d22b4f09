// SPDX-License-Identifier: MPL-2.0

// Package graph discovers every module an entry file transitively imports.
//
// The builder runs a FIFO worklist. Each processed asset resolves its import
// specifiers against its own directory, builds a fresh child asset for every
// specifier and records specifier -> child id in its Mapping. Nothing is
// deduplicated: two specifiers that reach the same file produce two assets
// with two ids, and a file imported from two places is built twice. Only a
// file that imports one of its own ancestors is rejected, since that chain
// would never end.
package graph
