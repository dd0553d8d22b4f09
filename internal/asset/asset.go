// SPDX-License-Identifier: MPL-2.0

package asset

import (
	"strconv"

	"vimagination.zapto.org/javascript"
)

type (
	// ID identifies an Asset within one graph. Ids are dense, start at 0 and
	// follow creation order.
	ID int

	// Asset is the build artifact of a single module file.
	Asset struct {
		ID ID
		// Filename is the path the asset was requested under, usually without
		// extension. Relative dependencies resolve against its directory.
		Filename string
		// Path is the file that was actually read.
		Path string
		// Dependencies are the import specifiers in source order. Duplicates
		// are kept.
		Dependencies []string
		// Code is the CommonJS body of the module.
		Code string
		// Mapping resolves each dependency specifier to the id of the asset
		// built for it. It is nil until the graph builder processes the asset.
		Mapping map[string]ID
	}

	// Tree is a parsed module together with the text it was parsed from.
	Tree struct {
		Filename string
		Source   string
		Module   *javascript.Module
	}
)

// String returns the decimal form of the id.
func (id ID) String() string {
	return strconv.Itoa(int(id))
}

// Next returns the id that follows id.
func (id ID) Next() ID {
	return id + 1
}

// Mapped reports whether the asset's mapping has been recorded.
func (a *Asset) Mapped() bool {
	return a.Mapping != nil
}

// UniqueDependencies returns the dependency specifiers in first-occurrence
// order with duplicates removed. This is the key order of Mapping.
func (a *Asset) UniqueDependencies() []string {
	seen := make(map[string]struct{}, len(a.Dependencies))
	out := make([]string, 0, len(a.Dependencies))
	for _, dep := range a.Dependencies {
		if _, ok := seen[dep]; ok {
			continue
		}
		seen[dep] = struct{}{}
		out = append(out, dep)
	}
	return out
}
