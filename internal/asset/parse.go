// SPDX-License-Identifier: MPL-2.0

package asset

import (
	"fmt"

	"vimagination.zapto.org/javascript"
	"vimagination.zapto.org/parser"
)

type (
	// Parser turns module source into a Tree and extracts the specifiers the
	// tree imports.
	Parser interface {
		Parse(filename, source string) (*Tree, error)
		Imports(tree *Tree) ([]string, error)
	}

	// JSParser parses ECMAScript modules with vimagination.zapto.org/javascript.
	JSParser struct{}
)

// Parse implements Parser. The source is parsed with module goal, so import
// and export declarations are accepted at the top level.
func (JSParser) Parse(filename, source string) (*Tree, error) {
	tk := parser.NewStringTokeniser(source)
	m, err := javascript.ParseModule(&tk)
	if err != nil {
		return nil, err
	}
	return &Tree{Filename: filename, Source: source, Module: m}, nil
}

// Imports implements Parser. It returns the module specifier of every import
// declaration and every "export ... from" declaration, in source order and
// without removing duplicates.
func (JSParser) Imports(tree *Tree) ([]string, error) {
	var specifiers []string
	for _, item := range tree.Module.ModuleListItems {
		var spec *javascript.Token
		switch {
		case item.ImportDeclaration != nil:
			spec = item.ImportDeclaration.FromClause.ModuleSpecifier
		case item.ExportDeclaration != nil && item.ExportDeclaration.FromClause != nil:
			spec = item.ExportDeclaration.FromClause.ModuleSpecifier
		}
		if spec == nil {
			continue
		}
		s, err := javascript.Unquote(spec.Data)
		if err != nil {
			return nil, fmt.Errorf("bad module specifier %s: %w", spec.Data, err)
		}
		specifiers = append(specifiers, s)
	}
	return specifiers, nil
}
