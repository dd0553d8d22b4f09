// SPDX-License-Identifier: MPL-2.0

package asset

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// DefaultTarget is the language level emitted module bodies are lowered to.
const DefaultTarget = "es2017"

type (
	// Transformer rewrites a parsed module into a CommonJS body. The body may
	// reference the free variables require, module and exports.
	Transformer interface {
		Transform(tree *Tree) (string, error)
	}

	// ESBuildTransformer converts ES module syntax to CommonJS with esbuild.
	ESBuildTransformer struct {
		target api.Target
	}
)

var targets = map[string]api.Target{
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
	"esnext": api.ESNext,
}

// Targets returns the accepted target names, sorted.
func Targets() []string {
	return slices.Sorted(maps.Keys(targets))
}

// NewESBuildTransformer creates a transformer for the named target. An empty
// name selects DefaultTarget.
func NewESBuildTransformer(target string) (*ESBuildTransformer, error) {
	if target == "" {
		target = DefaultTarget
	}
	t, ok := targets[strings.ToLower(target)]
	if !ok {
		return nil, fmt.Errorf("unknown transform target %q (valid: %s)", target, strings.Join(Targets(), ", "))
	}
	return &ESBuildTransformer{target: t}, nil
}

// Transform implements Transformer. esbuild diagnostics are returned as a
// *TransformError carrying every message.
func (t *ESBuildTransformer) Transform(tree *Tree) (string, error) {
	result := api.Transform(tree.Source, api.TransformOptions{
		Loader:     api.LoaderJS,
		Format:     api.FormatCommonJS,
		Target:     t.target,
		Sourcefile: tree.Filename,
		LogLevel:   api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		msgs := make([]string, 0, len(result.Errors))
		for _, m := range result.Errors {
			if m.Location != nil {
				msgs = append(msgs, fmt.Sprintf("%d:%d: %s", m.Location.Line, m.Location.Column, m.Text))
				continue
			}
			msgs = append(msgs, m.Text)
		}
		return "", &TransformError{Filename: tree.Filename, Messages: msgs}
	}
	return string(result.Code), nil
}
