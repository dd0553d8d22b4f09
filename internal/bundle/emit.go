// SPDX-License-Identifier: MPL-2.0

package bundle

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/minipack/minipack/internal/asset"
)

// ErrUnmappedAsset is returned when the graph contains an asset whose mapping
// was never recorded.
var ErrUnmappedAsset = errors.New("asset has no mapping")

//go:embed runtime.js.tmpl
var runtimeSource string

var runtimeTemplate = template.Must(template.New("runtime").Parse(runtimeSource))

type (
	// Graph is the read-only view of a module graph the emitter needs.
	Graph interface {
		Assets() []*asset.Asset
	}

	// registryEntry is one module of the registry literal.
	registryEntry struct {
		ID      asset.ID
		Code    string
		Mapping string
	}
)

// Emit returns the bundle program for g. Emitting the same graph twice yields
// identical text.
func Emit(g Graph) (string, error) {
	var sb strings.Builder
	if err := WriteTo(&sb, g); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// WriteTo writes the bundle program for g to w.
func WriteTo(w io.Writer, g Graph) error {
	assets := g.Assets()
	entries := make([]registryEntry, 0, len(assets))
	for _, a := range assets {
		if !a.Mapped() {
			return fmt.Errorf("module %d (%s): %w", a.ID, a.Filename, ErrUnmappedAsset)
		}
		mapping, err := mappingLiteral(a)
		if err != nil {
			return fmt.Errorf("module %d (%s): %w", a.ID, a.Filename, err)
		}
		entries = append(entries, registryEntry{
			ID:      a.ID,
			Code:    strings.TrimRight(a.Code, "\n"),
			Mapping: mapping,
		})
	}
	return runtimeTemplate.Execute(w, entries)
}

// mappingLiteral renders the asset's mapping as an object literal. Keys follow
// the first occurrence of each specifier so the output is stable.
func mappingLiteral(a *asset.Asset) (string, error) {
	deps := a.UniqueDependencies()
	if len(deps) == 0 {
		return "{}", nil
	}
	parts := make([]string, 0, len(deps))
	for _, spec := range deps {
		id, ok := a.Mapping[spec]
		if !ok {
			return "", fmt.Errorf("specifier %q: %w", spec, ErrUnmappedAsset)
		}
		key, err := json.Marshal(spec)
		if err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("%s: %d", key, id))
	}
	return "{" + strings.Join(parts, ", ") + "}", nil
}
