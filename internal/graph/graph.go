// SPDX-License-Identifier: MPL-2.0

package graph

import (
	"slices"

	"github.com/minipack/minipack/internal/asset"
	"github.com/minipack/minipack/internal/dag"
)

// Graph is the ordered collection of every asset created by one build. The
// entry asset comes first with id 0 and an asset's position equals its id.
type Graph struct {
	assets []*asset.Asset
}

// Assets returns the assets in id order. The slice is a copy; the assets are
// shared and must be treated as read-only.
func (g *Graph) Assets() []*asset.Asset {
	return slices.Clone(g.assets)
}

// Len returns the number of assets.
func (g *Graph) Len() int {
	return len(g.assets)
}

// Entry returns the asset with id 0.
func (g *Graph) Entry() *asset.Asset {
	if len(g.assets) == 0 {
		return nil
	}
	return g.assets[0]
}

// Lookup returns the asset with the given id.
func (g *Graph) Lookup(id asset.ID) (*asset.Asset, bool) {
	if id < 0 || int(id) >= len(g.assets) {
		return nil, false
	}
	return g.assets[id], true
}

// FileOrder returns the distinct physical files of the graph, each listed
// after the files it imports.
func (g *Graph) FileOrder() ([]string, error) {
	d := dag.New()
	for _, a := range g.assets {
		d.AddFile(a.Path)
		for _, dep := range a.UniqueDependencies() {
			child, ok := g.Lookup(a.Mapping[dep])
			if !ok {
				continue
			}
			d.AddImport(a.Path, child.Path)
		}
	}
	return d.Order()
}

func (g *Graph) append(a *asset.Asset) {
	g.assets = append(g.assets, a)
}
