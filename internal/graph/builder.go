// SPDX-License-Identifier: MPL-2.0

package graph

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/minipack/minipack/internal/asset"
	"github.com/minipack/minipack/internal/dag"
)

type (
	// AssetBuilder builds the asset for one module path, taking the next id
	// and returning the advanced counter.
	AssetBuilder interface {
		Build(filename string, next asset.ID) (*asset.Asset, asset.ID, error)
	}

	// ImportError reports a dependency that failed to build, with the module
	// that imported it.
	ImportError struct {
		Importer  string
		Specifier string
		Err       error
	}

	// Builder constructs Graphs. It keeps no state between builds.
	Builder struct {
		assets AssetBuilder
		logger *log.Logger
	}

	// Option configures a Builder.
	Option func(*Builder)

	// pending is a worklist entry: an asset whose mapping is not recorded yet
	// and the physical files on its import chain, itself included.
	pending struct {
		asset     *asset.Asset
		ancestors []string
	}
)

func (e *ImportError) Error() string {
	return fmt.Sprintf("%s imports %q: %v", e.Importer, e.Specifier, e.Err)
}

// Unwrap returns the underlying build error.
func (e *ImportError) Unwrap() error {
	return e.Err
}

// WithLogger sets the debug logger.
func WithLogger(logger *log.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates a graph Builder on top of an asset builder.
func NewBuilder(assets AssetBuilder, opts ...Option) *Builder {
	b := &Builder{assets: assets}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = log.New(io.Discard)
	}
	return b
}

// Build discovers the graph rooted at entry. Any asset failure aborts the
// whole build and no graph is returned.
func (b *Builder) Build(ctx context.Context, entry string) (*Graph, error) {
	var next asset.ID

	root, next, err := b.assets.Build(entry, next)
	if err != nil {
		return nil, err
	}

	g := &Graph{}
	g.append(root)
	queue := []pending{{asset: root, ancestors: []string{root.Path}}}

	for head := 0; head < len(queue); head++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cur := queue[head]
		dir := filepath.Dir(cur.asset.Filename)
		mapping := make(map[string]asset.ID, len(cur.asset.Dependencies))

		for _, spec := range cur.asset.Dependencies {
			target := filepath.Join(dir, spec)

			var child *asset.Asset
			child, next, err = b.assets.Build(target, next)
			if err != nil {
				return nil, &ImportError{Importer: cur.asset.Filename, Specifier: spec, Err: err}
			}
			if slices.Contains(cur.ancestors, child.Path) {
				cycle := append(slices.Clone(cur.ancestors), child.Path)
				return nil, &dag.CycleError{Cycle: cycle[slices.Index(cycle, child.Path):]}
			}

			// A repeated specifier builds another asset and the later id wins.
			mapping[spec] = child.ID
			g.append(child)
			queue = append(queue, pending{
				asset:     child,
				ancestors: append(slices.Clone(cur.ancestors), child.Path),
			})
			b.logger.Debug("mapped dependency", "parent", cur.asset.ID, "specifier", spec, "child", child.ID, "target", target)
		}

		cur.asset.Mapping = mapping
	}

	b.logger.Debug("graph complete", "entry", entry, "assets", g.Len())
	return g, nil
}
