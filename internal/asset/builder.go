// SPDX-License-Identifier: MPL-2.0

package asset

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/minipack/minipack/internal/loader"
)

type (
	// SourceLoader resolves a module path to its content.
	SourceLoader interface {
		Load(path string) (*loader.Source, error)
	}

	// Builder builds Assets. A Builder holds no id state: the caller passes
	// the next id in and receives the advanced counter back.
	Builder struct {
		loader      SourceLoader
		parser      Parser
		transformer Transformer
		logger      *log.Logger
	}

	// BuilderOption configures a Builder.
	BuilderOption func(*Builder)
)

// WithParser replaces the default JSParser.
func WithParser(p Parser) BuilderOption {
	return func(b *Builder) {
		b.parser = p
	}
}

// WithTransformer replaces the default esbuild transformer.
func WithTransformer(t Transformer) BuilderOption {
	return func(b *Builder) {
		b.transformer = t
	}
}

// WithLogger sets the debug logger.
func WithLogger(logger *log.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates a Builder reading sources through src.
func NewBuilder(src SourceLoader, opts ...BuilderOption) *Builder {
	b := &Builder{
		loader: src,
		parser: JSParser{},
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.transformer == nil {
		// DefaultTarget is always a known target.
		b.transformer, _ = NewESBuildTransformer(DefaultTarget)
	}
	if b.logger == nil {
		b.logger = log.New(io.Discard)
	}
	return b
}

// Build loads, parses and transforms filename into an Asset with id next.
// It returns the asset and the id to use for the following build. On error
// the counter is returned unchanged.
func (b *Builder) Build(filename string, next ID) (*Asset, ID, error) {
	src, err := b.loader.Load(filename)
	if err != nil {
		return nil, next, &LoadError{Filename: filename, Err: err}
	}

	tree, err := b.parser.Parse(filename, string(src.Content))
	if err != nil {
		return nil, next, &ParseError{Filename: filename, Err: err}
	}

	deps, err := b.parser.Imports(tree)
	if err != nil {
		return nil, next, &ParseError{Filename: filename, Err: err}
	}

	code, err := b.transformer.Transform(tree)
	if err != nil {
		var te *TransformError
		if !errors.As(err, &te) {
			err = &TransformError{Filename: filename, Err: err}
		}
		return nil, next, err
	}

	a := &Asset{
		ID:           next,
		Filename:     filename,
		Path:         src.Path,
		Dependencies: deps,
		Code:         code,
	}
	b.logger.Debug("built asset", "id", a.ID, "filename", filename, "path", src.Path, "dependencies", len(deps))

	return a, next.Next(), nil
}
