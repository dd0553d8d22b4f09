// SPDX-License-Identifier: MPL-2.0

package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// FormatJSON encodes a manifest as indented JSON.
	FormatJSON Format = "json"
	// FormatYAML encodes a manifest as YAML.
	FormatYAML Format = "yaml"
	// FormatTOML encodes a manifest as TOML.
	FormatTOML Format = "toml"
)

// ErrInvalidFormat is the sentinel wrapped by InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid manifest format")

type (
	// Format names a manifest encoding.
	Format string

	// InvalidFormatError is returned for an unrecognized Format.
	InvalidFormatError struct {
		Value Format
	}

	// Manifest is a serializable description of a Graph.
	Manifest struct {
		Entry  string          `json:"entry" yaml:"entry" toml:"entry"`
		Assets []ManifestAsset `json:"assets" yaml:"assets" toml:"assets"`
	}

	// ManifestAsset describes one asset. Mapping follows the first-occurrence
	// order of the asset's dependencies.
	ManifestAsset struct {
		ID           int            `json:"id" yaml:"id" toml:"id"`
		Filename     string         `json:"filename" yaml:"filename" toml:"filename"`
		Path         string         `json:"path" yaml:"path" toml:"path"`
		Dependencies []string       `json:"dependencies" yaml:"dependencies" toml:"dependencies"`
		Mapping      []MappingEntry `json:"mapping" yaml:"mapping" toml:"mapping"`
	}

	// MappingEntry is one specifier -> id pair.
	MappingEntry struct {
		Specifier string `json:"specifier" yaml:"specifier" toml:"specifier"`
		ID        int    `json:"id" yaml:"id" toml:"id"`
	}
)

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid manifest format %q (valid: json, yaml, toml)", e.Value)
}

// Unwrap returns ErrInvalidFormat for errors.Is() compatibility.
func (e *InvalidFormatError) Unwrap() error {
	return ErrInvalidFormat
}

// ParseFormat converts a user-supplied name into a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatJSON, FormatYAML, FormatTOML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", &InvalidFormatError{Value: Format(s)}
	}
}

// Manifest describes the graph.
func (g *Graph) Manifest() *Manifest {
	m := &Manifest{Assets: make([]ManifestAsset, 0, len(g.assets))}
	if entry := g.Entry(); entry != nil {
		m.Entry = entry.Filename
	}
	for _, a := range g.assets {
		deps := a.Dependencies
		if deps == nil {
			deps = []string{}
		}
		ma := ManifestAsset{
			ID:           int(a.ID),
			Filename:     a.Filename,
			Path:         a.Path,
			Dependencies: deps,
			Mapping:      []MappingEntry{},
		}
		for _, spec := range a.UniqueDependencies() {
			ma.Mapping = append(ma.Mapping, MappingEntry{Specifier: spec, ID: int(a.Mapping[spec])})
		}
		m.Assets = append(m.Assets, ma)
	}
	return m
}

// Encode writes the manifest to w in the given format.
func (m *Manifest) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(m)
	default:
		return &InvalidFormatError{Value: format}
	}
}
