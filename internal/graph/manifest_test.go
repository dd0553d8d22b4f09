// SPDX-License-Identifier: MPL-2.0

package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "json", want: FormatJSON},
		{in: "YAML", want: FormatYAML},
		{in: "yml", want: FormatYAML},
		{in: " toml ", want: FormatTOML},
		{in: "xml", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("error does not wrap ErrInvalidFormat: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestManifest_OrderedMapping(t *testing.T) {
	t.Parallel()
	g, _ := buildGraph(t, map[string][]string{
		"/src/entry": {"./b", "./a", "./b"},
		"/src/a":     nil,
		"/src/b":     nil,
	}, "/src/entry")

	m := g.Manifest()
	if m.Entry != "/src/entry" {
		t.Errorf("Entry = %q", m.Entry)
	}
	if len(m.Assets) != 4 {
		t.Fatalf("len(Assets) = %d, want 4", len(m.Assets))
	}
	got := m.Assets[0].Mapping
	want := []MappingEntry{{Specifier: "./b", ID: 3}, {Specifier: "./a", ID: 2}}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Mapping = %v, want %v", got, want)
	}
	if m.Assets[1].Dependencies == nil || m.Assets[1].Mapping == nil {
		t.Error("leaf assets must encode empty lists, not null")
	}
}

func TestManifest_Encode(t *testing.T) {
	t.Parallel()
	g, _ := buildGraph(t, map[string][]string{
		"/src/entry": {"./a"},
		"/src/a":     nil,
	}, "/src/entry")
	m := g.Manifest()

	tests := []struct {
		format Format
		want   []string
	}{
		{format: FormatJSON, want: []string{`"entry": "/src/entry"`, `"specifier": "./a"`}},
		{format: FormatYAML, want: []string{"entry: /src/entry", "specifier: ./a"}},
		{format: FormatTOML, want: []string{"entry = '/src/entry'", "[[assets]]", "specifier = './a'"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if err := m.Encode(&buf, tt.format); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("output missing %q:\n%s", w, buf.String())
				}
			}
		})
	}
}

func TestManifest_JSONRoundTripsIDs(t *testing.T) {
	t.Parallel()
	g, _ := buildGraph(t, map[string][]string{
		"/src/entry": {"./a"},
		"/src/a":     nil,
	}, "/src/entry")

	var buf bytes.Buffer
	if err := g.Manifest().Encode(&buf, FormatJSON); err != nil {
		t.Fatal(err)
	}
	var decoded Manifest
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Assets[0].Mapping[0].ID != 1 || decoded.Assets[1].ID != 1 {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestManifest_EncodeInvalidFormat(t *testing.T) {
	t.Parallel()
	err := (&Manifest{}).Encode(&bytes.Buffer{}, Format("xml"))
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
}
