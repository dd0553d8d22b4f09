// SPDX-License-Identifier: MPL-2.0

package asset

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/minipack/minipack/internal/loader"
)

type failingTransformer struct{ err error }

func (f failingTransformer) Transform(*Tree) (string, error) { return "", f.err }

func newBuilder(t *testing.T, files map[string]string, opts ...BuilderOption) *Builder {
	t.Helper()
	fs := afero.NewMemMapFs()
	for name, content := range files {
		if err := afero.WriteFile(fs, name, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return NewBuilder(loader.New(fs), opts...)
}

func TestBuild_CollectsImportsInOrder(t *testing.T) {
	t.Parallel()
	b := newBuilder(t, map[string]string{
		"/src/entry.js": `import a from "./a";
import { b } from './b';
import "./a";
export { c } from "./c";
console.log(a, b);
`,
	})

	got, next, err := b.Build("/src/entry", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"./a", "./b", "./a", "./c"}
	if !slices.Equal(got.Dependencies, want) {
		t.Errorf("Dependencies = %v, want %v", got.Dependencies, want)
	}
	if got.ID != 0 || next != 1 {
		t.Errorf("ID = %d, next = %d, want 0 and 1", got.ID, next)
	}
	if got.Filename != "/src/entry" || got.Path != "/src/entry.js" {
		t.Errorf("Filename = %q, Path = %q", got.Filename, got.Path)
	}
	if got.Mapped() {
		t.Error("freshly built asset must not carry a mapping")
	}
}

func TestBuild_TransformsToCommonJS(t *testing.T) {
	t.Parallel()
	b := newBuilder(t, map[string]string{
		"/src/entry.js": `import { name } from "./name";
export const greeting = "hello " + name;
`,
	})

	got, _, err := b.Build("/src/entry", 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != 7 {
		t.Errorf("ID = %d, want 7", got.ID)
	}
	if !strings.Contains(got.Code, `require("./name")`) {
		t.Errorf("code does not require ./name:\n%s", got.Code)
	}
	if !strings.Contains(got.Code, "module.exports") {
		t.Errorf("code does not assign module.exports:\n%s", got.Code)
	}
	if strings.Contains(got.Code, "import ") {
		t.Errorf("code still contains an import declaration:\n%s", got.Code)
	}
}

func TestBuild_NoImports(t *testing.T) {
	t.Parallel()
	b := newBuilder(t, map[string]string{"/src/entry.js": `console.log("alone");`})

	got, _, err := b.Build("/src/entry", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Dependencies) != 0 {
		t.Errorf("Dependencies = %v, want none", got.Dependencies)
	}
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()
	transformErr := errors.New("transform exploded")

	tests := []struct {
		name    string
		files   map[string]string
		opts    []BuilderOption
		want    error
		wantMsg string
	}{
		{
			name:    "missing file",
			files:   map[string]string{"/src/other.js": ""},
			want:    ErrLoad,
			wantMsg: "load /src/entry",
		},
		{
			name:    "malformed source",
			files:   map[string]string{"/src/entry.js": `import { from "./a";`},
			want:    ErrParse,
			wantMsg: "parse /src/entry",
		},
		{
			name:    "transformer failure",
			files:   map[string]string{"/src/entry.js": `export default 1;`},
			opts:    []BuilderOption{WithTransformer(failingTransformer{err: transformErr})},
			want:    ErrTransform,
			wantMsg: "transform /src/entry: transform exploded",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := newBuilder(t, tt.files, tt.opts...)

			got, next, err := b.Build("/src/entry", 3)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if got != nil {
				t.Errorf("expected no asset, got %+v", got)
			}
			if next != 3 {
				t.Errorf("counter advanced to %d on failure", next)
			}
			if !strings.HasPrefix(err.Error(), tt.wantMsg) {
				t.Errorf("Error() = %q, want prefix %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestBuild_LoadErrorWrapsNotFound(t *testing.T) {
	t.Parallel()
	b := newBuilder(t, nil)

	_, _, err := b.Build("/missing/entry", 0)
	if !errors.Is(err, loader.ErrNotFound) {
		t.Errorf("expected loader.ErrNotFound in chain, got %v", err)
	}
}

func TestUniqueDependencies(t *testing.T) {
	t.Parallel()
	a := &Asset{Dependencies: []string{"./a", "./b", "./a", "./c", "./b"}}
	want := []string{"./a", "./b", "./c"}
	if got := a.UniqueDependencies(); !slices.Equal(got, want) {
		t.Errorf("UniqueDependencies() = %v, want %v", got, want)
	}
}
