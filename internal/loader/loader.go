// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// ErrNotFound is the sentinel wrapped by NotFoundError.
var ErrNotFound = errors.New("module source not found")

type (
	// Matcher picks the file that a stem resolves to among the names of its
	// directory.
	Matcher interface {
		Match(stem string, names []string) (string, bool)
	}

	// MatcherFunc adapts a plain function to the Matcher interface.
	MatcherFunc func(stem string, names []string) (string, bool)

	// Source is the raw content of a resolved module file.
	Source struct {
		// Path is the file that was read, extension included.
		Path    string
		Content []byte
	}

	// NotFoundError reports a path that could not be resolved to a readable file.
	NotFoundError struct {
		Path string
		// Err is the underlying I/O error, nil when the directory was readable
		// but held no matching file.
		Err error
	}

	// Loader reads module sources through a Lister and a Matcher.
	Loader struct {
		fs      afero.Fs
		lister  Lister
		matcher Matcher
		logger  *log.Logger
	}

	// Option configures a Loader.
	Option func(*Loader)
)

// PrefixMatch returns the first name that begins with stem.
var PrefixMatch Matcher = MatcherFunc(func(stem string, names []string) (string, bool) {
	for _, name := range names {
		if strings.HasPrefix(name, stem) {
			return name, true
		}
	}
	return "", false
})

// Match calls f(stem, names).
func (f MatcherFunc) Match(stem string, names []string) (string, bool) {
	return f(stem, names)
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot resolve %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("cannot resolve %s: no matching file", e.Path)
}

// Unwrap returns the underlying I/O error.
func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// Is reports ErrNotFound for every NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// WithLister replaces the directory lister (defaults to an FSLister over the
// loader's filesystem).
func WithLister(l Lister) Option {
	return func(ld *Loader) {
		ld.lister = l
	}
}

// WithMatcher replaces the name matcher (defaults to PrefixMatch).
func WithMatcher(m Matcher) Option {
	return func(ld *Loader) {
		ld.matcher = m
	}
}

// WithLogger sets the debug logger.
func WithLogger(logger *log.Logger) Option {
	return func(ld *Loader) {
		ld.logger = logger
	}
}

// New creates a Loader reading from fs.
func New(fs afero.Fs, opts ...Option) *Loader {
	ld := &Loader{
		fs:      fs,
		matcher: PrefixMatch,
	}
	for _, opt := range opts {
		opt(ld)
	}
	if ld.lister == nil {
		ld.lister = NewFSLister(fs)
	}
	if ld.logger == nil {
		ld.logger = discardLogger()
	}
	return ld
}

// Load resolves path (normally without extension) and returns the content of
// the matching file. Every failure is a *NotFoundError.
func (ld *Loader) Load(path string) (*Source, error) {
	dir, stem := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	names, err := ld.lister.List(dir)
	if err != nil {
		return nil, &NotFoundError{Path: path, Err: err}
	}

	name, ok := ld.matcher.Match(stem, names)
	if !ok {
		return nil, &NotFoundError{Path: path}
	}

	file := filepath.Join(dir, name)
	content, err := afero.ReadFile(ld.fs, file)
	if err != nil {
		return nil, &NotFoundError{Path: path, Err: err}
	}
	ld.logger.Debug("loaded source", "path", path, "file", file, "bytes", len(content))

	return &Source{Path: file, Content: content}, nil
}

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}
