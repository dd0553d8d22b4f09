// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"
)

// DefaultListCacheSize is the number of directory listings a CachedLister keeps.
const DefaultListCacheSize = 128

type (
	// Lister returns the names of the regular files in a directory, in the
	// order the resolver should consider them.
	Lister interface {
		List(dir string) ([]string, error)
	}

	// ListerFunc adapts a plain function to the Lister interface.
	ListerFunc func(dir string) ([]string, error)

	// FSLister lists directories of an afero filesystem. Entries come back
	// sorted by name; directories are skipped.
	FSLister struct {
		fs afero.Fs
	}

	// CachedLister memoizes another Lister. A CachedLister belongs to a single
	// build; nothing is shared between builds.
	CachedLister struct {
		next   Lister
		cache  *lru.Cache[string, []string]
		logger *log.Logger
	}
)

// List calls f(dir).
func (f ListerFunc) List(dir string) ([]string, error) {
	return f(dir)
}

// NewFSLister creates a Lister backed by fs.
func NewFSLister(fs afero.Fs) *FSLister {
	return &FSLister{fs: fs}
}

// List implements Lister.
func (l *FSLister) List(dir string) ([]string, error) {
	infos, err := afero.ReadDir(l.fs, dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		names = append(names, info.Name())
	}
	return names, nil
}

// NewCachedLister wraps next with an LRU of the given size. A size <= 0
// returns next unchanged.
func NewCachedLister(next Lister, size int, logger *log.Logger) (Lister, error) {
	if size <= 0 {
		return next, nil
	}
	cache, err := lru.New[string, []string](size)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &CachedLister{next: next, cache: cache, logger: logger}, nil
}

// List implements Lister. Failed listings are not cached.
func (c *CachedLister) List(dir string) ([]string, error) {
	if names, ok := c.cache.Get(dir); ok {
		c.logger.Debug("directory listing cache hit", "dir", dir)
		return names, nil
	}
	c.logger.Debug("directory listing cache miss", "dir", dir)
	names, err := c.next.List(dir)
	if err != nil {
		return nil, err
	}
	c.cache.Add(dir, names)
	return names, nil
}
