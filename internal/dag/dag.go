// SPDX-License-Identifier: MPL-2.0

// Package dag orders the physical files of a module graph so that every file
// comes after the files it imports. The asset graph itself never collapses
// repeated files; this package works one level up, on file paths, and is what
// "minipack graph --files" prints.
package dag

import (
	"fmt"
	"strings"
)

type (
	// CycleError reports files that import each other, directly or through
	// other files.
	CycleError struct {
		// Cycle lists the files on the cycle. When it comes from the graph
		// builder the first and last entries are the same file.
		Cycle []string
	}

	// Graph is a directed graph of file paths. An edge from A to B means A
	// imports B, so B must be evaluated first.
	Graph struct {
		// imports maps a file to the distinct files it imports, in first-seen order.
		imports map[string][]string
		// edges guards against recording the same import twice.
		edges map[[2]string]bool
		// nodes holds every file in insertion order for deterministic output.
		nodes   []string
		nodeSet map[string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("import cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		imports: make(map[string][]string),
		edges:   make(map[[2]string]bool),
		nodeSet: make(map[string]bool),
	}
}

// AddFile adds a file with no imports. Adding a known file is a no-op.
func (g *Graph) AddFile(path string) {
	if g.nodeSet[path] {
		return
	}
	g.nodeSet[path] = true
	g.nodes = append(g.nodes, path)
}

// AddImport records that importer imports imported. Both files are added if
// needed; repeated imports between the same pair collapse to one edge.
func (g *Graph) AddImport(importer, imported string) {
	g.AddFile(importer)
	g.AddFile(imported)
	key := [2]string{importer, imported}
	if g.edges[key] {
		return
	}
	g.edges[key] = true
	g.imports[importer] = append(g.imports[importer], imported)
}

// Len returns the number of distinct files.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Order returns the files with every import ahead of its importer, using
// Kahn's algorithm. Files that become ready at the same time keep their
// insertion order. A cycle yields *CycleError naming the files left over.
func (g *Graph) Order() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	// pending counts the imports of each file not yet emitted.
	pending := make(map[string]int, len(g.nodes))
	importers := make(map[string][]string, len(g.nodes))
	for _, node := range g.nodes {
		pending[node] = len(g.imports[node])
		for _, dep := range g.imports[node] {
			importers[dep] = append(importers[dep], node)
		}
	}

	queue := make([]string, 0, len(g.nodes))
	for _, node := range g.nodes {
		if pending[node] == 0 {
			queue = append(queue, node)
		}
	}

	result := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, importer := range importers[node] {
			pending[importer]--
			if pending[importer] == 0 {
				queue = append(queue, importer)
			}
		}
	}

	if len(result) != len(g.nodes) {
		var cycle []string
		for _, node := range g.nodes {
			if pending[node] > 0 {
				cycle = append(cycle, node)
			}
		}
		return nil, &CycleError{Cycle: cycle}
	}

	return result, nil
}
