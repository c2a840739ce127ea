// Package tracker records which artifacts a nested compilation pass depended on.
package tracker

import (
	"path/filepath"
	"sync"
	"unique"

	"go.trai.ch/stencil/internal/core/ports"
)

// Tracker holds the dependency set of the most recent pass.
// It never inspects file contents; it only mirrors what the compiler reported.
type Tracker struct {
	mu    sync.RWMutex
	paths []string
	index map[unique.Handle[string]]struct{}
}

// New creates an empty Tracker.
func New() *Tracker {
	return &Tracker{
		index: make(map[unique.Handle[string]]struct{}),
	}
}

// Observe replaces the tracked set with the dependencies reported by src.
// An empty or partial report is recorded as-is.
func (t *Tracker) Observe(src ports.DependencySource) {
	paths := make([]string, 0)
	index := make(map[unique.Handle[string]]struct{})

	if src != nil {
		for path := range src.DependencyPaths() {
			paths = append(paths, path)
			index[unique.Make(filepath.Clean(path))] = struct{}{}
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.paths = paths
	t.index = index
}

// Dependencies returns the paths of the last observed pass in reported order.
func (t *Tracker) Dependencies() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]string, len(t.paths))
	copy(out, t.paths)
	return out
}

// Len returns the number of distinct tracked paths.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.index)
}

// Tracks reports whether path belongs to the last observed pass.
func (t *Tracker) Tracks(path string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.index[unique.Make(filepath.Clean(path))]
	return ok
}

// Filter returns the subset of changed paths that are tracked, preserving their order.
func (t *Tracker) Filter(changed []string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var relevant []string
	for _, path := range changed {
		if _, ok := t.index[unique.Make(filepath.Clean(path))]; ok {
			relevant = append(relevant, path)
		}
	}
	return relevant
}
