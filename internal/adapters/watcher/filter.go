package watcher

import (
	"iter"
	"slices"
	"sync"
	"unique"

	"go.trai.ch/stencil/internal/core/ports"
)

// ContentFilter drops change events for files whose content hash is unchanged.
// Editors often touch or rewrite a file without changing it; those events would
// otherwise trigger a full build cycle.
type ContentFilter struct {
	mu     sync.Mutex
	hasher ports.FileHasher
	seen   map[unique.Handle[string]]uint64
}

// NewContentFilter creates a filter backed by the given file hasher.
func NewContentFilter(hasher ports.FileHasher) *ContentFilter {
	return &ContentFilter{
		hasher: hasher,
		seen:   make(map[unique.Handle[string]]uint64),
	}
}

// Prime records the current content hash of each path without reporting it as changed.
// Paths that cannot be hashed are skipped.
func (f *ContentFilter) Prime(paths iter.Seq[string]) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for path := range paths {
		if sum, err := f.hasher.ComputeFileHash(path); err == nil {
			f.seen[unique.Make(path)] = sum
		}
	}
}

// Changed returns the sorted subset of paths whose content differs from the last seen hash.
// A path that can no longer be hashed (removed, or a directory) is always reported and forgotten.
func (f *ContentFilter) Changed(paths []string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	changed := make([]string, 0, len(paths))
	for _, path := range paths {
		handle := unique.Make(path)

		sum, err := f.hasher.ComputeFileHash(path)
		if err != nil {
			delete(f.seen, handle)
			changed = append(changed, path)
			continue
		}

		if prev, ok := f.seen[handle]; ok && prev == sum {
			continue
		}
		f.seen[handle] = sum
		changed = append(changed, path)
	}

	slices.Sort(changed)
	return slices.Compact(changed)
}

// Len returns the number of paths with a recorded hash.
func (f *ContentFilter) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seen)
}
