package ports

import "iter"

// DependencySource is anything that can enumerate the artifacts a pass depended on.
type DependencySource interface {
	// DependencyPaths yields the dependency paths in the order they were reported.
	DependencyPaths() iter.Seq[string]
}
