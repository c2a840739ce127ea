// Package domain contains the core types of the render cache.
package domain

import "iter"

// Compilation is the result of one nested compilation pass over a template.
// A pass may contain child passes (partials), each compiled and hashed on its own.
type Compilation struct {
	// Entry is the logical name of the compiled template.
	Entry InternedString
	// Name is how the parent pass refers to this pass. Empty for the root.
	Name string
	// Source is the compiled template body.
	Source []byte
	// Inputs are the artifacts read while producing Source, excluding children.
	Inputs []InternedString
	// Children are nested passes gathered by this pass.
	Children []*Compilation
	// Hash is the fingerprint of this pass, set by the fingerprint engine.
	Hash string
}

// DependencyPaths yields every input path of the pass and its children, depth first.
// Paths are yielded as reported; duplicates across children are not collapsed.
func (c *Compilation) DependencyPaths() iter.Seq[string] {
	return func(yield func(string) bool) {
		c.walkInputs(yield)
	}
}

func (c *Compilation) walkInputs(yield func(string) bool) bool {
	if c == nil {
		return true
	}
	for _, in := range c.Inputs {
		if !yield(in.String()) {
			return false
		}
	}
	for _, child := range c.Children {
		if !child.walkInputs(yield) {
			return false
		}
	}
	return true
}

// Walk yields the pass and all nested children, depth first.
func (c *Compilation) Walk() iter.Seq[*Compilation] {
	return func(yield func(*Compilation) bool) {
		c.walk(yield)
	}
}

func (c *Compilation) walk(yield func(*Compilation) bool) bool {
	if c == nil {
		return true
	}
	if !yield(c) {
		return false
	}
	for _, child := range c.Children {
		if !child.walk(yield) {
			return false
		}
	}
	return true
}
