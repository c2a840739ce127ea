package logger

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// messager describes an error that can report its own message without the chain.
// This matches the Message() method provided by zerr.Error.
type messager interface {
	Message() string
}

// metadataer matches the Metadata() method provided by zerr.Error.
type metadataer interface {
	Metadata() map[string]any
}

// ErrorEntry is one level of an error chain.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries flattens an error chain into entries, outermost first.
//
// zerr levels contribute their own message and metadata. A level with an empty
// message hands its metadata to the next entry. Joined errors are flattened in
// order. Any other error contributes its full text and ends the chain.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	var pending map[string]any

	for current := err; current != nil; {
		if joined, ok := current.(interface{ Unwrap() []error }); ok {
			for _, e := range joined.Unwrap() {
				entries = append(entries, attach(collectErrorEntries(e), &pending)...)
			}
			break
		}

		m, ok := current.(messager)
		if !ok {
			entries = append(entries, attach([]ErrorEntry{{Message: current.Error()}}, &pending)...)
			break
		}

		var meta map[string]any
		if md, ok := current.(metadataer); ok {
			meta = md.Metadata()
		}

		if m.Message() == "" {
			if len(meta) > 0 {
				if pending == nil {
					pending = make(map[string]any, len(meta))
				}
				maps.Copy(pending, meta)
			}
		} else {
			entries = append(entries, attach([]ErrorEntry{{Message: m.Message(), Metadata: meta}}, &pending)...)
		}

		current = errors.Unwrap(current)
	}

	return entries
}

// attach merges pending metadata into the first entry.
func attach(entries []ErrorEntry, pending *map[string]any) []ErrorEntry {
	if len(entries) == 0 || len(*pending) == 0 {
		return entries
	}
	merged := make(map[string]any, len(entries[0].Metadata)+len(*pending))
	maps.Copy(merged, *pending)
	maps.Copy(merged, entries[0].Metadata)
	entries[0].Metadata = merged
	*pending = nil
	return entries
}

// formatErrorEntries renders entries as a main error followed by a "Caused by" list.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		first, indent := "Error: ", "       "
		if i > 0 {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			first, indent = "    → ", "      "
		}

		lines = append(lines, first+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, indent+line)
		}

		for _, key := range slices.Sorted(maps.Keys(entry.Metadata)) {
			lines = append(lines, fmt.Sprintf("%s%s: %v", indent, key, entry.Metadata[key]))
		}
	}

	return strings.Join(lines, "\n")
}
