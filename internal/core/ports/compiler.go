// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/stencil/internal/core/domain"
)

// ChildCompiler runs the nested compilation of a template and its static dependencies.
//
//go:generate go run go.uber.org/mock/mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type ChildCompiler interface {
	// Compile compiles the entry template. An empty entry selects the built-in template.
	// It returns an error wrapping domain.ErrDependencyReadFailed if a tracked artifact cannot be read.
	Compile(ctx context.Context, entry string) (*domain.Compilation, error)
}
