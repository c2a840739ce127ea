package ports

import (
	"context"

	"go.trai.ch/stencil/internal/core/domain"
)

// Emitter writes rendered output to its destination.
//
//go:generate go run go.uber.org/mock/mockgen -source=emitter.go -destination=mocks/mock_emitter.go -package=mocks
type Emitter interface {
	// Emit writes the output to filename, relative to outDir.
	Emit(ctx context.Context, outDir, filename string, output *domain.RenderedOutput) error
}
