package ports

import (
	"context"

	"go.trai.ch/stencil/internal/core/domain"
)

// Evaluator is the expensive render step guarded by the invalidation gate.
//
//go:generate go run go.uber.org/mock/mockgen -source=evaluator.go -destination=mocks/mock_evaluator.go -package=mocks
type Evaluator interface {
	// Evaluate renders the compiled template with the page's parameters.
	// It must be idempotent for identical input.
	Evaluate(ctx context.Context, page *domain.Page, compilation *domain.Compilation) (*domain.RenderedOutput, error)
}
