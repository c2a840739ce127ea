package ports

import "go.trai.ch/stencil/internal/core/domain"

// Fingerprinter derives the compilation hash of a nested compilation pass.
//
//go:generate go run go.uber.org/mock/mockgen -source=fingerprinter.go -destination=mocks/mock_fingerprinter.go -package=mocks
type Fingerprinter interface {
	// Fingerprint returns a deterministic token for the compiled content.
	// Nested children contribute independently of their order.
	Fingerprint(compilation *domain.Compilation) (string, error)
}
