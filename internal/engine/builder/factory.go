package builder

import (
	"go.trai.ch/stencil/internal/core/domain"
	"go.trai.ch/stencil/internal/core/ports"
)

// Factory creates builders that share the same collaborators.
type Factory struct {
	compiler      ports.ChildCompiler
	fingerprinter ports.Fingerprinter
	evaluator     ports.Evaluator
	tracer        ports.Tracer
}

// NewFactory creates a new Factory.
func NewFactory(
	compiler ports.ChildCompiler,
	fingerprinter ports.Fingerprinter,
	evaluator ports.Evaluator,
	tracer ports.Tracer,
) *Factory {
	return &Factory{
		compiler:      compiler,
		fingerprinter: fingerprinter,
		evaluator:     evaluator,
		tracer:        tracer,
	}
}

// New creates a Builder for page with a cold gate.
func (f *Factory) New(page domain.Page) *Builder {
	return New(page, f.compiler, f.fingerprinter, f.evaluator, f.tracer)
}

// NewAll creates one Builder per project page, in declaration order.
func (f *Factory) NewAll(project *domain.Project) []*Builder {
	builders := make([]*Builder, 0, len(project.Pages))
	for _, page := range project.Pages {
		builders = append(builders, f.New(page))
	}
	return builders
}
