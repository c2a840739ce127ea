package gotmpl

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stencil/internal/core/ports"
)

const (
	// CompilerNodeID is the unique identifier for the template compiler Graft node.
	CompilerNodeID graft.ID = "adapter.gotmpl.compiler"
	// EvaluatorNodeID is the unique identifier for the template evaluator Graft node.
	EvaluatorNodeID graft.ID = "adapter.gotmpl.evaluator"
)

func init() {
	graft.Register(graft.Node[ports.ChildCompiler]{
		ID:        CompilerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ChildCompiler, error) {
			return NewCompiler(), nil
		},
	})

	graft.Register(graft.Node[ports.Evaluator]{
		ID:        EvaluatorNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Evaluator, error) {
			return NewEvaluator(), nil
		},
	})
}
