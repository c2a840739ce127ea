package builder

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/stencil/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/stencil/internal/adapters/gotmpl"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/stencil/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/stencil/internal/core/ports"
)

// NodeID is the unique identifier for the builder factory Graft node.
const NodeID graft.ID = "engine.builder"

func init() {
	graft.Register(graft.Node[*Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			gotmpl.CompilerNodeID,
			gotmpl.EvaluatorNodeID,
			fs.HasherNodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Factory, error) {
			compiler, err := graft.Dep[ports.ChildCompiler](ctx)
			if err != nil {
				return nil, err
			}
			evaluator, err := graft.Dep[ports.Evaluator](ctx)
			if err != nil {
				return nil, err
			}
			fingerprinter, err := graft.Dep[ports.Fingerprinter](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			return NewFactory(compiler, fingerprinter, evaluator, tracer), nil
		},
	})
}
