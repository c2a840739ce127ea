// Package builder runs build cycles for a single page.
//
// A cycle always re-runs the nested compilation and recomputes the compilation hash.
// Only the evaluation step is elided, and only when the invalidation gate reports a hit.
package builder

import (
	"context"
	"errors"
	"time"

	"go.trai.ch/stencil/internal/core/domain"
	"go.trai.ch/stencil/internal/core/ports"
	"go.trai.ch/stencil/internal/engine/gate"
	"go.trai.ch/stencil/internal/engine/tracker"
	"go.trai.ch/zerr"
)

// Builder owns the tracker and gate of one page.
type Builder struct {
	page          domain.Page
	compiler      ports.ChildCompiler
	fingerprinter ports.Fingerprinter
	tracer        ports.Tracer

	tracker *tracker.Tracker
	gate    *gate.Gate
}

// New creates a Builder for page. The page's cache configuration is captured here.
func New(
	page domain.Page,
	compiler ports.ChildCompiler,
	fingerprinter ports.Fingerprinter,
	evaluator ports.Evaluator,
	tracer ports.Tracer,
) *Builder {
	return &Builder{
		page:          page,
		compiler:      compiler,
		fingerprinter: fingerprinter,
		tracer:        tracer,
		tracker:       tracker.New(),
		gate:          gate.New(page.Cache, evaluator),
	}
}

// Page returns the page this builder renders.
func (b *Builder) Page() domain.Page {
	return b.page
}

// Gate exposes the page's invalidation gate for inspection.
func (b *Builder) Gate() *gate.Gate {
	return b.gate
}

// Dependencies returns the dependency paths observed by the last successful compilation.
func (b *Builder) Dependencies() []string {
	return b.tracker.Dependencies()
}

// Relevant returns the changed paths that belong to the page's tracked dependencies.
func (b *Builder) Relevant(changed []string) []string {
	return b.tracker.Filter(changed)
}

// Cycle runs one build cycle: compile, track, fingerprint, decide.
// A failed cycle never commits a new cache entry.
func (b *Builder) Cycle(ctx context.Context) (*domain.CycleReport, error) {
	start := time.Now()

	ctx, span := b.tracer.Start(ctx, b.page.Name)
	defer span.End()
	span.SetAttribute("stencil.page", b.page.Name)
	span.SetAttribute("stencil.template", b.page.EntryName())

	compilation, err := b.compile(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	b.tracker.Observe(compilation)

	hash, err := b.fingerprint(ctx, compilation)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	compilation.Hash = hash
	span.SetAttribute("stencil.hash", hash)

	output, decision, err := b.decide(ctx, compilation)
	span.SetAttribute("stencil.decision", decision.String())
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttribute("stencil.cached", !decision.Evaluated())

	return &domain.CycleReport{
		Page:         b.page.Name,
		Decision:     decision,
		Hash:         hash,
		Output:       output,
		Evaluations:  b.gate.Evaluations(),
		Dependencies: b.tracker.Dependencies(),
		Duration:     time.Since(start),
	}, nil
}

func (b *Builder) compile(ctx context.Context) (*domain.Compilation, error) {
	ctx, span := b.tracer.Start(ctx, "compile")
	defer span.End()

	compilation, err := b.compiler.Compile(ctx, b.page.Template)
	if err == nil && compilation == nil {
		err = zerr.Wrap(domain.ErrMalformedCompilation, "compiler returned no result")
	}
	if err != nil {
		span.RecordError(err)
		return nil, b.wrap(domain.ErrDependencyReadFailed, err)
	}

	span.SetAttribute("stencil.children", len(compilation.Children))
	return compilation, nil
}

func (b *Builder) fingerprint(ctx context.Context, compilation *domain.Compilation) (string, error) {
	_, span := b.tracer.Start(ctx, "fingerprint")
	defer span.End()

	hash, err := b.fingerprinter.Fingerprint(compilation)
	if err == nil && hash == "" {
		err = zerr.Wrap(domain.ErrMalformedCompilation, "empty fingerprint")
	}
	if err != nil {
		span.RecordError(err)
		return "", b.wrap(domain.ErrHashComputationFailed, err)
	}
	return hash, nil
}

func (b *Builder) decide(
	ctx context.Context,
	compilation *domain.Compilation,
) (*domain.RenderedOutput, domain.Decision, error) {
	ctx, span := b.tracer.Start(ctx, "evaluate")
	defer span.End()

	output, decision, err := b.gate.Decide(ctx, &b.page, compilation)
	span.SetAttribute("stencil.decision", decision.String())
	if err != nil {
		span.RecordError(err)
		return nil, decision, b.wrap(domain.ErrEvaluationFailed, err)
	}
	return output, decision, nil
}

// wrap tags err with the sentinel unless it already carries it, and attaches the page context.
func (b *Builder) wrap(sentinel, err error) error {
	if !errors.Is(err, sentinel) {
		err = errors.Join(sentinel, err)
	}
	wrapped := zerr.With(zerr.Wrap(err, ""), "page", b.page.Name)
	return zerr.With(wrapped, "template", b.page.EntryName())
}
