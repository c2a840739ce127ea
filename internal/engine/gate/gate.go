// Package gate implements the invalidation gate that decides whether a template
// must be evaluated again or whether the previously rendered output can be reused.
package gate

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.trai.ch/stencil/internal/core/domain"
	"go.trai.ch/stencil/internal/core/ports"
	"go.trai.ch/zerr"
)

// Gate owns a single cache record for one page.
//
// A gate is COLD until its first successful evaluation, then WARM. While warm it
// reuses the stored output when the compilation hash is unchanged, unless caching
// is disabled, in which case every decision evaluates.
type Gate struct {
	cfg       domain.CacheConfig
	evaluator ports.Evaluator
	now       func() time.Time

	// mu serializes decisions so that cycle N commits or fails before cycle N+1 evaluates.
	mu              sync.Mutex
	record          domain.CacheRecord
	compilationHash string
	stats           domain.GateStats
}

// Option configures a Gate.
type Option func(*Gate)

// WithClock overrides the clock used to stamp rendered output.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		g.now = now
	}
}

// New creates a cold gate. The cache configuration is fixed for the gate's lifetime.
func New(cfg domain.CacheConfig, evaluator ports.Evaluator, opts ...Option) *Gate {
	g := &Gate{
		cfg:       cfg,
		evaluator: evaluator,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Decide returns the rendered output for the compilation, evaluating only when required.
//
// The compilation must already carry its fingerprint. On a hit the stored output is
// returned as-is and the record is not touched. On failure the record keeps its last
// committed value, so the next decision evaluates again.
func (g *Gate) Decide(
	ctx context.Context,
	page *domain.Page,
	compilation *domain.Compilation,
) (*domain.RenderedOutput, domain.Decision, error) {
	if compilation == nil || compilation.Hash == "" {
		return nil, domain.DecisionUnknown, zerr.Wrap(domain.ErrHashComputationFailed, "compilation has no hash")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	hash := compilation.Hash
	g.compilationHash = hash

	decision := g.classify(hash)
	switch decision {
	case domain.DecisionHit:
		g.stats.Hits++
		return g.record.LastOutput, decision, nil
	case domain.DecisionCold:
		g.stats.Colds++
	case domain.DecisionForced:
		g.stats.Forced++
	default:
		g.stats.Misses++
	}
	g.stats.Evaluations++

	out, err := g.evaluator.Evaluate(ctx, page, compilation)
	if err == nil && out == nil {
		err = zerr.New("evaluator returned no output")
	}
	if err != nil {
		g.stats.Failures++
		return nil, decision, errors.Join(domain.ErrEvaluationFailed, zerr.With(zerr.Wrap(err, ""), "hash", hash))
	}

	committed := &domain.RenderedOutput{
		Content:    out.Content,
		Hash:       hash,
		RenderedAt: out.RenderedAt,
	}
	if committed.RenderedAt.IsZero() {
		committed.RenderedAt = g.now()
	}

	g.record = domain.CacheRecord{
		LastHash:   hash,
		LastOutput: committed,
	}

	return committed, decision, nil
}

// classify must be called with mu held.
func (g *Gate) classify(hash string) domain.Decision {
	switch {
	case g.record.Empty():
		return domain.DecisionCold
	case !g.cfg.CachingEnabled:
		return domain.DecisionForced
	case g.record.LastHash == hash:
		return domain.DecisionHit
	default:
		return domain.DecisionMiss
	}
}

// Evaluations returns how many times the evaluation step was invoked, failed attempts included.
func (g *Gate) Evaluations() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats.Evaluations
}

// CompilationHash returns the hash of the most recent compilation passed to Decide.
func (g *Gate) CompilationHash() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.compilationHash
}

// Record returns a copy of the committed cache record.
func (g *Gate) Record() domain.CacheRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.record
}

// Stats returns a snapshot of the gate's counters.
func (g *Gate) Stats() domain.GateStats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats
}

// CachingEnabled reports the configuration the gate was constructed with.
func (g *Gate) CachingEnabled() bool {
	return g.cfg.CachingEnabled
}
