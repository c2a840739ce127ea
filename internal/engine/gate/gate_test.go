package gate_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stencil/internal/core/domain"
	"go.trai.ch/stencil/internal/core/ports/mocks"
	"go.trai.ch/stencil/internal/engine/gate"
	"go.uber.org/mock/gomock"
)

var errRender = errors.New("render exploded")

func compilation(hash string) *domain.Compilation {
	return &domain.Compilation{
		Entry:  domain.NewInternedString("/site/page.html"),
		Source: []byte("<p>{{.Title}}</p>"),
		Hash:   hash,
	}
}

func page() *domain.Page {
	return &domain.Page{Name: "index", Title: "Test", Cache: domain.DefaultCacheConfig()}
}

// renderAs returns an evaluator stub that renders the compilation hash into the output.
func renderAs(prefix string) func(context.Context, *domain.Page, *domain.Compilation) (*domain.RenderedOutput, error) {
	return func(_ context.Context, _ *domain.Page, c *domain.Compilation) (*domain.RenderedOutput, error) {
		return &domain.RenderedOutput{Content: []byte(prefix + c.Hash)}, nil
	}
}

func TestGate_ColdEvaluatesOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	ev := mocks.NewMockEvaluator(ctrl)
	ev.EXPECT().Evaluate(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(renderAs("out-")).Times(1)

	g := gate.New(domain.DefaultCacheConfig(), ev)
	require.True(t, g.Record().Empty())

	out, decision, err := g.Decide(context.Background(), page(), compilation("H1"))
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionCold, decision)
	assert.Equal(t, "out-H1", string(out.Content))
	assert.Equal(t, "H1", out.Hash)
	assert.False(t, out.RenderedAt.IsZero())
	assert.Equal(t, int64(1), g.Evaluations())
	assert.Equal(t, "H1", g.CompilationHash())

	rec := g.Record()
	assert.Equal(t, "H1", rec.LastHash)
	assert.Same(t, out, rec.LastOutput)
}

func TestGate_UnchangedHashIsHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	ev := mocks.NewMockEvaluator(ctrl)
	ev.EXPECT().Evaluate(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(renderAs("out-")).Times(1)

	g := gate.New(domain.DefaultCacheConfig(), ev)
	first, _, err := g.Decide(context.Background(), page(), compilation("H1"))
	require.NoError(t, err)

	for range 3 {
		out, decision, err := g.Decide(context.Background(), page(), compilation("H1"))
		require.NoError(t, err)
		assert.Equal(t, domain.DecisionHit, decision)
		assert.Same(t, first, out, "hit must return the stored output unchanged")
	}

	assert.Equal(t, int64(1), g.Evaluations())
	stats := g.Stats()
	assert.Equal(t, int64(3), stats.Hits)
	assert.Equal(t, int64(1), stats.Colds)
	assert.Zero(t, stats.Misses)
}

func TestGate_ChangedHashEvaluatesAndCommits(t *testing.T) {
	ctrl := gomock.NewController(t)
	ev := mocks.NewMockEvaluator(ctrl)
	ev.EXPECT().Evaluate(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(renderAs("out-")).Times(2)

	g := gate.New(domain.DefaultCacheConfig(), ev)
	_, _, err := g.Decide(context.Background(), page(), compilation("H1"))
	require.NoError(t, err)

	out, decision, err := g.Decide(context.Background(), page(), compilation("H2"))
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionMiss, decision)
	assert.Equal(t, "out-H2", string(out.Content))

	rec := g.Record()
	assert.Equal(t, "H2", rec.LastHash)
	assert.Equal(t, "H2", rec.LastOutput.Hash)
	assert.Equal(t, int64(2), g.Evaluations())
}

func TestGate_CachingDisabledAlwaysEvaluates(t *testing.T) {
	ctrl := gomock.NewController(t)
	ev := mocks.NewMockEvaluator(ctrl)
	ev.EXPECT().Evaluate(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(renderAs("out-")).Times(4)

	g := gate.New(domain.CacheConfig{CachingEnabled: false}, ev)
	assert.False(t, g.CachingEnabled())

	decisions := make([]domain.Decision, 0, 4)
	for range 4 {
		_, d, err := g.Decide(context.Background(), page(), compilation("H1"))
		require.NoError(t, err)
		decisions = append(decisions, d)
	}

	assert.Equal(t, []domain.Decision{
		domain.DecisionCold, domain.DecisionForced, domain.DecisionForced, domain.DecisionForced,
	}, decisions)
	assert.Equal(t, int64(4), g.Evaluations())
	assert.Equal(t, "H1", g.Record().LastHash)
	stats := g.Stats()
	assert.Equal(t, int64(1), stats.Colds)
	assert.Equal(t, int64(3), stats.Forced)
	assert.Zero(t, stats.Misses)
}

func TestGate_FailedEvaluationLeavesRecordUntouched(t *testing.T) {
	ctrl := gomock.NewController(t)
	ev := mocks.NewMockEvaluator(ctrl)
	gomock.InOrder(
		ev.EXPECT().Evaluate(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(renderAs("out-")),
		ev.EXPECT().Evaluate(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errRender),
		ev.EXPECT().Evaluate(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(renderAs("retry-")),
	)

	g := gate.New(domain.DefaultCacheConfig(), ev)
	first, _, err := g.Decide(context.Background(), page(), compilation("H1"))
	require.NoError(t, err)

	out, decision, err := g.Decide(context.Background(), page(), compilation("H2"))
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Equal(t, domain.DecisionMiss, decision)
	require.ErrorIs(t, err, domain.ErrEvaluationFailed)
	require.ErrorIs(t, err, errRender)

	rec := g.Record()
	assert.Equal(t, "H1", rec.LastHash)
	assert.Same(t, first, rec.LastOutput)
	assert.Equal(t, "H2", g.CompilationHash())

	// Retrying with the same hash must evaluate again, never report a stale hit.
	out, decision, err = g.Decide(context.Background(), page(), compilation("H2"))
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionMiss, decision)
	assert.Equal(t, "retry-H2", string(out.Content))
	assert.Equal(t, int64(3), g.Evaluations())
	stats := g.Stats()
	assert.Equal(t, int64(1), stats.Failures)
	assert.Equal(t, int64(1), stats.Colds)
	assert.Equal(t, int64(2), stats.Misses)
}

func TestGate_FailedColdEvaluationStaysCold(t *testing.T) {
	ctrl := gomock.NewController(t)
	ev := mocks.NewMockEvaluator(ctrl)
	ev.EXPECT().Evaluate(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errRender)
	ev.EXPECT().Evaluate(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	g := gate.New(domain.DefaultCacheConfig(), ev)

	_, decision, err := g.Decide(context.Background(), page(), compilation("H1"))
	require.ErrorIs(t, err, domain.ErrEvaluationFailed)
	assert.Equal(t, domain.DecisionCold, decision)
	assert.True(t, g.Record().Empty())

	_, decision, err = g.Decide(context.Background(), page(), compilation("H1"))
	require.ErrorIs(t, err, domain.ErrEvaluationFailed, "nil output counts as a failure")
	assert.Equal(t, domain.DecisionCold, decision)
	assert.True(t, g.Record().Empty())
}

func TestGate_MissingHash(t *testing.T) {
	ctrl := gomock.NewController(t)
	ev := mocks.NewMockEvaluator(ctrl)

	g := gate.New(domain.DefaultCacheConfig(), ev)

	_, decision, err := g.Decide(context.Background(), page(), compilation(""))
	require.ErrorIs(t, err, domain.ErrHashComputationFailed)
	assert.Equal(t, domain.DecisionUnknown, decision)

	_, decision, err = g.Decide(context.Background(), page(), nil)
	require.ErrorIs(t, err, domain.ErrHashComputationFailed)
	assert.Equal(t, domain.DecisionUnknown, decision)

	assert.Zero(t, g.Evaluations())
	assert.Equal(t, domain.GateStats{}, g.Stats())
	assert.Empty(t, g.CompilationHash())
}

func TestGate_ClockStampsOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	ev := mocks.NewMockEvaluator(ctrl)
	ev.EXPECT().Evaluate(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(renderAs(""))

	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	g := gate.New(domain.DefaultCacheConfig(), ev, gate.WithClock(func() time.Time { return fixed }))

	out, _, err := g.Decide(context.Background(), page(), compilation("H1"))
	require.NoError(t, err)
	assert.Equal(t, fixed, out.RenderedAt)
}

// TestGate_EditSequence runs the sequence: build, no-op rebuild, edit, no-op rebuild, revert.
func TestGate_EditSequence(t *testing.T) {
	ctrl := gomock.NewController(t)
	ev := mocks.NewMockEvaluator(ctrl)
	ev.EXPECT().Evaluate(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(renderAs("v-")).Times(3)

	g := gate.New(domain.DefaultCacheConfig(), ev)

	steps := []struct {
		hash        string
		decision    domain.Decision
		evaluations int64
	}{
		{"A", domain.DecisionCold, 1},
		{"A", domain.DecisionHit, 1},
		{"B", domain.DecisionMiss, 2},
		{"B", domain.DecisionHit, 2},
		{"A", domain.DecisionMiss, 3},
	}

	for i, step := range steps {
		out, decision, err := g.Decide(context.Background(), page(), compilation(step.hash))
		require.NoError(t, err, "step %d", i)
		assert.Equal(t, step.decision, decision, "step %d", i)
		assert.Equal(t, step.evaluations, g.Evaluations(), "step %d", i)
		assert.Equal(t, "v-"+step.hash, string(out.Content), "step %d", i)
		assert.Equal(t, step.hash, g.CompilationHash(), "step %d", i)
	}
}

func TestGate_ConcurrentDecisionsAreSerialized(t *testing.T) {
	ctrl := gomock.NewController(t)
	ev := mocks.NewMockEvaluator(ctrl)
	ev.EXPECT().Evaluate(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(renderAs("")).Times(1)

	g := gate.New(domain.DefaultCacheConfig(), ev)

	var wg sync.WaitGroup
	for range 16 {
		wg.Go(func() {
			_, _, err := g.Decide(context.Background(), page(), compilation("H1"))
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	stats := g.Stats()
	assert.Equal(t, int64(1), stats.Evaluations)
	assert.Equal(t, int64(15), stats.Hits)
}
