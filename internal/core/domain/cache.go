package domain

import "time"

// RenderedOutput is the result of the evaluation step.
type RenderedOutput struct {
	// Content is the rendered document.
	Content []byte
	// Hash is the compilation hash the content was rendered from.
	Hash string
	// RenderedAt is when the evaluation completed.
	RenderedAt time.Time
}

// CacheRecord is the single-slot state of a gate.
// LastOutput is non-nil if and only if LastHash is non-empty.
type CacheRecord struct {
	LastHash   string
	LastOutput *RenderedOutput
}

// Empty reports whether no evaluation has been committed yet.
func (r CacheRecord) Empty() bool {
	return r.LastHash == "" || r.LastOutput == nil
}

// CacheConfig is captured when a gate is constructed and never changes afterwards.
type CacheConfig struct {
	CachingEnabled bool
}

// DefaultCacheConfig returns the default configuration with caching enabled.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{CachingEnabled: true}
}

// Decision is the outcome of a gate decision.
type Decision uint8

const (
	// DecisionUnknown means no decision was made because the gate was never reached.
	DecisionUnknown Decision = iota
	// DecisionCold means there was no prior record and the evaluation ran.
	DecisionCold
	// DecisionHit means the hash matched and the stored output was reused.
	DecisionHit
	// DecisionMiss means the hash changed and the evaluation ran.
	DecisionMiss
	// DecisionForced means caching is disabled and the evaluation ran.
	DecisionForced
)

// String returns the human-readable decision name.
func (d Decision) String() string {
	switch d {
	case DecisionCold:
		return "cold"
	case DecisionHit:
		return "hit"
	case DecisionMiss:
		return "miss"
	case DecisionForced:
		return "forced"
	default:
		return "unknown"
	}
}

// Evaluated reports whether the decision ran the evaluation step.
func (d Decision) Evaluated() bool {
	switch d {
	case DecisionCold, DecisionMiss, DecisionForced:
		return true
	default:
		return false
	}
}

// GateStats is a snapshot of a gate's counters.
// Evaluations is the sum of Colds, Misses and Forced; Failures is a subset of it.
type GateStats struct {
	Evaluations int64
	Colds       int64
	Hits        int64
	Misses      int64
	Forced      int64
	Failures    int64
}

// CycleReport summarizes one build cycle for a single page.
type CycleReport struct {
	Page         string
	Decision     Decision
	Hash         string
	Output       *RenderedOutput
	Evaluations  int64
	Dependencies []string
	Duration     time.Duration
}
