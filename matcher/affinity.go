package matcher

import (
	"math"
	"time"
)

// Scorer computes pairwise affinity. It holds no mutable state and is safe
// for concurrent use.
type Scorer struct {
	w     Weights
	cycle Cycle
}

// NewScorer builds a scorer for the given weights and FLAMES cycle.
func NewScorer(w Weights, cycle Cycle) *Scorer {
	return &Scorer{w: w, cycle: cycle}
}

// Score evaluates the pair. The result does not depend on argument order.
// Effort multiplies the combined base, so a low-effort side pulls the score
// toward zero while a full-effort pair keeps the base unchanged.
func (s *Scorer) Score(a, b Entity) PairAffinity {
	raw := cosineSimilarity(a.Embedding, b.Embedding)
	outcome := FlamesWithCycle(a.Name, b.Name, s.cycle)
	p := PairAffinity{
		Eligible:      Eligible(a, b),
		RawSimilarity: raw,
		Similarity:    raw * s.w.SimilarityScale,
		Outcome:       outcome,
		SymbolicRank:  outcome.Rank(),
		Temporal:      s.w.Temporal * temporalProximity(a.Timestamp, b.Timestamp),
		Effort:        1,
	}
	if s.w.UseEffort {
		p.Effort = a.effort() * b.effort()
	}
	base := p.Similarity + s.w.Symbolic*float64(p.SymbolicRank) + p.Temporal
	p.Score = p.Effort * base
	return p
}

// temporalProximity is 1/(1+minutes apart), or 0 if either time is unknown.
func temporalProximity(a, b time.Time) float64 {
	if a.IsZero() || b.IsZero() {
		return 0
	}
	minutes := math.Abs(a.Sub(b).Minutes())
	return 1 / (1 + minutes)
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		fa := float64(a[i])
		fb := float64(b[i])
		dot += fa * fb
		na += fa * fa
		nb += fb * fb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
