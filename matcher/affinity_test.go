package matcher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testScorer() *Scorer {
	return NewScorer(DefaultConfig().Weights, DefaultCycle)
}

func TestScoreSymmetric(t *testing.T) {
	now := time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC)
	a := Entity{ID: 1, Name: "Alice", Gender: GenderFemale, Target: GenderAny, Embedding: []float32{0.2, 0.9, 0.1}, Effort: 0.8, HasEffort: true, Timestamp: now}
	b := Entity{ID: 2, Name: "Bob", Gender: GenderMale, Target: GenderFemale, Embedding: []float32{0.7, 0.3, 0.4}, Effort: 0.6, HasEffort: true, Timestamp: now.Add(4 * time.Minute)}

	s := testScorer()
	ab := s.Score(a, b)
	ba := s.Score(b, a)
	assert.Equal(t, ab, ba)
	assert.True(t, ab.Eligible)
	assert.InDelta(t, 0.48, ab.Effort, 1e-12)
	assert.InDelta(t, 0.05/5, ab.Temporal, 1e-12)
}

func TestScoreComponents(t *testing.T) {
	a := Entity{ID: 1, Name: "q", Embedding: []float32{1, 0}}
	b := Entity{ID: 2, Name: "abcdef", Embedding: []float32{0.6, 0.8}}

	p := testScorer().Score(a, b)
	assert.Equal(t, Enmity, p.Outcome)
	assert.Equal(t, 1, p.SymbolicRank)
	assert.InDelta(t, 0.6, p.RawSimilarity, 1e-6)
	assert.InDelta(t, 0.601, p.Score, 1e-6)
}

func TestScoreWithoutEmbedding(t *testing.T) {
	a := Entity{ID: 1, Name: "q"}
	b := Entity{ID: 2, Name: "abcdef", Embedding: []float32{1, 0}}

	p := testScorer().Score(a, b)
	assert.Zero(t, p.RawSimilarity)
	assert.InDelta(t, 0.001, p.Score, 1e-12)
}

func TestScoreEffortMonotonic(t *testing.T) {
	a := Entity{ID: 1, Name: "q", Embedding: []float32{1, 0}}
	b := Entity{ID: 2, Name: "abcdef", Embedding: []float32{0.6, 0.8}}
	s := testScorer()

	prev := s.Score(a, b).Score
	a.HasEffort = true
	for _, effort := range []float64{0.9, 0.5, 0.1, 0.01} {
		a.Effort = effort
		got := s.Score(a, b).Score
		assert.Less(t, got, prev, "effort %v", effort)
		assert.Greater(t, got, 0.0)
		prev = got
	}
}

func TestScoreEffortScalesBase(t *testing.T) {
	a := Entity{ID: 1, Name: "q", Embedding: []float32{1, 0}, Effort: 0.7, HasEffort: true}
	b := Entity{ID: 2, Name: "abcdef", Embedding: []float32{0.6, 0.8}, Effort: 0.7, HasEffort: true}

	p := testScorer().Score(a, b)
	assert.InDelta(t, 0.49, p.Effort, 1e-12)
	assert.InDelta(t, 0.49*0.601, p.Score, 1e-6)
	assert.Equal(t, p, testScorer().Score(b, a))
}

func TestScoreUnsetEffortCountsAsOne(t *testing.T) {
	a := Entity{ID: 1, Name: "q", Embedding: []float32{1, 0}}
	b := Entity{ID: 2, Name: "abcdef", Embedding: []float32{0.6, 0.8}}

	p := testScorer().Score(a, b)
	assert.Equal(t, 1.0, p.Effort)
	assert.InDelta(t, 0.601, p.Score, 1e-6)
}

func TestScoreEffortIgnoredWhenDisabled(t *testing.T) {
	w := DefaultConfig().Weights
	w.UseEffort = false
	s := NewScorer(w, DefaultCycle)
	a := Entity{ID: 1, Name: "q", Embedding: []float32{1, 0}, Effort: 0.1, HasEffort: true}
	b := Entity{ID: 2, Name: "abcdef", Embedding: []float32{0.6, 0.8}}

	p := s.Score(a, b)
	assert.Equal(t, 1.0, p.Effort)
	assert.InDelta(t, 0.601, p.Score, 1e-6)
}

func TestScoreOppositeEmbeddings(t *testing.T) {
	w := DefaultConfig().Weights
	w.Symbolic = 0
	s := NewScorer(w, DefaultCycle)
	a := Entity{ID: 1, Name: "a", Embedding: []float32{1, 0}}
	b := Entity{ID: 2, Name: "b", Embedding: []float32{-1, 0}}

	assert.InDelta(t, -1.0, s.Score(a, b).Score, 1e-12)
}

func TestTemporalProximity(t *testing.T) {
	now := time.Now()
	assert.Equal(t, 1.0, temporalProximity(now, now))
	assert.InDelta(t, 0.5, temporalProximity(now, now.Add(-time.Minute)), 1e-12)
	assert.Zero(t, temporalProximity(time.Time{}, now))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Zero(t, cosineSimilarity(nil, []float32{1}))
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}
