// Package matcher pairs the members of a small cohort one-to-one.
//
// Pairwise affinity blends cosine similarity of externally produced
// embeddings with the FLAMES name algorithm and optional temporal and effort
// modifiers. Mutual gender preference gates which pairs may be considered,
// and a greedy solver turns the affinity surface into a conflict-free
// pairing with relationship labels. Everything here is pure and in-memory.
package matcher

import "time"

// Gender is the normalised categorical value used for eligibility.
type Gender int

const (
	// GenderUnknown marks a value that could not be normalised. It is never valid input.
	GenderUnknown Gender = iota
	GenderMale
	GenderFemale
	// GenderAny is the wildcard preference: any gender is acceptable.
	GenderAny
)

func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	case GenderAny:
		return "any"
	default:
		return "unknown"
	}
}

// Entity is one member of the population.
type Entity struct {
	ID     int
	Name   string
	Group  string
	Gender Gender
	Target Gender
	// Embedding is nil when no vector is available; affinity then falls back
	// to the symbolic component only.
	Embedding []float32
	// Effort in (0,1], read only when HasEffort is set. An entity without
	// an effort value counts as 1.
	Effort    float64
	HasEffort bool
	// Timestamp is optional; the zero value yields no temporal contribution.
	Timestamp time.Time
}

func (e Entity) effort() float64 {
	if !e.HasEffort {
		return 1
	}
	return e.Effort
}

// PairAffinity is the derived compatibility of two entities.
type PairAffinity struct {
	Eligible bool
	// Similarity is the cosine similarity multiplied by the configured scale.
	Similarity float64
	// RawSimilarity is the unscaled cosine similarity.
	RawSimilarity float64
	Outcome       Outcome
	SymbolicRank  int
	Temporal      float64
	Effort        float64
	Score         float64
}

// NoPartner is the PartnerID of an unmatched result.
const NoPartner = -1

// MatchResult is the outcome for one entity.
type MatchResult struct {
	EntityID   int
	PartnerID  int
	Matched    bool
	Label      string
	Fate       Outcome
	Score      float64
	Similarity float64
}

func unmatched(id int, label string) MatchResult {
	return MatchResult{
		EntityID:  id,
		PartnerID: NoPartner,
		Label:     label,
	}
}
