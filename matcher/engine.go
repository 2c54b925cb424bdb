package matcher

import (
	"fmt"
	"math"
	"strings"
)

// Match pairs the entities and returns one result per entity, in input
// order. The configuration is validated before the entities, and the
// entities before any scoring; on error no results are returned.
func Match(entities []Entity, cfg Config) ([]MatchResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cycle, err := cfg.FlamesCycle()
	if err != nil {
		return nil, err
	}
	classifier, err := NewClassifier(cfg.Labels)
	if err != nil {
		return nil, err
	}
	if err := ValidateEntities(entities); err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return []MatchResult{}, nil
	}

	scorer := NewScorer(cfg.Weights, cycle)
	s := buildSurface(entities, scorer, cfg.Workers)

	floor := math.Inf(-1)
	if cfg.Floor.Enabled {
		floor = cfg.Floor.Value
	}
	var committed []scoredPair
	switch cfg.Strategy {
	case StrategyShortlist:
		committed = solveShortlist(s, floor, cfg.Shortlist)
	default:
		committed = solveGreedy(s, floor)
	}

	results := make([]MatchResult, len(entities))
	for i, e := range entities {
		results[i] = unmatched(e.ID, cfg.Labels.NoMatch)
	}
	for _, p := range committed {
		a := p.Affinity
		label := classifier.Label(labelInput(a))
		results[p.I] = MatchResult{
			EntityID:   entities[p.I].ID,
			PartnerID:  entities[p.J].ID,
			Matched:    true,
			Label:      label,
			Fate:       a.Outcome,
			Score:      a.Score,
			Similarity: a.RawSimilarity,
		}
		results[p.J] = MatchResult{
			EntityID:   entities[p.J].ID,
			PartnerID:  entities[p.I].ID,
			Matched:    true,
			Label:      label,
			Fate:       a.Outcome,
			Score:      a.Score,
			Similarity: a.RawSimilarity,
		}
	}
	return results, nil
}

// ValidateEntities checks every field the engine depends on and reports the
// first offending entity.
func ValidateEntities(entities []Entity) error {
	seen := make(map[int]struct{}, len(entities))
	dim := -1
	for _, e := range entities {
		if _, dup := seen[e.ID]; dup {
			return &EntityError{ID: e.ID, Field: "id", Reason: "duplicate id"}
		}
		seen[e.ID] = struct{}{}
		if strings.TrimSpace(e.Name) == "" {
			return &EntityError{ID: e.ID, Field: "name", Reason: "required"}
		}
		if e.Gender == GenderUnknown {
			return &EntityError{ID: e.ID, Field: "gender", Reason: "missing or unrecognised"}
		}
		if e.Target == GenderUnknown {
			return &EntityError{ID: e.ID, Field: "target_gender", Reason: "missing or unrecognised"}
		}
		if e.HasEffort && (math.IsNaN(e.Effort) || e.Effort <= 0 || e.Effort > 1) {
			return &EntityError{ID: e.ID, Field: "effort", Reason: fmt.Sprintf("%v is outside (0,1]", e.Effort)}
		}
		if e.Embedding == nil {
			continue
		}
		if dim < 0 {
			dim = len(e.Embedding)
		} else if len(e.Embedding) != dim {
			return &EntityError{ID: e.ID, Field: "embedding", Reason: fmt.Sprintf("dimension %d, expected %d", len(e.Embedding), dim)}
		}
		for _, v := range e.Embedding {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				return &EntityError{ID: e.ID, Field: "embedding", Reason: "non-finite value"}
			}
		}
	}
	return nil
}
