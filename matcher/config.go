package matcher

import (
	"fmt"
	"math"
)

// Strategy selects how the affinity surface is turned into pairs.
type Strategy string

const (
	// StrategyGreedy commits pairs globally in descending score order.
	StrategyGreedy Strategy = "greedy"
	// StrategyShortlist lets each entity, in input order, claim the best of
	// its top-k candidates. First claim wins.
	StrategyShortlist Strategy = "shortlist"
)

// Weights controls how the affinity components are combined.
type Weights struct {
	// SimilarityScale multiplies the cosine similarity. Must be positive.
	SimilarityScale float64 `koanf:"similarity_scale"`
	// Symbolic multiplies the FLAMES rank (1..6). Keep it small so the rank
	// only separates near ties.
	Symbolic float64 `koanf:"symbolic"`
	// Temporal multiplies 1/(1+minutes apart).
	Temporal float64 `koanf:"temporal"`
	// UseEffort gates the score by the product of both efforts.
	UseEffort bool `koanf:"use_effort"`
}

// FloorConfig stops matching once scores fall to or below Value.
type FloorConfig struct {
	Enabled bool    `koanf:"enabled"`
	Value   float64 `koanf:"value"`
}

// ShortlistConfig tunes StrategyShortlist.
type ShortlistConfig struct {
	Size         int     `koanf:"size"`
	RerankWeight float64 `koanf:"rerank_weight"`
}

// Band maps every scalar >= Min to Label.
type Band struct {
	Min   float64 `koanf:"min"`
	Label string  `koanf:"label"`
}

// LabelConfig describes the relationship label bands.
type LabelConfig struct {
	// Bands must be ordered by strictly descending Min.
	Bands    []Band `koanf:"bands"`
	Fallback string `koanf:"fallback"`
	// Destiny labels pairs whose names cancel out completely. Empty means
	// such pairs go through the bands like any other.
	Destiny string `koanf:"destiny"`
	NoMatch string `koanf:"no_match"`
}

// Config is the full engine configuration.
type Config struct {
	Strategy  Strategy        `koanf:"strategy"`
	Cycle     []string        `koanf:"cycle"`
	Weights   Weights         `koanf:"weights"`
	Floor     FloorConfig     `koanf:"floor"`
	Shortlist ShortlistConfig `koanf:"shortlist"`
	Labels    LabelConfig     `koanf:"labels"`
	// Workers bounds the scoring goroutines. Zero uses runtime.NumCPU().
	Workers int `koanf:"workers"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		Strategy: StrategyGreedy,
		Cycle:    []string{"Friends", "Lovers", "Affection", "Marriage", "Enmity", "Siblings"},
		Weights: Weights{
			SimilarityScale: 1.0,
			Symbolic:        0.001,
			Temporal:        0.05,
			UseEffort:       true,
		},
		Floor: FloorConfig{
			Enabled: true,
			Value:   0,
		},
		Shortlist: ShortlistConfig{
			Size:         3,
			RerankWeight: 0.05,
		},
		Labels: LabelConfig{
			Bands: []Band{
				{Min: 6.5, Label: "Soulmates"},
				{Min: 5.5, Label: "Deeply Connected"},
				{Min: 4.5, Label: "Strong Bond"},
				{Min: 3.5, Label: "Good Match"},
				{Min: 2.5, Label: "Potential"},
				{Min: 1.5, Label: "Could Work"},
			},
			Fallback: "Keep Looking",
			Destiny:  "Written in the Stars",
			NoMatch:  "No Match",
		},
	}
}

// Validate rejects configurations that cannot be scored. It runs before any
// entity is looked at.
func (c Config) Validate() error {
	switch c.Strategy {
	case StrategyGreedy, StrategyShortlist:
	default:
		return &ConfigError{Field: "strategy", Reason: fmt.Sprintf("unknown strategy %q", c.Strategy)}
	}
	if _, err := c.FlamesCycle(); err != nil {
		return err
	}
	w := c.Weights
	if !finite(w.SimilarityScale) || w.SimilarityScale <= 0 {
		return &ConfigError{Field: "weights.similarity_scale", Reason: "must be positive"}
	}
	if !finite(w.Symbolic) || w.Symbolic < 0 {
		return &ConfigError{Field: "weights.symbolic", Reason: "must be zero or positive"}
	}
	if !finite(w.Temporal) || w.Temporal < 0 {
		return &ConfigError{Field: "weights.temporal", Reason: "must be zero or positive"}
	}
	if !finite(c.Floor.Value) {
		return &ConfigError{Field: "floor.value", Reason: "must be finite"}
	}
	if c.Shortlist.Size < 1 {
		return &ConfigError{Field: "shortlist.size", Reason: "must be at least 1"}
	}
	if !finite(c.Shortlist.RerankWeight) || c.Shortlist.RerankWeight < 0 {
		return &ConfigError{Field: "shortlist.rerank_weight", Reason: "must be zero or positive"}
	}
	if c.Workers < 0 {
		return &ConfigError{Field: "workers", Reason: "must not be negative"}
	}
	return c.Labels.validate()
}

// FlamesCycle resolves the configured elimination order.
func (c Config) FlamesCycle() (Cycle, error) {
	var out Cycle
	if len(c.Cycle) != len(out) {
		return out, &ConfigError{Field: "cycle", Reason: fmt.Sprintf("need %d outcomes, got %d", len(out), len(c.Cycle))}
	}
	for i, name := range c.Cycle {
		o, err := ParseOutcome(name)
		if err != nil || o == Destiny {
			return out, &ConfigError{Field: "cycle", Reason: fmt.Sprintf("unknown outcome %q", name)}
		}
		out[i] = o
	}
	if !out.valid() {
		return out, &ConfigError{Field: "cycle", Reason: "must list each outcome exactly once"}
	}
	return out, nil
}

func (l LabelConfig) validate() error {
	if len(l.Bands) == 0 {
		return &ConfigError{Field: "labels.bands", Reason: "at least one band is required"}
	}
	for i, b := range l.Bands {
		if b.Label == "" {
			return &ConfigError{Field: fmt.Sprintf("labels.bands[%d].label", i), Reason: "must not be empty"}
		}
		if !finite(b.Min) {
			return &ConfigError{Field: fmt.Sprintf("labels.bands[%d].min", i), Reason: "must be finite"}
		}
		if i > 0 && b.Min >= l.Bands[i-1].Min {
			return &ConfigError{Field: fmt.Sprintf("labels.bands[%d].min", i), Reason: "bands must be strictly descending"}
		}
	}
	if l.Fallback == "" {
		return &ConfigError{Field: "labels.fallback", Reason: "must not be empty"}
	}
	if l.NoMatch == "" {
		return &ConfigError{Field: "labels.no_match", Reason: "must not be empty"}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
