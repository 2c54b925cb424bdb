package matcher

// LabelInput holds the raw, unweighted components a label is derived from.
type LabelInput struct {
	Rank       int
	Similarity float64
	Destiny    bool
}

// Scalar is the value the bands are scanned against.
func (in LabelInput) Scalar() float64 {
	return float64(in.Rank) + in.Similarity
}

// Classifier maps label inputs onto relationship categories.
type Classifier struct {
	bands    []Band
	fallback string
	destiny  string
}

// NewClassifier validates the band table and builds a classifier.
func NewClassifier(cfg LabelConfig) (*Classifier, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	bands := make([]Band, len(cfg.Bands))
	copy(bands, cfg.Bands)
	return &Classifier{
		bands:    bands,
		fallback: cfg.Fallback,
		destiny:  cfg.Destiny,
	}, nil
}

// Label scans the bands from the highest threshold down.
func (c *Classifier) Label(in LabelInput) string {
	if in.Destiny && c.destiny != "" {
		return c.destiny
	}
	return c.LabelValue(in.Scalar())
}

// LabelValue scans the bands for an already computed scalar.
func (c *Classifier) LabelValue(v float64) string {
	for _, b := range c.bands {
		if v >= b.Min {
			return b.Label
		}
	}
	return c.fallback
}

func labelInput(p PairAffinity) LabelInput {
	return LabelInput{
		Rank:       p.SymbolicRank,
		Similarity: p.RawSimilarity,
		Destiny:    p.Outcome == Destiny,
	}
}
