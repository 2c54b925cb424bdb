package vibematch

import "sync"

// ColumnCandidates lists the header names tried, case-insensitively, for
// each submission field.
type ColumnCandidates struct {
	Index  []string `koanf:"index"`
	Name   []string `koanf:"name"`
	Group  []string `koanf:"group"`
	Gender []string `koanf:"gender"`
	Target []string `koanf:"target"`
	Text   []string `koanf:"text"`
	Time   []string `koanf:"time"`
	Effort []string `koanf:"effort"`
}

var (
	columnCandidatesMu  sync.RWMutex
	activeColumnOptions = defaultColumnCandidates()
)

func defaultColumnCandidates() ColumnCandidates {
	return ColumnCandidates{
		Index:  []string{"id", "index", "no", "#"},
		Name:   []string{"name", "username", "full name", "user"},
		Group:  []string{"class", "group", "section", "cohort"},
		Gender: []string{"gender", "sex", "i am"},
		Target: []string{"target_gender", "target gender", "looking_for", "looking for", "interested in", "preference"},
		Text:   []string{"pickup_line", "pickup line", "text_input", "text", "message", "feeling", "vibe"},
		Time:   []string{"created_at", "submitted_at", "timestamp", "time"},
		Effort: []string{"effort", "confidence", "weight"},
	}
}

// DefaultColumnCandidates returns the built-in column detection candidates.
func DefaultColumnCandidates() ColumnCandidates {
	return defaultColumnCandidates().clone()
}

// SetColumnCandidates replaces the candidates used during auto-detection.
// Nil fields keep the built-in defaults.
func SetColumnCandidates(candidates ColumnCandidates) {
	columnCandidatesMu.Lock()
	defer columnCandidatesMu.Unlock()
	activeColumnOptions = candidates.withDefaults()
}

func getColumnCandidates() ColumnCandidates {
	columnCandidatesMu.RLock()
	defer columnCandidatesMu.RUnlock()
	return activeColumnOptions.clone()
}

func (c ColumnCandidates) withDefaults() ColumnCandidates {
	d := defaultColumnCandidates()
	return ColumnCandidates{
		Index:  pickStrings(c.Index, d.Index),
		Name:   pickStrings(c.Name, d.Name),
		Group:  pickStrings(c.Group, d.Group),
		Gender: pickStrings(c.Gender, d.Gender),
		Target: pickStrings(c.Target, d.Target),
		Text:   pickStrings(c.Text, d.Text),
		Time:   pickStrings(c.Time, d.Time),
		Effort: pickStrings(c.Effort, d.Effort),
	}
}

func (c ColumnCandidates) clone() ColumnCandidates {
	return ColumnCandidates{
		Index:  cloneStrings(c.Index),
		Name:   cloneStrings(c.Name),
		Group:  cloneStrings(c.Group),
		Gender: cloneStrings(c.Gender),
		Target: cloneStrings(c.Target),
		Text:   cloneStrings(c.Text),
		Time:   cloneStrings(c.Time),
		Effort: cloneStrings(c.Effort),
	}
}

func pickStrings(custom, fallback []string) []string {
	if custom == nil {
		return cloneStrings(fallback)
	}
	return cloneStrings(custom)
}

func cloneStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
