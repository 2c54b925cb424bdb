package matcher

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Outcome is the relationship category produced by FLAMES.
type Outcome int

// The six cycle outcomes are ordered by rank, weakest bond first.
const (
	OutcomeNone Outcome = iota
	Enmity
	Siblings
	Friends
	Affection
	Marriage
	Lovers
	// Destiny is the degenerate result for names that cancel out completely.
	Destiny
)

var outcomeNames = map[Outcome]string{
	OutcomeNone: "",
	Enmity:      "Enmity",
	Siblings:    "Siblings",
	Friends:     "Friends",
	Affection:   "Affection",
	Marriage:    "Marriage",
	Lovers:      "Lovers",
	Destiny:     "Destiny",
}

func (o Outcome) String() string {
	return outcomeNames[o]
}

// Rank returns the affinity rank in 1..6. Destiny shares the top tier.
func (o Outcome) Rank() int {
	switch {
	case o == Destiny:
		return int(Lovers)
	case o >= Enmity && o <= Lovers:
		return int(o)
	default:
		return 0
	}
}

// ParseOutcome resolves a label, or its initial letter, to an outcome.
func ParseOutcome(s string) (Outcome, error) {
	s = strings.TrimSpace(s)
	for o, name := range outcomeNames {
		if o == OutcomeNone {
			continue
		}
		if strings.EqualFold(s, name) {
			return o, nil
		}
	}
	switch strings.ToUpper(s) {
	case "F":
		return Friends, nil
	case "L":
		return Lovers, nil
	case "A":
		return Affection, nil
	case "M":
		return Marriage, nil
	case "E":
		return Enmity, nil
	case "S":
		return Siblings, nil
	}
	return OutcomeNone, fmt.Errorf("unknown outcome %q", s)
}

// Cycle is the ordered list the elimination runs over.
type Cycle [6]Outcome

// DefaultCycle spells F-L-A-M-E-S.
var DefaultCycle = Cycle{Friends, Lovers, Affection, Marriage, Enmity, Siblings}

func (c Cycle) valid() bool {
	var seen [Lovers + 1]bool
	for _, o := range c {
		if o < Enmity || o > Lovers || seen[o] {
			return false
		}
		seen[o] = true
	}
	return true
}

// Flames runs the name algorithm over the default cycle.
func Flames(a, b string) Outcome {
	return FlamesWithCycle(a, b, DefaultCycle)
}

// FlamesWithCycle runs the name algorithm over the given cycle order.
func FlamesWithCycle(a, b string, cycle Cycle) Outcome {
	count := residualCount(a, b)
	if count == 0 {
		return Destiny
	}
	return eliminate(cycle, count)
}

// residualCount cancels common characters one for one and returns how many
// characters survive on both sides together.
func residualCount(a, b string) int {
	counts := make(map[rune]int)
	for _, r := range normalizeName(a) {
		counts[r]++
	}
	for _, r := range normalizeName(b) {
		counts[r]--
	}
	total := 0
	for _, n := range counts {
		if n < 0 {
			n = -n
		}
		total += n
	}
	return total
}

func normalizeName(s string) string {
	s = strings.ToLower(norm.NFKC.String(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// ring is the live window of the elimination: a fixed buffer and its length.
type ring struct {
	items [6]Outcome
	n     int
}

func (r ring) slice() []Outcome {
	return r.items[:r.n]
}

// step removes one element. For idx >= 0 the survivors are rotated so that
// the element after idx comes first; for count mod n == 0 the tail is dropped.
func (r ring) step(count int) ring {
	idx := count%r.n - 1
	if idx < 0 {
		r.n--
		return r
	}
	var next ring
	next.n = copy(next.items[:], r.items[idx+1:r.n])
	next.n += copy(next.items[next.n:], r.items[:idx])
	return next
}

func eliminate(cycle Cycle, count int) Outcome {
	r := ring{items: cycle, n: len(cycle)}
	for r.n > 1 {
		r = r.step(count)
	}
	return r.items[0]
}
