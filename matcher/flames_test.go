package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingStepTrajectory(t *testing.T) {
	r := ring{items: DefaultCycle, n: len(DefaultCycle)}
	want := [][]Outcome{
		{Lovers, Affection, Marriage, Enmity, Siblings},
		{Marriage, Enmity, Siblings, Lovers},
		{Lovers, Marriage, Enmity},
		{Marriage, Enmity},
		{Enmity},
	}
	for i, w := range want {
		r = r.step(7)
		assert.Equal(t, w, r.slice(), "step %d", i+1)
	}
}

func TestRingStepDropsTailOnExactMultiple(t *testing.T) {
	r := ring{items: DefaultCycle, n: len(DefaultCycle)}
	r = r.step(6)
	assert.Equal(t, []Outcome{Friends, Lovers, Affection, Marriage, Enmity}, r.slice())
}

func TestEliminate(t *testing.T) {
	cases := map[int]Outcome{
		1: Siblings,
		2: Enmity,
		6: Marriage,
		7: Enmity,
	}
	for count, want := range cases {
		assert.Equal(t, want, eliminate(DefaultCycle, count), "count %d", count)
	}
}

func TestFlamesResidualCount(t *testing.T) {
	assert.Equal(t, 0, residualCount("ab", "ba"))
	assert.Equal(t, 7, residualCount("q", "abcdef"))
	assert.Equal(t, 1, residualCount("abcdef", "abcde"))
	assert.Equal(t, 2, residualCount("aab", "b"))
	assert.Equal(t, 0, residualCount("Ann Lee", "annlee"))
}

func TestFlamesDestinyForAnagrams(t *testing.T) {
	assert.Equal(t, Destiny, Flames("ab", "ba"))
	assert.Equal(t, Destiny, Flames("Mary Ann", "army nna"))
	assert.Equal(t, 6, Destiny.Rank())
}

func TestFlamesSymmetric(t *testing.T) {
	names := []string{"Alice", "Bob", "Chidi", "Eleanor", "Tahani", "Jason", "Ｍａｒｙ", "zoë"}
	for _, a := range names {
		for _, b := range names {
			assert.Equal(t, Flames(a, b), Flames(b, a), "%s/%s", a, b)
		}
	}
}

func TestFlamesKnownOutcomes(t *testing.T) {
	assert.Equal(t, Enmity, Flames("q", "abcdef"))
	assert.Equal(t, Marriage, Flames("q", "abcde"))
	assert.Equal(t, Siblings, Flames("abcdef", "abcde"))
}

func TestFlamesWithCustomCycle(t *testing.T) {
	reversed := Cycle{Siblings, Enmity, Marriage, Affection, Lovers, Friends}
	// count 1 always keeps the last element of the starting cycle.
	assert.Equal(t, Friends, FlamesWithCycle("a", "", reversed))
	assert.Equal(t, Siblings, FlamesWithCycle("a", "", DefaultCycle))
}

func TestOutcomeRank(t *testing.T) {
	assert.Equal(t, 1, Enmity.Rank())
	assert.Equal(t, 2, Siblings.Rank())
	assert.Equal(t, 3, Friends.Rank())
	assert.Equal(t, 4, Affection.Rank())
	assert.Equal(t, 5, Marriage.Rank())
	assert.Equal(t, 6, Lovers.Rank())
	assert.Equal(t, 0, OutcomeNone.Rank())
}

func TestParseOutcome(t *testing.T) {
	o, err := ParseOutcome("f")
	require.NoError(t, err)
	assert.Equal(t, Friends, o)

	o, err = ParseOutcome(" lovers ")
	require.NoError(t, err)
	assert.Equal(t, Lovers, o)

	_, err = ParseOutcome("x")
	assert.Error(t, err)
}

func TestCycleValid(t *testing.T) {
	assert.True(t, DefaultCycle.valid())
	assert.False(t, Cycle{Friends, Friends, Affection, Marriage, Enmity, Siblings}.valid())
	assert.False(t, Cycle{Friends, Lovers, Affection, Marriage, Enmity, Destiny}.valid())
}
