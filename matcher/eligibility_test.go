package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGender(t *testing.T) {
	cases := map[string]Gender{
		"Male":            GenderMale,
		"  M ":            GenderMale,
		"guys":            GenderMale,
		"FEMALE":          GenderFemale,
		"ｆｅｍａｌｅ":          GenderFemale,
		"Ladies":          GenderFemale,
		"*":               GenderAny,
		"No   Preference": GenderAny,
		"Doesn’t matter":  GenderAny,
		"":                GenderUnknown,
		"robot":           GenderUnknown,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseGender(raw), "%q", raw)
	}
}

func TestGenderString(t *testing.T) {
	assert.Equal(t, "male", GenderMale.String())
	assert.Equal(t, "any", GenderAny.String())
	assert.Equal(t, "unknown", GenderUnknown.String())
}

func TestEligible(t *testing.T) {
	m := func(id int, g, target Gender) Entity {
		return Entity{ID: id, Name: "x", Gender: g, Target: target}
	}
	cases := []struct {
		name string
		a, b Entity
		want bool
	}{
		{"mutual", m(1, GenderMale, GenderFemale), m(2, GenderFemale, GenderMale), true},
		{"one way", m(1, GenderMale, GenderFemale), m(2, GenderFemale, GenderFemale), false},
		{"wildcard both", m(1, GenderMale, GenderAny), m(2, GenderMale, GenderAny), true},
		{"wildcard one side", m(1, GenderMale, GenderAny), m(2, GenderFemale, GenderMale), true},
		{"wildcard rejected", m(1, GenderMale, GenderAny), m(2, GenderFemale, GenderFemale), false},
		{"any gender needs wildcard target", m(1, GenderAny, GenderAny), m(2, GenderMale, GenderFemale), false},
		{"self", m(1, GenderMale, GenderAny), m(1, GenderMale, GenderAny), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Eligible(tc.a, tc.b))
			assert.Equal(t, tc.want, Eligible(tc.b, tc.a))
		})
	}
}
