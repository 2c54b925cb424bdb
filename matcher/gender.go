package matcher

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var genderSpellings = map[string]Gender{
	"m":      GenderMale,
	"male":   GenderMale,
	"man":    GenderMale,
	"men":    GenderMale,
	"boy":    GenderMale,
	"boys":   GenderMale,
	"guy":    GenderMale,
	"guys":   GenderMale,
	"he":     GenderMale,
	"him":    GenderMale,
	"f":      GenderFemale,
	"female": GenderFemale,
	"woman":  GenderFemale,
	"women":  GenderFemale,
	"girl":   GenderFemale,
	"girls":  GenderFemale,
	"lady":   GenderFemale,
	"ladies": GenderFemale,
	"she":    GenderFemale,
	"her":    GenderFemale,
	"*":      GenderAny,
	"any":    GenderAny,
	"anyone": GenderAny,
	"both":   GenderAny,
	"either": GenderAny,
	"all":    GenderAny,

	"everyone":       GenderAny,
	"no preference":  GenderAny,
	"doesn't matter": GenderAny,
}

// ParseGender maps a raw form value onto the closed Gender set.
// Spellings that are not recognised yield GenderUnknown rather than a guess.
func ParseGender(raw string) Gender {
	s := norm.NFKC.String(raw)
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	s = strings.ReplaceAll(s, "’", "'")
	if g, ok := genderSpellings[s]; ok {
		return g
	}
	return GenderUnknown
}
