package vibematch

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText applies NFKC, trims, and drops control characters other
// than newline and tab.
func NormalizeText(text string) string {
	normed := strings.TrimSpace(norm.NFKC.String(text))
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)
}

// lookupKey folds a name or class for case-insensitive comparison.
func lookupKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(NormalizeText(s)), " "))
}
