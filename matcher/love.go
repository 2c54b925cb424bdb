package matcher

import (
	"strings"
	"unicode/utf16"
)

// LovePercent is the name-pair love calculator: a 32-bit rolling hash of
// both names, lowercased and concatenated, reduced to 0..100. It depends on
// argument order, like the form it comes from.
func LovePercent(a, b string) int {
	var h int32
	for _, u := range utf16.Encode([]rune(strings.ToLower(a + b))) {
		h = h<<5 - h + int32(u)
	}
	p := int(h % 101)
	if p < 0 {
		p = -p
	}
	return p
}

// LoveLabels is the message ladder for love percentages.
func LoveLabels() LabelConfig {
	return LabelConfig{
		Bands: []Band{
			{Min: 90, Label: "Soulmates!"},
			{Min: 80, Label: "Deeply Connected"},
			{Min: 70, Label: "Strong Bond"},
			{Min: 60, Label: "Good Match"},
			{Min: 50, Label: "Potential"},
			{Min: 40, Label: "Promising"},
			{Min: 30, Label: "Could Work"},
			{Min: 20, Label: "Interesting"},
			{Min: 10, Label: "Maybe..."},
		},
		Fallback: "Keep Looking",
		NoMatch:  "Keep Looking",
	}
}

// LoveResult is one love-calculator reading.
type LoveResult struct {
	Percent int
	Message string
}

// LoveCalculator pairs LovePercent with a message ladder.
type LoveCalculator struct {
	labels *Classifier
}

// NewLoveCalculator validates the ladder. Use LoveLabels for the stock one.
func NewLoveCalculator(labels LabelConfig) (*LoveCalculator, error) {
	c, err := NewClassifier(labels)
	if err != nil {
		return nil, err
	}
	return &LoveCalculator{labels: c}, nil
}

// Calculate reads the pair.
func (l *LoveCalculator) Calculate(a, b string) LoveResult {
	p := LovePercent(a, b)
	return LoveResult{Percent: p, Message: l.labels.LabelValue(float64(p))}
}
