// File: internal/analysis/sentiment/pattern.go
package sentiment

import (
	"strings"
	"unicode"
)

// Analyzer produces a polarity in [-1, 1] for free text.
type Analyzer interface {
	Polarity(text string) float64
}

// AnalyzerFunc adapts a plain function to Analyzer.
type AnalyzerFunc func(text string) float64

// Polarity calls f(text).
func (f AnalyzerFunc) Polarity(text string) float64 { return f(text) }

// PatternAnalyzer averages word polarities from a general-purpose table,
// with negation and intensifier handling. Text with no sentiment word is 0.
type PatternAnalyzer struct {
	words        map[string]float64
	intensifiers map[string]float64
	negators     map[string]bool
}

// negationFactor flips and damps a negated word ("not good" is mildly negative).
const negationFactor = -0.5

// NewPatternAnalyzer returns an analyzer over the built-in word tables.
func NewPatternAnalyzer() *PatternAnalyzer {
	return &PatternAnalyzer{
		words:        generalWords,
		intensifiers: intensifierWords,
		negators:     negatorWords,
	}
}

// Polarity implements Analyzer.
func (a *PatternAnalyzer) Polarity(text string) float64 {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	var (
		sum     float64
		matched int
		negate  bool
		boost   = 1.0
	)
	for _, tok := range tokens {
		if a.isNegator(tok) {
			negate = true
			continue
		}
		if m, ok := a.intensifiers[tok]; ok {
			boost *= m
			continue
		}
		p, ok := a.words[tok]
		if !ok {
			negate = false
			boost = 1.0
			continue
		}

		v := clamp(p * boost)
		if negate {
			v *= negationFactor
		}
		sum += v
		matched++
		negate = false
		boost = 1.0
	}

	if matched == 0 {
		return 0
	}
	return clamp(sum / float64(matched))
}

func (a *PatternAnalyzer) isNegator(tok string) bool {
	return a.negators[tok] || strings.HasSuffix(tok, "n't")
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

var negatorWords = map[string]bool{
	"not":   true,
	"no":    true,
	"never": true,
}

var intensifierWords = map[string]float64{
	"very":       1.3,
	"really":     1.3,
	"so":         1.3,
	"extremely":  1.3,
	"incredibly": 1.3,
}

var generalWords = map[string]float64{
	"love":      0.5,
	"lovely":    0.5,
	"nice":      0.6,
	"wonderful": 1.0,
	"amazing":   0.6,
	"awesome":   1.0,
	"fine":      0.4,
	"okay":      0.5,
	"ok":        0.5,
	"glad":      0.5,
	"thanks":    0.2,
	"thank":     0.2,
	"joy":       0.8,
	"peaceful":  0.5,
	"hope":      0.3,
	"hopeful":   0.5,
	"relaxed":   0.4,
	"proud":     0.8,
	"fun":       0.3,
	"best":      1.0,
	"bad":       -0.7,
	"worse":     -0.4,
	"worst":     -1.0,
	"awful":     -1.0,
	"hate":      -0.8,
	"tired":     -0.4,
	"afraid":    -0.6,
	"scared":    -0.5,
	"upset":     -0.5,
	"hurt":      -0.5,
	"miserable": -1.0,
	"worried":   -0.4,
	"boring":    -1.0,
	"wrong":     -0.5,
	"failed":    -0.5,
	"alone":     -0.3,
	"crying":    -0.4,
}
