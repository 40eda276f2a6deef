// File: internal/analysis/sentiment/scorer.go
package sentiment

import "strings"

// Scorer turns text into a polarity in [-1, 1].
//
// The lexicon is scanned in order and the first substring hit decides the
// polarity on its own; later hits and the fallback analyzer are ignored. Any
// single alarming term therefore forces the whole message to its value.
type Scorer struct {
	lexicon  *Lexicon
	fallback Analyzer
}

// NewScorer builds a scorer. Nil arguments select the defaults.
func NewScorer(lexicon *Lexicon, fallback Analyzer) *Scorer {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	if fallback == nil {
		fallback = NewPatternAnalyzer()
	}
	return &Scorer{lexicon: lexicon, fallback: fallback}
}

// Score returns the polarity of text.
func (s *Scorer) Score(text string) float64 {
	if entry, ok := s.lexicon.Match(strings.ToLower(text)); ok {
		return entry.Polarity
	}
	return clamp(s.fallback.Polarity(text))
}

// Lexicon returns the override table in use.
func (s *Scorer) Lexicon() *Lexicon {
	return s.lexicon
}
