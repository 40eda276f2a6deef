// File: internal/analysis/sentiment/lexicon.go
package sentiment

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LexiconEntry overrides generic sentiment for one domain term.
type LexiconEntry struct {
	Term     string  `yaml:"term"`
	Polarity float64 `yaml:"polarity"`
}

// Lexicon is an ordered, read-only override table. Slice order is the scan order.
type Lexicon struct {
	entries []LexiconEntry
}

// NewLexicon validates and copies entries. Terms are lowercased.
func NewLexicon(entries []LexiconEntry) (*Lexicon, error) {
	copied := make([]LexiconEntry, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		term := strings.ToLower(strings.TrimSpace(e.Term))
		if term == "" {
			return nil, fmt.Errorf("lexicon entry %d: empty term", i)
		}
		if e.Polarity < -1 || e.Polarity > 1 {
			return nil, fmt.Errorf("lexicon entry %q: polarity %v outside [-1, 1]", term, e.Polarity)
		}
		if seen[term] {
			return nil, fmt.Errorf("lexicon entry %q: duplicate term", term)
		}
		seen[term] = true
		copied = append(copied, LexiconEntry{Term: term, Polarity: e.Polarity})
	}
	return &Lexicon{entries: copied}, nil
}

// Entries returns a copy of the table in scan order.
func (l *Lexicon) Entries() []LexiconEntry {
	out := make([]LexiconEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Lexicon) Len() int {
	return len(l.entries)
}

// Match returns the first entry whose term is a substring of lowered.
// lowered must already be lowercase.
func (l *Lexicon) Match(lowered string) (LexiconEntry, bool) {
	for _, e := range l.entries {
		if strings.Contains(lowered, e.Term) {
			return e, true
		}
	}
	return LexiconEntry{}, false
}

// DefaultEntries is the v2 mental-health table.
// Crisis terms precede positive ones so they win when both appear.
var DefaultEntries = []LexiconEntry{
	{Term: "stressed", Polarity: -0.6},
	{Term: "anxious", Polarity: -0.6},
	{Term: "depressed", Polarity: -1.0},
	{Term: "suicidal", Polarity: -1.0},
	{Term: "kill", Polarity: -1.0},
	{Term: "die", Polarity: -1.0},
	{Term: "pain", Polarity: -0.8},
	{Term: "lonely", Polarity: -0.7},
	{Term: "overwhelmed", Polarity: -0.5},
	{Term: "sad", Polarity: -0.7},
	{Term: "angry", Polarity: -0.5},
	{Term: "horrible", Polarity: -0.9},
	{Term: "terrible", Polarity: -0.9},
	{Term: "hopeless", Polarity: -1.0},
	{Term: "happy", Polarity: 0.8},
	{Term: "excited", Polarity: 0.8},
	{Term: "calm", Polarity: 0.5},
	{Term: "better", Polarity: 0.5},
	{Term: "good", Polarity: 0.6},
	{Term: "great", Polarity: 0.8},
}

// DefaultLexicon builds the table from DefaultEntries.
func DefaultLexicon() *Lexicon {
	l, err := NewLexicon(DefaultEntries)
	if err != nil {
		panic(err)
	}
	return l
}

type lexiconFile struct {
	Version string         `yaml:"version"`
	Entries []LexiconEntry `yaml:"entries"`
}

// LoadLexiconFile reads a YAML table of the form
//
//	version: v3
//	entries:
//	  - term: suicidal
//	    polarity: -1.0
//
// and returns the lexicon with its declared version, which is required.
func LoadLexiconFile(path string) (*Lexicon, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read lexicon file: %w", err)
	}

	var f lexiconFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, "", fmt.Errorf("parse lexicon file: %w", err)
	}
	version := strings.TrimSpace(f.Version)
	if version == "" {
		return nil, "", fmt.Errorf("lexicon file %s has no version", path)
	}
	if len(f.Entries) == 0 {
		return nil, "", fmt.Errorf("lexicon file %s has no entries", path)
	}

	lex, err := NewLexicon(f.Entries)
	if err != nil {
		return nil, "", err
	}
	return lex, version, nil
}
