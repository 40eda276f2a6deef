package sentiment

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreReturnsLexiconPolarityForEachTerm(t *testing.T) {
	s := NewScorer(nil, nil)

	for i, entry := range DefaultEntries {
		text := "Today I felt " + strings.ToUpper(entry.Term) + " about everything"
		lowered := strings.ToLower(text)

		shadowed := false
		for _, earlier := range DefaultEntries[:i] {
			if strings.Contains(lowered, earlier.Term) {
				shadowed = true
				break
			}
		}
		if shadowed {
			continue
		}

		assert.Equal(t, entry.Polarity, s.Score(text), "term %q", entry.Term)
	}
}

func TestScoreFirstMatchInTableOrderWins(t *testing.T) {
	s := NewScorer(nil, nil)

	// "happy" appears first in the text but "suicidal" is earlier in the table.
	assert.Equal(t, -1.0, s.Score("I act happy but honestly I am suicidal"))
	assert.Equal(t, -0.6, s.Score("great day, a bit stressed though"))
}

func TestScoreSubstringMatching(t *testing.T) {
	s := NewScorer(nil, nil)

	// Substring semantics: "die" matches inside "diet".
	assert.Equal(t, -1.0, s.Score("starting a new diet"))
	assert.Equal(t, 0.8, s.Score("GREATNESS awaits"))
}

func TestScoreDelegatesToFallbackWithoutLexiconHit(t *testing.T) {
	var got string
	fallback := AnalyzerFunc(func(text string) float64 {
		got = text
		return 0.25
	})
	s := NewScorer(nil, fallback)

	assert.Equal(t, 0.25, s.Score("The weather is mild"))
	assert.Equal(t, "The weather is mild", got)
}

func TestScoreMatchesPatternAnalyzerWhenNoTermPresent(t *testing.T) {
	s := NewScorer(nil, nil)
	pa := NewPatternAnalyzer()

	for _, text := range []string{
		"",
		"   ",
		"what a wonderful morning",
		"this is not bad at all",
		"the worst week, I hate it",
		"just a plain sentence",
	} {
		assert.Equal(t, pa.Polarity(text), s.Score(text), "text %q", text)
	}
}

func TestScoreEmptyIsZero(t *testing.T) {
	s := NewScorer(nil, nil)
	assert.Equal(t, 0.0, s.Score(""))
}

func TestScoreClampsFallback(t *testing.T) {
	s := NewScorer(nil, AnalyzerFunc(func(string) float64 { return -7 }))
	assert.Equal(t, -1.0, s.Score("no lexicon words here"))
}

func TestPatternAnalyzer(t *testing.T) {
	pa := NewPatternAnalyzer()

	assert.Equal(t, 0.0, pa.Polarity("the table is brown"))
	assert.InDelta(t, 0.6, pa.Polarity("nice"), 1e-9)
	assert.InDelta(t, 0.78, pa.Polarity("very nice"), 1e-9)
	assert.InDelta(t, 0.35, pa.Polarity("that is not bad"), 1e-9)
	assert.InDelta(t, -0.25, pa.Polarity("it isn't okay"), 1e-9)
	assert.InDelta(t, 0.0, pa.Polarity("awful and awesome"), 1e-9)
	assert.Equal(t, 1.0, pa.Polarity("so so so wonderful"))
}

func TestNewLexiconValidation(t *testing.T) {
	_, err := NewLexicon([]LexiconEntry{{Term: "  ", Polarity: 0.1}})
	assert.Error(t, err)

	_, err = NewLexicon([]LexiconEntry{{Term: "x", Polarity: 1.5}})
	assert.Error(t, err)

	_, err = NewLexicon([]LexiconEntry{{Term: "x", Polarity: 0.1}, {Term: "X", Polarity: 0.2}})
	assert.Error(t, err)

	lex, err := NewLexicon([]LexiconEntry{{Term: " Numb ", Polarity: -0.4}})
	require.NoError(t, err)
	assert.Equal(t, []LexiconEntry{{Term: "numb", Polarity: -0.4}}, lex.Entries())
}

func TestDefaultLexiconKeepsInsertionOrder(t *testing.T) {
	entries := DefaultLexicon().Entries()
	require.Len(t, entries, len(DefaultEntries))
	assert.Equal(t, "stressed", entries[0].Term)
	assert.Equal(t, "great", entries[len(entries)-1].Term)
}

func TestLoadLexiconFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lexicon.yaml")
	content := `version: v3
entries:
  - term: Numb
    polarity: -0.4
  - term: relieved
    polarity: 0.6
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	lex, version, err := LoadLexiconFile(path)
	require.NoError(t, err)
	assert.Equal(t, "v3", version)
	assert.Equal(t, 2, lex.Len())

	s := NewScorer(lex, nil)
	assert.Equal(t, -0.4, s.Score("I feel numb"))
	// v2 terms are gone once the table is replaced.
	assert.Equal(t, NewPatternAnalyzer().Polarity("I am suicidal"), s.Score("I am suicidal"))
}

func TestLoadLexiconFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := LoadLexiconFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("version: v9\n"), 0o600))
	_, _, err = LoadLexiconFile(empty)
	assert.Error(t, err)

	unversioned := filepath.Join(dir, "unversioned.yaml")
	require.NoError(t, os.WriteFile(unversioned, []byte("entries:\n  - term: meh\n    polarity: -0.9\n"), 0o600))
	_, _, err = LoadLexiconFile(unversioned)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no version")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("version: v9\nentries:\n  - term: x\n    polarity: 3\n"), 0o600))
	_, _, err = LoadLexiconFile(bad)
	assert.Error(t, err)
}
