// File: internal/analysis/mood/aggregate.go
package mood

import "math"

// PolarityScorer is satisfied by *sentiment.Scorer.
type PolarityScorer interface {
	Score(text string) float64
}

// Scores is the aggregated signal for a set of texts.
type Scores struct {
	Mood            int
	Stress          int
	Negative        int
	AveragePolarity float64
}

// floorTolerance keeps values like (-0.9+1)*50 = 4.999999999999999 at 5.
const floorTolerance = 1e-9

// Aggregate scores each text and converts the mean polarity into
// mood/stress/negative. No texts means a mean of 0.
//
// Negative is binary (0 or 100): it follows the sign of the mean and is not
// a share of negative messages.
func Aggregate(scorer PolarityScorer, texts []string) Scores {
	var avg float64
	if len(texts) > 0 {
		var sum float64
		for _, t := range texts {
			sum += scorer.Score(t)
		}
		avg = sum / float64(len(texts))
	}
	return FromPolarity(avg)
}

// FromPolarity converts one mean polarity.
func FromPolarity(avg float64) Scores {
	mood := int(math.Floor((avg+1)*50 + floorTolerance))
	if mood < 0 {
		mood = 0
	}
	if mood > 100 {
		mood = 100
	}

	negative := 0
	if avg < 0 {
		negative = 100
	}

	return Scores{
		Mood:            mood,
		Stress:          100 - mood,
		Negative:        negative,
		AveragePolarity: avg,
	}
}
