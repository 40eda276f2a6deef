// File: internal/analysis/mood/risk.go
package mood

import (
	"fmt"

	"github.com/iyunix/go-healchat/internal/domain"
)

// Thresholds are the risk tier boundaries. Comparisons are strict (>).
type Thresholds struct {
	HighStress     int
	HighNegative   int
	MediumStress   int
	MediumNegative int
}

// DefaultThresholds is the v2 tiering.
var DefaultThresholds = Thresholds{
	HighStress:     80,
	HighNegative:   70,
	MediumStress:   50,
	MediumNegative: 40,
}

// Validate checks that the tiers are ordered and inside 0..100.
func (t Thresholds) Validate() error {
	for name, v := range map[string]int{
		"high stress":     t.HighStress,
		"high negative":   t.HighNegative,
		"medium stress":   t.MediumStress,
		"medium negative": t.MediumNegative,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("%s threshold %d outside 0..100", name, v)
		}
	}
	if t.MediumStress > t.HighStress {
		return fmt.Errorf("medium stress threshold %d above high %d", t.MediumStress, t.HighStress)
	}
	if t.MediumNegative > t.HighNegative {
		return fmt.Errorf("medium negative threshold %d above high %d", t.MediumNegative, t.HighNegative)
	}
	return nil
}

// Classify maps stress and negative into a tier; the first matching rule wins.
// negative is binary today, but it is compared against its own thresholds
// so a continuous value drops in unchanged.
func (t Thresholds) Classify(stress, negative int) domain.RiskLevel {
	switch {
	case stress > t.HighStress || negative > t.HighNegative:
		return domain.RiskHigh
	case stress > t.MediumStress || negative > t.MediumNegative:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// Classify uses DefaultThresholds.
func Classify(stress, negative int) domain.RiskLevel {
	return DefaultThresholds.Classify(stress, negative)
}
