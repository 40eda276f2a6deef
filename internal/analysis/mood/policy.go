// File: internal/analysis/mood/policy.go
package mood

import (
	"fmt"

	"github.com/iyunix/go-healchat/internal/analysis/sentiment"
	"github.com/iyunix/go-healchat/internal/domain"
)

// DefaultPolicyVersion names the built-in lexicon and thresholds.
const DefaultPolicyVersion = "v2"

// DefaultAlarmPolarity is the chat polarity below which an emergency is raised.
const DefaultAlarmPolarity = -0.5

// Policy is the single scoring configuration for the process. It is built
// once at startup and shared read-only.
type Policy struct {
	Version       string
	Scorer        *sentiment.Scorer
	Thresholds    Thresholds
	AlarmPolarity float64
}

// DefaultPolicy returns the v2 policy.
func DefaultPolicy() *Policy {
	return &Policy{
		Version:       DefaultPolicyVersion,
		Scorer:        sentiment.NewScorer(nil, nil),
		Thresholds:    DefaultThresholds,
		AlarmPolarity: DefaultAlarmPolarity,
	}
}

// Validate rejects unusable policies.
func (p *Policy) Validate() error {
	if p.Version == "" {
		return fmt.Errorf("policy version is required")
	}
	if p.Scorer == nil {
		return fmt.Errorf("policy scorer is required")
	}
	if p.AlarmPolarity < -1 || p.AlarmPolarity > 1 {
		return fmt.Errorf("alarm polarity %v outside [-1, 1]", p.AlarmPolarity)
	}
	return p.Thresholds.Validate()
}

// Evaluate aggregates texts and classifies the result.
func (p *Policy) Evaluate(texts []string) (Scores, domain.RiskLevel) {
	scores := Aggregate(p.Scorer, texts)
	return scores, p.Thresholds.Classify(scores.Stress, scores.Negative)
}

// IsAlarming reports whether a single message polarity should raise an emergency.
func (p *Policy) IsAlarming(polarity float64) bool {
	return polarity < p.AlarmPolarity
}
