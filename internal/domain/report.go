// File: internal/domain/report.go
package domain

import "time"

type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// AnalysisReport is an append-only snapshot of a user's recent mood.
// MoodScore + StressLevel is always 100. Timestamp is set by the caller so
// the cooldown can be driven by an injected clock.
type AnalysisReport struct {
	ID                 uint      `json:"id" gorm:"primarykey"`
	UserID             uint      `json:"user_id" gorm:"index:idx_report_user_time;not null"`
	MoodScore          int       `json:"mood_score" gorm:"not null"`
	StressLevel        int       `json:"stress_level" gorm:"not null"`
	NegativePercentage int       `json:"negative_percentage" gorm:"not null"`
	RiskLevel          RiskLevel `json:"risk_level" gorm:"size:10;not null"`
	PolicyVersion      string    `json:"policy_version" gorm:"size:20;not null"`
	Timestamp          time.Time `json:"timestamp" gorm:"index:idx_report_user_time;not null"`
}
