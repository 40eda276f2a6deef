// File: internal/services/report_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iyunix/go-healchat/internal/analysis/mood"
	"github.com/iyunix/go-healchat/internal/domain"
	"github.com/iyunix/go-healchat/internal/metrics"
	"github.com/iyunix/go-healchat/internal/repository/group"
	"github.com/iyunix/go-healchat/internal/repository/message"
	"github.com/iyunix/go-healchat/internal/repository/report"
)

type ReportConfig struct {
	// Cooldown is the minimum age of the latest report before a new one is computed.
	Cooldown time.Duration
	// SourceWindow is how many recent texts are taken from each source.
	SourceWindow int
	// MinTexts is the smallest combined text count worth scoring.
	MinTexts int
	// HistoryLimit is how many reports are returned.
	HistoryLimit int
}

func (c *ReportConfig) Validate() error {
	if c.Cooldown < 0 {
		return fmt.Errorf("cooldown cannot be negative")
	}
	if c.SourceWindow <= 0 {
		return fmt.Errorf("source window must be positive")
	}
	if c.MinTexts < 1 {
		return fmt.Errorf("min texts must be at least 1")
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("history limit must be positive")
	}
	return nil
}

func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Cooldown:     10 * time.Second,
		SourceWindow: 20,
		MinTexts:     5,
		HistoryLimit: 20,
	}
}

// SentTextSource supplies the latest messages a user sent to other people.
type SentTextSource interface {
	RecentGroupTextsBySender(ctx context.Context, senderID uint, limit int) ([]string, error)
	RecentDirectTextsBySender(ctx context.Context, senderID uint, limit int) ([]string, error)
}

var _ SentTextSource = (group.GroupRepository)(nil)

type ReportService struct {
	config      *ReportConfig
	reportRepo  report.ReportRepository
	messageRepo message.MessageRepository
	sent        SentTextSource
	policy      *mood.Policy
	metrics     *metrics.Collector
	logger      Logger
	now         func() time.Time
}

func NewReportService(
	config *ReportConfig,
	reportRepo report.ReportRepository,
	messageRepo message.MessageRepository,
	sent SentTextSource,
	policy *mood.Policy,
	collector *metrics.Collector,
	logger Logger,
) (*ReportService, error) {
	if reportRepo == nil || messageRepo == nil || sent == nil {
		return nil, NewValidationError("constructor", "report, message and sent-text sources are required")
	}
	if policy == nil {
		return nil, NewValidationError("constructor", "scoring policy is required")
	}
	if config == nil {
		config = DefaultReportConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, NewValidationError("config", err.Error())
	}
	if logger == nil {
		logger = &NoOpLogger{}
	}

	return &ReportService{
		config:      config,
		reportRepo:  reportRepo,
		messageRepo: messageRepo,
		sent:        sent,
		policy:      policy,
		metrics:     collector,
		logger:      logger,
		now:         time.Now,
	}, nil
}

// SetClock replaces the time source.
func (s *ReportService) SetClock(now func() time.Time) {
	s.now = now
}

// GetOrCreateLatestReports appends a fresh report when the latest one is
// older than the cooldown, then returns the recent history oldest first.
//
// Two concurrent calls may both pass the cooldown check and both persist.
func (s *ReportService) GetOrCreateLatestReports(ctx context.Context, userID uint) ([]domain.AnalysisReport, error) {
	now := s.now()

	latest, err := s.reportRepo.Latest(ctx, userID)
	if err != nil && !errors.Is(err, report.ErrReportNotFound) {
		return nil, NewInternalError("reports", "could not load latest report", err)
	}

	if latest == nil || now.Sub(latest.Timestamp) >= s.config.Cooldown {
		if err := s.createReport(ctx, userID, now); err != nil {
			return nil, err
		}
	} else {
		s.metrics.RecordReportSkip(metrics.SkipCooldown)
	}

	reports, err := s.reportRepo.FindRecent(ctx, userID, s.config.HistoryLimit)
	if err != nil {
		return nil, NewInternalError("reports", "could not load report history", err)
	}
	return reports, nil
}

func (s *ReportService) createReport(ctx context.Context, userID uint, now time.Time) error {
	texts, err := s.collectTexts(ctx, userID)
	if err != nil {
		return NewInternalError("reports", "could not load user texts", err)
	}
	if len(texts) < s.config.MinTexts {
		s.logger.Debug("not enough texts for a report", "user_id", userID, "texts", len(texts))
		s.metrics.RecordReportSkip(metrics.SkipInsufficientData)
		return nil
	}

	scores, risk := s.policy.Evaluate(texts)
	_, err = s.reportRepo.Create(ctx, &domain.AnalysisReport{
		UserID:             userID,
		MoodScore:          scores.Mood,
		StressLevel:        scores.Stress,
		NegativePercentage: scores.Negative,
		RiskLevel:          risk,
		PolicyVersion:      s.policy.Version,
		Timestamp:          now,
	})
	if err != nil {
		return NewInternalError("reports", "could not save report", err)
	}

	s.metrics.RecordReport(string(risk))
	s.logger.Info("analysis report created",
		"user_id", userID,
		"texts", len(texts),
		"mood", scores.Mood,
		"risk", risk)
	return nil
}

// collectTexts gathers the latest non-blank texts from all three sources.
func (s *ReportService) collectTexts(ctx context.Context, userID uint) ([]string, error) {
	window := s.config.SourceWindow
	texts := make([]string, 0, 3*window)

	chats, err := s.messageRepo.FindRecentByUser(ctx, userID, window)
	if err != nil {
		return nil, err
	}
	for _, m := range chats {
		texts = appendNonBlank(texts, m.Message)
	}

	groupTexts, err := s.sent.RecentGroupTextsBySender(ctx, userID, window)
	if err != nil {
		return nil, err
	}
	for _, t := range groupTexts {
		texts = appendNonBlank(texts, t)
	}

	directTexts, err := s.sent.RecentDirectTextsBySender(ctx, userID, window)
	if err != nil {
		return nil, err
	}
	for _, t := range directTexts {
		texts = appendNonBlank(texts, t)
	}

	return texts, nil
}

func appendNonBlank(texts []string, t string) []string {
	if strings.TrimSpace(t) == "" {
		return texts
	}
	return append(texts, t)
}
