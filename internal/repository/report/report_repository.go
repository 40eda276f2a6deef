// File: internal/repository/report/report_repository.go
package report

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/iyunix/go-healchat/internal/domain"
)

var ErrReportNotFound = errors.New("report not found")

type gormReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &gormReportRepository{db: db}
}

func (r *gormReportRepository) Create(ctx context.Context, report *domain.AnalysisReport) (*domain.AnalysisReport, error) {
	if err := validateReportInput(report); err != nil {
		log.Printf("[ReportRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		log.Printf("[ReportRepository] Database error creating report for user %d: %v", report.UserID, err)
		return nil, errors.New("database error creating report")
	}
	return report, nil
}

func (r *gormReportRepository) Latest(ctx context.Context, userID uint) (*domain.AnalysisReport, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}

	var report domain.AnalysisReport
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp desc, id desc").
		First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		log.Printf("[ReportRepository] Database error loading latest report for user %d: %v", userID, err)
		return nil, errors.New("database error fetching report")
	}
	return &report, nil
}

func (r *gormReportRepository) FindRecent(ctx context.Context, userID uint, limit int) ([]domain.AnalysisReport, error) {
	if userID == 0 {
		return nil, errors.New("invalid user ID")
	}
	if limit <= 0 {
		return nil, errors.New("invalid limit")
	}

	var reports []domain.AnalysisReport
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp desc, id desc").
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		log.Printf("[ReportRepository] Database error listing reports for user %d: %v", userID, err)
		return nil, errors.New("database error fetching reports")
	}

	for i, j := 0, len(reports)-1; i < j; i, j = i+1, j-1 {
		reports[i], reports[j] = reports[j], reports[i]
	}
	return reports, nil
}

func validateReportInput(report *domain.AnalysisReport) error {
	if report == nil {
		return errors.New("report cannot be nil")
	}
	if report.UserID == 0 {
		return errors.New("user ID is required")
	}
	if report.MoodScore < 0 || report.MoodScore > 100 {
		return fmt.Errorf("mood score %d outside 0..100", report.MoodScore)
	}
	if report.MoodScore+report.StressLevel != 100 {
		return fmt.Errorf("stress level %d does not complement mood %d", report.StressLevel, report.MoodScore)
	}
	switch report.RiskLevel {
	case domain.RiskLow, domain.RiskMedium, domain.RiskHigh:
	default:
		return fmt.Errorf("invalid risk level %q", report.RiskLevel)
	}
	if report.Timestamp.IsZero() {
		return errors.New("timestamp is required")
	}
	return nil
}
