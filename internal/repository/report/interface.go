// File: internal/repository/report/interface.go
package report

import (
	"context"

	"github.com/iyunix/go-healchat/internal/domain"
)

// ReportRepository is append-only: reports are never updated or deleted.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.AnalysisReport) (*domain.AnalysisReport, error)
	Latest(ctx context.Context, userID uint) (*domain.AnalysisReport, error)
	// FindRecent returns at most limit reports, oldest first.
	FindRecent(ctx context.Context, userID uint, limit int) ([]domain.AnalysisReport, error)
}
