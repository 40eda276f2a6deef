// File: internal/handlers/report_handler.go
package handlers

import (
	"context"
	"net/http"

	"github.com/iyunix/go-healchat/internal/domain"
)

type ReportProvider interface {
	GetOrCreateLatestReports(ctx context.Context, userID uint) ([]domain.AnalysisReport, error)
}

type ReportHandler struct {
	ReportService ReportProvider
}

func NewReportHandler(rs ReportProvider) *ReportHandler {
	return &ReportHandler{ReportService: rs}
}

// GetReports refreshes the analysis when due and returns the history.
func (h *ReportHandler) GetReports(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	reports, err := h.ReportService.GetOrCreateLatestReports(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, "Could not load analysis reports")
		return
	}
	if reports == nil {
		reports = []domain.AnalysisReport{}
	}

	resp := map[string]interface{}{"reports": reports}
	if len(reports) > 0 {
		resp["latest"] = reports[len(reports)-1]
	}
	writeJSON(w, http.StatusOK, resp)
}
