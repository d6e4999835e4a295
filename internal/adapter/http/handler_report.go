package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/farmdesk/farmdesk/internal/cache"
	"github.com/farmdesk/farmdesk/internal/domain"
)

// ReportUseCase defines the behavior the handler depends on
type ReportUseCase interface {
	SalesSummary(ctx context.Context, from, to time.Time, actorID string) cache.Result[*domain.SalesSummary]
}

// ReportHandler handles HTTP requests for reports
type ReportHandler struct {
	reportUseCase ReportUseCase
	auth          *AuthMiddleware
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportUseCase ReportUseCase, auth *AuthMiddleware) *ReportHandler {
	return &ReportHandler{
		reportUseCase: reportUseCase,
		auth:          auth,
	}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/v1/reports/sales", h.auth.RequireAuth(h.SalesSummary)).Methods("GET")
}

// SalesSummary handles the sales report for a date window
func (h *ReportHandler) SalesSummary(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseDateWindow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
		return
	}

	actor := ActorFromContext(r.Context())
	result := h.reportUseCase.SalesSummary(r.Context(), from, to, actor.ID)
	writeSuccessWithMeta(w, http.StatusOK, "Sales summary retrieved successfully", result.Data, resultMeta(result.Source, result.StoredAt))
}
