package handlers

import (
	"net/http"

	"github.com/smartinvoice/smartinvoice/internal/domain"
	"github.com/smartinvoice/smartinvoice/internal/service"
	"github.com/smartinvoice/smartinvoice/internal/totals"
)

// DashboardHandler serves the dashboard summary and the totals preview
type DashboardHandler struct {
	dashboardService *service.DashboardService
	calc             *totals.Calculator
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService, calc *totals.Calculator) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		calc:             calc,
	}
}

// Summary handles GET /api/v1/dashboard
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboardService.Summary(r.Context(), ownerID(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// Totals handles POST /api/v1/totals
func (h *DashboardHandler) Totals(w http.ResponseWriter, r *http.Request) {
	var req domain.TotalsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	respondJSON(w, http.StatusOK, totals.Rounded(h.calc.Compute(req.Items)))
}
