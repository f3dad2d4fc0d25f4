package handlers

import (
	"net/http"

	"github.com/smartinvoice/smartinvoice/internal/service"
)

// UsageHandler reports the caller's request quota
type UsageHandler struct {
	rateLimitService *service.RateLimitService
}

// NewUsageHandler creates a new usage handler. A nil service reports limiting as disabled.
func NewUsageHandler(rateLimitService *service.RateLimitService) *UsageHandler {
	return &UsageHandler{rateLimitService: rateLimitService}
}

// UsageResponse is the body of GET /api/v1/usage
type UsageResponse struct {
	Enabled      bool `json:"enabled"`
	DailyUsed    int  `json:"daily_used"`
	DailyLimit   int  `json:"daily_limit"`
	MonthlyUsed  int  `json:"monthly_used"`
	MonthlyLimit int  `json:"monthly_limit"`
}

// Get handles GET /api/v1/usage
func (h *UsageHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.rateLimitService == nil {
		respondJSON(w, http.StatusOK, UsageResponse{Enabled: false})
		return
	}

	daily, monthly, err := h.rateLimitService.Usage(r.Context(), ownerID(r))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	dailyLimit, monthlyLimit := h.rateLimitService.Limits()

	respondJSON(w, http.StatusOK, UsageResponse{
		Enabled:      true,
		DailyUsed:    daily,
		DailyLimit:   dailyLimit,
		MonthlyUsed:  monthly,
		MonthlyLimit: monthlyLimit,
	})
}
