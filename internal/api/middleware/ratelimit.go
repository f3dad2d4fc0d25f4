package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/smartinvoice/smartinvoice/internal/service"
)

// RateLimitMiddleware provides rate limiting middleware
type RateLimitMiddleware struct {
	rateLimitService *service.RateLimitService
}

// NewRateLimitMiddleware creates a new rate limit middleware. A nil service
// disables limiting.
func NewRateLimitMiddleware(rateLimitService *service.RateLimitService) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		rateLimitService: rateLimitService,
	}
}

// RateLimit checks and enforces rate limits
func (m *RateLimitMiddleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ownerID := GetOwnerID(r.Context())
		if m.rateLimitService == nil || ownerID == "" {
			next.ServeHTTP(w, r)
			return
		}

		result, err := m.rateLimitService.CheckAndIncrement(r.Context(), ownerID)
		if err != nil {
			// Log error but don't block request
			slog.WarnContext(r.Context(), "rate limit check failed", "owner_id", ownerID, "error", err)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Daily-Limit", strconv.Itoa(result.DailyLimit))
		w.Header().Set("X-RateLimit-Daily-Used", strconv.Itoa(result.DailyUsed))
		w.Header().Set("X-RateLimit-Monthly-Limit", strconv.Itoa(result.MonthlyLimit))
		w.Header().Set("X-RateLimit-Monthly-Used", strconv.Itoa(result.MonthlyUsed))

		if !result.Allowed {
			w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfterSecs))
			writeError(w, http.StatusTooManyRequests, service.ErrRateLimitExceeded.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
