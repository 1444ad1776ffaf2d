package middleware

import (
	"fmt"
	"net/http"

	"github.com/rxreturns/rxreturns/internal/repository"
	"github.com/rxreturns/rxreturns/internal/service"
)

// RateLimitMiddleware provides rate limiting middleware
type RateLimitMiddleware struct {
	rateLimitService *service.RateLimitService
	pharmacyRepo     *repository.PharmacyRepository
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(rateLimitService *service.RateLimitService, pharmacyRepo *repository.PharmacyRepository) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		rateLimitService: rateLimitService,
		pharmacyRepo:     pharmacyRepo,
	}
}

// RateLimit checks and enforces rate limits
func (m *RateLimitMiddleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pharmacyID := GetPharmacyID(r.Context())
		if pharmacyID == nil {
			// No pharmacy ID means unauthenticated - let auth middleware handle it
			next.ServeHTTP(w, r)
			return
		}

		pharmacy, err := m.pharmacyRepo.FindByID(r.Context(), *pharmacyID)
		if err != nil || pharmacy == nil {
			http.Error(w, `{"error": "Pharmacy not found"}`, http.StatusUnauthorized)
			return
		}

		result, err := m.rateLimitService.CheckAndIncrement(
			r.Context(),
			*pharmacyID,
			pharmacy.RateLimitDaily,
			pharmacy.RateLimitMonthly,
		)

		if err != nil {
			// Redis unavailable: let the request through rather than
			// failing closed on a soft limit
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Daily-Limit", fmt.Sprintf("%d", result.DailyLimit))
		w.Header().Set("X-RateLimit-Daily-Used", fmt.Sprintf("%d", result.DailyUsed))
		w.Header().Set("X-RateLimit-Monthly-Limit", fmt.Sprintf("%d", result.MonthlyLimit))
		w.Header().Set("X-RateLimit-Monthly-Used", fmt.Sprintf("%d", result.MonthlyUsed))

		if !result.Allowed {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", result.RetryAfterSecs))
			http.Error(w, `{"error": "Rate limit exceeded"}`, http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
