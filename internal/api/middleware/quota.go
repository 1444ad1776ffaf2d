package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/rxreturns/rxreturns/internal/service"
)

// QuotaMiddleware enforces plan quotas on metered estimate endpoints
type QuotaMiddleware struct {
	usageService *service.UsageService
}

// NewQuotaMiddleware creates a new quota middleware
func NewQuotaMiddleware(usageService *service.UsageService) *QuotaMiddleware {
	return &QuotaMiddleware{
		usageService: usageService,
	}
}

// EnforceQuota checks the plan quota and records usage before processing
// a metered request
func (m *QuotaMiddleware) EnforceQuota(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pharmacyID := GetPharmacyID(r.Context())
		if pharmacyID == nil {
			// No pharmacy ID means auth middleware should have rejected this
			next.ServeHTTP(w, r)
			return
		}

		quotaError, err := m.usageService.CheckQuota(r.Context(), *pharmacyID)
		if err != nil {
			http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
			return
		}

		if quotaError != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(quotaError)
			return
		}

		// Record before processing so the request counts even if it fails
		_ = m.usageService.RecordUsage(r.Context(), *pharmacyID)

		next.ServeHTTP(w, r)
	})
}
