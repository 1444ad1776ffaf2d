package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/rxreturns/rxreturns/internal/domain"
	"github.com/rxreturns/rxreturns/internal/service"
)

// Context keys
type contextKey string

const (
	PharmacyIDKey contextKey = "pharmacy_id"
	PharmacyKey   contextKey = "pharmacy"
)

// AuthMiddleware provides authentication middleware
type AuthMiddleware struct {
	authService *service.AuthService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authService *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Authenticate validates API key or JWT token
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var pharmacy *domain.Pharmacy
		var pharmacyID *uuid.UUID

		// Try API key first
		apiKey := r.Header.Get("X-API-Key")
		if apiKey != "" {
			p, err := m.authService.ValidateAPIKey(r.Context(), apiKey)
			if err == nil && p != nil {
				pharmacy = p
				pharmacyID = &p.ID
			}
		}

		// Try Bearer token if no API key
		if pharmacy == nil {
			authHeader := r.Header.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				token := strings.TrimPrefix(authHeader, "Bearer ")
				id, err := m.authService.ValidateToken(token)
				if err == nil && id != nil {
					pharmacyID = id
				}
			}
		}

		if pharmacyID == nil {
			http.Error(w, `{"error": "Unauthorized"}`, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), PharmacyIDKey, pharmacyID)
		if pharmacy != nil {
			ctx = context.WithValue(ctx, PharmacyKey, pharmacy)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetPharmacyID extracts the pharmacy ID from context
func GetPharmacyID(ctx context.Context) *uuid.UUID {
	if id, ok := ctx.Value(PharmacyIDKey).(*uuid.UUID); ok {
		return id
	}
	return nil
}

// GetPharmacy extracts the pharmacy from context
func GetPharmacy(ctx context.Context) *domain.Pharmacy {
	if pharmacy, ok := ctx.Value(PharmacyKey).(*domain.Pharmacy); ok {
		return pharmacy
	}
	return nil
}
