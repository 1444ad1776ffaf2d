package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rxreturns/rxreturns/internal/api/middleware"
	"github.com/rxreturns/rxreturns/internal/domain"
	"github.com/rxreturns/rxreturns/internal/repository"
	"github.com/rxreturns/rxreturns/internal/service"
)

// Default per-account rate limits for new registrations
const (
	defaultRateLimitDaily   = 1000
	defaultRateLimitMonthly = 20000
)

// PharmacyHandler handles pharmacy account HTTP requests
type PharmacyHandler struct {
	pharmacyRepo *repository.PharmacyRepository
	usageService *service.UsageService
}

// NewPharmacyHandler creates a new pharmacy handler
func NewPharmacyHandler(pharmacyRepo *repository.PharmacyRepository, usageService *service.UsageService) *PharmacyHandler {
	return &PharmacyHandler{
		pharmacyRepo: pharmacyRepo,
		usageService: usageService,
	}
}

// RegisterRequest represents a pharmacy registration request
type RegisterRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	NCPDPNumber string `json:"ncpdp_number,omitempty"`
	Plan        string `json:"plan,omitempty"`
}

// RegisterResponse represents a pharmacy registration response
type RegisterResponse struct {
	PharmacyID    string `json:"pharmacy_id"`
	Name          string `json:"name"`
	APIKey        string `json:"api_key"`
	OAuthClientID string `json:"oauth_client_id"`
	OAuthSecret   string `json:"oauth_secret"`
	Plan          string `json:"plan"`
	CreatedAt     string `json:"created_at"`
	Message       string `json:"message"`
}

// Register handles POST /api/v1/pharmacies/register
func (h *PharmacyHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, "Email is required")
		return
	}

	plan := domain.PlanBasic
	switch domain.Plan(req.Plan) {
	case domain.PlanProfessional:
		plan = domain.PlanProfessional
	case domain.PlanEnterprise:
		plan = domain.PlanEnterprise
	}

	apiKey, apiKeyHash, err := service.GenerateAPIKey()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate credentials")
		return
	}

	oauthClientID := "rxr-client-" + randomToken(12)
	oauthSecret := randomToken(32)
	oauthSecretHash, err := bcrypt.GenerateFromPassword([]byte(oauthSecret), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate credentials")
		return
	}

	secretHashStr := string(oauthSecretHash)
	pharmacy := &domain.Pharmacy{
		ID:               uuid.New(),
		Name:             req.Name,
		Email:            &req.Email,
		APIKeyHash:       apiKeyHash,
		OAuthClientID:    &oauthClientID,
		OAuthSecretHash:  &secretHashStr,
		Plan:             plan,
		RateLimitDaily:   defaultRateLimitDaily,
		RateLimitMonthly: defaultRateLimitMonthly,
		CreatedAt:        time.Now().UTC(),
		IsActive:         true,
	}
	if req.NCPDPNumber != "" {
		pharmacy.NCPDPNumber = &req.NCPDPNumber
	}

	if err := h.pharmacyRepo.Create(r.Context(), pharmacy); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create pharmacy")
		return
	}

	respondJSON(w, http.StatusCreated, RegisterResponse{
		PharmacyID:    pharmacy.ID.String(),
		Name:          pharmacy.Name,
		APIKey:        apiKey,
		OAuthClientID: oauthClientID,
		OAuthSecret:   oauthSecret,
		Plan:          string(plan),
		CreatedAt:     pharmacy.CreatedAt.Format(time.RFC3339),
		Message:       "Store these credentials securely. The API key and OAuth secret cannot be retrieved again.",
	})
}

// GetProfile handles GET /api/v1/pharmacies/me
func (h *PharmacyHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	pharmacyID := middleware.GetPharmacyID(r.Context())

	pharmacy, err := h.pharmacyRepo.FindByID(r.Context(), *pharmacyID)
	if err != nil || pharmacy == nil {
		respondError(w, http.StatusNotFound, "Pharmacy not found")
		return
	}

	respondJSON(w, http.StatusOK, pharmacy)
}

// UpdateProfileRequest represents a profile update request
type UpdateProfileRequest struct {
	Name        *string `json:"name,omitempty"`
	Email       *string `json:"email,omitempty"`
	NCPDPNumber *string `json:"ncpdp_number,omitempty"`
}

// UpdateProfile handles PATCH /api/v1/pharmacies/me
func (h *PharmacyHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	pharmacyID := middleware.GetPharmacyID(r.Context())

	pharmacy, err := h.pharmacyRepo.FindByID(r.Context(), *pharmacyID)
	if err != nil || pharmacy == nil {
		respondError(w, http.StatusNotFound, "Pharmacy not found")
		return
	}

	if req.Name != nil && *req.Name != "" {
		pharmacy.Name = *req.Name
	}
	if req.Email != nil {
		pharmacy.Email = req.Email
	}
	if req.NCPDPNumber != nil {
		pharmacy.NCPDPNumber = req.NCPDPNumber
	}

	if err := h.pharmacyRepo.Update(r.Context(), pharmacy); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update pharmacy")
		return
	}

	respondJSON(w, http.StatusOK, pharmacy)
}

// RegenerateAPIKey handles POST /api/v1/pharmacies/me/regenerate-api-key
func (h *PharmacyHandler) RegenerateAPIKey(w http.ResponseWriter, r *http.Request) {
	pharmacyID := middleware.GetPharmacyID(r.Context())

	apiKey, apiKeyHash, err := service.GenerateAPIKey()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate API key")
		return
	}

	if err := h.pharmacyRepo.UpdateAPIKeyHash(r.Context(), *pharmacyID, apiKeyHash); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save API key")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"api_key": apiKey,
		"message": "Store this key securely. It cannot be retrieved again.",
	})
}

// GetUsageStats handles GET /api/v1/pharmacies/me/usage
func (h *PharmacyHandler) GetUsageStats(w http.ResponseWriter, r *http.Request) {
	pharmacyID := middleware.GetPharmacyID(r.Context())

	stats, err := h.usageService.GetStats(r.Context(), *pharmacyID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load usage stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// randomToken returns n bytes of URL-safe randomness
func randomToken(n int) string {
	raw := make([]byte, n)
	if _, err := rand.Read(raw); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}
