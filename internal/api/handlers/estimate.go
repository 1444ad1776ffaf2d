package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rxreturns/rxreturns/internal/domain"
	"github.com/rxreturns/rxreturns/internal/service"
	"github.com/rxreturns/rxreturns/pkg/ndc"
)

// maxBatchItems bounds a single estimation request
const maxBatchItems = 500

// EstimateHandler handles credit estimation HTTP requests
type EstimateHandler struct {
	estimateService *service.EstimateService
}

// NewEstimateHandler creates a new estimate handler
func NewEstimateHandler(estimateService *service.EstimateService) *EstimateHandler {
	return &EstimateHandler{
		estimateService: estimateService,
	}
}

// Batch handles POST /api/v1/estimates
func (h *EstimateHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req domain.EstimateBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// An empty items list is a request-level validation error, not an
	// empty result
	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "At least one line item is required")
		return
	}

	if len(req.Items) > maxBatchItems {
		respondError(w, http.StatusBadRequest, "Too many line items in one batch")
		return
	}

	result, err := h.estimateService.EstimateBatch(r.Context(), req.Items)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to estimate batch")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ValidateNDC handles POST /api/v1/ndc/validate
func (h *EstimateHandler) ValidateNDC(w http.ResponseWriter, r *http.Request) {
	var req domain.NDCValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.NDC == "" {
		respondError(w, http.StatusBadRequest, "ndc is required")
		return
	}

	normalized := ndc.Normalize(req.NDC)
	respondJSON(w, http.StatusOK, domain.NDCValidateResponse{
		Input:      req.NDC,
		Normalized: normalized,
		Valid:      normalized != "" && ndc.IsValidFormat(normalized),
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
