package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rxreturns/rxreturns/internal/api/middleware"
	"github.com/rxreturns/rxreturns/internal/domain"
	"github.com/rxreturns/rxreturns/internal/service"
)

// ReturnHandler handles return order HTTP requests
type ReturnHandler struct {
	returnService *service.ReturnService
}

// NewReturnHandler creates a new return handler
func NewReturnHandler(returnService *service.ReturnService) *ReturnHandler {
	return &ReturnHandler{
		returnService: returnService,
	}
}

// Create handles POST /api/v1/returns
func (h *ReturnHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.ReturnOrderCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "At least one line item is required")
		return
	}

	pharmacyID := middleware.GetPharmacyID(r.Context())

	order, err := h.returnService.Create(r.Context(), *pharmacyID, req.Items)
	if err != nil {
		var batchErr *service.BatchValidationError
		if errors.As(err, &batchErr) {
			respondJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":       "One or more line items failed validation",
				"line_errors": batchErr.Lines,
			})
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to create return order")
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

// List handles GET /api/v1/returns
func (h *ReturnHandler) List(w http.ResponseWriter, r *http.Request) {
	pharmacyID := middleware.GetPharmacyID(r.Context())

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	orders, err := h.returnService.List(r.Context(), *pharmacyID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list return orders")
		return
	}

	respondJSON(w, http.StatusOK, domain.ReturnOrderListResponse{
		ReturnOrders: orders,
		Count:        len(orders),
	})
}

// Get handles GET /api/v1/returns/{id}
func (h *ReturnHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid return order ID")
		return
	}

	pharmacyID := middleware.GetPharmacyID(r.Context())

	order, err := h.returnService.Get(r.Context(), *pharmacyID, orderID)
	if err != nil {
		respondReturnError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// UpdateStatus handles POST /api/v1/returns/{id}/status
func (h *ReturnHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid return order ID")
		return
	}

	var req domain.ReturnOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Status == "" {
		respondError(w, http.StatusBadRequest, "status is required")
		return
	}

	pharmacyID := middleware.GetPharmacyID(r.Context())

	order, err := h.returnService.UpdateStatus(r.Context(), *pharmacyID, orderID, req.Status)
	if err != nil {
		respondReturnError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// Cancel handles POST /api/v1/returns/{id}/cancel
func (h *ReturnHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid return order ID")
		return
	}

	pharmacyID := middleware.GetPharmacyID(r.Context())

	order, err := h.returnService.Cancel(r.Context(), *pharmacyID, orderID)
	if err != nil {
		respondReturnError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func respondReturnError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(w, http.StatusNotFound, "Return order not found")
	case errors.Is(err, service.ErrForbidden):
		respondError(w, http.StatusForbidden, "You can only access your own return orders")
	case errors.Is(err, service.ErrInvalidTransition):
		respondError(w, http.StatusConflict, "Invalid status transition")
	default:
		respondError(w, http.StatusInternalServerError, "Failed to process return order")
	}
}
