package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rxreturns/rxreturns/internal/api/middleware"
	"github.com/rxreturns/rxreturns/internal/domain"
	"github.com/rxreturns/rxreturns/internal/repository"
	"github.com/rxreturns/rxreturns/internal/service"
	"github.com/rxreturns/rxreturns/pkg/ndc"
)

// InventoryHandler handles inventory HTTP requests
type InventoryHandler struct {
	inventoryRepo   *repository.InventoryRepository
	estimateService *service.EstimateService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryRepo *repository.InventoryRepository, estimateService *service.EstimateService) *InventoryHandler {
	return &InventoryHandler{
		inventoryRepo:   inventoryRepo,
		estimateService: estimateService,
	}
}

// parseItemRequest validates an inventory payload and returns the parsed
// expiration date
func parseItemRequest(req *domain.InventoryItemRequest) (normalized string, expiration time.Time, errMsg string) {
	normalized = ndc.Normalize(req.NDC)
	if normalized == "" {
		return "", time.Time{}, "Malformed NDC"
	}
	if req.Quantity <= 0 {
		return "", time.Time{}, "quantity must be a positive integer"
	}
	if !req.Condition.Valid() {
		return "", time.Time{}, "unknown condition"
	}

	expiration, err := time.Parse("2006-01-02", req.ExpirationDate)
	if err != nil {
		return "", time.Time{}, "expiration_date must be YYYY-MM-DD"
	}

	return normalized, expiration, ""
}

// Create handles POST /api/v1/inventory
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.InventoryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	normalized, expiration, errMsg := parseItemRequest(&req)
	if errMsg != "" {
		respondError(w, http.StatusBadRequest, errMsg)
		return
	}

	pharmacyID := middleware.GetPharmacyID(r.Context())
	now := time.Now().UTC()

	item := &domain.InventoryItem{
		ID:             uuid.New(),
		PharmacyID:     *pharmacyID,
		NDC:            normalized,
		LotNumber:      req.LotNumber,
		Quantity:       req.Quantity,
		ExpirationDate: expiration,
		Condition:      req.Condition,
		Notes:          req.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.inventoryRepo.Create(r.Context(), item); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create inventory item")
		return
	}

	respondJSON(w, http.StatusCreated, item)
}

// List handles GET /api/v1/inventory
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
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

	items, err := h.inventoryRepo.ListByPharmacy(r.Context(), *pharmacyID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list inventory")
		return
	}

	respondJSON(w, http.StatusOK, domain.InventoryListResponse{
		Items: items,
		Count: len(items),
	})
}

// Expiring handles GET /api/v1/inventory/expiring?days=N
func (h *InventoryHandler) Expiring(w http.ResponseWriter, r *http.Request) {
	pharmacyID := middleware.GetPharmacyID(r.Context())

	days := 90
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "days must be a non-negative integer")
			return
		}
		days = n
	}

	items, err := h.inventoryRepo.ListExpiring(r.Context(), *pharmacyID, days, 0)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list expiring inventory")
		return
	}

	respondJSON(w, http.StatusOK, domain.InventoryListResponse{
		Items: items,
		Count: len(items),
	})
}

// Update handles PUT /api/v1/inventory/{id}
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}

	var req domain.InventoryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	normalized, expiration, errMsg := parseItemRequest(&req)
	if errMsg != "" {
		respondError(w, http.StatusBadRequest, errMsg)
		return
	}

	item.NDC = normalized
	item.LotNumber = req.LotNumber
	item.Quantity = req.Quantity
	item.ExpirationDate = expiration
	item.Condition = req.Condition
	item.Notes = req.Notes

	if err := h.inventoryRepo.Update(r.Context(), item); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update inventory item")
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/v1/inventory/{id}
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	item, ok := h.ownedItem(w, r)
	if !ok {
		return
	}

	if err := h.inventoryRepo.Delete(r.Context(), item.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete inventory item")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Estimate handles POST /api/v1/inventory/estimate: runs the credit
// estimator over the pharmacy's stored inventory
func (h *InventoryHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	pharmacyID := middleware.GetPharmacyID(r.Context())

	items, err := h.inventoryRepo.ListByPharmacy(r.Context(), *pharmacyID, 0)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load inventory")
		return
	}

	if len(items) == 0 {
		respondError(w, http.StatusBadRequest, "No inventory items to estimate")
		return
	}

	lineItems := make([]domain.ReturnLineItem, 0, len(items))
	for _, item := range items {
		lineItems = append(lineItems, domain.ReturnLineItem{
			NDC:            item.NDC,
			Quantity:       item.Quantity,
			ExpirationDate: item.ExpirationDate.Format("2006-01-02"),
			LotNumber:      item.LotNumber,
			Condition:      item.Condition,
		})
	}

	result, err := h.estimateService.EstimateBatch(r.Context(), lineItems)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to estimate inventory")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// ownedItem loads the path item and enforces ownership; it writes the
// error response itself when returning ok=false
func (h *InventoryHandler) ownedItem(w http.ResponseWriter, r *http.Request) (*domain.InventoryItem, bool) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid inventory item ID")
		return nil, false
	}

	item, err := h.inventoryRepo.FindByID(r.Context(), itemID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load inventory item")
		return nil, false
	}
	if item == nil {
		respondError(w, http.StatusNotFound, "Inventory item not found")
		return nil, false
	}

	pharmacyID := middleware.GetPharmacyID(r.Context())
	if item.PharmacyID != *pharmacyID {
		respondError(w, http.StatusForbidden, "You can only access your own inventory")
		return nil, false
	}

	return item, true
}
