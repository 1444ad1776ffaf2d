package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rxreturns/rxreturns/internal/catalog"
	"github.com/rxreturns/rxreturns/internal/domain"
	"github.com/rxreturns/rxreturns/pkg/ndc"
)

// CatalogHandler handles product catalog HTTP requests
type CatalogHandler struct {
	catalog catalog.Catalog
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(cat catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{
		catalog: cat,
	}
}

// GetProduct handles GET /api/v1/products/{ndc}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "ndc")

	normalized := ndc.Normalize(raw)
	if normalized == "" {
		respondError(w, http.StatusBadRequest, "Malformed NDC")
		return
	}

	product, err := h.catalog.Lookup(r.Context(), normalized)
	if err == catalog.ErrNotFound {
		respondError(w, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to look up product")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// Search handles GET /api/v1/products?q=&limit=
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	products, err := h.catalog.Search(r.Context(), query, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to search products")
		return
	}

	respondJSON(w, http.StatusOK, domain.ProductListResponse{
		Products: products,
		Count:    len(products),
	})
}
