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
)

// DocumentHandler handles return document metadata HTTP requests
type DocumentHandler struct {
	documentRepo *repository.DocumentRepository
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(documentRepo *repository.DocumentRepository) *DocumentHandler {
	return &DocumentHandler{
		documentRepo: documentRepo,
	}
}

// Create handles POST /api/v1/documents
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.DocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if !req.DocType.Valid() {
		respondError(w, http.StatusBadRequest, "unknown doc_type")
		return
	}
	if req.FileName == "" || req.StorageURL == "" {
		respondError(w, http.StatusBadRequest, "file_name and storage_url are required")
		return
	}

	pharmacyID := middleware.GetPharmacyID(r.Context())

	doc := &domain.Document{
		ID:            uuid.New(),
		PharmacyID:    *pharmacyID,
		ReturnOrderID: req.ReturnOrderID,
		DocType:       req.DocType,
		FileName:      req.FileName,
		ContentType:   req.ContentType,
		StorageURL:    req.StorageURL,
		UploadedAt:    time.Now().UTC(),
	}

	if err := h.documentRepo.Create(r.Context(), doc); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create document")
		return
	}

	respondJSON(w, http.StatusCreated, doc)
}

// List handles GET /api/v1/documents?return_order_id=&limit=
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	pharmacyID := middleware.GetPharmacyID(r.Context())

	var returnOrderID *uuid.UUID
	if raw := r.URL.Query().Get("return_order_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid return_order_id")
			return
		}
		returnOrderID = &id
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	docs, err := h.documentRepo.ListByPharmacy(r.Context(), *pharmacyID, returnOrderID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list documents")
		return
	}

	respondJSON(w, http.StatusOK, domain.DocumentListResponse{
		Documents: docs,
		Count:     len(docs),
	})
}

// Get handles GET /api/v1/documents/{id}
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.ownedDocument(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, doc)
}

// Delete handles DELETE /api/v1/documents/{id}
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.ownedDocument(w, r)
	if !ok {
		return
	}

	if err := h.documentRepo.Delete(r.Context(), doc.ID); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete document")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *DocumentHandler) ownedDocument(w http.ResponseWriter, r *http.Request) (*domain.Document, bool) {
	docID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid document ID")
		return nil, false
	}

	doc, err := h.documentRepo.FindByID(r.Context(), docID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load document")
		return nil, false
	}
	if doc == nil {
		respondError(w, http.StatusNotFound, "Document not found")
		return nil, false
	}

	pharmacyID := middleware.GetPharmacyID(r.Context())
	if doc.PharmacyID != *pharmacyID {
		respondError(w, http.StatusForbidden, "You can only access your own documents")
		return nil, false
	}

	return doc, true
}
