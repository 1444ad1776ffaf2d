package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rxreturns/rxreturns/internal/domain"
)

// DocumentRepository handles return document metadata persistence
type DocumentRepository struct {
	db *sql.DB
}

// NewDocumentRepository creates a new document repository with a shared database connection
func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Create creates a new document record
func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	query := `
		INSERT INTO documents (id, pharmacy_id, return_order_id, doc_type,
		                       file_name, content_type, storage_url, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID,
		doc.PharmacyID,
		doc.ReturnOrderID,
		doc.DocType,
		doc.FileName,
		doc.ContentType,
		doc.StorageURL,
		doc.UploadedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	return nil
}

// FindByID finds a document by ID
func (r *DocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	query := `
		SELECT id, pharmacy_id, return_order_id, doc_type,
		       file_name, content_type, storage_url, uploaded_at
		FROM documents
		WHERE id = $1
	`

	var doc domain.Document
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID,
		&doc.PharmacyID,
		&doc.ReturnOrderID,
		&doc.DocType,
		&doc.FileName,
		&doc.ContentType,
		&doc.StorageURL,
		&doc.UploadedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find document: %w", err)
	}

	return &doc, nil
}

// ListByPharmacy lists a pharmacy's documents, optionally filtered by
// return order, newest first
func (r *DocumentRepository) ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID, returnOrderID *uuid.UUID, limit int) ([]domain.Document, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, pharmacy_id, return_order_id, doc_type,
		       file_name, content_type, storage_url, uploaded_at
		FROM documents
		WHERE pharmacy_id = $1
		  AND ($2::uuid IS NULL OR return_order_id = $2)
		ORDER BY uploaded_at DESC
		LIMIT $3
	`

	rows, err := r.db.QueryContext(ctx, query, pharmacyID, returnOrderID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var doc domain.Document
		err := rows.Scan(
			&doc.ID,
			&doc.PharmacyID,
			&doc.ReturnOrderID,
			&doc.DocType,
			&doc.FileName,
			&doc.ContentType,
			&doc.StorageURL,
			&doc.UploadedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

// Delete removes a document record
func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM documents WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("document not found")
	}

	return nil
}
