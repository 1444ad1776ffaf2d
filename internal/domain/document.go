package domain

import (
	"time"

	"github.com/google/uuid"
)

// DocumentType classifies an uploaded return document
type DocumentType string

const (
	DocumentTypeDEA222          DocumentType = "DEA_222"
	DocumentTypeInvoice         DocumentType = "INVOICE"
	DocumentTypeCreditMemo      DocumentType = "CREDIT_MEMO"
	DocumentTypeDestructionCert DocumentType = "DESTRUCTION_CERT"
	DocumentTypeOther           DocumentType = "OTHER"
)

// Valid reports whether t is a known document type
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypeDEA222, DocumentTypeInvoice, DocumentTypeCreditMemo,
		DocumentTypeDestructionCert, DocumentTypeOther:
		return true
	}
	return false
}

// Document is the metadata record for a file stored externally
type Document struct {
	ID            uuid.UUID    `json:"id" db:"id"`
	PharmacyID    uuid.UUID    `json:"pharmacy_id" db:"pharmacy_id"`
	ReturnOrderID *uuid.UUID   `json:"return_order_id,omitempty" db:"return_order_id"`
	DocType       DocumentType `json:"doc_type" db:"doc_type"`
	FileName      string       `json:"file_name" db:"file_name"`
	ContentType   string       `json:"content_type,omitempty" db:"content_type"`
	StorageURL    string       `json:"storage_url" db:"storage_url"`
	UploadedAt    time.Time    `json:"uploaded_at" db:"uploaded_at"`
}

// DocumentRequest represents a create payload for a document record
type DocumentRequest struct {
	ReturnOrderID *uuid.UUID   `json:"return_order_id,omitempty"`
	DocType       DocumentType `json:"doc_type"`
	FileName      string       `json:"file_name"`
	ContentType   string       `json:"content_type,omitempty"`
	StorageURL    string       `json:"storage_url"`
}

// DocumentListResponse represents the response for listing documents
type DocumentListResponse struct {
	Documents []Document `json:"documents"`
	Count     int        `json:"count"`
}
