package domain

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem is a lot of stock a pharmacy tracks for eventual return
type InventoryItem struct {
	ID             uuid.UUID `json:"id" db:"id"`
	PharmacyID     uuid.UUID `json:"pharmacy_id" db:"pharmacy_id"`
	NDC            string    `json:"ndc" db:"ndc"`
	LotNumber      string    `json:"lot_number,omitempty" db:"lot_number"`
	Quantity       int       `json:"quantity" db:"quantity"`
	ExpirationDate time.Time `json:"expiration_date" db:"expiration_date"`
	Condition      Condition `json:"condition" db:"condition"`
	Notes          string    `json:"notes,omitempty" db:"notes"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// InventoryItemRequest represents a create/update payload for an
// inventory item
type InventoryItemRequest struct {
	NDC            string    `json:"ndc"`
	LotNumber      string    `json:"lot_number,omitempty"`
	Quantity       int       `json:"quantity"`
	ExpirationDate string    `json:"expiration_date"` // YYYY-MM-DD
	Condition      Condition `json:"condition"`
	Notes          string    `json:"notes,omitempty"`
}

// InventoryListResponse represents the response for listing inventory
type InventoryListResponse struct {
	Items []InventoryItem `json:"items"`
	Count int             `json:"count"`
}
