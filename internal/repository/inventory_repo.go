package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rxreturns/rxreturns/internal/domain"
)

// InventoryRepository handles pharmacy inventory persistence
type InventoryRepository struct {
	db *sql.DB
}

// NewInventoryRepository creates a new inventory repository with a shared database connection
func NewInventoryRepository(db *sql.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

const inventoryColumns = `id, pharmacy_id, ndc, lot_number, quantity, expiration_date,
		       condition, notes, created_at, updated_at`

// Create creates a new inventory item
func (r *InventoryRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (id, pharmacy_id, ndc, lot_number, quantity, expiration_date,
		                             condition, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.PharmacyID,
		item.NDC,
		item.LotNumber,
		item.Quantity,
		item.ExpirationDate,
		item.Condition,
		item.Notes,
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create inventory item: %w", err)
	}

	return nil
}

// FindByID finds an inventory item by ID
func (r *InventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.InventoryItem, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory_items
		WHERE id = $1
	`

	var item domain.InventoryItem
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.PharmacyID,
		&item.NDC,
		&item.LotNumber,
		&item.Quantity,
		&item.ExpirationDate,
		&item.Condition,
		&item.Notes,
		&item.CreatedAt,
		&item.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find inventory item: %w", err)
	}

	return &item, nil
}

// ListByPharmacy lists a pharmacy's inventory, soonest expiration first
func (r *InventoryRepository) ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID, limit int) ([]domain.InventoryItem, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory_items
		WHERE pharmacy_id = $1
		ORDER BY expiration_date ASC
		LIMIT $2
	`

	return r.list(ctx, query, pharmacyID, limit)
}

// ListExpiring lists a pharmacy's inventory expiring within the given
// number of days, including already expired stock
func (r *InventoryRepository) ListExpiring(ctx context.Context, pharmacyID uuid.UUID, withinDays, limit int) ([]domain.InventoryItem, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory_items
		WHERE pharmacy_id = $1
		  AND expiration_date <= NOW() + ($3 || ' days')::interval
		ORDER BY expiration_date ASC
		LIMIT $2
	`

	return r.list(ctx, query, pharmacyID, limit, withinDays)
}

func (r *InventoryRepository) list(ctx context.Context, query string, pharmacyID uuid.UUID, limit int, extra ...interface{}) ([]domain.InventoryItem, error) {
	if limit <= 0 {
		limit = 200
	}

	args := append([]interface{}{pharmacyID, limit}, extra...)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory items: %w", err)
	}
	defer rows.Close()

	var items []domain.InventoryItem
	for rows.Next() {
		var item domain.InventoryItem
		err := rows.Scan(
			&item.ID,
			&item.PharmacyID,
			&item.NDC,
			&item.LotNumber,
			&item.Quantity,
			&item.ExpirationDate,
			&item.Condition,
			&item.Notes,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, item)
	}

	return items, nil
}

// Update updates an inventory item's mutable fields
func (r *InventoryRepository) Update(ctx context.Context, item *domain.InventoryItem) error {
	query := `
		UPDATE inventory_items
		SET ndc = $2, lot_number = $3, quantity = $4, expiration_date = $5,
		    condition = $6, notes = $7, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.NDC,
		item.LotNumber,
		item.Quantity,
		item.ExpirationDate,
		item.Condition,
		item.Notes,
	)

	if err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("inventory item not found")
	}

	return nil
}

// Delete removes an inventory item
func (r *InventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM inventory_items WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("inventory item not found")
	}

	return nil
}
