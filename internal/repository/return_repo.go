package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rxreturns/rxreturns/internal/domain"
)

// ReturnRepository handles return order persistence
type ReturnRepository struct {
	db *sql.DB
}

// NewReturnRepository creates a new return repository with a shared database connection
func NewReturnRepository(db *sql.DB) *ReturnRepository {
	return &ReturnRepository{db: db}
}

// Create persists a return order and its line items in one transaction
func (r *ReturnRepository) Create(ctx context.Context, order *domain.ReturnOrder) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	orderQuery := `
		INSERT INTO return_orders (id, pharmacy_id, status, total_estimated_credit,
		                           service_fees, transportation_fees, net_credit,
		                           requires_dea_form, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = tx.ExecContext(ctx, orderQuery,
		order.ID,
		order.PharmacyID,
		order.Status,
		order.TotalEstimatedCredit,
		order.ServiceFees,
		order.TransportationFees,
		order.NetCredit,
		order.RequiresDEAForm,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create return order: %w", err)
	}

	itemQuery := `
		INSERT INTO return_order_items (id, return_order_id, ndc, product_name, lot_number,
		                                quantity, expiration_date, condition,
		                                credit_percentage, estimated_credit, eligible)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for _, item := range order.Items {
		_, err = tx.ExecContext(ctx, itemQuery,
			item.ID,
			order.ID,
			item.NDC,
			item.ProductName,
			item.LotNumber,
			item.Quantity,
			item.ExpirationDate,
			item.Condition,
			item.CreditPercentage,
			item.EstimatedCredit,
			item.Eligible,
		)
		if err != nil {
			return fmt.Errorf("failed to create return order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit return order: %w", err)
	}

	return nil
}

// FindByID finds a return order with its line items
func (r *ReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ReturnOrder, error) {
	query := `
		SELECT id, pharmacy_id, status, total_estimated_credit,
		       service_fees, transportation_fees, net_credit,
		       requires_dea_form, created_at, updated_at
		FROM return_orders
		WHERE id = $1
	`

	var order domain.ReturnOrder
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID,
		&order.PharmacyID,
		&order.Status,
		&order.TotalEstimatedCredit,
		&order.ServiceFees,
		&order.TransportationFees,
		&order.NetCredit,
		&order.RequiresDEAForm,
		&order.CreatedAt,
		&order.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find return order: %w", err)
	}

	items, err := r.findItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return &order, nil
}

func (r *ReturnRepository) findItems(ctx context.Context, orderID uuid.UUID) ([]domain.ReturnOrderItem, error) {
	query := `
		SELECT id, return_order_id, ndc, product_name, lot_number,
		       quantity, expiration_date, condition,
		       credit_percentage, estimated_credit, eligible
		FROM return_order_items
		WHERE return_order_id = $1
		ORDER BY ndc
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query return order items: %w", err)
	}
	defer rows.Close()

	var items []domain.ReturnOrderItem
	for rows.Next() {
		var item domain.ReturnOrderItem
		err := rows.Scan(
			&item.ID,
			&item.ReturnOrderID,
			&item.NDC,
			&item.ProductName,
			&item.LotNumber,
			&item.Quantity,
			&item.ExpirationDate,
			&item.Condition,
			&item.CreditPercentage,
			&item.EstimatedCredit,
			&item.Eligible,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan return order item: %w", err)
		}
		items = append(items, item)
	}

	return items, nil
}

// ListByPharmacy lists a pharmacy's return orders, newest first, without
// line items
func (r *ReturnRepository) ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID, limit int) ([]domain.ReturnOrder, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, pharmacy_id, status, total_estimated_credit,
		       service_fees, transportation_fees, net_credit,
		       requires_dea_form, created_at, updated_at
		FROM return_orders
		WHERE pharmacy_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, pharmacyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query return orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.ReturnOrder
	for rows.Next() {
		var order domain.ReturnOrder
		err := rows.Scan(
			&order.ID,
			&order.PharmacyID,
			&order.Status,
			&order.TotalEstimatedCredit,
			&order.ServiceFees,
			&order.TransportationFees,
			&order.NetCredit,
			&order.RequiresDEAForm,
			&order.CreatedAt,
			&order.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan return order: %w", err)
		}
		orders = append(orders, order)
	}

	return orders, nil
}

// UpdateStatus sets a return order's status
func (r *ReturnRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ReturnStatus) error {
	query := `
		UPDATE return_orders
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update return order status: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("return order not found")
	}

	return nil
}
