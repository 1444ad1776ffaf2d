package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rxreturns/rxreturns/internal/catalog"
	"github.com/rxreturns/rxreturns/internal/domain"
)

// ProductRepository is the Postgres-backed product catalog. It implements
// catalog.Catalog so the estimator never knows which backing store is in
// play.
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new product repository with a shared database connection
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Lookup finds a product by its normalized NDC
func (r *ProductRepository) Lookup(ctx context.Context, ndc string) (*domain.ProductRecord, error) {
	query := `
		SELECT ndc, proprietary_name, non_proprietary_name, manufacturer_name,
		       strength, dosage_form, wac, dea_schedule,
		       eligible, return_window_days, credit_percentage,
		       requires_dea_form, destruction_required, created_at
		FROM products
		WHERE ndc = $1
	`

	var product domain.ProductRecord
	err := r.db.QueryRowContext(ctx, query, ndc).Scan(
		&product.NDC,
		&product.ProprietaryName,
		&product.NonProprietaryName,
		&product.ManufacturerName,
		&product.Strength,
		&product.DosageForm,
		&product.WAC,
		&product.DEASchedule,
		&product.ReturnEligibility.Eligible,
		&product.ReturnEligibility.ReturnWindowDays,
		&product.ReturnEligibility.CreditPercentage,
		&product.ReturnEligibility.RequiresDEAForm,
		&product.ReturnEligibility.DestructionRequired,
		&product.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, catalog.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	return &product, nil
}

// Search finds products whose NDC or names match the query
func (r *ProductRepository) Search(ctx context.Context, query string, limit int) ([]domain.ProductRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	stmt := `
		SELECT ndc, proprietary_name, non_proprietary_name, manufacturer_name,
		       strength, dosage_form, wac, dea_schedule,
		       eligible, return_window_days, credit_percentage,
		       requires_dea_form, destruction_required, created_at
		FROM products
		WHERE $1 = '' OR ndc ILIKE '%' || $1 || '%'
		   OR proprietary_name ILIKE '%' || $1 || '%'
		   OR non_proprietary_name ILIKE '%' || $1 || '%'
		ORDER BY ndc
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, stmt, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	var products []domain.ProductRecord
	for rows.Next() {
		var product domain.ProductRecord
		err := rows.Scan(
			&product.NDC,
			&product.ProprietaryName,
			&product.NonProprietaryName,
			&product.ManufacturerName,
			&product.Strength,
			&product.DosageForm,
			&product.WAC,
			&product.DEASchedule,
			&product.ReturnEligibility.Eligible,
			&product.ReturnEligibility.ReturnWindowDays,
			&product.ReturnEligibility.CreditPercentage,
			&product.ReturnEligibility.RequiresDEAForm,
			&product.ReturnEligibility.DestructionRequired,
			&product.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	return products, nil
}

// Upsert inserts or replaces a product record; used by the seed importer
func (r *ProductRepository) Upsert(ctx context.Context, product *domain.ProductRecord) error {
	query := `
		INSERT INTO products (ndc, proprietary_name, non_proprietary_name, manufacturer_name,
		                      strength, dosage_form, wac, dea_schedule,
		                      eligible, return_window_days, credit_percentage,
		                      requires_dea_form, destruction_required, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
		ON CONFLICT (ndc) DO UPDATE SET
			proprietary_name = EXCLUDED.proprietary_name,
			non_proprietary_name = EXCLUDED.non_proprietary_name,
			manufacturer_name = EXCLUDED.manufacturer_name,
			strength = EXCLUDED.strength,
			dosage_form = EXCLUDED.dosage_form,
			wac = EXCLUDED.wac,
			dea_schedule = EXCLUDED.dea_schedule,
			eligible = EXCLUDED.eligible,
			return_window_days = EXCLUDED.return_window_days,
			credit_percentage = EXCLUDED.credit_percentage,
			requires_dea_form = EXCLUDED.requires_dea_form,
			destruction_required = EXCLUDED.destruction_required
	`

	_, err := r.db.ExecContext(ctx, query,
		product.NDC,
		product.ProprietaryName,
		product.NonProprietaryName,
		product.ManufacturerName,
		product.Strength,
		product.DosageForm,
		product.WAC,
		product.DEASchedule,
		product.ReturnEligibility.Eligible,
		product.ReturnEligibility.ReturnWindowDays,
		product.ReturnEligibility.CreditPercentage,
		product.ReturnEligibility.RequiresDEAForm,
		product.ReturnEligibility.DestructionRequired,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}

	return nil
}
