package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rxreturns/rxreturns/internal/domain"
)

// PharmacyRepository handles pharmacy account persistence
type PharmacyRepository struct {
	db *sql.DB
}

// NewPharmacyRepository creates a new pharmacy repository with a shared database connection
func NewPharmacyRepository(db *sql.DB) *PharmacyRepository {
	return &PharmacyRepository{db: db}
}

const pharmacyColumns = `id, name, ncpdp_number, email, api_key_hash, oauth_client_id, oauth_secret_hash,
		       plan, rate_limit_daily, rate_limit_monthly, created_at, is_active`

func scanPharmacy(row interface{ Scan(...interface{}) error }) (*domain.Pharmacy, error) {
	var pharmacy domain.Pharmacy
	err := row.Scan(
		&pharmacy.ID,
		&pharmacy.Name,
		&pharmacy.NCPDPNumber,
		&pharmacy.Email,
		&pharmacy.APIKeyHash,
		&pharmacy.OAuthClientID,
		&pharmacy.OAuthSecretHash,
		&pharmacy.Plan,
		&pharmacy.RateLimitDaily,
		&pharmacy.RateLimitMonthly,
		&pharmacy.CreatedAt,
		&pharmacy.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return &pharmacy, nil
}

// FindByID finds a pharmacy by ID
func (r *PharmacyRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Pharmacy, error) {
	query := `
		SELECT ` + pharmacyColumns + `
		FROM pharmacies
		WHERE id = $1
	`

	pharmacy, err := scanPharmacy(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find pharmacy: %w", err)
	}

	return pharmacy, nil
}

// FindByOAuthClientID finds a pharmacy by OAuth client ID
func (r *PharmacyRepository) FindByOAuthClientID(ctx context.Context, clientID string) (*domain.Pharmacy, error) {
	query := `
		SELECT ` + pharmacyColumns + `
		FROM pharmacies
		WHERE oauth_client_id = $1
	`

	pharmacy, err := scanPharmacy(r.db.QueryRowContext(ctx, query, clientID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find pharmacy: %w", err)
	}

	return pharmacy, nil
}

// FindAll returns all pharmacies
func (r *PharmacyRepository) FindAll(ctx context.Context) ([]*domain.Pharmacy, error) {
	query := `
		SELECT ` + pharmacyColumns + `
		FROM pharmacies
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query pharmacies: %w", err)
	}
	defer rows.Close()

	var pharmacies []*domain.Pharmacy
	for rows.Next() {
		pharmacy, err := scanPharmacy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pharmacy: %w", err)
		}
		pharmacies = append(pharmacies, pharmacy)
	}

	return pharmacies, nil
}

// Create creates a new pharmacy account
func (r *PharmacyRepository) Create(ctx context.Context, pharmacy *domain.Pharmacy) error {
	query := `
		INSERT INTO pharmacies (id, name, ncpdp_number, email, api_key_hash, oauth_client_id, oauth_secret_hash,
		                        plan, rate_limit_daily, rate_limit_monthly, created_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		pharmacy.ID,
		pharmacy.Name,
		pharmacy.NCPDPNumber,
		pharmacy.Email,
		pharmacy.APIKeyHash,
		pharmacy.OAuthClientID,
		pharmacy.OAuthSecretHash,
		pharmacy.Plan,
		pharmacy.RateLimitDaily,
		pharmacy.RateLimitMonthly,
		pharmacy.CreatedAt,
		pharmacy.IsActive,
	)

	if err != nil {
		return fmt.Errorf("failed to create pharmacy: %w", err)
	}

	return nil
}

// Update updates a pharmacy's profile fields
func (r *PharmacyRepository) Update(ctx context.Context, pharmacy *domain.Pharmacy) error {
	query := `
		UPDATE pharmacies
		SET name = $2, ncpdp_number = $3, email = $4, plan = $5,
		    rate_limit_daily = $6, rate_limit_monthly = $7, is_active = $8
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		pharmacy.ID,
		pharmacy.Name,
		pharmacy.NCPDPNumber,
		pharmacy.Email,
		pharmacy.Plan,
		pharmacy.RateLimitDaily,
		pharmacy.RateLimitMonthly,
		pharmacy.IsActive,
	)

	if err != nil {
		return fmt.Errorf("failed to update pharmacy: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("pharmacy not found")
	}

	return nil
}

// UpdateAPIKeyHash replaces a pharmacy's API key hash
func (r *PharmacyRepository) UpdateAPIKeyHash(ctx context.Context, id uuid.UUID, apiKeyHash string) error {
	query := `UPDATE pharmacies SET api_key_hash = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, apiKeyHash)
	if err != nil {
		return fmt.Errorf("failed to update api key hash: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("pharmacy not found")
	}

	return nil
}
