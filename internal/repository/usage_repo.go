package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rxreturns/rxreturns/internal/domain"
)

// UsageRepository tracks metered estimate calls per pharmacy per calendar
// month
type UsageRepository struct {
	db *sql.DB
}

// NewUsageRepository creates a new usage repository with a shared database connection
func NewUsageRepository(db *sql.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// currentPeriod returns the UTC calendar-month window containing now
func currentPeriod(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// GetCurrentUsage returns the pharmacy's usage record for the current
// month; a zero-count record is returned when no calls were made yet
func (r *UsageRepository) GetCurrentUsage(ctx context.Context, pharmacyID uuid.UUID) (*domain.UsageRecord, error) {
	periodStart, periodEnd := currentPeriod(time.Now().UTC())

	query := `
		SELECT id, pharmacy_id, period_start, period_end, estimate_count, updated_at
		FROM usage_records
		WHERE pharmacy_id = $1 AND period_start = $2
	`

	var record domain.UsageRecord
	err := r.db.QueryRowContext(ctx, query, pharmacyID, periodStart).Scan(
		&record.ID,
		&record.PharmacyID,
		&record.PeriodStart,
		&record.PeriodEnd,
		&record.EstimateCount,
		&record.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return &domain.UsageRecord{
			PharmacyID:  pharmacyID,
			PeriodStart: periodStart,
			PeriodEnd:   periodEnd,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get usage record: %w", err)
	}

	return &record, nil
}

// IncrementEstimate bumps the pharmacy's estimate-call count for the
// current month, creating the period row on first use
func (r *UsageRepository) IncrementEstimate(ctx context.Context, pharmacyID uuid.UUID) error {
	periodStart, periodEnd := currentPeriod(time.Now().UTC())

	query := `
		INSERT INTO usage_records (id, pharmacy_id, period_start, period_end, estimate_count, updated_at)
		VALUES ($1, $2, $3, $4, 1, NOW())
		ON CONFLICT (pharmacy_id, period_start) DO UPDATE SET
			estimate_count = usage_records.estimate_count + 1,
			updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query, uuid.New(), pharmacyID, periodStart, periodEnd)
	if err != nil {
		return fmt.Errorf("failed to increment usage: %w", err)
	}

	return nil
}
