package domain

import (
	"time"

	"github.com/google/uuid"
)

// UsageType represents the kind of metered API call
type UsageType string

const (
	UsageTypeEstimate UsageType = "estimate"
)

// UsageRecord counts metered calls for a pharmacy within a calendar month
type UsageRecord struct {
	ID            uuid.UUID `json:"id" db:"id"`
	PharmacyID    uuid.UUID `json:"pharmacy_id" db:"pharmacy_id"`
	PeriodStart   time.Time `json:"period_start" db:"period_start"`
	PeriodEnd     time.Time `json:"period_end" db:"period_end"`
	EstimateCount int       `json:"estimate_count" db:"estimate_count"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// UsageStats reports a pharmacy's current metered usage against its plan
type UsageStats struct {
	Plan             Plan      `json:"plan"`
	MonthlyEstimates int       `json:"monthly_estimates"`
	MonthlyQuota     *int      `json:"monthly_quota,omitempty"` // nil = unlimited
	PeriodResetsAt   time.Time `json:"period_resets_at"`
}

// QuotaExceededError is the structured payload returned with HTTP 429 when
// a plan quota is exhausted
type QuotaExceededError struct {
	Error        string    `json:"error"`
	Message      string    `json:"message"`
	QuotaType    string    `json:"quota_type"`
	CurrentUsage int       `json:"current_usage"`
	Limit        int       `json:"limit"`
	ResetsAt     time.Time `json:"resets_at"`
}
