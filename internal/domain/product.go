package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DEASchedule is the controlled-substance classification of a product
type DEASchedule string

const (
	DEAScheduleNone DEASchedule = ""
	DEAScheduleII   DEASchedule = "CII"
	DEAScheduleIII  DEASchedule = "CIII"
	DEAScheduleIV   DEASchedule = "CIV"
	DEAScheduleV    DEASchedule = "CV"
)

// Controlled reports whether the schedule requires DEA paperwork handling
func (s DEASchedule) Controlled() bool {
	return s != DEAScheduleNone
}

// EligibilityPolicy describes a distributor's return terms for a product
type EligibilityPolicy struct {
	Eligible            bool `json:"eligible" db:"eligible"`
	ReturnWindowDays    int  `json:"return_window_days" db:"return_window_days"`
	CreditPercentage    int  `json:"credit_percentage" db:"credit_percentage"` // base rate, 0-100
	RequiresDEAForm     bool `json:"requires_dea_form" db:"requires_dea_form"`
	DestructionRequired bool `json:"destruction_required" db:"destruction_required"`
}

// ProductRecord is an immutable catalog entry keyed by normalized NDC
type ProductRecord struct {
	NDC                string            `json:"ndc" db:"ndc"`
	ProprietaryName    string            `json:"proprietary_name" db:"proprietary_name"`
	NonProprietaryName string            `json:"non_proprietary_name" db:"non_proprietary_name"`
	ManufacturerName   string            `json:"manufacturer_name" db:"manufacturer_name"`
	Strength           string            `json:"strength" db:"strength"`
	DosageForm         string            `json:"dosage_form" db:"dosage_form"`
	WAC                decimal.Decimal   `json:"wac" db:"wac"`
	DEASchedule        DEASchedule       `json:"dea_schedule" db:"dea_schedule"`
	ReturnEligibility  EligibilityPolicy `json:"return_eligibility"`
	CreatedAt          time.Time         `json:"created_at,omitempty" db:"created_at"`
}

// ProductListResponse represents the response for a catalog search
type ProductListResponse struct {
	Products []ProductRecord `json:"products"`
	Count    int             `json:"count"`
}
