package domain

import (
	"github.com/shopspring/decimal"
)

// Condition is the physical state of a return line item
type Condition string

const (
	ConditionUnopened Condition = "UNOPENED"
	ConditionOpened   Condition = "OPENED"
	ConditionDamaged  Condition = "DAMAGED"
)

// Valid reports whether c is a known condition value
func (c Condition) Valid() bool {
	switch c {
	case ConditionUnopened, ConditionOpened, ConditionDamaged:
		return true
	}
	return false
}

// ReturnLineItem is one NDC lot submitted for credit estimation
type ReturnLineItem struct {
	NDC            string    `json:"ndc"`
	Quantity       int       `json:"quantity"`
	ExpirationDate string    `json:"expiration_date"` // YYYY-MM-DD
	LotNumber      string    `json:"lot_number,omitempty"`
	Condition      Condition `json:"condition"`
}

// CreditEstimate is the per-line result of the credit calculation.
// Eligible and EstimatedCredit are independent: an item near the window
// edge can be eligible while its credit rounds to zero.
type CreditEstimate struct {
	NDC                 string          `json:"ndc"`
	ProductName         string          `json:"product_name,omitempty"`
	LotNumber           string          `json:"lot_number,omitempty"`
	Quantity            int             `json:"quantity"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	CreditPercentage    int             `json:"credit_percentage"`
	EstimatedCredit     decimal.Decimal `json:"estimated_credit"`
	Eligible            bool            `json:"eligible"`
	DaysToExpiration    int             `json:"days_to_expiration"`
	RequiresDEAForm     bool            `json:"requires_dea_form"`
	RequiresDestruction bool            `json:"requires_destruction"`
	NotFound            bool            `json:"not_found,omitempty"` // NDC absent from catalog
}

// LineError reports a per-item validation failure within a batch
type LineError struct {
	NDC     string `json:"ndc,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Line error codes
const (
	LineErrorValidation = "validation_error"
)

// LineResult is the tagged per-item outcome: exactly one of Estimate or
// Error is set
type LineResult struct {
	Estimate *CreditEstimate `json:"estimate,omitempty"`
	Error    *LineError      `json:"error,omitempty"`
}

// BatchSummary aggregates a batch of credit estimates
type BatchSummary struct {
	TotalItems           int             `json:"total_items"`
	EligibleItems        int             `json:"eligible_items"`
	IneligibleItems      int             `json:"ineligible_items"`
	TotalEstimatedCredit decimal.Decimal `json:"total_estimated_credit"`
	ServiceFees          decimal.Decimal `json:"service_fees"`
	TransportationFees   decimal.Decimal `json:"transportation_fees"`
	NetCredit            decimal.Decimal `json:"net_credit"` // may be negative
	HasDEAItems          bool            `json:"has_dea_items"`
}

// EstimateBatchRequest represents a request to estimate a batch of returns
type EstimateBatchRequest struct {
	Items []ReturnLineItem `json:"items"`
}

// EstimateBatchResponse represents the response for a batch estimation
type EstimateBatchResponse struct {
	Results []LineResult `json:"results"`
	Summary BatchSummary `json:"summary"`
}

// NDCValidateRequest represents a request to validate an NDC
type NDCValidateRequest struct {
	NDC string `json:"ndc"`
}

// NDCValidateResponse represents the response for NDC validation
type NDCValidateResponse struct {
	Input      string `json:"input"`
	Normalized string `json:"normalized,omitempty"`
	Valid      bool   `json:"valid"`
}
