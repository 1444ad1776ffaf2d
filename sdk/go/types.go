package rxreturns

import "time"

// Error represents an API error
type Error struct {
	Message string `json:"error"`
}

func (e *Error) Error() string {
	return e.Message
}

// Condition is the physical state of a return line item
type Condition string

const (
	ConditionUnopened Condition = "UNOPENED"
	ConditionOpened   Condition = "OPENED"
	ConditionDamaged  Condition = "DAMAGED"
)

// LineItem is one NDC lot submitted for credit estimation
type LineItem struct {
	NDC            string    `json:"ndc"`
	Quantity       int       `json:"quantity"`
	ExpirationDate string    `json:"expiration_date"` // YYYY-MM-DD
	LotNumber      string    `json:"lot_number,omitempty"`
	Condition      Condition `json:"condition"`
}

// CreditEstimate is the per-line result of the credit calculation
type CreditEstimate struct {
	NDC                 string  `json:"ndc"`
	ProductName         string  `json:"product_name,omitempty"`
	LotNumber           string  `json:"lot_number,omitempty"`
	Quantity            int     `json:"quantity"`
	UnitPrice           float64 `json:"unit_price,string"`
	CreditPercentage    int     `json:"credit_percentage"`
	EstimatedCredit     float64 `json:"estimated_credit,string"`
	Eligible            bool    `json:"eligible"`
	DaysToExpiration    int     `json:"days_to_expiration"`
	RequiresDEAForm     bool    `json:"requires_dea_form"`
	RequiresDestruction bool    `json:"requires_destruction"`
	NotFound            bool    `json:"not_found,omitempty"`
}

// LineError reports a per-item validation failure within a batch
type LineError struct {
	NDC     string `json:"ndc,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// LineResult holds the outcome for one submitted item: exactly one of
// Estimate or Error is set
type LineResult struct {
	Estimate *CreditEstimate `json:"estimate,omitempty"`
	Error    *LineError      `json:"error,omitempty"`
}

// BatchSummary aggregates a batch of credit estimates
type BatchSummary struct {
	TotalItems           int     `json:"total_items"`
	EligibleItems        int     `json:"eligible_items"`
	IneligibleItems      int     `json:"ineligible_items"`
	TotalEstimatedCredit float64 `json:"total_estimated_credit,string"`
	ServiceFees          float64 `json:"service_fees,string"`
	TransportationFees   float64 `json:"transportation_fees,string"`
	NetCredit            float64 `json:"net_credit,string"`
	HasDEAItems          bool    `json:"has_dea_items"`
}

// EstimateBatchResponse is the response for a batch estimation
type EstimateBatchResponse struct {
	Results []LineResult `json:"results"`
	Summary BatchSummary `json:"summary"`
}

// NDCValidateResponse is the response for NDC validation
type NDCValidateResponse struct {
	Input      string `json:"input"`
	Normalized string `json:"normalized,omitempty"`
	Valid      bool   `json:"valid"`
}

// Product is a catalog entry keyed by normalized NDC
type Product struct {
	NDC                string            `json:"ndc"`
	ProprietaryName    string            `json:"proprietary_name"`
	NonProprietaryName string            `json:"non_proprietary_name"`
	ManufacturerName   string            `json:"manufacturer_name"`
	Strength           string            `json:"strength"`
	DosageForm         string            `json:"dosage_form"`
	WAC                float64           `json:"wac,string"`
	DEASchedule        string            `json:"dea_schedule"`
	ReturnEligibility  EligibilityPolicy `json:"return_eligibility"`
}

// EligibilityPolicy describes a distributor's return terms for a product
type EligibilityPolicy struct {
	Eligible            bool `json:"eligible"`
	ReturnWindowDays    int  `json:"return_window_days"`
	CreditPercentage    int  `json:"credit_percentage"`
	RequiresDEAForm     bool `json:"requires_dea_form"`
	DestructionRequired bool `json:"destruction_required"`
}

// ProductListResponse is the response for a catalog search
type ProductListResponse struct {
	Products []Product `json:"products"`
	Count    int       `json:"count"`
}

// ReturnOrderItem is one line of a return order with its frozen estimate
type ReturnOrderItem struct {
	ID               string    `json:"id"`
	NDC              string    `json:"ndc"`
	ProductName      string    `json:"product_name"`
	LotNumber        string    `json:"lot_number,omitempty"`
	Quantity         int       `json:"quantity"`
	ExpirationDate   time.Time `json:"expiration_date"`
	Condition        Condition `json:"condition"`
	CreditPercentage int       `json:"credit_percentage"`
	EstimatedCredit  float64   `json:"estimated_credit,string"`
	Eligible         bool      `json:"eligible"`
}

// ReturnOrder is a return shipment with its estimate snapshot
type ReturnOrder struct {
	ID                   string            `json:"id"`
	PharmacyID           string            `json:"pharmacy_id"`
	Status               string            `json:"status"`
	Items                []ReturnOrderItem `json:"items,omitempty"`
	TotalEstimatedCredit float64           `json:"total_estimated_credit,string"`
	ServiceFees          float64           `json:"service_fees,string"`
	TransportationFees   float64           `json:"transportation_fees,string"`
	NetCredit            float64           `json:"net_credit,string"`
	RequiresDEAForm      bool              `json:"requires_dea_form"`
	CreatedAt            time.Time         `json:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at"`
}

// ReturnOrderListResponse is the response for listing return orders
type ReturnOrderListResponse struct {
	ReturnOrders []ReturnOrder `json:"return_orders"`
	Count        int           `json:"count"`
}

// RateLimitInfo contains rate limit information from response headers
type RateLimitInfo struct {
	DailyLimit   int
	DailyUsed    int
	MonthlyLimit int
	MonthlyUsed  int
}
