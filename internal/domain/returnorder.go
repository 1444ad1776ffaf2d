package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReturnStatus is the lifecycle state of a return order
type ReturnStatus string

const (
	ReturnStatusDraft     ReturnStatus = "draft"
	ReturnStatusSubmitted ReturnStatus = "submitted"
	ReturnStatusInTransit ReturnStatus = "in_transit"
	ReturnStatusCredited  ReturnStatus = "credited"
	ReturnStatusCancelled ReturnStatus = "cancelled"
)

// CanTransitionTo reports whether moving from s to next is a legal
// lifecycle step
func (s ReturnStatus) CanTransitionTo(next ReturnStatus) bool {
	switch s {
	case ReturnStatusDraft:
		return next == ReturnStatusSubmitted || next == ReturnStatusCancelled
	case ReturnStatusSubmitted:
		return next == ReturnStatusInTransit || next == ReturnStatusCancelled
	case ReturnStatusInTransit:
		return next == ReturnStatusCredited
	}
	return false
}

// ReturnOrderItem is one line of a return order with its frozen estimate
type ReturnOrderItem struct {
	ID               uuid.UUID       `json:"id" db:"id"`
	ReturnOrderID    uuid.UUID       `json:"return_order_id" db:"return_order_id"`
	NDC              string          `json:"ndc" db:"ndc"`
	ProductName      string          `json:"product_name" db:"product_name"`
	LotNumber        string          `json:"lot_number,omitempty" db:"lot_number"`
	Quantity         int             `json:"quantity" db:"quantity"`
	ExpirationDate   time.Time       `json:"expiration_date" db:"expiration_date"`
	Condition        Condition       `json:"condition" db:"condition"`
	CreditPercentage int             `json:"credit_percentage" db:"credit_percentage"`
	EstimatedCredit  decimal.Decimal `json:"estimated_credit" db:"estimated_credit"`
	Eligible         bool            `json:"eligible" db:"eligible"`
}

// ReturnOrder is a pharmacy's return shipment with its estimate snapshot.
// The summary amounts are frozen at creation time; they are not
// recomputed as the catalog changes.
type ReturnOrder struct {
	ID                   uuid.UUID         `json:"id" db:"id"`
	PharmacyID           uuid.UUID         `json:"pharmacy_id" db:"pharmacy_id"`
	Status               ReturnStatus      `json:"status" db:"status"`
	Items                []ReturnOrderItem `json:"items,omitempty"`
	TotalEstimatedCredit decimal.Decimal   `json:"total_estimated_credit" db:"total_estimated_credit"`
	ServiceFees          decimal.Decimal   `json:"service_fees" db:"service_fees"`
	TransportationFees   decimal.Decimal   `json:"transportation_fees" db:"transportation_fees"`
	NetCredit            decimal.Decimal   `json:"net_credit" db:"net_credit"`
	RequiresDEAForm      bool              `json:"requires_dea_form" db:"requires_dea_form"`
	CreatedAt            time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time         `json:"updated_at" db:"updated_at"`
}

// ReturnOrderCreateRequest represents a request to create a return order
type ReturnOrderCreateRequest struct {
	Items []ReturnLineItem `json:"items"`
}

// ReturnOrderStatusRequest represents a status transition request
type ReturnOrderStatusRequest struct {
	Status ReturnStatus `json:"status"`
}

// ReturnOrderListResponse represents the response for listing return orders
type ReturnOrderListResponse struct {
	ReturnOrders []ReturnOrder `json:"return_orders"`
	Count        int           `json:"count"`
}
