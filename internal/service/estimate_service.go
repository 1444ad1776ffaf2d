package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rxreturns/rxreturns/internal/catalog"
	"github.com/rxreturns/rxreturns/internal/domain"
	"github.com/rxreturns/rxreturns/pkg/ndc"
)

// Tier multipliers applied to the base credit percentage as an item
// approaches expiration: closer to expiration yields lower credit.
var (
	tierMultiplier30  = decimal.RequireFromString("0.25")
	tierMultiplier90  = decimal.RequireFromString("0.50")
	tierMultiplier180 = decimal.RequireFromString("0.85")
	tierMultiplierMax = decimal.NewFromInt(1)
)

// Condition multipliers applied after the tier multiplier
var conditionMultipliers = map[domain.Condition]decimal.Decimal{
	domain.ConditionUnopened: decimal.NewFromInt(1),
	domain.ConditionOpened:   decimal.RequireFromString("0.70"),
	domain.ConditionDamaged:  decimal.RequireFromString("0.30"),
}

// Service fee parameters: 3% commission with a floor and ceiling, plus a
// flat transportation base and per-item handling charge.
var (
	serviceFeeRate        = decimal.RequireFromString("0.03")
	serviceFeeMin         = decimal.NewFromInt(25)
	serviceFeeMax         = decimal.NewFromInt(500)
	transportationBase    = decimal.NewFromInt(15)
	transportationPerItem = decimal.RequireFromString("0.50")
	oneHundred            = decimal.NewFromInt(100)
)

const expirationDateLayout = "2006-01-02"

// EstimateService computes return eligibility and credit estimates. All
// computation is pure; the only I/O is the catalog lookup.
type EstimateService struct {
	catalog catalog.Catalog
	now     func() time.Time
}

// NewEstimateService creates a new estimate service
func NewEstimateService(cat catalog.Catalog) *EstimateService {
	return &EstimateService{
		catalog: cat,
		now:     time.Now,
	}
}

// EstimateBatch runs the estimator over each line item independently and
// aggregates a batch summary. Per-item failures are captured inline as
// tagged results; a bad line never blocks estimation of the rest.
// Top-level validation (empty items list) is the caller's responsibility.
func (s *EstimateService) EstimateBatch(ctx context.Context, items []domain.ReturnLineItem) (*domain.EstimateBatchResponse, error) {
	asOf := s.now()

	results := make([]domain.LineResult, 0, len(items))
	summary := domain.BatchSummary{
		TotalItems:           len(items),
		TotalEstimatedCredit: decimal.Zero,
	}

	for _, item := range items {
		result, err := s.estimateLine(ctx, item, asOf)
		if err != nil {
			return nil, err
		}
		results = append(results, result)

		if result.Estimate != nil && result.Estimate.Eligible {
			summary.EligibleItems++
			summary.TotalEstimatedCredit = summary.TotalEstimatedCredit.Add(result.Estimate.EstimatedCredit)
		}
		if result.Estimate != nil && result.Estimate.RequiresDEAForm {
			summary.HasDEAItems = true
		}
	}

	summary.IneligibleItems = summary.TotalItems - summary.EligibleItems
	summary.ServiceFees = serviceFees(summary.TotalEstimatedCredit)
	summary.TransportationFees = transportationFees(summary.TotalItems)
	summary.NetCredit = summary.TotalEstimatedCredit.
		Sub(summary.ServiceFees).
		Sub(summary.TransportationFees)

	return &domain.EstimateBatchResponse{
		Results: results,
		Summary: summary,
	}, nil
}

// EstimateLine estimates a single line item as of now
func (s *EstimateService) EstimateLine(ctx context.Context, item domain.ReturnLineItem) (domain.LineResult, error) {
	return s.estimateLine(ctx, item, s.now())
}

func (s *EstimateService) estimateLine(ctx context.Context, item domain.ReturnLineItem, asOf time.Time) (domain.LineResult, error) {
	if item.Quantity <= 0 {
		return lineError(item.NDC, "quantity must be a positive integer"), nil
	}
	if !item.Condition.Valid() {
		return lineError(item.NDC, fmt.Sprintf("unknown condition %q", item.Condition)), nil
	}

	normalized := ndc.Normalize(item.NDC)
	if normalized == "" {
		return lineError(item.NDC, fmt.Sprintf("malformed NDC %q", item.NDC)), nil
	}

	expiration, err := time.Parse(expirationDateLayout, item.ExpirationDate)
	if err != nil {
		return lineError(item.NDC, fmt.Sprintf("invalid expiration_date %q, expected YYYY-MM-DD", item.ExpirationDate)), nil
	}

	product, err := s.catalog.Lookup(ctx, normalized)
	if err == catalog.ErrNotFound {
		// Unknown NDC degrades to a zero-credit ineligible line with an
		// explicit marker; it never aborts the batch.
		return domain.LineResult{Estimate: &domain.CreditEstimate{
			NDC:              normalized,
			LotNumber:        item.LotNumber,
			Quantity:         item.Quantity,
			UnitPrice:        decimal.Zero,
			EstimatedCredit:  decimal.Zero,
			DaysToExpiration: daysToExpiration(expiration, asOf),
			NotFound:         true,
		}}, nil
	}
	if err != nil {
		return domain.LineResult{}, fmt.Errorf("catalog lookup for %s: %w", normalized, err)
	}

	estimate := Estimate(product, item.Quantity, expiration, item.Condition, asOf)
	estimate.LotNumber = item.LotNumber
	return domain.LineResult{Estimate: &estimate}, nil
}

// Estimate computes eligibility and credit for a single product line as of
// the given time. Eligibility and the credit amount are deliberately
// independent: an item inside the return window is eligible even when its
// credit rounds to zero.
func Estimate(product *domain.ProductRecord, quantity int, expiration time.Time, condition domain.Condition, asOf time.Time) domain.CreditEstimate {
	policy := product.ReturnEligibility
	days := daysToExpiration(expiration, asOf)

	estimate := domain.CreditEstimate{
		NDC:                 product.NDC,
		ProductName:         product.ProprietaryName,
		Quantity:            quantity,
		UnitPrice:           product.WAC,
		EstimatedCredit:     decimal.Zero,
		DaysToExpiration:    days,
		RequiresDEAForm:     policy.RequiresDEAForm,
		RequiresDestruction: policy.DestructionRequired,
	}

	if !policy.Eligible || days < 0 || days > policy.ReturnWindowDays {
		return estimate
	}

	estimate.Eligible = true
	estimate.CreditPercentage = effectiveCreditPercentage(policy.CreditPercentage, days, condition)
	estimate.EstimatedCredit = product.WAC.
		Mul(decimal.NewFromInt(int64(quantity))).
		Mul(decimal.NewFromInt(int64(estimate.CreditPercentage))).
		Div(oneHundred).
		Round(2)

	return estimate
}

// daysToExpiration returns ceil((expiration - asOf) / 24h); negative once
// the product has expired
func daysToExpiration(expiration, asOf time.Time) int {
	return int(math.Ceil(expiration.Sub(asOf).Hours() / 24))
}

// tierMultiplier returns the base-rate multiplier for days-to-expiration
// already known to be inside the return window
func tierMultiplier(days int) decimal.Decimal {
	switch {
	case days <= 30:
		return tierMultiplier30
	case days <= 90:
		return tierMultiplier90
	case days <= 180:
		return tierMultiplier180
	default:
		return tierMultiplierMax
	}
}

// effectiveCreditPercentage applies the tier and condition multipliers to
// the base rate and rounds to a whole percent, clamped to [0,100]
func effectiveCreditPercentage(basePercentage, days int, condition domain.Condition) int {
	pct := decimal.NewFromInt(int64(basePercentage)).
		Mul(tierMultiplier(days)).
		Mul(conditionMultipliers[condition]).
		Round(0).
		IntPart()

	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return int(pct)
}

// serviceFees is the 3% commission on the eligible credit total, clamped
// to the [25, 500] flat-rate band
func serviceFees(totalCredit decimal.Decimal) decimal.Decimal {
	fee := totalCredit.Mul(serviceFeeRate).Round(2)
	if fee.LessThan(serviceFeeMin) {
		return serviceFeeMin
	}
	if fee.GreaterThan(serviceFeeMax) {
		return serviceFeeMax
	}
	return fee
}

// transportationFees is the fixed shipping base plus per-item handling
func transportationFees(itemCount int) decimal.Decimal {
	return transportationBase.Add(transportationPerItem.Mul(decimal.NewFromInt(int64(itemCount))))
}

func lineError(rawNDC, message string) domain.LineResult {
	return domain.LineResult{Error: &domain.LineError{
		NDC:     rawNDC,
		Code:    domain.LineErrorValidation,
		Message: message,
	}}
}
