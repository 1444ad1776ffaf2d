package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rxreturns/rxreturns/internal/catalog"
	"github.com/rxreturns/rxreturns/internal/domain"
)

var testAsOf = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func testProduct(wac string, basePct, windowDays int) domain.ProductRecord {
	return domain.ProductRecord{
		NDC:              "00093-0058-01",
		ProprietaryName:  "Lisinopril",
		ManufacturerName: "Teva Pharmaceuticals USA",
		WAC:              decimal.RequireFromString(wac),
		ReturnEligibility: domain.EligibilityPolicy{
			Eligible:         true,
			ReturnWindowDays: windowDays,
			CreditPercentage: basePct,
		},
	}
}

func newTestEstimateService(records ...domain.ProductRecord) *EstimateService {
	svc := NewEstimateService(catalog.NewStatic(records))
	svc.now = func() time.Time { return testAsOf }
	return svc
}

// expiresIn formats an expiration date the given number of days after the
// fixed test clock
func expiresIn(days int) string {
	return testAsOf.AddDate(0, 0, days).Format("2006-01-02")
}

func TestEstimateTierTable(t *testing.T) {
	product := testProduct("10.00", 80, 365)

	tests := []struct {
		days    int
		wantPct int
	}{
		{10, 20},  // <=30: 0.25
		{30, 20},  // boundary inclusive
		{45, 40},  // <=90: 0.50
		{90, 40},  // boundary inclusive
		{100, 68}, // <=180: 0.85
		{180, 68}, // boundary inclusive
		{181, 80}, // within window: 1.00
		{365, 80}, // window edge, still eligible
	}

	for _, tt := range tests {
		expiration := testAsOf.AddDate(0, 0, tt.days)
		got := Estimate(&product, 1, expiration, domain.ConditionUnopened, testAsOf)
		if !got.Eligible {
			t.Errorf("days=%d: expected eligible", tt.days)
		}
		if got.CreditPercentage != tt.wantPct {
			t.Errorf("days=%d: effective pct = %d, want %d", tt.days, got.CreditPercentage, tt.wantPct)
		}
	}
}

func TestEstimateOutsideWindow(t *testing.T) {
	product := testProduct("10.00", 80, 180)

	tests := []struct {
		name string
		days int
	}{
		{"expired", -1},
		{"long expired", -400},
		{"beyond window", 181},
		{"far beyond window", 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expiration := testAsOf.AddDate(0, 0, tt.days)
			got := Estimate(&product, 100, expiration, domain.ConditionUnopened, testAsOf)
			if got.Eligible {
				t.Errorf("days=%d: expected ineligible", tt.days)
			}
			if !got.EstimatedCredit.IsZero() {
				t.Errorf("days=%d: estimated credit = %s, want 0", tt.days, got.EstimatedCredit)
			}
			if got.CreditPercentage != 0 {
				t.Errorf("days=%d: credit percentage = %d, want 0", tt.days, got.CreditPercentage)
			}
		})
	}
}

func TestEstimateScenarioFromWorkedExample(t *testing.T) {
	// WAC $10, qty 100, base 80%, UNOPENED, 45 days out: tier 0.50 gives
	// round(80*0.50)=40, so credit = 10*100*0.40 = $400.
	product := testProduct("10.00", 80, 365)
	expiration := testAsOf.AddDate(0, 0, 45)

	got := Estimate(&product, 100, expiration, domain.ConditionUnopened, testAsOf)
	if got.CreditPercentage != 40 {
		t.Fatalf("effective pct = %d, want 40", got.CreditPercentage)
	}
	if want := decimal.RequireFromString("400.00"); !got.EstimatedCredit.Equal(want) {
		t.Fatalf("estimated credit = %s, want %s", got.EstimatedCredit, want)
	}
	if got.DaysToExpiration != 45 {
		t.Fatalf("days to expiration = %d, want 45", got.DaysToExpiration)
	}
}

func TestEstimateWindowBoundaryEligibleIneligible(t *testing.T) {
	// Window of 180 days: 180 out is eligible (inclusive), 200 out is not.
	product := testProduct("10.00", 80, 180)

	atEdge := Estimate(&product, 100, testAsOf.AddDate(0, 0, 180), domain.ConditionUnopened, testAsOf)
	if !atEdge.Eligible {
		t.Errorf("expiration at window boundary should be eligible")
	}

	beyond := Estimate(&product, 100, testAsOf.AddDate(0, 0, 200), domain.ConditionUnopened, testAsOf)
	if beyond.Eligible || !beyond.EstimatedCredit.IsZero() {
		t.Errorf("expiration beyond window: eligible=%v credit=%s, want ineligible zero", beyond.Eligible, beyond.EstimatedCredit)
	}
}

func TestEstimateConditionMonotonicity(t *testing.T) {
	product := testProduct("37.50", 73, 365)

	for _, days := range []int{5, 45, 120, 300} {
		expiration := testAsOf.AddDate(0, 0, days)
		unopened := Estimate(&product, 17, expiration, domain.ConditionUnopened, testAsOf)
		opened := Estimate(&product, 17, expiration, domain.ConditionOpened, testAsOf)
		damaged := Estimate(&product, 17, expiration, domain.ConditionDamaged, testAsOf)

		if damaged.EstimatedCredit.GreaterThan(unopened.EstimatedCredit) {
			t.Errorf("days=%d: DAMAGED credit %s exceeds UNOPENED credit %s", days, damaged.EstimatedCredit, unopened.EstimatedCredit)
		}
		if opened.EstimatedCredit.GreaterThan(unopened.EstimatedCredit) {
			t.Errorf("days=%d: OPENED credit %s exceeds UNOPENED credit %s", days, opened.EstimatedCredit, unopened.EstimatedCredit)
		}
	}
}

func TestEstimateEligibleWithZeroCredit(t *testing.T) {
	// A 1% base rate at the 0.25 tier rounds to a 0% effective rate; the
	// item stays eligible even though the credit is zero.
	product := testProduct("10.00", 1, 365)
	got := Estimate(&product, 100, testAsOf.AddDate(0, 0, 20), domain.ConditionUnopened, testAsOf)

	if !got.Eligible {
		t.Fatalf("expected eligible")
	}
	if got.CreditPercentage != 0 || !got.EstimatedCredit.IsZero() {
		t.Fatalf("pct=%d credit=%s, want zero credit", got.CreditPercentage, got.EstimatedCredit)
	}
}

func TestEstimatePolicyIneligibleProduct(t *testing.T) {
	product := testProduct("10.00", 80, 365)
	product.ReturnEligibility.Eligible = false

	got := Estimate(&product, 10, testAsOf.AddDate(0, 0, 45), domain.ConditionUnopened, testAsOf)
	if got.Eligible || !got.EstimatedCredit.IsZero() {
		t.Fatalf("policy-ineligible product should never earn credit")
	}
}

func TestEstimateBatchWorkedScenario(t *testing.T) {
	// Three eligible items totalling $1000: service fee clamp(30,25,500)=30,
	// transportation 15+3*0.50=16.50, net 953.50.
	product := testProduct("10.00", 80, 365)
	svc := newTestEstimateService(product)

	items := []domain.ReturnLineItem{
		{NDC: "00093-0058-01", Quantity: 100, ExpirationDate: expiresIn(45), Condition: domain.ConditionUnopened},
		{NDC: "00093005801", Quantity: 100, ExpirationDate: expiresIn(45), Condition: domain.ConditionUnopened},
		{NDC: "00093-0058-01", Quantity: 50, ExpirationDate: expiresIn(45), Condition: domain.ConditionUnopened},
	}

	resp, err := svc.EstimateBatch(context.Background(), items)
	if err != nil {
		t.Fatalf("EstimateBatch: %v", err)
	}

	s := resp.Summary
	if s.TotalItems != 3 || s.EligibleItems != 3 || s.IneligibleItems != 0 {
		t.Fatalf("counts = %d/%d/%d, want 3/3/0", s.TotalItems, s.EligibleItems, s.IneligibleItems)
	}
	if want := decimal.RequireFromString("1000.00"); !s.TotalEstimatedCredit.Equal(want) {
		t.Fatalf("total credit = %s, want %s", s.TotalEstimatedCredit, want)
	}
	if want := decimal.RequireFromString("30.00"); !s.ServiceFees.Equal(want) {
		t.Fatalf("service fees = %s, want %s", s.ServiceFees, want)
	}
	if want := decimal.RequireFromString("16.50"); !s.TransportationFees.Equal(want) {
		t.Fatalf("transportation fees = %s, want %s", s.TransportationFees, want)
	}
	if want := decimal.RequireFromString("953.50"); !s.NetCredit.Equal(want) {
		t.Fatalf("net credit = %s, want %s", s.NetCredit, want)
	}
}

func TestEstimateBatchNetCreditIdentity(t *testing.T) {
	product := testProduct("3.17", 61, 270)
	svc := newTestEstimateService(product)

	items := []domain.ReturnLineItem{
		{NDC: "00093-0058-01", Quantity: 9, ExpirationDate: expiresIn(12), Condition: domain.ConditionDamaged},
		{NDC: "00093-0058-01", Quantity: 40, ExpirationDate: expiresIn(150), Condition: domain.ConditionOpened},
		{NDC: "00093-0058-01", Quantity: 3, ExpirationDate: expiresIn(-30), Condition: domain.ConditionUnopened},
		{NDC: "99999-9999-99", Quantity: 5, ExpirationDate: expiresIn(60), Condition: domain.ConditionUnopened},
	}

	resp, err := svc.EstimateBatch(context.Background(), items)
	if err != nil {
		t.Fatalf("EstimateBatch: %v", err)
	}

	s := resp.Summary
	want := s.TotalEstimatedCredit.Sub(s.ServiceFees).Sub(s.TransportationFees)
	if !s.NetCredit.Equal(want) {
		t.Fatalf("net credit = %s, want total-fees = %s", s.NetCredit, want)
	}
	if s.EligibleItems+s.IneligibleItems != s.TotalItems {
		t.Fatalf("item counts do not partition the batch: %+v", s)
	}
}

func TestEstimateBatchNotFoundNDC(t *testing.T) {
	svc := newTestEstimateService(testProduct("10.00", 80, 365))

	resp, err := svc.EstimateBatch(context.Background(), []domain.ReturnLineItem{
		{NDC: "99999-9999-99", Quantity: 10, ExpirationDate: expiresIn(90), Condition: domain.ConditionUnopened},
	})
	if err != nil {
		t.Fatalf("unknown NDC must not abort the batch: %v", err)
	}

	line := resp.Results[0]
	if line.Error != nil {
		t.Fatalf("unknown NDC should be an estimate with a marker, got error %+v", line.Error)
	}
	est := line.Estimate
	if !est.NotFound {
		t.Errorf("expected not_found marker")
	}
	if est.Eligible || !est.EstimatedCredit.IsZero() {
		t.Errorf("not-found line must be ineligible with zero credit, got eligible=%v credit=%s", est.Eligible, est.EstimatedCredit)
	}
}

func TestEstimateBatchPerItemValidationErrors(t *testing.T) {
	svc := newTestEstimateService(testProduct("10.00", 80, 365))

	items := []domain.ReturnLineItem{
		{NDC: "00093-0058-01", Quantity: 0, ExpirationDate: expiresIn(45), Condition: domain.ConditionUnopened},
		{NDC: "not-an-ndc", Quantity: 5, ExpirationDate: expiresIn(45), Condition: domain.ConditionUnopened},
		{NDC: "00093-0058-01", Quantity: 5, ExpirationDate: "06/30/2026", Condition: domain.ConditionUnopened},
		{NDC: "00093-0058-01", Quantity: 5, ExpirationDate: expiresIn(45), Condition: "CRUSHED"},
		{NDC: "00093-0058-01", Quantity: 5, ExpirationDate: expiresIn(45), Condition: domain.ConditionUnopened},
	}

	resp, err := svc.EstimateBatch(context.Background(), items)
	if err != nil {
		t.Fatalf("EstimateBatch: %v", err)
	}

	for i := 0; i < 4; i++ {
		if resp.Results[i].Error == nil {
			t.Errorf("item %d: expected a validation error", i)
		} else if resp.Results[i].Error.Code != domain.LineErrorValidation {
			t.Errorf("item %d: code = %s, want %s", i, resp.Results[i].Error.Code, domain.LineErrorValidation)
		}
	}

	// The one good line still gets estimated.
	if resp.Results[4].Estimate == nil || !resp.Results[4].Estimate.Eligible {
		t.Fatalf("valid line should still be estimated: %+v", resp.Results[4])
	}
	if resp.Summary.EligibleItems != 1 || resp.Summary.IneligibleItems != 4 {
		t.Fatalf("summary counts = %d/%d, want 1/4", resp.Summary.EligibleItems, resp.Summary.IneligibleItems)
	}
}

func TestServiceFeeClamp(t *testing.T) {
	tests := []struct {
		total string
		want  string
	}{
		{"0", "25"},       // floor applies at zero
		{"100.00", "25"},  // 3 dollars would be below the floor
		{"833.33", "25"},  // 25.00 exactly at the floor
		{"1000.00", "30"}, // mid-band
		{"20000.00", "500"},
		{"1000000.00", "500"}, // ceiling
	}

	for _, tt := range tests {
		got := serviceFees(decimal.RequireFromString(tt.total))
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("serviceFees(%s) = %s, want %s", tt.total, got, tt.want)
		}
	}
}

func TestNetCreditMayBeNegative(t *testing.T) {
	// A batch with no eligible credit still owes the fee floor plus
	// transportation; net credit goes negative and stays unclamped.
	svc := newTestEstimateService(testProduct("10.00", 80, 90))

	resp, err := svc.EstimateBatch(context.Background(), []domain.ReturnLineItem{
		{NDC: "00093-0058-01", Quantity: 10, ExpirationDate: expiresIn(-10), Condition: domain.ConditionUnopened},
	})
	if err != nil {
		t.Fatalf("EstimateBatch: %v", err)
	}

	want := decimal.RequireFromString("-40.50") // 0 - 25 - 15.50
	if !resp.Summary.NetCredit.Equal(want) {
		t.Fatalf("net credit = %s, want %s", resp.Summary.NetCredit, want)
	}
}

func TestEstimateBatchFlagsDEAItems(t *testing.T) {
	controlled := testProduct("0.22", 75, 180)
	controlled.NDC = "00406-0512-01"
	controlled.DEASchedule = domain.DEAScheduleII
	controlled.ReturnEligibility.RequiresDEAForm = true

	svc := newTestEstimateService(controlled)

	resp, err := svc.EstimateBatch(context.Background(), []domain.ReturnLineItem{
		{NDC: "00406-0512-01", Quantity: 30, ExpirationDate: expiresIn(60), Condition: domain.ConditionUnopened},
	})
	if err != nil {
		t.Fatalf("EstimateBatch: %v", err)
	}
	if !resp.Summary.HasDEAItems {
		t.Fatalf("expected has_dea_items for a Schedule II line")
	}
	if !resp.Results[0].Estimate.RequiresDEAForm {
		t.Fatalf("expected requires_dea_form on the line estimate")
	}
}
