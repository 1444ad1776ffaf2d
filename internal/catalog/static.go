package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rxreturns/rxreturns/internal/domain"
)

// Static is an in-memory catalog backed by a fixed product table. It is
// used in demo mode and as the test fixture; a Postgres-backed catalog
// substitutes for it in hosted deployments.
type Static struct {
	mu       sync.RWMutex
	products map[string]domain.ProductRecord
}

// NewStatic creates a catalog over the given records, keyed by NDC
func NewStatic(records []domain.ProductRecord) *Static {
	products := make(map[string]domain.ProductRecord, len(records))
	for _, rec := range records {
		products[rec.NDC] = rec
	}
	return &Static{products: products}
}

// NewStaticSeeded creates a catalog preloaded with the starter dataset
func NewStaticSeeded() *Static {
	return NewStatic(SeedProducts())
}

// Lookup implements Catalog
func (s *Static) Lookup(ctx context.Context, ndc string) (*domain.ProductRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.products[ndc]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

// Search implements Catalog
func (s *Static) Search(ctx context.Context, query string, limit int) ([]domain.ProductRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	var matches []domain.ProductRecord
	for _, rec := range s.products {
		if q == "" ||
			strings.Contains(rec.NDC, q) ||
			strings.Contains(strings.ToLower(rec.ProprietaryName), q) ||
			strings.Contains(strings.ToLower(rec.NonProprietaryName), q) {
			matches = append(matches, rec)
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].NDC < matches[j].NDC })
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// SeedProducts returns the starter product dataset shared by the static
// catalog and the database seed script
func SeedProducts() []domain.ProductRecord {
	return []domain.ProductRecord{
		{
			NDC:                "00093-0058-01",
			ProprietaryName:    "Lisinopril",
			NonProprietaryName: "lisinopril",
			ManufacturerName:   "Teva Pharmaceuticals USA",
			Strength:           "10 mg",
			DosageForm:         "TABLET",
			WAC:                decimal.RequireFromString("0.08"),
			DEASchedule:        domain.DEAScheduleNone,
			ReturnEligibility: domain.EligibilityPolicy{
				Eligible:         true,
				ReturnWindowDays: 365,
				CreditPercentage: 85,
			},
		},
		{
			NDC:                "00071-0155-23",
			ProprietaryName:    "Lipitor",
			NonProprietaryName: "atorvastatin calcium",
			ManufacturerName:   "Parke-Davis",
			Strength:           "10 mg",
			DosageForm:         "TABLET",
			WAC:                decimal.RequireFromString("6.32"),
			DEASchedule:        domain.DEAScheduleNone,
			ReturnEligibility: domain.EligibilityPolicy{
				Eligible:         true,
				ReturnWindowDays: 365,
				CreditPercentage: 90,
			},
		},
		{
			NDC:                "59762-0333-01",
			ProprietaryName:    "Zoloft",
			NonProprietaryName: "sertraline hydrochloride",
			ManufacturerName:   "Greenstone LLC",
			Strength:           "50 mg",
			DosageForm:         "TABLET",
			WAC:                decimal.RequireFromString("2.45"),
			DEASchedule:        domain.DEAScheduleNone,
			ReturnEligibility: domain.EligibilityPolicy{
				Eligible:         true,
				ReturnWindowDays: 270,
				CreditPercentage: 80,
			},
		},
		{
			NDC:                "00406-0512-01",
			ProprietaryName:    "Oxycodone HCl",
			NonProprietaryName: "oxycodone hydrochloride",
			ManufacturerName:   "Mallinckrodt",
			Strength:           "5 mg",
			DosageForm:         "TABLET",
			WAC:                decimal.RequireFromString("0.22"),
			DEASchedule:        domain.DEAScheduleII,
			ReturnEligibility: domain.EligibilityPolicy{
				Eligible:         true,
				ReturnWindowDays: 180,
				CreditPercentage: 75,
				RequiresDEAForm:  true,
			},
		},
		{
			NDC:                "00074-3799-13",
			ProprietaryName:    "Humira",
			NonProprietaryName: "adalimumab",
			ManufacturerName:   "AbbVie Inc.",
			Strength:           "40 mg/0.8 mL",
			DosageForm:         "INJECTION",
			WAC:                decimal.RequireFromString("2984.88"),
			DEASchedule:        domain.DEAScheduleNone,
			ReturnEligibility: domain.EligibilityPolicy{
				Eligible:            true,
				ReturnWindowDays:    180,
				CreditPercentage:    95,
				DestructionRequired: true,
			},
		},
		{
			NDC:                "00002-8215-01",
			ProprietaryName:    "Humalog",
			NonProprietaryName: "insulin lispro",
			ManufacturerName:   "Eli Lilly and Company",
			Strength:           "100 units/mL",
			DosageForm:         "INJECTION",
			WAC:                decimal.RequireFromString("274.70"),
			DEASchedule:        domain.DEAScheduleNone,
			ReturnEligibility: domain.EligibilityPolicy{
				Eligible:            true,
				ReturnWindowDays:    90,
				CreditPercentage:    70,
				DestructionRequired: true,
			},
		},
		{
			NDC:                "00078-0357-15",
			ProprietaryName:    "Ritalin",
			NonProprietaryName: "methylphenidate hydrochloride",
			ManufacturerName:   "Novartis",
			Strength:           "10 mg",
			DosageForm:         "TABLET",
			WAC:                decimal.RequireFromString("0.85"),
			DEASchedule:        domain.DEAScheduleII,
			ReturnEligibility: domain.EligibilityPolicy{
				Eligible:         true,
				ReturnWindowDays: 365,
				CreditPercentage: 80,
				RequiresDEAForm:  true,
			},
		},
		{
			NDC:                "00173-0682-20",
			ProprietaryName:    "Advair Diskus",
			NonProprietaryName: "fluticasone propionate and salmeterol",
			ManufacturerName:   "GlaxoSmithKline",
			Strength:           "250/50 mcg",
			DosageForm:         "INHALANT",
			WAC:                decimal.RequireFromString("393.80"),
			DEASchedule:        domain.DEAScheduleNone,
			ReturnEligibility: domain.EligibilityPolicy{
				Eligible:         true,
				ReturnWindowDays: 365,
				CreditPercentage: 88,
			},
		},
		{
			NDC:                "63459-0700-60",
			ProprietaryName:    "Vyvanse",
			NonProprietaryName: "lisdexamfetamine dimesylate",
			ManufacturerName:   "Takeda Pharmaceuticals",
			Strength:           "30 mg",
			DosageForm:         "CAPSULE",
			WAC:                decimal.RequireFromString("12.71"),
			DEASchedule:        domain.DEAScheduleII,
			ReturnEligibility: domain.EligibilityPolicy{
				Eligible:         true,
				ReturnWindowDays: 365,
				CreditPercentage: 85,
				RequiresDEAForm:  true,
			},
		},
		{
			NDC:                "00054-0222-25",
			ProprietaryName:    "Dexamethasone",
			NonProprietaryName: "dexamethasone",
			ManufacturerName:   "Hikma Pharmaceuticals",
			Strength:           "4 mg",
			DosageForm:         "TABLET",
			WAC:                decimal.RequireFromString("0.52"),
			DEASchedule:        domain.DEAScheduleNone,
			ReturnEligibility: domain.EligibilityPolicy{
				Eligible:         false,
				ReturnWindowDays: 0,
				CreditPercentage: 0,
			},
		},
	}
}
