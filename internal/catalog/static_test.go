package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/rxreturns/rxreturns/pkg/ndc"
)

func TestStaticLookup(t *testing.T) {
	cat := NewStaticSeeded()

	rec, err := cat.Lookup(context.Background(), "00093-0058-01")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if rec.ProprietaryName != "Lisinopril" {
		t.Fatalf("expected Lisinopril, got %q", rec.ProprietaryName)
	}
	if !rec.ReturnEligibility.Eligible {
		t.Fatal("expected an eligible product")
	}
}

func TestStaticLookupNotFound(t *testing.T) {
	cat := NewStaticSeeded()

	_, err := cat.Lookup(context.Background(), "99999-9999-99")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStaticSearch(t *testing.T) {
	cat := NewStaticSeeded()

	tests := []struct {
		name  string
		query string
		limit int
		want  int
	}{
		{"by proprietary name", "lipitor", 0, 1},
		{"by non-proprietary name", "sertraline", 0, 1},
		{"case insensitive", "LISINOPRIL", 0, 1},
		{"no match", "aspirin", 0, 0},
		{"limit applies", "", 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matches, err := cat.Search(context.Background(), tt.query, tt.limit)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if len(matches) != tt.want {
				t.Fatalf("got %d matches, want %d", len(matches), tt.want)
			}
		})
	}
}

func TestSeedProductsNormalized(t *testing.T) {
	for _, rec := range SeedProducts() {
		if !ndc.IsValidFormat(rec.NDC) {
			t.Errorf("seed NDC %q is not in canonical 5-4-2 form", rec.NDC)
		}
		pct := rec.ReturnEligibility.CreditPercentage
		if pct < 0 || pct > 100 {
			t.Errorf("seed NDC %s has credit percentage %d outside [0,100]", rec.NDC, pct)
		}
	}
}

func TestSeedProductsIncludeControlled(t *testing.T) {
	var controlled int
	for _, rec := range SeedProducts() {
		if rec.DEASchedule.Controlled() {
			controlled++
			if !rec.ReturnEligibility.RequiresDEAForm {
				t.Errorf("controlled product %s does not require a DEA form", rec.NDC)
			}
		}
	}
	if controlled == 0 {
		t.Fatal("expected at least one controlled product in the seed dataset")
	}
}
