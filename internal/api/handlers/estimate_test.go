package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rxreturns/rxreturns/internal/catalog"
	"github.com/rxreturns/rxreturns/internal/domain"
	"github.com/rxreturns/rxreturns/internal/service"
)

func newTestEstimateHandler() *EstimateHandler {
	return NewEstimateHandler(service.NewEstimateService(catalog.NewStaticSeeded()))
}

// farExpiration is past every tier boundary but inside a 365-day return
// window, so the tier multiplier is 1.00 regardless of the wall clock.
func farExpiration() string {
	return time.Now().UTC().AddDate(0, 0, 300).Format("2006-01-02")
}

func postJSON(t *testing.T, handler http.HandlerFunc, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	return rec
}

func TestBatchEmptyItemsRejected(t *testing.T) {
	h := newTestEstimateHandler()

	rec := postJSON(t, h.Batch, domain.EstimateBatchRequest{Items: []domain.ReturnLineItem{}})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] == "" {
		t.Fatal("expected an error message")
	}
}

func TestBatchInvalidJSONRejected(t *testing.T) {
	h := newTestEstimateHandler()

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()

	h.Batch(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBatchTooManyItemsRejected(t *testing.T) {
	h := newTestEstimateHandler()

	items := make([]domain.ReturnLineItem, maxBatchItems+1)
	for i := range items {
		items[i] = domain.ReturnLineItem{
			NDC:            "00093-0058-01",
			Quantity:       1,
			ExpirationDate: farExpiration(),
			Condition:      domain.ConditionUnopened,
		}
	}

	rec := postJSON(t, h.Batch, domain.EstimateBatchRequest{Items: items})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBatchKnownAndUnknownNDC(t *testing.T) {
	h := newTestEstimateHandler()

	rec := postJSON(t, h.Batch, domain.EstimateBatchRequest{
		Items: []domain.ReturnLineItem{
			{NDC: "00093-0058-01", Quantity: 100, ExpirationDate: farExpiration(), Condition: domain.ConditionUnopened},
			{NDC: "99999-9999-99", Quantity: 10, ExpirationDate: farExpiration(), Condition: domain.ConditionUnopened},
		},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var resp domain.EstimateBatchResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(resp.Results))
	}
	if resp.Results[0].Estimate == nil || resp.Results[0].Estimate.NotFound {
		t.Fatalf("expected a catalog hit for the first line: %+v", resp.Results[0])
	}
	if resp.Results[1].Estimate == nil || !resp.Results[1].Estimate.NotFound {
		t.Fatalf("expected a not-found marker for the second line: %+v", resp.Results[1])
	}
	if resp.Summary.TotalItems != 2 {
		t.Fatalf("expected total_items 2, got %d", resp.Summary.TotalItems)
	}
	if resp.Summary.EligibleItems != 1 || resp.Summary.IneligibleItems != 1 {
		t.Fatalf("expected 1 eligible / 1 ineligible, got %d/%d",
			resp.Summary.EligibleItems, resp.Summary.IneligibleItems)
	}
}

func TestBatchValidationErrorLine(t *testing.T) {
	h := newTestEstimateHandler()

	rec := postJSON(t, h.Batch, domain.EstimateBatchRequest{
		Items: []domain.ReturnLineItem{
			{NDC: "not-an-ndc", Quantity: 1, ExpirationDate: farExpiration(), Condition: domain.ConditionUnopened},
		},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp domain.EstimateBatchResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if len(resp.Results) != 1 || resp.Results[0].Error == nil {
		t.Fatalf("expected a line error, got %+v", resp.Results)
	}
	if resp.Results[0].Error.Code != domain.LineErrorValidation {
		t.Fatalf("expected code %q, got %q", domain.LineErrorValidation, resp.Results[0].Error.Code)
	}
}

func TestValidateNDC(t *testing.T) {
	h := newTestEstimateHandler()

	tests := []struct {
		name       string
		input      string
		valid      bool
		normalized string
	}{
		{"already canonical", "00093-0058-01", true, "00093-0058-01"},
		{"bare digits", "00093005801", true, "00093-0058-01"},
		{"too short", "1234", false, ""},
		{"letters", "abcde-fghi-jk", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h.ValidateNDC, domain.NDCValidateRequest{NDC: tt.input})

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}

			var resp domain.NDCValidateResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if resp.Valid != tt.valid {
				t.Fatalf("valid = %v, want %v", resp.Valid, tt.valid)
			}
			if resp.Normalized != tt.normalized {
				t.Fatalf("normalized = %q, want %q", resp.Normalized, tt.normalized)
			}
		})
	}
}

func TestValidateNDCMissingInput(t *testing.T) {
	h := newTestEstimateHandler()

	rec := postJSON(t, h.ValidateNDC, domain.NDCValidateRequest{})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
