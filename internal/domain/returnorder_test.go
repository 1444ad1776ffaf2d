package domain

import "testing"

func TestReturnStatusTransitions(t *testing.T) {
	tests := []struct {
		from ReturnStatus
		to   ReturnStatus
		ok   bool
	}{
		{ReturnStatusDraft, ReturnStatusSubmitted, true},
		{ReturnStatusDraft, ReturnStatusCancelled, true},
		{ReturnStatusDraft, ReturnStatusInTransit, false},
		{ReturnStatusDraft, ReturnStatusCredited, false},
		{ReturnStatusSubmitted, ReturnStatusInTransit, true},
		{ReturnStatusSubmitted, ReturnStatusCancelled, true},
		{ReturnStatusSubmitted, ReturnStatusDraft, false},
		{ReturnStatusInTransit, ReturnStatusCredited, true},
		{ReturnStatusInTransit, ReturnStatusCancelled, false},
		{ReturnStatusCredited, ReturnStatusDraft, false},
		{ReturnStatusCancelled, ReturnStatusSubmitted, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.ok {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.ok)
		}
	}
}

func TestPlanQuotas(t *testing.T) {
	if q := PlanBasic.MonthlyEstimateQuota(); q == nil || *q != 500 {
		t.Errorf("basic quota = %v, want 500", q)
	}
	if q := PlanProfessional.MonthlyEstimateQuota(); q == nil || *q != 5000 {
		t.Errorf("professional quota = %v, want 5000", q)
	}
	if q := PlanEnterprise.MonthlyEstimateQuota(); q != nil {
		t.Errorf("enterprise quota = %v, want unlimited", q)
	}
}
