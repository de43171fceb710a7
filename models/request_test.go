package models

import "testing"

func TestRequestStatusTransitions(t *testing.T) {
	cases := []struct {
		from    RequestStatus
		to      RequestStatus
		allowed bool
	}{
		{RequestOpen, RequestFulfilled, true},
		{RequestOpen, RequestClosed, true},
		{RequestFulfilled, RequestOpen, false},
		{RequestFulfilled, RequestClosed, false},
		{RequestClosed, RequestOpen, false},
		{RequestClosed, RequestFulfilled, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestUrgencyValid(t *testing.T) {
	for _, u := range []Urgency{UrgencyLow, UrgencyMedium, UrgencyHigh} {
		if !u.Valid() {
			t.Errorf("urgency %s should be valid", u)
		}
	}
	if Urgency("critical").Valid() {
		t.Error("unknown urgency should be invalid")
	}
}
