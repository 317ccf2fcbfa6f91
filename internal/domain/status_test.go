package domain

import "testing"

func TestCanonicalStatus(t *testing.T) {
	cases := map[string]string{
		"pending":   StatusPending,
		"APPROVED":  StatusPaid,
		"paid":      StatusPaid,
		"completed": StatusPaid,
		"canceled":  StatusCancelled,
		"cancelled": StatusCancelled,
		"Expired":   StatusExpired,
		"refunded":  StatusRefunded,
		"weird":     "weird",
	}
	for raw, want := range cases {
		if got := CanonicalStatus(raw); got != want {
			t.Errorf("CanonicalStatus(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestAllowsTransition(t *testing.T) {
	cases := []struct {
		current, next string
		want          bool
	}{
		{StatusPending, StatusPaid, true},
		{StatusPaid, StatusPending, false},
		{StatusPaid, StatusPaid, true},
		{StatusPaid, StatusRefunded, true},
		{StatusRefunded, StatusPaid, false},
		// failure states always apply, even over paid
		{StatusPending, StatusRejected, true},
		{StatusPaid, StatusCancelled, true},
		{StatusPaid, StatusExpired, true},
		// unknown statuses rank zero but are not failure states
		{StatusPending, "weird", false},
	}
	for _, tc := range cases {
		if got := AllowsTransition(tc.current, tc.next); got != tc.want {
			t.Errorf("AllowsTransition(%q, %q) = %v, want %v", tc.current, tc.next, got, tc.want)
		}
	}
}

func TestUtmifyStatus(t *testing.T) {
	if s, ok := UtmifyStatus(StatusPending); !ok || s != "waiting_payment" {
		t.Errorf("UtmifyStatus(pending) = %q, %v", s, ok)
	}
	if s, ok := UtmifyStatus(StatusPaid); !ok || s != "paid" {
		t.Errorf("UtmifyStatus(paid) = %q, %v", s, ok)
	}
	for _, s := range []string{StatusRejected, StatusCancelled, StatusExpired, StatusRefunded} {
		if _, ok := UtmifyStatus(s); ok {
			t.Errorf("UtmifyStatus(%q) should not be reportable", s)
		}
	}
}
