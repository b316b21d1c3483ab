package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSeverityOrdering(t *testing.T) {
	// Positive statuses outrank every negative one so incidental cues can
	// never displace them on raw severity.
	positives := []Status{StatusPaidAsAgreed, StatusNeverLate, StatusExceptional}
	negatives := []Status{
		StatusBankruptcy, StatusForeclosure, StatusRepossession,
		StatusCollection, StatusChargeOff, StatusSettled, StatusLate,
	}
	for _, p := range positives {
		for _, n := range negatives {
			if SeverityOf(p) <= SeverityOf(n) {
				t.Errorf("SeverityOf(%q)=%d not above SeverityOf(%q)=%d", p, SeverityOf(p), n, SeverityOf(n))
			}
		}
	}

	// Negative tier keeps its relative order.
	for i := 1; i < len(negatives); i++ {
		if SeverityOf(negatives[i-1]) <= SeverityOf(negatives[i]) {
			t.Errorf("severity not strictly decreasing: %q (%d) vs %q (%d)",
				negatives[i-1], SeverityOf(negatives[i-1]), negatives[i], SeverityOf(negatives[i]))
		}
	}

	if SeverityOf(StatusUnknown) != 0 {
		t.Errorf("unknown severity: got %d, want 0", SeverityOf(StatusUnknown))
	}
}

func TestStatusTiers(t *testing.T) {
	for _, s := range []Status{StatusPaidAsAgreed, StatusNeverLate, StatusExceptional} {
		if !s.IsPositive() || s.IsNegative() {
			t.Errorf("%q: positive=%v negative=%v", s, s.IsPositive(), s.IsNegative())
		}
	}
	for _, s := range []Status{StatusCollection, StatusChargeOff, StatusLate, StatusSettled} {
		if s.IsPositive() || !s.IsNegative() {
			t.Errorf("%q: positive=%v negative=%v", s, s.IsPositive(), s.IsNegative())
		}
	}
	for _, s := range []Status{StatusUnknown, StatusClosed, StatusOpen, StatusCurrent, StatusPaid} {
		if s.IsPositive() || s.IsNegative() {
			t.Errorf("%q should be neutral", s)
		}
	}
}

func TestAccountJSONHidesClassifierState(t *testing.T) {
	data, err := json.Marshal(Account{StatusExplicit: true, ChargeOffPinned: true})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "Explicit") || strings.Contains(string(data), "Pinned") {
		t.Errorf("classifier state leaked into JSON: %s", data)
	}
}
