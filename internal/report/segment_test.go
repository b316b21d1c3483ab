package report

import (
	"regexp"
	"strings"
	"testing"
)

func TestSegment_SingleBlock(t *testing.T) {
	text := NormalizeText(`Experian Credit Report

CAPITAL ONE
Account Number: 517805XXXXXX
Status: Late
Balance: $1,847`)

	blocks, traces := Segment(text, DefaultSegmentOptions())
	if len(blocks) != 1 {
		t.Fatalf("blocks: got %d, want 1", len(blocks))
	}

	b := blocks[0]
	if NormalizeCreditor(b.CreditorRaw) != "CAPITAL ONE" {
		t.Errorf("creditor: got %q", b.CreditorRaw)
	}
	if !strings.Contains(b.Text, "517805XXXXXX") {
		t.Errorf("block should contain the account number, got:\n%s", b.Text)
	}
	if len(traces) != 1 || traces[0].Result != "block" {
		t.Errorf("traces: got %+v", traces)
	}
}

func TestSegment_NoAnchor(t *testing.T) {
	blocks, _ := Segment("nothing that looks like a tradeline here", DefaultSegmentOptions())
	if len(blocks) != 0 {
		t.Errorf("expected no blocks, got %d", len(blocks))
	}

	blocks, _ = Segment("", DefaultSegmentOptions())
	if blocks != nil {
		t.Errorf("empty input: expected nil, got %v", blocks)
	}
}

func TestSegment_OverlapSameAccount(t *testing.T) {
	// Two anchors for the same creditor within one window and a single
	// account number must not double-count the tradeline.
	text := NormalizeText(`CHASE
Account: 123456789012
Balance: $500
CHASE CARD
Status: Current`)

	blocks, traces := Segment(text, DefaultSegmentOptions())
	if len(blocks) != 1 {
		t.Fatalf("blocks: got %d, want 1 (overlap should merge)", len(blocks))
	}

	merged := 0
	for _, tr := range traces {
		if tr.Result == "merged" {
			merged++
		}
	}
	if merged != 1 {
		t.Errorf("expected 1 merged trace, got %d", merged)
	}
}

func TestSegment_OverlapDistinctAccounts(t *testing.T) {
	// Same creditor, overlapping windows, but two distinct account numbers:
	// genuinely separate tradelines, both blocks survive.
	text := NormalizeText(`CHASE
Account: 111122223333
CHASE CARD
Account: 999988887777`)

	blocks, _ := Segment(text, SegmentOptions{LinesAfter: 2})
	if len(blocks) != 2 {
		t.Fatalf("blocks: got %d, want 2 (distinct account numbers)", len(blocks))
	}
}

func TestSegment_AdjacentTradelinesDoNotBleed(t *testing.T) {
	// Two tradelines closer together than the window size: each block must
	// stop at the other's anchor so status lines stay with their creditor.
	text := NormalizeText(`CAPITAL ONE
Account Number: 517805XXXXXX
Status: Late
CHASE
Account Number: 426684XXXXXX
Status: Charge Off`)

	blocks, _ := Segment(text, DefaultSegmentOptions())
	if len(blocks) != 2 {
		t.Fatalf("blocks: got %d, want 2", len(blocks))
	}
	if strings.Contains(blocks[0].Text, "Charge Off") {
		t.Errorf("first block leaked into second tradeline:\n%s", blocks[0].Text)
	}
	if strings.Contains(blocks[1].Text, "517805XXXXXX") {
		t.Errorf("second block leaked into first tradeline:\n%s", blocks[1].Text)
	}
}

func TestSegment_GenericSuffixMatcher(t *testing.T) {
	// A creditor the alias table has never seen, caught structurally.
	text := NormalizeText(`ROCKY MOUNTAIN CREDIT UNION
Account: 55556666
Status: Paid as agreed`)

	blocks, traces := Segment(text, DefaultSegmentOptions())
	if len(blocks) != 1 {
		t.Fatalf("blocks: got %d, want 1", len(blocks))
	}
	if !strings.Contains(strings.ToUpper(blocks[0].CreditorRaw), "ROCKY MOUNTAIN CREDIT UNION") {
		t.Errorf("creditor: got %q", blocks[0].CreditorRaw)
	}
	if traces[0].Pattern != "generic" {
		t.Errorf("pattern: got %q, want generic", traces[0].Pattern)
	}
}

func TestSegment_ExtraPatterns(t *testing.T) {
	text := "ACME WIDGETS\nAccount: 1234567"
	extra := []*regexp.Regexp{regexp.MustCompile(`ACME WIDGETS`)}

	blocks, _ := Segment(text, SegmentOptions{LinesBefore: 1, LinesAfter: 2, ExtraPatterns: extra})
	if len(blocks) != 1 {
		t.Fatalf("blocks: got %d, want 1", len(blocks))
	}
	if blocks[0].CreditorRaw != "ACME WIDGETS" {
		t.Errorf("creditor: got %q", blocks[0].CreditorRaw)
	}
}

func TestContainsWord(t *testing.T) {
	tests := []struct {
		haystack string
		needle   string
		want     bool
	}{
		{"JPMCB CARD SERVICES", "JPMCB CARD", true},
		{"FELICITY BANK", "CITI", false},
		{"CITI", "CITI", true},
		{"ACITI", "CITI", false},
		{"CITIBANK", "CITI", false},
	}
	for _, tt := range tests {
		if got := containsWord(tt.haystack, tt.needle); got != tt.want {
			t.Errorf("containsWord(%q, %q) = %v, want %v", tt.haystack, tt.needle, got, tt.want)
		}
	}
}
