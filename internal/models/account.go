package models

// Account represents a single tradeline extracted from a credit report.
type Account struct {
	CreditorRaw        string      `json:"creditorRaw"`
	CreditorNormalized string      `json:"creditorNormalized"`
	AccountNumber      string      `json:"accountNumber"`
	NeedsVerification  bool        `json:"needsVerification,omitempty"`
	Balance            float64     `json:"balance"`
	BalanceKnown       bool        `json:"balanceKnown"`
	Status             Status      `json:"status"`
	Severity           int         `json:"severity"`
	NegativeItems      []string    `json:"negativeItems"`
	LateEntries        []LateEntry `json:"lateEntries"`
	DetectedViolations []string    `json:"detectedViolations"`
	Disposition        Disposition `json:"disposition,omitempty"`
	RoundNumber        int         `json:"roundNumber,omitempty"`

	// StatusExplicit records that the status came from a labeled "Status:"
	// line rather than an incidental cue. The merger re-applies precedence
	// rules across duplicates and needs to know which cues were explicit.
	StatusExplicit bool `json:"-"`
	// ChargeOffPinned records that a charge-off indicator was seen in the
	// source block; a pinned charge-off never downgrades to Late.
	ChargeOffPinned bool `json:"-"`
}

// LateEntry is one delinquency cell from a payment-history grid.
// Year is empty when the grid omits it.
type LateEntry struct {
	Month string `json:"month"`
	Year  string `json:"year,omitempty"`
	Code  int    `json:"code"` // 30, 60, 90, 120, 150, 180
}

// Status is the single authoritative classification of a tradeline.
type Status string

const (
	StatusUnknown      Status = ""
	StatusPaidAsAgreed Status = "Paid as agreed"
	StatusNeverLate    Status = "Never late"
	StatusExceptional  Status = "Exceptional payment history"
	StatusBankruptcy   Status = "Bankruptcy"
	StatusForeclosure  Status = "Foreclosure"
	StatusRepossession Status = "Repossession"
	StatusCollection   Status = "Collection"
	StatusChargeOff    Status = "Charge-off"
	StatusSettled      Status = "Settled"
	StatusLate         Status = "Late"
	StatusClosed       Status = "Closed"
	StatusPaid         Status = "Paid"
	StatusCurrent      Status = "Current"
	StatusOpen         Status = "Open"
)

// severityTable ranks statuses for cue resolution. Positive statuses occupy
// the highest tier so an incidental negative cue can never outrank one; the
// explicit-line and charge-off rules in the classifier handle the cases
// where raw severity ordering is not the whole story.
var severityTable = map[Status]int{
	StatusPaidAsAgreed: 15,
	StatusNeverLate:    15,
	StatusExceptional:  15,
	StatusBankruptcy:   12,
	StatusForeclosure:  11,
	StatusRepossession: 10,
	StatusCollection:   9,
	StatusChargeOff:    8,
	StatusSettled:      7,
	StatusLate:         5,
	StatusClosed:       2,
	StatusPaid:         2,
	StatusCurrent:      1,
	StatusOpen:         1,
	StatusUnknown:      0,
}

// SeverityOf returns the severity rank for a status. Unlisted statuses rank 0.
func SeverityOf(s Status) int {
	return severityTable[s]
}

// IsPositive reports whether the status is in the positive tier.
func (s Status) IsPositive() bool {
	switch s {
	case StatusPaidAsAgreed, StatusNeverLate, StatusExceptional:
		return true
	}
	return false
}

// IsNegative reports whether the status qualifies as a negative item.
func (s Status) IsNegative() bool {
	switch s {
	case StatusBankruptcy, StatusForeclosure, StatusRepossession,
		StatusCollection, StatusChargeOff, StatusSettled, StatusLate:
		return true
	}
	return false
}

// Disposition is the downstream intent derived by the negative-item filter.
type Disposition string

const (
	DispositionDeletion   Disposition = "deletion"
	DispositionCorrection Disposition = "correction"
)

// Bureau identifies which credit bureau produced a report.
type Bureau string

const (
	BureauExperian   Bureau = "experian"
	BureauEquifax    Bureau = "equifax"
	BureauTransUnion Bureau = "transunion"
)

// PlaceholderAccountNumber is emitted when no digits could be extracted.
const PlaceholderAccountNumber = "NEEDS VERIFICATION"

// SegmentTrace captures what the segmenter did with each anchor match,
// for diagnosing extraction issues.
type SegmentTrace struct {
	Anchor    string `json:"anchor"`
	Pattern   string `json:"pattern"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
	Result    string `json:"result"` // "block", "merged", "skipped"
}
