package report

import (
	"regexp"

	"github.com/disputelens/credit-analyzer/internal/models"
)

// Analyzer runs the extraction pipeline: normalize → segment → extract →
// classify → detect violations → merge → filter. One Analyzer may be reused
// across documents; each Analyze call is independent and synchronous, owns
// the records it builds, and retains nothing from the input text.
type Analyzer struct {
	Segment SegmentOptions
	Policy  Policy
	// MaskSuffix is how many trailing account-number digits stay visible.
	MaskSuffix int
}

// NewAnalyzer returns an Analyzer with default options.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		Segment:    DefaultSegmentOptions(),
		Policy:     DefaultPolicy(),
		MaskSuffix: 4,
	}
}

// Result is the full output of one analysis run.
type Result struct {
	Bureau   models.Bureau         `json:"bureau,omitempty"`
	Accounts []models.Account      `json:"accounts"`
	Negative []models.Account      `json:"negative"`
	Traces   []models.SegmentTrace `json:"traces,omitempty"`
	Summary  map[string]int        `json:"summary"`
}

// Analyze processes one report's text end to end. Empty or blank input
// yields an empty result, never an error; every per-field failure inside
// the pipeline degrades to a placeholder or an unknown value.
func (an *Analyzer) Analyze(text string, roundNumber int) Result {
	res := Result{Summary: map[string]int{}}

	normalized := NormalizeText(text)
	if normalized == "" {
		res.Accounts = []models.Account{}
		res.Negative = []models.Account{}
		return res
	}

	res.Bureau = DetectBureau(normalized)

	blocks, traces := Segment(normalized, an.Segment)
	res.Traces = traces

	var accounts []models.Account
	for _, b := range blocks {
		accounts = append(accounts, an.extractAccount(b, roundNumber))
	}

	merged := MergeAccounts(accounts)
	res.Accounts = merged
	if res.Accounts == nil {
		res.Accounts = []models.Account{}
	}

	res.Negative = FilterNegative(merged, an.Policy)
	if res.Negative == nil {
		res.Negative = []models.Account{}
	}

	for _, a := range merged {
		res.Summary["status:"+string(a.Status)]++
	}
	for _, a := range res.Negative {
		res.Summary["disposition:"+string(a.Disposition)]++
	}
	return res
}

// extractAccount builds one record from one block.
func (an *Analyzer) extractAccount(b Block, roundNumber int) models.Account {
	acct := models.Account{
		CreditorRaw:        b.CreditorRaw,
		CreditorNormalized: NormalizeCreditor(b.CreditorRaw),
		RoundNumber:        roundNumber,
	}

	acct.AccountNumber, acct.NeedsVerification = ExtractAccountNumber(b.Text, an.MaskSuffix)
	acct.Balance, acct.BalanceKnown = ExtractBalance(b.Text)
	acct.LateEntries = ParseLateGrid(b.Text)

	c := ClassifyStatus(b.Text)
	acct.Status = c.Status
	acct.Severity = c.Severity
	acct.StatusExplicit = c.Explicit
	acct.ChargeOffPinned = c.ChargeOffPinned

	applyNegativeItems(&acct, b.Text)
	DetectViolations(&acct, b.Text)

	return acct
}

// Bureau identifiers as they appear in report headers and footers.
var (
	experianPattern   = regexp.MustCompile(`(?i)\bexperian\b|experian\.com`)
	equifaxPattern    = regexp.MustCompile(`(?i)\bequifax\b|equifax\.com`)
	transunionPattern = regexp.MustCompile(`(?i)\btrans\s?union\b|transunion\.com`)
)

// DetectBureau identifies which credit bureau produced the report. Purely a
// tag on the output; extraction behavior does not branch on it. Returns ""
// when no identifier is present.
func DetectBureau(text string) models.Bureau {
	head := text
	if len(head) > 4000 {
		head = head[:4000]
	}
	switch {
	case experianPattern.MatchString(head):
		return models.BureauExperian
	case equifaxPattern.MatchString(head):
		return models.BureauEquifax
	case transunionPattern.MatchString(head):
		return models.BureauTransUnion
	}
	// Fall back to scanning the whole document — footers carry the name too.
	full := text
	switch {
	case experianPattern.MatchString(full):
		return models.BureauExperian
	case equifaxPattern.MatchString(full):
		return models.BureauEquifax
	case transunionPattern.MatchString(full):
		return models.BureauTransUnion
	}
	return ""
}
