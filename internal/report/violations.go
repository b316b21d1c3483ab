package report

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/disputelens/credit-analyzer/internal/models"
)

// The violation detector applies Metro-2/CDIA-style field-consistency checks
// plus account-type statutory flags to a classified record. It only appends
// human-readable descriptors; status is never mutated here.

var (
	closedMarkerPattern    = regexp.MustCompile(`(?i)\b(closed|account\s+closed)\b`)
	openMarkerPattern      = regexp.MustCompile(`(?i)\b(open|account\s+open)\b`)
	revolvingPattern       = regexp.MustCompile(`(?i)\brevolving\b`)
	installmentPattern     = regexp.MustCompile(`(?i)\binstallment\b`)
	settlementNotePattern  = regexp.MustCompile(`(?i)\bsettl(ed|ement)\b|\bpaid\s+for\s+less\b`)
	disputeRemarkPattern   = regexp.MustCompile(`(?i)\bconsumer\s+disputes\b|\bdispute[d]?\s+by\s+consumer\b`)
	transferredSoldPattern = regexp.MustCompile(`(?i)\btransferred\b.{0,30}\bsold\b|\bsold\b.{0,30}\btransferred\b`)
)

// DetectViolations inspects a classified record against its source block and
// appends descriptors for every rule that fires.
func DetectViolations(acct *models.Account, block string) {
	add := func(v string) {
		for _, existing := range acct.DetectedViolations {
			if existing == v {
				return
			}
		}
		acct.DetectedViolations = append(acct.DetectedViolations, v)
	}

	closed := closedMarkerPattern.MatchString(block)
	open := openMarkerPattern.MatchString(block)

	if closed && open {
		add("Metro-2 conflict: account reported as both Closed and Open")
	}
	if closed && hasCreditLimit(block) {
		add("Metro-2 conflict: credit limit reported on a closed account")
	}
	if revolvingPattern.MatchString(block) && installmentPattern.MatchString(block) {
		add("Metro-2 conflict: account type reported as both revolving and installment")
	}
	if transferredSoldPattern.MatchString(block) {
		add("Metro-2 conflict: account reported as both transferred and sold")
	}

	switch acct.Status {
	case models.StatusChargeOff, models.StatusCollection:
		if acct.BalanceKnown && acct.Balance > 0 && !settlementNotePattern.MatchString(block) {
			add(fmt.Sprintf(
				"Metro-2 conflict: non-zero balance ($%.2f) on a %s account without a settlement note",
				acct.Balance, strings.ToLower(string(acct.Status))))
		}
	}

	// Statutory flags by account type.
	if isStudentLoanCreditor(acct.CreditorNormalized) {
		add("Federal student loan servicing: verify under Higher Education Act, 20 U.S.C. 1087e and 34 C.F.R. 682")
	}
	if acct.Status == models.StatusCollection || acct.Status == models.StatusChargeOff ||
		isCollectionAgency(acct.CreditorNormalized) {
		add("Debt collection practices subject to FDCPA, 15 U.S.C. 1692 et seq.")
	}
	if disputeRemarkPattern.MatchString(block) {
		add("FCRA 623(a)(3): account bears a consumer dispute remark; verify reinvestigation was completed")
	}
}
