package report

import (
	"regexp"
	"strings"

	"github.com/disputelens/credit-analyzer/internal/models"
)

// The classifier scans a block for status cues and resolves them through an
// ordered severity model instead of a chain of keyword overrides. Three
// named precedence rules sit on top of plain highest-severity-wins:
//
//   - explicit-line override: a labeled "Status:" line always wins over
//     incidental text, and a later explicit line beats an earlier one
//     (merged multi-report text puts the current period last).
//   - charge-off pin: once any charge-off indicator is seen, the status is
//     Charge-off and a Late cue can never displace it within the block.
//   - positive protection: a matched positive cue blocks every later
//     incidental negative cue; only an explicit line gets through.

// statusCue maps a detection pattern to a status. Cues are checked in order;
// order matters only for overlapping patterns (charge-off phrasing before
// the bare "late").
type statusCue struct {
	pattern *regexp.Regexp
	status  models.Status
}

var statusCues = []statusCue{
	{regexp.MustCompile(`(?i)\bcharge[d]?[\s-]*off\b`), models.StatusChargeOff},
	{regexp.MustCompile(`(?i)\bwritten\s+off\b`), models.StatusChargeOff},
	{regexp.MustCompile(`(?i)charged\s+to\s+profit\s+and\s+loss`), models.StatusChargeOff},
	{regexp.MustCompile(`(?i)\bbankruptcy\b|\bchapter\s+(7|11|13)\b`), models.StatusBankruptcy},
	{regexp.MustCompile(`(?i)\bforeclos`), models.StatusForeclosure},
	{regexp.MustCompile(`(?i)\brepossess|\brepo\b`), models.StatusRepossession},
	{regexp.MustCompile(`(?i)\bcollection[s]?\b|\bplaced\s+for\s+collection\b`), models.StatusCollection},
	{regexp.MustCompile(`(?i)\bsettled\b|\bsettlement\s+accepted\b|\bpaid\s+settlement\b`), models.StatusSettled},
	{regexp.MustCompile(`(?i)\b(30|60|90|120|150|180)\s*days?\s*(?:late|past\s*due)\b`), models.StatusLate},
	{regexp.MustCompile(`(?i)\blate\b|\bpast\s+due\b|\bdelinquen`), models.StatusLate},
	{regexp.MustCompile(`(?i)\bpaid\s+as\s+agreed\b|\bpays\s+as\s+agreed\b`), models.StatusPaidAsAgreed},
	{regexp.MustCompile(`(?i)\bnever\s+late\b`), models.StatusNeverLate},
	{regexp.MustCompile(`(?i)\bexceptional\s+payment\s+history\b`), models.StatusExceptional},
	{regexp.MustCompile(`(?i)\bclosed\b`), models.StatusClosed},
	{regexp.MustCompile(`(?i)\bpaid\s*,?\s*closed\b|\bpaid\s+in\s+full\b`), models.StatusPaid},
	{regexp.MustCompile(`(?i)\bcurrent\b`), models.StatusCurrent},
	{regexp.MustCompile(`(?i)\bopen\b`), models.StatusOpen},
}

// explicitStatusLine matches a labeled status line: "Status: Charge Off",
// "Account Status - Late", "Pay Status: Collection". The whole remainder of
// the line is the payload; a long trailing remark must not demote the line
// to an incidental cue.
var explicitStatusLine = regexp.MustCompile(
	`(?i)^\s*(?:account\s+|pay(?:ment)?\s+)?status\s*[:\-]\s*(.+)$`)

// Classification is the classifier's terminal output for one block.
type Classification struct {
	Status          models.Status
	Severity        int
	Explicit        bool // set from a labeled "Status:" line
	ChargeOffPinned bool // a charge-off indicator was seen in the block
	PositiveLocked  bool // a positive cue matched before any explicit line
}

// ClassifyStatus resolves the single authoritative status for a block.
func ClassifyStatus(block string) Classification {
	c := Classification{Status: models.StatusUnknown}

	// Any charge-off indicator pins the status regardless of where in the
	// block it appears, so the pin is set before the line walk can let an
	// explicit line land first. Grid CO cells and textual cues alike.
	if hasGridChargeOff(block) || blockHasCue(block, models.StatusChargeOff) {
		c.apply(models.StatusChargeOff, false)
	}

	for _, line := range strings.Split(block, "\n") {
		if m := explicitStatusLine.FindStringSubmatch(line); m != nil {
			if st := cueOnText(m[1]); st != models.StatusUnknown {
				c.apply(st, true)
			}
			continue
		}
		if st := cueOnText(line); st != models.StatusUnknown {
			c.apply(st, false)
		}
	}

	c.Severity = models.SeverityOf(c.Status)
	return c
}

// cueOnText returns the highest-severity status cue matching the text, so a
// line reading "Collection account, 30 days late" resolves to Collection.
func cueOnText(text string) models.Status {
	best := models.StatusUnknown
	for _, cue := range statusCues {
		if !cue.pattern.MatchString(text) {
			continue
		}
		if models.SeverityOf(cue.status) > models.SeverityOf(best) {
			best = cue.status
		}
	}
	return best
}

// apply runs the precedence rules for one candidate cue.
func (c *Classification) apply(candidate models.Status, explicit bool) {
	if candidate == models.StatusChargeOff {
		c.ChargeOffPinned = true
	}

	if explicit {
		// Charge-off pin holds even against an explicit Late line; any
		// other explicit status wins outright. Later explicit lines
		// replace earlier ones.
		if c.ChargeOffPinned && candidate == models.StatusLate {
			return
		}
		c.Status = candidate
		c.Explicit = true
		c.PositiveLocked = candidate.IsPositive()
		return
	}

	if c.Explicit {
		return // incidental text never displaces a labeled line
	}

	if c.PositiveLocked && !candidate.IsPositive() {
		return // positive protection
	}

	if c.ChargeOffPinned && candidate == models.StatusLate {
		return // charge-off pin
	}

	if models.SeverityOf(candidate) > models.SeverityOf(c.Status) {
		c.Status = candidate
		if candidate.IsPositive() {
			c.PositiveLocked = true
		}
	}
}

// applyNegativeItems makes the record's negative-item set consistent with
// its final status: a negative status always names itself, a positive
// status clears the set.
func applyNegativeItems(acct *models.Account, block string) {
	if acct.Status.IsPositive() {
		acct.NegativeItems = nil
		return
	}

	seen := map[string]bool{}
	add := func(item string) {
		if !seen[item] {
			seen[item] = true
			acct.NegativeItems = append(acct.NegativeItems, item)
		}
	}

	if acct.Status.IsNegative() {
		add(string(acct.Status))
	}

	// Qualifying indicators detected in the block text attach even when a
	// higher-severity status won classification.
	for _, st := range []models.Status{
		models.StatusChargeOff, models.StatusCollection, models.StatusLate,
		models.StatusSettled, models.StatusRepossession,
		models.StatusForeclosure, models.StatusBankruptcy,
	} {
		if acct.Status == st {
			continue
		}
		if blockHasCue(block, st) {
			add(string(st))
		}
	}

	if len(acct.LateEntries) > 0 {
		add(string(models.StatusLate))
	}
}

// blockHasCue reports whether any cue for the given status matches the block.
func blockHasCue(block string, status models.Status) bool {
	for _, cue := range statusCues {
		if cue.status == status && cue.pattern.MatchString(block) {
			return true
		}
	}
	return false
}
