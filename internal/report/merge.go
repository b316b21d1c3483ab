package report

import (
	"github.com/disputelens/credit-analyzer/internal/models"
)

// MergeAccounts unifies records that describe the same real-world tradeline.
// The merge key is (creditor_normalized, account_number); creditor-name
// variants were already collapsed by normalization. Records whose account
// number is a verification placeholder fold into a verified group for the
// same creditor only when that creditor has exactly one verified group —
// with two verified candidates the engine keeps the placeholder separate,
// since silent wrong merging is worse than under-merging.
//
// MergeAccounts is idempotent: merging its own output reduces nothing
// further.
func MergeAccounts(accounts []models.Account) []models.Account {
	if len(accounts) == 0 {
		return nil
	}

	type key struct {
		creditor string
		number   string
	}

	var order []key
	groups := make(map[key][]models.Account)
	verifiedByCreditor := make(map[string]map[string]bool)

	for _, a := range accounts {
		k := key{a.CreditorNormalized, a.AccountNumber}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], a)
		if !a.NeedsVerification {
			if verifiedByCreditor[a.CreditorNormalized] == nil {
				verifiedByCreditor[a.CreditorNormalized] = map[string]bool{}
			}
			verifiedByCreditor[a.CreditorNormalized][a.AccountNumber] = true
		}
	}

	// Fold placeholder groups into the sole verified group for the creditor.
	for _, k := range order {
		members := groups[k]
		if len(members) == 0 || !members[0].NeedsVerification {
			continue
		}
		verified := verifiedByCreditor[k.creditor]
		if len(verified) != 1 {
			continue
		}
		var target key
		for num := range verified {
			target = key{k.creditor, num}
		}
		groups[target] = append(groups[target], members...)
		groups[k] = nil
	}

	var out []models.Account
	for _, k := range order {
		members := groups[k]
		if len(members) == 0 {
			continue
		}
		out = append(out, mergeGroup(members))
	}
	return out
}

// mergeGroup reduces one group to a single record, preserving the most
// severe and most complete data.
func mergeGroup(members []models.Account) models.Account {
	merged := members[0]

	for _, m := range members[1:] {
		merged = mergePair(merged, m)
	}

	merged.Severity = models.SeverityOf(merged.Status)
	return merged
}

// mergePair folds b into a, re-applying the classifier's precedence rules
// over the pair's cue set rather than comparing severity alone.
func mergePair(a, b models.Account) models.Account {
	out := a

	out.Status, out.StatusExplicit = resolveMergedStatus(a, b)
	out.ChargeOffPinned = a.ChargeOffPinned || b.ChargeOffPinned

	// Prefer verified identity fields over placeholders.
	if out.NeedsVerification && !b.NeedsVerification {
		out.AccountNumber = b.AccountNumber
		out.NeedsVerification = false
	}
	if !out.BalanceKnown && b.BalanceKnown {
		out.Balance = b.Balance
		out.BalanceKnown = true
	}
	if out.CreditorRaw == "" {
		out.CreditorRaw = b.CreditorRaw
	}

	out.NegativeItems = unionStrings(a.NegativeItems, b.NegativeItems)
	out.LateEntries = unionLateEntries(a.LateEntries, b.LateEntries)
	out.DetectedViolations = unionStrings(a.DetectedViolations, b.DetectedViolations)

	// Keep negative-item consistency across the merge boundary.
	if out.Status.IsPositive() {
		out.NegativeItems = nil
	} else if out.Status.IsNegative() {
		out.NegativeItems = unionStrings(out.NegativeItems, []string{string(out.Status)})
	}

	return out
}

// resolveMergedStatus re-applies the precedence rules as if both records'
// cues came from one block: explicit beats incidental, the charge-off pin
// blocks Late, and otherwise the higher severity wins.
func resolveMergedStatus(a, b models.Account) (models.Status, bool) {
	pinned := a.ChargeOffPinned || b.ChargeOffPinned

	pick := func(s models.Status, explicit bool) (models.Status, bool) {
		if pinned && s == models.StatusLate {
			return models.StatusChargeOff, false
		}
		return s, explicit
	}

	switch {
	case a.StatusExplicit && !b.StatusExplicit:
		return pick(a.Status, true)
	case b.StatusExplicit && !a.StatusExplicit:
		return pick(b.Status, true)
	case a.StatusExplicit && b.StatusExplicit:
		// Both explicit: the later record is presumed closer to the current
		// reporting period, mirroring the in-block tie-break.
		return pick(b.Status, true)
	}

	if models.SeverityOf(b.Status) > models.SeverityOf(a.Status) {
		return pick(b.Status, false)
	}
	return pick(a.Status, false)
}

func unionStrings(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, s := range append(append([]string{}, a...), b...) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func unionLateEntries(a, b []models.LateEntry) []models.LateEntry {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[models.LateEntry]bool, len(a)+len(b))
	var out []models.LateEntry
	for _, e := range append(append([]models.LateEntry{}, a...), b...) {
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out
}
