package report

import (
	"github.com/disputelens/credit-analyzer/internal/models"
)

// Policy holds the thresholds the negative-item filter applies when deciding
// which merged accounts carry into letter generation.
type Policy struct {
	// LateDeletionThreshold is the late-entry count at or above which a
	// late-only account is treated as deletion-worthy instead of
	// correction-worthy.
	LateDeletionThreshold int
}

// DefaultPolicy returns the thresholds used when no config overrides them.
func DefaultPolicy() Policy {
	return Policy{LateDeletionThreshold: 3}
}

// alwaysDeletionStatuses always qualify an account for inclusion with a
// deletion disposition, regardless of late-entry counts.
var alwaysDeletionStatuses = map[models.Status]bool{
	models.StatusCollection:   true,
	models.StatusChargeOff:    true,
	models.StatusBankruptcy:   true,
	models.StatusForeclosure:  true,
	models.StatusRepossession: true,
	models.StatusSettled:      true,
}

// FilterNegative selects the dispute-worthy subset of merged accounts and
// tags each with its disposition. Positive accounts with no negative items
// and no late history are always excluded.
func FilterNegative(accounts []models.Account, policy Policy) []models.Account {
	if policy.LateDeletionThreshold <= 0 {
		policy.LateDeletionThreshold = DefaultPolicy().LateDeletionThreshold
	}

	var out []models.Account
	for _, a := range accounts {
		if a.Status.IsPositive() && len(a.NegativeItems) == 0 && len(a.LateEntries) == 0 {
			continue
		}

		switch {
		case alwaysDeletionStatuses[a.Status]:
			a.Disposition = models.DispositionDeletion
		case len(a.LateEntries) >= policy.LateDeletionThreshold:
			a.Disposition = models.DispositionDeletion
		case a.Status == models.StatusLate || len(a.LateEntries) > 0 || len(a.NegativeItems) > 0:
			a.Disposition = models.DispositionCorrection
		default:
			// Neutral statuses (open/closed/current) with no negative
			// signal at all are not dispute-worthy.
			continue
		}

		out = append(out, a)
	}
	return out
}
