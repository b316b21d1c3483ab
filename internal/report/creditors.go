package report

import (
	"regexp"
	"strings"
)

// creditorAliases maps bureau-specific creditor spellings to a canonical
// display name. Matching is done on the uppercased, artifact-stripped form.
// New bureau abbreviations only need a row here, not new matching logic.
var creditorAliases = map[string]string{
	"DISCOVERCARD":        "DISCOVER CARD",
	"DISCOVER FIN SVCS":   "DISCOVER CARD",
	"DISCOVERBANK":        "DISCOVER BANK",
	"CAP ONE":             "CAPITAL ONE",
	"CAPITAL ONE BANK":    "CAPITAL ONE",
	"CAPITAL ONE N.A.":    "CAPITAL ONE",
	"CAPONE":              "CAPITAL ONE",
	"CBNA":                "CITIBANK",
	"CITICARDS":           "CITIBANK",
	"CITI":                "CITIBANK",
	"JPMCB":               "CHASE",
	"JPMCB CARD":          "CHASE",
	"CHASE CARD":          "CHASE",
	"AMEX":                "AMERICAN EXPRESS",
	"AMERICANEXPRESS":     "AMERICAN EXPRESS",
	"BK OF AMER":          "BANK OF AMERICA",
	"BOFA":                "BANK OF AMERICA",
	"WF":                  "WELLS FARGO",
	"WELLSFARGO":          "WELLS FARGO",
	"WFBNA":               "WELLS FARGO",
	"SYNCB":               "SYNCHRONY BANK",
	"SYNCB/AMAZON":        "SYNCHRONY BANK",
	"SYNCB/PAYPAL":        "SYNCHRONY BANK",
	"SYNCHRONY":           "SYNCHRONY BANK",
	"CREDIT ONE":          "CREDIT ONE BANK",
	"CREDITONEBNK":        "CREDIT ONE BANK",
	"GOLDMAN SACHS BK":    "GOLDMAN SACHS BANK",
	"NAVIENT SOLUTIONS":   "NAVIENT",
	"DEPT OF ED":          "DEPT OF EDUCATION",
	"DEPT OF ED/NELNET":   "NELNET",
	"DEPT OF ED/AIDV":     "AIDVANTAGE",
	"FEDLOAN SERV":        "FEDLOAN SERVICING",
	"PRA":                 "PORTFOLIO RECOVERY ASSOCIATES",
	"PORTFOLIO RECOV":     "PORTFOLIO RECOVERY ASSOCIATES",
	"MIDLAND FUND":        "MIDLAND FUNDING",
	"MIDLAND CRED":        "MIDLAND CREDIT MANAGEMENT",
	"LVNV":                "LVNV FUNDING",
	"ONEMAIN":             "ONEMAIN FINANCIAL",
	"US BK":               "US BANK",
	"TD BANK USA":         "TD BANK",
	"BARCLAYS BANK DE":    "BARCLAYS",
	"COMENITYBANK":        "COMENITY BANK",
	"COMENITY BK":         "COMENITY BANK",
	"AUSTIN CAP BK":       "AUSTIN CAPITAL BANK",
	"SELF FINANCIAL/LEAD": "SELF FINANCIAL",
}

// genericCreditorPattern catches tradeline headers the alias table has never
// seen: an uppercase-ish name ending in an institution suffix. Credit unions
// and collection agencies show up under endless local names, so structural
// matching carries the long tail.
var genericCreditorPattern = regexp.MustCompile(
	`(?i)\b([A-Z][A-Z0-9&.' /-]{2,40}\s+` +
		`(?:BANK|CARD|CREDIT UNION|FCU|CU|FINANCIAL|FUNDING|LENDING|LOANS?|` +
		`MORTGAGE|SERVICING|SERVICES|COLLECTIONS?|RECOVERY|PORTFOLIO|ASSOCIATES|` +
		`ACCEPTANCE|AUTO FINANCE|N\.?A\.?))\b`,
)

// artifactPattern strips stray regex/OCR leftovers from a matched name.
var artifactPattern = regexp.MustCompile(`[*^$\\|()\[\]{}+?]`)

// NormalizeCreditor canonicalizes a raw matched creditor string into the
// identifier used for dedup and merge keys. The raw string is kept on the
// record for display; this form exists only for matching.
func NormalizeCreditor(raw string) string {
	s := artifactPattern.ReplaceAllString(raw, "")
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	if canonical, ok := creditorAliases[s]; ok {
		return canonical
	}
	// Try again with trailing corporate noise removed
	trimmed := strings.TrimSuffix(s, ",")
	for _, suffix := range []string{" LLC", " INC", " CORP", " CO", " NA", " N.A."} {
		trimmed = strings.TrimSuffix(trimmed, suffix)
	}
	trimmed = strings.TrimSpace(trimmed)
	if canonical, ok := creditorAliases[trimmed]; ok {
		return canonical
	}
	return s
}

// RegisterCreditorAlias adds a bureau spelling → canonical name mapping.
// Used by config loading so deployments can extend the table without a
// code change.
func RegisterCreditorAlias(spelling, canonical string) {
	spelling = strings.ToUpper(strings.TrimSpace(spelling))
	canonical = strings.ToUpper(strings.TrimSpace(canonical))
	if spelling == "" || canonical == "" {
		return
	}
	creditorAliases[spelling] = canonical
}

// studentLoanServicers are creditor patterns that identify federal
// education-loan tradelines for statutory violation flagging.
var studentLoanServicers = []string{
	"NAVIENT", "NELNET", "MOHELA", "AIDVANTAGE", "FEDLOAN",
	"GREAT LAKES", "SALLIE MAE", "DEPT OF EDUCATION", "DEPT OF ED",
	"EDFINANCIAL", "ECSI", "OSLA",
}

// isStudentLoanCreditor reports whether the normalized creditor matches a
// known education-loan servicer.
func isStudentLoanCreditor(normalized string) bool {
	for _, s := range studentLoanServicers {
		if strings.Contains(normalized, s) {
			return true
		}
	}
	return false
}

// collectionAgencyPattern marks creditors that are debt collectors rather
// than original furnishers.
var collectionAgencyPattern = regexp.MustCompile(
	`(?i)\b(COLLECTIONS?|RECOVERY|PORTFOLIO|MIDLAND|LVNV|CONVERGENT|IC SYSTEM|RADIUS GLOBAL)\b`,
)

func isCollectionAgency(normalized string) bool {
	return collectionAgencyPattern.MatchString(normalized)
}
