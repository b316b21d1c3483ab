package report

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/disputelens/credit-analyzer/internal/models"
)

// accountTokenPattern matches candidate account-number tokens: digit runs
// optionally interleaved with dashes and the mask characters bureaus already
// applied (517805XXXXXX, 4400-66**-****-1234). Word-boundary anchors do not
// work against '*', so the token shape is spelled out instead.
var accountTokenPattern = regexp.MustCompile(`[0-9X*][0-9X*-]{3,28}[0-9X*]`)

const minAccountDigits = 5

// ExtractAccountNumber finds the longest plausible account-number digit run
// in a block and masks all but the last maskSuffix digits. When no digits
// are found the placeholder is returned with needsVerification set — the
// record is still emitted so the account can be disputed for verification.
func ExtractAccountNumber(block string, maskSuffix int) (number string, needsVerification bool) {
	if maskSuffix <= 0 {
		maskSuffix = 4
	}

	run := longestDigitRun(block)
	if len(run) < minAccountDigits {
		return models.PlaceholderAccountNumber, true
	}
	return maskDigits(run, maskSuffix), false
}

// longestDigitRun returns the longest run of digits inside any account-like
// token in the text. Dates and dollar amounts rarely reach five consecutive
// digits, so length alone is a workable plausibility filter.
func longestDigitRun(text string) string {
	best := ""
	for _, tok := range accountTokenPattern.FindAllString(text, -1) {
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, tok)
		if len(digits) > len(best) {
			best = digits
		}
	}
	return best
}

// maskDigits hides every digit except the trailing suffix.
func maskDigits(digits string, suffix int) string {
	if len(digits) <= suffix {
		return digits
	}
	return strings.Repeat("X", len(digits)-suffix) + digits[len(digits)-suffix:]
}

// balanceLabelPattern finds a currency amount following a balance/amount
// label on the same line.
var balanceLabelPattern = regexp.MustCompile(
	`(?i)(?:balance|amount(?:\s+(?:owed|due|past\s+due))?|high\s+credit)\s*:?\s*\$?\s*(-?[\d,]+(?:\.\d{1,2})?)`,
)

// bareDollarPattern is the fallback: any $-prefixed amount in the block.
var bareDollarPattern = regexp.MustCompile(`\$\s*(-?[\d,]+(?:\.\d{1,2})?)`)

// ExtractBalance locates the balance amount in a block. It prefers amounts
// adjacent to a balance/amount label and falls back to the first $-prefixed
// figure. Returns (0, false) when nothing parseable is present; malformed
// currency strings are skipped, never fatal.
func ExtractBalance(block string) (float64, bool) {
	if m := balanceLabelPattern.FindStringSubmatch(block); m != nil {
		if v, err := parseAmount(m[1]); err == nil {
			return v, true
		}
	}
	if m := bareDollarPattern.FindStringSubmatch(block); m != nil {
		if v, err := parseAmount(m[1]); err == nil {
			return v, true
		}
	}
	return 0, false
}

// parseAmount converts a string like "1,847" or "$1,234.56" to a float64.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "") // non-breaking space

	if s == "" || s == "-" {
		return 0, nil
	}

	return strconv.ParseFloat(s, 64)
}

// creditLimitPattern detects a reported credit limit, used by the violation
// detector (a closed account should not carry a limit).
var creditLimitPattern = regexp.MustCompile(
	`(?i)credit\s+limit\s*:?\s*\$?\s*([\d,]+(?:\.\d{1,2})?)`,
)

func hasCreditLimit(block string) bool {
	m := creditLimitPattern.FindStringSubmatch(block)
	if m == nil {
		return false
	}
	v, err := parseAmount(m[1])
	return err == nil && v > 0
}
