package report

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/disputelens/credit-analyzer/internal/models"
)

// Payment-history grids come in several shapes:
//
//	"Jul 2025 (30), Aug 2025 (90)"         — inline month/year/code list
//	"30 Days Late: Jan 2024, Mar 2024"     — code first, months after
//	"Jan Feb Mar / OK 30 OK"               — columnar month row + code row
//
// The parser tokenizes the block and associates each delinquency code with
// the nearest preceding month/year token. A month with no year emits an
// entry with an empty year rather than being dropped.

var (
	monthTokenPattern = regexp.MustCompile(
		`(?i)\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\b`)
	yearTokenPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	// Codes appear bare, parenthesized, or suffixed: 30, (60), 90+
	codeTokenPattern = regexp.MustCompile(`\(?\b(30|60|90|120|150|180)\b\)?\+?`)
	// "CO" in a grid cell is a charge-off marker, not a delinquency count
	gridChargeOffPattern = regexp.MustCompile(`\bCO\b`)
	codeLabelPattern     = regexp.MustCompile(`(?i)\b(30|60|90|120|150|180)\s*days?\s*(?:late|past\s*due)`)
)

// ParseLateGrid scans a block for payment-history entries. It is tolerant by
// design: unmatched codes are skipped, a missing year yields an empty year,
// and no grid at all yields a nil slice.
func ParseLateGrid(block string) []models.LateEntry {
	var entries []models.LateEntry

	for _, line := range strings.Split(block, "\n") {
		// "30 Days Late: Jan 2024, Mar 2024" attaches one code to every
		// month that follows on the line.
		if m := codeLabelPattern.FindStringSubmatchIndex(line); m != nil {
			code, _ := strconv.Atoi(line[m[2]:m[3]])
			rest := line[m[1]:]
			entries = append(entries, monthsWithCode(rest, code)...)
			continue
		}
		entries = append(entries, parseInlineGrid(line)...)
	}

	return dedupeLateEntries(entries)
}

// parseInlineGrid walks a line's tokens left to right, remembering the most
// recent month/year pair and emitting an entry whenever a code appears.
func parseInlineGrid(line string) []models.LateEntry {
	type token struct {
		pos   int
		month string
		year  string
		code  int
	}
	var tokens []token

	for _, loc := range monthTokenPattern.FindAllStringSubmatchIndex(line, -1) {
		tokens = append(tokens, token{pos: loc[0], month: canonicalMonth(line[loc[2]:loc[3]])})
	}
	for _, loc := range yearTokenPattern.FindAllStringIndex(line, -1) {
		tokens = append(tokens, token{pos: loc[0], year: line[loc[0]:loc[1]]})
	}
	for _, loc := range codeTokenPattern.FindAllStringSubmatchIndex(line, -1) {
		code, err := strconv.Atoi(line[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		// A bare number that is actually part of a year or amount was
		// already consumed by the year/amount shapes; the code pattern's
		// word boundaries keep most of those out.
		tokens = append(tokens, token{pos: loc[0], code: code})
	}

	sortTokensByPos(tokens, func(a, b token) bool { return a.pos < b.pos })

	var entries []models.LateEntry
	curMonth, curYear := "", ""
	for _, t := range tokens {
		switch {
		case t.month != "":
			curMonth = t.month
			curYear = "" // a new month resets the year until one is seen
		case t.year != "":
			curYear = t.year
		case t.code != 0:
			if curMonth == "" {
				continue // code with no month context is noise
			}
			entries = append(entries, models.LateEntry{
				Month: curMonth,
				Year:  curYear,
				Code:  t.code,
			})
		}
	}
	return entries
}

// sortTokensByPos is an insertion sort; grid lines hold a handful of tokens.
func sortTokensByPos[T any](s []T, less func(a, b T) bool) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && less(s[j], s[j-1]); j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

// monthsWithCode emits one entry per month token in text, all carrying code.
func monthsWithCode(text string, code int) []models.LateEntry {
	var entries []models.LateEntry
	rest := text
	for {
		loc := monthTokenPattern.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}
		month := canonicalMonth(rest[loc[2]:loc[3]])
		after := rest[loc[1]:]
		year := ""
		if ym := yearTokenPattern.FindStringIndex(after); ym != nil && ym[0] < 8 {
			year = after[ym[0]:ym[1]]
		}
		entries = append(entries, models.LateEntry{Month: month, Year: year, Code: code})
		rest = after
	}
	return entries
}

func canonicalMonth(m string) string {
	m = strings.ToLower(m)
	if len(m) > 3 {
		m = m[:3]
	}
	return strings.ToUpper(m[:1]) + m[1:]
}

// dedupeLateEntries removes exact repeats while preserving order. The same
// grid cell often matches both the inline and labeled shapes.
func dedupeLateEntries(entries []models.LateEntry) []models.LateEntry {
	if len(entries) == 0 {
		return nil
	}
	seen := make(map[models.LateEntry]int)
	var out []models.LateEntry
	for _, e := range entries {
		seen[e]++
		// Allow genuine repeats (same month reported at two severities is a
		// different entry; identical triples beyond the first are dropped).
		if seen[e] == 1 {
			out = append(out, e)
		}
	}
	return out
}

// hasGridChargeOff reports whether the payment grid carries a CO cell,
// which the classifier treats as a charge-off indicator.
func hasGridChargeOff(block string) bool {
	return gridChargeOffPattern.MatchString(block)
}
