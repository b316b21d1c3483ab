package report

import (
	"regexp"
	"strings"

	"github.com/disputelens/credit-analyzer/internal/models"
)

// Block is one candidate tradeline region: the creditor anchor that was
// matched plus the bounded window of lines around it.
type Block struct {
	CreditorRaw string
	Text        string
	StartLine   int
	EndLine     int
}

// SegmentOptions bounds the context window around each creditor anchor.
type SegmentOptions struct {
	LinesBefore int
	LinesAfter  int
	// ExtraPatterns are additional anchor regexes supplied by config.
	ExtraPatterns []*regexp.Regexp
}

// DefaultSegmentOptions returns the window used when the caller passes zero
// values. Credit report tradelines put most fields below the creditor line,
// so the window is asymmetric.
func DefaultSegmentOptions() SegmentOptions {
	return SegmentOptions{LinesBefore: 2, LinesAfter: 10}
}

// Segment locates creditor anchors in normalized report text and returns one
// block per presumed tradeline. Windows are clamped at the nearest anchor
// for a different creditor so one tradeline's fields never bleed into a
// neighbor's block. Overlapping anchors that normalize to the same creditor
// collapse into a single extended block unless the overlapping regions carry
// distinct account-number digit runs, in which case both survive as separate
// tradelines. No anchor matches → empty slice.
func Segment(text string, opts SegmentOptions) ([]Block, []models.SegmentTrace) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if opts.LinesBefore <= 0 && opts.LinesAfter <= 0 {
		opts = SegmentOptions{
			LinesBefore:   DefaultSegmentOptions().LinesBefore,
			LinesAfter:    DefaultSegmentOptions().LinesAfter,
			ExtraPatterns: opts.ExtraPatterns,
		}
	}

	lines := splitLines(text)

	type anchor struct {
		line       int
		raw        string
		pattern    string
		normalized string
	}
	var anchors []anchor
	for i, line := range lines {
		raw, pattern := matchAnchor(line, opts.ExtraPatterns)
		if raw == "" {
			continue
		}
		anchors = append(anchors, anchor{i, raw, pattern, NormalizeCreditor(raw)})
	}

	var blocks []Block
	var traces []models.SegmentTrace

	for k, a := range anchors {
		start := a.line - opts.LinesBefore
		if start < 0 {
			start = 0
		}
		end := a.line + opts.LinesAfter
		if end >= len(lines) {
			end = len(lines) - 1
		}

		// Clamp against neighbors for other creditors. Anchors for the same
		// creditor do not clamp; their windows are allowed to overlap so the
		// merge below can see them.
		for j := k + 1; j < len(anchors); j++ {
			if anchors[j].normalized != a.normalized {
				if anchors[j].line <= end {
					end = anchors[j].line - 1
				}
				break
			}
		}
		if len(blocks) > 0 {
			prev := blocks[len(blocks)-1]
			if NormalizeCreditor(prev.CreditorRaw) != a.normalized && prev.EndLine >= start {
				start = prev.EndLine + 1
			}
		}

		trace := models.SegmentTrace{
			Anchor:    a.raw,
			Pattern:   a.pattern,
			StartLine: start,
			EndLine:   end,
			Result:    "block",
		}

		// Overlap handling: same creditor as the previous block and the
		// windows intersect — extend the previous block instead of emitting
		// a second one, unless each region has its own account number.
		if len(blocks) > 0 {
			prev := &blocks[len(blocks)-1]
			if start <= prev.EndLine && a.normalized == NormalizeCreditor(prev.CreditorRaw) {
				newText := strings.Join(lines[start:end+1], "\n")
				if !distinctAccountNumbers(prev.Text, newText) {
					prev.EndLine = end
					prev.Text = strings.Join(lines[prev.StartLine:end+1], "\n")
					trace.Result = "merged"
					traces = append(traces, trace)
					continue
				}
			}
		}

		blocks = append(blocks, Block{
			CreditorRaw: a.raw,
			Text:        strings.Join(lines[start:end+1], "\n"),
			StartLine:   start,
			EndLine:     end,
		})
		traces = append(traces, trace)
	}

	return blocks, traces
}

// matchAnchor returns the creditor name matched on a line, or "". Alias
// table keys and canonical names are checked first (exact, cheap), then the
// generic structural pattern carries unseen institutions.
func matchAnchor(line string, extra []*regexp.Regexp) (raw, pattern string) {
	upper := strings.ToUpper(line)

	for spelling := range creditorAliases {
		if containsWord(upper, spelling) {
			return spelling, "alias"
		}
	}
	for _, canonical := range creditorAliases {
		if containsWord(upper, canonical) {
			return canonical, "canonical"
		}
	}
	for _, re := range extra {
		if m := re.FindString(line); m != "" {
			return strings.TrimSpace(m), "config"
		}
	}
	if m := genericCreditorPattern.FindString(line); m != "" {
		return strings.TrimSpace(m), "generic"
	}
	return "", ""
}

// containsWord reports whether needle occurs in haystack on word boundaries.
// Plain Contains would anchor "CITI" inside "FELICITY".
func containsWord(haystack, needle string) bool {
	idx := 0
	for {
		j := strings.Index(haystack[idx:], needle)
		if j < 0 {
			return false
		}
		j += idx
		beforeOK := j == 0 || !isWordChar(haystack[j-1])
		after := j + len(needle)
		afterOK := after >= len(haystack) || !isWordChar(haystack[after])
		if beforeOK && afterOK {
			return true
		}
		idx = j + 1
		if idx >= len(haystack) {
			return false
		}
	}
}

func isWordChar(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

// distinctAccountNumbers reports whether two block texts contain different
// plausible account-number digit runs. Used to keep genuinely separate
// tradelines from the same creditor apart.
func distinctAccountNumbers(a, b string) bool {
	numA := longestDigitRun(a)
	numB := longestDigitRun(b)
	return numA != "" && numB != "" && numA != numB
}
