package report

import (
	"strings"
	"unicode"
)

// NormalizeText cleans raw report text for matching while preserving line
// structure. Control characters and PDF artifacts are stripped, runs of
// spaces and tabs collapse to a single space, and each line is trimmed.
// The original text should be retained by the caller for field slicing;
// the segmenter works on line indexes that are stable across both forms.
func NormalizeText(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	lines := strings.Split(text, "\n")
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = normalizeLine(line)
	}
	return strings.Join(out, "\n")
}

func normalizeLine(line string) string {
	var b strings.Builder
	b.Grow(len(line))

	prevSpace := false
	for _, r := range line {
		switch {
		case r == '\t' || r == ' ' || unicode.IsSpace(r):
			if !prevSpace {
				b.WriteByte(' ')
			}
			prevSpace = true
		case unicode.IsControl(r):
			// PDF extractors leave NUL and form-feed noise behind
			continue
		case r == '�':
			continue
		default:
			b.WriteRune(r)
			prevSpace = false
		}
	}
	return strings.TrimSpace(b.String())
}

// splitLines splits normalized text into lines. Kept as a helper so every
// stage indexes lines the same way.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
