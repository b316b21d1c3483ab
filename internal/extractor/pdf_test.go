package extractor

import (
	"strings"
	"testing"
)

func TestTextQuality(t *testing.T) {
	clean := []string{"CAPITAL ONE Account Number: 517805XXXXXX Balance: $1,847"}
	if q := textQuality(clean); q < 0.95 {
		t.Errorf("clean text quality: got %f, want >= 0.95", q)
	}

	garbage := []string{"þÿã²§Þðþÿã²"}
	if q := textQuality(garbage); q > 0.3 {
		t.Errorf("garbage quality: got %f, want <= 0.3", q)
	}

	if q := textQuality(nil); q != 0 {
		t.Errorf("empty pages quality: got %f, want 0", q)
	}
}

func TestContainsCommonWords(t *testing.T) {
	if !containsCommonWords([]string{"Experian Credit Report", "Account Number"}) {
		t.Error("expected report vocabulary to be recognized")
	}
	if containsCommonWords([]string{"lorem ipsum dolor sit amet"}) {
		t.Error("unrelated text should not pass the vocabulary check")
	}
	if containsCommonWords(nil) {
		t.Error("empty pages should not pass")
	}
}

func TestIsReadableText(t *testing.T) {
	good := []string{strings.Repeat("Account balance and payment status for this creditor. ", 3)}
	if !isReadableText(good) {
		t.Error("expected readable report text to pass")
	}

	// Long enough and clean, but no report vocabulary.
	offTopic := []string{strings.Repeat("the quick brown fox jumps over the lazy dog ", 3)}
	if isReadableText(offTopic) {
		t.Error("text without report vocabulary should fail")
	}

	if isReadableText([]string{"credit"}) {
		t.Error("too-short text should fail")
	}
}

func TestExtractText_MissingFile(t *testing.T) {
	if _, err := ExtractText("/nonexistent/report.pdf"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
