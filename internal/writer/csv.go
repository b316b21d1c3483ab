package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/disputelens/credit-analyzer/internal/models"
	"github.com/disputelens/credit-analyzer/internal/report"
)

// CSVWriter writes analyzed accounts as a flat CSV summary for review in a
// spreadsheet.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes accounts to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, res *report.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, res)
}

// Write writes accounts in CSV format to the given writer.
func (w *CSVWriter) Write(out io.Writer, res *report.Result) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	if w.IncludeHeader && res.Bureau != "" {
		writer.Write([]string{"# Bureau", string(res.Bureau)})
	}

	header := []string{
		"Creditor", "Account Number", "Status", "Severity", "Balance",
		"Late Entries", "Negative Items", "Violations", "Disposition",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, a := range res.Accounts {
		row := []string{
			a.CreditorNormalized,
			a.AccountNumber,
			string(a.Status),
			strconv.Itoa(a.Severity),
			formatBalance(a),
			formatLateEntries(a.LateEntries),
			strings.Join(a.NegativeItems, "; "),
			strings.Join(a.DetectedViolations, "; "),
			string(dispositionFor(a, res.Negative)),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

func formatBalance(a models.Account) string {
	if !a.BalanceKnown {
		return "unknown"
	}
	return strconv.FormatFloat(a.Balance, 'f', 2, 64)
}

func formatLateEntries(entries []models.LateEntry) string {
	var parts []string
	for _, e := range entries {
		if e.Year != "" {
			parts = append(parts, fmt.Sprintf("%s %s (%d)", e.Month, e.Year, e.Code))
		} else {
			parts = append(parts, fmt.Sprintf("%s (%d)", e.Month, e.Code))
		}
	}
	return strings.Join(parts, ", ")
}

// dispositionFor looks up the filtered disposition for an account, empty
// when the account was not dispute-worthy.
func dispositionFor(a models.Account, negative []models.Account) models.Disposition {
	for _, n := range negative {
		if n.CreditorNormalized == a.CreditorNormalized && n.AccountNumber == a.AccountNumber {
			return n.Disposition
		}
	}
	return ""
}
