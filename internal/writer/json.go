package writer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/disputelens/credit-analyzer/internal/report"
)

// JSONWriter writes an analysis result as indented JSON, the format the
// letter-generation and citation-lookup components consume.
type JSONWriter struct{}

// WriteToFile writes the result to a JSON file at the given path.
func (w *JSONWriter) WriteToFile(path string, res *report.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, res)
}

// Write writes the result as JSON to the given writer.
func (w *JSONWriter) Write(out io.Writer, res *report.Result) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}
