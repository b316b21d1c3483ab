package extractor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
)

// ExtractTextOCR rasterizes PDF pages and runs Tesseract OCR. This is the
// path for scanned credit reports with no text layer.
// Requires: pdftoppm (poppler-utils) and tesseract (tesseract-ocr).
func ExtractTextOCR(filePath string) ([]string, error) {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return nil, fmt.Errorf("pdftoppm not available (install poppler-utils): %v", err)
	}
	if _, err := exec.LookPath("tesseract"); err != nil {
		return nil, fmt.Errorf("tesseract not available (install tesseract-ocr): %v", err)
	}

	tmpDir, err := os.MkdirTemp("", "report-ocr-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	// 300 DPI keeps the small delinquency-grid digits legible to OCR.
	imgPrefix := filepath.Join(tmpDir, "page")
	cmd := exec.Command("pdftoppm", "-r", "300", "-png", filePath, imgPrefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %v (output: %s)", err, string(out))
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read temp dir: %v", err)
	}

	var imageFiles []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".png") {
			imageFiles = append(imageFiles, filepath.Join(tmpDir, e.Name()))
		}
	}
	sort.Strings(imageFiles)

	if len(imageFiles) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no page images")
	}

	var pages []string
	for _, imgFile := range imageFiles {
		outBase := strings.TrimSuffix(imgFile, ".png") + "-ocr"
		// PSM 4: single column of variable-size text, which matches the
		// stacked tradeline layout of bureau reports.
		cmd := exec.Command("tesseract", imgFile, outBase, "-l", "eng", "--psm", "4")
		if out, err := cmd.CombinedOutput(); err != nil {
			fmt.Fprintf(os.Stderr, "tesseract warning for %s: %v (output: %s)\n", imgFile, err, string(out))
			continue
		}

		data, err := os.ReadFile(outBase + ".txt")
		if err != nil {
			continue
		}

		text := strings.TrimSpace(string(data))
		if text != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("tesseract OCR produced no text from %d page images", len(imageFiles))
	}

	return pages, nil
}
