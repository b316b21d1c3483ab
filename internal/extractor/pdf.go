package extractor

import (
	"fmt"
	"io"
	"math"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// ExtractText reads a credit report PDF and returns the text of each page.
// Extraction methods are tried in order of layout fidelity: the structured
// library first, then the external pdftotext command, then OCR for scanned
// reports. Garbage output is never returned; every candidate has to pass
// the readability gate.
func ExtractText(filePath string) ([]string, error) {
	pages, libErr := extractWithLibrary(filePath)
	if libErr == nil && isReadableText(pages) {
		return pages, nil
	}

	popplerPages, popplerErr := extractWithPdftotext(filePath)
	if popplerErr == nil && isReadableText(popplerPages) {
		return popplerPages, nil
	}

	ocrPages, ocrErr := ExtractTextOCR(filePath)
	if ocrErr == nil && isReadableText(ocrPages) {
		return ocrPages, nil
	}

	if libErr != nil {
		return nil, fmt.Errorf("PDF text extraction failed: %v. The report may be image-based or use custom font encodings", libErr)
	}
	return nil, fmt.Errorf("no readable text could be extracted from the report PDF; it may be a scanned image without an OCR toolchain installed (poppler-utils, tesseract-ocr)")
}

// ExtractTextCombined returns all pages joined into one string, which is
// what the analyzer consumes.
func ExtractTextCombined(filePath string) (string, error) {
	pages, err := ExtractText(filePath)
	if err != nil {
		return "", err
	}
	return strings.Join(pages, "\n\n"), nil
}

// commonWords that appear in virtually every consumer credit report. If the
// extracted text contains none of these, it is likely garbage from an
// identity-encoded font.
var commonWords = []string{
	"credit", "account", "balance", "report", "bureau", "payment",
	"creditor", "inquiry", "tradeline", "date opened", "status",
	"experian", "equifax", "transunion", "collection", "charge",
	"history", "revolving", "installment", "limit",
}

func containsCommonWords(pages []string) bool {
	combined := strings.ToLower(strings.Join(pages, " "))
	for _, word := range commonWords {
		if strings.Contains(combined, word) {
			return true
		}
	}
	return false
}

// textQuality returns the ratio of plain readable ASCII to total characters.
// unicode.IsLetter is too broad here: identity-encoded fonts decode into
// accented garbage that still counts as letters.
func textQuality(pages []string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				strings.ContainsRune(`.,-/:;()'"$%&@#!?+=*`, r) {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// isReadableText requires enough text, mostly readable characters, and at
// least one word a credit report would contain.
func isReadableText(pages []string) bool {
	if totalTextLen(pages) <= 50 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsCommonWords(pages)
}

func totalTextLen(pages []string) int {
	n := 0
	for _, p := range pages {
		n += len(strings.TrimSpace(p))
	}
	return n
}

// extractWithLibrary uses ledongthuc/pdf, trying row-based extraction first
// (credit report tradelines are tabular) and falling back to coordinate
// reconstruction and plain-text paths.
func extractWithLibrary(filePath string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, openErr := pdf.Open(filePath)
	if openErr != nil {
		return nil, openErr
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	pages = extractByRow(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	pages = extractByContent(r, numPages)
	if isReadableText(pages) {
		return pages, nil
	}

	plainText := extractByReaderPlainText(r)
	if isReadableText([]string{plainText}) {
		return []string{plainText}, nil
	}

	return pages, nil
}

func extractByRow(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			var parts []string
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			line := strings.TrimSpace(strings.Join(parts, " "))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

// extractByContent groups text objects by Y coordinate to rebuild rows, then
// orders each row left to right. A wide X gap becomes a column separator so
// payment-history grids keep their cell boundaries.
func extractByContent(r *pdf.Reader, numPages int) []string {
	var pages []string
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		if len(content.Text) == 0 {
			continue
		}

		type textItem struct {
			x float64
			s string
		}
		rowMap := make(map[int][]textItem)
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			yKey := int(math.Round(t.Y))
			rowMap[yKey] = append(rowMap[yKey], textItem{x: t.X, s: t.S})
		}

		yKeys := make([]int, 0, len(rowMap))
		for y := range rowMap {
			yKeys = append(yKeys, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(yKeys)))

		var lines []string
		for _, y := range yKeys {
			items := rowMap[y]
			sort.Slice(items, func(a, b int) bool {
				return items[a].x < items[b].x
			})

			var parts []string
			var prevX float64
			for j, item := range items {
				if j > 0 && item.x-prevX > 15 {
					parts = append(parts, "  ")
				}
				parts = append(parts, item.s)
				prevX = item.x
			}
			line := strings.TrimSpace(strings.Join(parts, ""))
			if line != "" {
				lines = append(lines, line)
			}
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}
	return pages
}

func extractByReaderPlainText(r *pdf.Reader) string {
	reader, err := r.GetPlainText()
	if err != nil {
		return ""
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// extractWithPdftotext shells out to poppler-utils for PDFs the Go library
// cannot decode.
func extractWithPdftotext(filePath string) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %v", err)
	}

	numPages := pdfPageCount(filePath)
	if numPages < 1 {
		numPages = 1
	}

	var pages []string
	for i := 1; i <= numPages; i++ {
		pageStr := strconv.Itoa(i)
		out, err := exec.Command("pdftotext", "-layout", "-f", pageStr, "-l", pageStr, filePath, "-").Output()
		if err != nil {
			continue
		}
		text := strings.TrimSpace(string(out))
		if text != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		out, err := exec.Command("pdftotext", "-layout", filePath, "-").Output()
		if err != nil {
			return nil, fmt.Errorf("pdftotext failed: %v", err)
		}
		text := strings.TrimSpace(string(out))
		if text == "" {
			return nil, fmt.Errorf("pdftotext produced no output")
		}
		pages = []string{text}
	}

	return pages, nil
}

// pdfPageCount returns the number of pages via pdfinfo, 0 when unknown.
func pdfPageCount(filePath string) int {
	out, err := exec.Command("pdfinfo", filePath).Output()
	if err != nil {
		return 0
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.HasPrefix(line, "Pages:") {
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:")))
			if err == nil {
				return n
			}
		}
	}
	return 0
}
