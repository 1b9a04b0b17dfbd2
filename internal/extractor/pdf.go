// Package extractor reads statement PDFs and produces per-page text. It is
// the text-source collaborator of the extraction pipeline: a page that
// yields no text comes back as an empty string (a valid outcome the parser
// turns into a diagnostic), while a document that cannot be opened at all
// is an error.
package extractor

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

// PDFSource extracts text from statement PDFs. It first uses the pdf
// library and falls back to the external pdftotext command (poppler-utils)
// when the library output is unreadable.
type PDFSource struct{}

// ExtractPages returns the text of each page of the PDF at path. The slice
// always has one entry per page; pages without extractable text are empty
// strings so page numbering stays intact for diagnostics.
func (PDFSource) ExtractPages(path string) ([]string, error) {
	pages, libErr := extractWithLibrary(path)
	if libErr == nil && isReadableText(pages) {
		return pages, nil
	}

	popplerPages, popplerErr := extractWithPdftotext(path)
	if popplerErr == nil && isReadableText(popplerPages) {
		return popplerPages, nil
	}

	if libErr != nil {
		return nil, fmt.Errorf("PDF text extraction failed: %v. The file may be image-based or use font encodings that cannot be decoded", libErr)
	}
	return unreadableResult(pages)
}

// unreadableResult decides the outcome for a document that opened but
// failed the readability check on every extraction path. Genuinely blank
// pages are a valid result the parser reports page by page; pages with
// visible content are decoding garbage and must not be passed off as text.
func unreadableResult(pages []string) ([]string, error) {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return nil, fmt.Errorf("no readable text could be extracted. The file may be image-based or use font encodings that cannot be decoded")
		}
	}
	return pages, nil
}

// extractWithLibrary reads every page with the pdf library, preferring
// row-ordered extraction and falling back to plain text per page. The
// library panics on some malformed files, so recover turns that into an
// error for the caller.
func extractWithLibrary(path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("PDF library crashed: %v", r)
		}
	}()

	f, r, openErr := pdf.Open(path)
	if openErr != nil {
		return nil, openErr
	}
	defer f.Close()

	numPages := r.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}

	pages = make([]string, numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text := pageTextByRow(page)
		if strings.TrimSpace(text) == "" {
			text = pageTextPlain(page)
		}
		pages[i-1] = text
	}
	return pages, nil
}

// pageTextByRow joins the page's text rows top to bottom. Best layout
// preservation for statements with a text layer.
func pageTextByRow(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err != nil {
		return ""
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
	return strings.Join(lines, "\n")
}

// pageTextPlain extracts the page text with the page's own font map.
func pageTextPlain(page pdf.Page) string {
	fonts := make(map[string]*pdf.Font)
	for _, name := range page.Fonts() {
		f := page.Font(name)
		fonts[name] = &f
	}
	text, err := page.GetPlainText(fonts)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(text)
}

// extractWithPdftotext shells out to pdftotext page by page so page
// boundaries survive the fallback path.
func extractWithPdftotext(path string) ([]string, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not available: %v", err)
	}

	numPages := pdfinfoPageCount(path)
	if numPages == 0 {
		numPages = 1
	}

	pages := make([]string, numPages)
	extracted := false
	for i := 1; i <= numPages; i++ {
		pageStr := strconv.Itoa(i)
		out, err := exec.Command("pdftotext", "-layout", "-f", pageStr, "-l", pageStr, path, "-").Output()
		if err != nil {
			continue
		}
		pages[i-1] = strings.TrimSpace(string(out))
		if pages[i-1] != "" {
			extracted = true
		}
	}

	if !extracted {
		return nil, fmt.Errorf("pdftotext produced no output")
	}
	return pages, nil
}

func pdfinfoPageCount(path string) int {
	out, err := exec.Command("pdfinfo", path).Output()
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

// commonWords that appear on virtually every German bank statement. If the
// extracted text contains none of them, the decoding likely produced
// garbage and the fallback path should run.
var commonWords = []string{
	"kontoauszug", "buchung", "betrag", "datum", "saldo", "kontostand",
	"lastschrift", "überweisung", "übertrag", "gutschrift", "belastung",
	"kartenverfügung", "iban", "bic", "blatt", "seite", "umsatz",
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

// textQuality returns the ratio of characters plausible in German
// statement text to total characters. Identity-encoded fonts decode to
// high-codepoint garbage that this ratio catches.
func textQuality(pages []string) float64 {
	total := 0
	readable := 0
	for _, page := range pages {
		for _, r := range page {
			total++
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || unicode.IsSpace(r) ||
				strings.ContainsRune(".,-/:;()'\"€%&@#!?+=*", r) ||
				strings.ContainsRune("äöüßÄÖÜ", r) {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

// isReadableText requires enough text, a high readable-character ratio and
// at least one recognizable statement word.
func isReadableText(pages []string) bool {
	total := 0
	for _, p := range pages {
		total += len(strings.TrimSpace(p))
	}
	if total <= 50 {
		return false
	}
	if textQuality(pages) <= 0.6 {
		return false
	}
	return containsCommonWords(pages)
}
