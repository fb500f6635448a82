package extractor

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// extractPDF pulls plain text out of a PDF, page by page.
// ledongthuc/pdf needs a ReadSeeker with a size, so the bytes go through a
// temp file.
func extractPDF(data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "quizbuilder-pdf-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := bytes.NewReader(data).WriteTo(tmp); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	f, reader, err := pdflib.Open(tmpPath)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Unextractable pages are skipped rather than failing the document.
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}
