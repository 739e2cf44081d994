package document

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfText joins the plain text of every page, each followed by a newline.
// Pages without content still contribute their newline.
func pdfText(r io.ReaderAt, size int64) (text string, err error) {
	// The pdf reader panics on some malformed cross-reference tables.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("malformed pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if !page.V.IsNull() {
			content, err := page.GetPlainText(nil)
			if err != nil {
				return "", fmt.Errorf("read pdf page %d: %w", i, err)
			}
			b.WriteString(content)
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}
