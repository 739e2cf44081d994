package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/kirillkom/applicant-screener/internal/core/domain"
)

// Extractor converts PDF and DOCX resumes into newline-joined plain text.
// It holds no state and is safe for concurrent use.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(ctx context.Context, doc domain.RawDocument) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := extractText(bytes.NewReader(doc.Data), int64(len(doc.Data)), doc.Format)
	if err != nil {
		return "", domain.NewExtractionError(doc.Name, doc.Format, err)
	}
	return text, nil
}

// ExtractFile reads the document at path. An empty format is resolved from
// the file extension.
func (e *Extractor) ExtractFile(ctx context.Context, path string, format domain.DocumentFormat) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if format == "" {
		resolved, err := domain.FormatFromFilename(path)
		if err != nil {
			return "", domain.NewExtractionError(path, "", err)
		}
		format = resolved
	}

	f, err := os.Open(path)
	if err != nil {
		return "", domain.NewExtractionError(path, format, fmt.Errorf("open file: %w", err))
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", domain.NewExtractionError(path, format, fmt.Errorf("stat file: %w", err))
	}

	text, err := extractText(f, info.Size(), format)
	if err != nil {
		return "", domain.NewExtractionError(path, format, err)
	}
	return text, nil
}

func extractText(r io.ReaderAt, size int64, format domain.DocumentFormat) (string, error) {
	switch format {
	case domain.FormatPDF:
		return pdfText(r, size)
	case domain.FormatDOCX:
		return docxText(r, size)
	default:
		return "", domain.WrapError(domain.ErrUnsupportedFormat, "extract text", fmt.Errorf("format %q", format))
	}
}
