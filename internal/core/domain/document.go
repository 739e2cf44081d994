package domain

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

type DocumentFormat string

const (
	FormatPDF  DocumentFormat = "pdf"
	FormatDOCX DocumentFormat = "docx"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// RawDocument is a resume as handed over by the caller. It is only valid for
// the duration of one extraction call.
type RawDocument struct {
	Name   string
	Format DocumentFormat
	Data   []byte
}

// FormatFromFilename resolves the declared format from the file extension.
func FormatFromFilename(name string) (DocumentFormat, error) {
	return ParseFormat(filepath.Ext(name))
}

// ParseFormat accepts an explicit type tag: "pdf", ".docx" or a MIME type.
func ParseFormat(tag string) (DocumentFormat, error) {
	normalized := strings.ToLower(strings.TrimSpace(tag))
	if mediaType, _, err := mime.ParseMediaType(normalized); err == nil && strings.Contains(mediaType, "/") {
		normalized = mediaType
	}
	switch strings.TrimPrefix(normalized, ".") {
	case "pdf", mimePDF:
		return FormatPDF, nil
	case "docx", mimeDOCX:
		return FormatDOCX, nil
	default:
		return "", WrapError(ErrUnsupportedFormat, "resolve document format", fmt.Errorf("tag %q", tag))
	}
}

func (f DocumentFormat) MimeType() string {
	switch f {
	case FormatPDF:
		return mimePDF
	case FormatDOCX:
		return mimeDOCX
	default:
		return "application/octet-stream"
	}
}
