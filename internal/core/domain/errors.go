package domain

import (
	"errors"
	"fmt"
)

var (
	ErrExtraction        = errors.New("text extraction failed")
	ErrUnsupportedFormat = errors.New("unsupported document format")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrTemporary         = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// ExtractionError reports a document that could not be turned into text.
// It matches ErrExtraction and unwraps to the underlying cause.
type ExtractionError struct {
	Path   string
	Format DocumentFormat
	Err    error
}

func NewExtractionError(path string, format DocumentFormat, err error) *ExtractionError {
	return &ExtractionError{Path: path, Format: format, Err: err}
}

func (e *ExtractionError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("extract text from %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("extract %s text from %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() []error {
	return []error{ErrExtraction, e.Err}
}
