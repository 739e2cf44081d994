package ports

import (
	"context"
	"io"

	"github.com/kirillkom/applicant-screener/internal/core/domain"
)

// ResumeScreener is the inbound contract for turning uploaded resumes into scored candidates.
type ResumeScreener interface {
	Screen(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Candidate, error)
	ScreenBatch(ctx context.Context, uploads []domain.Upload) []domain.ScreeningOutcome
}

// TextAnalyzer profiles and scores raw resume text without persisting it.
type TextAnalyzer interface {
	Analyze(ctx context.Context, text string, weights domain.ScoreWeights) (*domain.Analysis, error)
}

// CandidateReader is the inbound read model for screened candidates.
type CandidateReader interface {
	GetByID(ctx context.Context, id string) (*domain.Candidate, error)
	List(ctx context.Context, filter domain.CandidateFilter) ([]domain.Candidate, error)
	Export(ctx context.Context, w io.Writer, filter domain.CandidateFilter) error
}
