package ports

import (
	"context"
	"io"
	"time"

	"github.com/kirillkom/applicant-screener/internal/core/domain"
)

// TextExtractor converts a resume document into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, doc domain.RawDocument) (string, error)
	ExtractFile(ctx context.Context, path string, format domain.DocumentFormat) (string, error)
}

// UploadStorage keeps uploaded files on local disk while they are screened.
type UploadStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Path(key string) string
	Remove(ctx context.Context, key string) error
}

// CandidateRepository persists candidates keyed uniquely by email.
type CandidateRepository interface {
	Upsert(ctx context.Context, candidate *domain.Candidate) error
	GetByID(ctx context.Context, id string) (*domain.Candidate, error)
	List(ctx context.Context, filter domain.CandidateFilter) ([]domain.Candidate, error)
}

// EventPublisher announces scored candidates to downstream consumers.
type EventPublisher interface {
	PublishCandidateScored(ctx context.Context, event domain.CandidateScoredEvent) error
}

// CandidateExporter renders a candidate ranking as a spreadsheet.
type CandidateExporter interface {
	Export(w io.Writer, candidates []domain.Candidate) error
}

// ScreeningObserver records pipeline outcomes.
type ScreeningObserver interface {
	ObserveScreening(format domain.DocumentFormat, duration time.Duration, score float64, err error)
}
