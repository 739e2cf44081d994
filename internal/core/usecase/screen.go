package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kirillkom/applicant-screener/internal/core/domain"
	"github.com/kirillkom/applicant-screener/internal/core/ports"
	"github.com/kirillkom/applicant-screener/internal/core/profile"
	"github.com/kirillkom/applicant-screener/internal/core/scoring"
)

const (
	defaultResumeTextMaxChars = 1000
	defaultScreenConcurrency  = 4
	truncationSuffix          = "..."
)

type ScreenOptions struct {
	// ResumeTextMaxChars bounds the persisted resume text in runes. Zero
	// selects the default; a negative value keeps the full text.
	ResumeTextMaxChars int
	Concurrency        int
	Events             ports.EventPublisher
	Observer           ports.ScreeningObserver
	Logger             *slog.Logger
	Now                func() time.Time
}

// ScreenResumeUseCase runs uploads through extraction, profiling, scoring and
// persistence.
type ScreenResumeUseCase struct {
	storage   ports.UploadStorage
	extractor ports.TextExtractor
	assembler *profile.Assembler
	scorer    *scoring.Scorer
	repo      ports.CandidateRepository

	events      ports.EventPublisher
	observer    ports.ScreeningObserver
	logger      *slog.Logger
	maxText     int
	concurrency int
	now         func() time.Time
}

func NewScreenResumeUseCase(
	storage ports.UploadStorage,
	extractor ports.TextExtractor,
	assembler *profile.Assembler,
	scorer *scoring.Scorer,
	repo ports.CandidateRepository,
	opts ScreenOptions,
) *ScreenResumeUseCase {
	uc := &ScreenResumeUseCase{
		storage:     storage,
		extractor:   extractor,
		assembler:   assembler,
		scorer:      scorer,
		repo:        repo,
		events:      opts.Events,
		observer:    opts.Observer,
		logger:      opts.Logger,
		maxText:     opts.ResumeTextMaxChars,
		concurrency: opts.Concurrency,
		now:         opts.Now,
	}
	if uc.logger == nil {
		uc.logger = slog.Default()
	}
	if uc.maxText == 0 {
		uc.maxText = defaultResumeTextMaxChars
	}
	if uc.concurrency <= 0 {
		uc.concurrency = defaultScreenConcurrency
	}
	if uc.now == nil {
		uc.now = func() time.Time { return time.Now().UTC() }
	}
	return uc
}

// Screen stores the upload, extracts and scores it and upserts the candidate.
// The stored copy is removed whatever the outcome.
func (uc *ScreenResumeUseCase) Screen(
	ctx context.Context,
	filename, mimeType string,
	body io.Reader,
) (candidate *domain.Candidate, err error) {
	started := time.Now()
	format, err := resolveFormat(filename, mimeType)
	defer func() {
		if uc.observer != nil {
			score := 0.0
			if candidate != nil {
				score = candidate.Score
			}
			uc.observer.ObserveScreening(format, time.Since(started), score, err)
		}
	}()
	if err != nil {
		return nil, domain.NewExtractionError(filename, "", err)
	}

	storageKey := fmt.Sprintf("%s_%s", uuid.NewString(), sanitizeFilename(filename))
	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save upload: %w", err)
	}
	defer func() {
		if rmErr := uc.storage.Remove(context.WithoutCancel(ctx), storageKey); rmErr != nil {
			uc.logger.Warn("upload_cleanup_failed", "storage_key", storageKey, "error", rmErr)
		}
	}()

	text, err := uc.extractor.ExtractFile(ctx, uc.storage.Path(storageKey), format)
	if err != nil {
		return nil, err
	}

	candidate = uc.buildCandidate(text, filename)
	if err := uc.repo.Upsert(ctx, candidate); err != nil {
		return nil, fmt.Errorf("persist candidate: %w", err)
	}

	uc.publishScored(ctx, candidate)
	return candidate, nil
}

// ScreenBatch screens every upload independently with bounded parallelism.
// Outcomes keep the order of uploads; one failure never aborts the others.
func (uc *ScreenResumeUseCase) ScreenBatch(ctx context.Context, uploads []domain.Upload) []domain.ScreeningOutcome {
	outcomes := make([]domain.ScreeningOutcome, len(uploads))

	var g errgroup.Group
	g.SetLimit(uc.concurrency)
	for i, upload := range uploads {
		g.Go(func() error {
			candidate, err := uc.Screen(ctx, upload.Filename, upload.MimeType, bytes.NewReader(upload.Data))
			outcomes[i] = domain.ScreeningOutcome{Filename: upload.Filename, Candidate: candidate, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// ScreenFile profiles and scores a document on disk without persisting it.
func (uc *ScreenResumeUseCase) ScreenFile(ctx context.Context, path string) (*domain.Candidate, error) {
	text, err := uc.extractor.ExtractFile(ctx, path, "")
	if err != nil {
		return nil, err
	}
	return uc.buildCandidate(text, path), nil
}

// ScreenDocument is ScreenFile for an in-memory document.
func (uc *ScreenResumeUseCase) ScreenDocument(ctx context.Context, doc domain.RawDocument) (*domain.Candidate, error) {
	text, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return nil, err
	}
	return uc.buildCandidate(text, doc.Name), nil
}

func (uc *ScreenResumeUseCase) buildCandidate(text, filename string) *domain.Candidate {
	p := uc.assembler.Assemble(text)
	result := uc.scorer.Evaluate(p, nil)
	now := uc.now()

	return &domain.Candidate{
		ID:         uuid.NewString(),
		Name:       candidateName(filename),
		Email:      p.Email,
		Phone:      p.Phone,
		Skills:     p.Skills,
		Experience: p.Experience,
		Education:  p.Education,
		Score:      result.Total,
		Breakdown:  result.Breakdown,
		ResumeText: truncateText(text, uc.maxText),
		SourceFile: filepath.Base(filename),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (uc *ScreenResumeUseCase) publishScored(ctx context.Context, candidate *domain.Candidate) {
	if uc.events == nil {
		return
	}
	event := domain.CandidateScoredEvent{
		CandidateID: candidate.ID,
		Email:       candidate.Email,
		Score:       candidate.Score,
		ScoredAt:    candidate.UpdatedAt,
	}
	if err := uc.events.PublishCandidateScored(ctx, event); err != nil {
		uc.logger.Warn("candidate_scored_publish_failed", "candidate_id", candidate.ID, "error", err)
	}
}

// resolveFormat prefers the filename extension and falls back to the
// declared content type.
func resolveFormat(filename, mimeType string) (domain.DocumentFormat, error) {
	format, err := domain.FormatFromFilename(filename)
	if err == nil {
		return format, nil
	}
	if strings.TrimSpace(mimeType) == "" {
		return "", err
	}
	byMime, mimeErr := domain.ParseFormat(mimeType)
	if mimeErr != nil {
		return "", errors.Join(err, mimeErr)
	}
	return byMime, nil
}

// candidateName derives a display name from the upload filename:
// "jane_doe-smith.pdf" becomes "Jane Doe Smith".
func candidateName(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	name := strings.Join(strings.Fields(base), " ")
	if name == "" || name == "." {
		return ""
	}
	return cases.Title(language.Und).String(name)
}

func truncateText(text string, maxChars int) string {
	if maxChars < 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxChars]) + truncationSuffix
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == "/" {
		return "resume.bin"
	}
	return base
}
