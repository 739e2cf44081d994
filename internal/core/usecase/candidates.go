package usecase

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/kirillkom/applicant-screener/internal/core/domain"
	"github.com/kirillkom/applicant-screener/internal/core/ports"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

type CandidateQueryUseCase struct {
	repo     ports.CandidateRepository
	exporter ports.CandidateExporter
}

func NewCandidateQueryUseCase(repo ports.CandidateRepository, exporter ports.CandidateExporter) *CandidateQueryUseCase {
	return &CandidateQueryUseCase{
		repo:     repo,
		exporter: exporter,
	}
}

func (uc *CandidateQueryUseCase) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "get candidate", fmt.Errorf("empty id"))
	}
	return uc.repo.GetByID(ctx, id)
}

// List returns candidates ranked by score, highest first.
func (uc *CandidateQueryUseCase) List(ctx context.Context, filter domain.CandidateFilter) ([]domain.Candidate, error) {
	filter, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}
	candidates, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return candidates, nil
}

// Export writes the ranking selected by filter as a spreadsheet.
func (uc *CandidateQueryUseCase) Export(ctx context.Context, w io.Writer, filter domain.CandidateFilter) error {
	candidates, err := uc.List(ctx, filter)
	if err != nil {
		return err
	}
	if err := uc.exporter.Export(w, candidates); err != nil {
		return fmt.Errorf("export candidates: %w", err)
	}
	return nil
}

func normalizeFilter(filter domain.CandidateFilter) (domain.CandidateFilter, error) {
	if math.IsNaN(filter.MinScore) || filter.MinScore < 0 || filter.MinScore > 100 {
		return filter, domain.WrapError(domain.ErrInvalidInput, "list candidates", fmt.Errorf("min_score %v out of range 0..100", filter.MinScore))
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = defaultListLimit
	case filter.Limit > maxListLimit:
		filter.Limit = maxListLimit
	}
	return filter, nil
}
