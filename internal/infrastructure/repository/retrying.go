// Package repository holds storage-agnostic decorators for candidate
// repositories.
package repository

import (
	"context"

	"github.com/kirillkom/applicant-screener/internal/core/domain"
	"github.com/kirillkom/applicant-screener/internal/core/ports"
	"github.com/kirillkom/applicant-screener/internal/infrastructure/resilience"
)

// Retrying routes every call through the executor, retrying temporary
// database failures.
type Retrying struct {
	next     ports.CandidateRepository
	executor *resilience.Executor
}

func NewRetrying(next ports.CandidateRepository, executor *resilience.Executor) *Retrying {
	return &Retrying{next: next, executor: executor}
}

func (r *Retrying) Upsert(ctx context.Context, candidate *domain.Candidate) error {
	return r.executor.Execute(ctx, "db.upsert_candidate", func(ctx context.Context) error {
		return r.next.Upsert(ctx, candidate)
	}, resilience.ClassifyTemporary)
}

func (r *Retrying) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	var out *domain.Candidate
	err := r.executor.Execute(ctx, "db.get_candidate", func(ctx context.Context) error {
		c, err := r.next.GetByID(ctx, id)
		out = c
		return err
	}, resilience.ClassifyTemporary)
	return out, err
}

func (r *Retrying) List(ctx context.Context, filter domain.CandidateFilter) ([]domain.Candidate, error) {
	var out []domain.Candidate
	err := r.executor.Execute(ctx, "db.list_candidates", func(ctx context.Context) error {
		list, err := r.next.List(ctx, filter)
		out = list
		return err
	}, resilience.ClassifyTemporary)
	return out, err
}
