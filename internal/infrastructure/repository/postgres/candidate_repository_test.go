package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/kirillkom/applicant-screener/internal/core/domain"
)

var candidateColumnNames = []string{
	"id", "name", "email", "phone", "skills", "experience", "education",
	"score", "breakdown", "resume_text", "source_file", "created_at", "updated_at",
}

func newRepoWithMock(t *testing.T) (*CandidateRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &CandidateRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestEnsureSchemaTakesAdvisoryLock(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("SELECT pg_advisory_xact_lock").WithArgs(schemaLockKey).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS candidates").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpsertWritesBackStoredIdentity(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	firstSeen := now.Add(-48 * time.Hour)
	candidate := &domain.Candidate{
		ID:         "new-id",
		Name:       "Jane Doe",
		Email:      "jane@example.com",
		Skills:     []domain.SkillEntry{{Name: "python", Category: domain.CategoryProgramming, Confidence: 0.8}},
		Score:      42.5,
		Breakdown:  map[string]float64{domain.WeightTechnicalSkills: 10},
		SourceFile: "jane.pdf",
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	mock.ExpectQuery("INSERT INTO candidates").
		WithArgs(
			"new-id", "Jane Doe", sql.NullString{String: "jane@example.com", Valid: true}, "",
			[]byte(`[{"name":"python","category":"programming","confidence":0.8}]`), []byte(`[]`), []byte(`[]`),
			42.5, []byte(`{"technical_skills":10}`), "", "jane.pdf", now, now,
		).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("existing-id", firstSeen))

	if err := repo.Upsert(context.Background(), candidate); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if candidate.ID != "existing-id" || !candidate.CreatedAt.Equal(firstSeen) {
		t.Fatalf("expected stored identity, got id=%s created_at=%s", candidate.ID, candidate.CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpsertStoresEmptyEmailAsNull(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery("INSERT INTO candidates").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sql.NullString{}, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("anon", now))

	if err := repo.Upsert(context.Background(), &domain.Candidate{ID: "anon", CreatedAt: now, UpdatedAt: now}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, name, email").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrCandidateNotFound) {
		t.Fatalf("expected ErrCandidateNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDDecodesJSONColumns(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT id, name, email").
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows(candidateColumnNames).AddRow(
			"c1", "Jane Doe", nil, "+1 555 0100 000",
			[]byte(`[{"name":"aws","category":"cloud","confidence":0.8}]`),
			[]byte(`[{"title":"Extracted Position","description":"Work at Acme","placeholder":true}]`),
			[]byte(`[]`), 61.25, []byte(`{"experience":15}`), "text", "jane.pdf", now, now,
		))

	c, err := repo.GetByID(context.Background(), "c1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if c.Email != "" || len(c.Skills) != 1 || c.Skills[0].Category != domain.CategoryCloud {
		t.Fatalf("unexpected candidate %+v", c)
	}
	if len(c.Experience) != 1 || c.Experience[0].Description != "Work at Acme" || c.Breakdown[domain.WeightExperience] != 15 {
		t.Fatalf("unexpected decoded columns %+v", c)
	}
	if c.Education == nil {
		t.Fatal("education must decode to an empty slice")
	}
}

func TestListOrdersByScoreWithFilter(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery("ORDER BY score DESC").
		WithArgs(50.0, 10).
		WillReturnRows(sqlmock.NewRows(candidateColumnNames).
			AddRow("a", "A", "a@x.io", "", []byte(`[]`), []byte(`[]`), []byte(`[]`), 80.0, []byte(`{}`), "", "a.pdf", now, now).
			AddRow("b", "B", "b@x.io", "", []byte(`[]`), []byte(`[]`), []byte(`[]`), 55.0, []byte(`{}`), "", "b.pdf", now, now))

	got, err := repo.List(context.Background(), domain.CandidateFilter{MinScore: 50, Limit: 10})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].Email != "b@x.io" {
		t.Fatalf("unexpected list %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestClassifyMarksConnectionErrorsTemporary(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		temporary bool
	}{
		{name: "connection failure", err: &pgconn.PgError{Code: "08006"}, temporary: true},
		{name: "too many connections", err: &pgconn.PgError{Code: "53300"}, temporary: true},
		{name: "serialization", err: &pgconn.PgError{Code: "40001"}, temporary: true},
		{name: "deadline", err: context.DeadlineExceeded, temporary: true},
		{name: "syntax", err: &pgconn.PgError{Code: "42601"}, temporary: false},
		{name: "plain", err: errors.New("boom"), temporary: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classify("op", tc.err)
			if domain.IsKind(got, domain.ErrTemporary) != tc.temporary {
				t.Fatalf("classify(%v) temporary = %v, want %v", tc.err, !tc.temporary, tc.temporary)
			}
			if !errors.Is(got, tc.err) {
				t.Fatalf("classify must keep the cause, got %v", got)
			}
		})
	}
}
