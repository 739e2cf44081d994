package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/applicant-screener/internal/core/domain"
	"github.com/kirillkom/applicant-screener/internal/infrastructure/repository/sqlrow"
)

const schemaLockKey int64 = 2026101801

type CandidateRepository struct {
	db *sql.DB
}

func NewCandidateRepository(db *sql.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

func OpenDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *CandidateRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across concurrent api startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, schemaLockKey); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS candidates (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	email TEXT UNIQUE,
	phone TEXT NOT NULL DEFAULT '',
	skills JSONB NOT NULL DEFAULT '[]'::jsonb,
	experience JSONB NOT NULL DEFAULT '[]'::jsonb,
	education JSONB NOT NULL DEFAULT '[]'::jsonb,
	score DOUBLE PRECISION NOT NULL DEFAULT 0,
	breakdown JSONB NOT NULL DEFAULT '{}'::jsonb,
	resume_text TEXT NOT NULL DEFAULT '',
	source_file TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_candidates_score ON candidates(score DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

// Upsert inserts the candidate or, when the email is already known, replaces
// the stored profile. The stored id and created_at are written back.
func (r *CandidateRepository) Upsert(ctx context.Context, c *domain.Candidate) error {
	args, err := sqlrow.EncodeCandidate(c)
	if err != nil {
		return err
	}

	row := r.db.QueryRowContext(ctx, `
INSERT INTO candidates (`+sqlrow.CandidateColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
ON CONFLICT (email) DO UPDATE SET
	name = EXCLUDED.name,
	phone = EXCLUDED.phone,
	skills = EXCLUDED.skills,
	experience = EXCLUDED.experience,
	education = EXCLUDED.education,
	score = EXCLUDED.score,
	breakdown = EXCLUDED.breakdown,
	resume_text = EXCLUDED.resume_text,
	source_file = EXCLUDED.source_file,
	updated_at = EXCLUDED.updated_at
RETURNING id, created_at
`,
		c.ID, c.Name, args.Email, c.Phone, args.Skills, args.Experience, args.Education,
		c.Score, args.Breakdown, c.ResumeText, c.SourceFile, c.CreatedAt, c.UpdatedAt,
	)
	if err := row.Scan(&c.ID, &c.CreatedAt); err != nil {
		return classify("upsert candidate", err)
	}
	return nil
}

func (r *CandidateRepository) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+sqlrow.CandidateColumns+`
FROM candidates
WHERE id = $1
`, id)

	c, err := scanCandidate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrCandidateNotFound, "get candidate", fmt.Errorf("id=%s", id))
		}
		return nil, classify("get candidate", err)
	}
	return c, nil
}

// List returns candidates scoring at least filter.MinScore, highest first.
func (r *CandidateRepository) List(ctx context.Context, filter domain.CandidateFilter) ([]domain.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+sqlrow.CandidateColumns+`
FROM candidates
WHERE score >= $1
ORDER BY score DESC, created_at ASC, id ASC
LIMIT $2
`, filter.MinScore, filter.Limit)
	if err != nil {
		return nil, classify("list candidates", err)
	}
	defer rows.Close()

	out := make([]domain.Candidate, 0)
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterate candidates", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(s rowScanner) (*domain.Candidate, error) {
	var row sqlrow.CandidateRow
	if err := s.Scan(row.Dest(&row.Candidate.CreatedAt, &row.Candidate.UpdatedAt)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan candidate: %w", err)
	}
	return row.Decode()
}

// classify marks connection-level failures as temporary so callers can retry.
func classify(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, sql.ErrConnDone) {
		return domain.WrapError(domain.ErrTemporary, op, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "53"), strings.HasPrefix(pgErr.Code, "57P"), pgErr.Code == "40001":
			return domain.WrapError(domain.ErrTemporary, op, err)
		}
	}
	if pgconn.SafeToRetry(err) {
		return domain.WrapError(domain.ErrTemporary, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
