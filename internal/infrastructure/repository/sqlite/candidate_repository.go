// Package sqlite is the embedded single-file candidate store used when no
// Postgres instance is configured.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kirillkom/applicant-screener/internal/core/domain"
	"github.com/kirillkom/applicant-screener/internal/infrastructure/repository/sqlrow"
)

// timestamps are stored as fixed-width UTC text so they sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type CandidateRepository struct {
	db *sql.DB
}

func NewCandidateRepository(db *sql.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

// OpenDB opens or creates the database file and applies connection pragmas.
func OpenDB(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		path = "./data/candidates.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	// One writer at a time; WAL lets readers proceed.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *CandidateRepository) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS candidates (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			email TEXT UNIQUE,
			phone TEXT NOT NULL DEFAULT '',
			skills TEXT NOT NULL DEFAULT '[]',
			experience TEXT NOT NULL DEFAULT '[]',
			education TEXT NOT NULL DEFAULT '[]',
			score REAL NOT NULL DEFAULT 0,
			breakdown TEXT NOT NULL DEFAULT '{}',
			resume_text TEXT NOT NULL DEFAULT '',
			source_file TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_candidates_score ON candidates(score DESC)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute schema ddl: %w", err)
		}
	}
	return nil
}

func (r *CandidateRepository) Upsert(ctx context.Context, c *domain.Candidate) error {
	args, err := sqlrow.EncodeCandidate(c)
	if err != nil {
		return err
	}

	var createdAt string
	row := r.db.QueryRowContext(ctx, `
INSERT INTO candidates (`+sqlrow.CandidateColumns+`)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)
ON CONFLICT (email) DO UPDATE SET
	name = excluded.name,
	phone = excluded.phone,
	skills = excluded.skills,
	experience = excluded.experience,
	education = excluded.education,
	score = excluded.score,
	breakdown = excluded.breakdown,
	resume_text = excluded.resume_text,
	source_file = excluded.source_file,
	updated_at = excluded.updated_at
RETURNING id, created_at
`,
		c.ID, c.Name, args.Email, c.Phone, string(args.Skills), string(args.Experience), string(args.Education),
		c.Score, string(args.Breakdown), c.ResumeText, c.SourceFile, formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err := row.Scan(&c.ID, &createdAt); err != nil {
		return fmt.Errorf("upsert candidate: %w", err)
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return err
	}
	return nil
}

func (r *CandidateRepository) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+sqlrow.CandidateColumns+` FROM candidates WHERE id = ?`, id)

	c, err := scanCandidate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrCandidateNotFound, "get candidate", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("get candidate: %w", err)
	}
	return c, nil
}

func (r *CandidateRepository) List(ctx context.Context, filter domain.CandidateFilter) ([]domain.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+sqlrow.CandidateColumns+`
FROM candidates
WHERE score >= ?
ORDER BY score DESC, created_at ASC, id ASC
LIMIT ?
`, filter.MinScore, filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
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
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCandidate(s rowScanner) (*domain.Candidate, error) {
	var (
		row                  sqlrow.CandidateRow
		createdAt, updatedAt string
	)
	if err := s.Scan(row.Dest(&createdAt, &updatedAt)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan candidate: %w", err)
	}
	c, err := row.Decode()
	if err != nil {
		return nil, err
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return t, nil
}
