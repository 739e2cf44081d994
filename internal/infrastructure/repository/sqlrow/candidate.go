// Package sqlrow maps domain.Candidate to and from SQL rows shared by the
// postgres and sqlite repositories. List columns are stored as JSON.
package sqlrow

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/kirillkom/applicant-screener/internal/core/domain"
)

const CandidateColumns = "id, name, email, phone, skills, experience, education, score, breakdown, resume_text, source_file, created_at, updated_at"

// CandidateArgs holds the encoded column values of a candidate.
type CandidateArgs struct {
	Email      sql.NullString
	Skills     []byte
	Experience []byte
	Education  []byte
	Breakdown  []byte
}

// EncodeCandidate marshals list columns. An empty email becomes NULL so that
// email-less candidates never collide on the unique email index.
func EncodeCandidate(c *domain.Candidate) (CandidateArgs, error) {
	var (
		args CandidateArgs
		err  error
	)
	args.Email = sql.NullString{String: c.Email, Valid: c.Email != ""}
	if args.Skills, err = marshalList(c.Skills, "skills"); err != nil {
		return args, err
	}
	if args.Experience, err = marshalList(c.Experience, "experience"); err != nil {
		return args, err
	}
	if args.Education, err = marshalList(c.Education, "education"); err != nil {
		return args, err
	}
	breakdown := c.Breakdown
	if breakdown == nil {
		breakdown = map[string]float64{}
	}
	if args.Breakdown, err = json.Marshal(breakdown); err != nil {
		return args, fmt.Errorf("marshal breakdown: %w", err)
	}
	return args, nil
}

func marshalList[T any](items []T, column string) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", column, err)
	}
	return raw, nil
}

// CandidateRow is a scan target for CandidateColumns. Timestamps are scanned
// into caller-provided destinations since drivers disagree on their type.
type CandidateRow struct {
	Candidate  domain.Candidate
	email      sql.NullString
	skills     []byte
	experience []byte
	education  []byte
	breakdown  []byte
}

func (r *CandidateRow) Dest(createdAt, updatedAt any) []any {
	c := &r.Candidate
	return []any{
		&c.ID, &c.Name, &r.email, &c.Phone, &r.skills, &r.experience, &r.education,
		&c.Score, &r.breakdown, &c.ResumeText, &c.SourceFile, createdAt, updatedAt,
	}
}

func (r *CandidateRow) Decode() (*domain.Candidate, error) {
	c := r.Candidate
	c.Email = r.email.String
	if err := unmarshalColumn(r.skills, &c.Skills, "skills"); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(r.experience, &c.Experience, "experience"); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(r.education, &c.Education, "education"); err != nil {
		return nil, err
	}
	if err := unmarshalColumn(r.breakdown, &c.Breakdown, "breakdown"); err != nil {
		return nil, err
	}
	if c.Skills == nil {
		c.Skills = []domain.SkillEntry{}
	}
	if c.Experience == nil {
		c.Experience = []domain.ExperienceEntry{}
	}
	if c.Education == nil {
		c.Education = []domain.EducationEntry{}
	}
	if c.Breakdown == nil {
		c.Breakdown = map[string]float64{}
	}
	return &c, nil
}

func unmarshalColumn(raw []byte, dest any, column string) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal %s: %w", column, err)
	}
	return nil
}
