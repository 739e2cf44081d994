package domain

import "time"

type SkillCategory string

const (
	CategoryProgramming SkillCategory = "programming"
	CategoryWeb         SkillCategory = "web"
	CategoryData        SkillCategory = "data"
	CategoryCloud       SkillCategory = "cloud"
)

type SkillEntry struct {
	Name       string        `json:"name"`
	Category   SkillCategory `json:"category"`
	Confidence float64       `json:"confidence"`
}

// ExperienceEntry is a coarse work-history record. Placeholder entries carry
// generic markers; only Description holds text taken from the resume.
type ExperienceEntry struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
	Placeholder bool   `json:"placeholder"`
}

type EducationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
	Description string `json:"description"`
	Placeholder bool   `json:"placeholder"`
}

// CandidateProfile is assembled once from extracted text and never mutated.
type CandidateProfile struct {
	Email      string            `json:"email"`
	Phone      string            `json:"phone"`
	Skills     []SkillEntry      `json:"skills"`
	Experience []ExperienceEntry `json:"experience"`
	Education  []EducationEntry  `json:"education"`
	RawText    string            `json:"raw_text"`
}

type ScoreResult struct {
	Total     float64            `json:"total"`
	Breakdown map[string]float64 `json:"breakdown"`
}

// Candidate is the persisted record, keyed uniquely by email when present.
type Candidate struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	Phone      string             `json:"phone"`
	Skills     []SkillEntry       `json:"skills"`
	Experience []ExperienceEntry  `json:"experience"`
	Education  []EducationEntry   `json:"education"`
	Score      float64            `json:"score"`
	Breakdown  map[string]float64 `json:"breakdown"`
	ResumeText string             `json:"resume_text"`
	SourceFile string             `json:"source_file"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

type CandidateFilter struct {
	MinScore float64
	Limit    int
}

// ScreeningOutcome is the per-file result of a batch; exactly one of
// Candidate and Err is set.
type ScreeningOutcome struct {
	Filename  string
	Candidate *Candidate
	Err       error
}

type Upload struct {
	Filename string
	MimeType string
	Data     []byte
}

type CandidateScoredEvent struct {
	CandidateID string    `json:"candidate_id"`
	Email       string    `json:"email"`
	Score       float64   `json:"score"`
	ScoredAt    time.Time `json:"scored_at"`
}

// Analysis is the unpersisted result of profiling and scoring raw text.
type Analysis struct {
	Profile   CandidateProfile `json:"profile"`
	Score     ScoreResult      `json:"score"`
	MatchMode string           `json:"match_mode"`
}
