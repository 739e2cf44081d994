package domain

import (
	"fmt"
	"strings"
)

const (
	WeightTechnicalSkills = "technical_skills"
	WeightExperience      = "experience"
	WeightEducation       = "education"
	WeightSoftSkills      = "soft_skills"
	WeightPortfolio       = "portfolio"
)

// ScoreCategories lists the recognized rubric categories in scoring order.
var ScoreCategories = []string{
	WeightTechnicalSkills,
	WeightExperience,
	WeightEducation,
	WeightSoftSkills,
	WeightPortfolio,
}

// ScoreWeights maps a rubric category to a non-negative relative weight.
type ScoreWeights map[string]float64

func DefaultWeights() ScoreWeights {
	return ScoreWeights{
		WeightTechnicalSkills: 0.3,
		WeightExperience:      0.25,
		WeightEducation:       0.2,
		WeightSoftSkills:      0.15,
		WeightPortfolio:       0.1,
	}
}

// Normalize returns a copy holding all five categories; missing ones take the
// default weight. Unknown categories are dropped.
func (w ScoreWeights) Normalize() ScoreWeights {
	def := DefaultWeights()
	out := make(ScoreWeights, len(ScoreCategories))
	for _, category := range ScoreCategories {
		if v, ok := w[category]; ok {
			out[category] = v
			continue
		}
		out[category] = def[category]
	}
	return out
}

func (w ScoreWeights) Validate() error {
	for category, v := range w {
		if !isScoreCategory(category) {
			return WrapError(ErrInvalidInput, "validate weights", fmt.Errorf("unknown category %q", category))
		}
		if v < 0 {
			return WrapError(ErrInvalidInput, "validate weights", fmt.Errorf("negative weight %v for %s", v, category))
		}
	}
	return nil
}

func isScoreCategory(name string) bool {
	for _, category := range ScoreCategories {
		if category == name {
			return true
		}
	}
	return false
}

// KeywordGroup is one named list of trigger keywords, matched in order.
type KeywordGroup struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Rubric holds every table the extraction and scoring heuristics read. It is
// built once and shared read-only between concurrent pipelines.
type Rubric struct {
	Taxonomy            []KeywordGroup
	SkillConfidence     float64
	HighDemandSkills    []string
	SoftSkills          []KeywordGroup
	PortfolioIndicators []string
	ExperienceTriggers  []string
	EducationTriggers   []string
	DegreeScores        []DegreeScore
	Weights             ScoreWeights
}

// DegreeScore ranks a degree keyword for the degree-level education scorer.
type DegreeScore struct {
	Keyword string  `yaml:"keyword" json:"keyword"`
	Score   float64 `yaml:"score" json:"score"`
}

const DefaultSkillConfidence = 0.8

func DefaultRubric() Rubric {
	return Rubric{
		Taxonomy: []KeywordGroup{
			{Name: string(CategoryProgramming), Keywords: []string{"python", "javascript", "java", "c++", "php", "ruby", "go", "swift"}},
			{Name: string(CategoryWeb), Keywords: []string{"html", "css", "react", "angular", "vue", "django", "flask", "node.js"}},
			{Name: string(CategoryData), Keywords: []string{"sql", "mysql", "postgresql", "mongodb", "bigquery", "tableau", "powerbi"}},
			{Name: string(CategoryCloud), Keywords: []string{"aws", "azure", "gcp", "docker", "kubernetes", "terraform"}},
		},
		SkillConfidence:  DefaultSkillConfidence,
		HighDemandSkills: []string{"python", "javascript", "react", "aws", "docker"},
		SoftSkills: []KeywordGroup{
			{Name: "communication", Keywords: []string{"communicate", "present", "write", "speak", "explain"}},
			{Name: "leadership", Keywords: []string{"lead", "manage", "direct", "coordinate", "supervise"}},
			{Name: "problem_solving", Keywords: []string{"solve", "analyze", "debug", "troubleshoot", "resolve"}},
			{Name: "teamwork", Keywords: []string{"team", "collaborate", "partner", "work together"}},
		},
		PortfolioIndicators: []string{"github", "portfolio", "project", "repository", "gitlab"},
		ExperienceTriggers:  []string{"experience", "work", "employment"},
		EducationTriggers:   []string{"education", "degree", "university", "college"},
		DegreeScores: []DegreeScore{
			{Keyword: "phd", Score: 100},
			{Keyword: "masters", Score: 85},
			{Keyword: "bachelor", Score: 70},
			{Keyword: "diploma", Score: 50},
			{Keyword: "certificate", Score: 30},
		},
		Weights: DefaultWeights(),
	}
}

// Lowered returns a copy with every keyword lowercased and trimmed, empty
// keywords dropped. Matching always happens against lowercased text.
func (r Rubric) Lowered() Rubric {
	out := r
	out.Taxonomy = lowerGroups(r.Taxonomy)
	out.SoftSkills = lowerGroups(r.SoftSkills)
	out.HighDemandSkills = lowerList(r.HighDemandSkills)
	out.PortfolioIndicators = lowerList(r.PortfolioIndicators)
	out.ExperienceTriggers = lowerList(r.ExperienceTriggers)
	out.EducationTriggers = lowerList(r.EducationTriggers)
	out.DegreeScores = make([]DegreeScore, 0, len(r.DegreeScores))
	for _, d := range r.DegreeScores {
		keyword := strings.ToLower(strings.TrimSpace(d.Keyword))
		if keyword == "" {
			continue
		}
		out.DegreeScores = append(out.DegreeScores, DegreeScore{Keyword: keyword, Score: d.Score})
	}
	out.Weights = r.Weights.Normalize()
	return out
}

func lowerGroups(groups []KeywordGroup) []KeywordGroup {
	out := make([]KeywordGroup, 0, len(groups))
	for _, g := range groups {
		out = append(out, KeywordGroup{Name: g.Name, Keywords: lowerList(g.Keywords)})
	}
	return out
}

func lowerList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		normalized := strings.ToLower(strings.TrimSpace(item))
		if normalized != "" {
			out = append(out, normalized)
		}
	}
	return out
}
