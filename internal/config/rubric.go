package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/applicant-screener/internal/core/domain"
)

// rubricFile mirrors the YAML layout. Absent sections keep their defaults.
type rubricFile struct {
	SkillConfidence     *float64              `yaml:"skill_confidence"`
	Taxonomy            []domain.KeywordGroup `yaml:"taxonomy"`
	HighDemandSkills    []string              `yaml:"high_demand_skills"`
	SoftSkills          []domain.KeywordGroup `yaml:"soft_skills"`
	PortfolioIndicators []string              `yaml:"portfolio_indicators"`
	ExperienceTriggers  []string              `yaml:"experience_triggers"`
	EducationTriggers   []string              `yaml:"education_triggers"`
	DegreeScores        []domain.DegreeScore  `yaml:"degree_scores"`
	Weights             map[string]float64    `yaml:"weights"`
}

// LoadRubric reads a rubric override file. An empty path returns the
// default rubric.
func LoadRubric(path string) (domain.Rubric, error) {
	if path == "" {
		return domain.DefaultRubric(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Rubric{}, fmt.Errorf("read rubric file: %w", err)
	}
	rubric, err := ParseRubric(raw)
	if err != nil {
		return domain.Rubric{}, fmt.Errorf("rubric file %s: %w", path, err)
	}
	return rubric, nil
}

func ParseRubric(raw []byte) (domain.Rubric, error) {
	rubric := domain.DefaultRubric()

	var file rubricFile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return domain.Rubric{}, domain.WrapError(domain.ErrInvalidInput, "parse rubric", err)
	}

	if file.SkillConfidence != nil {
		if *file.SkillConfidence < 0 || *file.SkillConfidence > 1 {
			return domain.Rubric{}, domain.WrapError(domain.ErrInvalidInput, "parse rubric", fmt.Errorf("skill_confidence %v out of range 0..1", *file.SkillConfidence))
		}
		rubric.SkillConfidence = *file.SkillConfidence
	}
	if file.Taxonomy != nil {
		rubric.Taxonomy = file.Taxonomy
	}
	if file.HighDemandSkills != nil {
		rubric.HighDemandSkills = file.HighDemandSkills
	}
	if file.SoftSkills != nil {
		rubric.SoftSkills = file.SoftSkills
	}
	if file.PortfolioIndicators != nil {
		rubric.PortfolioIndicators = file.PortfolioIndicators
	}
	if file.ExperienceTriggers != nil {
		rubric.ExperienceTriggers = file.ExperienceTriggers
	}
	if file.EducationTriggers != nil {
		rubric.EducationTriggers = file.EducationTriggers
	}
	if file.DegreeScores != nil {
		rubric.DegreeScores = file.DegreeScores
	}
	if file.Weights != nil {
		weights := domain.ScoreWeights(file.Weights)
		if err := weights.Validate(); err != nil {
			return domain.Rubric{}, err
		}
		rubric.Weights = weights.Normalize()
	}
	return rubric, nil
}
