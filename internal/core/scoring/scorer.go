// Package scoring rates a CandidateProfile against a weighted rubric.
//
// Each category is rated by a SubScorer on a 0-100 scale. The total is the
// weighted sum of the category ratings, clamped to [0, 100]. Scoring is a pure
// function of the profile and the weights and never fails.
package scoring

import (
	"math"

	"github.com/kirillkom/applicant-screener/internal/core/domain"
)

type Scorer struct {
	weights domain.ScoreWeights
	scorers map[string]SubScorer
}

// NewScorer wires the baseline sub-scorers for the rubric tables.
func NewScorer(rubric domain.Rubric) *Scorer {
	lowered := rubric.Lowered()
	return &Scorer{
		weights: lowered.Weights,
		scorers: map[string]SubScorer{
			domain.WeightTechnicalSkills: NewTechnicalSkills(lowered.HighDemandSkills),
			domain.WeightExperience:      Experience{},
			domain.WeightEducation:       ConstantEducation{Value: baselineDegreeScore},
			domain.WeightSoftSkills:      NewSoftSkills(lowered.SoftSkills),
			domain.WeightPortfolio:       NewPortfolio(lowered.PortfolioIndicators),
		},
	}
}

// WithSubScorer returns a copy of the scorer rating category with sub.
// Unknown categories are ignored.
func (s *Scorer) WithSubScorer(category string, sub SubScorer) *Scorer {
	if _, ok := s.scorers[category]; !ok || sub == nil {
		return s
	}
	scorers := make(map[string]SubScorer, len(s.scorers))
	for k, v := range s.scorers {
		scorers[k] = v
	}
	scorers[category] = sub
	return &Scorer{weights: s.weights, scorers: scorers}
}

func (s *Scorer) Weights() domain.ScoreWeights {
	out := make(domain.ScoreWeights, len(s.weights))
	for k, v := range s.weights {
		out[k] = v
	}
	return out
}

// Score rates the profile with the scorer's own weights.
func (s *Scorer) Score(profile domain.CandidateProfile) float64 {
	return s.Evaluate(profile, nil).Total
}

// Evaluate rates the profile. Nil weights mean the scorer's weights; partial
// weights are completed from the defaults.
func (s *Scorer) Evaluate(profile domain.CandidateProfile, weights domain.ScoreWeights) domain.ScoreResult {
	if weights == nil {
		weights = s.weights
	} else {
		weights = weights.Normalize()
	}

	breakdown := make(map[string]float64, len(domain.ScoreCategories))
	total := 0.0
	for _, category := range domain.ScoreCategories {
		sub := clamp(s.scorers[category].Score(profile))
		breakdown[category] = sub

		weight := weights[category]
		if math.IsNaN(weight) || weight < 0 {
			continue
		}
		total += sub * weight
	}

	return domain.ScoreResult{
		Total:     clamp(total),
		Breakdown: breakdown,
	}
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, 0), maxSubScore)
}
