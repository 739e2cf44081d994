package scoring

import (
	"strings"

	"github.com/kirillkom/applicant-screener/internal/core/domain"
)

const (
	skillPoints         = 5
	skillQuantityCap    = 50
	highDemandPoints    = 5
	experiencePoints    = 15
	baselineDegreeScore = 70
	softSkillPoints     = 20
	portfolioPoints     = 20
	maxSubScore         = 100
)

// SubScorer rates one rubric category of a profile on a 0-100 scale.
type SubScorer interface {
	Score(profile domain.CandidateProfile) float64
}

type SubScorerFunc func(profile domain.CandidateProfile) float64

func (f SubScorerFunc) Score(profile domain.CandidateProfile) float64 {
	return f(profile)
}

type TechnicalSkills struct {
	highDemand map[string]struct{}
}

func NewTechnicalSkills(highDemand []string) TechnicalSkills {
	set := make(map[string]struct{}, len(highDemand))
	for _, name := range highDemand {
		set[name] = struct{}{}
	}
	return TechnicalSkills{highDemand: set}
}

// Score gives 5 points per skill up to 50, plus 5 per high-demand skill.
func (t TechnicalSkills) Score(profile domain.CandidateProfile) float64 {
	if len(profile.Skills) == 0 {
		return 0
	}
	base := min(len(profile.Skills)*skillPoints, skillQuantityCap)
	bonus := 0
	for _, skill := range profile.Skills {
		if _, ok := t.highDemand[skill.Name]; ok {
			bonus += highDemandPoints
		}
	}
	return float64(min(base+bonus, maxSubScore))
}

type Experience struct{}

func (Experience) Score(profile domain.CandidateProfile) float64 {
	return float64(min(len(profile.Experience)*experiencePoints, maxSubScore))
}

// ConstantEducation attributes a fixed level to any profile with at least one
// education entry; degrees are not parsed.
type ConstantEducation struct {
	Value float64
}

func (c ConstantEducation) Score(profile domain.CandidateProfile) float64 {
	if len(profile.Education) == 0 {
		return 0
	}
	return c.Value
}

// DegreeLevelEducation scores the highest degree keyword found in the
// education lines, falling back to the bachelor baseline.
type DegreeLevelEducation struct {
	degrees  []domain.DegreeScore
	fallback float64
}

func NewDegreeLevelEducation(degrees []domain.DegreeScore) DegreeLevelEducation {
	return DegreeLevelEducation{degrees: degrees, fallback: baselineDegreeScore}
}

func (d DegreeLevelEducation) Score(profile domain.CandidateProfile) float64 {
	if len(profile.Education) == 0 {
		return 0
	}
	best := -1.0
	for _, entry := range profile.Education {
		line := strings.ToLower(entry.Description)
		if !entry.Placeholder {
			line += " " + strings.ToLower(entry.Degree)
		}
		for _, degree := range d.degrees {
			if degree.Score > best && strings.Contains(line, degree.Keyword) {
				best = degree.Score
			}
		}
	}
	if best < 0 {
		return d.fallback
	}
	return best
}

type SoftSkills struct {
	groups []domain.KeywordGroup
}

func NewSoftSkills(groups []domain.KeywordGroup) SoftSkills {
	return SoftSkills{groups: groups}
}

// Score gives 20 points per soft-skill group with any keyword in the text.
func (s SoftSkills) Score(profile domain.CandidateProfile) float64 {
	if profile.RawText == "" {
		return 0
	}
	lowered := strings.ToLower(profile.RawText)
	score := 0
	for _, group := range s.groups {
		if containsAny(lowered, group.Keywords) {
			score += softSkillPoints
		}
	}
	return float64(min(score, maxSubScore))
}

type Portfolio struct {
	indicators []string
}

// NewPortfolio drops duplicate indicators so each distinct one counts once.
func NewPortfolio(indicators []string) Portfolio {
	seen := make(map[string]struct{}, len(indicators))
	distinct := make([]string, 0, len(indicators))
	for _, indicator := range indicators {
		if _, ok := seen[indicator]; ok {
			continue
		}
		seen[indicator] = struct{}{}
		distinct = append(distinct, indicator)
	}
	return Portfolio{indicators: distinct}
}

func (p Portfolio) Score(profile domain.CandidateProfile) float64 {
	lowered := strings.ToLower(profile.RawText)
	found := 0
	for _, indicator := range p.indicators {
		if strings.Contains(lowered, indicator) {
			found++
		}
	}
	return float64(min(found*portfolioPoints, maxSubScore))
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
