// Package profile turns extracted resume text into a CandidateProfile using
// keyword and pattern heuristics. Every function here is total: any text,
// including the empty string, yields a profile.
package profile

import (
	"github.com/kirillkom/applicant-screener/internal/core/domain"
)

type Options struct {
	MatchMode  MatchMode
	Experience ExperienceParser
	Education  EducationParser
}

type Assembler struct {
	skills     *SkillDetector
	experience ExperienceParser
	education  EducationParser
}

func NewAssembler(rubric domain.Rubric, opts Options) *Assembler {
	lowered := rubric.Lowered()
	lines := NewLineTriggerParser(lowered.ExperienceTriggers, lowered.EducationTriggers)

	experience := opts.Experience
	if experience == nil {
		experience = lines
	}
	education := opts.Education
	if education == nil {
		education = lines
	}

	return &Assembler{
		skills:     NewSkillDetector(lowered.Taxonomy, lowered.SkillConfidence, opts.MatchMode),
		experience: experience,
		education:  education,
	}
}

func (a *Assembler) Assemble(text string) domain.CandidateProfile {
	return domain.CandidateProfile{
		Email:      ExtractEmail(text),
		Phone:      ExtractPhone(text),
		Skills:     a.skills.Detect(text),
		Experience: nonNilExperience(a.experience.Experience(text)),
		Education:  nonNilEducation(a.education.Education(text)),
		RawText:    text,
	}
}

func (a *Assembler) MatchMode() MatchMode {
	return a.skills.Mode()
}

func nonNilExperience(entries []domain.ExperienceEntry) []domain.ExperienceEntry {
	if entries == nil {
		return []domain.ExperienceEntry{}
	}
	return entries
}

func nonNilEducation(entries []domain.EducationEntry) []domain.EducationEntry {
	if entries == nil {
		return []domain.EducationEntry{}
	}
	return entries
}
