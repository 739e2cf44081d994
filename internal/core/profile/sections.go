package profile

import (
	"strings"

	"github.com/kirillkom/applicant-screener/internal/core/domain"
)

const (
	placeholderTitle       = "Extracted Position"
	placeholderCompany     = "Extracted Company"
	placeholderDuration    = "Extracted Duration"
	placeholderDegree      = "Extracted Degree"
	placeholderInstitution = "Extracted Institution"
	placeholderYear        = "Extracted Year"
)

// ExperienceParser turns resume text into work-history entries.
type ExperienceParser interface {
	Experience(text string) []domain.ExperienceEntry
}

// EducationParser turns resume text into education entries.
type EducationParser interface {
	Education(text string) []domain.EducationEntry
}

// LineTriggerParser emits one placeholder entry per line that contains a
// trigger word. Lines are never merged and nothing but the line itself is
// taken from the text.
type LineTriggerParser struct {
	experienceTriggers []string
	educationTriggers  []string
}

// NewLineTriggerParser expects lowercased trigger words.
func NewLineTriggerParser(experienceTriggers, educationTriggers []string) *LineTriggerParser {
	return &LineTriggerParser{
		experienceTriggers: experienceTriggers,
		educationTriggers:  educationTriggers,
	}
}

func (p *LineTriggerParser) Experience(text string) []domain.ExperienceEntry {
	entries := []domain.ExperienceEntry{}
	for _, line := range triggeredLines(text, p.experienceTriggers) {
		entries = append(entries, domain.ExperienceEntry{
			Title:       placeholderTitle,
			Company:     placeholderCompany,
			Duration:    placeholderDuration,
			Description: line,
			Placeholder: true,
		})
	}
	return entries
}

func (p *LineTriggerParser) Education(text string) []domain.EducationEntry {
	entries := []domain.EducationEntry{}
	for _, line := range triggeredLines(text, p.educationTriggers) {
		entries = append(entries, domain.EducationEntry{
			Degree:      placeholderDegree,
			Institution: placeholderInstitution,
			Year:        placeholderYear,
			Description: line,
			Placeholder: true,
		})
	}
	return entries
}

func triggeredLines(text string, triggers []string) []string {
	if text == "" || len(triggers) == 0 {
		return nil
	}
	var out []string
	for _, line := range strings.Split(text, "\n") {
		lowered := strings.ToLower(line)
		for _, trigger := range triggers {
			if strings.Contains(lowered, trigger) {
				out = append(out, line)
				break
			}
		}
	}
	return out
}
