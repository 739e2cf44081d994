package profile

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/kirillkom/applicant-screener/internal/core/domain"
)

type MatchMode string

const (
	// MatchLegacy emits a keyword whenever it occurs anywhere in the text,
	// so "java" also fires inside "javascript".
	MatchLegacy MatchMode = "legacy"
	// MatchTokenized requires word boundaries around a keyword, prefers the
	// longest keyword where occurrences overlap and emits each keyword under
	// the first category that lists it.
	MatchTokenized MatchMode = "tokenized"
)

func ParseMatchMode(value string) (MatchMode, error) {
	switch MatchMode(strings.ToLower(strings.TrimSpace(value))) {
	case "", MatchLegacy:
		return MatchLegacy, nil
	case MatchTokenized:
		return MatchTokenized, nil
	default:
		return "", domain.WrapError(domain.ErrInvalidInput, "parse match mode", fmt.Errorf("mode %q", value))
	}
}

type SkillDetector struct {
	taxonomy   []domain.KeywordGroup
	confidence float64
	mode       MatchMode

	keywords []string
	matcher  *ahocorasick.Matcher
}

// NewSkillDetector expects a lowercased taxonomy (see domain.Rubric.Lowered).
func NewSkillDetector(taxonomy []domain.KeywordGroup, confidence float64, mode MatchMode) *SkillDetector {
	if mode == "" {
		mode = MatchLegacy
	}
	d := &SkillDetector{
		taxonomy:   taxonomy,
		confidence: confidence,
		mode:       mode,
	}

	seen := make(map[string]struct{})
	for _, group := range taxonomy {
		for _, keyword := range group.Keywords {
			if _, ok := seen[keyword]; ok {
				continue
			}
			seen[keyword] = struct{}{}
			d.keywords = append(d.keywords, keyword)
		}
	}
	if mode == MatchTokenized && len(d.keywords) > 0 {
		d.matcher = ahocorasick.NewStringMatcher(d.keywords)
	}
	return d
}

func (d *SkillDetector) Mode() MatchMode {
	return d.mode
}

// Detect lists the taxonomy keywords found in text, in taxonomy order.
func (d *SkillDetector) Detect(text string) []domain.SkillEntry {
	lowered := strings.ToLower(text)
	if d.mode == MatchTokenized {
		return d.detectTokenized(lowered)
	}
	return d.detectLegacy(lowered)
}

func (d *SkillDetector) detectLegacy(lowered string) []domain.SkillEntry {
	skills := []domain.SkillEntry{}
	for _, group := range d.taxonomy {
		for _, keyword := range group.Keywords {
			if strings.Contains(lowered, keyword) {
				skills = append(skills, d.entry(keyword, group.Name))
			}
		}
	}
	return skills
}

type occurrence struct {
	keyword    string
	start, end int
}

func (d *SkillDetector) detectTokenized(lowered string) []domain.SkillEntry {
	skills := []domain.SkillEntry{}
	if d.matcher == nil || lowered == "" {
		return skills
	}

	var candidates []occurrence
	for _, idx := range d.matcher.MatchThreadSafe([]byte(lowered)) {
		if idx < 0 || idx >= len(d.keywords) {
			continue
		}
		candidates = append(candidates, boundedOccurrences(lowered, d.keywords[idx])...)
	}

	// Longest keyword wins where occurrences overlap.
	sort.SliceStable(candidates, func(i, j int) bool {
		li := candidates[i].end - candidates[i].start
		lj := candidates[j].end - candidates[j].start
		if li != lj {
			return li > lj
		}
		return candidates[i].start < candidates[j].start
	})
	var accepted []occurrence
	found := make(map[string]struct{})
	for _, c := range candidates {
		if overlapsAny(c, accepted) {
			continue
		}
		accepted = append(accepted, c)
		found[c.keyword] = struct{}{}
	}

	emitted := make(map[string]struct{})
	for _, group := range d.taxonomy {
		for _, keyword := range group.Keywords {
			if _, ok := found[keyword]; !ok {
				continue
			}
			if _, ok := emitted[keyword]; ok {
				continue
			}
			emitted[keyword] = struct{}{}
			skills = append(skills, d.entry(keyword, group.Name))
		}
	}
	return skills
}

func (d *SkillDetector) entry(keyword, category string) domain.SkillEntry {
	return domain.SkillEntry{
		Name:       keyword,
		Category:   domain.SkillCategory(category),
		Confidence: d.confidence,
	}
}

func boundedOccurrences(text, keyword string) []occurrence {
	var out []occurrence
	offset := 0
	for offset <= len(text)-len(keyword) {
		i := strings.Index(text[offset:], keyword)
		if i < 0 {
			break
		}
		start := offset + i
		end := start + len(keyword)
		if isBoundary(text, start, end) {
			out = append(out, occurrence{keyword: keyword, start: start, end: end})
		}
		offset = start + 1
	}
	return out
}

func isBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func overlapsAny(c occurrence, accepted []occurrence) bool {
	for _, a := range accepted {
		if c.start < a.end && a.start < c.end {
			return true
		}
	}
	return false
}
