package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/kirillkom/applicant-screener/internal/core/domain"
)

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	candidate := &domain.Candidate{
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Skills:    []domain.SkillEntry{{Name: "python", Category: domain.CategoryProgramming}},
		Score:     23.75,
		Breakdown: map[string]float64{"technical_skills": 25, "education": 70},
	}
	if err := printSummary(&buf, "jane_doe.pdf", candidate, nil); err != nil {
		t.Fatalf("printSummary() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"== jane_doe.pdf", "email:      jane@example.com", "phone:      -", "python (programming)", "score:      23.75"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "education") > strings.Index(out, "technical_skills") {
		t.Fatalf("expected breakdown sorted by category:\n%s", out)
	}
}

func TestPrintSummaryReportsError(t *testing.T) {
	var buf bytes.Buffer
	if err := printSummary(&buf, "broken.pdf", nil, errors.New("bad xref")); err != nil {
		t.Fatalf("printSummary() error = %v", err)
	}
	if !strings.Contains(buf.String(), "error: bad xref") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := printJSON(&buf, "a.docx", nil, errors.New("unsupported")); err != nil {
		t.Fatalf("printJSON() error = %v", err)
	}
	var got fileResult
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got.File != "a.docx" || got.Error != "unsupported" || got.Candidate != nil {
		t.Fatalf("unexpected result %+v", got)
	}
}
