package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/kirillkom/applicant-screener/internal/config"
	"github.com/kirillkom/applicant-screener/internal/core/domain"
)

func TestNewPipelineRejectsUnknownModes(t *testing.T) {
	rubric := domain.DefaultRubric()
	if _, err := NewPipeline(rubric, "fuzzy", "constant"); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid match mode error, got %v", err)
	}
	if _, err := NewPipeline(rubric, "legacy", "gpa"); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid education scoring error, got %v", err)
	}
}

func TestNewPipelineDegreeEducation(t *testing.T) {
	text := "Education: PhD in Physics, MIT\n"

	constant, err := NewPipeline(domain.DefaultRubric(), "legacy", "constant")
	if err != nil {
		t.Fatalf("NewPipeline(constant) error = %v", err)
	}
	degree, err := NewPipeline(domain.DefaultRubric(), "tokenized", "degree")
	if err != nil {
		t.Fatalf("NewPipeline(degree) error = %v", err)
	}

	got := constant.Scorer.Evaluate(constant.Assembler.Assemble(text), nil).Breakdown[domain.WeightEducation]
	if got != 70 {
		t.Fatalf("constant education = %v, want 70", got)
	}
	got = degree.Scorer.Evaluate(degree.Assembler.Assemble(text), nil).Breakdown[domain.WeightEducation]
	if got != 100 {
		t.Fatalf("degree education = %v, want 100", got)
	}
}

func TestLoadRubricAppliesConfiguredConfidence(t *testing.T) {
	rubric, err := LoadRubric(config.Config{SkillConfidence: 0.6})
	if err != nil {
		t.Fatalf("LoadRubric() error = %v", err)
	}
	if rubric.SkillConfidence != 0.6 {
		t.Fatalf("SkillConfidence = %v, want 0.6", rubric.SkillConfidence)
	}
}

func TestNewWiresSQLiteApp(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{
		DatabaseDriver:          "sqlite",
		SQLitePath:              filepath.Join(dir, "candidates.db"),
		StoragePath:             filepath.Join(dir, "uploads"),
		SkillMatchMode:          "legacy",
		EducationScoring:        "constant",
		SkillConfidence:         0.8,
		ResilienceRetryAttempts: 1,
	}

	app, err := New(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Close()

	analysis, err := app.Analyzer.Analyze(context.Background(), "jane@example.com\nSkills: Python\n", nil)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if analysis.Profile.Email != "jane@example.com" || analysis.MatchMode != "legacy" {
		t.Fatalf("unexpected analysis %+v", analysis)
	}

	candidates, err := app.Candidates.List(context.Background(), domain.CandidateFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected empty candidate table, got %d rows", len(candidates))
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), config.Config{DatabaseDriver: "mysql", StoragePath: t.TempDir()}, nil)
	if err == nil {
		t.Fatal("expected unknown driver error")
	}
}
