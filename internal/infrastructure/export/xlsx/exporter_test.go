package xlsx

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/applicant-screener/internal/core/domain"
)

func TestExportWritesRankedRows(t *testing.T) {
	at := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	candidates := []domain.Candidate{
		{
			Name:       "Jane Doe",
			Email:      "jane@example.com",
			Score:      82.5,
			Breakdown:  map[string]float64{domain.WeightTechnicalSkills: 75, domain.WeightPortfolio: 40},
			Skills:     []domain.SkillEntry{{Name: "python"}, {Name: "aws"}},
			SourceFile: "jane.pdf",
			UpdatedAt:  at,
		},
		{Name: "Bob", Score: 10, UpdatedAt: at},
	}

	var buf bytes.Buffer
	if err := NewExporter().Export(&buf, candidates); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	headers := Headers()
	for i, h := range headers {
		if rows[0][i] != h {
			t.Fatalf("header %d: expected %q, got %q", i, h, rows[0][i])
		}
	}

	first := rows[1]
	if first[0] != "1" || first[1] != "Jane Doe" || first[4] != "82.5" {
		t.Fatalf("unexpected first row %v", first)
	}
	if first[5] != "75" || first[9] != "40" {
		t.Fatalf("unexpected breakdown cells %v", first)
	}
	if first[10] != "python, aws" || first[11] != "jane.pdf" || first[12] != "2026-04-01T12:00:00Z" {
		t.Fatalf("unexpected trailing cells %v", first)
	}
	if rows[2][0] != "2" || rows[2][1] != "Bob" {
		t.Fatalf("unexpected second row %v", rows[2])
	}
}

func TestExportEmptyRankingHasHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := NewExporter().Export(&buf, nil); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected only the header row, got %d", len(rows))
	}
}
