package xlsx

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/applicant-screener/internal/core/domain"
)

const SheetName = "Candidates"

// Exporter writes the candidate ranking as a single-sheet workbook, one row
// per candidate in the given order.
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

func Headers() []string {
	headers := []string{"rank", "name", "email", "phone", "score"}
	headers = append(headers, domain.ScoreCategories...)
	return append(headers, "skills", "source_file", "screened_at")
}

func (e *Exporter) Export(w io.Writer, candidates []domain.Candidate) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headers := Headers()
	if err := f.SetSheetRow(SheetName, "A1", &headers); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return fmt.Errorf("header range: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", lastHeader, bold); err != nil {
		return fmt.Errorf("style header row: %w", err)
	}

	for i, c := range candidates {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
		row := candidateRow(i+1, c)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func candidateRow(rank int, c domain.Candidate) []any {
	row := []any{rank, c.Name, c.Email, c.Phone, c.Score}
	for _, category := range domain.ScoreCategories {
		row = append(row, c.Breakdown[category])
	}
	skills := make([]string, 0, len(c.Skills))
	for _, s := range c.Skills {
		skills = append(skills, s.Name)
	}
	return append(row, strings.Join(skills, ", "), c.SourceFile, c.UpdatedAt.UTC().Format(time.RFC3339))
}
