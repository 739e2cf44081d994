package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kirillkom/applicant-screener/internal/bootstrap"
	"github.com/kirillkom/applicant-screener/internal/config"
	"github.com/kirillkom/applicant-screener/internal/core/domain"
	"github.com/kirillkom/applicant-screener/internal/core/usecase"
	"github.com/kirillkom/applicant-screener/internal/observability/logging"
)

const stdinArg = "-"

var (
	screenWeightsFile string
	screenMode        string
	screenEducation   string
	screenFormat      string
	screenJSON        bool
	screenLogLevel    string
)

func init() {
	rootCmd.Flags().StringVarP(&screenWeightsFile, "weights-file", "w", "", "Path to a YAML rubric overriding weights and keyword tables")
	rootCmd.Flags().StringVarP(&screenMode, "mode", "m", "", "Skill match mode: legacy or tokenized (default from SKILL_MATCH_MODE)")
	rootCmd.Flags().StringVar(&screenEducation, "education", "", "Education scoring: constant or degree (default from EDUCATION_SCORING)")
	rootCmd.Flags().StringVarP(&screenFormat, "format", "f", "", "Document format for stdin input: pdf or docx")
	rootCmd.Flags().BoolVar(&screenJSON, "json", false, "Print one JSON object per file instead of a text summary")
	rootCmd.Flags().StringVar(&screenLogLevel, "log-level", "warn", "Log level for diagnostics on stderr")
}

// fileResult is the JSON shape printed per input.
type fileResult struct {
	File      string            `json:"file"`
	Candidate *domain.Candidate `json:"candidate,omitempty"`
	Error     string            `json:"error,omitempty"`
}

func runScreen(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if screenWeightsFile != "" {
		cfg.TaxonomyFile = screenWeightsFile
	}
	if screenMode != "" {
		cfg.SkillMatchMode = screenMode
	}
	if screenEducation != "" {
		cfg.EducationScoring = screenEducation
	}
	logger := logging.New(cmd.ErrOrStderr(), "screen", screenLogLevel, "text")

	rubric, err := bootstrap.LoadRubric(cfg)
	if err != nil {
		return fmt.Errorf("load rubric: %w", err)
	}
	pipeline, err := bootstrap.NewPipeline(rubric, cfg.SkillMatchMode, cfg.EducationScoring)
	if err != nil {
		return err
	}
	screener := usecase.NewScreenResumeUseCase(nil, pipeline.Extractor, pipeline.Assembler, pipeline.Scorer, nil, usecase.ScreenOptions{
		ResumeTextMaxChars: cfg.ResumeTextMaxChars,
		Logger:             logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	failed := 0
	for _, arg := range args {
		candidate, err := screenArg(ctx, screener, arg, cmd.InOrStdin())
		if err != nil {
			failed++
			logger.Debug("screen_failed", "file", arg, "error", err)
		}
		if screenJSON {
			err = printJSON(out, arg, candidate, err)
		} else {
			err = printSummary(out, arg, candidate, err)
		}
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

func screenArg(ctx context.Context, screener *usecase.ScreenResumeUseCase, arg string, stdin io.Reader) (*domain.Candidate, error) {
	if arg != stdinArg {
		return screener.ScreenFile(ctx, arg)
	}
	if screenFormat == "" {
		return nil, errors.New("--format is required when reading from stdin")
	}
	format, err := domain.ParseFormat(screenFormat)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return screener.ScreenDocument(ctx, domain.RawDocument{Name: "stdin." + string(format), Format: format, Data: data})
}

func printJSON(w io.Writer, file string, candidate *domain.Candidate, screenErr error) error {
	result := fileResult{File: file, Candidate: candidate}
	if screenErr != nil {
		result.Error = screenErr.Error()
	}
	return json.NewEncoder(w).Encode(result)
}

func printSummary(w io.Writer, file string, candidate *domain.Candidate, screenErr error) error {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s\n", file)
	if screenErr != nil {
		fmt.Fprintf(&b, "error: %v\n\n", screenErr)
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "name:       %s\n", orDash(candidate.Name))
	fmt.Fprintf(&b, "email:      %s\n", orDash(candidate.Email))
	fmt.Fprintf(&b, "phone:      %s\n", orDash(candidate.Phone))
	skills := make([]string, 0, len(candidate.Skills))
	for _, s := range candidate.Skills {
		skills = append(skills, fmt.Sprintf("%s (%s)", s.Name, s.Category))
	}
	fmt.Fprintf(&b, "skills:     %s\n", orDash(strings.Join(skills, ", ")))
	fmt.Fprintf(&b, "experience: %d entries\n", len(candidate.Experience))
	fmt.Fprintf(&b, "education:  %d entries\n", len(candidate.Education))
	fmt.Fprintf(&b, "score:      %.2f\n", candidate.Score)

	categories := make([]string, 0, len(candidate.Breakdown))
	for category := range candidate.Breakdown {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		fmt.Fprintf(&b, "  %-17s %6.2f\n", category, candidate.Breakdown[category])
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
