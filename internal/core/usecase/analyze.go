package usecase

import (
	"context"

	"github.com/kirillkom/applicant-screener/internal/core/domain"
	"github.com/kirillkom/applicant-screener/internal/core/profile"
	"github.com/kirillkom/applicant-screener/internal/core/scoring"
)

type AnalyzeTextUseCase struct {
	assembler *profile.Assembler
	scorer    *scoring.Scorer
}

func NewAnalyzeTextUseCase(assembler *profile.Assembler, scorer *scoring.Scorer) *AnalyzeTextUseCase {
	return &AnalyzeTextUseCase{
		assembler: assembler,
		scorer:    scorer,
	}
}

// Analyze profiles and scores text. Nil weights select the configured rubric
// weights; supplied weights are validated and completed from the defaults.
func (uc *AnalyzeTextUseCase) Analyze(
	ctx context.Context,
	text string,
	weights domain.ScoreWeights,
) (*domain.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if weights != nil {
		if err := weights.Validate(); err != nil {
			return nil, err
		}
	}

	p := uc.assembler.Assemble(text)
	return &domain.Analysis{
		Profile:   p,
		Score:     uc.scorer.Evaluate(p, weights),
		MatchMode: string(uc.assembler.MatchMode()),
	}, nil
}
