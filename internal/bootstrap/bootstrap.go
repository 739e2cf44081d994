package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirillkom/applicant-screener/internal/config"
	"github.com/kirillkom/applicant-screener/internal/core/domain"
	"github.com/kirillkom/applicant-screener/internal/core/ports"
	"github.com/kirillkom/applicant-screener/internal/core/profile"
	"github.com/kirillkom/applicant-screener/internal/core/scoring"
	"github.com/kirillkom/applicant-screener/internal/core/usecase"
	"github.com/kirillkom/applicant-screener/internal/infrastructure/events/nats"
	"github.com/kirillkom/applicant-screener/internal/infrastructure/export/xlsx"
	"github.com/kirillkom/applicant-screener/internal/infrastructure/extractor/document"
	"github.com/kirillkom/applicant-screener/internal/infrastructure/repository"
	"github.com/kirillkom/applicant-screener/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/applicant-screener/internal/infrastructure/repository/sqlite"
	"github.com/kirillkom/applicant-screener/internal/infrastructure/resilience"
	"github.com/kirillkom/applicant-screener/internal/infrastructure/storage/localfs"
	"github.com/kirillkom/applicant-screener/internal/observability/metrics"
)

const serviceName = "api"

type App struct {
	Config config.Config

	Screener   *usecase.ScreenResumeUseCase
	Analyzer   *usecase.AnalyzeTextUseCase
	Candidates *usecase.CandidateQueryUseCase
	Metrics    *metrics.HTTPServerMetrics

	closeFn func()
}

// Pipeline is the storage-free part of the service: extraction, profiling
// and scoring. The CLI runs it directly.
type Pipeline struct {
	Extractor *document.Extractor
	Assembler *profile.Assembler
	Scorer    *scoring.Scorer
}

// NewPipeline builds the heuristics from rubric. educationScoring selects
// "constant" (default) or "degree" education rating.
func NewPipeline(rubric domain.Rubric, matchMode, educationScoring string) (*Pipeline, error) {
	mode, err := profile.ParseMatchMode(matchMode)
	if err != nil {
		return nil, err
	}

	scorer := scoring.NewScorer(rubric)
	switch strings.ToLower(strings.TrimSpace(educationScoring)) {
	case "", "constant":
	case "degree":
		scorer = scorer.WithSubScorer(domain.WeightEducation, scoring.NewDegreeLevelEducation(rubric.Lowered().DegreeScores))
	default:
		return nil, domain.WrapError(domain.ErrInvalidInput, "parse education scoring", fmt.Errorf("mode %q", educationScoring))
	}

	return &Pipeline{
		Extractor: document.NewExtractor(),
		Assembler: profile.NewAssembler(rubric, profile.Options{MatchMode: mode}),
		Scorer:    scorer,
	}, nil
}

// LoadRubric reads the rubric file named by cfg. Without a file the
// configured skill confidence applies to the default tables.
func LoadRubric(cfg config.Config) (domain.Rubric, error) {
	rubric, err := config.LoadRubric(cfg.TaxonomyFile)
	if err != nil {
		return domain.Rubric{}, err
	}
	if cfg.TaxonomyFile == "" && cfg.SkillConfidence > 0 && cfg.SkillConfidence <= 1 {
		rubric.SkillConfidence = cfg.SkillConfidence
	}
	return rubric, nil
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	rubric, err := LoadRubric(cfg)
	if err != nil {
		return nil, fmt.Errorf("load rubric: %w", err)
	}
	pipeline, err := NewPipeline(rubric, cfg.SkillMatchMode, cfg.EducationScoring)
	if err != nil {
		return nil, fmt.Errorf("init pipeline: %w", err)
	}

	httpMetrics := metrics.NewHTTPServerMetrics(serviceName)
	screeningMetrics := metrics.NewScreeningMetrics(serviceName, httpMetrics.Registry())

	resilienceCfg := resilience.DefaultConfig()
	resilienceCfg.RetryMaxAttempts = cfg.ResilienceRetryAttempts
	resilienceCfg.BreakerEnabled = cfg.ResilienceBreaker
	executor := resilience.NewExecutor(resilienceCfg,
		resilience.WithLogger(logger),
		resilience.WithRetryObserver(screeningMetrics.ObserveRetry),
	)

	db, repo, err := openRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init upload storage: %w", err)
	}

	var events ports.EventPublisher
	var publisher *nats.Publisher
	if cfg.NATSURL != "" {
		publisher, err = nats.New(cfg.NATSURL, cfg.NATSSubject, nats.Options{
			ResilienceExecutor: executor,
			Logger:             logger,
		})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init event publisher: %w", err)
		}
		events = publisher
	} else {
		logger.Info("event_publisher_disabled", "reason", "NATS_URL is empty")
	}

	retrying := repository.NewRetrying(repo, executor)
	screener := usecase.NewScreenResumeUseCase(storage, pipeline.Extractor, pipeline.Assembler, pipeline.Scorer, retrying, usecase.ScreenOptions{
		ResumeTextMaxChars: cfg.ResumeTextMaxChars,
		Concurrency:        cfg.ScreenConcurrency,
		Events:             events,
		Observer:           screeningMetrics,
		Logger:             logger,
	})

	return &App{
		Config:     cfg,
		Screener:   screener,
		Analyzer:   usecase.NewAnalyzeTextUseCase(pipeline.Assembler, pipeline.Scorer),
		Candidates: usecase.NewCandidateQueryUseCase(retrying, xlsx.NewExporter()),
		Metrics:    httpMetrics,
		closeFn: func() {
			if publisher != nil {
				publisher.Close()
			}
			_ = db.Close()
		},
	}, nil
}

func openRepository(ctx context.Context, cfg config.Config) (*sql.DB, ports.CandidateRepository, error) {
	switch cfg.DatabaseDriver {
	case "postgres", "postgresql":
		db, err := postgres.OpenDB(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		repo := postgres.NewCandidateRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		return db, repo, nil
	case "", "sqlite":
		db, err := sqlite.OpenDB(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		repo := sqlite.NewCandidateRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		return db, repo, nil
	default:
		return nil, nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
