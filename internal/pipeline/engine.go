package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nao1215/rivalscope/internal/analysis"
	"github.com/nao1215/rivalscope/internal/config"
	"github.com/nao1215/rivalscope/internal/model"
	"github.com/nao1215/rivalscope/internal/site"
)

// Run outcomes reported to a RunObserver.
const (
	OutcomeSuccess       = "success"
	OutcomeInvalidDomain = "invalid_domain"
	OutcomeUnreachable   = "unreachable"
	OutcomeCancelled     = "cancelled"
	OutcomeError         = "error"
)

// RunObserver receives per-run measurements.
// *telemetry.Metrics implements it.
type RunObserver interface {
	ObserveRun(outcome string, elapsed time.Duration)
	ObservePages(fetched, failed int)
}

// Engine analyzes one competitor domain per call.
type Engine struct {
	fetcher PageFetcher
	robots  analysis.RobotsChecker
	tables  *config.Tables
	store   Store

	logger     *slog.Logger
	observer   RunObserver
	randSource func() analysis.Rand
	now        func() time.Time

	suggestionLimit int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithStore enables persistence. Without a store, runs produce a report only.
func WithStore(store Store) EngineOption {
	return func(e *Engine) {
		e.store = store
	}
}

// WithEngineLogger sets the logger used by the engine and its steps.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRobotsChecker overrides the robots.txt probe. By default the fetcher
// is used when it implements analysis.RobotsChecker.
func WithRobotsChecker(robots analysis.RobotsChecker) EngineOption {
	return func(e *Engine) {
		e.robots = robots
	}
}

// WithRandSource sets the factory called once per run for its random
// source. Tests pin it to a seeded generator.
func WithRandSource(source func() analysis.Rand) EngineOption {
	return func(e *Engine) {
		e.randSource = source
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// WithObserver sets the metrics observer.
func WithObserver(observer RunObserver) EngineOption {
	return func(e *Engine) {
		e.observer = observer
	}
}

// WithSuggestionLimit caps the suggestions per run.
func WithSuggestionLimit(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.suggestionLimit = n
		}
	}
}

// NewEngine creates an engine. tables may be nil to use the built-in tables.
func NewEngine(fetcher PageFetcher, tables *config.Tables, opts ...EngineOption) *Engine {
	if tables == nil {
		tables = config.DefaultTables()
	}
	e := &Engine{
		fetcher:         fetcher,
		tables:          tables,
		randSource:      analysis.NewRandomRand,
		now:             time.Now,
		suggestionLimit: config.DefaultSuggestionLimit,
	}
	if robots, ok := fetcher.(analysis.RobotsChecker); ok {
		e.robots = robots
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// NewPipeline builds the ordered analysis steps. Persistence is the last
// step and only present when a store is configured.
func (e *Engine) NewPipeline() *Pipeline {
	backlinks := analysis.NewBacklinkEstimator(e.tables)

	p := New(WithLogger(e.logger))
	p.AddSteps(
		NewFetchStep(e.fetcher, e.logger),
		NewTechnicalStep(analysis.NewTechnicalAnalyzer(e.robots)),
		NewClassifyStep(analysis.NewClassifier(e.tables)),
		NewBacklinkStep(backlinks),
		NewKeywordStep(analysis.NewKeywordExtractor(e.tables)),
		NewRankingStep(analysis.NewRankingSynthesizer(e.tables)),
		NewTrafficStep(analysis.NewTrafficEstimator(e.tables)),
		NewGapStep(analysis.NewGapAnalyzer(e.tables)),
		NewOnPageStep(analysis.NewOnPageScorer()),
		NewRecommendStep(analysis.NewRecommender(e.suggestionLimit), backlinks),
		NewReportStep(),
	)
	if e.store != nil {
		p.AddStep(NewPersistStep(e.store, e.now, e.logger))
	}
	e.logger.Debug("analysis pipeline built",
		"steps", p.StepCount(),
		"names", p.StepNames(),
	)
	return p
}

// AnalyzeCompetitor normalizes domain, runs every analysis step and returns
// the report. It fails with *site.InvalidDomainError before any fetch, with
// *site.UnreachableDomainError when no page could be fetched, with the
// context error when cancelled and with ErrSnapshotPersist when the metrics
// snapshot could not be stored. In every failure case nothing is persisted
// except, for a snapshot failure, the competitor row itself.
func (e *Engine) AnalyzeCompetitor(ctx context.Context, domain, owner string) (*model.AnalysisReport, error) {
	started := time.Now()

	normalized, err := site.Normalize(domain)
	if err != nil {
		e.observe(OutcomeInvalidDomain, started, nil)
		return nil, err
	}
	if owner == "" {
		owner = config.DefaultOwner
	}

	run := NewRun(owner, normalized, e.randSource(), e.now())
	err = e.NewPipeline().Execute(ctx, run)
	e.observe(Outcome(err), started, run)
	if err != nil {
		return nil, err
	}

	e.logger.Info("analysis completed",
		"domain", normalized,
		"owner", owner,
		"backlinks", run.Report.Backlinks,
		"domain_authority", run.Report.DomainAuthority,
		"score", run.Report.OnPageScore.Score,
	)
	return run.Report, nil
}

func (e *Engine) observe(outcome string, started time.Time, run *Run) {
	if e.observer == nil {
		return
	}
	e.observer.ObserveRun(outcome, time.Since(started))
	if run == nil {
		return
	}
	if run.Fetch != nil {
		e.observer.ObservePages(len(run.Fetch.Pages), len(run.Fetch.Failures))
		return
	}
	var unreachable *site.UnreachableDomainError
	if errors.As(run.Err, &unreachable) {
		e.observer.ObservePages(0, len(unreachable.Failures))
	}
}

// Outcome classifies a run error for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, site.ErrInvalidDomain):
		return OutcomeInvalidDomain
	case errors.Is(err, site.ErrUnreachableDomain):
		return OutcomeUnreachable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCancelled
	default:
		return OutcomeError
	}
}
