package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/rivalscope/internal/config"
	"github.com/nao1215/rivalscope/internal/model"
	"golang.org/x/sync/errgroup"
)

// Analyzer analyzes one competitor domain. *Engine implements it.
type Analyzer interface {
	AnalyzeCompetitor(ctx context.Context, domain, owner string) (*model.AnalysisReport, error)
}

// BatchResult is the outcome for one domain of a batch.
type BatchResult struct {
	Domain string
	Report *model.AnalysisReport
	Err    error
}

// BatchProcessor analyzes several domains concurrently. Each domain's own
// page fetches stay sequential; only whole runs overlap.
type BatchProcessor struct {
	analyzer Analyzer

	// concurrency is the maximum number of domains analyzed at once.
	concurrency int

	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent runs. Values above
// config.MaxBatchSize are capped; non-positive values keep the default.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = min(n, config.MaxBatchSize)
		}
	}
}

// NewBatchProcessor creates a BatchProcessor running at most
// config.DefaultBatchSize analyses at a time.
func NewBatchProcessor(analyzer Analyzer, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		analyzer:    analyzer,
		concurrency: config.DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch analyzes domains for owner. Results keep the input order and
// per-domain failures are reported in BatchResult.Err rather than stopping
// the batch. The returned error is non-nil only when ctx was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, owner string, domains []string) ([]BatchResult, error) {
	results := make([]BatchResult, len(domains))
	err := bp.ProcessBatchWithCallback(ctx, owner, domains, func(res BatchResult, index int) {
		results[index] = res
	})
	return results, err
}

// ProcessBatchWithCallback analyzes domains and calls callback as each one
// finishes. callback runs on the worker goroutine and must be safe for
// concurrent use unless it only touches its own index. The returned error
// is ctx's error when ctx was cancelled, even if every run had started.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	owner string,
	domains []string,
	callback func(result BatchResult, index int),
) error {
	bp.logger.Info("starting batch analysis",
		"total_domains", len(domains),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, domain := range domains {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				callback(BatchResult{Domain: domain, Err: gctx.Err()}, i)
				return gctx.Err()
			default:
			}

			report, err := bp.analyzer.AnalyzeCompetitor(gctx, domain, owner)
			if err != nil {
				bp.logger.Warn("analysis failed",
					"domain", domain,
					"error", err,
				)
			}
			callback(BatchResult{Domain: domain, Report: report, Err: err}, i)
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		// Runs that started before the cancellation report it per domain only.
		err = ctx.Err()
	}
	bp.logger.Info("batch analysis complete",
		"total_domains", len(domains),
		"elapsed", time.Since(startTime),
	)
	return err
}
