package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/rivalscope/internal/model"
	"github.com/nao1215/rivalscope/internal/pipeline"
)

// CompetitorLister lists an owner's competitors.
type CompetitorLister interface {
	ListCompetitors(ctx context.Context, owner string) ([]model.Competitor, error)
}

// Observer receives the counts of each pass. *telemetry.Metrics implements it.
type Observer interface {
	ObserveMonitor(contentChanges, rankings int)
}

// Summary reports what one monitoring pass did.
type Summary struct {
	Owner          string        `json:"owner"`
	Competitors    int           `json:"competitors"`
	Analyzed       int           `json:"analyzed"`
	Failed         int           `json:"failed"`
	ContentChanges int           `json:"contentChanges"`
	Rankings       int           `json:"rankings"`
	Elapsed        time.Duration `json:"elapsed"`
}

func (s Summary) String() string {
	return fmt.Sprintf("%d competitors: %d analyzed, %d failed, %d content changes, %d rankings recorded",
		s.Competitors, s.Analyzed, s.Failed, s.ContentChanges, s.Rankings)
}

// Monitor runs monitoring passes.
type Monitor struct {
	competitors CompetitorLister
	batch       *pipeline.BatchProcessor
	content     *ContentMonitor
	ranks       *RankTracker
	observer    Observer
	logger      *slog.Logger
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithContentMonitor enables homepage change detection.
func WithContentMonitor(cm *ContentMonitor) Option {
	return func(m *Monitor) {
		m.content = cm
	}
}

// WithRankTracker enables tracked-keyword rankings.
func WithRankTracker(rt *RankTracker) Option {
	return func(m *Monitor) {
		m.ranks = rt
	}
}

// WithObserver reports pass counts to observer.
func WithObserver(observer Observer) Option {
	return func(m *Monitor) {
		m.observer = observer
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Monitor) {
		m.logger = logger
	}
}

// New creates a Monitor that re-analyzes competitors through batch.
func New(competitors CompetitorLister, batch *pipeline.BatchProcessor, opts ...Option) *Monitor {
	m := &Monitor{competitors: competitors, batch: batch}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

// RunOnce re-analyzes every competitor of owner, then checks content and
// records rankings. Per-competitor failures are counted, not returned; the
// error is non-nil when the competitors cannot be listed or ctx is done.
func (m *Monitor) RunOnce(ctx context.Context, owner string) (Summary, error) {
	started := time.Now()
	summary := Summary{Owner: owner}

	competitors, err := m.competitors.ListCompetitors(ctx, owner)
	if err != nil {
		return summary, fmt.Errorf("failed to list competitors: %w", err)
	}
	summary.Competitors = len(competitors)
	if len(competitors) == 0 {
		m.logger.Info("no competitors to monitor", "owner", owner)
		return summary, nil
	}

	domains := make([]string, 0, len(competitors))
	for _, c := range competitors {
		domains = append(domains, c.Domain)
	}
	results, err := m.batch.ProcessBatch(ctx, owner, domains)
	if err != nil {
		return summary, err
	}
	for _, res := range results {
		if res.Err != nil {
			summary.Failed++
			continue
		}
		summary.Analyzed++
	}

	if m.content != nil {
		for _, c := range competitors {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			res, err := m.content.Check(ctx, c)
			if err != nil {
				m.logger.Warn("content check failed", "domain", c.Domain, "error", err)
				continue
			}
			if res.Changed {
				summary.ContentChanges++
			}
		}
	}

	if m.ranks != nil {
		n, err := m.ranks.Track(ctx, owner, competitors)
		summary.Rankings = n
		if err != nil {
			return summary, err
		}
	}

	summary.Elapsed = time.Since(started)
	if m.observer != nil {
		m.observer.ObserveMonitor(summary.ContentChanges, summary.Rankings)
	}
	m.logger.Info("monitoring pass complete",
		"owner", owner,
		"analyzed", summary.Analyzed,
		"failed", summary.Failed,
		"content_changes", summary.ContentChanges,
		"rankings", summary.Rankings,
	)
	return summary, nil
}
