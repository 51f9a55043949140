package monitor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// OwnerLister lists every owner with competitors.
type OwnerLister interface {
	ListOwners(ctx context.Context) ([]string, error)
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}

// Scheduler runs a monitoring pass for every owner on a cron schedule.
// A pass that is still running when the next one is due is skipped.
type Scheduler struct {
	monitor *Monitor
	owners  OwnerLister
	cron    *cron.Cron
	logger  *slog.Logger

	// ctx is cancelled by Stop so a running pass returns early.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler creates a scheduler for the 5-field cron spec. It fails on
// an invalid spec.
func NewScheduler(monitor *Monitor, owners OwnerLister, spec string, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cl := cronLogger{logger: logger}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	c := cron.New(
		cron.WithParser(parser),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	s := &Scheduler{monitor: monitor, owners: owners, cron: c, logger: logger}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	if _, err := c.AddFunc(spec, s.runAll); err != nil {
		return nil, fmt.Errorf("invalid monitor schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins running passes in the background.
func (s *Scheduler) Start() {
	s.logger.Info("monitor scheduler started", "entries", len(s.cron.Entries()))
	s.cron.Start()
}

// Stop cancels a running pass and waits for it to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.logger.Info("monitor scheduler stopped")
}

func (s *Scheduler) runAll() {
	s.RunAll(s.ctx)
}

// RunAll runs one pass per owner and returns the summaries of the passes
// that completed.
func (s *Scheduler) RunAll(ctx context.Context) []Summary {
	owners, err := s.owners.ListOwners(ctx)
	if err != nil {
		s.logger.Error("failed to list owners", "error", err)
		return nil
	}
	summaries := make([]Summary, 0, len(owners))
	for _, owner := range owners {
		summary, err := s.monitor.RunOnce(ctx, owner)
		if err != nil {
			s.logger.Error("monitoring pass failed", "owner", owner, "error", err)
			if ctx.Err() != nil {
				return summaries
			}
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
