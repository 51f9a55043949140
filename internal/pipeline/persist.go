package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/rivalscope/internal/model"
)

// ErrSnapshotPersist is returned when the metrics snapshot of a run could not
// be stored. It is the only persistence failure that fails the run.
var ErrSnapshotPersist = errors.New("failed to persist metrics snapshot")

// Store is the persistence the engine writes a finished run to.
// *database.Store implements it.
type Store interface {
	// UpsertCompetitor returns the competitor for (owner, domain), creating
	// it atomically when absent.
	UpsertCompetitor(ctx context.Context, owner, domain string, createdAt time.Time) (*model.Competitor, error)
	InsertMetrics(ctx context.Context, snapshot *model.SeoMetricsSnapshot) error
	InsertScrapedPage(ctx context.Context, page *model.ScrapedPage) error
	InsertSuggestion(ctx context.Context, suggestion *model.Suggestion) error
	InsertAlert(ctx context.Context, alert *model.Alert) error
}

// CompletionMessage is the alert text raised when a run finishes.
func CompletionMessage(domain string, backlinks int64, authority int) string {
	return fmt.Sprintf("Analysis completed for %s: found %d backlinks, domain authority %d", domain, backlinks, authority)
}

// PersistStep writes the competitor, the metrics snapshot, the scraped
// pages, the suggestions and the completion alert.
type PersistStep struct {
	store  Store
	now    func() time.Time
	logger *slog.Logger
}

// NewPersistStep creates a persistence step.
func NewPersistStep(store Store, now func() time.Time, logger *slog.Logger) *PersistStep {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PersistStep{store: store, now: now, logger: logger}
}

// Name returns the step name.
func (s *PersistStep) Name() string {
	return "persist"
}

// Do executes the persistence step. A run cancelled before this point
// persists nothing; once writing starts it completes on a context detached
// from the caller's cancellation. Page, suggestion and alert writes are
// best-effort and only logged on failure.
func (s *PersistStep) Do(ctx context.Context, run *Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx = context.WithoutCancel(ctx)
	now := s.now()

	competitor, err := s.store.UpsertCompetitor(ctx, run.Owner, run.Domain, now)
	if err != nil {
		return fmt.Errorf("failed to upsert competitor %s: %w", run.Domain, err)
	}
	run.Competitor = competitor
	if run.Report != nil {
		run.Report.CompetitorID = competitor.ID
	}

	snapshot := &model.SeoMetricsSnapshot{
		ID:              uuid.NewString(),
		CompetitorID:    competitor.ID,
		Backlinks:       run.Backlinks.Backlinks,
		DomainAuthority: run.Backlinks.DomainAuthority,
		TrafficEstimate: run.Traffic,
		CreatedAt:       now,
	}
	if err := s.store.InsertMetrics(ctx, snapshot); err != nil {
		return fmt.Errorf("%w: %w", ErrSnapshotPersist, err)
	}

	for _, p := range run.Pages() {
		page := &model.ScrapedPage{
			ID:           uuid.NewString(),
			CompetitorID: competitor.ID,
			URL:          p.URL,
			Title:        p.Title,
			WordCount:    max(p.WordCount, 0),
			CreatedAt:    now,
		}
		if err := s.store.InsertScrapedPage(ctx, page); err != nil {
			s.logger.Error("failed to store scraped page", "domain", run.Domain, "url", p.URL, "error", err)
		}
	}

	for _, text := range run.Suggestions {
		suggestion := &model.Suggestion{
			ID:        uuid.NewString(),
			Owner:     run.Owner,
			Type:      model.SuggestionTypeSEO,
			Text:      text,
			CreatedAt: now,
		}
		if err := s.store.InsertSuggestion(ctx, suggestion); err != nil {
			s.logger.Error("failed to store suggestion", "domain", run.Domain, "error", err)
		}
	}

	alert := &model.Alert{
		ID:        uuid.NewString(),
		Owner:     run.Owner,
		Message:   CompletionMessage(run.Domain, run.Backlinks.Backlinks, run.Backlinks.DomainAuthority),
		CreatedAt: now,
	}
	if err := s.store.InsertAlert(ctx, alert); err != nil {
		s.logger.Error("failed to store alert", "domain", run.Domain, "error", err)
	}
	return nil
}
