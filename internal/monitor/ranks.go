package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nao1215/rivalscope/internal/analysis"
	"github.com/nao1215/rivalscope/internal/config"
	"github.com/nao1215/rivalscope/internal/database"
	"github.com/nao1215/rivalscope/internal/model"
)

// PositionSource reports where a competitor ranks for a keyword.
type PositionSource interface {
	Position(ctx context.Context, keyword, domain string) (position int, traffic int64, err error)
}

// Search volume range assumed for a tracked keyword.
const (
	trackedVolumeMin = 100
	trackedVolumeMax = 5000
)

// HeuristicSource estimates positions the same way an analysis run ranks
// single words. A keyword that appears in the domain name counts as fully
// relevant to the site.
type HeuristicSource struct {
	classifier *analysis.Classifier
	synth      *analysis.RankingSynthesizer

	mu sync.Mutex
	r  analysis.Rand
}

// NewHeuristicSource creates a HeuristicSource. A nil r draws from a randomly
// seeded source.
func NewHeuristicSource(tables *config.Tables, r analysis.Rand) *HeuristicSource {
	if tables == nil {
		tables = config.DefaultTables()
	}
	if r == nil {
		r = analysis.NewRandomRand()
	}
	return &HeuristicSource{
		classifier: analysis.NewClassifier(tables),
		synth:      analysis.NewRankingSynthesizer(tables),
		r:          r,
	}
}

// Position implements PositionSource.
func (s *HeuristicSource) Position(ctx context.Context, keyword, domain string) (int, int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	industry := s.classifier.Classify(domain)

	rel := 0.5
	for _, word := range strings.Fields(keyword) {
		if strings.Contains(domain, word) {
			rel = 1
			break
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	pos := s.synth.EstimatePosition(keyword, rel, industry, s.r)
	volume := trackedVolumeMin + s.r.IntN(trackedVolumeMax-trackedVolumeMin+1)
	traffic := int64(math.Round(float64(volume) * analysis.CTR(pos)))
	return pos, traffic, nil
}

// RankStore is the persistence needed by RankTracker.
type RankStore interface {
	ListKeywords(ctx context.Context, owner string) ([]model.Keyword, error)
	LatestRanking(ctx context.Context, keywordID, competitorID string) (*model.Ranking, error)
	InsertRanking(ctx context.Context, ranking *model.Ranking) error
	InsertAlert(ctx context.Context, alert *model.Alert) error
}

// InitialRankingMessage is the alert text for a first observation.
func InitialRankingMessage(domain, keyword string, position int) string {
	return fmt.Sprintf("Initial ranking for %s on %q: position %d", domain, keyword, position)
}

// RankingChangeMessage is the alert text for a position change. A lower
// position number is an improvement.
func RankingChangeMessage(domain, keyword string, from, to int) string {
	direction := "declined"
	if to < from {
		direction = "improved"
	}
	return fmt.Sprintf("%s has %s from position %d to %d for %q", domain, direction, from, to, keyword)
}

// RankTracker records the position of every competitor for every tracked
// keyword of an owner.
type RankTracker struct {
	source PositionSource
	store  RankStore
	now    func() time.Time
	logger *slog.Logger
}

// NewRankTracker creates a rank tracker. A nil logger means slog.Default().
func NewRankTracker(source PositionSource, store RankStore, now func() time.Time, logger *slog.Logger) *RankTracker {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RankTracker{source: source, store: store, now: now, logger: logger}
}

// Track records one ranking per tracked keyword and competitor and returns
// how many were recorded. A failure for one pair is logged and skipped.
func (t *RankTracker) Track(ctx context.Context, owner string, competitors []model.Competitor) (int, error) {
	keywords, err := t.store.ListKeywords(ctx, owner)
	if err != nil {
		return 0, err
	}

	recorded := 0
	for _, kw := range keywords {
		for _, c := range competitors {
			if err := ctx.Err(); err != nil {
				return recorded, err
			}
			if err := t.trackOne(ctx, owner, kw, c); err != nil {
				if ctx.Err() != nil {
					return recorded, ctx.Err()
				}
				t.logger.Warn("failed to record ranking",
					"domain", c.Domain,
					"keyword", kw.Keyword,
					"error", err,
				)
				continue
			}
			recorded++
		}
	}
	return recorded, nil
}

func (t *RankTracker) trackOne(ctx context.Context, owner string, kw model.Keyword, c model.Competitor) error {
	prev, err := t.store.LatestRanking(ctx, kw.ID, c.ID)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return err
	}

	position, traffic, err := t.source.Position(ctx, kw.Keyword, c.Domain)
	if err != nil {
		return err
	}

	now := t.now()
	ranking := &model.Ranking{
		ID:              uuid.NewString(),
		KeywordID:       kw.ID,
		CompetitorID:    c.ID,
		Position:        position,
		TrafficEstimate: traffic,
		CreatedAt:       now,
	}
	if err := t.store.InsertRanking(ctx, ranking); err != nil {
		return err
	}

	var message string
	switch {
	case prev == nil:
		message = InitialRankingMessage(c.Domain, kw.Keyword, position)
	case prev.Position != position:
		message = RankingChangeMessage(c.Domain, kw.Keyword, prev.Position, position)
	default:
		return nil
	}
	alert := &model.Alert{ID: uuid.NewString(), Owner: owner, Message: message, CreatedAt: now}
	if err := t.store.InsertAlert(ctx, alert); err != nil {
		t.logger.Error("failed to store ranking alert", "domain", c.Domain, "error", err)
	}
	return nil
}
