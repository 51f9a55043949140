package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/rivalscope/internal/config"
	"github.com/nao1215/rivalscope/internal/model"
)

// funcAnalyzer adapts a function to the Analyzer interface.
type funcAnalyzer func(ctx context.Context, domain, owner string) (*model.AnalysisReport, error)

func (f funcAnalyzer) AnalyzeCompetitor(ctx context.Context, domain, owner string) (*model.AnalysisReport, error) {
	return f(ctx, domain, owner)
}

func TestBatchProcessorNew(t *testing.T) {
	t.Parallel()

	noop := funcAnalyzer(func(context.Context, string, string) (*model.AnalysisReport, error) { return nil, nil })

	t.Run("creates processor with defaults", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(noop)
		if bp.concurrency != config.DefaultBatchSize {
			t.Errorf("expected default concurrency %d, got %d", config.DefaultBatchSize, bp.concurrency)
		}
	})

	t.Run("caps concurrency", func(t *testing.T) {
		t.Parallel()

		if bp := NewBatchProcessor(noop, WithConcurrency(50)); bp.concurrency != config.MaxBatchSize {
			t.Errorf("expected concurrency %d, got %d", config.MaxBatchSize, bp.concurrency)
		}
	})

	t.Run("ignores non-positive concurrency", func(t *testing.T) {
		t.Parallel()

		if bp := NewBatchProcessor(noop, WithConcurrency(0)); bp.concurrency != config.DefaultBatchSize {
			t.Errorf("expected concurrency %d, got %d", config.DefaultBatchSize, bp.concurrency)
		}
	})
}

func TestBatchProcessorProcessBatch(t *testing.T) {
	t.Parallel()

	t.Run("keeps input order and reports failures per domain", func(t *testing.T) {
		t.Parallel()

		errDown := errors.New("down")
		analyzer := funcAnalyzer(func(_ context.Context, domain, owner string) (*model.AnalysisReport, error) {
			if domain == "b.com" {
				return nil, errDown
			}
			return &model.AnalysisReport{Domain: domain, CompetitorID: owner}, nil
		})

		results, err := NewBatchProcessor(analyzer).ProcessBatch(context.Background(), "owner", []string{"a.com", "b.com", "c.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 3 {
			t.Fatalf("expected 3 results, got %d", len(results))
		}
		if results[0].Report.Domain != "a.com" || results[2].Report.Domain != "c.com" {
			t.Error("expected results in input order")
		}
		if !errors.Is(results[1].Err, errDown) || results[1].Domain != "b.com" {
			t.Errorf("expected b.com to fail, got %+v", results[1])
		}
		if results[0].Report.CompetitorID != "owner" {
			t.Error("expected the owner to be passed through")
		}
	})

	t.Run("respects the concurrency limit", func(t *testing.T) {
		t.Parallel()

		var running, peak int32
		analyzer := funcAnalyzer(func(context.Context, string, string) (*model.AnalysisReport, error) {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return &model.AnalysisReport{}, nil
		})

		domains := make([]string, 12)
		for i := range domains {
			domains[i] = "example.com"
		}
		if _, err := NewBatchProcessor(analyzer, WithConcurrency(3)).ProcessBatch(context.Background(), "owner", domains); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := atomic.LoadInt32(&peak); got > 3 {
			t.Errorf("expected at most 3 concurrent runs, got %d", got)
		}
	})

	t.Run("returns the context error when cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		analyzer := funcAnalyzer(func(ctx context.Context, _, _ string) (*model.AnalysisReport, error) {
			return nil, ctx.Err()
		})
		results, err := NewBatchProcessor(analyzer).ProcessBatch(ctx, "owner", []string{"a.com", "b.com"})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		for _, res := range results {
			if res.Err == nil {
				t.Errorf("expected every result to carry an error, got %+v", res)
			}
		}
	})

	t.Run("returns the context error when cancelled mid-run", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		started := make(chan struct{}, 2)
		analyzer := funcAnalyzer(func(ctx context.Context, _, _ string) (*model.AnalysisReport, error) {
			started <- struct{}{}
			<-ctx.Done()
			return nil, ctx.Err()
		})

		go func() {
			<-started
			<-started
			cancel()
		}()

		results, err := NewBatchProcessor(analyzer).ProcessBatch(ctx, "owner", []string{"a.com", "b.com"})
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		for _, res := range results {
			if !errors.Is(res.Err, context.Canceled) {
				t.Errorf("expected context.Canceled for %s, got %v", res.Domain, res.Err)
			}
		}
	})

	t.Run("drives the engine end to end", func(t *testing.T) {
		t.Parallel()

		store := newMemStore()
		engine := NewEngine(&stubFetcher{pages: shopPages()}, nil, WithStore(store))

		results, err := NewBatchProcessor(engine).ProcessBatch(context.Background(), "owner", []string{"shopfast.com", "www.shopfast.com", "other.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, res := range results {
			if res.Err != nil {
				t.Errorf("unexpected error for %s: %v", res.Domain, res.Err)
			}
		}
		if competitors, metrics, _, _, _ := store.counts(); competitors != 2 || metrics != 3 {
			t.Errorf("expected 2 competitors and 3 snapshots, got %d and %d", competitors, metrics)
		}
	})
}
