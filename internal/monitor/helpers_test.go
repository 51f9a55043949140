package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nao1215/rivalscope/internal/config"
	"github.com/nao1215/rivalscope/internal/crawler"
	"github.com/nao1215/rivalscope/internal/database"
	"github.com/nao1215/rivalscope/internal/model"
)

var fixedNow = time.Date(2026, time.May, 4, 12, 0, 0, 0, time.UTC)

// tickingClock returns fixedNow advanced by one minute per call so stored
// rows get distinct timestamps.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	n := 0
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fixedNow.Add(time.Duration(n) * time.Minute)
	}
}

func openStore(t *testing.T) *database.Store {
	t.Helper()
	s, err := database.Open(context.Background(), database.Options{
		Driver:            config.DriverSQLite,
		Dir:               t.TempDir(),
		CreateIfNotExists: true,
	})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// pageFetcher serves a fixed homepage body per domain.
type pageFetcher struct {
	mu     sync.Mutex
	bodies map[string]string
	fail   map[string]error
}

func newPageFetcher() *pageFetcher {
	return &pageFetcher{bodies: map[string]string{}, fail: map[string]error{}}
}

func (f *pageFetcher) set(domain, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[domain] = body
}

func (f *pageFetcher) FetchPage(_ context.Context, domain, path string) (*crawler.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail[domain]; err != nil {
		return nil, err
	}
	body, ok := f.bodies[domain]
	if !ok {
		return nil, errors.New("connection refused")
	}
	doc, err := crawler.ParseDocumentString(body)
	if err != nil {
		return nil, err
	}
	url := "https://" + domain + "/" + path
	rec := crawler.NewExtractor(domain).Extract(doc)
	rec.URL = url
	rec.FinalURL = url
	return &crawler.Page{Record: rec, Doc: doc}, nil
}

func homepage(title, article string) string {
	return "<html><head><title>" + title + "</title></head><body><nav>menu</nav><article>" +
		article + "</article></body></html>"
}

// stubAnalyzer fails for the domains in fail.
type stubAnalyzer struct {
	fail map[string]bool
}

func (a stubAnalyzer) AnalyzeCompetitor(_ context.Context, domain, _ string) (*model.AnalysisReport, error) {
	if a.fail[domain] {
		return nil, errors.New("unreachable")
	}
	return &model.AnalysisReport{Domain: domain}, nil
}

// sequenceSource returns positions in order, repeating the last one.
type sequenceSource struct {
	mu        sync.Mutex
	positions []int
	calls     int
	err       error
}

func (s *sequenceSource) Position(_ context.Context, _, _ string) (int, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, 0, s.err
	}
	i := min(s.calls, len(s.positions)-1)
	s.calls++
	return s.positions[i], 10, nil
}

type countingObserver struct {
	changes, rankings int
}

func (o *countingObserver) ObserveMonitor(changes, rankings int) {
	o.changes += changes
	o.rankings += rankings
}

func alertMessages(t *testing.T, s *database.Store, owner string) []string {
	t.Helper()
	alerts, err := s.ListAlerts(context.Background(), owner, false, 0)
	if err != nil {
		t.Fatalf("failed to list alerts: %v", err)
	}
	out := make([]string, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.Message)
	}
	return out
}
