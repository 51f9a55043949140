package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/rivalscope/internal/crawler"
	"github.com/nao1215/rivalscope/internal/model"
	"github.com/nao1215/rivalscope/internal/site"
)

var fixedNow = time.Date(2026, time.November, 20, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// memStore is an in-memory Store.
type memStore struct {
	mu          sync.Mutex
	competitors map[string]*model.Competitor
	metrics     []*model.SeoMetricsSnapshot
	pages       []*model.ScrapedPage
	suggestions []*model.Suggestion
	alerts      []*model.Alert

	metricsErr    error
	suggestionErr error
}

func newMemStore() *memStore {
	return &memStore{competitors: map[string]*model.Competitor{}}
}

func (s *memStore) UpsertCompetitor(_ context.Context, owner, domain string, createdAt time.Time) (*model.Competitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := owner + "/" + domain
	if c, ok := s.competitors[key]; ok {
		return c, nil
	}
	c := &model.Competitor{ID: uuid.NewString(), Domain: domain, Owner: owner, CreatedAt: createdAt}
	s.competitors[key] = c
	return c, nil
}

func (s *memStore) InsertMetrics(_ context.Context, m *model.SeoMetricsSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.metricsErr != nil {
		return s.metricsErr
	}
	s.metrics = append(s.metrics, m)
	return nil
}

func (s *memStore) InsertScrapedPage(_ context.Context, p *model.ScrapedPage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages = append(s.pages, p)
	return nil
}

func (s *memStore) InsertSuggestion(_ context.Context, sg *model.Suggestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suggestionErr != nil {
		return s.suggestionErr
	}
	s.suggestions = append(s.suggestions, sg)
	return nil
}

func (s *memStore) InsertAlert(_ context.Context, a *model.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, a)
	return nil
}

func (s *memStore) counts() (competitors, metrics, pages, suggestions, alerts int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.competitors), len(s.metrics), len(s.pages), len(s.suggestions), len(s.alerts)
}

// stubFetcher returns canned pages for every domain.
type stubFetcher struct {
	mu     sync.Mutex
	calls  int
	pages  []model.PageRecord
	fail   bool
	robots bool
}

func (f *stubFetcher) Fetch(ctx context.Context, domain string) (*crawler.Result, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.fail {
		return nil, &site.UnreachableDomainError{
			Domain:   domain,
			Failures: []model.PageFailure{{URL: "https://" + domain + "/", Reason: "connection refused"}},
		}
	}
	result := &crawler.Result{Domain: domain}
	for _, p := range f.pages {
		result.Pages = append(result.Pages, crawler.Page{Record: p})
	}
	return result, nil
}

func (f *stubFetcher) RobotsTxt(context.Context, string) (bool, error) {
	return f.robots, nil
}

func (f *stubFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func shopPages() []model.PageRecord {
	return []model.PageRecord{
		{
			Path:          "",
			URL:           "https://shopfast.com/",
			FinalURL:      "https://shopfast.com/",
			StatusCode:    200,
			Latency:       400 * time.Millisecond,
			Title:         "ShopFast - Running Shoes Store",
			H1:            "Running shoes",
			Headings:      []string{"Trail running", "Road running"},
			InternalLinks: 4,
			Images:        3,
			ImagesWithAlt: 1,
			HasViewport:   true,
			ContentSample: "running shoes for trail and road running with free returns",
			WordCount:     120,
		},
		{
			Path:          "about",
			URL:           "https://shopfast.com/about",
			FinalURL:      "https://shopfast.com/about",
			StatusCode:    200,
			Title:         "About ShopFast",
			ContentSample: "family owned running store since 1999",
			WordCount:     60,
		},
	}
}

// recordingObserver collects observations.
type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
	fetched  int
	failed   int
}

func (o *recordingObserver) ObserveRun(outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func (o *recordingObserver) ObservePages(fetched, failed int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fetched += fetched
	o.failed += failed
}

var errStoreDown = errors.New("store down")
