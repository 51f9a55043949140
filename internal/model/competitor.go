package model

import "time"

// SuggestionTypeSEO is the suggestion type produced by an analysis run.
const SuggestionTypeSEO = "seo_improvement"

// DefaultSearchEngine is the search engine used for tracked keywords when none is given.
const DefaultSearchEngine = "google"

// ContentTypeHomepage tags content snapshots taken from a competitor's homepage.
const ContentTypeHomepage = "homepage"

// Competitor is a domain an owner tracks.
// The domain is always stored normalized and is unique per owner.
type Competitor struct {
	// ID is the competitor identifier (UUID).
	ID string `json:"id"`

	// Domain is the canonical domain (no scheme, no www, no path, lowercase).
	Domain string `json:"domain"`

	// Owner is the user that registered the competitor.
	Owner string `json:"owner"`

	// CreatedAt is when the competitor was first analyzed.
	CreatedAt time.Time `json:"createdAt"`
}

// ScrapedPage is one analyzed page of one run. Rows are append-only, so
// historical runs accumulate.
type ScrapedPage struct {
	ID           string    `json:"id"`
	CompetitorID string    `json:"competitorId"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	WordCount    int       `json:"wordCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SeoMetricsSnapshot holds the synthesized metrics of one analysis run.
// The current value for a competitor is the most recent snapshot.
type SeoMetricsSnapshot struct {
	ID              string    `json:"id"`
	CompetitorID    string    `json:"competitorId"`
	Backlinks       int64     `json:"backlinks"`
	DomainAuthority int       `json:"domainAuthority"`
	TrafficEstimate int64     `json:"trafficEstimate"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Suggestion is an actionable recommendation shown to an owner.
type Suggestion struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Type      string    `json:"type"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Alert is a notification raised as a side effect of analysis and monitoring.
type Alert struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// Keyword is a search term an owner tracks across all competitors.
type Keyword struct {
	ID           string    `json:"id"`
	Owner        string    `json:"owner"`
	Keyword      string    `json:"keyword"`
	SearchEngine string    `json:"searchEngine"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Ranking is the position of a competitor for a tracked keyword at one point in time.
type Ranking struct {
	ID              string    `json:"id"`
	KeywordID       string    `json:"keywordId"`
	CompetitorID    string    `json:"competitorId"`
	Position        int       `json:"position"`
	TrafficEstimate int64     `json:"trafficEstimate"`
	CreatedAt       time.Time `json:"createdAt"`
}

// ContentSnapshot is a stored copy of a competitor page's main content,
// used to detect content changes between monitoring runs.
type ContentSnapshot struct {
	ID           string    `json:"id"`
	CompetitorID string    `json:"competitorId"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	ContentText  string    `json:"contentText"`
	Hash         string    `json:"hash"`
	Type         string    `json:"type"`
	CreatedAt    time.Time `json:"createdAt"`
}
