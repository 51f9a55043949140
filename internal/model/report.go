package model

import "time"

// Ratings assigned by the on-page scorer.
const (
	RatingGood             = "Good"
	RatingAverage          = "Average"
	RatingNeedsImprovement = "Needs Improvement"
)

// Keyword ranking kinds.
const (
	RankingKindWord     = "word"
	RankingKindPhrase   = "phrase"
	RankingKindLongTail = "long_tail"
)

// AnalysisReport is the result of one AnalyzeCompetitor run.
type AnalysisReport struct {
	CompetitorID string    `json:"competitorId"`
	Domain       string    `json:"domain"`
	Industry     Industry  `json:"industry"`
	GeneratedAt  time.Time `json:"generatedAt"`

	Backlinks       int64 `json:"backlinks"`
	DomainAuthority int   `json:"domainAuthority"`
	TrafficEstimate int64 `json:"trafficEstimate"`

	Pages       []PageSummary `json:"pages"`
	FailedPages []PageFailure `json:"failedPages,omitempty"`

	TechnicalSEO TechnicalSEO `json:"technicalSeo"`

	TopKeywords   []KeywordCount   `json:"topKeywords,omitempty"`
	FocalKeywords []FocalKeyword   `json:"focalKeywords,omitempty"`
	Rankings      []KeywordRanking `json:"rankings,omitempty"`
	ContentGaps   []ContentGap     `json:"contentGaps,omitempty"`

	OnPageScore OnPageScore `json:"onPageScore"`

	// TopSuggestions is deduplicated and holds at most the configured
	// suggestion limit (10 by default).
	TopSuggestions []string `json:"topSuggestions"`
}

// PageSummary is the per-page view exposed to report consumers.
type PageSummary struct {
	URL       string `json:"url"`
	Title     string `json:"title"`
	WordCount int    `json:"wordCount"`
}

// TechnicalSEO holds the homepage-level technical checks.
// Every field is a Result so consumers can tell "checked and false" from
// "could not check".
type TechnicalSEO struct {
	// LoadTimeMs is the homepage fetch latency in milliseconds.
	LoadTimeMs Result[int64] `json:"loadTimeMs"`

	HTTPS          Result[bool] `json:"https"`
	Canonical      Result[bool] `json:"canonical"`
	Sitemap        Result[bool] `json:"sitemap"`
	RobotsTxt      Result[bool] `json:"robotsTxt"`
	Hreflang       Result[bool] `json:"hreflang"`
	StructuredData Result[bool] `json:"structuredData"`
	MobileFriendly Result[bool] `json:"mobileFriendly"`

	// AltTextCoverage is images-with-alt / images as a percentage,
	// 100 when the page has no images.
	AltTextCoverage Result[float64] `json:"altTextCoverage"`
}

// KeywordCount is a token or phrase with its frequency.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// Phrase is a 2- or 3-gram with its frequency and a synthetic search volume.
type Phrase struct {
	Phrase       string `json:"phrase"`
	Count        int    `json:"count"`
	SearchVolume int    `json:"searchVolume"`
}

// KeywordSet is the output of keyword extraction.
type KeywordSet struct {
	Words   []KeywordCount `json:"words"`
	Phrases []Phrase       `json:"phrases"`
	// Focal are the tokens weighted by where they appear (title > H1 > headings).
	Focal []FocalKeyword `json:"focal"`
}

// FocalKeyword is a token scored by its placement on the page.
type FocalKeyword struct {
	Keyword string  `json:"keyword"`
	Score   float64 `json:"score"`
}

// KeywordRanking is a synthetic search position for a keyword.
type KeywordRanking struct {
	Keyword      string `json:"keyword"`
	Kind         string `json:"kind"`
	Position     int    `json:"position"`
	SearchVolume int    `json:"searchVolume"`
	Difficulty   int    `json:"difficulty"`
}

// ContentGap is an industry topic the analyzed site does not cover.
type ContentGap struct {
	Topic      string `json:"topic"`
	Difficulty int    `json:"difficulty"`
	Potential  int    `json:"potential"`
}

// OnPageScore is the weighted rule-based score over all fetched pages.
type OnPageScore struct {
	Score  int     `json:"score"`
	Rating string  `json:"rating"`
	Issues []Issue `json:"issues"`
}

// Issue is one failed on-page rule.
type Issue struct {
	Type           string `json:"type"`
	Impact         Impact `json:"impact"`
	Pages          int    `json:"pages"`
	Recommendation string `json:"recommendation"`
}

// NewIssue builds an Issue from the shared issue table.
func NewIssue(issueType string, pages int) Issue {
	info := GetIssueInfo(issueType)
	return Issue{
		Type:           issueType,
		Impact:         info.Impact,
		Pages:          pages,
		Recommendation: info.Recommendation,
	}
}

// RatingForScore maps a 0-100 score to its rating.
func RatingForScore(score int) string {
	switch {
	case score >= 80:
		return RatingGood
	case score >= 60:
		return RatingAverage
	default:
		return RatingNeedsImprovement
	}
}

// PageSummaries converts page records into the report view.
func PageSummaries(pages []PageRecord) []PageSummary {
	out := make([]PageSummary, 0, len(pages))
	for _, p := range pages {
		out = append(out, PageSummary{URL: p.URL, Title: p.Title, WordCount: p.WordCount})
	}
	return out
}
