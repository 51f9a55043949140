package pipeline

import (
	"time"

	"github.com/nao1215/rivalscope/internal/analysis"
	"github.com/nao1215/rivalscope/internal/crawler"
	"github.com/nao1215/rivalscope/internal/model"
)

// Run is the state shared by the steps of one analysis.
// It is owned by a single goroutine.
type Run struct {
	Owner     string
	Domain    string
	StartedAt time.Time

	// Rand is the random source every estimator of this run draws from.
	Rand analysis.Rand

	Fetch       *crawler.Result
	Industry    model.Industry
	Technical   model.TechnicalSEO
	Backlinks   analysis.BacklinkEstimate
	Keywords    model.KeywordSet
	Rankings    []model.KeywordRanking
	Traffic     int64
	Gaps        []model.ContentGap
	OnPage      model.OnPageScore
	Suggestions []string

	Report     *model.AnalysisReport
	Competitor *model.Competitor

	// PerformedSteps lists the steps that completed, in order.
	PerformedSteps []string

	Err error
}

// NewRun creates the state for analyzing domain on behalf of owner.
func NewRun(owner, domain string, r analysis.Rand, now time.Time) *Run {
	return &Run{
		Owner:     owner,
		Domain:    domain,
		StartedAt: now,
		Rand:      r,
		Industry:  model.IndustryGeneral,
	}
}

// Pages returns the successfully fetched page records.
func (r *Run) Pages() []model.PageRecord {
	if r.Fetch == nil {
		return nil
	}
	return r.Fetch.Records()
}

// Homepage returns the homepage record, or nil if the root path failed.
func (r *Run) Homepage() *model.PageRecord {
	if r.Fetch == nil {
		return nil
	}
	if page, ok := r.Fetch.Homepage(); ok {
		return &page.Record
	}
	return nil
}
