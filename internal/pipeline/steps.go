package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/rivalscope/internal/analysis"
	"github.com/nao1215/rivalscope/internal/crawler"
	"github.com/nao1215/rivalscope/internal/model"
)

// PageFetcher retrieves the candidate pages of a domain.
// *crawler.Fetcher implements it.
type PageFetcher interface {
	Fetch(ctx context.Context, domain string) (*crawler.Result, error)
}

// FetchStep fetches the candidate pages. It fails the run when no page
// could be fetched or the context was cancelled.
type FetchStep struct {
	fetcher PageFetcher
	logger  *slog.Logger
}

// NewFetchStep creates a fetch step.
func NewFetchStep(fetcher PageFetcher, logger *slog.Logger) *FetchStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &FetchStep{fetcher: fetcher, logger: logger}
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch"
}

// Do executes the fetch step.
func (s *FetchStep) Do(ctx context.Context, run *Run) error {
	result, err := s.fetcher.Fetch(ctx, run.Domain)
	if err != nil {
		return err
	}
	run.Fetch = result

	s.logger.Info("pages fetched",
		"domain", run.Domain,
		"pages", len(result.Pages),
		"failures", len(result.Failures),
	)
	return nil
}

// TechnicalStep runs the technical SEO checks on the homepage.
type TechnicalStep struct {
	analyzer *analysis.TechnicalAnalyzer
}

// NewTechnicalStep creates a technical SEO step.
func NewTechnicalStep(analyzer *analysis.TechnicalAnalyzer) *TechnicalStep {
	return &TechnicalStep{analyzer: analyzer}
}

// Name returns the step name.
func (s *TechnicalStep) Name() string {
	return "technical_seo"
}

// Do executes the technical step. It never fails.
func (s *TechnicalStep) Do(ctx context.Context, run *Run) error {
	run.Technical = s.analyzer.Analyze(ctx, run.Domain, run.Homepage())
	return nil
}

// ClassifyStep assigns the industry.
type ClassifyStep struct {
	classifier *analysis.Classifier
}

// NewClassifyStep creates an industry classification step.
func NewClassifyStep(classifier *analysis.Classifier) *ClassifyStep {
	return &ClassifyStep{classifier: classifier}
}

// Name returns the step name.
func (s *ClassifyStep) Name() string {
	return "classify_industry"
}

// Do executes the classification step.
func (s *ClassifyStep) Do(_ context.Context, run *Run) error {
	run.Industry = s.classifier.Classify(run.Domain)
	return nil
}

// BacklinkStep estimates backlinks and domain authority.
type BacklinkStep struct {
	estimator *analysis.BacklinkEstimator
}

// NewBacklinkStep creates a backlink estimation step.
func NewBacklinkStep(estimator *analysis.BacklinkEstimator) *BacklinkStep {
	return &BacklinkStep{estimator: estimator}
}

// Name returns the step name.
func (s *BacklinkStep) Name() string {
	return "estimate_backlinks"
}

// Do executes the backlink step.
func (s *BacklinkStep) Do(_ context.Context, run *Run) error {
	run.Backlinks = s.estimator.Estimate(run.Domain, run.Industry, run.Rand)
	return nil
}

// KeywordStep extracts words, phrases and focal keywords from the pages.
type KeywordStep struct {
	extractor *analysis.KeywordExtractor
}

// NewKeywordStep creates a keyword extraction step.
func NewKeywordStep(extractor *analysis.KeywordExtractor) *KeywordStep {
	return &KeywordStep{extractor: extractor}
}

// Name returns the step name.
func (s *KeywordStep) Name() string {
	return "extract_keywords"
}

// Do executes the keyword step.
func (s *KeywordStep) Do(_ context.Context, run *Run) error {
	run.Keywords = s.extractor.Extract(run.Pages(), run.Rand)
	return nil
}

// RankingStep synthesizes keyword rankings.
type RankingStep struct {
	synth *analysis.RankingSynthesizer
}

// NewRankingStep creates a ranking step.
func NewRankingStep(synth *analysis.RankingSynthesizer) *RankingStep {
	return &RankingStep{synth: synth}
}

// Name returns the step name.
func (s *RankingStep) Name() string {
	return "synthesize_rankings"
}

// Do executes the ranking step.
func (s *RankingStep) Do(_ context.Context, run *Run) error {
	run.Rankings = s.synth.Synthesize(run.Keywords, run.Industry, run.Rand)
	return nil
}

// TrafficStep estimates monthly traffic for the month the run started.
type TrafficStep struct {
	estimator *analysis.TrafficEstimator
}

// NewTrafficStep creates a traffic estimation step.
func NewTrafficStep(estimator *analysis.TrafficEstimator) *TrafficStep {
	return &TrafficStep{estimator: estimator}
}

// Name returns the step name.
func (s *TrafficStep) Name() string {
	return "estimate_traffic"
}

// Do executes the traffic step.
func (s *TrafficStep) Do(_ context.Context, run *Run) error {
	run.Traffic = s.estimator.Estimate(run.Backlinks.Backlinks, run.Rankings, run.Industry, run.StartedAt.Month(), run.Rand)
	return nil
}

// GapStep finds uncovered industry topics.
type GapStep struct {
	analyzer *analysis.GapAnalyzer
}

// NewGapStep creates a content gap step.
func NewGapStep(analyzer *analysis.GapAnalyzer) *GapStep {
	return &GapStep{analyzer: analyzer}
}

// Name returns the step name.
func (s *GapStep) Name() string {
	return "content_gaps"
}

// Do executes the gap step.
func (s *GapStep) Do(_ context.Context, run *Run) error {
	run.Gaps = s.analyzer.Analyze(analysis.TopTerms(run.Keywords), run.Industry)
	return nil
}

// OnPageStep scores the fetched pages.
type OnPageStep struct {
	scorer *analysis.OnPageScorer
}

// NewOnPageStep creates an on-page scoring step.
func NewOnPageStep(scorer *analysis.OnPageScorer) *OnPageStep {
	return &OnPageStep{scorer: scorer}
}

// Name returns the step name.
func (s *OnPageStep) Name() string {
	return "onpage_score"
}

// Do executes the on-page step.
func (s *OnPageStep) Do(_ context.Context, run *Run) error {
	run.OnPage = s.scorer.Score(run.Pages())
	return nil
}

// RecommendStep merges the stage outputs into suggestions.
type RecommendStep struct {
	recommender *analysis.Recommender
	backlinks   *analysis.BacklinkEstimator
}

// NewRecommendStep creates a recommendation step. backlinks supplies the
// industry peer average.
func NewRecommendStep(recommender *analysis.Recommender, backlinks *analysis.BacklinkEstimator) *RecommendStep {
	return &RecommendStep{recommender: recommender, backlinks: backlinks}
}

// Name returns the step name.
func (s *RecommendStep) Name() string {
	return "recommend"
}

// Do executes the recommendation step.
func (s *RecommendStep) Do(_ context.Context, run *Run) error {
	run.Suggestions = s.recommender.Recommend(analysis.RecommendationInput{
		Domain:          run.Domain,
		Technical:       run.Technical,
		OnPage:          run.OnPage,
		PageCount:       len(run.Pages()),
		Gaps:            run.Gaps,
		Focal:           run.Keywords.Focal,
		Backlinks:       run.Backlinks.Backlinks,
		DomainAuthority: run.Backlinks.DomainAuthority,
		PeerBacklinks:   s.backlinks.PeerAverage(run.Industry),
	}, run.Rand)
	return nil
}

// ReportStep assembles the AnalysisReport.
type ReportStep struct{}

// NewReportStep creates a report step.
func NewReportStep() *ReportStep {
	return &ReportStep{}
}

// Name returns the step name.
func (s *ReportStep) Name() string {
	return "build_report"
}

// Do executes the report step.
func (s *ReportStep) Do(_ context.Context, run *Run) error {
	var failures []model.PageFailure
	if run.Fetch != nil {
		failures = run.Fetch.Failures
	}

	run.Report = &model.AnalysisReport{
		Domain:          run.Domain,
		Industry:        run.Industry,
		GeneratedAt:     run.StartedAt,
		Backlinks:       run.Backlinks.Backlinks,
		DomainAuthority: run.Backlinks.DomainAuthority,
		TrafficEstimate: run.Traffic,
		Pages:           model.PageSummaries(run.Pages()),
		FailedPages:     failures,
		TechnicalSEO:    run.Technical,
		TopKeywords:     run.Keywords.Words,
		FocalKeywords:   run.Keywords.Focal,
		Rankings:        run.Rankings,
		ContentGaps:     run.Gaps,
		OnPageScore:     run.OnPage,
		TopSuggestions:  run.Suggestions,
	}
	if run.Competitor != nil {
		run.Report.CompetitorID = run.Competitor.ID
	}
	return nil
}
