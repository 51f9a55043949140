package analysis

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/nao1215/rivalscope/internal/config"
	"github.com/nao1215/rivalscope/internal/model"
)

const (
	// LowAuthorityThreshold is the domain authority below which link building
	// is recommended.
	LowAuthorityThreshold = 30
	// MinAltCoverage is the alt-text coverage percentage considered healthy.
	MinAltCoverage = 80.0

	topOnPageIssues   = 3
	topFocalSuggested = 3
)

// RecommendationInput is everything the aggregator merges.
type RecommendationInput struct {
	Domain          string
	Technical       model.TechnicalSEO
	OnPage          model.OnPageScore
	PageCount       int
	Gaps            []model.ContentGap
	Focal           []model.FocalKeyword
	Backlinks       int64
	DomainAuthority int
	PeerBacklinks   int64
}

// Recommender merges stage outputs into a bounded suggestion list.
type Recommender struct {
	limit int
}

// NewRecommender creates a recommender returning at most limit suggestions.
// A non-positive limit selects config.DefaultSuggestionLimit.
func NewRecommender(limit int) *Recommender {
	if limit <= 0 {
		limit = config.DefaultSuggestionLimit
	}
	return &Recommender{limit: limit}
}

type candidate struct {
	impact model.Impact
	text   string
}

// Recommend orders candidates by impact, drops duplicates, keeps the first
// limit entries and shuffles them with r. Truncation happens before the
// shuffle so the highest-impact suggestions always survive.
func (rc *Recommender) Recommend(in RecommendationInput, r Rand) []string {
	var cands []candidate
	addIssue := func(issueType string) {
		info := model.GetIssueInfo(issueType)
		cands = append(cands, candidate{info.Impact, info.Recommendation})
	}

	tech := in.Technical
	failed := func(res model.Result[bool]) bool {
		return res.Is(func(v bool) bool { return !v })
	}
	if failed(tech.HTTPS) {
		addIssue(model.IssueNoHTTPS)
	}
	if failed(tech.MobileFriendly) {
		addIssue(model.IssueNoViewport)
	}
	if failed(tech.Sitemap) {
		addIssue(model.IssueNoSitemap)
	}
	if failed(tech.RobotsTxt) {
		addIssue(model.IssueNoRobotsTxt)
	}
	if failed(tech.Hreflang) {
		addIssue(model.IssueNoHreflang)
	}
	if tech.LoadTimeMs.Is(func(ms int64) bool { return ms > SlowLoadThresholdMs }) {
		addIssue(model.IssueSlowLoadTime)
	}
	if tech.AltTextCoverage.Is(func(p float64) bool { return p < MinAltCoverage }) {
		addIssue(model.IssueLowAltCoverage)
	}

	for _, issue := range in.OnPage.Issues[:min(topOnPageIssues, len(in.OnPage.Issues))] {
		cands = append(cands, candidate{
			impact: issue.Impact,
			text:   fmt.Sprintf("%s (%d of %d pages)", issue.Recommendation, issue.Pages, in.PageCount),
		})
	}

	if gap, ok := BestGap(in.Gaps); ok {
		cands = append(cands, candidate{
			impact: model.GetImpact(model.IssueContentGap),
			text: fmt.Sprintf("Create content about %q: search potential %d, difficulty %d.",
				gap.Topic, gap.Potential, gap.Difficulty),
		})
	}

	if len(in.Focal) > 0 {
		words := make([]string, 0, topFocalSuggested)
		for _, f := range in.Focal[:min(topFocalSuggested, len(in.Focal))] {
			words = append(words, f.Keyword)
		}
		cands = append(cands, candidate{
			impact: model.GetImpact(model.IssueFocalKeywords),
			text:   fmt.Sprintf("Optimize titles and headings around your focal keywords: %s.", strings.Join(words, ", ")),
		})
	}

	if in.DomainAuthority < LowAuthorityThreshold {
		addIssue(model.IssueLowDomainAuthority)
	}
	if failed(tech.StructuredData) {
		addIssue(model.IssueNoStructuredData)
	}

	cands = append(cands, candidate{
		impact: model.GetImpact(model.IssueIndustryPeerBacklinks),
		text: fmt.Sprintf("Industry peers average %d backlinks; %s has an estimated %d.",
			in.PeerBacklinks, in.Domain, in.Backlinks),
	})

	slices.SortStableFunc(cands, func(a, b candidate) int {
		return cmp.Compare(b.impact, a.impact)
	})

	seen := make(map[string]bool, len(cands))
	out := make([]string, 0, min(rc.limit, len(cands)))
	for _, c := range cands {
		if len(out) == rc.limit {
			break
		}
		if seen[c.text] {
			continue
		}
		seen[c.text] = true
		out = append(out, c.text)
	}

	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
