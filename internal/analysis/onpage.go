package analysis

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/nao1215/rivalscope/internal/model"
)

// Weights of the on-page checks. They sum to 100.
const (
	titlePts         = 20
	metaPts          = 15
	h1Pts            = 15
	altPts           = 10
	contentPts       = 20
	canonicalPts     = 10
	internalLinksPts = 10

	totalOnPagePoints = titlePts + metaPts + h1Pts + altPts + contentPts + canonicalPts + internalLinksPts
)

// Thresholds of the on-page checks.
const (
	MinTitleLength    = 30
	MaxTitleLength    = 60
	MinMetaLength     = 120
	MaxMetaLength     = 160
	ThinContentWords  = 300
	MinInternalLinks  = 3
	partialLengthCred = 0.5
)

// OnPageScorer runs rule checks across a page set.
type OnPageScorer struct{}

// NewOnPageScorer creates a scorer.
func NewOnPageScorer() *OnPageScorer {
	return &OnPageScorer{}
}

type lengthCheck struct {
	missing, short, long int
	credit               float64
}

func (c *lengthCheck) observe(text string, minLen, maxLen int) {
	n := utf8.RuneCountInString(strings.TrimSpace(text))
	switch {
	case n == 0:
		c.missing++
	case n < minLen:
		c.short++
		c.credit += partialLengthCred
	case n > maxLen:
		c.long++
		c.credit += partialLengthCred
	default:
		c.credit++
	}
}

// Score returns the weighted 0-100 score, its rating and the failed rules.
// An empty page set scores 0.
func (s *OnPageScorer) Score(pages []model.PageRecord) model.OnPageScore {
	if len(pages) == 0 {
		return model.OnPageScore{
			Score:  0,
			Rating: model.RatingForScore(0),
			Issues: []model.Issue{},
		}
	}

	var (
		title, meta                       lengthCheck
		missingH1, thin, missingCanonical int
		missingAlt, images, imagesWithAlt int
		internalLinks                     int
	)
	for _, p := range pages {
		title.observe(p.Title, MinTitleLength, MaxTitleLength)
		meta.observe(p.MetaDescription, MinMetaLength, MaxMetaLength)
		if strings.TrimSpace(p.H1) == "" {
			missingH1++
		}
		if p.WordCount < ThinContentWords {
			thin++
		}
		if p.Canonical == "" {
			missingCanonical++
		}
		if p.ImagesWithAlt < p.Images {
			missingAlt++
		}
		images += p.Images
		imagesWithAlt += min(p.ImagesWithAlt, p.Images)
		internalLinks += p.InternalLinks
	}

	n := float64(len(pages))
	altRatio := 1.0
	if images > 0 {
		altRatio = float64(imagesWithAlt) / float64(images)
	}
	avgLinks := float64(internalLinks) / n
	linkRatio := math.Min(avgLinks/MinInternalLinks, 1)

	earned := titlePts*title.credit/n +
		metaPts*meta.credit/n +
		h1Pts*(n-float64(missingH1))/n +
		altPts*altRatio +
		contentPts*(n-float64(thin))/n +
		canonicalPts*(n-float64(missingCanonical))/n +
		internalLinksPts*linkRatio

	score := clampInt(int(math.Round(earned*100/totalOnPagePoints)), 0, 100)

	issues := make([]model.Issue, 0, 11)
	add := func(issueType string, count int) {
		if count > 0 {
			issues = append(issues, model.NewIssue(issueType, count))
		}
	}
	add(model.IssueMissingTitle, title.missing)
	add(model.IssueShortTitle, title.short)
	add(model.IssueLongTitle, title.long)
	add(model.IssueMissingMetaDescription, meta.missing)
	add(model.IssueShortMetaDescription, meta.short)
	add(model.IssueLongMetaDescription, meta.long)
	add(model.IssueMissingH1, missingH1)
	add(model.IssueMissingAltText, missingAlt)
	add(model.IssueThinContent, thin)
	add(model.IssueMissingCanonical, missingCanonical)
	if avgLinks < MinInternalLinks {
		add(model.IssueFewInternalLinks, len(pages))
	}
	SortIssues(issues)

	return model.OnPageScore{
		Score:  score,
		Rating: model.RatingForScore(score),
		Issues: issues,
	}
}

// SortIssues orders issues by impact (high first), affected pages, then type.
func SortIssues(issues []model.Issue) {
	slices.SortStableFunc(issues, func(a, b model.Issue) int {
		if c := cmp.Compare(b.Impact, a.Impact); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Pages, a.Pages); c != 0 {
			return c
		}
		return strings.Compare(a.Type, b.Type)
	})
}
