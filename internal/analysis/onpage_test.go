package analysis

import (
	"strings"
	"testing"

	"github.com/nao1215/rivalscope/internal/model"
)

func perfectPage(path string) model.PageRecord {
	return model.PageRecord{
		Path:            path,
		URL:             "https://shopfast.com/" + path,
		Title:           "ShopFast - Running Shoes and Trail Gear Online",
		MetaDescription: strings.Repeat("Quality running shoes. ", 6),
		H1:              "Running shoes for every trail",
		Canonical:       "https://shopfast.com/" + path,
		InternalLinks:   6,
		Images:          2,
		ImagesWithAlt:   2,
		WordCount:       850,
	}
}

func TestOnPageScorerScore(t *testing.T) {
	t.Parallel()

	scorer := NewOnPageScorer()

	t.Run("all checks passing scores 100", func(t *testing.T) {
		t.Parallel()

		got := scorer.Score([]model.PageRecord{perfectPage(""), perfectPage("about")})
		if got.Score != 100 {
			t.Errorf("expected 100, got %d", got.Score)
		}
		if got.Rating != model.RatingGood {
			t.Errorf("expected %q, got %q", model.RatingGood, got.Rating)
		}
		if len(got.Issues) != 0 {
			t.Errorf("expected no issues, got %+v", got.Issues)
		}
	})

	t.Run("missing title h1 and meta scores below 60", func(t *testing.T) {
		t.Parallel()

		pages := []model.PageRecord{perfectPage(""), perfectPage("blog")}
		for i := range pages {
			pages[i].Title = ""
			pages[i].H1 = ""
			pages[i].MetaDescription = ""
		}

		got := scorer.Score(pages)
		if got.Score >= 60 {
			t.Errorf("expected a score below 60, got %d", got.Score)
		}
		if got.Rating != model.RatingNeedsImprovement {
			t.Errorf("expected %q, got %q", model.RatingNeedsImprovement, got.Rating)
		}

		want := map[string]bool{
			model.IssueMissingTitle:           false,
			model.IssueMissingH1:              false,
			model.IssueMissingMetaDescription: false,
		}
		for _, issue := range got.Issues {
			if _, ok := want[issue.Type]; !ok {
				continue
			}
			want[issue.Type] = true
			if issue.Impact != model.ImpactHigh {
				t.Errorf("expected %s to be high impact, got %s", issue.Type, issue.Impact)
			}
			if issue.Pages != 2 {
				t.Errorf("expected %s on 2 pages, got %d", issue.Type, issue.Pages)
			}
		}
		for issueType, found := range want {
			if !found {
				t.Errorf("expected issue %s", issueType)
			}
		}
	})

	t.Run("length problems earn partial credit", func(t *testing.T) {
		t.Parallel()

		page := perfectPage("")
		page.Title = "Shoes"
		page.MetaDescription = strings.Repeat("x", 200)

		got := scorer.Score([]model.PageRecord{page})
		// 100 - 10 (half of titles) - 7.5 (half of meta)
		if got.Score != 83 {
			t.Errorf("expected 83, got %d", got.Score)
		}
		types := make([]string, 0, len(got.Issues))
		for _, issue := range got.Issues {
			types = append(types, issue.Type)
		}
		if strings.Join(types, ",") != model.IssueLongMetaDescription+","+model.IssueShortTitle {
			t.Errorf("unexpected issues %v", types)
		}
	})

	t.Run("empty page set scores zero", func(t *testing.T) {
		t.Parallel()

		got := scorer.Score(nil)
		if got.Score != 0 || got.Rating != model.RatingNeedsImprovement {
			t.Errorf("expected 0 and %q, got %d and %q", model.RatingNeedsImprovement, got.Score, got.Rating)
		}
	})
}

func TestOnPageScoreBounds(t *testing.T) {
	t.Parallel()

	scorer := NewOnPageScorer()
	r := NewRand(17)
	for i := range 300 {
		pages := make([]model.PageRecord, 1+r.IntN(5))
		for j := range pages {
			pages[j] = model.PageRecord{
				Title:           strings.Repeat("t", r.IntN(90)),
				MetaDescription: strings.Repeat("m", r.IntN(220)),
				H1:              strings.Repeat("h", r.IntN(2)),
				Canonical:       strings.Repeat("c", r.IntN(2)),
				InternalLinks:   r.IntN(8),
				Images:          r.IntN(6),
				ImagesWithAlt:   r.IntN(6),
				WordCount:       r.IntN(900),
			}
		}

		got := scorer.Score(pages)
		if got.Score < 0 || got.Score > 100 {
			t.Fatalf("iteration %d: score %d out of range", i, got.Score)
		}
		if got.Rating != model.RatingForScore(got.Score) {
			t.Fatalf("iteration %d: rating %q does not match score %d", i, got.Rating, got.Score)
		}
		for k := 1; k < len(got.Issues); k++ {
			if got.Issues[k].Impact > got.Issues[k-1].Impact {
				t.Fatalf("iteration %d: issues not ordered by impact", i)
			}
		}
	}
}
