package analysis

import (
	"testing"

	"github.com/nao1215/rivalscope/internal/config"
	"github.com/nao1215/rivalscope/internal/model"
)

func TestRankingSynthesizerSynthesize(t *testing.T) {
	t.Parallel()

	synth := NewRankingSynthesizer(config.DefaultTables())
	set := model.KeywordSet{
		Words: []model.KeywordCount{
			{Keyword: "shoes", Count: 10},
			{Keyword: "garden", Count: 2},
		},
		Phrases: []model.Phrase{
			{Phrase: "running shoes", Count: 3, SearchVolume: 700},
		},
	}

	rankings := synth.Synthesize(set, model.IndustryEcommerce, NewRand(5))

	if len(rankings) != 2+1+DefaultLongTailCount {
		t.Fatalf("expected %d rankings, got %d", 2+1+DefaultLongTailCount, len(rankings))
	}

	kinds := map[string]int{}
	for _, kr := range rankings {
		kinds[kr.Kind]++
		if kr.Position < MinPosition || kr.Position > MaxPosition {
			t.Errorf("expected position in [1,100] for %q, got %d", kr.Keyword, kr.Position)
		}
		switch kr.Kind {
		case model.RankingKindPhrase:
			if kr.Position > phrasePositionMax {
				t.Errorf("expected phrase position <= %d, got %d", phrasePositionMax, kr.Position)
			}
			if kr.SearchVolume != 700 {
				t.Errorf("expected the extracted volume to be kept, got %d", kr.SearchVolume)
			}
		case model.RankingKindLongTail:
			if kr.Position > longTailPositionMax {
				t.Errorf("expected long-tail position <= %d, got %d", longTailPositionMax, kr.Position)
			}
			if kr.SearchVolume < longTailVolumeMin || kr.SearchVolume > longTailVolumeMax {
				t.Errorf("expected low long-tail volume, got %d", kr.SearchVolume)
			}
		}
	}
	if kinds[model.RankingKindWord] != 2 || kinds[model.RankingKindPhrase] != 1 || kinds[model.RankingKindLongTail] != DefaultLongTailCount {
		t.Errorf("unexpected kind distribution: %v", kinds)
	}
}

func TestEstimatePositionDistribution(t *testing.T) {
	t.Parallel()

	synth := NewRankingSynthesizer(config.DefaultTables())
	mean := func(keyword string, rel float64) float64 {
		r := NewRand(8)
		sum := 0
		for range 1000 {
			sum += synth.EstimatePosition(keyword, rel, model.IndustryEcommerce, r)
		}
		return float64(sum) / 1000
	}

	t.Run("frequent keywords rank better", func(t *testing.T) {
		t.Parallel()

		if frequent, rare := mean("garden", 1), mean("garden", 0); frequent >= rare {
			t.Errorf("expected frequent mean < rare mean, got %.1f and %.1f", frequent, rare)
		}
	})

	t.Run("industry relevance ranks better", func(t *testing.T) {
		t.Parallel()

		if relevant, other := mean("shopping", 0.5), mean("garden", 0.5); relevant >= other {
			t.Errorf("expected relevant mean < other mean, got %.1f and %.1f", relevant, other)
		}
	})

	t.Run("out of range relevance is clamped", func(t *testing.T) {
		t.Parallel()

		r := NewRand(1)
		for _, rel := range []float64{-5, 7} {
			if pos := synth.EstimatePosition("garden", rel, model.IndustryGeneral, r); pos < MinPosition || pos > MaxPosition {
				t.Errorf("expected position in range for rel %v, got %d", rel, pos)
			}
		}
	})
}

func TestRankingSynthesizerLongTail(t *testing.T) {
	t.Parallel()

	synth := NewRankingSynthesizer(config.DefaultTables())
	got := synth.LongTail(model.IndustryTravel, NewRand(21))

	if len(got) != DefaultLongTailCount {
		t.Fatalf("expected %d keywords, got %d", DefaultLongTailCount, len(got))
	}
	seen := map[string]bool{}
	for _, kw := range got {
		if seen[kw] {
			t.Errorf("duplicate long-tail keyword %q", kw)
		}
		seen[kw] = true
	}
}

func TestRankingSynthesizerIsRelevant(t *testing.T) {
	t.Parallel()

	synth := NewRankingSynthesizer(config.DefaultTables())
	testCases := []struct {
		keyword  string
		expected bool
	}{
		{"shopping", true},
		{"shop", true},
		{"Discounts", true},
		{"garden", false},
		{"", false},
	}

	for _, tc := range testCases {
		t.Run(tc.keyword, func(t *testing.T) {
			t.Parallel()

			if got := synth.IsRelevant(tc.keyword, model.IndustryEcommerce); got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}
