package analysis

import (
	"math"
	"strings"

	"github.com/nao1215/rivalscope/internal/config"
	"github.com/nao1215/rivalscope/internal/model"
)

// DefaultLongTailCount is the number of synthetic long-tail keywords per run.
const DefaultLongTailCount = 5

// Position bounds for the synthetic search results.
const (
	MinPosition = 1
	MaxPosition = 100
)

const (
	// relevanceBoost multiplies the position of industry-relevant words.
	relevanceBoost = 0.7

	bestWordPosition  = 5.0
	wordPositionRange = 45.0

	wordVolumeMin, wordVolumeMax         = 100, 5000
	wordDifficultyMin, wordDifficultyMax = 20, 90

	phrasePositionMax                        = 20
	phraseDifficultyMin, phraseDifficultyMax = 10, 60

	longTailVolumeMin, longTailVolumeMax         = 20, 200
	longTailPositionMax                          = 12
	longTailDifficultyMin, longTailDifficultyMax = 5, 35

	// longTailAttempts bounds the draws spent looking for unique long-tail strings.
	longTailAttempts = 50
)

// RankingSynthesizer assigns synthetic search positions, volumes and
// difficulties to extracted and generated keywords.
type RankingSynthesizer struct {
	tables        *config.Tables
	longTailCount int
}

// NewRankingSynthesizer creates a synthesizer over the given tables.
func NewRankingSynthesizer(tables *config.Tables) *RankingSynthesizer {
	return &RankingSynthesizer{tables: tables, longTailCount: DefaultLongTailCount}
}

// Synthesize ranks every word and phrase of set and appends the generated
// long-tail keywords. The output is generative: only the distribution of
// positions depends on frequency and relevance.
func (s *RankingSynthesizer) Synthesize(set model.KeywordSet, industry model.Industry, r Rand) []model.KeywordRanking {
	rankings := make([]model.KeywordRanking, 0, len(set.Words)+len(set.Phrases)+s.longTailCount)

	maxCount := 0
	for _, w := range set.Words {
		maxCount = max(maxCount, w.Count)
	}
	for _, w := range set.Words {
		rel := 0.0
		if maxCount > 0 {
			rel = float64(w.Count) / float64(maxCount)
		}
		rankings = append(rankings, model.KeywordRanking{
			Keyword:      w.Keyword,
			Kind:         model.RankingKindWord,
			Position:     s.EstimatePosition(w.Keyword, rel, industry, r),
			SearchVolume: intBetween(r, wordVolumeMin, wordVolumeMax),
			Difficulty:   intBetween(r, wordDifficultyMin, wordDifficultyMax),
		})
	}

	for _, p := range set.Phrases {
		rankings = append(rankings, model.KeywordRanking{
			Keyword:      p.Phrase,
			Kind:         model.RankingKindPhrase,
			Position:     intBetween(r, MinPosition, phrasePositionMax),
			SearchVolume: p.SearchVolume,
			Difficulty:   intBetween(r, phraseDifficultyMin, phraseDifficultyMax),
		})
	}

	for _, kw := range s.LongTail(industry, r) {
		rankings = append(rankings, model.KeywordRanking{
			Keyword:      kw,
			Kind:         model.RankingKindLongTail,
			Position:     intBetween(r, MinPosition, longTailPositionMax),
			SearchVolume: intBetween(r, longTailVolumeMin, longTailVolumeMax),
			Difficulty:   intBetween(r, longTailDifficultyMin, longTailDifficultyMax),
		})
	}
	return rankings
}

// EstimatePosition draws a position for a keyword whose relative frequency
// on the site is rel (0..1). Higher rel and industry relevance both move the
// distribution toward position 1.
func (s *RankingSynthesizer) EstimatePosition(keyword string, rel float64, industry model.Industry, r Rand) int {
	if math.IsNaN(rel) {
		rel = 0
	}
	rel = clampFloat(rel, 0, 1)

	pos := (bestWordPosition + (1-rel)*wordPositionRange) * uniform(r, 0.6, 1.4)
	if s.IsRelevant(keyword, industry) {
		pos *= relevanceBoost
	}
	return clampInt(int(math.Round(pos)), MinPosition, MaxPosition)
}

// IsRelevant reports whether keyword overlaps one of the industry's
// relevance keywords (substring match either direction).
func (s *RankingSynthesizer) IsRelevant(keyword string, industry model.Industry) bool {
	keyword = strings.ToLower(keyword)
	if keyword == "" {
		return false
	}
	for _, rk := range s.tables.Profile(industry).RelevanceKeywords {
		if rk == "" {
			continue
		}
		if strings.Contains(keyword, rk) || strings.Contains(rk, keyword) {
			return true
		}
	}
	return false
}

// LongTail composes unique "prefix noun suffix" keywords from the industry
// nouns. It returns fewer than the configured count only when the tables
// cannot produce enough distinct combinations.
func (s *RankingSynthesizer) LongTail(industry model.Industry, r Rand) []string {
	nouns := s.tables.Profile(industry).LongTailNouns
	prefixes, suffixes := s.tables.LongTailPrefixes, s.tables.LongTailSuffixes
	if len(nouns) == 0 || len(prefixes) == 0 || len(suffixes) == 0 {
		return nil
	}

	seen := make(map[string]bool, s.longTailCount)
	out := make([]string, 0, s.longTailCount)
	for range longTailAttempts {
		if len(out) == s.longTailCount {
			break
		}
		kw := prefixes[r.IntN(len(prefixes))] + " " +
			nouns[r.IntN(len(nouns))] + " " +
			suffixes[r.IntN(len(suffixes))]
		if seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
	}
	return out
}
