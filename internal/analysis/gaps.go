package analysis

import (
	"strings"

	"github.com/nao1215/rivalscope/internal/config"
	"github.com/nao1215/rivalscope/internal/model"
)

// MaxContentGaps caps the gaps reported per run.
const MaxContentGaps = 5

// GapAnalyzer diffs a site's keywords against the industry topic catalog.
type GapAnalyzer struct {
	tables *config.Tables
}

// NewGapAnalyzer creates an analyzer over the given tables.
func NewGapAnalyzer(tables *config.Tables) *GapAnalyzer {
	return &GapAnalyzer{tables: tables}
}

// Analyze returns catalog topics not covered by any of keywords, in catalog
// order. A topic is covered when it and a keyword overlap as substrings in
// either direction.
func (a *GapAnalyzer) Analyze(keywords []string, industry model.Industry) []model.ContentGap {
	gaps := make([]model.ContentGap, 0, MaxContentGaps)
	for _, topic := range a.tables.Profile(industry).GapTopics {
		if len(gaps) == MaxContentGaps {
			break
		}
		if covered(strings.ToLower(topic.Topic), keywords) {
			continue
		}
		gaps = append(gaps, model.ContentGap{
			Topic:      topic.Topic,
			Difficulty: topic.Difficulty,
			Potential:  topic.Potential,
		})
	}
	return gaps
}

func covered(topic string, keywords []string) bool {
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		if strings.Contains(topic, kw) || strings.Contains(kw, topic) {
			return true
		}
	}
	return false
}

// BestGap returns the gap with the highest search potential. The first one
// wins ties.
func BestGap(gaps []model.ContentGap) (model.ContentGap, bool) {
	if len(gaps) == 0 {
		return model.ContentGap{}, false
	}
	best := gaps[0]
	for _, g := range gaps[1:] {
		if g.Potential > best.Potential {
			best = g
		}
	}
	return best, true
}
