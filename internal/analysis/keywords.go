package analysis

import (
	"cmp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nao1215/rivalscope/internal/config"
	"github.com/nao1215/rivalscope/internal/model"
)

// Extraction limits.
const (
	DefaultTopWords   = 25
	DefaultTopPhrases = 15
	DefaultTopFocal   = 10

	// minTokenLength is the shortest token kept; shorter ones are noise.
	minTokenLength = 4

	phraseVolumeMin = 50
	phraseVolumeMax = 2000
)

// Focal weights by placement.
const (
	titleWeight   = 3.0
	h1Weight      = 2.0
	headingWeight = 1.5
	bodyWeight    = 0.1
)

// KeywordExtractor builds word, phrase and focal keyword tables from pages.
type KeywordExtractor struct {
	tables     *config.Tables
	topWords   int
	topPhrases int
	topFocal   int
}

// NewKeywordExtractor creates an extractor with the default limits.
func NewKeywordExtractor(tables *config.Tables) *KeywordExtractor {
	return &KeywordExtractor{
		tables:     tables,
		topWords:   DefaultTopWords,
		topPhrases: DefaultTopPhrases,
		topFocal:   DefaultTopFocal,
	}
}

// Tokenize lowercases text, replaces punctuation with spaces, splits on
// whitespace and drops stop words and tokens shorter than four characters.
func (e *KeywordExtractor) Tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text)

	fields := strings.Fields(cleaned)
	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) < minTokenLength || e.tables.IsStopWord(f) {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// Extract builds the keyword set for all pages. Phrase search volumes are
// drawn from r.
func (e *KeywordExtractor) Extract(pages []model.PageRecord, r Rand) model.KeywordSet {
	wordCounts := make(map[string]int)
	phraseCounts := make(map[string]int)
	focal := make(map[string]float64)
	placed := make(map[string]bool)

	for i := range pages {
		for _, segment := range segments(&pages[i]) {
			tokens := e.Tokenize(segment.text)
			for _, tok := range tokens {
				wordCounts[tok]++
				focal[tok] += segment.weight
				if segment.weight > bodyWeight {
					placed[tok] = true
				}
			}
			countPhrases(tokens, phraseCounts)
		}
	}

	set := model.KeywordSet{
		Words:   topCounts(wordCounts, e.topWords),
		Phrases: make([]model.Phrase, 0, e.topPhrases),
		Focal:   topFocal(focal, placed, e.topFocal),
	}
	for _, pc := range topCounts(phraseCounts, e.topPhrases) {
		set.Phrases = append(set.Phrases, model.Phrase{
			Phrase:       pc.Keyword,
			Count:        pc.Count,
			SearchVolume: intBetween(r, phraseVolumeMin, phraseVolumeMax),
		})
	}
	return set
}

// TopTerms returns the words and phrases of a set, most frequent first.
func TopTerms(set model.KeywordSet) []string {
	terms := make([]string, 0, len(set.Words)+len(set.Phrases))
	for _, w := range set.Words {
		terms = append(terms, w.Keyword)
	}
	for _, p := range set.Phrases {
		terms = append(terms, p.Phrase)
	}
	return terms
}

type segment struct {
	text   string
	weight float64
}

// segments splits a page into independently tokenized parts so phrases never
// span a title and a heading.
func segments(p *model.PageRecord) []segment {
	out := []segment{
		{p.Title, titleWeight},
		{p.MetaDescription, bodyWeight},
		{p.H1, h1Weight},
	}
	for _, h := range p.Headings {
		out = append(out, segment{h, headingWeight})
	}
	return append(out, segment{p.ContentSample, bodyWeight})
}

// countPhrases counts 2- and 3-grams over the filtered token stream.
func countPhrases(tokens []string, counts map[string]int) {
	for n := 2; n <= 3; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			counts[strings.Join(tokens[i:i+n], " ")]++
		}
	}
}

// topCounts sorts by count (desc) then alphabetically and keeps the first n.
func topCounts(counts map[string]int, n int) []model.KeywordCount {
	out := make([]model.KeywordCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, model.KeywordCount{Keyword: k, Count: c})
	}
	slices.SortFunc(out, func(a, b model.KeywordCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Keyword, b.Keyword)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// topFocal keeps tokens that appear in a title or heading at least once.
func topFocal(scores map[string]float64, placed map[string]bool, n int) []model.FocalKeyword {
	out := make([]model.FocalKeyword, 0, len(placed))
	for k, s := range scores {
		if !placed[k] {
			continue
		}
		out = append(out, model.FocalKeyword{Keyword: k, Score: s})
	}
	slices.SortFunc(out, func(a, b model.FocalKeyword) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return strings.Compare(a.Keyword, b.Keyword)
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
