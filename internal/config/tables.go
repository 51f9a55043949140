package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/nao1215/rivalscope/internal/model"
)

// IndustryRule maps domain-name substrings to an industry.
// Rules are evaluated in order; the first rule with a matching keyword wins.
type IndustryRule struct {
	Industry model.Industry
	Keywords []string
}

// TLDHint maps a top-level domain to an industry. Hints are only consulted
// when no keyword rule matched.
type TLDHint struct {
	TLD      string
	Industry model.Industry
}

// GapTopic is one entry of an industry's content-gap catalog.
type GapTopic struct {
	Topic      string `yaml:"topic"`
	Difficulty int    `yaml:"difficulty"`
	Potential  int    `yaml:"potential"`
}

// IndustryProfile holds the heuristic constants for one industry.
type IndustryProfile struct {
	// BacklinkBaseline is the starting backlink count before domain factors.
	BacklinkBaseline float64

	// BaselineMultiplier scales the backlink-derived baseline traffic.
	BaselineMultiplier float64

	// TrafficMultiplier scales total traffic (baseline + keyword traffic).
	TrafficMultiplier float64

	// PeerBacklinks is the average backlink count quoted for industry peers.
	PeerBacklinks int64

	// Seasonality holds one traffic multiplier per month, January first.
	Seasonality [12]float64

	// GapTopics is the 5-entry content-gap catalog, in catalog order.
	GapTopics []GapTopic

	// LongTailNouns are composed into synthetic long-tail keywords.
	LongTailNouns []string

	// RelevanceKeywords boost the ranking of matching extracted tokens.
	RelevanceKeywords []string
}

// Tables is the static heuristic data used by the analysis components.
// It is built once with DefaultTables (optionally merged with file
// overrides) and must be treated as read-only afterwards.
type Tables struct {
	IndustryRules []IndustryRule
	TLDHints      []TLDHint
	Profiles      map[model.Industry]IndustryProfile

	// AuthorityKeywords are domain-name terms that raise estimated backlinks.
	AuthorityKeywords []string

	StopWords map[string]struct{}

	LongTailPrefixes []string
	LongTailSuffixes []string
}

// Profile returns the profile for an industry, falling back to general.
func (t *Tables) Profile(industry model.Industry) IndustryProfile {
	if p, ok := t.Profiles[industry]; ok {
		return p
	}
	return t.Profiles[model.IndustryGeneral]
}

// IsStopWord reports whether word is in the stop-word set.
func (t *Tables) IsStopWord(word string) bool {
	_, ok := t.StopWords[word]
	return ok
}

var flatSeason = [12]float64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}

// DefaultTables returns the built-in heuristic tables.
// Every call returns a fresh copy.
func DefaultTables() *Tables {
	return &Tables{
		IndustryRules: []IndustryRule{
			{model.IndustryEcommerce, []string{"shop", "store", "buy", "mart", "cart", "deal", "sale", "outlet", "boutique", "market"}},
			{model.IndustryTechnology, []string{"tech", "soft", "app", "cloud", "data", "code", "dev", "digital", "cyber", "labs", "systems"}},
			{model.IndustryHealth, []string{"health", "medic", "care", "clinic", "pharma", "fitness", "well", "doctor", "dental"}},
			{model.IndustryFinance, []string{"bank", "financ", "pay", "invest", "money", "capital", "loan", "credit", "insur", "fund", "wealth", "crypto"}},
			{model.IndustryTravel, []string{"travel", "trip", "tour", "hotel", "flight", "vacation", "holiday", "booking", "journey"}},
			{model.IndustryFood, []string{"food", "recipe", "cook", "kitchen", "restaurant", "pizza", "cafe", "bakery", "chef"}},
			{model.IndustryMedia, []string{"news", "media", "blog", "press", "magazine", "radio", "times", "journal"}},
		},
		TLDHints: []TLDHint{
			{"shop", model.IndustryEcommerce},
			{"store", model.IndustryEcommerce},
			{"io", model.IndustryTechnology},
			{"ai", model.IndustryTechnology},
			{"dev", model.IndustryTechnology},
			{"tech", model.IndustryTechnology},
			{"app", model.IndustryTechnology},
			{"health", model.IndustryHealth},
			{"bank", model.IndustryFinance},
			{"finance", model.IndustryFinance},
			{"travel", model.IndustryTravel},
			{"restaurant", model.IndustryFood},
			{"news", model.IndustryMedia},
			{"tv", model.IndustryMedia},
			{"fm", model.IndustryMedia},
		},
		Profiles: map[model.Industry]IndustryProfile{
			model.IndustryEcommerce: {
				BacklinkBaseline:   1200,
				BaselineMultiplier: 1.4,
				TrafficMultiplier:  1.3,
				PeerBacklinks:      15000,
				Seasonality:        [12]float64{0.85, 0.8, 0.9, 0.95, 1.0, 0.95, 0.9, 0.95, 1.0, 1.1, 1.35, 1.5},
				GapTopics: []GapTopic{
					{"product comparison guides", 45, 85},
					{"buying guides", 40, 80},
					{"customer reviews", 35, 75},
					{"shipping and returns", 25, 60},
					{"seasonal gift ideas", 50, 90},
				},
				LongTailNouns:     []string{"deals", "discounts", "online store", "free shipping", "gift ideas"},
				RelevanceKeywords: []string{"shop", "store", "product", "price", "sale", "order", "shipping", "discount", "cart", "deal"},
			},
			model.IndustryTechnology: {
				BacklinkBaseline:   1500,
				BaselineMultiplier: 1.2,
				TrafficMultiplier:  1.15,
				PeerBacklinks:      25000,
				Seasonality:        [12]float64{1.05, 1.05, 1.1, 1.0, 1.0, 0.9, 0.85, 0.9, 1.05, 1.1, 1.05, 0.95},
				GapTopics: []GapTopic{
					{"api documentation", 55, 80},
					{"integration tutorials", 45, 85},
					{"case studies", 40, 70},
					{"security best practices", 60, 75},
					{"pricing comparison", 35, 90},
				},
				LongTailNouns:     []string{"software", "tools", "platform", "integrations", "automation"},
				RelevanceKeywords: []string{"software", "cloud", "data", "platform", "developer", "code", "security", "integration", "automation", "api"},
			},
			model.IndustryHealth: {
				BacklinkBaseline:   900,
				BaselineMultiplier: 1.1,
				TrafficMultiplier:  1.2,
				PeerBacklinks:      12000,
				Seasonality:        [12]float64{1.35, 1.2, 1.05, 1.0, 0.95, 0.9, 0.85, 0.9, 1.0, 1.0, 0.95, 0.85},
				GapTopics: []GapTopic{
					{"symptom checker", 65, 85},
					{"nutrition tips", 40, 80},
					{"workout plans", 45, 75},
					{"mental health resources", 50, 85},
					{"insurance coverage", 55, 70},
				},
				LongTailNouns:     []string{"treatment", "clinic", "wellness program", "specialists", "therapy"},
				RelevanceKeywords: []string{"health", "care", "doctor", "patient", "clinic", "wellness", "treatment", "medical", "fitness", "therapy"},
			},
			model.IndustryFinance: {
				BacklinkBaseline:   1100,
				BaselineMultiplier: 1.15,
				TrafficMultiplier:  1.1,
				PeerBacklinks:      18000,
				Seasonality:        [12]float64{1.2, 1.15, 1.25, 1.3, 1.0, 0.9, 0.85, 0.85, 0.95, 1.0, 0.95, 0.9},
				GapTopics: []GapTopic{
					{"retirement planning", 60, 85},
					{"tax guides", 55, 90},
					{"loan calculators", 45, 80},
					{"investment basics", 50, 75},
					{"credit score tips", 40, 85},
				},
				LongTailNouns:     []string{"loans", "savings accounts", "investment plans", "credit cards", "insurance"},
				RelevanceKeywords: []string{"bank", "finance", "loan", "credit", "invest", "money", "payment", "insurance", "savings", "mortgage"},
			},
			model.IndustryTravel: {
				BacklinkBaseline:   800,
				BaselineMultiplier: 1.25,
				TrafficMultiplier:  1.2,
				PeerBacklinks:      10000,
				Seasonality:        [12]float64{1.1, 1.0, 1.05, 1.1, 1.2, 1.35, 1.4, 1.3, 1.0, 0.9, 0.8, 0.95},
				GapTopics: []GapTopic{
					{"destination guides", 45, 90},
					{"travel itineraries", 40, 85},
					{"budget travel tips", 35, 80},
					{"visa requirements", 50, 70},
					{"packing checklists", 25, 65},
				},
				LongTailNouns:     []string{"vacation packages", "hotels", "flights", "tours", "travel deals"},
				RelevanceKeywords: []string{"travel", "hotel", "flight", "tour", "trip", "vacation", "booking", "destination", "resort", "holiday"},
			},
			model.IndustryFood: {
				BacklinkBaseline:   600,
				BaselineMultiplier: 1.3,
				TrafficMultiplier:  1.1,
				PeerBacklinks:      8000,
				Seasonality:        [12]float64{0.95, 0.9, 0.95, 1.0, 1.0, 1.05, 1.05, 1.0, 0.95, 1.05, 1.25, 1.3},
				GapTopics: []GapTopic{
					{"easy recipes", 35, 90},
					{"meal prep ideas", 40, 80},
					{"dietary guides", 45, 75},
					{"cooking techniques", 40, 70},
					{"seasonal menus", 30, 65},
				},
				LongTailNouns:     []string{"recipes", "meal ideas", "restaurants", "delivery", "menus"},
				RelevanceKeywords: []string{"food", "recipe", "cook", "meal", "restaurant", "menu", "kitchen", "dish", "ingredients", "delivery"},
			},
			model.IndustryMedia: {
				BacklinkBaseline:   2000,
				BaselineMultiplier: 1.5,
				TrafficMultiplier:  1.4,
				PeerBacklinks:      40000,
				Seasonality:        [12]float64{1.05, 1.0, 1.0, 1.0, 0.95, 0.95, 0.9, 0.9, 1.0, 1.05, 1.1, 1.05},
				GapTopics: []GapTopic{
					{"breaking news analysis", 60, 85},
					{"opinion columns", 40, 70},
					{"video explainers", 55, 80},
					{"newsletter archives", 30, 60},
					{"expert interviews", 45, 75},
				},
				LongTailNouns:     []string{"news", "stories", "analysis", "updates", "headlines"},
				RelevanceKeywords: []string{"news", "story", "report", "media", "article", "breaking", "update", "analysis", "press", "journal"},
			},
			model.IndustryGeneral: {
				BacklinkBaseline:   500,
				BaselineMultiplier: 1.0,
				TrafficMultiplier:  1.0,
				PeerBacklinks:      5000,
				Seasonality:        flatSeason,
				GapTopics: []GapTopic{
					{"frequently asked questions", 25, 70},
					{"how-to guides", 40, 80},
					{"industry trends", 45, 75},
					{"customer success stories", 35, 65},
					{"resource library", 30, 60},
				},
				LongTailNouns:     []string{"services", "solutions", "guides", "resources", "experts"},
				RelevanceKeywords: []string{"service", "solution", "guide", "help", "expert", "professional", "quality", "support"},
			},
		},
		AuthorityKeywords: []string{"best", "top", "pro", "hub", "online", "global", "world", "official", "central", "direct"},
		StopWords: toSet([]string{
			"about", "above", "after", "again", "against", "also", "because", "been", "before", "being",
			"below", "between", "both", "cannot", "could", "does", "doing", "down", "during", "each",
			"from", "further", "have", "having", "here", "hers", "herself", "himself", "into", "itself",
			"just", "more", "most", "myself", "once", "only", "other", "ours", "ourselves", "over",
			"same", "should", "some", "such", "than", "that", "their", "theirs", "them", "themselves",
			"then", "there", "these", "they", "this", "those", "through", "under", "until", "very",
			"were", "what", "when", "where", "which", "while", "will", "with", "would", "your",
			"yours", "yourself", "yourselves", "make", "many", "much", "like", "well", "even", "back",
			"every", "still", "upon", "within", "without", "across", "among", "already", "always", "another",
			"anything", "around", "away", "cookie", "cookies", "copyright", "rights", "reserved", "privacy", "policy",
			"terms", "click", "here", "read", "home", "page", "menu", "login", "sign",
		}),
		LongTailPrefixes: []string{"best", "affordable", "top rated", "how to choose", "cheap", "local", "professional"},
		LongTailSuffixes: []string{"near me", "for beginners", "in 2026", "reviews", "online", "comparison", "guide"},
	}
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// TablesOverride is the YAML form of table overrides in the config file.
// Industry keys must name a supported industry.
type TablesOverride struct {
	// StopWords are added to the built-in stop words.
	StopWords []string `yaml:"stopWords,omitempty"`

	// IndustryKeywords replace the keyword list of an industry rule.
	IndustryKeywords map[string][]string `yaml:"industryKeywords,omitempty"`

	// GapTopics replace an industry's content-gap catalog.
	GapTopics map[string][]GapTopic `yaml:"gapTopics,omitempty"`

	// PeerBacklinks replace an industry's peer backlink average.
	PeerBacklinks map[string]int64 `yaml:"peerBacklinks,omitempty"`

	LongTailPrefixes []string `yaml:"longTailPrefixes,omitempty"`
	LongTailSuffixes []string `yaml:"longTailSuffixes,omitempty"`
}

// Merge returns a copy of t with the overrides applied. t is not modified.
func (t *Tables) Merge(o *TablesOverride) (*Tables, error) {
	out := t.clone()
	if o == nil {
		return out, nil
	}

	for _, w := range normalizeWords(o.StopWords) {
		out.StopWords[w] = struct{}{}
	}

	for name, keywords := range o.IndustryKeywords {
		industry, err := parseIndustry(name)
		if err != nil {
			return nil, err
		}
		keywords = normalizeWords(keywords)
		idx := slices.IndexFunc(out.IndustryRules, func(r IndustryRule) bool { return r.Industry == industry })
		if idx < 0 {
			out.IndustryRules = append(out.IndustryRules, IndustryRule{Industry: industry, Keywords: keywords})
			continue
		}
		out.IndustryRules[idx].Keywords = keywords
	}

	for name, topics := range o.GapTopics {
		industry, err := parseIndustry(name)
		if err != nil {
			return nil, err
		}
		p := out.Profiles[industry]
		p.GapTopics = slices.Clone(topics)
		out.Profiles[industry] = p
	}

	for name, peers := range o.PeerBacklinks {
		industry, err := parseIndustry(name)
		if err != nil {
			return nil, err
		}
		p := out.Profiles[industry]
		p.PeerBacklinks = peers
		out.Profiles[industry] = p
	}

	if len(o.LongTailPrefixes) > 0 {
		out.LongTailPrefixes = slices.Clone(o.LongTailPrefixes)
	}
	if len(o.LongTailSuffixes) > 0 {
		out.LongTailSuffixes = slices.Clone(o.LongTailSuffixes)
	}
	return out, nil
}

// normalizeWords lowercases and trims words, dropping empty ones.
// Domain matching is done on lowercase names.
func normalizeWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// TablesFromFile returns the default tables merged with the overrides of f.
func TablesFromFile(f *File) (*Tables, error) {
	if f == nil {
		return DefaultTables(), nil
	}
	return DefaultTables().Merge(f.Tables)
}

func parseIndustry(name string) (model.Industry, error) {
	industry := model.Industry(strings.ToLower(name))
	if !industry.Valid() {
		return "", fmt.Errorf("unknown industry %q in table overrides", name)
	}
	return industry, nil
}

func (t *Tables) clone() *Tables {
	out := &Tables{
		IndustryRules:     make([]IndustryRule, len(t.IndustryRules)),
		TLDHints:          slices.Clone(t.TLDHints),
		Profiles:          make(map[model.Industry]IndustryProfile, len(t.Profiles)),
		AuthorityKeywords: slices.Clone(t.AuthorityKeywords),
		StopWords:         maps.Clone(t.StopWords),
		LongTailPrefixes:  slices.Clone(t.LongTailPrefixes),
		LongTailSuffixes:  slices.Clone(t.LongTailSuffixes),
	}
	for i, r := range t.IndustryRules {
		out.IndustryRules[i] = IndustryRule{Industry: r.Industry, Keywords: slices.Clone(r.Keywords)}
	}
	for k, p := range t.Profiles {
		p.GapTopics = slices.Clone(p.GapTopics)
		p.LongTailNouns = slices.Clone(p.LongTailNouns)
		p.RelevanceKeywords = slices.Clone(p.RelevanceKeywords)
		out.Profiles[k] = p
	}
	if out.StopWords == nil {
		out.StopWords = make(map[string]struct{})
	}
	return out
}
