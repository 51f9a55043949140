package analysis

import (
	"strings"

	"github.com/nao1215/rivalscope/internal/config"
	"github.com/nao1215/rivalscope/internal/model"
	"github.com/nao1215/rivalscope/internal/site"
)

// Classifier maps a canonical domain to an industry.
type Classifier struct {
	tables *config.Tables
}

// NewClassifier creates a classifier over the given tables.
func NewClassifier(tables *config.Tables) *Classifier {
	return &Classifier{tables: tables}
}

// Classify returns the industry of domain. Keyword rules are tried in order
// against the domain name (first match wins), then TLD hints; anything else
// is general. It is a pure, total function.
func (c *Classifier) Classify(domain string) model.Industry {
	name := strings.ToLower(site.Name(domain))
	for _, rule := range c.tables.IndustryRules {
		for _, kw := range rule.Keywords {
			if kw != "" && strings.Contains(name, kw) {
				return rule.Industry
			}
		}
	}

	tld := strings.ToLower(site.TLD(domain))
	for _, hint := range c.tables.TLDHints {
		if hint.TLD == tld {
			return hint.Industry
		}
	}
	return model.IndustryGeneral
}
