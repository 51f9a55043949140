package analysis

import (
	"testing"

	"github.com/nao1215/rivalscope/internal/config"
	"github.com/nao1215/rivalscope/internal/model"
)

func TestClassifierClassify(t *testing.T) {
	t.Parallel()

	classifier := NewClassifier(config.DefaultTables())

	testCases := []struct {
		domain   string
		expected model.Industry
	}{
		{"shopfast.com", model.IndustryEcommerce},
		{"cloudnine.com", model.IndustryTechnology},
		{"citydental.org", model.IndustryHealth},
		{"easyloan.com", model.IndustryFinance},
		{"tripplanner.com", model.IndustryTravel},
		{"pizzapalace.com", model.IndustryFood},
		{"dailynews.com", model.IndustryMedia},
		{"bankshop.com", model.IndustryEcommerce},
		{"acme.io", model.IndustryTechnology},
		{"acme.news", model.IndustryMedia},
		{"example.com", model.IndustryGeneral},
		{"blog.example.com", model.IndustryMedia},
	}

	for _, tc := range testCases {
		t.Run(tc.domain, func(t *testing.T) {
			t.Parallel()

			if got := classifier.Classify(tc.domain); got != tc.expected {
				t.Errorf("expected %s, got %s", tc.expected, got)
			}
		})
	}
}

func TestClassifierIsTotal(t *testing.T) {
	t.Parallel()

	classifier := NewClassifier(config.DefaultTables())
	for _, domain := range []string{"", "localhost", "127.0.0.1:8080", "a.b.c.d"} {
		if got := classifier.Classify(domain); !got.Valid() {
			t.Errorf("expected a valid industry for %q, got %q", domain, got)
		}
	}
}

func TestClassifierWithMixedCaseOverride(t *testing.T) {
	t.Parallel()

	tables, err := config.DefaultTables().Merge(&config.TablesOverride{
		IndustryKeywords: map[string][]string{"travel": {"Voyage"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	classifier := NewClassifier(tables)
	if got := classifier.Classify("voyageplanner.org"); got != model.IndustryTravel {
		t.Errorf("expected %s, got %s", model.IndustryTravel, got)
	}
}
