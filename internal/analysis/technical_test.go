package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nao1215/rivalscope/internal/model"
)

type stubRobots struct {
	present bool
	err     error
}

func (s stubRobots) RobotsTxt(context.Context, string) (bool, error) {
	return s.present, s.err
}

func TestTechnicalAnalyzerAnalyze(t *testing.T) {
	t.Parallel()

	home := &model.PageRecord{
		FinalURL:          "https://shopfast.com/",
		Latency:           1200 * time.Millisecond,
		Canonical:         "https://shopfast.com/",
		HasSitemapLink:    true,
		Hreflangs:         []string{"en", "de"},
		HasStructuredData: false,
		HasViewport:       true,
		Images:            4,
		ImagesWithAlt:     3,
	}

	t.Run("reports every check", func(t *testing.T) {
		t.Parallel()

		tech := NewTechnicalAnalyzer(stubRobots{present: true}).Analyze(context.Background(), "shopfast.com", home)

		if got := tech.LoadTimeMs.Value(); got != 1200 {
			t.Errorf("expected load time 1200, got %d", got)
		}
		checks := map[string]model.Result[bool]{
			"https":     tech.HTTPS,
			"canonical": tech.Canonical,
			"sitemap":   tech.Sitemap,
			"robots":    tech.RobotsTxt,
			"hreflang":  tech.Hreflang,
			"mobile":    tech.MobileFriendly,
		}
		for name, res := range checks {
			if !res.IsOk() || !res.Value() {
				t.Errorf("expected %s check to pass, got ok=%v value=%v", name, res.IsOk(), res.Value())
			}
		}
		if !tech.StructuredData.IsOk() || tech.StructuredData.Value() {
			t.Error("expected structured data to be checked and false")
		}
		if got := tech.AltTextCoverage.Value(); got != 75 {
			t.Errorf("expected alt coverage 75, got %v", got)
		}
	})

	t.Run("robots failure skips only that check", func(t *testing.T) {
		t.Parallel()

		tech := NewTechnicalAnalyzer(stubRobots{err: errors.New("connection refused")}).Analyze(context.Background(), "shopfast.com", home)

		if tech.RobotsTxt.IsOk() {
			t.Error("expected robots.txt check to be skipped")
		}
		if tech.RobotsTxt.Reason() != "connection refused" {
			t.Errorf("expected reason to carry the error, got %q", tech.RobotsTxt.Reason())
		}
		if !tech.HTTPS.IsOk() {
			t.Error("expected HTTPS check to be unaffected")
		}
	})

	t.Run("nil robots checker skips the check", func(t *testing.T) {
		t.Parallel()

		tech := NewTechnicalAnalyzer(nil).Analyze(context.Background(), "shopfast.com", home)
		if tech.RobotsTxt.IsOk() {
			t.Error("expected robots.txt check to be skipped")
		}
	})

	t.Run("plain http is reported as checked and false", func(t *testing.T) {
		t.Parallel()

		plain := *home
		plain.FinalURL = "http://shopfast.com/"
		tech := NewTechnicalAnalyzer(nil).Analyze(context.Background(), "shopfast.com", &plain)
		if !tech.HTTPS.IsOk() || tech.HTTPS.Value() {
			t.Error("expected HTTPS to be checked and false")
		}
	})

	t.Run("missing homepage yields the fallback record", func(t *testing.T) {
		t.Parallel()

		tech := NewTechnicalAnalyzer(stubRobots{present: true}).Analyze(context.Background(), "shopfast.com", nil)

		if tech.LoadTimeMs.IsOk() || tech.HTTPS.IsOk() || tech.RobotsTxt.IsOk() || tech.AltTextCoverage.IsOk() {
			t.Error("expected every check to be skipped")
		}
		if tech.HTTPS.Value() || tech.LoadTimeMs.Value() != 0 {
			t.Error("expected skipped checks to carry zero values")
		}
	})
}

func TestAltCoverage(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		images   int
		withAlt  int
		expected float64
	}{
		{"no images is fully covered", 0, 0, 100},
		{"half covered", 4, 2, 50},
		{"none covered", 3, 0, 0},
		{"more alts than images is capped", 2, 5, 100},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := AltCoverage(tc.images, tc.withAlt); got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}
