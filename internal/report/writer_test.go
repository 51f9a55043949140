package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/rivalscope/internal/model"
)

var reportTime = time.Date(2026, time.June, 1, 10, 30, 0, 0, time.UTC)

func createTestReport() *model.AnalysisReport {
	return &model.AnalysisReport{
		CompetitorID:    "c-1",
		Domain:          "shoeshop.com",
		Industry:        model.IndustryEcommerce,
		GeneratedAt:     reportTime,
		Backlinks:       1234,
		DomainAuthority: 42,
		TrafficEstimate: 56789,
		Pages: []model.PageSummary{
			{URL: "https://shoeshop.com/", Title: "Shoe Shop", WordCount: 420},
		},
		FailedPages: []model.PageFailure{
			{URL: "https://shoeshop.com/blog", StatusCode: 404, Reason: "status 404"},
		},
		TechnicalSEO: model.TechnicalSEO{
			LoadTimeMs:      model.Ok[int64](850),
			HTTPS:           model.Ok(true),
			Canonical:       model.Ok(false),
			Sitemap:         model.Ok(true),
			RobotsTxt:       model.Skipped[bool]("robots.txt unreachable"),
			Hreflang:        model.Ok(false),
			StructuredData:  model.Ok(true),
			MobileFriendly:  model.Ok(true),
			AltTextCoverage: model.Ok(75.0),
		},
		TopKeywords: []model.KeywordCount{{Keyword: "shoes", Count: 12}, {Keyword: "running", Count: 5}},
		Rankings: []model.KeywordRanking{
			{Keyword: "shoes", Kind: model.RankingKindWord, Position: 4, SearchVolume: 2400, Difficulty: 55},
		},
		ContentGaps: []model.ContentGap{{Topic: "size guides", Difficulty: 30, Potential: 70}},
		OnPageScore: model.OnPageScore{
			Score:  64,
			Rating: model.RatingAverage,
			Issues: []model.Issue{
				model.NewIssue(model.IssueMissingMetaDescription, 1),
				model.NewIssue(model.IssueMissingCanonical, 1),
			},
		},
		TopSuggestions: []string{"Add a meta description.", "Create content about \"size guides\"."},
	}
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header and metrics", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		for _, want := range []string{
			"COMPETITOR SEO REPORT",
			"shoeshop.com",
			"Industry:         Ecommerce",
			"Domain Authority: 42",
			"SCORE: 64/100 (Average)",
			"Missing Meta Description",
			"skipped (robots.txt unreachable)",
			"Size Guides",
			"1. Add a meta description.",
			"https://shoeshop.com/blog: status 404",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("verbose adds rankings and recommendations", func(t *testing.T) {
		t.Parallel()
		var quiet, verbose bytes.Buffer
		report := createTestReport()
		if _, err := NewSimpleWriter(&quiet).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := NewSimpleWriter(&verbose, WithVerbose(true)).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(quiet.String(), "volume 2400") {
			t.Error("expected rankings to be hidden without verbose")
		}
		if !strings.Contains(verbose.String(), "volume 2400") {
			t.Error("expected rankings in verbose output")
		}
	})

	t.Run("empty report still renders", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).Write(&model.AnalysisReport{Domain: "empty.com"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("expected %d bytes reported, got %d", buf.Len(), n)
		}
		if !strings.Contains(buf.String(), "No recommendations") {
			t.Error("expected empty recommendations notice")
		}
	})
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes a decodable report", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var decoded model.AnalysisReport
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Domain != "shoeshop.com" || decoded.DomainAuthority != 42 {
			t.Errorf("unexpected decoded report: %+v", decoded)
		}
		if decoded.TechnicalSEO.RobotsTxt.IsOk() {
			t.Error("expected skipped robots.txt to survive encoding")
		}
		if len(decoded.OnPageScore.Issues) != 2 {
			t.Errorf("expected 2 issues, got %d", len(decoded.OnPageScore.Issues))
		}
	})

	t.Run("pretty print indents", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"domain\"") {
			t.Error("expected indented output")
		}
	})

	t.Run("version wraps the report", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithVersion("1.2.3")).Write(createTestReport()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var wrapped JSONReport
		if err := json.Unmarshal(buf.Bytes(), &wrapped); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if wrapped.Version != "1.2.3" || wrapped.Report == nil || wrapped.Report.Domain != "shoeshop.com" {
			t.Errorf("unexpected envelope: %+v", wrapped)
		}
	})
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(createTestReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	output := buf.String()
	for _, want := range []string{
		"# Competitor SEO Report: shoeshop.com",
		"Domain Authority",
		"```mermaid",
		"pie",
		"Issues by Impact",
		"## Content Gaps",
		"Size Guides",
		"1. Add a meta description.",
		"> [!IMPORTANT]",
		"https://shoeshop.com/blog",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected markdown to contain %q", want)
		}
	}

	t.Run("no issues means no chart", func(t *testing.T) {
		t.Parallel()
		report := createTestReport()
		report.OnPageScore = model.OnPageScore{Score: 100, Rating: model.RatingGood}
		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(report); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "```mermaid") {
			t.Error("expected no chart without issues")
		}
		if !strings.Contains(buf.String(), "> [!TIP]") {
			t.Error("expected tip for a good rating")
		}
	})
}

type failingWriter struct{}

func (failingWriter) Write(*model.AnalysisReport) (int, error) {
	return 0, errors.New("disk full")
}

func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()
		var a, b bytes.Buffer
		n, err := NewMultiWriter(NewSimpleWriter(&a), NewJSONWriter(&b)).Write(createTestReport())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Len() == 0 || b.Len() == 0 {
			t.Error("expected both writers to receive output")
		}
		if n != a.Len()+b.Len() {
			t.Errorf("expected %d bytes, got %d", a.Len()+b.Len(), n)
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()
		var b bytes.Buffer
		_, err := NewMultiWriter(failingWriter{}, NewJSONWriter(&b)).Write(createTestReport())
		if err == nil {
			t.Error("expected error")
		}
		if b.Len() != 0 {
			t.Error("expected later writers to be skipped")
		}
	})
}

func TestLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"missing_meta_description", "Missing Meta Description"},
		{"ecommerce", "Ecommerce"},
		{"size guides", "Size Guides"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := label(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	if got := truncateString("short", 10); got != "short" {
		t.Errorf("expected short, got %q", got)
	}
	if got := truncateString("abcdefghij", 6); got != "abc..." {
		t.Errorf("expected abc..., got %q", got)
	}
	if got := truncateString("ééééé", 4); got != "é..." {
		t.Errorf("expected rune-safe truncation, got %q", got)
	}
}
