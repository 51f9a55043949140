package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/rivalscope/internal/model"
)

const ruleWidth = 70

// SimpleWriter outputs a plain-text report for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose adds rankings, per-page details and issue recommendations.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.AnalysisReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeTechnical(&sb, report)
	w.writeOnPage(&sb, report)
	w.writeKeywords(&sb, report)
	w.writeGaps(&sb, report)
	w.writeSuggestions(&sb, report)
	w.writeFailures(&sb, report)
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")

	return io.WriteString(w.output, sb.String())
}

func section(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(strings.ToUpper(title))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.AnalysisReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("                      COMPETITOR SEO REPORT\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Domain:           %s\n", report.Domain)
	fmt.Fprintf(sb, "Industry:         %s\n", label(report.Industry.String()))
	fmt.Fprintf(sb, "Generated:        %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Pages Analyzed:   %d\n", len(report.Pages))
	fmt.Fprintf(sb, "Backlinks:        %d\n", report.Backlinks)
	fmt.Fprintf(sb, "Domain Authority: %d\n", report.DomainAuthority)
	fmt.Fprintf(sb, "Monthly Traffic:  %d\n", report.TrafficEstimate)
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeTechnical(sb *strings.Builder, report *model.AnalysisReport) {
	tech := report.TechnicalSEO
	section(sb, "Technical SEO")

	if tech.LoadTimeMs.IsOk() {
		fmt.Fprintf(sb, "  Load Time:         %d ms\n", tech.LoadTimeMs.Value())
	} else {
		fmt.Fprintf(sb, "  Load Time:         skipped (%s)\n", tech.LoadTimeMs.Reason())
	}
	fmt.Fprintf(sb, "  HTTPS:             %s\n", checkText(tech.HTTPS))
	fmt.Fprintf(sb, "  Mobile Friendly:   %s\n", checkText(tech.MobileFriendly))
	fmt.Fprintf(sb, "  Canonical:         %s\n", checkText(tech.Canonical))
	fmt.Fprintf(sb, "  Sitemap:           %s\n", checkText(tech.Sitemap))
	fmt.Fprintf(sb, "  robots.txt:        %s\n", checkText(tech.RobotsTxt))
	fmt.Fprintf(sb, "  Hreflang:          %s\n", checkText(tech.Hreflang))
	fmt.Fprintf(sb, "  Structured Data:   %s\n", checkText(tech.StructuredData))
	if tech.AltTextCoverage.IsOk() {
		fmt.Fprintf(sb, "  Alt Text Coverage: %.1f%%\n", tech.AltTextCoverage.Value())
	} else {
		fmt.Fprintf(sb, "  Alt Text Coverage: skipped (%s)\n", tech.AltTextCoverage.Reason())
	}
	sb.WriteString("\n")
}

func impactIndicator(impact model.Impact) string {
	switch impact {
	case model.ImpactHigh:
		return "!!"
	case model.ImpactMedium:
		return "!"
	default:
		return "-"
	}
}

func (w *SimpleWriter) writeOnPage(sb *strings.Builder, report *model.AnalysisReport) {
	score := report.OnPageScore
	section(sb, "On-Page Score")
	fmt.Fprintf(sb, "  SCORE: %d/100 (%s)\n\n", score.Score, score.Rating)

	for _, is := range score.Issues {
		fmt.Fprintf(sb, "  [%s] %s (%d pages)\n", impactIndicator(is.Impact), label(is.Type), is.Pages)
		if w.verbose && is.Recommendation != "" {
			fmt.Fprintf(sb, "       %s\n", is.Recommendation)
		}
	}
	if len(score.Issues) > 0 {
		sb.WriteString("\n")
	}
}

func (w *SimpleWriter) writeKeywords(sb *strings.Builder, report *model.AnalysisReport) {
	if len(report.TopKeywords) == 0 {
		return
	}
	section(sb, "Keywords")

	words := make([]string, 0, len(report.TopKeywords))
	for _, kw := range report.TopKeywords {
		words = append(words, fmt.Sprintf("%s (%d)", kw.Keyword, kw.Count))
	}
	fmt.Fprintf(sb, "  %s\n\n", strings.Join(words, ", "))

	if !w.verbose {
		return
	}
	for _, kr := range report.Rankings {
		fmt.Fprintf(sb, "  #%-3d %-40s volume %-5d difficulty %d\n",
			kr.Position, truncateString(kr.Keyword, 40), kr.SearchVolume, kr.Difficulty)
	}
	if len(report.Rankings) > 0 {
		sb.WriteString("\n")
	}
}

func (w *SimpleWriter) writeGaps(sb *strings.Builder, report *model.AnalysisReport) {
	if len(report.ContentGaps) == 0 {
		return
	}
	section(sb, "Content Gaps")
	for _, g := range report.ContentGaps {
		fmt.Fprintf(sb, "  [+] %s (potential %d, difficulty %d)\n", label(g.Topic), g.Potential, g.Difficulty)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeSuggestions(sb *strings.Builder, report *model.AnalysisReport) {
	section(sb, "Recommendations")
	if len(report.TopSuggestions) == 0 {
		sb.WriteString("  No recommendations\n\n")
		return
	}
	for i, s := range report.TopSuggestions {
		fmt.Fprintf(sb, "  %2d. %s\n", i+1, s)
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFailures(sb *strings.Builder, report *model.AnalysisReport) {
	if len(report.FailedPages) == 0 {
		return
	}
	section(sb, "Pages Not Fetched")
	for _, f := range report.FailedPages {
		fmt.Fprintf(sb, "  %s: %s\n", f.URL, f.Reason)
	}
	sb.WriteString("\n")
}
