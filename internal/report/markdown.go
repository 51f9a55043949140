package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/rivalscope/internal/model"
)

// maxMarkdownRankings caps the rankings table.
const maxMarkdownRankings = 15

// MarkdownWriter outputs reports as GitHub-flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.AnalysisReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeTechnical(md, report)
	w.writeOnPage(md, report)
	w.writeKeywords(md, report)
	w.writeGaps(md, report)
	w.writeSuggestions(md, report)
	w.writeFailures(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H1("Competitor SEO Report: " + report.Domain)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Domain", "`" + report.Domain + "`"},
			{"Industry", label(report.Industry.String())},
			{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Backlinks", strconv.FormatInt(report.Backlinks, 10)},
			{"Domain Authority", strconv.Itoa(report.DomainAuthority)},
			{"Monthly Traffic", strconv.FormatInt(report.TrafficEstimate, 10)},
			{"Pages Analyzed", strconv.Itoa(len(report.Pages))},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeTechnical(md *markdown.Markdown, report *model.AnalysisReport) {
	tech := report.TechnicalSEO
	md.H2("Technical SEO")
	md.PlainText("")

	loadTime := "skipped (" + tech.LoadTimeMs.Reason() + ")"
	if tech.LoadTimeMs.IsOk() {
		loadTime = strconv.FormatInt(tech.LoadTimeMs.Value(), 10) + " ms"
	}
	altCoverage := "skipped (" + tech.AltTextCoverage.Reason() + ")"
	if tech.AltTextCoverage.IsOk() {
		altCoverage = fmt.Sprintf("%.1f%%", tech.AltTextCoverage.Value())
	}

	md.Table(markdown.TableSet{
		Header: []string{"Check", "Result"},
		Rows: [][]string{
			{"Load Time", loadTime},
			{"HTTPS", checkText(tech.HTTPS)},
			{"Mobile Friendly", checkText(tech.MobileFriendly)},
			{"Canonical", checkText(tech.Canonical)},
			{"Sitemap", checkText(tech.Sitemap)},
			{"robots.txt", checkText(tech.RobotsTxt)},
			{"Hreflang", checkText(tech.Hreflang)},
			{"Structured Data", checkText(tech.StructuredData)},
			{"Alt Text Coverage", altCoverage},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeOnPage(md *markdown.Markdown, report *model.AnalysisReport) {
	score := report.OnPageScore
	md.H2("On-Page Score")
	md.PlainText("")
	md.PlainTextf("**%d / 100** (%s)", score.Score, score.Rating)
	md.PlainText("")

	switch score.Rating {
	case model.RatingGood:
		md.Tip("On-page SEO is in good shape.")
	case model.RatingAverage:
		md.Importantf("%d on-page issue(s) hold this site back.", len(score.Issues))
	default:
		md.Warningf("On-page SEO needs improvement: %d issue(s) found.", len(score.Issues))
	}
	md.PlainText("")

	if len(score.Issues) == 0 {
		return
	}
	w.writeImpactChart(md, score.Issues)

	rows := make([][]string, 0, len(score.Issues))
	for _, is := range score.Issues {
		rows = append(rows, []string{
			label(is.Type),
			label(is.Impact.String()),
			strconv.Itoa(is.Pages),
			truncateString(is.Recommendation, 80),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Issue", "Impact", "Pages", "Recommendation"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeImpactChart(md *markdown.Markdown, issues []model.Issue) {
	high, medium, low := impactCounts(issues)
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Issues by Impact"),
		piechart.WithShowData(true),
	)
	if high > 0 {
		chart.LabelAndIntValue("High", uint64(high))
	}
	if medium > 0 {
		chart.LabelAndIntValue("Medium", uint64(medium))
	}
	if low > 0 {
		chart.LabelAndIntValue("Low", uint64(low))
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeKeywords(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H2("Keywords")
	md.PlainText("")

	if len(report.TopKeywords) == 0 {
		md.PlainText("No keywords extracted.")
		md.PlainText("")
		return
	}

	words := make([]string, 0, len(report.TopKeywords))
	for _, kw := range report.TopKeywords {
		words = append(words, fmt.Sprintf("%s (%d)", kw.Keyword, kw.Count))
	}
	md.BulletList(words...)
	md.PlainText("")

	if len(report.Rankings) == 0 {
		return
	}
	md.H3("Estimated Rankings")
	md.PlainText("")
	rows := make([][]string, 0, min(len(report.Rankings), maxMarkdownRankings))
	for _, kr := range report.Rankings[:min(len(report.Rankings), maxMarkdownRankings)] {
		rows = append(rows, []string{
			kr.Keyword,
			label(kr.Kind),
			strconv.Itoa(kr.Position),
			strconv.Itoa(kr.SearchVolume),
			strconv.Itoa(kr.Difficulty),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Keyword", "Kind", "Position", "Volume", "Difficulty"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeGaps(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H2("Content Gaps")
	md.PlainText("")
	if len(report.ContentGaps) == 0 {
		md.PlainText("No content gaps found.")
		md.PlainText("")
		return
	}
	rows := make([][]string, 0, len(report.ContentGaps))
	for _, g := range report.ContentGaps {
		rows = append(rows, []string{label(g.Topic), strconv.Itoa(g.Potential), strconv.Itoa(g.Difficulty)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Topic", "Potential", "Difficulty"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeSuggestions(md *markdown.Markdown, report *model.AnalysisReport) {
	md.H2("Recommendations")
	md.PlainText("")
	if len(report.TopSuggestions) == 0 {
		md.PlainText("No recommendations.")
		md.PlainText("")
		return
	}
	md.OrderedList(report.TopSuggestions...)
	md.PlainText("")
}

func (w *MarkdownWriter) writeFailures(md *markdown.Markdown, report *model.AnalysisReport) {
	if len(report.FailedPages) == 0 {
		return
	}
	md.H2("Pages Not Fetched")
	md.PlainText("")
	for _, f := range report.FailedPages {
		md.Details(f.URL, f.Reason)
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Figures are heuristic estimates, not measurements.*")
}
