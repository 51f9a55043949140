package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/nao1215/rivalscope/internal/model"
)

const tableTimeLayout = "2006-01-02 15:04"

// Directions of a metric between two snapshots.
const (
	DirectionImproved  = "improved"
	DirectionDeclined  = "declined"
	DirectionUnchanged = "unchanged"
)

// Delta is the change between two metrics snapshots.
type Delta struct {
	Backlinks       int64 `json:"backlinks"`
	DomainAuthority int   `json:"domainAuthority"`
	TrafficEstimate int64 `json:"trafficEstimate"`
}

// Compare returns latest minus previous.
func Compare(latest, previous model.SeoMetricsSnapshot) Delta {
	return Delta{
		Backlinks:       latest.Backlinks - previous.Backlinks,
		DomainAuthority: latest.DomainAuthority - previous.DomainAuthority,
		TrafficEstimate: latest.TrafficEstimate - previous.TrafficEstimate,
	}
}

// Direction names the sign of a change. Every metric is better when higher.
func Direction[T int | int64](change T) string {
	switch {
	case change > 0:
		return DirectionImproved
	case change < 0:
		return DirectionDeclined
	default:
		return DirectionUnchanged
	}
}

func signed[T int | int64](v T) string {
	if v > 0 {
		return "+" + strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatInt(int64(v), 10)
}

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	return t
}

// WriteHistory renders snapshots (newest first) and, when there are at
// least two, the change between the two most recent.
func WriteHistory(out io.Writer, domain string, snapshots []model.SeoMetricsSnapshot) {
	fmt.Fprintf(out, "\nMetrics history for %s:\n", domain)
	if len(snapshots) == 0 {
		fmt.Fprintln(out, "  no snapshots yet")
		return
	}

	t := newTable(out)
	t.AppendHeader(table.Row{"Date", "Backlinks", "Domain Authority", "Traffic"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
	})
	for _, s := range snapshots {
		t.AppendRow(table.Row{s.CreatedAt.Format(tableTimeLayout), s.Backlinks, s.DomainAuthority, s.TrafficEstimate})
	}
	if len(snapshots) >= 2 {
		d := Compare(snapshots[0], snapshots[1])
		t.AppendFooter(table.Row{"Change", signed(d.Backlinks), signed(d.DomainAuthority), signed(d.TrafficEstimate)})
	}
	t.Render()

	if len(snapshots) >= 2 {
		d := Compare(snapshots[0], snapshots[1])
		fmt.Fprintf(out, "Backlinks %s, domain authority %s, traffic %s since the previous run.\n",
			Direction(d.Backlinks), Direction(d.DomainAuthority), Direction(d.TrafficEstimate))
	}
}

// CompetitorRow is one line of the competitors table.
type CompetitorRow struct {
	Competitor model.Competitor
	// Latest is nil when the competitor has no snapshot.
	Latest *model.SeoMetricsSnapshot
}

// WriteCompetitors renders competitors with their latest metrics.
func WriteCompetitors(out io.Writer, rows []CompetitorRow) {
	t := newTable(out)
	t.AppendHeader(table.Row{"ID", "Domain", "Backlinks", "DA", "Traffic", "Last Analyzed"})
	for _, r := range rows {
		if r.Latest == nil {
			t.AppendRow(table.Row{r.Competitor.ID, r.Competitor.Domain, "-", "-", "-", "-"})
			continue
		}
		t.AppendRow(table.Row{
			r.Competitor.ID,
			r.Competitor.Domain,
			r.Latest.Backlinks,
			r.Latest.DomainAuthority,
			r.Latest.TrafficEstimate,
			r.Latest.CreatedAt.Format(tableTimeLayout),
		})
	}
	t.AppendFooter(table.Row{"Total", len(rows)})
	t.Render()
}

// WriteKeywords renders tracked keywords.
func WriteKeywords(out io.Writer, keywords []model.Keyword) {
	t := newTable(out)
	t.AppendHeader(table.Row{"ID", "Keyword", "Engine", "Added"})
	for _, k := range keywords {
		t.AppendRow(table.Row{k.ID, k.Keyword, k.SearchEngine, k.CreatedAt.Format(tableTimeLayout)})
	}
	t.AppendFooter(table.Row{"Total", len(keywords)})
	t.Render()
}

// WriteAlerts renders alerts, marking unread ones.
func WriteAlerts(out io.Writer, alerts []model.Alert) {
	t := newTable(out)
	t.AppendHeader(table.Row{"", "ID", "Date", "Message"})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 4, WidthMax: 80}})
	unread := 0
	for _, a := range alerts {
		marker := ""
		if !a.IsRead {
			marker = "*"
			unread++
		}
		t.AppendRow(table.Row{marker, a.ID, a.CreatedAt.Format(tableTimeLayout), a.Message})
	}
	t.AppendFooter(table.Row{"", "Unread", unread, ""})
	t.Render()
}

// WriteSuggestions renders a suggestions feed as a numbered table.
func WriteSuggestions(out io.Writer, suggestions []model.Suggestion) {
	t := newTable(out)
	t.AppendHeader(table.Row{"#", "Date", "Suggestion"})
	t.SetColumnConfigs([]table.ColumnConfig{{Number: 3, WidthMax: 90}})
	for i, s := range suggestions {
		t.AppendRow(table.Row{i + 1, s.CreatedAt.Format(tableTimeLayout), s.Text})
	}
	t.Render()
}
