package report

import (
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/rivalscope/internal/model"
)

// Writer writes an analysis report in one format.
type Writer interface {
	// Write outputs the report and returns the number of bytes written.
	Write(report *model.AnalysisReport) (int, error)
}

// MultiWriter writes a report to several Writers, e.g. terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to every writer and stops on the first error.
func (m *MultiWriter) Write(report *model.AnalysisReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

var titleCaser = cases.Title(language.English)

// label turns identifiers like "missing_meta_description" or "ecommerce"
// into display text ("Missing Meta Description", "Ecommerce").
func label(s string) string {
	return titleCaser.String(strings.ReplaceAll(s, "_", " "))
}

// checkText renders a technical check result.
func checkText(r model.Result[bool]) string {
	switch {
	case !r.IsOk():
		return "skipped (" + r.Reason() + ")"
	case r.Value():
		return "yes"
	default:
		return "no"
	}
}

// impactCounts counts issues per impact level.
func impactCounts(issues []model.Issue) (high, medium, low int) {
	for _, is := range issues {
		switch is.Impact {
		case model.ImpactHigh:
			high++
		case model.ImpactMedium:
			medium++
		default:
			low++
		}
	}
	return high, medium, low
}

// truncateString cuts s to maxLen runes with an ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
