// Package report renders analysis reports and stored history.
//
// Writers implement the Writer interface and differ only in format:
//   - SimpleWriter: plain text for the terminal
//   - JSONWriter: structured JSON for tooling
//   - MarkdownWriter: GitHub-flavored Markdown with a mermaid chart
//
// The table functions in tables.go render stored entities (metrics history,
// competitors, keywords, alerts) with go-pretty.
package report
