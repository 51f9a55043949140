// Package model defines the data structures shared by the analysis engine,
// the store, the report writers and the HTTP API.
//
// This package contains the following main types:
//   - Competitor, ScrapedPage, SeoMetricsSnapshot, Suggestion, Alert: persisted entities
//   - Keyword, Ranking, ContentSnapshot: rank tracking and content monitoring entities
//   - PageRecord: the signals extracted from one fetched page
//   - AnalysisReport: the result of one analysis run
//   - Result: an Ok/Skipped value for best-effort checks
//
// Keeping the models in their own package lets crawler, analysis, pipeline,
// database and report share them without import cycles.
package model
