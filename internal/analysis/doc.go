// Package analysis implements the heuristic stages of a competitor analysis:
// technical checks, industry classification, backlink and authority
// estimation, keyword extraction and ranking, traffic estimation, content
// gaps, on-page scoring and the final recommendation list.
//
// Every stage is a plain value built from the static config.Tables and is
// free of I/O except the technical analyzer's robots.txt probe. Randomized
// estimators take a Rand argument so tests can pin a seed and the estimators
// can later be replaced by real data sources behind the same signatures.
package analysis
