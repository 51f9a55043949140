// Package pipeline runs a competitor analysis as an ordered list of steps.
//
// Each step reads what earlier steps left in the shared Run and adds its own
// output: fetching, technical checks, industry classification, backlink and
// traffic estimation, keyword work, gap analysis, on-page scoring,
// recommendations, the final report and persistence. Engine wires the steps
// for one domain; BatchProcessor fans several domains out over a bounded
// errgroup.
package pipeline
