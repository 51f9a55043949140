// Package monitor keeps tracked competitors up to date between explicit
// analyses.
//
// A monitoring pass re-runs the analysis engine for every competitor of an
// owner, fingerprints each homepage's main content to detect changes, and
// records a ranking for every tracked keyword. Changes are reported to the
// owner as alerts. Scheduler runs passes on a cron schedule.
package monitor
