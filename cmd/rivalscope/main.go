// Package main provides the entry point for the rivalscope CLI.
//
// rivalscope analyzes competitor websites for SEO signals, keeps a history
// of estimated metrics and raises alerts when competitors change.
//
// Usage:
//
//	rivalscope analyze <domain>...
//	rivalscope monitor [--schedule CRON]
//	rivalscope serve
//
// See --help for all available options.
package main

func main() {
	Execute()
}
