// Package crawler fetches a competitor's candidate pages and extracts the
// structural and content signals the analysis stages work on.
//
// # Components
//
//   - ParsedDocument: a small DOM query capability (first/all matches for a
//     CSS selector, visible text, attributes), implemented with goquery over
//     golang.org/x/net/html
//   - Extractor: turns a ParsedDocument into a model.PageRecord
//   - Fetcher: requests a fixed, ordered list of candidate paths for a domain
//
// # Fetching
//
// Pages of one domain are fetched strictly one after another, with a rate
// limiter between requests and a timeout per page. A page that fails
// (network error, non-2xx status, unparsable body) is recorded and skipped;
// only a domain where every page failed is an error.
//
// # Usage
//
//	fetcher := crawler.NewFetcher(http.DefaultClient, crawler.WithTimeout(10*time.Second))
//	result, err := fetcher.Fetch(ctx, "example.com")
package crawler
