package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/nao1215/rivalscope/internal/model"
	"github.com/nao1215/rivalscope/internal/site"
)

// Default fetcher settings, used when no option overrides them.
const (
	defaultTimeout     = 10 * time.Second
	defaultMaxBodySize = model.MaxPageSize
	defaultUserAgent   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// defaultPaths are the candidate paths when none are configured.
var defaultPaths = []string{"", "about", "products", "blog", "contact"}

// SiteSettings are per-domain request settings.
type SiteSettings struct {
	Cookie  string
	Headers map[string]string
	// Paths replaces the fetcher's candidate paths when non-empty.
	Paths []string
}

// Fetcher retrieves the candidate pages of a domain.
// It is safe for concurrent use; every Fetch call gets its own rate limiter,
// so concurrent runs for different domains do not slow each other down.
type Fetcher struct {
	client      *http.Client
	scheme      string
	userAgent   string
	timeout     time.Duration
	maxBodySize int64
	interval    time.Duration
	paths       []string
	settings    func(domain string) SiteSettings
	logger      *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithScheme sets the URL scheme ("https" or "http").
func WithScheme(scheme string) FetcherOption {
	return func(f *Fetcher) {
		f.scheme = scheme
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithTimeout sets the per-page timeout.
func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithMaxBodySize sets the maximum number of body bytes read per page.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// WithInterval sets the minimum pause between page fetches of one run.
func WithInterval(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		f.interval = d
	}
}

// WithPaths sets the candidate paths, fetched in the given order.
func WithPaths(paths []string) FetcherOption {
	return func(f *Fetcher) {
		f.paths = paths
	}
}

// WithSiteSettings installs a per-domain settings lookup.
func WithSiteSettings(lookup func(domain string) SiteSettings) FetcherOption {
	return func(f *Fetcher) {
		f.settings = lookup
	}
}

// WithFetcherLogger sets the logger.
func WithFetcherLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a Fetcher. The client should follow redirects, which
// http.Client does by default.
func NewFetcher(client *http.Client, opts ...FetcherOption) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	f := &Fetcher{
		client:      client,
		scheme:      "https",
		userAgent:   defaultUserAgent,
		timeout:     defaultTimeout,
		maxBodySize: defaultMaxBodySize,
		paths:       defaultPaths,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Page is one fetched and parsed page.
type Page struct {
	Record model.PageRecord
	Doc    ParsedDocument
}

// Result is the outcome of fetching all candidate paths of a domain.
type Result struct {
	Domain   string
	Pages    []Page
	Failures []model.PageFailure
}

// Records returns the page records in fetch order.
func (r *Result) Records() []model.PageRecord {
	out := make([]model.PageRecord, 0, len(r.Pages))
	for _, p := range r.Pages {
		out = append(out, p.Record)
	}
	return out
}

// Homepage returns the root page, if it was fetched.
func (r *Result) Homepage() (*Page, bool) {
	for i := range r.Pages {
		if r.Pages[i].Record.IsHomepage() {
			return &r.Pages[i], true
		}
	}
	return nil, false
}

// Fetch requests every candidate path of domain sequentially.
// Per-page failures are recorded in Result.Failures. When no page succeeds
// Fetch returns *site.UnreachableDomainError; when ctx is cancelled it
// returns ctx.Err().
func (f *Fetcher) Fetch(ctx context.Context, domain string) (*Result, error) {
	settings := f.siteSettings(domain)
	paths := f.paths
	if len(settings.Paths) > 0 {
		paths = settings.Paths
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if f.interval > 0 {
		limiter = rate.NewLimiter(rate.Every(f.interval), 1)
	}

	result := &Result{Domain: domain}
	for _, path := range paths {
		if err := limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}

		page, err := f.fetchPage(ctx, domain, path, settings)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err != nil {
			failure := toFailure(f.pageURL(domain, path), err)
			f.logger.Debug("page fetch failed",
				"domain", domain,
				"url", failure.URL,
				"error", failure.Reason,
			)
			result.Failures = append(result.Failures, failure)
			continue
		}
		result.Pages = append(result.Pages, *page)
	}

	if len(result.Pages) == 0 {
		return nil, &site.UnreachableDomainError{Domain: domain, Failures: result.Failures}
	}
	return result, nil
}

// FetchPage fetches a single path of domain.
func (f *Fetcher) FetchPage(ctx context.Context, domain, path string) (*Page, error) {
	return f.fetchPage(ctx, domain, path, f.siteSettings(domain))
}

// RobotsTxt reports whether /robots.txt answers with a 2xx status.
// A non-2xx answer is (false, nil); a transport failure is returned as error
// so callers can tell "absent" from "could not check".
func (f *Fetcher) RobotsTxt(ctx context.Context, domain string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := f.newRequest(ctx, f.pageURL(domain, "robots.txt"), f.siteSettings(domain))
	if err != nil {
		return false, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

// statusError is a non-2xx answer.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

// errNotHTML is returned for responses that are not HTML documents.
var errNotHTML = errors.New("response is not an HTML document")

func (f *Fetcher) fetchPage(ctx context.Context, domain, path string, settings SiteSettings) (*Page, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	pageURL := f.pageURL(domain, path)
	req, err := f.newRequest(ctx, pageURL, settings)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{code: resp.StatusCode}
	}
	if !isHTML(resp.Header.Get("Content-Type")) {
		return nil, errNotHTML
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	latency := time.Since(start)

	doc, err := ParseDocumentBytes(body)
	if err != nil {
		return nil, err
	}

	rec := NewExtractor(domain).Extract(doc)
	rec.Path = path
	rec.URL = pageURL
	rec.FinalURL = resp.Request.URL.String()
	rec.StatusCode = resp.StatusCode
	rec.Latency = latency

	return &Page{Record: rec, Doc: doc}, nil
}

func (f *Fetcher) newRequest(ctx context.Context, pageURL string, settings SiteSettings) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	if settings.Cookie != "" {
		req.Header.Set("Cookie", settings.Cookie)
	}
	for k, v := range settings.Headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// pageURL builds the absolute URL of a candidate path.
func (f *Fetcher) pageURL(domain, path string) string {
	return f.scheme + "://" + domain + "/" + strings.TrimPrefix(path, "/")
}

func (f *Fetcher) siteSettings(domain string) SiteSettings {
	if f.settings == nil {
		return SiteSettings{}
	}
	return f.settings(domain)
}

// isHTML accepts missing content types; many servers omit them.
func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(strings.ToLower(contentType), "html")
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

func toFailure(pageURL string, err error) model.PageFailure {
	failure := model.PageFailure{URL: pageURL, Reason: err.Error()}
	var se *statusError
	if errors.As(err, &se) {
		failure.StatusCode = se.code
	}
	if errors.Is(err, context.DeadlineExceeded) {
		failure.Reason = "timeout: " + err.Error()
	}
	return failure
}
