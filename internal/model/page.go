package model

import "time"

// MaxContentSample is the maximum number of characters kept from a page's
// content container.
const MaxContentSample = 5000

// MaxPageSize is the maximum response body size read per page.
// Larger pages are truncated to this size before parsing.
const MaxPageSize = 5 * 1024 * 1024 // 5 MB

// PageRecord holds the signals extracted from one successfully fetched page.
// It carries everything downstream stages need, so analysis never goes back
// to the network or the raw HTML.
type PageRecord struct {
	// Path is the candidate path that was requested ("" for the homepage).
	Path string `json:"path"`

	// URL is the requested URL.
	URL string `json:"url"`

	// FinalURL is the URL after redirects were followed.
	FinalURL string `json:"finalUrl"`

	// StatusCode is the HTTP status of the final response.
	StatusCode int `json:"statusCode"`

	// Latency is the wall-clock time from request to fully read body.
	Latency time.Duration `json:"latency"`

	Title           string   `json:"title"`
	MetaDescription string   `json:"metaDescription"`
	MetaKeywords    []string `json:"metaKeywords,omitempty"`

	// H1 is the text of the first H1 element.
	H1 string `json:"h1"`

	// Headings holds up to five H2/H3 texts in document order.
	Headings []string `json:"headings,omitempty"`

	// Canonical is the href of link[rel=canonical], empty when absent.
	Canonical string `json:"canonical,omitempty"`

	InternalLinks int `json:"internalLinks"`
	ExternalLinks int `json:"externalLinks"`

	Images        int `json:"images"`
	ImagesWithAlt int `json:"imagesWithAlt"`

	HasStructuredData bool     `json:"hasStructuredData"`
	HasViewport       bool     `json:"hasViewport"`
	HasSitemapLink    bool     `json:"hasSitemapLink"`
	Hreflangs         []string `json:"hreflangs,omitempty"`

	// ContentSample is the whitespace-normalized text of the content
	// container, truncated to MaxContentSample characters.
	ContentSample string `json:"contentSample"`

	// WordCount is the whitespace-token count of the full container text.
	WordCount int `json:"wordCount"`
}

// IsHomepage reports whether the record is the root path of the domain.
func (p *PageRecord) IsHomepage() bool {
	return p.Path == ""
}

// Text returns the concatenation of every text signal on the page, in the
// order keyword extraction reads them.
func (p *PageRecord) Text() string {
	parts := make([]string, 0, 4+len(p.Headings))
	parts = append(parts, p.Title, p.MetaDescription, p.H1)
	parts = append(parts, p.Headings...)
	parts = append(parts, p.ContentSample)

	n := 0
	for _, part := range parts {
		n += len(part) + 1
	}
	buf := make([]byte, 0, n)
	for _, part := range parts {
		if part == "" {
			continue
		}
		if len(buf) > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, part...)
	}
	return string(buf)
}

// PageFailure records a candidate path that could not be fetched or parsed.
// Failures are excluded from the page list but kept for reporting.
type PageFailure struct {
	URL        string `json:"url"`
	StatusCode int    `json:"statusCode,omitempty"`
	Reason     string `json:"reason"`
}
