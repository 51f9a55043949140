package crawler

import (
	"strings"
	"unicode/utf8"

	"github.com/nao1215/rivalscope/internal/model"
)

// maxHeadings is the number of H2/H3 texts kept per page.
const maxHeadings = 5

// DefaultContentSelectors pick the main content container, in priority order.
// The body is the fallback when none matches.
var DefaultContentSelectors = []string{"main", "article", ".content", "#content"}

// MonitorContentSelectors is the wider list used by the content monitor,
// which also has to find blog-style containers.
var MonitorContentSelectors = []string{"article", "main", ".content", "#content", ".post", ".entry", ".blog-post", ".article"}

// Extractor turns parsed documents of one domain into page records.
type Extractor struct {
	// host is the lowercase domain host used to classify links.
	host string

	contentSelectors []string
}

// NewExtractor creates an extractor for a canonical domain.
func NewExtractor(domain string) *Extractor {
	return &Extractor{
		host:             strings.ToLower(domain),
		contentSelectors: DefaultContentSelectors,
	}
}

// Extract fills the page-signal fields of a record from doc. Transport
// fields (URL, status, latency) are left to the caller.
func (e *Extractor) Extract(doc ParsedDocument) model.PageRecord {
	var rec model.PageRecord

	rec.Title = firstText(doc, "head title", "title")
	if n, ok := doc.FindFirst("h1"); ok {
		rec.H1 = n.Text()
	}
	for _, n := range doc.FindAll("h2, h3") {
		if len(rec.Headings) == maxHeadings {
			break
		}
		if text := n.Text(); text != "" {
			rec.Headings = append(rec.Headings, text)
		}
	}

	e.extractMeta(doc, &rec)
	e.extractLinkTags(doc, &rec)
	e.extractAnchors(doc, &rec)

	for _, img := range doc.FindAll("img") {
		rec.Images++
		if alt, ok := img.Attribute("alt"); ok && strings.TrimSpace(alt) != "" {
			rec.ImagesWithAlt++
		}
	}

	rec.HasStructuredData = hasStructuredData(doc)

	content := SelectContent(doc, e.contentSelectors)
	rec.WordCount = len(strings.Fields(content))
	rec.ContentSample = Truncate(content, model.MaxContentSample)

	return rec
}

func (e *Extractor) extractMeta(doc ParsedDocument, rec *model.PageRecord) {
	for _, meta := range doc.FindAll("meta") {
		name, _ := meta.Attribute("name")
		content, _ := meta.Attribute("content")
		content = normalizeSpace(content)

		switch strings.ToLower(strings.TrimSpace(name)) {
		case "description":
			if rec.MetaDescription == "" {
				rec.MetaDescription = content
			}
		case "keywords":
			for _, kw := range strings.Split(content, ",") {
				if kw = strings.TrimSpace(kw); kw != "" {
					rec.MetaKeywords = append(rec.MetaKeywords, kw)
				}
			}
		case "viewport":
			rec.HasViewport = true
		}
	}
}

func (e *Extractor) extractLinkTags(doc ParsedDocument, rec *model.PageRecord) {
	for _, link := range doc.FindAll("link") {
		rel, _ := link.Attribute("rel")
		href, _ := link.Attribute("href")
		href = strings.TrimSpace(href)

		for _, token := range strings.Fields(strings.ToLower(rel)) {
			switch token {
			case "canonical":
				if rec.Canonical == "" {
					rec.Canonical = href
				}
			case "sitemap":
				rec.HasSitemapLink = true
			case "alternate":
				if lang, ok := link.Attribute("hreflang"); ok && strings.TrimSpace(lang) != "" {
					rec.Hreflangs = append(rec.Hreflangs, strings.TrimSpace(lang))
				}
			}
		}
	}
}

func (e *Extractor) extractAnchors(doc ParsedDocument, rec *model.PageRecord) {
	for _, a := range doc.FindAll("a[href]") {
		href, _ := a.Attribute("href")
		switch e.classifyLink(href) {
		case linkInternal:
			rec.InternalLinks++
		case linkExternal:
			rec.ExternalLinks++
		}
	}
}

type linkKind int

const (
	linkIgnored linkKind = iota
	linkInternal
	linkExternal
)

// classifyLink decides whether an anchor points inside the domain.
// Internal means root-relative, relative, or an absolute URL whose text
// contains the domain. Fragments and non-navigational schemes are ignored.
func (e *Extractor) classifyLink(href string) linkKind {
	href = strings.TrimSpace(href)
	lower := strings.ToLower(href)

	switch {
	case href == "", strings.HasPrefix(href, "#"):
		return linkIgnored
	case strings.HasPrefix(lower, "javascript:"),
		strings.HasPrefix(lower, "mailto:"),
		strings.HasPrefix(lower, "tel:"),
		strings.HasPrefix(lower, "data:"):
		return linkIgnored
	}

	if e.host != "" && strings.Contains(lower, e.host) {
		return linkInternal
	}
	if strings.HasPrefix(lower, "//") || strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return linkExternal
	}
	if strings.Contains(lower, ":") && !strings.Contains(strings.SplitN(lower, "/", 2)[0], ".") {
		// Some other scheme (ftp:, sms:, ...).
		return linkIgnored
	}
	return linkInternal
}

// hasStructuredData detects JSON-LD, microdata or RDFa markup.
func hasStructuredData(doc ParsedDocument) bool {
	for _, script := range doc.FindAll("script") {
		if t, ok := script.Attribute("type"); ok && strings.EqualFold(strings.TrimSpace(t), "application/ld+json") {
			return true
		}
	}
	if _, ok := doc.FindFirst("[itemscope]"); ok {
		return true
	}
	_, ok := doc.FindFirst("[typeof]")
	return ok
}

// SelectContent returns the text of the first selector whose match has
// visible text, falling back to the body and then the whole document.
func SelectContent(doc ParsedDocument, selectors []string) string {
	for _, selector := range selectors {
		if n, ok := doc.FindFirst(selector); ok {
			if text := n.Text(); text != "" {
				return text
			}
		}
	}
	if body, ok := doc.FindFirst("body"); ok {
		return body.Text()
	}
	return doc.TextContent()
}

// Truncate cuts s to at most limit characters without splitting a rune.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}

func firstText(doc ParsedDocument, selectors ...string) string {
	for _, selector := range selectors {
		if n, ok := doc.FindFirst(selector); ok {
			if text := n.Text(); text != "" {
				return text
			}
		}
	}
	return ""
}
