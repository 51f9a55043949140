package crawler

import (
	"strings"
	"testing"
)

const fullPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <title>ShopFast - Fast Online Shopping</title>
  <meta name="Description" content="Buy   everything fast.">
  <meta name="keywords" content="shop, fast , , deals">
  <meta name="viewport" content="width=device-width">
  <link rel="canonical" href="https://shopfast.com/">
  <link rel="sitemap" type="application/xml" href="/sitemap.xml">
  <link rel="alternate" hreflang="de" href="https://shopfast.com/de/">
  <script type="application/ld+json">{"@type":"Organization"}</script>
</head>
<body>
  <nav><a href="/">Home</a><a href="about">About</a></nav>
  <h1>Welcome to ShopFast</h1>
  <h2>Deals</h2><h3>Shipping</h3><h2></h2><h3>Returns</h3><h2>Gifts</h2><h3>Brands</h3><h2>Extra</h2>
  <main>
    <p>Fresh deals every day on electronics and fashion.</p>
    <img src="a.png" alt="A product">
    <img src="b.png" alt="  ">
    <img src="c.png">
  </main>
  <footer>
    <a href="https://shopfast.com/contact">Contact</a>
    <a href="https://twitter.com/shopfast">Twitter</a>
    <a href="//cdn.example.net/x">CDN</a>
    <a href="#top">Top</a>
    <a href="mailto:hi@shopfast.com">Mail</a>
    <a href="javascript:void(0)">JS</a>
  </footer>
</body>
</html>`

func TestExtractorExtract(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocumentString(fullPage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := NewExtractor("shopfast.com").Extract(doc)

	if rec.Title != "ShopFast - Fast Online Shopping" {
		t.Errorf("unexpected title %q", rec.Title)
	}
	if rec.MetaDescription != "Buy everything fast." {
		t.Errorf("unexpected meta description %q", rec.MetaDescription)
	}
	if strings.Join(rec.MetaKeywords, "|") != "shop|fast|deals" {
		t.Errorf("unexpected meta keywords %v", rec.MetaKeywords)
	}
	if rec.H1 != "Welcome to ShopFast" {
		t.Errorf("unexpected h1 %q", rec.H1)
	}
	if len(rec.Headings) != 5 {
		t.Fatalf("expected 5 headings, got %d: %v", len(rec.Headings), rec.Headings)
	}
	if rec.Headings[0] != "Deals" || rec.Headings[3] != "Gifts" || rec.Headings[4] != "Brands" {
		t.Errorf("unexpected headings %v", rec.Headings)
	}
	if rec.Canonical != "https://shopfast.com/" {
		t.Errorf("unexpected canonical %q", rec.Canonical)
	}
	if !rec.HasSitemapLink || !rec.HasViewport || !rec.HasStructuredData {
		t.Errorf("expected sitemap, viewport and structured data: %+v", rec)
	}
	if len(rec.Hreflangs) != 1 || rec.Hreflangs[0] != "de" {
		t.Errorf("unexpected hreflangs %v", rec.Hreflangs)
	}
	if rec.InternalLinks != 3 {
		t.Errorf("expected 3 internal links, got %d", rec.InternalLinks)
	}
	if rec.ExternalLinks != 2 {
		t.Errorf("expected 2 external links, got %d", rec.ExternalLinks)
	}
	if rec.Images != 3 || rec.ImagesWithAlt != 1 {
		t.Errorf("expected 3 images with 1 alt, got %d/%d", rec.Images, rec.ImagesWithAlt)
	}
	if rec.ContentSample != "Fresh deals every day on electronics and fashion." {
		t.Errorf("expected main content, got %q", rec.ContentSample)
	}
	if rec.WordCount != 8 {
		t.Errorf("expected 8 words, got %d", rec.WordCount)
	}
}

func TestExtractorEmptyPage(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocumentString("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := NewExtractor("example.com").Extract(doc)

	if rec.Title != "" || rec.H1 != "" || rec.MetaDescription != "" {
		t.Errorf("expected empty signals, got %+v", rec)
	}
	if rec.WordCount != 0 {
		t.Errorf("expected 0 words, got %d", rec.WordCount)
	}
	if rec.HasStructuredData {
		t.Error("did not expect structured data")
	}
}

func TestSelectContent(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "main wins over article",
			html:     `<body><article>article text</article><main>main text</main></body>`,
			expected: "main text",
		},
		{
			name:     "class selector",
			html:     `<body><div class="content">class text</div><p>other</p></body>`,
			expected: "class text",
		},
		{
			name:     "id selector",
			html:     `<body><div id="content">id text</div><p>other</p></body>`,
			expected: "id text",
		},
		{
			name:     "empty main falls through",
			html:     `<body><main>  </main><article>article text</article></body>`,
			expected: "article text",
		},
		{
			name:     "falls back to body",
			html:     `<body><p>one</p><p>two</p></body>`,
			expected: "one two",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			doc, err := ParseDocumentString(tc.html)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := SelectContent(doc, DefaultContentSelectors); got != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestContentSampleTruncation(t *testing.T) {
	t.Parallel()

	words := strings.Repeat("lorem ", 2000)
	doc, err := ParseDocumentString("<body><main>" + words + "</main></body>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := NewExtractor("example.com").Extract(doc)

	if len(rec.ContentSample) != 5000 {
		t.Errorf("expected sample of 5000 chars, got %d", len(rec.ContentSample))
	}
	if rec.WordCount != 2000 {
		t.Errorf("expected word count over the full text, got %d", rec.WordCount)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input    string
		limit    int
		expected string
	}{
		{"hello", 10, "hello"},
		{"hello", 5, "hello"},
		{"hello", 3, "hel"},
		{"héllo", 2, "hé"},
		{"日本語テキスト", 3, "日本語"},
		{"hello", 0, ""},
	}

	for _, tc := range testCases {
		if got := Truncate(tc.input, tc.limit); got != tc.expected {
			t.Errorf("Truncate(%q, %d): expected %q, got %q", tc.input, tc.limit, tc.expected, got)
		}
	}
}

func TestClassifyLink(t *testing.T) {
	t.Parallel()

	e := NewExtractor("example.com")
	testCases := []struct {
		href     string
		expected linkKind
	}{
		{"/pricing", linkInternal},
		{"pricing.html", linkInternal},
		{"https://example.com/blog", linkInternal},
		{"https://blog.example.com/", linkInternal},
		{"https://other.org/", linkExternal},
		{"//cdn.other.org/lib.js", linkExternal},
		{"#section", linkIgnored},
		{"", linkIgnored},
		{"mailto:team@example.com", linkIgnored},
		{"tel:+100000", linkIgnored},
		{"javascript:void(0)", linkIgnored},
		{"ftp://files.other.org/x", linkIgnored},
	}

	for _, tc := range testCases {
		t.Run(tc.href, func(t *testing.T) {
			t.Parallel()
			if got := e.classifyLink(tc.href); got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}
