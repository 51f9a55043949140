package crawler

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Node is one element of a parsed document.
type Node interface {
	// Text returns the visible, whitespace-normalized text of the element.
	Text() string

	// Attribute returns the value of the named attribute.
	Attribute(name string) (string, bool)
}

// ParsedDocument is the DOM query capability the extractor needs.
// Selector fallback logic lives in the callers, not here.
type ParsedDocument interface {
	// FindFirst returns the first element matching the CSS selector.
	FindFirst(selector string) (Node, bool)

	// FindAll returns every element matching the CSS selector in document order.
	FindAll(selector string) []Node

	// TextContent returns the visible text of the whole document.
	TextContent() string
}

// ParseDocument parses an HTML body. x/net/html recovers from malformed
// markup, so an error here means the reader itself failed.
func ParseDocument(r io.Reader) (ParsedDocument, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &goqueryDocument{doc: goquery.NewDocumentFromNode(root)}, nil
}

// ParseDocumentString parses an HTML string.
func ParseDocumentString(s string) (ParsedDocument, error) {
	return ParseDocument(strings.NewReader(s))
}

// ParseDocumentBytes parses an HTML body held in memory.
func ParseDocumentBytes(b []byte) (ParsedDocument, error) {
	return ParseDocument(bytes.NewReader(b))
}

type goqueryDocument struct {
	doc *goquery.Document
}

func (d *goqueryDocument) FindFirst(selector string) (Node, bool) {
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return goqueryNode{sel: sel}, true
}

func (d *goqueryDocument) FindAll(selector string) []Node {
	sel := d.doc.Find(selector)
	nodes := make([]Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, goqueryNode{sel: s})
	})
	return nodes
}

func (d *goqueryDocument) TextContent() string {
	return visibleText(d.doc.Nodes...)
}

type goqueryNode struct {
	sel *goquery.Selection
}

func (n goqueryNode) Text() string {
	return visibleText(n.sel.Nodes...)
}

func (n goqueryNode) Attribute(name string) (string, bool) {
	return n.sel.Attr(name)
}

// invisibleElements never contribute to visible text.
var invisibleElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"head":     true,
}

// visibleText concatenates the text nodes under roots, skipping invisible
// elements, and collapses all whitespace runs to single spaces.
func visibleText(roots ...*html.Node) string {
	var sb strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if invisibleElements[n.Data] {
				return
			}
		case html.TextNode:
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, root := range roots {
		// A <title> or <head> queried directly is still wanted.
		if root.Type == html.ElementNode && invisibleElements[root.Data] {
			for c := root.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
			continue
		}
		walk(root)
	}
	return normalizeSpace(sb.String())
}

// normalizeSpace trims s and collapses internal whitespace runs.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
