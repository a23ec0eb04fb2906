package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Page wraps one rendered page so strategies can query it by selector or
// scan its collapsed text without re-parsing.
type Page struct {
	URL  string
	HTML string

	doc  *goquery.Document
	text string
}

// NewPage parses rendered HTML into a Page. Parsing is tolerant: goquery
// accepts arbitrary markup, so the only failure mode is an unreadable body.
func NewPage(url, html string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return &Page{URL: url, HTML: html, doc: doc}, nil
}

// Doc returns the parsed document for selector queries.
func (p *Page) Doc() *goquery.Document {
	return p.doc
}

// Text returns the page's full visible text with all whitespace runs
// collapsed to single spaces. Computed once, reused by every text-scanning
// strategy.
func (p *Page) Text() string {
	if p.text == "" {
		p.text = CollapseText(p.doc.Text())
	}
	return p.text
}

// CollapseText collapses whitespace runs to single spaces.
func CollapseText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
