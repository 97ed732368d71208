package jsonld

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, htmlStr string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestExtractSimpleArticle(t *testing.T) {
	doc := mustDoc(t, `<html><head><script type="application/ld+json">
	{
		"@context": "https://schema.org",
		"@type": "NewsArticle",
		"headline": "Big Headline",
		"description": "An excerpt",
		"datePublished": "2024-01-02T00:00:00Z",
		"author": {"name": "Jane Doe"},
		"publisher": {"name": "Example News"}
	}
	</script></head><body></body></html>`)

	m := Extract(doc.Selection)
	if m.Title != "Big Headline" {
		t.Errorf("Title = %q", m.Title)
	}
	if m.Byline != "Jane Doe" {
		t.Errorf("Byline = %q", m.Byline)
	}
	if m.SiteName != "Example News" {
		t.Errorf("SiteName = %q", m.SiteName)
	}
	if m.Excerpt != "An excerpt" {
		t.Errorf("Excerpt = %q", m.Excerpt)
	}
	if m.Date != "2024-01-02T00:00:00Z" {
		t.Errorf("Date = %q", m.Date)
	}
}

func TestExtractGraphWrapper(t *testing.T) {
	doc := mustDoc(t, `<html><head><script type="application/ld+json">
	{
		"@context": "https://schema.org",
		"@graph": [
			{"@type": "WebPage", "name": "Not an article"},
			{"@type": "BlogPosting", "headline": "Graph Headline", "author": "Pat Writer"}
		]
	}
	</script></head><body></body></html>`)

	m := Extract(doc.Selection)
	if m.Title != "Graph Headline" {
		t.Errorf("Title = %q", m.Title)
	}
	if m.Byline != "Pat Writer" {
		t.Errorf("Byline = %q", m.Byline)
	}
}

func TestExtractTopLevelArray(t *testing.T) {
	doc := mustDoc(t, `<html><head><script type="application/ld+json">
	[
		{"@context": "https://schema.org", "@type": "Organization", "name": "Acme"},
		{"@context": "https://schema.org", "@type": "Article", "headline": "Array Headline"}
	]
	</script></head><body></body></html>`)

	m := Extract(doc.Selection)
	if m.Title != "Array Headline" {
		t.Errorf("Title = %q", m.Title)
	}
}

func TestExtractSkipsNonSchemaOrg(t *testing.T) {
	doc := mustDoc(t, `<html><head><script type="application/ld+json">
	{"@context": "https://example.com/other", "@type": "Article", "headline": "Should not match"}
	</script></head><body></body></html>`)

	m := Extract(doc.Selection)
	if m.Title != "" {
		t.Errorf("expected no metadata for a non-schema.org context, got %q", m.Title)
	}
}

func TestExtractAuthorArray(t *testing.T) {
	doc := mustDoc(t, `<html><head><script type="application/ld+json">
	{
		"@context": "https://schema.org",
		"@type": "Article",
		"headline": "Multi Author",
		"author": [{"name": "A"}, {"name": "B"}]
	}
	</script></head><body></body></html>`)

	m := Extract(doc.Selection)
	if m.Byline != "A, B" {
		t.Errorf("Byline = %q", m.Byline)
	}
}

func TestExtractNoScriptReturnsEmpty(t *testing.T) {
	doc := mustDoc(t, `<html><head></head><body></body></html>`)
	m := Extract(doc.Selection)
	if !m.empty() {
		t.Errorf("expected empty metadata, got %+v", m)
	}
}
