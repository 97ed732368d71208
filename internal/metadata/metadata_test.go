package metadata

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

func TestExtractPrefersJSONLDOverMetaTags(t *testing.T) {
	doc := mustDoc(t, `<html><head>
		<meta property="og:title" content="Meta Title">
		<script type="application/ld+json">{"@context":"https://schema.org","@type":"Article","headline":"LD Title"}</script>
	</head><body></body></html>`)

	m := Extract(doc.Selection, "", "")
	if m.Title != "LD Title" {
		t.Errorf("Title = %q, want JSON-LD to win", m.Title)
	}
}

func TestExtractFallsBackToMetaTags(t *testing.T) {
	doc := mustDoc(t, `<html><head>
		<meta property="og:title" content="Meta Title">
		<meta property="og:site_name" content="Example Site">
		<meta name="dc.creator" content="Dana Author">
	</head><body></body></html>`)

	m := Extract(doc.Selection, "", "")
	if m.Title != "Meta Title" {
		t.Errorf("Title = %q", m.Title)
	}
	if m.SiteName != "Example Site" {
		t.Errorf("SiteName = %q", m.SiteName)
	}
	if m.Byline != "Dana Author" {
		t.Errorf("Byline = %q", m.Byline)
	}
}

func TestExtractBylineFallsBackToInBodyLast(t *testing.T) {
	doc := mustDoc(t, `<html><head></head><body></body></html>`)
	m := Extract(doc.Selection, "In-body Author", "")
	if m.Byline != "In-body Author" {
		t.Errorf("Byline = %q, want the in-body fallback to be used", m.Byline)
	}
}

func TestExtractMetaBylineBeatsInBodyFallback(t *testing.T) {
	doc := mustDoc(t, `<html><head><meta name="author" content="Meta Author"></head><body></body></html>`)
	m := Extract(doc.Selection, "In-body Author", "")
	if m.Byline != "Meta Author" {
		t.Errorf("Byline = %q, want a meta-tag byline to outrank the in-body fallback", m.Byline)
	}
}

func TestExtractHeuristicTitleStripsSiteSuffix(t *testing.T) {
	doc := mustDoc(t, `<html><head><title>Great Article Name | Example Site</title></head><body></body></html>`)
	m := Extract(doc.Selection, "", "")
	if strings.Contains(m.Title, "Example Site") {
		t.Errorf("expected the site-name suffix to be stripped, got %q", m.Title)
	}
}

func TestResolveLangPrefersDeclared(t *testing.T) {
	doc := mustDoc(t, `<html><head></head><body></body></html>`)
	m := Extract(doc.Selection, "", "en-US")
	if m.Lang != "en-US" {
		t.Errorf("Lang = %q", m.Lang)
	}
}

func TestResolveLangRejectsGarbage(t *testing.T) {
	doc := mustDoc(t, `<html><head></head><body></body></html>`)
	m := Extract(doc.Selection, "", "not a real language tag!!")
	if m.Lang != "" {
		t.Errorf("expected an unparseable lang tag to resolve to empty, got %q", m.Lang)
	}
}

func TestParseDateISO(t *testing.T) {
	tm, ok := parseDate("2024-03-15T10:00:00Z")
	if !ok {
		t.Fatal("expected ISO date to parse")
	}
	if tm.Year() != 2024 || tm.Month() != 3 || tm.Day() != 15 {
		t.Errorf("unexpected parsed date: %v", tm)
	}
}

func TestParseDateStripsPrefix(t *testing.T) {
	tm, ok := parseDate("Published: 2024-03-15")
	if !ok {
		t.Fatal("expected prefixed date to parse")
	}
	if tm.Year() != 2024 {
		t.Errorf("unexpected parsed date: %v", tm)
	}
}

func TestExtractPublishedDateFromArticleMetaTag(t *testing.T) {
	doc := mustDoc(t, `<html><head><meta property="article:published_time" content="2022-11-05T08:00:00Z"></head><body></body></html>`)
	m := Extract(doc.Selection, "", "")
	if !m.HasPublishedAt {
		t.Fatal("expected HasPublishedAt to be true")
	}
	if m.PublishedAt.Year() != 2022 || m.PublishedAt.Month() != 11 || m.PublishedAt.Day() != 5 {
		t.Errorf("unexpected parsed date: %v", m.PublishedAt)
	}
}

func TestExtractPublishedDateFromTimeElement(t *testing.T) {
	doc := mustDoc(t, `<html><head></head><body><article><time datetime="2021-07-04T12:00:00Z">July 4</time></article></body></html>`)
	m := Extract(doc.Selection, "", "")
	if !m.HasPublishedAt {
		t.Fatal("expected HasPublishedAt to be true")
	}
	if m.PublishedAt.Year() != 2021 {
		t.Errorf("unexpected parsed date: %v", m.PublishedAt)
	}
}

func TestExtractPublishedDateFromDateMetaTag(t *testing.T) {
	doc := mustDoc(t, `<html><head><meta name="date" content="2020-01-10"></head><body></body></html>`)
	m := Extract(doc.Selection, "", "")
	if !m.HasPublishedAt {
		t.Fatal("expected HasPublishedAt to be true")
	}
	if m.PublishedAt.Year() != 2020 {
		t.Errorf("unexpected parsed date: %v", m.PublishedAt)
	}
}

func TestExtractPublishedDateFromJSONLD(t *testing.T) {
	doc := mustDoc(t, `<html><head><script type="application/ld+json">
		{"@context":"https://schema.org","@type":"Article","headline":"X","datePublished":"2023-06-01T00:00:00Z"}
	</script></head><body></body></html>`)
	m := Extract(doc.Selection, "", "")
	if !m.HasPublishedAt {
		t.Fatal("expected HasPublishedAt to be true")
	}
	if m.PublishedAt.Year() != 2023 {
		t.Errorf("unexpected year: %v", m.PublishedAt)
	}
}
