// Package metadata extracts the document-level facts that sit alongside the
// article body: title, byline, excerpt, site name, publish date, and
// language — each resolved through the teacher's fallback-priority chain
// (JSON-LD, then OpenGraph/Dublin Core/Twitter meta tags, then a heuristic
// fallback) and normalized before being handed back to the caller. Grounded
// on internal/readability/metadata.go's getArticleMetadata/getArticleTitle.
package metadata

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	dateparser "github.com/markusmobius/go-dateparser"
	"golang.org/x/text/language"

	"github.com/inkwell-go/readability/internal/dom"
	"github.com/inkwell-go/readability/internal/jsonld"
	"github.com/inkwell-go/readability/internal/patterns"
)

var (
	metaProperty = regexp.MustCompile(`\s*(dc|dcterm|og|twitter|article)\s*:\s*(author|creator|description|title|site_name|published_time|updated_time)\s*`)
	metaName     = regexp.MustCompile(`^\s*(?:(dc|dcterm|og|twitter)\s*[\.:]\s*)?(author|creator|description|title|site_name|date)\s*$`)

	titleSeparators          = regexp.MustCompile(` [|\-\\/>»] `)
	hierarchicalSeparators   = regexp.MustCompile(` [\\/>»] `)
	afterFirstSeparator      = regexp.MustCompile(`(.*)[|\-\\/>»] .*`)
	beforeLastSeparatorGroup = regexp.MustCompile(`[^|\-\\/>»]*[|\-\\/>»](.*)`)
	allSeparators            = regexp.MustCompile(`[|\-\\/>»]+`)

	fallbackDateFormats = []string{
		time.RFC3339, "2006-01-02T15:04:05Z", "2006-01-02 15:04:05",
		"2006-01-02", "January 2, 2006", "Jan 2, 2006", "2 January 2006",
	}
)

// Metadata is the full set of document-level facts resolved by Extract.
type Metadata struct {
	Title    string
	Byline   string
	Excerpt  string
	SiteName string
	Lang     string
	PublishedAt     time.Time
	PublishedAtRaw  string
	HasPublishedAt  bool
}

// Extract resolves every metadata field for doc, consulting JSON-LD first,
// then meta-tag values, then (for title only) a heuristic fallback over the
// document's headings. preBylineFromBody is whatever byline text the
// preprocessing walk already pulled off an in-body byline element (rel=author,
// itemprop=author, or a class/id match) — it is the last resort, consulted
// only once JSON-LD and meta-tag bylines have both come up empty, per the
// teacher's own fallback order. declaredLang is
// the <html lang> attribute, if any; it takes precedence, and a meta
// content-language tag is consulted only when it is empty.
func Extract(doc *goquery.Selection, preBylineFromBody, declaredLang string) Metadata {
	values := collectMetaTags(doc)
	ld := jsonld.Extract(doc)

	var md Metadata
	md.Title = resolveTitle(doc, ld, values)
	md.Byline = firstNonEmpty(ld.Byline, values["dc:creator"], values["dcterm:creator"], values["author"], preBylineFromBody)
	md.Excerpt = firstNonEmpty(ld.Excerpt, values["dc:description"], values["dcterm:description"], values["og:description"], values["description"], values["twitter:description"])
	md.SiteName = firstNonEmpty(ld.SiteName, values["og:site_name"])
	md.Lang = resolveLang(doc, declaredLang)

	if raw := firstNonEmpty(ld.Date, values["article:published_time"], values["og:updated_time"], firstTimeDatetime(doc), values["date"]); raw != "" {
		md.PublishedAtRaw = raw
		if t, ok := parseDate(raw); ok {
			md.PublishedAt = t
			md.HasPublishedAt = true
		}
	}

	md.Title = dom.UnescapeHTMLEntities(md.Title)
	md.Byline = dom.UnescapeHTMLEntities(md.Byline)
	md.Excerpt = dom.UnescapeHTMLEntities(md.Excerpt)
	md.SiteName = dom.UnescapeHTMLEntities(md.SiteName)
	return md
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func collectMetaTags(doc *goquery.Selection) map[string]string {
	values := make(map[string]string)
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content, _ := s.Attr("content")
		if content == "" {
			return
		}
		if property, ok := s.Attr("property"); ok && property != "" {
			if match := metaProperty.FindString(property); match != "" {
				key := strings.ToLower(strings.ReplaceAll(match, " ", ""))
				values[key] = content
			}
		}
		if name, ok := s.Attr("name"); ok && name != "" {
			if metaName.MatchString(name) {
				key := strings.ToLower(strings.ReplaceAll(name, " ", ""))
				key = strings.ReplaceAll(key, ".", ":")
				values[key] = content
			}
		}
	})
	return values
}

// firstTimeDatetime returns the datetime attribute of the first <time>
// element in the document that has one, covering pages that mark up their
// publish date in-body (e.g. <time datetime="2024-03-15">) instead of via a
// meta tag or JSON-LD.
func firstTimeDatetime(doc *goquery.Selection) string {
	var value string
	doc.Find("time").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if dt, ok := s.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
			value = dt
			return false
		}
		return true
	})
	return value
}

func resolveTitle(doc *goquery.Selection, ld jsonld.Metadata, values map[string]string) string {
	if ld.Title != "" {
		return ld.Title
	}
	if t := firstNonEmpty(values["dc:title"], values["dcterm:title"], values["og:title"], values["twitter:title"]); t != "" {
		return t
	}
	return heuristicTitle(doc)
}

// heuristicTitle reconstructs a clean article title from a <title> tag that
// usually carries a site-name suffix ("Article Name | Example.com"): it
// splits on a separator (" | ", " - ", " / ", " > ", " » "), else on a
// colon, else takes a lone <h1> when the <title> is empty or of implausible
// length. A result of four words or fewer is dropped in favour of the full
// <title>, unless the title had a hierarchical separator and the result has
// exactly one word fewer than the title with its separators removed.
func heuristicTitle(doc *goquery.Selection) string {
	origTitle := strings.TrimSpace(doc.Find("title").First().Text())
	docTitle := origTitle

	hadHierarchical := false
	switch {
	case titleSeparators.MatchString(docTitle):
		hadHierarchical = hierarchicalSeparators.MatchString(docTitle)
		docTitle = afterFirstSeparator.ReplaceAllString(docTitle, "$1")
		if dom.WordCount(docTitle) < 3 {
			docTitle = beforeLastSeparatorGroup.ReplaceAllString(origTitle, "$1")
		}
	case strings.Contains(docTitle, ": "):
		matchFound := false
		doc.Find("h1, h2").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if strings.TrimSpace(s.Text()) == docTitle {
				matchFound = true
				return false
			}
			return true
		})
		if !matchFound {
			if idx := strings.LastIndex(origTitle, ":"); idx != -1 {
				docTitle = strings.TrimSpace(origTitle[idx+1:])
				if dom.WordCount(docTitle) < 3 {
					docTitle = strings.TrimSpace(origTitle[:idx])
					if dom.WordCount(docTitle) > 5 {
						docTitle = origTitle
					}
				}
			}
		}
	case docTitle == "" || docTitle == "null" || len(docTitle) > 150 || len(docTitle) < 15:
		if h1s := doc.Find("h1"); h1s.Length() == 1 {
			docTitle = strings.TrimSpace(h1s.Text())
		}
	}

	docTitle = strings.TrimSpace(patterns.Normalize.ReplaceAllString(docTitle, " "))

	if dom.WordCount(docTitle) <= 4 {
		strippedWordCount := dom.WordCount(allSeparators.ReplaceAllString(origTitle, ""))
		if !hadHierarchical || dom.WordCount(docTitle) != strippedWordCount-1 {
			docTitle = origTitle
		}
	}
	return docTitle
}

// resolveLang normalizes whatever language signal is available (a meta
// content-language tag, the html[lang] attribute passed in from the
// preprocessing walk) to a canonical BCP-47 tag, discarding anything that
// doesn't parse as one rather than propagating garbage.
func resolveLang(doc *goquery.Selection, declared string) string {
	candidate := declared
	if candidate == "" {
		if meta, ok := doc.Find(`meta[http-equiv="content-language"]`).Attr("content"); ok {
			candidate = meta
		}
	}
	if candidate == "" {
		return ""
	}
	tag, err := language.Parse(candidate)
	if err != nil {
		return ""
	}
	return tag.String()
}

// parseDate normalizes a raw date string pulled from metadata: go-dateparser
// handles the overwhelming majority of real-world formats (relative dates,
// localized month names, ISO variants); a short fixed-format list is tried
// afterward for the handful of shapes it still misses. The raw string is
// always preserved on the Metadata struct regardless of parse success.
func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(patterns.DatePrefixes.ReplaceAllString(raw, ""))
	if raw == "" {
		return time.Time{}, false
	}
	if parsed, err := dateparser.Parse(nil, raw); err == nil && !parsed.Date.IsZero() {
		return parsed.Date, true
	}
	for _, layout := range fallbackDateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
