// Package jsonld extracts article metadata from embedded JSON-LD
// (schema.org) script blocks. Unlike the teacher's getJSONLD — which only
// ever looked at the first ld+json block and pulled values out with regexes
// over the raw source text — this decodes real JSON, walks @graph arrays and
// bare top-level arrays, and keeps scanning subsequent script blocks until
// one actually describes an article. Grounded on
// internal/readability/metadata.go's getJSONLD for the extraction priorities
// (title/byline/excerpt/siteName/date) and the CDATA-stripping/@context gate.
package jsonld

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/inkwell-go/readability/internal/patterns"
)

var cdataWrapper = regexp.MustCompile(`^\s*<!\[CDATA\[|\]\]>\s*$`)

// Metadata is the subset of schema.org fields the extractor cares about.
type Metadata struct {
	Title    string
	Byline   string
	Excerpt  string
	SiteName string
	Date     string
}

func (m Metadata) empty() bool {
	return m == Metadata{}
}

// Extract scans every application/ld+json script in doc, in document order,
// and returns the metadata described by the first block whose @context is
// schema.org and whose @type (after unwrapping @graph/array nesting) matches
// an article-like schema.org type.
func Extract(doc *goquery.Selection) Metadata {
	var found Metadata
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		content := cdataWrapper.ReplaceAllString(s.Text(), "")
		if m, ok := parseBlock(content); ok {
			found = m
			return false
		}
		return true
	})
	return found
}

func parseBlock(content string) (Metadata, bool) {
	var raw any
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return Metadata{}, false
	}
	for _, node := range candidateNodes(raw) {
		if m, ok := metadataFromNode(node); ok {
			return m, true
		}
	}
	return Metadata{}, false
}

// candidateNodes flattens the shapes a top-level JSON-LD document can take:
// a single object, a bare array of objects, or an object carrying @graph.
// @graph items without an @context of their own inherit the wrapper's.
func candidateNodes(raw any) []map[string]any {
	var out []map[string]any
	switch v := raw.(type) {
	case map[string]any:
		out = append(out, v)
		if graph, ok := v["@graph"].([]any); ok {
			for _, item := range graph {
				if obj, ok := item.(map[string]any); ok {
					if _, has := obj["@context"]; !has {
						obj["@context"] = v["@context"]
					}
					out = append(out, obj)
				}
			}
		}
	case []any:
		for _, item := range v {
			if obj, ok := item.(map[string]any); ok {
				out = append(out, obj)
			}
		}
	}
	return out
}

func metadataFromNode(node map[string]any) (Metadata, bool) {
	if !contextIsSchemaOrg(node["@context"]) {
		return Metadata{}, false
	}
	if !typeIsArticle(node["@type"]) {
		return Metadata{}, false
	}

	m := Metadata{
		Title:    stringField(node, "headline", "name"),
		Excerpt:  stringField(node, "description"),
		Date:     stringField(node, "datePublished", "dateCreated", "dateModified"),
		SiteName: nestedName(node["publisher"]),
		Byline:   authorName(node["author"]),
	}
	if m.empty() {
		return Metadata{}, false
	}
	return m, true
}

func contextIsSchemaOrg(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	s = strings.TrimSuffix(s, "/")
	return s == "http://schema.org" || s == "https://schema.org"
}

func typeIsArticle(v any) bool {
	switch t := v.(type) {
	case string:
		return patterns.JSONLDArticleTypes.MatchString(t)
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && patterns.JSONLDArticleTypes.MatchString(s) {
				return true
			}
		}
	}
	return false
}

func stringField(node map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := node[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// nestedName reads {"name": "..."} out of a publisher/organization field
// that may be a plain string, a single object, or (rarely) an array of them.
func nestedName(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if name, ok := val["name"].(string); ok {
			return name
		}
	case []any:
		for _, item := range val {
			if obj, ok := item.(map[string]any); ok {
				if name, ok := obj["name"].(string); ok {
					return name
				}
			}
		}
	}
	return ""
}

// authorName handles schema.org's author field in any of its common shapes:
// a bare string, a single Person/Organization object, or an array of them
// (joined with ", " the way a byline reads naturally).
func authorName(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if name, ok := val["name"].(string); ok {
			return name
		}
	case []any:
		var names []string
		for _, item := range val {
			switch a := item.(type) {
			case string:
				names = append(names, a)
			case map[string]any:
				if name, ok := a["name"].(string); ok {
					names = append(names, name)
				}
			}
		}
		return strings.Join(names, ", ")
	}
	return ""
}
