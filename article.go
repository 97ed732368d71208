package readability

import "time"

// Metadata is the document-level information that accompanies the
// extracted content: the fallback-priority chain (JSON-LD, then
// OpenGraph/Dublin Core/Twitter meta tags, then an in-body byline element or
// a heading heuristic) is resolved once per Parse, in internal/metadata.
type Metadata struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Excerpt  string `json:"excerpt"`
	SiteName string `json:"site_name"`
	// Language is a BCP-47 tag when the document declares one that
	// normalizes cleanly, empty otherwise.
	Language string `json:"language,omitempty"`
	// PublishedDate is an ISO-8601 string when the raw date metadata could
	// be parsed, and the untouched raw string otherwise — a failed parse
	// never discards the original value.
	PublishedDate string `json:"published_date,omitempty"`
}

// Article is the terminal output of a Parse call.
type Article struct {
	// Content is the cleaned HTML fragment, a subtree rooted at a
	// synthesized <div id="readability-content">.
	Content string `json:"content"`
	// TextContent is the plain text extracted from Content.
	TextContent string `json:"text_content"`
	// WordCount is the whitespace-delimited token count of TextContent.
	WordCount int `json:"word_count"`
	// ReadabilityScore is the chosen top candidate's adjusted score.
	ReadabilityScore float64  `json:"readability_score"`
	Metadata         Metadata `json:"metadata"`

	// Lang duplicates Metadata.Language for callers that only care about
	// the document's language and would rather not reach into Metadata.
	Lang string `json:"lang,omitempty"`

	// PublishedAt is the parsed form of Metadata.PublishedDate, the zero
	// value when parsing failed or no date metadata was found.
	PublishedAt time.Time `json:"-"`

	// ContentDigest is a BLAKE3 hash of Content, populated only when
	// Config.ContentDigest is enabled.
	ContentDigest string `json:"content_digest,omitempty"`
}
