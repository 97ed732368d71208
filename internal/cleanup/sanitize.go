package cleanup

import "github.com/microcosm-cc/bluemonday"

// articlePolicy is the allow-list bluemonday enforces as a defense-in-depth
// pass after structural cleanup: even though Run already strips scripts,
// event handlers, and presentational cruft by walking the DOM directly, a
// second allow-list pass over the serialized HTML catches anything a future
// change to Run might let slip through (a forgotten attribute, a new
// element type). Grounded on
// BumpyClock-hermes/pkg/utils/security/sanitizer.go's createArticlePolicy.
var articlePolicy = newArticlePolicy()

func newArticlePolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br", "strong", "b", "em", "i", "u", "s", "mark", "small", "sub", "sup",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "dl", "dt", "dd",
		"blockquote", "pre", "code", "cite", "q",
		"table", "thead", "tbody", "tfoot", "tr", "th", "td", "caption",
		"figure", "figcaption", "time", "abbr",
	)
	p.AllowElements("img", "picture", "source", "a", "span", "div")
	p.AllowElements("video", "audio")

	p.AllowAttrs("href").OnElements("a")
	p.RequireNoReferrerOnLinks(true)
	p.RequireNoFollowOnLinks(true)

	p.AllowAttrs("src", "alt", "srcset", "sizes", "width", "height").OnElements("img", "source")
	p.AllowAttrs("src", "controls", "poster").OnElements("video", "audio")
	p.AllowAttrs("datetime").OnElements("time")
	p.AllowAttrs("cite").OnElements("blockquote", "q")
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")

	p.AllowAttrs("class").Globally()
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6", "div", "span", "p")

	return p
}

// Sanitize runs the serialized article HTML through an allow-list policy,
// the last line of defense before content is handed to a caller that might
// render it directly.
func Sanitize(html string) string {
	return articlePolicy.Sanitize(html)
}
