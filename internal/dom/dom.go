// Package dom provides the arena-backed view over a parsed HTML document
// that every extraction stage operates on. It wraps golang.org/x/net/html
// nodes with stable integer ids (assigned in document order at parse time)
// and exposes github.com/PuerkitoBio/goquery selections for traversal and
// mutation, mirroring how the teacher corpus leans on goquery throughout.
package dom

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/inkwell-go/readability/internal/patterns"
)

// Document is the mutable view the extraction pipeline walks and trims. Ids
// are assigned once at construction; they are never reused or renumbered
// even as nodes are removed, so a Candidate recorded against an id stays
// valid for the lifetime of a single Parse call.
type Document struct {
	GQ    *goquery.Document
	ids   map[*html.Node]int
	nodes map[int]*html.Node
	next  int
}

// New builds a Document from an already-parsed goquery document, assigning
// ids to every node present at construction time in document order.
func New(gq *goquery.Document) *Document {
	d := &Document{
		GQ:    gq,
		ids:   make(map[*html.Node]int),
		nodes: make(map[int]*html.Node),
	}
	if gq.Nodes != nil && len(gq.Nodes) > 0 {
		d.assign(gq.Nodes[0])
	}
	return d
}

func (d *Document) assign(n *html.Node) {
	if n == nil {
		return
	}
	d.register(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.assign(c)
	}
}

// register gives n an id if it doesn't already have one. Called both during
// the initial walk and whenever a stage creates or imports a new node, so
// ids stay dense without a renumbering pass.
func (d *Document) register(n *html.Node) int {
	if id, ok := d.ids[n]; ok {
		return id
	}
	id := d.next
	d.next++
	d.ids[n] = id
	d.nodes[id] = n
	return id
}

// ID returns the stable id for a node, registering it if unseen.
func (d *Document) ID(n *html.Node) int {
	if n == nil {
		return -1
	}
	return d.register(n)
}

// ForEachID registers an id for every node under sel in document order,
// useful after a stage injects new nodes (e.g. setNodeTag's replacement).
func (d *Document) ForEachID(sel *goquery.Selection) {
	sel.Each(func(_ int, s *goquery.Selection) {
		if n := s.Get(0); n != nil {
			d.assign(n)
		}
	})
}

// Node looks up a node by its id, returning nil if it was never registered.
func (d *Document) Node(id int) *html.Node {
	return d.nodes[id]
}

// Root returns the document's selection over the <html> (or outermost)
// element, matching goquery's own Selection() for the whole document.
func (d *Document) Root() *goquery.Selection {
	return d.GQ.Selection
}

// IsVisible reports whether a node is hidden via style, the hidden
// attribute, or aria-hidden (with a fallback-image class exception for the
// the common "hide until the real image loads" pattern).
func IsVisible(n *html.Node) bool {
	if n == nil {
		return false
	}
	var style, ariaHidden, class string
	hasHidden := false
	for _, a := range n.Attr {
		switch a.Key {
		case "style":
			style = a.Val
		case "hidden":
			hasHidden = true
		case "aria-hidden":
			ariaHidden = a.Val
		case "class":
			class = a.Val
		}
	}
	if strings.Contains(style, "display:none") || strings.Contains(style, "display: none") {
		return false
	}
	if hasHidden {
		return false
	}
	if ariaHidden == "true" && !strings.Contains(class, "fallback-image") {
		return false
	}
	return true
}

// NodeName returns the upper-cased tag name of a selection, "" if empty.
func NodeName(s *goquery.Selection) string {
	if s == nil || s.Length() == 0 {
		return ""
	}
	return strings.ToUpper(goquery.NodeName(s))
}

// InnerText returns a selection's text, optionally collapsing whitespace
// runs the way the scorer and cleanup stages expect their input normalized.
func InnerText(s *goquery.Selection, normalizeSpaces bool) string {
	if s == nil || s.Length() == 0 {
		return ""
	}
	text := strings.TrimSpace(s.Text())
	if normalizeSpaces {
		text = patterns.Normalize.ReplaceAllString(text, " ")
	}
	return text
}

// commaVariants are every Unicode comma the content-density bonus counts:
// ASCII comma, Arabic comma, ideographic comma, fullwidth comma.
var commaVariants = []rune{',', '،', '、', '，'}

// CharCount counts occurrences of delimiter in a selection's normalized
// text, used for the scorer's comma-density bonus. When delimiter is ","
// (its only real caller), every Unicode comma variant is counted, not just
// the ASCII one.
func CharCount(s *goquery.Selection, delimiter string) int {
	if delimiter == "" {
		delimiter = ","
	}
	text := InnerText(s, true)
	if text == "" {
		return 0
	}
	if delimiter == "," {
		count := 0
		for _, r := range text {
			for _, variant := range commaVariants {
				if r == variant {
					count++
					break
				}
			}
		}
		return count
	}
	return strings.Count(text, delimiter)
}

// LinkDensity is the fraction of a selection's text that sits inside <a>
// tags, discounting in-page fragment links (href="#...") to 0.3x since they
// are usually footnote/anchor navigation rather than genuine outbound links.
func LinkDensity(s *goquery.Selection) float64 {
	if s == nil || s.Length() == 0 {
		return 0
	}
	textLength := len(InnerText(s, true))
	if textLength == 0 {
		return 0
	}
	var linkLength float64
	s.Find("a").Each(func(_ int, link *goquery.Selection) {
		coefficient := 1.0
		if href, ok := link.Attr("href"); ok && patterns.HashURL.MatchString(href) {
			coefficient = 0.3
		}
		linkLength += float64(len(InnerText(link, true))) * coefficient
	})
	return linkLength / float64(textLength)
}

// ClassWeight scores a selection's class/id attributes: +25 for matching
// patterns.Positive, -25 for patterns.Negative, applied independently to
// class and id (so an element can score -50 or +50 in the worst/best case).
func ClassWeight(s *goquery.Selection) int {
	if s == nil || s.Length() == 0 {
		return 0
	}
	weight := 0
	if class, ok := s.Attr("class"); ok && class != "" {
		if patterns.Negative.MatchString(class) {
			weight -= 25
		}
		if patterns.Positive.MatchString(class) {
			weight += 25
		}
	}
	if id, ok := s.Attr("id"); ok && id != "" {
		if patterns.Negative.MatchString(id) {
			weight -= 25
		}
		if patterns.Positive.MatchString(id) {
			weight += 25
		}
	}
	return weight
}

// HasAncestorTag reports whether s has an ancestor named tagName within
// maxDepth levels (0 = unbounded) satisfying an optional filter.
func HasAncestorTag(s *goquery.Selection, tagName string, maxDepth int, filter func(*goquery.Selection) bool) bool {
	if s == nil || s.Length() == 0 {
		return false
	}
	tagName = strings.ToUpper(tagName)
	depth := 0
	for parent := s.Parent(); parent.Length() > 0; parent = parent.Parent() {
		if maxDepth > 0 && depth > maxDepth {
			return false
		}
		if NodeName(parent) == tagName && (filter == nil || filter(parent)) {
			return true
		}
		depth++
	}
	return false
}

// Ancestors returns a selection's ancestor chain, nearest first, optionally
// limited to maxDepth levels (0 = unbounded).
func Ancestors(s *goquery.Selection, maxDepth int) []*goquery.Selection {
	var out []*goquery.Selection
	i := 0
	for parent := s.Parent(); parent.Length() > 0; parent = parent.Parent() {
		out = append(out, parent)
		i++
		if maxDepth > 0 && i == maxDepth {
			break
		}
	}
	return out
}

// IsElementWithoutContent reports whether a selection has no text and no
// children other than <br>/<hr>.
func IsElementWithoutContent(s *goquery.Selection) bool {
	if s == nil || s.Length() == 0 {
		return true
	}
	if strings.TrimSpace(s.Text()) != "" {
		return false
	}
	children := s.Children()
	brHr := s.Find("br").Length() + s.Find("hr").Length()
	return children.Length() == 0 || children.Length() == brHr
}

// HasSingleTagInsideElement reports whether s has exactly one element child,
// of the given tag, and no non-empty text nodes of its own.
func HasSingleTagInsideElement(s *goquery.Selection, tag string) bool {
	if s == nil || s.Length() == 0 {
		return false
	}
	if s.Children().Length() != 1 || NodeName(s.Children()) != strings.ToUpper(tag) {
		return false
	}
	hasText := false
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		if n := c.Get(0); n != nil && n.Type == html.TextNode && strings.TrimSpace(c.Text()) != "" {
			hasText = true
		}
	})
	return !hasText
}

// HasChildBlockElement reports whether s contains any of the div->p
// candidate block tags as a descendant.
func HasChildBlockElement(s *goquery.Selection) bool {
	if s == nil || s.Length() == 0 {
		return false
	}
	for tag := range patterns.DivToPElems {
		if s.Find(strings.ToLower(tag)).Length() > 0 {
			return true
		}
	}
	return false
}

// IsPhrasingContent reports whether a raw html.Node counts as inline
// content: text, a known phrasing element, or an <a>/<del>/<ins> whose
// children are themselves all phrasing content.
func IsPhrasingContent(n *html.Node) bool {
	if n == nil {
		return false
	}
	if n.Type == html.TextNode {
		return true
	}
	if n.Type != html.ElementNode {
		return false
	}
	tag := strings.ToUpper(n.Data)
	if patterns.PhrasingElems[tag] {
		return true
	}
	if tag == "A" || tag == "DEL" || tag == "INS" {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !IsPhrasingContent(c) {
				return false
			}
		}
		return true
	}
	return false
}

// IsWhitespace reports whether a node is a whitespace-only text node or a
// <br> element, both of which preprocessing treats as structurally inert.
func IsWhitespace(n *html.Node) bool {
	if n == nil {
		return true
	}
	if n.Type == html.TextNode {
		return patterns.Whitespace.MatchString(n.Data)
	}
	return strings.ToUpper(n.Data) == "BR"
}

// IsSingleImage reports whether s is an <img>, or wraps exactly one
// descendant chain down to a single <img> with no text anywhere in between.
func IsSingleImage(s *goquery.Selection) bool {
	if s == nil || s.Length() == 0 {
		return false
	}
	if NodeName(s) == "IMG" {
		return true
	}
	if s.Children().Length() != 1 || strings.TrimSpace(s.Text()) != "" {
		return false
	}
	return IsSingleImage(s.Children())
}

// NextNode returns the next node in document (depth-first) order, used by
// traversals that mutate the tree as they go and so cannot rely on a
// pre-computed NodeList.
func NextNode(s *goquery.Selection, ignoreSelfAndKids bool) *goquery.Selection {
	if s == nil || s.Length() == 0 {
		return nil
	}
	if !ignoreSelfAndKids && s.Children().Length() > 0 {
		return s.Children().First()
	}
	if s.Next().Length() > 0 {
		return s.Next()
	}
	parent := s.Parent()
	for parent.Length() > 0 && parent.Next().Length() == 0 {
		parent = parent.Parent()
	}
	if parent.Length() == 0 {
		return nil
	}
	return parent.Next()
}

// RemoveAndGetNext removes s from the tree and returns what NextNode would
// have returned beforehand, letting a caller walk-and-prune in one pass.
func RemoveAndGetNext(s *goquery.Selection) *goquery.Selection {
	next := NextNode(s, true)
	if s.Length() > 0 {
		s.Remove()
	}
	return next
}

// NewElement builds a detached element of the given tag, for callers that
// need to splice freshly-constructed nodes (a promoted <p>, a preserved-
// links container) into an existing selection.
func NewElement(tag string) *goquery.Selection {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<" + tag + "></" + tag + ">"))
	if err != nil {
		return nil
	}
	return doc.Find(tag)
}

// SetTag replaces s with a new element of tagName carrying the same
// attributes and HTML content, and returns the replacement selection.
func SetTag(s *goquery.Selection, tagName string) *goquery.Selection {
	if s == nil || s.Length() == 0 {
		return nil
	}
	newElem := NewElement(tagName)
	if newElem == nil {
		return nil
	}
	for _, attr := range s.Get(0).Attr {
		newElem.SetAttr(attr.Key, attr.Val)
	}
	if h, err := s.Html(); err == nil {
		newElem.SetHtml(h)
	}
	s.ReplaceWithSelection(newElem)
	return newElem
}
