// Package preprocess runs the single document-order pass that turns a raw
// parsed document into the element list the scorer consumes: stripping
// presentational noise, folding obvious markup quirks, and pruning anything
// that matches the "almost certainly not content" vocabulary before a single
// score is ever computed. Grounded on the teacher's
// prepDocument/prepareNodesForScoring
// (internal/readability/preparation.go, extraction.go).
package preprocess

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/inkwell-go/readability/internal/dom"
	"github.com/inkwell-go/readability/internal/patterns"
)

// Normalize strips <style>/<script>/<noscript>/<iframe>/<link> tags and HTML
// comments, folds <font> to <span>, and collapses chains of two-or-more
// <br> into paragraph breaks — the markup-level quirks every scoring pass
// needs gone before it can reason about block structure at all, and before
// any inline script text could leak into scored or extracted text.
func Normalize(d *dom.Document) {
	d.Root().Find("style, script, noscript, iframe, link").Remove()
	removeComments(d.Root())

	if body := d.Root().Find("body"); body.Length() > 0 {
		replaceBrs(body)
	}
	d.Root().Find("font").Each(func(_ int, s *goquery.Selection) {
		dom.SetTag(s, "span")
	})
}

// removeComments drops every HTML comment node under root so that no
// commented-out markup can leak into scored text or cleaned-up output.
func removeComments(root *goquery.Selection) {
	root.Find("*").AddBack().Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			for c := n.FirstChild; c != nil; {
				next := c.NextSibling
				if c.Type == html.CommentNode {
					n.RemoveChild(c)
				}
				c = next
			}
		}
	})
}

func replaceBrs(elem *goquery.Selection) {
	elem.Find("br").Each(func(_ int, br *goquery.Selection) {
		next := br.Next()
		replaced := false
		for next.Length() > 0 && dom.NodeName(next) == "BR" {
			replaced = true
			sibling := next.Next()
			next.Remove()
			next = sibling
		}
		if !replaced {
			return
		}

		p := dom.NewElement("p")
		br.ReplaceWithSelection(p)

		next = p.Next()
		for next.Length() > 0 {
			if dom.NodeName(next) == "BR" {
				after := next.Next()
				if after.Length() > 0 && dom.NodeName(after) == "BR" {
					break
				}
			}
			if n := next.Get(0); n != nil && !dom.IsPhrasingContent(n) {
				break
			}
			sibling := next.Next()
			next.Remove()
			p.AppendSelection(next)
			next = sibling
		}

		p.Contents().Each(func(_ int, c *goquery.Selection) {
			if n := c.Get(0); n != nil && n.Type == html.TextNode && n.Data == " " {
				c.Remove()
			}
		})

		if dom.NodeName(p.Parent()) == "P" {
			dom.SetTag(p.Parent(), "div")
		}
	})
}

// Flags mirrors the teacher's bitmask so a relaxed retry pass can disable
// one behavior at a time, in the same order the orchestrator relaxes them.
type Flags struct {
	StripUnlikelys     bool
	WeightClasses      bool // consumed by internal/score, carried here too since both stages gate on the same retry flag
	CleanConditionally bool // consumed by internal/cleanup
}

// DefaultFlags is every relaxation enabled, the starting point of each Parse.
func DefaultFlags() Flags {
	return Flags{StripUnlikelys: true, WeightClasses: true, CleanConditionally: true}
}

// Result is the traversal's output: the elements to hand to the scorer, the
// byline text found along the way (if any), and the document's declared
// language, read off the root <html lang> attribute.
type Result struct {
	Elements []*goquery.Selection
	Byline   string
	Lang     string
}

// Walk performs the document-order traversal: building the candidate list
// for scoring while removing hidden nodes, dialog overlays, byline
// containers, a duplicate title heading, and anything matching the
// unlikely-candidate vocabulary (unless it also looks like it could be the
// content root). root is the traversal's starting point (the orchestrator
// passes <body>; Result.Lang is only filled when root is the <html>
// element). title is the already-extracted
// article title, used to spot and drop a heading that just repeats it.
func Walk(root *goquery.Selection, title string, flags Flags, minContentLength int) Result {
	var res Result
	shouldRemoveTitleHeader := title != ""

	node := root
	if node == nil || node.Length() == 0 {
		return res
	}

	for node != nil && node.Length() > 0 {
		tag := dom.NodeName(node)

		if tag == "HTML" {
			if lang, ok := node.Attr("lang"); ok {
				res.Lang = lang
			}
		}

		matchString := classAndID(node)

		if n := node.Get(0); !dom.IsVisible(n) {
			node = dom.RemoveAndGetNext(node)
			continue
		}

		if modal, ok := node.Attr("aria-modal"); ok && modal == "true" {
			if role, ok := node.Attr("role"); ok && role == "dialog" {
				node = dom.RemoveAndGetNext(node)
				continue
			}
		}

		if res.Byline == "" && isByline(node, matchString) {
			res.Byline = dom.InnerText(node, true)
			node = dom.RemoveAndGetNext(node)
			continue
		}

		if shouldRemoveTitleHeader && headerDuplicatesTitle(node, title) {
			shouldRemoveTitleHeader = false
			node = dom.RemoveAndGetNext(node)
			continue
		}

		if flags.StripUnlikelys {
			unlikely := patterns.Unlikely.MatchString(matchString)
			maybeCandidate := patterns.MaybeCandidate.MatchString(matchString)
			if unlikely && (!maybeCandidate || len(dom.InnerText(node, true)) < minContentLength) &&
				!dom.HasAncestorTag(node, "table", -1, nil) && !dom.HasAncestorTag(node, "code", -1, nil) &&
				tag != "BODY" && tag != "A" {
				node = dom.RemoveAndGetNext(node)
				continue
			}
			if role, ok := node.Attr("role"); ok && patterns.UnlikelyRoles[role] {
				node = dom.RemoveAndGetNext(node)
				continue
			}
		}

		if isHeaderOrSectionWithoutContent(node, tag) {
			node = dom.RemoveAndGetNext(node)
			continue
		}

		if patterns.TagsToScore[tag] {
			res.Elements = append(res.Elements, node)
		}

		if tag == "DIV" {
			if !dom.HasChildBlockElement(node) {
				node = dom.SetTag(node, "p")
				res.Elements = append(res.Elements, node)
			} else if dom.HasSingleTagInsideElement(node, "P") && dom.LinkDensity(node) < 0.25 {
				pChild := node.Children().First()
				node.ReplaceWithSelection(pChild)
				node = pChild
				res.Elements = append(res.Elements, node)
			}
		}

		node = dom.NextNode(node, false)
	}

	return res
}

func classAndID(s *goquery.Selection) string {
	var b strings.Builder
	if class, ok := s.Attr("class"); ok {
		b.WriteString(class)
		b.WriteString(" ")
	}
	if id, ok := s.Attr("id"); ok {
		b.WriteString(id)
	}
	return b.String()
}

func isByline(s *goquery.Selection, matchString string) bool {
	rel, _ := s.Attr("rel")
	itemprop, _ := s.Attr("itemprop")
	if rel == "author" || (itemprop != "" && strings.Contains(itemprop, "author")) || patterns.Byline.MatchString(matchString) {
		return dom.IsValidByline(dom.InnerText(s, true))
	}
	return false
}

func headerDuplicatesTitle(s *goquery.Selection, title string) bool {
	tag := dom.NodeName(s)
	if tag != "H1" && tag != "H2" {
		return false
	}
	heading := strings.TrimSpace(dom.InnerText(s, false))
	if heading == "" || title == "" {
		return false
	}
	return dom.FuzzyEquals(heading, strings.TrimSpace(title), 0.25)
}

func isHeaderOrSectionWithoutContent(s *goquery.Selection, tag string) bool {
	switch tag {
	case "DIV", "SECTION", "HEADER", "H1", "H2", "H3", "H4", "H5", "H6":
	default:
		return false
	}
	return dom.IsElementWithoutContent(s)
}
