// Package cleanup trims the selected content down to something safe and
// presentable: stripping presentational markup, removing elements that only
// look like content (ad units, share widgets, nav tables dressed up as
// lists), classifying and flattening layout tables, deduplicating headings,
// and sanitizing what remains. Grounded on the teacher's
// prepArticle/clean/cleanConditionally/markDataTables
// (internal/readability/cleanup.go).
package cleanup

import (
	"math"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/inkwell-go/readability/internal/dom"
	"github.com/inkwell-go/readability/internal/patterns"
)

// Tuning constants grounded on the numeric literals scattered through the
// teacher's cleanConditionally/shouldRemoveNode family; the refactor that
// introduced named constants for these never actually defined them.
const (
	MinCommaCount                        = 10
	MinContentTextLength                 = 25
	MinParagraphLength                   = 80
	HeadingDensityThreshold               = 0.9
	ConditionalWeightThresholdLow        = 25
	ConditionalLinkDensityThresholdLow   = 0.2
	ConditionalLinkDensityThresholdHigh  = 0.5
	MinEmbedContentLength                = 75
	ListLinkDensityThreshold             = 0.25
	TitleSimilarityThreshold             = 0.75

	NavigationLinkDensityThreshold   = 0.5
	LayoutTableNestingThreshold      = 4
	LayoutTableTextContentThreshold  = 500
	DataTableMinRows                 = 10
	DataTableMinColumns              = 4
	DataTableMinCells                = 20
)

var imageExtension = regexp.MustCompile(`\.(jpg|jpeg|png|webp)`)

// Options configures the cleanup pass; Config in the root package maps
// directly onto this.
type Options struct {
	CleanConditionally     bool
	PreserveImportantLinks bool
	KeepClasses            bool
	ClassesToPreserve      []string
	AllowedVideoHosts      *regexp.Regexp
	CharThreshold          int
	PreserveImages         bool
	BaseURL                string
}

// Run applies the full structural cleanup pipeline to article content
// in-place, in this order: styles, data-table marking, lazy-image fixups,
// relative-URL resolution, image removal (unless images are preserved),
// conditional removal of forms/fieldsets, removal of non-allowed
// object/embed and of footer/link/aside/nav chrome (salvaging important
// links first if configured), heading clean-up, share widgets, iframes and
// form controls, a second heading clean-up, conditional removal of
// tables/lists/divs, then trimming of empty paragraphs and of <br>s before
// paragraphs, collapsing single-cell tables, and class stripping.
func Run(content *goquery.Selection, opts Options, title string) {
	cleanStyles(content)
	markDataTables(content)
	fixLazyImages(content)
	fixRelativeURIs(content, opts.BaseURL)

	if !opts.PreserveImages {
		content.Find("img, picture, figure").Remove()
	}

	cleanConditionally(content, opts, "form")
	cleanConditionally(content, opts, "fieldset")
	removeEmbeds(content, opts, "object")
	removeEmbeds(content, opts, "embed")

	removeChrome(content, opts, "footer")
	content.Find("link").Remove()
	removeChrome(content, opts, "aside")
	removeChrome(content, opts, "nav")

	cleanHeaders(content, title)

	content.Children().Each(func(_ int, child *goquery.Selection) {
		cleanMatchedNodes(child, opts.CharThreshold)
	})

	removeEmbeds(content, opts, "iframe")
	content.Find("input, textarea, select, button").Remove()

	cleanHeaders(content, title)

	cleanConditionally(content, opts, "table")
	cleanConditionally(content, opts, "ul")
	cleanConditionally(content, opts, "div")

	removeEmptyParagraphs(content)
	removeBrsBeforeParagraphs(content)
	collapseSingleCellTables(content)

	if !opts.KeepClasses {
		cleanClasses(content, opts.ClassesToPreserve)
	}
}

func removeEmbeds(content *goquery.Selection, opts Options, tag string) {
	content.Find(tag).Each(func(_ int, node *goquery.Selection) {
		if opts.PreserveImportantLinks {
			salvageImportantLinks(content, node)
		}
		if isAllowedVideo(node, tag, opts.AllowedVideoHosts) {
			return
		}
		node.Remove()
	})
}

func removeChrome(content *goquery.Selection, opts Options, tag string) {
	content.Find(tag).Each(func(_ int, node *goquery.Selection) {
		if opts.PreserveImportantLinks {
			salvageImportantLinks(content, node)
		}
		node.Remove()
	})
}

func isAllowedVideo(node *goquery.Selection, tag string, allowed *regexp.Regexp) bool {
	if allowed == nil {
		allowed = patterns.AllowedVideoHosts
	}
	for _, attr := range node.Get(0).Attr {
		if allowed.MatchString(attr.Val) {
			return true
		}
	}
	if tag == "object" {
		if h, err := node.Html(); err == nil && allowed.MatchString(h) {
			return true
		}
	}
	return false
}

// salvageImportantLinks appends a small paragraph-wrapped copy of every
// "read more"-shaped link inside node to content before node is discarded —
// Config.PreserveImportantLinks's sole behavior.
func salvageImportantLinks(content *goquery.Selection, node *goquery.Selection) {
	var container *goquery.Selection
	node.Find("a").Each(func(_ int, link *goquery.Selection) {
		if !isImportantLink(link) {
			return
		}
		if container == nil {
			container = dom.NewElement("div")
			container.SetAttr("class", "readability-preserved-links")
		}
		p := dom.NewElement("p")
		p.AppendSelection(link.Clone())
		container.AppendSelection(p)
	})
	if container != nil {
		content.AppendSelection(container)
	}
}

func isImportantLink(link *goquery.Selection) bool {
	text := strings.ToLower(dom.InnerText(link, true))
	if patterns.ImportantLinkPhrases.MatchString(text) {
		return true
	}
	if text == "more" || strings.HasSuffix(text, " more") {
		return true
	}
	return strings.Contains(text, "...") && len(text) < 30
}

func cleanMatchedNodes(e *goquery.Selection, charThreshold int) {
	endMarker := dom.NextNode(e, true)
	node := dom.NextNode(e, false)
	for node != nil && node.Length() > 0 && endMarker != nil && endMarker.Length() > 0 && node.Get(0) != endMarker.Get(0) {
		matchString := ""
		if class, ok := node.Attr("class"); ok {
			matchString += class + " "
		}
		if id, ok := node.Attr("id"); ok {
			matchString += id
		}
		if patterns.ShareElements.MatchString(matchString) && len(dom.InnerText(node, true)) < charThreshold {
			node = dom.RemoveAndGetNext(node)
		} else {
			node = dom.NextNode(node, false)
		}
	}
}

func cleanConditionally(content *goquery.Selection, opts Options, tag string) {
	if !opts.CleanConditionally {
		return
	}
	content.Find(tag).Each(func(_ int, node *goquery.Selection) {
		if shouldSkipConditional(node, tag) {
			return
		}
		if shouldRemoveConditional(node, tag) {
			node.Remove()
		}
	})
}

func shouldSkipConditional(node *goquery.Selection, tag string) bool {
	if tag == "table" && node.AttrOr("data-readability-table-type", "") == "data" {
		return true
	}
	skip := false
	node.ParentsFiltered("table").Each(func(_ int, parent *goquery.Selection) {
		if parent.AttrOr("data-readability-table-type", "") == "data" {
			skip = true
		}
	})
	if skip {
		return true
	}
	if tag == "table" && node.AttrOr("data-readability-table-type", "") == "presentation" {
		if node.AttrOr("data-readability-table-nav", "") == "true" {
			return false
		}
		textLength := len(dom.InnerText(node, true))
		if textLength > LayoutTableTextContentThreshold {
			linkText := 0
			node.Find("a").Each(func(_ int, a *goquery.Selection) { linkText += len(dom.InnerText(a, true)) })
			if float64(linkText)/float64(textLength) < 0.5 {
				return true
			}
		}
	}
	return dom.HasAncestorTag(node, "code", -1, nil)
}

func shouldPreserveStructure(node *goquery.Selection, tag string) bool {
	if node.Is("h1, h2, h3") {
		return true
	}
	if (tag == "ul" || tag == "ol") && node.Find("li").Length() >= 3 {
		return true
	}
	return len(dom.InnerText(node, true)) > MinParagraphLength*2
}

type nodeMetrics struct {
	paragraphCount, imgCount, liCount, inputCount, embedCount int
	headingDensity, linkDensity                               float64
	contentLength                                             int
	hasListContent                                            bool
}

func computeMetrics(node *goquery.Selection, allowed *regexp.Regexp) nodeMetrics {
	m := nodeMetrics{}
	m.paragraphCount = node.Find("p").Length()
	m.imgCount = node.Find("img").Length()
	m.liCount = node.Find("li").Length() - 100
	m.inputCount = node.Find("input").Length()

	headingText := 0
	node.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, h *goquery.Selection) {
		headingText += len(dom.InnerText(h, true))
	})
	totalText := len(dom.InnerText(node, true))
	if totalText > 0 {
		m.headingDensity = float64(headingText) / float64(totalText)
	}

	if allowed == nil {
		allowed = patterns.AllowedVideoHosts
	}
	node.Find("object, embed, iframe").Each(func(_ int, embed *goquery.Selection) {
		for _, attr := range embed.Get(0).Attr {
			if allowed.MatchString(attr.Val) {
				return
			}
		}
		m.embedCount++
	})

	m.linkDensity = dom.LinkDensity(node)
	m.contentLength = totalText

	if node.Is("ul") || node.Is("ol") {
		m.hasListContent = hasNonLinkListContent(node)
	}
	return m
}

func hasNonLinkListContent(node *goquery.Selection) bool {
	totalText, totalLinks := 0, 0
	node.Find("li").Each(func(_ int, li *goquery.Selection) {
		text := dom.InnerText(li, true)
		totalText += len(text)
		li.Find("a").Each(func(_ int, a *goquery.Selection) {
			if dt, ok := a.Attr("data-type"); ok && (dt == "indexterm" || dt == "noteref") {
				return
			}
			totalLinks += len(dom.InnerText(a, true))
		})
	})
	if totalText == 0 {
		return false
	}
	density := float64(totalLinks) / float64(totalText)
	return density < ListLinkDensityThreshold || totalText > MinParagraphLength
}

func shouldRemoveConditional(node *goquery.Selection, tag string) bool {
	if shouldPreserveStructure(node, tag) {
		return false
	}
	weight := dom.ClassWeight(node)
	if dom.CharCount(node, ",") >= MinCommaCount {
		return false
	}
	if hasImportantLinks(node) {
		return false
	}

	m := computeMetrics(node, nil)
	isList := tag == "ul" || tag == "ol"

	remove := evaluateRemoval(node, isList, weight, m)
	if remove && isList && !m.hasListContent && m.imgCount == m.liCount {
		return false
	}
	return remove
}

func evaluateRemoval(node *goquery.Selection, isList bool, weight int, m nodeMetrics) bool {
	if m.imgCount > 1 && float64(m.paragraphCount)/float64(m.imgCount) < 0.5 && !dom.HasAncestorTag(node, "figure", 3, nil) {
		return true
	}
	if !isList && m.liCount > m.paragraphCount*2 && m.contentLength < MinContentTextLength*2 {
		return true
	}
	if float64(m.inputCount) > math.Floor(float64(m.paragraphCount)/3) {
		return true
	}
	if !isList && m.headingDensity < HeadingDensityThreshold && m.contentLength < MinContentTextLength &&
		(m.imgCount == 0 || m.imgCount > 2) && !dom.HasAncestorTag(node, "figure", 3, nil) {
		return true
	}
	if !isList && weight < ConditionalWeightThresholdLow && m.linkDensity > ConditionalLinkDensityThresholdLow {
		return true
	}
	if weight >= ConditionalWeightThresholdLow && m.linkDensity > ConditionalLinkDensityThresholdHigh && !(isList && m.liCount > 4) {
		return true
	}
	if (m.embedCount == 1 && m.contentLength < MinEmbedContentLength) || m.embedCount > 1 {
		return true
	}
	return false
}

func hasImportantLinks(node *goquery.Selection) bool {
	found := false
	node.Find("a").Each(func(_ int, a *goquery.Selection) {
		if isImportantLink(a) {
			found = true
		}
	})
	return found
}

// cleanHeaders keeps the first h1/h2 that duplicates the article title and
// removes any later ones, then de-duplicates any remaining h1/h2/h3 with
// identical text and drops headers with a negative class weight.
func cleanHeaders(e *goquery.Selection, title string) {
	seen := make(map[string]bool)
	var titleMatches []*goquery.Selection

	e.Find("h1, h2").Each(func(_ int, header *goquery.Selection) {
		if dom.ClassWeight(header) < 0 {
			return
		}
		text := strings.TrimSpace(dom.InnerText(header, false))
		if headerDuplicatesTitle(header, title) || strings.EqualFold(text, strings.TrimSpace(title)) {
			titleMatches = append(titleMatches, header)
		}
	})
	if len(titleMatches) > 0 {
		seen[strings.TrimSpace(dom.InnerText(titleMatches[0], false))] = true
		for _, m := range titleMatches[1:] {
			m.Remove()
		}
	}

	e.Find("h1, h2, h3").Each(func(_ int, header *goquery.Selection) {
		text := strings.TrimSpace(dom.InnerText(header, false))
		if dom.ClassWeight(header) < 0 {
			header.Remove()
			return
		}
		if headerDuplicatesTitle(header, title) || strings.EqualFold(text, strings.TrimSpace(title)) {
			return
		}
		if seen[text] {
			header.Remove()
		} else {
			seen[text] = true
		}
	})
}

func headerDuplicatesTitle(node *goquery.Selection, title string) bool {
	tag := dom.NodeName(node)
	if tag != "H1" && tag != "H2" {
		return false
	}
	heading := strings.TrimSpace(dom.InnerText(node, false))
	titleTrimmed := strings.TrimSpace(title)
	if heading == "" || titleTrimmed == "" {
		return false
	}
	if strings.EqualFold(heading, titleTrimmed) {
		return true
	}
	return dom.TextSimilarity(titleTrimmed, heading) > TitleSimilarityThreshold
}

func removeEmptyParagraphs(content *goquery.Selection) {
	content.Find("p").Each(func(_ int, p *goquery.Selection) {
		embeds := p.Find("img").Length() + p.Find("embed").Length() + p.Find("object").Length() + p.Find("iframe").Length()
		if embeds == 0 && dom.InnerText(p, false) == "" {
			p.Remove()
		}
	})
}

func removeBrsBeforeParagraphs(content *goquery.Selection) {
	content.Find("br").Each(func(_ int, br *goquery.Selection) {
		if next := br.Next(); next.Length() > 0 && dom.NodeName(next) == "P" {
			br.Remove()
		}
	})
}

func collapseSingleCellTables(content *goquery.Selection) {
	content.Find("table").Each(func(_ int, table *goquery.Selection) {
		tbody := table.Find("tbody").First()
		if tbody.Length() == 0 {
			tbody = table
		}
		rows := tbody.Find("tr")
		if rows.Length() != 1 {
			return
		}
		cells := rows.First().Find("td")
		if cells.Length() != 1 {
			return
		}
		cell := cells.First()
		if allPhrasing(cell) {
			table.ReplaceWithSelection(dom.SetTag(cell, "p"))
		} else {
			table.ReplaceWithSelection(dom.SetTag(cell, "div"))
		}
	})
}

func allPhrasing(cell *goquery.Selection) bool {
	ok := true
	cell.Contents().Each(func(_ int, c *goquery.Selection) {
		if n := c.Get(0); n == nil || !dom.IsPhrasingContent(n) {
			ok = false
		}
	})
	return ok
}

func cleanStyles(e *goquery.Selection) {
	if e == nil || e.Length() == 0 || dom.NodeName(e) == "SVG" {
		return
	}
	for _, attr := range patterns.PresentationalAttributes {
		e.RemoveAttr(attr)
	}
	if patterns.DeprecatedSizeAttributeElems[dom.NodeName(e)] {
		e.RemoveAttr("width")
		e.RemoveAttr("height")
	}
	e.Children().Each(func(_ int, c *goquery.Selection) { cleanStyles(c) })
}

func cleanClasses(node *goquery.Selection, preserve []string) {
	if node == nil || node.Length() == 0 {
		return
	}
	if class, ok := node.Attr("class"); ok && class != "" {
		var keep []string
		for _, cls := range strings.Fields(class) {
			for _, p := range preserve {
				if cls == p {
					keep = append(keep, cls)
					break
				}
			}
		}
		if len(keep) > 0 {
			node.SetAttr("class", strings.Join(keep, " "))
		} else {
			node.RemoveAttr("class")
		}
	}
	node.Children().Each(func(_ int, c *goquery.Selection) { cleanClasses(c, preserve) })
}

// fixRelativeURIs rewrites href/src attributes that are relative to an
// absolute form, resolved against base. A malformed base or malformed
// attribute value is left untouched rather than dropped.
func fixRelativeURIs(content *goquery.Selection, base string) {
	if base == "" {
		return
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return
	}
	rewrite := func(attr string) func(int, *goquery.Selection) {
		return func(_ int, s *goquery.Selection) {
			raw, ok := s.Attr(attr)
			if !ok || raw == "" || strings.HasPrefix(raw, "#") {
				return
			}
			ref, err := url.Parse(raw)
			if err != nil {
				return
			}
			s.SetAttr(attr, baseURL.ResolveReference(ref).String())
		}
	}
	content.Find("a, area").Each(rewrite("href"))
	content.Find("img, iframe, embed, source, video, audio").Each(rewrite("src"))
}

func fixLazyImages(root *goquery.Selection) {
	root.Find("img, picture, figure").Each(func(_ int, elem *goquery.Selection) {
		src, hasSrc := elem.Attr("src")
		_, hasSrcset := elem.Attr("srcset")
		class, _ := elem.Attr("class")
		if (hasSrc || hasSrcset) && !strings.Contains(strings.ToLower(class), "lazy") {
			return
		}
		if hasSrc && patterns.B64DataURL.MatchString(src) {
			parts := patterns.B64DataURL.FindStringSubmatch(src)
			if len(parts) > 1 && parts[1] == "image/svg+xml" {
				return
			}
			hasImageAttr := false
			for _, attr := range elem.Get(0).Attr {
				if attr.Key == "src" {
					continue
				}
				if imageExtension.MatchString(attr.Val) {
					hasImageAttr = true
					break
				}
			}
			if hasImageAttr {
				if b64starts := strings.Index(src, "base64,") + 7; b64starts >= 7 && len(src)-b64starts < 133 {
					elem.RemoveAttr("src")
				}
			}
		}
		for _, attr := range elem.Get(0).Attr {
			if attr.Key == "src" || attr.Key == "srcset" || attr.Key == "alt" {
				continue
			}
			if regexp.MustCompile(`\.(jpg|jpeg|png|webp)\s+\d`).MatchString(attr.Val) {
				elem.SetAttr("srcset", attr.Val)
			} else if regexp.MustCompile(`^\s*\S+\.(jpg|jpeg|png|webp)\S*\s*$`).MatchString(attr.Val) {
				elem.SetAttr("src", attr.Val)
			}
		}
	})
}
