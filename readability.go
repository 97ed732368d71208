package readability

import (
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"lukechampine.com/blake3"

	"github.com/inkwell-go/readability/internal/cleanup"
	"github.com/inkwell-go/readability/internal/dom"
	"github.com/inkwell-go/readability/internal/ftr"
	"github.com/inkwell-go/readability/internal/metadata"
	"github.com/inkwell-go/readability/internal/patterns"
	"github.com/inkwell-go/readability/internal/preprocess"
	"github.com/inkwell-go/readability/internal/score"
	"github.com/inkwell-go/readability/internal/selector"
)

// Parser runs the extraction pipeline against a Config. The zero value is
// not valid; use New.
type Parser struct {
	config Config
}

// New builds a Parser from DefaultConfig, applying each Option in order.
//
// Example:
//
//	parser := readability.New(
//	    readability.WithBaseURL("https://example.com/post"),
//	    readability.WithPreserveImportantLinks(true),
//	)
func New(opts ...Option) *Parser {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Parser{config: cfg}
}

// ParseHTML extracts the article from an HTML string, bounded by
// Config.Timeout.
func (p *Parser) ParseHTML(html string) (*Article, error) {
	type result struct {
		article *Article
		err     error
	}
	done := make(chan result, 1)
	go func() {
		article, err := p.parse(html)
		done <- result{article, err}
	}()

	select {
	case r := <-done:
		return r.article, r.err
	case <-time.After(p.config.Timeout):
		return nil, fmt.Errorf("readability: extraction timed out after %v", p.config.Timeout)
	}
}

// ParseReader reads r fully (bounded by Config.MaxBufferSize) and extracts
// the article from it. Input longer than MaxBufferSize is an error.
func (p *Parser) ParseReader(r io.Reader) (*Article, error) {
	limited := io.LimitReader(r, int64(p.config.MaxBufferSize)+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, WrapError(err, StageParse, "io.ReadAll")
	}
	if len(data) > p.config.MaxBufferSize {
		return nil, WrapError(fmt.Errorf("input exceeds MaxBufferSize of %d bytes", p.config.MaxBufferSize), StageParse, "io.ReadAll")
	}
	return p.ParseHTML(string(data))
}

// ParseWithSelector extracts the article using a site-config escape hatch:
// sel resolves the content subtree directly via expr instead of running the
// scoring/selection stages (C3/C4), but cleanup (C5) and metadata
// extraction (C6) still apply to whatever it returns. Bounded by
// Config.Timeout like ParseHTML.
func (p *Parser) ParseWithSelector(htmlStr string, sel ftr.XPathSelector, expr string) (*Article, error) {
	type result struct {
		article *Article
		err     error
	}
	done := make(chan result, 1)
	go func() {
		article, err := p.parseWithSelector(htmlStr, sel, expr)
		done <- result{article, err}
	}()

	select {
	case r := <-done:
		return r.article, r.err
	case <-time.After(p.config.Timeout):
		return nil, fmt.Errorf("readability: extraction timed out after %v", p.config.Timeout)
	}
}

func (p *Parser) parseWithSelector(htmlStr string, sel ftr.XPathSelector, expr string) (*Article, error) {
	if strings.TrimSpace(htmlStr) == "" {
		return nil, &EmptyDocumentError{}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil, &MalformedDomError{Err: err}
	}
	if doc.Selection.Length() == 0 || len(doc.Nodes) == 0 {
		return nil, &EmptyDocumentError{}
	}

	declaredLang, _ := doc.Find("html").Attr("lang")
	preliminary := metadata.Extract(doc.Selection, "", declaredLang)

	node, err := sel.Select(doc.Nodes[0], expr)
	if err != nil {
		return nil, &NotReaderableError{Reason: fmt.Sprintf("site selector matched nothing: %v", err)}
	}

	content := goquery.NewDocumentFromNode(node).Selection

	cleanup.Run(content, cleanup.Options{
		CleanConditionally:     true,
		PreserveImportantLinks: p.config.PreserveImportantLinks,
		KeepClasses:            p.config.KeepClasses,
		ClassesToPreserve:      p.config.ClassesToPreserve,
		AllowedVideoHosts:      p.config.AllowedVideoHosts,
		CharThreshold:          p.config.CharThreshold,
		PreserveImages:         p.config.PreserveImages,
		BaseURL:                p.config.BaseURL,
	}, preliminary.Title)

	textContent := dom.InnerText(content, true)
	if len(textContent) < p.config.CharThreshold {
		return nil, &NotReaderableError{Reason: "site-selected content stayed below CharThreshold"}
	}

	meta := metadata.Extract(doc.Selection, "", declaredLang)
	if meta.Excerpt == "" {
		meta.Excerpt = firstParagraphText(content)
	}

	rawHTML, err := goquery.OuterHtml(content)
	if err != nil {
		return nil, WrapError(err, StageCleanup, "goquery.OuterHtml")
	}
	contentHTML := cleanup.Sanitize(rawHTML)

	article := &Article{
		Content:     contentHTML,
		TextContent: textContent,
		WordCount:   dom.WordCount(textContent),
		Metadata: Metadata{
			Title:    meta.Title,
			Author:   meta.Byline,
			Excerpt:  meta.Excerpt,
			SiteName: meta.SiteName,
			Language: meta.Lang,
		},
		Lang: meta.Lang,
	}
	if meta.HasPublishedAt {
		article.PublishedAt = meta.PublishedAt
		article.Metadata.PublishedDate = meta.PublishedAt.Format(time.RFC3339)
	} else if meta.PublishedAtRaw != "" {
		article.Metadata.PublishedDate = meta.PublishedAtRaw
	}

	if p.config.ContentDigest {
		sum := blake3.Sum256([]byte(contentHTML))
		article.ContentDigest = hex.EncodeToString(sum[:])
	}

	return article, nil
}

func (p *Parser) parse(htmlStr string) (*Article, error) {
	if strings.TrimSpace(htmlStr) == "" {
		return nil, &EmptyDocumentError{}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil, &MalformedDomError{Err: err}
	}
	if doc.Selection.Length() == 0 {
		return nil, &EmptyDocumentError{}
	}

	// Metadata is read from an untouched parse of the input, since Normalize
	// removes every <script>, including the JSON-LD blocks.
	original, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil, &MalformedDomError{Err: err}
	}

	d := dom.New(doc)
	preprocess.Normalize(d)

	declaredLang, _ := d.Root().Find("html").Attr("lang")

	body := d.Root().Find("body")
	if body.Length() == 0 {
		body = d.Root()
	}
	bodyHTML, err := body.Html()
	if err != nil {
		return nil, WrapError(err, StageParse, "body.Html")
	}

	// A preliminary title is needed before the main walk even runs, since
	// the walk uses it to spot and drop a heading that just repeats it.
	preliminary := metadata.Extract(original.Selection, "", declaredLang)

	attempt := func(flags preprocess.Flags) (*selector.Result, string, error) {
		freshDoc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + bodyHTML + "</body>"))
		if err != nil {
			return nil, "", WrapError(err, StagePreprocess, "goquery.NewDocumentFromReader")
		}
		freshBody := freshDoc.Find("body")
		fd := dom.New(freshDoc)

		walked := preprocess.Walk(freshBody, preliminary.Title, flags, p.config.MinContentLength)

		scorer := &score.Scorer{WeightClasses: flags.WeightClasses}
		candidates := scorer.ScoreNodes(fd, walked.Elements)
		if len(candidates) == 0 {
			return nil, walked.Byline, nil
		}

		sel := selector.Select(candidates, p.config.HoistThreshold, p.config.MinScore, p.config.MaxTopCandidates, dom.NewElement)
		if sel == nil {
			return nil, walked.Byline, nil
		}

		cleanup.Run(sel.Content, cleanup.Options{
			CleanConditionally:     flags.CleanConditionally,
			PreserveImportantLinks: p.config.PreserveImportantLinks,
			KeepClasses:            p.config.KeepClasses,
			ClassesToPreserve:      p.config.ClassesToPreserve,
			AllowedVideoHosts:      p.config.AllowedVideoHosts,
			CharThreshold:          p.config.CharThreshold,
			PreserveImages:         p.config.PreserveImages,
			BaseURL:                p.config.BaseURL,
		}, preliminary.Title)

		return sel, walked.Byline, nil
	}

	flags := preprocess.DefaultFlags()
	sel, byline, err := attempt(flags)
	if err != nil {
		return nil, err
	}

	textLength := contentTextLength(sel)
	for textLength < p.config.CharThreshold {
		relaxed := false
		switch {
		case flags.StripUnlikelys:
			flags.StripUnlikelys = false
			relaxed = true
		case flags.WeightClasses:
			flags.WeightClasses = false
			relaxed = true
		case flags.CleanConditionally:
			flags.CleanConditionally = false
			relaxed = true
		}
		if !relaxed {
			break
		}
		sel, byline, err = attempt(flags)
		if err != nil {
			return nil, err
		}
		textLength = contentTextLength(sel)
	}

	if sel == nil || textLength < p.config.CharThreshold {
		return nil, &NotReaderableError{Reason: "content stayed below CharThreshold after exhausting every relaxation"}
	}

	meta := metadata.Extract(original.Selection, byline, declaredLang)
	if meta.Excerpt == "" {
		meta.Excerpt = firstParagraphText(sel.Content)
	}

	textContent := dom.InnerText(sel.Content, true)

	rawHTML, err := goquery.OuterHtml(sel.Content)
	if err != nil {
		return nil, WrapError(err, StageCleanup, "goquery.OuterHtml")
	}
	contentHTML := cleanup.Sanitize(rawHTML)

	article := &Article{
		Content:          contentHTML,
		TextContent:      textContent,
		WordCount:        dom.WordCount(textContent),
		ReadabilityScore: sel.TopScore,
		Metadata: Metadata{
			Title:    meta.Title,
			Author:   meta.Byline,
			Excerpt:  meta.Excerpt,
			SiteName: meta.SiteName,
			Language: meta.Lang,
		},
		Lang: meta.Lang,
	}
	if meta.HasPublishedAt {
		article.PublishedAt = meta.PublishedAt
		article.Metadata.PublishedDate = meta.PublishedAt.Format(time.RFC3339)
	} else if meta.PublishedAtRaw != "" {
		article.Metadata.PublishedDate = meta.PublishedAtRaw
	}

	if p.config.ContentDigest {
		sum := blake3.Sum256([]byte(contentHTML))
		article.ContentDigest = hex.EncodeToString(sum[:])
	}

	return article, nil
}

func contentTextLength(sel *selector.Result) int {
	if sel == nil {
		return 0
	}
	return len(dom.InnerText(sel.Content, true))
}

// firstParagraphText returns the first non-blank paragraph's text, truncated
// to 200 characters on a word boundary, for use as a last-resort excerpt.
func firstParagraphText(content *goquery.Selection) string {
	var excerpt string
	content.Find("p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if text != "" {
			excerpt = text
			return false
		}
		return true
	})
	return truncateOnWordBoundary(excerpt, 200)
}

// truncateOnWordBoundary shortens s to at most n characters without
// splitting a word, appending "..." when it had to cut.
func truncateOnWordBoundary(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := strings.LastIndexByte(s[:n], ' ')
	if cut <= 0 {
		cut = n
	}
	return strings.TrimSpace(s[:cut]) + "..."
}

// IsProbablyReadable performs a cheap pre-check over an HTML string without
// running the full pipeline: it looks for enough long, visible paragraph-
// shaped text to plausibly be worth extracting. Grounded on
// other_examples/76b9b0e5_go-shiori-go-readability's Check/CheckDocument
// (itself a port of Mozilla's isProbablyReaderable).
func IsProbablyReadable(htmlStr string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return false
	}

	nodes := doc.Find("p, pre, article")
	seenDivs := make(map[*html.Node]bool)
	doc.Find("div > br").Each(func(_ int, br *goquery.Selection) {
		parent := br.Parent()
		n := parent.Get(0)
		if n == nil || seenDivs[n] {
			return
		}
		seenDivs[n] = true
		nodes = nodes.AddSelection(parent)
	})

	var total float64
	found := false
	nodes.EachWithBreak(func(_ int, node *goquery.Selection) bool {
		if n := node.Get(0); n == nil || !dom.IsVisible(n) {
			return true
		}

		class, _ := node.Attr("class")
		id, _ := node.Attr("id")
		matchString := class + " " + id
		if patterns.Unlikely.MatchString(matchString) && !patterns.MaybeCandidate.MatchString(matchString) {
			return true
		}
		if dom.NodeName(node) == "P" && dom.HasAncestorTag(node, "li", -1, nil) {
			return true
		}

		textLength := len(strings.TrimSpace(node.Text()))
		if textLength < 140 {
			return true
		}

		total += math.Sqrt(float64(textLength - 140))
		if total > 20 {
			found = true
			return false
		}
		return true
	})
	return found
}
