package dom

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

func TestDocumentIDsAreStableAndUnique(t *testing.T) {
	doc := mustDoc(t, `<html><body><div id="a"><p>one</p><p>two</p></div></body></html>`)
	d := New(doc)

	ps := doc.Find("p")
	id1 := d.ID(ps.Eq(0).Get(0))
	id2 := d.ID(ps.Eq(1).Get(0))
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d and %d", id1, id2)
	}
	if d.Node(id1) != ps.Eq(0).Get(0) {
		t.Error("Node(id1) did not round-trip to the original node")
	}
}

func TestCharCountCountsAllCommaVariants(t *testing.T) {
	doc := mustDoc(t, `<p>one, two، three、four，five</p>`)
	if got := CharCount(doc.Find("p"), ","); got != 4 {
		t.Errorf("CharCount = %d, want 4 (one per comma variant)", got)
	}
}

func TestLinkDensity(t *testing.T) {
	doc := mustDoc(t, `<p>some text <a href="/x">a link with words</a> more text</p>`)
	density := LinkDensity(doc.Find("p"))
	if density <= 0 || density >= 1 {
		t.Errorf("expected density strictly between 0 and 1, got %v", density)
	}
}

func TestLinkDensityDiscountsHashLinks(t *testing.T) {
	doc := mustDoc(t, `<p>some text <a href="#note">footnote link text here</a> more text</p>`)
	withHash := LinkDensity(doc.Find("p"))

	doc2 := mustDoc(t, `<p>some text <a href="/note">footnote link text here</a> more text</p>`)
	withoutHash := LinkDensity(doc2.Find("p"))

	if withHash >= withoutHash {
		t.Errorf("expected hash link density (%v) to be discounted below real link density (%v)", withHash, withoutHash)
	}
}

func TestClassWeight(t *testing.T) {
	doc := mustDoc(t, `<div class="article-content"></div>`)
	if w := ClassWeight(doc.Find("div")); w != 25 {
		t.Errorf("expected +25 for positive class, got %d", w)
	}

	doc2 := mustDoc(t, `<div class="sidebar-widget"></div>`)
	if w := ClassWeight(doc2.Find("div")); w != -25 {
		t.Errorf("expected -25 for negative class, got %d", w)
	}
}

func TestHasAncestorTag(t *testing.T) {
	doc := mustDoc(t, `<table><tr><td><p>cell text</p></td></tr></table>`)
	p := doc.Find("p")
	if !HasAncestorTag(p, "table", -1, nil) {
		t.Error("expected p to have a table ancestor")
	}
	if HasAncestorTag(p, "article", -1, nil) {
		t.Error("did not expect p to have an article ancestor")
	}
}

func TestIsElementWithoutContent(t *testing.T) {
	doc := mustDoc(t, `<div><br><hr></div>`)
	if !IsElementWithoutContent(doc.Find("div")) {
		t.Error("expected div with only br/hr to count as without content")
	}

	doc2 := mustDoc(t, `<div>some text</div>`)
	if IsElementWithoutContent(doc2.Find("div")) {
		t.Error("did not expect div with text to count as without content")
	}
}

func TestIsSingleImage(t *testing.T) {
	doc := mustDoc(t, `<div><span><img src="x.jpg"></span></div>`)
	if !IsSingleImage(doc.Find("div")) {
		t.Error("expected nested single-image wrapper to be detected")
	}

	doc2 := mustDoc(t, `<div><img src="x.jpg">text</div>`)
	if IsSingleImage(doc2.Find("div")) {
		t.Error("did not expect a div with text alongside the image to count")
	}
}

func TestRemoveAndGetNext(t *testing.T) {
	doc := mustDoc(t, `<div><p id="one">one</p><p id="two">two</p></div>`)
	first := doc.Find("#one")
	next := RemoveAndGetNext(first)
	if next == nil || next.Length() == 0 {
		t.Fatal("expected a next node")
	}
	if id, _ := next.Attr("id"); id != "two" {
		t.Errorf("expected next node to be #two, got %q", id)
	}
	if doc.Find("#one").Length() != 0 {
		t.Error("expected #one to have been removed from the tree")
	}
}

func TestSetTag(t *testing.T) {
	doc := mustDoc(t, `<div class="keep"><span>inner</span></div>`)
	replaced := SetTag(doc.Find("div"), "section")
	if NodeName(replaced) != "SECTION" {
		t.Errorf("expected replacement tag SECTION, got %s", NodeName(replaced))
	}
	if class, _ := replaced.Attr("class"); class != "keep" {
		t.Errorf("expected attributes to carry over, got class=%q", class)
	}
	if replaced.Find("span").Length() != 1 {
		t.Error("expected children to carry over")
	}
}

func TestWordCount(t *testing.T) {
	if n := WordCount("the quick brown fox"); n != 4 {
		t.Errorf("expected 4 words, got %d", n)
	}
}

func TestUnescapeHTMLEntities(t *testing.T) {
	if got := UnescapeHTMLEntities("Tom &amp; Jerry &#8217;s"); got != "Tom & Jerry ’s" {
		t.Errorf("unexpected unescape result: %q", got)
	}
}

func TestFuzzyEquals(t *testing.T) {
	if !FuzzyEquals("Foo Bar — Example.com", "Foo Bar", 0.7) {
		t.Error("expected a site-suffixed title to fuzzy-match its bare form")
	}
	if FuzzyEquals("Completely Unrelated Headline", "Foo Bar", 0.2) {
		t.Error("did not expect unrelated strings to fuzzy-match at a tight threshold")
	}
}

func TestIsValidByline(t *testing.T) {
	if !IsValidByline("By Jane Doe") {
		t.Error("expected a short byline to be valid")
	}
	if IsValidByline(strings.Repeat("word ", 30)) {
		t.Error("did not expect a long paragraph to count as a valid byline")
	}
}
