package cleanup

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustSelection(t *testing.T, htmlStr string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<div id="readability-content">` + htmlStr + `</div>`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc.Find("#readability-content")
}

func TestRunRemovesEmptyParagraphs(t *testing.T) {
	content := mustSelection(t, `<p>real text</p><p>   </p>`)
	Run(content, Options{ClassesToPreserve: []string{"page"}}, "")
	if content.Find("p").Length() != 1 {
		t.Errorf("expected the empty paragraph to be removed, got %d <p>", content.Find("p").Length())
	}
}

func TestRunStripsPresentationalAttributes(t *testing.T) {
	content := mustSelection(t, `<p style="color:red" align="center">text</p>`)
	Run(content, Options{}, "")
	if _, ok := content.Find("p").Attr("style"); ok {
		t.Error("expected style attribute to be stripped")
	}
	if _, ok := content.Find("p").Attr("align"); ok {
		t.Error("expected align attribute to be stripped")
	}
}

func TestRunRemovesImagesWhenNotPreserved(t *testing.T) {
	content := mustSelection(t, `<p>text</p><img src="x.jpg">`)
	Run(content, Options{PreserveImages: false}, "")
	if content.Find("img").Length() != 0 {
		t.Error("expected images to be removed when PreserveImages is false")
	}
}

func TestRunKeepsImagesWhenPreserved(t *testing.T) {
	content := mustSelection(t, `<p>text</p><img src="x.jpg">`)
	Run(content, Options{PreserveImages: true}, "")
	if content.Find("img").Length() != 1 {
		t.Error("expected images to survive when PreserveImages is true")
	}
}

func TestRunStripsClassesExceptPreserved(t *testing.T) {
	content := mustSelection(t, `<p class="keep-me drop-me">text</p>`)
	Run(content, Options{KeepClasses: false, ClassesToPreserve: []string{"keep-me"}}, "")
	class, _ := content.Find("p").Attr("class")
	if class != "keep-me" {
		t.Errorf("class = %q, want only the preserved class to survive", class)
	}
}

func TestRunKeepsClassesWhenConfigured(t *testing.T) {
	content := mustSelection(t, `<p class="anything">text</p>`)
	Run(content, Options{KeepClasses: true}, "")
	class, _ := content.Find("p").Attr("class")
	if class != "anything" {
		t.Errorf("class = %q, want KeepClasses to leave it untouched", class)
	}
}

func TestRunRemovesFooterAside(t *testing.T) {
	content := mustSelection(t, `<p>text</p><footer>copyright</footer><aside>unrelated</aside>`)
	Run(content, Options{}, "")
	if content.Find("footer").Length() != 0 {
		t.Error("expected footer to be removed")
	}
	if content.Find("aside").Length() != 0 {
		t.Error("expected aside to be removed")
	}
}

func TestRunDedupsRepeatedTitleHeader(t *testing.T) {
	content := mustSelection(t, `<h1>My Post Title</h1><h2>My Post Title</h2><p>`+strings.Repeat("word ", 40)+`</p>`)
	Run(content, Options{}, "My Post Title")
	if content.Find("h1, h2").Length() != 1 {
		t.Errorf("expected only one title-duplicating heading to survive, got %d", content.Find("h1, h2").Length())
	}
}

func TestFixRelativeURIsResolvesAgainstBase(t *testing.T) {
	content := mustSelection(t, `<a href="/about">about</a><img src="photo.jpg">`)
	fixRelativeURIs(content, "https://example.com/posts/one")
	if href, _ := content.Find("a").Attr("href"); href != "https://example.com/about" {
		t.Errorf("href = %q", href)
	}
	if src, _ := content.Find("img").Attr("src"); src != "https://example.com/posts/photo.jpg" {
		t.Errorf("src = %q", src)
	}
}

func TestFixRelativeURIsNoopWithoutBase(t *testing.T) {
	content := mustSelection(t, `<a href="/about">about</a>`)
	fixRelativeURIs(content, "")
	if href, _ := content.Find("a").Attr("href"); href != "/about" {
		t.Errorf("href = %q, expected unchanged when no base is set", href)
	}
}

func TestMarkDataTablesClassifiesPresentationAndData(t *testing.T) {
	content := mustSelection(t, `
		<table role="presentation"><tr><td>layout</td></tr></table>
		<table summary="stats"><thead><tr><th>H</th></tr></thead><tbody><tr><td>1</td></tr></tbody></table>
	`)
	markDataTables(content)

	tables := content.Find("table")
	if typ := tables.Eq(0).AttrOr("data-readability-table-type", ""); typ != "presentation" {
		t.Errorf("expected first table to be classified presentation, got %q", typ)
	}
	if typ := tables.Eq(1).AttrOr("data-readability-table-type", ""); typ != "data" {
		t.Errorf("expected second table to be classified data, got %q", typ)
	}
}

func TestCollapseSingleCellTables(t *testing.T) {
	content := mustSelection(t, `<table><tr><td>just text</td></tr></table>`)
	collapseSingleCellTables(content)
	if content.Find("table").Length() != 0 {
		t.Error("expected the single-cell table to be collapsed away")
	}
	if content.Find("p").Length() != 1 {
		t.Error("expected the collapsed cell to become a paragraph")
	}
}

func TestSanitizeStripsScript(t *testing.T) {
	out := Sanitize(`<p>safe</p><script>alert(1)</script>`)
	if strings.Contains(out, "script") {
		t.Errorf("expected <script> to be stripped, got %q", out)
	}
	if !strings.Contains(out, "safe") {
		t.Errorf("expected safe content to survive, got %q", out)
	}
}

func TestSanitizeStripsEventHandlers(t *testing.T) {
	out := Sanitize(`<a href="/x" onclick="evil()">link</a>`)
	if strings.Contains(out, "onclick") {
		t.Errorf("expected onclick to be stripped, got %q", out)
	}
}
