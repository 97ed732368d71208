package readability_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-go/readability"
	"github.com/inkwell-go/readability/internal/ftr"
)

const testHTML = `<html><head><title>Test Title</title></head><body><header><nav><ul><li><a href="#">Home</a></li><li><a href="#">About</a></li></ul></nav></header><main><article><h1>Test Title</h1><p>This is a test paragraph with enough text to be considered relevant content by the Readability algorithm. We need to ensure that this paragraph has sufficient length to be scored highly by the content extraction algorithm. The algorithm looks for blocks of text that appear to be the main content of the page, as opposed to navigation, headers, footers, or other ancillary content.</p><p>Adding another paragraph increases the content score for this article element, making it more likely to be identified as the main content of the page. The Readability algorithm is designed to extract the primary content from a webpage, ignoring elements that are likely to be navigation, ads, or other non-content features.</p></article></main><footer><p>Copyright 2025</p></footer></body></html>`

func TestParserParseHTML(t *testing.T) {
	parser := readability.New()

	article, err := parser.ParseHTML(testHTML)
	require.NoError(t, err)

	assert.Equal(t, "Test Title", article.Metadata.Title)
	assert.NotEmpty(t, article.Content)
	assert.NotEmpty(t, article.TextContent)
	assert.NotContains(t, article.TextContent, "Copyright 2025")
	assert.NotContains(t, article.TextContent, "Home")
	assert.Greater(t, article.WordCount, 0)
}

func TestParserParseReader(t *testing.T) {
	parser := readability.New()

	article, err := parser.ParseReader(strings.NewReader(testHTML))
	require.NoError(t, err)
	assert.Equal(t, "Test Title", article.Metadata.Title)
}

func TestWithContentDigest(t *testing.T) {
	parser := readability.New(readability.WithContentDigest(true))

	article, err := parser.ParseHTML(testHTML)
	require.NoError(t, err)
	assert.Len(t, article.ContentDigest, 64) // blake3-256 hex
}

func TestWithoutContentDigest(t *testing.T) {
	parser := readability.New()

	article, err := parser.ParseHTML(testHTML)
	require.NoError(t, err)
	assert.Empty(t, article.ContentDigest)
}

func TestWithTimeoutExceeded(t *testing.T) {
	parser := readability.New(readability.WithTimeout(time.Nanosecond))

	_, err := parser.ParseHTML(testHTML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestEmptyDocument(t *testing.T) {
	parser := readability.New()

	_, err := parser.ParseHTML("   ")
	require.Error(t, err)
	var emptyErr *readability.EmptyDocumentError
	assert.ErrorAs(t, err, &emptyErr)
}

func TestNotReaderable(t *testing.T) {
	parser := readability.New()

	_, err := parser.ParseHTML(`<html><body><div>too short</div></body></html>`)
	require.Error(t, err)
	assert.True(t, readability.IsNotReaderable(err))
}

func TestNotReaderableNavOnlyDocument(t *testing.T) {
	parser := readability.New()

	_, err := parser.ParseHTML(`<html><body><nav><a href="x">x</a><a href="y">y</a></nav></body></html>`)
	require.Error(t, err)
	assert.True(t, readability.IsNotReaderable(err))
	assert.False(t, readability.IsProbablyReadable(`<html><body><nav><a href="x">x</a><a href="y">y</a></nav></body></html>`))
}

func TestBaseURLResolvesRelativeLinks(t *testing.T) {
	html := `<html><body><article><h1>Piece</h1><p>` + strings.Repeat("word ", 120) +
		`<img src="/images/photo.jpg"></p><p>` + strings.Repeat("more text ", 60) + `</p></article></body></html>`

	parser := readability.New(readability.WithBaseURL("https://example.com/articles/piece"))
	article, err := parser.ParseHTML(html)
	require.NoError(t, err)
	assert.Contains(t, article.Content, "https://example.com/images/photo.jpg")
}

func TestParseWithSelectorUsesSiteConfigEscapeHatch(t *testing.T) {
	html := `<html><head><title>Piece</title></head><body>
		<nav><a href="x">x</a></nav>
		<div class="weird-cms-wrapper"><div class="body-copy"><p>` + strings.Repeat("word ", 150) + `</p></div></div>
		<footer>Copyright</footer>
	</body></html>`

	parser := readability.New()
	var sel ftr.HTMLQuerySelector
	article, err := parser.ParseWithSelector(html, sel, `//div[@class="body-copy"]`)
	require.NoError(t, err)
	assert.NotEmpty(t, article.Content)
	assert.NotContains(t, article.TextContent, "Copyright")
}

func TestParseWithSelectorNotReaderableWhenXPathMisses(t *testing.T) {
	parser := readability.New()
	var sel ftr.HTMLQuerySelector
	_, err := parser.ParseWithSelector(testHTML, sel, `//div[@class="nonexistent"]`)
	require.Error(t, err)
	assert.True(t, readability.IsNotReaderable(err))
}

func TestIsProbablyReadable(t *testing.T) {
	assert.True(t, readability.IsProbablyReadable(testHTML))
	assert.False(t, readability.IsProbablyReadable(`<html><body><div class="nav">short</div></body></html>`))
}
