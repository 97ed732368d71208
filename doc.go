/*
Package readability is a pure-Go implementation of Mozilla's Readability.js:
given an HTML page, it scores, selects, and cleans the single subtree most
likely to hold the article body, discarding navigation, ads, and other
boilerplate, alongside the metadata needed to present what's left.

Basic usage:

    import "github.com/inkwell-go/readability"

    parser := readability.New()
    article, err := parser.ParseHTML(htmlString)
    if err != nil {
        // handle error
    }

    fmt.Println(article.Metadata.Title)
    fmt.Println(article.Content)

Advanced usage with options:

    parser := readability.New(
        readability.WithBaseURL("https://example.com/post"),
        readability.WithPreserveImportantLinks(true),
        readability.WithContentDigest(true),
        readability.WithTimeout(time.Second*60),
    )

    article, err := parser.ParseReader(resp.Body)

A cheap readability pre-check, useful before running the full pipeline on a
large batch of pages, is available via IsProbablyReadable.
*/
package readability
