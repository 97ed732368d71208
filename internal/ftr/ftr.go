// Package ftr pins the escape hatch a site-specific extraction rule set
// would plug into: an XPath-based selector that can stand in for the
// scoring/selection stages (C3/C4) when a caller already knows exactly which
// node holds the article body for a given site. It deliberately implements
// nothing beyond the interface and one concrete selector — loading an actual
// FTR-style rule file (by domain, with field mappings) is out of scope; this
// package only proves the seam is real. Grounded on the teacher's own
// go.mod dependency on github.com/antchfx/htmlquery, which the teacher
// never actually imports from any .go file.
package ftr

import (
	"fmt"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// XPathSelector resolves a single element node from a document via an
// XPath expression. The orchestrator's alternate entry point accepts one in
// place of the usual score-and-select pipeline.
type XPathSelector interface {
	// Select returns the first node matching expr under root, or an error
	// if the expression is malformed or matches nothing.
	Select(root *html.Node, expr string) (*html.Node, error)
}

// HTMLQuerySelector is the only XPathSelector this package provides: a thin
// wrapper over antchfx/htmlquery's XPath engine.
type HTMLQuerySelector struct{}

// Select compiles expr and evaluates it against root, returning the first
// matching element.
func (HTMLQuerySelector) Select(root *html.Node, expr string) (*html.Node, error) {
	if root == nil {
		return nil, fmt.Errorf("ftr: nil root")
	}
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("ftr: compiling xpath %q: %w", expr, err)
	}
	node := htmlquery.QuerySelector(root, compiled)
	if node == nil {
		return nil, fmt.Errorf("ftr: xpath %q matched nothing", expr)
	}
	return node, nil
}

// SelectAll returns every node matching expr under root, for rule
// definitions that need to strip a set of elements (ads, related-links
// blocks) rather than pick a single content root.
func (HTMLQuerySelector) SelectAll(root *html.Node, expr string) ([]*html.Node, error) {
	if root == nil {
		return nil, fmt.Errorf("ftr: nil root")
	}
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("ftr: compiling xpath %q: %w", expr, err)
	}
	return htmlquery.QuerySelectorAll(root, compiled), nil
}
