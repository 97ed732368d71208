package score

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/inkwell-go/readability/internal/dom"
)

func mustDoc(t *testing.T, htmlStr string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func toSlice(sel *goquery.Selection) []*goquery.Selection {
	var out []*goquery.Selection
	sel.Each(func(_ int, s *goquery.Selection) { out = append(out, s) })
	return out
}

func TestScoreNodesPropagatesToAncestor(t *testing.T) {
	doc := mustDoc(t, `<html><body><div class="content"><p>`+
		strings.Repeat("word ", 40)+`</p></div></body></html>`)
	d := dom.New(doc)

	s := &Scorer{WeightClasses: true}
	candidates := s.ScoreNodes(d, toSlice(doc.Find("p")))

	if len(candidates) == 0 {
		t.Fatal("expected at least one candidate (the enclosing div)")
	}
	var found bool
	for _, c := range candidates {
		if dom.NodeName(c.Node) == "DIV" {
			found = true
			if c.Score <= 0 {
				t.Errorf("expected positive propagated score, got %v", c.Score)
			}
		}
	}
	if !found {
		t.Error("expected the paragraph's div ancestor to appear among candidates")
	}
}

func TestScoreNodesSkipsShortText(t *testing.T) {
	doc := mustDoc(t, `<html><body><div><p>too short</p></div></body></html>`)
	d := dom.New(doc)

	s := &Scorer{WeightClasses: true}
	candidates := s.ScoreNodes(d, toSlice(doc.Find("p")))
	if len(candidates) != 0 {
		t.Errorf("expected no candidates for text under MinContentTextLength, got %d", len(candidates))
	}
}

func TestWeightClassesAffectsScore(t *testing.T) {
	build := func(weightClasses bool) float64 {
		doc := mustDoc(t, `<html><body><div class="article-content"><p>`+
			strings.Repeat("word ", 40)+`</p></div></body></html>`)
		d := dom.New(doc)
		s := &Scorer{WeightClasses: weightClasses}
		candidates := s.ScoreNodes(d, toSlice(doc.Find("p")))
		for _, c := range candidates {
			if dom.NodeName(c.Node) == "DIV" {
				return c.Score
			}
		}
		t.Fatal("no div candidate found")
		return 0
	}

	withClasses := build(true)
	withoutClasses := build(false)
	if withClasses <= withoutClasses {
		t.Errorf("expected WeightClasses to raise the score for a positively-classed div: with=%v without=%v", withClasses, withoutClasses)
	}
}

func TestAdjustedScoreDiscountsLinkDensity(t *testing.T) {
	doc := mustDoc(t, `<div><p>`+strings.Repeat("word ", 40)+`</p></div>`)
	c := &Candidate{Node: doc.Find("div"), Score: 10}
	if got := AdjustedScore(c); got != 10 {
		t.Errorf("expected no discount with zero link density, got %v", got)
	}

	linky := mustDoc(t, `<div><a href="/x">`+strings.Repeat("word ", 40)+`</a></div>`)
	c2 := &Candidate{Node: linky.Find("div"), Score: 10}
	if got := AdjustedScore(c2); got >= 10 {
		t.Errorf("expected link density to discount the score, got %v", got)
	}
}

func TestIsGoodParagraph(t *testing.T) {
	doc := mustDoc(t, `<p>`+strings.Repeat("word ", 30)+`</p>`)
	if !IsGoodParagraph(doc.Find("p")) {
		t.Error("expected a long, link-free paragraph to be good")
	}

	linky := mustDoc(t, `<p><a href="/x">`+strings.Repeat("word ", 30)+`</a></p>`)
	if IsGoodParagraph(linky.Find("p")) {
		t.Error("did not expect a fully-linked long paragraph to be good")
	}
}
