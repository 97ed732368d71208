// Package selector picks the single best-scoring candidate, hoists to an
// ancestor when a near-equal sibling split suggests the real container sits
// one level up, and pulls in paragraph-shaped siblings the scorer itself
// never visited. Grounded on the teacher's
// buildArticleFromCandidates/addSiblings (internal/readability/extraction.go).
package selector

import (
	"math"
	"sort"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/inkwell-go/readability/internal/dom"
	"github.com/inkwell-go/readability/internal/score"
)

// Result is the selector's output: the winning container (already cloned
// into a detached subtree the caller owns) and the link-density-adjusted
// score of the candidate it was built from.
type Result struct {
	Content   *goquery.Selection
	TopScore  float64
}

// Select ranks candidates by score discounted for link density, optionally
// hoists to an ancestor when its own score is within hoistThreshold of the
// winner (the "alternate root" heuristic: a split between two high-scoring
// siblings usually means their shared parent is the real article
// container), clones the winner into a fresh <div>, and folds in
// high-scoring or paragraph-shaped siblings. newElement builds a detached
// element of the given tag for the caller's document.
func Select(candidates []*score.Candidate, hoistThreshold, minScore float64, maxTopCandidates int, newElement func(tag string) *goquery.Selection) *Result {
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return score.AdjustedScore(candidates[i]) > score.AdjustedScore(candidates[j])
	})

	if maxTopCandidates > 0 && maxTopCandidates < len(candidates) {
		candidates = candidates[:maxTopCandidates]
	}

	top := candidates[0]
	if score.AdjustedScore(top) < minScore {
		return nil
	}
	top = hoist(candidates, top, hoistThreshold)

	article := newElement("div")
	article.SetAttr("id", "readability-content")
	article.AppendSelection(top.Node.Clone())

	addSiblings(article, top, candidates)

	return &Result{Content: article, TopScore: score.AdjustedScore(top)}
}

// hoist walks up from the top candidate while its parent's own score (if the
// parent is itself a candidate) is within hoistThreshold of the top
// candidate's score (at least top.Score*(1-hoistThreshold)) — the parent is then treated as the real root, since two
// strong candidates sharing one parent usually means the split happened one
// level too deep (e.g. scoring two <div class="col"> halves of a two-column
// layout instead of the wrapping <article>).
func hoist(candidates []*score.Candidate, top *score.Candidate, hoistThreshold float64) *score.Candidate {
	byNode := make(map[*html.Node]*score.Candidate, len(candidates))
	for _, c := range candidates {
		byNode[c.Node.Get(0)] = c
	}

	current := top
	for {
		parent := current.Node.Parent()
		if parent.Length() == 0 {
			break
		}
		pc, ok := byNode[parent.Get(0)]
		if !ok {
			break
		}
		if top.Score <= 0 || pc.Score < top.Score*(1-hoistThreshold) {
			break
		}
		current = pc
	}
	return current
}

// addSiblings appends each sibling of the top candidate whose own score
// clears siblingScoreThreshold (or which shares the top candidate's class),
// and separately rescues paragraph-shaped siblings the scorer never
// promoted to a candidate at all.
func addSiblings(article *goquery.Selection, top *score.Candidate, candidates []*score.Candidate) {
	threshold := math.Max(score.MinimumSiblingScoreThreshold, top.Score*score.SiblingScoreMultiplier)

	byNode := make(map[*html.Node]*score.Candidate, len(candidates))
	for _, c := range candidates {
		byNode[c.Node.Get(0)] = c
	}

	topClass, _ := top.Node.Attr("class")

	top.Node.Parent().Children().Each(func(_ int, sibling *goquery.Selection) {
		if sibling.Get(0) == top.Node.Get(0) {
			return
		}

		siblingScore := 0.0
		if c, ok := byNode[sibling.Get(0)]; ok {
			siblingScore = c.Score
		}
		if sibClass, ok := sibling.Attr("class"); ok && topClass != "" && sibClass == topClass {
			siblingScore += top.Score * score.SameClassSiblingBonus
		}

		if siblingScore >= threshold {
			article.AppendSelection(sibling.Clone())
			return
		}
		if dom.NodeName(sibling) == "P" && score.IsGoodParagraph(sibling) {
			article.AppendSelection(sibling.Clone())
		}
	})
}
