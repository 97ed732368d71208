// Package score implements the content-density scoring and ancestor score
// propagation at the heart of the extraction algorithm: every scored
// element contributes a content score, attenuated with distance, to its
// ancestors up to a fixed depth (the element itself is not credited), so
// that a deeply-nested paragraph still lifts the container that actually
// holds the article.
package score

import (
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/inkwell-go/readability/internal/dom"
)

// Tuning constants grounded on the numeric literals used throughout the
// teacher's original (pre-refactor) scoring pass — the refactored version
// reintroduced these as named constants but never defined them, so these
// values are reconstructed from the monolith's inline numbers, which already
// match the content-density/link-density formulas the scoring spec calls for.
const (
	BaseContentScore = 1.0
	CommaBonus       = 1.0
	TextLengthDivisor = 100.0
	MaxLengthBonus    = 3.0

	AncestorScoreDividerL0         = 1.0
	AncestorScoreDividerL1         = 2.0
	AncestorScoreDividerMultiplier = 3.0
	AncestorLevelDepth             = 5

	DivInitialScore          = 5.0
	BlockquoteInitialScore   = 3.0
	NegativeListInitialScore = -3.0
	HeadingInitialScore      = -5.0

	SiblingScoreMultiplier        = 0.2
	MinimumSiblingScoreThreshold  = 10.0
	SameClassSiblingBonus         = 0.2

	MinContentTextLength          = 25
	MinParagraphLength            = 80
	MaxShortParagraphLength       = 80
	ParagraphLinkDensityThreshold = 0.25
)

// Candidate is a scored element: the node that holds the score, its stable
// dom.Document id, and the accumulated content score (own contribution plus
// whatever descendants propagated up to it).
type Candidate struct {
	Node  *goquery.Selection
	ID    int
	Score float64
}

// Scorer holds the one behavioral knob the caller can flip mid-pipeline:
// whether class/id weighting (FlagWeightClasses in the teacher's vocabulary)
// participates in an ancestor's initial score. The orchestrator turns this
// off on a relaxed retry pass when the first extraction came up short.
type Scorer struct {
	WeightClasses bool
}

// New builds a Scorer with class/id weighting enabled, the default the
// orchestrator starts every Parse with.
func New() *Scorer {
	return &Scorer{WeightClasses: true}
}

// ScoreNodes computes the candidate set for a slice of pre-selected
// elements (typically the TagsToScore-filtered output of the preprocess
// stage): each element contributes a content-density score to its
// ancestors, not to itself — in full to its parent, half to its grandparent,
// and score/(3*level) to each further ancestor up to AncestorLevelDepth
// levels — memoized in a node-identity map so
// repeated ancestors accumulate rather than re-score from scratch.
func (s *Scorer) ScoreNodes(d *dom.Document, elements []*goquery.Selection) []*Candidate {
	byNode := make(map[*html.Node]*Candidate)
	var order []*html.Node

	for _, elem := range elements {
		if elem.Parent().Length() == 0 {
			continue
		}
		innerText := dom.InnerText(elem, true)
		if len(innerText) < MinContentTextLength {
			continue
		}
		ancestors := dom.Ancestors(elem, AncestorLevelDepth)
		if len(ancestors) == 0 {
			continue
		}

		contentScore := BaseContentScore
		contentScore += float64(dom.CharCount(elem, ",")) * CommaBonus
		contentScore += math.Min(float64(len(innerText))/TextLengthDivisor, MaxLengthBonus)

		s.scoreAncestors(d, ancestors, byNode, &order, contentScore)
	}

	candidates := make([]*Candidate, 0, len(order))
	for _, n := range order {
		candidates = append(candidates, byNode[n])
	}
	return candidates
}

func (s *Scorer) scoreAncestors(d *dom.Document, ancestors []*goquery.Selection, byNode map[*html.Node]*Candidate, order *[]*html.Node, contentScore float64) {
	maxLevel := len(ancestors) - 1

	for level, ancestor := range ancestors {
		name := dom.NodeName(ancestor)
		if name == "" || ancestor.Parent().Length() == 0 {
			continue
		}
		node := ancestor.Get(0)

		var divider float64
		switch {
		case level == 0:
			divider = AncestorScoreDividerL0
		case level == 1:
			divider = AncestorScoreDividerL1
		case level > 5:
			divider = AncestorScoreDividerL1 + math.Log(float64(level))*AncestorScoreDividerMultiplier
		default:
			divider = float64(level) * AncestorScoreDividerMultiplier
		}

		share := contentScore
		if maxLevel > 5 && level > 3 {
			share *= 1.0 + (float64(level)/float64(maxLevel))*0.5
		}

		if c, ok := byNode[node]; ok {
			c.Score += share / divider
			continue
		}

		initial := 0.0
		switch name {
		case "DIV":
			initial = DivInitialScore
		case "PRE", "TD", "BLOCKQUOTE":
			initial = BlockquoteInitialScore
		case "ADDRESS", "OL", "UL", "DL", "DD", "DT", "LI", "FORM":
			initial = NegativeListInitialScore
		case "H1", "H2", "H3", "H4", "H5", "H6", "TH":
			initial = HeadingInitialScore
			if maxLevel > 5 && level > 3 {
				initial *= 1.5
			}
		}
		if s.WeightClasses {
			initial += float64(dom.ClassWeight(ancestor))
		}

		c := &Candidate{Node: ancestor, ID: d.ID(node), Score: initial + share/divider}
		byNode[node] = c
		*order = append(*order, node)
	}
}

// AdjustedScore is a candidate's score discounted by its own link density —
// the final ranking signal buildArticleFromCandidates/the selector sorts by.
func AdjustedScore(c *Candidate) float64 {
	return c.Score * (1.0 - dom.LinkDensity(c.Node))
}

// IsGoodParagraph reports whether a sibling <p> that scored too low to be
// picked up as its own candidate should still be folded into the article:
// either it's long with low link density, or it's a short, link-free
// sentence fragment (tell-tale signs differ enough that neither rule alone
// would catch both).
func IsGoodParagraph(p *goquery.Selection) bool {
	linkDensity := dom.LinkDensity(p)
	content := dom.InnerText(p, true)
	length := len(content)
	if length > MinParagraphLength && linkDensity < ParagraphLinkDensityThreshold {
		return true
	}
	if length > 0 && length < MaxShortParagraphLength && linkDensity == 0 && strings.Contains(content, ". ") {
		return true
	}
	return false
}
