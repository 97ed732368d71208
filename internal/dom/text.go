package dom

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

var htmlEscapeMap = map[string]string{
	"lt": "<", "gt": ">", "amp": "&", "quot": "\"", "apos": "'",
}

var (
	namedEntity   = regexp.MustCompile(`&(quot|amp|apos|lt|gt);`)
	numericEntity = regexp.MustCompile(`&#(?:x([0-9a-f]{1,4})|([0-9]{1,4}));`)
)

// UnescapeHTMLEntities decodes the named and numeric entities that survive
// into text nodes pulled from poorly-escaped markup.
func UnescapeHTMLEntities(text string) string {
	if text == "" {
		return text
	}
	var named = namedEntity
	result := named.ReplaceAllStringFunc(text, func(match string) string {
		entity := match[1 : len(match)-1]
		if val, ok := htmlEscapeMap[entity]; ok {
			return val
		}
		return match
	})
	result = numericEntity.ReplaceAllStringFunc(result, func(match string) string {
		if strings.HasPrefix(match, "&#x") {
			v, err := strconv.ParseInt(match[3:len(match)-1], 16, 32)
			if err != nil {
				return match
			}
			return string(rune(v))
		}
		v, err := strconv.Atoi(match[2 : len(match)-1])
		if err != nil {
			return match
		}
		return string(rune(v))
	})
	return result
}

// WordCount splits on runs of whitespace.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// TextSimilarity returns a token-set similarity in [0,1]: the Mozilla
// Readability approach of measuring how much of B's unique-token mass is
// absent from A, rather than a character edit distance.
func TextSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	tokensA := tokenize(a)
	tokensB := tokenize(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}
	setA := make(map[string]bool, len(tokensA))
	for _, t := range tokensA {
		setA[t] = true
	}
	var uniqueB []string
	for _, t := range tokensB {
		if !setA[t] {
			uniqueB = append(uniqueB, t)
		}
	}
	distanceB := float64(len(strings.Join(uniqueB, " "))) / float64(len(strings.Join(tokensB, " ")))
	return 1 - distanceB
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
	})
}

// FuzzyEquals reports whether two short strings (titles, headings, bylines)
// are "the same" once trivial punctuation/whitespace drift is tolerated: a
// normalized Levenshtein distance at or below threshold counts as a match.
// Both strings are lower-cased and reduced to their alphanumeric tokens
// first, so a <title> of "Foo: Bar" equals an <h1> of "foo bar" outright; a
// site-name suffix ("Foo Bar — Example.com" against "Foo Bar", 12 edits over
// 19 characters) only matches at a loose threshold. It uses a real
// edit-distance metric rather than token-set overlap.
func FuzzyEquals(a, b string, threshold float64) bool {
	a = strings.Join(tokenize(a), " ")
	b = strings.Join(tokenize(b), " ")
	if a == "" || b == "" {
		return a == b
	}
	if a == b {
		return true
	}
	dist := levenshtein.ComputeDistance(a, b)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return true
	}
	normalized := float64(dist) / float64(maxLen)
	return normalized <= threshold
}

// IsValidByline reports whether a candidate byline string is short enough to
// plausibly be a byline rather than a full paragraph caught by mistake.
func IsValidByline(text string) bool {
	text = strings.TrimSpace(text)
	return text != "" && len(text) < 100
}
