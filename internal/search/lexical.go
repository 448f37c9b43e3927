package search

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// fieldScore rates how well a single searchable string matches the query on a
// 0..1 scale. The tiers keep the ordering contract: exact beats prefix beats
// substring beats subsequence beats typo-distance.
func fieldScore(field, query string) float64 {
	f := strings.ToLower(strings.TrimSpace(field))
	q := strings.ToLower(strings.TrimSpace(query))
	if f == "" || q == "" {
		return 0
	}
	switch {
	case f == q:
		return 1.0
	case strings.HasPrefix(f, q):
		return 0.9
	case strings.Contains(f, q):
		return 0.75
	}
	if fuzzy.MatchNormalizedFold(q, f) {
		// Subsequence match; denser queries rate higher.
		density := float64(len(q)) / float64(len(f))
		if density > 1 {
			density = 1
		}
		return 0.4 + 0.2*density
	}
	dist := levenshtein.ComputeDistance(q, f)
	longest := len([]rune(q))
	if n := len([]rune(f)); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}
	sim := 1 - float64(dist)/float64(longest)
	if sim < 0 {
		sim = 0
	}
	return sim * 0.5
}
