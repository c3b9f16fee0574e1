// Package suggest proposes the closest known name for a misspelled one.
package suggest

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// DefaultThreshold is the minimum similarity for a proposal.
const DefaultThreshold = 0.7

// Similarity returns 1 minus the edit distance normalized by the longer
// string, so identical strings score 1 and disjoint ones approach 0.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// Propose returns the candidate most similar to target, provided it reaches
// threshold. Ties go to the earliest candidate.
func Propose(target string, candidates []string, threshold float64) (string, bool) {
	best, bestScore := "", -1.0
	for _, c := range candidates {
		score := Similarity(target, c)
		if score >= threshold && score > bestScore {
			best, bestScore = c, score
		}
	}
	return best, bestScore >= 0
}
