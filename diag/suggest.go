package diag

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Suggest returns the candidate closest to word by edit distance, provided
// it is close enough to be a plausible typo.
func Suggest(word string, candidates []string) (string, bool) {
	word = strings.ToLower(word)
	best := ""
	bestDistance := -1
	for _, candidate := range candidates {
		d := levenshtein.ComputeDistance(word, strings.ToLower(candidate))
		if bestDistance < 0 || d < bestDistance {
			best, bestDistance = candidate, d
		}
	}
	if bestDistance < 0 {
		return "", false
	}
	limit := 1
	if len(word) >= 4 {
		limit = max(2, len(word)/3)
	}
	if bestDistance == 0 || bestDistance > limit {
		return "", false
	}
	return best, true
}
