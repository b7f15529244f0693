package cache

import "strings"

// Similarity computes the word-set Jaccard similarity between two request
// strings after normalization. The result is in [0,1] and symmetric.
// Two strings that normalize to the same text score 1; if exactly one of
// them reduces to an empty word set the score is 0.
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return 1
	}
	if na == "" || nb == "" {
		return 0
	}

	wordsA := strings.Fields(na)
	setB := make(map[string]struct{})
	for _, w := range strings.Fields(nb) {
		setB[w] = struct{}{}
	}

	seen := make(map[string]struct{}, len(wordsA))
	var intersection, unionA int
	for _, w := range wordsA {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		unionA++
		if _, ok := setB[w]; ok {
			intersection++
		}
	}

	union := unionA + len(setB) - intersection
	if union == 0 {
		return 1
	}
	return float64(intersection) / float64(union)
}
