// Package textmatch provides the string-similarity and text-extraction
// utilities the domain detectors share: typo-tolerant fuzzy matching,
// artist-name normalization, quoted-span extraction, and time-reference
// detection. Everything here is pure computation over in-memory strings.
package textmatch

import "strings"

// DefaultThreshold is the minimum blended similarity Closest accepts when
// neither an exact nor a substring match exists.
const DefaultThreshold = 0.75

// Closest finds the best match for query among candidates. Exact
// case-insensitive matches win immediately, then substring containment in
// either direction, then the highest blended similarity score at or above
// threshold. Candidates are scanned in list order and ties keep the first
// one encountered, so results are deterministic.
func Closest(query string, candidates []string, threshold float64) (string, bool) {
	if query == "" || len(candidates) == 0 {
		return "", false
	}

	q := strings.ToLower(strings.TrimSpace(query))

	for _, c := range candidates {
		if q == strings.ToLower(c) {
			return c, true
		}
	}

	for _, c := range candidates {
		cl := strings.ToLower(c)
		if strings.Contains(cl, q) || strings.Contains(q, cl) {
			return c, true
		}
	}

	var best string
	var bestScore float64
	found := false
	for _, c := range candidates {
		score := Similarity(q, strings.ToLower(c))
		if score > bestScore && score >= threshold {
			bestScore = score
			best = c
			found = true
		}
	}
	return best, found
}

// Similarity scores how alike two strings are, in [0.0, 1.0]. The score
// blends normalized Levenshtein distance with bigram overlap, weighted
// 0.7/0.3 to favor edit distance for typos.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}

	ar := []rune(a)
	br := []rune(b)

	maxLen := max(len(ar), len(br))
	levSim := 1.0 - float64(levenshtein(ar, br))/float64(maxLen)

	return 0.7*levSim + 0.3*bigramJaccard(ar, br)
}

// levenshtein computes the edit distance between two rune slices using the
// two-row dynamic programming form.
func levenshtein(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i, ca := range a {
		curr[0] = i + 1
		for j, cb := range b {
			ins := prev[j+1] + 1
			del := curr[j] + 1
			sub := prev[j]
			if ca != cb {
				sub++
			}
			curr[j+1] = min(ins, del, sub)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

// bigramJaccard computes the Jaccard index of the two strings' bigram
// sets. A string shorter than two runes contributes itself as its only
// "bigram" so single-letter inputs still compare.
func bigramJaccard(a, b []rune) float64 {
	ba := bigrams(a)
	bb := bigrams(b)

	intersection := 0
	for bg := range ba {
		if bb[bg] {
			intersection++
		}
	}

	union := len(ba) + len(bb) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

func bigrams(r []rune) map[string]bool {
	set := make(map[string]bool)
	if len(r) < 2 {
		set[string(r)] = true
		return set
	}
	for i := 0; i < len(r)-1; i++ {
		set[string(r[i:i+2])] = true
	}
	return set
}
