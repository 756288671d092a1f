package convo

import "strings"

// Conjunctions that join independent requests, in match-priority order.
// " and then " precedes " and " so the longer phrase wins.
var conjunctions = []string{
	" and then ",
	" and ",
	" then ",
	" after that ",
	" also ",
	" plus ",
	" and also ",
}

// IsCompound reports whether a message chains multiple requests with a
// known conjunction.
func IsCompound(message string) bool {
	lower := strings.ToLower(message)
	for _, conj := range conjunctions {
		if strings.Contains(lower, conj) {
			return true
		}
	}
	return false
}

// SplitCompound breaks a compound message into its individual requests.
// The first conjunction present (in priority order) is split on every
// occurrence, case-insensitively, and the parts keep their original
// casing. A message with no conjunction comes back as a single part.
func SplitCompound(message string) []string {
	lower := strings.ToLower(message)

	for _, conj := range conjunctions {
		if !strings.Contains(lower, conj) {
			continue
		}

		var parts []string
		rest, lowerRest := message, lower
		for {
			i := strings.Index(lowerRest, conj)
			if i < 0 {
				break
			}
			parts = append(parts, rest[:i])
			rest = rest[i+len(conj):]
			lowerRest = lowerRest[i+len(conj):]
		}
		parts = append(parts, rest)

		split := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				split = append(split, p)
			}
		}
		return split
	}

	return []string{message}
}
