package textmatch

import (
	"regexp"
	"strings"
)

// artistReplacements are applied in order when normalizing artist names.
// Ampersand and plus collapse to "and" so "Simon & Garfunkel" and
// "simon and garfunkel" compare equal.
var artistReplacer = strings.NewReplacer(
	"&", "and",
	"+", "and",
	" - ", " ",
	"'s", "s",
	`"`, "",
)

// NormalizeArtist canonicalizes an artist name for lexicon matching:
// lowercase, common punctuation variants collapsed, and a leading "the "
// dropped so "The Beatles" matches "beatles".
func NormalizeArtist(name string) string {
	if name == "" {
		return ""
	}

	result := artistReplacer.Replace(strings.TrimSpace(strings.ToLower(name)))
	result = strings.TrimPrefix(result, "the ")
	return result
}

var (
	doubleQuoted = regexp.MustCompile(`"([^"]+)"`)
	singleQuoted = regexp.MustCompile(`'([^']+)'`)
)

// QuotedText returns every quoted span in the message, double-quoted spans
// first, then single-quoted ones.
func QuotedText(message string) []string {
	var spans []string
	for _, m := range doubleQuoted.FindAllStringSubmatch(message, -1) {
		spans = append(spans, m[1])
	}
	for _, m := range singleQuoted.FindAllStringSubmatch(message, -1) {
		spans = append(spans, m[1])
	}
	return spans
}

// timeReferences are the substrings that mark a message as carrying a
// when. Deliberately loose: scheduling detectors use this as one signal
// among several, never on its own.
var timeReferences = []string{
	"tomorrow", "today", "tonight", "morning", "afternoon",
	"evening", "monday", "tuesday", "wednesday", "thursday",
	"friday", "saturday", "sunday", "next week", "next month",
	"at ", "pm", "am", ":00", "o'clock", "oclock",
}

// HasTimeReference reports whether the message mentions a time or date.
func HasTimeReference(message string) bool {
	lower := strings.ToLower(message)
	for _, ref := range timeReferences {
		if strings.Contains(lower, ref) {
			return true
		}
	}
	return false
}
