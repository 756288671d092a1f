package convo

import (
	"strings"
	"unicode/utf8"
)

// Greetings and casual phrases that never need a tool. Entries with a
// trailing space only match mid-message forms ("hi there", "ok thanks")
// without also firing on words like "high" or "okra".
var greetingPatterns = []string{
	"hello", "hi ", "hey ", "howdy", "greetings", "good morning",
	"good afternoon", "good evening", "good night", "what's up",
	"whats up", "sup ", "yo ", "hiya",
}

var casualPatterns = []string{
	"thanks", "thank you", "thx", "ty", "cool", "nice", "great",
	"awesome", "perfect", "ok ", "okay", "sure", "yep", "yeah",
	"alright", "sounds good", "got it", "understood", "no problem",
	"np", "you're welcome", "yw", "bye", "goodbye", "see you",
	"see ya", "later", "cya",
}

// ShouldSkip reports whether a message is small talk that needs no
// routing: greetings, acknowledgments, signoffs, or anything shorter
// than two characters once trimmed.
func ShouldSkip(message string) bool {
	trimmed := strings.TrimSpace(message)
	if utf8.RuneCountInString(trimmed) < 2 {
		return true
	}

	lower := strings.ToLower(trimmed)
	switch lower {
	case "hi", "hello", "hey", "yo":
		return true
	}

	for _, p := range greetingPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	for _, p := range casualPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}

	return false
}
