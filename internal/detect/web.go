package detect

import (
	"regexp"
	"strings"

	"github.com/normanking/thalamus/internal/convo"
	"github.com/normanking/thalamus/internal/intent"
)

// WebDetector proposes web search and website browsing intents.
type WebDetector struct{}

var (
	webSearchStrong = []string{
		"search the web", "search online", "google", "search google",
		"look up online", "search the internet", "find on the web",
	}
	webSearchMedium = []string{"search for", "look up", "find out about"}
	webTemporal     = []string{"latest", "recent", "current", "today", "this week"}
	webTopics       = []string{"news", "price", "score", "weather"}

	// Possessive document phrasing that means local search, not the web.
	webDocSignals = []string{"my document", "my file", "my contract", "my pdf"}

	browseVerbs = []string{"browse", "open", "visit", "go to", "navigate to", "load", "fetch"}
)

var (
	bareEmailRe  = regexp.MustCompile(`\b[\w.-]+@[\w.-]+\.\w+\b`)
	urlSchemeRe  = regexp.MustCompile(`https?://|www\.`)
	bareDomainRe = regexp.MustCompile(`\.(com|org|net)\b`)
	urlExtractRe = regexp.MustCompile(`https?://\S+|www\.\S+|\b\w+\.(com|org|net)\b`)
)

func (d *WebDetector) Name() string { return "web" }

func (d *WebDetector) Detect(message, lower string, ctx *convo.Context) []intent.Intent {
	var intents []intent.Intent
	if in, ok := d.detectSearch(lower); ok {
		intents = append(intents, in)
	}
	if in, ok := d.detectBrowse(lower); ok {
		intents = append(intents, in)
	}
	return intents
}

func (d *WebDetector) detectSearch(lower string) (intent.Intent, bool) {
	var confidence float64
	var reasons []string

	switch {
	case containsAny(lower, webSearchStrong):
		confidence = 0.95
		reasons = append(reasons, "explicit web search")
	case containsAny(lower, webSearchMedium):
		confidence = 0.75
		reasons = append(reasons, "generic search")
	case containsAny(lower, webTemporal):
		if containsAny(lower, webTopics) {
			confidence = 0.85
			reasons = append(reasons, "temporal + news/price")
		}
	}

	if containsAny(lower, webDocSignals) {
		confidence = max(0.0, confidence-0.6)
	}

	if confidence <= 0 {
		return intent.Intent{}, false
	}

	return intent.Intent{
		Tool:       intent.ToolWebSearch,
		Confidence: confidence,
		Priority:   intent.PriorityLow,
		Reason:     strings.Join(reasons, " | "),
		Params:     intent.Search{Query: lower},
	}, true
}

func (d *WebDetector) detectBrowse(lower string) (intent.Intent, bool) {
	// A bare domain only counts as a URL when it is not the tail of an
	// email address.
	hasEmail := bareEmailRe.MatchString(lower)
	hasURL := urlSchemeRe.MatchString(lower) || (bareDomainRe.MatchString(lower) && !hasEmail)
	hasVerb := containsAny(lower, browseVerbs)

	var confidence float64
	var reasons []string

	if hasURL {
		if hasVerb {
			confidence = 0.95
			reasons = append(reasons, "URL + browse verb")
		} else {
			confidence = 0.85
			reasons = append(reasons, "URL detected")
		}
	} else if hasVerb && strings.Contains(lower, "website") {
		confidence = 0.75
		reasons = append(reasons, "browse + website")
	}

	if confidence <= 0 {
		return intent.Intent{}, false
	}

	return intent.Intent{
		Tool:       intent.ToolBrowseWebsite,
		Confidence: confidence,
		Priority:   intent.PriorityMedium,
		Reason:     strings.Join(reasons, " | "),
		Params: intent.Browse{
			URL:     urlExtractRe.FindString(lower),
			Extract: "text",
		},
	}, true
}
