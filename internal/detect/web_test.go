package detect

import (
	"strings"
	"testing"

	"github.com/normanking/thalamus/internal/intent"
)

func detectWeb(t *testing.T, message string) []intent.Intent {
	t.Helper()
	d := &WebDetector{}
	return d.Detect(message, strings.ToLower(message), nil)
}

// ==== Browsing ====

func TestWeb_BrowseBareDomain(t *testing.T) {
	intents := detectWeb(t, "open github.com")

	browse, ok := findTool(intents, intent.ToolBrowseWebsite)
	if !ok {
		t.Fatal("expected a browse intent")
	}
	if browse.Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95", browse.Confidence)
	}
	params := browse.Params.(intent.Browse)
	if params.URL != "github.com" {
		t.Errorf("URL = %q, want github.com", params.URL)
	}
	if params.Extract != "text" {
		t.Errorf("Extract = %q, want text", params.Extract)
	}
}

func TestWeb_BrowseFullURL(t *testing.T) {
	intents := detectWeb(t, "go to https://example.org/docs")

	browse, ok := findTool(intents, intent.ToolBrowseWebsite)
	if !ok {
		t.Fatal("expected a browse intent")
	}
	if browse.Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95", browse.Confidence)
	}
	params := browse.Params.(intent.Browse)
	if params.URL != "https://example.org/docs" {
		t.Errorf("URL = %q, want the full URL", params.URL)
	}
}

func TestWeb_EmailAddressIsNotURL(t *testing.T) {
	intents := detectWeb(t, "email john@example.com about dinner")
	if _, ok := findTool(intents, intent.ToolBrowseWebsite); ok {
		t.Error("email address alone should not look like a URL")
	}
}

func TestWeb_BrowseWebsiteWord(t *testing.T) {
	intents := detectWeb(t, "visit the website for updates")

	browse, ok := findTool(intents, intent.ToolBrowseWebsite)
	if !ok {
		t.Fatal("expected a browse intent")
	}
	if browse.Confidence != 0.75 {
		t.Errorf("confidence = %v, want 0.75", browse.Confidence)
	}
	params := browse.Params.(intent.Browse)
	if params.URL != "" {
		t.Errorf("URL = %q, want empty with no URL in message", params.URL)
	}
}

// ==== Searching ====

func TestWeb_SearchStrong(t *testing.T) {
	intents := detectWeb(t, "search the web for good ramen")

	search, ok := findTool(intents, intent.ToolWebSearch)
	if !ok {
		t.Fatal("expected a search intent")
	}
	if search.Confidence != 0.95 {
		t.Errorf("confidence = %v, want 0.95", search.Confidence)
	}
}

func TestWeb_SearchGeneric(t *testing.T) {
	intents := detectWeb(t, "search for hiking trails near me")

	search, ok := findTool(intents, intent.ToolWebSearch)
	if !ok {
		t.Fatal("expected a search intent")
	}
	if search.Confidence != 0.75 {
		t.Errorf("confidence = %v, want 0.75", search.Confidence)
	}
	params := search.Params.(intent.Search)
	if params.Query != "search for hiking trails near me" {
		t.Errorf("query = %q, want the lowered message", params.Query)
	}
}

func TestWeb_TemporalTopic(t *testing.T) {
	intents := detectWeb(t, "what's the latest news on the election")

	search, ok := findTool(intents, intent.ToolWebSearch)
	if !ok {
		t.Fatal("expected a search intent")
	}
	if search.Confidence != 0.85 {
		t.Errorf("confidence = %v, want 0.85", search.Confidence)
	}
}

func TestWeb_LocalDocumentPenalty(t *testing.T) {
	intents := detectWeb(t, "search for my contract terms")

	search, ok := findTool(intents, intent.ToolWebSearch)
	if !ok {
		t.Fatal("expected a search intent")
	}
	if search.Confidence >= 0.5 {
		t.Errorf("confidence = %v, want below 0.5", search.Confidence)
	}
}

func TestWeb_NoSignals(t *testing.T) {
	if intents := detectWeb(t, "turn on the lights"); len(intents) != 0 {
		t.Errorf("Detect = %v, want none", intents)
	}
}
