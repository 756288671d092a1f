package detect

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/normanking/thalamus/internal/intent"
)

func detectDocuments(t *testing.T, message string) []intent.Intent {
	t.Helper()
	d := &DocumentsDetector{}
	return d.Detect(message, strings.ToLower(message), nil)
}

func TestDocuments_SearchStrong(t *testing.T) {
	intents := detectDocuments(t, "search my documents for the contract")

	search, ok := findTool(intents, intent.ToolSearchDocuments)
	if !ok {
		t.Fatal("expected a search intent")
	}
	if search.Confidence < 0.90 {
		t.Errorf("confidence = %v, want >= 0.90", search.Confidence)
	}
	params := search.Params.(intent.Search)
	if !strings.Contains(params.Query, "contract") {
		t.Errorf("query = %q, want the message text", params.Query)
	}
}

func TestDocuments_ListQuery(t *testing.T) {
	intents := detectDocuments(t, "how many files are in the archive")

	search, ok := findTool(intents, intent.ToolSearchDocuments)
	if !ok {
		t.Fatal("expected a search intent")
	}
	if search.Confidence < 0.85 {
		t.Errorf("confidence = %v, want >= 0.85", search.Confidence)
	}
}

func TestDocuments_SearchVerbTiers(t *testing.T) {
	tests := []struct {
		message string
		want    float64
	}{
		{"find my tax documents", 0.85},
		{"find the budget file", 0.70},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			intents := detectDocuments(t, tt.message)
			search, ok := findTool(intents, intent.ToolSearchDocuments)
			if !ok {
				t.Fatal("expected a search intent")
			}
			if search.Confidence != tt.want {
				t.Errorf("confidence = %v, want %v", search.Confidence, tt.want)
			}
		})
	}
}

func TestDocuments_QuestionFloor(t *testing.T) {
	intents := detectDocuments(t, "what does the contract say")

	search, ok := findTool(intents, intent.ToolSearchDocuments)
	if !ok {
		t.Fatal("expected a search intent")
	}
	if search.Confidence != 0.75 {
		t.Errorf("confidence = %v, want 0.75", search.Confidence)
	}
	if !strings.Contains(search.Reason, "question") {
		t.Errorf("reason = %q, want question grounds", search.Reason)
	}
}

func TestDocuments_WebPhrasingPenalty(t *testing.T) {
	intents := detectDocuments(t, "search the web for my contract file")

	search, ok := findTool(intents, intent.ToolSearchDocuments)
	if !ok {
		t.Fatal("expected a search intent")
	}
	if search.Confidence >= 0.5 {
		t.Errorf("confidence = %v, want below 0.5", search.Confidence)
	}
}

func TestDocuments_QueryTruncated(t *testing.T) {
	message := "search my documents for " + strings.Repeat("x", 120)
	intents := detectDocuments(t, message)

	search, ok := findTool(intents, intent.ToolSearchDocuments)
	if !ok {
		t.Fatal("expected a search intent")
	}
	params := search.Params.(intent.Search)
	if got := utf8.RuneCountInString(params.Query); got != maxDocQueryLen {
		t.Errorf("query length = %d, want %d", got, maxDocQueryLen)
	}
}

func TestDocuments_CreateStrong(t *testing.T) {
	intents := detectDocuments(t, "create a document about the trip")

	create, ok := findTool(intents, intent.ToolCreateDocument)
	if !ok {
		t.Fatal("expected a create intent")
	}
	if create.Confidence != 0.90 {
		t.Errorf("confidence = %v, want 0.90", create.Confidence)
	}
	params := create.Params.(intent.Document)
	if params.HasContent {
		t.Error("HasContent = true, want false without quoted text")
	}
}

func TestDocuments_CreateWithContent(t *testing.T) {
	intents := detectDocuments(t, `write a note saying "buy milk"`)

	create, ok := findTool(intents, intent.ToolCreateDocument)
	if !ok {
		t.Fatal("expected a create intent")
	}
	if create.Confidence != 0.80 {
		t.Errorf("confidence = %v, want 0.80", create.Confidence)
	}
	params := create.Params.(intent.Document)
	if !params.HasContent {
		t.Error("HasContent = false, want true with quoted text")
	}
}
