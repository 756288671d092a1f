package detect

import (
	"strings"

	"github.com/normanking/thalamus/internal/convo"
	"github.com/normanking/thalamus/internal/intent"
)

// DocumentsDetector proposes document search and creation intents.
// Explicit web phrasing pushes search confidence down; the web detector
// applies the mirror-image penalty.
type DocumentsDetector struct{}

var (
	docSearchStrong = []string{
		"search my documents", "search documents for", "find in my documents",
		"what do my documents say", "according to my documents", "search my files",
	}

	// Listing and counting queries about what exists.
	docListSignals = []string{
		"what documents are", "what documents do", "what files are",
		"what files do", "list documents", "list files", "list my documents",
		"list my files", "show me my documents", "show me my files",
		"show documents", "show files", "show my documents", "show my files",
		"how many documents", "how many files", "count documents", "count files",
		"documents in", "files in", "which documents", "which files",
	}

	docNouns = []string{"document", "documents", "file", "files", "pdf", "contract"}

	docCreateStrong = []string{
		"create a document", "create a file", "make a document",
		"write a document", "save as a file", "create a list", "make me a list",
	}
	docCreateNouns = []string{"document", "file", "list", "note", "notes", "recipe"}
)

// maxDocQueryLen bounds the query forwarded to document search.
const maxDocQueryLen = 100

func (d *DocumentsDetector) Name() string { return "documents" }

func (d *DocumentsDetector) Detect(message, lower string, ctx *convo.Context) []intent.Intent {
	var intents []intent.Intent
	if in, ok := d.detectSearch(lower); ok {
		intents = append(intents, in)
	}
	if in, ok := d.detectCreate(lower); ok {
		intents = append(intents, in)
	}
	return intents
}

func (d *DocumentsDetector) detectSearch(lower string) (intent.Intent, bool) {
	var confidence float64
	var reasons []string

	switch {
	case containsAny(lower, docSearchStrong):
		confidence = 0.95
		reasons = append(reasons, "explicit document search")
	case containsAny(lower, docListSignals):
		confidence = 0.90
		reasons = append(reasons, "document list/count query")
	case containsAny(lower, []string{"search", "find", "look for"}):
		if containsAny(lower, docNouns) {
			if strings.Contains(lower, "my") || strings.Contains(lower, "our") {
				confidence = 0.85
				reasons = append(reasons, "search + possessive + document")
			} else {
				confidence = 0.70
				reasons = append(reasons, "search + document")
			}
		}
	}

	// Question forms about documents get a floor unless a stronger
	// signal already fired.
	if (strings.Contains(lower, "what") || strings.Contains(lower, "how")) && containsAny(lower, docNouns) {
		if confidence < 0.80 {
			confidence = max(confidence, 0.75)
			reasons = append(reasons, "question about document")
		}
	}

	if containsAny(lower, []string{"google", "search online", "search the web"}) {
		confidence = max(0.0, confidence-0.4)
	}

	if confidence <= 0 {
		return intent.Intent{}, false
	}

	return intent.Intent{
		Tool:       intent.ToolSearchDocuments,
		Confidence: confidence,
		Priority:   intent.PriorityMedium,
		Reason:     strings.Join(reasons, " | "),
		Params:     intent.Search{Query: truncateRunes(lower, maxDocQueryLen)},
	}, true
}

func (d *DocumentsDetector) detectCreate(lower string) (intent.Intent, bool) {
	var confidence float64
	var reasons []string

	if containsAny(lower, docCreateStrong) {
		confidence = 0.90
		reasons = append(reasons, "explicit creation keywords")
	} else if containsAny(lower, []string{"create", "make", "write", "save"}) {
		if containsAny(lower, docCreateNouns) {
			confidence = 0.80
			reasons = append(reasons, "create verb + document noun")
		}
	}

	if confidence <= 0 {
		return intent.Intent{}, false
	}

	return intent.Intent{
		Tool:       intent.ToolCreateDocument,
		Confidence: confidence,
		Priority:   intent.PriorityMedium,
		Reason:     strings.Join(reasons, " | "),
		Params:     intent.Document{HasContent: strings.ContainsAny(lower, `"'`)},
	}, true
}
