// Package intent defines the candidate interpretations produced by domain
// detectors and the confidence vocabulary shared across the routing engine.
package intent

// Confidence thresholds used by the scoring rubrics and the selection
// pipeline. Detectors score freely in [0,1]; these anchors give the tiers
// a shared meaning.
const (
	// HighConfidence marks a decision safe to act on without asking the
	// user a clarifying question.
	HighConfidence = 0.90
	// MediumConfidence is the typical verb+noun co-occurrence tier.
	MediumConfidence = 0.75
	// LowConfidence is the context-supported weak-signal tier.
	LowConfidence = 0.55
	// MinimumConfidence is the viability floor. Intents scoring below it
	// are discarded before ranking.
	MinimumConfidence = 0.50
)

const (
	// MinConfidenceGap is the closest the top two viable intents may score
	// before the engine asks the user to disambiguate.
	MinConfidenceGap = 0.15
	// MaxAlternatives caps the runner-up list in a selection result.
	MaxAlternatives = 4
	// MaxDisambiguationOptions caps how many interpretations a clarifying
	// question names, the primary included.
	MaxDisambiguationOptions = 3
)

// Priority orders domains by urgency, fewer meaning more urgent. It is
// consulted only as a tie-break between intents whose confidences are
// effectively equal; a clear confidence win is never overridden by it.
type Priority int

const (
	// PriorityCritical is reserved for time-sensitive communication (email).
	PriorityCritical Priority = 1
	// PriorityHigh covers music, timers, automation, and the camera.
	PriorityHigh Priority = 2
	// PriorityMedium is the default for most tools.
	PriorityMedium Priority = 3
	// PriorityLow covers generic search and utility lookups.
	PriorityLow Priority = 4
	// PriorityFallback is the last resort tier.
	PriorityFallback Priority = 5
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	case PriorityFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Intent is one candidate interpretation of an utterance: a proposed tool,
// the detector's belief it is the right call, and the arguments it pulled
// out of the message. Detectors build intents fresh on every call and never
// touch one another's results.
type Intent struct {
	// Tool is the capability being proposed.
	Tool Tool `json:"tool"`

	// Confidence is the detector's belief this is the correct
	// interpretation, in [0.0, 1.0].
	Confidence float64 `json:"confidence"`

	// Priority is the domain urgency tag (tie-break only).
	Priority Priority `json:"priority"`

	// Reason records which signals fired, for humans reading a trace.
	Reason string `json:"reason"`

	// Params carries the extracted tool arguments; nil for tools that
	// take none.
	Params Params `json:"params,omitempty"`

	// NegativeSignals lists suppressing cues that reduced confidence.
	NegativeSignals []string `json:"negative_signals,omitempty"`
}
