// Package bus is the event spine of the routing engine: a thread-safe
// pub/sub fabric carrying selection decisions, detector faults, and
// usage records to whoever is watching (the live console, the WebSocket
// feed, a log sink). Publishing never blocks; a subscriber that cannot
// keep up misses events rather than stalling selection.
package bus

import (
	"time"

	"github.com/google/uuid"
)

// EventType labels the kind of engine activity an event describes.
type EventType string

const (
	// EventDecisionMade fires when a selection pass picks a primary tool.
	EventDecisionMade EventType = "decision.made"

	// EventDecisionSkip fires when the skip gate short-circuits a message.
	EventDecisionSkip EventType = "decision.skip"

	// EventDecisionNone fires when no detector cleared the viability floor.
	EventDecisionNone EventType = "decision.none"

	// EventDisambiguation fires when the engine asks the user to clarify
	// instead of committing to a tool.
	EventDisambiguation EventType = "decision.disambiguation"

	// EventDetectorFault fires when a detector panicked and was skipped.
	EventDetectorFault EventType = "detector.fault"

	// EventUsageRecorded fires after the host reports a successful tool
	// execution.
	EventUsageRecorded EventType = "usage.recorded"
)

// Event is one observable moment in the engine's life. Only the fields
// relevant to its type are populated; everything else is left zero and
// omitted from the JSON form.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`

	// Decision context
	Message      string   `json:"message,omitempty"`
	Tool         string   `json:"tool,omitempty"`
	Confidence   float64  `json:"confidence,omitempty"`
	Reason       string   `json:"reason,omitempty"`
	Alternatives []string `json:"alternatives,omitempty"`
	Prompt       string   `json:"prompt,omitempty"`
	Compound     bool     `json:"compound,omitempty"`
	DurationMs   int64    `json:"duration_ms,omitempty"`

	// Fault context
	Detector string `json:"detector,omitempty"`
	Error    string `json:"error,omitempty"`

	// Usage context
	Count int64 `json:"count,omitempty"`
}

// NewEvent creates an event of the given type with a fresh ID and the
// current UTC timestamp.
func NewEvent(eventType EventType) Event {
	return Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Type:      eventType,
	}
}

// NewDecisionEvent describes a completed selection that chose a tool.
func NewDecisionEvent(message, tool string, confidence float64, reason string, alternatives []string, compound bool, elapsed time.Duration) Event {
	e := NewEvent(EventDecisionMade)
	e.Message = message
	e.Tool = tool
	e.Confidence = confidence
	e.Reason = reason
	e.Alternatives = alternatives
	e.Compound = compound
	e.DurationMs = elapsed.Milliseconds()
	return e
}

// NewSkipEvent describes a message the skip gate identified as casual
// chat.
func NewSkipEvent(message string) Event {
	e := NewEvent(EventDecisionSkip)
	e.Message = message
	return e
}

// NewNoMatchEvent describes a selection pass where nothing was viable.
func NewNoMatchEvent(message string, compound bool, elapsed time.Duration) Event {
	e := NewEvent(EventDecisionNone)
	e.Message = message
	e.Compound = compound
	e.DurationMs = elapsed.Milliseconds()
	return e
}

// NewDisambiguationEvent describes a selection that ended in a
// clarifying question.
func NewDisambiguationEvent(message, tool, prompt string, alternatives []string, elapsed time.Duration) Event {
	e := NewEvent(EventDisambiguation)
	e.Message = message
	e.Tool = tool
	e.Prompt = prompt
	e.Alternatives = alternatives
	e.DurationMs = elapsed.Milliseconds()
	return e
}

// NewFaultEvent describes a detector panic that was recovered.
func NewFaultEvent(detector, errMsg string) Event {
	e := NewEvent(EventDetectorFault)
	e.Detector = detector
	e.Error = errMsg
	return e
}

// NewUsageEvent describes a usage-counter increment, with the tool's
// running total.
func NewUsageEvent(tool string, count int64) Event {
	e := NewEvent(EventUsageRecorded)
	e.Tool = tool
	e.Count = count
	return e
}
