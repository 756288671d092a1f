package detect

import (
	"strings"

	"github.com/normanking/thalamus/internal/convo"
	"github.com/normanking/thalamus/internal/intent"
)

// CalendarDetector proposes event creation and calendar listing intents.
type CalendarDetector struct{}

var (
	eventCreateStrong = []string{
		"create event", "add event", "schedule event", "create appointment",
		"schedule meeting", "add to calendar", "create reminder",
	}
	eventTimeWords = []string{
		"at", "tomorrow", "today", "next week", "on monday", "on tuesday",
	}

	eventListStrong = []string{
		"show my calendar", "list events", "what's on my calendar",
		"my schedule", "show schedule", "upcoming events",
	}
)

func (d *CalendarDetector) Name() string { return "calendar" }

func (d *CalendarDetector) Detect(message, lower string, ctx *convo.Context) []intent.Intent {
	var intents []intent.Intent
	if in, ok := d.detectCreate(lower); ok {
		intents = append(intents, in)
	}
	if in, ok := d.detectList(lower); ok {
		intents = append(intents, in)
	}
	return intents
}

func (d *CalendarDetector) detectCreate(lower string) (intent.Intent, bool) {
	var confidence float64
	var reasons []string

	if containsAny(lower, eventCreateStrong) {
		confidence = 0.90
		reasons = append(reasons, "explicit event creation")
	} else if containsAny(lower, eventTimeWords) {
		if containsAny(lower, []string{"schedule", "meet", "appointment"}) {
			confidence = 0.75
			reasons = append(reasons, "time + schedule keyword")
		}
	}

	if confidence <= 0 {
		return intent.Intent{}, false
	}

	return intent.Intent{
		Tool:       intent.ToolCreateEvent,
		Confidence: confidence,
		Priority:   intent.PriorityMedium,
		Reason:     strings.Join(reasons, " | "),
	}, true
}

func (d *CalendarDetector) detectList(lower string) (intent.Intent, bool) {
	if !containsAny(lower, eventListStrong) {
		return intent.Intent{}, false
	}

	return intent.Intent{
		Tool:       intent.ToolListEvents,
		Confidence: 0.90,
		Priority:   intent.PriorityMedium,
		Reason:     "explicit calendar query",
	}, true
}
