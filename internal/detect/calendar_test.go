package detect

import (
	"strings"
	"testing"

	"github.com/normanking/thalamus/internal/intent"
)

func detectCalendar(t *testing.T, message string) []intent.Intent {
	t.Helper()
	d := &CalendarDetector{}
	return d.Detect(message, strings.ToLower(message), nil)
}

func TestCalendar_CreateStrong(t *testing.T) {
	intents := detectCalendar(t, "schedule meeting with the team at 3pm")

	create, ok := findTool(intents, intent.ToolCreateEvent)
	if !ok {
		t.Fatal("expected a create intent")
	}
	if create.Confidence != 0.90 {
		t.Errorf("confidence = %v, want 0.90", create.Confidence)
	}
}

func TestCalendar_CreateFromTimeWord(t *testing.T) {
	intents := detectCalendar(t, "meet me tomorrow")

	create, ok := findTool(intents, intent.ToolCreateEvent)
	if !ok {
		t.Fatal("expected a create intent")
	}
	if create.Confidence != 0.75 {
		t.Errorf("confidence = %v, want 0.75", create.Confidence)
	}
}

func TestCalendar_List(t *testing.T) {
	intents := detectCalendar(t, "what's on my calendar")

	list, ok := findTool(intents, intent.ToolListEvents)
	if !ok {
		t.Fatal("expected a list intent")
	}
	if list.Confidence != 0.90 {
		t.Errorf("confidence = %v, want 0.90", list.Confidence)
	}
	if _, ok := findTool(intents, intent.ToolCreateEvent); ok {
		t.Error("calendar query should not also propose creation")
	}
}

func TestCalendar_AddEvent(t *testing.T) {
	intents := detectCalendar(t, "add event for friday")

	create, ok := findTool(intents, intent.ToolCreateEvent)
	if !ok {
		t.Fatal("expected a create intent")
	}
	if create.Confidence != 0.90 {
		t.Errorf("confidence = %v, want 0.90", create.Confidence)
	}
}

func TestCalendar_NoSignals(t *testing.T) {
	if intents := detectCalendar(t, "play some jazz"); len(intents) != 0 {
		t.Errorf("Detect = %v, want none", intents)
	}
}
