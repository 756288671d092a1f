package detect

import (
	"strings"
	"testing"

	"github.com/normanking/thalamus/internal/intent"
)

func TestSimpleDetectors(t *testing.T) {
	tests := []struct {
		name       string
		detector   Detector
		message    string
		tool       intent.Tool
		confidence float64
		priority   intent.Priority
	}{
		{"routine", &AutomationDetector{}, "trigger routine now", intent.ToolRunRoutine, 0.90, intent.PriorityHigh},
		{"routine greeting phrase", &AutomationDetector{}, "good morning", intent.ToolRunRoutine, 0.90, intent.PriorityHigh},
		{"contacts list", &ContactsDetector{}, "show contacts", intent.ToolListContacts, 0.90, intent.PriorityMedium},
		{"contacts add", &ContactsDetector{}, "add contact for mary", intent.ToolAddContact, 0.90, intent.PriorityMedium},
		{"habit complete", &HabitsDetector{}, "i completed my habit", intent.ToolCompleteHabit, 0.85, intent.PriorityMedium},
		{"habit create", &HabitsDetector{}, "start tracking water intake", intent.ToolCreateHabit, 0.90, intent.PriorityMedium},
		{"note create", &NotesDetector{}, "create note about the meeting", intent.ToolCreateNote, 0.85, intent.PriorityMedium},
		{"task create", &NotesDetector{}, "add task buy groceries", intent.ToolCreateTask, 0.85, intent.PriorityMedium},
		{"notes list", &NotesDetector{}, "list tasks for today", intent.ToolListNotes, 0.85, intent.PriorityMedium},
		{"timer", &TimersDetector{}, "set timer for 10 minutes", intent.ToolSetTimer, 0.90, intent.PriorityHigh},
		{"reminder", &TimersDetector{}, "remind me to call mom", intent.ToolSetReminder, 0.90, intent.PriorityHigh},
		{"screenshot", &SystemDetector{}, "take a screenshot", intent.ToolTakeScreenshot, 0.90, intent.PriorityMedium},
		{"clipboard", &SystemDetector{}, "copy that to my clipboard", intent.ToolClipboardOperation, 0.75, intent.PriorityLow},
		{"app launch", &SystemDetector{}, "open chrome", intent.ToolLaunchApplication, 0.85, intent.PriorityMedium},
		{"calculation", &UtilitiesDetector{}, "what is 5 + 3", intent.ToolCalculate, 0.85, intent.PriorityLow},
		{"date query", &UtilitiesDetector{}, "what day is it", intent.ToolGetDateTime, 0.90, intent.PriorityLow},
		{"podcast add", &MediaLibraryDetector{}, "subscribe to podcast radiolab", intent.ToolAddPodcast, 0.90, intent.PriorityMedium},
		{"podcast list", &MediaLibraryDetector{}, "show podcasts", intent.ToolListPodcasts, 0.90, intent.PriorityMedium},
		{"location save", &LocationsDetector{}, "remember this location", intent.ToolSaveLocation, 0.90, intent.PriorityMedium},
		{"location list", &LocationsDetector{}, "list locations near me", intent.ToolListLocations, 0.90, intent.PriorityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intents := tt.detector.Detect(tt.message, strings.ToLower(tt.message), nil)
			if len(intents) != 1 {
				t.Fatalf("Detect(%q) returned %d intents, want 1", tt.message, len(intents))
			}
			in := intents[0]
			if in.Tool != tt.tool {
				t.Errorf("tool = %v, want %v", in.Tool, tt.tool)
			}
			if in.Confidence != tt.confidence {
				t.Errorf("confidence = %v, want %v", in.Confidence, tt.confidence)
			}
			if in.Priority != tt.priority {
				t.Errorf("priority = %v, want %v", in.Priority, tt.priority)
			}
			if in.Reason == "" {
				t.Error("reason is empty")
			}
		})
	}
}

func TestSimpleDetectors_NoSignals(t *testing.T) {
	detectors := []Detector{
		&AutomationDetector{},
		&ContactsDetector{},
		&HabitsDetector{},
		&NotesDetector{},
		&TimersDetector{},
		&SystemDetector{},
		&UtilitiesDetector{},
		&MediaLibraryDetector{},
		&LocationsDetector{},
	}

	const message = "tell me a story"
	for _, d := range detectors {
		if intents := d.Detect(message, message, nil); len(intents) != 0 {
			t.Errorf("%s.Detect(%q) = %v, want none", d.Name(), message, intents)
		}
	}
}
