// Single-pattern detectors: domains where one keyword tier is enough
// and no parameters need extracting.

package detect

import (
	"strings"

	"github.com/normanking/thalamus/internal/convo"
	"github.com/normanking/thalamus/internal/intent"
)

// AutomationDetector proposes routine execution intents.
type AutomationDetector struct{}

var routineSignals = []string{
	"run routine", "execute routine", "run automation", "good morning",
	"good night", "start routine", "trigger routine",
}

func (d *AutomationDetector) Name() string { return "automation" }

func (d *AutomationDetector) Detect(message, lower string, ctx *convo.Context) []intent.Intent {
	if containsAny(lower, routineSignals) {
		return single(intent.ToolRunRoutine, 0.90, intent.PriorityHigh, "automation/routine keywords")
	}
	return nil
}

// ContactsDetector proposes contact listing and creation intents.
type ContactsDetector struct{}

var (
	contactListSignals = []string{"show contacts", "list contacts", "my contacts", "all contacts"}
	contactAddSignals  = []string{"add contact", "create contact", "new contact", "save contact"}
)

func (d *ContactsDetector) Name() string { return "contacts" }

func (d *ContactsDetector) Detect(message, lower string, ctx *convo.Context) []intent.Intent {
	if containsAny(lower, contactListSignals) {
		return single(intent.ToolListContacts, 0.90, intent.PriorityMedium, "list contacts keywords")
	}
	if containsAny(lower, contactAddSignals) {
		return single(intent.ToolAddContact, 0.90, intent.PriorityMedium, "add contact keywords")
	}
	return nil
}

// HabitsDetector proposes habit tracking intents.
type HabitsDetector struct{}

var (
	habitCompleteSignals = []string{"completed", "finished", "did my", "done with"}
	habitCreateSignals   = []string{"track habit", "create habit", "new habit", "start tracking"}
)

func (d *HabitsDetector) Name() string { return "habits" }

func (d *HabitsDetector) Detect(message, lower string, ctx *convo.Context) []intent.Intent {
	if containsAny(lower, habitCompleteSignals) && strings.Contains(lower, "habit") {
		return single(intent.ToolCompleteHabit, 0.85, intent.PriorityMedium, "habit completion keywords")
	}
	if containsAny(lower, habitCreateSignals) {
		return single(intent.ToolCreateHabit, 0.90, intent.PriorityMedium, "habit creation keywords")
	}
	return nil
}

// NotesDetector proposes note and task intents.
type NotesDetector struct{}

var (
	noteCreateSignals = []string{"create note", "add note", "make a note", "save note", "write note"}
	taskCreateSignals = []string{"add task", "create task", "new task", "add to do", "add todo"}
	noteListSignals   = []string{"show notes", "list notes", "my notes", "show tasks", "list tasks"}
)

func (d *NotesDetector) Name() string { return "notes" }

func (d *NotesDetector) Detect(message, lower string, ctx *convo.Context) []intent.Intent {
	if containsAny(lower, noteCreateSignals) {
		return single(intent.ToolCreateNote, 0.85, intent.PriorityMedium, "note creation keywords")
	}
	if containsAny(lower, taskCreateSignals) {
		return single(intent.ToolCreateTask, 0.85, intent.PriorityMedium, "task creation keywords")
	}
	if containsAny(lower, noteListSignals) {
		return single(intent.ToolListNotes, 0.85, intent.PriorityMedium, "list notes/tasks keywords")
	}
	return nil
}

// TimersDetector proposes timer and reminder intents.
type TimersDetector struct{}

var (
	timerSignals    = []string{"set timer", "start timer", "timer for", "countdown"}
	reminderSignals = []string{"remind me", "set reminder", "reminder to", "reminder for"}
)

func (d *TimersDetector) Name() string { return "timers" }

func (d *TimersDetector) Detect(message, lower string, ctx *convo.Context) []intent.Intent {
	if containsAny(lower, timerSignals) {
		return single(intent.ToolSetTimer, 0.90, intent.PriorityHigh, "timer keywords")
	}
	if containsAny(lower, reminderSignals) {
		return single(intent.ToolSetReminder, 0.90, intent.PriorityHigh, "reminder keywords")
	}
	return nil
}

// SystemDetector proposes screenshot, clipboard, and app launch intents.
type SystemDetector struct{}

var (
	screenshotSignals = []string{"screenshot", "screen capture", "capture screen"}
	clipboardSignals  = []string{"copy", "clipboard", "paste"}

	// A known app name alone is enough to route a launch.
	launchableApps = []string{"chrome", "firefox", "notepad", "calculator"}
)

func (d *SystemDetector) Name() string { return "system" }

func (d *SystemDetector) Detect(message, lower string, ctx *convo.Context) []intent.Intent {
	switch {
	case containsAny(lower, screenshotSignals):
		return single(intent.ToolTakeScreenshot, 0.90, intent.PriorityMedium, "screenshot keywords")
	case containsAny(lower, clipboardSignals):
		return single(intent.ToolClipboardOperation, 0.75, intent.PriorityLow, "clipboard keywords")
	case containsAny(lower, launchableApps):
		return single(intent.ToolLaunchApplication, 0.85, intent.PriorityMedium, "launch app keywords")
	}
	return nil
}

// UtilitiesDetector proposes calculation and date/time intents.
type UtilitiesDetector struct{}

var (
	calcSignals   = []string{"calculate", "math", "compute", "what is", "how much is"}
	mathOperators = []string{"+", "-", "*", "/", "plus", "minus", "times", "divided"}
	dateSignals   = []string{"what day", "what date", "today's date", "current date"}
)

func (d *UtilitiesDetector) Name() string { return "utilities" }

func (d *UtilitiesDetector) Detect(message, lower string, ctx *convo.Context) []intent.Intent {
	if containsAny(lower, calcSignals) && containsAny(lower, mathOperators) {
		return single(intent.ToolCalculate, 0.85, intent.PriorityLow, "calculation keywords")
	}
	if containsAny(lower, dateSignals) {
		return single(intent.ToolGetDateTime, 0.90, intent.PriorityLow, "date/time query")
	}
	return nil
}

// MediaLibraryDetector proposes podcast subscription intents.
type MediaLibraryDetector struct{}

var (
	podcastAddSignals  = []string{"add podcast", "subscribe to podcast", "new podcast", "podcast feed"}
	podcastListSignals = []string{"list podcasts", "show podcasts", "my podcasts"}
)

func (d *MediaLibraryDetector) Name() string { return "media_library" }

func (d *MediaLibraryDetector) Detect(message, lower string, ctx *convo.Context) []intent.Intent {
	if containsAny(lower, podcastAddSignals) {
		return single(intent.ToolAddPodcast, 0.90, intent.PriorityMedium, "add podcast keywords")
	}
	if containsAny(lower, podcastListSignals) {
		return single(intent.ToolListPodcasts, 0.90, intent.PriorityMedium, "list podcasts keywords")
	}
	return nil
}

// LocationsDetector proposes saved-location intents.
type LocationsDetector struct{}

var (
	locationSaveSignals = []string{"save location", "save this place", "remember this location", "add location"}
	locationListSignals = []string{"my locations", "saved locations", "list locations"}
)

func (d *LocationsDetector) Name() string { return "locations" }

func (d *LocationsDetector) Detect(message, lower string, ctx *convo.Context) []intent.Intent {
	if containsAny(lower, locationSaveSignals) {
		return single(intent.ToolSaveLocation, 0.90, intent.PriorityMedium, "save location keywords")
	}
	if containsAny(lower, locationListSignals) {
		return single(intent.ToolListLocations, 0.90, intent.PriorityMedium, "list locations keywords")
	}
	return nil
}
