package intent

// Tool identifies a downstream capability the engine can propose. The set
// is closed: detectors only ever emit the names below, and the host maps
// each one to an opaque executor.
type Tool string

const (
	// Music
	ToolPlayMusic       Tool = "play_music"
	ToolControlMusic    Tool = "control_music"
	ToolMusicVisualizer Tool = "music_visualizer"

	// Email
	ToolReadGmail  Tool = "read_gmail"
	ToolSendGmail  Tool = "send_gmail"
	ToolReplyGmail Tool = "reply_gmail"

	// Smart home
	ToolControlLights Tool = "control_lights"
	ToolRunRoutine    Tool = "run_routine"

	// Documents and web
	ToolSearchDocuments Tool = "search_documents"
	ToolCreateDocument  Tool = "create_document"
	ToolWebSearch       Tool = "web_search"
	ToolBrowseWebsite   Tool = "browse_website"

	// Weather and calendar
	ToolGetWeather  Tool = "get_weather"
	ToolCreateEvent Tool = "create_event"
	ToolListEvents  Tool = "list_events"

	// Vision
	ToolCaptureCameraImage Tool = "capture_camera_image"
	ToolViewImage          Tool = "view_image"
	ToolRecognizeFace      Tool = "recognize_face"
	ToolRecognizePlace     Tool = "recognize_place"

	// Contacts
	ToolListContacts Tool = "list_contacts"
	ToolAddContact   Tool = "add_contact"

	// Habits
	ToolCompleteHabit Tool = "complete_habit"
	ToolCreateHabit   Tool = "create_habit"

	// Notes and tasks
	ToolCreateNote Tool = "create_note"
	ToolCreateTask Tool = "create_task"
	ToolListNotes  Tool = "list_notes"

	// Timers
	ToolSetTimer    Tool = "set_timer"
	ToolSetReminder Tool = "set_reminder"

	// System
	ToolTakeScreenshot     Tool = "take_screenshot"
	ToolClipboardOperation Tool = "clipboard_operation"
	ToolLaunchApplication  Tool = "launch_application"

	// Utilities
	ToolCalculate   Tool = "calculate"
	ToolGetDateTime Tool = "get_date_time"

	// Media library
	ToolAddPodcast   Tool = "add_podcast"
	ToolListPodcasts Tool = "list_podcasts"

	// Locations
	ToolSaveLocation  Tool = "save_location"
	ToolListLocations Tool = "list_locations"
)

// KnownTools returns the full tool vocabulary in a stable order.
func KnownTools() []Tool {
	return []Tool{
		ToolPlayMusic, ToolControlMusic, ToolMusicVisualizer,
		ToolReadGmail, ToolSendGmail, ToolReplyGmail,
		ToolControlLights, ToolRunRoutine,
		ToolSearchDocuments, ToolCreateDocument,
		ToolWebSearch, ToolBrowseWebsite,
		ToolGetWeather, ToolCreateEvent, ToolListEvents,
		ToolCaptureCameraImage, ToolViewImage, ToolRecognizeFace, ToolRecognizePlace,
		ToolListContacts, ToolAddContact,
		ToolCompleteHabit, ToolCreateHabit,
		ToolCreateNote, ToolCreateTask, ToolListNotes,
		ToolSetTimer, ToolSetReminder,
		ToolTakeScreenshot, ToolClipboardOperation, ToolLaunchApplication,
		ToolCalculate, ToolGetDateTime,
		ToolAddPodcast, ToolListPodcasts,
		ToolSaveLocation, ToolListLocations,
	}
}

// String returns the wire name of the tool.
func (t Tool) String() string {
	return string(t)
}

// IsValid reports whether t is part of the known vocabulary.
func (t Tool) IsValid() bool {
	for _, known := range KnownTools() {
		if t == known {
			return true
		}
	}
	return false
}

// friendlyNames maps tools to the phrasing used in clarifying questions.
// Tools without an entry fall back to their wire name.
var friendlyNames = map[Tool]string{
	ToolReadGmail:       "read your email",
	ToolSendGmail:       "send an email",
	ToolPlayMusic:       "play music",
	ToolControlLights:   "control lights",
	ToolSearchDocuments: "search your documents",
	ToolWebSearch:       "search the web",
}

// DisplayName returns the natural-language phrasing of a tool for
// disambiguation prompts.
func (t Tool) DisplayName() string {
	if name, ok := friendlyNames[t]; ok {
		return name
	}
	return string(t)
}
