package intent

// Params carries the arguments a detector extracted for a proposed tool
// call. Each tool family has its own concrete type so required fields are
// checked at compile time; the orchestrator treats the value opaquely.
// Tools that take no arguments leave the field nil.
type Params interface {
	isParams()
}

// MusicQuery holds the search text for a playback request.
type MusicQuery struct {
	// Query is the artist, genre, or free text to play.
	Query string `json:"query"`
}

// MusicControl holds a playback transport action.
type MusicControl struct {
	// Action is one of: pause, resume, next, previous, volume_up,
	// volume_down, mute.
	Action string `json:"action"`
}

// Visualizer holds the settings for a music visualizer session.
type Visualizer struct {
	Action   string `json:"action"`
	Duration int    `json:"duration"`
	Style    string `json:"style"`
}

// EmailRead filters an inbox read.
type EmailRead struct {
	Unread     bool   `json:"unread,omitempty"`
	From       string `json:"from,omitempty"`
	MaxResults int    `json:"max_results"`
}

// EmailCompose holds the pieces of an outgoing email that could be pulled
// from the message. Any field may be empty; the executor prompts for the
// rest.
type EmailCompose struct {
	To      string `json:"to,omitempty"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`
}

// EmailReply holds reply settings.
type EmailReply struct {
	ReplyAll bool   `json:"reply_all,omitempty"`
	Body     string `json:"body,omitempty"`
}

// Lights holds a lighting command. Brightness is in the device-native
// 0-254 range and is nil when the message did not specify one.
type Lights struct {
	// Action is one of: on, off, mood, color, brightness, status.
	Action     string `json:"action"`
	Mood       string `json:"mood,omitempty"`
	Color      string `json:"color,omitempty"`
	Brightness *int   `json:"brightness,omitempty"`
}

// Search holds the query text for document or web search.
type Search struct {
	Query string `json:"query"`
}

// Document flags whether a creation request already carries quoted content.
type Document struct {
	HasContent bool `json:"has_content,omitempty"`
}

// Browse holds the target of a website visit.
type Browse struct {
	URL     string `json:"url"`
	Extract string `json:"extract"`
}

// Weather holds an optional location for a forecast request.
type Weather struct {
	Location string `json:"location,omitempty"`
}

func (MusicQuery) isParams()   {}
func (MusicControl) isParams() {}
func (Visualizer) isParams()   {}
func (EmailRead) isParams()    {}
func (EmailCompose) isParams() {}
func (EmailReply) isParams()   {}
func (Lights) isParams()       {}
func (Search) isParams()       {}
func (Document) isParams()     {}
func (Browse) isParams()       {}
func (Weather) isParams()      {}
