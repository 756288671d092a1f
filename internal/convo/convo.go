// Package convo models conversation history and derives routing context
// from it: which domains recent turns touched, how recently, and which
// tools ran. It also owns the small-talk skip check and the compound
// request splitting that gate the selection pipeline.
package convo

import (
	"slices"
	"strings"
)

// MaxContextTurns caps how far back Extract looks.
const MaxContextTurns = 5

// maxRecentTools caps the distinct tools Extract reports.
const maxRecentTools = 5

// Turn is one conversation exchange as recorded by the caller. ToolUsed
// is the name of the tool that handled the turn, empty when none did.
type Turn struct {
	Role     string `json:"role"`
	Content  string `json:"content"`
	ToolUsed string `json:"tool_used,omitempty"`
}

// DomainPresence reports whether a domain surfaced in recent history and
// how many turns ago. Recency 0 is the most recent turn.
type DomainPresence struct {
	Seen    bool
	Recency int
}

// Context is what the detectors know about the recent conversation.
type Context struct {
	Music    DomainPresence
	Email    DomainPresence
	Lights   DomainPresence
	Camera   DomainPresence
	Document DomainPresence
	Weather  DomainPresence

	// RecentTools lists distinct tool names from newest to oldest.
	RecentTools []string
}

// A domain marker hits when it appears in a turn's lowered content or
// equals the turn's recorded tool name.
var (
	musicMarkers    = []string{"play_music", "control_music", "music", "song", "artist"}
	emailMarkers    = []string{"read_gmail", "send_gmail", "reply_gmail", "email", "inbox"}
	lightsMarkers   = []string{"control_lights", "light", "lights", "mood", "brightness"}
	cameraMarkers   = []string{"capture_camera_image", "view_image", "camera", "picture"}
	documentMarkers = []string{"search_documents", "create_document", "document", "file"}
	weatherMarkers  = []string{"get_weather", "weather", "forecast"}
)

// Extract derives a Context from the last MaxContextTurns turns of
// history. Each domain records the newest turn that mentioned it, and
// RecentTools collects distinct tool names newest first.
func Extract(history []Turn) *Context {
	ctx := &Context{}
	if len(history) == 0 {
		return ctx
	}

	recent := history
	if len(recent) > MaxContextTurns {
		recent = recent[len(recent)-MaxContextTurns:]
	}

	lowered := make([]string, len(recent))
	for i, turn := range recent {
		lowered[i] = strings.ToLower(turn.Content)
	}

	ctx.Music = scanDomain(recent, lowered, musicMarkers)
	ctx.Email = scanDomain(recent, lowered, emailMarkers)
	ctx.Lights = scanDomain(recent, lowered, lightsMarkers)
	ctx.Camera = scanDomain(recent, lowered, cameraMarkers)
	ctx.Document = scanDomain(recent, lowered, documentMarkers)
	ctx.Weather = scanDomain(recent, lowered, weatherMarkers)

	for i := len(recent) - 1; i >= 0; i-- {
		tool := recent[i].ToolUsed
		if tool == "" || slices.Contains(ctx.RecentTools, tool) {
			continue
		}
		ctx.RecentTools = append(ctx.RecentTools, tool)
		if len(ctx.RecentTools) >= maxRecentTools {
			break
		}
	}

	return ctx
}

// scanDomain walks the window newest to oldest and stops at the first
// turn any marker matches.
func scanDomain(recent []Turn, lowered []string, markers []string) DomainPresence {
	for i := 0; i < len(recent); i++ {
		idx := len(recent) - 1 - i
		for _, m := range markers {
			if strings.Contains(lowered[idx], m) || m == recent[idx].ToolUsed {
				return DomainPresence{Seen: true, Recency: i}
			}
		}
	}
	return DomainPresence{}
}
