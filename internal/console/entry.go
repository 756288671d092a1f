package console

import (
	"fmt"
	"time"

	"github.com/normanking/thalamus/internal/convo"
	"github.com/normanking/thalamus/internal/intent"
	"github.com/normanking/thalamus/internal/selector"
)

// EntryKind classifies a transcript entry.
type EntryKind int

const (
	// EntryUser is the message the user typed.
	EntryUser EntryKind = iota

	// EntryDecision is a routing pass that produced a primary intent.
	EntryDecision

	// EntrySkip is a routing pass short-circuited as conversation.
	EntrySkip

	// EntryNoMatch is a routing pass where no intent cleared the floor.
	EntryNoMatch

	// EntryDisambiguation is a routing pass that asked for clarification.
	EntryDisambiguation

	// EntryInfo is a command response or system notice.
	EntryInfo

	// EntryError is a failed command or engine error.
	EntryError

	// EntryExplain is a glamour-rendered decision report.
	EntryExplain
)

// String returns the kind name for logs and tests.
func (k EntryKind) String() string {
	switch k {
	case EntryUser:
		return "user"
	case EntryDecision:
		return "decision"
	case EntrySkip:
		return "skip"
	case EntryNoMatch:
		return "no_match"
	case EntryDisambiguation:
		return "disambiguation"
	case EntryInfo:
		return "info"
	case EntryError:
		return "error"
	case EntryExplain:
		return "explain"
	default:
		return "unknown"
	}
}

// Entry is one line-group in the console transcript. User prompts and
// routing outcomes alternate; info and error entries come from commands.
type Entry struct {
	Kind EntryKind

	// Text is the user's message, the info notice, or the pre-rendered
	// explain report, depending on Kind.
	Text string

	// Result is the routing outcome backing decision, skip, no-match,
	// and disambiguation entries.
	Result *selector.Result

	// Timestamp is when the entry was added.
	Timestamp time.Time
}

// NewUserEntry records the message the user submitted.
func NewUserEntry(text string) *Entry {
	return &Entry{Kind: EntryUser, Text: text, Timestamp: time.Now()}
}

// NewResultEntry classifies a routing outcome into the matching kind.
func NewResultEntry(res *selector.Result) *Entry {
	e := &Entry{Result: res, Timestamp: time.Now()}
	switch {
	case res.NeedsDisambiguation:
		e.Kind = EntryDisambiguation
	case res.Primary != nil:
		e.Kind = EntryDecision
	case convo.ShouldSkip(res.Message):
		e.Kind = EntrySkip
	default:
		e.Kind = EntryNoMatch
	}
	return e
}

// NewInfoEntry records a command response.
func NewInfoEntry(text string) *Entry {
	return &Entry{Kind: EntryInfo, Text: text, Timestamp: time.Now()}
}

// NewErrorEntry records a failed command.
func NewErrorEntry(text string) *Entry {
	return &Entry{Kind: EntryError, Text: text, Timestamp: time.Now()}
}

// NewExplainEntry records a rendered decision report.
func NewExplainEntry(rendered string) *Entry {
	return &Entry{Kind: EntryExplain, Text: rendered, Timestamp: time.Now()}
}

// formatParams flattens extracted tool arguments into a short key=value
// line for the transcript. Nil params render as an empty string.
func formatParams(p intent.Params) string {
	switch v := p.(type) {
	case nil:
		return ""
	case intent.MusicQuery:
		return fmt.Sprintf("query=%q", v.Query)
	case intent.MusicControl:
		return fmt.Sprintf("action=%s", v.Action)
	case intent.Visualizer:
		return fmt.Sprintf("action=%s duration=%d style=%s", v.Action, v.Duration, v.Style)
	case intent.EmailRead:
		out := fmt.Sprintf("max_results=%d", v.MaxResults)
		if v.Unread {
			out = "unread " + out
		}
		if v.From != "" {
			out += fmt.Sprintf(" from=%q", v.From)
		}
		return out
	case intent.EmailCompose:
		out := ""
		if v.To != "" {
			out += fmt.Sprintf("to=%q ", v.To)
		}
		if v.Subject != "" {
			out += fmt.Sprintf("subject=%q ", v.Subject)
		}
		if v.Body != "" {
			out += fmt.Sprintf("body=%q ", v.Body)
		}
		if out == "" {
			return "(empty draft)"
		}
		return out[:len(out)-1]
	case intent.EmailReply:
		if v.ReplyAll {
			return "reply_all"
		}
		return "reply"
	case intent.Lights:
		out := fmt.Sprintf("action=%s", v.Action)
		if v.Mood != "" {
			out += fmt.Sprintf(" mood=%s", v.Mood)
		}
		if v.Color != "" {
			out += fmt.Sprintf(" color=%s", v.Color)
		}
		if v.Brightness != nil {
			out += fmt.Sprintf(" brightness=%d", *v.Brightness)
		}
		return out
	case intent.Search:
		return fmt.Sprintf("query=%q", v.Query)
	case intent.Document:
		if v.HasContent {
			return "with content"
		}
		return ""
	case intent.Browse:
		out := fmt.Sprintf("url=%s", v.URL)
		if v.Extract != "" {
			out += fmt.Sprintf(" extract=%q", v.Extract)
		}
		return out
	case intent.Weather:
		if v.Location != "" {
			return fmt.Sprintf("location=%q", v.Location)
		}
		return ""
	default:
		return fmt.Sprintf("%+v", p)
	}
}
