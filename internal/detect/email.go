package detect

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/normanking/thalamus/internal/convo"
	"github.com/normanking/thalamus/internal/intent"
)

// EmailDetector proposes read, send, and reply intents. The three share
// surface vocabulary, so each applies a penalty when the others' verbs
// co-occur rather than vetoing outright.
type EmailDetector struct{}

var (
	readStrongSignals = []string{
		"check my email", "check email", "check my inbox",
		"read my email", "read my gmail", "check my gmail",
		"show my inbox", "any new email", "unread email", "recent email",
	}
	readVerbs  = []string{"check", "read", "show", "see"}
	emailNouns = []string{"email", "gmail", "inbox", "message"}

	sendStrongSignals = []string{
		"send email to", "send an email", "email to", "compose email",
		"send to", "write email to", "send them an email",
	}
	sendVerbs = []string{"send", "compose", "draft"}

	replyStrongSignals = []string{
		"reply to", "respond to", "reply to all", "send a reply",
		"write a reply", "answer the email", "reply to email",
	}
	replyVerbs = []string{"reply", "respond", "answer"}
)

var (
	emailAddressRe = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	emailToRe      = regexp.MustCompile(`\b([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,})\b`)
	fromFilterRe   = regexp.MustCompile(`from\s+([A-Za-z0-9._%+-]+(?:@[A-Za-z0-9.-]+\.[A-Za-z]{2,})?)`)
	resultCountRe  = regexp.MustCompile(`(\d+)\s+(?:most recent|latest|last|recent)`)
	subjectRe      = regexp.MustCompile(`subject\s*[:"]?\s*["']([^"']+)["']`)
	bodyRe         = regexp.MustCompile(`(?:body|saying|message)\s*[:"]?\s*["']([^"']+)["']`)
	replyBodyRe    = regexp.MustCompile(`(?:saying|message)\s*[:"]?\s*["']([^"']+)["']`)
)

func (d *EmailDetector) Name() string { return "gmail" }

func (d *EmailDetector) Detect(message, lower string, ctx *convo.Context) []intent.Intent {
	var intents []intent.Intent
	if in, ok := d.detectRead(lower, ctx); ok {
		intents = append(intents, in)
	}
	if in, ok := d.detectSend(message, lower); ok {
		intents = append(intents, in)
	}
	if in, ok := d.detectReply(lower); ok {
		intents = append(intents, in)
	}
	return intents
}

func (d *EmailDetector) detectRead(lower string, ctx *convo.Context) (intent.Intent, bool) {
	var confidence float64
	var reasons []string

	switch {
	case containsAny(lower, readStrongSignals):
		confidence = 0.95
		reasons = append(reasons, "explicit read keywords")
	case containsAny(lower, readVerbs):
		if containsAny(lower, emailNouns) {
			confidence = 0.80
			reasons = append(reasons, "read verb + email noun")
		} else if ctx.Email.Seen {
			confidence = 0.70
			reasons = append(reasons, "read verb + email context")
		}
	case containsAny(lower, emailNouns):
		if ctx.Email.Seen {
			confidence = 0.50
			reasons = append(reasons, "email noun + conversation context")
		}
	}

	if strings.Contains(lower, "send") || strings.Contains(lower, "reply") || strings.Contains(lower, "respond") {
		confidence = max(0.0, confidence-0.4)
		reasons = append(reasons, "reduced: send/reply detected")
	}

	if confidence <= 0 {
		return intent.Intent{}, false
	}

	return intent.Intent{
		Tool:       intent.ToolReadGmail,
		Confidence: confidence,
		Priority:   intent.PriorityCritical,
		Reason:     strings.Join(reasons, " | "),
		Params:     readParams(lower),
	}, true
}

func (d *EmailDetector) detectSend(message, lower string) (intent.Intent, bool) {
	var confidence float64
	var reasons []string

	if containsAny(lower, sendStrongSignals) {
		confidence = 0.95
		reasons = append(reasons, "explicit send keywords")

		// A concrete address in the original message seals it.
		if emailAddressRe.MatchString(message) {
			confidence = min(1.0, confidence+0.05)
			reasons = append(reasons, "email address found")
		}
	} else if containsAny(lower, sendVerbs) {
		if strings.Contains(lower, "email") || strings.Contains(lower, "message") {
			confidence = 0.75
			reasons = append(reasons, "send verb + email context")
		}
	}

	if containsAny(lower, []string{"check", "read", "show my"}) {
		confidence = max(0.0, confidence-0.3)
		reasons = append(reasons, "reduced: read indicators")
	}

	if confidence <= 0 {
		return intent.Intent{}, false
	}

	return intent.Intent{
		Tool:       intent.ToolSendGmail,
		Confidence: confidence,
		Priority:   intent.PriorityCritical,
		Reason:     strings.Join(reasons, " | "),
		Params:     sendParams(lower),
	}, true
}

func (d *EmailDetector) detectReply(lower string) (intent.Intent, bool) {
	var confidence float64
	var reasons []string

	if containsAny(lower, replyStrongSignals) {
		confidence = 0.95
		reasons = append(reasons, "explicit reply keywords")
	} else if containsAny(lower, replyVerbs) {
		if containsAny(lower, []string{"email", "message", "inbox"}) {
			confidence = 0.80
			reasons = append(reasons, "reply verb + email context")
		}
	}

	if confidence <= 0 {
		return intent.Intent{}, false
	}

	return intent.Intent{
		Tool:       intent.ToolReplyGmail,
		Confidence: confidence,
		Priority:   intent.PriorityCritical,
		Reason:     strings.Join(reasons, " | "),
		Params:     replyParams(lower),
	}, true
}

func readParams(lower string) intent.EmailRead {
	params := intent.EmailRead{MaxResults: 10}

	if strings.Contains(lower, "unread") {
		params.Unread = true
	}
	if m := fromFilterRe.FindStringSubmatch(lower); m != nil {
		params.From = m[1]
	}
	if m := resultCountRe.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			params.MaxResults = n
		}
	}
	return params
}

func sendParams(lower string) intent.EmailCompose {
	var params intent.EmailCompose

	if m := emailToRe.FindStringSubmatch(lower); m != nil {
		params.To = m[1]
	}
	if m := subjectRe.FindStringSubmatch(lower); m != nil {
		params.Subject = m[1]
	}
	if m := bodyRe.FindStringSubmatch(lower); m != nil {
		params.Body = m[1]
	}
	return params
}

func replyParams(lower string) intent.EmailReply {
	var params intent.EmailReply

	if strings.Contains(lower, "reply to all") || strings.Contains(lower, "reply all") {
		params.ReplyAll = true
	}
	if m := replyBodyRe.FindStringSubmatch(lower); m != nil {
		params.Body = m[1]
	}
	return params
}
