// Package detect implements the domain detectors: small rule engines
// that each scan one message and propose confidence-scored intents for
// their domain. Detectors are pure functions over the message text and
// conversation context; the registry tracks which ones are enabled and
// Run fences each invocation so a panicking detector abstains instead
// of taking down the whole selection pass.
package detect

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/normanking/thalamus/internal/convo"
	"github.com/normanking/thalamus/internal/intent"
)

// Detector scores candidate intents for one domain. Implementations
// receive the original message, its lowercased form, and the extracted
// conversation context, and return zero or more proposals. They must
// not perform I/O.
type Detector interface {
	Name() string
	Detect(message, lower string, ctx *convo.Context) []intent.Intent
}

// Fault describes a panic recovered from a detector run.
type Fault struct {
	Detector string
	Value    any
	Stack    []byte
}

func (f *Fault) Error() string {
	return fmt.Sprintf("detector %s panicked: %v", f.Detector, f.Value)
}

// Outcome is one detector's contribution to a selection pass: either
// its proposed intents or the fault that made it abstain.
type Outcome struct {
	Detector string
	Intents  []intent.Intent
	Fault    *Fault
}

// Run invokes a single detector, converting a panic into a Fault so one
// broken domain cannot blank the decision for all the others.
func Run(d Detector, message, lower string, ctx *convo.Context) (out Outcome) {
	out.Detector = d.Name()
	defer func() {
		if r := recover(); r != nil {
			out.Intents = nil
			out.Fault = &Fault{
				Detector: out.Detector,
				Value:    r,
				Stack:    debug.Stack(),
			}
		}
	}()
	out.Intents = d.Detect(message, lower, ctx)
	return out
}

// containsAny reports whether s contains any of the substrings.
func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// single wraps the common one-intent detector result.
func single(tool intent.Tool, confidence float64, priority intent.Priority, reason string) []intent.Intent {
	return []intent.Intent{{
		Tool:       tool,
		Confidence: confidence,
		Priority:   priority,
		Reason:     reason,
	}}
}
