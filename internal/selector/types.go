package selector

import (
	"sync"
	"time"

	"github.com/normanking/thalamus/internal/detect"
	"github.com/normanking/thalamus/internal/intent"
)

// Result is the outcome of one selection pass over a single message.
type Result struct {
	// ID identifies this pass in logs, events, and traces.
	ID string `json:"id"`

	// Message is the utterance that was evaluated.
	Message string `json:"message"`

	// Primary is the winning interpretation, or nil when the message is
	// plain conversation or no domain cleared the confidence floor.
	Primary *intent.Intent `json:"primary,omitempty"`

	// Alternatives holds up to four runner-ups, with duplicates of the
	// primary's tool and conflicting interpretations already removed.
	Alternatives []intent.Intent `json:"alternatives,omitempty"`

	// NeedsDisambiguation is set when the top interpretations score too
	// close together to act on either one.
	NeedsDisambiguation bool `json:"needs_disambiguation"`

	// DisambiguationPrompt is the clarifying question to show the user
	// when NeedsDisambiguation is set.
	DisambiguationPrompt string `json:"disambiguation_prompt,omitempty"`

	// CompoundRequest marks messages that chain several asks together.
	// The pass still resolves only the strongest one.
	CompoundRequest bool `json:"compound_request"`

	// Elapsed is the wall time the pass took.
	Elapsed time.Duration `json:"elapsed"`

	// DetectorFaults lists detectors that panicked during this pass. A
	// fault silences that detector only; the others still score.
	DetectorFaults []detect.Fault `json:"detector_faults,omitempty"`
}

// SelectorStats captures aggregate behavior across selection passes.
type SelectorStats struct {
	// TotalSelections counts every Select call, whatever the outcome.
	TotalSelections int64 `json:"total_selections"`

	// Decisions counts passes that produced a primary interpretation.
	Decisions int64 `json:"decisions"`

	// Skips counts messages short-circuited as conversational.
	Skips int64 `json:"skips"`

	// NoMatches counts passes where no domain cleared the floor.
	NoMatches int64 `json:"no_matches"`

	// Disambiguations counts passes that asked for clarification.
	Disambiguations int64 `json:"disambiguations"`

	// CompoundRequests counts messages flagged as chaining several asks.
	CompoundRequests int64 `json:"compound_requests"`

	// DetectorFaults counts detector panics recovered across all passes.
	DetectorFaults int64 `json:"detector_faults"`

	// AverageConfidence is the running mean confidence over decisions.
	AverageConfidence float64 `json:"average_confidence"`

	// ToolSelections counts how often each tool won a pass.
	ToolSelections map[intent.Tool]int64 `json:"tool_selections"`
}

// Recorder persists successful tool executions. The counts feed the
// usage report and ranking diagnostics, never an individual decision.
type Recorder interface {
	// Record adds one successful execution of tool and returns its new
	// running total.
	Record(tool intent.Tool) (int64, error)
}

// CounterRecorder is the in-memory Recorder used when no store is wired
// in. Counts are lost when the process exits.
type CounterRecorder struct {
	mu     sync.Mutex
	counts map[intent.Tool]int64
}

// NewCounterRecorder returns an empty in-memory usage counter.
func NewCounterRecorder() *CounterRecorder {
	return &CounterRecorder{counts: make(map[intent.Tool]int64)}
}

// Record implements Recorder.
func (c *CounterRecorder) Record(tool intent.Tool) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[tool]++
	return c.counts[tool], nil
}

// Counts returns a copy of the per-tool execution totals.
func (c *CounterRecorder) Counts() map[intent.Tool]int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[intent.Tool]int64, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}
