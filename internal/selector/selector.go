// Package selector orchestrates a selection pass: it fans a message out
// to the enabled detectors, filters and ranks their proposals, prunes
// conflicting runner-ups, and decides whether the engine can act or has
// to ask a clarifying question first. A pass is pure computation; the
// only state that outlives it is the aggregate stats and the injected
// usage counter.
package selector

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/normanking/thalamus/internal/bus"
	"github.com/normanking/thalamus/internal/convo"
	"github.com/normanking/thalamus/internal/detect"
	"github.com/normanking/thalamus/internal/intent"
	"github.com/normanking/thalamus/internal/logging"
)

// conflictPairs lists interpretations that must never be offered side
// by side: when the primary names one half of a pair, alternatives
// naming the other half are pruned. The table is symmetric.
var conflictPairs = [][2]intent.Tool{
	{intent.ToolReadGmail, intent.ToolSendGmail},
	{intent.ToolReadGmail, intent.ToolReplyGmail},
	{intent.ToolPlayMusic, intent.ToolControlMusic},
	{intent.ToolSearchDocuments, intent.ToolWebSearch},
}

// Selector runs the selection pipeline. It is safe for concurrent use:
// all mutable state sits behind its lock or the registry's.
type Selector struct {
	registry *detect.Registry
	log      *logging.Logger
	bus      *bus.Bus
	usage    Recorder
	clock    func() time.Time

	mu    sync.RWMutex
	stats SelectorStats
}

// Option is a functional option for configuring a Selector.
type Option func(*Selector)

// WithLogger routes the selector's log lines through l.
func WithLogger(l *logging.Logger) Option {
	return func(s *Selector) {
		s.log = l
	}
}

// WithBus publishes decision, fault, and usage events to b.
func WithBus(b *bus.Bus) Option {
	return func(s *Selector) {
		s.bus = b
	}
}

// WithUsage replaces the in-memory usage counter, typically with the
// sqlite-backed store.
func WithUsage(r Recorder) Option {
	return func(s *Selector) {
		s.usage = r
	}
}

// WithRegistry replaces the default detector registry.
func WithRegistry(r *detect.Registry) Option {
	return func(s *Selector) {
		s.registry = r
	}
}

// WithClock overrides the time source used for Elapsed. Tests use this
// to make timing deterministic.
func WithClock(now func() time.Time) Option {
	return func(s *Selector) {
		s.clock = now
	}
}

// New builds a Selector with the full detector set, the global logger,
// and an in-memory usage counter, then applies opts.
func New(opts ...Option) *Selector {
	s := &Selector{
		registry: detect.DefaultRegistry(nil),
		log:      logging.Global().WithComponent("selector"),
		usage:    NewCounterRecorder(),
		clock:    time.Now,
		stats: SelectorStats{
			ToolSelections: make(map[intent.Tool]int64),
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Select evaluates one message against every enabled detector and
// returns the ranked outcome. history is the trailing conversation,
// oldest turn first; pass nil when there is none.
func (s *Selector) Select(message string, history []convo.Turn) *Result {
	start := s.clock()

	res := &Result{
		ID:      uuid.NewString(),
		Message: message,
	}

	// 1. Conversational messages never reach the detectors.
	if convo.ShouldSkip(message) {
		return s.emitSkip(res, start)
	}

	// 2. Context from recent turns, compound flag from the message.
	ctx := convo.Extract(history)
	res.CompoundRequest = convo.IsCompound(message)

	// 3. Fan out. A panicking detector abstains; the rest still score.
	lower := strings.ToLower(message)
	var candidates []intent.Intent
	for _, d := range s.registry.Enabled() {
		out := detect.Run(d, message, lower, ctx)
		if out.Fault != nil {
			res.DetectorFaults = append(res.DetectorFaults, *out.Fault)
			s.log.DetectorFault(out.Fault.Detector, out.Fault)
			s.publish(bus.NewFaultEvent(out.Fault.Detector, out.Fault.Error()))
			continue
		}
		candidates = append(candidates, out.Intents...)
	}

	// 4. Drop proposals below the viability floor.
	viable := candidates[:0]
	for _, in := range candidates {
		if in.Confidence >= intent.MinimumConfidence {
			viable = append(viable, in)
		}
	}
	if len(viable) == 0 {
		return s.emitNoMatch(res, start)
	}

	// 5. Rank: confidence wins, priority breaks ties, stable sort so
	// equal proposals keep detector registration order.
	sort.SliceStable(viable, func(i, j int) bool {
		if viable[i].Confidence != viable[j].Confidence {
			return viable[i].Confidence > viable[j].Confidence
		}
		return viable[i].Priority < viable[j].Priority
	})

	primary := viable[0]
	limit := len(viable)
	if limit > 1+intent.MaxAlternatives {
		limit = 1 + intent.MaxAlternatives
	}

	// 6. Prune runner-ups that duplicate or conflict with the winner,
	// so a clarifying question never offers two halves of a conflict.
	var alternatives []intent.Intent
	for _, alt := range viable[1:limit] {
		if conflicts(primary.Tool, alt.Tool) {
			continue
		}
		alternatives = append(alternatives, alt)
	}

	res.Primary = &primary
	res.Alternatives = alternatives

	// 7. Too close to call and not confident enough to act anyway:
	// ask instead.
	if len(alternatives) > 0 &&
		primary.Confidence < intent.HighConfidence &&
		primary.Confidence-alternatives[0].Confidence < intent.MinConfidenceGap {
		res.NeedsDisambiguation = true
		res.DisambiguationPrompt = clarifyPrompt(primary, alternatives)
	}

	return s.emitDecision(res, start)
}

// ToolFor returns just the winning tool for message. ok is false when
// nothing was selected or the engine wants clarification first.
func (s *Selector) ToolFor(message string, history []convo.Turn) (intent.Tool, bool) {
	res := s.Select(message, history)
	if res.Primary == nil || res.NeedsDisambiguation {
		return "", false
	}
	return res.Primary.Tool, true
}

// Route adapts Select for a chat loop. An empty tool with empty
// feedback means the message is plain conversation; an empty tool with
// feedback means the caller should show the clarifying question and
// wait for the user's answer.
func (s *Selector) Route(message string, history []convo.Turn) (intent.Tool, intent.Params, string) {
	res := s.Select(message, history)
	if res.Primary == nil {
		return "", nil, ""
	}
	if res.NeedsDisambiguation {
		return "", nil, res.DisambiguationPrompt
	}
	return res.Primary.Tool, res.Primary.Params, ""
}

// RecordSuccess counts one successful execution of tool in the usage
// store. Hosts call it after the tool ran, not when it was selected;
// failed executions are not recorded.
func (s *Selector) RecordSuccess(tool intent.Tool) {
	if s.usage == nil {
		return
	}
	count, err := s.usage.Record(tool)
	if err != nil {
		s.log.Warn("usage record for %s failed: %v", tool, err)
		return
	}
	s.publish(bus.NewUsageEvent(tool.String(), count))
}

// Usage returns the Recorder backing RecordSuccess.
func (s *Selector) Usage() Recorder {
	return s.usage
}

// EnableDetector turns a detector back on by registry name.
func (s *Selector) EnableDetector(name string) error {
	return s.registry.Enable(name)
}

// DisableDetector turns a detector off by registry name. A disabled
// detector keeps its registration and can be re-enabled later.
func (s *Selector) DisableDetector(name string) error {
	return s.registry.Disable(name)
}

// Registry exposes the detector registry for inspection.
func (s *Selector) Registry() *detect.Registry {
	return s.registry
}

// Stats returns a copy of the aggregate counters.
func (s *Selector) Stats() SelectorStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	toolCopy := make(map[intent.Tool]int64, len(s.stats.ToolSelections))
	for k, v := range s.stats.ToolSelections {
		toolCopy[k] = v
	}

	out := s.stats
	out.ToolSelections = toolCopy
	return out
}

// ResetStats zeroes the aggregate counters.
func (s *Selector) ResetStats() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats = SelectorStats{
		ToolSelections: make(map[intent.Tool]int64),
	}
}

// emitSkip finalizes a pass that never reached the detectors.
func (s *Selector) emitSkip(res *Result, start time.Time) *Result {
	res.Elapsed = s.clock().Sub(start)

	s.mu.Lock()
	s.stats.TotalSelections++
	s.stats.Skips++
	s.mu.Unlock()

	s.log.Skip(res.Message)
	s.publish(bus.NewSkipEvent(res.Message))
	return res
}

// emitNoMatch finalizes a pass where no proposal cleared the floor.
func (s *Selector) emitNoMatch(res *Result, start time.Time) *Result {
	res.Elapsed = s.clock().Sub(start)

	s.mu.Lock()
	s.stats.TotalSelections++
	s.stats.NoMatches++
	s.stats.DetectorFaults += int64(len(res.DetectorFaults))
	if res.CompoundRequest {
		s.stats.CompoundRequests++
	}
	s.mu.Unlock()

	s.log.NoMatch(res.Message)
	s.publish(bus.NewNoMatchEvent(res.Message, res.CompoundRequest, res.Elapsed))
	return res
}

// emitDecision finalizes a pass that picked a primary interpretation.
func (s *Selector) emitDecision(res *Result, start time.Time) *Result {
	res.Elapsed = s.clock().Sub(start)
	primary := res.Primary

	s.mu.Lock()
	s.stats.TotalSelections++
	s.stats.Decisions++
	s.stats.DetectorFaults += int64(len(res.DetectorFaults))
	if res.CompoundRequest {
		s.stats.CompoundRequests++
	}
	if res.NeedsDisambiguation {
		s.stats.Disambiguations++
	}
	s.stats.ToolSelections[primary.Tool]++
	decided := float64(s.stats.Decisions)
	s.stats.AverageConfidence = (s.stats.AverageConfidence*(decided-1) + primary.Confidence) / decided
	s.mu.Unlock()

	if res.NeedsDisambiguation {
		s.log.Disambiguation(res.DisambiguationPrompt)
		s.publish(bus.NewDisambiguationEvent(res.Message, primary.Tool.String(),
			res.DisambiguationPrompt, toolNames(res.Alternatives), res.Elapsed))
	} else {
		s.log.Decision(primary.Tool.String(), primary.Confidence, res.Elapsed)
		s.publish(bus.NewDecisionEvent(res.Message, primary.Tool.String(),
			primary.Confidence, primary.Reason, toolNames(res.Alternatives),
			res.CompoundRequest, res.Elapsed))
	}
	return res
}

// publish sends an event when a bus is attached. Publication never
// blocks a pass; slow subscribers miss events instead.
func (s *Selector) publish(ev bus.Event) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}

// conflicts reports whether offering alt alongside primary would show
// the user the same action twice or two halves of a known conflict.
func conflicts(primary, alt intent.Tool) bool {
	if primary == alt {
		return true
	}
	for _, pair := range conflictPairs {
		if (pair[0] == primary && pair[1] == alt) || (pair[0] == alt && pair[1] == primary) {
			return true
		}
	}
	return false
}

// clarifyPrompt builds the question shown when the engine cannot pick
// between the primary and its runner-ups. The prompt offers the primary
// and at most two alternatives, by their friendly names.
func clarifyPrompt(primary intent.Intent, alternatives []intent.Intent) string {
	limit := intent.MaxDisambiguationOptions - 1
	if len(alternatives) < limit {
		limit = len(alternatives)
	}
	names := make([]string, limit)
	for i := 0; i < limit; i++ {
		names[i] = alternatives[i].Tool.DisplayName()
	}

	first := primary.Tool.DisplayName()
	if len(names) == 1 {
		return fmt.Sprintf("Did you want to %s or %s?", first, names[0])
	}
	return fmt.Sprintf("Did you want to %s, %s, or %s?",
		first, strings.Join(names[:len(names)-1], ", "), names[len(names)-1])
}

// toolNames flattens intents to wire names for event payloads.
func toolNames(intents []intent.Intent) []string {
	if len(intents) == 0 {
		return nil
	}
	names := make([]string, len(intents))
	for i, in := range intents {
		names[i] = in.Tool.String()
	}
	return names
}
