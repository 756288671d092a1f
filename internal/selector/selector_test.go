package selector

import (
	"strings"
	"testing"
	"time"

	"github.com/normanking/thalamus/internal/bus"
	"github.com/normanking/thalamus/internal/convo"
	"github.com/normanking/thalamus/internal/detect"
	"github.com/normanking/thalamus/internal/intent"
	"github.com/normanking/thalamus/internal/logging"
)

// stubDetector emits a fixed intent list for every message.
type stubDetector struct {
	name    string
	intents []intent.Intent
	panics  bool
}

func (d *stubDetector) Name() string { return d.name }

func (d *stubDetector) Detect(message, lower string, ctx *convo.Context) []intent.Intent {
	if d.panics {
		panic("synthetic failure")
	}
	return d.intents
}

// scriptedDetector emits intents keyed by the lowercased message.
type scriptedDetector struct {
	name   string
	script map[string][]intent.Intent
}

func (d *scriptedDetector) Name() string { return d.name }

func (d *scriptedDetector) Detect(message, lower string, ctx *convo.Context) []intent.Intent {
	return d.script[lower]
}

func quietLogger() *logging.Logger {
	return logging.New(&logging.Config{Level: logging.LevelFatal})
}

func newTestSelector(t *testing.T, opts ...Option) *Selector {
	t.Helper()
	return New(append([]Option{WithLogger(quietLogger())}, opts...)...)
}

func stubRegistry(detectors ...detect.Detector) *detect.Registry {
	reg := detect.NewRegistry()
	for _, d := range detectors {
		reg.MustRegister(d)
	}
	return reg
}

func proposal(tool intent.Tool, confidence float64, priority intent.Priority) intent.Intent {
	return intent.Intent{Tool: tool, Confidence: confidence, Priority: priority, Reason: "stubbed"}
}

// ============================================================================
// Pipeline Tests (synthetic detectors)
// ============================================================================

func TestSelect_RanksByConfidence(t *testing.T) {
	s := newTestSelector(t, WithRegistry(stubRegistry(
		&stubDetector{name: "a", intents: []intent.Intent{proposal(intent.ToolGetWeather, 0.80, intent.PriorityMedium)}},
		&stubDetector{name: "b", intents: []intent.Intent{proposal(intent.ToolSetTimer, 0.95, intent.PriorityHigh)}},
		&stubDetector{name: "c", intents: []intent.Intent{proposal(intent.ToolCreateNote, 0.60, intent.PriorityMedium)}},
	)))

	res := s.Select("rank these", nil)
	if res.Primary == nil {
		t.Fatal("expected a primary intent")
	}
	if res.Primary.Tool != intent.ToolSetTimer {
		t.Errorf("primary = %s, want set_timer", res.Primary.Tool)
	}
	if len(res.Alternatives) != 2 {
		t.Fatalf("alternatives = %d, want 2", len(res.Alternatives))
	}
	if res.Alternatives[0].Tool != intent.ToolGetWeather || res.Alternatives[1].Tool != intent.ToolCreateNote {
		t.Errorf("alternative order = %s, %s", res.Alternatives[0].Tool, res.Alternatives[1].Tool)
	}
}

func TestSelect_TieBreaksByPriority(t *testing.T) {
	// Lower priority value wins the tie even when its detector
	// registered later.
	s := newTestSelector(t, WithRegistry(stubRegistry(
		&stubDetector{name: "a", intents: []intent.Intent{proposal(intent.ToolCreateNote, 0.80, intent.PriorityLow)}},
		&stubDetector{name: "b", intents: []intent.Intent{proposal(intent.ToolReadGmail, 0.80, intent.PriorityCritical)}},
	)))

	res := s.Select("tie break", nil)
	if res.Primary == nil || res.Primary.Tool != intent.ToolReadGmail {
		t.Fatalf("primary = %v, want read_gmail", res.Primary)
	}
}

func TestSelect_FiltersBelowFloor(t *testing.T) {
	s := newTestSelector(t, WithRegistry(stubRegistry(
		&stubDetector{name: "a", intents: []intent.Intent{
			proposal(intent.ToolGetWeather, 0.50, intent.PriorityMedium),
			proposal(intent.ToolSetTimer, 0.49, intent.PriorityMedium),
		}},
	)))

	res := s.Select("filter me", nil)
	if res.Primary == nil || res.Primary.Tool != intent.ToolGetWeather {
		t.Fatalf("primary = %v, want get_weather at exactly the floor", res.Primary)
	}
	if len(res.Alternatives) != 0 {
		t.Errorf("alternatives = %v, want none", res.Alternatives)
	}
}

func TestSelect_NoViableIntents(t *testing.T) {
	s := newTestSelector(t, WithRegistry(stubRegistry(
		&stubDetector{name: "a", intents: []intent.Intent{proposal(intent.ToolGetWeather, 0.30, intent.PriorityMedium)}},
	)))

	res := s.Select("too weak", nil)
	if res.Primary != nil {
		t.Errorf("primary = %v, want nil", res.Primary)
	}
	if res.NeedsDisambiguation || res.DisambiguationPrompt != "" {
		t.Error("no-match result must not ask for disambiguation")
	}
}

func TestSelect_AlternativesCapped(t *testing.T) {
	s := newTestSelector(t, WithRegistry(stubRegistry(
		&stubDetector{name: "a", intents: []intent.Intent{
			proposal(intent.ToolSetTimer, 0.96, intent.PriorityHigh),
			proposal(intent.ToolGetWeather, 0.90, intent.PriorityMedium),
			proposal(intent.ToolCreateNote, 0.85, intent.PriorityMedium),
			proposal(intent.ToolAddContact, 0.80, intent.PriorityMedium),
			proposal(intent.ToolCreateEvent, 0.75, intent.PriorityMedium),
			proposal(intent.ToolLaunchApplication, 0.70, intent.PriorityMedium),
		}},
	)))

	res := s.Select("many candidates", nil)
	if res.Primary == nil || res.Primary.Tool != intent.ToolSetTimer {
		t.Fatalf("primary = %v, want set_timer", res.Primary)
	}
	if len(res.Alternatives) != intent.MaxAlternatives {
		t.Errorf("alternatives = %d, want %d", len(res.Alternatives), intent.MaxAlternatives)
	}
	for _, alt := range res.Alternatives {
		if alt.Tool == intent.ToolLaunchApplication {
			t.Error("sixth-place candidate should have been cut by the cap")
		}
	}
}

func TestSelect_DuplicateToolPruned(t *testing.T) {
	s := newTestSelector(t, WithRegistry(stubRegistry(
		&stubDetector{name: "a", intents: []intent.Intent{proposal(intent.ToolSetTimer, 0.90, intent.PriorityHigh)}},
		&stubDetector{name: "b", intents: []intent.Intent{proposal(intent.ToolSetTimer, 0.80, intent.PriorityHigh)}},
	)))

	res := s.Select("same tool twice", nil)
	if res.Primary == nil || res.Primary.Confidence != 0.90 {
		t.Fatalf("primary = %v, want the stronger proposal", res.Primary)
	}
	if len(res.Alternatives) != 0 {
		t.Errorf("alternatives = %v, want the duplicate pruned", res.Alternatives)
	}
}

func TestSelect_ConflictPairsPruned(t *testing.T) {
	pairs := []struct {
		name     string
		primary  intent.Tool
		conflict intent.Tool
	}{
		{"read vs send", intent.ToolReadGmail, intent.ToolSendGmail},
		{"send vs read", intent.ToolSendGmail, intent.ToolReadGmail},
		{"read vs reply", intent.ToolReadGmail, intent.ToolReplyGmail},
		{"reply vs read", intent.ToolReplyGmail, intent.ToolReadGmail},
		{"play vs control", intent.ToolPlayMusic, intent.ToolControlMusic},
		{"control vs play", intent.ToolControlMusic, intent.ToolPlayMusic},
		{"documents vs web", intent.ToolSearchDocuments, intent.ToolWebSearch},
		{"web vs documents", intent.ToolWebSearch, intent.ToolSearchDocuments},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSelector(t, WithRegistry(stubRegistry(
				&stubDetector{name: "a", intents: []intent.Intent{proposal(tt.primary, 0.85, intent.PriorityMedium)}},
				&stubDetector{name: "b", intents: []intent.Intent{proposal(tt.conflict, 0.80, intent.PriorityMedium)}},
			)))

			res := s.Select("conflicting pair", nil)
			if res.Primary == nil || res.Primary.Tool != tt.primary {
				t.Fatalf("primary = %v, want %s", res.Primary, tt.primary)
			}
			for _, alt := range res.Alternatives {
				if alt.Tool == tt.conflict {
					t.Errorf("conflicting alternative %s survived pruning", alt.Tool)
				}
			}
		})
	}
}

func TestSelect_ConflictPruneRunsBeforeDisambiguation(t *testing.T) {
	// A close conflicting runner-up must not trigger a clarifying
	// question; once pruned there is nothing left to offer.
	s := newTestSelector(t, WithRegistry(stubRegistry(
		&stubDetector{name: "a", intents: []intent.Intent{proposal(intent.ToolWebSearch, 0.75, intent.PriorityLow)}},
		&stubDetector{name: "b", intents: []intent.Intent{proposal(intent.ToolSearchDocuments, 0.70, intent.PriorityMedium)}},
	)))

	res := s.Select("search the contract", nil)
	if res.Primary == nil || res.Primary.Tool != intent.ToolWebSearch {
		t.Fatalf("primary = %v, want web_search", res.Primary)
	}
	if len(res.Alternatives) != 0 {
		t.Errorf("alternatives = %v, want the conflict pruned", res.Alternatives)
	}
	if res.NeedsDisambiguation {
		t.Error("pruned conflict must not produce a disambiguation prompt")
	}
}

func TestSelect_DisambiguationWhenClose(t *testing.T) {
	s := newTestSelector(t, WithRegistry(stubRegistry(
		&stubDetector{name: "a", intents: []intent.Intent{proposal(intent.ToolPlayMusic, 0.80, intent.PriorityHigh)}},
		&stubDetector{name: "b", intents: []intent.Intent{proposal(intent.ToolControlLights, 0.75, intent.PriorityMedium)}},
	)))

	res := s.Select("ambiguous ask", nil)
	if !res.NeedsDisambiguation {
		t.Fatal("expected disambiguation for a 0.05 gap below high confidence")
	}
	want := "Did you want to play music or control lights?"
	if res.DisambiguationPrompt != want {
		t.Errorf("prompt = %q, want %q", res.DisambiguationPrompt, want)
	}
}

func TestSelect_DisambiguationPromptThreeOptions(t *testing.T) {
	s := newTestSelector(t, WithRegistry(stubRegistry(
		&stubDetector{name: "a", intents: []intent.Intent{proposal(intent.ToolPlayMusic, 0.80, intent.PriorityHigh)}},
		&stubDetector{name: "b", intents: []intent.Intent{proposal(intent.ToolControlLights, 0.78, intent.PriorityMedium)}},
		&stubDetector{name: "c", intents: []intent.Intent{proposal(intent.ToolWebSearch, 0.77, intent.PriorityLow)}},
	)))

	res := s.Select("very ambiguous ask", nil)
	if !res.NeedsDisambiguation {
		t.Fatal("expected disambiguation")
	}
	want := "Did you want to play music, control lights, or search the web?"
	if res.DisambiguationPrompt != want {
		t.Errorf("prompt = %q, want %q", res.DisambiguationPrompt, want)
	}
}

func TestSelect_NoDisambiguationWhenConfident(t *testing.T) {
	// A 0.05 gap would normally ask, but a high-confidence primary
	// acts anyway.
	s := newTestSelector(t, WithRegistry(stubRegistry(
		&stubDetector{name: "a", intents: []intent.Intent{proposal(intent.ToolPlayMusic, 0.95, intent.PriorityHigh)}},
		&stubDetector{name: "b", intents: []intent.Intent{proposal(intent.ToolControlLights, 0.90, intent.PriorityMedium)}},
	)))

	res := s.Select("confident ask", nil)
	if res.NeedsDisambiguation {
		t.Error("high-confidence primary must not ask for disambiguation")
	}
}

func TestSelect_NoDisambiguationWideGap(t *testing.T) {
	s := newTestSelector(t, WithRegistry(stubRegistry(
		&stubDetector{name: "a", intents: []intent.Intent{proposal(intent.ToolPlayMusic, 0.80, intent.PriorityHigh)}},
		&stubDetector{name: "b", intents: []intent.Intent{proposal(intent.ToolControlLights, 0.60, intent.PriorityMedium)}},
	)))

	res := s.Select("clear winner", nil)
	if res.NeedsDisambiguation {
		t.Error("a 0.20 gap must not ask for disambiguation")
	}
	if len(res.Alternatives) != 1 {
		t.Errorf("alternatives = %d, want the runner-up kept", len(res.Alternatives))
	}
}

func TestSelect_DetectorFaultIsolated(t *testing.T) {
	s := newTestSelector(t, WithRegistry(stubRegistry(
		&stubDetector{name: "broken", panics: true},
		&stubDetector{name: "healthy", intents: []intent.Intent{proposal(intent.ToolSetTimer, 0.95, intent.PriorityHigh)}},
	)))

	res := s.Select("survive the panic", nil)
	if res.Primary == nil || res.Primary.Tool != intent.ToolSetTimer {
		t.Fatalf("primary = %v, want the healthy detector's pick", res.Primary)
	}
	if len(res.DetectorFaults) != 1 {
		t.Fatalf("faults = %d, want 1", len(res.DetectorFaults))
	}
	if res.DetectorFaults[0].Detector != "broken" {
		t.Errorf("faulting detector = %q", res.DetectorFaults[0].Detector)
	}
	if got := s.Stats().DetectorFaults; got != 1 {
		t.Errorf("stats faults = %d, want 1", got)
	}
}

func TestSelect_ElapsedUsesClock(t *testing.T) {
	base := time.Unix(1700000000, 0)
	calls := 0
	s := newTestSelector(t,
		WithRegistry(stubRegistry(
			&stubDetector{name: "a", intents: []intent.Intent{proposal(intent.ToolSetTimer, 0.95, intent.PriorityHigh)}},
		)),
		WithClock(func() time.Time {
			calls++
			return base.Add(time.Duration(calls-1) * 5 * time.Millisecond)
		}),
	)

	res := s.Select("time me", nil)
	if res.Elapsed != 5*time.Millisecond {
		t.Errorf("elapsed = %v, want 5ms from the stepped clock", res.Elapsed)
	}
}

func TestSelect_ResultIDs(t *testing.T) {
	s := newTestSelector(t, WithRegistry(stubRegistry(
		&stubDetector{name: "a", intents: []intent.Intent{proposal(intent.ToolSetTimer, 0.95, intent.PriorityHigh)}},
	)))

	first := s.Select("one", nil)
	second := s.Select("two", nil)
	if first.ID == "" || second.ID == "" {
		t.Fatal("results must carry IDs")
	}
	if first.ID == second.ID {
		t.Error("result IDs must be unique per pass")
	}
}

// ============================================================================
// Skip and Compound Tests
// ============================================================================

func TestSelect_SkipsConversational(t *testing.T) {
	s := newTestSelector(t)

	for _, message := range []string{"hello", "thanks", "okay"} {
		res := s.Select(message, nil)
		if res.Primary != nil {
			t.Errorf("%q: primary = %v, want nil", message, res.Primary)
		}
		if res.NeedsDisambiguation || res.DisambiguationPrompt != "" {
			t.Errorf("%q: skip must not ask for disambiguation", message)
		}
	}
	if got := s.Stats().Skips; got != 3 {
		t.Errorf("skips = %d, want 3", got)
	}
}

func TestSelect_CompoundFlagged(t *testing.T) {
	s := newTestSelector(t)

	res := s.Select("turn on the lights and play some music", nil)
	if !res.CompoundRequest {
		t.Error("expected the compound flag")
	}
	if res.Primary == nil {
		t.Fatal("compound messages still resolve the strongest ask")
	}
}

// ============================================================================
// Full-Registry Behavior Tests
// ============================================================================

func TestSelect_PlayArtist(t *testing.T) {
	s := newTestSelector(t)

	res := s.Select("play the beatles", nil)
	if res.Primary == nil || res.Primary.Tool != intent.ToolPlayMusic {
		t.Fatalf("primary = %v, want play_music", res.Primary)
	}
	if res.Primary.Confidence < 0.95 {
		t.Errorf("confidence = %v, want >= 0.95", res.Primary.Confidence)
	}
	params, ok := res.Primary.Params.(intent.MusicQuery)
	if !ok {
		t.Fatalf("params type = %T, want MusicQuery", res.Primary.Params)
	}
	if !strings.Contains(params.Query, "beatles") {
		t.Errorf("query = %q, want it to contain beatles", params.Query)
	}
}

func TestSelect_GameIsNotMusic(t *testing.T) {
	s := newTestSelector(t)

	res := s.Select("let's play a game", nil)
	if res.Primary != nil && res.Primary.Tool == intent.ToolPlayMusic {
		t.Errorf("play_music selected for %q", res.Message)
	}
}

func TestSelect_LightsOn(t *testing.T) {
	s := newTestSelector(t)

	res := s.Select("turn on the lights", nil)
	if res.Primary == nil || res.Primary.Tool != intent.ToolControlLights {
		t.Fatalf("primary = %v, want control_lights", res.Primary)
	}
	if res.Primary.Confidence < 0.90 {
		t.Errorf("confidence = %v, want >= 0.90", res.Primary.Confidence)
	}
	params, ok := res.Primary.Params.(intent.Lights)
	if !ok {
		t.Fatalf("params type = %T, want Lights", res.Primary.Params)
	}
	if params.Action != "on" {
		t.Errorf("action = %q, want on", params.Action)
	}
}

func TestSelect_LightReadingIsNotLights(t *testing.T) {
	s := newTestSelector(t)

	res := s.Select("light reading before bed", nil)
	if res.Primary != nil && res.Primary.Tool == intent.ToolControlLights {
		t.Errorf("control_lights selected for %q", res.Message)
	}
}

func TestSelect_CheckEmail(t *testing.T) {
	s := newTestSelector(t)

	res := s.Select("check my email", nil)
	if res.Primary == nil || res.Primary.Tool != intent.ToolReadGmail {
		t.Fatalf("primary = %v, want read_gmail", res.Primary)
	}
	if res.Primary.Confidence < 0.90 {
		t.Errorf("confidence = %v, want >= 0.90", res.Primary.Confidence)
	}
}

func TestSelect_SendEmailExtractsRecipient(t *testing.T) {
	s := newTestSelector(t)

	res := s.Select("send email to x@y.com", nil)
	if res.Primary == nil || res.Primary.Tool != intent.ToolSendGmail {
		t.Fatalf("primary = %v, want send_gmail", res.Primary)
	}
	params, ok := res.Primary.Params.(intent.EmailCompose)
	if !ok {
		t.Fatalf("params type = %T, want EmailCompose", res.Primary.Params)
	}
	if params.To != "x@y.com" {
		t.Errorf("to = %q, want x@y.com", params.To)
	}
}

func TestSelect_ContextPromotesControl(t *testing.T) {
	history := []convo.Turn{
		{Role: "user", Content: "play the beatles"},
		{Role: "assistant", Content: "now playing", ToolUsed: "play_music"},
	}
	s := newTestSelector(t)

	res := s.Select("skip this", history)
	if res.Primary == nil || res.Primary.Tool != intent.ToolControlMusic {
		t.Fatalf("primary = %v, want control_music with music context", res.Primary)
	}
	if res.Primary.Confidence < 0.90 {
		t.Errorf("confidence = %v, want >= 0.90", res.Primary.Confidence)
	}
}

func TestSelect_ConfidencesInRange(t *testing.T) {
	messages := []string{
		"play the beatles",
		"turn on the lights",
		"check my email",
		"what's the weather in tokyo today",
		"search the web for go generics",
		"take a screenshot",
		"set a timer for 5 minutes",
		"what is 5 + 3",
		"who is this",
		"meet me tomorrow",
	}
	s := newTestSelector(t)

	for _, message := range messages {
		res := s.Select(message, nil)
		if res.Primary != nil {
			if res.Primary.Confidence < intent.MinimumConfidence || res.Primary.Confidence > 1.0 {
				t.Errorf("%q: primary confidence %v out of range", message, res.Primary.Confidence)
			}
		}
		for _, alt := range res.Alternatives {
			if alt.Confidence < intent.MinimumConfidence || alt.Confidence > 1.0 {
				t.Errorf("%q: alternative confidence %v out of range", message, alt.Confidence)
			}
		}
	}
}

func TestSelect_Idempotent(t *testing.T) {
	history := []convo.Turn{
		{Role: "assistant", Content: "now playing", ToolUsed: "play_music"},
	}
	s := newTestSelector(t)

	first := s.Select("turn it up a bit", history)
	second := s.Select("turn it up a bit", history)

	if (first.Primary == nil) != (second.Primary == nil) {
		t.Fatal("same input produced different outcomes")
	}
	if first.Primary != nil {
		if first.Primary.Tool != second.Primary.Tool || first.Primary.Confidence != second.Primary.Confidence {
			t.Errorf("primary drifted: %v then %v", first.Primary, second.Primary)
		}
	}
	if len(first.Alternatives) != len(second.Alternatives) {
		t.Errorf("alternatives drifted: %d then %d", len(first.Alternatives), len(second.Alternatives))
	}
	if first.NeedsDisambiguation != second.NeedsDisambiguation {
		t.Error("disambiguation flag drifted")
	}
}

// ============================================================================
// Facade Tests
// ============================================================================

func TestToolFor(t *testing.T) {
	s := newTestSelector(t)

	if tool, ok := s.ToolFor("play the beatles", nil); !ok || tool != intent.ToolPlayMusic {
		t.Errorf("ToolFor = %s, %v; want play_music, true", tool, ok)
	}
	if _, ok := s.ToolFor("hello", nil); ok {
		t.Error("ToolFor must report false for conversational messages")
	}
}

func TestToolFor_FalseOnDisambiguation(t *testing.T) {
	s := newTestSelector(t, WithRegistry(stubRegistry(
		&stubDetector{name: "a", intents: []intent.Intent{proposal(intent.ToolPlayMusic, 0.80, intent.PriorityHigh)}},
		&stubDetector{name: "b", intents: []intent.Intent{proposal(intent.ToolControlLights, 0.75, intent.PriorityMedium)}},
	)))

	if _, ok := s.ToolFor("ambiguous ask", nil); ok {
		t.Error("ToolFor must report false while disambiguation is pending")
	}
}

func TestRoute(t *testing.T) {
	s := newTestSelector(t)

	tool, params, feedback := s.Route("send email to x@y.com", nil)
	if tool != intent.ToolSendGmail {
		t.Errorf("tool = %s, want send_gmail", tool)
	}
	if compose, ok := params.(intent.EmailCompose); !ok || compose.To != "x@y.com" {
		t.Errorf("params = %v, want the composed recipient", params)
	}
	if feedback != "" {
		t.Errorf("feedback = %q, want empty", feedback)
	}

	tool, params, feedback = s.Route("hello", nil)
	if tool != "" || params != nil || feedback != "" {
		t.Errorf("conversational route = %s, %v, %q; want all empty", tool, params, feedback)
	}
}

func TestRoute_DisambiguationFeedback(t *testing.T) {
	s := newTestSelector(t, WithRegistry(stubRegistry(
		&stubDetector{name: "a", intents: []intent.Intent{proposal(intent.ToolPlayMusic, 0.80, intent.PriorityHigh)}},
		&stubDetector{name: "b", intents: []intent.Intent{proposal(intent.ToolControlLights, 0.75, intent.PriorityMedium)}},
	)))

	tool, _, feedback := s.Route("ambiguous ask", nil)
	if tool != "" {
		t.Errorf("tool = %s, want empty while ambiguous", tool)
	}
	if feedback != "Did you want to play music or control lights?" {
		t.Errorf("feedback = %q", feedback)
	}
}

// ============================================================================
// Stats and Usage Tests
// ============================================================================

func TestStats_Counters(t *testing.T) {
	script := map[string][]intent.Intent{
		"pick one": {proposal(intent.ToolPlayMusic, 0.95, intent.PriorityHigh)},
		"close call": {
			proposal(intent.ToolPlayMusic, 0.80, intent.PriorityHigh),
			proposal(intent.ToolControlLights, 0.75, intent.PriorityMedium),
		},
		"too weak": {proposal(intent.ToolPlayMusic, 0.30, intent.PriorityHigh)},
		"lights and music please": {
			proposal(intent.ToolControlLights, 0.90, intent.PriorityMedium),
		},
	}
	s := newTestSelector(t, WithRegistry(stubRegistry(&scriptedDetector{name: "scripted", script: script})))

	s.Select("hello", nil)
	s.Select("too weak", nil)
	s.Select("pick one", nil)
	s.Select("close call", nil)
	s.Select("lights and music please", nil)

	stats := s.Stats()
	if stats.TotalSelections != 5 {
		t.Errorf("total = %d, want 5", stats.TotalSelections)
	}
	if stats.Skips != 1 {
		t.Errorf("skips = %d, want 1", stats.Skips)
	}
	if stats.NoMatches != 1 {
		t.Errorf("no matches = %d, want 1", stats.NoMatches)
	}
	if stats.Decisions != 3 {
		t.Errorf("decisions = %d, want 3", stats.Decisions)
	}
	if stats.Disambiguations != 1 {
		t.Errorf("disambiguations = %d, want 1", stats.Disambiguations)
	}
	if stats.CompoundRequests != 1 {
		t.Errorf("compounds = %d, want 1", stats.CompoundRequests)
	}
	if stats.ToolSelections[intent.ToolPlayMusic] != 2 {
		t.Errorf("play_music selections = %d, want 2", stats.ToolSelections[intent.ToolPlayMusic])
	}
	if stats.ToolSelections[intent.ToolControlLights] != 1 {
		t.Errorf("control_lights selections = %d, want 1", stats.ToolSelections[intent.ToolControlLights])
	}

	wantAvg := (0.95 + 0.80 + 0.90) / 3
	if diff := stats.AverageConfidence - wantAvg; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("average confidence = %v, want %v", stats.AverageConfidence, wantAvg)
	}
}

func TestStats_CopyOnRead(t *testing.T) {
	s := newTestSelector(t)
	s.Select("play the beatles", nil)

	stats := s.Stats()
	stats.ToolSelections[intent.ToolPlayMusic] = 99

	if got := s.Stats().ToolSelections[intent.ToolPlayMusic]; got != 1 {
		t.Errorf("internal counter = %d after mutating the copy, want 1", got)
	}
}

func TestResetStats(t *testing.T) {
	s := newTestSelector(t)
	s.Select("play the beatles", nil)
	s.ResetStats()

	stats := s.Stats()
	if stats.TotalSelections != 0 || stats.Decisions != 0 || len(stats.ToolSelections) != 0 {
		t.Errorf("stats after reset = %+v", stats)
	}
}

func TestRecordSuccess_Counts(t *testing.T) {
	s := newTestSelector(t)

	s.RecordSuccess(intent.ToolPlayMusic)
	s.RecordSuccess(intent.ToolPlayMusic)
	s.RecordSuccess(intent.ToolSetTimer)

	counter, ok := s.Usage().(*CounterRecorder)
	if !ok {
		t.Fatalf("default recorder type = %T", s.Usage())
	}
	counts := counter.Counts()
	if counts[intent.ToolPlayMusic] != 2 {
		t.Errorf("play_music executions = %d, want 2", counts[intent.ToolPlayMusic])
	}
	if counts[intent.ToolSetTimer] != 1 {
		t.Errorf("set_timer executions = %d, want 1", counts[intent.ToolSetTimer])
	}
}

func TestSelect_PublishesDecisionEvent(t *testing.T) {
	b := bus.New()
	defer b.Close()

	events := make(chan bus.Event, 1)
	b.Subscribe(bus.EventDecisionMade, func(ev bus.Event) {
		select {
		case events <- ev:
		default:
		}
	})

	s := newTestSelector(t, WithBus(b))
	s.Select("play the beatles", nil)

	select {
	case ev := <-events:
		if ev.Tool != "play_music" {
			t.Errorf("event tool = %q, want play_music", ev.Tool)
		}
		if ev.Message != "play the beatles" {
			t.Errorf("event message = %q", ev.Message)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no decision event arrived")
	}
}

func TestRecordSuccess_PublishesUsageEvent(t *testing.T) {
	b := bus.New()
	defer b.Close()

	events := make(chan bus.Event, 1)
	b.Subscribe(bus.EventUsageRecorded, func(ev bus.Event) {
		select {
		case events <- ev:
		default:
		}
	})

	s := newTestSelector(t, WithBus(b))
	s.RecordSuccess(intent.ToolPlayMusic)

	select {
	case ev := <-events:
		if ev.Tool != "play_music" || ev.Count != 1 {
			t.Errorf("usage event = %q count %d, want play_music count 1", ev.Tool, ev.Count)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no usage event arrived")
	}
}

// ============================================================================
// Registry Forwarding Tests
// ============================================================================

func TestEnableDisableDetector(t *testing.T) {
	s := newTestSelector(t)

	if err := s.DisableDetector("music"); err != nil {
		t.Fatalf("disable music: %v", err)
	}
	res := s.Select("play the beatles", nil)
	if res.Primary != nil && res.Primary.Tool == intent.ToolPlayMusic {
		t.Error("disabled detector still selected play_music")
	}

	if err := s.EnableDetector("music"); err != nil {
		t.Fatalf("enable music: %v", err)
	}
	res = s.Select("play the beatles", nil)
	if res.Primary == nil || res.Primary.Tool != intent.ToolPlayMusic {
		t.Errorf("re-enabled detector did not select play_music: %v", res.Primary)
	}

	if err := s.DisableDetector("no_such_detector"); err == nil {
		t.Error("expected an error for an unknown detector name")
	}
}

// ============================================================================
// Benchmarks
// ============================================================================

func BenchmarkSelect(b *testing.B) {
	s := New(WithLogger(quietLogger()))
	messages := []string{
		"play the beatles",
		"turn on the lights",
		"what's the weather in tokyo today",
		"send email to x@y.com",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Select(messages[i%len(messages)], nil)
	}
}
