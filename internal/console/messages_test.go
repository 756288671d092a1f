package console

import (
	"errors"
	"strings"
	"testing"

	"github.com/normanking/thalamus/internal/intent"
	"github.com/normanking/thalamus/internal/selector"
)

// ═══════════════════════════════════════════════════════════════════════════════
// Command Constructor Tests
// ═══════════════════════════════════════════════════════════════════════════════

func TestRouteCmd(t *testing.T) {
	engine := newTestEngine(t)

	msg := RouteCmd(engine, "play the beatles", nil)()
	result, ok := msg.(RouteResultMsg)
	if !ok {
		t.Fatalf("RouteCmd returned %T, want RouteResultMsg", msg)
	}
	if result.Message != "play the beatles" {
		t.Errorf("message = %q, want the routed text", result.Message)
	}
	if result.Result == nil || result.Result.Primary == nil {
		t.Fatal("expected a decision for a clear music ask")
	}
	if result.Result.Primary.Tool != intent.ToolPlayMusic {
		t.Errorf("tool = %s, want play_music", result.Result.Primary.Tool)
	}
}

func TestRouteCmd_Skip(t *testing.T) {
	engine := newTestEngine(t)

	msg := RouteCmd(engine, "hello", nil)()
	result, ok := msg.(RouteResultMsg)
	if !ok {
		t.Fatalf("RouteCmd returned %T, want RouteResultMsg", msg)
	}
	if result.Result.Primary != nil {
		t.Errorf("primary = %v, want nil for a greeting", result.Result.Primary)
	}
}

func TestExplainCmd(t *testing.T) {
	res := decisionResult(intent.ToolPlayMusic, 0.95)

	msg := ExplainCmd(res, "notty", 80)()
	report, ok := msg.(ExplainResultMsg)
	if !ok {
		t.Fatalf("ExplainCmd returned %T, want ExplainResultMsg", msg)
	}
	if !strings.Contains(report.Rendered, "Decision Report") {
		t.Errorf("rendered report missing the title: %q", report.Rendered)
	}
	if !strings.Contains(report.Rendered, "play_music") {
		t.Errorf("rendered report missing the tool: %q", report.Rendered)
	}
}

func TestRouteExplainCmd(t *testing.T) {
	engine := newTestEngine(t)

	msg := RouteExplainCmd(engine, "turn on the lights", nil, "notty", 80)()
	report, ok := msg.(ExplainResultMsg)
	if !ok {
		t.Fatalf("RouteExplainCmd returned %T, want ExplainResultMsg", msg)
	}
	if !strings.Contains(report.Rendered, "control_lights") {
		t.Errorf("rendered report missing the routed tool: %q", report.Rendered)
	}
}

func TestUsageCmd(t *testing.T) {
	msg := UsageCmd(nil)()
	report, ok := msg.(UsageReportMsg)
	if !ok {
		t.Fatalf("UsageCmd(nil) returned %T, want UsageReportMsg", msg)
	}
	if report.Counts != nil || report.Err != nil {
		t.Errorf("nil hook produced %+v, want an empty report", report)
	}

	counts := map[intent.Tool]int64{intent.ToolPlayMusic: 3}
	msg = UsageCmd(func() (map[intent.Tool]int64, error) { return counts, nil })()
	report = msg.(UsageReportMsg)
	if report.Counts[intent.ToolPlayMusic] != 3 {
		t.Errorf("counts = %v, want the hook's map", report.Counts)
	}

	msg = UsageCmd(func() (map[intent.Tool]int64, error) { return nil, errors.New("store offline") })()
	report = msg.(UsageReportMsg)
	if report.Err == nil || report.Err.Error() != "store offline" {
		t.Errorf("err = %v, want the hook's error", report.Err)
	}
}

func TestRecordSuccessCmd(t *testing.T) {
	engine := newTestEngine(t)

	msg := RecordSuccessCmd(engine, intent.ToolPlayMusic)()
	recorded, ok := msg.(SuccessRecordedMsg)
	if !ok {
		t.Fatalf("RecordSuccessCmd returned %T, want SuccessRecordedMsg", msg)
	}
	if recorded.Tool != intent.ToolPlayMusic {
		t.Errorf("tool = %s, want play_music", recorded.Tool)
	}
	if got := engine.Usage().(*selector.CounterRecorder).Counts()[intent.ToolPlayMusic]; got != 1 {
		t.Errorf("usage count = %d, want 1", got)
	}
}
