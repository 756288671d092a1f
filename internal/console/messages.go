package console

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/normanking/thalamus/internal/convo"
	"github.com/normanking/thalamus/internal/intent"
	"github.com/normanking/thalamus/internal/selector"
)

// RouteResultMsg carries the outcome of routing one message.
type RouteResultMsg struct {
	Message string
	Result  *selector.Result
}

// ExplainResultMsg carries a rendered decision report.
type ExplainResultMsg struct {
	Rendered string
}

// UsageReportMsg carries the per-tool success counts from the usage
// store.
type UsageReportMsg struct {
	Counts map[intent.Tool]int64
	Err    error
}

// SuccessRecordedMsg confirms a confirmed disambiguation choice was
// counted.
type SuccessRecordedMsg struct {
	Tool intent.Tool
}

// RouteCmd evaluates message against the engine off the update loop.
// The model blocks further sends until the result lands, so history is
// stable for the duration.
func RouteCmd(engine *selector.Selector, message string, history []convo.Turn) tea.Cmd {
	return func() tea.Msg {
		res := engine.Select(message, history)
		return RouteResultMsg{Message: message, Result: res}
	}
}

// ExplainCmd renders the full decision report for an already-routed
// result.
func ExplainCmd(res *selector.Result, glamourStyle string, width int) tea.Cmd {
	return func() tea.Msg {
		return ExplainResultMsg{Rendered: RenderMarkdown(ExplainMarkdown(res), glamourStyle, width)}
	}
}

// RouteExplainCmd routes message and renders its report in one pass,
// backing the /explain command when it is given fresh text.
func RouteExplainCmd(engine *selector.Selector, message string, history []convo.Turn, glamourStyle string, width int) tea.Cmd {
	return func() tea.Msg {
		res := engine.Select(message, history)
		return ExplainResultMsg{Rendered: RenderMarkdown(ExplainMarkdown(res), glamourStyle, width)}
	}
}

// UsageCmd reads the per-tool success counts through the host's
// reporting hook.
func UsageCmd(counts func() (map[intent.Tool]int64, error)) tea.Cmd {
	return func() tea.Msg {
		if counts == nil {
			return UsageReportMsg{}
		}
		c, err := counts()
		return UsageReportMsg{Counts: c, Err: err}
	}
}

// RecordSuccessCmd counts a confirmed disambiguation choice in the
// usage store.
func RecordSuccessCmd(engine *selector.Selector, tool intent.Tool) tea.Cmd {
	return func() tea.Msg {
		engine.RecordSuccess(tool)
		return SuccessRecordedMsg{Tool: tool}
	}
}
