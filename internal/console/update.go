package console

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/normanking/thalamus/internal/convo"
	"github.com/normanking/thalamus/internal/intent"
	"github.com/normanking/thalamus/internal/selector"
	"github.com/normanking/thalamus/pkg/theme"
)

// update handles all messages and returns the next model state. Called
// by Model.Update.
func update(m Model, msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		headerHeight := 2
		inputHeight := inputLines + 1
		footerHeight := 2

		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - headerHeight - inputHeight - footerHeight
		if m.viewport.Height < 1 {
			m.viewport.Height = 1
		}

		m.input.SetWidth(msg.Width - 4)
		m.status.SetSize(msg.Width)
		m.refreshTranscript()
		m.viewport.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		return handleKeys(m, msg)

	case tea.MouseMsg:
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case RouteResultMsg:
		return handleRouteResult(m, msg)

	case ExplainResultMsg:
		m.routing = false
		m.appendEntry(NewExplainEntry(msg.Rendered))
		return m, nil

	case SuccessRecordedMsg:
		return m, nil

	case ShowHelpMsg:
		m.activeModal = ModalHelp
		return m, nil

	case ClearHistoryMsg:
		m.clearTranscript()
		return m, nil

	case ExplainRequestMsg:
		return handleExplainRequest(m, msg)

	case DetectorReportMsg:
		m.appendEntry(NewInfoEntry(detectorReport(msg.States)))
		return m, nil

	case DetectorToggledMsg:
		state := "enabled"
		if !msg.Enabled {
			state = "disabled"
		}
		m.appendEntry(NewInfoEntry(fmt.Sprintf("Detector %s %s.", msg.Name, state)))
		m.refreshStatus()
		return m, nil

	case UsageRequestMsg:
		return m, UsageCmd(m.cfg.UsageCounts)

	case UsageReportMsg:
		if msg.Err != nil {
			m.appendEntry(NewErrorEntry("Usage report failed: " + msg.Err.Error()))
			return m, nil
		}
		m.appendEntry(NewInfoEntry(usageReport(msg.Counts)))
		return m, nil

	case StatsReportMsg:
		m.appendEntry(NewInfoEntry(statsReport(msg.Stats)))
		return m, nil

	case ThemeSelectedMsg:
		name := msg.ThemeName
		if name == "" {
			name = theme.Toggle(m.themeName)
		}
		m.applyTheme(name)
		m.appendEntry(NewInfoEntry("Theme: " + name))
		return m, nil

	case ToggleVimMsg:
		m.vimMode = !m.vimMode
		state := "on"
		if !m.vimMode {
			state = "off"
			if !m.inserting {
				m.inserting = true
				cmds = append(cmds, m.input.Focus())
			}
		}
		m.refreshStatus()
		m.appendEntry(NewInfoEntry("Vim keys " + state + "."))
		return m, tea.Batch(cmds...)

	case CommandErrorMsg:
		m.appendEntry(NewErrorEntry(msg.Error))
		return m, nil

	default:
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKeys routes keyboard input: modal first, then global
// shortcuts, then the vim normal layer, then the prompt.
func handleKeys(m Model, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	if m.activeModal != ModalNone {
		return handleModalKeys(m, msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Send):
		if m.inserting {
			return handleSend(m)
		}

	case key.Matches(msg, m.keys.Explain):
		return handleExplainRequest(m, ExplainRequestMsg{})

	case key.Matches(msg, m.keys.Theme):
		m.applyTheme(theme.Toggle(m.themeName))
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.clearTranscript()
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.PageUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.PageDown()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		// '?' keeps typing when the prompt already has text; f1 always
		// opens.
		if msg.String() != "?" || !m.inserting || m.input.Value() == "" {
			m.activeModal = ModalHelp
			return m, nil
		}

	case key.Matches(msg, m.keys.Close):
		if m.vimMode && m.inserting {
			m.inserting = false
			m.input.Blur()
			m.refreshStatus()
			return m, nil
		}
	}

	// Vim normal layer: navigation on the home row, nothing reaches
	// the prompt.
	if m.vimMode && !m.inserting {
		switch {
		case key.Matches(msg, m.keys.Insert):
			m.inserting = true
			m.refreshStatus()
			return m, m.input.Focus()

		case key.Matches(msg, m.keys.Up):
			m.viewport.LineUp(1)
			return m, nil

		case key.Matches(msg, m.keys.Down):
			m.viewport.LineDown(1)
			return m, nil

		case key.Matches(msg, m.keys.Top):
			m.viewport.GotoTop()
			return m, nil

		case key.Matches(msg, m.keys.Bottom):
			m.viewport.GotoBottom()
			return m, nil

		case msg.String() == "e":
			return handleExplainRequest(m, ExplainRequestMsg{})

		case msg.String() == "q":
			return m, tea.Quit
		}
		return m, nil
	}

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleModalKeys handles keyboard input while a modal is open.
func handleModalKeys(m Model, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.activeModal == ModalDisambiguation && m.disambig != nil {
		return handleDisambigKeys(m, msg)
	}

	if key.Matches(msg, m.keys.Close) || key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Send) {
		m.activeModal = ModalNone
	}
	return m, nil
}

// handleDisambigKeys drives the clarification modal.
func handleDisambigKeys(m Model, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.disambig

	switch {
	case key.Matches(msg, m.keys.Close):
		m.activeModal = ModalNone
		m.disambig = nil
		m.appendEntry(NewInfoEntry("Clarification dismissed."))
		return m, nil

	case key.Matches(msg, m.keys.Up):
		c.move(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		c.move(1)
		return m, nil

	case key.Matches(msg, m.keys.Send):
		return confirmDisambig(m, c.selected())
	}

	// Digit shortcuts confirm an option directly.
	if n := digitOption(msg.String()); n > 0 && n <= len(c.options) {
		return confirmDisambig(m, c.options[n-1])
	}

	return m, nil
}

func digitOption(s string) int {
	if len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		return int(s[0] - '0')
	}
	return 0
}

// confirmDisambig resolves the ambiguous pass with the chosen
// interpretation.
func confirmDisambig(m Model, chosen intent.Intent) (tea.Model, tea.Cmd) {
	m.activeModal = ModalNone
	m.disambig = nil

	// The clarified tool becomes conversation context for the next
	// pass.
	if n := len(m.history); n > 0 && m.history[n-1].ToolUsed == "" {
		m.history[n-1].ToolUsed = chosen.Tool.String()
	}

	m.appendEntry(NewInfoEntry(fmt.Sprintf("Confirmed %s.", chosen.Tool)))
	return m, RecordSuccessCmd(m.engine, chosen.Tool)
}

// handleSend routes the prompt content: slash input goes to the
// command router, everything else to the engine.
func handleSend(m Model) (tea.Model, tea.Cmd) {
	content := strings.TrimSpace(m.input.Value())
	if content == "" || m.routing {
		return m, nil
	}

	m.input.Reset()
	m.appendEntry(NewUserEntry(content))

	if strings.HasPrefix(content, "/") {
		return m, HandleCommand(content, m.engine)
	}

	m.routing = true
	return m, tea.Batch(m.spinner.Tick, RouteCmd(m.engine, content, m.history))
}

// handleRouteResult lands a finished pass in the transcript and the
// rolling history, and opens the clarification modal when the engine
// asked for one.
func handleRouteResult(m Model, msg RouteResultMsg) (tea.Model, tea.Cmd) {
	m.routing = false
	m.lastResult = msg.Result
	m.lastElapsed = msg.Result.Elapsed

	entry := NewResultEntry(msg.Result)
	m.appendEntry(entry)

	turn := convo.Turn{Role: "user", Content: msg.Message}
	if entry.Kind == EntryDecision {
		turn.ToolUsed = msg.Result.Primary.Tool.String()
	}
	m.pushTurn(turn)
	m.refreshStatus()

	if entry.Kind == EntryDisambiguation {
		m.disambig = newDisambigChoice(msg.Result)
		m.activeModal = ModalDisambiguation
	}
	return m, nil
}

// handleExplainRequest renders a report for the last pass, or routes
// fresh text and reports on that.
func handleExplainRequest(m Model, msg ExplainRequestMsg) (tea.Model, tea.Cmd) {
	width := m.viewport.Width - 4
	style := m.styles.Palette().GlamourStyle

	if msg.Message != "" {
		m.routing = true
		return m, tea.Batch(m.spinner.Tick, RouteExplainCmd(m.engine, msg.Message, m.history, style, width))
	}

	if m.lastResult == nil {
		m.appendEntry(NewErrorEntry("Nothing routed yet. Send a message first."))
		return m, nil
	}

	m.routing = true
	return m, tea.Batch(m.spinner.Tick, ExplainCmd(m.lastResult, style, width))
}

// detectorReport lists every detector and its registry state.
func detectorReport(states map[string]bool) string {
	names := make([]string, 0, len(states))
	for name := range states {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Detectors:\n")
	for _, name := range names {
		state := "on"
		if !states[name] {
			state = "off"
		}
		fmt.Fprintf(&b, "  %-14s %s\n", name, state)
	}
	return strings.TrimRight(b.String(), "\n")
}

// usageReport lists per-tool success counts, busiest first.
func usageReport(counts map[intent.Tool]int64) string {
	if len(counts) == 0 {
		return "No successful executions recorded yet."
	}

	type entry struct {
		tool  intent.Tool
		count int64
	}
	entries := make([]entry, 0, len(counts))
	for tool, count := range counts {
		entries = append(entries, entry{tool, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].tool < entries[j].tool
	})

	var b strings.Builder
	b.WriteString("Tool usage:\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "  %-22s %d\n", e.tool, e.count)
	}
	return strings.TrimRight(b.String(), "\n")
}

// statsReport formats the engine's aggregate counters.
func statsReport(stats selector.SelectorStats) string {
	var b strings.Builder
	b.WriteString("Session counters:\n")
	fmt.Fprintf(&b, "  selections       %d\n", stats.TotalSelections)
	fmt.Fprintf(&b, "  decisions        %d\n", stats.Decisions)
	fmt.Fprintf(&b, "  skips            %d\n", stats.Skips)
	fmt.Fprintf(&b, "  no matches       %d\n", stats.NoMatches)
	fmt.Fprintf(&b, "  clarifications   %d\n", stats.Disambiguations)
	fmt.Fprintf(&b, "  compound flags   %d\n", stats.CompoundRequests)
	fmt.Fprintf(&b, "  detector faults  %d\n", stats.DetectorFaults)
	fmt.Fprintf(&b, "  avg confidence   %.3f", stats.AverageConfidence)
	return b.String()
}
