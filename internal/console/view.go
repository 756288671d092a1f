package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// view renders the full screen. Called by Model.View.
func view(m Model) string {
	if !m.ready {
		return "\n  Starting console..."
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		viewHeader(m),
		m.viewport.View(),
		viewInput(m),
		viewFooter(m),
	)

	switch m.activeModal {
	case ModalHelp:
		return overlayModal(main, renderHelpModal(m))
	case ModalDisambiguation:
		return overlayModal(main, renderDisambigModal(m))
	}
	return main
}

// viewHeader renders the logo line with the turn count on the right.
func viewHeader(m Model) string {
	left := m.styles.Logo.Render("⬢ thalamus")
	if m.cfg.Version != "" {
		left += m.styles.HeaderContext.Render("  " + m.cfg.Version)
	}

	right := m.styles.HeaderContext.Render(fmt.Sprintf("%d turns", len(m.history)))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	return m.styles.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// viewInput renders the prompt box.
func viewInput(m Model) string {
	return m.styles.InputArea.Width(m.width).Render(m.input.View())
}

// viewFooter renders the help line and the status bar. While a pass is
// in flight the help line shows the spinner instead.
func viewFooter(m Model) string {
	var top string
	if m.routing {
		top = " " + m.styles.Spinner.Render(m.spinner.View()+" routing")
	} else {
		top = " " + m.help.View(m.keys)
	}

	return lipgloss.JoinVertical(lipgloss.Left, top, m.status.View())
}

// refreshTranscript rebuilds the viewport content from the entries.
func (m *Model) refreshTranscript() {
	m.viewport.SetContent(renderTranscript(m))
}

// renderTranscript renders the transcript entries, oldest first.
func renderTranscript(m *Model) string {
	if len(m.entries) == 0 {
		return m.styles.InfoText.Render("\n  Route a message to see how the engine reads it. /help lists commands.")
	}

	width := m.viewport.Width
	blocks := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		blocks = append(blocks, renderEntry(m, e, width))
	}
	return strings.Join(blocks, "\n\n")
}

func renderEntry(m *Model, e *Entry, width int) string {
	switch e.Kind {
	case EntryUser:
		return renderUserEntry(m, e)
	case EntryDecision:
		return renderDecisionEntry(m, e, width)
	case EntrySkip:
		return m.styles.SkipText.Render("conversational, no routing")
	case EntryNoMatch:
		return renderNoMatchEntry(m, e)
	case EntryDisambiguation:
		return renderDisambigEntry(m, e)
	case EntryInfo:
		return m.styles.InfoText.Render(e.Text)
	case EntryError:
		return m.styles.RenderError(e.Text)
	default:
		return e.Text
	}
}

func renderUserEntry(m *Model, e *Entry) string {
	ts := m.styles.Timestamp.Render(e.Timestamp.Format("15:04:05"))
	return fmt.Sprintf("%s %s  %s",
		m.styles.UserLabel.Render("❯ you"), ts, m.styles.UserText.Render(e.Text))
}

// renderDecisionEntry shows the selected tool, its reasoning, and the
// ranked table when runner-ups were in play.
func renderDecisionEntry(m *Model, e *Entry, width int) string {
	res := e.Result
	primary := res.Primary

	badge := m.styles.ToolBadge.Render(primary.Tool.String())
	conf := m.styles.Confidence(primary.Confidence).Render(fmt.Sprintf("%.2f", primary.Confidence))
	head := fmt.Sprintf("%s %s  %s", badge, conf, m.styles.Reason.Render(primary.Reason))

	lines := []string{head}
	if params := formatParams(primary.Params); params != "" {
		lines = append(lines, m.styles.ParamsLine.Render("  "+params))
	}
	if res.CompoundRequest {
		lines = append(lines, m.styles.InfoText.Render("  compound request, routed on the strongest signal"))
	}
	for _, f := range res.DetectorFaults {
		lines = append(lines, m.styles.FaultText.Render("  fault: "+f.Detector+" abstained"))
	}
	if len(res.Alternatives) > 0 {
		lines = append(lines, RankTable(res, &m.styles, width-2))
	}
	return strings.Join(lines, "\n")
}

func renderNoMatchEntry(m *Model, e *Entry) string {
	lines := []string{m.styles.NoMatchText.Render("no tool matched, treating as conversation")}
	if e.Result.CompoundRequest {
		lines = append(lines, m.styles.InfoText.Render("  looks compound, try one request at a time"))
	}
	for _, f := range e.Result.DetectorFaults {
		lines = append(lines, m.styles.FaultText.Render("  fault: "+f.Detector+" abstained"))
	}
	return strings.Join(lines, "\n")
}

// renderDisambigEntry records the clarifying question in the
// transcript. The interactive choice happens in the modal.
func renderDisambigEntry(m *Model, e *Entry) string {
	c := newDisambigChoice(e.Result)

	lines := []string{m.styles.PromptText.Render(e.Result.DisambiguationPrompt)}
	for i, opt := range c.options {
		lines = append(lines, fmt.Sprintf("  %d. %s (%.2f)", i+1, opt.Tool, opt.Confidence))
	}
	return strings.Join(lines, "\n")
}

// renderHelpModal builds the command and key reference overlay.
func renderHelpModal(m Model) string {
	var b strings.Builder

	b.WriteString(m.styles.ModalTitle.Render("thalamus console") + "\n")

	b.WriteString(m.styles.InfoText.Render("Commands") + "\n")
	for _, line := range CommandHelpLines() {
		b.WriteString("  " + line + "\n")
	}

	b.WriteString("\n" + m.styles.InfoText.Render("Keys") + "\n")
	full := m.help
	full.ShowAll = true
	b.WriteString(full.View(m.keys))

	return m.styles.ModalBorder.Render(b.String())
}

// renderDisambigModal builds the clarification overlay.
func renderDisambigModal(m Model) string {
	c := m.disambig
	if c == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.ModalTitle.Render("Which did you mean?") + "\n")
	b.WriteString(m.styles.PromptText.Render(c.result.DisambiguationPrompt) + "\n\n")

	for i, opt := range c.options {
		line := fmt.Sprintf("%d. %-18s %.2f  %s", i+1, opt.Tool, opt.Confidence, opt.Reason)
		if i == c.cursor {
			b.WriteString(m.styles.OptionSelected.Render("▸ "+line) + "\n")
		} else {
			b.WriteString(m.styles.OptionRow.Render("  "+line) + "\n")
		}
	}

	b.WriteString("\n" + m.styles.InfoText.Render("enter confirm · 1-3 quick pick · esc dismiss"))
	return m.styles.ModalBorder.Render(b.String())
}
