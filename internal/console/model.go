package console

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mistakenelf/teacup/statusbar"

	"github.com/normanking/thalamus/internal/convo"
	"github.com/normanking/thalamus/internal/selector"
	"github.com/normanking/thalamus/pkg/theme"
)

const (
	// inputLines is the height of the prompt textarea.
	inputLines = 3

	// maxTranscriptEntries bounds the transcript; older entries fall
	// off the top.
	maxTranscriptEntries = 200

	// maxHistoryTurns bounds the rolling conversation handed to the
	// engine. Context extraction only reads the trailing few turns, so
	// this is purely a memory cap.
	maxHistoryTurns = 50
)

// ModalType identifies the overlay currently shown, if any.
type ModalType int

const (
	ModalNone ModalType = iota
	ModalHelp
	ModalDisambiguation
)

// Model is the Bubble Tea model for the console. It follows the Elm
// architecture: Update mutates a copy, View renders it.
type Model struct {
	cfg    *Config
	engine *selector.Selector

	width  int
	height int
	ready  bool

	themeName string
	styles    Styles

	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model
	help     help.Model
	status   statusbar.Model
	keys     KeyMap

	// entries is the transcript, oldest first.
	entries []*Entry

	// history is the rolling conversation handed to the engine on each
	// pass, oldest turn first.
	history []convo.Turn

	// routing is true while a pass runs off the update loop. Sends are
	// blocked until the result lands.
	routing     bool
	lastResult  *selector.Result
	lastElapsed time.Duration

	// vimMode layers modal navigation over the prompt: esc leaves
	// insert, j/k scroll, i returns to typing.
	vimMode   bool
	inserting bool

	activeModal ModalType
	disambig    *disambigChoice
}

// Init starts the cursor blink and the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

// Update handles messages and returns the next model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return update(m, msg)
}

// View renders the model to a string.
func (m Model) View() string {
	return view(m)
}

// appendEntry adds a transcript entry and scrolls to it.
func (m *Model) appendEntry(e *Entry) {
	m.entries = append(m.entries, e)
	if len(m.entries) > maxTranscriptEntries {
		m.entries = m.entries[len(m.entries)-maxTranscriptEntries:]
	}
	m.refreshTranscript()
	m.viewport.GotoBottom()
}

// pushTurn appends a turn to the rolling conversation.
func (m *Model) pushTurn(turn convo.Turn) {
	m.history = append(m.history, turn)
	if len(m.history) > maxHistoryTurns {
		m.history = m.history[len(m.history)-maxHistoryTurns:]
	}
}

// clearTranscript drops the transcript and the conversation state.
func (m *Model) clearTranscript() {
	m.entries = nil
	m.history = nil
	m.lastResult = nil
	m.lastElapsed = 0
	m.viewport.SetContent("")
	m.viewport.GotoTop()
}

// applyTheme switches palettes and rebuilds everything derived from
// them.
func (m *Model) applyTheme(name string) {
	m.themeName = name
	m.styles = NewStyles(theme.Get(name))
	m.spinner.Style = m.styles.Spinner
	m.status = newStatusBar(&m.styles)
	m.status.SetSize(m.width)
	m.refreshStatus()
	m.refreshTranscript()
}

// refreshStatus repaints the four status bar columns.
func (m *Model) refreshStatus() {
	states := m.engine.Registry().States()
	enabled := 0
	for _, on := range states {
		if on {
			enabled++
		}
	}

	mode := "THALAMUS"
	if m.vimMode {
		if m.inserting {
			mode = "INSERT"
		} else {
			mode = "NORMAL"
		}
	}

	usage := m.cfg.UsageLabel
	if usage == "" {
		usage = "memory"
	}

	latency := "idle"
	if m.lastElapsed > 0 {
		latency = m.lastElapsed.Round(time.Microsecond).String()
	}

	m.status.SetContent(
		mode,
		fmt.Sprintf("%d/%d detectors", enabled, len(states)),
		"usage: "+usage,
		latency,
	)
}
