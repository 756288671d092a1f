// Package console implements the interactive terminal frontend for the
// routing engine. It wraps a selector in a Bubble Tea program: messages
// typed at the prompt are routed live, outcomes land in a scrollable
// transcript with a ranked interpretation table, and slash commands
// control detectors, themes, and reports without leaving the session.
package console

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mistakenelf/teacup/statusbar"

	"github.com/normanking/thalamus/internal/intent"
	"github.com/normanking/thalamus/internal/selector"
	"github.com/normanking/thalamus/pkg/theme"
)

// Config holds the options for starting a console session.
type Config struct {
	// Engine is the selection engine backing the session.
	Engine *selector.Selector

	// Theme names the starting palette, "dark" or "light".
	Theme string

	// VimMode starts the session with vim-style navigation keys.
	VimMode bool

	// Version is shown in the header.
	Version string

	// UsageLabel names the usage store backend in the status bar,
	// "sqlite" or "memory".
	UsageLabel string

	// UsageCounts reads the per-tool success counts for /usage. Nil
	// leaves the command reporting an empty store.
	UsageCounts func() (map[intent.Tool]int64, error)
}

// DefaultConfig returns a config with the default palette around the
// given engine.
func DefaultConfig(engine *selector.Selector) *Config {
	return &Config{
		Engine:     engine,
		Theme:      theme.DefaultTheme,
		UsageLabel: "memory",
	}
}

// New builds the Bubble Tea program for a console session.
func New(cfg *Config) (*tea.Program, error) {
	if cfg == nil || cfg.Engine == nil {
		return nil, errors.New("console: engine is required")
	}

	opts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}

	return tea.NewProgram(newModel(cfg), opts...), nil
}

// Run starts the console and blocks until the user quits.
func Run(cfg *Config) error {
	prog, err := New(cfg)
	if err != nil {
		return err
	}

	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("console error: %w", err)
	}
	return nil
}

// newModel assembles the model and its Bubble Tea components.
func newModel(cfg *Config) Model {
	vp := viewport.New(0, 0)
	vp.SetContent("")

	ti := textarea.New()
	ti.Placeholder = "Type a message to route, or /help for commands"
	ti.Focus()
	ti.CharLimit = 4000
	ti.SetHeight(inputLines)
	ti.ShowLineNumbers = false
	ti.KeyMap.InsertNewline.SetEnabled(false)

	themeName := cfg.Theme
	if !theme.Exists(themeName) {
		themeName = theme.DefaultTheme
	}
	styles := NewStyles(theme.Get(themeName))

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	h := help.New()
	h.ShowAll = false

	m := Model{
		cfg:    cfg,
		engine: cfg.Engine,

		themeName: themeName,
		styles:    styles,

		viewport: vp,
		input:    ti,
		spinner:  sp,
		help:     h,
		status:   newStatusBar(&styles),
		keys:     DefaultKeyMap(),

		vimMode:   cfg.VimMode,
		inserting: true,

		activeModal: ModalNone,
	}

	m.refreshStatus()
	return m
}

// newStatusBar builds the four-column status bar from the palette.
func newStatusBar(st *Styles) statusbar.Model {
	modeColors, detectorColors, usageColors, latencyColors := st.StatusColors()
	return statusbar.New(modeColors, detectorColors, usageColors, latencyColors)
}
