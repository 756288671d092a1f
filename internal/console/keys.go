package console

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the console's keyboard shortcuts. It implements the
// help.KeyMap interface so the help modal renders itself.
type KeyMap struct {
	// Send routes the typed message.
	Send key.Binding

	// Explain re-runs the last message and renders the full report.
	Explain key.Binding

	// Quit exits the console.
	Quit key.Binding

	// Up and Down scroll the transcript one line.
	Up   key.Binding
	Down key.Binding

	// PageUp and PageDown scroll the transcript one page.
	PageUp   key.Binding
	PageDown key.Binding

	// Top and Bottom jump to the transcript edges.
	Top    key.Binding
	Bottom key.Binding

	// Help opens the shortcut overview.
	Help key.Binding

	// Theme flips between the dark and light palettes.
	Theme key.Binding

	// Clear drops the transcript and the rolling history.
	Clear key.Binding

	// Close dismisses the open modal, or leaves insert mode when vim
	// keys are on.
	Close key.Binding

	// Insert re-enters insert mode when vim keys are on.
	Insert key.Binding
}

// DefaultKeyMap returns the default keyboard shortcuts.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "route message"),
		),
		Explain: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "explain last decision"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),

		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home/g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end/G", "bottom"),
		),

		Help: key.NewBinding(
			key.WithKeys("?", "f1"),
			key.WithHelp("?/f1", "help"),
		),
		Theme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "toggle theme"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear transcript"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Insert: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "insert mode"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Send,
		k.Explain,
		k.Help,
		k.Quit,
	}
}

// FullHelp returns the binding columns shown in the help modal.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{
			k.Send,
			k.Explain,
			k.Clear,
			k.Quit,
		},
		{
			k.Up,
			k.Down,
			k.PageUp,
			k.PageDown,
			k.Top,
			k.Bottom,
		},
		{
			k.Help,
			k.Theme,
			k.Close,
			k.Insert,
		},
	}
}
