package console

import (
	tea "github.com/charmbracelet/bubbletea"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/normanking/thalamus/internal/intent"
	"github.com/normanking/thalamus/internal/selector"
)

// staticView adapts a rendered string to tea.Model so it can be layered
// by the overlay package.
type staticView string

func (s staticView) Init() tea.Cmd                       { return nil }
func (s staticView) Update(tea.Msg) (tea.Model, tea.Cmd) { return s, nil }
func (s staticView) View() string                        { return string(s) }

// overlayModal centers a modal over the main view.
func overlayModal(background, modal string) string {
	return overlay.New(
		staticView(modal),
		staticView(background),
		overlay.Center,
		overlay.Center,
		0,
		0,
	).View()
}

// disambigChoice is the state behind the clarification modal: the
// ambiguous pass and the interpretations offered for it.
type disambigChoice struct {
	result  *selector.Result
	options []intent.Intent
	cursor  int
}

// newDisambigChoice collects the offered interpretations, primary
// first, capped at the option limit.
func newDisambigChoice(res *selector.Result) *disambigChoice {
	opts := []intent.Intent{*res.Primary}
	for _, alt := range res.Alternatives {
		if len(opts) == intent.MaxDisambiguationOptions {
			break
		}
		opts = append(opts, alt)
	}
	return &disambigChoice{result: res, options: opts}
}

// move shifts the cursor by delta, clamped to the option range.
func (c *disambigChoice) move(delta int) {
	c.cursor += delta
	if c.cursor < 0 {
		c.cursor = 0
	}
	if c.cursor >= len(c.options) {
		c.cursor = len(c.options) - 1
	}
}

// selected returns the interpretation under the cursor.
func (c *disambigChoice) selected() intent.Intent {
	return c.options[c.cursor]
}
