package console

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mistakenelf/teacup/statusbar"

	"github.com/normanking/thalamus/internal/intent"
	"github.com/normanking/thalamus/pkg/theme"
)

// Styles contains pre-computed lipgloss styles for the console. They are
// rebuilt whenever the palette changes.
type Styles struct {
	palette theme.Palette

	// Layout
	Header     lipgloss.Style
	Transcript lipgloss.Style
	InputArea  lipgloss.Style

	// Header components
	Logo          lipgloss.Style
	HeaderContext lipgloss.Style

	// Transcript entries
	UserLabel   lipgloss.Style
	UserText    lipgloss.Style
	ToolBadge   lipgloss.Style
	Reason      lipgloss.Style
	ParamsLine  lipgloss.Style
	SkipText    lipgloss.Style
	NoMatchText lipgloss.Style
	FaultText   lipgloss.Style
	InfoText    lipgloss.Style
	Timestamp   lipgloss.Style

	// Confidence tiers
	ConfidenceHigh   lipgloss.Style
	ConfidenceMedium lipgloss.Style
	ConfidenceLow    lipgloss.Style

	// Disambiguation
	PromptText     lipgloss.Style
	OptionRow      lipgloss.Style
	OptionSelected lipgloss.Style

	// Modal
	ModalBorder lipgloss.Style
	ModalTitle  lipgloss.Style

	// Ranked table
	TableBase   lipgloss.Style
	TableHeader lipgloss.Style

	// Misc
	Spinner  lipgloss.Style
	ErrorBox lipgloss.Style
}

// NewStyles builds a Styles instance from a palette.
func NewStyles(p theme.Palette) Styles {
	s := Styles{palette: p}

	// Layout
	s.Header = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Foreground)).
		Background(lipgloss.Color(p.HeaderBg)).
		Bold(true).
		Padding(0, 1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color(p.Border))

	s.Transcript = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Foreground)).
		Padding(0, 1)

	s.InputArea = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Foreground)).
		Padding(0, 1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(lipgloss.Color(p.Border))

	// Header components
	s.Logo = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Primary)).
		Background(lipgloss.Color(p.HeaderBg)).
		Bold(true)

	s.HeaderContext = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Secondary)).
		Background(lipgloss.Color(p.HeaderBg)).
		Italic(true)

	// Transcript entries
	s.UserLabel = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Primary)).
		Bold(true)

	s.UserText = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Foreground))

	s.ToolBadge = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Background)).
		Background(lipgloss.Color(p.Primary)).
		Bold(true).
		Padding(0, 1)

	s.Reason = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Secondary))

	s.ParamsLine = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Secondary)).
		Italic(true)

	s.SkipText = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Muted)).
		Italic(true)

	s.NoMatchText = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Muted))

	s.FaultText = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Error)).
		Italic(true)

	s.InfoText = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Muted)).
		Italic(true)

	s.Timestamp = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Muted))

	// Confidence tiers
	s.ConfidenceHigh = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Success)).
		Bold(true)

	s.ConfidenceMedium = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Primary))

	s.ConfidenceLow = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Warning))

	// Disambiguation
	s.PromptText = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Warning)).
		Bold(true)

	s.OptionRow = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Foreground)).
		Padding(0, 1)

	s.OptionSelected = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.SelectionForeground())).
		Background(lipgloss.Color(p.Primary)).
		Bold(true).
		Padding(0, 1)

	// Modal
	s.ModalBorder = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Foreground)).
		Background(lipgloss.Color(p.Surface)).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(p.Primary)).
		Padding(1, 2)

	s.ModalTitle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Primary)).
		Background(lipgloss.Color(p.Surface)).
		Bold(true).
		MarginBottom(1)

	// Ranked table
	s.TableBase = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Foreground)).
		BorderForeground(lipgloss.Color(p.Border))

	s.TableHeader = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Secondary)).
		Bold(true)

	// Misc
	s.Spinner = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Primary)).
		Bold(true)

	s.ErrorBox = lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Error)).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(p.Error)).
		Padding(0, 1)

	return s
}

// Palette returns the palette these styles were built from.
func (s *Styles) Palette() theme.Palette {
	return s.palette
}

// Confidence returns the tier style for a score: success at or above the
// high-confidence anchor, accent through the medium band, warning down to
// the viability floor and below.
func (s *Styles) Confidence(score float64) lipgloss.Style {
	switch {
	case score >= intent.HighConfidence:
		return s.ConfidenceHigh
	case score >= intent.MediumConfidence:
		return s.ConfidenceMedium
	default:
		return s.ConfidenceLow
	}
}

// RenderHorizontalLine renders a separator line of the given width.
func (s *Styles) RenderHorizontalLine(width int) string {
	if width < 1 {
		return ""
	}
	line := strings.Repeat("─", width)
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.palette.Border)).
		Render(line)
}

// RenderError renders a command or engine error in an error box.
func (s *Styles) RenderError(message string) string {
	return s.ErrorBox.Render("✗ " + message)
}

// StatusColors returns the four column color pairs for the status bar:
// mode, detector count, usage backend, and last latency.
func (s *Styles) StatusColors() (statusbar.ColorConfig, statusbar.ColorConfig, statusbar.ColorConfig, statusbar.ColorConfig) {
	p := s.palette
	pair := func(fg, bg string) statusbar.ColorConfig {
		return statusbar.ColorConfig{
			Foreground: lipgloss.AdaptiveColor{Light: fg, Dark: fg},
			Background: lipgloss.AdaptiveColor{Light: bg, Dark: bg},
		}
	}

	return pair(p.Background, p.Primary),
		pair(p.Foreground, p.Surface),
		pair(p.Foreground, p.HeaderBg),
		pair(p.Secondary, p.FooterBg)
}
