// Package theme defines the color palettes for the thalamus console.
// Two palettes ship, one dark and one light, matching the console
// config's theme switch. Colors are hex codes for lipgloss.Color().
package theme

// Palette is the complete color system for one theme.
type Palette struct {
	// Metadata
	Name string `json:"name"` // Human-readable name (e.g., "Midnight")
	ID   string `json:"id"`   // Machine ID ("dark" or "light")

	// Base colors
	Background string `json:"background"` // Main background
	Foreground string `json:"foreground"` // Primary text
	Border     string `json:"border"`     // Borders and dividers
	Surface    string `json:"surface"`    // Elevated surfaces (table header, modals)
	Selection  string `json:"selection"`  // Highlighted/selected item background

	// Semantic colors
	Primary   string `json:"primary"`   // Accent, focus, tool names
	Secondary string `json:"secondary"` // Supporting text, subtitles
	Success   string `json:"success"`   // High-confidence decisions
	Warning   string `json:"warning"`   // Disambiguation, borderline scores
	Error     string `json:"error"`     // Detector faults, command errors
	Muted     string `json:"muted"`     // Skips, timestamps, placeholders

	// Layered backgrounds
	HeaderBg string `json:"header_bg"` // Title bar
	FooterBg string `json:"footer_bg"` // Status bar

	// GlamourStyle names the glamour standard style used for markdown.
	GlamourStyle string `json:"glamour_style"`
}

// IsDark reports whether this palette targets a dark terminal.
func (p Palette) IsDark() bool {
	return p.ID == "dark"
}

// SelectionForeground returns a readable text color for selected rows.
func (p Palette) SelectionForeground() string {
	if p.IsDark() {
		return p.Background
	}
	return p.Foreground
}

// ═══════════════════════════════════════════════════════════════════════════════
// BUILT-IN PALETTES
// ═══════════════════════════════════════════════════════════════════════════════

// Registry holds the available palettes by ID.
var Registry = map[string]Palette{
	// Dark - GitHub Dark inspired, high contrast
	"dark": {
		Name:       "Midnight",
		ID:         "dark",
		Background: "#0d1117",
		Foreground: "#e6edf3",
		Border:     "#30363d",
		Surface:    "#161b22",
		Selection:  "#1f3a5f",
		Primary:    "#58a6ff",
		Secondary:  "#8b949e",
		Success:    "#3fb950",
		Warning:    "#d29922",
		Error:      "#f85149",
		Muted:      "#484f58",
		HeaderBg:   "#161b22",
		FooterBg:   "#010409",

		GlamourStyle: "dark",
	},

	// Light - clean high-contrast light palette
	"light": {
		Name:       "Paper",
		ID:         "light",
		Background: "#ffffff",
		Foreground: "#1f2328",
		Border:     "#d1d9e0",
		Surface:    "#f6f8fa",
		Selection:  "#dbeafe",
		Primary:    "#0969da",
		Secondary:  "#57606a",
		Success:    "#1a7f37",
		Warning:    "#9a6700",
		Error:      "#cf222e",
		Muted:      "#8c959f",
		HeaderBg:   "#f6f8fa",
		FooterBg:   "#eaeef2",

		GlamourStyle: "light",
	},
}

// ═══════════════════════════════════════════════════════════════════════════════
// REGISTRY ACCESS
// ═══════════════════════════════════════════════════════════════════════════════

// DefaultTheme is used when no theme is specified or the ID is unknown.
const DefaultTheme = "dark"

// Get returns a palette by ID, falling back to the default.
func Get(id string) Palette {
	if p, ok := Registry[id]; ok {
		return p
	}
	return Registry[DefaultTheme]
}

// Exists reports whether a palette ID is valid.
func Exists(id string) bool {
	_, ok := Registry[id]
	return ok
}

// List returns all palette IDs in display order.
func List() []string {
	return []string{"dark", "light"}
}

// Toggle returns the other palette's ID.
func Toggle(current string) string {
	if current == "dark" {
		return "light"
	}
	return "dark"
}
