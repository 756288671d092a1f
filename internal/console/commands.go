package console

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/normanking/thalamus/internal/selector"
	"github.com/normanking/thalamus/pkg/theme"
)

// ═══════════════════════════════════════════════════════════════════════════════
// COMMAND MESSAGE TYPES
// ═══════════════════════════════════════════════════════════════════════════════

// ShowHelpMsg requests opening the help modal.
type ShowHelpMsg struct{}

// ClearHistoryMsg requests clearing the transcript and the rolling
// conversation history.
type ClearHistoryMsg struct{}

// ExplainRequestMsg requests a full decision report. Message is empty
// when the report should cover the last routed message.
type ExplainRequestMsg struct {
	Message string
}

// DetectorReportMsg carries the registry state for /detectors.
type DetectorReportMsg struct {
	States map[string]bool
}

// DetectorToggledMsg confirms an enable or disable took effect.
type DetectorToggledMsg struct {
	Name    string
	Enabled bool
}

// UsageRequestMsg requests the per-tool success counts.
type UsageRequestMsg struct{}

// StatsReportMsg carries the engine's aggregate counters for /stats.
type StatsReportMsg struct {
	Stats selector.SelectorStats
}

// ThemeSelectedMsg signals a palette change request.
type ThemeSelectedMsg struct {
	ThemeName string
}

// ToggleVimMsg toggles the vim-style key layer.
type ToggleVimMsg struct{}

// CommandErrorMsg signals an invalid or failed command.
type CommandErrorMsg struct {
	Command string
	Error   string
}

// ═══════════════════════════════════════════════════════════════════════════════
// COMMAND ROUTER
// ═══════════════════════════════════════════════════════════════════════════════

// HandleCommand parses and routes slash commands to their handlers.
// This is the entry point for all input starting with '/'.
//
// Supported commands:
//   - /help, /h, /?                      - Show help modal
//   - /explain, /e [message]             - Full report for the last or a fresh message
//   - /detectors, /d [enable|disable <name>] - List or toggle detectors
//   - /usage, /u                         - Per-tool success counts
//   - /stats                             - Engine counters for this session
//   - /theme, /t [dark|light]            - Toggle or set the palette
//   - /vim                               - Toggle vim-style keys
//   - /clear, /c                         - Clear the transcript
//   - /quit, /q, /exit                   - Exit the console
func HandleCommand(input string, engine *selector.Selector) tea.Cmd {
	input = strings.TrimPrefix(input, "/")
	parts := strings.Fields(input)

	if len(parts) == 0 {
		return cmdUnknown("")
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "h", "?":
		return cmdHelp()

	case "explain", "e":
		return cmdExplain(args)

	case "detectors", "d":
		return cmdDetectors(args, engine)

	case "usage", "u":
		return cmdUsage()

	case "stats":
		return cmdStats(engine)

	case "theme", "t":
		return cmdTheme(args)

	case "vim":
		return cmdVim()

	case "clear", "c":
		return cmdClear()

	case "quit", "q", "exit":
		return tea.Quit

	default:
		return cmdUnknown(cmd)
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// INDIVIDUAL COMMAND HANDLERS
// ═══════════════════════════════════════════════════════════════════════════════

func cmdHelp() tea.Cmd {
	return func() tea.Msg {
		return ShowHelpMsg{}
	}
}

// cmdExplain handles the /explain command.
// With no arguments: reports on the last routed message.
// With arguments: routes the given text and reports on that pass.
func cmdExplain(args []string) tea.Cmd {
	message := strings.Join(args, " ")
	return func() tea.Msg {
		return ExplainRequestMsg{Message: message}
	}
}

// cmdDetectors handles the /detectors command.
//
// Examples:
//
//	/detectors                → List every detector and its state
//	/detectors disable music  → Turn the music detector off
//	/detectors enable music   → Turn it back on
func cmdDetectors(args []string, engine *selector.Selector) tea.Cmd {
	if len(args) == 0 || strings.ToLower(args[0]) == "list" {
		return func() tea.Msg {
			return DetectorReportMsg{States: engine.Registry().States()}
		}
	}

	action := strings.ToLower(args[0])
	if action != "enable" && action != "disable" {
		return func() tea.Msg {
			return CommandErrorMsg{
				Command: "detectors",
				Error:   fmt.Sprintf("Unknown action: %s. Use list, enable, or disable.", action),
			}
		}
	}
	if len(args) < 2 {
		return func() tea.Msg {
			return CommandErrorMsg{
				Command: "detectors",
				Error:   fmt.Sprintf("Usage: /detectors %s <name>", action),
			}
		}
	}

	search := strings.ToLower(args[1])

	return func() tea.Msg {
		name, ok := matchDetector(engine.Registry().Names(), search)
		if !ok {
			return CommandErrorMsg{
				Command: "detectors",
				Error:   fmt.Sprintf("Detector not found: %s", search),
			}
		}

		var err error
		if action == "enable" {
			err = engine.EnableDetector(name)
		} else {
			err = engine.DisableDetector(name)
		}
		if err != nil {
			return CommandErrorMsg{Command: "detectors", Error: err.Error()}
		}

		return DetectorToggledMsg{Name: name, Enabled: action == "enable"}
	}
}

// matchDetector resolves a typed name against the registry, exact
// match first, then unique prefix.
func matchDetector(names []string, search string) (string, bool) {
	var partial string
	count := 0

	for _, name := range names {
		if name == search {
			return name, true
		}
		if strings.HasPrefix(name, search) {
			partial = name
			count++
		}
	}

	if count == 1 {
		return partial, true
	}
	return "", false
}

func cmdUsage() tea.Cmd {
	return func() tea.Msg {
		return UsageRequestMsg{}
	}
}

func cmdStats(engine *selector.Selector) tea.Cmd {
	return func() tea.Msg {
		return StatsReportMsg{Stats: engine.Stats()}
	}
}

// cmdTheme handles the /theme command.
// With no arguments it flips to the other palette.
func cmdTheme(args []string) tea.Cmd {
	if len(args) == 0 {
		return func() tea.Msg {
			return ThemeSelectedMsg{}
		}
	}

	themeName := strings.ToLower(strings.Join(args, " "))

	return func() tea.Msg {
		if !theme.Exists(themeName) {
			return CommandErrorMsg{
				Command: "theme",
				Error:   fmt.Sprintf("Theme not found: %s. Available: %v", themeName, theme.List()),
			}
		}
		return ThemeSelectedMsg{ThemeName: themeName}
	}
}

func cmdVim() tea.Cmd {
	return func() tea.Msg {
		return ToggleVimMsg{}
	}
}

func cmdClear() tea.Cmd {
	return func() tea.Msg {
		return ClearHistoryMsg{}
	}
}

func cmdUnknown(cmd string) tea.Cmd {
	return func() tea.Msg {
		if cmd == "" {
			return CommandErrorMsg{
				Command: "",
				Error:   "Empty command. Type /help for available commands.",
			}
		}

		return CommandErrorMsg{
			Command: cmd,
			Error:   fmt.Sprintf("Unknown command: /%s. Type /help for available commands.", cmd),
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// AUTOCOMPLETE SUPPORT
// ═══════════════════════════════════════════════════════════════════════════════

// GetCommandSuggestions returns command suggestions for partial input.
//
// Example:
//
//	GetCommandSuggestions("/de")  → ["/detectors", "/d"]
//	GetCommandSuggestions("/h")   → ["/help", "/h", "/?"]
func GetCommandSuggestions(partial string) []string {
	partial = strings.TrimPrefix(strings.ToLower(partial), "/")

	commandGroups := [][]string{
		{"/help", "/h", "/?"},
		{"/explain", "/e"},
		{"/detectors", "/d"},
		{"/usage", "/u"},
		{"/stats"},
		{"/theme", "/t"},
		{"/vim"},
		{"/clear", "/c"},
		{"/quit", "/q", "/exit"},
	}

	if partial == "" {
		var all []string
		for _, group := range commandGroups {
			all = append(all, group...)
		}
		return all
	}

	seen := make(map[string]bool)
	var suggestions []string

	for _, group := range commandGroups {
		groupMatches := false
		for _, cmd := range group {
			if strings.HasPrefix(strings.TrimPrefix(cmd, "/"), partial) {
				groupMatches = true
				break
			}
		}
		if groupMatches {
			for _, cmd := range group {
				if !seen[cmd] {
					seen[cmd] = true
					suggestions = append(suggestions, cmd)
				}
			}
		}
	}

	return suggestions
}

// GetCommandHelp returns commands mapped to their descriptions, for
// the help modal.
func GetCommandHelp() map[string]string {
	return map[string]string{
		"/help, /h, /?":           "Show this help message",
		"/explain, /e [message]":  "Full decision report for the last or a fresh message",
		"/detectors, /d [action]": "List detectors, or enable/disable one by name",
		"/usage, /u":              "Per-tool success counts from the usage store",
		"/stats":                  "Engine counters for this session",
		"/theme, /t [dark|light]": "Toggle or set the color palette",
		"/vim":                    "Toggle vim-style navigation keys",
		"/clear, /c":              "Clear the transcript and conversation history",
		"/quit, /q, /exit":        "Exit the console",
	}
}

// CommandHelpLines returns the help entries as sorted, aligned lines.
func CommandHelpLines() []string {
	help := GetCommandHelp()

	keys := make([]string, 0, len(help))
	longest := 0
	for k := range help {
		keys = append(keys, k)
		if len(k) > longest {
			longest = len(k)
		}
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%-*s  %s", longest, k, help[k]))
	}
	return lines
}
