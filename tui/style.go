package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleStatusBarFight = lipgloss.NewStyle().
				Background(lipgloss.Color("52")).
				Foreground(lipgloss.Color("252")).
				Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarrative = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleHeading = lipgloss.NewStyle().
			Bold(true)

	styleExits = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleCombat = lipgloss.NewStyle().
			Foreground(lipgloss.Color("209"))

	styleReward = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	styleMenu = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindHeading
	kindExits
	kindCombat
	kindReward
	kindMenu
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "Exits:"):
		return kindExits
	case isRule(line):
		return kindHeading
	case strings.HasPrefix(line, "LEVEL UP!"),
		strings.HasPrefix(line, "Quest complete:"),
		strings.HasPrefix(line, "Quest progress:"),
		strings.HasPrefix(line, "You defeated the "):
		return kindReward
	case strings.HasPrefix(line, "You strike the "),
		strings.HasPrefix(line, "The ") && strings.Contains(line, " hits you for "),
		strings.HasPrefix(line, "You have been defeated"),
		strings.HasPrefix(line, "A ") && strings.HasSuffix(line, "!"):
		return kindCombat
	case isMenuEntry(line):
		return kindMenu
	case strings.HasPrefix(line, "You can't"),
		strings.HasPrefix(line, "You don't have"),
		strings.HasPrefix(line, "There is no"),
		strings.HasPrefix(line, "Sorry, "),
		strings.HasPrefix(line, "Invalid command"):
		return kindError
	default:
		return kindNarrative
	}
}

// isRule reports whether the line is the dashed underline beneath a
// location name.
func isRule(line string) bool {
	return len(line) > 0 && strings.Trim(line, "-") == ""
}

// isMenuEntry reports whether the line is a numbered choice such as
// "  2) Iron Sword, 25 gold".
func isMenuEntry(line string) bool {
	trimmed := strings.TrimLeft(line, " ")
	if len(trimmed) == len(line) {
		return false
	}
	digits := 0
	for digits < len(trimmed) && trimmed[digits] >= '0' && trimmed[digits] <= '9' {
		digits++
	}
	return digits > 0 && digits < len(trimmed) && trimmed[digits] == ')'
}

// styledPlayerInput renders the echoed player input in green with "> " prefix.
func styledPlayerInput(input string) string {
	return stylePlayerInput.Render("> " + input)
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
