package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNormal = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleDialog = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNormal lineKind = iota
	kindDialog
	kindSystem
	kindError
)

// classifyLine determines what kind of output line this is. Dialog lines
// come out of the session as `speaker: "text"`.
func classifyLine(line string) lineKind {
	switch {
	case strings.Contains(line, `: "`) && strings.HasSuffix(line, `"`):
		return kindDialog
	case strings.HasPrefix(line, "Unknown command"),
		strings.HasPrefix(line, "handler error"),
		strings.Contains(line, "failed"):
		return kindError
	case strings.HasPrefix(line, "  "),
		strings.HasPrefix(line, "scene: "),
		strings.HasPrefix(line, "Scene: "),
		strings.HasPrefix(line, "Systems: "):
		return kindSystem
	default:
		return kindNormal
	}
}
