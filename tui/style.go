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

	styleRoomDesc = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleYouSee = lipgloss.NewStyle().
			Bold(true)

	styleExits = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleQuestion = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleGaugeOK    = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	styleGaugeHeavy = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	styleGaugeFull  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarrative lineKind = iota
	kindYouSee
	kindExits
	kindQuestion
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
	case strings.HasPrefix(line, "You see "),
		strings.HasPrefix(line, "You are carrying "):
		return kindYouSee
	case strings.HasPrefix(line, "Exits:"):
		return kindExits
	case strings.HasPrefix(line, "Which "):
		return kindQuestion
	case strings.HasPrefix(line, "You don't see"),
		strings.HasPrefix(line, "You can't"),
		strings.HasPrefix(line, "I don't know how"),
		strings.HasPrefix(line, "There is nothing"):
		return kindError
	default:
		return kindNarrative
	}
}

func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindYouSee:
		return styledList(line)
	case kindExits:
		return styleExits.Render(line)
	case kindQuestion:
		return styleQuestion.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleRoomDesc.Render(line)
	}
}

// styledList renders "You see 2 iron swords and a shield." with the list
// in bold.
func styledList(line string) string {
	for _, prefix := range []string{"You see ", "You are carrying "} {
		if rest, ok := strings.CutPrefix(line, prefix); ok {
			return styleRoomDesc.Render(prefix) + styleYouSee.Render(rest)
		}
	}
	return styleRoomDesc.Render(line)
}

func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
