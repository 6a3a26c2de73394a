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

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleNarration = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleTurnHeader = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Bold(true)

	styleCritical = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")).
			Bold(true)

	styleDodge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	styleSpecial = lipgloss.NewStyle().
			Foreground(lipgloss.Color("213"))

	styleHeal = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	styleEffect = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	styleDefeat = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	styleLevelUp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	styleName = lipgloss.NewStyle().Bold(true)

	styleFlash = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	styleReady = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarration lineKind = iota
	kindTurnHeader
	kindCritical
	kindDodge
	kindSpecial
	kindHeal
	kindEffect
	kindDefeat
	kindLevelUp
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
	case strings.HasPrefix(line, "--- Turn"):
		return kindTurnHeader
	case strings.HasSuffix(line, "has been defeated!"):
		return kindDefeat
	case strings.Contains(line, "leveled up"):
		return kindLevelUp
	case strings.HasSuffix(line, "CRITICAL!"):
		return kindCritical
	case strings.HasSuffix(line, "DODGE!"):
		return kindDodge
	case strings.Contains(line, "heals for"):
		return kindHeal
	case strings.Contains(line, "burn damage"),
		strings.Contains(line, "wore off"):
		return kindEffect
	case strings.Contains(line, " uses "),
		strings.Contains(line, "Stealth mode"):
		return kindSpecial
	case strings.HasPrefix(line, "Special ability is on cooldown"),
		strings.HasPrefix(line, "No special ability"),
		strings.HasPrefix(line, "You can"),
		strings.HasPrefix(line, "Pick a class"):
		return kindError
	default:
		return kindNarration
	}
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindTurnHeader:
		return styleTurnHeader.Render(line)
	case kindCritical:
		return styleCritical.Render(line)
	case kindDodge:
		return styleDodge.Render(line)
	case kindSpecial:
		return styleSpecial.Render(line)
	case kindHeal:
		return styleHeal.Render(line)
	case kindEffect:
		return styleEffect.Render(line)
	case kindDefeat:
		return styleDefeat.Render(line)
	case kindLevelUp:
		return styleLevelUp.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleNarration.Render(line)
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
