package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Shared Styles
var (
	// Brand Colors
	primaryColor   = lipgloss.Color("#00FFFF") // Cyan/Aqua
	secondaryColor = lipgloss.Color("#FF6B9D") // Pink
	accentColor    = lipgloss.Color("#00FF88") // Green
	subColor       = lipgloss.Color("241")     // Grey
	purpleColor    = lipgloss.Color("#A78BFA")
	orangeColor    = lipgloss.Color("#FFA500")
	yellowColor    = lipgloss.Color("#FFD700")

	// Global Styles
	logoStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	headerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 2)

	dashBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true).
			MarginLeft(1)

	targetStyle  = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	metaStyle    = lipgloss.NewStyle().Foreground(subColor)
	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	subtext = lipgloss.NewStyle().Foreground(subColor)

	// Dashboard Specific
	successText = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF88")) // Bright Green
	warnText    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")) // Gold
	errText     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4444")) // Red
	infoText    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FFFF")) // Cyan
)

// asciiLogo is the small brand mark rendered by both the monitor and ctl TUIs.
const asciiLogo = "⚙ MODELHOST"

// MakeNeonTheme creates a custom theme for huh forms.
func MakeNeonTheme() *huh.Theme {
	t := huh.ThemeCharm()
	t.Focused.Title = t.Focused.Title.Foreground(primaryColor).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(subColor)
	t.Focused.Base = t.Focused.Base.BorderForeground(secondaryColor)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(secondaryColor)
	t.Focused.TextInput.Placeholder = t.Focused.TextInput.Placeholder.Foreground(lipgloss.Color("240"))
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(accentColor).SetString("› ")
	t.Focused.Option = t.Focused.Option.Foreground(lipgloss.Color("250"))
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(primaryColor).Bold(true)
	return t
}

// stateStyle returns the color matching a job's execution state, shared by
// the monitor dashboard and the ctl submit summary.
func stateStyle(state string) lipgloss.Style {
	switch state {
	case "COMPLETE":
		return successText
	case "FAILED":
		return errText
	case "TERMINATED":
		return warnText
	case "RUNNING":
		return infoText
	default: // PENDING
		return subtext
	}
}
