package tui

import "github.com/charmbracelet/lipgloss"

// Palette shared with the web stylesheet
const (
	colorAccent  = lipgloss.Color("#7135d2")
	colorSurface = lipgloss.Color("#efeef5")
	colorError   = lipgloss.Color("#d23535")
	colorMuted   = lipgloss.Color("#8a8799")
	colorOK      = lipgloss.Color("#2e9e5b")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().Foreground(colorMuted)

	focusedLabelStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	errorStyle = lipgloss.NewStyle().Foreground(colorError)

	apiErrorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true).
			MarginTop(1)

	buttonStyle = lipgloss.NewStyle().
			Foreground(colorSurface).
			Background(colorAccent).
			Padding(0, 2).
			MarginTop(1)

	blurredButtonStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Padding(0, 2).
				MarginTop(1)

	successStyle = lipgloss.NewStyle().Foreground(colorOK).Bold(true)

	helpStyle = lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1)

	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2)
)
