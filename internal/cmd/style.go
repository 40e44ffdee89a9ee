package cmd

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Status output styling.
var (
	headerStyle = lipgloss.NewStyle().Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(10)

	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	stoppedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	debugStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	plainStyle = lipgloss.NewStyle()
)

// stateStyle picks a color for a container state.
func stateStyle(state string) lipgloss.Style {
	switch state {
	case "running":
		return runningStyle
	case "created", "restarting":
		return pendingStyle
	default:
		return stoppedStyle
	}
}

// stateDot renders the colored status indicator.
func stateDot(state string) string {
	return stateStyle(state).Render("●")
}

// levelStyle picks a color for a log level.
func levelStyle(level string) lipgloss.Style {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return debugStyle
	case "WARN":
		return warnStyle
	case "ERROR":
		return errorStyle
	default:
		return plainStyle
	}
}
