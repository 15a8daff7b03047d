package menu

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Night-sky palette
	starCyan   = lipgloss.Color("#00FFFF")
	nebulaPink = lipgloss.Color("#FF10F0")
	cometGreen = lipgloss.Color("#39FF14")
	sunYellow  = lipgloss.Color("#FFFF00")
	dimWhite   = lipgloss.Color("#B0B0B0")

	titleStyle = lipgloss.NewStyle().
			Foreground(starCyan).
			Bold(true).
			Padding(1, 0)

	itemStyle = lipgloss.NewStyle().
			Foreground(dimWhite).
			PaddingLeft(2)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(cometGreen).
				Bold(true).
				PaddingLeft(2)

	promptStyle = lipgloss.NewStyle().
			Foreground(sunYellow).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")).
			PaddingTop(1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(nebulaPink).
			Padding(1, 2)
)
