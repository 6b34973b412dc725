package tui

import "github.com/charmbracelet/lipgloss"

// Color Palette (Dracula-inspired)
var (
	colorPurple = lipgloss.Color("#BD93F9")
	colorCyan   = lipgloss.Color("#8BE9FD")
	colorGreen  = lipgloss.Color("#50FA7B")
	colorRed    = lipgloss.Color("#FF5555")
	colorPink   = lipgloss.Color("#FF79C6")
	colorOrange = lipgloss.Color("#FFB86C")

	colorGray   = lipgloss.Color("#6272A4")
	colorYellow = lipgloss.Color("#F1FA8C")
	colorDark   = lipgloss.Color("#282a36")
)

var (
	headerStyle = lipgloss.NewStyle().
			Background(colorPurple).
			Foreground(colorDark).
			Bold(true).
			Padding(0, 1)

	headerPathStyle = lipgloss.NewStyle().
			Foreground(colorCyan).
			Padding(0, 1)

	// Panes
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray)

	focusedPaneStyle = paneStyle.
				BorderForeground(colorPurple)

	paneTitleStyle = lipgloss.NewStyle().
			Foreground(colorPink).
			Bold(true)

	// List entries
	itemStyle = lipgloss.NewStyle().PaddingLeft(1)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorGreen).
				Bold(true).
				PaddingLeft(1)

	activeItemStyle = lipgloss.NewStyle().
			Foreground(colorCyan).
			PaddingLeft(1)

	dirtyMarkStyle = lipgloss.NewStyle().Foreground(colorOrange).Bold(true)

	subtleStyle = lipgloss.NewStyle().Foreground(colorGray)

	// Status line
	infoStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	warnStyle  = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(colorRed).Bold(true)

	promptBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPink).
			Padding(0, 1)

	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)
