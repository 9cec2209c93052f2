package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent  = lipgloss.Color("39")
	colorDim     = lipgloss.Color("240")
	colorError   = lipgloss.Color("196")
	colorWarning = lipgloss.Color("214")
	colorSuccess = lipgloss.Color("42")

	titleStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Bold(true)

	focusedLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorAccent)

	valueStyle = lipgloss.NewStyle()

	placeholderStyle = lipgloss.NewStyle().
				Foreground(colorDim)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	noticeStyle = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)
