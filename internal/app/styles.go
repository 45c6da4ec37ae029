package app

import "github.com/charmbracelet/lipgloss"

var (
	previewPane = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).BorderForeground(lipgloss.Color("62"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	dirtyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("211"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
)
