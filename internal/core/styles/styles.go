// Package styles provides shared lipgloss styles for CLI output.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	Success = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	Warning = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	Error   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	Muted   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	Bold    = lipgloss.NewStyle().Bold(true)
)
