package report

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title  lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	best   lipgloss.Style
	worst  lipgloss.Style
	column lipgloss.Style
	empty  lipgloss.Style
	block  lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:  lipgloss.NewStyle().Bold(true),
		header: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		label:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Width(16),
		value:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		best:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("78")),
		worst:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		column: lipgloss.NewStyle().Width(12).Align(lipgloss.Right),
		empty:  lipgloss.NewStyle().Faint(true),
		block:  lipgloss.NewStyle().MarginTop(1),
	}
}
