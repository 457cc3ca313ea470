// Package report renders scorekeeping data for the terminal and for export.
package report

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/msomdec/minigolf-scorekeeper/internal/service"
)

// RenderStats formats a player's statistics as a styled terminal block.
func RenderStats(player string, st service.Stats) string {
	s := newStyles()
	lines := []string{
		s.title.Render("Mini-golf statistics"),
		s.header.Render("player: " + player),
	}

	if !st.HasData {
		lines = append(lines, s.empty.Render("No completed sessions found."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	summary := []string{
		row(s, "sessions", s.value.Render(strconv.Itoa(st.TotalSessions))),
		row(s, "best score", s.best.Render(strconv.Itoa(st.BestScore))),
		row(s, "worst score", s.worst.Render(strconv.Itoa(st.WorstScore))),
		row(s, "average score", s.value.Render(fmt.Sprintf("%.1f", st.AverageScore))),
		row(s, "average loops", s.value.Render(fmt.Sprintf("%.2f", st.AverageLoops))),
		row(s, "total loops", s.value.Render(strconv.Itoa(st.TotalLoops))),
	}
	lines = append(lines, s.block.Render(lipgloss.JoinVertical(lipgloss.Left, summary...)))

	if len(st.Holes) > 0 {
		lines = append(lines, s.block.Render(holeTable(s, st.Holes)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func row(s styles, label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, s.label.Render(label), value)
}

func holeTable(s styles, holes []service.HoleStats) string {
	rows := []string{
		lipgloss.JoinHorizontal(lipgloss.Top,
			s.header.Render(s.column.Render("hole")),
			s.header.Render(s.column.Render("avg (s)")),
			s.header.Render(s.column.Render("first (s)")),
		),
	}
	for _, h := range holes {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			s.column.Render(strconv.Itoa(h.HoleNumber)),
			s.column.Render(fmt.Sprintf("%.1f", h.AverageCompletionTime)),
			s.column.Render(fmt.Sprintf("%.1f", h.FastestCompletion)),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
