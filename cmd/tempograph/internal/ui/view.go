package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#6ea8fe"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#868e96"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f1f3f5"))

	playingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#69db7c"))

	pausedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffd43b"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5c636a"))
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("tempograph"))
	b.WriteString("  ")
	b.WriteString(labelStyle.Render(fmt.Sprintf("%d nodes / %d edges", m.status.Nodes, m.status.Edges)))
	if m.status.Sessions > 0 {
		b.WriteString(labelStyle.Render(fmt.Sprintf("  %d client(s)", m.status.Sessions)))
	}
	b.WriteString("\n\n")

	if m.status.Temporal {
		b.WriteString(m.viewTimeline())
		b.WriteString("\n")
	}

	b.WriteString(m.viewState())
	b.WriteString("\n")

	if m.searching {
		b.WriteString(labelStyle.Render("search: "))
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("space play/pause · ←/→ step · +/- zoom · 0 reset · t layout · f filter · / search · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewTimeline() string {
	var b strings.Builder

	w := m.status.Window
	d := m.status.Domain
	pct := 0.0
	if width := d.Width(); width > 0 {
		pct = (w.Time - d.Min) / width
	}

	state := pausedStyle.Render("⏸ paused")
	if m.status.Playing {
		state = playingStyle.Render("▶ playing")
	}
	b.WriteString(state)
	b.WriteString("  ")
	b.WriteString(m.progress.ViewAs(pct))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("window "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("[%s · %s · %s · %s]",
		formatTime(w.Past), formatTime(w.Time), formatTime(w.Aggregated), formatTime(w.Future))))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewState() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("layout "))
	b.WriteString(valueStyle.Render(string(m.status.Layout)))
	b.WriteString(labelStyle.Render("  filter "))
	b.WriteString(valueStyle.Render(m.status.Filter))
	if m.status.Search != "" {
		b.WriteString(labelStyle.Render("  search "))
		b.WriteString(valueStyle.Render(m.status.Search))
	}
	b.WriteString("\n")
	return b.String()
}

func formatTime(t float64) string {
	if t == float64(int64(t)) {
		return fmt.Sprintf("%d", int64(t))
	}
	return fmt.Sprintf("%.2f", t)
}
