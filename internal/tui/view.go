package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"gymtrack/internal/models"
	"gymtrack/internal/stats"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.state == StateAddSupp && m.form != nil {
		return m.form.View()
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("gymtrack"))
	b.WriteString("  ")
	b.WriteString(m.viewTabs())
	b.WriteString("\n\n")

	switch m.state {
	case StateDashboard:
		b.WriteString(m.viewDashboard())
	default:
		b.WriteString(m.viewCalendar())
	}

	b.WriteString("\n")
	if m.errText != "" {
		b.WriteString(errorStyle.Render(m.errText))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) viewTabs() string {
	tabs := []struct {
		label string
		state SessionState
	}{
		{"Calendar", StateCalendar},
		{"Dashboard", StateDashboard},
	}

	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t.state == m.state {
			parts = append(parts, activeTabStyle.Render(t.label))
		} else {
			parts = append(parts, inactiveTabStyle.Render(t.label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) viewCalendar() string {
	var b strings.Builder

	label := m.cursor.Label()
	if m.loading {
		label += "  (loading...)"
	}
	b.WriteString(titleStyle.Render(label))
	b.WriteString("\n\n")

	b.WriteString(m.viewHabitRows())
	b.WriteString("\n")
	b.WriteString(m.viewGrid())
	return b.String()
}

// viewHabitRows lists the habits with the month's marks inline, one row per
// habit. The selected (day, habit) cell is highlighted in the grid below.
func (m Model) viewHabitRows() string {
	var b strings.Builder
	for i, h := range m.habits {
		marker := "  "
		if i == m.habitIdx {
			marker = "> "
		}
		name := h.Name
		if h.Kind == models.HabitTraining {
			name = "Training"
		}
		line := fmt.Sprintf("%s%-20s %s", marker, name, m.habitSummary(h))
		if i == m.habitIdx {
			b.WriteString(selectedRowStyle.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) habitSummary(h models.Habit) string {
	yes, no := 0, 0
	for n := 1; n <= m.cursor.Days(); n++ {
		switch m.slice.Value(m.cursor.Day(n), h.ID) {
		case models.TriYes:
			yes++
		case models.TriNo:
			no++
		}
	}
	return fmt.Sprintf("%s %d  %s %d", yesStyle.Render("✓"), yes, noStyle.Render("✗"), no)
}

// viewGrid renders the month as a week grid for the selected habit.
func (m Model) viewGrid() string {
	var b strings.Builder

	b.WriteString("      Mo    Tu    We    Th    Fr    Sa    Su\n")

	first := time.Date(m.cursor.Year, m.cursor.Month, 1, 0, 0, 0, 0, time.Local)
	offset := (int(first.Weekday()) + 6) % 7 // Monday-based

	habit := m.selectedHabit()

	cells := make([]string, 0, 7)
	b.WriteString("    ")
	for i := 0; i < offset; i++ {
		cells = append(cells, dayStyle.Render(""))
	}
	for n := 1; n <= m.cursor.Days(); n++ {
		cells = append(cells, m.renderCell(n, habit))
		if len(cells) == 7 {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
			b.WriteString("\n    ")
			cells = cells[:0]
		}
	}
	if len(cells) > 0 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderCell(n int, habit models.Habit) string {
	day := m.cursor.Day(n)

	mark := "·"
	switch m.slice.Value(day, habit.ID) {
	case models.TriYes:
		mark = yesStyle.Render("✓")
	case models.TriNo:
		mark = noStyle.Render("✗")
	}
	if m.store.PendingFor(day, habit.ID) {
		mark = "…"
	}

	cell := fmt.Sprintf("%2d %s", n, mark)
	if n == m.day {
		return selectedDayStyle.Render("[" + cell + "]")
	}
	return dayStyle.Render(cell)
}

func (m Model) viewDashboard() string {
	d := stats.ComputeDashboard(m.slice, m.habits)

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.cursor.Label()))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  Trained days:       %d\n", d.TrainedDays))
	b.WriteString(fmt.Sprintf("  Supplements taken:  %d\n", d.SupplementsTakenTotal))
	b.WriteString(fmt.Sprintf("  Current streak:     %d\n", d.CurrentStreak))
	b.WriteString(fmt.Sprintf("  Best streak:        %d\n", d.BestStreak))
	return b.String()
}
