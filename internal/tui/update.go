package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"gymtrack/internal/api"
	"gymtrack/internal/models"
	"gymtrack/internal/session"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case monthLoadedMsg:
		// A stale load from before a month switch must not clobber the view.
		if msg.cursor != m.cursor {
			return m, nil
		}
		m.loading = false
		m.slice = msg.slice
		if msg.err != nil {
			m.errText = offlineNotice(msg.err)
		} else {
			m.errText = ""
		}
		m.clampSelection()
		return m, nil

	case habitsLoadedMsg:
		if msg.err != nil {
			m.errText = offlineNotice(msg.err)
			m.habits = []models.Habit{models.TrainingHabit()}
		} else {
			m.habits = msg.list
		}
		m.clampSelection()
		return m, nil

	case factSavedMsg:
		m.slice = msg.slice
		if msg.err != nil {
			m.errText = saveNotice(msg.err)
		} else {
			m.errText = ""
			m.status = "saved"
		}
		return m, nil

	case suppChangedMsg:
		if msg.err != nil {
			m.errText = saveNotice(msg.err)
			return m, nil
		}
		m.habits = msg.list
		m.errText = ""
		m.status = "supplements updated"
		m.clampSelection()
		return m, nil
	}

	if m.state == StateAddSupp {
		return m.updateAddSupp(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		if m.state == StateCalendar {
			m.state = StateDashboard
		} else {
			m.state = StateCalendar
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		m.status = ""
		return m, m.loadMonthCmd()

	case key.Matches(msg, m.keys.PrevMonth):
		return m.moveMonth(-1)

	case key.Matches(msg, m.keys.NextMonth):
		return m.moveMonth(1)
	}

	if m.state != StateCalendar {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Left):
		m.day--
		m.clampSelection()
	case key.Matches(msg, m.keys.Right):
		m.day++
		m.clampSelection()
	case key.Matches(msg, m.keys.Up):
		m.habitIdx--
		m.clampSelection()
	case key.Matches(msg, m.keys.Down):
		m.habitIdx++
		m.clampSelection()

	case key.Matches(msg, m.keys.Toggle):
		habit := m.selectedHabit()
		day := m.cursor.Day(m.day)
		next := nextState(m.slice.Value(day, habit.ID))
		m.status = "saving..."
		return m, m.setFactCmd(day, habit, next)

	case key.Matches(msg, m.keys.Add):
		m.state = StateAddSupp
		m.suppName = ""
		m.form = newSuppForm(&m.suppName)
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Remove):
		habit := m.selectedHabit()
		if habit.Kind != models.HabitSupplement {
			m.errText = "the training habit cannot be removed"
			return m, nil
		}
		m.status = "removing " + habit.Name + "..."
		return m, m.removeSuppCmd(habit.ID)
	}
	return m, nil
}

func (m Model) moveMonth(delta int) (tea.Model, tea.Cmd) {
	m.cursor = m.cursor.Move(delta)
	m.slice = m.store.GetMonth(m.cursor.Year, m.cursor.Month)
	m.day = 1
	m.loading = true
	m.status = ""
	m.clampSelection()
	_ = m.session.Set(session.KeyLastMonth, m.cursor.String())
	return m, m.loadMonthCmd()
}

func (m Model) updateAddSupp(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		m.state = StateCalendar
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		name := strings.TrimSpace(m.suppName)
		m.state = StateCalendar
		m.form = nil
		if name == "" {
			return m, nil
		}
		m.status = "adding " + name + "..."
		return m, m.addSuppCmd(name)
	}
	return m, cmd
}

// nextState cycles the cell on toggle. Unset is a render-side notion, so the
// cycle lands only on the two persistable values: unset and no both advance
// to yes, yes advances to no.
func nextState(v models.TriState) models.TriState {
	if v == models.TriYes {
		return models.TriNo
	}
	return models.TriYes
}

func offlineNotice(err error) string {
	if errors.Is(err, api.ErrUnauthorized) {
		return "session expired, run 'gymtrack login' (showing cached data)"
	}
	return fmt.Sprintf("backend unavailable, showing cached data: %v", err)
}

func saveNotice(err error) string {
	var pe *api.PersistenceError
	if errors.As(err, &pe) {
		return fmt.Sprintf("save failed, change rolled back: %v", err)
	}
	if errors.Is(err, api.ErrUnsupported) {
		return "the backend has no endpoint for that operation"
	}
	return err.Error()
}
