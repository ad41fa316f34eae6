package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"gymtrack/internal/adherence"
	"gymtrack/internal/calendar"
	"gymtrack/internal/habits"
	"gymtrack/internal/models"
	"gymtrack/internal/session"
)

type SessionState int

const (
	StateCalendar SessionState = iota
	StateDashboard
	StateAddSupp
)

// Model drives the interactive calendar. The adherence store is the single
// source of truth; every rendered cell comes from the latest slice snapshot,
// so optimistic writes and their rollbacks show up without extra bookkeeping.
type Model struct {
	session  *session.Store
	store    *adherence.Store
	registry *habits.Registry

	state SessionState
	keys  KeyMap
	help  help.Model

	cursor calendar.Cursor
	slice  *adherence.Slice
	habits []models.Habit

	day      int // 1-based day of month
	habitIdx int

	form     *huh.Form
	suppName string

	status   string
	errText  string
	loading  bool
	quitting bool
	width    int
}

func NewModel(sess *session.Store, store *adherence.Store, registry *habits.Registry, cur calendar.Cursor) Model {
	day := 1
	now := time.Now()
	if cur.Year == now.Year() && cur.Month == now.Month() {
		day = now.Day()
	}

	return Model{
		session:  sess,
		store:    store,
		registry: registry,
		state:    StateCalendar,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		cursor:   cur,
		slice:    store.GetMonth(cur.Year, cur.Month),
		day:      day,
		loading:  true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadHabitsCmd(), m.loadMonthCmd())
}

type monthLoadedMsg struct {
	cursor calendar.Cursor
	slice  *adherence.Slice
	err    error
}

type habitsLoadedMsg struct {
	list []models.Habit
	err  error
}

type factSavedMsg struct {
	slice *adherence.Slice
	err   error
}

type suppChangedMsg struct {
	list []models.Habit
	err  error
}

// loadMonthCmd mirrors the month-open path of the non-interactive commands:
// seed from the offline cache, refresh from the backend, write the merged
// result back. On failure the cached snapshot is still rendered.
func (m Model) loadMonthCmd() tea.Cmd {
	cur := m.cursor
	return func() tea.Msg {
		if cached, err := m.session.LoadMonthFacts(cur.String()); err == nil && len(cached) > 0 {
			m.store.Hydrate(cur.Year, cur.Month, cached)
		}

		slice, err := m.store.Refresh(context.Background(), cur.Year, cur.Month)
		if err != nil {
			return monthLoadedMsg{cursor: cur, slice: m.store.GetMonth(cur.Year, cur.Month), err: err}
		}
		_ = m.session.SaveMonthFacts(cur.String(), slice.Facts())
		return monthLoadedMsg{cursor: cur, slice: slice}
	}
}

func (m Model) loadHabitsCmd() tea.Cmd {
	return func() tea.Msg {
		list, err := m.registry.List(context.Background())
		return habitsLoadedMsg{list: list, err: err}
	}
}

func (m Model) setFactCmd(day string, habit models.Habit, v models.TriState) tea.Cmd {
	cur := m.cursor
	return func() tea.Msg {
		err := m.store.SetFact(context.Background(), day, habit, v)
		slice := m.store.GetMonth(cur.Year, cur.Month)
		if err == nil {
			_ = m.session.SaveMonthFacts(cur.String(), slice.Facts())
		}
		return factSavedMsg{slice: slice, err: err}
	}
}

func (m Model) addSuppCmd(name string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.registry.Add(context.Background(), name); err != nil {
			return suppChangedMsg{err: err}
		}
		list, err := m.registry.List(context.Background())
		return suppChangedMsg{list: list, err: err}
	}
}

func (m Model) removeSuppCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.registry.Remove(context.Background(), id); err != nil {
			return suppChangedMsg{err: err}
		}
		list, err := m.registry.List(context.Background())
		return suppChangedMsg{list: list, err: err}
	}
}

func (m Model) selectedHabit() models.Habit {
	if m.habitIdx >= 0 && m.habitIdx < len(m.habits) {
		return m.habits[m.habitIdx]
	}
	return models.TrainingHabit()
}

func (m *Model) clampSelection() {
	if days := m.cursor.Days(); m.day > days {
		m.day = days
	}
	if m.day < 1 {
		m.day = 1
	}
	if m.habitIdx >= len(m.habits) {
		m.habitIdx = len(m.habits) - 1
	}
	if m.habitIdx < 0 {
		m.habitIdx = 0
	}
}

func newSuppForm(name *string) *huh.Form {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Supplement name").
			Value(name),
	))
}
