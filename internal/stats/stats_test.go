package stats

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"gymtrack/internal/adherence"
	"gymtrack/internal/api"
	"gymtrack/internal/models"
)

type staticInvoker struct{ payload string }

func (s *staticInvoker) Invoke(_ context.Context, op api.Operation, _ map[string]string) (json.RawMessage, error) {
	if op == api.OpMonthSuppCheckins {
		return nil, api.ErrUnsupported
	}
	return json.RawMessage(s.payload), nil
}

func monthSlice(t *testing.T, payload string) *adherence.Slice {
	t.Helper()
	store := adherence.NewStore(&staticInvoker{payload: payload})
	slice, err := store.Refresh(context.Background(), 2025, time.August)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	return slice
}

func habitSet() []models.Habit {
	return []models.Habit{
		models.TrainingHabit(),
		{ID: "creatine", Name: "creatine", Kind: models.HabitSupplement},
		{ID: "zinc", Name: "zinc", Kind: models.HabitSupplement},
	}
}

func TestComputeDashboardCounts(t *testing.T) {
	slice := monthSlice(t, `{
		"trained": {
			"2025-08-01": 1, "2025-08-02": 1, "2025-08-03": 0,
			"2025-08-04": 1, "2025-08-05": 1, "2025-08-06": 1,
			"2025-08-07": 0, "2025-08-08": 0
		},
		"supp": [
			{"day": "2025-08-01", "supplement_name": "creatine", "took": 1},
			{"day": "2025-08-01", "supplement_name": "zinc", "took": 1},
			{"day": "2025-08-02", "supplement_name": "creatine", "took": 0},
			{"day": "2025-08-03", "supplement_name": "creatine", "took": 1}
		]
	}`)

	d := ComputeDashboard(slice, habitSet())

	if d.TrainedDays != 5 {
		t.Errorf("TrainedDays = %d, want 5", d.TrainedDays)
	}
	if d.SupplementsTakenTotal != 3 {
		t.Errorf("SupplementsTakenTotal = %d, want 3", d.SupplementsTakenTotal)
	}
	if d.BestStreak != 3 {
		t.Errorf("BestStreak = %d, want 3", d.BestStreak)
	}
	// The month's last record is the explicit "no" on the 8th.
	if d.CurrentStreak != 0 {
		t.Errorf("CurrentStreak = %d, want 0", d.CurrentStreak)
	}
}

func TestStreaksIgnoreUnsetDays(t *testing.T) {
	// Trained the 1st, gap of unset days, trained the 5th and 6th. Unset days
	// neither extend nor break a run.
	slice := monthSlice(t, `{
		"trained": {"2025-08-01": 1, "2025-08-05": 1, "2025-08-06": 1}
	}`)

	d := ComputeDashboard(slice, habitSet())
	if d.BestStreak != 3 {
		t.Errorf("BestStreak = %d, want 3 (unset gaps do not reset)", d.BestStreak)
	}
	if d.CurrentStreak != 3 {
		t.Errorf("CurrentStreak = %d, want 3 (trailing unset days do not reset)", d.CurrentStreak)
	}
}

func TestStreakResetOnExplicitNo(t *testing.T) {
	slice := monthSlice(t, `{
		"trained": {"2025-08-01": 1, "2025-08-02": 1, "2025-08-03": 0, "2025-08-04": 1}
	}`)

	d := ComputeDashboard(slice, habitSet())
	if d.BestStreak != 2 {
		t.Errorf("BestStreak = %d, want 2", d.BestStreak)
	}
	if d.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1", d.CurrentStreak)
	}
}

func TestComputeDashboardIgnoresUnknownHabits(t *testing.T) {
	slice := monthSlice(t, `{
		"trained": {"2025-08-01": 1},
		"supp": [{"day": "2025-08-01", "supplement_name": "mystery", "took": 1}]
	}`)

	// "mystery" is not in the habit set; its facts do not count.
	d := ComputeDashboard(slice, habitSet())
	if d.SupplementsTakenTotal != 0 {
		t.Errorf("SupplementsTakenTotal = %d, want 0", d.SupplementsTakenTotal)
	}
}

func TestComputeDashboardEmptyMonth(t *testing.T) {
	slice := monthSlice(t, `{"trained": {}}`)

	d := ComputeDashboard(slice, habitSet())
	if d != (Dashboard{}) {
		t.Errorf("Dashboard = %+v, want zero", d)
	}
}
