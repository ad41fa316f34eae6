package stats

import (
	"gymtrack/internal/adherence"
	"gymtrack/internal/calendar"
	"gymtrack/internal/models"
)

// Dashboard holds the month's adherence counters. All values derive from the
// slice alone; computing them never touches the network.
type Dashboard struct {
	TrainedDays           int
	SupplementsTakenTotal int
	CurrentStreak         int
	BestStreak            int
}

// ComputeDashboard aggregates one month slice. TrainedDays counts days where
// training is yes; SupplementsTakenTotal counts every (day, supplement) fact
// that is yes. Unset facts contribute to neither.
func ComputeDashboard(slice *adherence.Slice, habits []models.Habit) Dashboard {
	var d Dashboard

	supplement := make(map[string]bool, len(habits))
	for _, h := range habits {
		if h.Kind == models.HabitSupplement {
			supplement[h.ID] = true
		}
	}

	for k, v := range slice.Facts() {
		if v != models.TriYes {
			continue
		}
		if k.HabitID == models.TrainingHabitID {
			d.TrainedDays++
		} else if supplement[k.HabitID] {
			d.SupplementsTakenTotal++
		}
	}

	d.CurrentStreak, d.BestStreak = trainingStreaks(slice)
	return d
}

// trainingStreaks walks the month day by day. Best is the longest run of
// trained days; current is the run ending at the last day with any training
// record, so trailing unset days (the future part of the month) don't reset
// it, but an explicit "no" does.
func trainingStreaks(slice *adherence.Slice) (current, best int) {
	c := calendar.Cursor{Year: slice.Year, Month: slice.Month}

	run := 0
	lastRecorded := 0
	for n := 1; n <= c.Days(); n++ {
		switch slice.Value(c.Day(n), models.TrainingHabitID) {
		case models.TriYes:
			run++
			lastRecorded = run
		case models.TriNo:
			run = 0
			lastRecorded = 0
		default:
			// Unset: the run neither grows nor resets.
		}
		if run > best {
			best = run
		}
	}
	return lastRecorded, best
}
