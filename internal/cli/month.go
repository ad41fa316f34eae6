package cli

import (
	"context"
	"fmt"
	"strings"

	"gymtrack/internal/adherence"
	"gymtrack/internal/calendar"
	"gymtrack/internal/models"
	"gymtrack/internal/stats"
)

type MonthCmd struct {
	Month string `arg:"" optional:"" help:"Month to show (YYYY-MM, default: last viewed)."`
	Prev  bool   `help:"Move one month back." xor:"nav"`
	Next  bool   `help:"Move one month forward." xor:"nav"`
}

func (c *MonthCmd) Run(ctx *Context) error {
	if err := ctx.RequireAuth(); err != nil {
		return err
	}

	cur := ctx.Cursor()
	switch {
	case c.Month != "":
		parsed, err := calendar.Parse(c.Month)
		if err != nil {
			return err
		}
		cur = parsed
	case c.Prev:
		cur = cur.Move(-1)
	case c.Next:
		cur = cur.Move(+1)
	}
	ctx.SaveCursor(cur)

	bg := context.Background()
	list, err := ctx.Habits(bg)
	if err != nil {
		return err
	}

	slice, err := ctx.LoadMonth(bg, cur)
	if err != nil {
		// Render the cached slice anyway; the user sees stale but real data.
		fmt.Printf("warning: refresh failed, showing cached data: %v\n", err)
		if slice == nil {
			return err
		}
	}

	printMonth(cur, slice, list)
	return nil
}

func printMonth(cur calendar.Cursor, slice *adherence.Slice, list []models.Habit) {
	fmt.Printf("%s\n\n", cur.Label())

	for n := 1; n <= cur.Days(); n++ {
		day := cur.Day(n)
		var tags []string

		switch slice.Value(day, models.TrainingHabitID) {
		case models.TriYes:
			tags = append(tags, "training ✓")
		case models.TriNo:
			tags = append(tags, "training ✗")
		}

		for _, h := range list {
			if h.Kind != models.HabitSupplement {
				continue
			}
			switch slice.Value(day, h.ID) {
			case models.TriYes:
				tags = append(tags, h.Name+" ✓")
			case models.TriNo:
				tags = append(tags, h.Name+" ✗")
			}
		}

		if len(tags) == 0 {
			continue
		}
		fmt.Printf("  %s  %s\n", day, strings.Join(tags, ", "))
	}
}

type DashCmd struct{}

func (c *DashCmd) Run(ctx *Context) error {
	if err := ctx.RequireAuth(); err != nil {
		return err
	}

	cur := ctx.Cursor()
	bg := context.Background()

	list, err := ctx.Habits(bg)
	if err != nil {
		return err
	}

	slice, err := ctx.LoadMonth(bg, cur)
	if err != nil {
		fmt.Printf("warning: refresh failed, showing cached data: %v\n", err)
		if slice == nil {
			return err
		}
	}

	d := stats.ComputeDashboard(slice, list)

	fmt.Printf("%s\n\n", cur.Label())
	fmt.Printf("  Sessions trained:   %d\n", d.TrainedDays)
	fmt.Printf("  Supplements taken:  %d\n", d.SupplementsTakenTotal)
	fmt.Printf("  Current streak:     %d day(s)\n", d.CurrentStreak)
	fmt.Printf("  Best streak:        %d day(s)\n", d.BestStreak)
	return nil
}
