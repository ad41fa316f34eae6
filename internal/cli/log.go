package cli

import (
	"context"
	"errors"
	"fmt"

	"gymtrack/internal/api"
	"gymtrack/internal/models"
)

type LogCmd struct {
	Value string `arg:"" help:"yes or no."`
	Date  string `arg:"" optional:"" help:"Date (YYYY-MM-DD, 'today', 'yesterday')." default:"today"`
	Habit string `arg:"" optional:"" help:"Habit name or id (default: training)."`
}

func (c *LogCmd) Run(ctx *Context) error {
	if err := ctx.RequireAuth(); err != nil {
		return err
	}

	day, err := resolveDay(c.Date)
	if err != nil {
		return err
	}
	value, err := parseTriState(c.Value)
	if err != nil {
		return err
	}
	if value == models.TriUnset {
		return fmt.Errorf("a check-in can only be set to yes or no; the backend keeps no record for unset days")
	}

	bg := context.Background()
	list, err := ctx.Habits(bg)
	if err != nil {
		return err
	}
	habit, err := findHabit(list, c.Habit)
	if err != nil {
		return err
	}

	if err := ctx.Store.SetFact(bg, day, habit, value); err != nil {
		var pe *api.PersistenceError
		if errors.As(err, &pe) {
			return fmt.Errorf("check-in for %s was rolled back: %w", day, err)
		}
		if errors.Is(err, api.ErrUnauthorized) {
			ctx.InvalidateSession()
			return fmt.Errorf("session expired, run 'gymtrack login' again: %w", err)
		}
		return err
	}

	// Keep the offline cache in step with the confirmed write.
	cur := monthCursorOf(day)
	slice := ctx.Store.GetMonth(cur.Year, cur.Month)
	if err := ctx.Session.SaveMonthFacts(cur.String(), slice.Facts()); err != nil {
		fmt.Printf("warning: failed to update offline cache: %v\n", err)
	}

	fmt.Printf("Logged %s: %s = %s\n", day, habit.Name, value)
	return nil
}
