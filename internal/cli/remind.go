package cli

import (
	"context"
	"fmt"
	"time"

	"gymtrack/internal/models"
	"gymtrack/internal/notifier"
)

type RemindCmd struct {
	At  string `help:"Daily reminder time (HH:MM)." default:"20:00"`
	Now bool   `help:"Run the check once and exit."`
}

func (c *RemindCmd) Run(ctx *Context) error {
	if err := ctx.RequireAuth(); err != nil {
		return err
	}

	check := func() (string, error) {
		today := time.Now().Format("2006-01-02")
		cur := monthCursorOf(today)

		slice, err := ctx.Store.Refresh(context.Background(), cur.Year, cur.Month)
		if err != nil {
			return "", err
		}
		if slice.Value(today, models.TrainingHabitID) == models.TriUnset {
			return fmt.Sprintf("No check-in for %s yet. Did you train today?", today), nil
		}
		return "", nil
	}

	r, err := notifier.New(c.At, check)
	if err != nil {
		return err
	}

	if c.Now {
		r.FireNow()
		return nil
	}

	if err := notifier.EnsureSingleInstance(); err != nil {
		return err
	}

	fmt.Printf("Reminder scheduled daily at %s. Press Ctrl+C to stop.\n", c.At)
	r.Start()
	defer r.Stop()
	select {}
}
