package cli

import (
	"context"
	"errors"
	"fmt"

	"gymtrack/internal/api"
	"gymtrack/internal/models"
)

type SuppAddCmd struct {
	Name string `arg:"" help:"Supplement name."`
}

func (c *SuppAddCmd) Run(ctx *Context) error {
	if err := ctx.RequireAuth(); err != nil {
		return err
	}

	habit, err := ctx.Registry.Add(context.Background(), c.Name)
	if err != nil {
		var conflict *api.ConflictError
		if errors.As(err, &conflict) {
			return fmt.Errorf("supplement already exists: %w", err)
		}
		return err
	}

	fmt.Printf("Added supplement %q\n", habit.Name)
	return nil
}

type SuppListCmd struct{}

func (c *SuppListCmd) Run(ctx *Context) error {
	if err := ctx.RequireAuth(); err != nil {
		return err
	}

	list, err := ctx.Habits(context.Background())
	if err != nil {
		return err
	}

	var count int
	for _, h := range list {
		if h.Kind != models.HabitSupplement {
			continue
		}
		count++
		if h.ID != h.Name {
			fmt.Printf("  %s (id %s)\n", h.Name, h.ID)
		} else {
			fmt.Printf("  %s\n", h.Name)
		}
	}
	if count == 0 {
		fmt.Println("No supplements yet. Add one with 'gymtrack supp add <name>'.")
	}
	return nil
}

type SuppRemoveCmd struct {
	ID string `arg:"" help:"Supplement name or id."`
}

func (c *SuppRemoveCmd) Run(ctx *Context) error {
	if err := ctx.RequireAuth(); err != nil {
		return err
	}

	bg := context.Background()
	list, err := ctx.Habits(bg)
	if err != nil {
		return err
	}
	habit, err := findHabit(list, c.ID)
	if err != nil {
		return err
	}

	if err := ctx.Registry.Remove(bg, habit.ID); err != nil {
		if errors.Is(err, api.ErrUnsupported) {
			return fmt.Errorf("this backend has no remove endpoint; the supplement was kept: %w", err)
		}
		return err
	}

	fmt.Printf("Removed supplement %q\n", habit.Name)
	return nil
}
