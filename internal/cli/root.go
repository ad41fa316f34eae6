package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gymtrack/internal/adherence"
	"gymtrack/internal/api"
	"gymtrack/internal/calendar"
	"gymtrack/internal/habits"
	"gymtrack/internal/models"
	"gymtrack/internal/session"
)

// Context carries the session-scoped state every command runs against. It is
// the explicit replacement for the globals (token, current month, cached
// lists) a browser client would keep at module level.
type Context struct {
	Session  *session.Store
	Client   *api.Client
	Store    *adherence.Store
	Registry *habits.Registry
}

// RequireAuth ensures a bearer token is present locally. It does not hit the
// network; commands that need a verified session follow up with WhoAmI.
func (c *Context) RequireAuth() error {
	token, err := c.Session.Get(session.KeyToken)
	if err != nil {
		return err
	}
	if token == "" {
		return fmt.Errorf("not logged in, run 'gymtrack login' first")
	}
	c.Client.SetToken(token)
	return nil
}

// InvalidateSession clears the local token after the backend rejected it.
func (c *Context) InvalidateSession() {
	if err := c.Session.Wipe(); err != nil {
		fmt.Printf("warning: failed to clear session: %v\n", err)
	}
}

// Cursor returns the last-viewed month, defaulting to the current one.
func (c *Context) Cursor() calendar.Cursor {
	raw, err := c.Session.Get(session.KeyLastMonth)
	if err != nil || raw == "" {
		return calendar.Now()
	}
	cur, err := calendar.Parse(raw)
	if err != nil {
		return calendar.Now()
	}
	return cur
}

// SaveCursor persists the last-viewed month for the next boot.
func (c *Context) SaveCursor(cur calendar.Cursor) {
	if err := c.Session.Set(session.KeyLastMonth, cur.String()); err != nil {
		fmt.Printf("warning: failed to save month cursor: %v\n", err)
	}
}

// LoadMonth hydrates the month from the offline cache, refreshes it from the
// backend, and writes the merged result back to the cache. On a network
// failure the cached slice is returned so the caller can still render.
func (c *Context) LoadMonth(ctx context.Context, cur calendar.Cursor) (*adherence.Slice, error) {
	if cached, err := c.Session.LoadMonthFacts(cur.String()); err == nil && len(cached) > 0 {
		c.Store.Hydrate(cur.Year, cur.Month, cached)
	}

	slice, err := c.Store.Refresh(ctx, cur.Year, cur.Month)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			c.InvalidateSession()
			return nil, fmt.Errorf("session expired, run 'gymtrack login' again: %w", err)
		}
		return c.Store.GetMonth(cur.Year, cur.Month), err
	}

	if err := c.Session.SaveMonthFacts(cur.String(), slice.Facts()); err != nil {
		fmt.Printf("warning: failed to update offline cache: %v\n", err)
	}
	return slice, nil
}

// Habits returns the habit list, surfacing auth failures like LoadMonth.
func (c *Context) Habits(ctx context.Context) ([]models.Habit, error) {
	list, err := c.Registry.List(ctx)
	if err != nil && errors.Is(err, api.ErrUnauthorized) {
		c.InvalidateSession()
		return nil, fmt.Errorf("session expired, run 'gymtrack login' again: %w", err)
	}
	return list, err
}

// monthCursorOf returns the cursor for the month containing day. The day has
// been validated by the time this is called.
func monthCursorOf(day string) calendar.Cursor {
	t, _ := time.Parse("2006-01-02", day)
	return calendar.Cursor{Year: t.Year(), Month: t.Month()}
}

// resolveDay parses a date argument, accepting "today" and "yesterday".
func resolveDay(arg string) (string, error) {
	switch arg {
	case "", "today":
		return time.Now().Format("2006-01-02"), nil
	case "yesterday":
		return time.Now().AddDate(0, 0, -1).Format("2006-01-02"), nil
	}
	t, err := time.Parse("2006-01-02", arg)
	if err != nil {
		return "", fmt.Errorf("invalid date format, use YYYY-MM-DD, 'today' or 'yesterday': %w", err)
	}
	return t.Format("2006-01-02"), nil
}

// parseTriState maps user input to a tri-state value.
func parseTriState(arg string) (models.TriState, error) {
	switch arg {
	case "yes", "y", "1", "true", "done":
		return models.TriYes, nil
	case "no", "n", "0", "false", "missed":
		return models.TriNo, nil
	case "unset", "clear":
		return models.TriUnset, nil
	}
	return "", fmt.Errorf("invalid value %q, use yes or no", arg)
}

// findHabit resolves a habit argument by id or (case-insensitive) name.
// "training" and "gym" alias the implicit training habit.
func findHabit(list []models.Habit, arg string) (models.Habit, error) {
	if arg == "" || arg == "training" || arg == "gym" {
		return models.TrainingHabit(), nil
	}
	for _, h := range list {
		if h.ID == arg || strings.EqualFold(h.Name, arg) {
			return h, nil
		}
	}
	return models.Habit{}, fmt.Errorf("no habit named %q; run 'gymtrack supp list'", arg)
}
