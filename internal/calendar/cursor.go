package calendar

import (
	"fmt"
	"time"
)

// Cursor is the currently viewed (year, month) pair.
type Cursor struct {
	Year  int
	Month time.Month
}

// Now returns a cursor on the current month.
func Now() Cursor {
	t := time.Now()
	return Cursor{Year: t.Year(), Month: t.Month()}
}

// Move returns the cursor shifted by delta months, wrapping across year
// boundaries in both directions.
func (c Cursor) Move(delta int) Cursor {
	t := time.Date(c.Year, c.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	return Cursor{Year: t.Year(), Month: t.Month()}
}

// Days reports how many days the cursor's month has.
func (c Cursor) Days() int {
	return time.Date(c.Year, c.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Day returns the YYYY-MM-DD string for the n-th day of the month (1-based).
func (c Cursor) Day(n int) string {
	return fmt.Sprintf("%04d-%02d-%02d", c.Year, int(c.Month), n)
}

// String formats the cursor as YYYY-MM, the month key the backend filters by.
func (c Cursor) String() string {
	return fmt.Sprintf("%04d-%02d", c.Year, int(c.Month))
}

// Label formats the cursor for display, e.g. "August 2025".
func (c Cursor) Label() string {
	return fmt.Sprintf("%s %d", c.Month.String(), c.Year)
}

// Parse reads a YYYY-MM string back into a cursor.
func Parse(s string) (Cursor, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid month format, use YYYY-MM: %w", err)
	}
	return Cursor{Year: t.Year(), Month: t.Month()}, nil
}
