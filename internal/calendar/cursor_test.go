package calendar

import (
	"testing"
	"time"
)

func TestMoveWrapsYears(t *testing.T) {
	tests := []struct {
		name  string
		start Cursor
		delta int
		want  Cursor
	}{
		{"back across new year", Cursor{2025, time.January}, -1, Cursor{2024, time.December}},
		{"forward across new year", Cursor{2025, time.December}, 1, Cursor{2026, time.January}},
		{"within a year", Cursor{2025, time.June}, 2, Cursor{2025, time.August}},
		{"a full year back", Cursor{2025, time.March}, -12, Cursor{2024, time.March}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.start.Move(tt.delta); got != tt.want {
				t.Errorf("Move(%d) = %v, want %v", tt.delta, got, tt.want)
			}
		})
	}
}

func TestDays(t *testing.T) {
	tests := []struct {
		c    Cursor
		want int
	}{
		{Cursor{2025, time.February}, 28},
		{Cursor{2024, time.February}, 29},
		{Cursor{2025, time.August}, 31},
		{Cursor{2025, time.April}, 30},
	}
	for _, tt := range tests {
		if got := tt.c.Days(); got != tt.want {
			t.Errorf("%v.Days() = %d, want %d", tt.c, got, tt.want)
		}
	}
}

func TestFormatting(t *testing.T) {
	c := Cursor{2025, time.August}
	if got := c.String(); got != "2025-08" {
		t.Errorf("String() = %q", got)
	}
	if got := c.Day(3); got != "2025-08-03" {
		t.Errorf("Day(3) = %q", got)
	}
	if got := c.Label(); got != "August 2025" {
		t.Errorf("Label() = %q", got)
	}
}

func TestParse(t *testing.T) {
	c, err := Parse("2025-08")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if c != (Cursor{2025, time.August}) {
		t.Errorf("Parse() = %v", c)
	}

	if _, err := Parse("August 2025"); err == nil {
		t.Error("Parse() accepted a non-YYYY-MM string")
	}
}
