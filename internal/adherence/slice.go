package adherence

import (
	"fmt"
	"time"

	"gymtrack/internal/models"
)

// Key addresses one adherence fact: a calendar day (YYYY-MM-DD) and a habit.
type Key struct {
	Day     string
	HabitID string
}

// MonthKey identifies one cached month.
type MonthKey struct {
	Year  int
	Month time.Month
}

func (mk MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", mk.Year, int(mk.Month))
}

// Slice is a point-in-time snapshot of one month's adherence facts. Snapshots
// are detached copies; mutating the store never changes a slice already handed
// out.
type Slice struct {
	Year  int
	Month time.Month
	facts map[Key]models.TriState
}

// Value returns the fact for (day, habitID), or TriUnset when no record
// exists.
func (s *Slice) Value(day, habitID string) models.TriState {
	if v, ok := s.facts[Key{Day: day, HabitID: habitID}]; ok {
		return v
	}
	return models.TriUnset
}

// Facts returns a copy of every recorded fact in the slice. Unset keys are
// absent by definition.
func (s *Slice) Facts() map[Key]models.TriState {
	out := make(map[Key]models.TriState, len(s.facts))
	for k, v := range s.facts {
		out[k] = v
	}
	return out
}

// Len reports the number of recorded (non-unset) facts.
func (s *Slice) Len() int { return len(s.facts) }
