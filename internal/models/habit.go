package models

// HabitKind separates the single implicit training habit from user-created
// supplement habits.
type HabitKind string

const (
	HabitTraining   HabitKind = "training"
	HabitSupplement HabitKind = "supplement"
)

// TrainingHabitID is the reserved id of the implicit training habit. The
// backend never issues it for a supplement, so it is safe as a sentinel.
const TrainingHabitID = "__training__"

// Habit is one trackable daily yes/no activity.
type Habit struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Kind HabitKind `json:"kind"`
}

// TrainingHabit returns the account's implicit training habit.
func TrainingHabit() Habit {
	return Habit{ID: TrainingHabitID, Name: "Training", Kind: HabitTraining}
}
