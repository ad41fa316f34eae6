package models

// TriState is the value of one (day, habit) adherence fact. Unset means no
// record exists; it is never stored remotely.
type TriState string

const (
	TriYes   TriState = "yes"
	TriNo    TriState = "no"
	TriUnset TriState = "unset"
)

// Valid reports whether t is one of the three known states.
func (t TriState) Valid() bool {
	return t == TriYes || t == TriNo || t == TriUnset
}
