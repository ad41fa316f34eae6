package reco

import (
	"errors"
	"strings"
)

// ErrIncompleteProfile is returned when height or weight is missing; the
// calculator never guesses.
var ErrIncompleteProfile = errors.New("height and weight are required for a recommendation")

// BMI bands, inclusive on the lower bound of each band.
const (
	BandUnderweight = "underweight"
	BandNormal      = "normal"
	BandOverweight  = "overweight"
	BandObese       = "obese"
)

// Recommendation is fixed textual guidance derived from body stats. Purely
// deterministic; no state, no network.
type Recommendation struct {
	BMI         float64
	Band        string
	Focus       string
	Split       string
	Reps        string
	Cardio      string
	BiotypeNote string
}

// Recommend computes BMI as kg/m², classifies it into four bands, and maps
// goal keywords and biotype to guidance blocks. Unrecognized biotypes get a
// generic note rather than an error; biotype matching is case-insensitive.
func Recommend(heightCm, weightKg float64, biotype, goal string) (Recommendation, error) {
	if heightCm <= 0 || weightKg <= 0 {
		return Recommendation{}, ErrIncompleteProfile
	}

	m := heightCm / 100.0
	bmi := weightKg / (m * m)

	r := Recommendation{BMI: bmi, Band: classify(bmi)}

	switch r.Band {
	case BandUnderweight:
		r.Focus = "Mass gain: caloric surplus plus progressive overload."
	case BandNormal:
		r.Focus = "Recomposition: maintenance or a slight surplus with consistent training."
	default:
		r.Focus = "Definition: slight deficit, heavy training, moderate cardio."
	}

	switch {
	case containsAny(goal, "hypertrophy", "mass", "bulk"):
		r.Split = "4-6x/week (Upper/Lower or Push/Pull/Legs) with load progression"
		r.Reps = "6-12 on main lifts, 12-20 on accessories"
		r.Cardio = "2x light per week, for health only"
	case containsAny(goal, "cut", "definition", "lean", "loss"):
		r.Split = "3-5x/week (Full body or Upper/Lower), consistency first"
		r.Reps = "8-15 at moderate volume"
		r.Cardio = "2-4x/week, 20-35min, plus daily steps"
	default:
		r.Split = "3-4x/week (Full body or Upper/Lower), perfect technique"
		r.Reps = "8-12 standard"
		r.Cardio = "2x light per week"
	}

	switch {
	case containsAny(biotype, "ecto"):
		r.BiotypeNote = "Eat enough and stick to heavy basics. Keep cardio low."
	case containsAny(biotype, "endo"):
		r.BiotypeNote = "Light-to-moderate deficit, daily steps, prioritize sleep."
	case containsAny(biotype, "meso"):
		r.BiotypeNote = "Responds well to volume and progression. Recovery sets the pace."
	default:
		r.BiotypeNote = "Biotype is a reference point. Consistency, progression and diet decide."
	}

	return r, nil
}

func classify(bmi float64) string {
	switch {
	case bmi < 18.5:
		return BandUnderweight
	case bmi < 25:
		return BandNormal
	case bmi < 30:
		return BandOverweight
	default:
		return BandObese
	}
}

func containsAny(s string, subs ...string) bool {
	s = strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
