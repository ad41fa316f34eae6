package reco

import (
	"errors"
	"math"
	"testing"
)

func TestRecommendBands(t *testing.T) {
	tests := []struct {
		name     string
		heightCm float64
		weightKg float64
		wantBMI  float64
		wantBand string
	}{
		{"underweight", 180, 58.32, 18.0, BandUnderweight},
		{"just below normal cutoff", 180, 59.9, 18.49, BandUnderweight},
		{"normal", 180, 60.03, 18.53, BandNormal},
		{"overweight", 180, 82.0, 25.31, BandOverweight},
		{"obese", 180, 100.0, 30.86, BandObese},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Recommend(tt.heightCm, tt.weightKg, "", "")
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if math.Abs(r.BMI-tt.wantBMI) > 0.01 {
				t.Errorf("BMI = %.2f, want %.2f", r.BMI, tt.wantBMI)
			}
			if r.Band != tt.wantBand {
				t.Errorf("Band = %q, want %q", r.Band, tt.wantBand)
			}
		})
	}
}

func TestRecommendIncompleteProfile(t *testing.T) {
	for _, tt := range []struct{ h, w float64 }{{0, 70}, {180, 0}, {0, 0}, {-170, 70}} {
		if _, err := Recommend(tt.h, tt.w, "", ""); !errors.Is(err, ErrIncompleteProfile) {
			t.Errorf("Recommend(%v, %v) error = %v, want ErrIncompleteProfile", tt.h, tt.w, err)
		}
	}
}

func TestRecommendGoalKeywords(t *testing.T) {
	mass, err := Recommend(180, 75, "", "build mass")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	cut, err := Recommend(180, 75, "", "cut / definition")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	plain, err := Recommend(180, 75, "", "stay healthy")
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	if mass.Split == cut.Split {
		t.Error("mass and cut goals produced the same split")
	}
	if plain.Split == mass.Split || plain.Split == cut.Split {
		t.Error("unrecognized goal should fall back to the generic split")
	}
}

func TestRecommendBiotypeMatching(t *testing.T) {
	ecto, _ := Recommend(180, 75, "Ectomorph", "")
	ectoLower, _ := Recommend(180, 75, "ectomorph", "")
	if ecto.BiotypeNote != ectoLower.BiotypeNote {
		t.Error("biotype matching should be case-insensitive")
	}

	generic, _ := Recommend(180, 75, "unknown-type", "")
	if generic.BiotypeNote == ecto.BiotypeNote {
		t.Error("unrecognized biotype should get the generic note")
	}

	empty, _ := Recommend(180, 75, "", "")
	if empty.BiotypeNote != generic.BiotypeNote {
		t.Error("empty biotype should get the generic note")
	}
}

func TestRecommendDeterministic(t *testing.T) {
	a, _ := Recommend(172.5, 68.4, "mesomorph", "hypertrophy")
	b, _ := Recommend(172.5, 68.4, "mesomorph", "hypertrophy")
	if a != b {
		t.Error("identical inputs must produce identical recommendations")
	}
}
