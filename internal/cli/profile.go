package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"gymtrack/internal/models"
	"gymtrack/internal/reco"
)

type ProfileShowCmd struct{}

func (c *ProfileShowCmd) Run(ctx *Context) error {
	if err := ctx.RequireAuth(); err != nil {
		return err
	}

	p, err := ctx.Client.FetchProfile(context.Background())
	if err != nil {
		return err
	}

	if p.HeightCm == 0 && p.WeightKg == 0 {
		fmt.Println("No profile saved yet. Run 'gymtrack profile set'.")
		return nil
	}

	fmt.Printf("  Height:  %.0f cm\n", p.HeightCm)
	fmt.Printf("  Weight:  %.1f kg\n", p.WeightKg)
	if p.Biotype != "" {
		fmt.Printf("  Biotype: %s\n", p.Biotype)
	}
	if p.Goal != "" {
		fmt.Printf("  Goal:    %s\n", p.Goal)
	}
	return nil
}

type ProfileSetCmd struct {
	Height  float64 `help:"Height in cm."`
	Weight  float64 `help:"Weight in kg."`
	Biotype string  `help:"Biotype (ectomorph, mesomorph, endomorph)."`
	Goal    string  `help:"Goal (mass, cut, maintain)."`
}

func (c *ProfileSetCmd) Run(ctx *Context) error {
	if err := ctx.RequireAuth(); err != nil {
		return err
	}

	p := models.Profile{
		HeightCm: c.Height,
		WeightKg: c.Weight,
		Biotype:  c.Biotype,
		Goal:     c.Goal,
	}
	if p.HeightCm == 0 || p.WeightKg == 0 {
		var err error
		p, err = profileForm(p)
		if err != nil {
			return err
		}
	}

	if err := ctx.Client.SaveProfile(context.Background(), p); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	fmt.Println("Profile saved.")

	// The recommendation is derived locally; no need to trust the server echo.
	r, err := reco.Recommend(p.HeightCm, p.WeightKg, p.Biotype, p.Goal)
	if err == nil {
		printRecommendation(r)
	}
	return nil
}

type RecoCmd struct{}

func (c *RecoCmd) Run(ctx *Context) error {
	if err := ctx.RequireAuth(); err != nil {
		return err
	}

	p, err := ctx.Client.FetchProfile(context.Background())
	if err != nil {
		return err
	}

	r, err := reco.Recommend(p.HeightCm, p.WeightKg, p.Biotype, p.Goal)
	if err != nil {
		if errors.Is(err, reco.ErrIncompleteProfile) {
			return fmt.Errorf("profile incomplete, run 'gymtrack profile set' first")
		}
		return err
	}

	printRecommendation(r)
	return nil
}

func printRecommendation(r reco.Recommendation) {
	fmt.Printf("\n  BMI:     %.1f (%s)\n", r.BMI, r.Band)
	fmt.Printf("  Focus:   %s\n", r.Focus)
	fmt.Printf("  Split:   %s\n", r.Split)
	fmt.Printf("  Reps:    %s\n", r.Reps)
	fmt.Printf("  Cardio:  %s\n", r.Cardio)
	fmt.Printf("  Biotype: %s\n", r.BiotypeNote)
}

func profileForm(p models.Profile) (models.Profile, error) {
	height := formatOrEmpty(p.HeightCm)
	weight := formatOrEmpty(p.WeightKg)
	biotype := p.Biotype
	goal := p.Goal

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Height (cm)").
			Value(&height).
			Validate(validatePositive),
		huh.NewInput().
			Title("Weight (kg)").
			Value(&weight).
			Validate(validatePositive),
		huh.NewSelect[string]().
			Title("Biotype").
			Options(
				huh.NewOption("Ectomorph", "ectomorph"),
				huh.NewOption("Mesomorph", "mesomorph"),
				huh.NewOption("Endomorph", "endomorph"),
				huh.NewOption("Not sure", ""),
			).
			Value(&biotype),
		huh.NewSelect[string]().
			Title("Goal").
			Options(
				huh.NewOption("Build mass", "mass"),
				huh.NewOption("Cut / definition", "cut"),
				huh.NewOption("Maintain", "maintain"),
			).
			Value(&goal),
	))
	if err := form.Run(); err != nil {
		return models.Profile{}, fmt.Errorf("prompt aborted: %w", err)
	}

	h, _ := strconv.ParseFloat(height, 64)
	w, _ := strconv.ParseFloat(weight, 64)
	return models.Profile{HeightCm: h, WeightKg: w, Biotype: biotype, Goal: goal}, nil
}

func formatOrEmpty(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func validatePositive(s string) error {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}
