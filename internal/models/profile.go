package models

// Profile holds the account's body stats, mutated only via an explicit save.
type Profile struct {
	HeightCm float64 `json:"height_cm"`
	WeightKg float64 `json:"weight_kg"`
	Biotype  string  `json:"biotype"`
	Goal     string  `json:"goal"`
}
