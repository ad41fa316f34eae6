package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gymtrack/internal/models"
)

// Login exchanges credentials for a bearer token and attaches it to the
// client. Deployments disagree on form vs JSON login bodies, so the shape is
// resolved like any other operation.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if password == "" {
		return "", &ValidationError{Field: "password", Reason: "must not be empty"}
	}

	payload, err := c.Invoke(ctx, OpLogin, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}

	token, err := decodeToken(payload)
	if err != nil {
		return "", err
	}
	c.SetToken(token)
	return token, nil
}

// Register creates an account and returns the issued token. The backend logs
// the new account in directly.
func (c *Client) Register(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if len(password) < 4 {
		return "", &ValidationError{Field: "password", Reason: "must be at least 4 characters"}
	}

	payload, err := c.Invoke(ctx, OpRegister, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}

	token, err := decodeToken(payload)
	if err != nil {
		return "", err
	}
	c.SetToken(token)
	return token, nil
}

func decodeToken(payload json.RawMessage) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(payload, &resp); err != nil {
		return "", &TransientError{Err: fmt.Errorf("malformed login response: %w", err)}
	}
	if resp.Token == "" {
		return "", &TransientError{Err: fmt.Errorf("login response carried no token")}
	}
	return resp.Token, nil
}

// WhoAmI validates the current token. A nil error means the session is live.
func (c *Client) WhoAmI(ctx context.Context) error {
	_, err := c.Invoke(ctx, OpWhoAmI, nil)
	return err
}

// FetchProfile reads the stored profile. A backend with no saved profile
// returns an empty object, which maps to the zero Profile.
func (c *Client) FetchProfile(ctx context.Context) (models.Profile, error) {
	payload, err := c.Invoke(ctx, OpGetProfile, nil)
	if err != nil {
		return models.Profile{}, err
	}

	var raw struct {
		HeightCm *float64 `json:"height_cm"`
		WeightKg *float64 `json:"weight_kg"`
		Height   *float64 `json:"height"`
		Weight   *float64 `json:"weight"`
		Biotype  string   `json:"biotype"`
		Goal     string   `json:"goal"`
	}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return models.Profile{}, &TransientError{Err: fmt.Errorf("malformed profile response: %w", err)}
	}

	p := models.Profile{Biotype: raw.Biotype, Goal: raw.Goal}
	switch {
	case raw.HeightCm != nil:
		p.HeightCm = *raw.HeightCm
	case raw.Height != nil:
		p.HeightCm = *raw.Height
	}
	switch {
	case raw.WeightKg != nil:
		p.WeightKg = *raw.WeightKg
	case raw.Weight != nil:
		p.WeightKg = *raw.Weight
	}
	return p, nil
}

// SaveProfile persists the profile. Validation happens locally so an
// incomplete profile never reaches the network.
func (c *Client) SaveProfile(ctx context.Context, p models.Profile) error {
	if p.HeightCm <= 0 {
		return &ValidationError{Field: "height", Reason: "must be positive"}
	}
	if p.WeightKg <= 0 {
		return &ValidationError{Field: "weight", Reason: "must be positive"}
	}

	_, err := c.Invoke(ctx, OpSaveProfile, map[string]string{
		"height_cm": strconv.FormatFloat(p.HeightCm, 'f', -1, 64),
		"weight_kg": strconv.FormatFloat(p.WeightKg, 'f', -1, 64),
		"biotype":   p.Biotype,
		"goal":      p.Goal,
	})
	return err
}
