package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"gymtrack/internal/session"
)

type LoginCmd struct {
	Email    string `help:"Account email." short:"e"`
	Password string `help:"Account password (prompted when omitted)." short:"p"`
}

func (c *LoginCmd) Run(ctx *Context) error {
	email, password, err := credentials(c.Email, c.Password)
	if err != nil {
		return err
	}

	token, err := ctx.Client.Login(context.Background(), email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := ctx.Session.Set(session.KeyToken, token); err != nil {
		return fmt.Errorf("logged in, but failed to save session: %w", err)
	}

	fmt.Println("Logged in.")
	return nil
}

type RegisterCmd struct {
	Email    string `help:"Account email." short:"e"`
	Password string `help:"Account password (prompted when omitted)." short:"p"`
}

func (c *RegisterCmd) Run(ctx *Context) error {
	email, password, err := credentials(c.Email, c.Password)
	if err != nil {
		return err
	}

	token, err := ctx.Client.Register(context.Background(), email, password)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	if err := ctx.Session.Set(session.KeyToken, token); err != nil {
		return fmt.Errorf("account created, but failed to save session: %w", err)
	}

	fmt.Println("Account created and logged in.")
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *Context) error {
	if err := ctx.Session.Wipe(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	fmt.Println("Logged out.")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *Context) error {
	if err := ctx.RequireAuth(); err != nil {
		return err
	}

	if err := ctx.Client.WhoAmI(context.Background()); err != nil {
		ctx.InvalidateSession()
		return fmt.Errorf("session is no longer valid: %w", err)
	}

	fmt.Println("Session is valid.")
	return nil
}

// credentials fills missing fields interactively.
func credentials(email, password string) (string, string, error) {
	if email != "" && password != "" {
		return email, password, nil
	}

	fields := []huh.Field{}
	if email == "" {
		fields = append(fields, huh.NewInput().
			Title("Email").
			Value(&email))
	}
	if password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&password))
	}

	form := huh.NewForm(huh.NewGroup(fields...))
	if err := form.Run(); err != nil {
		return "", "", fmt.Errorf("prompt aborted: %w", err)
	}
	return email, password, nil
}
