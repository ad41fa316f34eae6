package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"gymtrack/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *Context) error {
	if err := ctx.RequireAuth(); err != nil {
		return err
	}

	model := tui.NewModel(ctx.Session, ctx.Store, ctx.Registry, ctx.Cursor())
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
