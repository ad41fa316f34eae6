package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"gymtrack/internal/adherence"
	"gymtrack/internal/api"
	"gymtrack/internal/cli"
	"gymtrack/internal/habits"
	"gymtrack/internal/session"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Session database path." type:"path" default:"~/.config/gymtrack/gymtrack.db"`
	Server  string `help:"Backend base URL." env:"GYMTRACK_SERVER"`

	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive calendar." default:"1"`
	Login    cli.LoginCmd    `cmd:"" help:"Log in to the backend."`
	Register cli.RegisterCmd `cmd:"" help:"Create an account."`
	Logout   cli.LogoutCmd   `cmd:"" help:"Clear the local session."`
	Whoami   cli.WhoamiCmd   `cmd:"" help:"Verify the current session."`
	Log      cli.LogCmd      `cmd:"" help:"Record a check-in."`
	Supp     struct {
		Add    cli.SuppAddCmd    `cmd:"" help:"Add a supplement."`
		List   cli.SuppListCmd   `cmd:"" help:"List tracked habits."`
		Remove cli.SuppRemoveCmd `cmd:"" help:"Remove a supplement."`
	} `cmd:"" help:"Manage supplements."`
	Month   cli.MonthCmd `cmd:"" help:"Show a month of check-ins."`
	Dash    cli.DashCmd  `cmd:"" help:"Show the month's adherence counters."`
	Profile struct {
		Set  cli.ProfileSetCmd  `cmd:"" help:"Save height, weight, biotype and goal."`
		Show cli.ProfileShowCmd `cmd:"" help:"Show the saved profile."`
	} `cmd:"" help:"Manage the fitness profile."`
	Reco   cli.RecoCmd   `cmd:"" help:"Show the BMI-based recommendation."`
	Remind cli.RemindCmd `cmd:"" help:"Run the daily check-in reminder."`
	Doctor cli.DoctorCmd `cmd:"" help:"Run health checks."`
}

const defaultServer = "http://localhost:8000"

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("gymtrack"),
		kong.Description("Gym and supplement adherence tracker"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	sess, err := session.Open(CLI.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer sess.Close()

	// Flag wins over the saved setting; the flag value is remembered for the
	// next boot so --server only has to be passed once.
	base := CLI.Server
	if base == "" {
		if saved, err := sess.Get(session.KeyBaseURL); err == nil && saved != "" {
			base = saved
		} else {
			base = defaultServer
		}
	} else {
		_ = sess.Set(session.KeyBaseURL, base)
	}

	client := api.NewClient(base)
	if token, err := sess.Get(session.KeyToken); err == nil && token != "" {
		client.SetToken(token)
	}

	appCtx := &cli.Context{
		Session:  sess,
		Client:   client,
		Store:    adherence.NewStore(client),
		Registry: habits.NewRegistry(client),
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
