package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gymtrack/internal/api"
	"gymtrack/internal/notifier"
	"gymtrack/internal/session"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false

	// Check 1: session database reachable
	if err := checkSessionDB(ctx); err != nil {
		fmt.Printf("❌ Session database: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Session database: OK\n")
	}

	// Check 2: backend reachable
	if err := checkBackendReachable(ctx); err != nil {
		fmt.Printf("❌ Backend reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Backend reachable: OK\n")
	}

	// Check 3: auth token valid (warning only; doctor works logged out)
	if err := checkAuth(ctx); err != nil {
		fmt.Printf("⚠ Auth token: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Auth token: OK\n")
	}

	// Check 4: no duplicate reminder process
	if err := notifier.EnsureSingleInstance(); err != nil {
		fmt.Printf("⚠ Single instance: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Single instance: OK\n")
	}

	// Check 5: clock sanity
	if err := checkClock(); err != nil {
		fmt.Printf("❌ Clock: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkSessionDB(ctx *Context) error {
	db := ctx.Session.DB()
	if db == nil {
		return fmt.Errorf("database connection is nil")
	}
	var result int
	if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkBackendReachable(ctx *Context) error {
	c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(c, http.MethodGet, ctx.Client.BaseURL()+"/api/me", nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable at %s: %w", ctx.Client.BaseURL(), err)
	}
	resp.Body.Close()
	// Any HTTP answer (even 401) proves the backend is up.
	return nil
}

func checkAuth(ctx *Context) error {
	token, err := ctx.Session.Get(session.KeyToken)
	if err != nil {
		return err
	}
	if token == "" {
		return fmt.Errorf("not logged in")
	}
	ctx.Client.SetToken(token)
	if err := ctx.Client.WhoAmI(context.Background()); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return fmt.Errorf("token is expired or invalid, run 'gymtrack login'")
		}
		return err
	}
	return nil
}

func checkClock() error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
