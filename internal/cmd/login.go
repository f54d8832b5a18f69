package cmd

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
)

// LoginCmd logs in to the report service
type LoginCmd struct {
	Password string `help:"Password (prompted when omitted)" env:"DAILYUP_PASSWORD"`
	Username string `arg:"" optional:"" help:"Username or phone number (defaults to the last one used)"`
}

// Run executes the login command
func (l *LoginCmd) Run(cli *CLI) error {
	ctx := context.Background()

	creds := credentials{password: l.Password, username: l.Username}
	if creds.username == "" {
		creds.username = cli.settings.Username
	}
	creds, err := promptCredentials(creds)
	if err != nil {
		return err
	}

	if err := cli.login(ctx, creds); err != nil {
		return err
	}

	session := cli.Container.SessionService.Session()
	fmt.Printf("Logged in as %s at %s\n", session.Identity.Name(), session.Endpoint)
	fmt.Printf("Session expires %s\n", humanize.Time(session.ExpiresAt))

	if project, err := cli.Container.SessionService.GetProject(ctx); err != nil {
		fmt.Printf("Project: unavailable (%v)\n", err)
	} else {
		fmt.Printf("Project: %s\n", project.Name)
	}

	if !cli.Remember {
		fmt.Println()
		fmt.Println("The session is kept in memory only and ends with this command.")
		fmt.Println("Use --remember (or insecure_persist_session in settings.json) to keep it between runs.")
	}
	return nil
}

// LogoutCmd ends the session
type LogoutCmd struct{}

// Run executes the logout command
func (l *LogoutCmd) Run(cli *CLI) error {
	ctx := context.Background()
	sessions := cli.Container.SessionService

	// A stored session that fails to refresh is already ended by Restore
	if err := sessions.Restore(ctx); err != nil {
		fmt.Printf("Stored session was no longer valid: %v\n", err)
	}
	if !sessions.Session().Active() {
		fmt.Println("Not logged in")
		return nil
	}

	name := sessions.Session().Identity.Name()
	sessions.Logout(ctx)
	fmt.Printf("Logged out %s\n", name)
	return nil
}

// RefreshCmd renews the access token
type RefreshCmd struct{}

// Run executes the refresh command
func (r *RefreshCmd) Run(cli *CLI) error {
	ctx := context.Background()
	if err := cli.requireSession(ctx, false); err != nil {
		return err
	}

	if _, err := cli.Container.SessionService.Refresh(ctx); err != nil {
		return err
	}

	session := cli.Container.SessionService.Session()
	fmt.Printf("Token renewed, session expires %s\n", humanize.Time(session.ExpiresAt))
	return nil
}
