package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/siteops/dailyup/internal/config"
	"github.com/siteops/dailyup/internal/logging"
)

var errNotLoggedIn = errors.New("not logged in: run `dailyup --remember login` first")

// credentials collected from flags or the interactive prompt
type credentials struct {
	password string
	username string
}

// promptCredentials asks for whatever is missing from creds
func promptCredentials(creds credentials) (credentials, error) {
	if creds.username != "" && creds.password != "" {
		return creds, nil
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Description("Username or phone number").
				Value(&creds.username).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("username is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&creds.password),
		),
	)
	if err := form.Run(); err != nil {
		return credentials{}, fmt.Errorf("login cancelled: %w", err)
	}
	return creds, nil
}

// login authenticates and remembers the server and username for next time
func (c *CLI) login(ctx context.Context, creds credentials) error {
	session, err := c.Container.SessionService.Login(ctx, creds.username, creds.password, c.endpoint())
	if err != nil {
		return err
	}
	if err := config.RememberLogin(session.Endpoint, session.Identity.Username); err != nil {
		logging.Logger.Warn("Failed to remember login", "error", err)
	}
	return nil
}

// requireSession restores the stored session. When none is stored and
// prompt is set, the user is asked to log in.
func (c *CLI) requireSession(ctx context.Context, prompt bool) error {
	sessions := c.Container.SessionService
	if err := sessions.Restore(ctx); err != nil {
		return err
	}
	if sessions.Session().Active() {
		return nil
	}
	if !prompt {
		return errNotLoggedIn
	}

	creds, err := promptCredentials(credentials{username: c.settings.Username})
	if err != nil {
		return err
	}
	return c.login(ctx, creds)
}
