package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/siteops/dailyup/internal/domain"
	"github.com/siteops/dailyup/internal/services"
)

// StatusCmd displays the current session
type StatusCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

type statusOutput struct {
	Claims       *services.TokenClaims `json:"claims,omitempty"`
	Endpoint     string                `json:"endpoint,omitempty"`
	ExpiresAt    *time.Time            `json:"expires_at,omitempty"`
	Identity     *domain.Identity      `json:"identity,omitempty"`
	LoggedIn     bool                  `json:"logged_in"`
	NeedsRefresh bool                  `json:"needs_refresh"`
	Persistent   bool                  `json:"persistent"`
	Token        string                `json:"token,omitempty"`
}

// Run executes the status command
func (s *StatusCmd) Run(cli *CLI) error {
	sessions := cli.Container.SessionService
	restoreErr := sessions.Restore(context.Background())

	out := statusOutput{Persistent: cli.Remember}
	if session := sessions.Session(); session.Active() {
		now := time.Now()
		out.Endpoint = session.Endpoint
		out.ExpiresAt = &session.ExpiresAt
		out.Identity = &session.Identity
		out.LoggedIn = true
		out.NeedsRefresh = session.NeedsRefresh(now)
		out.Token = domain.RedactToken(session.AccessToken)
		if claims, err := services.InspectToken(session.AccessToken); err == nil {
			out.Claims = claims
		}
	}

	if s.Format == "json" {
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if restoreErr != nil {
		fmt.Printf("Stored session ended: %v\n", restoreErr)
	}
	if !out.LoggedIn {
		fmt.Println("Not logged in")
		return nil
	}

	fmt.Printf("User: %s (%s, id %d)\n", out.Identity.Name(), out.Identity.Username, out.Identity.ID)
	fmt.Printf("Server: %s\n", out.Endpoint)
	fmt.Printf("Expires: %s (%s)\n", out.ExpiresAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(*out.ExpiresAt))
	fmt.Printf("Token: %s\n", out.Token)
	fmt.Printf("Persistent: %t\n", out.Persistent)
	if out.NeedsRefresh {
		fmt.Println("Renewal due: yes")
	}
	if out.Claims != nil {
		if out.Claims.Subject != "" {
			fmt.Printf("Token subject: %s\n", out.Claims.Subject)
		}
		if out.Claims.ExpiresAt != nil {
			fmt.Printf("Token exp claim: %s\n", humanize.Time(*out.Claims.ExpiresAt))
		}
	}
	return nil
}
