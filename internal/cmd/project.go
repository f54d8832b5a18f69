package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
)

// ProjectCmd shows the project assigned to the logged-in user
type ProjectCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the project command
func (p *ProjectCmd) Run(cli *CLI) error {
	ctx := context.Background()
	if err := cli.requireSession(ctx, false); err != nil {
		return err
	}

	project, err := cli.Container.SessionService.GetProject(ctx)
	if err != nil {
		return err
	}

	if p.Format == "json" {
		data, err := json.MarshalIndent(project, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("Project: %s (id %d)\n", project.Name, project.ID)
	if project.TypeName != "" {
		fmt.Printf("Type: %s\n", project.TypeName)
	}
	if project.StatusName != "" {
		fmt.Printf("Status: %s\n", project.StatusName)
	}
	if project.Manager != "" {
		fmt.Printf("Manager: %s\n", project.Manager)
	}
	if project.CompletionProgress != nil {
		fmt.Printf("Completion: %s%%\n", humanize.FtoaWithDigits(*project.CompletionProgress, 1))
	}
	if project.EstimatedSaltAmount != nil {
		fmt.Printf("Estimated salt: %s t\n", humanize.Commaf(*project.EstimatedSaltAmount))
	}
	if project.ActualSaltAmount != nil {
		fmt.Printf("Actual salt: %s t\n", humanize.Commaf(*project.ActualSaltAmount))
	}
	return nil
}
