package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
)

// HistoryCmd lists recent upload attempts
type HistoryCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
	Limit  int    `help:"Maximum number of entries (0 = all)" default:"20"`
}

// Run executes the history command
func (h *HistoryCmd) Run(cli *CLI) error {
	batches, err := cli.Container.BatchService.History(context.Background(), h.Limit)
	if err != nil {
		return err
	}

	if h.Format == "json" {
		return printJSON(batches)
	}

	if len(batches) == 0 {
		fmt.Println("No uploads yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tPROJECT\tTOTAL\tOK\tFAILED\tSKIPPED\tMOVED\tPOLICY\tRESULT")
	for _, b := range batches {
		result := "ok"
		if !b.Successful() {
			result = b.Error
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\t%s\n",
			humanize.Time(b.CreatedAt),
			orDash(b.ProjectName),
			b.Total,
			b.Succeeded,
			b.Failed,
			b.Skipped,
			b.Promoted,
			b.Policy,
			result,
		)
	}
	w.Flush()
	return nil
}
