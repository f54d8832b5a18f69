package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/huh"
	"golang.org/x/sync/errgroup"

	"github.com/siteops/dailyup/internal/domain"
	"github.com/siteops/dailyup/internal/logging"
)

// UploadCmd parses a workbook and uploads the chosen reports
type UploadCmd struct {
	All       bool   `help:"Upload every parsed report"`
	File      string `arg:"" help:"Report workbook (.xlsx, .xls) or JSON export" type:"existingfile"`
	Overwrite bool   `help:"Overwrite reports that already exist on the server"`
	Rows      []int  `help:"Row numbers to upload, as shown by 'dailyup parse'" sep:","`
}

// Run executes the upload command
func (u *UploadCmd) Run(cli *CLI) error {
	ctx := context.Background()

	if !u.Overwrite && cli.settings.OverwriteDefault != nil {
		u.Overwrite = *cli.settings.OverwriteDefault
	}

	// Parsing and the session/project lookup are independent
	var reports []domain.Report
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		parsed, err := cli.Container.Parser.Parse(gctx, u.File)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrParse, err)
		}
		if len(parsed) == 0 {
			return domain.ErrNoReports
		}
		reports = parsed
		return nil
	})
	g.Go(func() error {
		if err := cli.requireSession(gctx, true); err != nil {
			return err
		}
		_, err := cli.Container.SessionService.GetProject(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	batch := cli.Container.BatchService
	batch.LoadParsedReports(reports)

	switch {
	case u.All:
		batch.SelectAll()
	case len(u.Rows) > 0:
		for _, row := range u.Rows {
			if row < 0 || row >= len(reports) {
				return fmt.Errorf("%w: row %d (have %d rows)", domain.ErrIndex, row, len(reports))
			}
			if !batch.IsSelected(row) {
				batch.Toggle(row)
			}
		}
	default:
		rows, err := chooseRows(batch.Pending())
		if err != nil {
			return err
		}
		for _, row := range rows {
			batch.Toggle(row)
		}
	}

	logging.Logger.Info("Uploading from CLI", "file", u.File, "selected", len(batch.Selection()), "overwrite", u.Overwrite)

	outcome, err := batch.Upload(ctx, u.Overwrite)
	if err != nil {
		return err
	}
	printOutcome(outcome)
	return nil
}

// chooseRows lets the user pick reports interactively
func chooseRows(reports []domain.Report) ([]int, error) {
	options := make([]huh.Option[int], len(reports))
	for i, r := range reports {
		label := fmt.Sprintf("%s  %s  %d people", r.ReportDate, r.OverallProgress.Label(), r.OnSitePersonnelCount)
		options[i] = huh.NewOption(label, i)
	}

	var selected []int
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[int]().
				Title("Reports to upload").
				Options(options...).
				Value(&selected).
				Validate(func(v []int) error {
					if len(v) == 0 {
						return errors.New("select at least one report")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("selection cancelled: %w", err)
	}
	return selected, nil
}

func printOutcome(outcome domain.UploadOutcome) {
	fmt.Printf("Uploaded %d of %d reports (%d failed, %d skipped)\n",
		outcome.Succeeded, outcome.Total, outcome.Failed, outcome.Skipped)
	if len(outcome.Results) == 0 {
		return
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tDATE\tRESULT\tMESSAGE")
	for _, r := range outcome.Results {
		result := "ok"
		if !r.Success {
			result = "failed"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.Position, r.ReportDate, result, orDash(r.Message))
	}
	w.Flush()
}
