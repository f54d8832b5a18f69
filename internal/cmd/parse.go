package cmd

import (
	"context"

	"github.com/siteops/dailyup/internal/domain"
)

// ParseCmd parses a workbook and previews its rows
type ParseCmd struct {
	Detail *int   `help:"Show every section of the report at this row"`
	File   string `arg:"" help:"Report workbook (.xlsx, .xls) or JSON export" type:"existingfile"`
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the parse command
func (p *ParseCmd) Run(cli *CLI) error {
	batch := cli.Container.BatchService
	if _, err := batch.ParseDocument(context.Background(), p.File); err != nil {
		return err
	}

	if p.Detail != nil {
		report, err := batch.RowAt(domain.RowSetPending, *p.Detail)
		if err != nil {
			return err
		}
		if p.Format == "json" {
			return printJSON(report)
		}
		printReportDetail(report)
		return nil
	}

	if p.Format == "json" {
		return printJSON(batch.Pending())
	}
	printReportTable(batch.Pending())
	return nil
}
