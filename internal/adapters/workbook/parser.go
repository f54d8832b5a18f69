package workbook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/siteops/dailyup/internal/config"
	"github.com/siteops/dailyup/internal/domain"
	"github.com/siteops/dailyup/internal/logging"
	"github.com/siteops/dailyup/internal/ports"
)

// maxRows bounds how much of a sheet is read; the report layout ends at row 65
const maxRows = 200

// Parser reads daily report workbooks. Every worksheet is one report and
// its name is the report date.
type Parser struct{}

// Verify interface compliance at compile time
var _ ports.DocumentParser = (*Parser)(nil)

// NewParser creates a new Parser
func NewParser() *Parser {
	return &Parser{}
}

// sheet is one worksheet as a grid of trimmed cell strings
type sheet struct {
	name string
	rows [][]string
}

// Parse reads path (.xlsx, .xlsm, .xls or a .json export) into reports
func (p *Parser) Parse(ctx context.Context, path string) ([]domain.Report, error) {
	path = config.ExpandPath(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		return parseJSON(data)
	}

	var sheets []sheet
	switch ext {
	case ".xlsx", ".xlsm":
		sheets, err = readXLSX(ctx, data)
	case ".xls":
		sheets, err = readXLS(ctx, data)
	default:
		return nil, fmt.Errorf("unsupported file type %q (expected .xlsx, .xls or .json)", ext)
	}
	if err != nil {
		return nil, err
	}

	reports := make([]domain.Report, 0, len(sheets))
	for _, s := range sheets {
		if len(s.rows) == 0 {
			logging.Logger.Debug("Skipping empty worksheet", "sheet", s.name)
			continue
		}
		reports = append(reports, parseSheet(s))
	}

	logging.Logger.Info("Workbook parsed", "file", filepath.Base(path), "sheets", len(sheets), "reports", len(reports))
	return reports, nil
}

func readXLSX(ctx context.Context, data []byte) ([]sheet, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sheets []sheet
	for _, name := range file.GetSheetList() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := file.GetRows(name)
		if err != nil {
			logging.Logger.Warn("Failed to read worksheet", "sheet", name, "error", err)
			continue
		}
		if len(rows) > maxRows {
			rows = rows[:maxRows]
		}
		sheets = append(sheets, sheet{name: name, rows: rows})
	}
	return sheets, nil
}

func readXLS(ctx context.Context, data []byte) ([]sheet, error) {
	book, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}

	var sheets []sheet
	for i := 0; i < book.NumSheets(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ws := book.GetSheet(i)
		if ws == nil {
			continue
		}
		last := min(int(ws.MaxRow), maxRows-1)
		var rows [][]string
		for r := 0; r <= last; r++ {
			row := ws.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cells := make([]string, row.LastCol())
			for c := range cells {
				cells[c] = row.Col(c)
			}
			rows = append(rows, cells)
		}
		sheets = append(sheets, sheet{name: ws.Name, rows: trimTrailingEmpty(rows)})
	}
	return sheets, nil
}

// trimTrailingEmpty drops empty rows at the end so blank sheets read as empty
func trimTrailingEmpty(rows [][]string) [][]string {
	for len(rows) > 0 && isBlank(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	return rows
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseJSON reads a list of already parsed reports and fills derived fields
func parseJSON(data []byte) ([]domain.Report, error) {
	var reports []domain.Report
	if err := json.Unmarshal(data, &reports); err != nil {
		return nil, fmt.Errorf("invalid report file: %w", err)
	}
	for i := range reports {
		r := &reports[i]
		if r.OverallProgress == "" {
			r.OverallProgress = domain.ClassifyProgress(r.ProgressDescription)
		}
		if r.OnSitePersonnelCount == 0 {
			r.OnSitePersonnelCount = domain.CountPersonnel(r.WorkerReports)
		}
	}
	return reports, nil
}
