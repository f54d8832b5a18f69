package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/siteops/dailyup/internal/domain"
	"github.com/siteops/dailyup/internal/theme"
)

// reportColumns are the preview columns shown for each row
var reportColumns = []struct {
	title string
	width int
}{
	{"", 4},
	{"#", 4},
	{"DATE", 12},
	{"PROGRESS", 9},
	{"TASKS", 6},
	{"PEOPLE", 7},
	{"MACHINES", 9},
	{"PROBLEMS", 9},
	{"WEATHER", 10},
}

// ReportTable renders one row set with a cursor and scrolling
type ReportTable struct {
	cursor int
	height int
	offset int
	rows   []domain.Report
	set    domain.RowSet
	width  int
}

// NewReportTable creates an empty table for set
func NewReportTable(set domain.RowSet) *ReportTable {
	return &ReportTable{set: set, height: 10}
}

// SetRows replaces the rows, keeping the cursor in range
func (t *ReportTable) SetRows(rows []domain.Report) {
	t.rows = rows
	t.clamp()
}

// SetSize sets the area available to the table, header included
func (t *ReportTable) SetSize(width, height int) {
	t.width = width
	t.height = max(height, 2)
	t.clamp()
}

// Cursor returns the index under the cursor, or -1 when empty
func (t *ReportTable) Cursor() int {
	if len(t.rows) == 0 {
		return -1
	}
	return t.cursor
}

// Current returns the report under the cursor
func (t *ReportTable) Current() (domain.Report, bool) {
	if len(t.rows) == 0 {
		return domain.Report{}, false
	}
	return t.rows[t.cursor], true
}

// Len returns the number of rows
func (t *ReportTable) Len() int {
	return len(t.rows)
}

// MoveUp moves the cursor one row up
func (t *ReportTable) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
	}
	t.clamp()
}

// MoveDown moves the cursor one row down
func (t *ReportTable) MoveDown() {
	if t.cursor < len(t.rows)-1 {
		t.cursor++
	}
	t.clamp()
}

func (t *ReportTable) visibleRows() int {
	return max(t.height-1, 1)
}

func (t *ReportTable) clamp() {
	if t.cursor >= len(t.rows) {
		t.cursor = max(len(t.rows)-1, 0)
	}
	visible := t.visibleRows()
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+visible {
		t.offset = t.cursor - visible + 1
	}
	t.offset = max(min(t.offset, len(t.rows)-visible), 0)
}

// View renders the header and the visible rows. isSelected reports the
// selection of pending rows and is ignored for the uploaded set.
func (t *ReportTable) View(isSelected func(int) bool) string {
	var b strings.Builder

	var header []string
	for _, col := range reportColumns {
		header = append(header, padCell(col.title, col.width))
	}
	b.WriteString(theme.TableHeaderStyle.Render(strings.Join(header, " ")))

	if len(t.rows) == 0 {
		b.WriteString("\n")
		if t.set == domain.RowSetPending {
			b.WriteString(theme.LabelStyle.Render("  No pending reports. Open a workbook to start."))
		} else {
			b.WriteString(theme.LabelStyle.Render("  Nothing uploaded yet."))
		}
		return b.String()
	}

	end := min(t.offset+t.visibleRows(), len(t.rows))
	for i := t.offset; i < end; i++ {
		b.WriteString("\n")
		b.WriteString(t.renderRow(i, isSelected))
	}
	return b.String()
}

func (t *ReportTable) renderRow(i int, isSelected func(int) bool) string {
	r := t.rows[i]

	mark := "[ ]"
	if t.set == domain.RowSetUploaded {
		mark = " ✓ "
	} else if isSelected != nil && isSelected(i) {
		mark = theme.SelectedMarkStyle.Render("[x]")
	}

	progress := r.OverallProgress.Label()
	cells := []string{
		padCell(mark, reportColumns[0].width),
		padCell(fmt.Sprintf("%d", i), reportColumns[1].width),
		padCell(r.ReportDate, reportColumns[2].width),
		theme.ProgressStyle(progress).Render(padCell(progress, reportColumns[3].width)),
		padCell(fmt.Sprintf("%d", len(r.TaskProgressList)), reportColumns[4].width),
		padCell(fmt.Sprintf("%d", r.OnSitePersonnelCount), reportColumns[5].width),
		padCell(fmt.Sprintf("%d", len(r.MachineryRentals)), reportColumns[6].width),
		padCell(fmt.Sprintf("%d", len(r.ProblemFeedbacks)), reportColumns[7].width),
		padCell(r.Weather, reportColumns[8].width),
	}
	line := strings.Join(cells, " ")

	if t.set == domain.RowSetUploaded {
		line = theme.UploadedRowStyle.Render(stripAnsi(line))
	}
	if i == t.cursor {
		line = theme.CursorRowStyle.Render(padCell(line, t.width))
	}
	return line
}

// padCell pads or truncates s to width display cells
func padCell(s string, width int) string {
	w := lipgloss.Width(s)
	if width <= 0 || w == width {
		return s
	}
	if w < width {
		return s + strings.Repeat(" ", width-w)
	}
	runes := []rune(stripAnsi(s))
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return padCell(string(runes)+"…", width)
}
