package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/siteops/dailyup/internal/domain"
	"github.com/siteops/dailyup/internal/theme"
)

// DetailPanel shows every section of one report in a scrollable viewport
type DetailPanel struct {
	Completed bool

	content     string
	initialized bool
	title       string
	viewport    viewport.Model
	width       int
}

// NewDetailPanel creates a panel for the report at index of set
func NewDetailPanel(report domain.Report, set domain.RowSet, index int) *DetailPanel {
	return &DetailPanel{
		content:  renderReportDetail(report),
		title:    fmt.Sprintf("%s report #%d, %s", set, index, report.ReportDate),
		viewport: viewport.New(0, 0),
	}
}

func (p *DetailPanel) Init() tea.Cmd {
	return nil
}

func (p *DetailPanel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		// header (4) + top line, title, bottom line (3) + footer (2)
		p.viewport.Width = max(msg.Width, 1)
		p.viewport.Height = max(msg.Height-9, 3)
		p.viewport.SetContent(p.content)
		p.initialized = true
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "enter", "q":
			p.Completed = true
			return p, nil
		}
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

func (p *DetailPanel) View() string {
	if !p.initialized {
		return ""
	}
	line := theme.DetailBorderStyle.Render(strings.Repeat("═", p.width))
	header := theme.DetailHeaderStyle.Render(p.title)
	footer := theme.HelpStyle.Render("esc/enter to close • ↑↓/PgUp/PgDn to scroll")
	return line + "\n" + header + "\n" + p.viewport.View() + "\n" + line + "\n" + footer
}

func renderReportDetail(r domain.Report) string {
	var b strings.Builder

	field := func(label, value string) {
		if strings.TrimSpace(value) == "" {
			value = "-"
		}
		b.WriteString(theme.LabelStyle.Render(padCell(label, 14)) + value + "\n")
	}
	section := func(title string, lines []string) {
		if len(lines) == 0 {
			return
		}
		b.WriteString("\n" + theme.DetailSectionStyle.Render(title) + "\n")
		for _, line := range lines {
			b.WriteString("  " + line + "\n")
		}
	}

	field("Project", r.ProjectName)
	field("Date", r.ReportDate)
	field("Reporter", r.ReporterName)
	field("Weather", strings.TrimSpace(r.Weather+" "+r.Temperature))
	field("Progress", theme.ProgressStyle(r.OverallProgress.Label()).Render(r.OverallProgress.Label()))
	field("Description", r.ProgressDescription)
	field("On site", fmt.Sprintf("%d", r.OnSitePersonnelCount))
	field("Remarks", r.Remarks)

	var lines []string
	for _, t := range r.TaskProgressList {
		line := fmt.Sprintf("%s %s  planned %s, actual %s", t.TaskNo, t.TaskName, t.PlannedProgress, t.ActualProgress)
		if t.DeviationReason != "" {
			line += "  (" + t.DeviationReason + ")"
		}
		lines = append(lines, line)
	}
	section("Today's tasks", lines)

	lines = nil
	for _, p := range r.TomorrowPlans {
		lines = append(lines, strings.TrimSpace(fmt.Sprintf("%s %s  %s  %s", p.PlanNo, p.TaskName, p.Goal, p.ResponsiblePerson)))
	}
	section("Tomorrow", lines)

	lines = nil
	for _, w := range r.WorkerReports {
		lines = append(lines, strings.TrimSpace(fmt.Sprintf("%s %s %s  %s  %s", w.SeqNo, w.Name, w.JobType, w.WorkContent, w.WorkHours)))
	}
	section("Workers", lines)

	lines = nil
	for _, m := range r.MachineryRentals {
		lines = append(lines, strings.TrimSpace(fmt.Sprintf("%s x%s %s  %s  %s", m.MachineName, m.Quantity, m.Tonnage, m.Shift, m.Usage)))
	}
	section("Machinery", lines)

	lines = nil
	for _, p := range r.ProblemFeedbacks {
		lines = append(lines, strings.TrimSpace(fmt.Sprintf("%s %s  %s", p.ProblemNo, p.Description, p.Progress)))
	}
	section("Problems", lines)

	lines = nil
	for _, q := range r.Requirements {
		lines = append(lines, strings.TrimSpace(fmt.Sprintf("%s %s  %s  %s", q.RequirementNo, q.Description, q.UrgencyLevel, q.ExpectedTime)))
	}
	section("Requirements", lines)

	return b.String()
}
