package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/siteops/dailyup/internal/domain"
)

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// printReportTable prints one line per report, in the order of the batch
func printReportTable(reports []domain.Report) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tDATE\tREPORTER\tPROGRESS\tTASKS\tPEOPLE\tMACHINES\tPROBLEMS\tWEATHER")
	for i, r := range reports {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			i,
			r.ReportDate,
			orDash(r.ReporterName),
			r.OverallProgress.Label(),
			len(r.TaskProgressList),
			r.OnSitePersonnelCount,
			len(r.MachineryRentals),
			len(r.ProblemFeedbacks),
			orDash(r.Weather),
		)
	}
	w.Flush()
}

func printReportDetail(r domain.Report) {
	fmt.Printf("Date: %s\n", r.ReportDate)
	fmt.Printf("Project: %s\n", r.ProjectName)
	fmt.Printf("Progress: %s (%s)\n", r.OverallProgress.Label(), orDash(r.ProgressDescription))
	fmt.Printf("On site: %d\n", r.OnSitePersonnelCount)

	section := func(title string, lines []string) {
		if len(lines) == 0 {
			return
		}
		fmt.Printf("\n%s:\n", title)
		for _, line := range lines {
			fmt.Printf("  %s\n", line)
		}
	}

	var lines []string
	for _, t := range r.TaskProgressList {
		lines = append(lines, fmt.Sprintf("%s %s  planned %s, actual %s", t.TaskNo, t.TaskName, orDash(t.PlannedProgress), orDash(t.ActualProgress)))
	}
	section("Tasks", lines)

	lines = nil
	for _, p := range r.TomorrowPlans {
		lines = append(lines, fmt.Sprintf("%s %s  %s", p.PlanNo, p.TaskName, p.Goal))
	}
	section("Tomorrow", lines)

	lines = nil
	for _, w := range r.WorkerReports {
		lines = append(lines, strings.TrimSpace(fmt.Sprintf("%s  %s %s", w.Name, w.JobType, w.WorkContent)))
	}
	section("Workers", lines)

	lines = nil
	for _, m := range r.MachineryRentals {
		lines = append(lines, fmt.Sprintf("%s x%s  %s", m.MachineName, orDash(m.Quantity), m.Usage))
	}
	section("Machinery", lines)

	lines = nil
	for _, p := range r.ProblemFeedbacks {
		lines = append(lines, fmt.Sprintf("%s %s", p.ProblemNo, p.Description))
	}
	section("Problems", lines)

	lines = nil
	for _, q := range r.Requirements {
		lines = append(lines, fmt.Sprintf("%s %s (%s)", q.RequirementNo, q.Description, orDash(q.UrgencyLevel)))
	}
	section("Requirements", lines)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
