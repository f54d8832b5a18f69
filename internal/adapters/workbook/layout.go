package workbook

import (
	"strings"

	"github.com/siteops/dailyup/internal/domain"
)

// Fixed daily report layout, 1-based rows and columns
const (
	titleSuffix = "项目工作日报"

	progressRow = 3
	progressCol = 5

	taskFirstRow, taskLastRow           = 6, 20
	workerFirstRow, workerLastRow       = 23, 38
	machineryFirstRow, machineryLastRow = 41, 45
	feedbackFirstRow, feedbackLastRow   = 48, 65
)

// cell returns the trimmed value at 1-based (row, col), "" when absent
func (s sheet) cell(row, col int) string {
	if row < 1 || row > len(s.rows) {
		return ""
	}
	cells := s.rows[row-1]
	if col < 1 || col > len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[col-1])
}

func parseSheet(s sheet) domain.Report {
	description := s.cell(progressRow, progressCol)
	report := domain.Report{
		MachineryRentals:    parseMachinery(s),
		OverallProgress:     domain.ClassifyProgress(description),
		ProblemFeedbacks:    parseProblems(s),
		ProgressDescription: description,
		ProjectName:         strings.TrimSpace(strings.ReplaceAll(s.cell(1, 1), titleSuffix, "")),
		ReportDate:          strings.TrimSpace(s.name),
		Requirements:        parseRequirements(s),
		TaskProgressList:    parseTasks(s),
		TomorrowPlans:       parsePlans(s),
		WorkerReports:       parseWorkers(s),
	}
	report.OnSitePersonnelCount = domain.CountPersonnel(report.WorkerReports)
	return report
}

// Rows 6-20 mix today's tasks (2.x) and tomorrow's plans (3.x)
func parseTasks(s sheet) []domain.TaskProgress {
	var tasks []domain.TaskProgress
	for r := taskFirstRow; r <= taskLastRow; r++ {
		no, name := s.cell(r, 1), s.cell(r, 2)
		if name == "" || !strings.HasPrefix(no, "2.") {
			continue
		}
		tasks = append(tasks, domain.TaskProgress{
			ActualProgress:  s.cell(r, 5),
			DeviationReason: s.cell(r, 6),
			ImpactMeasures:  s.cell(r, 7),
			PlannedProgress: s.cell(r, 3),
			TaskName:        name,
			TaskNo:          no,
		})
	}
	return tasks
}

func parsePlans(s sheet) []domain.TomorrowPlan {
	var plans []domain.TomorrowPlan
	for r := taskFirstRow; r <= taskLastRow; r++ {
		no, name := s.cell(r, 1), s.cell(r, 2)
		if name == "" || !strings.HasPrefix(no, "3.") {
			continue
		}
		plans = append(plans, domain.TomorrowPlan{
			Goal:              s.cell(r, 3),
			PlanNo:            no,
			Remarks:           s.cell(r, 7),
			RequiredResources: s.cell(r, 6),
			ResponsiblePerson: s.cell(r, 5),
			TaskName:          name,
		})
	}
	return plans
}

func parseWorkers(s sheet) []domain.WorkerReport {
	var workers []domain.WorkerReport
	for r := workerFirstRow; r <= workerLastRow; r++ {
		name := s.cell(r, 2)
		if name == "" {
			continue
		}
		workers = append(workers, domain.WorkerReport{
			JobType:     s.cell(r, 3),
			Name:        name,
			SeqNo:       s.cell(r, 1),
			WorkContent: s.cell(r, 5),
			WorkHours:   s.cell(r, 7),
			WorkerType:  s.cell(r, 4),
		})
	}
	return workers
}

func parseMachinery(s sheet) []domain.MachineryRental {
	var machinery []domain.MachineryRental
	for r := machineryFirstRow; r <= machineryLastRow; r++ {
		name := s.cell(r, 2)
		if name == "" {
			continue
		}
		machinery = append(machinery, domain.MachineryRental{
			MachineName: name,
			Quantity:    s.cell(r, 3),
			Remarks:     s.cell(r, 7),
			SeqNo:       s.cell(r, 1),
			Shift:       s.cell(r, 6),
			Tonnage:     s.cell(r, 4),
			Usage:       s.cell(r, 5),
		})
	}
	return machinery
}

// Rows 48-65 mix problems (1.x) and requirements (2.x)
func parseProblems(s sheet) []domain.ProblemFeedback {
	var problems []domain.ProblemFeedback
	for r := feedbackFirstRow; r <= feedbackLastRow; r++ {
		no, description := s.cell(r, 1), s.cell(r, 2)
		if description == "" || !strings.HasPrefix(no, "1.") {
			continue
		}
		problems = append(problems, domain.ProblemFeedback{
			Description: description,
			Impact:      s.cell(r, 5),
			ProblemNo:   no,
			Progress:    s.cell(r, 6),
			Reason:      s.cell(r, 4),
		})
	}
	return problems
}

func parseRequirements(s sheet) []domain.Requirement {
	var requirements []domain.Requirement
	for r := feedbackFirstRow; r <= feedbackLastRow; r++ {
		no, description := s.cell(r, 1), s.cell(r, 2)
		if description == "" || !strings.HasPrefix(no, "2.") {
			continue
		}
		requirements = append(requirements, domain.Requirement{
			Description:   description,
			ExpectedTime:  s.cell(r, 6),
			RequirementNo: no,
			UrgencyLevel:  s.cell(r, 4),
		})
	}
	return requirements
}
