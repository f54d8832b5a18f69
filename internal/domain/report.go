package domain

import "strings"

// Progress classifies the overall project progress of a daily report
type Progress string

const (
	ProgressAhead   Progress = "ahead"
	ProgressDelayed Progress = "delayed"
	ProgressNormal  Progress = "normal"
)

// ClassifyProgress derives the progress class from the free-text description.
// Descriptions mentioning neither delay nor advance count as normal.
func ClassifyProgress(description string) Progress {
	switch {
	case strings.Contains(description, "正常"):
		return ProgressNormal
	case strings.Contains(description, "滞后"):
		return ProgressDelayed
	case strings.Contains(description, "超前"):
		return ProgressAhead
	default:
		return ProgressNormal
	}
}

// Label returns a short display label
func (p Progress) Label() string {
	switch p {
	case ProgressDelayed:
		return "delayed"
	case ProgressAhead:
		return "ahead"
	default:
		return "normal"
	}
}

type TaskProgress struct {
	ActualProgress  string `json:"actualProgress"`
	DeviationReason string `json:"deviationReason"`
	ImpactMeasures  string `json:"impactMeasures"`
	PlannedProgress string `json:"plannedProgress"`
	TaskName        string `json:"taskName"`
	TaskNo          string `json:"taskNo"`
}

type TomorrowPlan struct {
	Goal              string `json:"goal"`
	PlanNo            string `json:"planNo"`
	Remarks           string `json:"remarks"`
	RequiredResources string `json:"requiredResources"`
	ResponsiblePerson string `json:"responsiblePerson"`
	TaskName          string `json:"taskName"`
}

type WorkerReport struct {
	JobType     string `json:"jobType"`
	Name        string `json:"name"`
	SeqNo       string `json:"seqNo"`
	WorkContent string `json:"workContent"`
	WorkHours   string `json:"workHours"`
	WorkerType  string `json:"workerType"`
}

type MachineryRental struct {
	MachineName string `json:"machineName"`
	Quantity    string `json:"quantity"`
	Remarks     string `json:"remarks"`
	SeqNo       string `json:"seqNo"`
	Shift       string `json:"shift"`
	Tonnage     string `json:"tonnage"`
	Usage       string `json:"usage"`
}

type ProblemFeedback struct {
	Description string `json:"description"`
	Impact      string `json:"impact"`
	ProblemNo   string `json:"problemNo"`
	Progress    string `json:"progress"`
	Reason      string `json:"reason"`
}

type Requirement struct {
	Description   string `json:"description"`
	ExpectedTime  string `json:"expectedTime"`
	RequirementNo string `json:"requirementNo"`
	UrgencyLevel  string `json:"urgencyLevel"`
}

// Report is one parsed daily report. Its identity inside a batch is its
// parse position; the server assigns an id only once it is uploaded.
type Report struct {
	MachineryRentals     []MachineryRental `json:"machineryRentals"`
	OnSitePersonnelCount int               `json:"onSitePersonnelCount"`
	OverallProgress      Progress          `json:"overallProgress"`
	ProblemFeedbacks     []ProblemFeedback `json:"problemFeedbacks"`
	ProgressDescription  string            `json:"progressDescription"`
	ProjectName          string            `json:"projectName"`
	Remarks              string            `json:"remarks,omitempty"`
	ReportDate           string            `json:"reportDate"`
	ReporterName         string            `json:"reporterName,omitempty"`
	Requirements         []Requirement     `json:"requirements"`
	TaskProgressList     []TaskProgress    `json:"taskProgressList"`
	Temperature          string            `json:"temperature,omitempty"`
	TomorrowPlans        []TomorrowPlan    `json:"tomorrowPlans"`
	Weather              string            `json:"weather,omitempty"`
	WorkerReports        []WorkerReport    `json:"workerReports"`
}

// CountPersonnel returns the number of worker entries with a name
func CountPersonnel(workers []WorkerReport) int {
	count := 0
	for _, w := range workers {
		if strings.TrimSpace(w.Name) != "" {
			count++
		}
	}
	return count
}
