package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/siteops/dailyup/internal/domain"
)

// envelope is the common response wrapper {code, msg|message, data}
type envelope struct {
	Code    *int            `json:"code"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Msg     string          `json:"msg"`
}

func (e envelope) message() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Message
}

// APIError is returned for non-2xx responses and rejected business codes
type APIError struct {
	Code    *int
	Message string
	Status  int
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Status {
	case http.StatusUnauthorized:
		return "login expired or credentials rejected"
	case http.StatusForbidden:
		return "permission denied"
	case http.StatusNotFound:
		return "API endpoint not found"
	}
	if e.Code != nil && e.Status < 300 {
		return fmt.Sprintf("request rejected (code %d)", *e.Code)
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

type userData struct {
	Email    string `json:"email"`
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
	Phone    string `json:"phone"`
	RealName string `json:"realName"`
	Role     string `json:"role"`
	Username string `json:"username"`
}

func (u userData) identity() domain.Identity {
	display := u.RealName
	if display == "" {
		display = u.Nickname
	}
	return domain.Identity{
		DisplayName: display,
		Email:       u.Email,
		ID:          u.ID,
		Phone:       u.Phone,
		Role:        u.Role,
		Username:    u.Username,
	}
}

type tokenData struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	Token        string   `json:"token"`
	User         userData `json:"user"`
}

func (t tokenData) token() string {
	if t.Token != "" {
		return t.Token
	}
	return t.AccessToken
}

// personName decodes either a plain string or an object with a name field
type personName string

func (p *personName) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = personName(s)
		return nil
	}
	var obj struct {
		Name     string `json:"name"`
		RealName string `json:"realName"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil // Unknown shape, leave empty
	}
	for _, candidate := range []string{obj.RealName, obj.Name, obj.Username} {
		if candidate != "" {
			*p = personName(candidate)
			break
		}
	}
	return nil
}

type projectData struct {
	ActualSaltAmount    *float64   `json:"actualSaltAmount"`
	CompletionProgress  *float64   `json:"completionProgress"`
	EstimatedSaltAmount *float64   `json:"estimatedSaltAmount"`
	ID                  int64      `json:"id"`
	Manager             personName `json:"manager"`
	Name                string     `json:"name"`
	StatusDisplayName   string     `json:"statusDisplayName"`
	TypeDisplayName     string     `json:"typeDisplayName"`
}

func (p projectData) project() *domain.Project {
	return &domain.Project{
		ActualSaltAmount:    p.ActualSaltAmount,
		CompletionProgress:  p.CompletionProgress,
		EstimatedSaltAmount: p.EstimatedSaltAmount,
		ID:                  p.ID,
		Manager:             string(p.Manager),
		Name:                p.Name,
		StatusName:          p.StatusDisplayName,
		TypeName:            p.TypeDisplayName,
	}
}

type uploadBody struct {
	OverwriteExisting bool         `json:"overwriteExisting"`
	ProjectID         int64        `json:"projectId"`
	ReporterID        int64        `json:"reporterId"`
	Reports           []wireReport `json:"reports"`
}

// wireReport is a report as the batch import endpoint expects it:
// nested lists travel as JSON-encoded strings
type wireReport struct {
	MachineryRentals     string          `json:"machineryRentals"`
	OnSitePersonnelCount int             `json:"onSitePersonnelCount"`
	OverallProgress      domain.Progress `json:"overallProgress"`
	ProblemFeedbacks     string          `json:"problemFeedbacks"`
	ProgressDescription  string          `json:"progressDescription"`
	ProjectName          string          `json:"projectName"`
	Remarks              string          `json:"remarks,omitempty"`
	ReportDate           string          `json:"reportDate"`
	ReporterName         string          `json:"reporterName,omitempty"`
	Requirements         string          `json:"requirements"`
	TaskProgressList     string          `json:"taskProgressList"`
	Temperature          string          `json:"temperature,omitempty"`
	TomorrowPlans        string          `json:"tomorrowPlans"`
	Weather              string          `json:"weather,omitempty"`
	WorkerReports        string          `json:"workerReports"`
}

func toWireReport(r domain.Report) (wireReport, error) {
	w := wireReport{
		OnSitePersonnelCount: r.OnSitePersonnelCount,
		OverallProgress:      r.OverallProgress,
		ProgressDescription:  r.ProgressDescription,
		ProjectName:          r.ProjectName,
		Remarks:              r.Remarks,
		ReportDate:           r.ReportDate,
		ReporterName:         r.ReporterName,
		Temperature:          r.Temperature,
		Weather:              r.Weather,
	}
	if w.OverallProgress == "" {
		w.OverallProgress = domain.ProgressNormal
	}

	fields := []struct {
		dst *string
		src any
		n   int
	}{
		{&w.MachineryRentals, r.MachineryRentals, len(r.MachineryRentals)},
		{&w.ProblemFeedbacks, r.ProblemFeedbacks, len(r.ProblemFeedbacks)},
		{&w.Requirements, r.Requirements, len(r.Requirements)},
		{&w.TaskProgressList, r.TaskProgressList, len(r.TaskProgressList)},
		{&w.TomorrowPlans, r.TomorrowPlans, len(r.TomorrowPlans)},
		{&w.WorkerReports, r.WorkerReports, len(r.WorkerReports)},
	}
	for _, f := range fields {
		if f.n == 0 {
			*f.dst = "[]"
			continue
		}
		data, err := json.Marshal(f.src)
		if err != nil {
			return wireReport{}, err
		}
		*f.dst = string(data)
	}
	return w, nil
}

// reportResult is one entry of successReports/failedReports. The service
// sends either objects or bare report dates.
type reportResult struct {
	Error      string `json:"error"`
	Index      *int   `json:"index"`
	Message    string `json:"message"`
	Reason     string `json:"reason"`
	ReportDate string `json:"reportDate"`
}

func (r *reportResult) UnmarshalJSON(data []byte) error {
	var date string
	if err := json.Unmarshal(data, &date); err == nil {
		*r = reportResult{ReportDate: date}
		return nil
	}
	type plain reportResult
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = reportResult(p)
	return nil
}

func (r reportResult) text() string {
	for _, s := range []string{r.Message, r.Reason, r.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

type uploadData struct {
	FailedCount    int            `json:"failedCount"`
	FailedReports  []reportResult `json:"failedReports"`
	SkippedCount   int            `json:"skippedCount"`
	SuccessCount   int            `json:"successCount"`
	SuccessReports []reportResult `json:"successReports"`
	TotalCount     int            `json:"totalCount"`
}

// outcome converts the response and maps per-row entries back to the
// position of the report in the request
func (d uploadData) outcome(sent []domain.Report) *domain.UploadOutcome {
	out := &domain.UploadOutcome{
		Failed:    d.FailedCount,
		Skipped:   d.SkippedCount,
		Succeeded: d.SuccessCount,
		Total:     d.TotalCount,
	}
	if out.Total == 0 {
		out.Total = len(sent)
	}

	used := make(map[int]bool)
	resolve := func(items []reportResult, success bool) {
		for _, item := range items {
			pos := locate(sent, item, used)
			if pos < 0 {
				continue
			}
			used[pos] = true
			out.Results = append(out.Results, domain.RowResult{
				Message:    item.text(),
				Position:   pos,
				ReportDate: sent[pos].ReportDate,
				Success:    success,
			})
		}
	}
	resolve(d.SuccessReports, true)
	resolve(d.FailedReports, false)

	return out
}

// locate finds the request position of a result entry, -1 when unknown
func locate(sent []domain.Report, item reportResult, used map[int]bool) int {
	if item.Index != nil {
		if *item.Index >= 0 && *item.Index < len(sent) && !used[*item.Index] {
			return *item.Index
		}
		return -1
	}
	date := strings.TrimSpace(item.ReportDate)
	if date == "" {
		return -1
	}
	for i, r := range sent {
		if !used[i] && r.ReportDate == date {
			return i
		}
	}
	return -1
}
