package domain

// Project is the snapshot of the project assigned to the logged-in user
type Project struct {
	ActualSaltAmount    *float64 `json:"actual_salt_amount,omitempty"`
	CompletionProgress  *float64 `json:"completion_progress,omitempty"`
	EstimatedSaltAmount *float64 `json:"estimated_salt_amount,omitempty"`
	ID                  int64    `json:"id"`
	Manager             string   `json:"manager,omitempty"`
	Name                string   `json:"name"`
	StatusName          string   `json:"status,omitempty"`
	TypeName            string   `json:"type,omitempty"`
}
