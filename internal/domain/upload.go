package domain

import (
	"fmt"
	"strings"
	"time"
)

// RowSet names one of the two disjoint row sets of a batch
type RowSet string

const (
	RowSetPending  RowSet = "pending"
	RowSetUploaded RowSet = "uploaded"
)

// ReclassifyPolicy decides which selected rows move to the uploaded set
// after the gateway answers an upload
type ReclassifyPolicy string

const (
	// PolicyPromoteAll moves every selected row regardless of per-row outcome
	PolicyPromoteAll ReclassifyPolicy = "all"
	// PolicyPromoteConfirmed moves only rows the gateway confirmed
	PolicyPromoteConfirmed ReclassifyPolicy = "confirmed"
)

// DefaultReclassifyPolicy is used when no policy is configured
const DefaultReclassifyPolicy = PolicyPromoteAll

// ParseReclassifyPolicy converts a configuration value to a policy.
// The empty string maps to DefaultReclassifyPolicy.
func ParseReclassifyPolicy(value string) (ReclassifyPolicy, error) {
	switch ReclassifyPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "":
		return DefaultReclassifyPolicy, nil
	case PolicyPromoteAll:
		return PolicyPromoteAll, nil
	case PolicyPromoteConfirmed:
		return PolicyPromoteConfirmed, nil
	default:
		return "", fmt.Errorf("unknown reclassify policy %q (valid: all, confirmed)", value)
	}
}

// RowResult is the gateway verdict for one row of an upload request.
// Position indexes the rows as they were sent.
type RowResult struct {
	Message    string
	Position   int
	ReportDate string
	Success    bool
}

// UploadOutcome is the aggregate result of one batch upload attempt
type UploadOutcome struct {
	Failed    int
	Results   []RowResult
	Skipped   int
	Succeeded int
	Total     int
}

// UploadBatch is the history record of one upload attempt
type UploadBatch struct {
	CreatedAt   time.Time
	Error       string
	Failed      int
	ID          string
	Overwrite   bool
	Policy      ReclassifyPolicy
	ProjectID   int64
	ProjectName string
	Promoted    int
	ReporterID  int64
	Skipped     int
	Succeeded   int
	Total       int
}

// Successful is true when the gateway accepted the request
func (b UploadBatch) Successful() bool {
	return b.Error == ""
}
