package ports

import (
	"context"

	"github.com/siteops/dailyup/internal/domain"
)

// LoginResult is what the remote service returns for a successful login
type LoginResult struct {
	AccessToken       string
	Identity          domain.Identity
	RefreshCredential string
}

// UploadRequest is one batch of reports sent to the remote service.
// Reports are sent in the order given.
type UploadRequest struct {
	Overwrite  bool
	ProjectID  int64
	ReporterID int64
	Reports    []domain.Report
}

// Authenticator logs users in and renews access tokens
type Authenticator interface {
	// Login exchanges credentials for a token pair at endpoint
	Login(ctx context.Context, endpoint, username, password string) (*LoginResult, error)

	// RefreshToken mints a new access token from the refresh credential
	RefreshToken(ctx context.Context, endpoint, refreshCredential string) (string, error)
}

// ProjectFetcher looks up the project assigned to the token's user
type ProjectFetcher interface {
	GetProject(ctx context.Context, endpoint, accessToken string) (*domain.Project, error)
}

// ReportUploader submits daily reports
type ReportUploader interface {
	UploadReports(ctx context.Context, endpoint, accessToken string, req UploadRequest) (*domain.UploadOutcome, error)
}

// Gateway is the composite remote service interface
type Gateway interface {
	Authenticator
	ProjectFetcher
	ReportUploader
}
