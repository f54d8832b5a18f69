package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/siteops/dailyup/internal/logging"
	"github.com/siteops/dailyup/internal/services"
)

// BatchOperations builds the commands that run service calls off the
// update loop. Service calls that notify the session listener must not run
// inside Update, since the listener sends to the program.
type BatchOperations struct {
	batchService   *services.BatchService
	sessionService *services.SessionService
}

// NewBatchOperations creates a new BatchOperations component
func NewBatchOperations(sessionService *services.SessionService, batchService *services.BatchService) *BatchOperations {
	return &BatchOperations{
		batchService:   batchService,
		sessionService: sessionService,
	}
}

// FetchProject loads the project assigned to the user
func (bo *BatchOperations) FetchProject() tea.Cmd {
	return func() tea.Msg {
		project, err := bo.sessionService.GetProject(context.Background())
		return projectDoneMsg{err: err, project: project}
	}
}

// Parse loads path as the new pending set
func (bo *BatchOperations) Parse(path string) tea.Cmd {
	return func() tea.Msg {
		count, err := bo.batchService.ParseDocument(context.Background(), path)
		return parseDoneMsg{count: count, err: err, path: path}
	}
}

// Upload sends the current selection
func (bo *BatchOperations) Upload(overwrite bool) tea.Cmd {
	return func() tea.Msg {
		outcome, err := bo.batchService.Upload(context.Background(), overwrite)
		return uploadDoneMsg{err: err, outcome: outcome}
	}
}

// Refresh renews the access token now
func (bo *BatchOperations) Refresh() tea.Cmd {
	return func() tea.Msg {
		_, err := bo.sessionService.Refresh(context.Background())
		return refreshDoneMsg{err: err}
	}
}

// Logout ends the session
func (bo *BatchOperations) Logout() tea.Cmd {
	return func() tea.Msg {
		logging.Logger.Info("Logging out from TUI")
		bo.sessionService.Logout(context.Background())
		return logoutDoneMsg{}
	}
}
