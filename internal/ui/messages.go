package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/siteops/dailyup/internal/domain"
	"github.com/siteops/dailyup/internal/services"
)

// RowAwareMsg is implemented by messages that act on the row under the cursor
type RowAwareMsg interface {
	WithRow(set domain.RowSet, index int) tea.Msg
}

// Action messages. Key presses and the command palette both produce these;
// Model handles them in updateBatch().

// QuitMsg requests quitting the application
type QuitMsg struct{}

// ShowHelpMsg requests showing the help screen
type ShowHelpMsg struct{}

// LogoutMsg requests ending the session
type LogoutMsg struct{}

// RefreshTokenMsg requests an immediate token renewal
type RefreshTokenMsg struct{}

// ReloadProjectMsg requests fetching the project again
type ReloadProjectMsg struct{}

// OpenFileMsg requests the file dialog
type OpenFileMsg struct{}

// SwitchTableMsg flips between the pending and uploaded tables
type SwitchTableMsg struct{}

// SelectAllMsg selects every pending row
type SelectAllMsg struct{}

// DeselectAllMsg clears the selection
type DeselectAllMsg struct{}

// ToggleOverwriteMsg flips the overwrite-existing flag
type ToggleOverwriteMsg struct{}

// UploadMsg requests uploading the selection
type UploadMsg struct{}

// ToggleRowMsg flips the selection of one pending row
type ToggleRowMsg struct {
	Index int
	Set   domain.RowSet
}

func (m ToggleRowMsg) WithRow(set domain.RowSet, index int) tea.Msg {
	return ToggleRowMsg{Index: index, Set: set}
}

// ShowDetailMsg requests the detail view of one row
type ShowDetailMsg struct {
	Index int
	Set   domain.RowSet
}

func (m ShowDetailMsg) WithRow(set domain.RowSet, index int) tea.Msg {
	return ShowDetailMsg{Index: index, Set: set}
}

// Command palette messages

// ShowCommandPaletteMsg requests showing the command palette
type ShowCommandPaletteMsg struct{}

// Results of background work

// sessionEventMsg carries a SessionService notification into the program
type sessionEventMsg struct {
	event services.SessionEvent
}

type loginDoneMsg struct {
	err error
}

type projectDoneMsg struct {
	err     error
	project *domain.Project
}

type refreshDoneMsg struct {
	err error
}

type parseDoneMsg struct {
	count int
	err   error
	path  string
}

type uploadDoneMsg struct {
	err     error
	outcome domain.UploadOutcome
}

type logoutDoneMsg struct{}

// clearErrorMsg is sent after the error clear delay
type clearErrorMsg struct{}

// clearNoticeMsg is sent after the notice clear delay
type clearNoticeMsg struct {
	seq int
}

// rotateTipMsg advances the footer tip
type rotateTipMsg struct{}
