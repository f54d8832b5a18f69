package ui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/siteops/dailyup/internal/domain"
	"github.com/siteops/dailyup/internal/ports"
	portsmocks "github.com/siteops/dailyup/internal/ports/mocks"
	"github.com/siteops/dailyup/internal/services"
)

const testEndpoint = "http://reports.test"

func newTestServices(t *testing.T) (*services.SessionService, *services.BatchService, *portsmocks.MockGateway, *portsmocks.MockSessionStore) {
	t.Helper()
	gateway := portsmocks.NewMockGateway(t)
	store := portsmocks.NewMockSessionStore(t)
	parser := portsmocks.NewMockDocumentParser(t)
	history := portsmocks.NewMockHistoryRepository(t)

	sessions := services.NewSessionService(gateway, store)
	t.Cleanup(sessions.Close)
	batch := services.NewBatchService(gateway, parser, history, sessions, domain.DefaultReclassifyPolicy)
	return sessions, batch, gateway, store
}

// newBatchModel returns a model on the upload screen with three pending rows
func newBatchModel(t *testing.T, opts Options) *Model {
	t.Helper()
	sessions, batch, gateway, store := newTestServices(t)

	gateway.EXPECT().Login(mock.Anything, testEndpoint, "liwei", "secret").Return(&ports.LoginResult{
		AccessToken: "access-1",
		Identity:    domain.Identity{ID: 42, Username: "liwei"},
	}, nil).Once()
	store.EXPECT().Save(mock.Anything, mock.Anything).Return(nil).Once()
	_, err := sessions.Login(context.Background(), "liwei", "secret", testEndpoint)
	require.NoError(t, err)

	batch.LoadParsedReports(reportsForDays(3))

	m := NewModel(opts, sessions, batch)
	require.Equal(t, stateBatch, m.state)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.refreshTables()
	return m
}

// press sends a key and feeds the resulting action back into the model
func press(m *Model, msg tea.KeyMsg) {
	_, cmd := m.Update(msg)
	if cmd == nil {
		return
	}
	if action := cmd(); action != nil {
		m.Update(action)
	}
}

func TestNewModel_StartsOnLoginWithoutSession(t *testing.T) {
	sessions, batch, _, _ := newTestServices(t)

	m := NewModel(Options{Endpoint: testEndpoint, Username: "liwei"}, sessions, batch)

	assert.Equal(t, stateLogin, m.state)
	require.NotNil(t, m.loginForm)
	assert.Contains(t, stripAnsi(m.View()), "Log In")
}

func TestModel_ToggleAndSelectAll(t *testing.T) {
	m := newBatchModel(t, Options{})

	press(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.True(t, m.batchService.IsSelected(0))

	press(m, tea.KeyMsg{Type: tea.KeyDown})
	press(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Equal(t, []int{0, 1}, m.batchService.Selection())

	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'A'}})
	assert.Empty(t, m.batchService.Selection())

	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})
	assert.Len(t, m.batchService.Selection(), 3)
}

func TestModel_SwitchTable(t *testing.T) {
	m := newBatchModel(t, Options{})

	press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, domain.RowSetUploaded, m.activeSet)

	// Empty uploaded table: row actions have nothing to act on
	press(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Empty(t, m.batchService.Selection())

	press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, domain.RowSetPending, m.activeSet)
}

func TestModel_UploadWithoutSelectionShowsError(t *testing.T) {
	m := newBatchModel(t, Options{})

	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})

	assert.Equal(t, stateBatch, m.state)
	assert.ErrorIs(t, m.errorManager.GetError(), domain.ErrEmptySelection)
	assert.Empty(t, m.busy)
}

func TestModel_OverwriteUploadAsksForConfirmation(t *testing.T) {
	m := newBatchModel(t, Options{Overwrite: true})
	m.batchService.SelectAll()

	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	assert.Equal(t, stateConfirmingUpload, m.state)
	require.NotNil(t, m.confirmUpload)

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, stateBatch, m.state)
	assert.Nil(t, m.confirmUpload)
	assert.Empty(t, m.busy)
}

func TestModel_ToggleOverwrite(t *testing.T) {
	m := newBatchModel(t, Options{})

	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}})

	assert.True(t, m.overwrite)
	assert.Equal(t, "Existing reports will be overwritten", m.notice)
}

func TestModel_DetailOpensAndCloses(t *testing.T) {
	m := newBatchModel(t, Options{})

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, stateDetail, m.state)
	assert.Contains(t, stripAnsi(m.View()), "2025.10.01")

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, stateBatch, m.state)
}

func TestModel_SessionLostReturnsToLogin(t *testing.T) {
	m := newBatchModel(t, Options{})
	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	require.Equal(t, stateHelp, m.state)

	m.Update(sessionEventMsg{event: services.SessionEvent{
		Err:    domain.ErrAuth,
		Kind:   services.EventSessionLost,
		Screen: domain.ScreenLogin,
	}})

	assert.Equal(t, stateLogin, m.state)
	assert.NotNil(t, m.loginForm)
	assert.Nil(t, m.helpScreen)
	assert.ErrorIs(t, m.errorManager.GetError(), domain.ErrAuth)
}

func TestModel_UploadDoneShowsOutcome(t *testing.T) {
	m := newBatchModel(t, Options{})
	m.busy = "Uploading 2 reports"

	m.Update(uploadDoneMsg{outcome: domain.UploadOutcome{Succeeded: 2, Total: 2}})

	assert.Equal(t, stateOutcome, m.state)
	assert.Empty(t, m.busy)
	assert.Equal(t, 2, m.outcome.Succeeded)

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	assert.Equal(t, stateBatch, m.state)
}
