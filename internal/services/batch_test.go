package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/siteops/dailyup/internal/domain"
	"github.com/siteops/dailyup/internal/ports"
	portsmocks "github.com/siteops/dailyup/internal/ports/mocks"
)

// stubSessions is a fixed SessionProvider
type stubSessions struct {
	mu          sync.Mutex
	fetchCalls  int
	fetchErr    error
	fetchResult *domain.Project
	project     *domain.Project
	session     *domain.Session
}

func (s *stubSessions) Session() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

func (s *stubSessions) Project() *domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project
}

func (s *stubSessions) GetProject(ctx context.Context) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchCalls++
	if s.fetchErr != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, s.fetchErr)
	}
	s.project = s.fetchResult
	return s.fetchResult, nil
}

func activeSessions() *stubSessions {
	return &stubSessions{
		session: &domain.Session{AccessToken: "access-1", Endpoint: testEndpoint, Identity: domain.Identity{ID: 42}},
		project: &domain.Project{ID: 7, Name: "淮安项目"},
	}
}

func makeReports(n int) []domain.Report {
	reports := make([]domain.Report, n)
	for i := range reports {
		reports[i] = domain.Report{
			ReportDate:      fmt.Sprintf("2025.10.%02d", i+1),
			ProjectName:     "sheet title",
			OverallProgress: domain.ProgressNormal,
		}
	}
	return reports
}

func reportDates(reports []domain.Report) []string {
	dates := make([]string, len(reports))
	for i, r := range reports {
		dates[i] = r.ReportDate
	}
	return dates
}

type batchFixture struct {
	gateway  *portsmocks.MockGateway
	history  *portsmocks.MockHistoryRepository
	parser   *portsmocks.MockDocumentParser
	sessions *stubSessions
	svc      *BatchService
}

func newBatchFixture(t *testing.T, policy domain.ReclassifyPolicy) *batchFixture {
	t.Helper()
	f := &batchFixture{
		gateway:  portsmocks.NewMockGateway(t),
		history:  portsmocks.NewMockHistoryRepository(t),
		parser:   portsmocks.NewMockDocumentParser(t),
		sessions: activeSessions(),
	}
	f.svc = NewBatchService(f.gateway, f.parser, f.history, f.sessions, policy)
	return f
}

// assertBatchInvariants checks the disjoint row sets and the selection bounds
func assertBatchInvariants(t *testing.T, svc *BatchService) {
	t.Helper()
	svc.mu.Lock()
	defer svc.mu.Unlock()

	keys := make(map[uint64]bool)
	for _, row := range svc.pending {
		keys[row.key] = true
	}
	for _, row := range svc.uploaded {
		assert.False(t, keys[row.key], "row %d is both pending and uploaded", row.key)
	}
	for idx := range svc.selection {
		assert.True(t, idx >= 0 && idx < len(svc.pending), "selection index %d out of range", idx)
	}
}

func TestLoadParsedReports(t *testing.T) {
	f := newBatchFixture(t, domain.PolicyPromoteAll)

	f.svc.LoadParsedReports(makeReports(3))
	f.svc.SelectAll()
	f.svc.LoadParsedReports(makeReports(2))

	pending := f.svc.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, "淮安项目", pending[0].ProjectName, "project name stamped from active project")
	assert.Empty(t, f.svc.Selection(), "new parse clears selection")
	assert.Empty(t, f.svc.Uploaded())
	assertBatchInvariants(t, f.svc)
}

func TestLoadParsedReports_NoProjectKeepsParsedName(t *testing.T) {
	f := newBatchFixture(t, domain.PolicyPromoteAll)
	f.sessions.project = nil

	f.svc.LoadParsedReports(makeReports(1))

	assert.Equal(t, "sheet title", f.svc.Pending()[0].ProjectName)
}

func TestToggle(t *testing.T) {
	f := newBatchFixture(t, domain.PolicyPromoteAll)
	f.svc.LoadParsedReports(makeReports(3))

	f.svc.Toggle(0)
	f.svc.Toggle(2)
	f.svc.Toggle(2)
	f.svc.Toggle(-1)
	f.svc.Toggle(3)

	assert.Equal(t, []int{0}, f.svc.Selection())
	assert.True(t, f.svc.IsSelected(0))
	assert.False(t, f.svc.IsSelected(2))
	assertBatchInvariants(t, f.svc)
}

func TestSelectAllDeselectAll(t *testing.T) {
	f := newBatchFixture(t, domain.PolicyPromoteAll)
	f.svc.LoadParsedReports(makeReports(4))

	f.svc.SelectAll()
	assert.Equal(t, []int{0, 1, 2, 3}, f.svc.Selection())

	f.svc.DeselectAll()
	assert.Empty(t, f.svc.Selection())
}

func TestUpload_EmptySelectionNoNetwork(t *testing.T) {
	f := newBatchFixture(t, domain.PolicyPromoteAll)
	f.svc.LoadParsedReports(makeReports(2))

	_, err := f.svc.Upload(context.Background(), false)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, domain.ErrEmptySelection)
	assert.ErrorIs(t, f.svc.Err(), domain.ErrValidation)
	assert.Len(t, f.svc.Pending(), 2)
}

func TestUpload_PromotesSelectedRows(t *testing.T) {
	f := newBatchFixture(t, domain.PolicyPromoteAll)
	reports := makeReports(5)
	f.svc.LoadParsedReports(reports)
	f.svc.Toggle(4)
	f.svc.Toggle(0)
	f.svc.Toggle(2)

	f.gateway.EXPECT().UploadReports(mock.Anything, testEndpoint, "access-1", mock.MatchedBy(func(req ports.UploadRequest) bool {
		return req.ProjectID == 7 && req.ReporterID == 42 && !req.Overwrite &&
			assert.ObjectsAreEqual([]string{"2025.10.01", "2025.10.03", "2025.10.05"}, reportDates(req.Reports))
	})).Return(&domain.UploadOutcome{Total: 3, Succeeded: 3}, nil)
	f.history.EXPECT().Record(mock.Anything, mock.MatchedBy(func(b domain.UploadBatch) bool {
		return b.ID != "" && b.Total == 3 && b.Succeeded == 3 && b.Promoted == 3 && b.Successful()
	})).Return(nil)

	outcome, err := f.svc.Upload(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, domain.UploadOutcome{Total: 3, Succeeded: 3}, outcome)
	assert.Equal(t, []string{"2025.10.02", "2025.10.04"}, reportDates(f.svc.Pending()))
	assert.Equal(t, []string{"2025.10.01", "2025.10.03", "2025.10.05"}, reportDates(f.svc.Uploaded()))
	assert.Empty(t, f.svc.Selection())
	assert.NoError(t, f.svc.Err())
	assert.False(t, f.svc.Loading())
	assertBatchInvariants(t, f.svc)
}

func TestUpload_PromoteAllIgnoresFailures(t *testing.T) {
	f := newBatchFixture(t, domain.PolicyPromoteAll)
	f.svc.LoadParsedReports(makeReports(3))
	f.svc.SelectAll()

	f.gateway.EXPECT().UploadReports(mock.Anything, testEndpoint, "access-1", mock.Anything).
		Return(&domain.UploadOutcome{Total: 3, Succeeded: 1, Failed: 2}, nil)
	f.history.EXPECT().Record(mock.Anything, mock.Anything).Return(nil)

	outcome, err := f.svc.Upload(context.Background(), true)

	require.NoError(t, err)
	assert.Equal(t, 2, outcome.Failed)
	assert.Empty(t, f.svc.Pending())
	assert.Len(t, f.svc.Uploaded(), 3)
}

func TestUpload_PromoteConfirmed(t *testing.T) {
	tests := []struct {
		name         string
		outcome      *domain.UploadOutcome
		wantPending  []string
		wantUploaded []string
	}{
		{
			name: "per-row results",
			outcome: &domain.UploadOutcome{Total: 3, Succeeded: 2, Failed: 1, Results: []domain.RowResult{
				{Position: 0, Success: true},
				{Position: 1, Success: false, Message: "duplicate"},
				{Position: 2, Success: true},
			}},
			wantPending:  []string{"2025.10.02"},
			wantUploaded: []string{"2025.10.01", "2025.10.03"},
		},
		{
			name:         "no detail and no failures",
			outcome:      &domain.UploadOutcome{Total: 3, Succeeded: 3},
			wantPending:  []string{},
			wantUploaded: []string{"2025.10.01", "2025.10.02", "2025.10.03"},
		},
		{
			name:         "no detail with failures",
			outcome:      &domain.UploadOutcome{Total: 3, Succeeded: 2, Failed: 1},
			wantPending:  []string{"2025.10.01", "2025.10.02", "2025.10.03"},
			wantUploaded: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBatchFixture(t, domain.PolicyPromoteConfirmed)
			f.svc.LoadParsedReports(makeReports(3))
			f.svc.SelectAll()

			f.gateway.EXPECT().UploadReports(mock.Anything, testEndpoint, "access-1", mock.Anything).Return(tt.outcome, nil)
			f.history.EXPECT().Record(mock.Anything, mock.Anything).Return(nil)

			_, err := f.svc.Upload(context.Background(), false)

			require.NoError(t, err)
			assert.Equal(t, tt.wantPending, reportDates(f.svc.Pending()))
			assert.Equal(t, tt.wantUploaded, reportDates(f.svc.Uploaded()))
			assert.Empty(t, f.svc.Selection())
			assertBatchInvariants(t, f.svc)
		})
	}
}

func TestUpload_GatewayErrorLeavesStateUnchanged(t *testing.T) {
	f := newBatchFixture(t, domain.PolicyPromoteAll)
	f.svc.LoadParsedReports(makeReports(3))
	f.svc.Toggle(1)

	f.gateway.EXPECT().UploadReports(mock.Anything, testEndpoint, "access-1", mock.Anything).
		Return(nil, errors.New("connection reset"))
	f.history.EXPECT().Record(mock.Anything, mock.MatchedBy(func(b domain.UploadBatch) bool {
		return !b.Successful() && b.Error == "connection reset"
	})).Return(nil)

	_, err := f.svc.Upload(context.Background(), false)

	assert.ErrorIs(t, err, domain.ErrUpload)
	assert.Len(t, f.svc.Pending(), 3)
	assert.Empty(t, f.svc.Uploaded())
	assert.Equal(t, []int{1}, f.svc.Selection())
	assert.ErrorIs(t, f.svc.Err(), domain.ErrUpload)
}

func TestUpload_FetchesMissingProjectOnce(t *testing.T) {
	f := newBatchFixture(t, domain.PolicyPromoteAll)
	f.sessions.project = nil
	f.sessions.fetchResult = &domain.Project{ID: 9, Name: "late project"}
	f.svc.LoadParsedReports(makeReports(1))
	f.svc.SelectAll()

	f.gateway.EXPECT().UploadReports(mock.Anything, testEndpoint, "access-1", mock.MatchedBy(func(req ports.UploadRequest) bool {
		return req.ProjectID == 9
	})).Return(&domain.UploadOutcome{Total: 1, Succeeded: 1}, nil)
	f.history.EXPECT().Record(mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.Upload(context.Background(), false)

	require.NoError(t, err)
	assert.Equal(t, 1, f.sessions.fetchCalls)
}

func TestUpload_MissingProjectIsValidationError(t *testing.T) {
	f := newBatchFixture(t, domain.PolicyPromoteAll)
	f.sessions.project = nil
	f.sessions.fetchErr = errors.New("timeout")
	f.svc.LoadParsedReports(makeReports(2))
	f.svc.SelectAll()

	_, err := f.svc.Upload(context.Background(), false)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, domain.ErrMissingProject)
	assert.NotErrorIs(t, err, domain.ErrFetch)
	assert.Equal(t, 1, f.sessions.fetchCalls)
	assert.Equal(t, []int{0, 1}, f.svc.Selection())
}

func TestUpload_MissingIdentity(t *testing.T) {
	f := newBatchFixture(t, domain.PolicyPromoteAll)
	f.sessions.session = nil
	f.svc.LoadParsedReports(makeReports(1))
	f.svc.SelectAll()

	_, err := f.svc.Upload(context.Background(), false)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, domain.ErrMissingIdentity)
}

func TestUpload_SnapshotIgnoresSelectionChangesInFlight(t *testing.T) {
	f := newBatchFixture(t, domain.PolicyPromoteAll)
	f.svc.LoadParsedReports(makeReports(4))
	f.svc.Toggle(0)
	f.svc.Toggle(1)

	started := make(chan struct{})
	release := make(chan struct{})
	f.gateway.EXPECT().UploadReports(mock.Anything, testEndpoint, "access-1", mock.Anything).
		RunAndReturn(func(ctx context.Context, endpoint, token string, req ports.UploadRequest) (*domain.UploadOutcome, error) {
			close(started)
			<-release
			assert.Equal(t, []string{"2025.10.01", "2025.10.02"}, reportDates(req.Reports))
			return &domain.UploadOutcome{Total: 2, Succeeded: 2}, nil
		})
	f.history.EXPECT().Record(mock.Anything, mock.Anything).Return(nil)

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Upload(context.Background(), false)
		done <- err
	}()

	<-started
	assert.True(t, f.svc.Loading())
	f.svc.Toggle(0)
	f.svc.Toggle(3)
	_, err := f.svc.Upload(context.Background(), false)
	assert.ErrorIs(t, err, domain.ErrUploadInProgress)
	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, []string{"2025.10.03", "2025.10.04"}, reportDates(f.svc.Pending()))
	assert.Equal(t, []string{"2025.10.01", "2025.10.02"}, reportDates(f.svc.Uploaded()))
	assertBatchInvariants(t, f.svc)
}

func TestUpload_NewParseDuringFlightKeepsNewRows(t *testing.T) {
	f := newBatchFixture(t, domain.PolicyPromoteAll)
	f.svc.LoadParsedReports(makeReports(2))
	f.svc.SelectAll()

	started := make(chan struct{})
	release := make(chan struct{})
	f.gateway.EXPECT().UploadReports(mock.Anything, testEndpoint, "access-1", mock.Anything).
		RunAndReturn(func(ctx context.Context, endpoint, token string, req ports.UploadRequest) (*domain.UploadOutcome, error) {
			close(started)
			<-release
			return &domain.UploadOutcome{Total: 2, Succeeded: 2}, nil
		})
	f.history.EXPECT().Record(mock.Anything, mock.Anything).Return(nil)

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Upload(context.Background(), false)
		done <- err
	}()

	<-started
	f.svc.LoadParsedReports(makeReports(3))
	f.svc.Toggle(2)
	close(release)
	require.NoError(t, <-done)

	assert.Len(t, f.svc.Pending(), 3)
	assert.Len(t, f.svc.Uploaded(), 2)
	assert.Equal(t, []int{2}, f.svc.Selection())
	assertBatchInvariants(t, f.svc)
}

func TestUpload_HistoryFailureDoesNotFailUpload(t *testing.T) {
	f := newBatchFixture(t, domain.PolicyPromoteAll)
	f.svc.LoadParsedReports(makeReports(1))
	f.svc.SelectAll()

	f.gateway.EXPECT().UploadReports(mock.Anything, testEndpoint, "access-1", mock.Anything).
		Return(&domain.UploadOutcome{Total: 1, Succeeded: 1}, nil)
	f.history.EXPECT().Record(mock.Anything, mock.Anything).Return(errors.New("database is locked"))

	_, err := f.svc.Upload(context.Background(), false)

	require.NoError(t, err)
	assert.Len(t, f.svc.Uploaded(), 1)
}

func TestRowAt(t *testing.T) {
	f := newBatchFixture(t, domain.PolicyPromoteAll)
	f.svc.LoadParsedReports(makeReports(2))
	f.svc.Toggle(1)

	row, err := f.svc.RowAt(domain.RowSetPending, 1)
	require.NoError(t, err)
	assert.Equal(t, "2025.10.02", row.ReportDate)

	_, err = f.svc.RowAt(domain.RowSetPending, 2)
	assert.ErrorIs(t, err, domain.ErrIndex)

	_, err = f.svc.RowAt(domain.RowSetPending, -1)
	assert.ErrorIs(t, err, domain.ErrIndex)

	_, err = f.svc.RowAt(domain.RowSetUploaded, 0)
	assert.ErrorIs(t, err, domain.ErrIndex)

	_, err = f.svc.RowAt("archive", 0)
	assert.ErrorIs(t, err, domain.ErrIndex)

	assert.Equal(t, []int{1}, f.svc.Selection(), "lookups never touch the selection")
}

func TestParseDocument(t *testing.T) {
	t.Run("success loads pending", func(t *testing.T) {
		f := newBatchFixture(t, domain.PolicyPromoteAll)
		f.parser.EXPECT().Parse(mock.Anything, "/tmp/daily.xlsx").Return(makeReports(3), nil)

		n, err := f.svc.ParseDocument(context.Background(), "/tmp/daily.xlsx")

		require.NoError(t, err)
		assert.Equal(t, 3, n)
		assert.Len(t, f.svc.Pending(), 3)
	})

	t.Run("parse error leaves batch untouched", func(t *testing.T) {
		f := newBatchFixture(t, domain.PolicyPromoteAll)
		f.svc.LoadParsedReports(makeReports(2))
		f.svc.Toggle(0)
		f.parser.EXPECT().Parse(mock.Anything, "/tmp/broken.xlsx").Return(nil, errors.New("zip: not a valid zip file"))

		_, err := f.svc.ParseDocument(context.Background(), "/tmp/broken.xlsx")

		assert.ErrorIs(t, err, domain.ErrParse)
		assert.Len(t, f.svc.Pending(), 2)
		assert.Equal(t, []int{0}, f.svc.Selection())
		assert.ErrorIs(t, f.svc.Err(), domain.ErrParse)
	})

	t.Run("empty document", func(t *testing.T) {
		f := newBatchFixture(t, domain.PolicyPromoteAll)
		f.parser.EXPECT().Parse(mock.Anything, "/tmp/empty.xlsx").Return([]domain.Report{}, nil)

		_, err := f.svc.ParseDocument(context.Background(), "/tmp/empty.xlsx")

		assert.ErrorIs(t, err, domain.ErrNoReports)
		assert.Empty(t, f.svc.Pending())
	})
}

func TestHistory(t *testing.T) {
	f := newBatchFixture(t, domain.PolicyPromoteAll)
	f.history.EXPECT().List(mock.Anything, 10).Return([]domain.UploadBatch{{ID: "b1"}}, nil)

	batches, err := f.svc.History(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, "b1", batches[0].ID)
}

func TestNewBatchService_DefaultPolicy(t *testing.T) {
	svc := NewBatchService(nil, nil, nil, activeSessions(), "")
	assert.Equal(t, domain.PolicyPromoteAll, svc.Policy())
}
