package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/siteops/dailyup/internal/domain"
	"github.com/siteops/dailyup/internal/ports"
	portsmocks "github.com/siteops/dailyup/internal/ports/mocks"
)

const testEndpoint = "http://reports.test"

var baseTime = time.Date(2025, 10, 19, 8, 0, 0, 0, time.UTC)

// fakeClock is a settable clock shared with scheduler goroutines
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func loginResult() *ports.LoginResult {
	return &ports.LoginResult{
		AccessToken:       "access-1",
		RefreshCredential: "refresh-1",
		Identity:          domain.Identity{ID: 42, Username: "liwei", Phone: "13800000000"},
	}
}

func newTestSessionService(t *testing.T) (*SessionService, *portsmocks.MockGateway, *portsmocks.MockSessionStore, *fakeClock) {
	t.Helper()
	gateway := portsmocks.NewMockGateway(t)
	store := portsmocks.NewMockSessionStore(t)
	clock := &fakeClock{now: baseTime}

	svc := NewSessionService(gateway, store)
	svc.now = clock.Now
	t.Cleanup(svc.Close)

	return svc, gateway, store, clock
}

// loggedIn returns a service with an active session for user 42
func loggedIn(t *testing.T) (*SessionService, *portsmocks.MockGateway, *portsmocks.MockSessionStore, *fakeClock) {
	t.Helper()
	svc, gateway, store, clock := newTestSessionService(t)

	gateway.EXPECT().Login(mock.Anything, testEndpoint, "liwei", "secret").Return(loginResult(), nil).Once()
	store.EXPECT().Save(mock.Anything, mock.Anything).Return(nil).Once()

	_, err := svc.Login(context.Background(), "liwei", "secret", testEndpoint)
	require.NoError(t, err)
	return svc, gateway, store, clock
}

func TestLogin_Success(t *testing.T) {
	svc, gateway, store, _ := newTestSessionService(t)

	gateway.EXPECT().Login(mock.Anything, testEndpoint, "liwei", "secret").Return(loginResult(), nil)
	store.EXPECT().Save(mock.Anything, mock.MatchedBy(func(s domain.Session) bool {
		return s.AccessToken == "access-1" &&
			s.RefreshCredential == "refresh-1" &&
			s.ExpiresAt.Equal(baseTime.Add(24*time.Hour)) &&
			s.Identity.ID == 42 &&
			s.Endpoint == testEndpoint
	})).Return(nil)

	var events []SessionEvent
	svc.SetListener(func(e SessionEvent) { events = append(events, e) })

	session, err := svc.Login(context.Background(), " liwei ", "secret", testEndpoint+"/")

	require.NoError(t, err)
	assert.Equal(t, "access-1", session.AccessToken)
	assert.Equal(t, domain.ScreenUpload, svc.Screen())
	assert.True(t, svc.Session().Active())
	assert.True(t, svc.scheduler.Running())
	assert.NoError(t, svc.Err())
	require.Len(t, events, 1)
	assert.Equal(t, EventLoggedIn, events[0].Kind)
	assert.Equal(t, domain.ScreenUpload, events[0].Screen)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, gateway, _, _ := newTestSessionService(t)

	gateway.EXPECT().Login(mock.Anything, testEndpoint, "liwei", "wrong").
		Return(nil, errors.New("invalid username or password"))

	session, err := svc.Login(context.Background(), "liwei", "wrong", testEndpoint)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuth)
	assert.Nil(t, session)
	assert.Equal(t, domain.ScreenLogin, svc.Screen())
	assert.Nil(t, svc.Session())
	assert.False(t, svc.scheduler.Running())
	assert.ErrorIs(t, svc.Err(), domain.ErrAuth)
}

func TestLogin_MissingFieldsSkipsGateway(t *testing.T) {
	svc, _, _, _ := newTestSessionService(t)

	_, err := svc.Login(context.Background(), "  ", "secret", testEndpoint)

	assert.ErrorIs(t, err, domain.ErrAuth)
	assert.ErrorIs(t, err, domain.ErrMissingFields)
	assert.Equal(t, domain.ScreenLogin, svc.Screen())
}

func TestLogin_EmptyTokenIsAuthError(t *testing.T) {
	svc, gateway, _, _ := newTestSessionService(t)

	gateway.EXPECT().Login(mock.Anything, testEndpoint, "liwei", "secret").
		Return(&ports.LoginResult{}, nil)

	_, err := svc.Login(context.Background(), "liwei", "secret", testEndpoint)

	assert.ErrorIs(t, err, domain.ErrAuth)
	assert.Equal(t, domain.ScreenLogin, svc.Screen())
}

func TestLogin_StoreFailureKeepsSession(t *testing.T) {
	svc, gateway, store, _ := newTestSessionService(t)

	gateway.EXPECT().Login(mock.Anything, testEndpoint, "liwei", "secret").Return(loginResult(), nil)
	store.EXPECT().Save(mock.Anything, mock.Anything).Return(errors.New("disk full"))

	_, err := svc.Login(context.Background(), "liwei", "secret", testEndpoint)

	require.NoError(t, err)
	assert.Equal(t, domain.ScreenUpload, svc.Screen())
}

func TestShouldRefresh(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    bool
	}{
		{"fresh login", 0, false},
		{"31 minutes left", 24*time.Hour - 31*time.Minute, false},
		{"exactly 30 minutes left", 24*time.Hour - 30*time.Minute, false},
		{"29 minutes left", 24*time.Hour - 29*time.Minute, true},
		{"expired", 25 * time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, clock := loggedIn(t)
			clock.Set(baseTime.Add(tt.elapsed))
			assert.Equal(t, tt.want, svc.ShouldRefresh())
		})
	}
}

func TestShouldRefresh_NoSession(t *testing.T) {
	svc, _, _, clock := newTestSessionService(t)
	clock.Set(baseTime.Add(100 * time.Hour))
	assert.False(t, svc.ShouldRefresh())
}

func TestLogout_Idempotent(t *testing.T) {
	svc, _, store, _ := loggedIn(t)
	store.EXPECT().Clear(mock.Anything).Return(nil).Times(2)

	var events []SessionEvent
	svc.SetListener(func(e SessionEvent) { events = append(events, e) })

	svc.Logout(context.Background())
	firstScreen, firstSession, firstProject := svc.Screen(), svc.Session(), svc.Project()

	svc.Logout(context.Background())

	assert.Equal(t, domain.ScreenLogin, firstScreen)
	assert.Nil(t, firstSession)
	assert.Nil(t, firstProject)
	assert.Equal(t, firstScreen, svc.Screen())
	assert.Equal(t, firstSession, svc.Session())
	assert.Equal(t, firstProject, svc.Project())
	assert.False(t, svc.scheduler.Running())
	require.Len(t, events, 1, "only the first logout changes state")
	assert.Equal(t, EventLoggedOut, events[0].Kind)
}

func TestLogout_WithoutSession(t *testing.T) {
	svc, _, store, _ := newTestSessionService(t)
	store.EXPECT().Clear(mock.Anything).Return(nil)

	svc.Logout(context.Background())

	assert.Equal(t, domain.ScreenLogin, svc.Screen())
	assert.Nil(t, svc.Session())
}

func TestRefresh_Success(t *testing.T) {
	svc, gateway, store, clock := loggedIn(t)
	later := baseTime.Add(23*time.Hour + 45*time.Minute)
	clock.Set(later)

	gateway.EXPECT().RefreshToken(mock.Anything, testEndpoint, "refresh-1").Return("access-2", nil)
	store.EXPECT().Save(mock.Anything, mock.MatchedBy(func(s domain.Session) bool {
		return s.AccessToken == "access-2" && s.RefreshCredential == "refresh-1"
	})).Return(nil)

	token, err := svc.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "access-2", token)
	session := svc.Session()
	assert.Equal(t, "access-2", session.AccessToken)
	assert.Equal(t, "refresh-1", session.RefreshCredential)
	assert.Equal(t, int64(42), session.Identity.ID)
	assert.True(t, session.ExpiresAt.Equal(later.Add(24*time.Hour)))
	assert.False(t, svc.ShouldRefresh())
}

func TestRefresh_RejectedLogsOut(t *testing.T) {
	svc, gateway, store, _ := loggedIn(t)

	gateway.EXPECT().RefreshToken(mock.Anything, testEndpoint, "refresh-1").
		Return("", errors.New("refresh token expired"))
	store.EXPECT().Clear(mock.Anything).Return(nil)

	var events []SessionEvent
	svc.SetListener(func(e SessionEvent) { events = append(events, e) })

	_, err := svc.Refresh(context.Background())

	assert.ErrorIs(t, err, domain.ErrAuth)
	assert.Nil(t, svc.Session())
	assert.Equal(t, domain.ScreenLogin, svc.Screen())
	assert.False(t, svc.scheduler.Running())
	require.Len(t, events, 1)
	assert.Equal(t, EventSessionLost, events[0].Kind)
	assert.Equal(t, domain.ScreenLogin, events[0].Screen)
	assert.ErrorIs(t, events[0].Err, domain.ErrAuth)
}

func TestRefresh_NoSession(t *testing.T) {
	svc, _, _, _ := newTestSessionService(t)

	_, err := svc.Refresh(context.Background())

	assert.ErrorIs(t, err, domain.ErrAuth)
	assert.ErrorIs(t, err, domain.ErrNoSession)
}

func TestRefresh_LogoutWinsOverLateSuccess(t *testing.T) {
	svc, gateway, store, _ := loggedIn(t)

	started := make(chan struct{})
	release := make(chan struct{})
	gateway.EXPECT().RefreshToken(mock.Anything, testEndpoint, "refresh-1").
		RunAndReturn(func(ctx context.Context, endpoint, credential string) (string, error) {
			close(started)
			<-release
			return "access-late", nil
		})
	store.EXPECT().Clear(mock.Anything).Return(nil).Once()

	done := make(chan error, 1)
	go func() {
		_, err := svc.Refresh(context.Background())
		done <- err
	}()

	<-started
	svc.Logout(context.Background())
	close(release)
	err := <-done

	assert.ErrorIs(t, err, domain.ErrSessionEnded)
	assert.Nil(t, svc.Session())
	assert.Equal(t, domain.ScreenLogin, svc.Screen())
}

func TestRefresh_LateFailureDoesNotEndNewSession(t *testing.T) {
	svc, gateway, store, _ := loggedIn(t)

	started := make(chan struct{})
	release := make(chan struct{})
	gateway.EXPECT().RefreshToken(mock.Anything, testEndpoint, "refresh-1").
		RunAndReturn(func(ctx context.Context, endpoint, credential string) (string, error) {
			close(started)
			<-release
			return "", errors.New("rejected")
		})
	gateway.EXPECT().Login(mock.Anything, testEndpoint, "liwei", "secret").Return(loginResult(), nil)
	store.EXPECT().Save(mock.Anything, mock.Anything).Return(nil)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Refresh(context.Background())
		done <- err
	}()

	<-started
	_, err := svc.Login(context.Background(), "liwei", "secret", testEndpoint)
	require.NoError(t, err)
	close(release)

	assert.ErrorIs(t, <-done, domain.ErrAuth)
	assert.True(t, svc.Session().Active(), "the newer session survives")
	assert.Equal(t, domain.ScreenUpload, svc.Screen())
}

func TestRefresh_ConcurrentCallsShareOneRequest(t *testing.T) {
	svc, gateway, store, _ := loggedIn(t)

	started := make(chan struct{})
	release := make(chan struct{})
	gateway.EXPECT().RefreshToken(mock.Anything, testEndpoint, "refresh-1").
		RunAndReturn(func(ctx context.Context, endpoint, credential string) (string, error) {
			close(started)
			<-release
			return "access-2", nil
		}).Once()
	store.EXPECT().Save(mock.Anything, mock.Anything).Return(nil).Once()

	results := make(chan string, 2)
	go func() {
		token, _ := svc.Refresh(context.Background())
		results <- token
	}()
	<-started
	go func() {
		token, _ := svc.Refresh(context.Background())
		results <- token
	}()
	time.Sleep(50 * time.Millisecond)
	close(release)

	assert.Equal(t, "access-2", <-results)
	assert.Equal(t, "access-2", <-results)
}

func TestScheduledRenewal_RejectedCredentialLogsOut(t *testing.T) {
	svc, gateway, store, clock := newTestSessionService(t)
	svc.scheduler = NewRenewalScheduler(5 * time.Millisecond)

	gateway.EXPECT().Login(mock.Anything, testEndpoint, "liwei", "secret").Return(loginResult(), nil)
	store.EXPECT().Save(mock.Anything, mock.Anything).Return(nil)
	gateway.EXPECT().RefreshToken(mock.Anything, testEndpoint, "refresh-1").
		Return("", errors.New("refresh rejected")).Once()
	store.EXPECT().Clear(mock.Anything).Return(nil).Once()

	lost := make(chan SessionEvent, 1)
	svc.SetListener(func(e SessionEvent) {
		if e.Kind == EventSessionLost {
			lost <- e
		}
	})

	_, err := svc.Login(context.Background(), "liwei", "secret", testEndpoint)
	require.NoError(t, err)

	clock.Set(baseTime.Add(23*time.Hour + 40*time.Minute))

	select {
	case e := <-lost:
		assert.Equal(t, domain.ScreenLogin, e.Screen)
	case <-time.After(2 * time.Second):
		t.Fatal("session was not ended by the scheduler")
	}
	assert.Nil(t, svc.Session())
	assert.Equal(t, domain.ScreenLogin, svc.Screen())
	assert.Eventually(t, func() bool { return svc.scheduler.activeLoops() == 0 }, time.Second, time.Millisecond)
}

func TestScheduledRenewal_FreshTokenNotRefreshed(t *testing.T) {
	svc, gateway, store, _ := newTestSessionService(t)
	svc.scheduler = NewRenewalScheduler(2 * time.Millisecond)

	gateway.EXPECT().Login(mock.Anything, testEndpoint, "liwei", "secret").Return(loginResult(), nil)
	store.EXPECT().Save(mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Login(context.Background(), "liwei", "secret", testEndpoint)
	require.NoError(t, err)

	// RefreshToken has no expectation; a call would fail the test
	time.Sleep(30 * time.Millisecond)
	assert.True(t, svc.Session().Active())
}

func TestSecondLogin_SingleScheduler(t *testing.T) {
	svc, gateway, store, _ := newTestSessionService(t)
	svc.scheduler = NewRenewalScheduler(5 * time.Millisecond)

	gateway.EXPECT().Login(mock.Anything, testEndpoint, "liwei", "secret").Return(loginResult(), nil).Times(2)
	store.EXPECT().Save(mock.Anything, mock.Anything).Return(nil).Times(2)

	_, err := svc.Login(context.Background(), "liwei", "secret", testEndpoint)
	require.NoError(t, err)
	_, err = svc.Login(context.Background(), "liwei", "secret", testEndpoint)
	require.NoError(t, err)

	assert.True(t, svc.scheduler.Running())
	assert.Eventually(t, func() bool { return svc.scheduler.activeLoops() == 1 }, time.Second, time.Millisecond)
}

func TestGetProject_Success(t *testing.T) {
	svc, gateway, _, _ := loggedIn(t)
	project := &domain.Project{ID: 7, Name: "淮安项目", Manager: "王工"}

	gateway.EXPECT().GetProject(mock.Anything, testEndpoint, "access-1").Return(project, nil)

	got, err := svc.GetProject(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, "淮安项目", svc.Project().Name)
	assert.False(t, svc.Loading())
}

func TestGetProject_NoSession(t *testing.T) {
	svc, _, _, _ := newTestSessionService(t)

	_, err := svc.GetProject(context.Background())

	assert.ErrorIs(t, err, domain.ErrFetch)
	assert.ErrorIs(t, svc.Err(), domain.ErrFetch)
}

func TestGetProject_FailureLeavesSession(t *testing.T) {
	svc, gateway, _, _ := loggedIn(t)
	before := svc.Session()

	gateway.EXPECT().GetProject(mock.Anything, testEndpoint, "access-1").
		Return(nil, errors.New("502 bad gateway"))

	_, err := svc.GetProject(context.Background())

	assert.ErrorIs(t, err, domain.ErrFetch)
	assert.Equal(t, before, svc.Session())
	assert.Equal(t, domain.ScreenUpload, svc.Screen())
	assert.Nil(t, svc.Project())
	assert.ErrorIs(t, svc.Err(), domain.ErrFetch)
}

func TestGetProject_ResultAfterLogoutDiscarded(t *testing.T) {
	svc, gateway, store, _ := loggedIn(t)

	started := make(chan struct{})
	release := make(chan struct{})
	gateway.EXPECT().GetProject(mock.Anything, testEndpoint, "access-1").
		RunAndReturn(func(ctx context.Context, endpoint, token string) (*domain.Project, error) {
			close(started)
			<-release
			return &domain.Project{ID: 7}, nil
		})
	store.EXPECT().Clear(mock.Anything).Return(nil)

	done := make(chan error, 1)
	go func() {
		_, err := svc.GetProject(context.Background())
		done <- err
	}()
	<-started
	svc.Logout(context.Background())
	close(release)

	assert.ErrorIs(t, <-done, domain.ErrSessionEnded)
	assert.Nil(t, svc.Project())
}

func TestRestore(t *testing.T) {
	t.Run("nothing stored", func(t *testing.T) {
		svc, _, store, _ := newTestSessionService(t)
		store.EXPECT().Load(mock.Anything).Return(nil, nil)

		require.NoError(t, svc.Restore(context.Background()))
		assert.Equal(t, domain.ScreenLogin, svc.Screen())
	})

	t.Run("expired session is cleared", func(t *testing.T) {
		svc, _, store, _ := newTestSessionService(t)
		store.EXPECT().Load(mock.Anything).Return(&domain.Session{
			AccessToken: "old", ExpiresAt: baseTime.Add(-time.Minute), Endpoint: testEndpoint,
		}, nil)
		store.EXPECT().Clear(mock.Anything).Return(nil)

		require.NoError(t, svc.Restore(context.Background()))
		assert.Equal(t, domain.ScreenLogin, svc.Screen())
		assert.Nil(t, svc.Session())
	})

	t.Run("valid session resumes", func(t *testing.T) {
		svc, _, store, _ := newTestSessionService(t)
		store.EXPECT().Load(mock.Anything).Return(&domain.Session{
			AccessToken: "stored", RefreshCredential: "r", ExpiresAt: baseTime.Add(10 * time.Hour),
			Endpoint: testEndpoint, Identity: domain.Identity{ID: 42},
		}, nil)

		require.NoError(t, svc.Restore(context.Background()))
		assert.Equal(t, domain.ScreenUpload, svc.Screen())
		assert.Equal(t, "stored", svc.Session().AccessToken)
		assert.True(t, svc.scheduler.Running())
	})

	t.Run("near expiry refreshes immediately", func(t *testing.T) {
		svc, gateway, store, _ := newTestSessionService(t)
		store.EXPECT().Load(mock.Anything).Return(&domain.Session{
			AccessToken: "stored", RefreshCredential: "r", ExpiresAt: baseTime.Add(10 * time.Minute),
			Endpoint: testEndpoint, Identity: domain.Identity{ID: 42},
		}, nil)
		gateway.EXPECT().RefreshToken(mock.Anything, testEndpoint, "r").Return("fresh", nil)
		store.EXPECT().Save(mock.Anything, mock.Anything).Return(nil)

		require.NoError(t, svc.Restore(context.Background()))
		assert.Equal(t, "fresh", svc.Session().AccessToken)
	})

	t.Run("refresh rejected at restore logs out", func(t *testing.T) {
		svc, gateway, store, _ := newTestSessionService(t)
		store.EXPECT().Load(mock.Anything).Return(&domain.Session{
			AccessToken: "stored", RefreshCredential: "r", ExpiresAt: baseTime.Add(10 * time.Minute),
			Endpoint: testEndpoint, Identity: domain.Identity{ID: 42},
		}, nil)
		gateway.EXPECT().RefreshToken(mock.Anything, testEndpoint, "r").Return("", errors.New("revoked"))
		store.EXPECT().Clear(mock.Anything).Return(nil)

		err := svc.Restore(context.Background())
		assert.ErrorIs(t, err, domain.ErrAuth)
		assert.Equal(t, domain.ScreenLogin, svc.Screen())
	})
}

func TestNormalizeEndpoint(t *testing.T) {
	assert.Equal(t, "http://42.192.76.234:8081", NormalizeEndpoint(" 42.192.76.234:8081/ "))
	assert.Equal(t, "https://api.example.com", NormalizeEndpoint("https://api.example.com//"))
	assert.Equal(t, "", NormalizeEndpoint("  "))
}
