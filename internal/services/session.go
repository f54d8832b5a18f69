package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/siteops/dailyup/internal/domain"
	"github.com/siteops/dailyup/internal/logging"
	"github.com/siteops/dailyup/internal/ports"
)

// scheduledRefreshTimeout bounds one refresh triggered by the renewal scheduler
const scheduledRefreshTimeout = 30 * time.Second

// SessionEventKind identifies a session state change
type SessionEventKind string

const (
	EventLoggedIn      SessionEventKind = "logged_in"
	EventLoggedOut     SessionEventKind = "logged_out"
	EventProjectLoaded SessionEventKind = "project_loaded"
	EventRefreshed     SessionEventKind = "refreshed"
	EventSessionLost   SessionEventKind = "session_lost"
)

// SessionEvent is delivered to the listener after every state change
type SessionEvent struct {
	Err    error
	Kind   SessionEventKind
	Screen domain.Screen
}

// SessionService owns the single authentication session: login, logout,
// token renewal and the project assigned to the user
type SessionService struct {
	gateway   ports.Gateway
	scheduler *RenewalScheduler
	store     ports.SessionStore

	mu         sync.Mutex
	generation uint64
	lastErr    error
	listener   func(SessionEvent)
	loading    int
	project    *domain.Project
	screen     domain.Screen
	session    *domain.Session

	refreshGroup singleflight.Group
	now          func() time.Time
}

// NewSessionService creates a new SessionService
func NewSessionService(gateway ports.Gateway, store ports.SessionStore) *SessionService {
	return &SessionService{
		gateway:   gateway,
		store:     store,
		scheduler: NewRenewalScheduler(domain.RenewalInterval),
		screen:    domain.ScreenLogin,
		now:       time.Now,
	}
}

// SetListener registers the callback notified after state changes.
// The callback runs on the goroutine that caused the change.
func (s *SessionService) SetListener(fn func(SessionEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = fn
}

// Login authenticates against endpoint and activates the session
func (s *SessionService) Login(ctx context.Context, username, password, endpoint string) (*domain.Session, error) {
	username = strings.TrimSpace(username)
	endpoint = NormalizeEndpoint(endpoint)

	logging.Logger.Info("Logging in", "username", username, "endpoint", endpoint)

	if username == "" || password == "" || endpoint == "" {
		err := fmt.Errorf("%w: %w", domain.ErrAuth, domain.ErrMissingFields)
		s.setError(err)
		return nil, err
	}

	s.beginLoading()
	result, err := s.gateway.Login(ctx, endpoint, username, password)
	s.endLoading()
	if err == nil && (result == nil || result.AccessToken == "") {
		err = errors.New("server returned no access token")
	}
	if err != nil {
		logging.Logger.Warn("Login failed", "username", username, "error", err)
		wrapped := fmt.Errorf("%w: %w", domain.ErrAuth, err)
		s.setError(wrapped)
		return nil, wrapped
	}

	identity := result.Identity
	if identity.Username == "" {
		identity.Username = username
	}
	session := domain.Session{
		AccessToken:       result.AccessToken,
		Endpoint:          endpoint,
		ExpiresAt:         s.now().Add(domain.SessionValidity),
		Identity:          identity,
		RefreshCredential: result.RefreshCredential,
	}

	s.mu.Lock()
	s.generation++
	s.session = &session
	s.project = nil
	s.screen = domain.ScreenUpload
	s.lastErr = nil
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.scheduler.Start(s.renewalTick)

	logging.Logger.Info("Login successful",
		"user_id", identity.ID,
		"username", identity.Username,
		"expires_at", session.ExpiresAt)
	s.emit(SessionEvent{Kind: EventLoggedIn})

	copied := session
	return &copied, nil
}

// Logout stops renewal, clears the stored and in-memory session and
// returns to the login screen. Safe to call without a session.
func (s *SessionService) Logout(ctx context.Context) {
	s.endSession(ctx, EventLoggedOut, nil)
}

// Refresh mints a new access token. A rejected refresh ends the session.
// Concurrent calls share one gateway request.
func (s *SessionService) Refresh(ctx context.Context) (string, error) {
	v, err, shared := s.refreshGroup.Do("refresh", func() (any, error) {
		return s.refresh(ctx)
	})
	if shared {
		logging.Logger.Debug("Joined in-flight token refresh")
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (s *SessionService) refresh(ctx context.Context) (string, error) {
	s.mu.Lock()
	if !s.session.Active() {
		s.mu.Unlock()
		return "", fmt.Errorf("%w: %w", domain.ErrAuth, domain.ErrNoSession)
	}
	gen := s.generation
	endpoint := s.session.Endpoint
	credential := s.session.RefreshCredential
	s.mu.Unlock()

	logging.Logger.Info("Refreshing access token", "endpoint", endpoint)

	token, err := s.gateway.RefreshToken(ctx, endpoint, credential)
	if err == nil && token == "" {
		err = errors.New("server returned an empty token")
	}
	if err != nil {
		wrapped := fmt.Errorf("%w: token refresh rejected: %w", domain.ErrAuth, err)
		logging.Logger.Error("Token refresh failed, ending session", "error", err)
		s.endSessionIfCurrent(ctx, gen, wrapped)
		return "", wrapped
	}

	s.mu.Lock()
	if gen != s.generation || !s.session.Active() {
		s.mu.Unlock()
		logging.Logger.Info("Discarding refresh result for an ended session")
		return "", fmt.Errorf("%w: %w", domain.ErrAuth, domain.ErrSessionEnded)
	}
	s.session.AccessToken = token
	s.session.ExpiresAt = s.now().Add(domain.SessionValidity)
	expiresAt := s.session.ExpiresAt
	s.persistLocked(ctx)
	s.mu.Unlock()

	logging.Logger.Info("Access token refreshed", "expires_at", expiresAt)
	s.emit(SessionEvent{Kind: EventRefreshed})
	return token, nil
}

// ShouldRefresh is true when the session expires within the refresh threshold.
// False without a session.
func (s *SessionService) ShouldRefresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.NeedsRefresh(s.now())
}

// GetProject fetches the project assigned to the logged-in user.
// Failure sets the error indicator and leaves the session alone.
func (s *SessionService) GetProject(ctx context.Context) (*domain.Project, error) {
	s.mu.Lock()
	if !s.session.Active() {
		err := fmt.Errorf("%w: %w", domain.ErrFetch, domain.ErrNoSession)
		s.lastErr = err
		s.mu.Unlock()
		return nil, err
	}
	gen := s.generation
	endpoint := s.session.Endpoint
	token := s.session.AccessToken
	s.loading++
	s.mu.Unlock()

	project, err := s.gateway.GetProject(ctx, endpoint, token)
	if err == nil && project == nil {
		err = errors.New("server returned no project")
	}

	s.mu.Lock()
	s.loading--
	if err != nil {
		wrapped := fmt.Errorf("%w: %w", domain.ErrFetch, err)
		if gen == s.generation {
			s.lastErr = wrapped
		}
		s.mu.Unlock()
		logging.Logger.Warn("Failed to fetch project", "error", err)
		return nil, wrapped
	}
	if gen != s.generation {
		s.mu.Unlock()
		logging.Logger.Info("Discarding project for an ended session")
		return nil, fmt.Errorf("%w: %w", domain.ErrFetch, domain.ErrSessionEnded)
	}
	s.project = project
	s.lastErr = nil
	s.mu.Unlock()

	logging.Logger.Info("Project loaded", "project_id", project.ID, "name", project.Name)
	s.emit(SessionEvent{Kind: EventProjectLoaded})

	copied := *project
	return &copied, nil
}

// Restore reloads a persisted session at start-up. An expired record is
// discarded; one inside the refresh threshold is refreshed immediately.
func (s *SessionService) Restore(ctx context.Context) error {
	stored, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stored session: %w", err)
	}
	if !stored.Active() {
		logging.Logger.Debug("No stored session to restore")
		return nil
	}
	if stored.Expired(s.now()) {
		logging.Logger.Info("Stored session expired, clearing", "expired_at", stored.ExpiresAt)
		if err := s.store.Clear(ctx); err != nil {
			logging.Logger.Warn("Failed to clear expired session", "error", err)
		}
		return nil
	}

	s.mu.Lock()
	s.generation++
	s.session = stored
	s.project = nil
	s.screen = domain.ScreenUpload
	s.lastErr = nil
	needsRefresh := stored.NeedsRefresh(s.now())
	s.mu.Unlock()

	s.scheduler.Start(s.renewalTick)
	logging.Logger.Info("Session restored", "username", stored.Identity.Username, "expires_at", stored.ExpiresAt)
	s.emit(SessionEvent{Kind: EventLoggedIn})

	if needsRefresh {
		if _, err := s.Refresh(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close stops the renewal scheduler
func (s *SessionService) Close() {
	s.scheduler.Stop()
}

// Screen returns the current screen
func (s *SessionService) Screen() domain.Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen
}

// Session returns a copy of the active session or nil
func (s *SessionService) Session() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	copied := *s.session
	return &copied
}

// Project returns a copy of the loaded project or nil
func (s *SessionService) Project() *domain.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.project == nil {
		return nil
	}
	copied := *s.project
	return &copied
}

// Loading reports whether a login or project fetch is in flight
func (s *SessionService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading > 0
}

// Err returns the last error recorded by the service
func (s *SessionService) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// renewalTick is run by the scheduler; failures are logged, never propagated
func (s *SessionService) renewalTick() {
	if !s.ShouldRefresh() {
		logging.Logger.Debug("Renewal check: token still fresh")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), scheduledRefreshTimeout)
	defer cancel()

	if _, err := s.Refresh(ctx); err != nil {
		logging.Logger.Warn("Scheduled token refresh failed", "error", err)
	}
}

// endSessionIfCurrent ends the session only if it is still the one identified by gen
func (s *SessionService) endSessionIfCurrent(ctx context.Context, gen uint64, cause error) {
	s.mu.Lock()
	current := gen == s.generation
	s.mu.Unlock()
	if !current {
		return
	}
	s.endSession(ctx, EventSessionLost, cause)
}

func (s *SessionService) endSession(ctx context.Context, kind SessionEventKind, cause error) {
	s.scheduler.Stop()

	s.mu.Lock()
	hadSession := s.session != nil
	s.generation++
	s.session = nil
	s.project = nil
	s.screen = domain.ScreenLogin
	if cause != nil {
		s.lastErr = cause
	}
	if err := s.store.Clear(ctx); err != nil {
		logging.Logger.Warn("Failed to clear stored session", "error", err)
	}
	s.mu.Unlock()

	if hadSession {
		logging.Logger.Info("Session ended", "reason", string(kind))
		s.emit(SessionEvent{Kind: kind, Err: cause})
	}
}

// persistLocked writes the current session; a storage failure only costs
// persistence across restarts, so it is logged. Caller holds s.mu.
func (s *SessionService) persistLocked(ctx context.Context) {
	if s.session == nil {
		return
	}
	if err := s.store.Save(ctx, *s.session); err != nil {
		logging.Logger.Warn("Failed to persist session", "error", err)
	}
}

func (s *SessionService) beginLoading() {
	s.mu.Lock()
	s.loading++
	s.mu.Unlock()
}

func (s *SessionService) endLoading() {
	s.mu.Lock()
	s.loading--
	s.mu.Unlock()
}

func (s *SessionService) setError(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *SessionService) emit(event SessionEvent) {
	s.mu.Lock()
	listener := s.listener
	event.Screen = s.screen
	s.mu.Unlock()

	if listener != nil {
		listener(event)
	}
}

// NormalizeEndpoint trims whitespace and trailing slashes and adds a scheme when missing
func NormalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return ""
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "http://" + endpoint
	}
	return endpoint
}
