package domain

import "time"

// Screen is the process-wide view state driven by the session lifecycle
type Screen string

const (
	ScreenLogin  Screen = "login"
	ScreenUpload Screen = "upload"
)

// Session timing constants
const (
	RefreshThreshold = 30 * time.Minute
	RenewalInterval  = 5 * time.Minute
	SessionValidity  = 24 * time.Hour
)

// Identity holds the user attributes returned at login
type Identity struct {
	DisplayName string `json:"display_name,omitempty"`
	Email       string `json:"email,omitempty"`
	ID          int64  `json:"id"`
	Phone       string `json:"phone,omitempty"`
	Role        string `json:"role,omitempty"`
	Username    string `json:"username"`
}

// Name returns the best human-readable name for the identity
func (i Identity) Name() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	return i.Username
}

// Session is the authenticated credential material for the current user (domain entity)
type Session struct {
	AccessToken       string
	Endpoint          string
	ExpiresAt         time.Time
	Identity          Identity
	RefreshCredential string
}

// Active reports whether the session carries an access token.
// A nil session is never active.
func (s *Session) Active() bool {
	return s != nil && s.AccessToken != ""
}

// Remaining returns the validity left at now (negative once expired)
func (s *Session) Remaining(now time.Time) time.Duration {
	if s == nil {
		return 0
	}
	return s.ExpiresAt.Sub(now)
}

// NeedsRefresh is true when the remaining validity is below RefreshThreshold
func (s *Session) NeedsRefresh(now time.Time) bool {
	if !s.Active() {
		return false
	}
	return s.Remaining(now) < RefreshThreshold
}

// Expired is true once ExpiresAt has passed
func (s *Session) Expired(now time.Time) bool {
	return s.Active() && !now.Before(s.ExpiresAt)
}

// ExpiresAtMillis returns the expiry as epoch milliseconds
func (s *Session) ExpiresAtMillis() int64 {
	return s.ExpiresAt.UnixMilli()
}

// RedactToken returns a short prefix of a token safe for logs and status output
func RedactToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:8] + "…"
}
