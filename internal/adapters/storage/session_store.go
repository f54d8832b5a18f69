package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/siteops/dailyup/internal/domain"
	"github.com/siteops/dailyup/internal/logging"
	"github.com/siteops/dailyup/internal/ports"
)

const (
	accessLabel  = "sessions.access_token"
	refreshLabel = "sessions.refresh_credential"
)

// SessionStore persists the session record in SQLite with sealed tokens
type SessionStore struct {
	db     *Database
	sealer *Sealer
}

// Verify interface compliance at compile time
var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a SessionStore on db
func NewSessionStore(db *Database, sealer *Sealer) *SessionStore {
	return &SessionStore{db: db, sealer: sealer}
}

// Load returns the stored session, or nil when none is stored. A record that
// can no longer be opened (rotated key) is discarded.
func (s *SessionStore) Load(ctx context.Context) (*domain.Session, error) {
	var model SessionModel
	found := true
	err := withRetry(func() error {
		err := s.db.db.WithContext(ctx).First(&model, sessionRowID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			found = false
			return nil
		}
		return err
	}, maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !found {
		return nil, nil
	}

	access, err := s.sealer.Open(model.SealedAccess, accessLabel)
	if err != nil {
		logging.Logger.Warn("Stored session could not be opened, discarding", "error", err)
		return nil, s.Clear(ctx)
	}
	refresh := ""
	if len(model.SealedRefresh) > 0 {
		refresh, err = s.sealer.Open(model.SealedRefresh, refreshLabel)
		if err != nil {
			logging.Logger.Warn("Stored refresh credential could not be opened, discarding", "error", err)
			return nil, s.Clear(ctx)
		}
	}

	session := sessionModelToDomain(model, access, refresh)
	return &session, nil
}

// Save replaces the stored session
func (s *SessionStore) Save(ctx context.Context, session domain.Session) error {
	access, err := s.sealer.Seal(session.AccessToken, accessLabel)
	if err != nil {
		return err
	}
	var refresh []byte
	if session.RefreshCredential != "" {
		if refresh, err = s.sealer.Seal(session.RefreshCredential, refreshLabel); err != nil {
			return err
		}
	}
	model := domainToSessionModel(session, access, refresh)

	return withRetry(func() error {
		return s.db.db.WithContext(ctx).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(&model).Error
	}, maxRetries)
}

// Clear removes the stored session
func (s *SessionStore) Clear(ctx context.Context) error {
	return withRetry(func() error {
		return s.db.db.WithContext(ctx).Delete(&SessionModel{}, sessionRowID).Error
	}, maxRetries)
}

// Close closes the underlying database
func (s *SessionStore) Close() error {
	return s.db.Close()
}
