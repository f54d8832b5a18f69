package ports

import (
	"context"

	"github.com/siteops/dailyup/internal/domain"
)

// SessionStore persists the session record as one unit.
// Load returns (nil, nil) when nothing is stored.
type SessionStore interface {
	Clear(ctx context.Context) error
	Close() error
	Load(ctx context.Context) (*domain.Session, error)
	Save(ctx context.Context, session domain.Session) error
}
