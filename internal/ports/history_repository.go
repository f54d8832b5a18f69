package ports

import (
	"context"

	"github.com/siteops/dailyup/internal/domain"
)

// HistoryRepository records upload attempts
type HistoryRepository interface {
	// List returns the most recent batches first; limit <= 0 returns all
	List(ctx context.Context, limit int) ([]domain.UploadBatch, error)
	Record(ctx context.Context, batch domain.UploadBatch) error
}
