package storage

import (
	"context"
	"fmt"

	"github.com/siteops/dailyup/internal/domain"
	"github.com/siteops/dailyup/internal/ports"
)

// HistoryRepository implements ports.HistoryRepository on the upload_batches table
type HistoryRepository struct {
	db *Database
}

// Verify interface compliance at compile time
var _ ports.HistoryRepository = (*HistoryRepository)(nil)

// NewHistoryRepository creates a HistoryRepository on db
func NewHistoryRepository(db *Database) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Record stores one upload attempt
func (r *HistoryRepository) Record(ctx context.Context, batch domain.UploadBatch) error {
	if batch.ID == "" {
		return fmt.Errorf("upload batch has no id")
	}
	model := domainToBatchModel(batch)
	return withRetry(func() error {
		return r.db.db.WithContext(ctx).Create(&model).Error
	}, maxRetries)
}

// List returns recorded uploads, newest first
func (r *HistoryRepository) List(ctx context.Context, limit int) ([]domain.UploadBatch, error) {
	var models []UploadBatchModel
	err := withRetry(func() error {
		query := r.db.db.WithContext(ctx).Order("created_at DESC").Order("id")
		if limit > 0 {
			query = query.Limit(limit)
		}
		return query.Find(&models).Error
	}, maxRetries)
	if err != nil {
		return nil, fmt.Errorf("failed to list upload history: %w", err)
	}

	batches := make([]domain.UploadBatch, len(models))
	for i, m := range models {
		batches[i] = batchModelToDomain(m)
	}
	return batches, nil
}
