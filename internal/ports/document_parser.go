package ports

import (
	"context"

	"github.com/siteops/dailyup/internal/domain"
)

// DocumentParser turns a report document into parsed report rows
type DocumentParser interface {
	Parse(ctx context.Context, path string) ([]domain.Report, error)
}
