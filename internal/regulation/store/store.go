// Package store persists regulations. The memory implementation backs unit
// tests and demo deployments; postgres is the production path. Both return
// sentinel errors for infrastructure facts and leave domain translation to the
// service layer.
package store

import (
	"context"

	"regwatch/internal/regulation/models"
	"regwatch/pkg/domain"
)

// Store is the persistence surface the regulation service depends on.
// List results preserve the store's display order; callers never re-sort.
type Store interface {
	List(ctx context.Context, q models.ListQuery) ([]domain.Regulation, int, error)
	Get(ctx context.Context, id string) (domain.Regulation, error)
	Create(ctx context.Context, reg domain.Regulation) error
	UpdateStatus(ctx context.Context, id string, status domain.ReviewStatus, comment string) error
	CountByStatus(ctx context.Context) (domain.StatusCounts, error)
}
