package repository

import (
	"context"

	"campusbooks/internal/domain/entity"
)

// ListingFilter carries the equality constraints the browse view supports.
// ExcludeOwnerID hides the current user's own listings from the browse grid.
type ListingFilter struct {
	Year           string
	Branch         string
	OwnerID        string
	ExcludeOwnerID string
}

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	Update(ctx context.Context, listing *entity.Listing) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListingFilter, limit, offset int) ([]*entity.Listing, int64, error)
	ListByOwnerID(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Listing, int64, error)
}
