package repository

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"campusbooks/internal/domain/entity"
	"campusbooks/internal/domain/repository"
	"campusbooks/pkg/errors"
)

type firestoreListingRepository struct {
	client *firestore.Client
}

func NewFirestoreListingRepository(client *firestore.Client) repository.ListingRepository {
	return &firestoreListingRepository{
		client: client,
	}
}

func (r *firestoreListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	if listing.ID == "" {
		doc := r.client.Collection("books").NewDoc()
		listing.ID = doc.ID
	}

	now := time.Now()
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = now
	}
	listing.UpdatedAt = now

	_, err := r.client.Collection("books").Doc(listing.ID).Set(ctx, listing)
	if err != nil {
		return errors.Internal("Failed to create listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	doc, err := r.client.Collection("books").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Listing", err)
		}
		return nil, errors.Internal("Failed to get listing", err)
	}

	var listing entity.Listing
	if err := doc.DataTo(&listing); err != nil {
		return nil, errors.Internal("Failed to parse listing data", err)
	}
	listing.ID = doc.Ref.ID

	return &listing, nil
}

func (r *firestoreListingRepository) Update(ctx context.Context, listing *entity.Listing) error {
	listing.UpdatedAt = time.Now()

	_, err := r.client.Collection("books").Doc(listing.ID).Set(ctx, listing)
	if err != nil {
		return errors.Internal("Failed to update listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("books").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete listing", err)
	}

	return nil
}

func (r *firestoreListingRepository) List(ctx context.Context, filter repository.ListingFilter, limit, offset int) ([]*entity.Listing, int64, error) {
	query := r.client.Collection("books").Query

	if filter.OwnerID != "" {
		query = query.Where("userId", "==", filter.OwnerID)
	}
	if filter.ExcludeOwnerID != "" {
		query = query.Where("userId", "!=", filter.ExcludeOwnerID)
	}
	if filter.Year != "" {
		query = query.Where("year", "==", filter.Year)
	}
	if filter.Branch != "" {
		query = query.Where("branch", "==", filter.Branch)
	}

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, mapQueryError("Failed to fetch listings", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var listings []*entity.Listing

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, mapQueryError("Failed to iterate listings", err)
		}
		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			return nil, 0, errors.Internal("Failed to parse listing data", err)
		}
		listing.ID = doc.Ref.ID
		listings = append(listings, &listing)
	}

	return listings, total, nil
}

func (r *firestoreListingRepository) ListByOwnerID(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Listing, int64, error) {
	query := r.client.Collection("books").Query.
		Where("userId", "==", ownerID).
		OrderBy("createdAt", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, mapQueryError("Failed to fetch owner listings", err)
	}
	total := int64(len(allDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var listings []*entity.Listing

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, mapQueryError("Failed to iterate owner listings", err)
		}

		var listing entity.Listing
		if err := doc.DataTo(&listing); err != nil {
			return nil, 0, errors.Internal("Failed to parse listing data", err)
		}
		listing.ID = doc.Ref.ID
		listings = append(listings, &listing)
	}

	return listings, total, nil
}

// mapQueryError distinguishes "composite index not built yet" from other
// query failures. Firestore rejects such queries with FailedPrecondition
// until the index exists; callers poll through that state instead of
// treating it as a hard error.
func mapQueryError(message string, err error) error {
	if status.Code(err) == codes.FailedPrecondition || strings.Contains(err.Error(), "requires an index") {
		return errors.IndexBuilding(message, err)
	}
	return errors.Internal(message, err)
}
