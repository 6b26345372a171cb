package usecase

import (
	"context"
	"sort"
	"time"

	"campusbooks/internal/domain/entity"
	"campusbooks/internal/domain/repository"
	"campusbooks/internal/domain/service"
	"campusbooks/pkg/errors"
	"campusbooks/pkg/logger"
)

type ListingUseCase struct {
	listingRepo repository.ListingRepository
	media       service.MediaService
}

func NewListingUseCase(listingRepo repository.ListingRepository, media service.MediaService) *ListingUseCase {
	return &ListingUseCase{
		listingRepo: listingRepo,
		media:       media,
	}
}

type ListingFields struct {
	Title       string
	Year        string
	Branch      string
	Condition   string
	Price       int64
	Description string
}

// ImageInput is an already-uploaded asset: its public URL and the handle
// needed to delete it again.
type ImageInput struct {
	URL            string
	DeletionHandle string
}

// MediaOutcome records one best-effort media deletion. Failures here never
// fail the operation that triggered them; they are reported alongside it.
type MediaOutcome struct {
	DeletionHandle string `json:"deletion_handle"`
	OK             bool   `json:"ok"`
	Error          string `json:"error,omitempty"`
}

type EditListingResult struct {
	Listing       *entity.Listing `json:"listing"`
	MediaOutcomes []MediaOutcome  `json:"media_outcomes,omitempty"`
}

type DeleteListingResult struct {
	MediaOutcomes []MediaOutcome `json:"media_outcomes,omitempty"`
}

func (uc *ListingUseCase) CreateListing(ctx context.Context, ownerID string, fields ListingFields, images []ImageInput) (*entity.Listing, error) {
	if ownerID == "" {
		return nil, errors.Unauthorized("You must be signed in to list a book", nil)
	}
	if len(images) == 0 {
		return nil, errors.BadRequest("At least one image is required", nil)
	}
	if len(images) > entity.MaxListingImages {
		return nil, errors.BadRequest("Maximum 3 images allowed", nil)
	}
	if fields.Price < 0 {
		return nil, errors.BadRequest("Price cannot be negative", nil)
	}

	urls := make([]string, len(images))
	handles := make([]string, len(images))
	for i, img := range images {
		urls[i] = img.URL
		handles[i] = img.DeletionHandle
	}

	now := time.Now()
	listing := &entity.Listing{
		OwnerID:        ownerID,
		Title:          fields.Title,
		Year:           fields.Year,
		Branch:         fields.Branch,
		Condition:      fields.Condition,
		Price:          fields.Price,
		Description:    fields.Description,
		ImageURLs:      urls,
		ImagePublicIDs: handles,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		return nil, err
	}

	return listing, nil
}

// UpdateListing edits a listing. Ownership is verified against the loaded
// record before anything else; validation of the resulting image count
// happens before any media call, so an over-limit request touches nothing.
// Image removals delete the backing asset immediately and splice both
// parallel lists at the same index; additions append in order.
func (uc *ListingUseCase) UpdateListing(ctx context.Context, id, ownerID string, fields ListingFields, addImages []ImageInput, removeIndices []int) (*EditListingResult, error) {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if listing.OwnerID != ownerID {
		return nil, errors.Forbidden("You don't have permission to edit this listing", nil)
	}

	removeIndices = dedupeIndices(removeIndices)
	for _, idx := range removeIndices {
		if idx < 0 || idx >= len(listing.ImageURLs) {
			return nil, errors.BadRequest("Image index out of range", nil)
		}
	}

	finalCount := len(listing.ImageURLs) - len(removeIndices) + len(addImages)
	if finalCount == 0 {
		return nil, errors.BadRequest("At least one image is required", nil)
	}
	if finalCount > entity.MaxListingImages {
		return nil, errors.BadRequest("Maximum 3 images allowed", nil)
	}
	if fields.Price < 0 {
		return nil, errors.BadRequest("Price cannot be negative", nil)
	}

	// Remove highest index first so earlier indices stay valid.
	var outcomes []MediaOutcome
	for i := len(removeIndices) - 1; i >= 0; i-- {
		idx := removeIndices[i]
		handle := listing.ImagePublicIDs[idx]

		outcome := MediaOutcome{DeletionHandle: handle, OK: true}
		if err := uc.media.Delete(ctx, handle); err != nil {
			logger.Warn("Failed to delete media asset %s for listing %s: %v", handle, id, err)
			outcome.OK = false
			outcome.Error = err.Error()
		}
		outcomes = append(outcomes, outcome)

		listing.ImageURLs = append(listing.ImageURLs[:idx], listing.ImageURLs[idx+1:]...)
		listing.ImagePublicIDs = append(listing.ImagePublicIDs[:idx], listing.ImagePublicIDs[idx+1:]...)
	}

	for _, img := range addImages {
		listing.ImageURLs = append(listing.ImageURLs, img.URL)
		listing.ImagePublicIDs = append(listing.ImagePublicIDs, img.DeletionHandle)
	}

	listing.Title = fields.Title
	listing.Year = fields.Year
	listing.Branch = fields.Branch
	listing.Condition = fields.Condition
	listing.Price = fields.Price
	listing.Description = fields.Description

	if err := uc.listingRepo.Update(ctx, listing); err != nil {
		return nil, err
	}

	return &EditListingResult{
		Listing:       listing,
		MediaOutcomes: outcomes,
	}, nil
}

// DeleteListing removes the listing record first, then attempts to delete
// its media assets. Media failures are logged and reported in the result but
// never fail the delete: a dangling asset beats a listing that cannot be
// removed because of an unrelated media-service fault.
func (uc *ListingUseCase) DeleteListing(ctx context.Context, id, ownerID string) (*DeleteListingResult, error) {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if listing.OwnerID != ownerID {
		return nil, errors.Forbidden("You don't have permission to delete this listing", nil)
	}

	if err := uc.listingRepo.Delete(ctx, id); err != nil {
		return nil, err
	}

	var outcomes []MediaOutcome
	for _, handle := range listing.ImagePublicIDs {
		outcome := MediaOutcome{DeletionHandle: handle, OK: true}
		if err := uc.media.Delete(ctx, handle); err != nil {
			logger.Warn("Failed to delete media asset %s for deleted listing %s: %v", handle, id, err)
			outcome.OK = false
			outcome.Error = err.Error()
		}
		outcomes = append(outcomes, outcome)
	}

	return &DeleteListingResult{MediaOutcomes: outcomes}, nil
}

func (uc *ListingUseCase) GetListingByID(ctx context.Context, id string) (*entity.Listing, error) {
	return uc.listingRepo.GetByID(ctx, id)
}

// BrowseListings serves the marketplace grid: equality filters on year and
// branch, with the viewer's own listings excluded when signed in.
func (uc *ListingUseCase) BrowseListings(ctx context.Context, viewerID, year, branch string, page, limit int) ([]*entity.Listing, int64, error) {
	filter := repository.ListingFilter{
		Year:           year,
		Branch:         branch,
		ExcludeOwnerID: viewerID,
	}

	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}

	return uc.listingRepo.List(ctx, filter, limit, offset)
}

func (uc *ListingUseCase) ListMyListings(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Listing, int64, error) {
	return uc.listingRepo.ListByOwnerID(ctx, ownerID, limit, offset)
}

func dedupeIndices(indices []int) []int {
	seen := make(map[int]bool, len(indices))
	var out []int
	for _, idx := range indices {
		if !seen[idx] {
			seen[idx] = true
			out = append(out, idx)
		}
	}
	sort.Ints(out)
	return out
}
