package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusbooks/internal/domain/entity"
	"campusbooks/pkg/errors"
)

func seedListing(repo *fakeListingRepo, id, ownerID string, handles ...string) *entity.Listing {
	urls := make([]string, len(handles))
	for i, h := range handles {
		urls[i] = "https://media.example.com/" + h
	}
	listing := &entity.Listing{
		ID:             id,
		OwnerID:        ownerID,
		Title:          "Higher Engineering Mathematics",
		Year:           "2nd",
		Branch:         "cs",
		Condition:      "good",
		Price:          350,
		ImageURLs:      urls,
		ImagePublicIDs: append([]string(nil), handles...),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	repo.listings[id] = listing
	return listing
}

func validFields() ListingFields {
	return ListingFields{
		Title:     "Higher Engineering Mathematics",
		Year:      "2nd",
		Branch:    "cs",
		Condition: "good",
		Price:     350,
	}
}

func TestCreateListing_ImageCountValidation(t *testing.T) {
	repo := newFakeListingRepo()
	uc := NewListingUseCase(repo, &fakeMediaService{})

	_, err := uc.CreateListing(context.Background(), "seller-1", validFields(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	tooMany := []ImageInput{
		{URL: "u1", DeletionHandle: "h1"},
		{URL: "u2", DeletionHandle: "h2"},
		{URL: "u3", DeletionHandle: "h3"},
		{URL: "u4", DeletionHandle: "h4"},
	}
	_, err = uc.CreateListing(context.Background(), "seller-1", validFields(), tooMany)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	// Neither rejection reached the store.
	assert.Equal(t, 0, repo.createCalls)
}

func TestCreateListing_RequiresAuthentication(t *testing.T) {
	repo := newFakeListingRepo()
	uc := NewListingUseCase(repo, &fakeMediaService{})

	_, err := uc.CreateListing(context.Background(), "", validFields(), []ImageInput{{URL: "u1", DeletionHandle: "h1"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))
	assert.Equal(t, 0, repo.createCalls)
}

func TestCreateListing_StoresParallelImageLists(t *testing.T) {
	repo := newFakeListingRepo()
	uc := NewListingUseCase(repo, &fakeMediaService{})

	images := []ImageInput{
		{URL: "u1", DeletionHandle: "h1"},
		{URL: "u2", DeletionHandle: "h2"},
	}
	listing, err := uc.CreateListing(context.Background(), "seller-1", validFields(), images)
	require.NoError(t, err)

	assert.Equal(t, []string{"u1", "u2"}, listing.ImageURLs)
	assert.Equal(t, []string{"h1", "h2"}, listing.ImagePublicIDs)
	assert.Equal(t, "seller-1", listing.OwnerID)
}

func TestUpdateListing_ForbiddenForNonOwner(t *testing.T) {
	repo := newFakeListingRepo()
	media := &fakeMediaService{}
	uc := NewListingUseCase(repo, media)
	seedListing(repo, "l1", "seller-1", "h1")

	_, err := uc.UpdateListing(context.Background(), "l1", "intruder", validFields(), nil, []int{0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
	assert.Equal(t, 0, repo.updateCalls)
	assert.Empty(t, media.deletes)
}

func TestUpdateListing_RemovalKeepsListsAligned(t *testing.T) {
	repo := newFakeListingRepo()
	media := &fakeMediaService{}
	uc := NewListingUseCase(repo, media)
	seedListing(repo, "l1", "seller-1", "h1", "h2", "h3")

	result, err := uc.UpdateListing(context.Background(), "l1", "seller-1", validFields(), nil, []int{1})
	require.NoError(t, err)

	assert.Equal(t, []string{"https://media.example.com/h1", "https://media.example.com/h3"}, result.Listing.ImageURLs)
	assert.Equal(t, []string{"h1", "h3"}, result.Listing.ImagePublicIDs)
	assert.Equal(t, []string{"h2"}, media.deletes)
	require.Len(t, result.MediaOutcomes, 1)
	assert.True(t, result.MediaOutcomes[0].OK)
}

func TestUpdateListing_MultipleRemovalsHighestFirst(t *testing.T) {
	repo := newFakeListingRepo()
	media := &fakeMediaService{}
	uc := NewListingUseCase(repo, media)
	seedListing(repo, "l1", "seller-1", "h1", "h2", "h3")

	result, err := uc.UpdateListing(context.Background(), "l1", "seller-1", validFields(),
		[]ImageInput{{URL: "u4", DeletionHandle: "h4"}}, []int{0, 2})
	require.NoError(t, err)

	assert.Equal(t, []string{"h2", "h4"}, result.Listing.ImagePublicIDs)
	assert.Equal(t, []string{"h3", "h1"}, media.deletes)
}

func TestUpdateListing_OverLimitRejectedBeforeMediaCalls(t *testing.T) {
	repo := newFakeListingRepo()
	media := &fakeMediaService{}
	uc := NewListingUseCase(repo, media)
	seedListing(repo, "l1", "seller-1", "h1", "h2")

	adds := []ImageInput{
		{URL: "u3", DeletionHandle: "h3"},
		{URL: "u4", DeletionHandle: "h4"},
	}
	_, err := uc.UpdateListing(context.Background(), "l1", "seller-1", validFields(), adds, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
	assert.Empty(t, media.deletes)
	assert.Equal(t, 0, repo.updateCalls)
}

func TestUpdateListing_CannotRemoveLastImage(t *testing.T) {
	repo := newFakeListingRepo()
	media := &fakeMediaService{}
	uc := NewListingUseCase(repo, media)
	seedListing(repo, "l1", "seller-1", "h1")

	_, err := uc.UpdateListing(context.Background(), "l1", "seller-1", validFields(), nil, []int{0})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
	assert.Empty(t, media.deletes)
}

func TestUpdateListing_IndexOutOfRange(t *testing.T) {
	repo := newFakeListingRepo()
	uc := NewListingUseCase(repo, &fakeMediaService{})
	seedListing(repo, "l1", "seller-1", "h1", "h2")

	_, err := uc.UpdateListing(context.Background(), "l1", "seller-1", validFields(), nil, []int{2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
	assert.Equal(t, 0, repo.updateCalls)
}

func TestDeleteListing_SucceedsWhenMediaDeletionFails(t *testing.T) {
	repo := newFakeListingRepo()
	media := &fakeMediaService{failDeletes: true}
	uc := NewListingUseCase(repo, media)
	seedListing(repo, "l1", "seller-1", "h1", "h2", "h3")

	result, err := uc.DeleteListing(context.Background(), "l1", "seller-1")
	require.NoError(t, err)

	// Record is gone even though every asset deletion failed.
	_, err = repo.GetByID(context.Background(), "l1")
	assert.True(t, errors.Is(err, "NOT_FOUND"))

	require.Len(t, result.MediaOutcomes, 3)
	for _, outcome := range result.MediaOutcomes {
		assert.False(t, outcome.OK)
		assert.NotEmpty(t, outcome.Error)
	}
	assert.Equal(t, []string{"h1", "h2", "h3"}, media.deletes)
}

func TestDeleteListing_ForbiddenForNonOwner(t *testing.T) {
	repo := newFakeListingRepo()
	media := &fakeMediaService{}
	uc := NewListingUseCase(repo, media)
	seedListing(repo, "l1", "seller-1", "h1")

	_, err := uc.DeleteListing(context.Background(), "l1", "intruder")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
	assert.Equal(t, 0, repo.deleteCalls)
	assert.Empty(t, media.deletes)
}

func TestBrowseListings_ExcludesViewer(t *testing.T) {
	repo := newFakeListingRepo()
	uc := NewListingUseCase(repo, &fakeMediaService{})
	seedListing(repo, "l1", "seller-1", "h1")
	seedListing(repo, "l2", "seller-2", "h2")

	listings, total, err := uc.BrowseListings(context.Background(), "seller-1", "", "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, listings, 1)
	assert.Equal(t, "seller-2", listings[0].OwnerID)
}
