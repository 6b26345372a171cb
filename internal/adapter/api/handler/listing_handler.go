package handler

import (
	"github.com/labstack/echo/v4"

	"campusbooks/internal/usecase"
	"campusbooks/pkg/response"
	"campusbooks/pkg/utils"
)

type ListingHandler struct {
	listingUseCase *usecase.ListingUseCase
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase: listingUseCase,
	}
}

type imageRequest struct {
	URL            string `json:"url" validate:"required,url"`
	DeletionHandle string `json:"deletion_handle" validate:"required"`
}

type createListingRequest struct {
	Title       string         `json:"title" validate:"required"`
	Year        string         `json:"year" validate:"required,oneof=1st 2nd 3rd 4th"`
	Branch      string         `json:"branch" validate:"required,oneof=cs it mechanical chemical"`
	Condition   string         `json:"condition" validate:"required,oneof=new like-new good fair"`
	Price       int64          `json:"price" validate:"gte=0"`
	Description string         `json:"description" validate:"required"`
	Images      []imageRequest `json:"images" validate:"max=3,dive"`
}

type updateListingRequest struct {
	Title              string         `json:"title" validate:"required"`
	Year               string         `json:"year" validate:"required,oneof=1st 2nd 3rd 4th"`
	Branch             string         `json:"branch" validate:"required,oneof=cs it mechanical chemical"`
	Condition          string         `json:"condition" validate:"required,oneof=new like-new good fair"`
	Price              int64          `json:"price" validate:"gte=0"`
	Description        string         `json:"description" validate:"required"`
	AddImages          []imageRequest `json:"add_images" validate:"max=3,dive"`
	RemoveImageIndices []int          `json:"remove_image_indices"`
}

func (h *ListingHandler) CreateListing(c echo.Context) error {
	var req createListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	ownerID := c.Get("uid").(string)

	listing, err := h.listingUseCase.CreateListing(
		c.Request().Context(),
		ownerID,
		fieldsFromRequest(req.Title, req.Year, req.Branch, req.Condition, req.Price, req.Description),
		imagesFromRequest(req.Images),
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, listing)
}

func (h *ListingHandler) UpdateListing(c echo.Context) error {
	var req updateListingRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	ownerID := c.Get("uid").(string)

	result, err := h.listingUseCase.UpdateListing(
		c.Request().Context(),
		c.Param("id"),
		ownerID,
		fieldsFromRequest(req.Title, req.Year, req.Branch, req.Condition, req.Price, req.Description),
		imagesFromRequest(req.AddImages),
		req.RemoveImageIndices,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *ListingHandler) DeleteListing(c echo.Context) error {
	ownerID := c.Get("uid").(string)

	result, err := h.listingUseCase.DeleteListing(c.Request().Context(), c.Param("id"), ownerID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *ListingHandler) GetListing(c echo.Context) error {
	listing, err := h.listingUseCase.GetListingByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *ListingHandler) BrowseListings(c echo.Context) error {
	viewerID, _ := c.Get("uid").(string)
	params := utils.GetPaginationParams(c)

	listings, total, err := h.listingUseCase.BrowseListings(
		c.Request().Context(),
		viewerID,
		c.QueryParam("year"),
		c.QueryParam("branch"),
		params.Page,
		params.PageSize,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, listings, total, params.Page, params.PageSize)
}

func (h *ListingHandler) ListMyListings(c echo.Context) error {
	ownerID := c.Get("uid").(string)
	params := utils.GetPaginationParams(c)

	listings, total, err := h.listingUseCase.ListMyListings(c.Request().Context(), ownerID, params.PageSize, params.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, listings, total, params.Page, params.PageSize)
}

func fieldsFromRequest(title, year, branch, condition string, price int64, description string) usecase.ListingFields {
	return usecase.ListingFields{
		Title:       title,
		Year:        year,
		Branch:      branch,
		Condition:   condition,
		Price:       price,
		Description: description,
	}
}

func imagesFromRequest(images []imageRequest) []usecase.ImageInput {
	out := make([]usecase.ImageInput, len(images))
	for i, img := range images {
		out[i] = usecase.ImageInput{
			URL:            img.URL,
			DeletionHandle: img.DeletionHandle,
		}
	}
	return out
}
