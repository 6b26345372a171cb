package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"campusbooks/internal/domain/service"
	"campusbooks/pkg/errors"
	"campusbooks/pkg/logger"
	"campusbooks/pkg/response"
)

// MediaHandler accepts image uploads ahead of listing create/edit and hands
// back the (url, deletionHandle) pair those operations consume.
type MediaHandler struct {
	media       service.MediaService
	maxFileSize int64
}

func NewMediaHandler(media service.MediaService) *MediaHandler {
	return &MediaHandler{
		media:       media,
		maxFileSize: 5 * 1024 * 1024,
	}
}

func SetupMediaHandler(media service.MediaService) {
	mediaHandler = NewMediaHandler(media)
}

func (h *MediaHandler) UploadImage(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}

	if file.Size > h.maxFileSize {
		return response.Error(c, errors.BadRequest("File exceeds the 5MB size limit", nil))
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return response.Error(c, errors.BadRequest("Only image uploads are allowed", nil))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Failed to read uploaded file", err))
	}
	defer src.Close()

	asset, err := h.media.Upload(c.Request().Context(), src, contentType)
	if err != nil {
		logger.Error("Media upload failed: %v", err)
		return response.Error(c, errors.Internal("Failed to upload image", err))
	}

	return response.Created(c, asset)
}
