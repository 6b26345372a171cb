package media

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"campusbooks/internal/domain/service"
)

// CloudinaryClient implements MediaService against the Cloudinary upload
// API. The asset's public id doubles as the deletion handle.
type CloudinaryClient struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryClient(cloudName, apiKey, apiSecret string) (*CloudinaryClient, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloudinary client: %v", err)
	}

	return &CloudinaryClient{
		cld:    cld,
		folder: "books",
	}, nil
}

func (c *CloudinaryClient) Upload(ctx context.Context, file io.Reader, contentType string) (*service.MediaAsset, error) {
	result, err := c.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: c.folder,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to cloudinary: %v", err)
	}
	if result.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload rejected: %s", result.Error.Message)
	}

	return &service.MediaAsset{
		URL:            result.SecureURL,
		DeletionHandle: result.PublicID,
	}, nil
}

func (c *CloudinaryClient) Delete(ctx context.Context, deletionHandle string) error {
	result, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: deletionHandle,
	})
	if err != nil {
		return fmt.Errorf("failed to delete from cloudinary: %v", err)
	}
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("cloudinary destroy returned %q", result.Result)
	}

	return nil
}

func (c *CloudinaryClient) Close() error {
	return nil
}
