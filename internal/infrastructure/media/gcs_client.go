package media

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"campusbooks/internal/domain/service"
)

// GCSClient implements MediaService against a Cloud Storage bucket, for
// deployments that do not use Cloudinary. The object name is the deletion
// handle.
type GCSClient struct {
	client     *storage.Client
	bucketName string
}

func NewGCSClient(ctx context.Context, bucketName, credentialsPath string) (*GCSClient, error) {
	var opts []option.ClientOption
	if credentialsPath != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsPath))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %v", err)
	}

	return &GCSClient{
		client:     client,
		bucketName: bucketName,
	}, nil
}

func (c *GCSClient) Upload(ctx context.Context, file io.Reader, contentType string) (*service.MediaAsset, error) {
	objectName := fmt.Sprintf("books/%s-%s%s", uuid.New().String(), time.Now().Format("20060102150405"), extensionFor(contentType))

	obj := c.client.Bucket(c.bucketName).Object(objectName)
	wc := obj.NewWriter(ctx)
	wc.ContentType = contentType
	wc.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(wc, file); err != nil {
		return nil, fmt.Errorf("failed to copy file to GCS: %v", err)
	}
	if err := wc.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %v", err)
	}

	if err := obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader); err != nil {
		return nil, fmt.Errorf("failed to set ACL: %v", err)
	}

	return &service.MediaAsset{
		URL:            fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, objectName),
		DeletionHandle: objectName,
	}, nil
}

func (c *GCSClient) Delete(ctx context.Context, deletionHandle string) error {
	obj := c.client.Bucket(c.bucketName).Object(deletionHandle)
	if err := obj.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object: %v", err)
	}

	return nil
}

func (c *GCSClient) Close() error {
	return c.client.Close()
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
