package service

import (
	"context"
	"io"
)

// MediaAsset is the result of a successful upload: a stable public URL and
// the opaque handle needed to delete the asset later.
type MediaAsset struct {
	URL            string `json:"url"`
	DeletionHandle string `json:"deletion_handle"`
}

type MediaService interface {
	Upload(ctx context.Context, file io.Reader, contentType string) (*MediaAsset, error)
	Delete(ctx context.Context, deletionHandle string) error
	Close() error
}
