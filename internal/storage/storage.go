package storage

import (
	"context"
	"io"
)

// Storage defines the interface for image file storage operations.
type Storage interface {
	// Upload stores a file and returns the result with key and URL path.
	Upload(ctx context.Context, input *UploadInput) (*UploadResult, error)

	// Delete removes a file by its key.
	Delete(ctx context.Context, key string) error
}

// UploadInput holds the parameters for uploading a file.
type UploadInput struct {
	Key         string
	ContentType string
	Size        int64
	Data        io.Reader
}

// UploadResult holds the result of a successful upload. URL is the path the
// static file server exposes the file under.
type UploadResult struct {
	Key string
	URL string
}
