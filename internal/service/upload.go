package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Michael-Parekh/proshop/internal/storage"
	apperrors "github.com/Michael-Parekh/proshop/pkg/errors"
)

// MaxUploadSize is the largest accepted image upload.
const MaxUploadSize = 5 << 20 // 5 MiB

// allowedImageExtensions maps accepted file extensions to their expected
// content types. Both the extension and the declared content type must pass.
var allowedImageExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// UploadService implements the business logic for product image uploads.
type UploadService struct {
	storage storage.Storage
	logger  *slog.Logger
}

// NewUploadService creates a new upload service.
func NewUploadService(store storage.Storage, logger *slog.Logger) *UploadService {
	return &UploadService{
		storage: store,
		logger:  logger,
	}
}

// UploadImageInput holds the parameters for uploading a product image.
type UploadImageInput struct {
	FileName    string
	ContentType string
	Size        int64
	Data        io.Reader
}

// UploadImage validates and stores a product image, returning the path the
// file is served under.
func (s *UploadService) UploadImage(ctx context.Context, input *UploadImageInput) (string, error) {
	if input.FileName == "" {
		return "", apperrors.InvalidInput("file name is required")
	}
	if input.Size <= 0 {
		return "", apperrors.InvalidInput("file size must be greater than zero")
	}
	if input.Size > MaxUploadSize {
		return "", apperrors.InvalidInput(fmt.Sprintf("file size %d exceeds maximum allowed size of %d bytes", input.Size, MaxUploadSize))
	}

	ext := strings.ToLower(filepath.Ext(input.FileName))
	expectedType, ok := allowedImageExtensions[ext]
	if !ok {
		return "", apperrors.InvalidInput("images only (jpg, jpeg, png)")
	}
	if input.ContentType != expectedType {
		return "", apperrors.InvalidInput("images only (jpg, jpeg, png)")
	}

	key := fmt.Sprintf("image-%d-%s%s", time.Now().UnixMilli(), uuid.New().String()[:8], ext)

	result, err := s.storage.Upload(ctx, &storage.UploadInput{
		Key:         key,
		ContentType: input.ContentType,
		Size:        input.Size,
		Data:        input.Data,
	})
	if err != nil {
		return "", fmt.Errorf("upload to storage: %w", err)
	}

	s.logger.InfoContext(ctx, "image uploaded",
		slog.String("key", result.Key),
		slog.Int64("size", input.Size),
	)

	return result.URL, nil
}
