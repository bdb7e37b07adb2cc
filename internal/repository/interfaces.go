package repository

import (
	"context"
)

// ImageRepository defines the interface for reading encoded source images
type ImageRepository interface {
	// LoadImage returns the raw bytes of the image at path
	LoadImage(ctx context.Context, path string) ([]byte, error)

	// ValidateImagePath checks the path before any I/O
	ValidateImagePath(path string) error
}
