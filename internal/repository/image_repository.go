package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// SupportedExtensions lists the file extensions the codec can decode
var SupportedExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tif", ".tiff"}

// FileImageRepository reads images from the local file system
type FileImageRepository struct {
	maxBytes int64
}

// NewFileImageRepository creates a repository. maxBytes <= 0 disables the size limit.
func NewFileImageRepository(maxBytes int64) ImageRepository {
	return &FileImageRepository{
		maxBytes: maxBytes,
	}
}

// LoadImage reads the whole file, refusing files above the byte limit
func (r *FileImageRepository) LoadImage(ctx context.Context, path string) ([]byte, error) {
	if err := r.ValidateImagePath(path); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrImageNotFound, path)
		}
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if r.maxBytes > 0 {
		// One extra byte distinguishes "exactly at the limit" from "over it"
		reader = io.LimitReader(f, r.maxBytes+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if r.maxBytes > 0 && int64(len(data)) > r.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrImageTooLarge, r.maxBytes)
	}
	return data, nil
}

// ValidateImagePath rejects empty paths and unsupported extensions
func (r *FileImageRepository) ValidateImagePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrInvalidImagePath
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return nil
		}
	}
	return fmt.Errorf("%w: unsupported extension %q", ErrInvalidImagePath, ext)
}
