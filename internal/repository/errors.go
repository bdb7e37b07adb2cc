package repository

import "errors"

var (
	// ErrInvalidImagePath indicates an empty path or an unsupported extension
	ErrInvalidImagePath = errors.New("invalid image path")

	// ErrImageNotFound indicates the image file does not exist
	ErrImageNotFound = errors.New("image not found")

	// ErrImageTooLarge indicates the file exceeds the configured byte limit
	ErrImageTooLarge = errors.New("image file too large")
)
