package enhancer

import (
	"github.com/anime-shed/photo-enhancer/internal/resample"
)

// ProcessorOptions configures a Processor
type ProcessorOptions struct {
	// Largest buffer, in pixels, the pipeline may allocate. Zero disables the check.
	MaxPixels int

	// Thumbnail bounding box
	ThumbnailSize int

	// Performance options
	MaxWorkers int
}

// DefaultProcessorOptions returns default processor options
func DefaultProcessorOptions() ProcessorOptions {
	return ProcessorOptions{
		MaxPixels:     50_000_000,
		ThumbnailSize: resample.DefaultThumbnailSize,
		MaxWorkers:    0, // Use default CPU count
	}
}

// WithMaxPixels sets the allocation ceiling
func (opts ProcessorOptions) WithMaxPixels(maxPixels int) ProcessorOptions {
	opts.MaxPixels = maxPixels
	return opts
}

// WithThumbnailSize sets the thumbnail bounding box
func (opts ProcessorOptions) WithThumbnailSize(size int) ProcessorOptions {
	opts.ThumbnailSize = size
	return opts
}

// WithWorkers sets the concurrency limit
func (opts ProcessorOptions) WithWorkers(workers int) ProcessorOptions {
	opts.MaxWorkers = workers
	return opts
}
