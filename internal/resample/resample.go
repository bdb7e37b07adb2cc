// Package resample wraps the imaging library for the size-changing steps of
// the pipeline: bounded upscaling and thumbnails.
package resample

import (
	"math"

	"github.com/disintegration/imaging"

	"github.com/anime-shed/photo-enhancer/internal/pixbuf"
)

// MaxUpscale caps how far Upscale enlarges an image along either axis
const MaxUpscale = 2.0

// DefaultThumbnailSize bounds both thumbnail dimensions
const DefaultThumbnailSize = 200

// UpscaleTarget returns the dimensions Upscale would produce. ok is false when
// either bound is missing or the image already fits.
func UpscaleTarget(width, height, maxWidth, maxHeight int) (w, h int, ok bool) {
	if maxWidth <= 0 || maxHeight <= 0 || width <= 0 || height <= 0 {
		return width, height, false
	}
	scale := math.Min(float64(maxWidth)/float64(width), float64(maxHeight)/float64(height))
	scale = math.Min(scale, MaxUpscale)
	if scale <= 1 {
		return width, height, false
	}
	w = int(math.Round(float64(width) * scale))
	h = int(math.Round(float64(height) * scale))
	if w > 2*width {
		w = 2 * width
	}
	if h > 2*height {
		h = 2 * height
	}
	return w, h, true
}

// Upscale enlarges buf to fit within maxWidth x maxHeight, by at most
// MaxUpscale, using Lanczos resampling. It returns buf itself when no
// enlargement applies.
func Upscale(buf *pixbuf.Buffer, maxWidth, maxHeight int) (*pixbuf.Buffer, bool) {
	w, h, ok := UpscaleTarget(buf.Width, buf.Height, maxWidth, maxHeight)
	if !ok {
		return buf, false
	}
	return Resize(buf, w, h), true
}

// Resize resamples buf to exactly width x height with a Lanczos filter
func Resize(buf *pixbuf.Buffer, width, height int) *pixbuf.Buffer {
	return pixbuf.FromImage(imaging.Resize(buf.NRGBA(), width, height, imaging.Lanczos))
}

// ThumbnailSize returns the exact thumbnail dimensions for a source of the
// given size: each side is the smaller of size and the source side.
func ThumbnailSize(width, height, size int) (int, int) {
	if size <= 0 {
		size = DefaultThumbnailSize
	}
	return minInt(size, width), minInt(size, height)
}

// Thumbnail scales buf to cover the thumbnail box while keeping its aspect
// ratio, then crops the centre to the exact box.
func Thumbnail(buf *pixbuf.Buffer, size int) *pixbuf.Buffer {
	if buf.Empty() {
		return &pixbuf.Buffer{}
	}
	w, h := ThumbnailSize(buf.Width, buf.Height, size)
	return pixbuf.FromImage(imaging.Fill(buf.NRGBA(), w, h, imaging.Center, imaging.Lanczos))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
