package analyzer

import (
	"github.com/anime-shed/photo-enhancer/pkg/models"
)

// Plane is a grayscale view of a buffer, one float64 per pixel
type Plane struct {
	Pix    []float64
	Width  int
	Height int
}

// At returns the value at (x, y)
func (p Plane) At(x, y int) float64 {
	return p.Pix[y*p.Width+x]
}

// ContrastResult holds the trimmed luminance range
type ContrastResult struct {
	Contrast float64
	Min, Max int
}

// ExposureResult holds the fraction of clipped pixels on each side
type ExposureResult struct {
	Overexposed  float64
	Underexposed float64
}

// ColorCastResult holds channel means in 0..255 and the dominant deviation
type ColorCastResult struct {
	Means    [3]float64
	Channel  models.CastChannel
	Strength float64
}
