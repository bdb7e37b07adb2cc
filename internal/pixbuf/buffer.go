package pixbuf

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
)

// Channels is the number of interleaved bytes per pixel (R, G, B, A).
const Channels = 4

// ErrEmpty is returned when a buffer has no pixels to work on
var ErrEmpty = errors.New("pixel buffer is empty")

// Buffer is a row-major RGBA raster with straight (non-premultiplied) alpha.
// len(Pix) is always Width*Height*Channels.
type Buffer struct {
	Width  int
	Height int
	Pix    []byte
}

// New allocates a zeroed buffer of the given dimensions
func New(width, height int) (*Buffer, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid buffer dimensions %dx%d", width, height)
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*Channels),
	}, nil
}

// FromPix wraps an existing interleaved RGBA slice without copying it.
func FromPix(width, height int, pix []byte) (*Buffer, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid buffer dimensions %dx%d", width, height)
	}
	if len(pix) != width*height*Channels {
		return nil, fmt.Errorf("pixel slice length %d does not match %dx%d", len(pix), width, height)
	}
	return &Buffer{Width: width, Height: height, Pix: pix}, nil
}

// Filled returns a buffer where every pixel is (r, g, b, a)
func Filled(width, height int, r, g, b, a uint8) *Buffer {
	buf := &Buffer{Width: width, Height: height, Pix: make([]byte, width*height*Channels)}
	for i := 0; i < len(buf.Pix); i += Channels {
		buf.Pix[i] = r
		buf.Pix[i+1] = g
		buf.Pix[i+2] = b
		buf.Pix[i+3] = a
	}
	return buf
}

// FromImage copies any image.Image into a new buffer. The copy always starts at (0,0).
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	// Fast path: tightly packed NRGBA at the origin can be copied directly
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Stride == width*Channels {
		pix := make([]byte, len(nrgba.Pix[:width*height*Channels]))
		copy(pix, nrgba.Pix)
		return &Buffer{Width: width, Height: height, Pix: pix}
	}

	dst := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)
	return &Buffer{Width: width, Height: height, Pix: dst.Pix}
}

// NRGBA returns an *image.NRGBA view that shares the buffer's memory.
func (b *Buffer) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: b.Width * Channels,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// Clone returns a deep copy
func (b *Buffer) Clone() *Buffer {
	pix := make([]byte, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Width: b.Width, Height: b.Height, Pix: pix}
}

// PixelCount returns Width*Height
func (b *Buffer) PixelCount() int {
	return b.Width * b.Height
}

// Empty reports whether the buffer has zero pixels
func (b *Buffer) Empty() bool {
	return b == nil || b.Width == 0 || b.Height == 0
}

// Validate checks the length invariant
func (b *Buffer) Validate() error {
	if b == nil {
		return ErrEmpty
	}
	if len(b.Pix) != b.Width*b.Height*Channels {
		return fmt.Errorf("pixel slice length %d does not match %dx%d", len(b.Pix), b.Width, b.Height)
	}
	return nil
}

// Offset returns the index of the red byte of pixel (x, y)
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * Channels
}

// ClampedOffset is Offset with coordinates clamped to the nearest edge pixel.
func (b *Buffer) ClampedOffset(x, y int) int {
	if x < 0 {
		x = 0
	} else if x >= b.Width {
		x = b.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= b.Height {
		y = b.Height - 1
	}
	return (y*b.Width + x) * Channels
}

// Gray returns the luminance of pixel (x, y) using Rec. 601 weights.
func (b *Buffer) Gray(x, y int) float64 {
	i := b.Offset(x, y)
	return Luminance(b.Pix[i], b.Pix[i+1], b.Pix[i+2])
}

// GrayPlane computes the luminance of every pixel into a float64 slice of
// length Width*Height. Analysis passes read neighbourhoods many times, so
// precomputing avoids redoing the weighted sum per sample.
func (b *Buffer) GrayPlane() []float64 {
	plane := make([]float64, b.Width*b.Height)
	for i, j := 0, 0; j < len(plane); i, j = i+Channels, j+1 {
		plane[j] = Luminance(b.Pix[i], b.Pix[i+1], b.Pix[i+2])
	}
	return plane
}

// Luminance converts an RGB triple to grayscale: 0.299R + 0.587G + 0.114B
func Luminance(r, g, b uint8) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

// Brightness is the unweighted channel mean used by the exposure pass.
func Brightness(r, g, b uint8) float64 {
	return (float64(r) + float64(g) + float64(b)) / 3
}

// ClampByte rounds v to the nearest integer and clamps it to [0, 255].
func ClampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
