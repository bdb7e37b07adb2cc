// Package histogram builds 256-bin intensity histograms and the
// percentile-trimmed ranges used by contrast analysis and level stretching.
package histogram

import (
	"github.com/anime-shed/photo-enhancer/internal/pixbuf"
)

// Bins is the number of intensity levels
const Bins = 256

// DefaultTrim discards the darkest and brightest 1% of pixels.
const DefaultTrim = 0.01

// Histogram counts pixels per 8-bit level
type Histogram [Bins]uint32

// Channel selects which value a histogram is built from
type Channel int

const (
	Red Channel = iota
	Green
	Blue
	Luma
)

// Luminance bins every pixel by its Rec. 601 grayscale value
func Luminance(buf *pixbuf.Buffer) Histogram {
	return Of(buf, Luma)
}

// Of bins every pixel of buf by the selected channel.
func Of(buf *pixbuf.Buffer, ch Channel) Histogram {
	var h Histogram
	if buf.Empty() {
		return h
	}
	pix := buf.Pix
	switch ch {
	case Red, Green, Blue:
		for i := int(ch); i < len(pix); i += pixbuf.Channels {
			h[pix[i]]++
		}
	default:
		for i := 0; i < len(pix); i += pixbuf.Channels {
			h[pixbuf.ClampByte(pixbuf.Luminance(pix[i], pix[i+1], pix[i+2]))]++
		}
	}
	return h
}

// Total returns the number of pixels counted
func (h *Histogram) Total() uint64 {
	var total uint64
	for _, c := range h {
		total += uint64(c)
	}
	return total
}

// TrimmedRange walks the histogram from both ends and returns the first level
// on each side whose cumulative count exceeds trim*total. An empty histogram
// returns (0, 0).
func (h *Histogram) TrimmedRange(trim float64) (min, max int) {
	total := h.Total()
	if total == 0 {
		return 0, 0
	}
	limit := trim * float64(total)

	var cumulative uint64
	min = Bins - 1
	for level := 0; level < Bins; level++ {
		cumulative += uint64(h[level])
		if float64(cumulative) > limit {
			min = level
			break
		}
	}

	cumulative = 0
	max = 0
	for level := Bins - 1; level >= 0; level-- {
		cumulative += uint64(h[level])
		if float64(cumulative) > limit {
			max = level
			break
		}
	}
	return min, max
}

// Span returns max-min of the trimmed range, treating a flat or inverted
// range as 1 so that callers can divide by it safely.
func Span(min, max int) int {
	if max <= min {
		return 1
	}
	return max - min
}

// StretchTable builds a lookup table that linearly maps [min, max] to
// [0, 255], clamping values outside the range. A flat range (max <= min)
// yields the identity table so stretching a uniform image is a no-op.
func StretchTable(min, max int) [Bins]uint8 {
	var lut [Bins]uint8
	if max <= min {
		for v := range lut {
			lut[v] = uint8(v)
		}
		return lut
	}
	span := float64(Span(min, max))
	for v := range lut {
		lut[v] = pixbuf.ClampByte(float64(v-min) * 255 / span)
	}
	return lut
}
