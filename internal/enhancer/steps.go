package enhancer

import (
	"context"
	"sort"

	"github.com/anime-shed/photo-enhancer/internal/colorspace"
	"github.com/anime-shed/photo-enhancer/internal/convolve"
	"github.com/anime-shed/photo-enhancer/internal/histogram"
	"github.com/anime-shed/photo-enhancer/internal/parallel"
	"github.com/anime-shed/photo-enhancer/internal/pixbuf"
)

// Fixed tuning constants of the pipeline
const (
	ContrastFactor   = 1.2
	ContrastMidpoint = 128.0
	BrightenDelta    = 20
	DarkenDelta      = -10
	SaturationFactor = 1.2
	YellowCastRed    = 10
	YellowCastGreen  = 5
	ScratchThreshold = 40.0
)

// lut holds one lookup table per colour channel
type lut [3][histogram.Bins]uint8

// applyLUT maps R, G and B through their tables in place. Alpha is untouched.
func applyLUT(ctx context.Context, pool *parallel.Pool, buf *pixbuf.Buffer, t *lut) error {
	return pool.Rows(ctx, buf.Height, func(_, y0, y1 int) {
		pix := buf.Pix[buf.Offset(0, y0):buf.Offset(0, y1)]
		for i := 0; i < len(pix); i += pixbuf.Channels {
			pix[i] = t[0][pix[i]]
			pix[i+1] = t[1][pix[i+1]]
			pix[i+2] = t[2][pix[i+2]]
		}
	})
}

func sameLUT(table [histogram.Bins]uint8) *lut {
	return &lut{table, table, table}
}

// autoLevels stretches each of R, G and B independently so its trimmed range
// covers 0..255. A flat channel is left as is.
func autoLevels(ctx context.Context, pool *parallel.Pool, buf *pixbuf.Buffer) error {
	var t lut
	for c, ch := range []histogram.Channel{histogram.Red, histogram.Green, histogram.Blue} {
		h := histogram.Of(buf, ch)
		min, max := h.TrimmedRange(histogram.DefaultTrim)
		t[c] = histogram.StretchTable(min, max)
	}
	return applyLUT(ctx, pool, buf, &t)
}

// smooth returns a Gaussian-blurred copy with radius 1
func smooth(ctx context.Context, pool *parallel.Pool, buf *pixbuf.Buffer) (*pixbuf.Buffer, error) {
	return convolve.Apply(ctx, pool, buf, convolve.Gaussian(1))
}

// sharpen returns an unsharp-masked copy
func sharpen(ctx context.Context, pool *parallel.Pool, buf *pixbuf.Buffer) (*pixbuf.Buffer, error) {
	return convolve.Apply(ctx, pool, buf, convolve.Sharpen())
}

// channelMeans returns the mean of R, G and B. Per-stripe integer sums keep
// the result independent of scheduling.
func channelMeans(ctx context.Context, pool *parallel.Pool, buf *pixbuf.Buffer) ([3]float64, error) {
	sums := make([][3]uint64, parallel.StripeCount(buf.Height))
	err := pool.Rows(ctx, buf.Height, func(stripe, y0, y1 int) {
		var s [3]uint64
		pix := buf.Pix[buf.Offset(0, y0):buf.Offset(0, y1)]
		for i := 0; i < len(pix); i += pixbuf.Channels {
			s[0] += uint64(pix[i])
			s[1] += uint64(pix[i+1])
			s[2] += uint64(pix[i+2])
		}
		sums[stripe] = s
	})
	if err != nil {
		return [3]float64{}, err
	}

	var total [3]uint64
	for _, s := range sums {
		total[0] += s[0]
		total[1] += s[1]
		total[2] += s[2]
	}
	n := float64(buf.PixelCount())
	return [3]float64{float64(total[0]) / n, float64(total[1]) / n, float64(total[2]) / n}, nil
}

// grayWorld scales each channel by overallMean/channelMean. A channel with
// zero mean is left alone.
func grayWorld(ctx context.Context, pool *parallel.Pool, buf *pixbuf.Buffer) error {
	means, err := channelMeans(ctx, pool, buf)
	if err != nil {
		return err
	}
	overall := (means[0] + means[1] + means[2]) / 3

	var t lut
	for c := 0; c < 3; c++ {
		factor := 1.0
		if means[c] > 0 {
			factor = overall / means[c]
		}
		for v := range t[c] {
			t[c][v] = pixbuf.ClampByte(float64(v) * factor)
		}
	}
	return applyLUT(ctx, pool, buf, &t)
}

// contrastStretch applies v' = (v-128)*1.2+128
func contrastStretch(ctx context.Context, pool *parallel.Pool, buf *pixbuf.Buffer) error {
	var table [histogram.Bins]uint8
	for v := range table {
		table[v] = pixbuf.ClampByte((float64(v)-ContrastMidpoint)*ContrastFactor + ContrastMidpoint)
	}
	return applyLUT(ctx, pool, buf, sameLUT(table))
}

// meanLuminance averages Rec. 601 luminance over every pixel
func meanLuminance(ctx context.Context, pool *parallel.Pool, buf *pixbuf.Buffer) (float64, error) {
	sums := make([]float64, parallel.StripeCount(buf.Height))
	err := pool.Rows(ctx, buf.Height, func(stripe, y0, y1 int) {
		var s float64
		pix := buf.Pix[buf.Offset(0, y0):buf.Offset(0, y1)]
		for i := 0; i < len(pix); i += pixbuf.Channels {
			s += pixbuf.Luminance(pix[i], pix[i+1], pix[i+2])
		}
		sums[stripe] = s
	})
	if err != nil {
		return 0, err
	}
	var total float64
	for _, s := range sums {
		total += s
	}
	return total / float64(buf.PixelCount()), nil
}

// adjustBrightness brightens dark images by 20 and darkens the rest by 10
func adjustBrightness(ctx context.Context, pool *parallel.Pool, buf *pixbuf.Buffer) error {
	mean, err := meanLuminance(ctx, pool, buf)
	if err != nil {
		return err
	}
	delta := DarkenDelta
	if mean < 128 {
		delta = BrightenDelta
	}

	var table [histogram.Bins]uint8
	for v := range table {
		table[v] = pixbuf.ClampByte(float64(v + delta))
	}
	return applyLUT(ctx, pool, buf, sameLUT(table))
}

// boostSaturation multiplies HSL saturation by 1.2, clamped to 1
func boostSaturation(ctx context.Context, pool *parallel.Pool, buf *pixbuf.Buffer) error {
	return pool.Rows(ctx, buf.Height, func(_, y0, y1 int) {
		pix := buf.Pix[buf.Offset(0, y0):buf.Offset(0, y1)]
		for i := 0; i < len(pix); i += pixbuf.Channels {
			pix[i], pix[i+1], pix[i+2] = colorspace.Saturate(pix[i], pix[i+1], pix[i+2], SaturationFactor)
		}
	})
}

// removeYellowCast subtracts 10 from red and 5 from green wherever both
// exceed blue
func removeYellowCast(ctx context.Context, pool *parallel.Pool, buf *pixbuf.Buffer) error {
	return pool.Rows(ctx, buf.Height, func(_, y0, y1 int) {
		pix := buf.Pix[buf.Offset(0, y0):buf.Offset(0, y1)]
		for i := 0; i < len(pix); i += pixbuf.Channels {
			r, g, b := pix[i], pix[i+1], pix[i+2]
			if r > b && g > b {
				pix[i] = subClamp(r, YellowCastRed)
				pix[i+1] = subClamp(g, YellowCastGreen)
			}
		}
	})
}

func subClamp(v, d uint8) uint8 {
	if v < d {
		return 0
	}
	return v - d
}

// removeScratches replaces pixels whose luminance differs from the 3x3
// median luminance by more than ScratchThreshold with the per-channel 3x3
// median. Other pixels are copied unchanged.
func removeScratches(ctx context.Context, pool *parallel.Pool, buf *pixbuf.Buffer) (*pixbuf.Buffer, error) {
	gray := buf.GrayPlane()
	dst := buf.Clone()

	err := pool.Rows(ctx, buf.Height, func(_, y0, y1 int) {
		var window [9]float64
		var channel [9]int
		for y := y0; y < y1; y++ {
			for x := 0; x < buf.Width; x++ {
				n := 0
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						window[n] = gray[clampIndex(buf, x+dx, y+dy)]
						n++
					}
				}
				centre := gray[y*buf.Width+x]
				sorted := window
				sort.Float64s(sorted[:])
				if abs(centre-sorted[4]) <= ScratchThreshold {
					continue
				}

				o := dst.Offset(x, y)
				for c := 0; c < 3; c++ {
					n = 0
					for dy := -1; dy <= 1; dy++ {
						for dx := -1; dx <= 1; dx++ {
							channel[n] = int(buf.Pix[buf.ClampedOffset(x+dx, y+dy)+c])
							n++
						}
					}
					sort.Ints(channel[:])
					dst.Pix[o+c] = uint8(channel[4])
				}
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return dst, nil
}

func clampIndex(buf *pixbuf.Buffer, x, y int) int {
	return buf.ClampedOffset(x, y) / pixbuf.Channels
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
