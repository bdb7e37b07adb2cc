package analyzer

import (
	"context"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/anime-shed/photo-enhancer/internal/histogram"
	"github.com/anime-shed/photo-enhancer/internal/parallel"
	"github.com/anime-shed/photo-enhancer/internal/pixbuf"
	"github.com/anime-shed/photo-enhancer/pkg/models"
)

// metricsCalculator implements MetricsCalculator with row-striped passes.
// Every per-row value is computed by exactly one goroutine and combined in
// row order, so results do not depend on the worker count.
type metricsCalculator struct {
	pool    *parallel.Pool
	options AnalysisOptions
}

// NewMetricsCalculator creates a metrics calculator running on pool
func NewMetricsCalculator(pool *parallel.Pool, options AnalysisOptions) MetricsCalculator {
	return &metricsCalculator{pool: pool, options: options}
}

// Sharpness averages the central-difference gradient magnitude over interior
// pixels and normalizes it to [0, 1]. Planes without interior pixels score 0.
func (mc *metricsCalculator) Sharpness(ctx context.Context, p Plane) (float64, error) {
	mean, err := mc.interiorMean(ctx, p, func(x, y int) float64 {
		gx := p.At(x+1, y) - p.At(x-1, y)
		gy := p.At(x, y+1) - p.At(x, y-1)
		return math.Sqrt(gx*gx + gy*gy)
	})
	if err != nil {
		return 0, err
	}
	return math.Min(1, mean/mc.options.BlurNormalization), nil
}

// Noise averages the mean squared deviation of each interior pixel's
// 8-neighbourhood from the centre and normalizes it to [0, 1].
func (mc *metricsCalculator) Noise(ctx context.Context, p Plane) (float64, error) {
	mean, err := mc.interiorMean(ctx, p, func(x, y int) float64 {
		c := p.At(x, y)
		var sum float64
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				d := p.At(x+dx, y+dy) - c
				sum += d * d
			}
		}
		return sum / 8
	})
	if err != nil {
		return 0, err
	}
	return math.Min(1, mean/mc.options.NoiseNormalization), nil
}

// Contrast is the trimmed luminance range divided by 255. A flat image has
// contrast 0.
func (mc *metricsCalculator) Contrast(buf *pixbuf.Buffer) ContrastResult {
	h := histogram.Luminance(buf)
	min, max := h.TrimmedRange(mc.options.TrimFraction)
	contrast := 0.0
	if max > min {
		contrast = float64(max-min) / 255
	}
	return ContrastResult{Contrast: contrast, Min: min, Max: max}
}

// Exposure counts pixels whose channel mean is above the overexposed level
// or below the underexposed level.
func (mc *metricsCalculator) Exposure(ctx context.Context, buf *pixbuf.Buffer) (ExposureResult, error) {
	stripes := parallel.StripeCount(buf.Height)
	over := make([]int, stripes)
	under := make([]int, stripes)
	hi, lo := mc.options.OverexposedLevel, mc.options.UnderexposedLevel

	err := mc.pool.Rows(ctx, buf.Height, func(stripe, y0, y1 int) {
		pix := buf.Pix[buf.Offset(0, y0):buf.Offset(0, y1)]
		for i := 0; i < len(pix); i += pixbuf.Channels {
			b := pixbuf.Brightness(pix[i], pix[i+1], pix[i+2])
			if b > hi {
				over[stripe]++
			} else if b < lo {
				under[stripe]++
			}
		}
	})
	if err != nil {
		return ExposureResult{}, err
	}

	var totalOver, totalUnder int
	for s := 0; s < stripes; s++ {
		totalOver += over[s]
		totalUnder += under[s]
	}
	n := float64(buf.PixelCount())
	if n == 0 {
		return ExposureResult{}, nil
	}
	return ExposureResult{
		Overexposed:  float64(totalOver) / n,
		Underexposed: float64(totalUnder) / n,
	}, nil
}

// ColorCast finds the channel whose mean deviates most from the mean of all
// three. Ties go to the earlier channel in R, G, B order.
func (mc *metricsCalculator) ColorCast(ctx context.Context, buf *pixbuf.Buffer) (ColorCastResult, error) {
	sums := make([][3]uint64, parallel.StripeCount(buf.Height))

	err := mc.pool.Rows(ctx, buf.Height, func(stripe, y0, y1 int) {
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
		return ColorCastResult{}, err
	}

	n := float64(buf.PixelCount())
	if n == 0 {
		return ColorCastResult{}, nil
	}

	var total [3]uint64
	for _, s := range sums {
		total[0] += s[0]
		total[1] += s[1]
		total[2] += s[2]
	}
	means := [3]float64{float64(total[0]) / n, float64(total[1]) / n, float64(total[2]) / n}
	overall := stat.Mean(means[:], nil)

	result := ColorCastResult{Means: means}
	channels := [3]models.CastChannel{models.CastRed, models.CastGreen, models.CastBlue}
	var maxDev float64
	for i, m := range means {
		if dev := math.Abs(m - overall); dev > maxDev {
			maxDev = dev
			result.Channel = channels[i]
		}
	}
	result.Strength = maxDev / 255
	return result, nil
}

// LocalDifference averages |dx| + |dy| of forward grayscale differences.
// It feeds the quick score only.
func (mc *metricsCalculator) LocalDifference(ctx context.Context, p Plane) (float64, error) {
	if p.Width < 2 || p.Height < 2 {
		return 0, ctx.Err()
	}
	rows := make([]float64, p.Height-1)
	err := mc.pool.Rows(ctx, p.Height-1, func(_, y0, y1 int) {
		for y := y0; y < y1; y++ {
			var sum float64
			for x := 0; x < p.Width-1; x++ {
				c := p.At(x, y)
				sum += math.Abs(p.At(x+1, y)-c) + math.Abs(p.At(x, y+1)-c)
			}
			rows[y] = sum / float64(p.Width-1)
		}
	})
	if err != nil {
		return 0, err
	}
	// Every row has the same pixel count, so the mean of row means is the
	// mean over all pixels.
	return stat.Mean(rows, nil), nil
}

// interiorMean evaluates fn at every pixel with a full 3x3 neighbourhood and
// returns the mean. Each interior row is reduced on its own and the row means
// are averaged in order.
func (mc *metricsCalculator) interiorMean(ctx context.Context, p Plane, fn func(x, y int) float64) (float64, error) {
	if p.Width < 3 || p.Height < 3 {
		return 0, ctx.Err()
	}
	rows := make([]float64, p.Height-2)
	err := mc.pool.Rows(ctx, p.Height-2, func(_, y0, y1 int) {
		for r := y0; r < y1; r++ {
			y := r + 1
			var sum float64
			for x := 1; x < p.Width-1; x++ {
				sum += fn(x, y)
			}
			rows[r] = sum / float64(p.Width-2)
		}
	})
	if err != nil {
		return 0, err
	}
	return stat.Mean(rows, nil), nil
}
