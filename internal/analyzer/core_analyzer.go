package analyzer

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/anime-shed/photo-enhancer/internal/errors"
	"github.com/anime-shed/photo-enhancer/internal/parallel"
	"github.com/anime-shed/photo-enhancer/internal/pixbuf"
	"github.com/anime-shed/photo-enhancer/pkg/models"
	"github.com/anime-shed/photo-enhancer/pkg/validation"
)

// quickDiffNormalization scales the local-difference term of QuickScore
const quickDiffNormalization = 50

// coreAnalyzer implements ImageAnalyzer and orchestrates the diagnostic passes
type coreAnalyzer struct {
	options           AnalysisOptions
	pool              *parallel.Pool
	metricsCalculator MetricsCalculator
	qualityValidator  *validation.QualityValidator
	planePool         sync.Pool
}

// NewImageAnalyzer creates a new image analyzer with default options
func NewImageAnalyzer() (ImageAnalyzer, error) {
	return NewImageAnalyzerWithOptions(DefaultOptions())
}

// NewImageAnalyzerWithOptions creates an analyzer whose passes use options
func NewImageAnalyzerWithOptions(options AnalysisOptions) (ImageAnalyzer, error) {
	if options.BlurNormalization <= 0 || options.NoiseNormalization <= 0 {
		return nil, fmt.Errorf("normalization constants must be positive")
	}
	if options.TrimFraction < 0 || options.TrimFraction >= 0.5 {
		return nil, fmt.Errorf("trim fraction %.3f is outside [0, 0.5)", options.TrimFraction)
	}

	pool := parallel.NewPool(options.MaxWorkers)
	return &coreAnalyzer{
		options:           options,
		pool:              pool,
		metricsCalculator: NewMetricsCalculator(pool, options),
		qualityValidator:  validation.NewQualityValidatorWithThresholds(options.Thresholds),
		planePool: sync.Pool{
			New: func() interface{} {
				return new([]float64)
			},
		},
	}, nil
}

// Analyze runs every diagnostic pass with the analyzer's own options
func (ca *coreAnalyzer) Analyze(ctx context.Context, buf *pixbuf.Buffer, meta models.ImageMetadata) (*models.QualityReport, error) {
	return ca.AnalyzeWithOptions(ctx, buf, meta, ca.options)
}

// AnalyzeWithOptions runs every diagnostic pass and aggregates the result.
// Either all passes succeed or no report is returned.
func (ca *coreAnalyzer) AnalyzeWithOptions(ctx context.Context, buf *pixbuf.Buffer, meta models.ImageMetadata, options AnalysisOptions) (report *models.QualityReport, err error) {
	start := time.Now()

	if buf.Empty() {
		return nil, apperrors.NewDegenerateInputError("cannot analyze a zero-size image", pixbuf.ErrEmpty)
	}
	if err := buf.Validate(); err != nil {
		return nil, apperrors.NewDegenerateInputError("malformed pixel buffer", err)
	}

	defer func() {
		if r := recover(); r != nil {
			report = nil
			err = apperrors.NewProcessingError("analysis failed", fmt.Errorf("panic: %v", r))
		}
	}()

	calc := ca.metricsCalculator
	validator := ca.qualityValidator
	if options != ca.options {
		calc = NewMetricsCalculator(ca.pool, options)
		validator = validation.NewQualityValidatorWithThresholds(options.Thresholds)
	}

	plane, release := ca.grayPlane(buf)
	defer release()

	m := models.DiagnosticMetrics{PixelCount: buf.PixelCount()}

	// 1. Blur
	if m.Sharpness, err = calc.Sharpness(ctx, plane); err != nil {
		return nil, apperrors.FromContext(err, "blur pass interrupted")
	}

	// 2. Noise
	if m.Noise, err = calc.Noise(ctx, plane); err != nil {
		return nil, apperrors.FromContext(err, "noise pass interrupted")
	}

	// 3. Contrast
	if err := ctx.Err(); err != nil {
		return nil, apperrors.FromContext(err, "contrast pass interrupted")
	}
	contrast := calc.Contrast(buf)
	m.Contrast, m.TrimmedMin, m.TrimmedMax = contrast.Contrast, contrast.Min, contrast.Max

	// 4. Exposure
	exposure, err := calc.Exposure(ctx, buf)
	if err != nil {
		return nil, apperrors.FromContext(err, "exposure pass interrupted")
	}
	m.OverexposedRatio, m.UnderexposedRatio = exposure.Overexposed, exposure.Underexposed

	// 5. Colour cast
	cast, err := calc.ColorCast(ctx, buf)
	if err != nil {
		return nil, apperrors.FromContext(err, "color cast pass interrupted")
	}
	m.ChannelMeans, m.CastChannel, m.CastStrength = cast.Means, cast.Channel, cast.Strength

	issues := validator.Evaluate(m)

	if meta.Width == 0 && meta.Height == 0 {
		meta.Width, meta.Height = buf.Width, buf.Height
	}

	return &models.QualityReport{
		ID:                uuid.NewString(),
		Timestamp:         start,
		ProcessingTimeSec: time.Since(start).Seconds(),
		Score:             validator.Score(issues),
		Issues:            validation.Issues(issues),
		Recommendations:   validator.ConvertIssuesToMessages(issues),
		Metadata:          meta,
		Metrics:           m,
	}, nil
}

// QuickScore = 20 + 50*contrast + 30*min(1, localDifference/50)
func (ca *coreAnalyzer) QuickScore(ctx context.Context, buf *pixbuf.Buffer) (float32, error) {
	if buf.Empty() {
		return 0, apperrors.NewDegenerateInputError("cannot score a zero-size image", pixbuf.ErrEmpty)
	}

	plane, release := ca.grayPlane(buf)
	defer release()

	contrast := ca.metricsCalculator.Contrast(buf).Contrast
	diff, err := ca.metricsCalculator.LocalDifference(ctx, plane)
	if err != nil {
		return 0, apperrors.FromContext(err, "quick score interrupted")
	}

	score := 20 + 50*contrast + 30*math.Min(1, diff/quickDiffNormalization)
	return float32(math.Max(0, math.Min(100, score))), nil
}

// Close releases pooled resources
func (ca *coreAnalyzer) Close() error {
	return nil
}

// grayPlane fills a pooled slice with the buffer's luminance
func (ca *coreAnalyzer) grayPlane(buf *pixbuf.Buffer) (Plane, func()) {
	sp := ca.planePool.Get().(*[]float64)
	n := buf.PixelCount()
	if cap(*sp) < n {
		*sp = make([]float64, n)
	}
	pix := (*sp)[:n]
	for i, j := 0, 0; j < n; i, j = i+pixbuf.Channels, j+1 {
		pix[j] = pixbuf.Luminance(buf.Pix[i], buf.Pix[i+1], buf.Pix[i+2])
	}
	*sp = pix
	return Plane{Pix: pix, Width: buf.Width, Height: buf.Height}, func() {
		ca.planePool.Put(sp)
	}
}
