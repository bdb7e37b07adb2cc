// Package enhancer runs the ordered, option-driven correction pipeline over
// a pixel buffer.
package enhancer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/anime-shed/photo-enhancer/internal/errors"
	"github.com/anime-shed/photo-enhancer/internal/parallel"
	"github.com/anime-shed/photo-enhancer/internal/pixbuf"
	"github.com/anime-shed/photo-enhancer/internal/resample"
	"github.com/anime-shed/photo-enhancer/pkg/models"
	"github.com/anime-shed/photo-enhancer/pkg/validation"
)

// Scorer produces the before and after quality scores
type Scorer interface {
	Analyze(ctx context.Context, buf *pixbuf.Buffer, meta models.ImageMetadata) (*models.QualityReport, error)
	QuickScore(ctx context.Context, buf *pixbuf.Buffer) (float32, error)
}

// Encoder writes the enhanced buffer in the requested output format
type Encoder interface {
	Encode(buf *pixbuf.Buffer, format models.OutputFormat, quality int, originalFormat string) ([]byte, string, error)
}

// StepHook is called after each step that ran
type StepHook func(step models.StepName, elapsed time.Duration)

// Fixed improvement descriptions
var descriptions = map[models.StepName]string{
	models.StepAutoEnhance:          "Stretched each color channel to the full tonal range",
	models.StepDenoising:            "Reduced noise with a Gaussian blur",
	models.StepSharpening:           "Sharpened edges with an unsharp mask",
	models.StepColorCorrection:      "Balanced colors using gray-world white balance",
	models.StepContrastEnhancement:  "Increased contrast around the midtones",
	models.StepBrightnessAdjustment: "Adjusted overall brightness",
	models.StepSaturationBoost:      "Boosted color saturation",
	models.StepOldPhotoRestoration:  "Restored faded photo and removed yellow cast",
	models.StepScratchRemoval:       "Removed scratches and dust spots",
	models.StepUpscaling:            "Upscaled image with Lanczos resampling",
}

// Description returns the fixed improvement text for a step
func Description(step models.StepName) string {
	return descriptions[step]
}

// Processor applies enhancement steps. It holds no per-call state and is
// safe for concurrent use.
type Processor struct {
	options   ProcessorOptions
	pool      *parallel.Pool
	scorer    Scorer
	encoder   Encoder
	validator *validation.OptionsValidator
	hook      StepHook
}

// NewProcessor creates a processor. encoder may be nil, in which case no
// encoded output is produced.
func NewProcessor(options ProcessorOptions, scorer Scorer, encoder Encoder) *Processor {
	return &Processor{
		options:   options,
		pool:      parallel.NewPool(options.MaxWorkers),
		scorer:    scorer,
		encoder:   encoder,
		validator: validation.NewOptionsValidator(),
	}
}

// WithStepHook returns a copy of p that reports every applied step to hook
func (p *Processor) WithStepHook(hook StepHook) *Processor {
	cp := *p
	cp.hook = hook
	return &cp
}

// Enhance runs the pipeline on a copy of buf. The returned result is never
// nil; on failure Success is false and the error is also returned.
func (p *Processor) Enhance(ctx context.Context, buf *pixbuf.Buffer, opts models.EnhancementOptions) (*models.EnhancementResult, error) {
	return p.EnhanceWithMetadata(ctx, buf, models.ImageMetadata{}, opts)
}

// EnhanceWithMetadata is Enhance with the source metadata, which selects the
// encoding for FormatOriginal.
func (p *Processor) EnhanceWithMetadata(ctx context.Context, buf *pixbuf.Buffer, meta models.ImageMetadata, opts models.EnhancementOptions) (*models.EnhancementResult, error) {
	start := time.Now()
	result := &models.EnhancementResult{
		ID:           uuid.NewString(),
		Timestamp:    start,
		Improvements: []models.Improvement{},
	}

	err := p.run(ctx, buf, meta, opts, result)
	result.ProcessingTimeSec = time.Since(start).Seconds()
	if err != nil {
		// All or nothing
		*result = models.EnhancementResult{
			ID:                result.ID,
			Timestamp:         result.Timestamp,
			ProcessingTimeSec: result.ProcessingTimeSec,
			Improvements:      []models.Improvement{},
			Error:             err.Error(),
		}
		return result, err
	}
	result.Success = true
	return result, nil
}

func (p *Processor) run(ctx context.Context, input *pixbuf.Buffer, meta models.ImageMetadata, opts models.EnhancementOptions, result *models.EnhancementResult) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.NewProcessingError("enhancement failed", fmt.Errorf("panic: %v", r))
		}
	}()

	if err := p.validator.ValidateOptions(opts); err != nil {
		return err
	}
	if input.Empty() {
		return apperrors.NewDegenerateInputError("cannot enhance a zero-size image", pixbuf.ErrEmpty)
	}
	if err := input.Validate(); err != nil {
		return apperrors.NewDegenerateInputError("malformed pixel buffer", err)
	}
	if err := p.checkAllocation(input.Width, input.Height); err != nil {
		return err
	}

	before, err := p.scorer.Analyze(ctx, input, meta)
	if err != nil {
		return err
	}

	working := input.Clone()
	working, improvements, err := p.pipeline(ctx, working, opts)
	if err != nil {
		return err
	}

	if p.encoder != nil {
		data, mime, err := p.encoder.Encode(working, opts.OutputFormat, opts.OutputQuality, meta.Format)
		if err != nil {
			return err
		}
		result.Encoded, result.MIMEType = data, mime
	}

	result.Thumbnail = resample.Thumbnail(working, p.options.ThumbnailSize)

	after, err := p.scorer.QuickScore(ctx, working)
	if err != nil {
		return err
	}

	result.EnhancedBuffer = working
	result.Width, result.Height = working.Width, working.Height
	result.Improvements = improvements
	result.QualityScore = models.QualityScore{
		Before:      before.Score,
		After:       after,
		Improvement: after - before.Score,
	}
	return nil
}

// pipeline applies the enabled steps in their fixed order. Each step sees the
// output of the previous one.
func (p *Processor) pipeline(ctx context.Context, buf *pixbuf.Buffer, opts models.EnhancementOptions) (*pixbuf.Buffer, []models.Improvement, error) {
	improvements := []models.Improvement{}

	type step struct {
		name    models.StepName
		enabled bool
		apply   func(*pixbuf.Buffer) (*pixbuf.Buffer, error)
	}

	inPlace := func(fn func(context.Context, *parallel.Pool, *pixbuf.Buffer) error) func(*pixbuf.Buffer) (*pixbuf.Buffer, error) {
		return func(b *pixbuf.Buffer) (*pixbuf.Buffer, error) {
			return b, fn(ctx, p.pool, b)
		}
	}
	replacing := func(fn func(context.Context, *parallel.Pool, *pixbuf.Buffer) (*pixbuf.Buffer, error)) func(*pixbuf.Buffer) (*pixbuf.Buffer, error) {
		return func(b *pixbuf.Buffer) (*pixbuf.Buffer, error) {
			return fn(ctx, p.pool, b)
		}
	}

	steps := []step{
		{models.StepAutoEnhance, opts.AutoEnhance, inPlace(autoLevels)},
		{models.StepDenoising, opts.Denoising, replacing(smooth)},
		{models.StepSharpening, opts.Sharpening, replacing(sharpen)},
		{models.StepColorCorrection, opts.ColorCorrection, inPlace(grayWorld)},
		{models.StepContrastEnhancement, opts.ContrastEnhancement, inPlace(contrastStretch)},
		{models.StepBrightnessAdjustment, opts.BrightnessAdjustment, inPlace(adjustBrightness)},
		{models.StepSaturationBoost, opts.SaturationBoost, inPlace(boostSaturation)},
		{models.StepOldPhotoRestoration, opts.OldPhotoRestoration, p.restoreOldPhoto(ctx)},
		{models.StepScratchRemoval, opts.ScratchRemoval, replacing(removeScratches)},
		{models.StepUpscaling, opts.Upscaling, p.upscale(opts.MaxWidth, opts.MaxHeight)},
	}

	for _, s := range steps {
		if !s.enabled {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, nil, apperrors.FromContext(err, fmt.Sprintf("enhancement interrupted before %s", s.name))
		}

		stepStart := time.Now()
		out, err := s.apply(buf)
		if err != nil {
			return nil, nil, wrapStepError(s.name, err)
		}
		// Upscaling without both bounds, or with room to spare, is a no-op
		if out == nil {
			continue
		}
		buf = out

		improvements = append(improvements, models.Improvement{Step: s.name, Description: Description(s.name)})
		if p.hook != nil {
			p.hook(s.name, time.Since(stepStart))
		}
	}
	return buf, improvements, nil
}

// restoreOldPhoto repeats denoising, colour correction and contrast, then
// removes the yellow cast of aged prints.
func (p *Processor) restoreOldPhoto(ctx context.Context) func(*pixbuf.Buffer) (*pixbuf.Buffer, error) {
	return func(b *pixbuf.Buffer) (*pixbuf.Buffer, error) {
		b, err := smooth(ctx, p.pool, b)
		if err != nil {
			return nil, err
		}
		if err := grayWorld(ctx, p.pool, b); err != nil {
			return nil, err
		}
		if err := contrastStretch(ctx, p.pool, b); err != nil {
			return nil, err
		}
		if err := removeYellowCast(ctx, p.pool, b); err != nil {
			return nil, err
		}
		return b, nil
	}
}

// upscale returns nil when no enlargement applies so the step is not recorded
func (p *Processor) upscale(maxWidth, maxHeight int) func(*pixbuf.Buffer) (*pixbuf.Buffer, error) {
	return func(b *pixbuf.Buffer) (*pixbuf.Buffer, error) {
		w, h, ok := resample.UpscaleTarget(b.Width, b.Height, maxWidth, maxHeight)
		if !ok {
			return nil, nil
		}
		if err := p.checkAllocation(w, h); err != nil {
			return nil, err
		}
		return resample.Resize(b, w, h), nil
	}
}

func (p *Processor) checkAllocation(width, height int) error {
	if p.options.MaxPixels > 0 && width*height > p.options.MaxPixels {
		return apperrors.NewAllocationError(
			fmt.Sprintf("%dx%d buffer exceeds the %d pixel limit", width, height, p.options.MaxPixels), nil)
	}
	return nil
}

func wrapStepError(step models.StepName, err error) error {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperrors.FromContext(err, fmt.Sprintf("%s interrupted", step))
	case apperrors.IsType(err, apperrors.ErrorTypeAllocation):
		return err
	default:
		return apperrors.NewProcessingError(fmt.Sprintf("%s failed", step), err)
	}
}
