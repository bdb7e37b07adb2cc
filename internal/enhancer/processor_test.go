package enhancer

import (
	"context"
	"testing"
	"time"

	"github.com/anime-shed/photo-enhancer/internal/analyzer"
	"github.com/anime-shed/photo-enhancer/internal/codec"
	apperrors "github.com/anime-shed/photo-enhancer/internal/errors"
	"github.com/anime-shed/photo-enhancer/internal/pixbuf"
	"github.com/anime-shed/photo-enhancer/pkg/models"
)

func newTestProcessor(t *testing.T, options ProcessorOptions) *Processor {
	t.Helper()
	a, err := analyzer.NewImageAnalyzer()
	if err != nil {
		t.Fatalf("Failed to create analyzer: %v", err)
	}
	return NewProcessor(options, a, codec.New(0))
}

func allOn() models.EnhancementOptions {
	return models.EnhancementOptions{
		AutoEnhance:          true,
		Denoising:            true,
		Sharpening:           true,
		Upscaling:            true,
		ColorCorrection:      true,
		ContrastEnhancement:  true,
		BrightnessAdjustment: true,
		SaturationBoost:      true,
		OldPhotoRestoration:  true,
		ScratchRemoval:       true,
		OutputFormat:         models.FormatPNG,
		OutputQuality:        90,
		MaxWidth:             1000,
		MaxHeight:            1000,
	}
}

func TestEnhance_AllOptionsOffIsIdentity(t *testing.T) {
	p := newTestProcessor(t, DefaultProcessorOptions())
	input := colourGradient(40, 30)

	result, err := p.Enhance(context.Background(), input, models.EnhancementOptions{OutputFormat: models.FormatPNG, OutputQuality: 80})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("Expected success, got error %q", result.Error)
	}
	if len(result.Improvements) != 0 {
		t.Errorf("Expected no improvements, got %v", result.Improvements)
	}
	if result.EnhancedBuffer == input {
		t.Error("Expected a copy, not the caller's buffer")
	}
	for i := range input.Pix {
		if result.EnhancedBuffer.Pix[i] != input.Pix[i] {
			t.Fatalf("byte %d differs: %d vs %d", i, input.Pix[i], result.EnhancedBuffer.Pix[i])
		}
	}
	if result.MIMEType != codec.MIMEPNG || len(result.Encoded) == 0 {
		t.Errorf("Expected PNG output, got %q with %d bytes", result.MIMEType, len(result.Encoded))
	}
}

func TestEnhance_StepOrder(t *testing.T) {
	p := newTestProcessor(t, DefaultProcessorOptions())

	result, err := p.Enhance(context.Background(), colourGradient(20, 20), allOn())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := []models.StepName{
		models.StepAutoEnhance,
		models.StepDenoising,
		models.StepSharpening,
		models.StepColorCorrection,
		models.StepContrastEnhancement,
		models.StepBrightnessAdjustment,
		models.StepSaturationBoost,
		models.StepOldPhotoRestoration,
		models.StepScratchRemoval,
		models.StepUpscaling,
	}
	if len(result.Improvements) != len(want) {
		t.Fatalf("Expected %d improvements, got %d", len(want), len(result.Improvements))
	}
	for i, step := range want {
		if result.Improvements[i].Step != step {
			t.Errorf("position %d: expected %s, got %s", i, step, result.Improvements[i].Step)
		}
		if result.Improvements[i].Description != Description(step) {
			t.Errorf("position %d: unexpected description %q", i, result.Improvements[i].Description)
		}
	}
}

func TestEnhance_UpscaleCappedAtTwice(t *testing.T) {
	p := newTestProcessor(t, DefaultProcessorOptions())

	opts := models.EnhancementOptions{Upscaling: true, MaxWidth: 10000, MaxHeight: 10000, OutputFormat: models.FormatPNG}
	result, err := p.Enhance(context.Background(), colourGradient(30, 20), opts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Width != 60 || result.Height != 40 {
		t.Errorf("Expected 60x40, got %dx%d", result.Width, result.Height)
	}
}

func TestEnhance_UpscaleWithoutBoundsIsSkipped(t *testing.T) {
	p := newTestProcessor(t, DefaultProcessorOptions())

	opts := models.EnhancementOptions{Upscaling: true, MaxWidth: 500, OutputFormat: models.FormatPNG}
	result, err := p.Enhance(context.Background(), colourGradient(30, 20), opts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Width != 30 || result.Height != 20 {
		t.Errorf("Expected original size, got %dx%d", result.Width, result.Height)
	}
	if len(result.Improvements) != 0 {
		t.Errorf("Expected upscaling not to be recorded, got %v", result.Improvements)
	}
}

func TestEnhance_FlatImageDoesNotCrash(t *testing.T) {
	p := newTestProcessor(t, DefaultProcessorOptions())

	result, err := p.Enhance(context.Background(), pixbuf.Filled(16, 16, 128, 128, 128, 255), allOn())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.Success {
		t.Fatalf("Expected success on a flat image, got %q", result.Error)
	}
}

func TestEnhance_InvalidQuality(t *testing.T) {
	p := newTestProcessor(t, DefaultProcessorOptions())

	opts := models.EnhancementOptions{AutoEnhance: true, OutputQuality: 150}
	result, err := p.Enhance(context.Background(), colourGradient(10, 10), opts)

	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
	if result.Success || result.Error == "" {
		t.Error("Expected a failed result with an error message")
	}
	if result.EnhancedBuffer != nil || result.Thumbnail != nil {
		t.Error("Expected no partial output")
	}
}

func TestEnhance_AllocationCeiling(t *testing.T) {
	p := newTestProcessor(t, DefaultProcessorOptions().WithMaxPixels(100))
	result, err := p.Enhance(context.Background(), colourGradient(20, 20), models.EnhancementOptions{AutoEnhance: true})
	if !apperrors.IsType(err, apperrors.ErrorTypeAllocation) {
		t.Errorf("Expected allocation error, got %v", err)
	}
	if result.Success {
		t.Error("Expected failure")
	}

	// The input fits but the upscale target does not
	p = newTestProcessor(t, DefaultProcessorOptions().WithMaxPixels(500))
	opts := models.EnhancementOptions{AutoEnhance: true, Upscaling: true, MaxWidth: 40, MaxHeight: 40}
	result, err = p.Enhance(context.Background(), colourGradient(20, 20), opts)
	if !apperrors.IsType(err, apperrors.ErrorTypeAllocation) {
		t.Errorf("Expected allocation error for the upscale target, got %v", err)
	}
	if result.Success || len(result.Improvements) != 0 {
		t.Error("Expected no partial improvements")
	}
}

func TestEnhance_Canceled(t *testing.T) {
	p := newTestProcessor(t, DefaultProcessorOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := p.Enhance(ctx, colourGradient(50, 50), allOn())
	if !apperrors.IsType(err, apperrors.ErrorTypeCanceled) {
		t.Errorf("Expected canceled error, got %v", err)
	}
	if result.Success {
		t.Error("Expected failure")
	}
}

func TestEnhance_ZeroSize(t *testing.T) {
	p := newTestProcessor(t, DefaultProcessorOptions())

	result, err := p.Enhance(context.Background(), &pixbuf.Buffer{}, models.EnhancementOptions{})
	if !apperrors.IsType(err, apperrors.ErrorTypeDegenerate) {
		t.Errorf("Expected degenerate input error, got %v", err)
	}
	if result.Success {
		t.Error("Expected failure")
	}
}

type panickingScorer struct{}

func (panickingScorer) Analyze(context.Context, *pixbuf.Buffer, models.ImageMetadata) (*models.QualityReport, error) {
	panic("out of memory")
}

func (panickingScorer) QuickScore(context.Context, *pixbuf.Buffer) (float32, error) {
	return 0, nil
}

func TestEnhance_PanicBecomesFailure(t *testing.T) {
	p := NewProcessor(DefaultProcessorOptions(), panickingScorer{}, nil)

	result, err := p.Enhance(context.Background(), colourGradient(10, 10), models.EnhancementOptions{AutoEnhance: true})
	if !apperrors.IsType(err, apperrors.ErrorTypeProcessing) {
		t.Errorf("Expected processing error, got %v", err)
	}
	if result.Success {
		t.Error("Expected failure")
	}
}

func TestEnhance_QualityScoreAndThumbnail(t *testing.T) {
	p := newTestProcessor(t, DefaultProcessorOptions().WithThumbnailSize(16))

	result, err := p.Enhance(context.Background(), colourGradient(64, 32), models.EnhancementOptions{AutoEnhance: true, ContrastEnhancement: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	qs := result.QualityScore
	if qs.Improvement != qs.After-qs.Before {
		t.Errorf("Expected improvement = after - before, got %+v", qs)
	}
	if qs.After < 20 || qs.After > 100 {
		t.Errorf("Expected after score in [20,100], got %f", qs.After)
	}
	if result.Thumbnail.Width != 16 || result.Thumbnail.Height != 16 {
		t.Errorf("Expected 16x16 thumbnail, got %dx%d", result.Thumbnail.Width, result.Thumbnail.Height)
	}
	if result.ProcessingTimeSec < 0 {
		t.Error("Expected non-negative processing time")
	}
}

func TestEnhance_InputNotMutated(t *testing.T) {
	p := newTestProcessor(t, DefaultProcessorOptions())
	input := colourGradient(24, 24)
	snapshot := input.Clone()

	if _, err := p.Enhance(context.Background(), input, allOn()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for i := range snapshot.Pix {
		if snapshot.Pix[i] != input.Pix[i] {
			t.Fatalf("input byte %d modified", i)
		}
	}
}

func TestEnhance_StepHook(t *testing.T) {
	var seen []models.StepName
	p := newTestProcessor(t, DefaultProcessorOptions()).WithStepHook(func(step models.StepName, _ time.Duration) {
		seen = append(seen, step)
	})

	opts := models.EnhancementOptions{Denoising: true, SaturationBoost: true}
	if _, err := p.Enhance(context.Background(), colourGradient(12, 12), opts); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(seen) != 2 || seen[0] != models.StepDenoising || seen[1] != models.StepSaturationBoost {
		t.Errorf("Expected denoising then saturation, got %v", seen)
	}
}

func TestEnhance_WorkerCountDoesNotChangeOutput(t *testing.T) {
	input := colourGradient(70, 90)
	opts := allOn()
	opts.Upscaling = false

	a, err := newTestProcessor(t, DefaultProcessorOptions().WithWorkers(1)).Enhance(context.Background(), input, opts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	b, err := newTestProcessor(t, DefaultProcessorOptions().WithWorkers(6)).Enhance(context.Background(), input, opts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for i := range a.EnhancedBuffer.Pix {
		if a.EnhancedBuffer.Pix[i] != b.EnhancedBuffer.Pix[i] {
			t.Fatalf("byte %d differs between worker counts", i)
		}
	}
}
