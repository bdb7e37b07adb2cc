// Package recommend maps analysis findings to a default set of enhancement
// options.
package recommend

import (
	"github.com/anime-shed/photo-enhancer/pkg/models"
)

// DegradedScore is the score below which a photo is treated as badly degraded
// and restoration is forced on.
const DegradedScore = 40

// DefaultOutputQuality is used when no override sets one
const DefaultOutputQuality = 92

// Override adjusts the recommended options after the decision table ran
type Override func(*models.EnhancementOptions)

// Recommend derives options from a report
func Recommend(report *models.QualityReport, overrides ...Override) models.EnhancementOptions {
	if report == nil {
		return FromIssues(nil, 100, overrides...)
	}
	return FromIssues(report.Issues, report.Score, overrides...)
}

// FromIssues is the decision table itself
func FromIssues(issues []models.Issue, score float32, overrides ...Override) models.EnhancementOptions {
	opts := models.EnhancementOptions{
		AutoEnhance:   true,
		OutputFormat:  models.FormatOriginal,
		OutputQuality: DefaultOutputQuality,
	}

	for _, issue := range issues {
		switch issue.Kind {
		case models.IssueBlur:
			opts.Sharpening = true
		case models.IssueNoise:
			opts.Denoising = true
		case models.IssueLowResolution:
			opts.Upscaling = true
		case models.IssueLowContrast:
			opts.ContrastEnhancement = true
		case models.IssueOverexposed, models.IssueUnderexposed:
			opts.BrightnessAdjustment = true
		case models.IssueColorCast:
			opts.ColorCorrection = true
		}
	}

	if score < DegradedScore {
		opts.OldPhotoRestoration = true
		opts.ScratchRemoval = true
	}

	for _, override := range overrides {
		override(&opts)
	}
	return opts
}

// WithoutAutoEnhance turns off the automatic level stretch
func WithoutAutoEnhance() Override {
	return func(o *models.EnhancementOptions) {
		o.AutoEnhance = false
	}
}

// WithOutput sets the output encoding
func WithOutput(format models.OutputFormat, quality int) Override {
	return func(o *models.EnhancementOptions) {
		o.OutputFormat = format
		o.OutputQuality = quality
	}
}

// WithMaxSize bounds the upscaling target
func WithMaxSize(width, height int) Override {
	return func(o *models.EnhancementOptions) {
		o.MaxWidth = width
		o.MaxHeight = height
	}
}

// WithSaturationBoost enables the saturation step, which no issue maps to
func WithSaturationBoost() Override {
	return func(o *models.EnhancementOptions) {
		o.SaturationBoost = true
	}
}
