package analyzer

import (
	"github.com/anime-shed/photo-enhancer/internal/histogram"
	"github.com/anime-shed/photo-enhancer/pkg/validation"
)

// AnalysisOptions provides flexible configuration for image analysis
type AnalysisOptions struct {
	// Normalization constants for the blur and noise passes
	BlurNormalization  float64
	NoiseNormalization float64

	// Brightness cut-offs for the exposure pass
	OverexposedLevel  float64
	UnderexposedLevel float64

	// Fraction trimmed from each end of the luminance histogram
	TrimFraction float64

	// Issue classification
	Thresholds validation.QualityThresholds

	// Performance options
	MaxWorkers int
}

// DefaultOptions returns default analysis options
func DefaultOptions() AnalysisOptions {
	return AnalysisOptions{
		BlurNormalization:  50,
		NoiseNormalization: 10000,
		OverexposedLevel:   240,
		UnderexposedLevel:  15,
		TrimFraction:       histogram.DefaultTrim,
		Thresholds:         validation.DefaultQualityThresholds(),
		MaxWorkers:         0, // Use default CPU count
	}
}

// SequentialOptions returns default options restricted to a single goroutine
func SequentialOptions() AnalysisOptions {
	return DefaultOptions().WithWorkers(1)
}

// WithThresholds replaces the issue classification thresholds
func (opts AnalysisOptions) WithThresholds(thresholds validation.QualityThresholds) AnalysisOptions {
	opts.Thresholds = thresholds
	return opts
}

// WithWorkers sets the concurrency limit; zero or less means one per CPU
func (opts AnalysisOptions) WithWorkers(workers int) AnalysisOptions {
	opts.MaxWorkers = workers
	return opts
}

// WithTrim sets the histogram trim fraction
func (opts AnalysisOptions) WithTrim(fraction float64) AnalysisOptions {
	opts.TrimFraction = fraction
	return opts
}
