package analyzer

import (
	"context"

	"github.com/anime-shed/photo-enhancer/internal/pixbuf"
	"github.com/anime-shed/photo-enhancer/pkg/models"
)

// ImageAnalyzer defines the main interface for image analysis
type ImageAnalyzer interface {
	Analyze(ctx context.Context, buf *pixbuf.Buffer, meta models.ImageMetadata) (*models.QualityReport, error)
	AnalyzeWithOptions(ctx context.Context, buf *pixbuf.Buffer, meta models.ImageMetadata, options AnalysisOptions) (*models.QualityReport, error)

	// QuickScore is the cheap post-enhancement estimate. It deliberately
	// differs from the full analyzer score.
	QuickScore(ctx context.Context, buf *pixbuf.Buffer) (float32, error)

	// Lifecycle management
	Close() error
}

// MetricsCalculator runs the individual diagnostic passes
type MetricsCalculator interface {
	Sharpness(ctx context.Context, plane Plane) (float64, error)
	Noise(ctx context.Context, plane Plane) (float64, error)
	Contrast(buf *pixbuf.Buffer) ContrastResult
	Exposure(ctx context.Context, buf *pixbuf.Buffer) (ExposureResult, error)
	ColorCast(ctx context.Context, buf *pixbuf.Buffer) (ColorCastResult, error)
	LocalDifference(ctx context.Context, plane Plane) (float64, error)
}
