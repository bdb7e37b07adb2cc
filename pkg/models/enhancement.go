package models

import (
	"time"

	"github.com/anime-shed/photo-enhancer/internal/pixbuf"
)

// OutputFormat selects the encoding of the enhanced image
type OutputFormat string

const (
	FormatOriginal OutputFormat = "original"
	FormatJPEG     OutputFormat = "jpg"
	FormatPNG      OutputFormat = "png"
	FormatWebP     OutputFormat = "webp"
)

// ParseOutputFormat accepts the canonical names plus "jpeg"; empty means original.
func ParseOutputFormat(s string) (OutputFormat, bool) {
	switch s {
	case "", "original":
		return FormatOriginal, true
	case "jpg", "jpeg":
		return FormatJPEG, true
	case "png":
		return FormatPNG, true
	case "webp":
		return FormatWebP, true
	default:
		return "", false
	}
}

// EnhancementOptions selects which transforms run. The processor reads it
// but never modifies it.
type EnhancementOptions struct {
	AutoEnhance          bool `json:"auto_enhance"`
	Denoising            bool `json:"denoising"`
	Sharpening           bool `json:"sharpening"`
	Upscaling            bool `json:"upscaling"`
	ColorCorrection      bool `json:"color_correction"`
	ContrastEnhancement  bool `json:"contrast_enhancement"`
	BrightnessAdjustment bool `json:"brightness_adjustment"`
	SaturationBoost      bool `json:"saturation_boost"`
	OldPhotoRestoration  bool `json:"old_photo_restoration"`
	ScratchRemoval       bool `json:"scratch_removal"`

	OutputFormat  OutputFormat `json:"output_format"`
	OutputQuality int          `json:"output_quality"`

	// Zero means not supplied. Upscaling needs both.
	MaxWidth  int `json:"max_width,omitempty"`
	MaxHeight int `json:"max_height,omitempty"`
}

// StepName identifies a pipeline transform
type StepName string

const (
	StepAutoEnhance          StepName = "auto_enhance"
	StepDenoising            StepName = "denoising"
	StepSharpening           StepName = "sharpening"
	StepColorCorrection      StepName = "color_correction"
	StepContrastEnhancement  StepName = "contrast_enhancement"
	StepBrightnessAdjustment StepName = "brightness_adjustment"
	StepSaturationBoost      StepName = "saturation_boost"
	StepOldPhotoRestoration  StepName = "old_photo_restoration"
	StepScratchRemoval       StepName = "scratch_removal"
	StepUpscaling            StepName = "upscaling"
)

// Improvement records a transform that actually ran
type Improvement struct {
	Step        StepName `json:"step"`
	Description string   `json:"description"`
}

// QualityScore compares the input and output quality
type QualityScore struct {
	Before      float32 `json:"before"`
	After       float32 `json:"after"`
	Improvement float32 `json:"improvement"`
}

// EnhancementResult is built once per enhance call. On failure only
// Success, Error and ProcessingTimeSec are meaningful.
type EnhancementResult struct {
	ID                string        `json:"id"`
	Success           bool          `json:"success"`
	Improvements      []Improvement `json:"improvements"`
	ProcessingTimeSec float64       `json:"processing_time_sec"`
	QualityScore      QualityScore  `json:"quality_score"`
	Error             string        `json:"error,omitempty"`
	Timestamp         time.Time     `json:"timestamp"`

	EnhancedBuffer *pixbuf.Buffer `json:"-"`
	Thumbnail      *pixbuf.Buffer `json:"-"`

	// Encoded output, present when an encoder was configured
	Encoded  []byte `json:"-"`
	MIMEType string `json:"mime_type,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}
