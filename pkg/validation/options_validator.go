package validation

import (
	"fmt"

	apperrors "github.com/anime-shed/photo-enhancer/internal/errors"
	"github.com/anime-shed/photo-enhancer/pkg/models"
)

// OptionsValidator checks enhancement options before any pixel work starts
type OptionsValidator struct {
	allowedFormats []models.OutputFormat
}

// NewOptionsValidator creates a validator accepting every supported output format
func NewOptionsValidator() *OptionsValidator {
	return &OptionsValidator{
		allowedFormats: []models.OutputFormat{
			models.FormatOriginal,
			models.FormatJPEG,
			models.FormatPNG,
			models.FormatWebP,
		},
	}
}

// NewOptionsValidatorWithFormats restricts the accepted output formats
func NewOptionsValidatorWithFormats(formats []models.OutputFormat) *OptionsValidator {
	return &OptionsValidator{allowedFormats: formats}
}

// ValidateOptions returns a validation AppError naming the first bad field
func (v *OptionsValidator) ValidateOptions(opts models.EnhancementOptions) error {
	if opts.OutputQuality < 0 || opts.OutputQuality > 100 {
		return apperrors.NewValidationError("invalid enhancement options",
			&models.ValidationError{Field: "output_quality", Message: fmt.Sprintf("%d is outside 0..100", opts.OutputQuality)})
	}

	if !v.isFormatAllowed(opts.OutputFormat) {
		return apperrors.NewValidationError("invalid enhancement options",
			&models.ValidationError{Field: "output_format", Message: fmt.Sprintf("unsupported format %q", opts.OutputFormat)})
	}

	if opts.MaxWidth < 0 {
		return apperrors.NewValidationError("invalid enhancement options",
			&models.ValidationError{Field: "max_width", Message: "must not be negative"})
	}
	if opts.MaxHeight < 0 {
		return apperrors.NewValidationError("invalid enhancement options",
			&models.ValidationError{Field: "max_height", Message: "must not be negative"})
	}

	return nil
}

// isFormatAllowed treats an empty format as original
func (v *OptionsValidator) isFormatAllowed(format models.OutputFormat) bool {
	if format == "" {
		format = models.FormatOriginal
	}
	for _, allowed := range v.allowedFormats {
		if format == allowed {
			return true
		}
	}
	return false
}
