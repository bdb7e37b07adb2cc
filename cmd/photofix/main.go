package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/anime-shed/photo-enhancer/internal/codec"
	"github.com/anime-shed/photo-enhancer/internal/config"
	"github.com/anime-shed/photo-enhancer/internal/container"
	apperrors "github.com/anime-shed/photo-enhancer/internal/errors"
	"github.com/anime-shed/photo-enhancer/internal/logger"
	"github.com/anime-shed/photo-enhancer/internal/recommend"
	"github.com/anime-shed/photo-enhancer/internal/repository"
	"github.com/anime-shed/photo-enhancer/pkg/models"
)

// Output flags shared by enhance and auto
var (
	outputFlag    string
	thumbnailFlag string
	formatFlag    string
	qualityFlag   int
	maxWidthFlag  int
	maxHeightFlag int
)

// rootCmd is the main Cobra command for the photofix CLI.
var rootCmd = &cobra.Command{
	Use:   "photofix",
	Short: "Photo quality analysis and enhancement",
	Long: `photofix scores the visual quality of a photo, lists its defects and
applies a fixed pipeline of pixel corrections.

Examples:
  photofix analyze scan.jpg
  photofix enhance scan.jpg --denoise --contrast -o fixed.jpg
  photofix auto old-print.png --preset restoration --max-width 2400 --max-height 2400`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(newAnalyzeCmd(), newEnhanceCmd(), newAutoCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.WithError(err).Error("photofix failed")
		os.Exit(apperrors.GetExitCode(err))
	}
}

// newContainer loads configuration and wires the service graph
func newContainer() (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, apperrors.NewValidationError("invalid configuration", err)
	}
	return container.NewContainer(cfg)
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Path for the enhanced image (default: <input>_enhanced.<ext>)")
	cmd.Flags().StringVar(&thumbnailFlag, "thumbnail", "", "Optional path for a PNG thumbnail")
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "", "Output format: original, jpg, png or webp (default from DEFAULT_OUTPUT_FORMAT)")
	cmd.Flags().IntVarP(&qualityFlag, "quality", "q", -1, "Output quality 0-100 (default from DEFAULT_OUTPUT_QUALITY)")
	cmd.Flags().IntVar(&maxWidthFlag, "max-width", 0, "Upscaling bound; needs --max-height too")
	cmd.Flags().IntVar(&maxHeightFlag, "max-height", 0, "Upscaling bound; needs --max-width too")
}

// outputSettings resolves the format and quality flags against config defaults
func outputSettings(cfg *config.Config) (models.OutputFormat, int, error) {
	format := cfg.DefaultOutputFormat
	if formatFlag != "" {
		parsed, ok := models.ParseOutputFormat(strings.ToLower(formatFlag))
		if !ok {
			return "", 0, apperrors.NewValidationError("invalid --format",
				&models.ValidationError{Field: "output_format", Message: fmt.Sprintf("unsupported format %q", formatFlag)})
		}
		format = parsed
	}

	quality := int(cfg.DefaultOutputQuality)
	if qualityFlag >= 0 {
		quality = qualityFlag
	}
	return format, quality, nil
}

// readInput loads the source file through the repository
func readInput(ctx context.Context, c *container.Container, path string) ([]byte, error) {
	data, err := c.Repository().LoadImage(ctx, path)
	switch {
	case err == nil:
		return data, nil
	case errors.Is(err, repository.ErrInvalidImagePath), errors.Is(err, repository.ErrImageTooLarge):
		return nil, apperrors.NewValidationError(fmt.Sprintf("cannot use %s", path), err)
	default:
		return nil, apperrors.NewDecodeError(fmt.Sprintf("cannot read %s", path), err)
	}
}

// writeOutputs stores the encoded image and the optional thumbnail
func writeOutputs(c *container.Container, input string, result *models.EnhancementResult) error {
	path := outputFlag
	if path == "" {
		ext := filepath.Ext(input)
		path = strings.TrimSuffix(input, ext) + "_enhanced" + codec.Extension(result.MIMEType)
	}
	if err := os.WriteFile(path, result.Encoded, 0o644); err != nil {
		return apperrors.NewInternalError("cannot write output", err)
	}

	fields := logrus.Fields{"output": path, "mime_type": result.MIMEType}
	if thumbnailFlag != "" && result.Thumbnail != nil {
		data, _, err := c.Codec().Encode(result.Thumbnail, models.FormatPNG, 0, "")
		if err != nil {
			return err
		}
		if err := os.WriteFile(thumbnailFlag, data, 0o644); err != nil {
			return apperrors.NewInternalError("cannot write thumbnail", err)
		}
		fields["thumbnail"] = thumbnailFlag
	}
	logger.WithFields(fields).Info("Enhanced image written")
	return nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// sizeOverride applies the max-size flags
func sizeOverride() recommend.Override {
	return recommend.WithMaxSize(maxWidthFlag, maxHeightFlag)
}
