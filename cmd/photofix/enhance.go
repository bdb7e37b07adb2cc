package main

import (
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/anime-shed/photo-enhancer/internal/errors"
	"github.com/anime-shed/photo-enhancer/internal/recommend"
	"github.com/anime-shed/photo-enhancer/internal/strategy"
	"github.com/anime-shed/photo-enhancer/pkg/models"
)

// Step flags for enhance
var stepFlags models.EnhancementOptions

func newEnhanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "enhance <image>",
		Short: "Apply the selected enhancement steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer()
			if err != nil {
				return err
			}
			defer c.Close()

			format, quality, err := outputSettings(c.Config())
			if err != nil {
				return err
			}
			opts := stepFlags
			opts.OutputFormat = format
			opts.OutputQuality = quality
			opts.MaxWidth = maxWidthFlag
			opts.MaxHeight = maxHeightFlag

			data, err := readInput(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}

			result, err := c.PhotoService().Enhance(cmd.Context(), data, opts)
			if err != nil {
				_ = printJSON(cmd.OutOrStdout(), result)
				return err
			}
			if err := writeOutputs(c, args[0], result); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&stepFlags.AutoEnhance, "auto", false, "Per-channel level stretch")
	f.BoolVar(&stepFlags.Denoising, "denoise", false, "Gaussian blur, radius 1")
	f.BoolVar(&stepFlags.Sharpening, "sharpen", false, "3x3 unsharp mask")
	f.BoolVar(&stepFlags.ColorCorrection, "color", false, "Gray-world white balance")
	f.BoolVar(&stepFlags.ContrastEnhancement, "contrast", false, "Stretch around mid-gray by 1.2")
	f.BoolVar(&stepFlags.BrightnessAdjustment, "brightness", false, "Brighten dark images, darken bright ones")
	f.BoolVar(&stepFlags.SaturationBoost, "saturation", false, "Raise HSL saturation by 1.2")
	f.BoolVar(&stepFlags.OldPhotoRestoration, "restore", false, "Old photo restoration")
	f.BoolVar(&stepFlags.ScratchRemoval, "scratches", false, "Median filter on scratch and dust pixels")
	f.BoolVar(&stepFlags.Upscaling, "upscale", false, "Upscale up to 2x within --max-width/--max-height")
	addOutputFlags(cmd)
	return cmd
}

func newAutoCmd() *cobra.Command {
	var (
		presetFlag     string
		saturationFlag bool
	)

	cmd := &cobra.Command{
		Use:   "auto <image>",
		Short: "Analyze, pick options from a preset and enhance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer()
			if err != nil {
				return err
			}
			defer c.Close()

			format, quality, err := outputSettings(c.Config())
			if err != nil {
				return err
			}
			overrides := []recommend.Override{recommend.WithOutput(format, quality), sizeOverride()}
			if saturationFlag {
				overrides = append(overrides, recommend.WithSaturationBoost())
			}

			preset, err := strategy.ByName(presetFlag, overrides...)
			if err != nil {
				return apperrors.NewValidationError("invalid --preset", err)
			}

			data, err := readInput(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}

			report, result, err := c.PhotoService().AutoEnhance(cmd.Context(), data, preset)
			out := autoOutput{Preset: preset.GetStrategyName(), Report: report, Result: result}
			if err != nil {
				_ = printJSON(cmd.OutOrStdout(), out)
				return err
			}
			if err := writeOutputs(c, args[0], result); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVarP(&presetFlag, "preset", "p", strategy.Recommended, "One of "+strings.Join(strategy.Names(), ", "))
	cmd.Flags().BoolVar(&saturationFlag, "saturation", false, "Also boost saturation")
	addOutputFlags(cmd)
	return cmd
}

type autoOutput struct {
	Preset string                    `json:"preset"`
	Report *models.QualityReport     `json:"report,omitempty"`
	Result *models.EnhancementResult `json:"result,omitempty"`
}
