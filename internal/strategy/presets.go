package strategy

import (
	"fmt"
	"sort"

	"github.com/anime-shed/photo-enhancer/internal/recommend"
	"github.com/anime-shed/photo-enhancer/pkg/models"
)

// Preset names
const (
	Recommended = "recommended"
	Restoration = "restoration"
	Minimal     = "minimal"
)

// EnhancementStrategy turns a quality report into enhancement options
type EnhancementStrategy interface {
	Options(report *models.QualityReport) models.EnhancementOptions
	GetStrategyName() string
}

// RecommendedStrategy follows the recommendation table
type RecommendedStrategy struct {
	overrides []recommend.Override
}

// NewRecommendedStrategy creates a strategy driven by the report's issues
func NewRecommendedStrategy(overrides ...recommend.Override) EnhancementStrategy {
	return &RecommendedStrategy{overrides: overrides}
}

// Options derives options from the report
func (s *RecommendedStrategy) Options(report *models.QualityReport) models.EnhancementOptions {
	return recommend.Recommend(report, s.overrides...)
}

// GetStrategyName returns the strategy name
func (s *RecommendedStrategy) GetStrategyName() string {
	return Recommended
}

// RestorationStrategy enables every corrective step regardless of findings
type RestorationStrategy struct {
	overrides []recommend.Override
}

// NewRestorationStrategy creates a full restoration strategy
func NewRestorationStrategy(overrides ...recommend.Override) EnhancementStrategy {
	return &RestorationStrategy{overrides: overrides}
}

// Options ignores the report. Upscaling still needs a size bound from an override.
func (s *RestorationStrategy) Options(_ *models.QualityReport) models.EnhancementOptions {
	opts := models.EnhancementOptions{
		AutoEnhance:          true,
		Denoising:            true,
		Sharpening:           true,
		Upscaling:            true,
		ColorCorrection:      true,
		ContrastEnhancement:  true,
		BrightnessAdjustment: true,
		OldPhotoRestoration:  true,
		ScratchRemoval:       true,
		OutputFormat:         models.FormatOriginal,
		OutputQuality:        recommend.DefaultOutputQuality,
	}
	return apply(opts, s.overrides)
}

// GetStrategyName returns the strategy name
func (s *RestorationStrategy) GetStrategyName() string {
	return Restoration
}

// MinimalStrategy only stretches levels
type MinimalStrategy struct {
	overrides []recommend.Override
}

// NewMinimalStrategy creates a strategy that runs autoEnhance alone
func NewMinimalStrategy(overrides ...recommend.Override) EnhancementStrategy {
	return &MinimalStrategy{overrides: overrides}
}

// Options ignores the report
func (s *MinimalStrategy) Options(_ *models.QualityReport) models.EnhancementOptions {
	opts := models.EnhancementOptions{
		AutoEnhance:   true,
		OutputFormat:  models.FormatOriginal,
		OutputQuality: recommend.DefaultOutputQuality,
	}
	return apply(opts, s.overrides)
}

// GetStrategyName returns the strategy name
func (s *MinimalStrategy) GetStrategyName() string {
	return Minimal
}

var constructors = map[string]func(...recommend.Override) EnhancementStrategy{
	Recommended: NewRecommendedStrategy,
	Restoration: NewRestorationStrategy,
	Minimal:     NewMinimalStrategy,
}

// ByName looks up a preset
func ByName(name string, overrides ...recommend.Override) (EnhancementStrategy, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset %q (available: %v)", name, Names())
	}
	return ctor(overrides...), nil
}

// Names lists the presets in sorted order
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EnhancementContext manages the active strategy
type EnhancementContext struct {
	strategy EnhancementStrategy
}

// NewEnhancementContext creates a new enhancement context
func NewEnhancementContext(strategy EnhancementStrategy) *EnhancementContext {
	return &EnhancementContext{
		strategy: strategy,
	}
}

// SetStrategy changes the strategy
func (c *EnhancementContext) SetStrategy(strategy EnhancementStrategy) {
	c.strategy = strategy
}

// Options runs the current strategy
func (c *EnhancementContext) Options(report *models.QualityReport) models.EnhancementOptions {
	return c.strategy.Options(report)
}

// GetCurrentStrategy returns the current strategy name
func (c *EnhancementContext) GetCurrentStrategy() string {
	return c.strategy.GetStrategyName()
}

func apply(opts models.EnhancementOptions, overrides []recommend.Override) models.EnhancementOptions {
	for _, override := range overrides {
		override(&opts)
	}
	return opts
}
