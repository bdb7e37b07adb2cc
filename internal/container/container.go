package container

import (
	"fmt"

	"github.com/anime-shed/photo-enhancer/internal/analyzer"
	"github.com/anime-shed/photo-enhancer/internal/codec"
	"github.com/anime-shed/photo-enhancer/internal/config"
	"github.com/anime-shed/photo-enhancer/internal/enhancer"
	"github.com/anime-shed/photo-enhancer/internal/logger"
	"github.com/anime-shed/photo-enhancer/internal/observer"
	"github.com/anime-shed/photo-enhancer/internal/repository"
	"github.com/anime-shed/photo-enhancer/internal/service"
)

// Container holds all application dependencies
type Container struct {
	config          *config.Config
	imageRepository repository.ImageRepository
	codec           *codec.Codec
	imageAnalyzer   analyzer.ImageAnalyzer
	processor       *enhancer.Processor
	eventBus        *observer.EventBus
	metricsObserver *observer.MetricsObserver
	photoService    service.PhotoService
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger.SetLevel(cfg.LogLevel)

	// Build dependency graph
	workers := int(cfg.Workers)
	imageAnalyzer, err := analyzer.NewImageAnalyzerWithOptions(analyzer.DefaultOptions().WithWorkers(workers))
	if err != nil {
		return nil, fmt.Errorf("failed to create analyzer: %w", err)
	}

	imageRepository := repository.NewFileImageRepository(cfg.MaxInputBytes)
	imageCodec := codec.New(int(cfg.MaxPixels))
	processor := enhancer.NewProcessor(
		enhancer.DefaultProcessorOptions().
			WithMaxPixels(int(cfg.MaxPixels)).
			WithThumbnailSize(int(cfg.ThumbnailSize)).
			WithWorkers(workers),
		imageAnalyzer,
		imageCodec,
	)

	metricsObserver := observer.NewMetricsObserver()
	eventBus := observer.NewEventBus()
	eventBus.Subscribe(observer.NewLoggingObserver(logger.Logger))
	eventBus.Subscribe(metricsObserver)

	photoService := service.NewPhotoService(imageCodec, imageAnalyzer, processor, eventBus, service.Timeouts{
		Analysis:    cfg.AnalysisTimeout,
		Enhancement: cfg.EnhancementTimeout,
	})

	return &Container{
		config:          cfg,
		imageRepository: imageRepository,
		codec:           imageCodec,
		imageAnalyzer:   imageAnalyzer,
		processor:       processor,
		eventBus:        eventBus,
		metricsObserver: metricsObserver,
		photoService:    photoService,
	}, nil
}

// PhotoService returns the analysis and enhancement service
func (c *Container) PhotoService() service.PhotoService {
	return c.photoService
}

// Repository returns the source image reader
func (c *Container) Repository() repository.ImageRepository {
	return c.imageRepository
}

// Codec returns the image codec
func (c *Container) Codec() *codec.Codec {
	return c.codec
}

// Metrics returns the in-process pipeline totals
func (c *Container) Metrics() *observer.MetricsObserver {
	return c.metricsObserver
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Close releases analyzer resources
func (c *Container) Close() error {
	return c.imageAnalyzer.Close()
}
