package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/anime-shed/photo-enhancer/internal/analyzer"
	"github.com/anime-shed/photo-enhancer/internal/enhancer"
	apperrors "github.com/anime-shed/photo-enhancer/internal/errors"
	"github.com/anime-shed/photo-enhancer/internal/logger"
	"github.com/anime-shed/photo-enhancer/internal/observer"
	"github.com/anime-shed/photo-enhancer/internal/pixbuf"
	"github.com/anime-shed/photo-enhancer/internal/strategy"
	"github.com/anime-shed/photo-enhancer/pkg/models"
)

// DecodeFailed is the result error for input that could not be decoded
const DecodeFailed = "decode failed"

// Decoder turns encoded bytes into a pixel buffer
type Decoder interface {
	Decode(data []byte) (*pixbuf.Buffer, models.ImageMetadata, error)
}

// PhotoService defines analysis and enhancement over encoded images
type PhotoService interface {
	// Analyze decodes data and returns its quality report
	Analyze(ctx context.Context, data []byte) (*models.QualityReport, error)
	AnalyzeBuffer(ctx context.Context, buf *pixbuf.Buffer, meta models.ImageMetadata) (*models.QualityReport, error)

	// Enhance decodes data and runs the pipeline with the given options
	Enhance(ctx context.Context, data []byte, opts models.EnhancementOptions) (*models.EnhancementResult, error)
	EnhanceBuffer(ctx context.Context, buf *pixbuf.Buffer, meta models.ImageMetadata, opts models.EnhancementOptions) (*models.EnhancementResult, error)

	// AutoEnhance analyzes, derives options from the strategy and enhances
	AutoEnhance(ctx context.Context, data []byte, s strategy.EnhancementStrategy) (*models.QualityReport, *models.EnhancementResult, error)
}

// Timeouts bound each call. Zero disables the deadline.
type Timeouts struct {
	Analysis    time.Duration
	Enhancement time.Duration
}

type photoService struct {
	decoder   Decoder
	analyzer  analyzer.ImageAnalyzer
	processor *enhancer.Processor
	bus       observer.Subject
	timeouts  Timeouts
}

// NewPhotoService creates a new photo service. bus may be nil.
func NewPhotoService(
	decoder Decoder,
	imageAnalyzer analyzer.ImageAnalyzer,
	processor *enhancer.Processor,
	bus observer.Subject,
	timeouts Timeouts,
) PhotoService {
	return &photoService{
		decoder:   decoder,
		analyzer:  imageAnalyzer,
		processor: processor,
		bus:       bus,
		timeouts:  timeouts,
	}
}

func (s *photoService) Analyze(ctx context.Context, data []byte) (*models.QualityReport, error) {
	requestID := uuid.NewString()
	start := time.Now()
	s.publish(ctx, observer.PipelineEvent{EventType: observer.AnalysisStarted, RequestID: requestID})

	buf, meta, err := s.decoder.Decode(data)
	if err != nil {
		s.analysisFailed(ctx, requestID, start, err)
		return nil, err
	}
	return s.analyze(ctx, requestID, start, buf, meta)
}

func (s *photoService) AnalyzeBuffer(ctx context.Context, buf *pixbuf.Buffer, meta models.ImageMetadata) (*models.QualityReport, error) {
	requestID := uuid.NewString()
	start := time.Now()
	s.publish(ctx, observer.PipelineEvent{EventType: observer.AnalysisStarted, RequestID: requestID})
	return s.analyze(ctx, requestID, start, buf, meta)
}

func (s *photoService) analyze(ctx context.Context, requestID string, start time.Time, buf *pixbuf.Buffer, meta models.ImageMetadata) (*models.QualityReport, error) {
	ctx, cancel := withTimeout(ctx, s.timeouts.Analysis)
	defer cancel()

	report, err := s.analyzer.Analyze(ctx, buf, meta)
	if err != nil {
		s.analysisFailed(ctx, requestID, start, err)
		return nil, err
	}
	report.ID = requestID

	elapsed := time.Since(start)
	logger.WithFields(logrus.Fields{
		"request_id":         requestID,
		"width":              buf.Width,
		"height":             buf.Height,
		"score":              report.Score,
		"issues":             len(report.Issues),
		"processing_time_ms": elapsed.Milliseconds(),
	}).Info("Image analyzed")

	s.publish(ctx, observer.PipelineEvent{
		EventType:      observer.AnalysisCompleted,
		RequestID:      requestID,
		Width:          buf.Width,
		Height:         buf.Height,
		Score:          report.Score,
		Issues:         report.Issues,
		ProcessingTime: elapsed,
		Success:        true,
	})
	return report, nil
}

func (s *photoService) analysisFailed(ctx context.Context, requestID string, start time.Time, err error) {
	elapsed := time.Since(start)
	logger.WithError(err).WithFields(logrus.Fields{
		"request_id":         requestID,
		"processing_time_ms": elapsed.Milliseconds(),
	}).Error("Image analysis failed")

	s.publish(ctx, observer.PipelineEvent{
		EventType:      observer.AnalysisFailed,
		RequestID:      requestID,
		ProcessingTime: elapsed,
		ErrorMessage:   err.Error(),
	})
}

func (s *photoService) Enhance(ctx context.Context, data []byte, opts models.EnhancementOptions) (*models.EnhancementResult, error) {
	requestID := uuid.NewString()
	start := time.Now()
	s.publish(ctx, observer.PipelineEvent{EventType: observer.EnhancementStarted, RequestID: requestID})

	buf, meta, err := s.decoder.Decode(data)
	if err != nil {
		result := &models.EnhancementResult{
			ID:                requestID,
			Timestamp:         start,
			Improvements:      []models.Improvement{},
			ProcessingTimeSec: time.Since(start).Seconds(),
			Error:             DecodeFailed,
		}
		s.enhancementFailed(ctx, requestID, start, err)
		return result, err
	}
	return s.enhance(ctx, requestID, start, buf, meta, opts)
}

func (s *photoService) EnhanceBuffer(ctx context.Context, buf *pixbuf.Buffer, meta models.ImageMetadata, opts models.EnhancementOptions) (*models.EnhancementResult, error) {
	requestID := uuid.NewString()
	start := time.Now()
	s.publish(ctx, observer.PipelineEvent{EventType: observer.EnhancementStarted, RequestID: requestID})
	return s.enhance(ctx, requestID, start, buf, meta, opts)
}

func (s *photoService) enhance(ctx context.Context, requestID string, start time.Time, buf *pixbuf.Buffer, meta models.ImageMetadata, opts models.EnhancementOptions) (*models.EnhancementResult, error) {
	ctx, cancel := withTimeout(ctx, s.timeouts.Enhancement)
	defer cancel()

	processor := s.processor.WithStepHook(func(step models.StepName, elapsed time.Duration) {
		s.publish(ctx, observer.PipelineEvent{
			EventType:      observer.StepApplied,
			RequestID:      requestID,
			Step:           step,
			ProcessingTime: elapsed,
			Success:        true,
		})
	})

	result, err := processor.EnhanceWithMetadata(ctx, buf, meta, opts)
	result.ID = requestID
	if err != nil {
		s.enhancementFailed(ctx, requestID, start, err)
		return result, err
	}

	elapsed := time.Since(start)
	logger.WithFields(logrus.Fields{
		"request_id":         requestID,
		"width":              result.Width,
		"height":             result.Height,
		"score":              result.QualityScore.After,
		"improvements":       len(result.Improvements),
		"processing_time_ms": elapsed.Milliseconds(),
	}).Info("Image enhanced")

	s.publish(ctx, observer.PipelineEvent{
		EventType:      observer.EnhancementCompleted,
		RequestID:      requestID,
		Width:          result.Width,
		Height:         result.Height,
		Score:          result.QualityScore.After,
		Improvement:    result.QualityScore.Improvement,
		ProcessingTime: elapsed,
		Success:        true,
	})
	return result, nil
}

func (s *photoService) enhancementFailed(ctx context.Context, requestID string, start time.Time, err error) {
	elapsed := time.Since(start)
	logger.WithError(err).WithFields(logrus.Fields{
		"request_id":         requestID,
		"error_type":         errorType(err),
		"processing_time_ms": elapsed.Milliseconds(),
	}).Error("Image enhancement failed")

	s.publish(ctx, observer.PipelineEvent{
		EventType:      observer.EnhancementFailed,
		RequestID:      requestID,
		ProcessingTime: elapsed,
		ErrorMessage:   err.Error(),
	})
}

// AutoEnhance decodes once, then analyzes and enhances the same buffer.
// A nil strategy means the recommended preset.
func (s *photoService) AutoEnhance(ctx context.Context, data []byte, st strategy.EnhancementStrategy) (*models.QualityReport, *models.EnhancementResult, error) {
	if st == nil {
		st = strategy.NewRecommendedStrategy()
	}

	requestID := uuid.NewString()
	start := time.Now()
	s.publish(ctx, observer.PipelineEvent{EventType: observer.AnalysisStarted, RequestID: requestID})

	buf, meta, err := s.decoder.Decode(data)
	if err != nil {
		s.analysisFailed(ctx, requestID, start, err)
		return nil, &models.EnhancementResult{
			ID:           requestID,
			Timestamp:    start,
			Improvements: []models.Improvement{},
			Error:        DecodeFailed,
		}, err
	}

	report, err := s.analyze(ctx, requestID, start, buf, meta)
	if err != nil {
		return nil, &models.EnhancementResult{
			ID:           requestID,
			Timestamp:    start,
			Improvements: []models.Improvement{},
			Error:        err.Error(),
		}, err
	}

	opts := st.Options(report)
	logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"strategy":   st.GetStrategyName(),
	}).Debug("Enhancement options derived")

	enhanceStart := time.Now()
	s.publish(ctx, observer.PipelineEvent{EventType: observer.EnhancementStarted, RequestID: requestID})
	result, err := s.enhance(ctx, requestID, enhanceStart, buf, meta, opts)
	return report, result, err
}

func (s *photoService) publish(ctx context.Context, event observer.PipelineEvent) {
	if s.bus == nil {
		return
	}
	s.bus.NotifyObservers(ctx, event)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func errorType(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return string(appErr.Type)
	}
	return string(apperrors.ErrorTypeInternal)
}
