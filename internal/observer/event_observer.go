package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/anime-shed/photo-enhancer/internal/metrics"
	"github.com/anime-shed/photo-enhancer/pkg/models"
)

// PipelineEvent represents an analysis or enhancement event
type PipelineEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	RequestID      string                 `json:"request_id"`
	Step           models.StepName        `json:"step,omitempty"`
	Width          int                    `json:"width,omitempty"`
	Height         int                    `json:"height,omitempty"`
	Score          float32                `json:"score,omitempty"`
	Improvement    float32                `json:"improvement,omitempty"`
	Issues         []models.Issue         `json:"issues,omitempty"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of pipeline event
type EventType string

const (
	// AnalysisStarted when analysis begins
	AnalysisStarted EventType = "analysis_started"
	// AnalysisCompleted when a quality report is produced
	AnalysisCompleted EventType = "analysis_completed"
	// AnalysisFailed when decoding or analysis fails
	AnalysisFailed EventType = "analysis_failed"
	// EnhancementStarted when the pipeline begins
	EnhancementStarted EventType = "enhancement_started"
	// EnhancementCompleted when the pipeline finishes successfully
	EnhancementCompleted EventType = "enhancement_completed"
	// EnhancementFailed when the pipeline fails
	EnhancementFailed EventType = "enhancement_failed"
	// StepApplied after each enhancement step
	StepApplied EventType = "step_applied"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event PipelineEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event PipelineEvent)
}

// LoggingObserver logs pipeline events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles pipeline events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event PipelineEvent) {
	fields := logrus.Fields{
		"event_type":         event.EventType,
		"request_id":         event.RequestID,
		"processing_time_ms": event.ProcessingTime.Milliseconds(),
		"success":            event.Success,
	}

	if event.Step != "" {
		fields["step"] = event.Step
	}
	if event.Width > 0 {
		fields["width"] = event.Width
		fields["height"] = event.Height
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}

	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case AnalysisStarted:
		entry.Debug("Image analysis started")
	case AnalysisCompleted:
		entry.WithField("score", event.Score).WithField("issues", len(event.Issues)).Info("Image analysis completed")
	case AnalysisFailed:
		entry.Error("Image analysis failed")
	case EnhancementStarted:
		entry.Debug("Image enhancement started")
	case EnhancementCompleted:
		entry.WithField("score", event.Score).WithField("improvement", event.Improvement).Info("Image enhancement completed")
	case EnhancementFailed:
		entry.Error("Image enhancement failed")
	case StepApplied:
		entry.Debug("Enhancement step applied")
	default:
		entry.Info("Pipeline event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver records pipeline events in prometheus and keeps in-process
// totals for the CLI summary.
type MetricsObserver struct {
	mu                     sync.RWMutex
	totalAnalyses          int64
	successfulAnalyses     int64
	failedAnalyses         int64
	totalEnhancements      int64
	successfulEnhancements int64
	failedEnhancements     int64
	stepsApplied           int64
	totalProcessingTime    time.Duration
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

// OnEvent handles pipeline events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event PipelineEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case AnalysisStarted:
		o.totalAnalyses++
	case AnalysisCompleted:
		o.successfulAnalyses++
		o.totalProcessingTime += event.ProcessingTime
		metrics.AnalysesTotal.WithLabelValues(metrics.StatusSuccess).Inc()
		metrics.AnalysisDuration.Observe(event.ProcessingTime.Seconds())
		metrics.QualityScore.Observe(float64(event.Score))
		for _, issue := range event.Issues {
			metrics.IssuesDetected.WithLabelValues(string(issue.Kind), string(issue.Severity)).Inc()
		}
	case AnalysisFailed:
		o.failedAnalyses++
		metrics.AnalysesTotal.WithLabelValues(metrics.StatusFailure).Inc()
	case EnhancementStarted:
		o.totalEnhancements++
	case EnhancementCompleted:
		o.successfulEnhancements++
		o.totalProcessingTime += event.ProcessingTime
		metrics.EnhancementsTotal.WithLabelValues(metrics.StatusSuccess).Inc()
		metrics.EnhancementDuration.Observe(event.ProcessingTime.Seconds())
		metrics.ScoreImprovement.Observe(float64(event.Improvement))
	case EnhancementFailed:
		o.failedEnhancements++
		metrics.EnhancementsTotal.WithLabelValues(metrics.StatusFailure).Inc()
	case StepApplied:
		o.stepsApplied++
		metrics.StepDuration.WithLabelValues(string(event.Step)).Observe(event.ProcessingTime.Seconds())
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current totals
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	completed := o.successfulAnalyses + o.successfulEnhancements
	avgProcessingTime := time.Duration(0)
	if completed > 0 {
		avgProcessingTime = o.totalProcessingTime / time.Duration(completed)
	}

	return map[string]interface{}{
		"total_analyses":          o.totalAnalyses,
		"successful_analyses":     o.successfulAnalyses,
		"failed_analyses":         o.failedAnalyses,
		"total_enhancements":      o.totalEnhancements,
		"successful_enhancements": o.successfulEnhancements,
		"failed_enhancements":     o.failedEnhancements,
		"steps_applied":           o.stepsApplied,
		"total_processing_time":   o.totalProcessingTime,
		"avg_processing_time":     avgProcessingTime,
	}
}

// EventBus implements the Subject interface
type EventBus struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (b *EventBus) Subscribe(observer Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers = append(b.observers, observer)
}

// Unsubscribe removes an observer
func (b *EventBus) Unsubscribe(observer Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, obs := range b.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			b.observers = append(b.observers[:i], b.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers fans the event out to every observer concurrently and
// returns once all of them have handled it.
func (b *EventBus) NotifyObservers(ctx context.Context, event PipelineEvent) {
	b.mu.RLock()
	observers := make([]Observer, len(b.observers))
	copy(observers, b.observers)
	b.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	var wg sync.WaitGroup
	for _, observer := range observers {
		wg.Add(1)
		go func(obs Observer) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
	wg.Wait()
}
