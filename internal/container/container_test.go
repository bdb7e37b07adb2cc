package container

import (
	"testing"
	"time"

	"github.com/anime-shed/photo-enhancer/internal/config"
	"github.com/anime-shed/photo-enhancer/pkg/models"
)

func testConfig() *config.Config {
	return &config.Config{
		LogLevel:             "error",
		AnalysisTimeout:      5 * time.Second,
		EnhancementTimeout:   5 * time.Second,
		MaxPixels:            1_000_000,
		MaxInputBytes:        1 << 20,
		Workers:              2,
		ThumbnailSize:        64,
		DefaultOutputFormat:  models.FormatOriginal,
		DefaultOutputQuality: 92,
	}
}

func TestNewContainer(t *testing.T) {
	c, err := NewContainer(testConfig())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer c.Close()

	if c.PhotoService() == nil || c.Codec() == nil || c.Repository() == nil || c.Metrics() == nil {
		t.Error("Expected every dependency to be wired")
	}
	if c.Config().ThumbnailSize != 64 {
		t.Errorf("Expected config to be retained, got %+v", c.Config())
	}
}

func TestNewContainer_NilConfig(t *testing.T) {
	if _, err := NewContainer(nil); err == nil {
		t.Error("Expected error for nil config")
	}
}
