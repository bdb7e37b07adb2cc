package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/anime-shed/photo-enhancer/pkg/models"
)

type Config struct {
	LogLevel             string
	AnalysisTimeout      time.Duration
	EnhancementTimeout   time.Duration
	MaxPixels            int64
	MaxInputBytes        int64
	Workers              int64
	ThumbnailSize        int64
	DefaultOutputFormat  models.OutputFormat
	DefaultOutputQuality int64
}

// Load reads a .env file when one is present, then the environment
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFromEnv()
}

func LoadFromEnv() (*Config, error) {
	// Set defaults
	cfg := &Config{
		LogLevel:             strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		AnalysisTimeout:      parseDurationOrDefault("ANALYSIS_TIMEOUT", 20*time.Second),
		EnhancementTimeout:   parseDurationOrDefault("ENHANCEMENT_TIMEOUT", 60*time.Second),
		MaxPixels:            parseIntOrDefault("MAX_PIXELS", 50_000_000),
		MaxInputBytes:        parseIntOrDefault("MAX_INPUT_BYTES", 64*1024*1024), // 64MB
		Workers:              parseIntOrDefault("WORKERS", 0),
		ThumbnailSize:        parseIntOrDefault("THUMBNAIL_SIZE", 200),
		DefaultOutputFormat:  models.OutputFormat(strings.ToLower(getEnvOrDefault("DEFAULT_OUTPUT_FORMAT", string(models.FormatOriginal)))),
		DefaultOutputQuality: parseIntOrDefault("DEFAULT_OUTPUT_QUALITY", 92),
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q", cfg.LogLevel)
	}
	if cfg.MaxPixels <= 0 {
		return nil, fmt.Errorf("MAX_PIXELS must be > 0 (got %d)", cfg.MaxPixels)
	}
	if cfg.MaxInputBytes <= 0 {
		return nil, fmt.Errorf("MAX_INPUT_BYTES must be > 0 (got %d)", cfg.MaxInputBytes)
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("WORKERS must be >= 0 (got %d)", cfg.Workers)
	}
	if cfg.ThumbnailSize <= 0 {
		return nil, fmt.Errorf("THUMBNAIL_SIZE must be > 0 (got %d)", cfg.ThumbnailSize)
	}
	format, ok := models.ParseOutputFormat(string(cfg.DefaultOutputFormat))
	if !ok {
		return nil, fmt.Errorf("invalid DEFAULT_OUTPUT_FORMAT: %q", cfg.DefaultOutputFormat)
	}
	cfg.DefaultOutputFormat = format
	if cfg.DefaultOutputQuality < 0 || cfg.DefaultOutputQuality > 100 {
		return nil, fmt.Errorf("DEFAULT_OUTPUT_QUALITY must be within 0..100 (got %d)", cfg.DefaultOutputQuality)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
