package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestValidateImagePath(t *testing.T) {
	repo := NewFileImageRepository(0)

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"jpeg", "photo.JPG", false},
		{"webp", "/tmp/scan.webp", false},
		{"tiff", "archive/print.tiff", false},
		{"empty", "  ", true},
		{"no extension", "photo", true},
		{"text file", "notes.txt", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.ValidateImagePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateImagePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidImagePath) {
				t.Errorf("Expected ErrInvalidImagePath, got %v", err)
			}
		})
	}
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.png")
	if err := os.WriteFile(path, []byte("0123456789"), 0o600); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	data, err := NewFileImageRepository(10).LoadImage(context.Background(), path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(data) != "0123456789" {
		t.Errorf("Unexpected content %q", data)
	}

	if _, err := NewFileImageRepository(9).LoadImage(context.Background(), path); !errors.Is(err, ErrImageTooLarge) {
		t.Errorf("Expected ErrImageTooLarge, got %v", err)
	}

	missing := filepath.Join(dir, "missing.png")
	if _, err := NewFileImageRepository(0).LoadImage(context.Background(), missing); !errors.Is(err, ErrImageNotFound) {
		t.Errorf("Expected ErrImageNotFound, got %v", err)
	}
}

func TestLoadImage_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewFileImageRepository(0).LoadImage(ctx, "photo.png"); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
