package strategy

import (
	"testing"

	"github.com/anime-shed/photo-enhancer/internal/recommend"
	"github.com/anime-shed/photo-enhancer/pkg/models"
)

func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{Recommended, false},
		{Restoration, false},
		{Minimal, false},
		{"aggressive", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ByName(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error for unknown preset")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if s.GetStrategyName() != tt.name {
				t.Errorf("Expected %s, got %s", tt.name, s.GetStrategyName())
			}
		})
	}
}

func TestRecommendedStrategy_FollowsIssues(t *testing.T) {
	report := &models.QualityReport{
		Score:  70,
		Issues: []models.Issue{{Kind: models.IssueNoise, Severity: models.SeverityMedium}},
	}
	opts := NewRecommendedStrategy().Options(report)
	if !opts.AutoEnhance || !opts.Denoising {
		t.Errorf("Expected autoEnhance and denoising, got %+v", opts)
	}
	if opts.Sharpening || opts.OldPhotoRestoration {
		t.Errorf("Expected no unrelated steps, got %+v", opts)
	}
}

func TestRestorationStrategy(t *testing.T) {
	opts := NewRestorationStrategy(recommend.WithMaxSize(2000, 2000)).Options(nil)
	if !opts.OldPhotoRestoration || !opts.ScratchRemoval || !opts.Denoising || !opts.ColorCorrection {
		t.Errorf("Expected every corrective step, got %+v", opts)
	}
	if opts.SaturationBoost {
		t.Error("Expected saturation to stay off")
	}
	if opts.MaxWidth != 2000 || opts.MaxHeight != 2000 {
		t.Errorf("Expected override to apply, got %dx%d", opts.MaxWidth, opts.MaxHeight)
	}
}

func TestMinimalStrategy(t *testing.T) {
	report := &models.QualityReport{Score: 10, Issues: []models.Issue{{Kind: models.IssueBlur}}}
	opts := NewMinimalStrategy(recommend.WithOutput(models.FormatPNG, 80)).Options(report)

	want := models.EnhancementOptions{AutoEnhance: true, OutputFormat: models.FormatPNG, OutputQuality: 80}
	if opts != want {
		t.Errorf("Expected %+v, got %+v", want, opts)
	}
}

func TestEnhancementContext_SetStrategy(t *testing.T) {
	c := NewEnhancementContext(NewMinimalStrategy())
	if c.GetCurrentStrategy() != Minimal {
		t.Errorf("Expected minimal, got %s", c.GetCurrentStrategy())
	}
	c.SetStrategy(NewRestorationStrategy())
	if c.GetCurrentStrategy() != Restoration {
		t.Errorf("Expected restoration, got %s", c.GetCurrentStrategy())
	}
	if !c.Options(nil).ScratchRemoval {
		t.Error("Expected restoration options")
	}
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 3 || names[0] != Minimal || names[1] != Recommended || names[2] != Restoration {
		t.Errorf("Unexpected preset names %v", names)
	}
}
