package recommend

import (
	"testing"

	"github.com/anime-shed/photo-enhancer/pkg/models"
)

func TestFromIssues_DecisionTable(t *testing.T) {
	tests := []struct {
		kind  models.IssueKind
		check func(models.EnhancementOptions) bool
	}{
		{models.IssueBlur, func(o models.EnhancementOptions) bool { return o.Sharpening }},
		{models.IssueNoise, func(o models.EnhancementOptions) bool { return o.Denoising }},
		{models.IssueLowResolution, func(o models.EnhancementOptions) bool { return o.Upscaling }},
		{models.IssueLowContrast, func(o models.EnhancementOptions) bool { return o.ContrastEnhancement }},
		{models.IssueOverexposed, func(o models.EnhancementOptions) bool { return o.BrightnessAdjustment }},
		{models.IssueUnderexposed, func(o models.EnhancementOptions) bool { return o.BrightnessAdjustment }},
		{models.IssueColorCast, func(o models.EnhancementOptions) bool { return o.ColorCorrection }},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			opts := FromIssues([]models.Issue{{Kind: tt.kind, Severity: models.SeverityLow}}, 90)
			if !tt.check(opts) {
				t.Errorf("Expected %s to enable its step, got %+v", tt.kind, opts)
			}
			if opts.OldPhotoRestoration || opts.ScratchRemoval {
				t.Error("Expected no restoration for a healthy score")
			}
		})
	}
}

func TestFromIssues_Defaults(t *testing.T) {
	opts := FromIssues(nil, 100)

	if !opts.AutoEnhance {
		t.Error("Expected autoEnhance to default on")
	}
	if opts.OutputFormat != models.FormatOriginal || opts.OutputQuality != DefaultOutputQuality {
		t.Errorf("Unexpected output defaults: %s/%d", opts.OutputFormat, opts.OutputQuality)
	}
	if opts.Sharpening || opts.Denoising || opts.Upscaling || opts.SaturationBoost {
		t.Errorf("Expected no corrective steps without issues, got %+v", opts)
	}
}

func TestFromIssues_DegradedForcesRestoration(t *testing.T) {
	// Only mild issues, but the aggregate score is poor
	issues := []models.Issue{
		{Kind: models.IssueBlur, Severity: models.SeverityLow},
		{Kind: models.IssueLowResolution, Severity: models.SeverityMedium},
		{Kind: models.IssueNoise, Severity: models.SeverityLow},
	}
	opts := FromIssues(issues, 39.5)

	if !opts.OldPhotoRestoration {
		t.Error("Expected oldPhotoRestoration for a score below 40")
	}
	if !opts.ScratchRemoval {
		t.Error("Expected scratch removal for a score below 40")
	}

	if FromIssues(issues, 40).OldPhotoRestoration {
		t.Error("Expected no restoration at exactly 40")
	}
}

func TestRecommend_Overrides(t *testing.T) {
	report := &models.QualityReport{
		Score:  85,
		Issues: []models.Issue{{Kind: models.IssueColorCast, Severity: models.SeverityMedium}},
	}

	opts := Recommend(report,
		WithoutAutoEnhance(),
		WithOutput(models.FormatWebP, 70),
		WithMaxSize(1600, 1200),
		WithSaturationBoost(),
	)

	if opts.AutoEnhance {
		t.Error("Expected override to disable autoEnhance")
	}
	if !opts.ColorCorrection {
		t.Error("Expected colour correction from the issue")
	}
	if opts.OutputFormat != models.FormatWebP || opts.OutputQuality != 70 {
		t.Errorf("Expected webp/70, got %s/%d", opts.OutputFormat, opts.OutputQuality)
	}
	if opts.MaxWidth != 1600 || opts.MaxHeight != 1200 {
		t.Errorf("Expected 1600x1200, got %dx%d", opts.MaxWidth, opts.MaxHeight)
	}
	if !opts.SaturationBoost {
		t.Error("Expected saturation boost override")
	}
}

func TestRecommend_NilReport(t *testing.T) {
	opts := Recommend(nil)
	if !opts.AutoEnhance || opts.OldPhotoRestoration {
		t.Errorf("Expected plain defaults for a nil report, got %+v", opts)
	}
}
