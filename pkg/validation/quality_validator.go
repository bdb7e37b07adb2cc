package validation

import (
	"fmt"

	"github.com/anime-shed/photo-enhancer/pkg/models"
)

// QualityThresholds defines the cut-offs that turn pass values into issues
type QualityThresholds struct {
	// Sharpness thresholds (normalized gradient magnitude)
	MaxBlurSharpness    float64
	MediumBlurSharpness float64
	HighBlurSharpness   float64

	// Noise thresholds (normalized neighbourhood variance)
	MinNoise    float64
	MediumNoise float64
	HighNoise   float64

	// Contrast thresholds (trimmed range / 255)
	MinContrast     float64
	HighLowContrast float64

	// Exposure thresholds (fraction of clipped pixels)
	MaxExposureRatio  float64
	HighExposureRatio float64

	// Colour cast thresholds (channel deviation / 255)
	MaxCastStrength  float64
	HighCastStrength float64

	// Resolution thresholds (total pixels)
	MinPixels      int
	HighRiskPixels int
	ResolutionConf float32
}

// DefaultQualityThresholds returns the default quality thresholds
func DefaultQualityThresholds() QualityThresholds {
	return QualityThresholds{
		MaxBlurSharpness:    0.3,
		MediumBlurSharpness: 0.2,
		HighBlurSharpness:   0.1,
		MinNoise:            0.3,
		MediumNoise:         0.5,
		HighNoise:           0.7,
		MinContrast:         0.3,
		HighLowContrast:     0.1,
		MaxExposureRatio:    0.1,
		HighExposureRatio:   0.3,
		MaxCastStrength:     0.3,
		HighCastStrength:    0.6,
		MinPixels:           500000,
		HighRiskPixels:      100000,
		ResolutionConf:      0.9,
	}
}

// Penalty weights subtracted from the score per registered issue
const (
	BlurWeight          = 30
	NoiseWeight         = 25
	LowResolutionWeight = 20
	LowContrastWeight   = 20
	ExposureWeight      = 15
	ColorCastWeight     = 20
)

// Recommendation strings, one per issue kind
var recommendations = map[models.IssueKind]string{
	models.IssueBlur:          "apply sharpening filter to improve clarity",
	models.IssueNoise:         "apply noise reduction to smooth grain",
	models.IssueLowResolution: "upscale the image to improve resolution",
	models.IssueLowContrast:   "enhance contrast to bring out detail",
	models.IssueOverexposed:   "reduce brightness to recover highlights",
	models.IssueUnderexposed:  "increase brightness to recover shadow detail",
	models.IssueColorCast:     "apply color correction to neutralize the cast",
	models.IssueArtifacts:     "apply artifact removal to clean compression blocks",
}

// Recommendation returns the fixed advice string for an issue kind
func Recommendation(kind models.IssueKind) string {
	return recommendations[kind]
}

// QualityValidator classifies diagnostic pass values into issues and scores them
type QualityValidator struct {
	thresholds QualityThresholds
}

// NewQualityValidator creates a new quality validator with default thresholds
func NewQualityValidator() *QualityValidator {
	return &QualityValidator{
		thresholds: DefaultQualityThresholds(),
	}
}

// NewQualityValidatorWithThresholds creates a quality validator with custom thresholds
func NewQualityValidatorWithThresholds(thresholds QualityThresholds) *QualityValidator {
	return &QualityValidator{
		thresholds: thresholds,
	}
}

// Thresholds returns the active thresholds
func (qv *QualityValidator) Thresholds() QualityThresholds {
	return qv.thresholds
}

// QualityIssue pairs a registered issue with the penalty it contributes
type QualityIssue struct {
	models.Issue
	Penalty float64 `json:"penalty"`
}

// Evaluate registers issues in detection order: blur, noise, contrast,
// over- and underexposure, colour cast, then resolution.
func (qv *QualityValidator) Evaluate(m models.DiagnosticMetrics) []QualityIssue {
	t := qv.thresholds
	var issues []QualityIssue

	// 1. Blur
	if m.Sharpness < t.MaxBlurSharpness {
		severity := models.SeverityLow
		switch {
		case m.Sharpness < t.HighBlurSharpness:
			severity = models.SeverityHigh
		case m.Sharpness < t.MediumBlurSharpness:
			severity = models.SeverityMedium
		}
		issues = append(issues, QualityIssue{
			Issue: models.Issue{
				Kind:        models.IssueBlur,
				Severity:    severity,
				Description: fmt.Sprintf("Image appears blurry (sharpness %.2f)", m.Sharpness),
				Confidence:  float32(1 - m.Sharpness),
			},
			Penalty: (1 - m.Sharpness) * BlurWeight,
		})
	}

	// 2. Noise
	if m.Noise > t.MinNoise {
		severity := models.SeverityLow
		switch {
		case m.Noise > t.HighNoise:
			severity = models.SeverityHigh
		case m.Noise > t.MediumNoise:
			severity = models.SeverityMedium
		}
		issues = append(issues, QualityIssue{
			Issue: models.Issue{
				Kind:        models.IssueNoise,
				Severity:    severity,
				Description: fmt.Sprintf("Image contains visible noise (level %.2f)", m.Noise),
				Confidence:  float32(m.Noise),
			},
			Penalty: m.Noise * NoiseWeight,
		})
	}

	// 3. Contrast
	if m.Contrast < t.MinContrast {
		severity := models.SeverityMedium
		if m.Contrast < t.HighLowContrast {
			severity = models.SeverityHigh
		}
		issues = append(issues, QualityIssue{
			Issue: models.Issue{
				Kind:        models.IssueLowContrast,
				Severity:    severity,
				Description: fmt.Sprintf("Image has low contrast (range %.2f)", m.Contrast),
				Confidence:  float32(1 - m.Contrast),
			},
			Penalty: (1 - m.Contrast) * LowContrastWeight,
		})
	}

	// 4. Exposure, each side independently
	if issue, ok := qv.exposureIssue(models.IssueOverexposed, m.OverexposedRatio, "overexposed"); ok {
		issues = append(issues, issue)
	}
	if issue, ok := qv.exposureIssue(models.IssueUnderexposed, m.UnderexposedRatio, "underexposed"); ok {
		issues = append(issues, issue)
	}

	// 5. Colour cast
	if m.CastStrength > t.MaxCastStrength {
		severity := models.SeverityMedium
		if m.CastStrength > t.HighCastStrength {
			severity = models.SeverityHigh
		}
		issues = append(issues, QualityIssue{
			Issue: models.Issue{
				Kind:        models.IssueColorCast,
				Severity:    severity,
				Description: fmt.Sprintf("Image has a %s color cast (strength %.2f)", m.CastChannel, m.CastStrength),
				Confidence:  float32(m.CastStrength),
			},
			Penalty: m.CastStrength * ColorCastWeight,
		})
	}

	// 6. Resolution has no continuous curve; the penalty is flat
	if m.PixelCount < t.MinPixels {
		severity := models.SeverityMedium
		if m.PixelCount < t.HighRiskPixels {
			severity = models.SeverityHigh
		}
		issues = append(issues, QualityIssue{
			Issue: models.Issue{
				Kind:        models.IssueLowResolution,
				Severity:    severity,
				Description: fmt.Sprintf("Image resolution is low (%d pixels)", m.PixelCount),
				Confidence:  t.ResolutionConf,
			},
			Penalty: LowResolutionWeight,
		})
	}

	return issues
}

func (qv *QualityValidator) exposureIssue(kind models.IssueKind, ratio float64, label string) (QualityIssue, bool) {
	if ratio <= qv.thresholds.MaxExposureRatio {
		return QualityIssue{}, false
	}
	severity := models.SeverityMedium
	if ratio > qv.thresholds.HighExposureRatio {
		severity = models.SeverityHigh
	}
	return QualityIssue{
		Issue: models.Issue{
			Kind:        kind,
			Severity:    severity,
			Description: fmt.Sprintf("%.0f%% of pixels are %s", ratio*100, label),
			Confidence:  float32(ratio),
		},
		Penalty: ratio * ExposureWeight,
	}, true
}

// Score subtracts every issue's penalty from 100 and clamps to [0, 100].
func (qv *QualityValidator) Score(issues []QualityIssue) float32 {
	score := 100.0
	for _, issue := range issues {
		score -= issue.Penalty
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return float32(score)
}

// ConvertIssuesToMessages returns one recommendation string per issue, in issue order
func (qv *QualityValidator) ConvertIssuesToMessages(issues []QualityIssue) []string {
	messages := make([]string, 0, len(issues))
	for _, issue := range issues {
		messages = append(messages, Recommendation(issue.Kind))
	}
	return messages
}

// Issues strips the penalties
func Issues(issues []QualityIssue) []models.Issue {
	out := make([]models.Issue, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.Issue)
	}
	return out
}

// HasCriticalIssues checks if there are any high severity issues
func (qv *QualityValidator) HasCriticalIssues(issues []QualityIssue) bool {
	for _, issue := range issues {
		if issue.Severity == models.SeverityHigh {
			return true
		}
	}
	return false
}
