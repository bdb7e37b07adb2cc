package models

import "time"

// IssueKind names a defect category. At most one Issue per kind is reported
// for a single analysis.
type IssueKind string

const (
	IssueBlur          IssueKind = "blur"
	IssueNoise         IssueKind = "noise"
	IssueLowResolution IssueKind = "low_resolution"
	IssueLowContrast   IssueKind = "low_contrast"
	IssueOverexposed   IssueKind = "overexposed"
	IssueUnderexposed  IssueKind = "underexposed"
	IssueColorCast     IssueKind = "color_cast"
	IssueArtifacts     IssueKind = "artifacts"
)

// Severity grades an issue
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank orders severities so callers can compare them; unknown values rank 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	default:
		return 0
	}
}

// CastChannel identifies which colour channel dominates a colour cast
type CastChannel string

const (
	CastNone  CastChannel = ""
	CastRed   CastChannel = "red"
	CastGreen CastChannel = "green"
	CastBlue  CastChannel = "blue"
)

// Issue is a single detected defect
type Issue struct {
	Kind        IssueKind `json:"kind"`
	Severity    Severity  `json:"severity"`
	Description string    `json:"description"`
	Confidence  float32   `json:"confidence"`
}

// QualityReport is the outcome of analyzing one pixel buffer. It is never
// modified after the analyzer returns it.
type QualityReport struct {
	ID                string    `json:"id"`
	Timestamp         time.Time `json:"timestamp"`
	ProcessingTimeSec float64   `json:"processing_time_sec"`

	Score           float32       `json:"score"`
	Issues          []Issue       `json:"issues"`
	Recommendations []string      `json:"recommendations"`
	Metadata        ImageMetadata `json:"metadata"`

	// Raw pass outputs behind the score
	Metrics DiagnosticMetrics `json:"metrics"`
}

// HasIssue reports whether an issue of the given kind was registered
func (r *QualityReport) HasIssue(kind IssueKind) bool {
	_, ok := r.Issue(kind)
	return ok
}

// Issue returns the registered issue of the given kind, if any
func (r *QualityReport) Issue(kind IssueKind) (Issue, bool) {
	for _, issue := range r.Issues {
		if issue.Kind == kind {
			return issue, true
		}
	}
	return Issue{}, false
}

// DiagnosticMetrics holds the normalized value produced by each diagnostic pass.
type DiagnosticMetrics struct {
	Sharpness         float64     `json:"sharpness"`
	Noise             float64     `json:"noise"`
	Contrast          float64     `json:"contrast"`
	TrimmedMin        int         `json:"trimmed_min"`
	TrimmedMax        int         `json:"trimmed_max"`
	OverexposedRatio  float64     `json:"overexposed_ratio"`
	UnderexposedRatio float64     `json:"underexposed_ratio"`
	ChannelMeans      [3]float64  `json:"channel_means"`
	CastChannel       CastChannel `json:"cast_channel,omitempty"`
	CastStrength      float64     `json:"cast_strength"`
	PixelCount        int         `json:"pixel_count"`
}

// ImageMetadata describes the source image. It is captured once at load time.
type ImageMetadata struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	ByteSize int64  `json:"byte_size"`

	// EXIF fields, empty when the source carries none
	CameraMake  string     `json:"camera_make,omitempty"`
	CameraModel string     `json:"camera_model,omitempty"`
	CapturedAt  *time.Time `json:"captured_at,omitempty"`
}

// ValidationError represents a structured validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
