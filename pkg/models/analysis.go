package models

// Quality buckets ordered from worst to best trackability.
const (
	QualityPoor      = "poor"
	QualityFair      = "fair"
	QualityGood      = "good"
	QualityExcellent = "excellent"
)

// AnalysisResult represents the trackability assessment of a source image.
// When Valid is false only Message is populated.
type AnalysisResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`

	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	Brightness     float64 `json:"brightness,omitempty"` // mean luminance, 0-255
	Contrast       float64 `json:"contrast,omitempty"`   // population std dev of luminance
	Quality        string  `json:"quality,omitempty"`
	Recommendation string  `json:"recommendation,omitempty"`

	// Populated by feature preview generation only.
	FeatureCount int    `json:"feature_count,omitempty"`
	PreviewPath  string `json:"preview_path,omitempty"`
}

// QualityRank maps a bucket name to its position in the poor < fair <
// good < excellent ordering. Unknown buckets rank lowest.
func QualityRank(quality string) int {
	switch quality {
	case QualityPoor:
		return 1
	case QualityFair:
		return 2
	case QualityGood:
		return 3
	case QualityExcellent:
		return 4
	default:
		return 0
	}
}
