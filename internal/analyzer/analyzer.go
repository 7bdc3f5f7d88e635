package analyzer

import (
	"image"
	"sync"

	"gonum.org/v1/gonum/stat"

	"go-nft-marker/pkg/models"
)

// Contrast cut points for the quality buckets. Boundary values belong
// to the lower bucket: contrast of exactly 30.0 is "fair".
const (
	contrastPoor = 30.0
	contrastFair = 60.0
	contrastGood = 90.0
)

// FeatureAnalyzer computes the trackability assessment of a source
// image: luminance statistics, a quality bucket and a human-readable
// recommendation.
type FeatureAnalyzer struct {
	slicePool sync.Pool
}

// NewFeatureAnalyzer creates a new analyzer.
func NewFeatureAnalyzer() *FeatureAnalyzer {
	return &FeatureAnalyzer{
		slicePool: sync.Pool{
			New: func() interface{} {
				return make([]float64, 0, 1024)
			},
		},
	}
}

// Analyze computes brightness (mean luminance on the 0-255 scale) and
// contrast (population standard deviation) of the image and buckets the
// result. The input is assumed to have passed validation.
func (fa *FeatureAnalyzer) Analyze(img image.Image) models.AnalysisResult {
	gray := ToGray(img)
	return fa.AnalyzeGray(gray)
}

// AnalyzeGray is the luminance-plane variant of Analyze, for callers
// that already hold the grayscale conversion.
func (fa *FeatureAnalyzer) AnalyzeGray(gray *image.Gray) models.AnalysisResult {
	width := gray.Bounds().Dx()
	height := gray.Bounds().Dy()

	data := fa.slicePool.Get().([]float64)
	defer fa.slicePool.Put(data[:0])
	if cap(data) < len(gray.Pix) {
		data = make([]float64, 0, len(gray.Pix))
	}
	for _, p := range gray.Pix {
		data = append(data, float64(p))
	}

	var brightness, contrast float64
	if len(data) > 0 {
		brightness = stat.Mean(data, nil)
		contrast = stat.PopStdDev(data, nil)
	}

	quality, recommendation := bucketQuality(contrast)

	return models.AnalysisResult{
		Valid:          true,
		Width:          width,
		Height:         height,
		Brightness:     brightness,
		Contrast:       contrast,
		Quality:        quality,
		Recommendation: recommendation,
	}
}

// bucketQuality maps contrast to a quality bucket; first match wins.
func bucketQuality(contrast float64) (string, string) {
	switch {
	case contrast < contrastPoor:
		return models.QualityPoor,
			"Low contrast image. Add more detail or choose a different image for reliable tracking."
	case contrast < contrastFair:
		return models.QualityFair,
			"Moderate contrast. The marker may mistrack in poor lighting."
	case contrast < contrastGood:
		return models.QualityGood,
			"Good contrast. The marker tracks well in most conditions."
	default:
		return models.QualityExcellent,
			"Excellent contrast. The marker tracks very well."
	}
}
