package analyzer

import (
	"image"

	"go-nft-marker/pkg/models"
)

// featureScoreThreshold is the minimum separable-gradient score a grid
// point needs to count as a trackable feature.
const featureScoreThreshold = 100.0

// ExtractFeatures scans a regular grid over the luminance plane with
// the given step and scores each point by the product of its absolute
// horizontal and vertical gradients. The scan order is row-major and
// fully deterministic.
func ExtractFeatures(gray *image.Gray, step int) []models.FeaturePoint {
	if step < 1 {
		step = 1
	}
	width := gray.Bounds().Dx()
	height := gray.Bounds().Dy()

	var points []models.FeaturePoint
	for y := 0; y < height; y += step {
		for x := 0; x < width; x += step {
			if x+1 >= width || y+1 >= height {
				continue
			}
			center := int(gray.Pix[y*gray.Stride+x])
			right := int(gray.Pix[y*gray.Stride+x+1])
			below := int(gray.Pix[(y+1)*gray.Stride+x])

			dx := abs(right - center)
			dy := abs(below - center)
			score := float64(dx * dy)
			if score > featureScoreThreshold {
				points = append(points, models.FeaturePoint{X: x, Y: y, Score: score})
			}
		}
	}
	return points
}

// PreviewStep picks the grid step used for feature preview rendering.
// Weaker images get a denser grid so the visual feedback shows more
// candidate points.
func PreviewStep(quality string) int {
	switch quality {
	case models.QualityPoor:
		return 15
	case models.QualityFair:
		return 10
	default:
		return 8
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
