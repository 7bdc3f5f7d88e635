package generator

import (
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"go-nft-marker/internal/analyzer"
	apperrors "go-nft-marker/internal/errors"
	"go-nft-marker/pkg/models"
)

// Score tiers for feature preview color coding.
const (
	previewTierStrong = 1000.0 // green
	previewTierMedium = 500.0  // yellow
)

var (
	previewGreen  = color.NRGBA{0, 200, 0, 255}
	previewYellow = color.NRGBA{230, 200, 0, 255}
	previewRed    = color.NRGBA{220, 0, 0, 255}
)

// EnhanceContrast applies a contrast multiplier to the image and writes
// the result to outputPath, or to a generated temp path when outputPath
// is empty. A factor above 1.0 increases contrast.
func (g *Generator) EnhanceContrast(imagePath string, factor float64, outputPath string) (string, error) {
	img, err := g.loadValidated(imagePath)
	if err != nil {
		return "", err
	}
	if img == nil {
		return "", apperrors.NewProcessingError("image codec unavailable", nil)
	}

	if outputPath == "" {
		ext := filepath.Ext(imagePath)
		if ext == "" {
			ext = ".jpg"
		}
		outputPath = filepath.Join(g.cfg.TempDir(), "enhanced_"+uuid.NewString()+ext)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", apperrors.NewProcessingError("create output directory", err)
	}

	// The codec expects a percentage in (-100, 100); the multiplier
	// maps as (factor-1)*100, so 1.2 becomes +20.
	enhanced := g.codec.AdjustContrast(img, (factor-1)*100)
	if err := g.codec.Save(enhanced, outputPath); err != nil {
		return "", apperrors.NewProcessingError("save enhanced image", err)
	}
	return outputPath, nil
}

// GenerateFeaturePreview draws the detected feature grid onto a copy of
// the image, color-coded by score tier, and returns the enriched
// analysis. The preview grid is denser for weaker images.
func (g *Generator) GenerateFeaturePreview(imagePath, outputPath string) (string, models.AnalysisResult, error) {
	img, err := g.loadValidated(imagePath)
	if err != nil {
		return "", models.AnalysisResult{Valid: false, Message: err.Error()}, err
	}
	if img == nil {
		return "", models.AnalysisResult{Valid: false, Message: "image codec unavailable"},
			apperrors.NewProcessingError("image codec unavailable", nil)
	}

	gray := analyzer.ToGray(img)
	result := g.analyzer.AnalyzeGray(gray)
	features := analyzer.ExtractFeatures(gray, analyzer.PreviewStep(result.Quality))

	canvas := g.codec.Clone(img)
	for _, f := range features {
		drawFeatureMark(canvas, f)
	}

	if outputPath == "" {
		outputPath = filepath.Join(g.cfg.TempDir(), "preview_"+uuid.NewString()+".jpg")
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", result, apperrors.NewProcessingError("create output directory", err)
	}
	if err := g.codec.Save(canvas, outputPath); err != nil {
		return "", result, apperrors.NewProcessingError("save feature preview", err)
	}

	result.FeatureCount = len(features)
	result.PreviewPath = outputPath
	return outputPath, result, nil
}

// drawFeatureMark paints a small square at the feature location,
// colored by how strong the point scored.
func drawFeatureMark(canvas *image.NRGBA, f models.FeaturePoint) {
	var tint color.NRGBA
	switch {
	case f.Score > previewTierStrong:
		tint = previewGreen
	case f.Score > previewTierMedium:
		tint = previewYellow
	default:
		tint = previewRed
	}

	bounds := canvas.Bounds()
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			x, y := f.X+dx, f.Y+dy
			if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
				canvas.SetNRGBA(x, y, tint)
			}
		}
	}
}
