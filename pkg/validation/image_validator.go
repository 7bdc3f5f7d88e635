package validation

import (
	"fmt"
	"image"
)

// DimensionThresholds defines the accepted pixel-size range for marker
// source images. Images outside this range either track poorly (too
// small) or blow up pyramid generation cost (too large).
type DimensionThresholds struct {
	MinDimension int
	MaxDimension int
}

// DefaultDimensionThresholds returns the standard bounds for NFT
// marker sources.
func DefaultDimensionThresholds() DimensionThresholds {
	return DimensionThresholds{
		MinDimension: 480,
		MaxDimension: 4096,
	}
}

// ImageValidator performs the pure pre-flight check every
// marker-producing operation runs before any processing.
type ImageValidator struct {
	thresholds DimensionThresholds
}

// NewImageValidator creates a validator with default thresholds.
func NewImageValidator() *ImageValidator {
	return &ImageValidator{thresholds: DefaultDimensionThresholds()}
}

// NewImageValidatorWithThresholds creates a validator with custom bounds.
func NewImageValidatorWithThresholds(thresholds DimensionThresholds) *ImageValidator {
	return &ImageValidator{thresholds: thresholds}
}

// Validate checks a decoded image against the dimension bounds. It has
// no side effects; callers must not proceed past a failure.
func (v *ImageValidator) Validate(img image.Image) error {
	if img == nil {
		return fmt.Errorf("image could not be decoded")
	}
	bounds := img.Bounds()
	return v.ValidateDimensions(bounds.Dx(), bounds.Dy())
}

// ValidateDimensions checks raw pixel dimensions against the bounds.
func (v *ImageValidator) ValidateDimensions(width, height int) error {
	if width < v.thresholds.MinDimension || height < v.thresholds.MinDimension {
		return fmt.Errorf("image too small: %dx%d (minimum %d px per side)",
			width, height, v.thresholds.MinDimension)
	}
	if width > v.thresholds.MaxDimension || height > v.thresholds.MaxDimension {
		return fmt.Errorf("image too large: %dx%d (maximum %d px per side)",
			width, height, v.thresholds.MaxDimension)
	}
	return nil
}
