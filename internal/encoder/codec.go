package encoder

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Codec abstracts the raster-image operations marker encoding needs.
// Selection happens once at construction: the real imaging-backed codec
// when decoding is possible, the unavailable codec otherwise. Keeping
// the degraded path behind this interface makes it an explicit,
// testable branch instead of a scattered error handler.
type Codec interface {
	Name() string
	Available() bool
	Decode(path string) (image.Image, error)
	Resample(img image.Image, width, height int) image.Image
	AdjustContrast(img image.Image, percentage float64) image.Image
	Clone(img image.Image) *image.NRGBA
	Save(img image.Image, path string) error
}

// imagingCodec is the production codec built on disintegration/imaging.
type imagingCodec struct{}

// NewImagingCodec returns the Lanczos-resampling production codec.
func NewImagingCodec() Codec {
	return imagingCodec{}
}

func (imagingCodec) Name() string    { return "imaging" }
func (imagingCodec) Available() bool { return true }

func (imagingCodec) Decode(path string) (image.Image, error) {
	return imaging.Open(path)
}

func (imagingCodec) Resample(img image.Image, width, height int) image.Image {
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

func (imagingCodec) AdjustContrast(img image.Image, percentage float64) image.Image {
	return imaging.AdjustContrast(img, percentage)
}

func (imagingCodec) Clone(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

func (imagingCodec) Save(img image.Image, path string) error {
	return imaging.Save(img, path)
}

// unavailableCodec stands in when no image codec can run. Every decode
// fails, which routes all three marker files to placeholder payloads.
type unavailableCodec struct{}

// NewUnavailableCodec returns the codec used when raster decoding is
// not possible.
func NewUnavailableCodec() Codec {
	return unavailableCodec{}
}

func (unavailableCodec) Name() string    { return "unavailable" }
func (unavailableCodec) Available() bool { return false }

func (unavailableCodec) Decode(path string) (image.Image, error) {
	return nil, fmt.Errorf("image codec unavailable")
}

func (unavailableCodec) Resample(img image.Image, width, height int) image.Image {
	return img
}

func (unavailableCodec) AdjustContrast(img image.Image, percentage float64) image.Image {
	return img
}

func (unavailableCodec) Clone(img image.Image) *image.NRGBA {
	return image.NewNRGBA(image.Rectangle{})
}

func (unavailableCodec) Save(img image.Image, path string) error {
	return fmt.Errorf("image codec unavailable")
}
