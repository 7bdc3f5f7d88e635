package analyzer

import (
	"image"
	"image/draw"
)

// ToGray converts any decoded image to single-channel luminance. The
// returned image always has its origin at (0,0) and a stride equal to
// its width, so Pix is exactly width*height row-major bytes.
func ToGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(gray, gray.Bounds(), img, bounds.Min, draw.Src)
	return gray
}
