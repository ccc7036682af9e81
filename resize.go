package burstpick

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// ResizeToPixels scales img so that width*height is close to pixels while
// keeping its aspect ratio. Both sides are at least 1 pixel.
//
// Resizing changes absolute sharpness magnitudes, so every frame that is
// compared against another must go through the same stage.
func ResizeToPixels(img image.Image, pixels int) image.Image {
	b := img.Bounds()
	area := b.Dx() * b.Dy()
	if pixels <= 0 || area == 0 || area == pixels {
		return img
	}

	ratio := math.Sqrt(float64(pixels) / float64(area))
	w := max(1, int(math.Round(float64(b.Dx())*ratio)))
	h := max(1, int(math.Round(float64(b.Dy())*ratio)))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
