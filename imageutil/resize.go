package imageutil

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Fit downscales img so its longer side is at most maxSide, preserving
// aspect ratio. Images already within the bound (or a non-positive
// bound) are returned unchanged. Catmull-Rom interpolation keeps the
// color statistics of the downscaled image close to the original,
// which matters because clustering runs on the working pixels.
func Fit(img *image.NRGBA, maxSide int) *image.NRGBA {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	long := w
	if h > long {
		long = h
	}
	if maxSide <= 0 || long <= maxSide {
		return img
	}

	scale := float64(maxSide) / float64(long)
	nw := int(math.Max(1, math.Round(float64(w)*scale)))
	nh := int(math.Max(1, math.Round(float64(h)*scale)))

	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}
