package imageutil

import (
	"fmt"
	"image"
	"image/color"

	"github.com/wbrown/img2palette"
)

// LabCache memoizes sRGB-to-Lab conversions keyed by packed RGB. The
// conversion can dominate runtime for large images with few distinct
// pixel values, so the cache is worth keeping alive across multiple
// extractions of the same image.
type LabCache map[uint32]img2palette.Lab

// Convert returns the Lab value for an 8-bit sRGB color, computing and
// remembering it on first sight.
func (c LabCache) Convert(r, g, b uint8) img2palette.Lab {
	key := uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	if lab, ok := c[key]; ok {
		return lab
	}
	lab := img2palette.LabFromRGB8(r, g, b)
	c[key] = lab
	return lab
}

// LabPixels extracts the image's pixels as Lab points. With opaqueOnly
// set, pixels whose alpha is below 255 are skipped, so the returned
// buffer may be shorter than the pixel count. A nil cache converts
// without memoization.
func LabPixels(img *image.NRGBA, opaqueOnly bool, cache LabCache) []img2palette.Lab {
	bounds := img.Bounds()
	out := make([]img2palette.Lab, 0, bounds.Dx()*bounds.Dy())
	eachPixel(img, func(r, g, b, a uint8) {
		if opaqueOnly && a != 255 {
			return
		}
		if cache != nil {
			out = append(out, cache.Convert(r, g, b))
		} else {
			out = append(out, img2palette.LabFromRGB8(r, g, b))
		}
	})
	return out
}

// SrgbPixels extracts the image's pixels as normalized sRGB points.
// With opaqueOnly set, pixels whose alpha is below 255 are skipped.
func SrgbPixels(img *image.NRGBA, opaqueOnly bool) []img2palette.Srgb {
	bounds := img.Bounds()
	out := make([]img2palette.Srgb, 0, bounds.Dx()*bounds.Dy())
	eachPixel(img, func(r, g, b, a uint8) {
		if opaqueOnly && a != 255 {
			return
		}
		out = append(out, img2palette.SrgbFromRGB8(r, g, b))
	})
	return out
}

// PaintPixels builds an image of src's dimensions from one color per
// pixel, in row-major order. With transparent set, pixels that are not
// fully opaque in src become transparent black instead of their mapped
// color. Errors when colors does not cover every pixel.
func PaintPixels(src *image.NRGBA, colors []color.NRGBA, transparent bool) (*image.NRGBA, error) {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if len(colors) != w*h {
		return nil, fmt.Errorf("imageutil: have %d mapped colors for %d pixels", len(colors), w*h)
	}

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	i := 0
	eachPixel(src, func(_, _, _, a uint8) {
		pix := colors[i]
		if transparent && a != 255 {
			pix = color.NRGBA{}
		}
		out.SetNRGBA(i%w, i/w, pix)
		i++
	})
	return out, nil
}

// eachPixel visits the image's pixels in row-major order.
func eachPixel(img *image.NRGBA, fn func(r, g, b, a uint8)) {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := img.Pix[(y-bounds.Min.Y)*img.Stride:]
		for x := 0; x < bounds.Dx(); x++ {
			p := row[x*4 : x*4+4]
			fn(p[0], p[1], p[2], p[3])
		}
	}
}
