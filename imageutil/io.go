// Package imageutil handles the image side of palette extraction:
// decoding files into pixel buffers, extracting clustering points in
// the Lab or sRGB space, and painting indexed results back into images.
package imageutil

import (
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	_ "image/gif" // register GIF decoder

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// LoadImage decodes the image at path into an NRGBA buffer.
// Supports PNG, JPEG, GIF, TIFF, BMP, and WebP.
func LoadImage(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding image %s: %w", path, err)
	}

	if nrgba, ok := img.(*image.NRGBA); ok {
		return nrgba, nil
	}
	bounds := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, bounds.Min, draw.Src)
	return nrgba, nil
}

// SaveImage encodes img to path, choosing the format by extension:
// JPEG for .jpg/.jpeg, PNG otherwise. A file that was created but could
// not be fully encoded is removed rather than left truncated.
func SaveImage(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encoding image: %w", err)
	}
	return f.Close()
}
