package img2palette

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

// Swatch is one entry of a rendered palette strip.
type Swatch struct {
	Color      color.NRGBA
	Percentage float32
}

// Swatches converts ranked centroid data into renderable swatches.
func Swatches[P interface{ NRGBA() color.NRGBA }](data []CentroidData[P]) []Swatch {
	out := make([]Swatch, len(data))
	for i, d := range data {
		out[i] = Swatch{Color: d.Centroid.NRGBA(), Percentage: d.Percentage}
	}
	return out
}

// LabelOptions configures percentage labels on a palette strip. The
// font is loaded from a TTF file supplied by the caller.
type LabelOptions struct {
	FontPath string
	// Size is the font size in points; 0 picks a size from the strip
	// height.
	Size float64
}

// SavePalette renders swatches into a palette strip image and writes it
// to path as a PNG.
//
// With proportional false every swatch gets an equal share of the
// width. With proportional true each swatch's share matches its
// percentage, with boundaries clamped to the image width; accumulated
// rounding can exhaust the width early, leaving trailing swatches
// without columns.
//
// A width of 0 defaults to height times the swatch count; widths below
// the swatch count are raised so every swatch is at least a pixel wide.
// Passing labels draws each swatch's percentage onto it.
func SavePalette(swatches []Swatch, proportional bool, height, width int, labels *LabelOptions, path string) error {
	if len(swatches) == 0 {
		return fmt.Errorf("img2palette: no swatches to render")
	}
	if height < 1 {
		return fmt.Errorf("img2palette: palette height must be at least 1, got %d", height)
	}
	n := len(swatches)
	w := width
	if w == 0 {
		w = height * n
	}
	if w < n {
		w = n
	}

	owner := swatchColumns(swatches, proportional, w)

	img := image.NewNRGBA(image.Rect(0, 0, w, height))
	for x := 0; x < w; x++ {
		pix := swatches[owner[x]].Color
		for y := 0; y < height; y++ {
			img.SetNRGBA(x, y, pix)
		}
	}

	if labels != nil {
		if err := drawLabels(img, swatches, owner, labels); err != nil {
			return err
		}
	}

	return savePNG(img, path)
}

// swatchColumns assigns every column of the strip to a swatch index.
func swatchColumns(swatches []Swatch, proportional bool, w int) []int {
	n := len(swatches)
	owner := make([]int, w)

	if !proportional {
		for x := 0; x < w; x++ {
			pos := float64(x)/float64(w)*float64(n) - 0.5
			idx := int(math.Round(math.Min(math.Max(pos, 0), float64(n))))
			if idx > n-1 {
				idx = n - 1
			}
			owner[x] = idx
		}
		return owner
	}

	curr := 0
	for i, s := range swatches[:n-1] {
		boundary := int(math.Round(float64(curr) + float64(s.Percentage)*float64(w)))
		if boundary > w {
			boundary = w
		}
		for x := curr; x < boundary; x++ {
			owner[x] = i
		}
		// Rounding clamped the boundary to the edge; the remaining
		// swatches get no columns.
		if boundary == w {
			return owner
		}
		curr = boundary
	}
	for x := curr; x < w; x++ {
		owner[x] = n - 1
	}
	return owner
}

// drawLabels writes each swatch's percentage onto its column span,
// choosing black or white text by the swatch's luminance.
func drawLabels(img *image.NRGBA, swatches []Swatch, owner []int, opts *LabelOptions) error {
	ttf, err := loadTTF(opts.FontPath)
	if err != nil {
		return err
	}

	height := img.Bounds().Dy()
	size := opts.Size
	if size == 0 {
		size = float64(height) / 4
		if size < 8 {
			size = 8
		}
	}

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(ttf)
	ctx.SetFontSize(size)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetHinting(font.HintingFull)

	baseline := (height + int(size)) / 2
	for i, s := range swatches {
		x0, x1 := columnSpan(owner, i)
		if x0 < 0 {
			continue
		}
		// BT.601 luma decides whether dark or light text reads better.
		luma := (299*int(s.Color.R) + 587*int(s.Color.G) + 114*int(s.Color.B)) / 1000
		if luma > 127 {
			ctx.SetSrc(image.Black)
		} else {
			ctx.SetSrc(image.White)
		}

		text := fmt.Sprintf("%.1f%%", s.Percentage*100)
		if _, err := ctx.DrawString(text, freetype.Pt(x0+(x1-x0)/8, baseline)); err != nil {
			return fmt.Errorf("drawing palette label: %w", err)
		}
	}
	return nil
}

// columnSpan returns the first and one-past-last column owned by swatch
// i, or (-1, -1) when the swatch received no columns.
func columnSpan(owner []int, i int) (int, int) {
	x0, x1 := -1, -1
	for x, o := range owner {
		if o != i {
			continue
		}
		if x0 < 0 {
			x0 = x
		}
		x1 = x + 1
	}
	return x0, x1
}

func loadTTF(path string) (*truetype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading font: %w", err)
	}
	ttf, err := freetype.ParseFont(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	return ttf, nil
}

// savePNG writes img with maximum compression, removing the file if
// encoding fails after the file was created.
func savePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating palette file: %w", err)
	}

	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("encoding palette: %w", err)
	}
	return f.Close()
}
