package img2palette

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwatchesFromCentroidData(t *testing.T) {
	data := []CentroidData[Srgb]{
		{Centroid: Srgb{R: 1}, Percentage: 0.75},
		{Centroid: Srgb{B: 1}, Percentage: 0.25},
	}

	swatches := Swatches(data)
	require.Len(t, swatches, 2)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, swatches[0].Color)
	assert.Equal(t, float32(0.75), swatches[0].Percentage)
	assert.Equal(t, color.NRGBA{B: 255, A: 255}, swatches[1].Color)
}

func TestSavePaletteEqualWidths(t *testing.T) {
	swatches := []Swatch{
		{Color: color.NRGBA{R: 255, A: 255}, Percentage: 0.9},
		{Color: color.NRGBA{B: 255, A: 255}, Percentage: 0.1},
	}
	path := filepath.Join(t.TempDir(), "palette.png")

	require.NoError(t, SavePalette(swatches, false, 4, 10, nil, path))

	img := decodePNG(t, path)
	assert.Equal(t, 10, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())

	// Equal split: the first five columns red, the rest blue.
	assertPixel(t, img, 0, 0, color.NRGBA{R: 255, A: 255})
	assertPixel(t, img, 4, 3, color.NRGBA{R: 255, A: 255})
	assertPixel(t, img, 5, 0, color.NRGBA{B: 255, A: 255})
	assertPixel(t, img, 9, 3, color.NRGBA{B: 255, A: 255})
}

func TestSavePaletteProportional(t *testing.T) {
	swatches := []Swatch{
		{Color: color.NRGBA{R: 255, A: 255}, Percentage: 0.75},
		{Color: color.NRGBA{B: 255, A: 255}, Percentage: 0.25},
	}
	path := filepath.Join(t.TempDir(), "palette.png")

	require.NoError(t, SavePalette(swatches, true, 2, 8, nil, path))

	img := decodePNG(t, path)
	assertPixel(t, img, 0, 0, color.NRGBA{R: 255, A: 255})
	assertPixel(t, img, 5, 0, color.NRGBA{R: 255, A: 255})
	assertPixel(t, img, 6, 0, color.NRGBA{B: 255, A: 255})
	assertPixel(t, img, 7, 1, color.NRGBA{B: 255, A: 255})
}

func TestSavePaletteDefaultWidth(t *testing.T) {
	swatches := []Swatch{
		{Color: color.NRGBA{A: 255}, Percentage: 0.5},
		{Color: color.NRGBA{R: 255, G: 255, B: 255, A: 255}, Percentage: 0.5},
		{Color: color.NRGBA{G: 255, A: 255}, Percentage: 0.0},
	}
	path := filepath.Join(t.TempDir(), "palette.png")

	require.NoError(t, SavePalette(swatches, false, 16, 0, nil, path))

	img := decodePNG(t, path)
	assert.Equal(t, 48, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())
}

func TestSavePaletteWidthFloor(t *testing.T) {
	swatches := []Swatch{
		{Color: color.NRGBA{A: 255}},
		{Color: color.NRGBA{R: 255, A: 255}},
		{Color: color.NRGBA{G: 255, A: 255}},
	}
	path := filepath.Join(t.TempDir(), "palette.png")

	// A requested width below the swatch count is raised so every
	// swatch keeps at least one column.
	require.NoError(t, SavePalette(swatches, false, 2, 1, nil, path))

	img := decodePNG(t, path)
	assert.Equal(t, 3, img.Bounds().Dx())
}

func TestSavePaletteRejectsBadInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.png")

	assert.Error(t, SavePalette(nil, false, 10, 0, nil, path))
	assert.Error(t, SavePalette([]Swatch{{}}, false, 0, 0, nil, path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSwatchColumnsProportionalClampsEarly(t *testing.T) {
	// Rounded boundaries can exhaust the width before the last swatch;
	// the trailing swatches then own no columns.
	swatches := []Swatch{
		{Percentage: 0.7},
		{Percentage: 0.6},
		{Percentage: 0.1},
	}

	owner := swatchColumns(swatches, true, 10)
	require.Len(t, owner, 10)
	for x := 0; x < 7; x++ {
		assert.Equal(t, 0, owner[x])
	}
	for x := 7; x < 10; x++ {
		assert.Equal(t, 1, owner[x])
	}
}

func TestColumnSpan(t *testing.T) {
	owner := []int{0, 0, 1, 1, 1, 2}

	x0, x1 := columnSpan(owner, 1)
	assert.Equal(t, 2, x0)
	assert.Equal(t, 5, x1)

	x0, _ = columnSpan(owner, 3)
	assert.Equal(t, -1, x0)
}

func decodePNG(t *testing.T, path string) *image.NRGBA {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)

	nrgba, ok := img.(*image.NRGBA)
	if ok {
		return nrgba
	}
	bounds := img.Bounds()
	out := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out
}

func assertPixel(t *testing.T, img *image.NRGBA, x, y int, want color.NRGBA) {
	t.Helper()
	assert.Equal(t, want, img.NRGBAAt(x, y), "pixel (%d, %d)", x, y)
}
