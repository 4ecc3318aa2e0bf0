package img2palette

import (
	"image/color"
	"math/rand"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Srgb is a gamma-encoded sRGB color with channels normalized to
// [0, 1]. Clustering in this space behaves like a posterization filter:
// higher contrast at low cluster counts than Lab, but distances do not
// track perception.
type Srgb struct {
	R, G, B float32
}

// Squared returns the squared distance to other.
func (c Srgb) Squared(other Srgb) float32 {
	return (c.R-other.R)*(c.R-other.R) +
		(c.G-other.G)*(c.G-other.G) +
		(c.B-other.B)*(c.B-other.B)
}

// Add returns the channelwise sum of c and other.
func (c Srgb) Add(other Srgb) Srgb {
	return Srgb{R: c.R + other.R, G: c.G + other.G, B: c.B + other.B}
}

// Scale returns c with every channel multiplied by n.
func (c Srgb) Scale(n float32) Srgb {
	return Srgb{R: c.R * n, G: c.G * n, B: c.B * n}
}

// Random returns a color with channels drawn uniformly from [0, 1).
func (c Srgb) Random(rng *rand.Rand) Srgb {
	return Srgb{R: rng.Float32(), G: rng.Float32(), B: rng.Float32()}
}

// SortChannel returns the relative luminance of the linearized color,
// ordering colors from darkest to lightest.
func (c Srgb) SortChannel() float32 {
	r, g, b := c.colorful().LinearRgb()
	return float32(0.2126*r + 0.7152*g + 0.0722*b)
}

// SrgbFromRGB8 converts an 8-bit sRGB color to the normalized form.
func SrgbFromRGB8(r, g, b uint8) Srgb {
	return Srgb{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
	}
}

// SrgbFromHex parses a "#rrggbb" or "#rgb" hex string.
func SrgbFromHex(s string) (Srgb, error) {
	col, err := colorful.Hex(s)
	if err != nil {
		return Srgb{}, err
	}
	return Srgb{R: float32(col.R), G: float32(col.G), B: float32(col.B)}, nil
}

// Lab converts the color to the perceptual clustering space.
func (c Srgb) Lab() Lab {
	l, a, b := c.colorful().Lab()
	return Lab{L: float32(l * 100), A: float32(a * 100), B: float32(b * 100)}
}

// NRGBA converts the color to an 8-bit image color, clamping channels
// that drifted outside [0, 1] during averaging.
func (c Srgb) NRGBA() color.NRGBA {
	r, g, b := c.colorful().Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// Hex returns the color as a "#rrggbb" string.
func (c Srgb) Hex() string {
	return c.colorful().Clamped().Hex()
}

func (c Srgb) colorful() colorful.Color {
	return colorful.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B)}
}
