package img2palette

import (
	"image/color"
	"math/rand"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Lab is a CIE L*a*b* color (D65 white point) with L in [0, 100] and
// a, b in [-128, 127]. Lab is the default clustering space: distances
// in it track perceived color difference far better than sRGB.
type Lab struct {
	L, A, B float32
}

// Squared returns the squared distance to other.
func (c Lab) Squared(other Lab) float32 {
	return (c.L-other.L)*(c.L-other.L) +
		(c.A-other.A)*(c.A-other.A) +
		(c.B-other.B)*(c.B-other.B)
}

// Add returns the channelwise sum of c and other.
func (c Lab) Add(other Lab) Lab {
	return Lab{L: c.L + other.L, A: c.A + other.A, B: c.B + other.B}
}

// Scale returns c with every channel multiplied by n.
func (c Lab) Scale(n float32) Lab {
	return Lab{L: c.L * n, A: c.A * n, B: c.B * n}
}

// Random returns a uniformly random color within the Lab bounds.
func (c Lab) Random(rng *rand.Rand) Lab {
	return Lab{
		L: randRange(rng, 0.0, 100.0),
		A: randRange(rng, -128.0, 127.0),
		B: randRange(rng, -128.0, 127.0),
	}
}

// SortChannel returns L, ordering colors from darkest to lightest.
func (c Lab) SortChannel() float32 {
	return c.L
}

// LabFromRGB8 converts an 8-bit sRGB color to Lab.
func LabFromRGB8(r, g, b uint8) Lab {
	l, a, bb := colorful.Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}.Lab()
	// go-colorful works on a 0..1 L scale; the clustering space uses
	// the CIE 0..100 scale.
	return Lab{L: float32(l * 100), A: float32(a * 100), B: float32(bb * 100)}
}

// Srgb converts the color back to gamma-encoded sRGB, clamping
// out-of-gamut channels.
func (c Lab) Srgb() Srgb {
	col := c.colorful().Clamped()
	return Srgb{R: float32(col.R), G: float32(col.G), B: float32(col.B)}
}

// NRGBA converts the color to an 8-bit image color, clamping
// out-of-gamut channels.
func (c Lab) NRGBA() color.NRGBA {
	r, g, b := c.colorful().Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// Hex returns the color as a "#rrggbb" string.
func (c Lab) Hex() string {
	return c.colorful().Clamped().Hex()
}

func (c Lab) colorful() colorful.Color {
	return colorful.Lab(float64(c.L)/100, float64(c.A)/100, float64(c.B)/100)
}
