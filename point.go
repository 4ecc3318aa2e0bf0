// Package img2palette finds the dominant colors of an image by k-means
// clustering. The clustering engines are generic over a point contract,
// so the same code clusters perceptual Lab colors, sRGB colors, or
// arbitrary float vectors.
package img2palette

import "math/rand"

// Point is the contract a value type must satisfy to be clustered.
// Implementations must be value-semantic: no method may mutate its
// receiver or its argument.
type Point[P any] interface {
	// Squared returns the squared distance to other. The square root is
	// omitted; both engines compare squared magnitudes.
	Squared(other P) float32

	// Add returns the elementwise sum of the point and other. Used with
	// Scale to average the members of a cluster.
	Add(other P) P

	// Scale returns the point with every element multiplied by n.
	Scale(n float32) P

	// Random returns a uniformly random point within the domain's valid
	// range. The receiver supplies dimensionality for dynamically sized
	// types; fixed-size types may ignore it.
	Random(rng *rand.Rand) P
}

// Sortable is the subset of the point contract needed to rank centroids
// by a luminosity-like scalar.
type Sortable interface {
	// SortChannel returns the scalar the ranked output is ordered by,
	// ascending. For colors this is a luminosity equivalent.
	SortChannel() float32
}

func randRange(rng *rand.Rand, lo, hi float32) float32 {
	return lo + rng.Float32()*(hi-lo)
}
