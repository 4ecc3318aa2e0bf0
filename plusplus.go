package img2palette

import (
	"math"
	"math/rand"
)

// PlusPlus picks k initial centroids from buf using k-means++ D²
// sampling: the first centroid is drawn uniformly, each further
// centroid is drawn with probability proportional to the squared
// distance to its nearest already-chosen centroid.
//
// The returned slice may be shorter than k: when every remaining point
// coincides with a chosen centroid the distance sum degenerates and
// seeding stops early. Callers must tolerate fewer centroids.
//
// Seeding is a pure function of rng; an identical source and buffer
// produce identical centroids. Panics if buf is empty.
//
// Reference: Arthur & Vassilvitskii (2007), "k-means++: The Advantages
// of Careful Seeding", section 2.2.
func PlusPlus[P Point[P]](k int, rng *rand.Rand, buf []P) []P {
	if k == 0 {
		return nil
	}
	if len(buf) == 0 {
		panic("img2palette: PlusPlus called with empty buffer")
	}

	centroids := make([]P, 0, k)
	centroids = append(centroids, buf[rng.Intn(len(buf))])

	weights := make([]float32, len(buf))
	for len(centroids) < k {
		// Distance of every point to its nearest chosen centroid.
		var sum float32
		for i, p := range buf {
			min := float32(math.MaxFloat32)
			for _, cent := range centroids {
				if d := p.Squared(cent); d < min {
					min = d
				}
			}
			weights[i] = min
			sum += min
		}

		// If the centroids already cover every point, stop early.
		if !isNormal(sum) {
			return centroids
		}

		centroids = append(centroids, buf[sampleWeighted(rng, weights, sum)])
	}
	return centroids
}

// sampleWeighted draws an index with probability weights[i]/sum.
func sampleWeighted(rng *rand.Rand, weights []float32, sum float32) int {
	r := rng.Float32()
	var cum float32
	for i, w := range weights {
		cum += w / sum
		if r < cum {
			return i
		}
	}
	// Accumulated rounding can leave cum just below 1.
	return len(weights) - 1
}

// isNormal reports whether f is a normal floating-point number: not
// zero, subnormal, infinite, or NaN.
func isNormal(f float32) bool {
	if f != f || f == 0 {
		return false
	}
	abs := math.Abs(float64(f))
	return abs >= math.SmallestNonzeroFloat32*0x1p23 && abs <= math.MaxFloat32
}
