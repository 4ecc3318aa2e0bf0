package img2palette

import "math/rand"

// Vec is an arbitrary-dimension float32 vector satisfying the point
// contract. All components are expected to be normalized to [0, 1];
// Random samples within those bounds. Methods never mutate the
// receiver, so a Vec buffer may be shared read-only across runs.
type Vec []float32

// Squared returns the squared Euclidean distance to other. Vectors of
// mismatched lengths compare over the shorter prefix.
func (v Vec) Squared(other Vec) float32 {
	n := len(v)
	if len(other) < n {
		n = len(other)
	}
	var sum float32
	for i := 0; i < n; i++ {
		d := v[i] - other[i]
		sum += d * d
	}
	return sum
}

// Add returns the elementwise sum of v and other as a new vector.
func (v Vec) Add(other Vec) Vec {
	out := make(Vec, len(v))
	for i := range v {
		out[i] = v[i] + other[i]
	}
	return out
}

// Scale returns v with every component multiplied by n.
func (v Vec) Scale(n float32) Vec {
	out := make(Vec, len(v))
	for i := range v {
		out[i] = v[i] * n
	}
	return out
}

// Random returns a vector of the receiver's dimension with components
// drawn uniformly from [0, 1).
func (v Vec) Random(rng *rand.Rand) Vec {
	out := make(Vec, len(v))
	for i := range out {
		out[i] = rng.Float32()
	}
	return out
}
