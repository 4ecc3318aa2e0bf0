package img2palette

import (
	"log/slog"
	"math"
	"math/rand"
)

// boundedPoint caches what the accelerated engine knows about one input
// point. upper must never understate the distance to the assigned
// centroid and lower must never overstate the distance to the
// second-nearest centroid, or assignments become incorrect.
type boundedPoint struct {
	// index of the point's current centroid.
	index uint8
	// upper bounds the distance to the assigned centroid from above.
	upper float32
	// lower bounds the distance to every other centroid from below.
	lower float32
}

// boundedCentroids caches per-centroid state for the accelerated
// engine alongside the centroids themselves.
type boundedCentroids[P Point[P]] struct {
	centroids []P
	// deltas holds each centroid's movement since the last iteration.
	deltas []float32
	// halfDists holds half the distance to each centroid's nearest
	// other centroid.
	halfDists []float32
}

// RunHamerly clusters buf with Hamerly's accelerated variant of Lloyd's
// algorithm. It takes the same parameters as Run and converges to the
// same fixed point; it is an acceleration, not an approximation.
//
// The engine keeps one upper and one lower distance bound per point and
// uses the triangle inequality to skip the inner distance loop for
// points whose assignment cannot have changed. The bookkeeping costs
// roughly one extra float pair per point, so below five or six clusters
// the naive engine tends to win; Hamerly pulls ahead once clusters
// segment clearly and stop moving early.
//
// References: Hamerly (2010), "Making k-means even faster"; Hamerly &
// Drake (2017), "Accelerating Lloyd's Algorithm for k-Means Clustering".
func RunHamerly[P Point[P]](cfg Config, buf []P) (Result[P], error) {
	if err := cfg.validate(len(buf)); err != nil {
		return Result[P]{}, err
	}

	rng := rand.New(rand.NewSource(int64(cfg.Seed)))
	seeded := PlusPlus(cfg.K, rng, buf)
	centers := boundedCentroids[P]{
		centroids: seeded,
		deltas:    make([]float32, len(seeded)),
		halfDists: make([]float32, len(seeded)),
	}

	old := make([]P, len(seeded))
	copy(old, seeded)
	points := make([]boundedPoint, len(buf))
	for i := range points {
		points[i] = boundedPoint{index: 0, upper: math.MaxFloat32, lower: 0}
	}

	var score float32
	iterations := 0
	for {
		computeHalfDistances(&centers)
		assignBounded(buf, &centers, points)
		recalculateBounded(rng, buf, &centers, points)

		score = movement(centers.centroids, old)
		if cfg.Verbose {
			slog.Debug("kmeans iteration", "score", score)
		}

		if iterations >= cfg.MaxIter || score <= cfg.Converge {
			if cfg.Verbose {
				slog.Debug("kmeans finished", "iterations", iterations, "score", score)
			}
			break
		}

		updateBounds(&centers, points)
		copy(old, centers.centroids)
		iterations++
	}

	indices := make([]uint8, len(points))
	for i, p := range points {
		indices[i] = p.index
	}
	return Result[P]{Score: score, Centroids: centers.centroids, Indices: indices}, nil
}

// computeHalfDistances fills in half the distance from each centroid to
// its nearest other centroid. A point whose upper bound stays inside
// this radius cannot switch clusters.
func computeHalfDistances[P Point[P]](centers *boundedCentroids[P]) {
	for i, ci := range centers.centroids {
		min := float32(math.MaxFloat32)
		for j, cj := range centers.centroids {
			if i == j {
				continue
			}
			if d := ci.Squared(cj); d < min {
				min = d
			}
		}
		centers.halfDists[i] = sqrt32(min) * 0.5
	}
}

func assignBounded[P Point[P]](buf []P, centers *boundedCentroids[P], points []boundedPoint) {
	for i := range points {
		pt := &points[i]

		// The assignment can only have changed if the upper bound
		// crosses both the lower bound and the half-distance radius.
		z := centers.halfDists[pt.index]
		if pt.lower > z {
			z = pt.lower
		}
		if pt.upper <= z {
			continue
		}

		// Tighten the upper bound to the true distance and re-test.
		pt.upper = sqrt32(buf[i].Squared(centers.centroids[pt.index]))
		if pt.upper <= z {
			continue
		}

		// Full scan: nearest and second-nearest centroid distances.
		if len(centers.centroids) < 2 {
			continue
		}
		min1 := buf[i].Squared(centers.centroids[0])
		min2 := float32(math.MaxFloat32)
		c1 := 0
		for j := 1; j < len(centers.centroids); j++ {
			d := buf[i].Squared(centers.centroids[j])
			if d < min1 {
				min2 = min1
				min1 = d
				c1 = j
				continue
			}
			if d < min2 {
				min2 = d
			}
		}

		if uint8(c1) != pt.index {
			pt.index = uint8(c1)
			pt.upper = sqrt32(min1)
		}
		pt.lower = sqrt32(min2)
	}
}

// recalculateBounded averages each cluster like the naive engine and
// additionally records how far every centroid moved.
func recalculateBounded[P Point[P]](rng *rand.Rand, buf []P, centers *boundedCentroids[P], points []boundedPoint) {
	for j := range centers.centroids {
		var acc P
		count := 0
		for i := range points {
			if int(points[i].index) != j {
				continue
			}
			if count == 0 {
				acc = buf[i]
			} else {
				acc = acc.Add(buf[i])
			}
			count++
		}

		var next P
		if count > 0 {
			next = acc.Scale(1 / float32(count))
		} else {
			next = centers.centroids[j].Random(rng)
		}
		centers.deltas[j] = sqrt32(centers.centroids[j].Squared(next))
		centers.centroids[j] = next
	}
}

// updateBounds loosens every point's bounds by the centroid movement of
// the finished iteration: the upper bound grows by the assigned
// centroid's delta, the lower bound shrinks by the largest delta. Both
// stay conservative.
func updateBounds[P Point[P]](centers *boundedCentroids[P], points []boundedPoint) {
	var maxDelta float32
	for _, d := range centers.deltas {
		if d > maxDelta {
			maxDelta = d
		}
	}

	for i := range points {
		points[i].upper += centers.deltas[points[i].index]
		points[i].lower -= maxDelta
	}
}

func sqrt32(f float32) float32 {
	return float32(math.Sqrt(float64(f)))
}
