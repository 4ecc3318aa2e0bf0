package img2palette

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
)

// MaxK is the largest supported cluster count. Assignment indices are a
// single byte, so a run can address at most 255 centroids; widening the
// index type would change the result contract.
const MaxK = 255

// ErrEmptyBuffer is returned when a run is started on an empty point
// buffer. Clustering nothing would silently produce degenerate output,
// so it fails fast instead.
var ErrEmptyBuffer = errors.New("img2palette: empty point buffer")

// Config holds the parameters of a single clustering run.
type Config struct {
	// K is the number of clusters, 1 to MaxK.
	K int
	// MaxIter caps the number of iterations when the run does not
	// converge first.
	MaxIter int
	// Converge is the score threshold below which the run stops.
	// Sensible defaults differ by domain: around 5.0 for Lab, around
	// 0.0025 for normalized sRGB.
	Converge float32
	// Verbose reports the running score and final iteration count at
	// debug level. It has no effect on the result.
	Verbose bool
	// Seed fully determines the run's random stream.
	Seed uint64
}

func (c Config) validate(bufLen int) error {
	if c.K < 1 {
		return fmt.Errorf("img2palette: k must be at least 1, got %d", c.K)
	}
	if c.K > MaxK {
		return fmt.Errorf("img2palette: k must be at most %d (indices are a single byte), got %d", MaxK, c.K)
	}
	if c.MaxIter < 1 {
		return fmt.Errorf("img2palette: max iterations must be at least 1, got %d", c.MaxIter)
	}
	if bufLen == 0 {
		return ErrEmptyBuffer
	}
	return nil
}

// Result is the outcome of a clustering run: the convergence score, the
// final centroids, and one centroid index per input point. A Result is
// immutable once returned; comparison across runs is the caller's job.
type Result[P Point[P]] struct {
	// Score is the squared movement of the centroids in the final
	// iteration. Lower is better; 0 means fully converged.
	Score float32
	// Centroids are the cluster representatives. There may be fewer
	// than k when seeding exhausted the distinct input points.
	Centroids []P
	// Indices holds, for every input point, the index of its centroid.
	Indices []uint8
}

// NewResult returns an empty result whose score loses to any real run,
// for use as the initial value of a best-of-N fold.
func NewResult[P Point[P]]() Result[P] {
	return Result[P]{Score: math.MaxFloat32}
}

// Better returns the result with the lower score, preferring r on ties.
func (r Result[P]) Better(other Result[P]) Result[P] {
	if other.Score < r.Score {
		return other
	}
	return r
}

// Run clusters buf into cfg.K groups with Lloyd's algorithm: assign
// every point to its nearest centroid, recompute each centroid as the
// mean of its members, repeat until the centroids stop moving or
// cfg.MaxIter is reached. Centroids are seeded with PlusPlus. A
// centroid that ends an iteration with no members is replaced by a
// fresh random point rather than removed.
func Run[P Point[P]](cfg Config, buf []P) (Result[P], error) {
	if err := cfg.validate(len(buf)); err != nil {
		return Result[P]{}, err
	}

	rng := rand.New(rand.NewSource(int64(cfg.Seed)))
	centroids := PlusPlus(cfg.K, rng, buf)

	old := make([]P, len(centroids))
	copy(old, centroids)
	indices := make([]uint8, len(buf))

	var score float32
	iterations := 0
	for {
		assign(buf, centroids, indices)
		recalculate(rng, buf, centroids, indices)

		score = movement(centroids, old)
		if cfg.Verbose {
			slog.Debug("kmeans iteration", "score", score)
		}

		if iterations >= cfg.MaxIter || score <= cfg.Converge {
			if cfg.Verbose {
				slog.Debug("kmeans finished", "iterations", iterations, "score", score)
			}
			break
		}

		iterations++
		copy(old, centroids)
	}

	return Result[P]{Score: score, Centroids: centroids, Indices: indices}, nil
}

// ClosestIndices indexes every point in buf with its nearest centroid.
// Ties go to the lowest centroid index.
func ClosestIndices[P Point[P]](buf, centroids []P) []uint8 {
	indices := make([]uint8, len(buf))
	assign(buf, centroids, indices)
	return indices
}

func assign[P Point[P]](buf, centroids []P, indices []uint8) {
	for i, p := range buf {
		var best uint8
		min := float32(math.MaxFloat32)
		for j, cent := range centroids {
			if d := p.Squared(cent); d < min {
				min = d
				best = uint8(j)
			}
		}
		indices[i] = best
	}
}

// recalculate replaces each centroid with the mean of its assigned
// points, or with a random point when the cluster is empty.
func recalculate[P Point[P]](rng *rand.Rand, buf []P, centroids []P, indices []uint8) {
	for j := range centroids {
		var acc P
		count := 0
		for i, idx := range indices {
			if int(idx) != j {
				continue
			}
			if count == 0 {
				acc = buf[i]
			} else {
				acc = acc.Add(buf[i])
			}
			count++
		}
		if count > 0 {
			centroids[j] = acc.Scale(1 / float32(count))
		} else {
			centroids[j] = centroids[j].Random(rng)
		}
	}
}

// movement is the convergence metric: per channel, the deltas of all
// centroids against the previous iteration are summed, and the squared
// channel sums are added up. Opposing movements cancel, which keeps the
// metric cheap and matches both engines.
func movement[P Point[P]](centroids, old []P) float32 {
	return sumPoints(centroids).Squared(sumPoints(old))
}

func sumPoints[P Point[P]](points []P) P {
	sum := points[0]
	for _, p := range points[1:] {
		sum = sum.Add(p)
	}
	return sum
}
