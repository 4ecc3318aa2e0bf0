package img2palette

import (
	"errors"
	"sort"
)

// CentroidData pairs a centroid with how often it occurs in an indexed
// buffer. Produced by SortIndexedColors and never mutated afterwards.
type CentroidData[P any] struct {
	// Centroid is the cluster's representative point.
	Centroid P
	// Percentage is the share of indices assigned to this centroid,
	// in [0, 1].
	Percentage float32
	// Index is the centroid's position in the original centroid set.
	Index uint8
}

// SortIndexedColors builds the occurrence histogram of indices,
// converts counts to percentages, and returns the centroids ordered by
// ascending SortChannel (darkest to lightest for colors). Centroids
// with zero occurrences are omitted, so the percentages of the returned
// entries sum to 1 within floating tolerance.
//
// Returns nil when indices is empty; percentages are undefined without
// assignments and callers must check before calling.
func SortIndexedColors[P Sortable](centroids []P, indices []uint8) []CentroidData[P] {
	if len(indices) == 0 {
		return nil
	}

	counts := make([]int, len(centroids))
	for _, idx := range indices {
		if int(idx) < len(counts) {
			counts[idx]++
		}
	}

	order := make([]int, len(centroids))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return centroids[order[a]].SortChannel() < centroids[order[b]].SortChannel()
	})

	total := float32(len(indices))
	data := make([]CentroidData[P], 0, len(centroids))
	for _, j := range order {
		if counts[j] == 0 {
			continue
		}
		data = append(data, CentroidData[P]{
			Centroid:   centroids[j],
			Percentage: float32(counts[j]) / total,
			Index:      uint8(j),
		})
	}
	return data
}

// DominantColor returns the centroid with the highest percentage. Ties
// keep the later entry. Errors on empty input.
func DominantColor[P any](data []CentroidData[P]) (P, error) {
	if len(data) == 0 {
		var zero P
		return zero, errors.New("img2palette: no centroid data")
	}

	best := data[0]
	for _, d := range data[1:] {
		if d.Percentage >= best.Percentage {
			best = d
		}
	}
	return best.Centroid, nil
}

// MapIndices reconstructs the per-point values of an indexed buffer:
// element i is centroids[indices[i]]. An index beyond the centroid set
// maps to the last centroid instead of failing; this fallback masks
// what would otherwise be an out-of-range bug and exists for indexed
// buffers whose centroid list was filtered after assignment.
func MapIndices[P any](centroids []P, indices []uint8) []P {
	last := len(centroids) - 1
	out := make([]P, len(indices))
	for i, idx := range indices {
		j := int(idx)
		if j > last {
			j = last
		}
		out[i] = centroids[j]
	}
	return out
}
