package img2palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortIndexedColorsOrdersByLightness(t *testing.T) {
	centroids := []Lab{
		{L: 90}, // lightest, index 0
		{L: 10}, // darkest, index 1
		{L: 50}, // middle, index 2
	}
	indices := []uint8{0, 0, 1, 2, 2, 2}

	data := SortIndexedColors(centroids, indices)
	require.Len(t, data, 3)

	assert.Equal(t, float32(10), data[0].Centroid.L)
	assert.Equal(t, float32(50), data[1].Centroid.L)
	assert.Equal(t, float32(90), data[2].Centroid.L)

	assert.EqualValues(t, 1, data[0].Index)
	assert.EqualValues(t, 2, data[1].Index)
	assert.EqualValues(t, 0, data[2].Index)

	assert.InDelta(t, 1.0/6, data[0].Percentage, 1e-6)
	assert.InDelta(t, 3.0/6, data[1].Percentage, 1e-6)
	assert.InDelta(t, 2.0/6, data[2].Percentage, 1e-6)
}

func TestSortIndexedColorsPercentagesSumToOne(t *testing.T) {
	buf := labTestPoints(500, 6)
	res, err := Run(Config{K: 6, MaxIter: 20, Converge: 5.0, Seed: 12}, buf)
	require.NoError(t, err)

	data := SortIndexedColors(res.Centroids, res.Indices)
	var sum float32
	for _, d := range data {
		sum += d.Percentage
	}
	assert.InDelta(t, 1.0, sum, 1e-4)
}

func TestSortIndexedColorsOmitsEmptyClusters(t *testing.T) {
	centroids := []Lab{{L: 10}, {L: 50}, {L: 90}}
	indices := []uint8{0, 0, 2} // nothing assigned to centroid 1

	data := SortIndexedColors(centroids, indices)
	require.Len(t, data, 2)
	assert.EqualValues(t, 0, data[0].Index)
	assert.EqualValues(t, 2, data[1].Index)
}

func TestSortIndexedColorsEmptyIndices(t *testing.T) {
	assert.Nil(t, SortIndexedColors([]Lab{{L: 50}}, nil))
}

func TestSortIndexedColorsIgnoresOutOfRangeIndices(t *testing.T) {
	centroids := []Lab{{L: 10}, {L: 90}}
	indices := []uint8{0, 1, 200}

	data := SortIndexedColors(centroids, indices)
	require.Len(t, data, 2)
	// The stray index still counts toward the total.
	assert.InDelta(t, 1.0/3, data[0].Percentage, 1e-6)
	assert.InDelta(t, 1.0/3, data[1].Percentage, 1e-6)
}

func TestDominantColor(t *testing.T) {
	data := []CentroidData[Lab]{
		{Centroid: Lab{L: 10}, Percentage: 0.2},
		{Centroid: Lab{L: 50}, Percentage: 0.5},
		{Centroid: Lab{L: 90}, Percentage: 0.3},
	}

	got, err := DominantColor(data)
	require.NoError(t, err)
	assert.Equal(t, float32(50), got.L)
}

func TestDominantColorTieKeepsLast(t *testing.T) {
	data := []CentroidData[Lab]{
		{Centroid: Lab{L: 10}, Percentage: 0.5},
		{Centroid: Lab{L: 50}, Percentage: 0.5},
		{Centroid: Lab{L: 90}, Percentage: 0.3},
	}

	got, err := DominantColor(data)
	require.NoError(t, err)
	assert.Equal(t, float32(50), got.L)
}

func TestDominantColorEmpty(t *testing.T) {
	_, err := DominantColor([]CentroidData[Lab]{})
	assert.Error(t, err)
}

func TestMapIndices(t *testing.T) {
	centroids := []Srgb{{R: 1}, {G: 1}, {B: 1}}
	indices := []uint8{2, 0, 1, 1}

	got := MapIndices(centroids, indices)
	assert.Equal(t, []Srgb{{B: 1}, {R: 1}, {G: 1}, {G: 1}}, got)
}

func TestMapIndicesClampsToLastCentroid(t *testing.T) {
	// A centroid list filtered after assignment leaves stale indices
	// behind; they map to the last centroid rather than failing.
	centroids := []Srgb{{R: 1}, {G: 1}}
	indices := []uint8{0, 5, 255}

	got := MapIndices(centroids, indices)
	assert.Equal(t, []Srgb{{R: 1}, {G: 1}, {G: 1}}, got)
}

func TestMapIndicesRoundTrip(t *testing.T) {
	buf := labTestPoints(50, 14)
	res, err := Run(Config{K: 3, MaxIter: 20, Converge: 5.0, Seed: 6}, buf)
	require.NoError(t, err)

	mapped := MapIndices(res.Centroids, res.Indices)
	require.Len(t, mapped, len(buf))
	for i, m := range mapped {
		assert.Equal(t, res.Centroids[res.Indices[i]], m)
	}
}
