package rtree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueryNearestK(t *testing.T) {
	tr := New()
	tr.Add(0, 0, 1, 1)
	tr.Add(2, 2, 3, 3)
	tr.Add(5, 5, 6, 6)
	tr.Build()

	var results []int
	tr.QueryNearestK(0, 0, 2, &results)
	require.Equal(t, []int{0, 1}, results)

	tr.QueryNearestK(6, 6, 1, &results)
	require.Equal(t, []int{2}, results)
}

func TestQueryNearestKZeroAndOverflow(t *testing.T) {
	tr := New()
	tr.Add(0, 0, 1, 1)
	tr.Add(2, 2, 3, 3)
	tr.Add(5, 5, 6, 6)
	tr.Build()

	var results []int
	tr.QueryNearestK(0, 0, 0, &results)
	require.Empty(t, results)

	// k beyond the item count returns everything, ordered by distance.
	tr.QueryNearestK(0, 0, 10, &results)
	require.Equal(t, []int{0, 1, 2}, results)
}

func TestQueryNearestKInsidePointHasZeroDistance(t *testing.T) {
	tr := New()
	tr.Add(0, 0, 10, 10)
	tr.Add(20, 20, 21, 21)
	tr.Build()

	var results []int
	tr.QueryNearestK(5, 5, 1, &results)
	require.Equal(t, []int{0}, results)
}

func TestQueryNearestKOrdering(t *testing.T) {
	tr := WithCapacity(50)
	for i := 0; i < 50; i++ {
		x := float64((i * 19) % 100)
		y := float64((i * 43) % 100)
		tr.Add(x, y, x+1, y+1)
	}
	tr.Build()

	var results []int
	tr.QueryNearestK(50, 50, 10, &results)
	require.Len(t, results, 10)

	prev := -1.0
	for _, id := range results {
		b, ok := tr.Get(id)
		require.True(t, ok)
		d := b.distSqToPoint(50, 50)
		require.GreaterOrEqual(t, d, prev)
		prev = d
	}
}

func TestQueryNearestKPoints(t *testing.T) {
	tr := New()
	tr.AddPoint(0, 0)
	tr.AddPoint(3, 0)
	tr.AddPoint(0, 4)
	tr.AddPoint(10, 10)
	tr.Build()

	var results []int
	tr.QueryNearestKPoints(0, 0, 3, &results)
	require.Equal(t, []int{0, 1, 2}, results)
}

func TestQueryNearestKPointsMatchesGeneralOnPointData(t *testing.T) {
	tr := WithCapacity(100)
	for i := 0; i < 100; i++ {
		tr.AddPoint(float64((i*71)%300), float64((i*31)%300))
	}
	tr.Build()

	var general, points []int
	tr.QueryNearestK(150, 150, 12, &general)
	tr.QueryNearestKPoints(150, 150, 12, &points)

	// Tie order may differ; the distance sequences must not.
	dists := func(ids []int) []float64 {
		out := make([]float64, len(ids))
		for i, id := range ids {
			b, ok := tr.Get(id)
			require.True(t, ok)
			out[i] = b.distSqToPoint(150, 150)
		}
		return out
	}
	require.Equal(t, dists(general), dists(points))
}

func TestQueryNearest(t *testing.T) {
	tr := New()
	tr.Add(0, 0, 1, 1)
	tr.Add(5, 5, 6, 6)
	tr.Build()

	id, ok := tr.QueryNearest(4.5, 4.5)
	require.True(t, ok)
	require.Equal(t, 1, id)

	empty := New()
	empty.Build()
	_, ok = empty.QueryNearest(0, 0)
	require.False(t, ok)
}
