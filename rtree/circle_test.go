package rtree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueryCircle(t *testing.T) {
	tr := New()
	tr.Add(0, 0, 1, 1)
	tr.Add(1, 1, 2, 2)
	tr.Add(5, 5, 6, 6)
	tr.Build()

	var results []int
	tr.QueryCircle(1, 1, 1.5, &results)
	require.ElementsMatch(t, []int{0, 1}, results)

	tr.QueryCircle(0, 0, 0.5, &results)
	require.ElementsMatch(t, []int{0}, results)

	tr.QueryCircle(100, 100, 1, &results)
	require.Empty(t, results)
}

func TestQueryCircleNegativeRadius(t *testing.T) {
	tr := New()
	tr.Add(0, 0, 1, 1)
	tr.Build()

	results := []int{99}
	tr.QueryCircle(0, 0, -1, &results)
	require.Empty(t, results)
}

func TestQueryCircleZeroRadiusOnEdge(t *testing.T) {
	tr := New()
	tr.Add(0, 0, 1, 1)
	tr.Add(3, 3, 4, 4)
	tr.Build()

	var results []int
	tr.QueryCircle(1, 1, 0, &results)
	require.ElementsMatch(t, []int{0}, results)
}

func TestQueryCirclePoints(t *testing.T) {
	tr := New()
	tr.AddPoint(0, 0)
	tr.AddPoint(1, 0)
	tr.AddPoint(0, 1)
	tr.AddPoint(1, 1)
	tr.AddPoint(5, 5)
	tr.Build()

	var results []int
	tr.QueryCirclePoints(0, 0, 1.2, &results)
	require.Len(t, results, 3)
	require.Equal(t, 0, results[0])
	// Items 1 and 2 are tied at distance 1; their relative order is
	// unspecified.
	require.ElementsMatch(t, []int{1, 2}, results[1:])

	tr.QueryCirclePoints(0, 0, 8, &results)
	require.Len(t, results, 5)
	require.Equal(t, 4, results[len(results)-1])
}

func TestQueryCirclePointsNoResults(t *testing.T) {
	tr := New()
	tr.AddPoint(0, 0)
	tr.AddPoint(1, 1)
	tr.Build()

	var results []int
	tr.QueryCirclePoints(5, 5, 1, &results)
	require.Empty(t, results)
}

func TestQueryWithinDistance(t *testing.T) {
	tr := New()
	tr.Add(0, 0, 1, 1)
	tr.Add(2, 0, 3, 1)
	tr.Add(10, 10, 11, 11)
	tr.Build()

	var results []int
	tr.QueryWithinDistance(1.5, 0.5, 0.6, &results)
	require.ElementsMatch(t, []int{0, 1}, results)

	tr.QueryWithinDistance(1.5, 0.5, -2, &results)
	require.Empty(t, results)
}
