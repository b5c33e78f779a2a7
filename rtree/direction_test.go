package rtree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueryInDirection(t *testing.T) {
	tr := New()
	tr.Add(0, 0, 1, 1)
	tr.Add(3, 0, 4, 1)
	tr.Add(5, 5, 6, 6)
	tr.Build()

	var results []int
	tr.QueryInDirection(0, 0, 1, 1, 1, 0, 3, &results)
	require.Contains(t, results, 0)
	require.Contains(t, results, 1)
	require.NotContains(t, results, 2)
}

func TestQueryInDirectionRejectsBadInputs(t *testing.T) {
	tr := New()
	tr.Add(0, 0, 1, 1)
	tr.Build()

	results := []int{99}
	tr.QueryInDirection(0, 0, 1, 1, 0, 0, 3, &results)
	require.Empty(t, results)

	tr.QueryInDirection(0, 0, 1, 1, 1, 0, -1, &results)
	require.Empty(t, results)
}

func TestQueryInDirectionNormalizesDirection(t *testing.T) {
	tr := New()
	tr.Add(3, 0, 4, 1)
	tr.Build()

	// A longer direction vector must not reach further than a unit one.
	var long, unit []int
	tr.QueryInDirection(0, 0, 1, 1, 100, 0, 1, &long)
	tr.QueryInDirection(0, 0, 1, 1, 1, 0, 1, &unit)
	require.Equal(t, unit, long)
	require.Empty(t, long)
}

func TestQueryInDirectionK(t *testing.T) {
	tr := New()
	tr.Add(0, 0, 1, 1)
	tr.Add(2, 0, 3, 1)
	tr.Add(4, 0, 5, 1)
	tr.Add(6, 6, 7, 7)
	tr.Build()

	var results []int
	tr.QueryInDirectionK(0, 0, 1, 1, 1, 0, 2, 10, &results)
	require.Equal(t, []int{0, 1}, results)

	tr.QueryInDirectionK(0, 0, 1, 1, 1, 0, 10, 10, &results)
	require.Equal(t, []int{0, 1, 2}, results)

	tr.QueryInDirectionK(0, 0, 1, 1, 1, 0, 0, 10, &results)
	require.Empty(t, results)
}

func TestQueryInDirectionKPathOrder(t *testing.T) {
	tr := New()
	tr.Add(0, 0, 1, 1)
	tr.Add(3, 0, 4, 1)
	tr.Add(5, 5, 6, 6)
	tr.Build()

	var results []int
	tr.QueryInDirectionK(0, 0, 1, 1, 1, 0, 2, 3, &results)
	require.Equal(t, []int{0, 1}, results)
}
