package rtree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/rtreekit/internal/format"
)

func buildSampleTree(t *testing.T, n int) *RTree {
	t.Helper()
	tr := WithCapacity(n)
	for i := 0; i < n; i++ {
		x := float64((i * 37) % 500)
		y := float64((i * 73) % 500)
		tr.Add(x, y, x+3, y+3)
	}
	tr.Build()
	return tr
}

func TestSaveLoadRoundTrip(t *testing.T) {
	tr := buildSampleTree(t, 150)
	path := filepath.Join(t.TempDir(), "index.bin")
	require.NoError(t, tr.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, tr.Len(), loaded.Len())
	require.Equal(t, tr.levelBounds, loaded.levelBounds)
	require.Equal(t, tr.bounds, loaded.bounds)
	require.Equal(t, tr.data, loaded.data)

	var want, got []int
	tr.QueryIntersecting(100, 100, 300, 300, &want)
	loaded.QueryIntersecting(100, 100, 300, 300, &got)
	require.ElementsMatch(t, want, got)

	tr.QueryNearestK(250, 250, 7, &want)
	loaded.QueryNearestK(250, 250, 7, &got)
	require.Equal(t, want, got)
}

func TestSaveLoadEmptyTree(t *testing.T) {
	tr := New()
	tr.Build()
	path := filepath.Join(t.TempDir(), "empty.bin")
	require.NoError(t, tr.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.True(t, loaded.IsEmpty())

	var results []int
	loaded.QueryIntersecting(0, 0, 100, 100, &results)
	require.Empty(t, results)
}

func TestLoadRejectsBadMagic(t *testing.T) {
	tr := buildSampleTree(t, 20)
	path := filepath.Join(t.TempDir(), "index.bin")
	require.NoError(t, tr.Save(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[0] = 0x00
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	_, err = Load(path)
	require.ErrorIs(t, err, format.ErrInvalidData)
}

func TestLoadRejectsBadVersion(t *testing.T) {
	tr := buildSampleTree(t, 20)
	path := filepath.Join(t.TempDir(), "index.bin")
	require.NoError(t, tr.Save(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[1] = 0x7F
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	_, err = Load(path)
	require.ErrorIs(t, err, format.ErrInvalidData)
}

func TestLoadRejectsTruncatedFile(t *testing.T) {
	tr := buildSampleTree(t, 20)
	path := filepath.Join(t.TempDir(), "index.bin")
	require.NoError(t, tr.Save(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw[:len(raw)/2], 0o644))

	_, err = Load(path)
	require.ErrorIs(t, err, format.ErrTruncated)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.bin"))
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestCrossVariantLoadFails(t *testing.T) {
	dir := t.TempDir()

	f64Path := filepath.Join(dir, "f64.bin")
	tr := buildSampleTree(t, 10)
	require.NoError(t, tr.Save(f64Path))

	i32Path := filepath.Join(dir, "i32.bin")
	tr32 := New32()
	tr32.Add(0, 0, 10, 10)
	tr32.Build()
	require.NoError(t, tr32.Save(i32Path))

	_, err := Load(i32Path)
	require.ErrorIs(t, err, format.ErrInvalidData)
	_, err = Load32(f64Path)
	require.ErrorIs(t, err, format.ErrInvalidData)
}

func TestOpenMapped(t *testing.T) {
	tr := buildSampleTree(t, 100)
	path := filepath.Join(t.TempDir(), "index.bin")
	require.NoError(t, tr.Save(path))

	mapped, err := OpenMapped(path)
	require.NoError(t, err)

	var want, got []int
	tr.QueryIntersecting(0, 0, 250, 250, &want)
	mapped.QueryIntersecting(0, 0, 250, 250, &got)
	require.ElementsMatch(t, want, got)

	require.NoError(t, mapped.Close())

	// A closed index answers nothing and Close stays idempotent.
	mapped.QueryIntersecting(0, 0, 250, 250, &got)
	require.Empty(t, got)
	require.NoError(t, mapped.Close())
}

func TestCloseOnHeapTreeIsNoOp(t *testing.T) {
	tr := buildSampleTree(t, 10)
	require.NoError(t, tr.Close())
	require.Equal(t, 10, tr.Len())
}
