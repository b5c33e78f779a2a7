// Package rtree provides a bulk-loaded, read-optimized spatial index over 2D
// axis-aligned bounding boxes.
//
// # Overview
//
// This package implements a packed Hilbert R-tree: boxes are added one by
// one, then a single Build call sorts them along a Hilbert space-filling
// curve and materializes the internal tree levels bottom-up into one
// contiguous byte buffer. After Build the index is immutable and answers
// window, point, containment, nearest-neighbor, circular, and swept-box
// queries at microsecond latencies on millions of items.
//
// # Key Types
//
// The main types provided by this package are:
//
//   - RTree: the float64-coordinate index and its full query surface
//   - RTree32: the int32-coordinate variant (no distance-based queries)
//   - Box, Box32: plain min/max coordinate pairs
//
// # Buffer Structure
//
// A built index is a single buffer:
//
//	[Header - 8 bytes] [Box 0] ... [Box T-1] [Index 0] ... [Index T-1]
//
// where T is the total node count. Positions [0, N) hold the N leaf boxes in
// Hilbert order; positions [N, T) hold internal node MBRs written bottom-up.
// The index slot stores the original insertion ID for a leaf and the
// first-child position for an internal node, so a position comparison
// against N is the only leaf/parent discriminator needed.
//
// # Building an Index
//
// The typical lifecycle is accumulate, build, query:
//
//	t := rtree.New()
//	t.Add(0, 0, 2, 2)
//	t.Add(1, 1, 3, 3)
//	t.Build()
//
//	var results []int
//	t.QueryIntersecting(0.5, 0.5, 2.5, 2.5, &results)
//
// Add must not be called after Build. Queries on an index that was never
// built return empty results.
//
// # Result Sinks
//
// Every query takes a caller-provided *[]int and clears it on entry. Reusing
// the same slice across queries amortizes allocation, which matters when
// issuing millions of queries.
//
// # Persistence
//
// Save writes a built index to a file; Load reads it back ready to query.
// OpenMapped reads the same format through a read-only memory mapping
// (unix), avoiding a heap copy of the buffer; call Close when done. Files
// written by RTree and RTree32 are distinguished by a version byte and
// refuse to cross-load.
//
// # Thread Safety
//
// A built index is read-only and safe for concurrent queries without
// synchronization. Building is single-writer: do not call Add or Build from
// more than one goroutine.
package rtree
