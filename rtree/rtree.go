package rtree

import (
	"math"
	"sort"

	"github.com/joshuapare/rtreekit/internal/format"
	"github.com/joshuapare/rtreekit/internal/hilbert"
)

// RTree is a packed Hilbert R-tree over float64 boxes. The zero value is not
// usable; construct with New or WithCapacity.
type RTree struct {
	// Single buffer: header + boxes + indices.
	data []byte
	// End position of each tree level, leaves first.
	levelBounds []int
	nodeSize    int
	numItems    int
	totalNodes  int
	// Running bounds of all added items.
	bounds Box
	// Releases the backing mapping for trees opened with OpenMapped.
	unmap func() error
}

// New creates an empty index.
func New() *RTree {
	return WithCapacity(0)
}

// WithCapacity creates an empty index preallocated for n items plus an
// estimate of the space the internal levels will need at Build time. The
// estimate can fall a few nodes short, in which case Build grows the buffer.
func WithCapacity(n int) *RTree {
	t := &RTree{
		nodeSize: format.DefaultNodeSize,
		bounds: Box{
			MinX: math.Inf(1), MinY: math.Inf(1),
			MaxX: math.Inf(-1), MaxY: math.Inf(-1),
		},
	}
	if n > 0 {
		t.data = make([]byte, 0, estimateBufferSize(n, t.nodeSize))
	}
	return t
}

// estimateTotalNodes estimates the node count of a built tree. The level
// counts form a geometric series converging to n*B/(B-1).
func estimateTotalNodes(n, nodeSize int) int {
	if n == 0 {
		return 0
	}
	return n*nodeSize/(nodeSize-1) + 1
}

func estimateBufferSize(n, nodeSize int) int {
	return format.HeaderSize + estimateTotalNodes(n, nodeSize)*(format.BoxSizeF64+format.IndexSize)
}

// Add appends a box to the index. IDs are assigned in insertion order
// starting at 0. Must not be called after Build.
func (t *RTree) Add(minX, minY, maxX, maxY float64) {
	t.grow(estimateBufferSize(t.numItems+1, t.nodeSize))

	off := format.HeaderSize + t.numItems*format.BoxSizeF64
	if off+format.BoxSizeF64 > len(t.data) {
		t.data = t.data[:off+format.BoxSizeF64]
	}
	t.setBox(t.numItems, Box{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY})

	t.bounds.MinX = min(t.bounds.MinX, minX)
	t.bounds.MinY = min(t.bounds.MinY, minY)
	t.bounds.MaxX = max(t.bounds.MaxX, maxX)
	t.bounds.MaxY = max(t.bounds.MaxY, maxY)

	t.numItems++
}

// AddPoint appends a degenerate box at (x, y).
func (t *RTree) AddPoint(x, y float64) {
	t.Add(x, y, x, y)
}

func (t *RTree) grow(required int) {
	if required <= cap(t.data) {
		return
	}
	grown := make([]byte, len(t.data), max(2*cap(t.data), required))
	copy(grown, t.data)
	t.data = grown
}

// Build finalizes the index. Call exactly once, after the last Add. Building
// an empty index is a no-op; the index stays queryable and returns empty
// results.
func (t *RTree) Build() {
	if t.numItems == 0 {
		return
	}
	n := t.numItems
	nodeSize := t.nodeSize

	// Level bounds: repeatedly divide by the fanout until a single root
	// remains. Each entry is the exclusive end position of its level.
	levelBounds := make([]int, 0, 16)
	count := n
	totalNodes := n
	levelBounds = append(levelBounds, totalNodes)
	for {
		count = (count + nodeSize - 1) / nodeSize
		totalNodes += count
		levelBounds = append(levelBounds, totalNodes)
		if count <= 1 {
			break
		}
	}
	t.levelBounds = levelBounds
	t.totalNodes = totalNodes

	// Extend the buffer to its final size and zero the tail. Parent slots
	// are filled incrementally below; the zero fill keeps every not-yet-
	// written slot in a defined state.
	dataSize := format.HeaderSize + totalNodes*(format.BoxSizeF64+format.IndexSize)
	t.grow(dataSize)
	oldLen := len(t.data)
	t.data = t.data[:dataSize]
	clear(t.data[oldLen:])

	t.data[format.HeaderMagicOffset] = format.Magic
	t.data[format.HeaderVersionOffset] = format.VersionF64
	format.PutU16(t.data, format.HeaderNodeSizeOffset, uint16(nodeSize))
	format.PutU32(t.data, format.HeaderNumItemsOffset, uint32(n))

	// All items fit in one node: keep insertion order and write a single
	// root whose box is the global bounds.
	if n <= nodeSize {
		for i := range n {
			t.setIndex(i, uint32(i))
		}
		t.setBox(n, t.bounds)
		t.setIndex(n, 0<<format.IndexTagShift)
		return
	}

	// Scale item centers into the Hilbert lattice. A zero-extent axis
	// collapses to lattice origin on that axis.
	var hilbertWidth, hilbertHeight float64
	if t.bounds.MaxX > t.bounds.MinX {
		hilbertWidth = format.MaxHilbert / (t.bounds.MaxX - t.bounds.MinX)
	}
	if t.bounds.MaxY > t.bounds.MinY {
		hilbertHeight = format.MaxHilbert / (t.bounds.MaxY - t.bounds.MinY)
	}

	values := make([]uint32, n)
	for i := range n {
		b := t.getBox(i)
		cx := ((b.MinX+b.MaxX)/2 - t.bounds.MinX) * hilbertWidth
		cy := ((b.MinY+b.MaxY)/2 - t.bounds.MinY) * hilbertHeight
		hx := uint32(min(max(cx, 0), format.MaxHilbert-1))
		hy := uint32(min(max(cy, 0), format.MaxHilbert-1))
		values[i] = hilbert.Index(hx, hy)
	}

	// Identity leaf IDs first, then sort boxes and IDs together by Hilbert
	// value so index[i] stays the original ID of the box now at i.
	for i := range n {
		t.setIndex(i, uint32(i))
	}
	t.sortLeaves(values, 0, n-1)

	// Sweep levels bottom-up, writing each parent's MBR and the position of
	// its first child.
	pos := 0
	for level := 0; level < len(levelBounds)-1; level++ {
		levelEnd := levelBounds[level]
		parentPos := levelEnd
		for pos < levelEnd {
			first := pos
			nodeBox := t.getBox(pos)
			end := min(pos+nodeSize, levelEnd)
			for pos++; pos < end; pos++ {
				nodeBox = nodeBox.union(t.getBox(pos))
			}
			t.setBox(parentPos, nodeBox)
			t.setIndex(parentPos, uint32(first)<<format.IndexTagShift)
			parentPos++
		}
	}
}

// sortLeaves quicksorts values[left..right] while applying every swap to the
// leaf boxes and leaf IDs as well.
func (t *RTree) sortLeaves(values []uint32, left, right int) {
	if left >= right {
		return
	}
	pivot := values[(left+right)>>1]
	i := left - 1
	j := right + 1
	for {
		i++
		for values[i] < pivot {
			i++
		}
		j--
		for values[j] > pivot {
			j--
		}
		if i >= j {
			break
		}
		values[i], values[j] = values[j], values[i]
		t.swapLeaves(i, j)
	}
	t.sortLeaves(values, left, j)
	t.sortLeaves(values, j+1, right)
}

func (t *RTree) swapLeaves(i, j int) {
	bi, bj := t.getBox(i), t.getBox(j)
	t.setBox(i, bj)
	t.setBox(j, bi)
	ii, ij := t.getIndex(i), t.getIndex(j)
	t.setIndex(i, ij)
	t.setIndex(j, ii)
}

// Len returns the number of items in the index.
func (t *RTree) Len() int {
	return t.numItems
}

// IsEmpty reports whether the index holds no items.
func (t *RTree) IsEmpty() bool {
	return t.numItems == 0
}

// Bounds returns the minimum bounding rectangle of all added items. Only
// meaningful once at least one item was added.
func (t *RTree) Bounds() Box {
	return t.bounds
}

// Get returns the box of the item with the given insertion ID. The lookup
// scans the leaf IDs linearly; it is a diagnostic accessor, not a hot path,
// and a reverse permutation is deliberately not cached for it.
func (t *RTree) Get(itemID int) (Box, bool) {
	if itemID < 0 || itemID >= t.numItems || len(t.levelBounds) == 0 {
		return Box{}, false
	}
	for pos := 0; pos < t.numItems; pos++ {
		if t.getIndex(pos) == uint32(itemID) {
			return t.getBox(pos), true
		}
	}
	return Box{}, false
}

// GetPoint returns the coordinates of the item with the given insertion ID,
// assuming it was added with AddPoint.
func (t *RTree) GetPoint(itemID int) (x, y float64, ok bool) {
	b, ok := t.Get(itemID)
	if !ok {
		return 0, 0, false
	}
	return b.MinX, b.MinY, true
}

// --- buffer accessors ---

func (t *RTree) getBox(pos int) Box {
	off := format.HeaderSize + pos*format.BoxSizeF64
	return Box{
		MinX: format.ReadF64(t.data, off),
		MinY: format.ReadF64(t.data, off+8),
		MaxX: format.ReadF64(t.data, off+16),
		MaxY: format.ReadF64(t.data, off+24),
	}
}

// getBoxesBatch reads four consecutive boxes in one go. Callers must ensure
// pos+4 <= totalNodes.
func (t *RTree) getBoxesBatch(pos int) [4]Box {
	off := format.HeaderSize + pos*format.BoxSizeF64
	var out [4]Box
	for i := range out {
		out[i] = Box{
			MinX: format.ReadF64(t.data, off),
			MinY: format.ReadF64(t.data, off+8),
			MaxX: format.ReadF64(t.data, off+16),
			MaxY: format.ReadF64(t.data, off+24),
		}
		off += format.BoxSizeF64
	}
	return out
}

func (t *RTree) setBox(pos int, b Box) {
	off := format.HeaderSize + pos*format.BoxSizeF64
	format.PutF64(t.data, off, b.MinX)
	format.PutF64(t.data, off+8, b.MinY)
	format.PutF64(t.data, off+16, b.MaxX)
	format.PutF64(t.data, off+24, b.MaxY)
}

func (t *RTree) indexOffset(pos int) int {
	return format.HeaderSize + t.totalNodes*format.BoxSizeF64 + pos*format.IndexSize
}

func (t *RTree) getIndex(pos int) uint32 {
	return format.ReadU32(t.data, t.indexOffset(pos))
}

func (t *RTree) setIndex(pos int, v uint32) {
	format.PutU32(t.data, t.indexOffset(pos), v)
}

// upperBound returns the end position of the level containing pos: the first
// level bound greater than pos.
func (t *RTree) upperBound(pos int) int {
	i := sort.SearchInts(t.levelBounds, pos+1)
	if i < len(t.levelBounds) {
		return t.levelBounds[i]
	}
	return t.totalNodes
}
