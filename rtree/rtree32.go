package rtree

import (
	"math"

	"github.com/joshuapare/rtreekit/internal/format"
	"github.com/joshuapare/rtreekit/internal/hilbert"
)

// RTree32 is the int32-coordinate variant of RTree. The box records are half
// the size, which cuts each node from 36 to 20 bytes for workloads whose
// coordinates fit 32-bit integers. The window, point, and containment query
// surface is identical; distance-based queries (nearest, circle, swept) are
// not offered, as they need a floating metric. Construct with New32 or
// WithCapacity32.
type RTree32 struct {
	data        []byte
	levelBounds []int
	nodeSize    int
	numItems    int
	totalNodes  int
	bounds      Box32
}

// New32 creates an empty int32 index.
func New32() *RTree32 {
	return WithCapacity32(0)
}

// WithCapacity32 creates an empty int32 index preallocated for n items.
func WithCapacity32(n int) *RTree32 {
	t := &RTree32{
		nodeSize: format.DefaultNodeSize,
		bounds: Box32{
			MinX: math.MaxInt32, MinY: math.MaxInt32,
			MaxX: math.MinInt32, MaxY: math.MinInt32,
		},
	}
	if n > 0 {
		t.data = make([]byte, 0, estimateBufferSize32(n, t.nodeSize))
	}
	return t
}

func estimateBufferSize32(n, nodeSize int) int {
	return format.HeaderSize + estimateTotalNodes(n, nodeSize)*(format.BoxSizeI32+format.IndexSize)
}

// Add appends a box to the index. IDs are assigned in insertion order
// starting at 0. Must not be called after Build.
func (t *RTree32) Add(minX, minY, maxX, maxY int32) {
	required := estimateBufferSize32(t.numItems+1, t.nodeSize)
	if required > cap(t.data) {
		grown := make([]byte, len(t.data), max(2*cap(t.data), required))
		copy(grown, t.data)
		t.data = grown
	}

	off := format.HeaderSize + t.numItems*format.BoxSizeI32
	if off+format.BoxSizeI32 > len(t.data) {
		t.data = t.data[:off+format.BoxSizeI32]
	}
	t.setBox(t.numItems, Box32{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY})

	t.bounds.MinX = min(t.bounds.MinX, minX)
	t.bounds.MinY = min(t.bounds.MinY, minY)
	t.bounds.MaxX = max(t.bounds.MaxX, maxX)
	t.bounds.MaxY = max(t.bounds.MaxY, maxY)

	t.numItems++
}

// AddPoint appends a degenerate box at (x, y).
func (t *RTree32) AddPoint(x, y int32) {
	t.Add(x, y, x, y)
}

// Build finalizes the index. Call exactly once, after the last Add.
func (t *RTree32) Build() {
	if t.numItems == 0 {
		return
	}
	n := t.numItems
	nodeSize := t.nodeSize

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

	dataSize := format.HeaderSize + totalNodes*(format.BoxSizeI32+format.IndexSize)
	if dataSize > cap(t.data) {
		grown := make([]byte, len(t.data), dataSize)
		copy(grown, t.data)
		t.data = grown
	}
	oldLen := len(t.data)
	t.data = t.data[:dataSize]
	clear(t.data[oldLen:])

	t.data[format.HeaderMagicOffset] = format.Magic
	t.data[format.HeaderVersionOffset] = format.VersionI32
	format.PutU16(t.data, format.HeaderNodeSizeOffset, uint16(nodeSize))
	format.PutU32(t.data, format.HeaderNumItemsOffset, uint32(n))

	if n <= nodeSize {
		for i := range n {
			t.setIndex(i, uint32(i))
		}
		t.setBox(n, t.bounds)
		t.setIndex(n, 0<<format.IndexTagShift)
		return
	}

	// Center math runs in float64; a zero-extent axis collapses to lattice
	// origin on that axis.
	var hilbertWidth, hilbertHeight float64
	if t.bounds.MaxX > t.bounds.MinX {
		hilbertWidth = format.MaxHilbert / float64(t.bounds.MaxX-t.bounds.MinX)
	}
	if t.bounds.MaxY > t.bounds.MinY {
		hilbertHeight = format.MaxHilbert / float64(t.bounds.MaxY-t.bounds.MinY)
	}

	values := make([]uint32, n)
	for i := range n {
		b := t.getBox(i)
		cx := ((float64(b.MinX)+float64(b.MaxX))/2 - float64(t.bounds.MinX)) * hilbertWidth
		cy := ((float64(b.MinY)+float64(b.MaxY))/2 - float64(t.bounds.MinY)) * hilbertHeight
		hx := uint32(min(max(cx, 0), format.MaxHilbert-1))
		hy := uint32(min(max(cy, 0), format.MaxHilbert-1))
		values[i] = hilbert.Index(hx, hy)
	}

	for i := range n {
		t.setIndex(i, uint32(i))
	}
	t.sortLeaves(values, 0, n-1)

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

func (t *RTree32) sortLeaves(values []uint32, left, right int) {
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
		bi, bj := t.getBox(i), t.getBox(j)
		t.setBox(i, bj)
		t.setBox(j, bi)
		ii, ij := t.getIndex(i), t.getIndex(j)
		t.setIndex(i, ij)
		t.setIndex(j, ii)
	}
	t.sortLeaves(values, left, j)
	t.sortLeaves(values, j+1, right)
}

// Len returns the number of items in the index.
func (t *RTree32) Len() int {
	return t.numItems
}

// IsEmpty reports whether the index holds no items.
func (t *RTree32) IsEmpty() bool {
	return t.numItems == 0
}

// Bounds returns the minimum bounding rectangle of all added items.
func (t *RTree32) Bounds() Box32 {
	return t.bounds
}

// Get returns the box of the item with the given insertion ID via a linear
// scan of the leaf IDs.
func (t *RTree32) Get(itemID int) (Box32, bool) {
	if itemID < 0 || itemID >= t.numItems || len(t.levelBounds) == 0 {
		return Box32{}, false
	}
	for pos := 0; pos < t.numItems; pos++ {
		if t.getIndex(pos) == uint32(itemID) {
			return t.getBox(pos), true
		}
	}
	return Box32{}, false
}

// GetPoint returns the coordinates of the item with the given insertion ID,
// assuming it was added with AddPoint.
func (t *RTree32) GetPoint(itemID int) (x, y int32, ok bool) {
	b, ok := t.Get(itemID)
	if !ok {
		return 0, 0, false
	}
	return b.MinX, b.MinY, true
}

func (t *RTree32) getBox(pos int) Box32 {
	off := format.HeaderSize + pos*format.BoxSizeI32
	return Box32{
		MinX: format.ReadI32(t.data, off),
		MinY: format.ReadI32(t.data, off+4),
		MaxX: format.ReadI32(t.data, off+8),
		MaxY: format.ReadI32(t.data, off+12),
	}
}

func (t *RTree32) setBox(pos int, b Box32) {
	off := format.HeaderSize + pos*format.BoxSizeI32
	format.PutI32(t.data, off, b.MinX)
	format.PutI32(t.data, off+4, b.MinY)
	format.PutI32(t.data, off+8, b.MaxX)
	format.PutI32(t.data, off+12, b.MaxY)
}

func (t *RTree32) indexOffset(pos int) int {
	return format.HeaderSize + t.totalNodes*format.BoxSizeI32 + pos*format.IndexSize
}

func (t *RTree32) getIndex(pos int) uint32 {
	return format.ReadU32(t.data, t.indexOffset(pos))
}

func (t *RTree32) setIndex(pos int, v uint32) {
	format.PutU32(t.data, t.indexOffset(pos), v)
}
