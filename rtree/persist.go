package rtree

import (
	"fmt"
	"os"

	"github.com/joshuapare/rtreekit/internal/format"
	"github.com/joshuapare/rtreekit/internal/mmfile"
)

// Serialized file layout, little-endian:
//
//	0x00  magic (1)
//	0x01  version+type (1)
//	0x02  fanout (4)
//	0x06  item count (4)
//	0x0A  total node count (4)
//	0x0E  level bound count (4)
//	0x12  level bounds (4 each)
//	      bounds minX, minY, maxX, maxY (coordinate-sized each)
//	      buffer length (4)
//	      buffer bytes

func (t *RTree) marshal() []byte {
	size := 2 + 4*4 + 4*len(t.levelBounds) + 4*8 + 4 + len(t.data)
	out := make([]byte, size)
	out[0] = format.Magic
	out[1] = format.VersionF64
	off := 2
	format.PutU32(out, off, uint32(t.nodeSize))
	format.PutU32(out, off+4, uint32(t.numItems))
	format.PutU32(out, off+8, uint32(t.totalNodes))
	format.PutU32(out, off+12, uint32(len(t.levelBounds)))
	off += 16
	for _, bound := range t.levelBounds {
		format.PutU32(out, off, uint32(bound))
		off += 4
	}
	format.PutF64(out, off, t.bounds.MinX)
	format.PutF64(out, off+8, t.bounds.MinY)
	format.PutF64(out, off+16, t.bounds.MaxX)
	format.PutF64(out, off+24, t.bounds.MaxY)
	off += 32
	format.PutU32(out, off, uint32(len(t.data)))
	off += 4
	copy(out[off:], t.data)
	return out
}

func unmarshalTree(raw []byte) (*RTree, error) {
	if len(raw) < 2 {
		return nil, format.ErrTruncated
	}
	if raw[0] != format.Magic || raw[1] != format.VersionF64 {
		return nil, format.ErrInvalidData
	}
	off := 2
	if len(raw) < off+16 {
		return nil, format.ErrTruncated
	}
	nodeSize := int(format.ReadU32(raw, off))
	numItems := int(format.ReadU32(raw, off+4))
	totalNodes := int(format.ReadU32(raw, off+8))
	boundCount := int(format.ReadU32(raw, off+12))
	off += 16
	if nodeSize == 0 {
		return nil, format.ErrInvalidData
	}
	if len(raw) < off+4*boundCount+32+4 {
		return nil, format.ErrTruncated
	}
	levelBounds := make([]int, boundCount)
	for i := range levelBounds {
		levelBounds[i] = int(format.ReadU32(raw, off))
		off += 4
	}
	bounds := Box{
		MinX: format.ReadF64(raw, off),
		MinY: format.ReadF64(raw, off+8),
		MaxX: format.ReadF64(raw, off+16),
		MaxY: format.ReadF64(raw, off+24),
	}
	off += 32
	dataLen := int(format.ReadU32(raw, off))
	off += 4
	if len(raw) < off+dataLen {
		return nil, format.ErrTruncated
	}
	return &RTree{
		data:        raw[off : off+dataLen],
		levelBounds: levelBounds,
		nodeSize:    nodeSize,
		numItems:    numItems,
		totalNodes:  totalNodes,
		bounds:      bounds,
	}, nil
}

// Save writes the index to path. The written file round-trips through Load
// and OpenMapped.
func (t *RTree) Save(path string) error {
	if err := os.WriteFile(path, t.marshal(), 0o644); err != nil {
		return fmt.Errorf("rtree: save %s: %w", path, err)
	}
	return nil
}

// Load reads an index saved by Save. The returned tree is immediately
// queryable; Build must not be called on it.
func Load(path string) (*RTree, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rtree: load %s: %w", path, err)
	}
	t, err := unmarshalTree(raw)
	if err != nil {
		return nil, fmt.Errorf("rtree: load %s: %w", path, err)
	}
	return t, nil
}

// OpenMapped reads an index saved by Save through a read-only memory
// mapping on unix, so the node buffer is backed by the page cache instead of
// a heap copy; on other platforms the file is read into memory. Call Close
// when done; the index must not be queried after Close.
func OpenMapped(path string) (*RTree, error) {
	raw, cleanup, err := mmfile.Map(path)
	if err != nil {
		return nil, fmt.Errorf("rtree: open %s: %w", path, err)
	}
	t, err := unmarshalTree(raw)
	if err != nil {
		_ = cleanup()
		return nil, fmt.Errorf("rtree: open %s: %w", path, err)
	}
	t.unmap = cleanup
	return t, nil
}

// Close releases the mapping of an index opened with OpenMapped. The index
// returns empty results afterwards. Trees built in memory or read with Load
// need no Close; calling it is a no-op.
func (t *RTree) Close() error {
	if t.unmap == nil {
		return nil
	}
	unmap := t.unmap
	t.unmap = nil
	t.data = nil
	t.levelBounds = nil
	t.numItems = 0
	t.totalNodes = 0
	return unmap()
}
