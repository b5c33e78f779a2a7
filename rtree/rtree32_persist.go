package rtree

import (
	"fmt"
	"os"

	"github.com/joshuapare/rtreekit/internal/format"
)

// Same file layout as the float64 variant, with the version byte set to
// VersionI32 and int32 bounds. Loading an int32 file as float64 (or the
// reverse) fails at the version check before any further parsing.

func (t *RTree32) marshal() []byte {
	size := 2 + 4*4 + 4*len(t.levelBounds) + 4*4 + 4 + len(t.data)
	out := make([]byte, size)
	out[0] = format.Magic
	out[1] = format.VersionI32
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
	format.PutI32(out, off, t.bounds.MinX)
	format.PutI32(out, off+4, t.bounds.MinY)
	format.PutI32(out, off+8, t.bounds.MaxX)
	format.PutI32(out, off+12, t.bounds.MaxY)
	off += 16
	format.PutU32(out, off, uint32(len(t.data)))
	off += 4
	copy(out[off:], t.data)
	return out
}

func unmarshalTree32(raw []byte) (*RTree32, error) {
	if len(raw) < 2 {
		return nil, format.ErrTruncated
	}
	if raw[0] != format.Magic || raw[1] != format.VersionI32 {
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
	if len(raw) < off+4*boundCount+16+4 {
		return nil, format.ErrTruncated
	}
	levelBounds := make([]int, boundCount)
	for i := range levelBounds {
		levelBounds[i] = int(format.ReadU32(raw, off))
		off += 4
	}
	bounds := Box32{
		MinX: format.ReadI32(raw, off),
		MinY: format.ReadI32(raw, off+4),
		MaxX: format.ReadI32(raw, off+8),
		MaxY: format.ReadI32(raw, off+12),
	}
	off += 16
	dataLen := int(format.ReadU32(raw, off))
	off += 4
	if len(raw) < off+dataLen {
		return nil, format.ErrTruncated
	}
	return &RTree32{
		data:        raw[off : off+dataLen],
		levelBounds: levelBounds,
		nodeSize:    nodeSize,
		numItems:    numItems,
		totalNodes:  totalNodes,
		bounds:      bounds,
	}, nil
}

// Save writes the index to path.
func (t *RTree32) Save(path string) error {
	if err := os.WriteFile(path, t.marshal(), 0o644); err != nil {
		return fmt.Errorf("rtree: save %s: %w", path, err)
	}
	return nil
}

// Load32 reads an index saved by RTree32.Save. The returned tree is
// immediately queryable; Build must not be called on it.
func Load32(path string) (*RTree32, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("rtree: load %s: %w", path, err)
	}
	t, err := unmarshalTree32(raw)
	if err != nil {
		return nil, fmt.Errorf("rtree: load %s: %w", path, err)
	}
	return t, nil
}
