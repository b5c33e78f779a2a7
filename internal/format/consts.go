// Package format houses the low-level layout constants and encoders for the
// packed R-tree buffer and its on-disk serialization. The goal is to keep the
// byte-level knowledge in one place, independent from the public API, so the
// higher-level packages can stay focused on tree construction and traversal.
package format

const (
	// Magic is the single-byte signature at the start of every packed
	// buffer and every serialized index file.
	Magic = 0xFB

	// VersionF64 is the version+type byte for float64 coordinates.
	VersionF64 = 0x01

	// VersionI32 is the version+type byte for int32 coordinates. A file
	// written by one variant must fail the version check in the other.
	VersionI32 = 0x02

	// HeaderSize is the size of the in-buffer header in bytes.
	// Layout (little-endian):
	//   0x00  magic (1)
	//   0x01  version+type (1)
	//   0x02  node size (2)
	//   0x04  item count (4)
	HeaderSize = 8

	// Header field offsets.
	HeaderMagicOffset    = 0x00
	HeaderVersionOffset  = 0x01
	HeaderNodeSizeOffset = 0x02
	HeaderNumItemsOffset = 0x04

	// BoxSizeF64 is the stride of one box record with float64 coordinates:
	// four coordinates of 8 bytes each (minX, minY, maxX, maxY).
	BoxSizeF64 = 32

	// BoxSizeI32 is the stride of one box record with int32 coordinates.
	BoxSizeI32 = 16

	// IndexSize is the stride of one index record. The index slot holds the
	// original insertion ID for leaf positions and the first-child position
	// shifted by IndexTagShift for internal positions.
	IndexSize = 4

	// IndexTagShift is the shift applied to first-child positions stored in
	// internal index slots. The low bits carry no information; the shift is
	// kept for wire compatibility with other packed R-tree encodings.
	IndexTagShift = 2

	// DefaultNodeSize is the default fanout of internal nodes.
	DefaultNodeSize = 16

	// MaxHilbert is the scale factor for the Hilbert lattice. Box centers
	// are scaled by it and clamped into [0, MaxHilbert) on both axes before
	// encoding.
	MaxHilbert = 65535
)
