// Package hilbert computes positions along a Hilbert space-filling curve on
// a 65536x65536 lattice. Nearby lattice cells map to nearby curve positions,
// which is the property the packed R-tree build relies on for spatial
// locality of its leaf ordering.
package hilbert

// Index maps a lattice cell (x, y) with x, y in [0, 65535] to its 32-bit
// position along the Hilbert curve. The function is a bijection on the
// lattice.
//
// Branchless derivation from https://github.com/rawrunprotected/hilbert_curves
// (public domain): three prefix-scan rounds over the paired bitmasks followed
// by bit recovery through interleaving.
func Index(x, y uint32) uint32 {
	a := x ^ y
	b := 0xFFFF ^ a
	c := 0xFFFF ^ (x | y)
	d := x & (y ^ 0xFFFF)

	// Initial prefix scan round, primed with x and y.
	A := a | (b >> 1)
	B := (a >> 1) ^ a
	C := ((c >> 1) ^ (b & (d >> 1))) ^ c
	D := ((a & (c >> 1)) ^ (d >> 1)) ^ d

	a, b, c, d = A, B, C, D
	A = (a & (a >> 2)) ^ (b & (b >> 2))
	B = (a & (b >> 2)) ^ (b & ((a ^ b) >> 2))
	C ^= (a & (c >> 2)) ^ (b & (d >> 2))
	D ^= (b & (c >> 2)) ^ ((a ^ b) & (d >> 2))

	a, b, c, d = A, B, C, D
	A = (a & (a >> 4)) ^ (b & (b >> 4))
	B = (a & (b >> 4)) ^ (b & ((a ^ b) >> 4))
	C ^= (a & (c >> 4)) ^ (b & (d >> 4))
	D ^= (b & (c >> 4)) ^ ((a ^ b) & (d >> 4))

	// Final round and projection.
	a, b, c, d = A, B, C, D
	C ^= (a & (c >> 8)) ^ (b & (d >> 8))
	D ^= (b & (c >> 8)) ^ ((a ^ b) & (d >> 8))

	// Undo transformation prefix scan.
	a = C ^ (C >> 1)
	b = D ^ (D >> 1)

	// Recover index bits.
	i0 := x ^ y
	i1 := b | (0xFFFF ^ (i0 | a))

	return (interleave(i1) << 1) | interleave(i0)
}

func interleave(x uint32) uint32 {
	x = (x | (x << 8)) & 0x00FF00FF
	x = (x | (x << 4)) & 0x0F0F0F0F
	x = (x | (x << 2)) & 0x33333333
	x = (x | (x << 1)) & 0x55555555
	return x
}
