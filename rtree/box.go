package rtree

// Box is an axis-aligned bounding box with float64 coordinates. Callers are
// expected to supply Max >= Min on both axes; degenerate boxes (min == max)
// are valid and are how points are stored.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// Intersects reports whether b and o overlap. Touching edges count.
func (b Box) Intersects(o Box) bool {
	return !(o.MaxX < b.MinX || o.MaxY < b.MinY || o.MinX > b.MaxX || o.MinY > b.MaxY)
}

// Contains reports whether b fully encloses o.
func (b Box) Contains(o Box) bool {
	return b.MinX <= o.MinX && b.MinY <= o.MinY && b.MaxX >= o.MaxX && b.MaxY >= o.MaxY
}

// ContainsPoint reports whether the point (x, y) lies inside b, edges
// inclusive.
func (b Box) ContainsPoint(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

func (b Box) union(o Box) Box {
	return Box{
		MinX: min(b.MinX, o.MinX),
		MinY: min(b.MinY, o.MinY),
		MaxX: max(b.MaxX, o.MaxX),
		MaxY: max(b.MaxY, o.MaxY),
	}
}

// distSqToPoint returns the squared Euclidean distance from (x, y) to the
// nearest point of b. Zero when the point is inside.
func (b Box) distSqToPoint(x, y float64) float64 {
	dx := axisDistance(x, b.MinX, b.MaxX)
	dy := axisDistance(y, b.MinY, b.MaxY)
	return dx*dx + dy*dy
}

func axisDistance(coord, lo, hi float64) float64 {
	if coord < lo {
		return lo - coord
	}
	if coord > hi {
		return coord - hi
	}
	return 0
}

// Box32 is an axis-aligned bounding box with int32 coordinates.
type Box32 struct {
	MinX, MinY, MaxX, MaxY int32
}

// Intersects reports whether b and o overlap. Touching edges count.
func (b Box32) Intersects(o Box32) bool {
	return !(o.MaxX < b.MinX || o.MaxY < b.MinY || o.MinX > b.MaxX || o.MinY > b.MaxY)
}

// Contains reports whether b fully encloses o.
func (b Box32) Contains(o Box32) bool {
	return b.MinX <= o.MinX && b.MinY <= o.MinY && b.MaxX >= o.MaxX && b.MaxY >= o.MaxY
}

// ContainsPoint reports whether the point (x, y) lies inside b, edges
// inclusive.
func (b Box32) ContainsPoint(x, y int32) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

func (b Box32) union(o Box32) Box32 {
	return Box32{
		MinX: min(b.MinX, o.MinX),
		MinY: min(b.MinY, o.MinY),
		MaxX: max(b.MaxX, o.MaxX),
		MaxY: max(b.MaxY, o.MaxY),
	}
}
