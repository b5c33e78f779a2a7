package rtree

import (
	"sort"

	"github.com/joshuapare/rtreekit/internal/format"
)

// QueryCircle finds all boxes intersecting the circle centered at (cx, cy)
// with the given radius. An MBR whose nearest point is beyond the radius can
// hold no matching descendant, so the same distance test prunes and emits.
// A negative radius yields an empty result. Results are unordered.
func (t *RTree) QueryCircle(cx, cy, radius float64, results *[]int) {
	*results = (*results)[:0]
	if t.numItems == 0 || len(t.levelBounds) == 0 || radius < 0 {
		return
	}

	radiusSq := radius * radius
	queue := make([]int, 0, 32)
	nodeIndex := t.totalNodes - 1
	for {
		nodeEnd := t.upperBound(nodeIndex)
		endPos := min(nodeIndex+t.nodeSize, nodeEnd)
		for pos := nodeIndex; pos < endPos; pos++ {
			if t.getBox(pos).distSqToPoint(cx, cy) > radiusSq {
				continue
			}
			idx := t.getIndex(pos)
			if pos < t.numItems {
				*results = append(*results, int(idx))
			} else {
				queue = append(queue, int(idx>>format.IndexTagShift))
			}
		}
		if len(queue) == 0 {
			break
		}
		nodeIndex = queue[0]
		queue = queue[1:]
	}
}

// QueryCirclePoints is QueryCircle for indexes built purely from AddPoint:
// leaf distances subtract coordinates directly, and results are sorted by
// ascending distance from the center.
func (t *RTree) QueryCirclePoints(cx, cy, radius float64, results *[]int) {
	*results = (*results)[:0]
	if t.numItems == 0 || len(t.levelBounds) == 0 || radius < 0 {
		return
	}

	radiusSq := radius * radius
	type hit struct {
		distSq float64
		id     int
	}
	var hits []hit

	queue := make([]int, 0, 32)
	nodeIndex := t.totalNodes - 1
	for {
		nodeEnd := t.upperBound(nodeIndex)
		endPos := min(nodeIndex+t.nodeSize, nodeEnd)
		for pos := nodeIndex; pos < endPos; pos++ {
			b := t.getBox(pos)
			if pos >= t.numItems {
				if b.distSqToPoint(cx, cy) <= radiusSq {
					queue = append(queue, int(t.getIndex(pos)>>format.IndexTagShift))
				}
				continue
			}
			dx := b.MinX - cx
			dy := b.MinY - cy
			distSq := dx*dx + dy*dy
			if distSq <= radiusSq {
				hits = append(hits, hit{distSq: distSq, id: int(t.getIndex(pos))})
			}
		}
		if len(queue) == 0 {
			break
		}
		nodeIndex = queue[0]
		queue = queue[1:]
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].distSq < hits[j].distSq })
	for _, h := range hits {
		*results = append(*results, h.id)
	}
}

// QueryWithinDistance finds all boxes within maxDistance of the point
// (x, y). Equivalent to QueryCircle with maxDistance as the radius.
func (t *RTree) QueryWithinDistance(x, y, maxDistance float64, results *[]int) {
	t.QueryCircle(x, y, maxDistance, results)
}
