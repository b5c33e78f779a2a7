package rtree

import (
	"fmt"
	"sort"

	"github.com/joshuapare/rtreekit/internal/format"
)

func (t *RTree32) upperBound(pos int) int {
	i := sort.SearchInts(t.levelBounds, pos+1)
	if i < len(t.levelBounds) {
		return t.levelBounds[i]
	}
	return t.totalNodes
}

// QueryIntersecting finds all boxes that intersect the query window,
// touching edges included. Results are item IDs in no particular order.
func (t *RTree32) QueryIntersecting(minX, minY, maxX, maxY int32, results *[]int) {
	*results = (*results)[:0]
	if t.numItems == 0 || len(t.levelBounds) == 0 {
		return
	}

	// The area heuristic runs in float64: int32 extents can overflow an
	// int64 product of two full-range axes.
	queryArea := (float64(maxX) - float64(minX)) * (float64(maxY) - float64(minY))
	boundsArea := (float64(t.bounds.MaxX) - float64(t.bounds.MinX)) * (float64(t.bounds.MaxY) - float64(t.bounds.MinY))
	if queryArea > boundsArea*fullScanThreshold {
		for pos := 0; pos < t.numItems; pos++ {
			b := t.getBox(pos)
			if maxX >= b.MinX && maxY >= b.MinY && minX <= b.MaxX && minY <= b.MaxY {
				*results = append(*results, int(t.getIndex(pos)))
			}
		}
		return
	}

	queue := make([]int, 0, 32)
	nodeIndex := t.totalNodes - 1
	for {
		nodeEnd := t.upperBound(nodeIndex)
		endPos := min(nodeIndex+t.nodeSize, nodeEnd)
		for pos := nodeIndex; pos < endPos; pos++ {
			b := t.getBox(pos)
			if maxX < b.MinX || maxY < b.MinY || minX > b.MaxX || minY > b.MaxY {
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

// QueryIntersectingK is QueryIntersecting with an early exit once k results
// have been collected. Results appear in traversal order.
func (t *RTree32) QueryIntersectingK(minX, minY, maxX, maxY int32, k int, results *[]int) {
	*results = (*results)[:0]
	if t.numItems == 0 || len(t.levelBounds) == 0 || k == 0 {
		return
	}

	queue := make([]int, 0, 32)
	nodeIndex := t.totalNodes - 1
	for {
		if len(*results) >= k {
			break
		}
		nodeEnd := t.upperBound(nodeIndex)
		endPos := min(nodeIndex+t.nodeSize, nodeEnd)
		for pos := nodeIndex; pos < endPos; pos++ {
			if len(*results) >= k {
				break
			}
			b := t.getBox(pos)
			if maxX < b.MinX || maxY < b.MinY || minX > b.MaxX || minY > b.MaxY {
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

// QueryIntersectingID finds all boxes intersecting the box of an existing
// item, excluding the item itself. Returns an error when itemID is not a
// valid insertion ID.
func (t *RTree32) QueryIntersectingID(itemID int, results *[]int) error {
	*results = (*results)[:0]
	if itemID < 0 || itemID >= t.numItems {
		return fmt.Errorf("rtree: query id %d of %d items: %w", itemID, t.numItems, format.ErrItemOutOfRange)
	}
	b, ok := t.Get(itemID)
	if !ok {
		return nil
	}
	t.QueryIntersecting(b.MinX, b.MinY, b.MaxX, b.MaxY, results)
	for i, id := range *results {
		if id == itemID {
			*results = append((*results)[:i], (*results)[i+1:]...)
			break
		}
	}
	return nil
}

// QueryPoint finds all boxes that contain the point (x, y), edges inclusive.
func (t *RTree32) QueryPoint(x, y int32, results *[]int) {
	*results = (*results)[:0]
	if t.numItems == 0 || len(t.levelBounds) == 0 {
		return
	}

	queue := make([]int, 0, 32)
	nodeIndex := t.totalNodes - 1
	for {
		nodeEnd := t.upperBound(nodeIndex)
		endPos := min(nodeIndex+t.nodeSize, nodeEnd)
		for pos := nodeIndex; pos < endPos; pos++ {
			b := t.getBox(pos)
			if x < b.MinX || x > b.MaxX || y < b.MinY || y > b.MaxY {
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

// QueryContain finds all boxes that fully contain the query window.
func (t *RTree32) QueryContain(minX, minY, maxX, maxY int32, results *[]int) {
	*results = (*results)[:0]
	if t.numItems == 0 || len(t.levelBounds) == 0 {
		return
	}

	queue := make([]int, 0, 32)
	nodeIndex := t.totalNodes - 1
	for {
		nodeEnd := t.upperBound(nodeIndex)
		endPos := min(nodeIndex+t.nodeSize, nodeEnd)
		for pos := nodeIndex; pos < endPos; pos++ {
			b := t.getBox(pos)
			if b.MinX > minX || b.MaxX < maxX || b.MinY > minY || b.MaxY < maxY {
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

// QueryContainedWithin finds all boxes that lie fully inside the query
// window. Internal nodes descend on mere overlap.
func (t *RTree32) QueryContainedWithin(minX, minY, maxX, maxY int32, results *[]int) {
	*results = (*results)[:0]
	if t.numItems == 0 || len(t.levelBounds) == 0 {
		return
	}

	queue := make([]int, 0, 32)
	nodeIndex := t.totalNodes - 1
	for {
		nodeEnd := t.upperBound(nodeIndex)
		endPos := min(nodeIndex+t.nodeSize, nodeEnd)
		for pos := nodeIndex; pos < endPos; pos++ {
			b := t.getBox(pos)
			if pos >= t.numItems {
				if b.MaxX >= minX && b.MaxY >= minY && b.MinX <= maxX && b.MinY <= maxY {
					queue = append(queue, int(t.getIndex(pos)>>format.IndexTagShift))
				}
				continue
			}
			if b.MinX >= minX && b.MaxX <= maxX && b.MinY >= minY && b.MaxY <= maxY {
				*results = append(*results, int(t.getIndex(pos)))
			}
		}
		if len(queue) == 0 {
			break
		}
		nodeIndex = queue[0]
		queue = queue[1:]
	}
}
